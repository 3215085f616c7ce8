package model

import "time"

const (
	EventSubmitted     = "submitted"
	EventStatusChanged = "status_changed"
	EventDeleted       = "deleted"
)

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// ApplicationOutbox 申请事件表，和业务写入同一事务
type ApplicationOutbox struct {
	ID            uint64 `gorm:"primaryKey"`
	EventType     string `gorm:"size:32;not null"`
	ApplicationID uint64 `gorm:"not null;index"`
	Payload       string `gorm:"type:json;not null"`
	Status        int8   `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry         int    `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ApplicationOutbox) TableName() string { return "application_outbox" }
