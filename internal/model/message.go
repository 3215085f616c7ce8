package model

import "time"

// Message ID 由 snowflake 生成，同一时间戳下按 ID 排序
type Message struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	CommunityID uint64    `gorm:"not null;index:idx_community_time,priority:1" json:"communityId"`
	SenderID    uint64    `gorm:"not null;index" json:"senderId"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `gorm:"index:idx_community_time,priority:2" json:"createdAt"`

	Sender *UserBrief `gorm:"-" json:"sender,omitempty"`
}
