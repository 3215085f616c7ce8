package model

import "time"

type Community struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatorID   uint64    `gorm:"not null;index" json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// 以下字段查询时回填，不落库
	Creator *UserBrief  `gorm:"-" json:"creator,omitempty"`
	Members []UserBrief `gorm:"-" json:"members"`
}

// CommunityMember 成员关系唯一来源，用户侧的社区列表也由此推导
type CommunityMember struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	Role        int    `gorm:"not null;default:0"` // 0=member, 1=creator
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MemberRow 成员联表查询结果
type MemberRow struct {
	CommunityID uint64
	UserID      uint64
	Username    string
}
