package model

import "time"

type Role string

const (
	RoleMember   Role = "member"
	RoleReviewer Role = "reviewer"
)

func (r Role) Valid() bool {
	return r == RoleMember || r == RoleReviewer
}

type User struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	Fullname    string    `gorm:"size:64" json:"fullname"`
	Email       string    `gorm:"uniqueIndex;size:64;not null" json:"email"`
	PhoneNumber string    `gorm:"size:32" json:"phoneNumber"`
	Role        Role      `gorm:"size:16;not null;default:member;index" json:"role"`
	Verified    bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserBrief 对外展示用，只带用户名
type UserBrief struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}
