package model

import "time"

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

type Application struct {
	ID             uint64            `gorm:"primaryKey" json:"id"`
	ApplicantID    uint64            `gorm:"not null;index" json:"applicantId"`
	Status         ApplicationStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	ReviewerID     *uint64           `gorm:"index" json:"reviewerId,omitempty"`
	BusinessName   string            `gorm:"size:128" json:"businessName"`
	BusinessType   string            `gorm:"size:64;not null" json:"businessType"`
	BusinessStage  string            `gorm:"size:64;not null" json:"businessStage"`
	NumEmployees   *int              `json:"numEmployees,omitempty"`
	MonthlyIncome  float64           `gorm:"not null" json:"monthlyIncome"`
	FundingPurpose string            `gorm:"type:text;not null" json:"fundingPurpose"`
	RequiredAmount float64           `gorm:"not null" json:"requiredAmount"`
	FundingType    string            `gorm:"size:64;not null" json:"fundingType"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`

	Applicant *UserBrief `gorm:"-" json:"applicant,omitempty"`
	Reviewer  *UserBrief `gorm:"-" json:"processedBy,omitempty"`
}
