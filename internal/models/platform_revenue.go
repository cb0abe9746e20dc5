package models

import (
	"time"

	"gorm.io/gorm"
)

// PlatformRevenue is an append-only record of the platform's share of a
// settled commercial event. Exactly one of QuizID/CourseID is set. BuyerID is
// nil for approval fees.
type PlatformRevenue struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	QuizID      *uint          `gorm:"index" json:"quiz_id,omitempty"`
	CourseID    *uint          `gorm:"index" json:"course_id,omitempty"`
	BuyerID     *uint          `gorm:"index" json:"buyer_id,omitempty"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	Source      string         `gorm:"size:30;not null;index" json:"source"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PlatformRevenue) TableName() string { return "platform_revenues" }
