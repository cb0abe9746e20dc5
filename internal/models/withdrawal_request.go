package models

import (
	"time"

	"gorm.io/gorm"
)

// WithdrawalRequest gates a cash-out behind administrative approval. Balance
// is debited at approval time, not request time, so a pending request does
// not reserve funds.
type WithdrawalRequest struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	Provider    string         `gorm:"size:50;not null" json:"provider"`
	Status      string         `gorm:"size:20;not null;index" json:"status"` // pending, approved, rejected
	ApprovedAt  *time.Time     `json:"approved_at,omitempty"`
	ApprovedBy  *uint          `json:"approved_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (WithdrawalRequest) TableName() string { return "withdrawal_requests" }
