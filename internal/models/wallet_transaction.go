package models

import (
	"time"

	"quizmart/internal/domain"

	"gorm.io/gorm"
)

// WalletTransaction is one ledger entry. AmountCents is always positive; the
// entry's direction comes from Type. Status moves at most once from pending
// to completed or failed and is immutable afterwards.
//
// Correlation is carried in typed columns (Provider, GatewayRef, QuizID,
// CourseID) rather than an opaque metadata blob, so "transactions for quiz X"
// is an indexed query.
type WalletTransaction struct {
	ID            uint                   `gorm:"primaryKey" json:"id"`
	TransactionID string                 `gorm:"size:64;uniqueIndex;not null" json:"transaction_id"`
	UserID        uint                   `gorm:"not null;index" json:"user_id"`
	Type          domain.TransactionType `gorm:"size:30;not null;index" json:"type"`
	AmountCents   int64                  `gorm:"not null" json:"amount_cents"`
	Status        string                 `gorm:"size:20;not null;index" json:"status"` // pending, completed, failed
	Provider      string                 `gorm:"size:50" json:"provider,omitempty"`
	GatewayRef    string                 `gorm:"size:128" json:"gateway_ref,omitempty"`
	QuizID        *uint                  `gorm:"index" json:"quiz_id,omitempty"`
	CourseID      *uint                  `gorm:"index" json:"course_id,omitempty"`
	FailReason    string                 `gorm:"size:255" json:"fail_reason,omitempty"`
	CompletedAt   *time.Time             `json:"completed_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	DeletedAt     gorm.DeletedAt         `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (WalletTransaction) TableName() string { return "wallet_transactions" }

func (t *WalletTransaction) IsTerminal() bool {
	return t.Status == domain.TxStatusCompleted || t.Status == domain.TxStatusFailed
}
