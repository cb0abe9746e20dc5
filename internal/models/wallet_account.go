package models

import (
	"time"

	"gorm.io/gorm"
)

// WalletAccount holds one user's custodial balance. Created lazily on first
// reference and never deleted. BalanceCents never goes below zero; every
// debit path guards the decrement inside the same database transaction.
type WalletAccount struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	BalanceCents int64          `gorm:"not null;default:0" json:"balance_cents"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (WalletAccount) TableName() string { return "wallet_accounts" }
