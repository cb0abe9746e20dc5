package models

import (
	"time"

	"gorm.io/gorm"
)

// AuditLog records administrative mutations (approvals, rejections, refunds,
// setting changes).
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     *uint          `gorm:"index" json:"user_id,omitempty"`
	Action     string         `gorm:"size:64;not null;index" json:"action"`
	Resource   string         `gorm:"size:64;not null" json:"resource"`
	ResourceID string         `gorm:"size:64" json:"resource_id"`
	IP         string         `gorm:"size:64" json:"ip"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AuditLog) TableName() string { return "audit_logs" }
