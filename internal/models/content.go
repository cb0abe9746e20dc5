package models

import (
	"time"

	"gorm.io/gorm"
)

type Quiz struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	OwnerID       uint           `gorm:"not null;index" json:"owner_id"`
	IsPaid        bool           `gorm:"not null;default:false" json:"is_paid"`
	PriceCents    int64          `gorm:"not null;default:0" json:"price_cents"`
	Status        string         `gorm:"size:20;not null;index" json:"status"` // pending, published, rejected
	RejectionNote string         `gorm:"size:512" json:"rejection_note,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Quiz) TableName() string { return "quizzes" }

type Course struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	OwnerID       uint           `gorm:"not null;index" json:"owner_id"`
	IsPaid        bool           `gorm:"not null;default:false" json:"is_paid"`
	PriceCents    int64          `gorm:"not null;default:0" json:"price_cents"`
	Status        string         `gorm:"size:20;not null;index" json:"status"` // pending, approved, rejected
	RejectionNote string         `gorm:"size:512" json:"rejection_note,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Course) TableName() string { return "courses" }

// Enrollment links a buyer to content. (kind, content_id, user_id) is unique
// so enrollment creation is a get-or-create.
type Enrollment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;uniqueIndex:idx_enrollment,priority:3" json:"user_id"`
	ContentKind string         `gorm:"size:10;not null;uniqueIndex:idx_enrollment,priority:1" json:"content_kind"` // quiz | course
	ContentID   uint           `gorm:"not null;uniqueIndex:idx_enrollment,priority:2" json:"content_id"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Enrollment) TableName() string { return "enrollments" }
