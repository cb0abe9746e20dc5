package repository

import (
	"quizmart/internal/models"

	"gorm.io/gorm"
)

type RevenueRepository struct {
	db *gorm.DB
}

func NewRevenueRepository(db *gorm.DB) *RevenueRepository {
	return &RevenueRepository{db: db}
}

func (r *RevenueRepository) WithTx(tx *gorm.DB) *RevenueRepository {
	return &RevenueRepository{db: tx}
}

func (r *RevenueRepository) Create(rev *models.PlatformRevenue) error {
	return r.db.Create(rev).Error
}

func (r *RevenueRepository) List(limit, offset int) ([]models.PlatformRevenue, error) {
	var list []models.PlatformRevenue
	err := r.db.Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *RevenueRepository) TotalCents() (int64, error) {
	var total int64
	err := r.db.Model(&models.PlatformRevenue{}).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&total).Error
	return total, err
}
