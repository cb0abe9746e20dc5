package repository

import (
	"quizmart/internal/models"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) WithTx(tx *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: tx}
}

func (r *EnrollmentRepository) Exists(kind string, contentID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Enrollment{}).
		Where("content_kind = ? AND content_id = ? AND user_id = ?", kind, contentID, userID).
		Count(&count).Error
	return count > 0, err
}

// GetOrCreate enrolls the user idempotently, reporting whether a new row was
// written.
func (r *EnrollmentRepository) GetOrCreate(kind string, contentID, userID uint) (created bool, err error) {
	var e models.Enrollment
	res := r.db.Where(models.Enrollment{
		ContentKind: kind,
		ContentID:   contentID,
		UserID:      userID,
	}).FirstOrCreate(&e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]models.Enrollment, error) {
	var list []models.Enrollment
	err := r.db.Where("user_id = ?", userID).Order("id DESC").Find(&list).Error
	return list, err
}
