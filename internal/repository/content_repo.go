package repository

import (
	"quizmart/internal/domain"
	"quizmart/internal/models"

	"gorm.io/gorm"
)

type QuizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) WithTx(tx *gorm.DB) *QuizRepository {
	return &QuizRepository{db: tx}
}

func (r *QuizRepository) Create(q *models.Quiz) error {
	return r.db.Create(q).Error
}

func (r *QuizRepository) GetByID(id uint) (*models.Quiz, error) {
	var q models.Quiz
	if err := r.db.First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuizRepository) List(limit, offset int) ([]models.Quiz, error) {
	var list []models.Quiz
	err := r.db.Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *QuizRepository) UpdateStatus(id uint, status, rejectionNote string) error {
	return r.db.Model(&models.Quiz{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"rejection_note": rejectionNote,
		}).Error
}

// Publish flips a not-yet-published quiz to published. The status guard in
// the WHERE clause makes the flip happen at most once, so the caller can tie
// the publishing fee debit to the winning approval only.
func (r *QuizRepository) Publish(id uint) (bool, error) {
	res := r.db.Model(&models.Quiz{}).
		Where("id = ? AND status <> ?", id, domain.QuizStatusPublished).
		Update("status", domain.QuizStatusPublished)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) WithTx(tx *gorm.DB) *CourseRepository {
	return &CourseRepository{db: tx}
}

func (r *CourseRepository) Create(c *models.Course) error {
	return r.db.Create(c).Error
}

func (r *CourseRepository) GetByID(id uint) (*models.Course, error) {
	var c models.Course
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CourseRepository) List(limit, offset int) ([]models.Course, error) {
	var list []models.Course
	err := r.db.Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *CourseRepository) UpdateStatus(id uint, status, rejectionNote string) error {
	return r.db.Model(&models.Course{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"rejection_note": rejectionNote,
		}).Error
}

// Approve flips a not-yet-approved course to approved, clearing any prior
// rejection note. Guarded so concurrent approvals charge the fee once.
func (r *CourseRepository) Approve(id uint) (bool, error) {
	res := r.db.Model(&models.Course{}).
		Where("id = ? AND status <> ?", id, domain.CourseStatusApproved).
		Updates(map[string]interface{}{
			"status":         domain.CourseStatusApproved,
			"rejection_note": "",
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
