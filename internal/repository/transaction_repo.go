package repository

import (
	"time"

	"quizmart/internal/domain"
	"quizmart/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

func (r *TransactionRepository) Create(t *models.WalletTransaction) error {
	return r.db.Create(t).Error
}

func (r *TransactionRepository) GetByToken(token string) (*models.WalletTransaction, error) {
	var t models.WalletTransaction
	if err := r.db.Where("transaction_id = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) ListByUser(userID uint, limit, offset int) ([]models.WalletTransaction, error) {
	var list []models.WalletTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// MarkCompleted flips a pending transaction to completed. The status guard in
// the WHERE clause is the idempotency gate: it reports false when the
// transaction already left pending, and the caller must then skip any credit.
func (r *TransactionRepository) MarkCompleted(token string) (bool, error) {
	now := time.Now()
	res := r.db.Model(&models.WalletTransaction{}).
		Where("transaction_id = ? AND status = ?", token, domain.TxStatusPending).
		Updates(map[string]interface{}{
			"status":       domain.TxStatusCompleted,
			"completed_at": &now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkFailed flips a pending transaction to failed, recording the reason.
func (r *TransactionRepository) MarkFailed(token, reason string) (bool, error) {
	res := r.db.Model(&models.WalletTransaction{}).
		Where("transaction_id = ? AND status = ?", token, domain.TxStatusPending).
		Updates(map[string]interface{}{
			"status":      domain.TxStatusFailed,
			"fail_reason": reason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FailStaleRecharges marks pending recharges created before the cutoff as
// failed. It only ever narrows pending rows, so it can race the gateway
// callbacks safely.
func (r *TransactionRepository) FailStaleRecharges(cutoff time.Time) (int64, error) {
	res := r.db.Model(&models.WalletTransaction{}).
		Where("type = ? AND status = ? AND created_at < ?",
			domain.TxRecharge, domain.TxStatusPending, cutoff).
		Updates(map[string]interface{}{
			"status":      domain.TxStatusFailed,
			"fail_reason": "expired",
		})
	return res.RowsAffected, res.Error
}
