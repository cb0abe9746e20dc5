package repository

import (
	"quizmart/internal/domain"
	"quizmart/internal/models"

	"gorm.io/gorm"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// WithTx returns a copy bound to the given transaction so balance mutations
// land in the same atomic scope as their ledger entries.
func (r *WalletRepository) WithTx(tx *gorm.DB) *WalletRepository {
	return &WalletRepository{db: tx}
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.WalletAccount, error) {
	var w models.WalletAccount
	if err := r.db.Where("user_id = ?", userID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// GetOrCreate returns the user's account, creating a zero-balance one if
// absent. Accounts are never deleted.
func (r *WalletRepository) GetOrCreate(userID uint) (*models.WalletAccount, error) {
	var w models.WalletAccount
	err := r.db.Where(models.WalletAccount{UserID: userID}).FirstOrCreate(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Credit increments the balance atomically. The account is created first if
// the user has never been referenced.
func (r *WalletRepository) Credit(userID uint, amountCents int64) error {
	if _, err := r.GetOrCreate(userID); err != nil {
		return err
	}
	return r.db.Model(&models.WalletAccount{}).
		Where("user_id = ?", userID).
		Update("balance_cents", gorm.Expr("balance_cents + ?", amountCents)).Error
}

// Debit decrements the balance atomically. The sufficiency check lives in the
// UPDATE's WHERE clause, so a concurrent debit can never drive the balance
// negative; when the guard misses, nothing is mutated.
func (r *WalletRepository) Debit(userID uint, amountCents int64) error {
	if _, err := r.GetOrCreate(userID); err != nil {
		return err
	}
	res := r.db.Model(&models.WalletAccount{}).
		Where("user_id = ? AND balance_cents >= ?", userID, amountCents).
		Update("balance_cents", gorm.Expr("balance_cents - ?", amountCents))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInsufficientFunds
	}
	return nil
}
