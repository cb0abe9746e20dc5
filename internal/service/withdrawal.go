package service

import (
	"time"

	"quizmart/internal/domain"
	"quizmart/internal/metrics"
	"quizmart/internal/models"
	"quizmart/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// WithdrawalService runs the pending -> approved | rejected state machine.
// A request does not reserve funds; the balance is re-checked and debited
// inside the approval's atomic scope.
type WithdrawalService struct {
	db           *gorm.DB
	wallets      *repository.WalletRepository
	withdrawals  *repository.WithdrawalRepository
	transactions *repository.TransactionRepository
}

func NewWithdrawalService(
	db *gorm.DB,
	wallets *repository.WalletRepository,
	withdrawals *repository.WithdrawalRepository,
	transactions *repository.TransactionRepository,
) *WithdrawalService {
	return &WithdrawalService{
		db:           db,
		wallets:      wallets,
		withdrawals:  withdrawals,
		transactions: transactions,
	}
}

// Request creates a pending withdrawal after a balance check. The check can
// go stale before approval; approval re-validates.
func (s *WithdrawalService) Request(userID uint, amountCents int64, provider string) (*models.WithdrawalRequest, error) {
	if amountCents <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	w, err := s.wallets.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if w.BalanceCents < amountCents {
		return nil, domain.ErrInsufficientFunds
	}
	req := &models.WithdrawalRequest{
		UserID:      userID,
		AmountCents: amountCents,
		Provider:    provider,
		Status:      domain.WithdrawalPending,
	}
	if err := s.withdrawals.Create(req); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"withdrawal_id": req.ID,
		"user_id":       userID,
		"amount_cents":  amountCents,
	}).Info("withdrawal requested")
	return req, nil
}

// Approve debits the user and finalizes the request. Not-pending requests
// are a no-op; an insufficient balance at approval time fails the call and
// leaves the request pending.
func (s *WithdrawalService) Approve(adminID, requestID uint) (*models.WithdrawalRequest, error) {
	req, err := s.withdrawals.GetByID(requestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if req.Status != domain.WithdrawalPending {
		return req, domain.ErrAlreadyProcessed
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		flipped, err := s.withdrawals.WithTx(tx).Transition(req.ID, domain.WithdrawalApproved, adminID)
		if err != nil {
			return err
		}
		if !flipped {
			return domain.ErrAlreadyProcessed
		}
		if err := s.wallets.WithTx(tx).Debit(req.UserID, req.AmountCents); err != nil {
			return err
		}
		now := time.Now()
		return s.transactions.WithTx(tx).Create(&models.WalletTransaction{
			TransactionID: "wd-" + uuid.New().String(),
			UserID:        req.UserID,
			Type:          domain.TxWithdrawal,
			AmountCents:   req.AmountCents,
			Status:        domain.TxStatusCompleted,
			CompletedAt:   &now,
			Provider:      req.Provider,
		})
	})
	if err != nil {
		if err == domain.ErrAlreadyProcessed {
			latest, gerr := s.withdrawals.GetByID(requestID)
			if gerr == nil {
				return latest, domain.ErrAlreadyProcessed
			}
		}
		return nil, err
	}
	metrics.WithdrawalTransitionsTotal.WithLabelValues(domain.WithdrawalApproved).Inc()
	logrus.WithFields(logrus.Fields{
		"withdrawal_id": req.ID,
		"user_id":       req.UserID,
		"amount_cents":  req.AmountCents,
		"admin_id":      adminID,
	}).Info("withdrawal approved")
	return s.withdrawals.GetByID(requestID)
}

// Reject finalizes the request without any ledger effect.
func (s *WithdrawalService) Reject(adminID, requestID uint) (*models.WithdrawalRequest, error) {
	req, err := s.withdrawals.GetByID(requestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if req.Status != domain.WithdrawalPending {
		return req, domain.ErrAlreadyProcessed
	}
	flipped, err := s.withdrawals.Transition(req.ID, domain.WithdrawalRejected, adminID)
	if err != nil {
		return nil, err
	}
	if !flipped {
		latest, gerr := s.withdrawals.GetByID(requestID)
		if gerr != nil {
			return nil, gerr
		}
		return latest, domain.ErrAlreadyProcessed
	}
	metrics.WithdrawalTransitionsTotal.WithLabelValues(domain.WithdrawalRejected).Inc()
	return s.withdrawals.GetByID(requestID)
}
