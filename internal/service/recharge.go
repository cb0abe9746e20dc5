package service

import (
	"context"
	"time"

	"quizmart/internal/domain"
	"quizmart/internal/metrics"
	"quizmart/internal/models"
	"quizmart/internal/repository"
	"quizmart/pkg/payment"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RechargeService reconciles external gateway callbacks onto pending
// recharge transactions. A transaction's terminal status is the single
// idempotency gate: callbacks may arrive zero, one or many times, in any
// order, and credit the wallet at most once.
type RechargeService struct {
	db           *gorm.DB
	provider     payment.Provider
	providerName string
	expiry       time.Duration
	wallets      *repository.WalletRepository
	transactions *repository.TransactionRepository
}

func NewRechargeService(
	db *gorm.DB,
	provider payment.Provider,
	providerName string,
	expiry time.Duration,
	wallets *repository.WalletRepository,
	transactions *repository.TransactionRepository,
) *RechargeService {
	return &RechargeService{
		db:           db,
		provider:     provider,
		providerName: providerName,
		expiry:       expiry,
		wallets:      wallets,
		transactions: transactions,
	}
}

// Initiate creates the pending transaction with a fresh correlation token and
// then opens the gateway checkout session. The gateway call happens outside
// any database transaction.
func (s *RechargeService) Initiate(ctx context.Context, userID uint, amountCents int64, providerName string) (*models.WalletTransaction, string, error) {
	if amountCents <= 0 {
		return nil, "", domain.ErrInvalidPrice
	}
	if providerName == "" {
		providerName = s.providerName
	}
	token := "rch-" + uuid.New().String()
	t := &models.WalletTransaction{
		TransactionID: token,
		UserID:        userID,
		Type:          domain.TxRecharge,
		AmountCents:   amountCents,
		Status:        domain.TxStatusPending,
		Provider:      providerName,
	}
	if err := s.transactions.Create(t); err != nil {
		return nil, "", err
	}
	resp, err := s.provider.InitiatePayment(ctx, payment.PaymentRequest{
		UserID:      userID,
		AmountCents: amountCents,
		OrderID:     token,
		Description: "Quizmart wallet recharge",
		ExpiresIn:   s.expiry,
	})
	if err != nil {
		// The pending row stays; the expiry sweep fails it later if the
		// gateway never confirms.
		logrus.WithError(err).WithField("transaction_id", token).Error("gateway initiation failed")
		return nil, "", err
	}
	if resp.Reference != "" {
		t.GatewayRef = resp.Reference
		if err := s.db.Model(t).Update("gateway_ref", resp.Reference).Error; err != nil {
			return nil, "", err
		}
	}
	logrus.WithFields(logrus.Fields{
		"transaction_id": token,
		"user_id":        userID,
		"amount_cents":   amountCents,
		"provider":       providerName,
	}).Info("recharge initiated")
	return t, resp.CheckoutURL, nil
}

// HandleSuccess resolves the transaction by its correlation token and, if it
// is still pending, completes it and credits the account. payloadAmountCents
// of zero means the payload carried no amount; any non-zero mismatch fails
// closed, leaving the transaction pending.
func (s *RechargeService) HandleSuccess(ctx context.Context, token string, payloadAmountCents int64, gatewayRef string) (*models.WalletTransaction, error) {
	t, err := s.transactions.GetByToken(token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			metrics.GatewayCallbacksTotal.WithLabelValues("unknown").Inc()
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if t.IsTerminal() {
		metrics.GatewayCallbacksTotal.WithLabelValues("duplicate").Inc()
		return t, domain.ErrAlreadyProcessed
	}
	if payloadAmountCents != 0 && payloadAmountCents != t.AmountCents {
		// Crediting an unverified external amount is the highest-risk defect
		// in this subsystem. Leave the transaction pending.
		metrics.GatewayCallbacksTotal.WithLabelValues("mismatch").Inc()
		logrus.WithFields(logrus.Fields{
			"transaction_id": token,
			"expected_cents": t.AmountCents,
			"payload_cents":  payloadAmountCents,
		}).Warn("gateway amount mismatch, transaction left pending")
		return nil, domain.ErrNotPending
	}

	var flipped bool
	err = s.db.Transaction(func(tx *gorm.DB) error {
		flipped, err = s.transactions.WithTx(tx).MarkCompleted(token)
		if err != nil {
			return err
		}
		if !flipped {
			return nil
		}
		if gatewayRef != "" {
			if err := tx.Model(&models.WalletTransaction{}).
				Where("transaction_id = ?", token).
				Update("gateway_ref", gatewayRef).Error; err != nil {
				return err
			}
		}
		return s.wallets.WithTx(tx).Credit(t.UserID, t.AmountCents)
	})
	if err != nil {
		return nil, err
	}
	t, err = s.transactions.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if !flipped {
		// Lost a race with a duplicate delivery; the winner credited.
		metrics.GatewayCallbacksTotal.WithLabelValues("duplicate").Inc()
		return t, domain.ErrAlreadyProcessed
	}
	metrics.GatewayCallbacksTotal.WithLabelValues("completed").Inc()
	logrus.WithFields(logrus.Fields{
		"transaction_id": token,
		"user_id":        t.UserID,
		"amount_cents":   t.AmountCents,
	}).Info("recharge completed")
	return t, nil
}

// HandleFailure resolves the transaction and marks it failed if still
// pending. No ledger credit ever happens here.
func (s *RechargeService) HandleFailure(ctx context.Context, token, reason string) (*models.WalletTransaction, error) {
	t, err := s.transactions.GetByToken(token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			metrics.GatewayCallbacksTotal.WithLabelValues("unknown").Inc()
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if t.IsTerminal() {
		metrics.GatewayCallbacksTotal.WithLabelValues("duplicate").Inc()
		return t, domain.ErrAlreadyProcessed
	}
	flipped, err := s.transactions.MarkFailed(token, reason)
	if err != nil {
		return nil, err
	}
	t, err = s.transactions.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if !flipped {
		metrics.GatewayCallbacksTotal.WithLabelValues("duplicate").Inc()
		return t, domain.ErrAlreadyProcessed
	}
	metrics.GatewayCallbacksTotal.WithLabelValues("failed").Inc()
	logrus.WithFields(logrus.Fields{
		"transaction_id": token,
		"reason":         reason,
	}).Info("recharge failed")
	return t, nil
}

// ExpireStale fails pending recharges older than the configured expiry.
func (s *RechargeService) ExpireStale() (int64, error) {
	cutoff := time.Now().Add(-s.expiry)
	n, err := s.transactions.FailStaleRecharges(cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.RechargesExpiredTotal.Add(float64(n))
		logrus.WithField("count", n).Info("expired stale pending recharges")
	}
	return n, nil
}
