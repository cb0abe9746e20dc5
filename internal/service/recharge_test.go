package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizmart/internal/domain"
	"quizmart/internal/models"
	"quizmart/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecharge(f *fixture, p payment.Provider) *RechargeService {
	return NewRechargeService(f.db, p, "stub", time.Hour, f.wallets, f.transactions)
}

type failingProvider struct{}

func (failingProvider) InitiatePayment(ctx context.Context, req payment.PaymentRequest) (*payment.PaymentResponse, error) {
	return nil, errors.New("gateway unreachable")
}

func (failingProvider) VerifyPayment(ctx context.Context, reference string) (bool, error) {
	return false, errors.New("gateway unreachable")
}

func TestRechargeInitiateCreatesPending(t *testing.T) {
	f := newFixture(t)
	svc := newRecharge(f, &payment.StubProvider{})
	u := f.user(t, domain.RoleStudent)

	tx, _, err := svc.Initiate(context.Background(), u.ID, 1500, "")
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusPending, tx.Status)
	assert.Equal(t, domain.TxRecharge, tx.Type)
	assert.Equal(t, int64(1500), tx.AmountCents)
	assert.NotEmpty(t, tx.GatewayRef)

	// No credit before the gateway confirms.
	assert.Equal(t, int64(0), f.balance(t, u.ID))
}

func TestRechargeInitiateRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)
	svc := newRecharge(f, &payment.StubProvider{})
	u := f.user(t, domain.RoleStudent)

	_, _, err := svc.Initiate(context.Background(), u.ID, 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	_, _, err = svc.Initiate(context.Background(), u.ID, -10, "")
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestRechargeInitiateGatewayFailureKeepsPendingRow(t *testing.T) {
	f := newFixture(t)
	svc := newRecharge(f, failingProvider{})
	u := f.user(t, domain.RoleStudent)

	_, _, err := svc.Initiate(context.Background(), u.ID, 1500, "")
	require.Error(t, err)

	// The sweep cleans the orphaned row up later.
	var n int64
	require.NoError(t, f.db.Model(&models.WalletTransaction{}).
		Where("user_id = ? AND status = ?", u.ID, domain.TxStatusPending).Count(&n).Error)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, int64(0), f.balance(t, u.ID))
}

func TestRechargeSuccessCreditsOnce(t *testing.T) {
	f := newFixture(t)
	svc := newRecharge(f, &payment.StubProvider{})
	u := f.user(t, domain.RoleStudent)
	tx, _, err := svc.Initiate(context.Background(), u.ID, 1500, "")
	require.NoError(t, err)

	got, err := svc.HandleSuccess(context.Background(), tx.TransactionID, 1500, "gw-ref-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusCompleted, got.Status)
	assert.Equal(t, "gw-ref-1", got.GatewayRef)
	assert.Equal(t, int64(1500), f.balance(t, u.ID))

	// Duplicate delivery acknowledges without a second credit.
	got, err = svc.HandleSuccess(context.Background(), tx.TransactionID, 1500, "gw-ref-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Equal(t, domain.TxStatusCompleted, got.Status)
	assert.Equal(t, int64(1500), f.balance(t, u.ID))
}

func TestRechargeSuccessWithoutPayloadAmount(t *testing.T) {
	f := newFixture(t)
	svc := newRecharge(f, &payment.StubProvider{})
	u := f.user(t, domain.RoleStudent)
	tx, _, err := svc.Initiate(context.Background(), u.ID, 700, "")
	require.NoError(t, err)

	// Zero payload amount means the callback carried none; the stored
	// amount is credited.
	_, err = svc.HandleSuccess(context.Background(), tx.TransactionID, 0, "")
	require.NoError(t, err)
	assert.Equal(t, int64(700), f.balance(t, u.ID))
}

func TestRechargeAmountMismatchLeavesPending(t *testing.T) {
	f := newFixture(t)
	svc := newRecharge(f, &payment.StubProvider{})
	u := f.user(t, domain.RoleStudent)
	tx, _, err := svc.Initiate(context.Background(), u.ID, 1500, "")
	require.NoError(t, err)

	_, err = svc.HandleSuccess(context.Background(), tx.TransactionID, 999, "gw-ref-x")
	assert.ErrorIs(t, err, domain.ErrNotPending)
	assert.Equal(t, int64(0), f.balance(t, u.ID))

	got, err := f.transactions.GetByToken(tx.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusPending, got.Status)

	// A later correct delivery still settles it.
	_, err = svc.HandleSuccess(context.Background(), tx.TransactionID, 1500, "gw-ref-x")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), f.balance(t, u.ID))
}

func TestRechargeFailureThenSuccess(t *testing.T) {
	f := newFixture(t)
	svc := newRecharge(f, &payment.StubProvider{})
	u := f.user(t, domain.RoleStudent)
	tx, _, err := svc.Initiate(context.Background(), u.ID, 1500, "")
	require.NoError(t, err)

	got, err := svc.HandleFailure(context.Background(), tx.TransactionID, "card declined")
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusFailed, got.Status)
	assert.Equal(t, "card declined", got.FailReason)
	assert.Equal(t, int64(0), f.balance(t, u.ID))

	// A success arriving after the failure is terminal-gated out.
	_, err = svc.HandleSuccess(context.Background(), tx.TransactionID, 1500, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Equal(t, int64(0), f.balance(t, u.ID))
}

func TestRechargeUnknownToken(t *testing.T) {
	f := newFixture(t)
	svc := newRecharge(f, &payment.StubProvider{})

	_, err := svc.HandleSuccess(context.Background(), "rch-missing", 100, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.HandleFailure(context.Background(), "rch-missing", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRechargeExpireStale(t *testing.T) {
	f := newFixture(t)
	svc := NewRechargeService(f.db, &payment.StubProvider{}, "stub", time.Minute, f.wallets, f.transactions)
	u := f.user(t, domain.RoleStudent)
	tx, _, err := svc.Initiate(context.Background(), u.ID, 1500, "")
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&models.WalletTransaction{}).
		Where("transaction_id = ?", tx.TransactionID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	n, err := svc.ExpireStale()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := f.transactions.GetByToken(tx.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusFailed, got.Status)

	// Expired means the late success no longer credits.
	_, err = svc.HandleSuccess(context.Background(), tx.TransactionID, 1500, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Equal(t, int64(0), f.balance(t, u.ID))
}
