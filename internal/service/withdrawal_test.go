package service

import (
	"testing"

	"quizmart/internal/domain"
	"quizmart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdrawalRequestChecksBalance(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, domain.RoleInstructor)
	f.fund(t, u.ID, 500)

	_, err := f.withdrawal.Request(u.ID, 600, "bank")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	req, err := f.withdrawal.Request(u.ID, 500, "bank")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalPending, req.Status)

	// The request does not reserve funds.
	assert.Equal(t, int64(500), f.balance(t, u.ID))
}

func TestWithdrawalRequestRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, domain.RoleInstructor)

	_, err := f.withdrawal.Request(u.ID, 0, "bank")
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	_, err = f.withdrawal.Request(u.ID, -100, "bank")
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestWithdrawalApproveDebitsAndStamps(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, domain.RoleAdmin)
	u := f.user(t, domain.RoleInstructor)
	f.fund(t, u.ID, 900)
	req, err := f.withdrawal.Request(u.ID, 700, "bank")
	require.NoError(t, err)

	got, err := f.withdrawal.Approve(admin.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalApproved, got.Status)
	assert.NotNil(t, got.ApprovedAt)
	require.NotNil(t, got.ApprovedBy)
	assert.Equal(t, admin.ID, *got.ApprovedBy)

	assert.Equal(t, int64(200), f.balance(t, u.ID))
	assert.Equal(t, int64(1), f.txCount(t, u.ID, domain.TxWithdrawal))

	var tx models.WalletTransaction
	require.NoError(t, f.db.Where("user_id = ? AND type = ?", u.ID, domain.TxWithdrawal).First(&tx).Error)
	assert.Equal(t, int64(700), tx.AmountCents)
	assert.Equal(t, domain.TxStatusCompleted, tx.Status)
	assert.Equal(t, "bank", tx.Provider)
}

func TestWithdrawalApproveTwiceNoDoubleDebit(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, domain.RoleAdmin)
	u := f.user(t, domain.RoleInstructor)
	f.fund(t, u.ID, 900)
	req, err := f.withdrawal.Request(u.ID, 700, "bank")
	require.NoError(t, err)

	_, err = f.withdrawal.Approve(admin.ID, req.ID)
	require.NoError(t, err)

	got, err := f.withdrawal.Approve(admin.ID, req.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Equal(t, domain.WithdrawalApproved, got.Status)
	assert.Equal(t, int64(200), f.balance(t, u.ID))
	assert.Equal(t, int64(1), f.txCount(t, u.ID, domain.TxWithdrawal))
}

func TestWithdrawalApproveAfterBalanceDrained(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, domain.RoleAdmin)
	u := f.user(t, domain.RoleInstructor)
	f.fund(t, u.ID, 700)
	req, err := f.withdrawal.Request(u.ID, 700, "bank")
	require.NoError(t, err)

	// Balance goes stale between request and approval.
	require.NoError(t, f.wallets.Debit(u.ID, 400))

	_, err = f.withdrawal.Approve(admin.ID, req.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// The failed debit rolled the status flip back.
	got, gerr := f.withdrawals.GetByID(req.ID)
	require.NoError(t, gerr)
	assert.Equal(t, domain.WithdrawalPending, got.Status)
	assert.Equal(t, int64(300), f.balance(t, u.ID))
	assert.Equal(t, int64(0), f.txCount(t, u.ID, domain.TxWithdrawal))
}

func TestWithdrawalReject(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, domain.RoleAdmin)
	u := f.user(t, domain.RoleInstructor)
	f.fund(t, u.ID, 700)
	req, err := f.withdrawal.Request(u.ID, 700, "bank")
	require.NoError(t, err)

	got, err := f.withdrawal.Reject(admin.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalRejected, got.Status)

	// Rejection never touches the wallet.
	assert.Equal(t, int64(700), f.balance(t, u.ID))
	var n int64
	require.NoError(t, f.db.Model(&models.WalletTransaction{}).Count(&n).Error)
	assert.Zero(t, n)

	// Terminal requests cannot be approved afterwards.
	got, err = f.withdrawal.Approve(admin.ID, req.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	assert.Equal(t, domain.WithdrawalRejected, got.Status)
}

func TestWithdrawalUnknownRequest(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, domain.RoleAdmin)
	_, err := f.withdrawal.Approve(admin.ID, 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.withdrawal.Reject(admin.ID, 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
