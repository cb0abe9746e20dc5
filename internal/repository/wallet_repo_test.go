package repository

import (
	"testing"

	"quizmart/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletGetOrCreate(t *testing.T) {
	db := newTestDB(t)
	repo := NewWalletRepository(db)

	w, err := repo.GetOrCreate(7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), w.UserID)
	assert.Equal(t, int64(0), w.BalanceCents)

	again, err := repo.GetOrCreate(7)
	require.NoError(t, err)
	assert.Equal(t, w.ID, again.ID)
}

func TestWalletCreditDebit(t *testing.T) {
	db := newTestDB(t)
	repo := NewWalletRepository(db)

	require.NoError(t, repo.Credit(1, 1000))
	require.NoError(t, repo.Debit(1, 400))

	w, err := repo.GetByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(600), w.BalanceCents)

	// Draining to exactly zero is allowed.
	require.NoError(t, repo.Debit(1, 600))
	w, err = repo.GetByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.BalanceCents)
}

func TestWalletDebitInsufficient(t *testing.T) {
	db := newTestDB(t)
	repo := NewWalletRepository(db)

	require.NoError(t, repo.Credit(1, 300))
	err := repo.Debit(1, 301)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// The failed debit must not mutate anything.
	w, err := repo.GetByUserID(1)
	require.NoError(t, err)
	assert.Equal(t, int64(300), w.BalanceCents)
}

func TestWalletDebitUnknownUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewWalletRepository(db)

	err := repo.Debit(99, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// The debit attempt lazily created the zero-balance account.
	w, gerr := repo.GetByUserID(99)
	require.NoError(t, gerr)
	assert.Equal(t, int64(0), w.BalanceCents)
}
