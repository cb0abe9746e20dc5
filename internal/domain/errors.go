package domain

import "errors"

var (
	// ErrInsufficientFunds means a balance check failed; no mutation was made.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	// ErrInvalidPrice means paid content carries a non-positive price.
	ErrInvalidPrice = errors.New("invalid content price")
	// ErrAlreadyProcessed marks an idempotent no-op (transaction already terminal,
	// content already approved). Callers surface it as a 200, not a failure.
	ErrAlreadyProcessed = errors.New("already processed")
	// ErrNotPending means a state machine transition was attempted on a record
	// that already left the pending state.
	ErrNotPending = errors.New("not pending")
	ErrNotFound   = errors.New("not found")
)
