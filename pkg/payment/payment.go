package payment

import (
	"context"
	"time"
)

type PaymentRequest struct {
	UserID      uint
	AmountCents int64
	OrderID     string // correlation token echoed back in callbacks
	Description string
	CallbackURL string
	ExpiresIn   time.Duration
}

type PaymentResponse struct {
	Reference   string
	Status      string
	CheckoutURL string
	ExpiresAt   time.Time
}

// Provider initiates a hosted-checkout session with an external gateway.
// Initiation happens before any ledger mutation; the ledger only moves when
// the gateway's callback is reconciled.
type Provider interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error)
	VerifyPayment(ctx context.Context, reference string) (bool, error)
}
