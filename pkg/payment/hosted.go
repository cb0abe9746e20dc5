package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HostedCheckoutProvider creates a redirect-style checkout session against a
// JSON gateway API. The gateway later posts the result to our callback
// endpoints carrying the order_id as correlation token.
type HostedCheckoutProvider struct {
	BaseURL     string
	APIKey      string
	WebhookBase string
	client      *http.Client
}

func NewHostedCheckoutProvider(baseURL, apiKey, webhookBase string) *HostedCheckoutProvider {
	return &HostedCheckoutProvider{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		WebhookBase: webhookBase,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type checkoutSessionReq struct {
	AmountCents int64  `json:"amount_cents"`
	OrderID     string `json:"order_id"`
	Description string `json:"description"`
	SuccessURL  string `json:"success_url"`
	FailureURL  string `json:"failure_url"`
	CancelURL   string `json:"cancel_url"`
	IPNURL      string `json:"ipn_url"`
}

type checkoutSessionResp struct {
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
	ExpiresAt   string `json:"expires_at"`
}

func (p *HostedCheckoutProvider) InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	payload := checkoutSessionReq{
		AmountCents: req.AmountCents,
		OrderID:     req.OrderID,
		Description: req.Description,
		SuccessURL:  p.WebhookBase + "/api/v1/webhooks/gateway/success",
		FailureURL:  p.WebhookBase + "/api/v1/webhooks/gateway/failure",
		CancelURL:   p.WebhookBase + "/api/v1/webhooks/gateway/cancel",
		IPNURL:      p.WebhookBase + "/api/v1/webhooks/gateway/ipn",
	}
	body, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("checkout session: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("checkout session: status %d", resp.StatusCode)
	}
	var out checkoutSessionResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(req.ExpiresIn)
	if t, err := time.Parse(time.RFC3339, out.ExpiresAt); err == nil {
		expiresAt = t
	}
	return &PaymentResponse{
		Reference:   out.Reference,
		Status:      out.Status,
		CheckoutURL: out.CheckoutURL,
		ExpiresAt:   expiresAt,
	}, nil
}

func (p *HostedCheckoutProvider) VerifyPayment(ctx context.Context, reference string) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/v1/checkout/sessions/"+reference, nil)
	if err != nil {
		return false, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verify: status %d", resp.StatusCode)
	}
	var out checkoutSessionResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, err
	}
	return out.Status == "COMPLETED", nil
}
