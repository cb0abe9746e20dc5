package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"quizmart/internal/domain"
	"quizmart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GatewayCallback is the payload posted by the hosted-checkout gateway. The
// order_id echoes our correlation token; amount_cents is the gateway's view
// of the charged amount.
type GatewayCallback struct {
	OrderID     string `json:"order_id"`
	Reference   string `json:"reference"`
	AmountCents int64  `json:"amount_cents"`
	Status      string `json:"status"`
	Reason      string `json:"reason"`
}

type GatewayWebhookHandler struct {
	recharge *service.RechargeService
}

func NewGatewayWebhookHandler(recharge *service.RechargeService) *GatewayWebhookHandler {
	return &GatewayWebhookHandler{recharge: recharge}
}

func (h *GatewayWebhookHandler) parse(c *gin.Context) (*GatewayCallback, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return nil, false
	}
	logrus.WithField("body", string(body)).Debug("gateway callback received")
	var payload GatewayCallback
	if err := json.Unmarshal(body, &payload); err != nil {
		logrus.WithError(err).Warn("gateway callback unmarshal failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return nil, false
	}
	if payload.OrderID == "" {
		// No correlation token: fail closed, nothing to resolve.
		logrus.Warn("gateway callback without order_id")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return nil, false
	}
	return &payload, true
}

// Success handles the gateway's success callback. Duplicate deliveries are
// acknowledged without a second credit.
func (h *GatewayWebhookHandler) Success(c *gin.Context) {
	payload, ok := h.parse(c)
	if !ok {
		return
	}
	_, err := h.recharge.HandleSuccess(c.Request.Context(), payload.OrderID, payload.AmountCents, payload.Reference)
	switch err {
	case nil, domain.ErrAlreadyProcessed:
		c.JSON(http.StatusOK, gin.H{"received": true})
	case domain.ErrNotFound:
		logrus.WithField("order_id", payload.OrderID).Warn("gateway success for unknown transaction")
		c.JSON(http.StatusOK, gin.H{"received": true})
	case domain.ErrNotPending:
		// Amount mismatch: acknowledged but left pending for manual resolution.
		c.JSON(http.StatusOK, gin.H{"received": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
	}
}

// Failure handles the gateway's failure callback.
func (h *GatewayWebhookHandler) Failure(c *gin.Context) {
	h.fail(c, "gateway reported failure")
}

// Cancel handles the user cancelling at the gateway.
func (h *GatewayWebhookHandler) Cancel(c *gin.Context) {
	h.fail(c, "cancelled at gateway")
}

func (h *GatewayWebhookHandler) fail(c *gin.Context, fallbackReason string) {
	payload, ok := h.parse(c)
	if !ok {
		return
	}
	reason := payload.Reason
	if reason == "" {
		reason = fallbackReason
	}
	_, err := h.recharge.HandleFailure(c.Request.Context(), payload.OrderID, reason)
	switch err {
	case nil, domain.ErrAlreadyProcessed, domain.ErrNotFound:
		c.JSON(http.StatusOK, gin.H{"received": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
	}
}

// IPN is the server-to-server notification; the status field decides the
// direction.
func (h *GatewayWebhookHandler) IPN(c *gin.Context) {
	payload, ok := h.parse(c)
	if !ok {
		return
	}
	var err error
	switch payload.Status {
	case "COMPLETED", "completed":
		_, err = h.recharge.HandleSuccess(c.Request.Context(), payload.OrderID, payload.AmountCents, payload.Reference)
	case "FAILED", "failed", "CANCELLED", "cancelled":
		reason := payload.Reason
		if reason == "" {
			reason = "ipn reported " + payload.Status
		}
		_, err = h.recharge.HandleFailure(c.Request.Context(), payload.OrderID, reason)
	default:
		// Unrecognized status: fail closed, leave the transaction pending.
		logrus.WithFields(logrus.Fields{
			"order_id": payload.OrderID,
			"status":   payload.Status,
		}).Warn("ipn with unrecognized status ignored")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	switch err {
	case nil, domain.ErrAlreadyProcessed, domain.ErrNotFound, domain.ErrNotPending:
		c.JSON(http.StatusOK, gin.H{"received": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
	}
}
