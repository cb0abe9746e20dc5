package handler

import (
	"net/http"
	"strconv"

	"quizmart/internal/domain"
	"quizmart/internal/middleware"
	"quizmart/internal/repository"
	"quizmart/internal/service"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletRepo *repository.WalletRepository
	txRepo     *repository.TransactionRepository
	recharge   *service.RechargeService
}

func NewWalletHandler(
	walletRepo *repository.WalletRepository,
	txRepo *repository.TransactionRepository,
	recharge *service.RechargeService,
) *WalletHandler {
	return &WalletHandler{walletRepo: walletRepo, txRepo: txRepo, recharge: recharge}
}

// GetBalance returns the current user's wallet balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, err := h.walletRepo.GetOrCreate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":       w.UserID,
		"balance_cents": w.BalanceCents,
	})
}

// ListTransactions returns the user's ledger history, newest first.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	list, err := h.txRepo.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}

// Recharge creates a pending recharge transaction and a gateway checkout
// session.
func (h *WalletHandler) Recharge(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		AmountCents int64  `json:"amount_cents" binding:"required,min=1"`
		Provider    string `json:"provider"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, checkoutURL, err := h.recharge.Initiate(c.Request.Context(), userID, req.AmountCents, req.Provider)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "recharge initiation failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"transaction":  t,
		"checkout_url": checkoutURL,
	})
}

// RechargeConfirm is the client-side confirm after the gateway redirect. It
// is idempotent: confirming an already-terminal transaction reports
// "already processed" with a 200.
func (h *WalletHandler) RechargeConfirm(c *gin.Context) {
	var req struct {
		TransactionID string `json:"transaction_id" binding:"required"`
		Status        string `json:"status" binding:"required,oneof=completed failed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var err error
	var t interface{}
	if req.Status == domain.TxStatusCompleted {
		t, err = h.recharge.HandleSuccess(c.Request.Context(), req.TransactionID, 0, "")
	} else {
		t, err = h.recharge.HandleFailure(c.Request.Context(), req.TransactionID, "client reported failure")
	}
	switch err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"transaction": t})
	case domain.ErrAlreadyProcessed:
		c.JSON(http.StatusOK, gin.H{"transaction": t, "message": "already processed"})
	case domain.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "confirm failed"})
	}
}
