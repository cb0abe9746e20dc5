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

type WithdrawalHandler struct {
	withdrawals    *service.WithdrawalService
	withdrawalRepo *repository.WithdrawalRepository
}

func NewWithdrawalHandler(withdrawals *service.WithdrawalService, withdrawalRepo *repository.WithdrawalRepository) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals, withdrawalRepo: withdrawalRepo}
}

// Create files a withdrawal request. Funds are not reserved; the balance is
// re-checked when an administrator approves.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		AmountCents int64  `json:"amount_cents" binding:"required,min=1"`
		Provider    string `json:"provider" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := h.withdrawals.Request(userID, req.AmountCents, req.Provider)
	switch err {
	case nil:
		c.JSON(http.StatusCreated, w)
	case domain.ErrInsufficientFunds:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient wallet balance"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request failed"})
	}
}

// ListMine returns the user's withdrawal requests.
func (h *WithdrawalHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	list, err := h.withdrawalRepo.ListByUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}
