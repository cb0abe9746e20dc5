package handler

import (
	"net/http"
	"strconv"

	"quizmart/internal/domain"
	"quizmart/internal/middleware"
	"quizmart/internal/models"
	"quizmart/internal/repository"
	"quizmart/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	settlement     *service.SettlementService
	withdrawals    *service.WithdrawalService
	settings       *service.SettingsService
	withdrawalRepo *repository.WithdrawalRepository
	auditRepo      *repository.AuditLogRepository
}

func NewAdminHandler(
	settlement *service.SettlementService,
	withdrawals *service.WithdrawalService,
	settings *service.SettingsService,
	withdrawalRepo *repository.WithdrawalRepository,
	auditRepo *repository.AuditLogRepository,
) *AdminHandler {
	return &AdminHandler{
		settlement:     settlement,
		withdrawals:    withdrawals,
		settings:       settings,
		withdrawalRepo: withdrawalRepo,
		auditRepo:      auditRepo,
	}
}

func (h *AdminHandler) audit(c *gin.Context, action, resource, resourceID string) {
	adminID := middleware.GetUserID(c)
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:     &adminID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		IP:         c.ClientIP(),
	})
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// ApproveQuiz publishes a pending quiz, charging the author the publishing
// fee when paid. 422 when the author cannot cover the fee.
func (h *AdminHandler) ApproveQuiz(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.settlement.ApproveQuiz(c.Request.Context(), id)
	switch err {
	case nil:
		h.audit(c, "quiz_approved", "quiz", c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"status": domain.QuizStatusPublished})
	case domain.ErrAlreadyProcessed:
		c.JSON(http.StatusOK, gin.H{"message": "already approved"})
	case domain.ErrInsufficientFunds:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "author balance insufficient for approval fee"})
	case domain.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "quiz not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "approval failed"})
	}
}

func (h *AdminHandler) RejectQuiz(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&req)
	err := h.settlement.RejectQuiz(id, req.Note)
	switch err {
	case nil:
		h.audit(c, "quiz_rejected", "quiz", c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"status": domain.QuizStatusRejected})
	case domain.ErrAlreadyProcessed:
		c.JSON(http.StatusOK, gin.H{"message": "already processed"})
	case domain.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "quiz not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rejection failed"})
	}
}

func (h *AdminHandler) ApproveCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.settlement.ApproveCourse(c.Request.Context(), id)
	switch err {
	case nil:
		h.audit(c, "course_approved", "course", c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"status": domain.CourseStatusApproved})
	case domain.ErrAlreadyProcessed:
		c.JSON(http.StatusOK, gin.H{"message": "already approved"})
	case domain.ErrInsufficientFunds:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "author balance insufficient for approval fee"})
	case domain.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "approval failed"})
	}
}

func (h *AdminHandler) RejectCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&req)
	err := h.settlement.RejectCourse(id, req.Note)
	switch err {
	case nil:
		h.audit(c, "course_rejected", "course", c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"status": domain.CourseStatusRejected})
	case domain.ErrAlreadyProcessed:
		c.JSON(http.StatusOK, gin.H{"message": "already processed"})
	case domain.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rejection failed"})
	}
}

func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	status := c.DefaultQuery("status", domain.WithdrawalPending)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	list, err := h.withdrawalRepo.ListByStatus(status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}

// ApproveWithdrawal debits the user and finalizes the request. Already
// finalized requests are a 200 no-op; a balance that drifted below the
// amount since the request is a 422.
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	w, err := h.withdrawals.Approve(middleware.GetUserID(c), id)
	switch err {
	case nil:
		h.audit(c, "withdrawal_approved", "withdrawal", c.Param("id"))
		c.JSON(http.StatusOK, w)
	case domain.ErrAlreadyProcessed:
		c.JSON(http.StatusOK, gin.H{"withdrawal": w, "message": "already processed"})
	case domain.ErrInsufficientFunds:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient balance at approval time"})
	case domain.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "withdrawal not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "approval failed"})
	}
}

func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	w, err := h.withdrawals.Reject(middleware.GetUserID(c), id)
	switch err {
	case nil:
		h.audit(c, "withdrawal_rejected", "withdrawal", c.Param("id"))
		c.JSON(http.StatusOK, w)
	case domain.ErrAlreadyProcessed:
		c.JSON(http.StatusOK, gin.H{"withdrawal": w, "message": "already processed"})
	case domain.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "withdrawal not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rejection failed"})
	}
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	list, err := h.settings.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settings unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": list})
}

func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settings.Set(c.Request.Context(), req.Key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.audit(c, "setting_updated", "setting", req.Key)
	c.JSON(http.StatusOK, gin.H{"key": req.Key, "value": req.Value})
}

// Refund credits a user's wallet manually, recording a refund ledger entry.
func (h *AdminHandler) Refund(c *gin.Context) {
	var req struct {
		UserID      uint   `json:"user_id" binding:"required"`
		AmountCents int64  `json:"amount_cents" binding:"required,min=1"`
		Reference   string `json:"reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settlement.Refund(req.UserID, req.AmountCents, req.Reference); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refund failed"})
		return
	}
	h.audit(c, "wallet_refunded", "user", strconv.FormatUint(uint64(req.UserID), 10))
	c.JSON(http.StatusOK, gin.H{"user_id": req.UserID, "amount_cents": req.AmountCents})
}
