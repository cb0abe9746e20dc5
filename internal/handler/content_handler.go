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

type ContentHandler struct {
	quizRepo       *repository.QuizRepository
	courseRepo     *repository.CourseRepository
	userRepo       *repository.UserRepository
	enrollmentRepo *repository.EnrollmentRepository
	settlement     *service.SettlementService
}

func NewContentHandler(
	quizRepo *repository.QuizRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	settlement *service.SettlementService,
) *ContentHandler {
	return &ContentHandler{
		quizRepo:       quizRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
		settlement:     settlement,
	}
}

type createContentReq struct {
	Title      string `json:"title" binding:"required"`
	IsPaid     bool   `json:"is_paid"`
	PriceCents int64  `json:"price_cents" binding:"min=0"`
}

// CreateQuiz adds an instructor's quiz in pending state, awaiting approval.
func (h *ContentHandler) CreateQuiz(c *gin.Context) {
	var req createContentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q := &models.Quiz{
		Title:      req.Title,
		OwnerID:    middleware.GetUserID(c),
		IsPaid:     req.IsPaid,
		PriceCents: req.PriceCents,
		Status:     domain.QuizStatusPending,
	}
	if err := h.quizRepo.Create(q); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (h *ContentHandler) ListQuizzes(c *gin.Context) {
	limit, offset := pageParams(c)
	list, err := h.quizRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": list})
}

// EnrollQuiz runs the purchase settlement for the authenticated buyer.
func (h *ContentHandler) EnrollQuiz(c *gin.Context) {
	h.enroll(c, domain.ContentKindQuiz)
}

func (h *ContentHandler) CreateCourse(c *gin.Context) {
	var req createContentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course := &models.Course{
		Title:      req.Title,
		OwnerID:    middleware.GetUserID(c),
		IsPaid:     req.IsPaid,
		PriceCents: req.PriceCents,
		Status:     domain.CourseStatusPending,
	}
	if err := h.courseRepo.Create(course); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *ContentHandler) ListCourses(c *gin.Context) {
	limit, offset := pageParams(c)
	list, err := h.courseRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": list})
}

func (h *ContentHandler) EnrollCourse(c *gin.Context) {
	h.enroll(c, domain.ContentKindCourse)
}

// ListMyEnrollments returns the authenticated user's enrollments across both
// content kinds.
func (h *ContentHandler) ListMyEnrollments(c *gin.Context) {
	list, err := h.enrollmentRepo.ListByUser(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": list})
}

func (h *ContentHandler) enroll(c *gin.Context, kind string) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	buyer, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var res *service.PurchaseResult
	if kind == domain.ContentKindQuiz {
		res, err = h.settlement.PurchaseQuiz(c.Request.Context(), buyer, uint(id))
	} else {
		res, err = h.settlement.PurchaseCourse(c.Request.Context(), buyer, uint(id))
	}
	switch err {
	case nil:
		c.JSON(http.StatusOK, res)
	case domain.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": kind + " not found"})
	case domain.ErrInvalidPrice:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid content price"})
	case domain.ErrInsufficientFunds:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient wallet balance"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enrollment failed"})
	}
}

func pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
