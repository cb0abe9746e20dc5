package router

import (
	"net/http"

	"quizmart/config"
	"quizmart/internal/domain"
	"quizmart/internal/handler"
	"quizmart/internal/middleware"
	"quizmart/internal/repository"
	"quizmart/internal/service"
	"quizmart/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func newProvider(cfg *config.Config) payment.Provider {
	if cfg.Payment.Provider == "stub" || cfg.Payment.BaseURL == "" {
		return &payment.StubProvider{}
	}
	return payment.NewHostedCheckoutProvider(cfg.Payment.BaseURL, cfg.Payment.APIKey, cfg.Payment.WebhookBaseURL)
}

func Setup(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(middleware.NewFixedWindowLimiter(cfg.Server.RateLimit, cfg.Server.RateLimitWindow)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	revenueRepo := repository.NewRevenueRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	settingsSvc := service.NewSettingsService(settingRepo, rdb, cfg.Redis.SettingTTL)
	settlementSvc := service.NewSettlementService(
		db, cfg.Platform.TreasuryUserID, settingsSvc,
		walletRepo, txRepo, revenueRepo, enrollmentRepo, quizRepo, courseRepo,
	)
	rechargeSvc := service.NewRechargeService(
		db, newProvider(cfg), cfg.Payment.Provider, cfg.Payment.Expiry,
		walletRepo, txRepo,
	)
	withdrawalSvc := service.NewWithdrawalService(db, walletRepo, withdrawalRepo, txRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo)
	walletHandler := handler.NewWalletHandler(walletRepo, txRepo, rechargeSvc)
	contentHandler := handler.NewContentHandler(quizRepo, courseRepo, userRepo, enrollmentRepo, settlementSvc)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalSvc, withdrawalRepo)
	adminHandler := handler.NewAdminHandler(settlementSvc, withdrawalSvc, settingsSvc, withdrawalRepo, auditRepo)
	webhookHandler := handler.NewGatewayWebhookHandler(rechargeSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		wallet := api.Group("/wallet")
		wallet.Use(authMw)
		{
			wallet.GET("/balance", walletHandler.GetBalance)
			wallet.GET("/transactions", walletHandler.ListTransactions)
			wallet.POST("/recharge", walletHandler.Recharge)
			wallet.POST("/recharge/confirm", walletHandler.RechargeConfirm)
			wallet.POST("/withdrawals", withdrawalHandler.Create)
			wallet.GET("/withdrawals", withdrawalHandler.ListMine)
		}

		api.GET("/quizzes", contentHandler.ListQuizzes)
		api.POST("/quizzes", authMw, middleware.RequireRole(domain.RoleInstructor, domain.RoleAdmin), contentHandler.CreateQuiz)
		api.POST("/quizzes/:id/enroll", authMw, contentHandler.EnrollQuiz)
		api.GET("/courses", contentHandler.ListCourses)
		api.POST("/courses", authMw, middleware.RequireRole(domain.RoleInstructor, domain.RoleAdmin), contentHandler.CreateCourse)
		api.POST("/courses/:id/enroll", authMw, contentHandler.EnrollCourse)
		api.GET("/enrollments", authMw, contentHandler.ListMyEnrollments)

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.POST("/quizzes/:id/approve", adminHandler.ApproveQuiz)
			admin.POST("/quizzes/:id/reject", adminHandler.RejectQuiz)
			admin.POST("/courses/:id/approve", adminHandler.ApproveCourse)
			admin.POST("/courses/:id/reject", adminHandler.RejectCourse)
			admin.GET("/withdrawals", adminHandler.ListWithdrawals)
			admin.POST("/withdrawals/:id/approve", adminHandler.ApproveWithdrawal)
			admin.POST("/withdrawals/:id/reject", adminHandler.RejectWithdrawal)
			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings", adminHandler.UpdateSetting)
			admin.POST("/wallet/refund", adminHandler.Refund)
		}

		webhooks := api.Group("/webhooks/gateway")
		{
			webhooks.POST("/success", webhookHandler.Success)
			webhooks.POST("/failure", webhookHandler.Failure)
			webhooks.POST("/cancel", webhookHandler.Cancel)
			webhooks.POST("/ipn", webhookHandler.IPN)
		}
	}

	return r
}
