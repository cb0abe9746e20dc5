package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizmart/internal/domain"
	"quizmart/internal/models"
	"quizmart/internal/repository"
	"quizmart/internal/service"
	"quizmart/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type webhookFixture struct {
	db       *gorm.DB
	wallets  *repository.WalletRepository
	txRepo   *repository.TransactionRepository
	recharge *service.RechargeService
	router   *gin.Engine
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.WalletAccount{}, &models.WalletTransaction{}))

	wallets := repository.NewWalletRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	recharge := service.NewRechargeService(db, &payment.StubProvider{}, "stub", time.Hour, wallets, txRepo)

	h := NewGatewayWebhookHandler(recharge)
	r := gin.New()
	r.POST("/webhooks/gateway/success", h.Success)
	r.POST("/webhooks/gateway/failure", h.Failure)
	r.POST("/webhooks/gateway/cancel", h.Cancel)
	r.POST("/webhooks/gateway/ipn", h.IPN)

	return &webhookFixture{db: db, wallets: wallets, txRepo: txRepo, recharge: recharge, router: r}
}

func (f *webhookFixture) post(t *testing.T, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *webhookFixture) balance(t *testing.T, userID uint) int64 {
	t.Helper()
	w, err := f.wallets.GetOrCreate(userID)
	require.NoError(t, err)
	return w.BalanceCents
}

func TestWebhookSuccessCreditsOnce(t *testing.T) {
	f := newWebhookFixture(t)
	tx, _, err := f.recharge.Initiate(context.Background(), 7, 1500, "")
	require.NoError(t, err)

	body := GatewayCallback{OrderID: tx.TransactionID, Reference: "gw-1", AmountCents: 1500}
	w := f.post(t, "/webhooks/gateway/success", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1500), f.balance(t, 7))

	// Replayed delivery is acknowledged without a second credit.
	w = f.post(t, "/webhooks/gateway/success", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1500), f.balance(t, 7))
}

func TestWebhookSuccessAmountMismatchAcknowledged(t *testing.T) {
	f := newWebhookFixture(t)
	tx, _, err := f.recharge.Initiate(context.Background(), 7, 1500, "")
	require.NoError(t, err)

	w := f.post(t, "/webhooks/gateway/success", GatewayCallback{
		OrderID: tx.TransactionID, AmountCents: 100,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), f.balance(t, 7))

	got, err := f.txRepo.GetByToken(tx.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusPending, got.Status)
}

func TestWebhookFailureMarksFailed(t *testing.T) {
	f := newWebhookFixture(t)
	tx, _, err := f.recharge.Initiate(context.Background(), 7, 1500, "")
	require.NoError(t, err)

	w := f.post(t, "/webhooks/gateway/failure", GatewayCallback{
		OrderID: tx.TransactionID, Reason: "card declined",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	got, err := f.txRepo.GetByToken(tx.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxStatusFailed, got.Status)
	assert.Equal(t, "card declined", got.FailReason)
	assert.Equal(t, int64(0), f.balance(t, 7))
}

func TestWebhookMissingOrderIDAcknowledged(t *testing.T) {
	f := newWebhookFixture(t)
	w := f.post(t, "/webhooks/gateway/success", GatewayCallback{AmountCents: 100})
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.post(t, "/webhooks/gateway/success", GatewayCallback{OrderID: "rch-unknown"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookIPNRoutesOnStatus(t *testing.T) {
	f := newWebhookFixture(t)
	tx, _, err := f.recharge.Initiate(context.Background(), 7, 900, "")
	require.NoError(t, err)

	// Unrecognized status leaves the transaction pending.
	w := f.post(t, "/webhooks/gateway/ipn", GatewayCallback{OrderID: tx.TransactionID, Status: "WEIRD"})
	assert.Equal(t, http.StatusOK, w.Code)
	got, _ := f.txRepo.GetByToken(tx.TransactionID)
	assert.Equal(t, domain.TxStatusPending, got.Status)

	w = f.post(t, "/webhooks/gateway/ipn", GatewayCallback{OrderID: tx.TransactionID, Status: "COMPLETED", AmountCents: 900})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(900), f.balance(t, 7))

	// A late failure IPN cannot claw the credit back.
	w = f.post(t, "/webhooks/gateway/ipn", GatewayCallback{OrderID: tx.TransactionID, Status: "FAILED"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(900), f.balance(t, 7))
}
