package service

import (
	"strconv"
	"testing"
	"time"

	"quizmart/internal/domain"
	"quizmart/internal/models"
	"quizmart/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testTreasuryID uint = 1000

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.WalletAccount{},
		&models.WalletTransaction{},
		&models.PlatformRevenue{},
		&models.WithdrawalRequest{},
		&models.Quiz{},
		&models.Course{},
		&models.Enrollment{},
		&models.SystemSetting{},
		&models.AuditLog{},
	))
	return db
}

type fixture struct {
	db           *gorm.DB
	wallets      *repository.WalletRepository
	transactions *repository.TransactionRepository
	revenues     *repository.RevenueRepository
	enrollments  *repository.EnrollmentRepository
	quizzes      *repository.QuizRepository
	courses      *repository.CourseRepository
	withdrawals  *repository.WithdrawalRepository
	settings     *SettingsService
	settlement   *SettlementService
	withdrawal   *WithdrawalService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	settingRepo := repository.NewSettingRepository(db)
	require.NoError(t, settingRepo.SeedDefaults(domain.DefaultSettings))

	f := &fixture{
		db:           db,
		wallets:      repository.NewWalletRepository(db),
		transactions: repository.NewTransactionRepository(db),
		revenues:     repository.NewRevenueRepository(db),
		enrollments:  repository.NewEnrollmentRepository(db),
		quizzes:      repository.NewQuizRepository(db),
		courses:      repository.NewCourseRepository(db),
		withdrawals:  repository.NewWithdrawalRepository(db),
		settings:     NewSettingsService(settingRepo, nil, time.Minute),
	}
	f.settlement = NewSettlementService(
		db, testTreasuryID, f.settings,
		f.wallets, f.transactions, f.revenues,
		f.enrollments, f.quizzes, f.courses,
	)
	f.withdrawal = NewWithdrawalService(db, f.wallets, f.withdrawals, f.transactions)
	return f
}

func (f *fixture) user(t *testing.T, role string) *models.User {
	t.Helper()
	u := &models.User{Name: "u", Email: uniqueEmail(), Role: role}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

var emailSeq int

func uniqueEmail() string {
	emailSeq++
	return "user" + strconv.Itoa(emailSeq) + "@test.local"
}

func (f *fixture) fund(t *testing.T, userID uint, cents int64) {
	t.Helper()
	require.NoError(t, f.wallets.Credit(userID, cents))
}

func (f *fixture) balance(t *testing.T, userID uint) int64 {
	t.Helper()
	w, err := f.wallets.GetOrCreate(userID)
	require.NoError(t, err)
	return w.BalanceCents
}

func (f *fixture) quiz(t *testing.T, ownerID uint, isPaid bool, price int64, status string) *models.Quiz {
	t.Helper()
	q := &models.Quiz{Title: "q", OwnerID: ownerID, IsPaid: isPaid, PriceCents: price, Status: status}
	require.NoError(t, f.quizzes.Create(q))
	return q
}

func (f *fixture) course(t *testing.T, ownerID uint, isPaid bool, price int64, status string) *models.Course {
	t.Helper()
	c := &models.Course{Title: "c", OwnerID: ownerID, IsPaid: isPaid, PriceCents: price, Status: status}
	require.NoError(t, f.courses.Create(c))
	return c
}

func (f *fixture) txCount(t *testing.T, userID uint, typ domain.TransactionType) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.WalletTransaction{}).
		Where("user_id = ? AND type = ?", userID, typ).Count(&n).Error)
	return n
}
