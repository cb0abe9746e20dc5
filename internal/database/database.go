package database

import (
	"quizmart/config"
	"quizmart/internal/domain"
	"quizmart/internal/models"
	"quizmart/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
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
	)
}

// SeedAdmin creates the platform admin whose wallet acts as the treasury
// account, if no admin exists yet.
func SeedAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("admin seed: hash failed")
		return
	}
	admin := &models.User{
		Name:         "Platform Admin",
		Email:        "admin@quizmart.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		logrus.WithError(err).Error("admin seed: create failed")
		return
	}
	if _, err := repository.NewWalletRepository(db).GetOrCreate(admin.ID); err != nil {
		logrus.WithError(err).Error("admin seed: treasury wallet failed")
		return
	}
	logrus.WithField("user_id", admin.ID).Info("seeded platform admin (change the default password)")
}

// SeedSettings inserts the default commission and fee settings.
func SeedSettings(db *gorm.DB) {
	if err := repository.NewSettingRepository(db).SeedDefaults(domain.DefaultSettings); err != nil {
		logrus.WithError(err).Error("settings seed failed")
	}
}
