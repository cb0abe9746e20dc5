package main

import (
	"quizmart/config"
	"quizmart/internal/database"

	"github.com/sirupsen/logrus"
)

// Standalone migrator: runs auto-migration and seeds, then exits.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logrus.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db)
	database.SeedSettings(db)
	logrus.Info("migration complete")
}
