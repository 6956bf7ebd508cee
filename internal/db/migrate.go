package db

import (
	"fmt"

	"printtrack/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate runs database migrations for all models
func Migrate(db *gorm.DB) error {
	logrus.Info("Starting database migration...")

	models := []interface{}{
		&model.User{},
		&model.Site{},
		&model.Agent{},
		&model.Printer{},
		&model.PrintJob{},
		&model.AuditLog{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logrus.Infof("Database migration completed (%d tables)", len(models))
	return nil
}
