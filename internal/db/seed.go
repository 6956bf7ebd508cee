package db

import (
	"errors"
	"fmt"

	"printtrack/internal/auth"
	"printtrack/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedAdmin creates the initial admin account and a default site when the
// database is empty. Idempotent: existing rows are left untouched.
func SeedAdmin(db *gorm.DB, password string) error {
	var existing model.User
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check admin user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := model.User{
		Username:     "admin",
		FullName:     "Administrator",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	site := model.Site{SiteID: "default", Name: "Default Site", IsActive: true}
	if err := db.Where("site_id = ?", site.SiteID).FirstOrCreate(&site).Error; err != nil {
		return fmt.Errorf("create default site: %w", err)
	}

	logrus.Warn("Seeded initial admin account; change its password immediately")
	return nil
}
