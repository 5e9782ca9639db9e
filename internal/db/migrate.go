package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/points-league/backend/internal/models"
	"github.com/points-league/backend/internal/security"
	"gorm.io/gorm"
)

// Migrate applies the schema for all persisted entities.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errAutoMigrate := conn.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.Code{},
		&models.History{},
		&models.Season{},
		&models.Winner{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	return nil
}

// SeedAdmin creates the bootstrap admin account when the admins table is
// empty. Subsequent runs are no-ops so a changed config password never
// silently overwrites a rotated one.
func SeedAdmin(conn *gorm.DB, username, password string) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var count int64
	if errCount := conn.Model(&models.Admin{}).Count(&count).Error; errCount != nil {
		return fmt.Errorf("db: count admins: %w", errCount)
	}
	if count > 0 {
		return nil
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return fmt.Errorf("db: hash bootstrap password: %w", errHash)
	}

	now := time.Now().UTC()
	admin := models.Admin{
		Username:  username,
		Password:  hash,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := conn.Create(&admin).Error; errCreate != nil {
		return fmt.Errorf("db: seed admin: %w", errCreate)
	}
	return nil
}
