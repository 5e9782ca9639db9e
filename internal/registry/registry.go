// Package registry manages participant accounts.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/points-league/backend/internal/audit"
	"github.com/points-league/backend/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service provides registration and account maintenance.
type Service struct {
	db *gorm.DB
}

// NewService constructs a Service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Register creates a participant row for the chat-platform user ID. Returns
// false when the user is already registered. The display name is fixed at
// registration; only an admin can change it afterwards.
func (s *Service) Register(ctx context.Context, userID int64, displayName string) (bool, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return false, fmt.Errorf("registry: empty display name")
	}

	created := false
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		errFind := tx.First(&existing, userID).Error
		if errFind == nil {
			return nil
		}
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load user: %w", errFind)
		}

		now := time.Now().UTC()
		user := models.User{ID: userID, DisplayName: displayName, CreatedAt: now}
		if errCreate := tx.Create(&user).Error; errCreate != nil {
			return fmt.Errorf("create user: %w", errCreate)
		}
		entry := models.History{
			UserID:    &userID,
			Timestamp: now,
			Result:    models.ResultSuccess,
			Reason:    models.ReasonRegistered,
			Action:    models.ActionRegistration,
		}
		if errAudit := tx.Create(&entry).Error; errAudit != nil {
			return fmt.Errorf("append history: %w", errAudit)
		}
		created = true
		return nil
	})
	if errTx != nil {
		return false, fmt.Errorf("registry: register: %w", errTx)
	}
	if created {
		log.WithField("user_id", userID).Info("registry: user registered")
	}
	return created, nil
}

// Get loads a participant by ID.
func (s *Service) Get(ctx context.Context, userID int64) (models.User, bool, error) {
	var user models.User
	errFind := s.db.WithContext(ctx).First(&user, userID).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return models.User{}, false, nil
		}
		return models.User{}, false, fmt.Errorf("registry: load user: %w", errFind)
	}
	return user, true, nil
}

// EditDisplayName renames a participant. Admin-only; returns false when the
// user does not exist.
func (s *Service) EditDisplayName(ctx context.Context, userID int64, displayName string) (bool, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return false, fmt.Errorf("registry: empty display name")
	}

	renamed := false
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", userID).Update("display_name", displayName)
		if res.Error != nil {
			return fmt.Errorf("rename user: %w", res.Error)
		}
		renamed = res.RowsAffected > 0
		return audit.Admin(tx, &userID, nil, renamed, models.ReasonEditUser)
	})
	if errTx != nil {
		return false, fmt.Errorf("registry: edit display name: %w", errTx)
	}
	return renamed, nil
}

// Delete removes a participant and cascades to their History and Winner rows.
// Returns false when the user does not exist.
func (s *Service) Delete(ctx context.Context, userID int64) (bool, error) {
	deleted := false
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		errFind := tx.First(&user, userID).Error
		if errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return audit.Admin(tx, &userID, nil, false, models.ReasonDeleteUser)
			}
			return fmt.Errorf("load user: %w", errFind)
		}
		if errHistory := tx.Where("user_id = ?", userID).Delete(&models.History{}).Error; errHistory != nil {
			return fmt.Errorf("cascade history: %w", errHistory)
		}
		if errWinners := tx.Where("user_id = ?", userID).Delete(&models.Winner{}).Error; errWinners != nil {
			return fmt.Errorf("cascade winners: %w", errWinners)
		}
		if errUser := tx.Delete(&models.User{}, userID).Error; errUser != nil {
			return fmt.Errorf("delete user: %w", errUser)
		}
		deleted = true
		return audit.Admin(tx, &userID, nil, true, models.ReasonDeleteUser)
	})
	if errTx != nil {
		return false, fmt.Errorf("registry: delete: %w", errTx)
	}
	return deleted, nil
}

