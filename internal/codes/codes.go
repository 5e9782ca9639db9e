// Package codes manages the redeemable code inventory.
package codes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/points-league/backend/internal/audit"
	"github.com/points-league/backend/internal/models"
	"gorm.io/gorm"
)

// AllowedPoints reports whether a points value is permitted for a code.
func AllowedPoints(points int) bool {
	return points == 1 || points == 2
}

// ErrInvalidPoints is returned when a code's points value is outside the
// allowed set.
var ErrInvalidPoints = errors.New("codes: points must be 1 or 2")

// Service provides admin code management.
type Service struct {
	db *gorm.DB
}

// NewService constructs a Service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Add creates a code worth the given points. Returns false when the code
// already exists.
func (s *Service) Add(ctx context.Context, codeText string, points int) (bool, error) {
	codeText = strings.TrimSpace(codeText)
	if codeText == "" {
		return false, fmt.Errorf("codes: empty code")
	}
	if !AllowedPoints(points) {
		return false, ErrInvalidPoints
	}

	created := false
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Code
		errFind := tx.Where("code = ?", codeText).First(&existing).Error
		if errFind == nil {
			return audit.Admin(tx, nil, &codeText, false, models.ReasonAddCode)
		}
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load code: %w", errFind)
		}

		code := models.Code{Code: codeText, Points: points, CreatedAt: time.Now().UTC()}
		if errCreate := tx.Create(&code).Error; errCreate != nil {
			return fmt.Errorf("create code: %w", errCreate)
		}
		created = true
		return audit.Admin(tx, nil, &codeText, true, models.ReasonAddCode)
	})
	if errTx != nil {
		return false, fmt.Errorf("codes: add: %w", errTx)
	}
	return created, nil
}

// Delete removes a code. Returns false when the code does not exist.
func (s *Service) Delete(ctx context.Context, codeText string) (bool, error) {
	codeText = strings.TrimSpace(codeText)
	if codeText == "" {
		return false, fmt.Errorf("codes: empty code")
	}

	deleted := false
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("code = ?", codeText).Delete(&models.Code{})
		if res.Error != nil {
			return fmt.Errorf("delete code: %w", res.Error)
		}
		deleted = res.RowsAffected > 0
		return audit.Admin(tx, nil, &codeText, deleted, models.ReasonDeleteCode)
	})
	if errTx != nil {
		return false, fmt.Errorf("codes: delete: %w", errTx)
	}
	return deleted, nil
}

// List returns codes, optionally filtered to unused ones.
func (s *Service) List(ctx context.Context, unusedOnly bool) ([]models.Code, error) {
	q := s.db.WithContext(ctx).Model(&models.Code{})
	if unusedOnly {
		q = q.Where("is_used = ?", false)
	}
	var rows []models.Code
	if errFind := q.Order("created_at ASC").Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("codes: list: %w", errFind)
	}
	return rows, nil
}
