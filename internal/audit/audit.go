// Package audit appends History rows for privileged operations.
package audit

import (
	"fmt"
	"time"

	"github.com/points-league/backend/internal/models"
	"gorm.io/gorm"
)

// Admin records a privileged mutation. The user ID and code describe the
// target of the action, not the acting admin.
func Admin(tx *gorm.DB, userID *int64, code *string, ok bool, reason models.HistoryReason) error {
	result := models.ResultFailure
	if ok {
		result = models.ResultSuccess
	}
	row := models.History{
		UserID:    userID,
		Code:      code,
		Timestamp: time.Now().UTC(),
		Result:    result,
		Reason:    reason,
		Action:    models.ActionAdmin,
	}
	if errCreate := tx.Create(&row).Error; errCreate != nil {
		return fmt.Errorf("audit: append history: %w", errCreate)
	}
	return nil
}
