// Package redeem implements the code-redemption state machine: a per-user
// rate-limited, replay-resistant, season-scoped transaction.
package redeem

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/points-league/backend/internal/models"
	"github.com/points-league/backend/internal/ratelimit"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Engine orchestrates redemption attempts against the database.
type Engine struct {
	db *gorm.DB
}

// NewEngine constructs an Engine.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Redeem runs one code-submission attempt as a single transaction. Every
// attempt, accepted or rejected, appends exactly one code_entry History row;
// that audit trail is itself the state behind the cooldown and brute-force
// gates, and each gate only reads rows older than the current attempt.
func (e *Engine) Redeem(ctx context.Context, userID int64, codeText string) (Outcome, error) {
	if e == nil || e.db == nil {
		return Outcome{}, fmt.Errorf("redeem: engine not initialized")
	}
	codeText = strings.TrimSpace(codeText)
	if codeText == "" {
		return rejected(models.ReasonInvalidCode), nil
	}

	now := time.Now().UTC()
	var outcome Outcome

	errTx := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if errFind := tx.First(&user, userID).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				outcome = rejected(models.ReasonNotRegistered)
				return appendAttempt(tx, userID, codeText, outcome, now)
			}
			return fmt.Errorf("load user: %w", errFind)
		}

		var season models.Season
		if errFind := tx.Where("status = ?", models.SeasonActive).First(&season).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				outcome = rejected(models.ReasonNoActiveSeason)
				return appendAttempt(tx, userID, codeText, outcome, now)
			}
			return fmt.Errorf("load active season: %w", errFind)
		}

		last, errLast := lastCodeEntry(tx, userID)
		if errLast != nil {
			return errLast
		}
		if remaining, onCooldown := ratelimit.Cooldown(last, now); onCooldown {
			outcome = rejected(models.ReasonCooldown)
			outcome.RetryAfter = remaining
			return appendAttempt(tx, userID, codeText, outcome, now)
		}

		failures, errCount := countRecentFailures(tx, userID, ratelimit.WindowStart(now))
		if errCount != nil {
			return errCount
		}
		if ratelimit.Exceeded(failures) {
			outcome = rejected(models.ReasonBruteForce)
			return appendAttempt(tx, userID, codeText, outcome, now)
		}

		// Guarded update so concurrent attempts on the same code cannot both
		// observe is_used=false: at most one transaction flips the flag.
		res := tx.Model(&models.Code{}).
			Where("code = ? AND is_used = ?", codeText, false).
			Update("is_used", true)
		if res.Error != nil {
			return fmt.Errorf("consume code: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var code models.Code
			errFind := tx.Where("code = ?", codeText).First(&code).Error
			switch {
			case errors.Is(errFind, gorm.ErrRecordNotFound):
				outcome = rejected(models.ReasonInvalidCode)
			case errFind != nil:
				return fmt.Errorf("look up code: %w", errFind)
			default:
				outcome = rejected(models.ReasonCodeUsed)
			}
			return appendAttempt(tx, userID, codeText, outcome, now)
		}

		var code models.Code
		if errFind := tx.Where("code = ?", codeText).First(&code).Error; errFind != nil {
			return fmt.Errorf("reload code: %w", errFind)
		}

		if errCredit := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("total_points", gorm.Expr("total_points + ?", code.Points)).Error; errCredit != nil {
			return fmt.Errorf("credit points: %w", errCredit)
		}
		var credited models.User
		if errFind := tx.First(&credited, userID).Error; errFind != nil {
			return fmt.Errorf("reload user: %w", errFind)
		}

		outcome = accepted(code.Points, credited.TotalPoints)
		return appendAttempt(tx, userID, codeText, outcome, now)
	})
	if errTx != nil {
		log.WithError(errTx).WithField("user_id", userID).Error("redeem: attempt aborted")
		return Outcome{}, errTx
	}
	return outcome, nil
}

// appendAttempt writes the single audit row every attempt produces.
func appendAttempt(tx *gorm.DB, userID int64, codeText string, out Outcome, ts time.Time) error {
	result := models.ResultFailure
	if out.Success {
		result = models.ResultSuccess
	}
	row := models.History{
		UserID:    &userID,
		Code:      &codeText,
		Timestamp: ts,
		Result:    result,
		Reason:    out.Reason,
		Action:    models.ActionCodeEntry,
	}
	if errCreate := tx.Create(&row).Error; errCreate != nil {
		return fmt.Errorf("append history: %w", errCreate)
	}
	return nil
}

// lastCodeEntry loads the user's most recent code_entry row. Equal timestamps
// are broken by row id so the decision is deterministic.
func lastCodeEntry(tx *gorm.DB, userID int64) (*models.History, error) {
	var row models.History
	errFind := tx.Where("user_id = ? AND action = ?", userID, models.ActionCodeEntry).
		Order("timestamp DESC, id DESC").
		First(&row).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load last code entry: %w", errFind)
	}
	return &row, nil
}

// countRecentFailures counts failed code_entry rows in the trailing window.
// The count is recomputed fresh on every attempt; a small scan buys exactness
// and avoids counter-reset races.
func countRecentFailures(tx *gorm.DB, userID int64, since time.Time) (int, error) {
	var count int64
	errCount := tx.Model(&models.History{}).
		Where("user_id = ? AND action = ? AND result = ? AND timestamp >= ?",
			userID, models.ActionCodeEntry, models.ResultFailure, since).
		Count(&count).Error
	if errCount != nil {
		return 0, fmt.Errorf("count recent failures: %w", errCount)
	}
	return int(count), nil
}
