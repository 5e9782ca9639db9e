package redeem

import (
	"time"

	"github.com/points-league/backend/internal/models"
)

// Outcome is the result of a single redemption attempt. Expected rejections
// (unregistered user, cooldown, bad code, ...) are outcomes, not errors; only
// storage failures surface as errors.
type Outcome struct {
	Success bool

	// Reason is the audit reason recorded for the attempt. On success it is
	// models.ReasonCodeAccepted.
	Reason models.HistoryReason

	// PointsAwarded and NewTotal are set only on success.
	PointsAwarded int
	NewTotal      int

	// RetryAfter is the remaining wait when Reason is models.ReasonCooldown.
	RetryAfter time.Duration
}

// accepted builds a successful outcome.
func accepted(points, newTotal int) Outcome {
	return Outcome{
		Success:       true,
		Reason:        models.ReasonCodeAccepted,
		PointsAwarded: points,
		NewTotal:      newTotal,
	}
}

// rejected builds a failed outcome.
func rejected(reason models.HistoryReason) Outcome {
	return Outcome{Reason: reason}
}
