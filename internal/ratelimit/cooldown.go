// Package ratelimit computes redemption gating from audit history alone.
// Nothing here keeps state: cooldown and brute-force decisions are pure
// functions of History rows, which keeps the service restart-safe.
package ratelimit

import (
	"time"

	"github.com/points-league/backend/internal/models"
)

const (
	// SuccessCooldown is the wait enforced after an accepted code.
	SuccessCooldown = 10 * time.Minute
	// FailureCooldown is the wait enforced after a rejected attempt.
	FailureCooldown = 30 * time.Second
	// BruteForceLimit is the maximum failed attempts tolerated per window.
	BruteForceLimit = 5
	// BruteForceWindow is the trailing window for counting failed attempts.
	BruteForceWindow = time.Minute
)

// Cooldown returns the remaining wait derived from the user's most recent
// code_entry row. The second return is false when no cooldown applies.
func Cooldown(last *models.History, now time.Time) (time.Duration, bool) {
	if last == nil {
		return 0, false
	}
	window := FailureCooldown
	if last.Result == models.ResultSuccess {
		window = SuccessCooldown
	}
	remaining := window - now.Sub(last.Timestamp)
	if remaining <= 0 {
		return 0, false
	}
	return remaining, true
}

// WindowStart returns the opening edge of the brute-force window ending at now.
func WindowStart(now time.Time) time.Time {
	return now.Add(-BruteForceWindow)
}

// Exceeded reports whether a failure count trips the brute-force gate.
func Exceeded(failures int) bool {
	return failures >= BruteForceLimit
}
