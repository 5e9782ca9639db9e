package models

import "time"

// HistoryAction categorizes an audit entry.
type HistoryAction string

// HistoryAction constants define the closed set of audit categories.
const (
	// ActionCodeEntry marks a code redemption attempt.
	ActionCodeEntry HistoryAction = "code_entry"
	// ActionRegistration marks a registration attempt.
	ActionRegistration HistoryAction = "registration"
	// ActionAdmin marks a privileged operation.
	ActionAdmin HistoryAction = "admin"
)

// HistoryResult is the binary outcome of an audited action.
type HistoryResult string

// HistoryResult constants define audit outcomes.
const (
	// ResultSuccess marks an action that completed.
	ResultSuccess HistoryResult = "success"
	// ResultFailure marks an action that was rejected.
	ResultFailure HistoryResult = "failure"
)

// HistoryReason narrows a result to a specific cause.
type HistoryReason string

// HistoryReason constants define the closed set of audit reasons.
const (
	ReasonCodeAccepted   HistoryReason = "code_accepted"
	ReasonNotRegistered  HistoryReason = "not_registered"
	ReasonNoActiveSeason HistoryReason = "no_active_season"
	ReasonCooldown       HistoryReason = "cooldown"
	ReasonBruteForce     HistoryReason = "bruteforce_limit"
	ReasonInvalidCode    HistoryReason = "invalid_code"
	ReasonCodeUsed       HistoryReason = "code_used"
	ReasonRegistered     HistoryReason = "registered"
	ReasonAddCode        HistoryReason = "add_code"
	ReasonDeleteCode     HistoryReason = "delete_code"
	ReasonEditUser       HistoryReason = "edit_user"
	ReasonDeleteUser     HistoryReason = "delete_user"
	ReasonStopSeason     HistoryReason = "stop_season"
	ReasonNewSeason      HistoryReason = "new_season"
)

// History is an append-only audit row. It is the sole input for cooldown and
// brute-force gating, so rows are never mutated and only removed when the
// owning user is deleted.
type History struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID *int64  `gorm:"index:idx_history_user_action,priority:1"` // Acting user, when known.
	Code   *string `gorm:"type:text"`                                // Submitted code text, when relevant.

	Timestamp time.Time `gorm:"not null;index:idx_history_user_action,priority:3"` // Action time (UTC).

	Result HistoryResult `gorm:"type:text;not null"`                                       // success or failure.
	Reason HistoryReason `gorm:"type:text;not null"`                                       // Specific cause.
	Action HistoryAction `gorm:"type:text;not null;index:idx_history_user_action,priority:2"` // Category.
}
