package models

import "time"

// SeasonStatus represents the lifecycle state of a season.
type SeasonStatus string

// SeasonStatus constants define season lifecycle states.
const (
	// SeasonActive marks the single season currently accepting redemptions.
	SeasonActive SeasonStatus = "active"
	// SeasonClosed marks a finished season; closed rows are immutable history.
	SeasonClosed SeasonStatus = "closed"
)

// Season is a bounded competitive period. At most one row is active at any time.
type Season struct {
	ID uint `gorm:"primaryKey;autoIncrement"` // Season number.

	StartDate time.Time  `gorm:"not null"` // Opening time.
	EndDate   *time.Time // Closing time; nil while active.

	Status SeasonStatus `gorm:"type:text;not null;default:active;index"` // active or closed.
}
