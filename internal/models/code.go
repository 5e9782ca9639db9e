package models

import "time"

// Code is a single-use redeemable token worth a fixed number of points.
type Code struct {
	Code string `gorm:"primaryKey;type:text"` // The code text itself.

	Points int  `gorm:"not null"`               // Points awarded on redemption (1 or 2).
	IsUsed bool `gorm:"not null;default:false"` // Set exactly once, by the winning redemption.

	CreatedAt time.Time `gorm:"not null"` // Creation timestamp.
}
