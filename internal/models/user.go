package models

import "time"

// User represents a registered participant keyed by the chat-platform user ID.
type User struct {
	ID int64 `gorm:"primaryKey;autoIncrement:false"` // Chat-platform user ID.

	DisplayName string `gorm:"type:text;not null"` // Full name given at registration.

	TotalPoints int `gorm:"not null;default:0"` // Points accumulated in the current season.

	CreatedAt time.Time `gorm:"not null;index"` // Registration time; ranking tie-break.
}
