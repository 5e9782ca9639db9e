package models

// Winner is one slot of the immutable top-5 snapshot taken when a season closes.
type Winner struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	SeasonID uint  `gorm:"not null;index"` // Season the snapshot belongs to.
	UserID   int64 `gorm:"not null;index"` // Ranked user.

	Rank   int `gorm:"not null"` // 1..5.
	Points int `gorm:"not null"` // Points at the moment the season closed.
}
