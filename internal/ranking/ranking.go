// Package ranking derives standings from user rows. The one sort order used
// everywhere, season snapshots included, is total points descending with
// registration time ascending as the tie-break: earlier registrants rank
// higher on equal points.
package ranking

import (
	"context"
	"fmt"

	"github.com/points-league/backend/internal/models"
	"gorm.io/gorm"
)

// orderExpr is the canonical leaderboard ordering.
const orderExpr = "total_points DESC, created_at ASC"

// Standing is a user's 1-based leaderboard position and current points.
type Standing struct {
	Position int
	Points   int
}

// Leaderboard returns all users in ranking order.
func Leaderboard(ctx context.Context, db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if errFind := db.WithContext(ctx).Order(orderExpr).Find(&users).Error; errFind != nil {
		return nil, fmt.Errorf("ranking: leaderboard: %w", errFind)
	}
	return users, nil
}

// Top returns the first n users in ranking order.
func Top(ctx context.Context, db *gorm.DB, n int) ([]models.User, error) {
	var users []models.User
	if errFind := db.WithContext(ctx).Order(orderExpr).Limit(n).Find(&users).Error; errFind != nil {
		return nil, fmt.Errorf("ranking: top: %w", errFind)
	}
	return users, nil
}

// Rank returns the user's standing. found is false for unknown users, so an
// unregistered user is distinguishable from a rank held with zero points.
func Rank(ctx context.Context, db *gorm.DB, userID int64) (standing Standing, found bool, err error) {
	users, errBoard := Leaderboard(ctx, db)
	if errBoard != nil {
		return Standing{}, false, errBoard
	}
	for idx, user := range users {
		if user.ID == userID {
			return Standing{Position: idx + 1, Points: user.TotalPoints}, true, nil
		}
	}
	return Standing{}, false, nil
}
