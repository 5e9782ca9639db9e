// Package season manages the competitive season lifecycle:
// NoSeason → Active → Closed, with at most one active season at a time.
package season

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/points-league/backend/internal/models"
	"github.com/points-league/backend/internal/ranking"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TopWinners is the number of leaderboard slots snapshotted at season close.
const TopWinners = 5

// Manager runs season lifecycle operations. Callers serialize administrative
// rollover calls; each operation is a single transaction so a crash cannot
// leave a season neither active nor closed.
type Manager struct {
	db *gorm.DB
}

// NewManager constructs a Manager.
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Active returns the current active season, or found=false when the system
// is between seasons.
func (m *Manager) Active(ctx context.Context) (models.Season, bool, error) {
	var season models.Season
	errFind := m.db.WithContext(ctx).
		Where("status = ?", models.SeasonActive).
		First(&season).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return models.Season{}, false, nil
		}
		return models.Season{}, false, fmt.Errorf("season: load active: %w", errFind)
	}
	return season, true, nil
}

// EnsureActive returns the existing active season or opens a new one.
// Idempotent; called once at startup.
func (m *Manager) EnsureActive(ctx context.Context) (models.Season, error) {
	var season models.Season
	errTx := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		errFind := tx.Where("status = ?", models.SeasonActive).First(&season).Error
		if errFind == nil {
			return nil
		}
		if !errors.Is(errFind, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load active season: %w", errFind)
		}
		season = models.Season{StartDate: time.Now().UTC(), Status: models.SeasonActive}
		if errCreate := tx.Create(&season).Error; errCreate != nil {
			return fmt.Errorf("open season: %w", errCreate)
		}
		log.WithField("season_id", season.ID).Info("season: opened")
		return nil
	})
	if errTx != nil {
		return models.Season{}, fmt.Errorf("season: ensure active: %w", errTx)
	}
	return season, nil
}

// Stop closes the active season and snapshots the top-5 leaderboard as Winner
// rows. With no active season it is a no-op returning an empty list. A new
// season is deliberately NOT started; redemptions fail with no_active_season
// until StartNew runs.
func (m *Manager) Stop(ctx context.Context) ([]models.Winner, error) {
	winners := []models.Winner{}
	errTx := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active models.Season
		errFind := tx.Where("status = ?", models.SeasonActive).First(&active).Error
		if errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("load active season: %w", errFind)
		}

		now := time.Now().UTC()
		if errClose := tx.Model(&models.Season{}).
			Where("id = ?", active.ID).
			Updates(map[string]any{"status": models.SeasonClosed, "end_date": now}).Error; errClose != nil {
			return fmt.Errorf("close season: %w", errClose)
		}

		// Defensive idempotence: a season closed twice gets a fresh snapshot.
		if errPurge := tx.Where("season_id = ?", active.ID).Delete(&models.Winner{}).Error; errPurge != nil {
			return fmt.Errorf("purge winners: %w", errPurge)
		}

		top, errTop := ranking.Top(ctx, tx, TopWinners)
		if errTop != nil {
			return errTop
		}
		for idx, user := range top {
			winner := models.Winner{
				SeasonID: active.ID,
				UserID:   user.ID,
				Rank:     idx + 1,
				Points:   user.TotalPoints,
			}
			if errCreate := tx.Create(&winner).Error; errCreate != nil {
				return fmt.Errorf("snapshot winner: %w", errCreate)
			}
			winners = append(winners, winner)
		}
		log.WithField("season_id", active.ID).WithField("winners", len(winners)).Info("season: closed")
		return nil
	})
	if errTx != nil {
		return nil, fmt.Errorf("season: stop: %w", errTx)
	}
	return winners, nil
}

// StartNew hard-resets the competitive state: all codes and winner rows are
// deleted, every user's points drop to zero, any straggler active season is
// force-closed, and a fresh active season opens. History survives as the
// permanent audit trail.
func (m *Manager) StartNew(ctx context.Context) (models.Season, error) {
	var season models.Season
	errTx := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errCodes := tx.Where("1 = 1").Delete(&models.Code{}).Error; errCodes != nil {
			return fmt.Errorf("clear codes: %w", errCodes)
		}
		if errWinners := tx.Where("1 = 1").Delete(&models.Winner{}).Error; errWinners != nil {
			return fmt.Errorf("clear winners: %w", errWinners)
		}
		if errZero := tx.Model(&models.User{}).
			Where("1 = 1").
			Update("total_points", 0).Error; errZero != nil {
			return fmt.Errorf("zero points: %w", errZero)
		}

		now := time.Now().UTC()
		if errClose := tx.Model(&models.Season{}).
			Where("status = ?", models.SeasonActive).
			Updates(map[string]any{"status": models.SeasonClosed, "end_date": now}).Error; errClose != nil {
			return fmt.Errorf("force-close seasons: %w", errClose)
		}

		season = models.Season{StartDate: now, Status: models.SeasonActive}
		if errCreate := tx.Create(&season).Error; errCreate != nil {
			return fmt.Errorf("open season: %w", errCreate)
		}
		log.WithField("season_id", season.ID).Info("season: started new")
		return nil
	})
	if errTx != nil {
		return models.Season{}, fmt.Errorf("season: start new: %w", errTx)
	}
	return season, nil
}

// Winners returns snapshot rows ordered by rank, optionally for one season.
func (m *Manager) Winners(ctx context.Context, seasonID *uint) ([]models.Winner, error) {
	q := m.db.WithContext(ctx).Model(&models.Winner{})
	if seasonID != nil {
		q = q.Where("season_id = ?", *seasonID)
	}
	var winners []models.Winner
	if errFind := q.Order("season_id ASC, rank ASC").Find(&winners).Error; errFind != nil {
		return nil, fmt.Errorf("season: list winners: %w", errFind)
	}
	return winners, nil
}
