package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/points-league/backend/internal/audit"
	"github.com/points-league/backend/internal/models"
	"github.com/points-league/backend/internal/season"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeasonHandler runs season lifecycle operations.
type SeasonHandler struct {
	db  *gorm.DB
	mgr *season.Manager
}

// NewSeasonHandler constructs a SeasonHandler.
func NewSeasonHandler(db *gorm.DB) *SeasonHandler {
	return &SeasonHandler{db: db, mgr: season.NewManager(db)}
}

// Current returns the active season, or 404 when between seasons.
func (h *SeasonHandler) Current(c *gin.Context) {
	active, found, errActive := h.mgr.Active(c.Request.Context())
	if errActive != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load season failed"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active season"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         active.ID,
		"start_date": active.StartDate,
		"status":     active.Status,
	})
}

// Stop closes the active season and returns the winner snapshot. No new
// season is started.
func (h *SeasonHandler) Stop(c *gin.Context) {
	winners, errStop := h.mgr.Stop(c.Request.Context())
	if errStop != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stop season failed"})
		return
	}
	if errAudit := audit.Admin(h.db.WithContext(c.Request.Context()), nil, nil, true, models.ReasonStopSeason); errAudit != nil {
		log.WithError(errAudit).Warn("admin: audit stop season")
	}

	out := make([]gin.H, 0, len(winners))
	for _, w := range winners {
		out = append(out, gin.H{
			"season_id": w.SeasonID,
			"user_id":   w.UserID,
			"rank":      w.Rank,
			"points":    w.Points,
		})
	}
	c.JSON(http.StatusOK, gin.H{"winners": out})
}

// Start hard-resets the board and opens a fresh season.
func (h *SeasonHandler) Start(c *gin.Context) {
	created, errStart := h.mgr.StartNew(c.Request.Context())
	if errStart != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "start season failed"})
		return
	}
	if errAudit := audit.Admin(h.db.WithContext(c.Request.Context()), nil, nil, true, models.ReasonNewSeason); errAudit != nil {
		log.WithError(errAudit).Warn("admin: audit new season")
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         created.ID,
		"start_date": created.StartDate,
		"status":     created.Status,
	})
}
