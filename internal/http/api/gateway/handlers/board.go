package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/points-league/backend/internal/ranking"
	"github.com/points-league/backend/internal/season"
	"gorm.io/gorm"
)

// BoardHandler serves leaderboard, season, and winner views.
type BoardHandler struct {
	db  *gorm.DB
	mgr *season.Manager
}

// NewBoardHandler constructs a BoardHandler.
func NewBoardHandler(db *gorm.DB) *BoardHandler {
	return &BoardHandler{db: db, mgr: season.NewManager(db)}
}

// Leaderboard returns all participants in ranking order; ?limit= truncates.
func (h *BoardHandler) Leaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, errParse := strconv.Atoi(raw)
		if errParse != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	var users []gin.H
	rows, errBoard := ranking.Leaderboard(c.Request.Context(), h.db)
	if errBoard != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard failed"})
		return
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	for idx, user := range rows {
		users = append(users, gin.H{
			"rank":         idx + 1,
			"user_id":      user.ID,
			"display_name": user.DisplayName,
			"total_points": user.TotalPoints,
		})
	}
	if users == nil {
		users = []gin.H{}
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": users})
}

// Season returns the active season, or active=false between seasons.
func (h *BoardHandler) Season(c *gin.Context) {
	active, found, errActive := h.mgr.Active(c.Request.Context())
	if errActive != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load season failed"})
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"active":     true,
		"id":         active.ID,
		"start_date": active.StartDate,
	})
}

// Winners returns winner snapshots; ?season_id= filters to one season.
func (h *BoardHandler) Winners(c *gin.Context) {
	var seasonID *uint
	if raw := c.Query("season_id"); raw != "" {
		parsed, errParse := strconv.ParseUint(raw, 10, 32)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid season id"})
			return
		}
		id := uint(parsed)
		seasonID = &id
	}

	winners, errList := h.mgr.Winners(c.Request.Context(), seasonID)
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list winners failed"})
		return
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
