package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/points-league/backend/internal/season"
	"gorm.io/gorm"
)

// WinnerHandler serves season winner snapshots.
type WinnerHandler struct {
	mgr *season.Manager
}

// NewWinnerHandler constructs a WinnerHandler.
func NewWinnerHandler(db *gorm.DB) *WinnerHandler {
	return &WinnerHandler{mgr: season.NewManager(db)}
}

// List returns winner rows; ?season_id= filters to one season.
func (h *WinnerHandler) List(c *gin.Context) {
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
