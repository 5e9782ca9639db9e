package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/points-league/backend/internal/models"
	"gorm.io/gorm"
)

// historyPageLimit caps one page of audit rows.
const historyPageLimit = 100

// HistoryHandler serves the append-only audit trail.
type HistoryHandler struct {
	db *gorm.DB
}

// NewHistoryHandler constructs a HistoryHandler.
func NewHistoryHandler(db *gorm.DB) *HistoryHandler {
	return &HistoryHandler{db: db}
}

// List returns audit rows newest first. Filters: ?user_id=, ?action=,
// ?result=; ?offset= pages through older rows.
func (h *HistoryHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.History{})

	if raw := c.Query("user_id"); raw != "" {
		userID, errParse := strconv.ParseInt(raw, 10, 64)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		q = q.Where("user_id = ?", userID)
	}
	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if result := c.Query("result"); result != "" {
		q = q.Where("result = ?", result)
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		parsed, errParse := strconv.Atoi(raw)
		if errParse != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		offset = parsed
	}

	var rows []models.History
	errFind := q.Order("timestamp DESC, id DESC").
		Offset(offset).
		Limit(historyPageLimit).
		Find(&rows).Error
	if errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list history failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		entry := gin.H{
			"id":        row.ID,
			"timestamp": row.Timestamp,
			"action":    row.Action,
			"result":    row.Result,
			"reason":    row.Reason,
		}
		if row.UserID != nil {
			entry["user_id"] = *row.UserID
		}
		if row.Code != nil {
			entry["code"] = *row.Code
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"history": out, "offset": offset, "limit": historyPageLimit})
}
