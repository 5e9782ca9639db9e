package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/points-league/backend/internal/db"
	"github.com/points-league/backend/internal/models"
	"github.com/points-league/backend/internal/ranking"
	"github.com/points-league/backend/internal/registry"
	"gorm.io/gorm"
)

// UserHandler manages participant accounts.
type UserHandler struct {
	db  *gorm.DB
	svc *registry.Service
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(conn *gorm.DB) *UserHandler {
	return &UserHandler{db: conn, svc: registry.NewService(conn)}
}

// parseUserID parses the :id path parameter.
func parseUserID(c *gin.Context) (int64, bool) {
	id, errParse := strconv.ParseInt(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return id, true
}

// List returns participants in leaderboard order; ?q= filters by display name.
func (h *UserHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.User{})
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		pattern := db.NormalizeLikePattern(h.db, "%"+search+"%")
		q = q.Where(db.CaseInsensitiveLikeExpr(h.db, "display_name"), pattern)
	}

	var users []models.User
	if errFind := q.Order("total_points DESC, created_at ASC").Find(&users).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list users failed"})
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, user := range users {
		out = append(out, gin.H{
			"id":           user.ID,
			"display_name": user.DisplayName,
			"total_points": user.TotalPoints,
			"created_at":   user.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// Get returns one participant with their leaderboard standing.
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	user, found, errGet := h.svc.Get(c.Request.Context(), userID)
	if errGet != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load user failed"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	standing, ranked, errRank := ranking.Rank(c.Request.Context(), h.db, userID)
	if errRank != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rank user failed"})
		return
	}

	resp := gin.H{
		"id":           user.ID,
		"display_name": user.DisplayName,
		"total_points": user.TotalPoints,
		"created_at":   user.CreatedAt,
	}
	if ranked {
		resp["rank"] = standing.Position
	}
	c.JSON(http.StatusOK, resp)
}

// renameRequest defines the request body for renaming a participant.
type renameRequest struct {
	DisplayName string `json:"display_name"`
}

// Rename sets a participant's display name.
func (h *UserHandler) Rename(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	var body renameRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.DisplayName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing display name"})
		return
	}

	renamed, errRename := h.svc.EditDisplayName(c.Request.Context(), userID, body.DisplayName)
	if errRename != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rename user failed"})
		return
	}
	if !renamed {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes a participant and their history and winner rows.
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	deleted, errDelete := h.svc.Delete(c.Request.Context(), userID)
	if errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete user failed"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
