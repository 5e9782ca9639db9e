package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/points-league/backend/internal/ranking"
	"github.com/points-league/backend/internal/registry"
	"gorm.io/gorm"
)

// PlayerHandler serves participant registration and profiles.
type PlayerHandler struct {
	db  *gorm.DB
	svc *registry.Service
}

// NewPlayerHandler constructs a PlayerHandler.
func NewPlayerHandler(db *gorm.DB) *PlayerHandler {
	return &PlayerHandler{db: db, svc: registry.NewService(db)}
}

// registerRequest defines the request body for participant registration.
type registerRequest struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// Register creates a participant. Registering twice is not an error; the
// response says whether the account already existed.
func (h *PlayerHandler) Register(c *gin.Context) {
	var body registerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user id"})
		return
	}

	created, errRegister := h.svc.Register(c.Request.Context(), body.UserID, body.DisplayName)
	if errRegister != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "register failed"})
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"user_id": body.UserID, "created": created})
}

// Get returns a participant's profile with their leaderboard standing.
func (h *PlayerHandler) Get(c *gin.Context) {
	userID, errParse := strconv.ParseInt(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
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
		"user_id":      user.ID,
		"display_name": user.DisplayName,
		"total_points": user.TotalPoints,
		"created_at":   user.CreatedAt,
	}
	if ranked {
		resp["rank"] = standing.Position
	}
	c.JSON(http.StatusOK, resp)
}
