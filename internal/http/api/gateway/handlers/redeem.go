package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/points-league/backend/internal/redeem"
	"gorm.io/gorm"
)

// RedeemHandler runs code redemption attempts.
type RedeemHandler struct {
	engine *redeem.Engine
}

// NewRedeemHandler constructs a RedeemHandler.
func NewRedeemHandler(db *gorm.DB) *RedeemHandler {
	return &RedeemHandler{engine: redeem.NewEngine(db)}
}

// redeemRequest defines the request body for a redemption attempt.
type redeemRequest struct {
	UserID int64  `json:"user_id"`
	Code   string `json:"code"`
}

// Redeem submits one code for the user. Rejections are 200 responses with
// accepted=false and a reason; only storage failures return 5xx.
func (h *RedeemHandler) Redeem(c *gin.Context) {
	var body redeemRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user id"})
		return
	}

	outcome, errRedeem := h.engine.Redeem(c.Request.Context(), body.UserID, body.Code)
	if errRedeem != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "redeem failed"})
		return
	}

	resp := gin.H{
		"accepted": outcome.Success,
		"reason":   outcome.Reason,
	}
	if outcome.Success {
		resp["points_awarded"] = outcome.PointsAwarded
		resp["new_total"] = outcome.NewTotal
	}
	if outcome.RetryAfter > 0 {
		resp["retry_after_seconds"] = int(outcome.RetryAfter.Seconds())
	}
	c.JSON(http.StatusOK, resp)
}
