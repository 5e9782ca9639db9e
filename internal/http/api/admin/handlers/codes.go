package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/points-league/backend/internal/codes"
	"gorm.io/gorm"
)

// CodeHandler manages the redeemable code inventory.
type CodeHandler struct {
	svc *codes.Service
}

// NewCodeHandler constructs a CodeHandler.
func NewCodeHandler(db *gorm.DB) *CodeHandler {
	return &CodeHandler{svc: codes.NewService(db)}
}

// createCodeRequest defines the request body for code creation.
type createCodeRequest struct {
	Code   string `json:"code"`
	Points int    `json:"points"`
}

// Create adds a new code to the inventory.
func (h *CodeHandler) Create(c *gin.Context) {
	var body createCodeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	created, errAdd := h.svc.Add(c.Request.Context(), body.Code, body.Points)
	if errAdd != nil {
		if errors.Is(errAdd, codes.ErrInvalidPoints) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "points must be 1 or 2"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create code failed"})
		return
	}
	if !created {
		c.JSON(http.StatusConflict, gin.H{"error": "code already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": body.Code, "points": body.Points})
}

// List returns codes; ?unused=true filters to unredeemed ones.
func (h *CodeHandler) List(c *gin.Context) {
	unusedOnly := c.Query("unused") == "true"
	rows, errList := h.svc.List(c.Request.Context(), unusedOnly)
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list codes failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"code":       row.Code,
			"points":     row.Points,
			"is_used":    row.IsUsed,
			"created_at": row.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"codes": out})
}

// Delete removes a code from the inventory.
func (h *CodeHandler) Delete(c *gin.Context) {
	codeText := c.Param("code")
	deleted, errDelete := h.svc.Delete(c.Request.Context(), codeText)
	if errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete code failed"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "code not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
