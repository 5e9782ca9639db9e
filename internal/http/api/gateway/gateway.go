// Package gateway wires the HTTP API consumed by the chat-bot transport.
// Requests are authenticated with a shared key; the gateway itself is the
// trusted caller and user identity arrives in the request payload.
package gateway

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/points-league/backend/internal/config"
	handlers "github.com/points-league/backend/internal/http/api/gateway/handlers"
	"gorm.io/gorm"
)

// gatewayKeyHeader carries the shared key on every gateway request.
const gatewayKeyHeader = "X-Gateway-Key"

// RegisterGatewayRoutes registers gateway routes, middleware, and handlers.
func RegisterGatewayRoutes(r *gin.Engine, db *gorm.DB, gwCfg config.GatewayConfig) {
	if r == nil || db == nil {
		return
	}

	group := r.Group("/v0/gateway")
	group.Use(gatewayKeyMiddleware(gwCfg))

	playerHandler := handlers.NewPlayerHandler(db)
	group.POST("/players", playerHandler.Register)
	group.GET("/players/:id", playerHandler.Get)

	redeemHandler := handlers.NewRedeemHandler(db)
	group.POST("/redemptions", redeemHandler.Redeem)

	boardHandler := handlers.NewBoardHandler(db)
	group.GET("/leaderboard", boardHandler.Leaderboard)
	group.GET("/season", boardHandler.Season)
	group.GET("/winners", boardHandler.Winners)
}

// gatewayKeyMiddleware rejects requests without the configured shared key.
func gatewayKeyMiddleware(gwCfg config.GatewayConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if gwCfg.Key == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "gateway key not configured"})
			return
		}
		provided := c.GetHeader(gatewayKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(gwCfg.Key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid gateway key"})
			return
		}
		c.Next()
	}
}
