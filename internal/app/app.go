// Package app boots the points service: config, database, season lifecycle,
// and the HTTP surfaces.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/points-league/backend/internal/config"
	"github.com/points-league/backend/internal/db"
	adminapi "github.com/points-league/backend/internal/http/api/admin"
	gatewayapi "github.com/points-league/backend/internal/http/api/gateway"
	"github.com/points-league/backend/internal/season"
	log "github.com/sirupsen/logrus"
)

// ConfigExists reports whether the config file is present on disk.
func ConfigExists(configPath string) bool {
	info, errStat := os.Stat(configPath)
	return errStat == nil && !info.IsDir()
}

// Migrate opens the database and runs migrations without starting the server.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// RunServer boots the HTTP server with database-backed components.
func RunServer(ctx context.Context, cfg config.AppConfig, port int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	bootstrap, _ := config.LoadAdminBootstrap(configPath)
	if errSeed := db.SeedAdmin(conn, bootstrap.Username, bootstrap.Password); errSeed != nil {
		return errSeed
	}

	// A season is always running once the service has booted; gaps only open
	// through an explicit admin stop.
	active, errSeason := season.NewManager(conn).EnsureActive(ctx)
	if errSeason != nil {
		return errSeason
	}
	log.WithField("season_id", active.ID).Info("app: active season ready")

	jwtCfg, _ := config.LoadJWTConfig(configPath)
	if strings.TrimSpace(jwtCfg.Secret) == "" {
		return fmt.Errorf("app: missing jwt secret (set `jwt.secret` or env %s)", config.EnvJWTSecret)
	}
	gwCfg, _ := config.LoadGatewayConfig(configPath)
	if gwCfg.Key == "" {
		log.Warn("app: gateway key not configured, gateway API disabled")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	adminapi.RegisterAdminRoutes(r, conn, jwtCfg)
	gatewayapi.RegisterGatewayRoutes(r, conn, gwCfg)

	addr := fmt.Sprintf(":%d", port)
	log.WithField("addr", addr).Info("app: server listening")
	return r.Run(addr)
}
