// cmd/worker/startup.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"yamdb-backend/pkg/container"
)

// startServices performs health checks and starts the probe endpoint
func startServices(c *container.Container) error {
	log.Info().Msg("============================================")
	log.Info().Msg("🚀 YaMDb Worker Starting...")
	log.Info().Msg("============================================")

	if err := checkAll(c); err != nil {
		return err
	}

	go startHealthCheckServer(c)
	return nil
}

// checkAll runs all health checks
func checkAll(c *container.Container) error {
	checks := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"PostgreSQL Connection", c.DB.Ping},
		{"Redis Connection", c.Cache.Ping},
	}

	for _, check := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()
		if err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("❌ Health check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("✓ OK")
	}
	return nil
}

// startHealthCheckServer exposes /health and /ready for the orchestrator
func startHealthCheckServer(c *container.Container) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "UP", "service": "yamdb-worker"})
	})
	router.GET("/ready", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	addr := ":" + c.Config.Queue.HealthPort
	log.Info().Str("addr", addr).Msg("[Health] Starting health check server")
	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}
