package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// HealthController exposes liveness and readiness probes
type HealthController struct {
	store interfaces.KVStore
}

// NewHealthController creates a new health controller
func NewHealthController(store interfaces.KVStore) *HealthController {
	return &HealthController{store: store}
}

// RegisterRoutes registers the health routes with Gin
func (c *HealthController) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", c.Health)
	router.GET("/health/ready", c.Ready)
}

func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready verifies the key-value store with a write/read round trip.
func (c *HealthController) Ready(ctx *gin.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	probe := time.Now().UTC().Format(time.RFC3339Nano)
	if err := c.store.Set(probeCtx, "health:probe", probe); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": "store write failed"})
		return
	}
	var echoed string
	if err := c.store.Get(probeCtx, "health:probe", &echoed); err != nil || echoed != probe {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": "store read failed"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    gin.H{"store": "ok"},
	})
}
