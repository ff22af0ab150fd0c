package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.ApiService/middleware"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Engine/dashboard"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Engine/triggers"
	logger "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Logger"
	api_models "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models/api"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// MetricController handles sample capture and time-series queries
type MetricController struct {
	metricRepo     interfaces.MetricRepository
	triggerEngine  *triggers.Engine
	composer       *dashboard.Composer
	logger         *logger.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewMetricController creates a new metric controller
func NewMetricController(metricRepo interfaces.MetricRepository, triggerEngine *triggers.Engine, composer *dashboard.Composer, logger *logger.Logger, authMiddleware *middleware.AuthMiddleware) *MetricController {
	return &MetricController{
		metricRepo:     metricRepo,
		triggerEngine:  triggerEngine,
		composer:       composer,
		logger:         logger,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers the metric routes with Gin
func (c *MetricController) RegisterRoutes(router *gin.Engine) {
	// Capture is device-origin and unauthenticated.
	router.POST("/metrics", c.Capture)

	metrics := router.Group("/metrics", c.authMiddleware.Authenticate())
	{
		metrics.GET("/:deviceId", c.GetMetrics)
		metrics.GET("/:deviceId/latest", c.GetLatest)
		metrics.GET("/:deviceId/detailed", c.GetDetailed)
	}
}

func (c *MetricController) Capture(ctx *gin.Context) {
	var req api_models.CaptureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	sample, err := c.metricRepo.Capture(ctx, req.DeviceID, req.Data)
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to capture sensor data")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to capture sensor data"})
		return
	}

	// Trigger evaluation runs inside the capture request; a trigger failure
	// does not fail the capture itself.
	if _, err := c.triggerEngine.CheckTriggers(ctx, req.DeviceID, *sample); err != nil {
		c.logger.ErrorWithError(err, "Trigger checks failed after capture")
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "metric_id": sample.ID})
}

func (c *MetricController) GetMetrics(ctx *gin.Context) {
	deviceID := ctx.Param("deviceId")

	var from, to *time.Time
	if startStr := ctx.Query("start_date"); startStr != "" {
		if start, err := time.Parse(time.RFC3339, startStr); err == nil {
			from = &start
		}
	}
	if endStr := ctx.Query("end_date"); endStr != "" {
		if end, err := time.Parse(time.RFC3339, endStr); err == nil {
			to = &end
		}
	}

	samples, err := c.metricRepo.GetSamples(ctx, deviceID, from, to)
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to retrieve metrics")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve metrics"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "metrics": samples})
}

func (c *MetricController) GetLatest(ctx *gin.Context) {
	deviceID := ctx.Param("deviceId")

	sample, err := c.metricRepo.GetLatest(ctx, deviceID)
	if err != nil {
		if err == interfaces.ErrNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No data found for device"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve latest metrics"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "metric": sample})
}

func (c *MetricController) GetDetailed(ctx *gin.Context) {
	userID, _ := middleware.GetUserFromGinContext(ctx)
	deviceID := ctx.Param("deviceId")

	end := time.Now().UTC()
	start := end.Add(-24 * time.Hour)
	if startStr := ctx.Query("start_date"); startStr != "" {
		if parsed, err := time.Parse(time.RFC3339, startStr); err == nil {
			start = parsed
		}
	}
	if endStr := ctx.Query("end_date"); endStr != "" {
		if parsed, err := time.Parse(time.RFC3339, endStr); err == nil {
			end = parsed
		}
	}

	detailed, err := c.composer.GetDetailedMetrics(ctx, userID, deviceID, start, end)
	if err != nil {
		if err == interfaces.ErrNotFoundOrUnauthorized {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Unauthorized access to device"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve detailed metrics"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "metrics": detailed.Metrics, "analytics": detailed.Analytics, "device_id": detailed.DeviceID})
}
