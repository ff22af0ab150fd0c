package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.ApiService/middleware"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Engine/analytics"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Engine/dashboard"
	logger "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Logger"
)

// DashboardController handles dashboard and analytics requests
type DashboardController struct {
	composer       *dashboard.Composer
	aggregator     *analytics.Aggregator
	logger         *logger.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(composer *dashboard.Composer, aggregator *analytics.Aggregator, logger *logger.Logger, authMiddleware *middleware.AuthMiddleware) *DashboardController {
	return &DashboardController{
		composer:       composer,
		aggregator:     aggregator,
		logger:         logger,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers the dashboard routes with Gin
func (c *DashboardController) RegisterRoutes(router *gin.Engine) {
	router.GET("/dashboard", c.authMiddleware.Authenticate(), c.GetDashboard)
	router.GET("/analytics/:deviceId", c.authMiddleware.Authenticate(), c.GetAnalytics)
}

func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	userID, _ := middleware.GetUserFromGinContext(ctx)
	deviceID := ctx.Query("device_id")
	period := ctx.DefaultQuery("period", analytics.Period24h)

	view, err := c.composer.Dashboard(ctx, userID, deviceID, period)
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to retrieve dashboard data")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve dashboard data"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "dashboard": view})
}

func (c *DashboardController) GetAnalytics(ctx *gin.Context) {
	deviceID := ctx.Param("deviceId")
	period := ctx.DefaultQuery("period", analytics.Period24h)

	result, err := c.aggregator.Analytics(ctx, deviceID, period)
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to generate analytics")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate analytics"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "analytics": result})
}
