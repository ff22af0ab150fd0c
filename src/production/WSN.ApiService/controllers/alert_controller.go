package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.ApiService/middleware"
	logger "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Logger"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// AlertController handles alert listing and state transitions
type AlertController struct {
	alertRepo      interfaces.AlertRepository
	logger         *logger.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewAlertController creates a new alert controller
func NewAlertController(alertRepo interfaces.AlertRepository, logger *logger.Logger, authMiddleware *middleware.AuthMiddleware) *AlertController {
	return &AlertController{
		alertRepo:      alertRepo,
		logger:         logger,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers the alert routes with Gin
func (c *AlertController) RegisterRoutes(router *gin.Engine) {
	alerts := router.Group("/alerts", c.authMiddleware.Authenticate())
	{
		alerts.GET("", c.List)
		alerts.GET("/history", c.History)
		alerts.PUT("/:alertId/read", c.MarkRead)
		alerts.PUT("/:alertId/acknowledge", c.Acknowledge)
	}
}

func (c *AlertController) List(ctx *gin.Context) {
	userID, _ := middleware.GetUserFromGinContext(ctx)
	includeRead := ctx.Query("include_read") == "true"

	alerts, err := c.alertRepo.ListByUser(ctx, userID, includeRead)
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to retrieve user alerts")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve user alerts"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "alerts": alerts})
}

func (c *AlertController) MarkRead(ctx *gin.Context) {
	userID, _ := middleware.GetUserFromGinContext(ctx)
	alertID := ctx.Param("alertId")

	alert, err := c.alertRepo.MarkRead(ctx, userID, alertID)
	if err != nil {
		c.respondMutationError(ctx, err, "Failed to mark alert as read")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "alert": alert})
}

func (c *AlertController) Acknowledge(ctx *gin.Context) {
	userID, _ := middleware.GetUserFromGinContext(ctx)
	alertID := ctx.Param("alertId")

	alert, err := c.alertRepo.Acknowledge(ctx, userID, alertID)
	if err != nil {
		c.respondMutationError(ctx, err, "Failed to acknowledge alert")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "alert": alert})
}

func (c *AlertController) History(ctx *gin.Context) {
	userID, _ := middleware.GetUserFromGinContext(ctx)

	days := 30
	if daysStr := ctx.Query("days"); daysStr != "" {
		if parsed, err := strconv.Atoi(daysStr); err == nil && parsed > 0 {
			days = parsed
		}
	}

	history, err := c.alertRepo.History(ctx, userID, days)
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to retrieve alert history")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve alert history"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":      true,
		"history":      history.Alerts,
		"statistics":   history.Statistics,
		"total_alerts": history.TotalAlerts,
	})
}

func (c *AlertController) respondMutationError(ctx *gin.Context, err error, msg string) {
	if err == interfaces.ErrNotFoundOrUnauthorized {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Alert not found or unauthorized"})
		return
	}
	c.logger.ErrorWithError(err, msg)
	ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": msg})
}
