package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.ApiService/middleware"
	logger "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Logger"
	api_models "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models/api"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// DeviceController handles device registration and listing
type DeviceController struct {
	deviceRepo     interfaces.DeviceRepository
	logger         *logger.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewDeviceController creates a new device controller
func NewDeviceController(deviceRepo interfaces.DeviceRepository, logger *logger.Logger, authMiddleware *middleware.AuthMiddleware) *DeviceController {
	return &DeviceController{
		deviceRepo:     deviceRepo,
		logger:         logger,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers the device routes with Gin
func (c *DeviceController) RegisterRoutes(router *gin.Engine) {
	devices := router.Group("/devices", c.authMiddleware.Authenticate())
	{
		devices.POST("", c.Register)
		devices.GET("", c.List)
	}
}

func (c *DeviceController) Register(ctx *gin.Context) {
	userID, _ := middleware.GetUserFromGinContext(ctx)

	var req api_models.AddDeviceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	device, err := c.deviceRepo.AddUserDevice(ctx, userID, req.DeviceID, req.DeviceName, req.Location)
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to add device")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to add device"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "device": device})
}

func (c *DeviceController) List(ctx *gin.Context) {
	userID, _ := middleware.GetUserFromGinContext(ctx)

	deviceIDs, err := c.deviceRepo.GetUserDevices(ctx, userID)
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to list user devices")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list user devices"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "devices": deviceIDs})
}
