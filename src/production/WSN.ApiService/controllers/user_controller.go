package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	authservice "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.ApiService/implementation/auth"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.ApiService/middleware"
	logger "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Logger"
	api_models "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models/api"
	interfaces "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Interfaces"
)

// UserController handles account and settings requests
type UserController struct {
	authService    *authservice.Service
	userRepo       interfaces.UserRepository
	logger         *logger.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewUserController creates a new user controller
func NewUserController(authService *authservice.Service, userRepo interfaces.UserRepository, logger *logger.Logger, authMiddleware *middleware.AuthMiddleware) *UserController {
	return &UserController{
		authService:    authService,
		userRepo:       userRepo,
		logger:         logger,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers the user routes with Gin
func (c *UserController) RegisterRoutes(router *gin.Engine) {
	router.POST("/signup", c.Signup)
	router.POST("/login", c.Login)

	user := router.Group("/user")
	{
		user.GET("/profile", c.authMiddleware.Authenticate(), c.GetProfile)
		user.PUT("/settings", c.authMiddleware.Authenticate(), c.UpdateSettings)
	}
}

func (c *UserController) Signup(ctx *gin.Context) {
	var req api_models.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	resp, err := c.authService.Signup(ctx, req)
	if err != nil {
		c.logger.ErrorWithError(err, "Signup failed")
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "user": resp})
}

func (c *UserController) Login(ctx *gin.Context) {
	var req api_models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	resp, err := c.authService.Login(ctx, req)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "user": resp})
}

func (c *UserController) GetProfile(ctx *gin.Context) {
	userID, _ := middleware.GetUserFromGinContext(ctx)

	user, err := c.userRepo.GetUser(ctx, userID)
	if err != nil {
		if err == interfaces.ErrNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve user information"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (c *UserController) UpdateSettings(ctx *gin.Context) {
	userID, _ := middleware.GetUserFromGinContext(ctx)

	var update api_models.SettingsUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	user, err := c.userRepo.GetUser(ctx, userID)
	if err != nil {
		if err == interfaces.ErrNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to retrieve user information"})
		return
	}

	// Merge-update: absent fields keep their current value.
	if update.NotificationsEnabled != nil {
		user.Settings.NotificationsEnabled = *update.NotificationsEnabled
	}
	if update.AlertThreshold != nil {
		user.Settings.AlertThreshold = *update.AlertThreshold
	}
	now := time.Now().UTC()
	user.UpdatedAt = &now

	if err := c.userRepo.UpdateUser(ctx, *user); err != nil {
		c.logger.ErrorWithError(err, "Failed to update user settings")
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update user settings"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
