package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwt "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.ApiService/implementation/jwt"
)

// Context keys
const (
	UserIDContextKey  = "user_id"
	TokenIDContextKey = "token_id"
)

// AuthMiddleware verifies bearer tokens on protected routes
type AuthMiddleware struct {
	jwtService *jwt.Service
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtService *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// extractToken gets the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	token := r.Header.Get("Authorization")
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, "Bearer ") {
		return strings.TrimPrefix(token, "Bearer ")
	}
	return token
}

// Authenticate middleware verifies the access token
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := extractToken(c.Request)
		if accessToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization token required"})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateAccessToken(accessToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(UserIDContextKey, claims.UserID)
		c.Set(TokenIDContextKey, claims.TokenID)
		c.Next()
	}
}

// GetUserFromGinContext returns the authenticated user ID
func GetUserFromGinContext(c *gin.Context) (string, bool) {
	userID, ok := c.Get(UserIDContextKey)
	if !ok {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}
