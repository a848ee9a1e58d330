package handlers

import (
	"errors"
	"net/http"
	"strings"

	"fitplanner-backend/logger"
	"fitplanner-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	contextUserID = "userID"
	contextEmail  = "email"
)

// AuthMiddleware requires a valid bearer token and stores the caller's
// identity in the gin context
func AuthMiddleware(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. No token provided or malformed token."})
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Token has expired."})
			case errors.Is(err, service.ErrTokenInvalid):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Invalid token."})
			case errors.Is(err, service.ErrTokenSecretMissing):
				logger.Error("JWT_SECRET is not configured")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error (auth)."})
			default:
				logger.Error("authentication error", "error", err)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Token verification failed."})
			}
			return
		}

		// Verify already checked the format
		userID, _ := uuid.Parse(claims.UserID)
		c.Set(contextUserID, userID)
		c.Set(contextEmail, claims.Email)
		c.Next()
	}
}

func currentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(contextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
