package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simpok/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Keys used to store owner information in gin.Context
const (
	OwnerIDKey     = "owner_id"
	OwnerHeaderKey = "X-Owner-ID"
)

// OwnerMiddlewareConfig holds configuration for owner middleware
type OwnerMiddlewareConfig struct {
	// HeaderEnabled enables X-Owner-ID header extraction
	HeaderEnabled bool
	// SkipPaths are paths that don't require owner context (e.g., health check)
	SkipPaths []string
	// Required determines if owner context is mandatory
	Required bool
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultOwnerConfig returns default owner middleware configuration
func DefaultOwnerConfig() OwnerMiddlewareConfig {
	return OwnerMiddlewareConfig{
		HeaderEnabled: true,
		SkipPaths:     []string{"/health", "/healthz", "/ready", "/api/v1/health"},
		Required:      true,
		Logger:        nil,
	}
}

// OwnerMiddleware extracts the owner ID from the X-Owner-ID header.
// Every ledger entity is scoped to a single owner; requests without a
// valid owner are rejected before reaching any handler.
func OwnerMiddleware() gin.HandlerFunc {
	return OwnerMiddlewareWithConfig(DefaultOwnerConfig())
}

// OwnerMiddlewareWithConfig returns owner middleware with custom configuration
func OwnerMiddlewareWithConfig(cfg OwnerMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check if path should be skipped
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		var ownerID string
		if cfg.HeaderEnabled {
			ownerID = c.GetHeader(OwnerHeaderKey)
		}

		// Validate owner ID format if present
		if ownerID != "" {
			if _, err := uuid.Parse(ownerID); err != nil {
				respondUnauthorized(c, "Invalid owner ID format")
				return
			}
		}

		if ownerID == "" && cfg.Required {
			respondUnauthorized(c, "Owner identification required")
			return
		}

		if ownerID != "" {
			// Set in gin context for easy access in handlers
			c.Set(OwnerIDKey, ownerID)

			// Set in request context for service layer access
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithOwnerID(ctx, log, ownerID)
			c.Request = c.Request.WithContext(ctx)

			if cfg.Logger != nil {
				cfg.Logger.Debug("Owner identified", zap.String("owner_id", ownerID))
			}
		}

		c.Next()
	}
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetOwnerID retrieves the owner ID from gin.Context
func GetOwnerID(c *gin.Context) string {
	if ownerID, exists := c.Get(OwnerIDKey); exists {
		if oid, ok := ownerID.(string); ok {
			return oid
		}
	}
	return ""
}

// GetOwnerUUID retrieves the owner ID as UUID from gin.Context
func GetOwnerUUID(c *gin.Context) (uuid.UUID, error) {
	ownerID := GetOwnerID(c)
	if ownerID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(ownerID)
}

// MustGetOwnerUUID retrieves the owner ID as UUID or panics if not found.
// Use this only in handlers behind OwnerMiddleware with Required set.
func MustGetOwnerUUID(c *gin.Context) uuid.UUID {
	ownerUUID, err := GetOwnerUUID(c)
	if err != nil || ownerUUID == uuid.Nil {
		panic("valid owner_id not found in context")
	}
	return ownerUUID
}

// OptionalOwnerMiddleware creates middleware that doesn't require an owner
func OptionalOwnerMiddleware() gin.HandlerFunc {
	cfg := DefaultOwnerConfig()
	cfg.Required = false
	return OwnerMiddlewareWithConfig(cfg)
}
