package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortify-be/internal/apperrors"
	"shortify-be/internal/repository"
)

// APIKeyUsage tracks usage of API keys presented via the X-API-Key header.
// No endpoint requires a key; requests without one pass through untouched,
// but a presented key must be valid and active.
func APIKeyUsage(repo repository.APIKeyRepository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			c.Next()
			return
		}

		record, err := repo.FindActive(key)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
				c.Abort()
				return
			}
			log.Warn("API key lookup failed", zap.Error(err))
			c.Next()
			return
		}

		if err := repo.TouchUsage(record.APIKey); err != nil {
			log.Warn("failed to update API key usage", zap.Error(err))
		}

		c.Next()
	}
}
