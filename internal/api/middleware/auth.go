package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const APIKeyHeader = "X-API-Key"

// APIKeyAuth rejects requests without one of the configured keys. With no keys
// configured every request passes.
func APIKeyAuth(keys []string) gin.HandlerFunc {
	allowed := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			allowed = append(allowed, []byte(k))
		}
	}

	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}

		provided := []byte(c.GetHeader(APIKeyHeader))
		for _, k := range allowed {
			if subtle.ConstantTimeCompare(provided, k) == 1 {
				c.Next()
				return
			}
		}

		log.Warn().
			Str("request_id", GetRequestID(c)).
			Str("path", c.Request.URL.Path).
			Str("ip", c.ClientIP()).
			Msg("rejected request with missing or invalid api key")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "invalid or missing API key",
		})
	}
}
