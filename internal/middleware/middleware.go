package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes admits inline image payloads on event and profile writes.
const MaxBodyBytes = 10 << 20

// BodySizeLimit caps request bodies; oversized reads fail inside the
// handler's bind with a 400.
func BodySizeLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
		c.Next()
	}
}

// NotConfigured short-circuits every data route with a uniform response
// when required environment variables are absent, instead of crashing at
// startup or surfacing raw datastore errors.
func NotConfigured(missing []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":            "service not configured",
			"missing_env_vars": missing,
			"remediation":      "set the listed environment variables and restart the service",
		})
	}
}
