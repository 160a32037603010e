package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"event-service/internal/models"
	"event-service/internal/telemetry"
)

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router *gin.Engine, emitter *telemetry.ActivityEmitter, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/activity-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "activity emitter not configured"})
			return
		}
		emitter.Emit(c.Request.Context(), models.Activity{
			Type:      "debug",
			User:      "debug",
			Action:    "activity test",
			Timestamp: time.Now(),
		}, requestIDFromContext(c))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
