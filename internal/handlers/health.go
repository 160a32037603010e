package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler reports service and datastore status.
type HealthHandler struct {
	db      *sqlx.DB
	missing []string
}

// NewHealthHandler builds a HealthHandler. db may be nil when the
// datastore is not configured.
func NewHealthHandler(db *sqlx.DB, missing []string) *HealthHandler {
	return &HealthHandler{db: db, missing: missing}
}

// Status answers GET /.
func (h *HealthHandler) Status(c *gin.Context) {
	if len(h.missing) > 0 {
		c.JSON(http.StatusOK, gin.H{
			"status":           "degraded",
			"missing_env_vars": h.missing,
		})
		return
	}

	dbStatus := "connected"
	if h.db == nil || h.db.Ping() != nil {
		dbStatus = "unreachable"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbStatus})
}
