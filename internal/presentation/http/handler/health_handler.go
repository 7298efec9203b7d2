package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/infrastructure/database"
)

// HealthHandler reports liveness and connection pool usage
type HealthHandler struct {
	pool    *database.ConnPool
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(pool *database.ConnPool, version string) *HealthHandler {
	return &HealthHandler{pool: pool, version: version}
}

// Health answers 200 while a connection can be checked out, 503 otherwise.
func (h *HealthHandler) Health(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	err := h.pool.WithConn(c.Request.Context(), func(conn *database.Conn) error {
		return conn.Raw().PingContext(c.Request.Context())
	})
	if err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":  status,
		"version": h.version,
		"pool":    h.pool.Stats(),
	})
}
