package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker is the slice of the storage backend the health endpoint needs.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Time    string `json:"time"`
	Detail  string `json:"detail,omitempty"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	storage HealthChecker
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(storage HealthChecker) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// Check handles GET /api/health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.storage.Health(ctx); err != nil {
		response.Status = "degraded"
		response.Storage = "unhealthy"
		response.Detail = err.Error()
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	response.Storage = "healthy"
	c.JSON(http.StatusOK, response)
}

// SetupHealthRoutes registers health check routes
func SetupHealthRoutes(apiGroup *gin.RouterGroup, storage HealthChecker) {
	handler := NewHealthHandler(storage)
	apiGroup.GET("/health", handler.Check)
}
