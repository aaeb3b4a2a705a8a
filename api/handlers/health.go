package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/predictive-maintenance/internal/classifier"
	"github.com/OldStager01/predictive-maintenance/internal/store"
	"github.com/OldStager01/predictive-maintenance/pkg/database"
)

// HealthHandler reports model and data availability. db is nil when the
// in-memory store is used.
type HealthHandler struct {
	store store.ReadingStore
	model classifier.Model
	db    *database.DB
}

func NewHealthHandler(s store.ReadingStore, model classifier.Model, db *database.DB) *HealthHandler {
	return &HealthHandler{store: s, model: model, db: db}
}

type HealthResponse struct {
	Status       string            `json:"status" example:"healthy"`
	ModelLoaded  bool              `json:"model_loaded"`
	DataLoaded   bool              `json:"data_loaded"`
	ModelVersion string            `json:"model_version,omitempty" example:"logistic-v1"`
	Timestamp    string            `json:"timestamp" example:"2024-01-15T10:30:00Z"`
	Checks       map[string]string `json:"checks,omitempty"`
	Database     *DatabaseStats    `json:"database,omitempty"`
}

type DatabaseStats struct {
	Version         string `json:"version,omitempty"`
	OpenConnections int    `json:"open_connections"`
	InUse           int    `json:"in_use"`
	Idle            int    `json:"idle"`
}

// Health godoc
// @Summary Service health
// @Description Reports whether the model and the reading store are usable. A missing model degrades the service without failing it.
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	resp := HealthResponse{Status: "healthy", Checks: checks}

	if err := h.store.HealthCheck(ctx); err != nil {
		checks["store"] = "unhealthy: " + err.Error()
		resp.Status = "unhealthy"
	} else {
		checks["store"] = "healthy"
		if n, err := h.store.Count(ctx); err == nil && n > 0 {
			resp.DataLoaded = true
		}
	}

	if h.model == nil {
		checks["model"] = "not loaded"
		if resp.Status == "healthy" {
			resp.Status = "degraded"
		}
	} else if err := h.model.HealthCheck(ctx); err != nil {
		checks["model"] = "unhealthy: " + err.Error()
		if resp.Status == "healthy" {
			resp.Status = "degraded"
		}
	} else {
		checks["model"] = "healthy"
		resp.ModelLoaded = true
		resp.ModelVersion = h.model.Version()
	}

	if h.db != nil {
		resp.Database = h.databaseStats(ctx)
	}

	statusCode := http.StatusOK
	if resp.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
	c.JSON(statusCode, resp)
}

func (h *HealthHandler) databaseStats(ctx context.Context) *DatabaseStats {
	stats := h.db.GetConnectionStats()
	out := &DatabaseStats{
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
	}
	if version, err := h.db.GetVersion(ctx); err == nil {
		out.Version = version
	}
	return out
}

// Ready godoc
// @Summary Readiness probe
// @Description Ready once the store answers, the schema exists and the model can predict
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if reason := h.notReady(ctx); reason != "" {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:    "not ready",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    map[string]string{"reason": reason},
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:      "ready",
		ModelLoaded: true,
		DataLoaded:  true,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) notReady(ctx context.Context) string {
	if err := h.store.HealthCheck(ctx); err != nil {
		return "store unavailable"
	}
	if h.db != nil {
		exists, err := h.db.TableExists(ctx, "sensor_readings")
		if err != nil || !exists {
			return "schema not migrated"
		}
	}
	if h.model == nil {
		return "model not loaded"
	}
	if err := h.model.HealthCheck(ctx); err != nil {
		return "model unavailable"
	}
	return ""
}

// Live godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
