package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/predictive-maintenance/internal/analyzer"
	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/internal/store"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

type FleetHandler struct {
	store    store.ReadingStore
	analyzer *analyzer.Analyzer
}

func NewFleetHandler(s store.ReadingStore, a *analyzer.Analyzer) *FleetHandler {
	return &FleetHandler{store: s, analyzer: a}
}

// Stats godoc
// @Summary Fleet statistics
// @Description Health distribution and average sensor values over the latest reading of every machine. Recomputed on every request.
// @Tags Fleet
// @Produce json
// @Success 200 {object} models.FleetSummary
// @Failure 400 {object} map[string]string "No machines reporting"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/fleet/stats [get]
func (h *FleetHandler) Stats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	summary, _, err := h.summary(ctx)
	if err != nil {
		if errors.Is(err, models.ErrEmptyInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no machines reporting"})
			return
		}
		logger.FromContext(ctx).Errorf("Fleet summary failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute fleet statistics"})
		return
	}

	total, err := h.store.Count(ctx)
	if err != nil {
		logger.FromContext(ctx).Warnf("Failed to count readings: %v", err)
	} else {
		summary.TotalReadings = total
	}

	c.JSON(http.StatusOK, summary)
}

// summary aggregates the latest reading of every machine. The readings are
// returned for callers that also need per-machine rows.
func (h *FleetHandler) summary(ctx context.Context) (*models.FleetSummary, []models.Reading, error) {
	latest, err := h.store.LatestPerMachine(ctx)
	if err != nil {
		return nil, nil, err
	}
	summary, err := h.analyzer.SummarizeParallel(ctx, latest)
	if err != nil {
		return nil, nil, err
	}
	return summary, latest, nil
}
