package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/predictive-maintenance/internal/analyzer"
	"github.com/OldStager01/predictive-maintenance/internal/store"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
	"github.com/OldStager01/predictive-maintenance/pkg/validation"
)

const defaultPredictionsLimit = 10

type MachineHandlerConfig struct {
	DefaultHistoryHours int
	MaxHistoryHours     int
}

type MachineHandler struct {
	store    store.Store
	analyzer *analyzer.Analyzer
	cfg      MachineHandlerConfig
}

func NewMachineHandler(s store.Store, a *analyzer.Analyzer, cfg MachineHandlerConfig) *MachineHandler {
	if cfg.MaxHistoryHours <= 0 {
		cfg.MaxHistoryHours = validation.MaxHistoryHours
	}
	if cfg.DefaultHistoryHours <= 0 || cfg.DefaultHistoryHours > cfg.MaxHistoryHours {
		cfg.DefaultHistoryHours = min(168, cfg.MaxHistoryHours)
	}
	return &MachineHandler{store: s, analyzer: a, cfg: cfg}
}

type MachineListResponse struct {
	Machines []models.MachineStatus `json:"machines"`
	Total    int                    `json:"total" example:"20"`
}

type CurrentStatus struct {
	Status         models.HealthStatus `json:"status" example:"normal"`
	Temperature    float64             `json:"temperature" example:"612.4"`
	Pressure       float64             `json:"pressure" example:"54.1"`
	Vibration      float64             `json:"vibration" example:"5.2"`
	OilQuality     float64             `json:"oil_quality" example:"81.7"`
	OperatingHours int                 `json:"operating_hours" example:"311"`
	Failure        bool                `json:"failure"`
	Timestamp      time.Time           `json:"timestamp"`
}

type MachineResponse struct {
	ID            int           `json:"id" example:"7"`
	Name          string        `json:"name" example:"MCH-007"`
	CurrentStatus CurrentStatus `json:"current_status"`
}

type HistoryResponse struct {
	MachineID int              `json:"machine_id" example:"7"`
	Hours     int              `json:"hours" example:"168"`
	History   []models.Reading `json:"history"`
	Count     int              `json:"count" example:"168"`
}

type StatusResponse struct {
	analyzer.Assessment
	Name      string    `json:"name" example:"MCH-007"`
	Timestamp time.Time `json:"timestamp"`
}

type PredictionsResponse struct {
	MachineID   int                 `json:"machine_id" example:"7"`
	Predictions []models.Prediction `json:"predictions"`
	Count       int                 `json:"count" example:"3"`
}

// List godoc
// @Summary List machines
// @Description Every machine with its latest reading and rule-based health status
// @Tags Machines
// @Produce json
// @Success 200 {object} MachineListResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/machines [get]
func (h *MachineHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	latest, err := h.store.LatestPerMachine(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch machines"})
		return
	}

	machines := h.analyzer.Statuses(latest)
	if machines == nil {
		machines = []models.MachineStatus{}
	}

	c.JSON(http.StatusOK, MachineListResponse{
		Machines: machines,
		Total:    len(machines),
	})
}

// Get godoc
// @Summary Get machine
// @Description Latest reading of one machine together with its health status
// @Tags Machines
// @Produce json
// @Param id path int true "Machine ID"
// @Success 200 {object} MachineResponse
// @Failure 400 {object} map[string]string "Invalid machine ID"
// @Failure 404 {object} map[string]string "Machine not found"
// @Router /api/machines/{id} [get]
func (h *MachineHandler) Get(c *gin.Context) {
	id, ok := machineIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	r, err := h.store.Latest(ctx, id)
	if err != nil {
		storeError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, MachineResponse{
		ID:   id,
		Name: models.MachineName(id),
		CurrentStatus: CurrentStatus{
			Status:         h.analyzer.Classify(r),
			Temperature:    r.Temperature,
			Pressure:       r.Pressure,
			Vibration:      r.Vibration,
			OilQuality:     r.OilQuality,
			OperatingHours: r.OperatingHours,
			Failure:        r.Failure,
			Timestamp:      r.Timestamp,
		},
	})
}

// History godoc
// @Summary Machine history
// @Description The last N hourly readings of a machine in time order. Hours above the configured maximum are clamped.
// @Tags Machines
// @Produce json
// @Param id path int true "Machine ID"
// @Param hours query int false "Hours of history" default(168)
// @Success 200 {object} HistoryResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "Machine not found"
// @Router /api/machines/{id}/history [get]
func (h *MachineHandler) History(c *gin.Context) {
	id, ok := machineIDParam(c)
	if !ok {
		return
	}

	hours, err := intQuery(c, "hours", h.cfg.DefaultHistoryHours)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be an integer"})
		return
	}
	if hours > h.cfg.MaxHistoryHours {
		hours = h.cfg.MaxHistoryHours
	}
	if err := validation.ValidateHistoryHours(hours, h.cfg.MaxHistoryHours); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	history, err := h.store.History(ctx, id, hours)
	if err != nil {
		storeError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{
		MachineID: id,
		Hours:     hours,
		History:   history,
		Count:     len(history),
	})
}

// Status godoc
// @Summary Machine health assessment
// @Description Indicator-by-indicator breakdown of the rule-based status of the latest reading
// @Tags Machines
// @Produce json
// @Param id path int true "Machine ID"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} map[string]string "Invalid machine ID"
// @Failure 404 {object} map[string]string "Machine not found"
// @Router /api/machines/{id}/status [get]
func (h *MachineHandler) Status(c *gin.Context) {
	id, ok := machineIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	r, err := h.store.Latest(ctx, id)
	if err != nil {
		storeError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Assessment: h.analyzer.Evaluate(r),
		Name:       models.MachineName(id),
		Timestamp:  r.Timestamp,
	})
}

// Predictions godoc
// @Summary Recent predictions
// @Description Predictions previously served for a machine, newest first
// @Tags Machines
// @Produce json
// @Param id path int true "Machine ID"
// @Param limit query int false "Maximum number of predictions" default(10)
// @Success 200 {object} PredictionsResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/machines/{id}/predictions [get]
func (h *MachineHandler) Predictions(c *gin.Context) {
	id, ok := machineIDParam(c)
	if !ok {
		return
	}

	limit, err := intQuery(c, "limit", defaultPredictionsLimit)
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	predictions, err := h.store.RecentPredictions(ctx, id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch predictions"})
		return
	}
	if predictions == nil {
		predictions = []models.Prediction{}
	}

	c.JSON(http.StatusOK, PredictionsResponse{
		MachineID:   id,
		Predictions: predictions,
		Count:       len(predictions),
	})
}
