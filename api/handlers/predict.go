package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/predictive-maintenance/api/middleware"
	"github.com/OldStager01/predictive-maintenance/internal/classifier"
	"github.com/OldStager01/predictive-maintenance/internal/events"
	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/internal/metrics"
	"github.com/OldStager01/predictive-maintenance/internal/predictor"
	"github.com/OldStager01/predictive-maintenance/internal/store"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

type PredictHandler struct {
	store     store.Store
	service   *predictor.Service
	model     classifier.Model
	publisher *events.Publisher
}

func NewPredictHandler(s store.Store, service *predictor.Service, model classifier.Model, publisher *events.Publisher) *PredictHandler {
	return &PredictHandler{
		store:     s,
		service:   service,
		model:     model,
		publisher: publisher,
	}
}

type PredictionResult struct {
	FailurePredicted bool    `json:"failure_predicted"`
	Probability      float64 `json:"probability" example:"0.82"`
	Confidence       float64 `json:"confidence" example:"0.82"`
	ModelVersion     string  `json:"model_version,omitempty" example:"logistic-v1"`
}

type PredictResponse struct {
	MachineID       int                    `json:"machine_id" example:"7"`
	Name            string                 `json:"name" example:"MCH-007"`
	Prediction      PredictionResult       `json:"prediction"`
	CurrentReadings models.CurrentReadings `json:"current_readings"`
	Recommendation  models.Recommendation  `json:"recommendation"`
	Timestamp       time.Time              `json:"timestamp"`
}

// Predict godoc
// @Summary Predict machine failure
// @Description Runs the failure classifier on the latest engineered features of a machine and returns a maintenance recommendation
// @Tags Predictions
// @Produce json
// @Param id path int true "Machine ID"
// @Success 200 {object} PredictResponse
// @Failure 400 {object} map[string]string "Invalid machine ID or insufficient data"
// @Failure 404 {object} map[string]string "Machine not found"
// @Failure 429 {object} map[string]interface{} "Rate limit exceeded"
// @Failure 503 {object} map[string]string "Model unavailable"
// @Router /api/predict/{id} [get]
func (h *PredictHandler) Predict(c *gin.Context) {
	id, ok := machineIDParam(c)
	if !ok {
		return
	}

	if h.model == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model not loaded"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	history, err := h.store.History(ctx, id, h.service.HistorySize())
	if err != nil {
		storeError(c, id, err)
		return
	}

	start := time.Now()
	prediction, err := h.service.Predict(ctx, history, h.model)
	if err != nil {
		metrics.ObservePredictionError(time.Since(start))
		h.predictionError(c, id, err)
		return
	}
	metrics.ObservePrediction(prediction.Recommendation.Priority, time.Since(start))

	if err := h.store.SavePrediction(ctx, prediction); err != nil {
		logger.FromContext(ctx).WithField("machine_id", id).Warnf("Failed to record prediction: %v", err)
	}

	h.publisher.WithTraceID(middleware.GetTraceID(c)).PredictionMade(prediction)

	c.JSON(http.StatusOK, PredictResponse{
		MachineID: id,
		Name:      models.MachineName(id),
		Prediction: PredictionResult{
			FailurePredicted: prediction.FailurePredicted,
			Probability:      prediction.Probability,
			Confidence:       prediction.Confidence,
			ModelVersion:     prediction.ModelVersion,
		},
		CurrentReadings: prediction.CurrentReadings,
		Recommendation:  prediction.Recommendation,
		Timestamp:       prediction.CreatedAt,
	})
}

func (h *PredictHandler) predictionError(c *gin.Context, machineID int, err error) {
	entry := logger.FromContext(c.Request.Context()).WithField("machine_id", machineID)

	switch {
	case errors.Is(err, models.ErrInsufficientData):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient data for prediction", "machine_id": machineID})
	case errors.Is(err, models.ErrInvalidInput):
		entry.Errorf("Prediction input rejected: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "inconsistent machine history"})
	case errors.Is(err, context.DeadlineExceeded):
		entry.Warnf("Prediction timed out: %v", err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "prediction timed out"})
	default:
		entry.Errorf("Prediction failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "prediction model unavailable"})
	}
}
