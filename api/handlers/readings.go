package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/predictive-maintenance/internal/ingest"
	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

type ReadingsHandler struct {
	parser   *ingest.Parser
	ingester *ingest.Ingester
}

func NewReadingsHandler(parser *ingest.Parser, ingester *ingest.Ingester) *ReadingsHandler {
	return &ReadingsHandler{parser: parser, ingester: ingester}
}

type IngestResponse struct {
	Accepted int `json:"accepted" example:"20"`
}

// Ingest godoc
// @Summary Ingest readings
// @Description Accepts one reading object or an array of readings. A missing timestamp is stamped with the receive time. One malformed reading rejects the whole batch.
// @Tags Readings
// @Accept json
// @Produce json
// @Param request body []models.Reading true "Readings"
// @Success 201 {object} IngestResponse
// @Failure 400 {object} map[string]string "Unreadable body"
// @Failure 413 {object} map[string]string "Batch too large"
// @Failure 422 {object} map[string]string "Malformed reading"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/readings [post]
func (h *ReadingsHandler) Ingest(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	readings, err := h.parser.Parse(body, -1)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.ingester.Ingest(ctx, readings, ingest.SourceHTTP); err != nil {
		switch {
		case errors.Is(err, ingest.ErrBatchTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrMalformedReading):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			logger.FromContext(ctx).Errorf("Ingest failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store readings"})
		}
		return
	}

	c.JSON(http.StatusCreated, IngestResponse{Accepted: len(readings)})
}
