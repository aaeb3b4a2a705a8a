package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
	"github.com/OldStager01/predictive-maintenance/pkg/validation"
)

const requestTimeout = 10 * time.Second

// machineIDParam reads :id and writes a 400 response when it is not a
// valid machine id.
func machineIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err == nil {
		err = validation.ValidateMachineID(id)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid machine id"})
		return 0, false
	}
	return id, true
}

// intQuery returns the integer query parameter key, or def when absent.
func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// storeError writes the response for a failed store lookup.
func storeError(c *gin.Context, machineID int, err error) {
	if errors.Is(err, models.ErrUnknownMachine) {
		c.JSON(http.StatusNotFound, gin.H{"error": "machine not found", "machine_id": machineID})
		return
	}
	logger.FromContext(c.Request.Context()).WithField("machine_id", machineID).Errorf("Store lookup failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read machine data"})
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
