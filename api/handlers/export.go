package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/predictive-maintenance/internal/export"
	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// ExportHandler renders downloadable reports.
type ExportHandler struct {
	fleet    *FleetHandler
	machines *MachineHandler
	now      func() time.Time
}

func NewExportHandler(fleet *FleetHandler, machines *MachineHandler) *ExportHandler {
	return &ExportHandler{fleet: fleet, machines: machines, now: time.Now}
}

// FleetXLSX godoc
// @Summary Export fleet workbook
// @Description Excel workbook with the fleet summary and one row per machine. Passing machine_id adds that machine's history sheet.
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param machine_id query int false "Machine whose history is included"
// @Param hours query int false "Hours of history" default(168)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "No machines reporting or invalid parameters"
// @Failure 404 {object} map[string]string "Machine not found"
// @Router /api/export/fleet.xlsx [get]
func (h *ExportHandler) FleetXLSX(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	summary, latest, err := h.fleet.summary(ctx)
	if err != nil {
		if errors.Is(err, models.ErrEmptyInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no machines reporting"})
			return
		}
		logger.FromContext(ctx).Errorf("Fleet export failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute fleet statistics"})
		return
	}

	report := export.FleetReport{
		GeneratedAt: h.now().UTC(),
		Summary:     summary,
		Machines:    h.fleet.analyzer.Statuses(latest),
	}

	if raw := c.Query("machine_id"); raw != "" {
		id, err := intQuery(c, "machine_id", -1)
		if err != nil || id < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid machine_id"})
			return
		}
		hours, err := intQuery(c, "hours", h.machines.cfg.DefaultHistoryHours)
		if err != nil || hours < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be a positive integer"})
			return
		}
		hours = min(hours, h.machines.cfg.MaxHistoryHours)

		history, err := h.machines.store.History(ctx, id, hours)
		if err != nil {
			storeError(c, id, err)
			return
		}
		report.History = history
	}

	data, err := export.BuildFleetXLSX(report)
	if err != nil {
		logger.FromContext(ctx).Errorf("Failed to build workbook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook"})
		return
	}

	filename := fmt.Sprintf("fleet-%s.xlsx", report.GeneratedAt.Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ROIPDF godoc
// @Summary Export ROI report
// @Description PDF rendering of the ROI calculation for the given parameters
// @Tags Export
// @Accept json
// @Produce application/pdf
// @Param request body ROIRequest false "Business case parameters"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Router /api/export/roi.pdf [post]
func (h *ExportHandler) ROIPDF(c *gin.Context) {
	in, res, ok := bindROI(c)
	if !ok {
		return
	}

	data, err := export.BuildROIPDF(in, res, h.now().UTC())
	if err != nil {
		logger.FromContext(c.Request.Context()).Errorf("Failed to build ROI report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="roi-report.pdf"`)
	c.Data(http.StatusOK, pdfContentType, data)
}
