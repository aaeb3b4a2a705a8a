package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/predictive-maintenance/internal/roi"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

type ROIHandler struct{}

func NewROIHandler() *ROIHandler {
	return &ROIHandler{}
}

// ROIRequest takes detection_rate in percent. Omitted fields use the
// reference business case.
type ROIRequest struct {
	FleetSize         *int     `json:"fleet_size" example:"100"`
	FailuresPerYear   *float64 `json:"failures_per_year" example:"20"`
	CostPerFailure    *float64 `json:"cost_per_failure" example:"50000"`
	DetectionRate     *float64 `json:"detection_rate" example:"95"`
	MaintenanceCost   *float64 `json:"maintenance_cost" example:"100000"`
	InitialInvestment *float64 `json:"initial_investment" example:"250000"`
}

func (r ROIRequest) Inputs() models.ROIInputs {
	in := roi.DefaultInputs()
	if r.FleetSize != nil {
		in.FleetSize = *r.FleetSize
	}
	if r.FailuresPerYear != nil {
		in.FailuresPerYear = *r.FailuresPerYear
	}
	if r.CostPerFailure != nil {
		in.CostPerFailure = *r.CostPerFailure
	}
	if r.DetectionRate != nil {
		in.DetectionRate = *r.DetectionRate / 100
	}
	if r.MaintenanceCost != nil {
		in.MaintenanceCost = *r.MaintenanceCost
	}
	if r.InitialInvestment != nil {
		in.InitialInvestment = *r.InitialInvestment
	}
	return in
}

type ROIInputParameters struct {
	FleetSize         int     `json:"fleet_size" example:"100"`
	FailuresPerYear   float64 `json:"failures_per_year" example:"20"`
	CostPerFailure    float64 `json:"cost_per_failure" example:"50000"`
	DetectionRate     float64 `json:"detection_rate" example:"95"`
	MaintenanceCost   float64 `json:"maintenance_cost" example:"100000"`
	InitialInvestment float64 `json:"initial_investment" example:"250000"`
}

type ROIResults struct {
	PreventedFailures   int      `json:"prevented_failures" example:"19"`
	FailureCostsAvoided float64  `json:"failure_costs_avoided" example:"950000"`
	MaintenanceCost     float64  `json:"maintenance_cost" example:"100000"`
	NetSavings          float64  `json:"net_savings" example:"850000"`
	ROIPercentage       float64  `json:"roi_percentage" example:"340"`
	PaybackPeriodYears  *float64 `json:"payback_period_years" example:"0.3"`
	PaybackPeriodMonths *float64 `json:"payback_period_months" example:"4"`
}

type ROIResponse struct {
	InputParameters ROIInputParameters      `json:"input_parameters"`
	Results         ROIResults              `json:"results"`
	Projections     []models.YearProjection `json:"projections"`
}

// NewROIResponse rounds the exact result for presentation: percentages and
// years to one decimal, months to whole months.
func NewROIResponse(in models.ROIInputs, res *models.ROIResult) ROIResponse {
	resp := ROIResponse{
		InputParameters: ROIInputParameters{
			FleetSize:         in.FleetSize,
			FailuresPerYear:   in.FailuresPerYear,
			CostPerFailure:    in.CostPerFailure,
			DetectionRate:     round(in.DetectionRate*100, 1),
			MaintenanceCost:   in.MaintenanceCost,
			InitialInvestment: in.InitialInvestment,
		},
		Results: ROIResults{
			PreventedFailures:   res.PreventedFailures,
			FailureCostsAvoided: res.FailureCostsAvoided,
			MaintenanceCost:     res.MaintenanceCost,
			NetSavings:          res.NetSavings,
			ROIPercentage:       round(res.ROIPercentage, 1),
		},
		Projections: make([]models.YearProjection, len(res.Projections)),
	}

	if res.PaysBack() {
		years := round(*res.PaybackPeriodYears, 1)
		months := round(*res.PaybackPeriodMonths, 0)
		resp.Results.PaybackPeriodYears = &years
		resp.Results.PaybackPeriodMonths = &months
	}

	for i, p := range res.Projections {
		resp.Projections[i] = models.YearProjection{
			Year:    p.Year,
			Savings: p.Savings,
			ROI:     round(p.ROI, 1),
		}
	}
	return resp
}

// bindROI parses the optional request body and runs the calculation,
// writing a 400 response on failure.
func bindROI(c *gin.Context) (models.ROIInputs, *models.ROIResult, bool) {
	var req ROIRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return models.ROIInputs{}, nil, false
		}
	}

	in := req.Inputs()
	res, err := roi.Calculate(in)
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to calculate ROI"})
		}
		return in, nil, false
	}
	return in, res, true
}

// Calculate godoc
// @Summary Calculate ROI
// @Description Business case for predictive maintenance with a five year projection. detection_rate is a percentage.
// @Tags ROI
// @Accept json
// @Produce json
// @Param request body ROIRequest false "Business case parameters"
// @Success 200 {object} ROIResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Router /api/roi/calculate [post]
func (h *ROIHandler) Calculate(c *gin.Context) {
	in, res, ok := bindROI(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NewROIResponse(in, res))
}
