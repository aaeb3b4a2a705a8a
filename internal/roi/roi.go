package roi

import (
	"fmt"
	"math"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// ProjectionYears is the length of the straight-line savings projection.
const ProjectionYears = 5

// DefaultInputs returns the reference business case used when a caller
// leaves parameters out.
func DefaultInputs() models.ROIInputs {
	return models.ROIInputs{
		FleetSize:         100,
		FailuresPerYear:   20,
		CostPerFailure:    50000,
		DetectionRate:     0.95,
		MaintenanceCost:   100000,
		InitialInvestment: 250000,
	}
}

// Validate rejects inputs that would make the model meaningless.
func Validate(in models.ROIInputs) error {
	var errs []string

	if in.FleetSize < 0 {
		errs = append(errs, "fleet_size must be non-negative")
	}
	if !nonNegative(in.FailuresPerYear) {
		errs = append(errs, "failures_per_year must be a non-negative number")
	}
	if !nonNegative(in.CostPerFailure) {
		errs = append(errs, "cost_per_failure must be a non-negative number")
	}
	if math.IsNaN(in.DetectionRate) || in.DetectionRate < 0 || in.DetectionRate > 1 {
		errs = append(errs, "detection_rate must be between 0 and 1")
	}
	if !nonNegative(in.MaintenanceCost) {
		errs = append(errs, "maintenance_cost must be a non-negative number")
	}
	if !nonNegative(in.InitialInvestment) {
		errs = append(errs, "initial_investment must be a non-negative number")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", models.ErrInvalidInput, errs)
	}
	return nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// Calculate projects the savings of predictive maintenance. An investment of
// zero yields an ROI of 0 and a nil payback period means the investment is
// never recovered.
func Calculate(in models.ROIInputs) (*models.ROIResult, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	prevented := int(math.Floor(in.FailuresPerYear * in.DetectionRate))
	avoided := float64(prevented) * in.CostPerFailure
	net := avoided - in.MaintenanceCost

	result := &models.ROIResult{
		PreventedFailures:   prevented,
		FailureCostsAvoided: avoided,
		MaintenanceCost:     in.MaintenanceCost,
		NetSavings:          net,
		ROIPercentage:       percentOf(net, in.InitialInvestment),
		Projections:         make([]models.YearProjection, 0, ProjectionYears),
	}

	if net > 0 {
		years := in.InitialInvestment / net
		months := years * 12
		result.PaybackPeriodYears = &years
		result.PaybackPeriodMonths = &months
	}

	for year := 1; year <= ProjectionYears; year++ {
		savings := net * float64(year)
		result.Projections = append(result.Projections, models.YearProjection{
			Year:    year,
			Savings: savings,
			ROI:     percentOf(savings, in.InitialInvestment),
		})
	}

	return result, nil
}

func percentOf(value, base float64) float64 {
	if base <= 0 {
		return 0
	}
	return value / base * 100
}
