package models

// ROIInputs are the parameters of the predictive maintenance business case.
// DetectionRate is a fraction in [0,1].
type ROIInputs struct {
	FleetSize         int     `json:"fleet_size"`
	FailuresPerYear   float64 `json:"failures_per_year"`
	CostPerFailure    float64 `json:"cost_per_failure"`
	DetectionRate     float64 `json:"detection_rate"`
	MaintenanceCost   float64 `json:"maintenance_cost"`
	InitialInvestment float64 `json:"initial_investment"`
}

type YearProjection struct {
	Year    int     `json:"year"`
	Savings float64 `json:"savings"`
	ROI     float64 `json:"roi"`
}

// ROIResult holds exact values; rounding is left to presentation.
// A nil payback period means the investment never pays back.
type ROIResult struct {
	PreventedFailures   int              `json:"prevented_failures"`
	FailureCostsAvoided float64          `json:"failure_costs_avoided"`
	MaintenanceCost     float64          `json:"maintenance_cost"`
	NetSavings          float64          `json:"net_savings"`
	ROIPercentage       float64          `json:"roi_percentage"`
	PaybackPeriodYears  *float64         `json:"payback_period_years"`
	PaybackPeriodMonths *float64         `json:"payback_period_months"`
	Projections         []YearProjection `json:"projections"`
}

// PaysBack reports whether the payback period is finite.
func (r *ROIResult) PaysBack() bool {
	return r.PaybackPeriodYears != nil
}
