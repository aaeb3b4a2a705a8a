package models

import "time"

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
)

type Recommendation struct {
	Priority Priority `json:"priority"`
	Action   string   `json:"action"`
	Message  string   `json:"message"`
	Triggers []string `json:"triggers,omitempty"`
}

type CurrentReadings struct {
	Temperature    float64 `json:"temperature"`
	Pressure       float64 `json:"pressure"`
	Vibration      float64 `json:"vibration"`
	OilQuality     float64 `json:"oil_quality"`
	OperatingHours int     `json:"operating_hours"`
}

// Prediction is the classifier outcome for one machine wrapped with a
// maintenance recommendation. Confidence refers to the predicted class.
type Prediction struct {
	ID               int             `json:"id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	MachineID        int             `json:"machine_id"`
	FailurePredicted bool            `json:"failure_predicted"`
	Probability      float64         `json:"probability"`
	Confidence       float64         `json:"confidence"`
	Recommendation   Recommendation  `json:"recommendation"`
	CurrentReadings  CurrentReadings `json:"current_readings"`
	ModelVersion     string          `json:"model_version,omitempty"`
}

func (p *Prediction) IsHighConfidence(threshold float64) bool {
	return p.Confidence >= threshold
}

func NewCurrentReadings(r Reading) CurrentReadings {
	return CurrentReadings{
		Temperature:    r.Temperature,
		Pressure:       r.Pressure,
		Vibration:      r.Vibration,
		OilQuality:     r.OilQuality,
		OperatingHours: r.OperatingHours,
	}
}
