package models

// AverageMetrics are fleet-wide means over the latest reading of each machine.
type AverageMetrics struct {
	Temperature    float64 `json:"temperature"`
	Pressure       float64 `json:"pressure"`
	Vibration      float64 `json:"vibration"`
	OilQuality     float64 `json:"oil_quality"`
	OperatingHours float64 `json:"operating_hours"`
}

// FleetSummary is recomputed on every request and never cached.
type FleetSummary struct {
	TotalMachines      int            `json:"total_machines"`
	NormalMachines     int            `json:"healthy_machines"`
	WarningMachines    int            `json:"warning_machines"`
	CriticalMachines   int            `json:"critical_machines"`
	NormalPercentage   float64        `json:"health_percentage"`
	WarningPercentage  float64        `json:"warning_percentage"`
	CriticalPercentage float64        `json:"critical_percentage"`
	AverageMetrics     AverageMetrics `json:"average_metrics"`
	TotalReadings      int            `json:"total_readings,omitempty"`
}
