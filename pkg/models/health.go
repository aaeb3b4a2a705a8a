package models

type HealthStatus string

const (
	HealthNormal   HealthStatus = "normal"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

// Severity orders statuses so transitions can be compared.
func (s HealthStatus) Severity() int {
	switch s {
	case HealthCritical:
		return 2
	case HealthWarning:
		return 1
	default:
		return 0
	}
}

// MachineStatus is a machine's latest reading together with its rule-based status.
type MachineStatus struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	Status         HealthStatus `json:"status"`
	OperatingHours int          `json:"operating_hours"`
	Temperature    float64      `json:"temperature"`
	Pressure       float64      `json:"pressure"`
	Vibration      float64      `json:"vibration"`
	OilQuality     float64      `json:"oil_quality"`
}

func NewMachineStatus(r Reading, status HealthStatus) MachineStatus {
	return MachineStatus{
		ID:             r.MachineID,
		Name:           MachineName(r.MachineID),
		Status:         status,
		OperatingHours: r.OperatingHours,
		Temperature:    r.Temperature,
		Pressure:       r.Pressure,
		Vibration:      r.Vibration,
		OilQuality:     r.OilQuality,
	}
}
