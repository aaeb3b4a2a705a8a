package models

import (
	"fmt"
	"time"
)

type Sensor string

const (
	SensorTemperature Sensor = "temperature"
	SensorPressure    Sensor = "pressure"
	SensorVibration   Sensor = "vibration"
	SensorOilQuality  Sensor = "oil_quality"
)

// Sensors lists the raw sensor channels in their canonical column order.
var Sensors = []Sensor{SensorTemperature, SensorPressure, SensorVibration, SensorOilQuality}

// Reading is one sensor sample for one machine at one instant.
type Reading struct {
	MachineID      int       `json:"machine_id"`
	Timestamp      time.Time `json:"timestamp"`
	OperatingHours int       `json:"operating_hours"`
	Temperature    float64   `json:"temperature"`
	Pressure       float64   `json:"pressure"`
	Vibration      float64   `json:"vibration"`
	OilQuality     float64   `json:"oil_quality"`
	Failure        bool      `json:"failure"`
}

// Value returns the raw value of a sensor channel.
func (r Reading) Value(s Sensor) float64 {
	switch s {
	case SensorTemperature:
		return r.Temperature
	case SensorPressure:
		return r.Pressure
	case SensorVibration:
		return r.Vibration
	case SensorOilQuality:
		return r.OilQuality
	default:
		panic(fmt.Sprintf("models: unknown sensor %q", s))
	}
}

// MachineName formats the display name used by the dashboard, e.g. MCH-007.
func MachineName(machineID int) string {
	return fmt.Sprintf("MCH-%03d", machineID)
}
