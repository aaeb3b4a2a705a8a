package analyzer

import (
	"math"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// Range is a closed interval [Low, High]; HighOpen makes it [Low, High).
// Use math.Inf for unbounded ends.
type Range struct {
	Low      float64
	High     float64
	HighOpen bool
}

func (r Range) Contains(v float64) bool {
	if v < r.Low {
		return false
	}
	if r.HighOpen {
		return v < r.High
	}
	return v <= r.High
}

func below(limit float64) Range {
	return Range{Low: math.Inf(-1), High: limit, HighOpen: true}
}

func atMost(limit float64) Range {
	return Range{Low: math.Inf(-1), High: limit}
}

func atLeast(limit float64) Range {
	return Range{Low: limit, High: math.Inf(1)}
}

// Indicator holds the normal and warning bands of one sensor. The bands may
// overlap, so a single value can count towards both.
type Indicator struct {
	Sensor  models.Sensor
	Normal  []Range
	Warning []Range
}

func (ind Indicator) IsNormal(v float64) bool {
	return anyContains(ind.Normal, v)
}

func (ind Indicator) IsWarning(v float64) bool {
	return anyContains(ind.Warning, v)
}

func anyContains(ranges []Range, v float64) bool {
	for _, r := range ranges {
		if r.Contains(v) {
			return true
		}
	}
	return false
}

// Thresholds is the decision table used by the health classifier.
type Thresholds []Indicator

// DefaultThresholds returns the production decision table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		{
			Sensor:  models.SensorTemperature,
			Normal:  []Range{{Low: 580, High: 640}},
			Warning: []Range{{Low: 630, High: 650}, below(570)},
		},
		{
			Sensor:  models.SensorPressure,
			Normal:  []Range{{Low: 54.5, High: 55.5}},
			Warning: []Range{{Low: 55.3, High: 55.7}, below(54.3)},
		},
		{
			Sensor:  models.SensorVibration,
			Normal:  []Range{atMost(15)},
			Warning: []Range{{Low: 12, High: 18}},
		},
		{
			Sensor:  models.SensorOilQuality,
			Normal:  []Range{atLeast(20)},
			Warning: []Range{{Low: 15, High: 25, HighOpen: true}},
		},
	}
}
