package predictor

import (
	"strings"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

const (
	CriticalProbability = 0.9
	HighProbability     = 0.7

	WatchTemperature = 100.0
	WatchVibration   = 8.0
	WatchOilQuality  = 40.0
)

// Recommend maps a classifier outcome and the latest raw reading to a
// maintenance recommendation.
func Recommend(label int, probability float64, latest models.Reading) models.Recommendation {
	if label == 1 {
		switch {
		case probability > CriticalProbability:
			return models.Recommendation{
				Priority: models.PriorityCritical,
				Action:   "Schedule immediate maintenance",
				Message:  "Critical failure imminent. Stop operation and inspect immediately.",
			}
		case probability > HighProbability:
			return models.Recommendation{
				Priority: models.PriorityHigh,
				Action:   "Schedule maintenance within 24 hours",
				Message:  "High failure probability detected. Reduce load and schedule inspection.",
			}
		default:
			return models.Recommendation{
				Priority: models.PriorityMedium,
				Action:   "Schedule maintenance within week",
				Message:  "Elevated failure risk. Monitor closely and plan maintenance.",
			}
		}
	}

	triggers := sensorTriggers(latest)
	if len(triggers) > 0 {
		return models.Recommendation{
			Priority: models.PriorityLow,
			Action:   "Monitor sensors",
			Message:  "Normal operation with warnings: " + strings.Join(triggers, ", "),
			Triggers: triggers,
		}
	}

	return models.Recommendation{
		Priority: models.PriorityNormal,
		Action:   "Continue normal operation",
		Message:  "All systems operating within normal parameters.",
	}
}

func sensorTriggers(r models.Reading) []string {
	var triggers []string
	if r.Temperature > WatchTemperature {
		triggers = append(triggers, "High temperature detected")
	}
	if r.Vibration > WatchVibration {
		triggers = append(triggers, "Excessive vibration detected")
	}
	if r.OilQuality < WatchOilQuality {
		triggers = append(triggers, "Low oil quality")
	}
	return triggers
}
