package analyzer

import (
	"context"
	"fmt"
	"math"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// Summarize classifies the latest reading of every machine with the default
// table and aggregates the fleet.
func Summarize(latest []models.Reading) (*models.FleetSummary, error) {
	return defaultAnalyzer.Summarize(latest)
}

// Summarize expects exactly one reading per machine; see LatestPerMachine.
func (a *Analyzer) Summarize(latest []models.Reading) (*models.FleetSummary, error) {
	if len(latest) == 0 {
		return nil, fmt.Errorf("summarize fleet: %w", models.ErrEmptyInput)
	}
	statuses := make([]models.HealthStatus, len(latest))
	for i, r := range latest {
		statuses[i] = a.Classify(r)
	}
	return summarize(latest, statuses), nil
}

// SummarizeParallel produces the same summary as Summarize, classifying
// machines across the analyzer's worker pool.
func (a *Analyzer) SummarizeParallel(ctx context.Context, latest []models.Reading) (*models.FleetSummary, error) {
	if len(latest) == 0 {
		return nil, fmt.Errorf("summarize fleet: %w", models.ErrEmptyInput)
	}
	statuses, err := a.classifyParallel(ctx, latest)
	if err != nil {
		return nil, fmt.Errorf("summarize fleet: %w", err)
	}
	return summarize(latest, statuses), nil
}

func summarize(latest []models.Reading, statuses []models.HealthStatus) *models.FleetSummary {
	total := len(latest)
	summary := &models.FleetSummary{TotalMachines: total}

	for _, s := range statuses {
		switch s {
		case models.HealthCritical:
			summary.CriticalMachines++
		case models.HealthWarning:
			summary.WarningMachines++
		}
	}
	summary.NormalMachines = total - summary.CriticalMachines - summary.WarningMachines

	summary.NormalPercentage = percentage(summary.NormalMachines, total)
	summary.WarningPercentage = percentage(summary.WarningMachines, total)
	summary.CriticalPercentage = percentage(summary.CriticalMachines, total)

	hours := make([]float64, len(latest))
	for i, r := range latest {
		hours[i] = float64(r.OperatingHours)
	}
	summary.AverageMetrics = models.AverageMetrics{
		Temperature:    sensorMean(latest, models.SensorTemperature),
		Pressure:       sensorMean(latest, models.SensorPressure),
		Vibration:      sensorMean(latest, models.SensorVibration),
		OilQuality:     sensorMean(latest, models.SensorOilQuality),
		OperatingHours: finiteMean(hours),
	}
	return summary
}

func percentage(count, total int) float64 {
	return roundTo(float64(count)/float64(total)*100, 1)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func sensorMean(readings []models.Reading, s models.Sensor) float64 {
	values := make([]float64, len(readings))
	for i, r := range readings {
		values[i] = r.Value(s)
	}
	return finiteMean(values)
}

// finiteMean ignores non-finite values; with none left it returns 0.
func finiteMean(values []float64) float64 {
	var sum float64
	n := 0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// LatestPerMachine picks the most recent reading of each machine, ordered by
// machine id. Equal timestamps resolve to the later element of the input.
func LatestPerMachine(readings []models.Reading) []models.Reading {
	latest := make(map[int]models.Reading)
	for _, r := range readings {
		cur, ok := latest[r.MachineID]
		if !ok || !r.Timestamp.Before(cur.Timestamp) {
			latest[r.MachineID] = r
		}
	}

	out := make([]models.Reading, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sortByMachine(out)
	return out
}
