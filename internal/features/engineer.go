package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// DefaultWindowSize is the trailing window, in readings, for rolling statistics.
const DefaultWindowSize = 24

type Config struct {
	WindowSize int
}

// Engineer turns raw per-machine reading sequences into model-ready feature
// vectors. It holds no mutable state and is safe for concurrent use.
type Engineer struct {
	windowSize int
}

func New(cfg Config) *Engineer {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = DefaultWindowSize
	}
	return &Engineer{windowSize: cfg.WindowSize}
}

func (e *Engineer) WindowSize() int {
	return e.windowSize
}

// Prepare groups readings by machine, orders each group by timestamp and
// derives rolling statistics, rates of change and interaction terms. Rows
// that still carry a non-finite value are dropped. An empty result is a
// valid outcome that callers must check.
func (e *Engineer) Prepare(readings []models.Reading) []models.FeatureVector {
	if len(readings) == 0 {
		return []models.FeatureVector{}
	}

	sorted := sortReadings(readings)
	out := make([]models.FeatureVector, 0, len(sorted))
	dropped := 0

	for _, series := range splitByMachine(sorted) {
		for i := range series {
			fv := e.vectorAt(series, i)
			if !isFinite(fv) {
				dropped++
				continue
			}
			out = append(out, fv)
		}
	}

	logger.WithComponent("features").Debugf(
		"Prepared %d feature rows from %d readings (dropped %d, window %d)",
		len(out), len(readings), dropped, e.windowSize,
	)

	return out
}

// Latest returns the feature vector of the most recent usable row.
func (e *Engineer) Latest(readings []models.Reading) (models.FeatureVector, error) {
	vectors := e.Prepare(readings)
	if len(vectors) == 0 {
		return models.FeatureVector{}, fmt.Errorf("%w: no usable feature rows from %d readings",
			models.ErrInsufficientData, len(readings))
	}
	return vectors[len(vectors)-1], nil
}

func (e *Engineer) vectorAt(series []models.Reading, i int) models.FeatureVector {
	start := i - e.windowSize + 1
	if start < 0 {
		start = 0
	}
	window := series[start : i+1]
	current := series[i]

	fv := models.FeatureVector{Reading: current}
	for _, s := range models.Sensors {
		stats := fv.SensorStats(s)
		stats.RollingMean, stats.RollingStd = rollingStats(window, s)
		if i > 0 {
			stats.RateOfChange = rateOfChange(series[i-1].Value(s), current.Value(s))
		}
	}
	applyInteractions(&fv)
	return fv
}

// rollingStats returns the mean and sample standard deviation of the finite
// values of a sensor inside the window. One sample has a deviation of 0.
func rollingStats(window []models.Reading, s models.Sensor) (float64, float64) {
	var sum float64
	n := 0
	for _, r := range window {
		v := r.Value(s)
		if isFiniteValue(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN(), math.NaN()
	}

	mean := sum / float64(n)
	if n == 1 {
		return mean, 0
	}

	var squares float64
	for _, r := range window {
		v := r.Value(s)
		if isFiniteValue(v) {
			d := v - mean
			squares += d * d
		}
	}
	return mean, math.Sqrt(squares / float64(n-1))
}

func rateOfChange(previous, current float64) float64 {
	diff := current - previous
	if !isFiniteValue(diff) {
		return 0
	}
	return diff
}

// applyInteractions computes the per-row terms from raw, non-windowed values.
func applyInteractions(fv *models.FeatureVector) {
	t, p, v, o := fv.Temperature, fv.Pressure, fv.Vibration, fv.OilQuality

	fv.TempPressureRatio = t / (p + 1)
	fv.VibrationTempProduct = v * t
	fv.HealthScore = ((150-t)/100 + o/100 + (20-v)/20 + (80-p)/80) / 4
	fv.StressIndicator = (t/150 + p/80 + v/20) / 3
}

func sortReadings(readings []models.Reading) []models.Reading {
	sorted := make([]models.Reading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MachineID != sorted[j].MachineID {
			return sorted[i].MachineID < sorted[j].MachineID
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// splitByMachine expects readings sorted by machine id.
func splitByMachine(sorted []models.Reading) [][]models.Reading {
	var groups [][]models.Reading
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || sorted[i].MachineID != sorted[start].MachineID {
			groups = append(groups, sorted[start:i])
			start = i
		}
	}
	return groups
}

func isFinite(fv models.FeatureVector) bool {
	for _, v := range fv.Values() {
		if !isFiniteValue(v) {
			return false
		}
	}
	return true
}

func isFiniteValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
