package features_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/predictive-maintenance/internal/features"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

var baseTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func constantHistory(machineID, n int) []models.Reading {
	readings := make([]models.Reading, n)
	for i := range readings {
		readings[i] = models.Reading{
			MachineID:      machineID,
			Timestamp:      baseTime.Add(time.Duration(i) * time.Hour),
			OperatingHours: i,
			Temperature:    75,
			Pressure:       40,
			Vibration:      2,
			OilQuality:     90,
		}
	}
	return readings
}

func temperatureSeries(machineID int, temps ...float64) []models.Reading {
	readings := make([]models.Reading, len(temps))
	for i, temp := range temps {
		readings[i] = models.Reading{
			MachineID:      machineID,
			Timestamp:      baseTime.Add(time.Duration(i) * time.Hour),
			OperatingHours: i,
			Temperature:    temp,
			Pressure:       40,
			Vibration:      2,
			OilQuality:     90,
		}
	}
	return readings
}

func TestEngineer_ConstantHistory(t *testing.T) {
	e := features.New(features.Config{WindowSize: 24})

	vectors := e.Prepare(constantHistory(1, 30))

	require.Len(t, vectors, 30)
	for i, fv := range vectors {
		for _, s := range models.Sensors {
			stats := fv.SensorStats(s)
			assert.Zero(t, stats.RollingStd, "row %d sensor %s", i, s)
			assert.Equal(t, fv.Value(s), stats.RollingMean, "row %d sensor %s", i, s)
			assert.Zero(t, stats.RateOfChange, "row %d sensor %s", i, s)
		}
	}
}

func TestEngineer_RollingWindow(t *testing.T) {
	e := features.New(features.Config{WindowSize: 3})

	vectors := e.Prepare(temperatureSeries(1, 1, 2, 3, 4))

	require.Len(t, vectors, 4)

	tests := []struct {
		mean float64
		std  float64
		roc  float64
	}{
		{mean: 1, std: 0, roc: 0},
		{mean: 1.5, std: math.Sqrt(0.5), roc: 1},
		{mean: 2, std: 1, roc: 1},
		{mean: 3, std: 1, roc: 1},
	}

	for i, tt := range tests {
		stats := vectors[i].TemperatureStats
		assert.InDelta(t, tt.mean, stats.RollingMean, 1e-12, "row %d mean", i)
		assert.InDelta(t, tt.std, stats.RollingStd, 1e-12, "row %d std", i)
		assert.InDelta(t, tt.roc, stats.RateOfChange, 1e-12, "row %d rate of change", i)
	}
}

func TestEngineer_WindowsNeverSpanMachines(t *testing.T) {
	e := features.New(features.Config{WindowSize: 24})

	readings := append(temperatureSeries(1, 100, 100, 100), temperatureSeries(2, 10, 20)...)

	vectors := e.Prepare(readings)

	require.Len(t, vectors, 5)
	first := vectors[3]
	assert.Equal(t, 2, first.MachineID)
	assert.Equal(t, 10.0, first.TemperatureStats.RollingMean)
	assert.Zero(t, first.TemperatureStats.RollingStd)
	assert.Zero(t, first.TemperatureStats.RateOfChange, "first row of a machine has no previous reading")

	second := vectors[4]
	assert.Equal(t, 15.0, second.TemperatureStats.RollingMean)
	assert.Equal(t, 10.0, second.TemperatureStats.RateOfChange)
}

func TestEngineer_SortsUnorderedInput(t *testing.T) {
	e := features.New(features.Config{WindowSize: 24})

	ordered := append(temperatureSeries(2, 5, 6, 7), temperatureSeries(1, 1, 2, 3)...)
	shuffled := []models.Reading{ordered[4], ordered[2], ordered[0], ordered[5], ordered[1], ordered[3]}
	input := make([]models.Reading, len(shuffled))
	copy(input, shuffled)

	vectors := e.Prepare(shuffled)

	require.Len(t, vectors, 6)
	assert.Equal(t, input, shuffled, "input must not be reordered in place")

	var got []float64
	for _, fv := range vectors {
		got = append(got, fv.Temperature)
	}
	assert.Equal(t, []float64{1, 2, 3, 5, 6, 7}, got)
	assert.Equal(t, 1.0, vectors[1].TemperatureStats.RateOfChange)
}

func TestEngineer_Interactions(t *testing.T) {
	e := features.New(features.Config{})

	vectors := e.Prepare([]models.Reading{{
		MachineID:   3,
		Timestamp:   baseTime,
		Temperature: 600,
		Pressure:    55,
		Vibration:   5,
		OilQuality:  80,
	}})

	require.Len(t, vectors, 1)
	fv := vectors[0]
	assert.InDelta(t, 600.0/56.0, fv.TempPressureRatio, 1e-12)
	assert.InDelta(t, 3000.0, fv.VibrationTempProduct, 1e-12)
	assert.InDelta(t, -0.659375, fv.HealthScore, 1e-12)
	assert.InDelta(t, 4.9375/3, fv.StressIndicator, 1e-12)
}

func TestEngineer_DropsNonFiniteRows(t *testing.T) {
	e := features.New(features.Config{WindowSize: 24})

	readings := temperatureSeries(1, 70, math.NaN(), 72, 74)

	vectors := e.Prepare(readings)

	require.Len(t, vectors, 3)
	for _, fv := range vectors {
		for _, v := range fv.Values() {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
	after := vectors[1]
	assert.Equal(t, 72.0, after.Temperature)
	assert.Equal(t, 71.0, after.TemperatureStats.RollingMean, "non-finite samples are skipped inside the window")
	assert.Zero(t, after.TemperatureStats.RateOfChange)
}

func TestEngineer_DropsInfiniteRatio(t *testing.T) {
	e := features.New(features.Config{})

	vectors := e.Prepare([]models.Reading{{MachineID: 1, Timestamp: baseTime, Temperature: 80, Pressure: -1}})

	assert.Empty(t, vectors)
}

func TestEngineer_EmptyInput(t *testing.T) {
	e := features.New(features.Config{})

	assert.Empty(t, e.Prepare(nil))

	_, err := e.Latest(nil)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestEngineer_Idempotent(t *testing.T) {
	e := features.New(features.Config{WindowSize: 5})
	readings := append(temperatureSeries(4, 70, 71, 75, 79, 90, 88, 91), temperatureSeries(9, 60, 61)...)

	assert.Equal(t, e.Prepare(readings), e.Prepare(readings))
}

func TestEngineer_PreservesRawColumns(t *testing.T) {
	e := features.New(features.Config{WindowSize: 4})
	readings := temperatureSeries(6, 70, 71, 75, 79)
	readings[2].Failure = true

	vectors := e.Prepare(readings)

	require.Len(t, vectors, len(readings))
	for i, fv := range vectors {
		assert.Equal(t, readings[i], fv.Reading)
	}
}

func TestEngineer_Latest(t *testing.T) {
	e := features.New(features.Config{WindowSize: 24})

	fv, err := e.Latest(temperatureSeries(1, 70, 80))

	require.NoError(t, err)
	assert.Equal(t, 80.0, fv.Temperature)
	assert.Equal(t, 75.0, fv.TemperatureStats.RollingMean)
}

func TestEngineer_DefaultWindow(t *testing.T) {
	assert.Equal(t, features.DefaultWindowSize, features.New(features.Config{}).WindowSize())
	assert.Equal(t, 5, features.New(features.Config{WindowSize: 5}).WindowSize())
}

func TestFeatureVector_Values(t *testing.T) {
	e := features.New(features.Config{})
	vectors := e.Prepare(constantHistory(1, 1))
	require.Len(t, vectors, 1)

	values := vectors[0].Values()
	names := models.FeatureNames()

	require.Len(t, values, len(names))
	assert.Equal(t, "operating_hours", names[0])
	assert.Equal(t, "temperature_rolling_mean", names[5])
	assert.Equal(t, "stress_indicator", names[len(names)-1])
	assert.Equal(t, 75.0, values[1])
	assert.Equal(t, 75.0, values[5])
}
