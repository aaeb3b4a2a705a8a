package models

import "fmt"

// SensorFeatures holds the windowed statistics derived for one sensor.
type SensorFeatures struct {
	RollingMean  float64 `json:"rolling_mean"`
	RollingStd   float64 `json:"rolling_std"`
	RateOfChange float64 `json:"rate_of_change"`
}

// FeatureVector is a Reading augmented with derived columns. The embedded
// Reading is never modified by feature preparation.
type FeatureVector struct {
	Reading

	TemperatureStats SensorFeatures `json:"temperature_stats"`
	PressureStats    SensorFeatures `json:"pressure_stats"`
	VibrationStats   SensorFeatures `json:"vibration_stats"`
	OilQualityStats  SensorFeatures `json:"oil_quality_stats"`

	TempPressureRatio    float64 `json:"temp_pressure_ratio"`
	VibrationTempProduct float64 `json:"vibration_temp_product"`
	HealthScore          float64 `json:"health_score"`
	StressIndicator      float64 `json:"stress_indicator"`
}

// SensorStats returns a pointer to the statistics block of a sensor.
func (fv *FeatureVector) SensorStats(s Sensor) *SensorFeatures {
	switch s {
	case SensorTemperature:
		return &fv.TemperatureStats
	case SensorPressure:
		return &fv.PressureStats
	case SensorVibration:
		return &fv.VibrationStats
	case SensorOilQuality:
		return &fv.OilQualityStats
	default:
		panic(fmt.Sprintf("models: unknown sensor %q", s))
	}
}

var featureNames = buildFeatureNames()

func buildFeatureNames() []string {
	names := []string{"operating_hours"}
	for _, s := range Sensors {
		names = append(names, string(s))
	}
	for _, s := range Sensors {
		names = append(names,
			string(s)+"_rolling_mean",
			string(s)+"_rolling_std",
			string(s)+"_rate_of_change",
		)
	}
	return append(names,
		"temp_pressure_ratio",
		"vibration_temp_product",
		"health_score",
		"stress_indicator",
	)
}

// FeatureNames returns the model input columns in the order produced by Values.
// Timestamp, machine id and the failure label are not model inputs.
func FeatureNames() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// Values flattens the vector into model input order.
func (fv FeatureVector) Values() []float64 {
	values := make([]float64, 0, len(featureNames))
	values = append(values, float64(fv.OperatingHours))
	for _, s := range Sensors {
		values = append(values, fv.Reading.Value(s))
	}
	for _, s := range Sensors {
		st := fv.SensorStats(s)
		values = append(values, st.RollingMean, st.RollingStd, st.RateOfChange)
	}
	return append(values,
		fv.TempPressureRatio,
		fv.VibrationTempProduct,
		fv.HealthScore,
		fv.StressIndicator,
	)
}
