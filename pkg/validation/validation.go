package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// Bounds is the physically plausible range of a sensor channel.
type Bounds struct {
	Min float64
	Max float64
}

// SensorBounds are applied to readings at ingestion.
var SensorBounds = map[models.Sensor]Bounds{
	models.SensorTemperature: {Min: 0, Max: 1000},
	models.SensorPressure:    {Min: 0, Max: 200},
	models.SensorVibration:   {Min: 0, Max: 100},
	models.SensorOilQuality:  {Min: 0, Max: 100},
}

// MaxHistoryHours caps history queries at one year.
const MaxHistoryHours = 24 * 365

// SanitizeString removes potentially dangerous characters and trims whitespace
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters except newline and tab
	var builder strings.Builder
	for _, r := range input {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// ValidateReading rejects readings with out-of-domain values. Every problem
// is reported, wrapped in models.ErrMalformedReading.
func ValidateReading(r models.Reading) error {
	var errs []error

	if r.MachineID < 0 {
		errs = append(errs, errors.New("machine_id must be non-negative"))
	}
	if r.Timestamp.IsZero() {
		errs = append(errs, errors.New("timestamp is required"))
	}
	if r.OperatingHours < 0 {
		errs = append(errs, errors.New("operating_hours must be non-negative"))
	}

	for _, s := range models.Sensors {
		v := r.Value(s)
		b := SensorBounds[s]
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			errs = append(errs, fmt.Errorf("%s must be a finite number", s))
		case v < b.Min || v > b.Max:
			errs = append(errs, fmt.Errorf("%s must be between %g and %g, got %g", s, b.Min, b.Max, v))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: machine %d: %v", models.ErrMalformedReading, r.MachineID, errors.Join(errs...))
	}
	return nil
}

// ValidateReadings checks a batch and reports the index of the first bad reading.
func ValidateReadings(readings []models.Reading) error {
	if len(readings) == 0 {
		return fmt.Errorf("%w: no readings", models.ErrMalformedReading)
	}
	for i, r := range readings {
		if err := ValidateReading(r); err != nil {
			return fmt.Errorf("reading %d: %w", i, err)
		}
	}
	return nil
}

// ValidateMachineID checks a machine id taken from a request path.
func ValidateMachineID(id int) error {
	if id < 0 {
		return fmt.Errorf("%w: machine id must be non-negative", models.ErrInvalidInput)
	}
	return nil
}

// ValidateHistoryHours checks the look-back of a history query.
func ValidateHistoryHours(hours, max int) error {
	if max <= 0 {
		max = MaxHistoryHours
	}
	if hours < 1 {
		return fmt.Errorf("%w: hours must be at least 1", models.ErrInvalidInput)
	}
	if hours > max {
		return fmt.Errorf("%w: hours must not exceed %d", models.ErrInvalidInput, max)
	}
	return nil
}
