package classifier

import (
	"context"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// logisticFile is the on-disk coefficient export of a standardized logistic
// regression.
type logisticFile struct {
	Version      string    `yaml:"version"`
	Features     []string  `yaml:"features"`
	Coefficients []float64 `yaml:"coefficients"`
	Intercept    float64   `yaml:"intercept"`
	Threshold    float64   `yaml:"threshold"`
	Scaler       struct {
		Mean  []float64 `yaml:"mean"`
		Scale []float64 `yaml:"scale"`
	} `yaml:"scaler"`
}

// LogisticModel evaluates a logistic regression over standardized features
// in process.
type LogisticModel struct {
	version      string
	coefficients []float64
	intercept    float64
	threshold    float64
	mean         []float64
	scale        []float64
}

func LoadLogistic(path string) (*LogisticModel, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: model path is required", ErrInvalidModel)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	m, err := ParseLogistic(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.WithComponent("classifier").Infof("Loaded logistic model %s from %s", m.version, path)
	return m, nil
}

func ParseLogistic(data []byte) (*LogisticModel, error) {
	var f logisticFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}

	names := models.FeatureNames()
	if len(f.Features) > 0 {
		if len(f.Features) != len(names) {
			return nil, fmt.Errorf("%w: expected %d features, got %d", ErrInvalidModel, len(names), len(f.Features))
		}
		for i, name := range names {
			if f.Features[i] != name {
				return nil, fmt.Errorf("%w: feature %d is %q, expected %q", ErrInvalidModel, i, f.Features[i], name)
			}
		}
	}
	if len(f.Coefficients) != len(names) {
		return nil, fmt.Errorf("%w: expected %d coefficients, got %d", ErrInvalidModel, len(names), len(f.Coefficients))
	}

	mean := f.Scaler.Mean
	if len(mean) == 0 {
		mean = make([]float64, len(names))
	}
	scale := f.Scaler.Scale
	if len(scale) == 0 {
		scale = make([]float64, len(names))
	}
	if len(mean) != len(names) || len(scale) != len(names) {
		return nil, fmt.Errorf("%w: scaler must have %d entries", ErrInvalidModel, len(names))
	}

	threshold := f.Threshold
	if threshold == 0 {
		threshold = 0.5
	}
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("%w: threshold %v outside (0,1)", ErrInvalidModel, threshold)
	}

	version := f.Version
	if version == "" {
		version = "logistic"
	}

	return &LogisticModel{
		version:      version,
		coefficients: f.Coefficients,
		intercept:    f.Intercept,
		threshold:    threshold,
		mean:         mean,
		scale:        scale,
	}, nil
}

func (m *LogisticModel) Predict(ctx context.Context, fv models.FeatureVector) (int, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	z := m.intercept
	for i, x := range fv.Values() {
		s := m.scale[i]
		// zero variance columns are left unscaled
		if s == 0 {
			s = 1
		}
		z += m.coefficients[i] * (x - m.mean[i]) / s
	}

	p := sigmoid(z)
	if math.IsNaN(p) {
		return 0, 0, fmt.Errorf("%w: non-finite decision value", ErrModelUnavailable)
	}
	label := 0
	if p > m.threshold {
		label = 1
	}
	return label, p, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func (m *LogisticModel) Version() string {
	return m.version
}

func (m *LogisticModel) HealthCheck(context.Context) error {
	return nil
}

func (m *LogisticModel) Close() error {
	return nil
}
