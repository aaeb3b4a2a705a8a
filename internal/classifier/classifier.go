package classifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OldStager01/predictive-maintenance/internal/resilience"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

var (
	ErrModelUnavailable = errors.New("model unavailable")
	ErrInvalidModel     = errors.New("invalid model definition")
	ErrInvalidResponse  = errors.New("invalid response from model service")
)

const (
	TypeLogistic = "logistic"
	TypeHTTP     = "http"
)

// Model is a loaded failure classifier owned by the serving layer.
type Model interface {
	Predict(ctx context.Context, fv models.FeatureVector) (label int, probability float64, err error)

	// Version identifies the loaded coefficients or remote deployment.
	Version() string

	// HealthCheck verifies the model can answer predictions.
	HealthCheck(ctx context.Context) error

	Close() error
}

type Config struct {
	Type      string
	ModelPath string
	Endpoint  string
	Timeout   time.Duration

	MaxFailures   int
	ResetTimeout  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	OnStateChange func(name string, from, to resilience.State)
}

// New builds the configured model. Remote models are wrapped with a circuit
// breaker.
func New(cfg Config) (Model, error) {
	switch cfg.Type {
	case TypeLogistic, "":
		return LoadLogistic(cfg.ModelPath)
	case TypeHTTP:
		remote := NewHTTPModel(HTTPModelConfig{
			Endpoint: cfg.Endpoint,
			Timeout:  cfg.Timeout,
		})
		return NewResilientModel(ResilientModelConfig{
			Model:         remote,
			MaxFailures:   cfg.MaxFailures,
			Timeout:       cfg.ResetTimeout,
			RetryAttempts: cfg.RetryAttempts,
			RetryDelay:    cfg.RetryDelay,
			OnStateChange: cfg.OnStateChange,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown model type %q", ErrInvalidModel, cfg.Type)
	}
}
