package classifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/internal/resilience"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// ResilientModel guards a remote model with a circuit breaker and optional
// bounded retries. Each attempt is a single call to the wrapped model.
type ResilientModel struct {
	model          Model
	circuitBreaker *resilience.CircuitBreaker
	retryAttempts  int
	retryDelay     time.Duration
}

type ResilientModelConfig struct {
	Model         Model
	MaxFailures   int
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	OnStateChange func(name string, from, to resilience.State)
}

func NewResilientModel(cfg ResilientModelConfig) *ResilientModel {
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 200 * time.Millisecond
	}

	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:          "model",
		MaxFailures:   cfg.MaxFailures,
		Timeout:       cfg.Timeout,
		OnStateChange: cfg.OnStateChange,
	})

	return &ResilientModel{
		model:          cfg.Model,
		circuitBreaker: cb,
		retryAttempts:  cfg.RetryAttempts,
		retryDelay:     cfg.RetryDelay,
	}
}

func (m *ResilientModel) Predict(ctx context.Context, fv models.FeatureVector) (int, float64, error) {
	var (
		label       int
		probability float64
		lastErr     error
	)

	err := m.circuitBreaker.Execute(func() error {
		for attempt := 1; attempt <= m.retryAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			var err error
			label, probability, err = m.model.Predict(ctx, fv)
			if err == nil {
				return nil
			}

			lastErr = err
			// a malformed answer will not improve on retry
			if errors.Is(err, ErrInvalidResponse) {
				return err
			}
			logger.WithMachine(fv.MachineID).Warnf(
				"Prediction attempt %d/%d failed: %v",
				attempt, m.retryAttempts, err,
			)

			if attempt < m.retryAttempts {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(m.retryDelay):
				}
			}
		}
		return lastErr
	})

	if errors.Is(err, resilience.ErrCircuitOpen) {
		return 0, 0, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if err != nil {
		return 0, 0, err
	}
	return label, probability, nil
}

func (m *ResilientModel) Version() string {
	return m.model.Version()
}

func (m *ResilientModel) HealthCheck(ctx context.Context) error {
	if m.circuitBreaker.State() == resilience.StateOpen {
		return fmt.Errorf("%w: circuit open", ErrModelUnavailable)
	}
	return m.model.HealthCheck(ctx)
}

func (m *ResilientModel) Close() error {
	return m.model.Close()
}

func (m *ResilientModel) CircuitState() resilience.State {
	return m.circuitBreaker.State()
}

func (m *ResilientModel) ResetCircuit() {
	m.circuitBreaker.Reset()
}
