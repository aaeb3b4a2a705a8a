package analyzer

import (
	"context"
	"runtime"
	"sync"

	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

const (
	// MinHealthyIndicators is the number of sensors that must sit in their
	// normal band for a machine to be considered normal.
	MinHealthyIndicators = 3
	// MaxWarningIndicators is the number of warning bands that, once reached,
	// downgrade a machine to warning.
	MaxWarningIndicators = 2
)

type Config struct {
	Thresholds Thresholds
	Workers    int
}

// Analyzer applies the health decision table to single readings and to the
// fleet. It is stateless and safe for concurrent use.
type Analyzer struct {
	thresholds Thresholds
	workers    int
}

func New(cfg Config) *Analyzer {
	if len(cfg.Thresholds) == 0 {
		cfg.Thresholds = DefaultThresholds()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Analyzer{
		thresholds: cfg.Thresholds,
		workers:    cfg.Workers,
	}
}

var defaultAnalyzer = New(Config{})

type IndicatorResult struct {
	Sensor  models.Sensor `json:"sensor"`
	Value   float64       `json:"value"`
	Normal  bool          `json:"normal"`
	Warning bool          `json:"warning"`
}

// Assessment explains how a status was reached.
type Assessment struct {
	MachineID    int                 `json:"machine_id"`
	Status       models.HealthStatus `json:"status"`
	Failure      bool                `json:"failure"`
	HealthyCount int                 `json:"healthy_count"`
	WarningCount int                 `json:"warning_count"`
	Indicators   []IndicatorResult   `json:"indicators"`
}

// Classify returns the health status of a reading using the default table.
func Classify(r models.Reading) models.HealthStatus {
	return defaultAnalyzer.Classify(r)
}

// Evaluate returns the full indicator breakdown using the default table.
func Evaluate(r models.Reading) Assessment {
	return defaultAnalyzer.Evaluate(r)
}

func (a *Analyzer) Classify(r models.Reading) models.HealthStatus {
	if r.Failure {
		return models.HealthCritical
	}
	healthy, warning := a.count(r)
	return statusFor(healthy, warning)
}

func (a *Analyzer) Evaluate(r models.Reading) Assessment {
	as := Assessment{
		MachineID:  r.MachineID,
		Failure:    r.Failure,
		Indicators: make([]IndicatorResult, 0, len(a.thresholds)),
	}
	for _, ind := range a.thresholds {
		v := r.Value(ind.Sensor)
		res := IndicatorResult{
			Sensor:  ind.Sensor,
			Value:   v,
			Normal:  ind.IsNormal(v),
			Warning: ind.IsWarning(v),
		}
		if res.Normal {
			as.HealthyCount++
		}
		if res.Warning {
			as.WarningCount++
		}
		as.Indicators = append(as.Indicators, res)
	}

	if r.Failure {
		as.Status = models.HealthCritical
	} else {
		as.Status = statusFor(as.HealthyCount, as.WarningCount)
	}
	return as
}

func (a *Analyzer) count(r models.Reading) (healthy, warning int) {
	for _, ind := range a.thresholds {
		v := r.Value(ind.Sensor)
		if ind.IsNormal(v) {
			healthy++
		}
		if ind.IsWarning(v) {
			warning++
		}
	}
	return healthy, warning
}

func statusFor(healthy, warning int) models.HealthStatus {
	if warning >= MaxWarningIndicators || healthy < MinHealthyIndicators {
		return models.HealthWarning
	}
	return models.HealthNormal
}

// Statuses classifies every reading of the latest-per-machine set.
func (a *Analyzer) Statuses(latest []models.Reading) []models.MachineStatus {
	out := make([]models.MachineStatus, len(latest))
	for i, r := range latest {
		out[i] = models.NewMachineStatus(r, a.Classify(r))
	}
	return out
}

// classifyParallel fills statuses[i] for latest[i] using a fixed worker pool.
func (a *Analyzer) classifyParallel(ctx context.Context, latest []models.Reading) ([]models.HealthStatus, error) {
	statuses := make([]models.HealthStatus, len(latest))
	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := a.workers
	if workers > len(latest) {
		workers = len(latest)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				statuses[i] = a.Classify(latest[i])
			}
		}()
	}

	var err error
feed:
	for i := range latest {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		logger.WithComponent("analyzer").Debugf("Parallel classification cancelled: %v", err)
		return nil, err
	}
	return statuses, nil
}
