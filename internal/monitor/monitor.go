package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/OldStager01/predictive-maintenance/internal/analyzer"
	"github.com/OldStager01/predictive-maintenance/internal/events"
	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/internal/metrics"
	"github.com/OldStager01/predictive-maintenance/internal/store"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

const DefaultInterval = 30 * time.Second

type Config struct {
	Interval  time.Duration
	Store     store.ReadingStore
	Analyzer  *analyzer.Analyzer
	Tracker   *analyzer.StatusTracker
	Publisher *events.Publisher
	Now       func() time.Time
}

// Monitor periodically classifies the latest reading of every machine and
// publishes status transitions and a fleet summary.
type Monitor struct {
	config  Config
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex

	lastMu      sync.RWMutex
	lastSummary *models.FleetSummary
	lastRun     time.Time
}

func New(cfg Config) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Analyzer == nil {
		cfg.Analyzer = analyzer.New(analyzer.Config{})
	}
	if cfg.Tracker == nil {
		cfg.Tracker = analyzer.NewStatusTracker()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Monitor{
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}
	if m.config.Store == nil {
		return errors.New("monitor: store is required")
	}

	m.running = true
	m.wg.Add(1)
	go m.run()

	logger.WithComponent("monitor").Infof("Monitor started, interval %s", m.config.Interval)
	return nil
}

func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	m.cancel()
	m.wg.Wait()

	logger.WithComponent("monitor").Info("Monitor stopped")
}

func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// LastSummary returns the summary of the most recent successful cycle.
func (m *Monitor) LastSummary() (*models.FleetSummary, time.Time, bool) {
	m.lastMu.RLock()
	defer m.lastMu.RUnlock()
	return m.lastSummary, m.lastRun, m.lastSummary != nil
}

func (m *Monitor) run() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	m.runCycle()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.runCycle()
		}
	}
}

func (m *Monitor) runCycle() {
	ctx, cancel := context.WithTimeout(m.ctx, m.config.Interval)
	defer cancel()

	if _, err := m.Evaluate(ctx); err != nil && !errors.Is(err, models.ErrEmptyInput) && ctx.Err() == nil {
		logger.WithComponent("monitor").Errorf("Fleet evaluation failed: %v", err)
		m.config.Publisher.Error("Fleet evaluation failed", err)
	}
}

// Evaluate runs one monitoring cycle. It returns models.ErrEmptyInput when no
// machine has reported yet.
func (m *Monitor) Evaluate(ctx context.Context) (*models.FleetSummary, error) {
	start := time.Now()
	defer func() { metrics.ObserveEvaluation(time.Since(start)) }()

	latest, err := m.config.Store.LatestPerMachine(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := m.config.Analyzer.SummarizeParallel(ctx, latest)
	if err != nil {
		return nil, err
	}

	now := m.config.Now()
	for _, st := range m.config.Analyzer.Statuses(latest) {
		m.track(st, now)
	}

	metrics.SetFleetSummary(summary)
	m.config.Publisher.FleetEvaluated(summary)

	m.lastMu.Lock()
	m.lastSummary = summary
	m.lastRun = now
	m.lastMu.Unlock()

	logger.WithComponent("monitor").Debugf(
		"Fleet evaluated: %d machines, %d warning, %d critical",
		summary.TotalMachines, summary.WarningMachines, summary.CriticalMachines,
	)
	return summary, nil
}

func (m *Monitor) track(st models.MachineStatus, now time.Time) {
	change, changed := m.config.Tracker.Update(st.ID, st.Status, now)
	if !changed {
		return
	}
	// A machine first seen in normal status is a baseline, not a transition.
	if change.From == "" && change.To == models.HealthNormal {
		return
	}

	metrics.IncStatusTransition(change.To)
	m.config.Publisher.StatusChanged(change)

	if change.To == models.HealthCritical {
		m.config.Publisher.Alert(st.ID, models.SeverityCritical, st.Name+" entered critical status", st)
	}
	logger.WithMachine(st.ID).Infof("Status changed: %q -> %q", change.From, change.To)
}
