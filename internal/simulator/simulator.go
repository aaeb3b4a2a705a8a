package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

const (
	DefaultMachines       = 20
	DefaultLifecycleHours = 24 * 30
	DefaultSeed           = 42
)

type Config struct {
	Machines       int
	LifecycleHours int
	Seed           int64
	// Start is the timestamp of the first generated reading.
	Start time.Time
	// Port serves the control API; zero disables it.
	Port int
}

// PublishFunc delivers one tick of readings, one per machine.
type PublishFunc func(ctx context.Context, readings []models.Reading) error

type Simulator struct {
	config     Config
	machines   map[int]*MachineSim
	mu         sync.RWMutex
	httpServer *http.Server
}

func New(cfg Config) *Simulator {
	if cfg.Machines <= 0 {
		cfg.Machines = DefaultMachines
	}
	if cfg.LifecycleHours <= 0 {
		cfg.LifecycleHours = DefaultLifecycleHours
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Now().UTC().Truncate(time.Hour)
	}

	seeds := rand.New(rand.NewSource(cfg.Seed))
	s := &Simulator{
		config:   cfg,
		machines: make(map[int]*MachineSim, cfg.Machines),
	}
	for id := 0; id < cfg.Machines; id++ {
		rng := rand.New(rand.NewSource(seeds.Int63()))
		s.machines[id] = NewMachineSim(id, DrawLifecycle(rng), cfg.LifecycleHours, cfg.Start, rng)
	}
	return s
}

// GenerateHistory advances every machine by hours steps and returns the
// readings ordered by machine, then time.
func (s *Simulator) GenerateHistory(hours int) []models.Reading {
	if hours <= 0 {
		return nil
	}
	machines := s.sortedMachines()
	out := make([]models.Reading, 0, hours*len(machines))
	for _, m := range machines {
		for i := 0; i < hours; i++ {
			out = append(out, m.Next())
		}
	}
	return out
}

// Tick advances every machine by one step.
func (s *Simulator) Tick() []models.Reading {
	machines := s.sortedMachines()
	out := make([]models.Reading, 0, len(machines))
	for _, m := range machines {
		out = append(out, m.Next())
	}
	return out
}

// Run publishes a tick on every interval until ctx is done. Publish errors
// are logged and the loop continues.
func (s *Simulator) Run(ctx context.Context, interval time.Duration, publish PublishFunc) error {
	if interval <= 0 {
		return fmt.Errorf("simulator: interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			readings := s.Tick()
			if err := publish(ctx, readings); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.WithComponent("simulator").Warnf("Publish failed: %v", err)
				continue
			}
			logger.WithComponent("simulator").Debugf("Published %d readings", len(readings))
		}
	}
}

func (s *Simulator) Machine(id int) (*MachineSim, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.machines[id]
	return m, ok
}

func (s *Simulator) sortedMachines() []*MachineSim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*MachineSim, 0, len(s.machines))
	for _, m := range s.machines {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// Handler exposes the control API used to inspect machines and force lifecycles.
func (s *Simulator) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", cors(s.healthHandler))
	mux.HandleFunc("/machines", cors(s.listMachinesHandler))
	mux.HandleFunc("/machines/", cors(s.machineHandler))
	mux.HandleFunc("/lifecycle", cors(s.lifecycleHandler))
	return mux
}

func (s *Simulator) Start() error {
	if s.config.Port == 0 {
		return nil
	}

	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Infof("Simulator control API listening on %s", addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Simulator server error: %v", err)
		}
	}()

	return nil
}

func (s *Simulator) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (s *Simulator) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "fleet-simulator",
	})
}

func (s *Simulator) listMachinesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	machines := s.sortedMachines()
	states := make([]MachineState, 0, len(machines))
	for _, m := range machines {
		states = append(states, m.Status())
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"machines": states,
		"count":    len(states),
	})
}

func (s *Simulator) machineHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// /machines/{id}
	id, err := strconv.Atoi(r.URL.Path[len("/machines/"):])
	if err != nil {
		http.Error(w, "machine ID must be an integer", http.StatusBadRequest)
		return
	}

	m, ok := s.Machine(id)
	if !ok {
		http.Error(w, "machine not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m.Status())
}

type LifecycleRequest struct {
	MachineID int    `json:"machine_id"`
	Lifecycle string `json:"lifecycle"` // "normal", "gradual_degradation", "sudden_failure"
}

func (s *Simulator) lifecycleHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LifecycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	lifecycle, ok := ParseLifecycle(req.Lifecycle)
	if !ok {
		http.Error(w, "unknown lifecycle", http.StatusBadRequest)
		return
	}
	m, ok := s.Machine(req.MachineID)
	if !ok {
		http.Error(w, "machine not found", http.StatusNotFound)
		return
	}

	m.SetLifecycle(lifecycle)
	logger.Infof("Set lifecycle %s on machine %d", req.Lifecycle, req.MachineID)

	writeJSON(w, http.StatusOK, m.Status())
}
