package simulator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// MachineSim walks one machine through its lifecycle, one simulated hour per step.
type MachineSim struct {
	id        int
	lifecycle Lifecycle
	total     int
	step      int
	hours     int
	start     time.Time
	rng       *rand.Rand
	restarts  int
	pinned    bool
	mu        sync.Mutex
}

func NewMachineSim(id int, lifecycle Lifecycle, total int, start time.Time, rng *rand.Rand) *MachineSim {
	if total <= 0 {
		total = DefaultLifecycleHours
	}
	return &MachineSim{
		id:        id,
		lifecycle: lifecycle,
		total:     total,
		start:     start,
		rng:       rng,
	}
}

// Next returns the reading for the current step and advances. When the
// lifecycle is exhausted the machine is serviced and a new lifecycle drawn.
func (m *MachineSim) Next() models.Reading {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step >= m.total {
		m.step = 0
		m.restarts++
		if !m.pinned {
			m.lifecycle = DrawLifecycle(m.rng)
		}
	}

	s := m.lifecycle.Sample(m.step, m.total, m.rng)
	r := models.Reading{
		MachineID:      m.id,
		Timestamp:      m.start.Add(time.Duration(m.hours) * time.Hour),
		OperatingHours: m.step,
		Temperature:    clamp(s.Temperature, 50, 150),
		Pressure:       clamp(s.Pressure, 20, 80),
		Vibration:      clamp(s.Vibration, 0, 20),
		OilQuality:     clamp(s.OilQuality, 0, 100),
		Failure:        s.Failure,
	}

	m.step++
	m.hours++
	return r
}

// SetLifecycle forces a lifecycle and restarts it from step zero. The
// machine keeps it across restarts.
func (m *MachineSim) SetLifecycle(l Lifecycle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lifecycle = l
	m.step = 0
	m.pinned = true
}

func (m *MachineSim) ID() int {
	return m.id
}

func (m *MachineSim) Status() MachineState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MachineState{
		ID:        m.id,
		Name:      models.MachineName(m.id),
		Lifecycle: m.lifecycle.Name(),
		Step:      m.step,
		Total:     m.total,
		Restarts:  m.restarts,
	}
}

type MachineState struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Lifecycle string `json:"lifecycle"`
	Step      int    `json:"step"`
	Total     int    `json:"total"`
	Restarts  int    `json:"restarts"`
}
