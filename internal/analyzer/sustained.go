package analyzer

import (
	"sort"
	"sync"
	"time"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// StatusTracker remembers the last observed status of each machine so the
// serving layer can report transitions. Classification itself stays stateless.
type StatusTracker struct {
	statuses map[int]models.HealthStatus
	since    map[int]time.Time
	mu       sync.RWMutex
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		statuses: make(map[int]models.HealthStatus),
		since:    make(map[int]time.Time),
	}
}

// Update records the status observed at time at. It returns the transition
// and true when the status differs from the previous observation, including
// the first observation of a machine.
func (t *StatusTracker) Update(machineID int, status models.HealthStatus, at time.Time) (models.StatusChange, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, exists := t.statuses[machineID]
	if exists && prev == status {
		return models.StatusChange{}, false
	}

	t.statuses[machineID] = status
	t.since[machineID] = at

	return models.StatusChange{
		MachineID: machineID,
		Name:      models.MachineName(machineID),
		From:      prev,
		To:        status,
		At:        at,
	}, true
}

func (t *StatusTracker) Status(machineID int) (models.HealthStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.statuses[machineID]
	return s, ok
}

// Duration returns how long a machine has held its current status.
func (t *StatusTracker) Duration(machineID int, now time.Time) time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if start, exists := t.since[machineID]; exists {
		return now.Sub(start)
	}
	return 0
}

func (t *StatusTracker) Reset(machineID int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.statuses, machineID)
	delete(t.since, machineID)
}

func sortByMachine(readings []models.Reading) {
	sort.Slice(readings, func(i, j int) bool {
		return readings[i].MachineID < readings[j].MachineID
	})
}
