package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// MemoryStore keeps readings in process memory, sorted per machine.
type MemoryStore struct {
	mu            sync.RWMutex
	readings      map[int][]models.Reading
	predictions   map[int][]models.Prediction
	count         int
	nextID        int
	maxPerMachine int
}

type MemoryConfig struct {
	// MaxPerMachine bounds the retained history per machine; 0 keeps all.
	MaxPerMachine int
}

func NewMemoryStore(cfg MemoryConfig) *MemoryStore {
	return &MemoryStore{
		readings:      make(map[int][]models.Reading),
		predictions:   make(map[int][]models.Prediction),
		maxPerMachine: cfg.MaxPerMachine,
	}
}

func (s *MemoryStore) Append(_ context.Context, readings ...models.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range readings {
		series := s.readings[r.MachineID]
		// insert after any reading with the same or earlier timestamp
		i := sort.Search(len(series), func(i int) bool {
			return series[i].Timestamp.After(r.Timestamp)
		})
		series = append(series, models.Reading{})
		copy(series[i+1:], series[i:])
		series[i] = r
		s.count++

		if s.maxPerMachine > 0 && len(series) > s.maxPerMachine {
			drop := len(series) - s.maxPerMachine
			series = append([]models.Reading(nil), series[drop:]...)
			s.count -= drop
		}
		s.readings[r.MachineID] = series
	}
	return nil
}

func (s *MemoryStore) MachineIDs(_ context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.readings))
	for id := range s.readings {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *MemoryStore) Latest(_ context.Context, machineID int) (models.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series := s.readings[machineID]
	if len(series) == 0 {
		return models.Reading{}, fmt.Errorf("machine %d: %w", machineID, models.ErrUnknownMachine)
	}
	return series[len(series)-1], nil
}

func (s *MemoryStore) LatestPerMachine(ctx context.Context) ([]models.Reading, error) {
	ids, _ := s.MachineIDs(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Reading, 0, len(ids))
	for _, id := range ids {
		series := s.readings[id]
		out = append(out, series[len(series)-1])
	}
	return out, nil
}

func (s *MemoryStore) History(_ context.Context, machineID, limit int) ([]models.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series := s.readings[machineID]
	if len(series) == 0 {
		return nil, fmt.Errorf("machine %d: %w", machineID, models.ErrUnknownMachine)
	}
	if limit > 0 && len(series) > limit {
		series = series[len(series)-limit:]
	}
	out := make([]models.Reading, len(series))
	copy(out, series)
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count, nil
}

func (s *MemoryStore) SavePrediction(_ context.Context, p *models.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p.ID = s.nextID
	s.predictions[p.MachineID] = append(s.predictions[p.MachineID], *p)
	return nil
}

// RecentPredictions returns the newest predictions first.
func (s *MemoryStore) RecentPredictions(_ context.Context, machineID, limit int) ([]models.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	saved := s.predictions[machineID]
	out := make([]models.Prediction, 0, len(saved))
	for i := len(saved) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, saved[i])
	}
	return out, nil
}

func (s *MemoryStore) HealthCheck(context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
