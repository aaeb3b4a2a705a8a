package store

import (
	"context"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// ReadingStore holds the reading history of every machine. Lookups for a
// machine without readings fail with models.ErrUnknownMachine.
type ReadingStore interface {
	Append(ctx context.Context, readings ...models.Reading) error

	// MachineIDs returns known machine ids in ascending order.
	MachineIDs(ctx context.Context) ([]int, error)

	Latest(ctx context.Context, machineID int) (models.Reading, error)

	// LatestPerMachine returns the most recent reading of every machine,
	// ordered by machine id.
	LatestPerMachine(ctx context.Context) ([]models.Reading, error)

	// History returns up to limit most recent readings of a machine in
	// ascending timestamp order.
	History(ctx context.Context, machineID, limit int) ([]models.Reading, error)

	Count(ctx context.Context) (int, error)

	HealthCheck(ctx context.Context) error
}

// PredictionStore records served predictions.
type PredictionStore interface {
	SavePrediction(ctx context.Context, p *models.Prediction) error
	RecentPredictions(ctx context.Context, machineID, limit int) ([]models.Prediction, error)
}

// Store is the full storage surface used by the serving layer.
type Store interface {
	ReadingStore
	PredictionStore
	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
