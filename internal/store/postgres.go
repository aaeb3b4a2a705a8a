package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/OldStager01/predictive-maintenance/pkg/database"
	"github.com/OldStager01/predictive-maintenance/pkg/database/queries"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// PostgresStore persists readings and predictions in PostgreSQL.
type PostgresStore struct {
	db          *database.DB
	readings    *queries.ReadingRepository
	predictions *queries.PredictionRepository
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{
		db:          db,
		readings:    queries.NewReadingRepository(db.DB),
		predictions: queries.NewPredictionRepository(db.DB),
	}
}

func (s *PostgresStore) Append(ctx context.Context, readings ...models.Reading) error {
	if err := s.readings.InsertBatch(ctx, readings); err != nil {
		return fmt.Errorf("store readings: %w", err)
	}
	return nil
}

func (s *PostgresStore) MachineIDs(ctx context.Context) ([]int, error) {
	ids, err := s.readings.MachineIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) Latest(ctx context.Context, machineID int) (models.Reading, error) {
	r, err := s.readings.Latest(ctx, machineID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reading{}, fmt.Errorf("machine %d: %w", machineID, models.ErrUnknownMachine)
	}
	if err != nil {
		return models.Reading{}, fmt.Errorf("latest reading of machine %d: %w", machineID, err)
	}
	return r, nil
}

func (s *PostgresStore) LatestPerMachine(ctx context.Context) ([]models.Reading, error) {
	readings, err := s.readings.LatestPerMachine(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest readings: %w", err)
	}
	return readings, nil
}

func (s *PostgresStore) History(ctx context.Context, machineID, limit int) ([]models.Reading, error) {
	readings, err := s.readings.History(ctx, machineID, limit)
	if err != nil {
		return nil, fmt.Errorf("history of machine %d: %w", machineID, err)
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("machine %d: %w", machineID, models.ErrUnknownMachine)
	}
	return readings, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	return s.readings.Count(ctx)
}

func (s *PostgresStore) SavePrediction(ctx context.Context, p *models.Prediction) error {
	if err := s.predictions.Create(ctx, p); err != nil {
		return fmt.Errorf("save prediction for machine %d: %w", p.MachineID, err)
	}
	return nil
}

func (s *PostgresStore) RecentPredictions(ctx context.Context, machineID, limit int) ([]models.Prediction, error) {
	return s.predictions.GetRecent(ctx, machineID, limit)
}

func (s *PostgresStore) HealthCheck(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
