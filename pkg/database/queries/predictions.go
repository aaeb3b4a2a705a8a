package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

type PredictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Create stores a prediction and fills in its id.
func (r *PredictionRepository) Create(ctx context.Context, p *models.Prediction) error {
	current, err := json.Marshal(p.CurrentReadings)
	if err != nil {
		return fmt.Errorf("failed to encode current readings: %w", err)
	}

	triggers := p.Recommendation.Triggers
	if triggers == nil {
		triggers = []string{}
	}

	query := `
		INSERT INTO predictions (machine_id, created_at, failure_predicted, probability, confidence,
			priority, action, message, triggers, current_readings, model_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		p.MachineID, p.CreatedAt, p.FailurePredicted, p.Probability, p.Confidence,
		string(p.Recommendation.Priority), p.Recommendation.Action, p.Recommendation.Message,
		pq.Array(triggers), current, p.ModelVersion,
	).Scan(&p.ID)
}

func (r *PredictionRepository) GetRecent(ctx context.Context, machineID, limit int) ([]models.Prediction, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, machine_id, created_at, failure_predicted, probability, confidence,
			   priority, action, message, triggers, current_readings, model_version
		FROM predictions
		WHERE machine_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, machineID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var (
			p        models.Prediction
			priority string
			triggers []string
			current  []byte
		)
		err := rows.Scan(
			&p.ID, &p.MachineID, &p.CreatedAt, &p.FailurePredicted, &p.Probability, &p.Confidence,
			&priority, &p.Recommendation.Action, &p.Recommendation.Message,
			pq.Array(&triggers), &current, &p.ModelVersion,
		)
		if err != nil {
			return nil, err
		}
		p.Recommendation.Priority = models.Priority(priority)
		if len(triggers) > 0 {
			p.Recommendation.Triggers = triggers
		}
		if err := json.Unmarshal(current, &p.CurrentReadings); err != nil {
			return nil, fmt.Errorf("failed to decode current readings of prediction %d: %w", p.ID, err)
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}
