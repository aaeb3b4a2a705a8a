package queries

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

type ReadingRepository struct {
	db *sql.DB
}

func NewReadingRepository(db *sql.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

const readingColumns = `machine_id, recorded_at, operating_hours, temperature, pressure, vibration, oil_quality, failure`

// InsertBatch bulk-loads readings with COPY inside one transaction.
func (r *ReadingRepository) InsertBatch(ctx context.Context, readings []models.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("sensor_readings",
		"machine_id", "recorded_at", "operating_hours",
		"temperature", "pressure", "vibration", "oil_quality", "failure",
	))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	for _, rd := range readings {
		_, err := stmt.ExecContext(ctx,
			rd.MachineID, rd.Timestamp, rd.OperatingHours,
			rd.Temperature, rd.Pressure, rd.Vibration, rd.OilQuality, rd.Failure,
		)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("failed to copy reading for machine %d: %w", rd.MachineID, err)
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("failed to close copy: %w", err)
	}

	return tx.Commit()
}

func (r *ReadingRepository) MachineIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT machine_id FROM sensor_readings ORDER BY machine_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Latest returns sql.ErrNoRows when the machine has no readings.
func (r *ReadingRepository) Latest(ctx context.Context, machineID int) (models.Reading, error) {
	query := `
		SELECT ` + readingColumns + `
		FROM sensor_readings
		WHERE machine_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1`

	return scanReading(r.db.QueryRowContext(ctx, query, machineID))
}

func (r *ReadingRepository) LatestPerMachine(ctx context.Context) ([]models.Reading, error) {
	query := `
		SELECT DISTINCT ON (machine_id) ` + readingColumns + `
		FROM sensor_readings
		ORDER BY machine_id, recorded_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReadings(rows)
}

// History returns the newest limit readings in ascending time order.
func (r *ReadingRepository) History(ctx context.Context, machineID, limit int) ([]models.Reading, error) {
	if limit <= 0 {
		limit = 168
	}

	query := `
		SELECT ` + readingColumns + `
		FROM (
			SELECT id, ` + readingColumns + `
			FROM sensor_readings
			WHERE machine_id = $1
			ORDER BY recorded_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY recorded_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, machineID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReadings(rows)
}

func (r *ReadingRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sensor_readings`).Scan(&n)
	return n, err
}

// DeleteBefore prunes readings older than cutoff and reports how many were removed.
func (r *ReadingRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sensor_readings WHERE recorded_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReading(row rowScanner) (models.Reading, error) {
	var rd models.Reading
	err := row.Scan(
		&rd.MachineID, &rd.Timestamp, &rd.OperatingHours,
		&rd.Temperature, &rd.Pressure, &rd.Vibration, &rd.OilQuality, &rd.Failure,
	)
	return rd, err
}

func scanReadings(rows *sql.Rows) ([]models.Reading, error) {
	var readings []models.Reading
	for rows.Next() {
		rd, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, rd)
	}
	return readings, rows.Err()
}
