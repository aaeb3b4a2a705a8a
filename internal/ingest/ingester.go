package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/OldStager01/predictive-maintenance/internal/events"
	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/internal/metrics"
	"github.com/OldStager01/predictive-maintenance/internal/store"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
	"github.com/OldStager01/predictive-maintenance/pkg/validation"
)

const (
	SourceHTTP = "http"
	SourceMQTT = "mqtt"

	DefaultMaxBatchSize = 1000
)

var ErrBatchTooLarge = errors.New("batch too large")

type Config struct {
	MaxBatchSize int
}

// Ingester validates readings and appends them to the store. It is shared
// by the HTTP endpoint and the MQTT subscriber.
type Ingester struct {
	store     store.ReadingStore
	publisher *events.Publisher
	maxBatch  int
}

func NewIngester(s store.ReadingStore, publisher *events.Publisher, cfg Config) *Ingester {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}
	return &Ingester{
		store:     s,
		publisher: publisher,
		maxBatch:  cfg.MaxBatchSize,
	}
}

// Ingest stores a batch atomically from the caller's point of view: a single
// malformed reading rejects the whole batch.
func (i *Ingester) Ingest(ctx context.Context, readings []models.Reading, source string) error {
	if len(readings) > i.maxBatch {
		metrics.IncIngestError(source, "batch_too_large")
		return fmt.Errorf("%w: %d readings exceeds limit %d", ErrBatchTooLarge, len(readings), i.maxBatch)
	}
	if err := validation.ValidateReadings(readings); err != nil {
		metrics.IncIngestError(source, "malformed")
		return err
	}
	if err := i.store.Append(ctx, readings...); err != nil {
		metrics.IncIngestError(source, "store")
		return fmt.Errorf("store readings: %w", err)
	}

	metrics.AddReadingsIngested(source, len(readings))
	logger.FromContext(ctx).WithField("source", source).Debugf("Ingested %d readings", len(readings))

	pub := i.publisher
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" && pub != nil {
		pub = pub.WithTraceID(traceID)
	}
	pub.ReadingsIngested(readings, source)
	return nil
}
