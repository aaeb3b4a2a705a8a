package predictor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/OldStager01/predictive-maintenance/internal/features"
	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// DefaultHistorySize is the number of most recent readings fed to the
// feature engineer for one prediction.
const DefaultHistorySize = 50

var ErrNilClassifier = errors.New("predictor: nil classifier")

type Config struct {
	HistorySize int
	WindowSize  int
	Now         func() time.Time
}

// Service turns a machine's reading history into a prediction using a
// caller-supplied classifier. It holds no mutable state.
type Service struct {
	engineer    *features.Engineer
	historySize int
	now         func() time.Time
}

func NewService(cfg Config) *Service {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultHistorySize
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		engineer:    features.New(features.Config{WindowSize: cfg.WindowSize}),
		historySize: cfg.HistorySize,
		now:         cfg.Now,
	}
}

func (s *Service) HistorySize() int {
	return s.historySize
}

// Predict runs the classifier once on the feature vector of the most recent
// reading. history must belong to a single machine; order does not matter.
// The classifier is never retried.
func (s *Service) Predict(ctx context.Context, history []models.Reading, clf Classifier) (*models.Prediction, error) {
	if clf == nil {
		return nil, ErrNilClassifier
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("predict: empty history: %w", models.ErrInsufficientData)
	}

	recent := s.recent(history)
	machineID := recent[len(recent)-1].MachineID
	for _, r := range recent {
		if r.MachineID != machineID {
			return nil, fmt.Errorf("predict: history mixes machines %d and %d: %w",
				machineID, r.MachineID, models.ErrInvalidInput)
		}
	}

	fv, err := s.engineer.Latest(recent)
	if err != nil {
		return nil, fmt.Errorf("predict machine %d: %w", machineID, err)
	}

	label, probability, err := clf.Predict(ctx, fv)
	if err != nil {
		return nil, fmt.Errorf("predict machine %d: classifier: %w", machineID, err)
	}
	if err := validateOutput(label, probability); err != nil {
		return nil, fmt.Errorf("predict machine %d: %w", machineID, err)
	}

	latest := recent[len(recent)-1]
	prediction := &models.Prediction{
		CreatedAt:        s.now(),
		MachineID:        machineID,
		FailurePredicted: label == 1,
		Probability:      probability,
		Confidence:       confidence(label, probability),
		Recommendation:   Recommend(label, probability, latest),
		CurrentReadings:  models.NewCurrentReadings(latest),
	}
	if v, ok := clf.(Versioned); ok {
		prediction.ModelVersion = v.Version()
	}

	logger.WithMachine(machineID).Debugf(
		"Prediction: label=%d probability=%.3f priority=%s",
		label, probability, prediction.Recommendation.Priority,
	)

	return prediction, nil
}

// recent returns a timestamp-ordered copy of the last historySize readings.
func (s *Service) recent(history []models.Reading) []models.Reading {
	sorted := make([]models.Reading, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	if len(sorted) > s.historySize {
		sorted = sorted[len(sorted)-s.historySize:]
	}
	return sorted
}

func validateOutput(label int, probability float64) error {
	if label != 0 && label != 1 {
		return fmt.Errorf("%w: label %d", models.ErrInvalidClassifierOutput, label)
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return fmt.Errorf("%w: probability %v", models.ErrInvalidClassifierOutput, probability)
	}
	return nil
}

func confidence(label int, probability float64) float64 {
	if label == 1 {
		return probability
	}
	return 1 - probability
}
