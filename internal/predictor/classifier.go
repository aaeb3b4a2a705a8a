package predictor

import (
	"context"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// Classifier is a trained failure model. Label is 1 when a failure is
// predicted; probability is the probability of the failure class.
type Classifier interface {
	Predict(ctx context.Context, fv models.FeatureVector) (label int, probability float64, err error)
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, fv models.FeatureVector) (int, float64, error)

func (f ClassifierFunc) Predict(ctx context.Context, fv models.FeatureVector) (int, float64, error) {
	return f(ctx, fv)
}

// Versioned is implemented by classifiers that can report a model version.
type Versioned interface {
	Version() string
}
