package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// HTTPModel calls a remote model server that accepts named feature values.
type HTTPModel struct {
	client   *http.Client
	endpoint string

	mu      sync.RWMutex
	version string
}

type HTTPModelConfig struct {
	Endpoint string
	Timeout  time.Duration
}

func NewHTTPModel(cfg HTTPModelConfig) *HTTPModel {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &HTTPModel{
		client: &http.Client{
			Timeout: timeout,
		},
		endpoint: cfg.Endpoint,
		version:  "remote",
	}
}

type predictRequest struct {
	MachineID int                `json:"machine_id"`
	Features  map[string]float64 `json:"features"`
}

type predictResponse struct {
	Label        *int     `json:"label"`
	Probability  *float64 `json:"probability"`
	ModelVersion string   `json:"model_version"`
}

func (m *HTTPModel) Predict(ctx context.Context, fv models.FeatureVector) (int, float64, error) {
	names := models.FeatureNames()
	values := fv.Values()
	payload := predictRequest{
		MachineID: fv.MachineID,
		Features:  make(map[string]float64, len(names)),
	}
	for i, name := range names {
		payload.Features[name] = values[i]
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, 0, fmt.Errorf("encode features: %w", err)
	}

	url := fmt.Sprintf("%s/predict", m.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: failed to create request: %v", ErrModelUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if traceID := logger.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}

	logger.WithMachine(fv.MachineID).Debugf("Requesting prediction from %s", url)

	resp, err := m.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, 0, fmt.Errorf("%w: %v", ErrModelUnavailable, ctx.Err())
		}
		return 0, 0, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("%w: unexpected status code %d", ErrModelUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: failed to read response body: %v", ErrModelUnavailable, err)
	}

	var out predictResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if out.Label == nil || out.Probability == nil {
		return 0, 0, fmt.Errorf("%w: missing label or probability", ErrInvalidResponse)
	}
	if out.ModelVersion != "" {
		m.mu.Lock()
		m.version = out.ModelVersion
		m.mu.Unlock()
	}

	return *out.Label, *out.Probability, nil
}

func (m *HTTPModel) Version() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

func (m *HTTPModel) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", m.endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

func (m *HTTPModel) Close() error {
	m.client.CloseIdleConnections()
	return nil
}
