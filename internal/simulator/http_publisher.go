package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

const readingsPath = "/api/readings"

// HTTPPublisher posts each tick as one batch to the readings endpoint of a
// running service.
type HTTPPublisher struct {
	client *http.Client
	url    string
}

type HTTPPublisherConfig struct {
	BaseURL string
	Timeout time.Duration
}

func NewHTTPPublisher(cfg HTTPPublisherConfig) *HTTPPublisher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &HTTPPublisher{
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(cfg.BaseURL, "/") + readingsPath,
	}
}

func (p *HTTPPublisher) Publish(ctx context.Context, readings []models.Reading) error {
	body, err := json.Marshal(readings)
	if err != nil {
		return fmt.Errorf("marshal readings: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("post readings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post readings: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
