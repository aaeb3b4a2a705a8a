package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

func TestInit_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestFleetSummaryGauges(t *testing.T) {
	Init()
	SetFleetSummary(&models.FleetSummary{
		TotalMachines:    4,
		NormalMachines:   2,
		WarningMachines:  1,
		CriticalMachines: 1,
		NormalPercentage: 50,
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(fleetMachines.WithLabelValues("normal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(fleetMachines.WithLabelValues("critical")))
	assert.Equal(t, 50.0, testutil.ToFloat64(fleetHealthy))
}

func TestCounters(t *testing.T) {
	Init()
	before := testutil.ToFloat64(readingsIngested.WithLabelValues("test"))
	AddReadingsIngested("test", 3)
	AddReadingsIngested("test", 0)
	assert.Equal(t, before+3, testutil.ToFloat64(readingsIngested.WithLabelValues("test")))

	beforePred := testutil.ToFloat64(predictionsTotal.WithLabelValues("high"))
	ObservePrediction(models.PriorityHigh, 10*time.Millisecond)
	assert.Equal(t, beforePred+1, testutil.ToFloat64(predictionsTotal.WithLabelValues("high")))
}

func TestCircuitBreakerState(t *testing.T) {
	Init()
	tests := map[string]float64{"closed": 0, "open": 1, "half-open": 2}
	for state, want := range tests {
		SetCircuitBreakerState("model", state)
		assert.Equal(t, want, testutil.ToFloat64(circuitBreakerState.WithLabelValues("model")), state)
	}
}

func TestHandler_Exposition(t *testing.T) {
	Init()
	ObserveHTTPRequest("/health", http.MethodGet, 200, time.Millisecond)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pdm_http_requests_total{code="200",method="GET",route="/health"}`)
}
