package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/predictive-maintenance/api/handlers"
	"github.com/OldStager01/predictive-maintenance/internal/classifier"
	"github.com/OldStager01/predictive-maintenance/internal/events"
	"github.com/OldStager01/predictive-maintenance/internal/monitor"
	"github.com/OldStager01/predictive-maintenance/internal/simulator"
	"github.com/OldStager01/predictive-maintenance/internal/store"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

type scenario struct {
	sim     *simulator.Simulator
	srv     *Server
	ts      *httptest.Server
	mon     *monitor.Monitor
	pub     *simulator.HTTPPublisher
	changes <-chan *models.Event
}

// newScenario runs a three machine fleet with a ten hour lifecycle. Machine
// 0 fails suddenly at hour 8, the others stay healthy.
func newScenario(t *testing.T) *scenario {
	t.Helper()
	gin.SetMode(gin.TestMode)

	model, err := classifier.LoadLogistic(filepath.Join("..", "configs", "model.yaml"))
	require.NoError(t, err)

	st := store.NewMemoryStore(store.MemoryConfig{})
	bus := events.NewEventBus(64)

	srv := NewServer(testConfig(), Dependencies{Store: st, Model: model, Bus: bus})
	ts := httptest.NewServer(srv.Router())

	sim := simulator.New(simulator.Config{
		Machines:       3,
		LifecycleHours: 10,
		Seed:           5,
		Start:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	for id := 0; id < 3; id++ {
		m, ok := sim.Machine(id)
		require.True(t, ok)
		if id == 0 {
			m.SetLifecycle(simulator.LifecycleSuddenFailure)
		} else {
			m.SetLifecycle(simulator.LifecycleNormal)
		}
	}

	sc := &scenario{
		sim:     sim,
		srv:     srv,
		ts:      ts,
		mon:     monitor.New(monitor.Config{Store: st, Publisher: events.NewPublisher(bus)}),
		pub:     simulator.NewHTTPPublisher(simulator.HTTPPublisherConfig{BaseURL: ts.URL}),
		changes: bus.Subscribe(models.EventTypeStatusChanged),
	}

	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
		bus.Close()
	})
	return sc
}

// advance delivers hours ticks over HTTP and evaluates the fleet once.
func (sc *scenario) advance(t *testing.T, hours int) *models.FleetSummary {
	t.Helper()
	for i := 0; i < hours; i++ {
		require.NoError(t, sc.pub.Publish(context.Background(), sc.sim.Tick()))
	}
	summary, err := sc.mon.Evaluate(context.Background())
	require.NoError(t, err)
	return summary
}

func (sc *scenario) drainChanges() []models.StatusChange {
	var out []models.StatusChange
	for {
		select {
		case event := <-sc.changes:
			if change, ok := event.Data.(models.StatusChange); ok {
				out = append(out, change)
			}
		default:
			return out
		}
	}
}

func (sc *scenario) get(t *testing.T, path string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(sc.ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestScenario_SuddenFailureDetected(t *testing.T) {
	sc := newScenario(t)

	summary := sc.advance(t, 5)
	assert.Equal(t, 3, summary.TotalMachines)
	assert.Zero(t, summary.CriticalMachines)
	for _, change := range sc.drainChanges() {
		assert.NotEqual(t, models.HealthCritical, change.To)
	}

	var before handlers.PredictResponse
	require.Equal(t, http.StatusOK, sc.get(t, "/api/predict/0", &before))
	assert.False(t, before.Prediction.FailurePredicted, "healthy machine predicted to fail")

	summary = sc.advance(t, 4)
	assert.Equal(t, 1, summary.CriticalMachines)

	changes := sc.drainChanges()
	require.NotEmpty(t, changes)
	last := changes[len(changes)-1]
	assert.Equal(t, 0, last.MachineID)
	assert.Equal(t, models.HealthCritical, last.To)

	var status handlers.StatusResponse
	require.Equal(t, http.StatusOK, sc.get(t, "/api/machines/0/status", &status))
	assert.True(t, status.Failure)
	assert.Equal(t, models.HealthCritical, status.Status)

	var after handlers.PredictResponse
	require.Equal(t, http.StatusOK, sc.get(t, "/api/predict/0", &after))
	assert.True(t, after.Prediction.FailurePredicted)
	assert.Greater(t, after.Prediction.Probability, 0.5)
	assert.NotEqual(t, models.PriorityNormal, after.Recommendation.Priority)
}

func TestScenario_HistoryAccumulatesAcrossTicks(t *testing.T) {
	sc := newScenario(t)
	sc.advance(t, 6)

	var history handlers.HistoryResponse
	require.Equal(t, http.StatusOK, sc.get(t, "/api/machines/2/history?hours=4", &history))
	require.Equal(t, 4, history.Count)
	for i := 1; i < len(history.History); i++ {
		assert.True(t, history.History[i].Timestamp.After(history.History[i-1].Timestamp))
	}

	var stats models.FleetSummary
	require.Equal(t, http.StatusOK, sc.get(t, "/api/fleet/stats", &stats))
	assert.Equal(t, 18, stats.TotalReadings)
}
