package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/predictive-maintenance/internal/analyzer"
	"github.com/OldStager01/predictive-maintenance/internal/events"
	"github.com/OldStager01/predictive-maintenance/internal/ingest"
	"github.com/OldStager01/predictive-maintenance/internal/predictor"
	"github.com/OldStager01/predictive-maintenance/internal/store"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

type stubModel struct {
	label       int
	probability float64
	err         error
	healthErr   error
}

func (m *stubModel) Predict(context.Context, models.FeatureVector) (int, float64, error) {
	return m.label, m.probability, m.err
}

func (m *stubModel) Version() string                   { return "stub-v1" }
func (m *stubModel) HealthCheck(context.Context) error { return m.healthErr }
func (m *stubModel) Close() error                      { return nil }

type brokenStore struct {
	*store.MemoryStore
}

func (s brokenStore) HealthCheck(context.Context) error {
	return errors.New("connection refused")
}

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func healthyReading(machineID, hour int) models.Reading {
	return models.Reading{
		MachineID:      machineID,
		Timestamp:      baseTime.Add(time.Duration(hour) * time.Hour),
		OperatingHours: hour,
		Temperature:    600,
		Pressure:       55,
		Vibration:      5,
		OilQuality:     80,
	}
}

// seededStore holds 30 hours of machine 1, one failing reading of machine 2
// and one reading of machine 3 whose features are not finite.
func seededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore(store.MemoryConfig{})
	for h := 0; h < 30; h++ {
		require.NoError(t, s.Append(context.Background(), healthyReading(1, h)))
	}
	failing := healthyReading(2, 29)
	failing.Failure = true
	unusable := healthyReading(3, 29)
	unusable.Pressure = -1
	require.NoError(t, s.Append(context.Background(), failing, unusable))
	return s
}

type testEnv struct {
	router *gin.Engine
	store  store.Store
	bus    *events.EventBus
}

func newTestEnv(t *testing.T, s store.Store, model *stubModel) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bus := events.NewEventBus(16)
	t.Cleanup(bus.Close)
	publisher := events.NewPublisher(bus)

	a := analyzer.New(analyzer.Config{Workers: 2})
	machines := NewMachineHandler(s, a, MachineHandlerConfig{DefaultHistoryHours: 24, MaxHistoryHours: 48})
	fleet := NewFleetHandler(s, a)
	exports := NewExportHandler(fleet, machines)
	service := predictor.NewService(predictor.Config{HistorySize: 50, WindowSize: 24})

	var health *HealthHandler
	var predict *PredictHandler
	if model != nil {
		health = NewHealthHandler(s, model, nil)
		predict = NewPredictHandler(s, service, model, publisher)
	} else {
		health = NewHealthHandler(s, nil, nil)
		predict = NewPredictHandler(s, service, nil, publisher)
	}
	ingester := ingest.NewIngester(s, publisher, ingest.Config{MaxBatchSize: 3})
	readings := NewReadingsHandler(ingest.NewParser(func() time.Time { return baseTime }), ingester)
	roiHandler := NewROIHandler()

	r := gin.New()
	r.GET("/health", health.Health)
	r.GET("/health/ready", health.Ready)
	r.GET("/health/live", health.Live)
	r.GET("/api/machines", machines.List)
	r.GET("/api/machines/:id", machines.Get)
	r.GET("/api/machines/:id/history", machines.History)
	r.GET("/api/machines/:id/status", machines.Status)
	r.GET("/api/machines/:id/predictions", machines.Predictions)
	r.GET("/api/predict/:id", predict.Predict)
	r.GET("/api/fleet/stats", fleet.Stats)
	r.POST("/api/roi/calculate", roiHandler.Calculate)
	r.POST("/api/readings", readings.Ingest)
	r.GET("/api/export/fleet.xlsx", exports.FleetXLSX)
	r.POST("/api/export/roi.pdf", exports.ROIPDF)

	return &testEnv{router: r, store: s, bus: bus}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		env := newTestEnv(t, seededStore(t), &stubModel{})
		w := env.do("GET", "/health", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		decode(t, w, &resp)
		assert.Equal(t, "healthy", resp.Status)
		assert.True(t, resp.ModelLoaded)
		assert.True(t, resp.DataLoaded)
		assert.Equal(t, "stub-v1", resp.ModelVersion)
	})

	t.Run("no model degrades", func(t *testing.T) {
		env := newTestEnv(t, store.NewMemoryStore(store.MemoryConfig{}), nil)
		w := env.do("GET", "/health", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp HealthResponse
		decode(t, w, &resp)
		assert.Equal(t, "degraded", resp.Status)
		assert.False(t, resp.ModelLoaded)
		assert.False(t, resp.DataLoaded)

		assert.Equal(t, http.StatusServiceUnavailable, env.do("GET", "/health/ready", "").Code)
	})

	t.Run("store down", func(t *testing.T) {
		env := newTestEnv(t, brokenStore{store.NewMemoryStore(store.MemoryConfig{})}, &stubModel{})
		assert.Equal(t, http.StatusServiceUnavailable, env.do("GET", "/health", "").Code)
		assert.Equal(t, http.StatusServiceUnavailable, env.do("GET", "/health/ready", "").Code)
	})

	t.Run("live and ready", func(t *testing.T) {
		env := newTestEnv(t, seededStore(t), &stubModel{})
		assert.Equal(t, http.StatusOK, env.do("GET", "/health/live", "").Code)
		assert.Equal(t, http.StatusOK, env.do("GET", "/health/ready", "").Code)
	})
}

func TestMachines_List(t *testing.T) {
	env := newTestEnv(t, seededStore(t), &stubModel{})
	w := env.do("GET", "/api/machines", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp MachineListResponse
	decode(t, w, &resp)
	require.Equal(t, 3, resp.Total)
	assert.Equal(t, "MCH-001", resp.Machines[0].Name)
	assert.Equal(t, models.HealthNormal, resp.Machines[0].Status)
	assert.Equal(t, models.HealthCritical, resp.Machines[1].Status)
}

func TestMachines_ListEmpty(t *testing.T) {
	env := newTestEnv(t, store.NewMemoryStore(store.MemoryConfig{}), &stubModel{})
	w := env.do("GET", "/api/machines", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"machines":[],"total":0}`, w.Body.String())
}

func TestMachines_Get(t *testing.T) {
	env := newTestEnv(t, seededStore(t), &stubModel{})

	w := env.do("GET", "/api/machines/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp MachineResponse
	decode(t, w, &resp)
	assert.Equal(t, "MCH-002", resp.Name)
	assert.True(t, resp.CurrentStatus.Failure)
	assert.Equal(t, models.HealthCritical, resp.CurrentStatus.Status)

	assert.Equal(t, http.StatusNotFound, env.do("GET", "/api/machines/99", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do("GET", "/api/machines/abc", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do("GET", "/api/machines/-1", "").Code)
}

func TestMachines_History(t *testing.T) {
	env := newTestEnv(t, seededStore(t), &stubModel{})

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantCount int
		wantHours int
	}{
		{name: "default hours", query: "", wantCode: http.StatusOK, wantCount: 24, wantHours: 24},
		{name: "explicit hours", query: "?hours=5", wantCode: http.StatusOK, wantCount: 5, wantHours: 5},
		{name: "clamped to max", query: "?hours=1000", wantCode: http.StatusOK, wantCount: 30, wantHours: 48},
		{name: "zero hours", query: "?hours=0", wantCode: http.StatusBadRequest},
		{name: "not a number", query: "?hours=abc", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("GET", "/api/machines/1/history"+tt.query, "")
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				return
			}
			var resp HistoryResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.wantCount, resp.Count)
			assert.Equal(t, tt.wantHours, resp.Hours)
			assert.Equal(t, 29, resp.History[len(resp.History)-1].OperatingHours)
		})
	}

	assert.Equal(t, http.StatusNotFound, env.do("GET", "/api/machines/42/history", "").Code)
}

func TestMachines_Status(t *testing.T) {
	env := newTestEnv(t, seededStore(t), &stubModel{})
	w := env.do("GET", "/api/machines/1/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	decode(t, w, &resp)
	assert.Equal(t, models.HealthNormal, resp.Status)
	assert.Equal(t, "MCH-001", resp.Name)
	assert.NotEmpty(t, resp.Indicators)
}

func TestPredict(t *testing.T) {
	t.Run("success records and publishes", func(t *testing.T) {
		env := newTestEnv(t, seededStore(t), &stubModel{label: 1, probability: 0.9})
		sub := env.bus.Subscribe(models.EventTypePredictionMade)

		w := env.do("GET", "/api/predict/1", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp PredictResponse
		decode(t, w, &resp)
		assert.Equal(t, 1, resp.MachineID)
		assert.True(t, resp.Prediction.FailurePredicted)
		assert.InDelta(t, 0.9, resp.Prediction.Probability, 1e-9)
		assert.InDelta(t, 0.9, resp.Prediction.Confidence, 1e-9)
		assert.Equal(t, "stub-v1", resp.Prediction.ModelVersion)
		assert.Equal(t, 600.0, resp.CurrentReadings.Temperature)
		assert.NotEmpty(t, resp.Recommendation.Priority)

		select {
		case event := <-sub:
			assert.Equal(t, 1, *event.MachineID)
		case <-time.After(time.Second):
			t.Fatal("prediction event not published")
		}

		w = env.do("GET", "/api/machines/1/predictions", "")
		require.Equal(t, http.StatusOK, w.Code)
		var recent PredictionsResponse
		decode(t, w, &recent)
		assert.Equal(t, 1, recent.Count)
	})

	tests := []struct {
		name     string
		path     string
		model    *stubModel
		wantCode int
	}{
		{name: "unknown machine", path: "/api/predict/77", model: &stubModel{}, wantCode: http.StatusNotFound},
		{name: "insufficient data", path: "/api/predict/3", model: &stubModel{}, wantCode: http.StatusBadRequest},
		{name: "model failure", path: "/api/predict/1", model: &stubModel{err: errors.New("boom")}, wantCode: http.StatusServiceUnavailable},
		{name: "invalid model output", path: "/api/predict/1", model: &stubModel{label: 3, probability: 0.5}, wantCode: http.StatusServiceUnavailable},
		{name: "invalid id", path: "/api/predict/x", model: &stubModel{}, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, seededStore(t), tt.model)
			assert.Equal(t, tt.wantCode, env.do("GET", tt.path, "").Code)
		})
	}

	t.Run("no model loaded", func(t *testing.T) {
		env := newTestEnv(t, seededStore(t), nil)
		assert.Equal(t, http.StatusServiceUnavailable, env.do("GET", "/api/predict/1", "").Code)
	})
}

func TestFleetStats(t *testing.T) {
	env := newTestEnv(t, seededStore(t), &stubModel{})
	w := env.do("GET", "/api/fleet/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.FleetSummary
	decode(t, w, &resp)
	assert.Equal(t, 3, resp.TotalMachines)
	assert.Equal(t, 1, resp.CriticalMachines)
	assert.Equal(t, 32, resp.TotalReadings)
	assert.InDelta(t, 33.3, resp.CriticalPercentage, 1e-9)

	empty := newTestEnv(t, store.NewMemoryStore(store.MemoryConfig{}), &stubModel{})
	assert.Equal(t, http.StatusBadRequest, empty.do("GET", "/api/fleet/stats", "").Code)
}

func TestROI_Calculate(t *testing.T) {
	env := newTestEnv(t, nil, &stubModel{})

	t.Run("defaults", func(t *testing.T) {
		w := env.do("POST", "/api/roi/calculate", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp ROIResponse
		decode(t, w, &resp)
		assert.Equal(t, 95.0, resp.InputParameters.DetectionRate)
		assert.Equal(t, 19, resp.Results.PreventedFailures)
		assert.Equal(t, 950000.0, resp.Results.FailureCostsAvoided)
		assert.Equal(t, 850000.0, resp.Results.NetSavings)
		assert.Equal(t, 340.0, resp.Results.ROIPercentage)
		require.NotNil(t, resp.Results.PaybackPeriodYears)
		assert.Equal(t, 0.3, *resp.Results.PaybackPeriodYears)
		assert.Equal(t, 4.0, *resp.Results.PaybackPeriodMonths)
		require.Len(t, resp.Projections, 5)
		assert.Equal(t, 4250000.0, resp.Projections[4].Savings)
	})

	t.Run("partial body keeps other defaults", func(t *testing.T) {
		w := env.do("POST", "/api/roi/calculate", `{"detection_rate": 50, "fleet_size": 10}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp ROIResponse
		decode(t, w, &resp)
		assert.Equal(t, 10, resp.InputParameters.FleetSize)
		assert.Equal(t, 10, resp.Results.PreventedFailures)
		assert.Equal(t, 250000.0, resp.InputParameters.InitialInvestment)
	})

	t.Run("never pays back", func(t *testing.T) {
		w := env.do("POST", "/api/roi/calculate", `{"maintenance_cost": 5000000}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"payback_period_years":null`)
		assert.Contains(t, w.Body.String(), `"payback_period_months":null`)
	})

	t.Run("invalid", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, env.do("POST", "/api/roi/calculate", `{"detection_rate": 150}`).Code)
		assert.Equal(t, http.StatusBadRequest, env.do("POST", "/api/roi/calculate", `{"cost_per_failure": -1}`).Code)
		assert.Equal(t, http.StatusBadRequest, env.do("POST", "/api/roi/calculate", `{not json`).Code)
	})
}

func TestReadings_Ingest(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantRows int
	}{
		{
			name:     "single object",
			body:     `{"machine_id": 5, "temperature": 610, "pressure": 50, "vibration": 4, "oil_quality": 85, "operating_hours": 10}`,
			wantCode: http.StatusCreated,
			wantRows: 1,
		},
		{
			name: "array",
			body: `[{"machine_id": 5, "temperature": 610, "pressure": 50, "vibration": 4, "oil_quality": 85, "operating_hours": 10},
			        {"machine_id": 6, "temperature": 620, "pressure": 51, "vibration": 4, "oil_quality": 84, "operating_hours": 11}]`,
			wantCode: http.StatusCreated,
			wantRows: 2,
		},
		{
			name:     "out of range rejects batch",
			body:     `[{"machine_id": 5, "temperature": 610, "pressure": 50, "vibration": 4, "oil_quality": 85, "operating_hours": 1},{"machine_id": 6, "temperature": -5, "pressure": 50, "vibration": 4, "oil_quality": 85, "operating_hours": 1}]`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "missing machine id",
			body:     `{"temperature": 610, "pressure": 50, "vibration": 4, "oil_quality": 85, "operating_hours": 1}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "not json",
			body:     `hello`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "batch too large",
			body: `[{"machine_id": 1, "temperature": 1, "pressure": 1, "vibration": 1, "oil_quality": 1, "operating_hours": 1},
			        {"machine_id": 1, "temperature": 1, "pressure": 1, "vibration": 1, "oil_quality": 1, "operating_hours": 2},
			        {"machine_id": 1, "temperature": 1, "pressure": 1, "vibration": 1, "oil_quality": 1, "operating_hours": 3},
			        {"machine_id": 1, "temperature": 1, "pressure": 1, "vibration": 1, "oil_quality": 1, "operating_hours": 4}]`,
			wantCode: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewMemoryStore(store.MemoryConfig{})
			env := newTestEnv(t, s, &stubModel{})

			w := env.do("POST", "/api/readings", tt.body)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())

			count, err := s.Count(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, count)
		})
	}
}

func TestReadings_IngestStampsMissingTimestamp(t *testing.T) {
	s := store.NewMemoryStore(store.MemoryConfig{})
	env := newTestEnv(t, s, &stubModel{})

	w := env.do("POST", "/api/readings", `{"machine_id": 8, "temperature": 610, "pressure": 50, "vibration": 4, "oil_quality": 85, "operating_hours": 10}`)
	require.Equal(t, http.StatusCreated, w.Code)

	r, err := s.Latest(context.Background(), 8)
	require.NoError(t, err)
	assert.True(t, r.Timestamp.Equal(baseTime))
}

func TestExport(t *testing.T) {
	env := newTestEnv(t, seededStore(t), &stubModel{})

	w := env.do("GET", "/api/export/fleet.xlsx?machine_id=1&hours=5", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")

	assert.Equal(t, http.StatusNotFound, env.do("GET", "/api/export/fleet.xlsx?machine_id=50", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do("GET", "/api/export/fleet.xlsx?machine_id=x", "").Code)

	w = env.do("POST", "/api/export/roi.pdf", `{"fleet_size": 50}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pdfContentType, w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	empty := newTestEnv(t, store.NewMemoryStore(store.MemoryConfig{}), &stubModel{})
	assert.Equal(t, http.StatusBadRequest, empty.do("GET", "/api/export/fleet.xlsx", "").Code)
}
