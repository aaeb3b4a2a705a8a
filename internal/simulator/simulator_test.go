package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestGenerateHistory_Deterministic(t *testing.T) {
	cfg := Config{Machines: 5, LifecycleHours: 48, Seed: 7, Start: start}

	a := New(cfg).GenerateHistory(48)
	b := New(cfg).GenerateHistory(48)

	require.Len(t, a, 5*48)
	assert.Equal(t, a, b)
}

func TestGenerateHistory_Shape(t *testing.T) {
	readings := New(Config{Machines: 3, LifecycleHours: 24, Seed: 1, Start: start}).GenerateHistory(24)

	for i, r := range readings {
		step := i % 24
		assert.Equal(t, i/24, r.MachineID)
		assert.Equal(t, step, r.OperatingHours)
		assert.Equal(t, start.Add(time.Duration(step)*time.Hour), r.Timestamp)

		assert.GreaterOrEqual(t, r.Temperature, 50.0)
		assert.LessOrEqual(t, r.Temperature, 150.0)
		assert.GreaterOrEqual(t, r.Pressure, 20.0)
		assert.LessOrEqual(t, r.Pressure, 80.0)
		assert.GreaterOrEqual(t, r.Vibration, 0.0)
		assert.LessOrEqual(t, r.Vibration, 20.0)
		assert.GreaterOrEqual(t, r.OilQuality, 0.0)
		assert.LessOrEqual(t, r.OilQuality, 100.0)
	}
	assert.Empty(t, New(Config{Seed: 1}).GenerateHistory(0))
}

func TestLifecycles_FailureFlags(t *testing.T) {
	const total = 100
	rng := rand.New(rand.NewSource(3))

	tests := []struct {
		lifecycle   Lifecycle
		firstFailed int
	}{
		{LifecycleNormal, -1},
		{LifecycleGradualDegradation, 90},
		{LifecycleSuddenFailure, 80},
	}

	for _, tt := range tests {
		t.Run(tt.lifecycle.Name(), func(t *testing.T) {
			first := -1
			for step := 0; step < total; step++ {
				s := tt.lifecycle.Sample(step, total, rng)
				if s.Failure && first < 0 {
					first = step
				}
				if first >= 0 {
					assert.True(t, s.Failure, "failure must persist once raised")
				}
			}
			assert.Equal(t, tt.firstFailed, first)
		})
	}
}

func TestGradualDegradation_Drifts(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	const total = 1000

	var early, late float64
	for step := 0; step < 100; step++ {
		early += LifecycleGradualDegradation.Sample(step, total, rng).Vibration
		late += LifecycleGradualDegradation.Sample(total-1-step, total, rng).Vibration
	}
	assert.InDelta(t, 2.4, early/100, 0.5)
	assert.InDelta(t, 9.6, late/100, 0.5)
}

func TestNormalLifecycle_OilBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 1000; i++ {
		s := LifecycleNormal.Sample(i, 1000, rng)
		assert.GreaterOrEqual(t, s.OilQuality, 40.0)
		assert.LessOrEqual(t, s.OilQuality, 100.0)
	}
}

func TestDrawLifecycle_Odds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		counts[DrawLifecycle(rng).Name()]++
	}
	assert.InDelta(t, 7000, counts["normal"], 300)
	assert.InDelta(t, 2000, counts["gradual_degradation"], 300)
	assert.InDelta(t, 1000, counts["sudden_failure"], 300)
}

func TestParseLifecycle(t *testing.T) {
	l, ok := ParseLifecycle("sudden_failure")
	require.True(t, ok)
	assert.Equal(t, LifecycleSuddenFailure, l)

	_, ok = ParseLifecycle("explode")
	assert.False(t, ok)
}

func TestMachineSim_RestartsAfterLifecycle(t *testing.T) {
	m := NewMachineSim(1, LifecycleSuddenFailure, 10, start, rand.New(rand.NewSource(1)))
	m.SetLifecycle(LifecycleSuddenFailure)

	var readings []models.Reading
	for i := 0; i < 12; i++ {
		readings = append(readings, m.Next())
	}

	assert.True(t, readings[9].Failure)
	assert.Equal(t, 0, readings[10].OperatingHours)
	assert.False(t, readings[10].Failure)
	assert.Equal(t, start.Add(11*time.Hour), readings[11].Timestamp)

	st := m.Status()
	assert.Equal(t, 1, st.Restarts)
	assert.Equal(t, "sudden_failure", st.Lifecycle)
	assert.Equal(t, "MCH-001", st.Name)
}

func TestRun_PublishesTicks(t *testing.T) {
	sim := New(Config{Machines: 2, LifecycleHours: 10, Seed: 1, Start: start})
	ctx, cancel := context.WithCancel(context.Background())

	var ticks int32
	err := sim.Run(ctx, time.Millisecond, func(_ context.Context, readings []models.Reading) error {
		assert.Len(t, readings, 2)
		if atomic.AddInt32(&ticks, 1) == 3 {
			cancel()
		}
		if atomic.LoadInt32(&ticks) == 1 {
			return errors.New("broker down")
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&ticks), int32(3))
}

func TestRun_InvalidInterval(t *testing.T) {
	err := New(Config{Seed: 1}).Run(context.Background(), 0, nil)
	assert.Error(t, err)
}

func TestControlAPI(t *testing.T) {
	sim := New(Config{Machines: 2, LifecycleHours: 10, Seed: 1, Start: start})
	srv := httptest.NewServer(sim.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/machines")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/lifecycle", "application/json",
		strings.NewReader(`{"machine_id":1,"lifecycle":"gradual_degradation"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	m, ok := sim.Machine(1)
	require.True(t, ok)
	assert.Equal(t, "gradual_degradation", m.Status().Lifecycle)

	resp, err = http.Post(srv.URL+"/lifecycle", "application/json",
		strings.NewReader(`{"machine_id":1,"lifecycle":"bogus"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/machines/9")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPPublisher(t *testing.T) {
	var got []models.Reading
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/readings", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sim := New(Config{Machines: 3, Seed: 1})
	pub := NewHTTPPublisher(HTTPPublisherConfig{BaseURL: srv.URL + "/"})

	require.NoError(t, pub.Publish(context.Background(), sim.Tick()))
	assert.Len(t, got, 3)
}

func TestHTTPPublisher_RejectedBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"malformed reading"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	pub := NewHTTPPublisher(HTTPPublisherConfig{BaseURL: srv.URL})
	err := pub.Publish(context.Background(), New(Config{Machines: 1}).Tick())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
