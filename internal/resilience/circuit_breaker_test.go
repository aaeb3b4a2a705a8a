package resilience_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/predictive-maintenance/internal/resilience"
)

var errBoom = errors.New("model offline")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newBreaker(clock *fakeClock) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:        "model",
		MaxFailures: 3,
		Timeout:     time.Minute,
		HalfOpenMax: 2,
		Now:         clock.Now,
	})
}

func fail() error    { return errBoom }
func succeed() error { return nil }

func TestCircuitBreaker_StateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(cb *resilience.CircuitBreaker, clock *fakeClock)
		expectedState resilience.State
	}{
		{
			name:          "successful execution stays closed",
			setup:         func(cb *resilience.CircuitBreaker, _ *fakeClock) { _ = cb.Execute(succeed) },
			expectedState: resilience.StateClosed,
		},
		{
			name: "opens after max failures",
			setup: func(cb *resilience.CircuitBreaker, _ *fakeClock) {
				for i := 0; i < 3; i++ {
					_ = cb.Execute(fail)
				}
			},
			expectedState: resilience.StateOpen,
		},
		{
			name: "success resets the failure count",
			setup: func(cb *resilience.CircuitBreaker, _ *fakeClock) {
				_ = cb.Execute(fail)
				_ = cb.Execute(fail)
				_ = cb.Execute(succeed)
				_ = cb.Execute(fail)
			},
			expectedState: resilience.StateClosed,
		},
		{
			name: "half-open after timeout",
			setup: func(cb *resilience.CircuitBreaker, clock *fakeClock) {
				for i := 0; i < 3; i++ {
					_ = cb.Execute(fail)
				}
				clock.Advance(2 * time.Minute)
				_ = cb.Execute(succeed)
			},
			expectedState: resilience.StateHalfOpen,
		},
		{
			name: "closes after enough half-open successes",
			setup: func(cb *resilience.CircuitBreaker, clock *fakeClock) {
				for i := 0; i < 3; i++ {
					_ = cb.Execute(fail)
				}
				clock.Advance(2 * time.Minute)
				_ = cb.Execute(succeed)
				_ = cb.Execute(succeed)
			},
			expectedState: resilience.StateClosed,
		},
		{
			name: "half-open failure reopens",
			setup: func(cb *resilience.CircuitBreaker, clock *fakeClock) {
				for i := 0; i < 3; i++ {
					_ = cb.Execute(fail)
				}
				clock.Advance(2 * time.Minute)
				_ = cb.Execute(fail)
			},
			expectedState: resilience.StateOpen,
		},
		{
			name: "cancellation is not a failure",
			setup: func(cb *resilience.CircuitBreaker, _ *fakeClock) {
				for i := 0; i < 5; i++ {
					_ = cb.Execute(func() error { return context.Canceled })
				}
			},
			expectedState: resilience.StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{now: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
			cb := newBreaker(clock)

			tt.setup(cb, clock)

			assert.Equal(t, tt.expectedState, cb.State())
		})
	}
}

func TestCircuitBreaker_RejectsWhileOpen(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cb := newBreaker(clock)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_ExecuteContext(t *testing.T) {
	cb := newBreaker(&fakeClock{now: time.Now()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cb.ExecuteContext(ctx, func(context.Context) error {
		t.Fatal("must not run")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	changes := make(chan resilience.State, 1)
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:        "model",
		MaxFailures: 1,
		OnStateChange: func(name string, from, to resilience.State) {
			changes <- to
		},
	})

	_ = cb.Execute(fail)

	select {
	case state := <-changes:
		assert.Equal(t, resilience.StateOpen, state)
	case <-time.After(time.Second):
		t.Fatal("state change callback not called")
	}
}

func TestCircuitBreaker_Snapshot(t *testing.T) {
	cb := newBreaker(&fakeClock{now: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	_ = cb.Execute(fail)

	snap := cb.Snapshot()

	require.Equal(t, "model", snap.Name)
	assert.Equal(t, "closed", snap.State)
	assert.Equal(t, 1, snap.Failures)

	cb.Reset()
	assert.Zero(t, cb.Snapshot().Failures)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", resilience.StateClosed.String())
	assert.Equal(t, "open", resilience.StateOpen.String())
	assert.Equal(t, "half-open", resilience.StateHalfOpen.String())
	assert.Equal(t, "unknown", resilience.State(42).String())
}
