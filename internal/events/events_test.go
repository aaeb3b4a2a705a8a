package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

func receive(t *testing.T, ch <-chan *models.Event) *models.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestEventBus_SubscribeByType(t *testing.T) {
	bus := NewEventBus(4)
	defer bus.Close()

	status := bus.Subscribe(models.EventTypeStatusChanged)
	all := bus.SubscribeAll()

	bus.Publish(models.NewEvent(models.EventTypeReadingIngested, "ingested"))
	bus.Publish(models.NewEvent(models.EventTypeStatusChanged, "changed"))

	assert.Equal(t, models.EventTypeStatusChanged, receive(t, status).Type)
	assert.Equal(t, models.EventTypeReadingIngested, receive(t, all).Type)
	assert.Equal(t, models.EventTypeStatusChanged, receive(t, all).Type)
	assert.Empty(t, status)
}

func TestEventBus_DropsWhenFull(t *testing.T) {
	bus := NewEventBus(1)
	defer bus.Close()

	ch := bus.Subscribe(models.EventTypeAlert)
	bus.Publish(models.NewEvent(models.EventTypeAlert, "first"))
	bus.Publish(models.NewEvent(models.EventTypeAlert, "second"))

	assert.Equal(t, "first", receive(t, ch).Message)
	assert.Equal(t, int64(1), bus.Dropped(models.EventTypeAlert))
}

func TestEventBus_CloseIsIdempotent(t *testing.T) {
	bus := NewEventBus(0)
	ch := bus.SubscribeAll()

	bus.Close()
	bus.Close()

	_, ok := <-ch
	assert.False(t, ok)

	bus.Publish(models.NewEvent(models.EventTypeAlert, "after close"))

	late := bus.Subscribe(models.EventTypeAlert)
	_, ok = <-late
	assert.False(t, ok)
}

func TestPublisher_StatusChanged(t *testing.T) {
	bus := NewEventBus(4)
	defer bus.Close()
	ch := bus.Subscribe(models.EventTypeStatusChanged)

	pub := NewPublisher(bus).WithTraceID("trace-1")
	pub.StatusChanged(models.StatusChange{
		MachineID: 7,
		Name:      models.MachineName(7),
		From:      models.HealthNormal,
		To:        models.HealthCritical,
	})

	e := receive(t, ch)
	require.NotNil(t, e.MachineID)
	assert.Equal(t, 7, *e.MachineID)
	assert.Equal(t, models.SeverityCritical, e.Severity)
	assert.Equal(t, "trace-1", e.TraceID)
	assert.Equal(t, "MCH-007 status changed from normal to critical", e.Message)
}

func TestPublisher_ReadingsIngested(t *testing.T) {
	bus := NewEventBus(4)
	defer bus.Close()
	ch := bus.Subscribe(models.EventTypeReadingIngested)
	pub := NewPublisher(bus)

	pub.ReadingsIngested(nil, "http")
	pub.ReadingsIngested([]models.Reading{{MachineID: 1}, {MachineID: 1}}, "mqtt")
	pub.ReadingsIngested([]models.Reading{{MachineID: 1}, {MachineID: 2}}, "http")

	single := receive(t, ch)
	require.NotNil(t, single.MachineID)
	assert.Equal(t, 1, *single.MachineID)

	mixed := receive(t, ch)
	assert.Nil(t, mixed.MachineID)
	assert.Empty(t, ch)
}

func TestPublisher_PredictionSeverity(t *testing.T) {
	bus := NewEventBus(8)
	defer bus.Close()
	ch := bus.Subscribe(models.EventTypePredictionMade)
	pub := NewPublisher(bus)

	cases := map[models.Priority]models.EventSeverity{
		models.PriorityCritical: models.SeverityCritical,
		models.PriorityHigh:     models.SeverityCritical,
		models.PriorityMedium:   models.SeverityWarning,
		models.PriorityLow:      models.SeverityInfo,
		models.PriorityNormal:   models.SeverityInfo,
	}
	for priority, want := range cases {
		pub.PredictionMade(&models.Prediction{
			MachineID:      3,
			Recommendation: models.Recommendation{Priority: priority},
		})
		assert.Equal(t, want, receive(t, ch).Severity, priority)
	}
}

func TestPublisher_NilSafe(t *testing.T) {
	var pub *Publisher
	assert.NotPanics(t, func() {
		pub.Alert(1, models.SeverityWarning, "noop", nil)
	})
}

func TestEventLogger_InvokesHandlers(t *testing.T) {
	bus := NewEventBus(4)
	ch := bus.SubscribeAll()

	var mu sync.Mutex
	var seen []models.EventType
	done := make(chan struct{})
	l := NewEventLogger(ch, func(e *models.Event) {
		mu.Lock()
		seen = append(seen, e.Type)
		n := len(seen)
		mu.Unlock()
		if n == 2 {
			close(done)
		}
	})
	l.Start()

	pub := NewPublisher(bus)
	pub.FleetEvaluated(&models.FleetSummary{TotalMachines: 2, CriticalMachines: 1})
	pub.Error("boom", assert.AnError)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handlers not invoked")
	}
	l.Stop()
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []models.EventType{models.EventTypeFleetEvaluated, models.EventTypeError}, seen)
	assert.Contains(t, LogToJSON(&models.Event{Type: models.EventTypeAlert}), `"type":"alert"`)
}
