package events

import (
	"sync"

	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

const DefaultBufferSize = 100

// EventBus fans events out to buffered subscriber channels. Publish never
// blocks: a full subscriber drops the event.
type EventBus struct {
	subscribers map[models.EventType][]chan *models.Event
	allChans    []chan *models.Event
	mu          sync.RWMutex
	bufferSize  int
	closed      bool
	dropped     map[models.EventType]int64
}

func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &EventBus{
		subscribers: make(map[models.EventType][]chan *models.Event),
		bufferSize:  bufferSize,
		dropped:     make(map[models.EventType]int64),
	}
}

func (b *EventBus) Subscribe(eventTypes ...models.EventType) <-chan *models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *models.Event, b.bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	for _, t := range eventTypes {
		b.subscribers[t] = append(b.subscribers[t], ch)
	}
	b.allChans = append(b.allChans, ch)
	return ch
}

func (b *EventBus) SubscribeAll() <-chan *models.Event {
	return b.Subscribe(AllEventTypes()...)
}

func (b *EventBus) Publish(event *models.Event) {
	if event == nil {
		return
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}

	var dropped bool
	for _, ch := range b.subscribers[event.Type] {
		select {
		case ch <- event:
		default:
			dropped = true
		}
	}
	b.mu.RUnlock()

	if dropped {
		b.mu.Lock()
		b.dropped[event.Type]++
		b.mu.Unlock()
		logger.Warnf("Event channel full, dropping event: %s", event.Type)
	}
}

// Dropped reports how many deliveries of the given type were discarded.
func (b *EventBus) Dropped(eventType models.EventType) int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped[eventType]
}

func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, ch := range b.allChans {
		close(ch)
	}
	b.subscribers = make(map[models.EventType][]chan *models.Event)
	b.allChans = nil
}

func AllEventTypes() []models.EventType {
	return []models.EventType{
		models.EventTypeReadingIngested,
		models.EventTypeStatusChanged,
		models.EventTypePredictionMade,
		models.EventTypeFleetEvaluated,
		models.EventTypeAlert,
		models.EventTypeError,
	}
}
