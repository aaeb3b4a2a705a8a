package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// Handler receives every event the EventLogger consumes, after it is logged.
type Handler func(event *models.Event)

type EventLogger struct {
	eventChan <-chan *models.Event
	handlers  []Handler
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewEventLogger(eventChan <-chan *models.Event, handlers ...Handler) *EventLogger {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventLogger{
		eventChan: eventChan,
		handlers:  handlers,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (l *EventLogger) Start() {
	l.wg.Add(1)
	go l.run()
}

func (l *EventLogger) Stop() {
	l.cancel()
	l.wg.Wait()
}

func (l *EventLogger) run() {
	defer l.wg.Done()
	for {
		select {
		case <-l.ctx.Done():
			return
		case event, ok := <-l.eventChan:
			if !ok {
				return
			}
			l.processEvent(event)
		}
	}
}

func (l *EventLogger) processEvent(event *models.Event) {
	fields := map[string]interface{}{
		"event_type": event.Type,
		"severity":   event.Severity,
	}
	if event.MachineID != nil {
		fields["machine_id"] = *event.MachineID
	}
	if event.TraceID != "" {
		fields["trace_id"] = event.TraceID
	}
	entry := logger.WithFields(fields)

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Debug(event.Message)
	}

	for _, h := range l.handlers {
		h(event)
	}
}

func LogToJSON(event *models.Event) string {
	data, _ := json.Marshal(event)
	return string(data)
}
