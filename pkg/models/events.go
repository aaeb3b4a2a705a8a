package models

import "time"

type EventType string

const (
	EventTypeReadingIngested EventType = "reading_ingested"
	EventTypeStatusChanged   EventType = "status_changed"
	EventTypePredictionMade  EventType = "prediction_made"
	EventTypeFleetEvaluated  EventType = "fleet_evaluated"
	EventTypeAlert           EventType = "alert"
	EventTypeError           EventType = "error"
)

type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityCritical EventSeverity = "critical"
)

// Event represents an internal system event. MachineID is nil for fleet-wide events.
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Severity  EventSeverity `json:"severity"`
	MachineID *int          `json:"machine_id,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Message   string        `json:"message"`
	Data      interface{}   `json:"data,omitempty"`
	TraceID   string        `json:"trace_id,omitempty"`
}

func NewEvent(eventType EventType, message string) *Event {
	return &Event{
		ID:        NewUUID(),
		Type:      eventType,
		Severity:  SeverityInfo,
		Timestamp: time.Now(),
		Message:   message,
	}
}

func (e *Event) ForMachine(machineID int) *Event {
	e.MachineID = &machineID
	return e
}

func (e *Event) WithSeverity(severity EventSeverity) *Event {
	e.Severity = severity
	return e
}

func (e *Event) WithData(data interface{}) *Event {
	e.Data = data
	return e
}

func (e *Event) WithTraceID(traceID string) *Event {
	e.TraceID = traceID
	return e
}

// StatusChange is the payload of a status_changed event.
type StatusChange struct {
	MachineID int          `json:"machine_id"`
	Name      string       `json:"name"`
	From      HealthStatus `json:"from,omitempty"`
	To        HealthStatus `json:"to"`
	At        time.Time    `json:"at"`
}

// SeverityForStatus maps a health status to an event severity.
func SeverityForStatus(s HealthStatus) EventSeverity {
	switch s {
	case HealthCritical:
		return SeverityCritical
	case HealthWarning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
