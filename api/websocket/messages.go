package websocket

import (
	"encoding/json"
	"time"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

type MessageType string

const (
	MessageTypeReadings     MessageType = "readings"
	MessageTypeStatusChange MessageType = "status_change"
	MessageTypePrediction   MessageType = "prediction"
	MessageTypeFleetSummary MessageType = "fleet_summary"
	MessageTypeAlert        MessageType = "alert"
	MessageTypeError        MessageType = "error"
	MessageTypeSubscription MessageType = "subscription_update"
)

// OutgoingMessage is the frame sent to clients. MachineID is omitted for
// fleet-wide messages.
type OutgoingMessage struct {
	Type      MessageType `json:"type"`
	MachineID *int        `json:"machine_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Severity  string      `json:"severity,omitempty"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

func (m *OutgoingMessage) JSON() ([]byte, error) {
	return json.Marshal(m)
}

type SubscriptionUpdate struct {
	Type      MessageType `json:"type"`
	Action    string      `json:"action"`
	MachineID *int        `json:"machine_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewSubscriptionUpdate(action string, machineID *int) SubscriptionUpdate {
	return SubscriptionUpdate{
		Type:      MessageTypeSubscription,
		Action:    action,
		MachineID: machineID,
		Timestamp: time.Now(),
	}
}

// messageTypeFor maps internal events to client message types. Events that
// map to "" are not forwarded.
func messageTypeFor(eventType models.EventType) MessageType {
	switch eventType {
	case models.EventTypeReadingIngested:
		return MessageTypeReadings
	case models.EventTypeStatusChanged:
		return MessageTypeStatusChange
	case models.EventTypePredictionMade:
		return MessageTypePrediction
	case models.EventTypeFleetEvaluated:
		return MessageTypeFleetSummary
	case models.EventTypeAlert:
		return MessageTypeAlert
	case models.EventTypeError:
		return MessageTypeError
	default:
		return ""
	}
}

// NewEventMessage converts an event into a client frame, or returns nil for
// events that are not forwarded.
func NewEventMessage(event *models.Event) *OutgoingMessage {
	if event == nil {
		return nil
	}
	msgType := messageTypeFor(event.Type)
	if msgType == "" {
		return nil
	}
	return &OutgoingMessage{
		Type:      msgType,
		MachineID: event.MachineID,
		Timestamp: event.Timestamp,
		Severity:  string(event.Severity),
		Message:   event.Message,
		Data:      event.Data,
	}
}
