package events

import (
	"fmt"

	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	if p == nil {
		return nil
	}
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p == nil || p.bus == nil {
		return
	}
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) ReadingsIngested(readings []models.Reading, source string) {
	if len(readings) == 0 {
		return
	}
	msg := fmt.Sprintf("%d readings ingested via %s", len(readings), source)
	event := models.NewEvent(models.EventTypeReadingIngested, msg).
		WithData(map[string]interface{}{
			"count":  len(readings),
			"source": source,
		})
	if single := singleMachine(readings); single >= 0 {
		event.ForMachine(single)
	}
	p.publish(event)
}

func (p *Publisher) StatusChanged(change models.StatusChange) {
	msg := fmt.Sprintf("%s status changed to %s", change.Name, change.To)
	if change.From != "" {
		msg = fmt.Sprintf("%s status changed from %s to %s", change.Name, change.From, change.To)
	}
	event := models.NewEvent(models.EventTypeStatusChanged, msg).
		ForMachine(change.MachineID).
		WithSeverity(models.SeverityForStatus(change.To)).
		WithData(change)
	p.publish(event)
}

func (p *Publisher) PredictionMade(pred *models.Prediction) {
	msg := fmt.Sprintf("Prediction for %s: %s priority", models.MachineName(pred.MachineID), pred.Recommendation.Priority)
	event := models.NewEvent(models.EventTypePredictionMade, msg).
		ForMachine(pred.MachineID).
		WithData(pred)

	switch pred.Recommendation.Priority {
	case models.PriorityCritical, models.PriorityHigh:
		event.WithSeverity(models.SeverityCritical)
	case models.PriorityMedium:
		event.WithSeverity(models.SeverityWarning)
	}
	p.publish(event)
}

func (p *Publisher) FleetEvaluated(summary *models.FleetSummary) {
	msg := fmt.Sprintf("Fleet evaluated: %d machines, %.1f%% healthy", summary.TotalMachines, summary.NormalPercentage)
	event := models.NewEvent(models.EventTypeFleetEvaluated, msg).
		WithData(summary)
	if summary.CriticalMachines > 0 {
		event.WithSeverity(models.SeverityWarning)
	}
	p.publish(event)
}

func (p *Publisher) Alert(machineID int, severity models.EventSeverity, message string, data interface{}) {
	event := models.NewEvent(models.EventTypeAlert, message).
		ForMachine(machineID).
		WithSeverity(severity).
		WithData(data)
	p.publish(event)
}

func (p *Publisher) Error(message string, err error) {
	event := models.NewEvent(models.EventTypeError, message).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}

// singleMachine returns the machine id shared by every reading, or -1.
func singleMachine(readings []models.Reading) int {
	id := readings[0].MachineID
	for _, r := range readings[1:] {
		if r.MachineID != id {
			return -1
		}
	}
	return id
}
