package websocket

import (
	"context"
	"sync"

	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

// EventBridge forwards bus events to WebSocket clients.
type EventBridge struct {
	hub        *Hub
	eventsChan <-chan *models.Event
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func NewEventBridge(hub *Hub, eventsChan <-chan *models.Event) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		hub:        hub,
		eventsChan: eventsChan,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (b *EventBridge) Start() {
	b.wg.Add(1)
	go b.run()
	logger.WithComponent("websocket").Info("Event bridge started")
}

func (b *EventBridge) Stop() {
	b.cancel()
	b.wg.Wait()
	logger.WithComponent("websocket").Info("Event bridge stopped")
}

func (b *EventBridge) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.eventsChan:
			if !ok {
				logger.WithComponent("websocket").Info("Event channel closed, stopping bridge")
				return
			}
			b.forwardEvent(event)
		}
	}
}

func (b *EventBridge) forwardEvent(event *models.Event) {
	msg := NewEventMessage(event)
	if msg == nil {
		return
	}

	data, err := msg.JSON()
	if err != nil {
		logger.WithComponent("websocket").Errorf("Failed to marshal message: %v", err)
		return
	}

	if event.MachineID != nil {
		b.hub.BroadcastToMachine(*event.MachineID, data)
		return
	}
	b.hub.Broadcast(data)
}
