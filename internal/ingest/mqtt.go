package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/internal/metrics"
	"github.com/OldStager01/predictive-maintenance/pkg/models"
)

var ErrNotConnected = errors.New("mqtt client not connected")

type MQTTConfig struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	Topic          string
	QoS            byte
	ConnectTimeout time.Duration
	KeepAlive      time.Duration
}

func DefaultMQTTConfig() MQTTConfig {
	return MQTTConfig{
		Broker:         "tcp://localhost:1883",
		ClientID:       "pdm-ingest",
		Topic:          "pdm/machines/+/readings",
		QoS:            1,
		ConnectTimeout: 10 * time.Second,
		KeepAlive:      30 * time.Second,
	}
}

func (c MQTTConfig) withDefaults() MQTTConfig {
	d := DefaultMQTTConfig()
	if c.Broker == "" {
		c.Broker = d.Broker
	}
	if c.ClientID == "" {
		c.ClientID = d.ClientID
	}
	if c.Topic == "" {
		c.Topic = d.Topic
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = d.ConnectTimeout
	}
	if c.KeepAlive <= 0 {
		c.KeepAlive = d.KeepAlive
	}
	return c
}

func clientOptions(cfg MQTTConfig) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetKeepAlive(cfg.KeepAlive)
	opts.SetConnectTimeout(cfg.ConnectTimeout)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	return opts
}

func waitToken(token mqtt.Token, timeout time.Duration, op string) error {
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("%s: timed out after %s", op, timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Subscriber receives readings from the broker and hands them to an Ingester.
type Subscriber struct {
	cfg       MQTTConfig
	client    mqtt.Client
	ingester  *Ingester
	parser    *Parser
	received  atomic.Int64
	rejected  atomic.Int64
	connected atomic.Bool
}

func NewSubscriber(cfg MQTTConfig, ingester *Ingester) *Subscriber {
	cfg = cfg.withDefaults()
	s := &Subscriber{
		cfg:      cfg,
		ingester: ingester,
		parser:   NewParser(nil),
	}

	opts := clientOptions(cfg)
	// Subscriptions are restored on every (re)connect.
	opts.SetOnConnectHandler(s.onConnect)
	opts.SetConnectionLostHandler(s.onConnectionLost)
	s.client = mqtt.NewClient(opts)
	return s
}

func (s *Subscriber) Start() error {
	logger.WithComponent("mqtt").Infof("Connecting to MQTT broker %s", s.cfg.Broker)
	return waitToken(s.client.Connect(), s.cfg.ConnectTimeout, "connect to mqtt broker")
}

func (s *Subscriber) Stop() {
	if s.client.IsConnected() {
		s.client.Unsubscribe(s.cfg.Topic).WaitTimeout(time.Second)
		s.client.Disconnect(250)
	}
	s.connected.Store(false)
	logger.WithComponent("mqtt").Info("Disconnected from MQTT broker")
}

func (s *Subscriber) IsConnected() bool {
	return s.connected.Load() && s.client.IsConnected()
}

// Stats reports messages received and rejected since start.
func (s *Subscriber) Stats() (received, rejected int64) {
	return s.received.Load(), s.rejected.Load()
}

func (s *Subscriber) onConnect(client mqtt.Client) {
	s.connected.Store(true)
	token := client.Subscribe(s.cfg.Topic, s.cfg.QoS, s.messageHandler)
	if err := waitToken(token, s.cfg.ConnectTimeout, "subscribe "+s.cfg.Topic); err != nil {
		logger.WithComponent("mqtt").Errorf("Subscription failed: %v", err)
		return
	}
	logger.WithComponent("mqtt").Infof("Subscribed to topic: %s", s.cfg.Topic)
}

func (s *Subscriber) onConnectionLost(_ mqtt.Client, err error) {
	s.connected.Store(false)
	logger.WithComponent("mqtt").Warnf("MQTT connection lost: %v", err)
}

func (s *Subscriber) messageHandler(_ mqtt.Client, msg mqtt.Message) {
	ctx := logger.WithTraceID(context.Background(), models.NewUUID())
	if err := s.process(ctx, msg.Topic(), msg.Payload()); err != nil {
		logger.FromContext(ctx).WithField("topic", msg.Topic()).Warnf("Rejected MQTT payload: %v", err)
	}
}

func (s *Subscriber) process(ctx context.Context, topic string, payload []byte) error {
	s.received.Add(1)

	readings, err := s.parser.Parse(payload, MachineIDFromTopic(topic))
	if err != nil {
		s.rejected.Add(1)
		metrics.IncIngestError(SourceMQTT, "parse")
		return err
	}
	if err := s.ingester.Ingest(ctx, readings, SourceMQTT); err != nil {
		s.rejected.Add(1)
		return err
	}
	return nil
}

// Publisher sends readings to per-machine topics. Used by the fleet simulator.
type Publisher struct {
	cfg    MQTTConfig
	client mqtt.Client
}

func NewPublisher(cfg MQTTConfig) *Publisher {
	cfg = cfg.withDefaults()
	return &Publisher{
		cfg:    cfg,
		client: mqtt.NewClient(clientOptions(cfg)),
	}
}

func (p *Publisher) Connect() error {
	return waitToken(p.client.Connect(), p.cfg.ConnectTimeout, "connect to mqtt broker")
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

func (p *Publisher) PublishReadings(ctx context.Context, readings []models.Reading) error {
	if !p.client.IsConnected() {
		return ErrNotConnected
	}

	var errs []error
	for _, r := range readings {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := json.Marshal(r)
		if err != nil {
			errs = append(errs, fmt.Errorf("marshal reading for machine %d: %w", r.MachineID, err))
			continue
		}
		topic := TopicForMachine(p.cfg.Topic, r.MachineID)
		if err := waitToken(p.client.Publish(topic, p.cfg.QoS, false, payload), p.cfg.ConnectTimeout, "publish "+topic); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
