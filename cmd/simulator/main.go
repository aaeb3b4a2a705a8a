package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OldStager01/predictive-maintenance/internal/ingest"
	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/internal/simulator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	machines := flag.Int("machines", simulator.DefaultMachines, "number of simulated machines")
	lifecycle := flag.Int("lifecycle-hours", simulator.DefaultLifecycleHours, "hours in one machine lifecycle")
	seed := flag.Int64("seed", simulator.DefaultSeed, "random seed")
	mode := flag.String("mode", "http", "delivery mode: http or mqtt")
	apiURL := flag.String("api-url", "http://localhost:5001", "service base URL for http mode")
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker for mqtt mode")
	topic := flag.String("topic", "pdm/machines/+/readings", "MQTT topic pattern, + is replaced by the machine id")
	interval := flag.Duration("interval", 5*time.Second, "wall-clock time between simulated hours")
	port := flag.Int("port", 9000, "control API port, 0 disables it")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger.Setup(*logLevel, "development")
	logger.Infof("Starting fleet simulator with %d machines", *machines)

	sim := simulator.New(simulator.Config{
		Machines:       *machines,
		LifecycleHours: *lifecycle,
		Seed:           *seed,
		Port:           *port,
	})

	var publish simulator.PublishFunc
	switch *mode {
	case "http":
		publish = simulator.NewHTTPPublisher(simulator.HTTPPublisherConfig{BaseURL: *apiURL}).Publish
		logger.Infof("Posting readings to %s", *apiURL)
	case "mqtt":
		cfg := ingest.DefaultMQTTConfig()
		cfg.Broker = *broker
		cfg.Topic = *topic
		cfg.ClientID = "pdm-simulator"
		pub := ingest.NewPublisher(cfg)
		if err := pub.Connect(); err != nil {
			return fmt.Errorf("failed to connect to broker: %w", err)
		}
		defer pub.Close()
		publish = pub.PublishReadings
		logger.Infof("Publishing readings to %s on %s", *broker, *topic)
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}

	if *port != 0 {
		if err := sim.Start(); err != nil {
			return fmt.Errorf("failed to start simulator: %w", err)
		}
		defer sim.Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := sim.Run(ctx, *interval, publish)
	logger.Info("Shutting down simulator")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
