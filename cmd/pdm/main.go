package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OldStager01/predictive-maintenance/api"
	"github.com/OldStager01/predictive-maintenance/internal/analyzer"
	"github.com/OldStager01/predictive-maintenance/internal/classifier"
	"github.com/OldStager01/predictive-maintenance/internal/events"
	"github.com/OldStager01/predictive-maintenance/internal/ingest"
	"github.com/OldStager01/predictive-maintenance/internal/logger"
	"github.com/OldStager01/predictive-maintenance/internal/metrics"
	"github.com/OldStager01/predictive-maintenance/internal/monitor"
	"github.com/OldStager01/predictive-maintenance/internal/predictor"
	"github.com/OldStager01/predictive-maintenance/internal/resilience"
	"github.com/OldStager01/predictive-maintenance/internal/simulator"
	"github.com/OldStager01/predictive-maintenance/internal/store"
	"github.com/OldStager01/predictive-maintenance/pkg/config"
	"github.com/OldStager01/predictive-maintenance/pkg/database"
)

// @title Predictive Maintenance API
// @version 1.0
// @description Machine health, failure prediction, fleet statistics and ROI for industrial equipment.
// @host localhost:5001
// @BasePath /
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	migrate := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	if cfg.Prometheus.Enabled {
		metrics.Init()
	}

	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.New(cfg.Database.ToDBConfig())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		logger.Info("Database connection established")

		if err := runMigrations(db, cfg.Database.MigrationTimeout); err != nil {
			return err
		}
		if *migrate {
			return nil
		}
	} else if *migrate {
		return errors.New("-migrate requires database.enabled")
	}

	st := openStore(cfg, db)
	defer st.Close()

	model, err := classifier.New(classifierConfig(cfg))
	if err != nil {
		// The service still answers everything except predictions.
		logger.Errorf("Failed to load model, predictions disabled: %v", err)
		model = nil
	} else {
		defer model.Close()
		logger.Infof("Loaded %s model %s", cfg.Predictor.Type, model.Version())
	}

	bufferSize := cfg.Events.BufferSize
	if bufferSize <= 0 {
		bufferSize = events.DefaultBufferSize
	}
	bus := events.NewEventBus(bufferSize)
	defer bus.Close()
	publisher := events.NewPublisher(bus)

	if cfg.Events.LogEvents {
		eventLogger := events.NewEventLogger(bus.SubscribeAll())
		eventLogger.Start()
		defer eventLogger.Stop()
	}

	fleetAnalyzer := analyzer.New(analyzer.Config{Workers: cfg.Analyzer.Workers})
	ingester := ingest.NewIngester(st, publisher, ingest.Config{MaxBatchSize: cfg.API.MaxBatchSize})

	if cfg.MQTT.Enabled {
		sub := ingest.NewSubscriber(cfg.MQTT.ToIngestConfig(), ingester)
		if err := sub.Start(); err != nil {
			return fmt.Errorf("failed to start mqtt subscriber: %w", err)
		}
		defer sub.Stop()
	}

	if cfg.Monitor.Enabled {
		mon := monitor.New(monitor.Config{
			Interval:  cfg.Monitor.Interval,
			Store:     st,
			Analyzer:  fleetAnalyzer,
			Publisher: publisher,
		})
		if err := mon.Start(); err != nil {
			return fmt.Errorf("failed to start monitor: %w", err)
		}
		defer mon.Stop()
	}

	server := api.NewServer(cfg, api.Dependencies{
		Store:    st,
		Model:    model,
		Analyzer: fleetAnalyzer,
		Predictor: predictor.NewService(predictor.Config{
			HistorySize: cfg.Features.HistorySize,
			WindowSize:  cfg.Features.WindowSize,
		}),
		Ingester: ingester,
		Bus:      bus,
		DB:       db,
	})

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Infof("API server listening on port %d", cfg.API.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdownChan:
		logger.Infof("Received signal %v, shutting down", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func runMigrations(db *database.DB, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Running database migrations")
	if err := database.NewMigrator(db).Run(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Migrations completed successfully")
	return nil
}

// openStore returns PostgreSQL storage when a database is configured, and
// otherwise an in-memory store optionally seeded with simulated history.
func openStore(cfg *config.Config, db *database.DB) store.Store {
	if db != nil {
		return store.NewPostgresStore(db)
	}

	mem := store.NewMemoryStore(store.MemoryConfig{MaxPerMachine: cfg.Store.MaxPerMachine})
	if cfg.Store.SeedMachines > 0 {
		sim := simulator.New(simulator.Config{
			Machines:       cfg.Store.SeedMachines,
			LifecycleHours: cfg.Store.SeedLifecycleHours,
			Seed:           cfg.Store.Seed,
			Start:          time.Now().UTC().Truncate(time.Hour).Add(-time.Duration(cfg.Store.SeedHours) * time.Hour),
		})
		history := sim.GenerateHistory(cfg.Store.SeedHours)
		if err := mem.Append(context.Background(), history...); err != nil {
			logger.Warnf("Failed to seed store: %v", err)
		} else {
			logger.Infof("Seeded %d readings for %d machines", len(history), cfg.Store.SeedMachines)
		}
	}
	return mem
}

func classifierConfig(cfg *config.Config) classifier.Config {
	c := cfg.Predictor.ToClassifierConfig()
	c.OnStateChange = func(name string, from, to resilience.State) {
		logger.WithComponent("classifier").Warnf("Circuit %s: %s -> %s", name, from, to)
		metrics.SetCircuitBreakerState(name, to.String())
	}
	return c
}
