package config

import (
	"errors"
	"fmt"
	"strings"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Database validation
	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, errors.New("database.host is required"))
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, errors.New("database.port must be between 1 and 65535"))
		}
		if c.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required"))
		}
		if c.Database.MaxConnections <= 0 {
			errs = append(errs, errors.New("database.max_connections must be positive"))
		}
	}

	// Store validation
	if !c.Database.Enabled {
		if c.Store.MaxPerMachine < 0 {
			errs = append(errs, errors.New("store.max_per_machine must not be negative"))
		}
		if c.Store.SeedMachines > 0 && c.Store.SeedHours <= 0 {
			errs = append(errs, errors.New("store.seed_hours must be positive when seeding"))
		}
	}

	// Feature validation
	if c.Features.WindowSize <= 0 {
		errs = append(errs, errors.New("features.window_size must be positive"))
	}
	if c.Features.HistorySize <= 0 {
		errs = append(errs, errors.New("features.history_size must be positive"))
	}

	// Predictor validation
	switch c.Predictor.Type {
	case "logistic":
		if c.Predictor.ModelPath == "" {
			errs = append(errs, errors.New("predictor.model_path is required for the logistic model"))
		}
	case "http":
		if !strings.HasPrefix(c.Predictor.Endpoint, "http://") && !strings.HasPrefix(c.Predictor.Endpoint, "https://") {
			errs = append(errs, errors.New("predictor.endpoint must be an http(s) URL"))
		}
		if c.Predictor.Timeout <= 0 {
			errs = append(errs, errors.New("predictor.timeout must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("predictor.type must be one of: logistic, http"))
	}

	// MQTT validation
	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			errs = append(errs, errors.New("mqtt.broker is required"))
		}
		if c.MQTT.Topic == "" {
			errs = append(errs, errors.New("mqtt.topic is required"))
		}
		if c.MQTT.QoS > 2 {
			errs = append(errs, errors.New("mqtt.qos must be 0, 1 or 2"))
		}
	}

	if c.Monitor.Enabled && c.Monitor.Interval <= 0 {
		errs = append(errs, errors.New("monitor.interval must be positive"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		errs = append(errs, errors.New("api.port must be between 1 and 65535"))
	}
	if c.API.DefaultHistoryHours <= 0 {
		errs = append(errs, errors.New("api.default_history_hours must be positive"))
	}
	if c.API.MaxHistoryHours < c.API.DefaultHistoryHours {
		errs = append(errs, errors.New("api.max_history_hours must be >= default_history_hours"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
