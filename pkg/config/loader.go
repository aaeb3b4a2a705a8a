package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PDM"

// Load reads configuration from an optional .env file, a YAML config file
// and PDM_* environment variables, in increasing order of precedence.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/pdm")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "predictive-maintenance")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.shutdown_timeout", "30s")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "pdm")
	v.SetDefault("database.user", "pdm")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.migration_timeout", "60s")

	v.SetDefault("store.max_per_machine", 24*90)
	v.SetDefault("store.seed_machines", 20)
	v.SetDefault("store.seed_hours", 168)
	v.SetDefault("store.seed_lifecycle_hours", 240)
	v.SetDefault("store.seed", 42)

	v.SetDefault("features.window_size", 24)
	v.SetDefault("features.history_size", 50)

	v.SetDefault("analyzer.workers", 4)

	v.SetDefault("predictor.type", "logistic")
	v.SetDefault("predictor.model_path", "./configs/model.yaml")
	v.SetDefault("predictor.endpoint", "http://localhost:9100")
	v.SetDefault("predictor.timeout", "2s")
	v.SetDefault("predictor.retry_attempts", 1)
	v.SetDefault("predictor.retry_delay", "200ms")
	v.SetDefault("predictor.circuit_breaker.max_failures", 5)
	v.SetDefault("predictor.circuit_breaker.timeout", "30s")

	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "pdm-ingest")
	v.SetDefault("mqtt.topic", "pdm/machines/+/readings")
	v.SetDefault("mqtt.qos", 1)
	v.SetDefault("mqtt.connect_timeout", "10s")

	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.interval", "30s")

	v.SetDefault("api.port", 5001)
	v.SetDefault("api.read_timeout", "15s")
	v.SetDefault("api.write_timeout", "15s")
	v.SetDefault("api.idle_timeout", "60s")
	v.SetDefault("api.rate_limit", 100)
	v.SetDefault("api.predict_rate_limit", 20)
	v.SetDefault("api.default_history_hours", 168)
	v.SetDefault("api.max_history_hours", 24*90)
	v.SetDefault("api.max_batch_size", 1000)

	v.SetDefault("websocket.max_connections", 1000)
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.pong_timeout", "60s")

	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.path", "/metrics")

	v.SetDefault("events.buffer_size", 256)
	v.SetDefault("events.log_events", true)
}
