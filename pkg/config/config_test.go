package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/predictive-maintenance/pkg/config"
)

func validConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:     "test-app",
			Mode:     "development",
			LogLevel: "info",
		},
		Database: config.DatabaseConfig{
			Enabled:        true,
			Host:           "localhost",
			Port:           5432,
			Name:           "testdb",
			User:           "user",
			Password:       "pass",
			MaxConnections: 10,
		},
		Features: config.FeaturesConfig{
			WindowSize:  24,
			HistorySize: 50,
		},
		Predictor: config.PredictorConfig{
			Type:      "logistic",
			ModelPath: "./configs/model.yaml",
		},
		Monitor: config.MonitorConfig{
			Enabled:  true,
			Interval: 30 * time.Second,
		},
		API: config.APIConfig{
			Port:                5001,
			DefaultHistoryHours: 168,
			MaxHistoryHours:     720,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modifyFunc  func(*config.Config)
		expectErr   bool
		errContains string
	}{
		{
			name:       "valid config",
			modifyFunc: func(c *config.Config) {},
		},
		{
			name: "database fields ignored when disabled",
			modifyFunc: func(c *config.Config) {
				c.Database = config.DatabaseConfig{}
			},
		},
		{
			name: "seeding without hours",
			modifyFunc: func(c *config.Config) {
				c.Database.Enabled = false
				c.Store = config.StoreConfig{SeedMachines: 5}
			},
			expectErr:   true,
			errContains: "store.seed_hours must be positive when seeding",
		},
		{
			name: "invalid database port",
			modifyFunc: func(c *config.Config) {
				c.Database.Port = 70000
			},
			expectErr:   true,
			errContains: "database.port must be between 1 and 65535",
		},
		{
			name: "non-positive window",
			modifyFunc: func(c *config.Config) {
				c.Features.WindowSize = 0
			},
			expectErr:   true,
			errContains: "features.window_size must be positive",
		},
		{
			name: "unknown predictor type",
			modifyFunc: func(c *config.Config) {
				c.Predictor.Type = "forest"
			},
			expectErr:   true,
			errContains: "predictor.type must be one of",
		},
		{
			name: "http predictor needs url",
			modifyFunc: func(c *config.Config) {
				c.Predictor.Type = "http"
				c.Predictor.Endpoint = "localhost:9100"
				c.Predictor.Timeout = time.Second
			},
			expectErr:   true,
			errContains: "predictor.endpoint must be an http(s) URL",
		},
		{
			name: "mqtt enabled without topic",
			modifyFunc: func(c *config.Config) {
				c.MQTT = config.MQTTConfig{Enabled: true, Broker: "tcp://localhost:1883"}
			},
			expectErr:   true,
			errContains: "mqtt.topic is required",
		},
		{
			name: "history hours inverted",
			modifyFunc: func(c *config.Config) {
				c.API.MaxHistoryHours = 24
			},
			expectErr:   true,
			errContains: "api.max_history_hours must be >= default_history_hours",
		},
		{
			name: "invalid mode",
			modifyFunc: func(c *config.Config) {
				c.App.Mode = "staging"
			},
			expectErr:   true,
			errContains: "app.mode must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modifyFunc(cfg)

			err := cfg.Validate()

			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  mode: test\n"), 0o600))

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "predictive-maintenance", cfg.App.Name)
	assert.Equal(t, "test", cfg.App.Mode)
	assert.Equal(t, 24, cfg.Features.WindowSize)
	assert.Equal(t, "logistic", cfg.Predictor.Type)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, 20, cfg.Store.SeedMachines)
	assert.Equal(t, int64(42), cfg.Store.Seed)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  name: plant-7
  log_level: debug
features:
  window_size: 12
predictor:
  type: http
  endpoint: http://models:9100
mqtt:
  enabled: true
  topic: plant7/+/readings
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("PDM_API_PORT", "6100")

	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, "plant-7", cfg.App.Name)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 12, cfg.Features.WindowSize)
	assert.Equal(t, 50, cfg.Features.HistorySize)
	assert.Equal(t, "http", cfg.Predictor.Type)
	assert.Equal(t, 2*time.Second, cfg.Predictor.Timeout)
	assert.Equal(t, "plant7/+/readings", cfg.MQTT.Topic)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, 6100, cfg.API.Port)
	assert.Equal(t, 168, cfg.API.DefaultHistoryHours)
	assert.NoError(t, cfg.Validate())

	clf := cfg.Predictor.ToClassifierConfig()
	assert.Equal(t, "http://models:9100", clf.Endpoint)
	assert.Equal(t, 5, clf.MaxFailures)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "pdm"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=pdm sslmode=disable", d.DSN())
	assert.Equal(t, "pdm", d.ToDBConfig().Name)
}
