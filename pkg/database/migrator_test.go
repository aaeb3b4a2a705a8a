package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles(t *testing.T) {
	files, err := MigrationFiles()

	require.NoError(t, err)
	assert.Equal(t, []string{"001_sensor_readings.sql", "002_predictions.sql"}, files)
}

func TestConfig_DSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5433, User: "pdm", Password: "secret", Name: "pdm", SSLMode: "require"}

	assert.Equal(t, "host=db port=5433 user=pdm password=secret dbname=pdm sslmode=require", cfg.DSN())
}
