package config

import (
	"github.com/OldStager01/predictive-maintenance/internal/classifier"
	"github.com/OldStager01/predictive-maintenance/internal/ingest"
	"github.com/OldStager01/predictive-maintenance/pkg/database"
)

func (d DatabaseConfig) ToDBConfig() database.Config {
	return database.Config{
		Host:            d.Host,
		Port:            d.Port,
		Name:            d.Name,
		User:            d.User,
		Password:        d.Password,
		MaxConnections:  d.MaxConnections,
		SSLMode:         d.SSLMode,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
		PingTimeout:     d.PingTimeout,
	}
}

func (p PredictorConfig) ToClassifierConfig() classifier.Config {
	return classifier.Config{
		Type:          p.Type,
		ModelPath:     p.ModelPath,
		Endpoint:      p.Endpoint,
		Timeout:       p.Timeout,
		MaxFailures:   p.CircuitBreaker.MaxFailures,
		ResetTimeout:  p.CircuitBreaker.Timeout,
		RetryAttempts: p.RetryAttempts,
		RetryDelay:    p.RetryDelay,
	}
}

func (m MQTTConfig) ToIngestConfig() ingest.MQTTConfig {
	return ingest.MQTTConfig{
		Broker:         m.Broker,
		ClientID:       m.ClientID,
		Username:       m.Username,
		Password:       m.Password,
		Topic:          m.Topic,
		QoS:            m.QoS,
		ConnectTimeout: m.ConnectTimeout,
	}
}
