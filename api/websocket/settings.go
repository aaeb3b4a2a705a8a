package websocket

import (
	"time"

	"github.com/OldStager01/predictive-maintenance/pkg/config"
)

const (
	defaultWriteWait       = 10 * time.Second
	defaultPongWait        = 60 * time.Second
	defaultMaxMessageSize  = 512
	defaultBufferSize      = 1024
	defaultClientBuffer    = 256
	defaultBroadcastBuffer = 256
	defaultMaxConnections  = 1000
)

type WebSocketSettings struct {
	WriteWait       time.Duration
	PongWait        time.Duration
	PingPeriod      time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	ClientBuffer    int
	BroadcastBuffer int
	MaxConnections  int
}

// NewWebSocketSettings applies cfg over the defaults. A nil cfg yields the
// defaults.
func NewWebSocketSettings(cfg *config.WebSocketConfig) *WebSocketSettings {
	s := &WebSocketSettings{
		WriteWait:       defaultWriteWait,
		PongWait:        defaultPongWait,
		MaxMessageSize:  defaultMaxMessageSize,
		ReadBufferSize:  defaultBufferSize,
		WriteBufferSize: defaultBufferSize,
		ClientBuffer:    defaultClientBuffer,
		BroadcastBuffer: defaultBroadcastBuffer,
		MaxConnections:  defaultMaxConnections,
	}

	if cfg != nil {
		if cfg.WriteTimeout > 0 {
			s.WriteWait = cfg.WriteTimeout
		}
		if cfg.PongTimeout > 0 {
			s.PongWait = cfg.PongTimeout
		}
		if cfg.PingInterval > 0 {
			s.PingPeriod = cfg.PingInterval
		}
		if cfg.MaxMessageSize > 0 {
			s.MaxMessageSize = cfg.MaxMessageSize
		}
		if cfg.ReadBufferSize > 0 {
			s.ReadBufferSize = cfg.ReadBufferSize
		}
		if cfg.WriteBufferSize > 0 {
			s.WriteBufferSize = cfg.WriteBufferSize
		}
		if cfg.ClientBuffer > 0 {
			s.ClientBuffer = cfg.ClientBuffer
		}
		if cfg.BroadcastBuffer > 0 {
			s.BroadcastBuffer = cfg.BroadcastBuffer
		}
		if cfg.MaxConnections > 0 {
			s.MaxConnections = cfg.MaxConnections
		}
	}

	// Pings must go out before the peer's pong deadline expires.
	if s.PingPeriod <= 0 || s.PingPeriod >= s.PongWait {
		s.PingPeriod = s.PongWait * 9 / 10
	}

	return s
}
