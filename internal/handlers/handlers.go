package handlers

import (
	"context"

	"github.com/abrezinsky/snailderby/internal/auth"
	"github.com/abrezinsky/snailderby/internal/services"
	"github.com/abrezinsky/snailderby/internal/websocket"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Rooms   services.RoomServicer
	Invites services.InviteServicer
	Auth    *auth.Auth
	Hub     *websocket.Hub
	Log     HTTPLogger
	// Health is optional; when set, /healthz fails if it does
	Health Pinger
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// New creates a new Handlers instance with all dependencies
func New(
	rooms services.RoomServicer,
	invites services.InviteServicer,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	log HTTPLogger,
	health Pinger,
) *Handlers {
	return &Handlers{
		Rooms:   rooms,
		Invites: invites,
		Auth:    adminAuth,
		Hub:     hub,
		Log:     log,
		Health:  health,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without a websocket hub or health check
func NewForTesting(rooms services.RoomServicer, invites services.InviteServicer) *Handlers {
	return &Handlers{
		Rooms:   rooms,
		Invites: invites,
		Auth:    auth.New("test-password"),
		Log:     NoopHTTPLogger{},
	}
}
