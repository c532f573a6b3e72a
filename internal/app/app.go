package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/snailderby/internal/auth"
	"github.com/abrezinsky/snailderby/internal/config"
	"github.com/abrezinsky/snailderby/internal/handlers"
	"github.com/abrezinsky/snailderby/internal/logger"
	"github.com/abrezinsky/snailderby/internal/race"
	"github.com/abrezinsky/snailderby/internal/repository"
	"github.com/abrezinsky/snailderby/internal/scheduler"
	"github.com/abrezinsky/snailderby/internal/services"
	"github.com/abrezinsky/snailderby/internal/websocket"
)

const shutdownTimeout = 5 * time.Second

// App holds all application dependencies
type App struct {
	log      logger.Logger
	cfg      *config.Config
	repo     *repository.Repository
	rooms    *services.RoomService
	handlers *handlers.Handlers
	baseURL  string
}

// New creates and initializes a new application instance
func New(ctx context.Context, log logger.Logger, cfg *config.Config, adminAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	entrants, err := services.LoadCatalog(ctx, log, repo)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to load snail catalog: %w", err)
	}

	opts := services.DefaultOptions()
	opts.Capacity = cfg.Capacity
	opts.StartingPoints = cfg.StartingPoints
	opts.Tuning = cfg.Tuning
	rooms := services.NewRoomService(log, entrants, scheduler.NewReal(), race.NewRand(cfg.Seed), opts)

	hub := websocket.New(log, rooms)
	hub.Start()
	rooms.SetMessenger(hub)

	baseURL := resolveBaseURL(cfg, realNetworkProvider{})
	invites := services.NewInviteService(log, rooms, baseURL)

	h := handlers.New(rooms, invites, adminAuth, hub, log, repo)

	return &App{
		log:      log,
		cfg:      cfg,
		repo:     repo,
		rooms:    rooms,
		handlers: h,
		baseURL:  baseURL,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Rooms exposes the room service to operator tooling
func (a *App) Rooms() *services.RoomService {
	return a.rooms
}

// BaseURL is the address clients on the LAN should use
func (a *App) BaseURL() string {
	return a.baseURL
}

// Close stops every room and releases the catalog store. It is safe to call twice.
func (a *App) Close() {
	if a.rooms != nil {
		a.rooms.Shutdown()
		a.rooms = nil
	}
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.log.Warn("Failed to close repository", "error", err)
		}
		a.repo = nil
	}
}

// Run listens on the configured port and serves until ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve serves HTTP on ln until ctx is cancelled, then shuts down gracefully
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Serve(ln)
	}()

	a.log.Info("Server starting", "addr", ln.Addr().String(), "url", a.baseURL)

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// resolveBaseURL prefers the configured URL, else the detected LAN address
func resolveBaseURL(cfg *config.Config, provider networkProvider) string {
	if cfg.BaseURL != "" {
		return strings.TrimSuffix(cfg.BaseURL, "/")
	}
	return fmt.Sprintf("http://%s:%d", getPreferredIP(provider), cfg.Port)
}

// networkInterface is the part of net.Interface used for address detection
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags           { return r.iface.Flags }
func (r realInterface) Addrs() ([]net.Addr, error) { return r.iface.Addrs() }

// networkProvider lists interfaces; tests substitute a fake
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the IPv4 address phones on the same network can reach.
// Private ranges win over public ones; "localhost" when nothing qualifies.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var fallback net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ip := ipv4Of(addr)
			if ip == nil || ip.IsLoopback() {
				continue
			}
			if ip.IsPrivate() {
				return ip.String()
			}
			if fallback == nil {
				fallback = ip
			}
		}
	}

	if fallback != nil {
		return fallback.String()
	}
	return "localhost"
}

func ipv4Of(addr net.Addr) net.IP {
	var ip net.IP
	switch v := addr.(type) {
	case *net.IPNet:
		ip = v.IP
	case *net.IPAddr:
		ip = v.IP
	}
	return ip.To4()
}
