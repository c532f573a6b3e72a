package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)

	// The websocket upgrade must not sit behind the request timeout
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/healthz", h.handleHealth)

		// Lobby API (public)
		r.Get("/api/entrants", h.handleGetEntrants)
		r.Get("/api/rooms", h.handleListRooms)
		r.Get("/api/rooms/{id}", h.handleGetRoom)
		r.Get("/api/rooms/{id}/invite", h.handleGetInvite)
		r.Get("/api/rooms/{id}/qr", h.handleGetQRImage)

		// Auth
		r.Post("/admin/login", h.handleLogin)
		r.Post("/admin/logout", h.handleLogout)

		// Admin API (protected)
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireAuthAPI)
			r.Get("/api/admin/rooms", h.handleAdminListRooms)
			r.Delete("/api/admin/rooms/{id}", h.handleAdminCloseRoom)
		})
	})

	return r
}
