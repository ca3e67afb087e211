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

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger) // Custom conditional HTTP logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Static files (served from embedded filesystem)
	if h.staticServer != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))
	}

	// Display page (public)
	r.Get("/", h.handleDisplay)

	// WebSocket
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Display API (public)
	r.Get("/api/live", h.handleGetLive)
	r.Get("/api/display-qr", h.handleDisplayQR)

	// Auth routes (public)
	r.Get("/host/login", h.handleLoginPage)
	r.Post("/host/login", h.handleLogin)
	r.Post("/host/logout", h.handleLogout)

	// Host pages (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuth)
		r.Get("/host", h.handleHostConsole)
	})

	// Host API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		// Raffles
		r.Get("/api/raffles", h.handleListRaffles)
		r.Post("/api/raffles", h.handleCreateRaffle)
		r.Get("/api/raffles/{id}", h.handleGetRaffle)
		r.Put("/api/raffles/{id}", h.handleUpdateRaffle)
		r.Delete("/api/raffles/{id}", h.handleDeleteRaffle)
		r.Post("/api/raffles/{id}/duplicate", h.handleDuplicateRaffle)
		r.Post("/api/raffles/{id}/reset", h.handleResetRaffle)
		r.Post("/api/raffles/{id}/open", h.handleOpenRaffle)
		r.Post("/api/raffles/{id}/live", h.handleGoLive)

		// Editor
		r.Get("/api/editor", h.handleGetEditor)
		r.Put("/api/editor", h.handleUpdateEditor)
		r.Post("/api/editor/import", h.handleImportRoster)
		r.Post("/api/editor/import-url", h.handleImportRosterURL)
		r.Put("/api/editor/list", h.handleEditList)
		r.Delete("/api/editor/participants/{name}", h.handleRemoveParticipant)
		r.Post("/api/editor/clear", h.handleClearRoster)

		// Live session
		r.Post("/api/live/start", h.handleStartDraw)
		r.Post("/api/live/next", h.handleNextWinner)
		r.Post("/api/live/previous", h.handlePreviousWinner)
		r.Post("/api/live/reset", h.handleResetLive)
		r.Post("/api/live/leave", h.handleLeaveLive)

		// Settings
		r.Get("/api/settings", h.handleGetSettings)
		r.Put("/api/settings", h.handleUpdateSettings)
		r.Post("/api/settings", h.handleUpdateSettings)
	})

	return r
}
