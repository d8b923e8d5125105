// Package api provides the HTTP and WebSocket handlers of the widget server.
package api

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/ashureev/shopchat/internal/backend"
	"github.com/ashureev/shopchat/internal/registry"
	"github.com/ashureev/shopchat/internal/store"
	"github.com/go-chi/chi/v5"
)

// Options wires a Handler.
type Options struct {
	Registry *registry.Registry
	Backend  backend.Backend
	// Repo records checkout receipts. Nil disables receipts.
	Repo store.Repository
	// Page is the page shell template; see web.Page.
	Page *template.Template
	// PlaceholderOffer is passed to every widget created by the page handler.
	PlaceholderOffer bool
	AllowedOrigin    string
	IsDev            bool
}

// Handler serves the widget page, its socket and the receipt log.
type Handler struct {
	reg           *registry.Registry
	backend       backend.Backend
	repo          store.Repository
	page          *template.Template
	placeholder   bool
	allowedOrigin string
	isDev         bool
}

// NewHandler creates a Handler.
func NewHandler(opts Options) *Handler {
	return &Handler{
		reg:           opts.Registry,
		backend:       opts.Backend,
		repo:          opts.Repo,
		page:          opts.Page,
		placeholder:   opts.PlaceholderOffer,
		allowedOrigin: opts.AllowedOrigin,
		isDev:         opts.IsDev,
	}
}

// RegisterRoutes registers the widget routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ServePage)
	r.Get("/ws/widget/{widgetID}", h.ServeSocket)
	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/widgets/{widgetID}/receipts", h.ListReceipts)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
