package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const healthCheckTimeout = 5 * time.Second

// ListReceipts returns the checkout receipts of a live widget's session.
func (h *Handler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		Error(w, http.StatusNotFound, "receipts are disabled")
		return
	}

	entry, ok := h.reg.Get(chi.URLParam(r, "widgetID"))
	if !ok {
		Error(w, http.StatusNotFound, "widget not found")
		return
	}

	receipts, err := h.repo.ListReceipts(r.Context(), entry.Widget.SessionID())
	if err != nil {
		slog.Error("Failed to list receipts", "error", err, "session_id", entry.Widget.SessionID())
		Error(w, http.StatusInternalServerError, "failed to list receipts")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"session_id": entry.Widget.SessionID(),
		"receipts":   receipts,
	})
}

// Health returns the health status of the server and its dependencies.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := map[string]string{"api": "ok"}
	status := map[string]interface{}{
		"status":  "healthy",
		"widgets": h.reg.Len(),
		"checks":  checks,
	}
	statusCode := http.StatusOK

	if h.repo == nil {
		checks["database"] = "disabled"
	} else if err := h.repo.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		status["status"] = "degraded"
		checks["database"] = "unreachable"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	JSON(w, statusCode, status)
}
