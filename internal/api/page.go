package api

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/ashureev/shopchat/internal/registry"
	"github.com/ashureev/shopchat/internal/view"
	"github.com/ashureev/shopchat/internal/widget"
	"github.com/ashureev/shopchat/web"
)

// ServePage creates a widget for this page load and renders the shell
// that connects to it.
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	entry := h.newWidget()

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, web.PageData{WidgetID: entry.Widget.ID(), Hints: web.Hints}); err != nil {
		slog.Error("Failed to render page", "error", err)
		Error(w, http.StatusInternalServerError, "failed to render page")
		return
	}

	h.reg.Add(entry)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Debug("Failed to write page", "error", err)
	}
}

func (h *Handler) newWidget() registry.Entry {
	patcher := view.NewPatcher()
	opts := widget.Options{PlaceholderOffer: h.placeholder}
	if h.repo != nil {
		opts.Receipts = h.repo
	}
	wg := widget.New(h.backend, patcher, opts)
	wg.Start()
	return registry.Entry{Widget: wg, View: patcher}
}
