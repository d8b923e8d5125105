package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/shopchat/internal/checkout"
	"github.com/ashureev/shopchat/internal/view"
	"github.com/ashureev/shopchat/internal/widget"
	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
)

// StatusUnknownWidget closes sockets for widgets that no longer exist, so
// the page asks for a reload instead of reconnecting.
const StatusUnknownWidget websocket.StatusCode = 4404

// Inbound action types sent by the page.
const (
	ActionSend           = "send"
	ActionHint           = "hint"
	ActionNav            = "nav"
	ActionCheckoutOpen   = "checkout_open"
	ActionCheckoutCancel = "checkout_cancel"
	ActionCheckoutSubmit = "checkout_submit"
	ActionFormat         = "format"
	ActionPing           = "ping"
)

// action is one user interaction forwarded by the page.
type action struct {
	Type  string         `json:"type"`
	Text  string         `json:"text,omitempty"`
	Nav   string         `json:"nav,omitempty"`
	Field string         `json:"field,omitempty"`
	Form  *checkout.Form `json:"form,omitempty"`
}

// ServeSocket attaches a page to its widget and forwards its actions.
func (h *Handler) ServeSocket(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetID")

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "widget_id", widgetID)
		return
	}

	entry, ok := h.reg.Get(widgetID)
	if !ok || !h.reg.Connect(widgetID, ws) {
		_ = ws.Close(StatusUnknownWidget, "unknown widget")
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "widget_id", widgetID)
		}
	}()
	defer h.reg.Disconnect(widgetID, ws)

	sink := view.NewSocketSink(ws, 0)
	if err := entry.View.Attach(sink); err != nil {
		slog.Debug("Failed to replay widget state", "error", err, "widget_id", widgetID)
		return
	}
	defer entry.View.Detach(sink)

	slog.Info("Widget connected", "widget_id", widgetID, "session_id", entry.Widget.SessionID())
	h.readLoop(r.Context(), ws, entry.Widget, entry.View)
	slog.Info("Widget disconnected", "widget_id", widgetID)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *Handler) readLoop(ctx context.Context, ws *websocket.Conn, wg *widget.Widget, v *view.Patcher) {
	// Replies still land in the widget if the page drops mid-request; a
	// reconnecting page gets them in the replay.
	actionCtx := context.WithoutCancel(ctx)

	for {
		_, message, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "widget_id", wg.ID())
			} else if ctx.Err() == nil {
				slog.Warn("WebSocket read error", "error", err, "widget_id", wg.ID())
			}
			return
		}

		var msg action
		if err := json.Unmarshal(message, &msg); err != nil {
			slog.Debug("Ignoring malformed action", "error", err, "widget_id", wg.ID())
			continue
		}

		if msg.Type == ActionPing {
			wg.Touch()
			v.Pong()
			continue
		}

		if blocksOnBackend(msg) {
			// Keep reading while the backend answers. The widget rejects a
			// second send or payment while one is in flight.
			go dispatch(actionCtx, wg, msg)
			continue
		}
		// Everything else applies in arrival order.
		dispatch(actionCtx, wg, msg)
	}
}

// blocksOnBackend reports whether an action waits for a backend call.
func blocksOnBackend(msg action) bool {
	switch msg.Type {
	case ActionSend, ActionCheckoutSubmit:
		return true
	case ActionNav:
		return widget.NavEntry(msg.Nav) != widget.NavChat
	default:
		return false
	}
}

// dispatch applies one action to the widget.
func dispatch(ctx context.Context, wg *widget.Widget, msg action) {
	var err error
	switch msg.Type {
	case ActionSend:
		err = wg.SendMessage(ctx, msg.Text)
	case ActionHint:
		wg.SelectHint(msg.Text)
	case ActionNav:
		err = wg.Navigate(ctx, widget.NavEntry(msg.Nav))
	case ActionCheckoutOpen:
		err = wg.OpenCheckout()
	case ActionCheckoutCancel:
		wg.CancelCheckout()
	case ActionCheckoutSubmit:
		if msg.Form == nil {
			err = errors.New("checkout submit without form")
			break
		}
		err = wg.SubmitCheckout(ctx, *msg.Form)
	case ActionFormat:
		wg.FormatField(msg.Field, msg.Text)
	default:
		slog.Debug("Ignoring unknown action", "type", msg.Type, "widget_id", wg.ID())
		return
	}

	if err != nil {
		logActionError(wg, msg.Type, err)
	}
}

func logActionError(wg *widget.Widget, actionType string, err error) {
	switch {
	case errors.Is(err, widget.ErrEmptyMessage),
		errors.Is(err, widget.ErrBusy),
		errors.Is(err, widget.ErrCheckoutPending),
		errors.Is(err, widget.ErrCheckoutClosed),
		errors.Is(err, widget.ErrNoOffer),
		errors.Is(err, checkout.ErrInvalidForm):
		slog.Debug("Action rejected", "action", actionType, "reason", err, "widget_id", wg.ID())
	default:
		slog.Warn("Action failed", "action", actionType, "error", err, "widget_id", wg.ID())
	}
}
