// Package registry tracks live widgets and the socket attached to each.
package registry

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/shopchat/internal/view"
	"github.com/ashureev/shopchat/internal/widget"
	"github.com/coder/websocket"
)

// Entry is one live widget together with the view it renders into.
type Entry struct {
	Widget *widget.Widget
	View   *view.Patcher
}

type slot struct {
	entry Entry
	conn  *websocket.Conn
}

// Registry holds widgets keyed by widget ID.
type Registry struct {
	mu     sync.RWMutex
	active map[string]*slot
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{active: make(map[string]*slot)}
}

// Add registers a widget under its ID.
func (r *Registry) Add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[e.Widget.ID()] = &slot{entry: e}
	slog.Info("Widget registered", "widget_id", e.Widget.ID(), "session_id", e.Widget.SessionID())
}

// Get returns the widget registered under id.
func (r *Registry) Get(id string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.active[id]
	if !ok {
		return Entry{}, false
	}
	return s.entry, true
}

// Len returns the number of live widgets.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}

// Connect records conn as the socket of widget id. A previous socket for
// the same widget is closed. It reports false when the widget is unknown.
func (r *Registry) Connect(id string, conn *websocket.Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.active[id]
	if !ok {
		return false
	}
	if s.conn != nil && s.conn != conn {
		_ = s.conn.Close(websocket.StatusNormalClosure, "widget opened elsewhere")
	}
	s.conn = conn
	return true
}

// Disconnect forgets conn if it is still the socket of widget id.
func (r *Registry) Disconnect(id string, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.active[id]; ok && s.conn == conn {
		s.conn = nil
	}
}

// Remove unregisters a widget and closes its socket.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(id, "widget closed")
}

func (r *Registry) removeLocked(id, reason string) {
	s, ok := r.active[id]
	if !ok {
		return
	}
	if s.conn != nil {
		_ = s.conn.Close(websocket.StatusGoingAway, reason)
	}
	delete(r.active, id)
	slog.Info("Widget unregistered", "widget_id", id, "reason", reason)
}

// Expired returns the IDs of widgets idle for longer than ttl. A widget
// with a connected page is never expired.
func (r *Registry) Expired(now time.Time, ttl time.Duration) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, s := range r.active {
		if s.expired(now, ttl) {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *slot) expired(now time.Time, ttl time.Duration) bool {
	return s.conn == nil && now.Sub(s.entry.Widget.LastActive()) > ttl
}

// Sweep evicts widgets idle for longer than ttl and returns how many were
// removed.
func (r *Registry) Sweep(now time.Time, ttl time.Duration) int {
	ids := r.Expired(now, ttl)
	if len(ids) == 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for _, id := range ids {
		s, ok := r.active[id]
		// Skip widgets touched or reconnected since Expired ran.
		if !ok || !s.expired(now, ttl) {
			continue
		}
		r.removeLocked(id, "widget expired")
		removed++
	}
	return removed
}
