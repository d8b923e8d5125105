package view

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ashureev/shopchat/internal/domain"
	"github.com/ashureev/shopchat/internal/widget"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Patch operations understood by the page script.
const (
	OpAppend            = "append"
	OpRemove            = "remove"
	OpClear             = "clear"
	OpThinking          = "thinking"
	OpInput             = "input"
	OpCheckoutShow      = "checkout_show"
	OpCheckoutHide      = "checkout_hide"
	OpPay               = "pay"
	OpCheckoutAvailable = "checkout_available"
	OpNav               = "nav"
	OpField             = "field"
	OpAlert             = "alert"
	OpPong              = "pong"
)

// Patch is one display update sent to the browser.
type Patch struct {
	Op    string `json:"op"`
	ID    string `json:"id,omitempty"`
	Role  string `json:"role,omitempty"`
	HTML  string `json:"html,omitempty"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
	Flag  bool   `json:"flag,omitempty"`
}

// Sink delivers patches to a connected page.
type Sink interface {
	Send(p Patch) error
}

// Patcher records widget state and streams every change to the attached
// sink as a Patch. A newly attached sink first receives a replay of the
// recorded state, so a page that reconnects is rebuilt. Form fields and
// alerts are streamed but never recorded.
type Patcher struct {
	rec *Recorder

	mu   sync.Mutex
	sink Sink
}

// Ensure Patcher implements widget.View.
var _ widget.View = (*Patcher)(nil)

// NewPatcher creates a patcher with no sink attached.
func NewPatcher() *Patcher {
	return &Patcher{rec: NewRecorder()}
}

// Snapshot returns the recorded display state.
func (p *Patcher) Snapshot() State {
	return p.rec.Snapshot()
}

// Attach replaces the current sink and replays the recorded state to it.
func (p *Patcher) Attach(sink Sink) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sink = sink
	for _, patch := range replay(p.rec.Snapshot()) {
		if err := sink.Send(patch); err != nil {
			p.sink = nil
			return err
		}
	}
	return nil
}

// Detach drops the sink if it is still the attached one.
func (p *Patcher) Detach(sink Sink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sink == sink {
		p.sink = nil
	}
}

func replay(s State) []Patch {
	patches := []Patch{{Op: OpClear}}
	for _, m := range s.Messages {
		patches = append(patches, Patch{Op: OpAppend, ID: m.ID, Role: string(m.Role), HTML: m.HTML})
	}
	patches = append(patches,
		Patch{Op: OpThinking, Flag: s.Thinking},
		Patch{Op: OpInput, Value: s.Input, Flag: s.InputFocused},
		Patch{Op: OpPay, Flag: s.PayPending},
		Patch{Op: OpCheckoutAvailable, Flag: s.CheckoutAvailable},
	)
	if s.ActiveNav != "" {
		patches = append(patches, Patch{Op: OpNav, Value: string(s.ActiveNav)})
	}
	if s.CheckoutVisible {
		patches = append(patches, Patch{Op: OpCheckoutShow, HTML: s.CheckoutSummary})
	} else {
		patches = append(patches, Patch{Op: OpCheckoutHide})
	}
	return patches
}

func (p *Patcher) send(patch Patch) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sink == nil {
		return
	}
	if err := p.sink.Send(patch); err != nil {
		slog.Debug("view: dropping sink after send failure", "op", patch.Op, "error", err)
		p.sink = nil
	}
}

func (p *Patcher) Append(msg domain.ChatMessage) {
	p.rec.Append(msg)
	p.send(Patch{Op: OpAppend, ID: msg.ID, Role: string(msg.Role), HTML: msg.HTML})
}

func (p *Patcher) Remove(id string) {
	p.rec.Remove(id)
	p.send(Patch{Op: OpRemove, ID: id})
}

func (p *Patcher) ClearTranscript() {
	p.rec.ClearTranscript()
	p.send(Patch{Op: OpClear})
}

func (p *Patcher) SetThinking(active bool) {
	p.rec.SetThinking(active)
	p.send(Patch{Op: OpThinking, Flag: active})
}

func (p *Patcher) SetInput(value string, focus bool) {
	p.rec.SetInput(value, focus)
	p.send(Patch{Op: OpInput, Value: value, Flag: focus})
}

func (p *Patcher) ShowCheckout(summaryHTML string) {
	p.rec.ShowCheckout(summaryHTML)
	p.send(Patch{Op: OpCheckoutShow, HTML: summaryHTML})
}

func (p *Patcher) HideCheckout() {
	p.rec.HideCheckout()
	p.send(Patch{Op: OpCheckoutHide})
}

func (p *Patcher) SetPayPending(pending bool) {
	p.rec.SetPayPending(pending)
	p.send(Patch{Op: OpPay, Flag: pending})
}

func (p *Patcher) SetCheckoutAvailable(available bool) {
	p.rec.SetCheckoutAvailable(available)
	p.send(Patch{Op: OpCheckoutAvailable, Flag: available})
}

func (p *Patcher) SetActiveNav(entry widget.NavEntry) {
	p.rec.SetActiveNav(entry)
	p.send(Patch{Op: OpNav, Value: string(entry)})
}

// SetField is delivered live only. Form fields carry card data, so they are
// neither kept nor replayed on reconnect.
func (p *Patcher) SetField(name, value string) {
	p.send(Patch{Op: OpField, Name: name, Value: value})
}

// Alert is delivered live only.
func (p *Patcher) Alert(message string) {
	p.send(Patch{Op: OpAlert, Value: message})
}

// Pong answers a keepalive from the page.
func (p *Patcher) Pong() {
	p.send(Patch{Op: OpPong})
}

// SocketSink writes patches to a WebSocket connection as JSON text frames.
type SocketSink struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
}

// NewSocketSink wraps a WebSocket connection.
func NewSocketSink(conn *websocket.Conn, writeTimeout time.Duration) *SocketSink {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &SocketSink{conn: conn, writeTimeout: writeTimeout}
}

// Send writes one patch.
func (s *SocketSink) Send(p Patch) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, s.conn, p)
}
