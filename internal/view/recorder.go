// Package view provides widget.View implementations.
package view

import (
	"sync"

	"github.com/ashureev/shopchat/internal/domain"
	"github.com/ashureev/shopchat/internal/widget"
)

// State is a snapshot of everything a widget has displayed.
type State struct {
	Messages          []domain.ChatMessage
	Thinking          bool
	Input             string
	InputFocused      bool
	CheckoutVisible   bool
	CheckoutSummary   string
	PayPending        bool
	CheckoutAvailable bool
	ActiveNav         widget.NavEntry
	Fields            map[string]string
	Alerts            []string
}

// Recorder keeps the displayed widget state in memory.
type Recorder struct {
	mu    sync.Mutex
	state State
}

// Ensure Recorder implements widget.View.
var _ widget.View = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{state: State{Fields: make(map[string]string)}}
}

// Snapshot returns a copy of the recorded state.
func (r *Recorder) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state
	s.Messages = append([]domain.ChatMessage(nil), r.state.Messages...)
	s.Alerts = append([]string(nil), r.state.Alerts...)
	s.Fields = make(map[string]string, len(r.state.Fields))
	for k, v := range r.state.Fields {
		s.Fields[k] = v
	}
	return s
}

// Messages returns the transcript entries in display order.
func (r *Recorder) Messages() []domain.ChatMessage {
	return r.Snapshot().Messages
}

func (r *Recorder) Append(msg domain.ChatMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Messages = append(r.state.Messages, msg)
}

func (r *Recorder) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.state.Messages {
		if m.ID == id {
			r.state.Messages = append(r.state.Messages[:i], r.state.Messages[i+1:]...)
			return
		}
	}
}

func (r *Recorder) ClearTranscript() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Messages = nil
}

func (r *Recorder) SetThinking(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Thinking = active
}

func (r *Recorder) SetInput(value string, focus bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Input = value
	r.state.InputFocused = focus
}

func (r *Recorder) ShowCheckout(summaryHTML string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.CheckoutVisible = true
	r.state.CheckoutSummary = summaryHTML
}

func (r *Recorder) HideCheckout() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.CheckoutVisible = false
}

func (r *Recorder) SetPayPending(pending bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.PayPending = pending
}

func (r *Recorder) SetCheckoutAvailable(available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.CheckoutAvailable = available
}

func (r *Recorder) SetActiveNav(entry widget.NavEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.ActiveNav = entry
}

// SetField records a field value. An empty value forgets the field.
func (r *Recorder) SetField(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if value == "" {
		delete(r.state.Fields, name)
		return
	}
	r.state.Fields[name] = value
}

func (r *Recorder) Alert(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Alerts = append(r.state.Alerts, message)
}
