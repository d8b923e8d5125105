// Package widget implements the shopping chat widget: session identity,
// transcript flow, checkout state and navigation shortcuts.
package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ashureev/shopchat/internal/backend"
	"github.com/ashureev/shopchat/internal/checkout"
	"github.com/ashureev/shopchat/internal/domain"
	"github.com/ashureev/shopchat/internal/render"
	"github.com/google/uuid"
)

// MsgPaymentUnavailable is alerted when the checkout request cannot be made.
const MsgPaymentUnavailable = "Payment service unavailable. Please try again."

var (
	// ErrEmptyMessage is returned when the trimmed message is empty.
	ErrEmptyMessage = errors.New("empty message")
	// ErrBusy is returned when a chat request is already in flight.
	ErrBusy = errors.New("chat request already in flight")
	// ErrNoOffer is returned when checkout is opened without a current offer.
	ErrNoOffer = errors.New("no current offer")
	// ErrCheckoutClosed is returned when a payment is submitted while the
	// checkout panel is not open.
	ErrCheckoutClosed = errors.New("checkout panel is not open")
	// ErrCheckoutPending is returned when a payment is already in flight.
	ErrCheckoutPending = errors.New("checkout already in flight")
	// ErrUnknownNav is returned for an unrecognised navigation entry.
	ErrUnknownNav = errors.New("unknown navigation entry")
	// ErrBackendUnavailable wraps transport and decode failures.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

var quoteChars = regexp.MustCompile(`['"]`)

// ReceiptRecorder persists checkout outcomes.
type ReceiptRecorder interface {
	SaveReceipt(ctx context.Context, r *domain.Receipt) error
}

// Options configures a widget.
type Options struct {
	// SessionID overrides the generated session identifier.
	SessionID string
	// PlaceholderOffer restores the legacy behaviour of opening checkout
	// with a stand-in offer when none is held.
	PlaceholderOffer bool
	Receipts         ReceiptRecorder
	Logger           *slog.Logger
}

// Widget is one chat widget instance, created per page load.
type Widget struct {
	id          string
	sessionID   string
	backend     backend.Backend
	view        View
	receipts    ReceiptRecorder
	placeholder bool
	log         *slog.Logger

	mu         sync.Mutex
	offer      *domain.Offer
	thinking   bool
	paying     bool
	panelOpen  bool
	activeNav  NavEntry
	seq        int
	lastActive time.Time
}

// NewSessionID returns a fresh opaque session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// New creates a widget bound to a backend and a view.
func New(b backend.Backend, v View, opts Options) *Widget {
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = NewSessionID()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()

	return &Widget{
		id:          id,
		sessionID:   sessionID,
		backend:     b,
		view:        v,
		receipts:    opts.Receipts,
		placeholder: opts.PlaceholderOffer,
		log:         logger.With("widget_id", id, "session_id", sessionID),
		activeNav:   NavChat,
		lastActive:  time.Now(),
	}
}

// ID returns the widget identifier used in URLs.
func (w *Widget) ID() string { return w.id }

// SessionID returns the session identifier sent to the backend.
func (w *Widget) SessionID() string { return w.sessionID }

// CurrentOffer returns a copy of the held offer, or nil.
func (w *Widget) CurrentOffer() *domain.Offer {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.offer == nil {
		return nil
	}
	o := *w.offer
	return &o
}

// IsThinking reports whether a chat request is in flight.
func (w *Widget) IsThinking() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.thinking
}

// CheckoutOpen reports whether the checkout panel is visible.
func (w *Widget) CheckoutOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.panelOpen
}

// ActiveNav returns the active navigation entry.
func (w *Widget) ActiveNav() NavEntry {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activeNav
}

// LastActive returns when the widget last handled an action.
func (w *Widget) LastActive() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastActive
}

// Touch marks the widget active without changing its state. The page calls
// it through keepalives so an open but idle page is not evicted.
func (w *Widget) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked()
}

// Start renders the initial widget state.
func (w *Widget) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view.SetThinking(false)
	w.view.SetCheckoutAvailable(w.offer != nil || w.placeholder)
	w.view.SetActiveNav(w.activeNav)
}

// SendMessage sends one user message and renders the reply. It is a no-op
// returning ErrEmptyMessage or ErrBusy when the text is blank or a request
// is already in flight.
func (w *Widget) SendMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	w.mu.Lock()
	if w.thinking {
		w.mu.Unlock()
		return ErrBusy
	}
	w.touchLocked()
	w.thinking = true
	w.view.SetInput("", false)
	w.appendLocked(domain.RoleUser, render.UserMessage(text))
	w.view.SetThinking(true)
	placeholderID := w.appendLocked(domain.RoleThinking, render.ThinkingMessage(nil))
	w.mu.Unlock()

	w.log.Info("Chat request", "message_length", len(text))
	resp, err := w.backend.Chat(ctx, domain.ChatRequest{Message: text, SessionID: w.sessionID})

	w.mu.Lock()
	defer w.mu.Unlock()
	defer func() {
		w.thinking = false
		w.view.SetThinking(false)
	}()

	w.view.Remove(placeholderID)
	if err != nil {
		w.log.Warn("Chat request failed", "error", err)
		w.appendLocked(domain.RoleBot, render.BotMessage(render.BackendUnavailableText))
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	if len(resp.ThinkingSteps) > 0 {
		w.appendLocked(domain.RoleThinking, render.ThinkingMessage(resp.ThinkingSteps))
	}

	reply := render.Reply(resp)

	if resp.CurrentContextOffer != nil {
		offer := *resp.CurrentContextOffer
		w.offer = &offer
		w.view.SetCheckoutAvailable(true)
	}

	w.appendLocked(domain.RoleBot, render.BotMessage(reply))

	if resp.TriggerCheckout {
		w.log.Info("Checkout triggered by backend", "has_offer", w.offer != nil)
		if err := w.openCheckoutLocked(); err != nil {
			w.log.Warn("Checkout trigger ignored", "error", err)
		}
	}
	return nil
}

// OpenCheckout shows the checkout panel for the current offer.
func (w *Widget) OpenCheckout() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked()
	return w.openCheckoutLocked()
}

func (w *Widget) openCheckoutLocked() error {
	if w.offer == nil {
		if !w.placeholder {
			w.log.Warn("Checkout requested without a current offer")
			return ErrNoOffer
		}
		w.log.Warn("Checkout requested without a current offer, using placeholder")
		w.offer = domain.PlaceholderOffer()
	}
	w.view.ShowCheckout(render.CheckoutSummary(w.offer))
	w.panelOpen = true
	return nil
}

// CancelCheckout hides the checkout panel and blanks its card fields. The
// offer is kept.
func (w *Widget) CancelCheckout() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked()
	w.closeCheckoutLocked()
}

// closeCheckoutLocked hides the panel and wipes the card fields shown in it.
func (w *Widget) closeCheckoutLocked() {
	w.panelOpen = false
	w.view.HideCheckout()
	for _, field := range paymentFields {
		w.view.SetField(field, "")
	}
}

// SubmitCheckout validates the form and pays for the current offer. It
// requires the checkout panel to be open. Validation failures are alerted
// and returned without contacting the backend.
func (w *Widget) SubmitCheckout(ctx context.Context, form checkout.Form) error {
	w.mu.Lock()
	switch {
	case w.paying:
		w.mu.Unlock()
		return ErrCheckoutPending
	case !w.panelOpen:
		w.mu.Unlock()
		return ErrCheckoutClosed
	case w.offer == nil:
		w.mu.Unlock()
		return ErrNoOffer
	}
	w.touchLocked()

	addr, pay, err := form.Validate()
	if err != nil {
		var vErr *checkout.ValidationError
		if errors.As(err, &vErr) {
			w.view.Alert(vErr.Message)
		}
		w.mu.Unlock()
		return err
	}

	w.paying = true
	w.view.SetPayPending(true)
	subject := *w.offer
	w.mu.Unlock()

	w.log.Info("Checkout request", "card_type", pay.CardType, "card_last4", pay.Number[len(pay.Number)-4:])
	resp, err := w.backend.Checkout(ctx, domain.CheckoutRequest{
		SessionID:       w.sessionID,
		CardType:        pay.CardType,
		CardNumber:      pay.Number,
		CardExpiry:      pay.Expiry,
		CardCVC:         pay.CVC,
		ShippingAddress: addr,
	})

	w.mu.Lock()
	w.paying = false
	if err != nil {
		w.view.Alert(MsgPaymentUnavailable)
		w.view.SetPayPending(false)
		w.mu.Unlock()
		w.log.Warn("Checkout request failed", "error", err)
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	w.closeCheckoutLocked()
	w.appendLocked(domain.RoleBot, render.BotMessage(render.Markdown(resp.Message)))
	if resp.Success {
		w.offer = nil
		w.view.SetCheckoutAvailable(w.placeholder)
	}
	w.view.SetPayPending(false)
	w.mu.Unlock()

	w.log.Info("Checkout completed", "success", resp.Success, "transaction_id", resp.TransactionID)
	w.recordReceipt(ctx, &subject, resp)
	return nil
}

func (w *Widget) recordReceipt(ctx context.Context, offer *domain.Offer, resp *domain.CheckoutResponse) {
	if w.receipts == nil {
		return
	}
	receipt := &domain.Receipt{
		SessionID:     w.sessionID,
		ProductName:   offer.ProductName,
		Vendor:        offer.Vendor,
		Quantity:      offer.Qty(),
		Total:         offer.Total(),
		Success:       resp.Success,
		Message:       resp.Message,
		TransactionID: resp.TransactionID,
		CreatedAt:     time.Now(),
	}
	if err := w.receipts.SaveReceipt(context.WithoutCancel(ctx), receipt); err != nil {
		w.log.Error("Failed to record receipt", "error", err)
	}
}

// ClearChat empties the transcript and forgets the current offer.
func (w *Widget) ClearChat() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked()
	w.clearLocked()
}

func (w *Widget) clearLocked() {
	w.view.ClearTranscript()
	if w.panelOpen {
		w.closeCheckoutLocked()
	}
	w.offer = nil
	w.view.SetCheckoutAvailable(w.placeholder)
	w.appendLocked(domain.RoleBot, render.BotMessage(render.ChatClearedText))
}

// SelectHint copies a suggested query into the input, without quotes, and
// focuses it.
func (w *Widget) SelectHint(hint string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked()
	w.view.SetInput(quoteChars.ReplaceAllString(hint, ""), true)
}

// Navigate handles a sidebar entry. "chat" clears the conversation; the
// shortcut entries send their fixed query.
func (w *Widget) Navigate(ctx context.Context, entry NavEntry) error {
	if entry == NavChat {
		w.mu.Lock()
		w.touchLocked()
		w.clearLocked()
		w.setActiveNavLocked(entry)
		w.mu.Unlock()
		return nil
	}

	query, ok := navQueries[entry]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNav, entry)
	}

	w.mu.Lock()
	w.touchLocked()
	w.view.SetInput(query, false)
	w.setActiveNavLocked(entry)
	w.mu.Unlock()

	return w.SendMessage(ctx, query)
}

func (w *Widget) setActiveNavLocked(entry NavEntry) {
	w.activeNav = entry
	w.view.SetActiveNav(entry)
}

// FormatField applies the input mask for a checkout field, pushes the
// result back to the view and returns it.
func (w *Widget) FormatField(field, value string) string {
	formatted := checkout.Format(field, value)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked()
	w.view.SetField(field, formatted)
	return formatted
}

func (w *Widget) appendLocked(role domain.Role, html string) string {
	w.seq++
	id := fmt.Sprintf("msg-%d", w.seq)
	w.view.Append(domain.ChatMessage{ID: id, Role: role, HTML: html})
	return id
}

func (w *Widget) touchLocked() {
	w.lastActive = time.Now()
}
