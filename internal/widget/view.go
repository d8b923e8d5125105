package widget

import (
	"github.com/ashureev/shopchat/internal/checkout"
	"github.com/ashureev/shopchat/internal/domain"
)

// View is everything a widget needs from its display. Implementations must
// be safe for concurrent use. The widget calls a View while holding its own
// lock, so a View must never call back into the widget.
type View interface {
	// Append adds a transcript entry and scrolls to it.
	Append(msg domain.ChatMessage)
	// Remove deletes a transcript entry. Unknown ids are ignored.
	Remove(id string)
	// ClearTranscript removes every transcript entry.
	ClearTranscript()
	// SetThinking toggles the send control and the status indicator.
	SetThinking(active bool)
	// SetInput replaces the message input and optionally focuses it.
	SetInput(value string, focus bool)
	// ShowCheckout renders the summary and un-hides the checkout panel.
	ShowCheckout(summaryHTML string)
	// HideCheckout hides the checkout panel.
	HideCheckout()
	// SetPayPending disables the pay control while a payment is in flight.
	SetPayPending(pending bool)
	// SetCheckoutAvailable enables the checkout trigger when an offer is held.
	SetCheckoutAvailable(available bool)
	// SetActiveNav marks one navigation entry active.
	SetActiveNav(entry NavEntry)
	// SetField replaces the value of a form field.
	SetField(name, value string)
	// Alert shows a blocking message.
	Alert(message string)
}

// NavEntry names a sidebar navigation entry.
type NavEntry string

const (
	NavChat  NavEntry = "chat"
	NavShoes NavEntry = "shoes"
	NavBooks NavEntry = "books"
)

// paymentFields are the masked checkout inputs the widget writes back.
var paymentFields = []string{checkout.FieldCardNumber, checkout.FieldCardExpiry}

// navQueries holds the fixed query each shortcut sends.
var navQueries = map[NavEntry]string{
	NavShoes: "Show me some shoes",
	NavBooks: "Show me some books",
}
