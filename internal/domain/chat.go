package domain

// Product is a single search result returned alongside a chat reply.
type Product struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	BasePrice   float64 `json:"base_price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Reply               string    `json:"reply"`
	ThinkingSteps       []string  `json:"thinking_steps,omitempty"`
	SearchResults       []Product `json:"search_results,omitempty"`
	OfferDetails        *Offer    `json:"offer_details,omitempty"`
	CurrentContextOffer *Offer    `json:"current_context_offer,omitempty"`
	TriggerCheckout     bool      `json:"trigger_checkout,omitempty"`
}

// Role identifies who authored a transcript entry.
type Role string

const (
	RoleUser     Role = "user"
	RoleBot      Role = "bot"
	RoleThinking Role = "thinking"
)

// ChatMessage is a rendered transcript entry. It only lives as long as the
// view that displays it.
type ChatMessage struct {
	ID   string
	Role Role
	HTML string
}
