package domain

import "time"

// DefaultCountry is used when the shipping country is left blank.
const DefaultCountry = "United States"

// Card types accepted by the checkout form.
const (
	CardVisa       = "Visa"
	CardMastercard = "Mastercard"
)

// ShippingAddress is the delivery address entered in the checkout panel.
type ShippingAddress struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// PaymentDetails is the card entered in the checkout panel.
type PaymentDetails struct {
	CardType string `json:"card_type"`
	Number   string `json:"card_number"`
	Expiry   string `json:"card_expiry"`
	CVC      string `json:"card_cvc"`
}

// CheckoutRequest is the body of POST /checkout.
type CheckoutRequest struct {
	SessionID       string          `json:"session_id"`
	CardType        string          `json:"card_type"`
	CardNumber      string          `json:"card_number"`
	CardExpiry      string          `json:"card_expiry"`
	CardCVC         string          `json:"card_cvc"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
}

// CheckoutResponse is the body returned by POST /checkout.
type CheckoutResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// Receipt records the outcome of one checkout submission. It never carries
// card data.
type Receipt struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	ProductName   string    `json:"product_name"`
	Vendor        string    `json:"vendor"`
	Quantity      int       `json:"quantity"`
	Total         float64   `json:"total"`
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	TransactionID string    `json:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
