package checkout

import (
	"errors"
	"strings"

	"github.com/ashureev/shopchat/internal/domain"
)

// cardNumberDigits is the only accepted card length.
const cardNumberDigits = 16

// Validation messages shown to the shopper. Checks run in this order and
// the first failure wins.
const (
	MsgShippingIncomplete = "Please fill in all shipping address fields."
	MsgCardNumber         = "Please enter a valid 16-digit card number."
	MsgExpiry             = "Please enter a valid expiry date (MM/YY)."
	MsgCVC                = "Please enter a valid 3 or 4 digit CVC."
)

// ErrInvalidForm is wrapped by every ValidationError.
var ErrInvalidForm = errors.New("invalid checkout form")

// ValidationError reports the first failing checkout field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidForm
}

// Form is the raw content of the checkout panel.
type Form struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	Country    string `json:"country"`
	CardType   string `json:"card_type"`
	CardNumber string `json:"card_number"`
	CardExpiry string `json:"card_expiry"`
	CardCVC    string `json:"card_cvc"`
}

// Validate checks the form and returns the normalized shipping address and
// payment details. Country defaults to "United States" and card type to Visa.
func (f Form) Validate() (domain.ShippingAddress, domain.PaymentDetails, error) {
	addr := domain.ShippingAddress{
		Name:    strings.TrimSpace(f.Name),
		Street:  strings.TrimSpace(f.Street),
		City:    strings.TrimSpace(f.City),
		State:   strings.TrimSpace(f.State),
		Zip:     strings.TrimSpace(f.Zip),
		Country: strings.TrimSpace(f.Country),
	}
	if addr.Name == "" || addr.Street == "" || addr.City == "" || addr.State == "" || addr.Zip == "" {
		return domain.ShippingAddress{}, domain.PaymentDetails{}, &ValidationError{Field: "shipping", Message: MsgShippingIncomplete}
	}
	if addr.Country == "" {
		addr.Country = domain.DefaultCountry
	}

	pay := domain.PaymentDetails{
		CardType: strings.TrimSpace(f.CardType),
		Number:   whitespace.ReplaceAllString(f.CardNumber, ""),
		Expiry:   whitespace.ReplaceAllString(f.CardExpiry, ""),
		CVC:      strings.TrimSpace(f.CardCVC),
	}
	if pay.CardType == "" {
		pay.CardType = domain.CardVisa
	}
	if len(pay.Number) != cardNumberDigits || !allDigits(pay.Number) {
		return domain.ShippingAddress{}, domain.PaymentDetails{}, &ValidationError{Field: FieldCardNumber, Message: MsgCardNumber}
	}
	if !expiryShape.MatchString(pay.Expiry) {
		return domain.ShippingAddress{}, domain.PaymentDetails{}, &ValidationError{Field: FieldCardExpiry, Message: MsgExpiry}
	}
	if !cvcShape.MatchString(pay.CVC) {
		return domain.ShippingAddress{}, domain.PaymentDetails{}, &ValidationError{Field: "cardCvc", Message: MsgCVC}
	}

	return addr, pay, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
