package checkout

import (
	"errors"
	"strings"
	"testing"

	"github.com/ashureev/shopchat/internal/domain"
)

func TestFormatCardNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"1234", "1234"},
		{"12345", "1234 5"},
		{"1234567890123456", "1234 5678 9012 3456"},
		{"1234-5678 abcd 9012", "1234 5678 9012"},
		{"12345678901234567890", "1234 5678 9012 3456"},
	}
	for _, tt := range tests {
		if got := FormatCardNumber(tt.in); got != tt.want {
			t.Errorf("FormatCardNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCardNumberKeepsDigits(t *testing.T) {
	digits := "9876543210987654"
	for l := 0; l <= len(digits); l++ {
		in := digits[:l]
		out := FormatCardNumber(in)
		if len(out) > maxCardNumberLen {
			t.Fatalf("length %d output %q exceeds 19 chars", l, out)
		}
		if got := strings.ReplaceAll(out, " ", ""); got != in {
			t.Fatalf("length %d: digits changed: %q -> %q", l, in, out)
		}
		for _, group := range strings.Split(out, " ") {
			if len(group) > 4 {
				t.Fatalf("length %d: group %q longer than 4", l, group)
			}
		}
	}
}

func TestFormatExpiry(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1"},
		{"12", "12 / "},
		{"1234", "12 / 34"},
		{"12/3", "12 / 3"},
		{"12 / 345", "12 / 34"},
		{"ab", ""},
	}
	for _, tt := range tests {
		if got := FormatExpiry(tt.in); got != tt.want {
			t.Errorf("FormatExpiry(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatByField(t *testing.T) {
	if got := Format(FieldCardNumber, "12345"); got != "1234 5" {
		t.Fatalf("unexpected card number format %q", got)
	}
	if got := Format(FieldCardExpiry, "0127"); got != "01 / 27" {
		t.Fatalf("unexpected expiry format %q", got)
	}
	if got := Format("shipName", "Ada"); got != "Ada" {
		t.Fatalf("unknown fields must pass through, got %q", got)
	}
}

func validForm() Form {
	return Form{
		Name:       "Ada Lovelace",
		Street:     "1 Analytical Way",
		City:       "London",
		State:      "LDN",
		Zip:        "N1",
		CardNumber: "1234 5678 9012 3456",
		CardExpiry: "12 / 30",
		CardCVC:    "123",
	}
}

func TestValidateAcceptsValidForm(t *testing.T) {
	addr, pay, err := validForm().Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if addr.Country != domain.DefaultCountry {
		t.Fatalf("expected default country, got %q", addr.Country)
	}
	if pay.Number != "1234567890123456" || pay.Expiry != "12/30" || pay.CardType != domain.CardVisa {
		t.Fatalf("unexpected payment details: %+v", pay)
	}
}

func TestValidateKeepsExplicitCountryAndCardType(t *testing.T) {
	f := validForm()
	f.Country = " Canada "
	f.CardType = domain.CardMastercard
	addr, pay, err := f.Validate()
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if addr.Country != "Canada" || pay.CardType != domain.CardMastercard {
		t.Fatalf("unexpected values: %+v %+v", addr, pay)
	}
}

func TestValidateFirstFailureWins(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		want   string
	}{
		{"missing name", func(f *Form) { f.Name = "  " }, MsgShippingIncomplete},
		{"missing zip", func(f *Form) { f.Zip = "" }, MsgShippingIncomplete},
		{"shipping before card", func(f *Form) { f.City = ""; f.CardNumber = "" }, MsgShippingIncomplete},
		{"15 digits", func(f *Form) { f.CardNumber = "123456789012345" }, MsgCardNumber},
		{"17 digits", func(f *Form) { f.CardNumber = "12345678901234567" }, MsgCardNumber},
		{"non numeric", func(f *Form) { f.CardNumber = "1234abcd90123456" }, MsgCardNumber},
		{"empty card", func(f *Form) { f.CardNumber = "" }, MsgCardNumber},
		{"bad expiry", func(f *Form) { f.CardExpiry = "1230" }, MsgExpiry},
		{"card before expiry", func(f *Form) { f.CardNumber = "1"; f.CardExpiry = "" }, MsgCardNumber},
		{"short cvc", func(f *Form) { f.CardCVC = "12" }, MsgCVC},
		{"long cvc", func(f *Form) { f.CardCVC = "12345" }, MsgCVC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			_, _, err := f.Validate()

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Message != tt.want {
				t.Fatalf("message = %q, want %q", vErr.Message, tt.want)
			}
			if !errors.Is(err, ErrInvalidForm) {
				t.Fatal("expected error to wrap ErrInvalidForm")
			}
		})
	}
}

func TestValidateAcceptsFourDigitCVC(t *testing.T) {
	f := validForm()
	f.CardCVC = "1234"
	f.CardNumber = "1234567890123456"
	if _, _, err := f.Validate(); err != nil {
		t.Fatalf("expected 4-digit CVC and 16-digit number to pass: %v", err)
	}
}
