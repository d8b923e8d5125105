package domain

import "testing"

func TestOfferTotalPriority(t *testing.T) {
	tests := []struct {
		name  string
		offer Offer
		want  float64
	}{
		{"total wins", Offer{TotalPrice: 20, UnitFinalPrice: 10, FinalPrice: 5}, 20},
		{"unit final next", Offer{UnitFinalPrice: 10, FinalPrice: 5}, 10},
		{"final last", Offer{FinalPrice: 5}, 5},
		{"nothing", Offer{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.offer.Total(); got != tt.want {
				t.Fatalf("Total() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOfferQuantityDefaults(t *testing.T) {
	o := Offer{}
	if o.Qty() != 1 || o.IsMultiple() {
		t.Fatalf("expected absent quantity to mean one unit, got %d", o.Qty())
	}
	o.Quantity = 3
	if !o.IsMultiple() {
		t.Fatal("expected quantity 3 to be multiple")
	}
}

func TestOfferDiscounts(t *testing.T) {
	o := Offer{Quantity: 2, Discount: 4, UnitDiscount: 1.5}
	if got := o.TotalDiscount(); got != 3 {
		t.Fatalf("TotalDiscount() = %v, want 3", got)
	}
	o.UnitDiscount = 0
	if got := o.TotalDiscount(); got != 8 {
		t.Fatalf("TotalDiscount() with flat discount = %v, want 8", got)
	}
	if got := (&Offer{Quantity: 3, UnitDiscount: 2}).TotalSaving(); got != 6 {
		t.Fatalf("TotalSaving() = %v, want 6", got)
	}
}

func TestPlaceholderOffer(t *testing.T) {
	p := PlaceholderOffer()
	if p.ProductName != "Test Product" || p.Total() != 99.99 {
		t.Fatalf("unexpected placeholder: %+v", p)
	}
}
