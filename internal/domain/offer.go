// Package domain holds the shopping types exchanged with the chat backend.
package domain

// Offer is a priced, quantified product reference returned by the backend
// and held by a widget as the checkout subject.
type Offer struct {
	ProductName    string  `json:"product_name"`
	Vendor         string  `json:"vendor"`
	Quantity       int     `json:"quantity,omitempty"`
	Price          float64 `json:"price,omitempty"`
	Discount       float64 `json:"discount,omitempty"`
	FinalPrice     float64 `json:"final_price,omitempty"`
	UnitFinalPrice float64 `json:"unit_final_price,omitempty"`
	UnitDiscount   float64 `json:"unit_discount,omitempty"`
	TotalPrice     float64 `json:"total_price,omitempty"`
	ImageURL       string  `json:"image_url,omitempty"`
	Size           string  `json:"size,omitempty"`
	Width          string  `json:"width,omitempty"`
}

// Qty returns the offer quantity, treating an absent quantity as one.
func (o *Offer) Qty() int {
	if o.Quantity <= 0 {
		return 1
	}
	return o.Quantity
}

// IsMultiple reports whether the offer covers more than one unit.
func (o *Offer) IsMultiple() bool {
	return o.Qty() > 1
}

// Total resolves the displayed total: total_price, then unit_final_price,
// then final_price. Zero counts as absent.
func (o *Offer) Total() float64 {
	return firstNonZero(o.TotalPrice, o.UnitFinalPrice, o.FinalPrice)
}

// UnitPrice resolves the per-unit price: unit_final_price, then final_price.
func (o *Offer) UnitPrice() float64 {
	return firstNonZero(o.UnitFinalPrice, o.FinalPrice)
}

// TotalDiscount is the saving across all units, using unit_discount when
// present and the flat discount otherwise.
func (o *Offer) TotalDiscount() float64 {
	return firstNonZero(o.UnitDiscount, o.Discount) * float64(o.Qty())
}

// TotalSaving is the per-unit discount multiplied by quantity. It is only
// meaningful for multi-unit offers with a unit discount.
func (o *Offer) TotalSaving() float64 {
	return o.UnitDiscount * float64(o.Qty())
}

// PlaceholderOffer is the stand-in used when checkout is opened without a
// backend offer and the legacy fallback is enabled.
func PlaceholderOffer() *Offer {
	return &Offer{
		ProductName: "Test Product",
		Vendor:      "Test Vendor",
		Quantity:    1,
		TotalPrice:  99.99,
		FinalPrice:  99.99,
	}
}

func firstNonZero(values ...float64) float64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
