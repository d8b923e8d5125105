package render

import (
	"strings"
	"testing"

	"github.com/ashureev/shopchat/internal/domain"
)

func TestMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold", "**Nike** shoes", "<strong>Nike</strong> shoes"},
		{"italic", "an *offer*", "an <em>offer</em>"},
		{"bold before italic", "**a** and *b*", "<strong>a</strong> and <em>b</em>"},
		{"newline", "line1\nline2", "line1<br>line2"},
		{"emoji passthrough", "🔍 Executing **search_products**...", "🔍 Executing <strong>search_products</strong>..."},
		{"no markup", "plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Markdown(tt.in); got != tt.want {
				t.Fatalf("Markdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUserMessageEscapes(t *testing.T) {
	t.Parallel()

	got := UserMessage(`<script>alert("x")</script> & 'q'`)
	if strings.Contains(got, "<script>") {
		t.Fatalf("expected script tag to be escaped: %s", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") || !strings.Contains(got, "&amp;") {
		t.Fatalf("expected escaped entities: %s", got)
	}
	if !strings.Contains(got, `class="message user"`) {
		t.Fatalf("expected user wrapper: %s", got)
	}
}

func TestUserMessageDoesNotApplyMarkdown(t *testing.T) {
	t.Parallel()

	got := UserMessage("**not bold**")
	if strings.Contains(got, "<strong>") {
		t.Fatalf("user text must not be markdown-rendered: %s", got)
	}
}

func TestThinkingMessage(t *testing.T) {
	t.Parallel()

	placeholder := ThinkingMessage(nil)
	if !strings.Contains(placeholder, "dots-loader") {
		t.Fatalf("expected dots loader for empty steps: %s", placeholder)
	}

	got := ThinkingMessage([]string{"🔍 Executing **search_products**...", "step two"})
	if strings.Count(got, `class="thinking-step"`) != 2 {
		t.Fatalf("expected two steps: %s", got)
	}
	if !strings.Contains(got, "<strong>search_products</strong>") {
		t.Fatalf("expected markdown in steps: %s", got)
	}
	if strings.Contains(got, "dots-loader") {
		t.Fatalf("did not expect loader with steps: %s", got)
	}
}

func TestOfferCardTotalPriority(t *testing.T) {
	t.Parallel()

	got := OfferCard(&domain.Offer{
		ProductName:    "Runner",
		Vendor:         "ShoeCo",
		TotalPrice:     20,
		UnitFinalPrice: 10,
		FinalPrice:     5,
	})
	if !strings.Contains(got, `<span class="final-price">$20.00</span>`) {
		t.Fatalf("expected total 20.00: %s", got)
	}
}

func TestOfferCardMultipleUnits(t *testing.T) {
	t.Parallel()

	got := OfferCard(&domain.Offer{
		ProductName:    "Sock",
		Vendor:         "Feet Inc",
		Quantity:       3,
		Price:          12,
		Discount:       2,
		UnitFinalPrice: 10,
		UnitDiscount:   2,
		TotalPrice:     30,
		Size:           "9",
		Width:          "Wide",
		ImageURL:       "https://img.example/sock.png",
	})

	for _, want := range []string{
		"Unit Price: $10.00 x 3",
		"$30.00",
		`<span class="original-price">$12.00</span>`,
		"-$2.00 off",
		"Total saving: $6.00",
		"Size 9",
		"Wide",
		`src="https://img.example/sock.png"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in card: %s", want, got)
		}
	}
}

func TestOfferCardSingleUnitHasNoUnitLine(t *testing.T) {
	t.Parallel()

	got := OfferCard(&domain.Offer{ProductName: "Book", Vendor: "Pages", FinalPrice: 15})
	if strings.Contains(got, "Unit Price") || strings.Contains(got, "discount-badge") || strings.Contains(got, "<img") {
		t.Fatalf("unexpected extras in single-unit card: %s", got)
	}
	if OfferCard(nil) != "" {
		t.Fatal("expected nil offer to render nothing")
	}
}

func TestSearchResults(t *testing.T) {
	t.Parallel()

	got := SearchResults([]domain.Product{
		{Name: "Shoe A", Brand: "Acme", Category: "Shoes", BasePrice: 49.5, Description: "Light <fast>"},
	})
	if strings.Count(got, "search-result-card") != 1 {
		t.Fatalf("expected one card: %s", got)
	}
	if !strings.Contains(got, "$49.50") || !strings.Contains(got, "Light &lt;fast&gt;") {
		t.Fatalf("unexpected card content: %s", got)
	}
	if SearchResults(nil) != "" {
		t.Fatal("expected empty result list to render nothing")
	}
}

func TestReplySearchGridSuppressedByOffer(t *testing.T) {
	t.Parallel()

	results := []domain.Product{{Name: "Shoe A"}}

	withoutOffer := Reply(&domain.ChatResponse{Reply: "Here you go", SearchResults: results})
	if !strings.HasPrefix(withoutOffer, "Here you go") || !strings.Contains(withoutOffer, "search-results-grid") {
		t.Fatalf("expected grid after reply: %s", withoutOffer)
	}

	withOffer := Reply(&domain.ChatResponse{
		Reply:         "Best deal",
		SearchResults: results,
		OfferDetails:  &domain.Offer{ProductName: "Shoe A", FinalPrice: 40},
	})
	if strings.Contains(withOffer, "search-results-grid") {
		t.Fatalf("grid must be suppressed when an offer is present: %s", withOffer)
	}
	if !strings.Contains(withOffer, `class="product-card"`) {
		t.Fatalf("expected offer card: %s", withOffer)
	}
}

func TestCheckoutSummary(t *testing.T) {
	t.Parallel()

	got := CheckoutSummary(&domain.Offer{
		ProductName:  "Sock",
		Vendor:       "Feet Inc",
		Quantity:     2,
		UnitDiscount: 1.5,
		TotalPrice:   18,
	})
	for _, want := range []string{"<strong>Sock</strong>", "Vendor: Feet Inc", "Quantity: 2", "$18.00", "(saving $3.00!)"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in summary: %s", want, got)
		}
	}

	single := CheckoutSummary(&domain.Offer{ProductName: "Book", Vendor: "Pages", FinalPrice: 9})
	if strings.Contains(single, "Quantity") || strings.Contains(single, "saving") {
		t.Fatalf("unexpected extras in single summary: %s", single)
	}
}
