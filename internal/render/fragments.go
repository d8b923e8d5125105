package render

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/ashureev/shopchat/internal/domain"
)

// ChatClearedText is the bot greeting appended after the transcript is cleared.
const ChatClearedText = "Chat cleared. What are you looking for?"

// BackendUnavailableText replaces a chat reply when the backend cannot be reached.
const BackendUnavailableText = "Sorry, I'm having trouble reaching my backend. Please try again."

var funcs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"trusted": func(s string) template.HTML {
		//nolint:gosec // Only called with markdown from backend replies.
		return template.HTML(s)
	},
	"markdown": func(s string) template.HTML {
		//nolint:gosec // Backend text is trusted.
		return template.HTML(Markdown(s))
	},
}

var fragments = template.Must(template.New("fragments").Funcs(funcs).Parse(`
{{define "user"}}<div class="message user"><div class="msg-content">{{.}}</div></div>{{end}}

{{define "bot"}}<div class="message bot"><div class="bot-avatar">🤖</div><div class="msg-content">{{trusted .}}</div></div>{{end}}

{{define "thinking"}}<div class="message bot thinking-msg"><div class="bot-avatar">⚙️</div><div class="msg-content">
{{- range .}}<div class="thinking-step">{{markdown .}}</div>{{else}}<div class="dots-loader"><span></span><span></span><span></span></div>{{end -}}
</div></div>{{end}}

{{define "offer"}}<div class="product-card">
{{- if .ImageURL}}<img src="{{.ImageURL}}" alt="{{.ProductName}}" loading="lazy">{{end}}
<div class="card-info">
<div class="card-name">{{.ProductName}}</div>
<div class="card-vendor">📦 {{.Vendor}} · {{if .Size}}Size {{.Size}}{{end}} {{.Width}}
{{- if .IsMultiple}}<br><small>Unit Price: ${{money .UnitPrice}} x {{.Qty}}</small>{{end}}</div>
<div class="card-price"><span class="final-price">${{money .Total}}</span>
{{- if gt .Discount 0.0}}<span class="original-price">${{money .Price}}</span><span class="discount-badge">-${{money .Discount}} off</span>{{end}}
{{- if and .IsMultiple (gt .UnitDiscount 0.0)}}<span class="discount-badge">Total saving: ${{money .TotalSaving}}</span>{{end -}}
</div>
</div>
</div>{{end}}

{{define "results"}}<div class="search-results-grid">
{{- range .}}<div class="product-card search-result-card">
{{- if .ImageURL}}<img src="{{.ImageURL}}" alt="{{.Name}}" loading="lazy">{{end}}
<div class="card-info">
<div class="card-name">{{.Name}}</div>
<div class="card-vendor">🏷️ {{.Brand}} · {{.Category}}</div>
<div class="card-price"><span class="final-price">${{money .BasePrice}}</span></div>
<div class="card-desc">{{.Description}}</div>
</div>
</div>{{end -}}
</div>{{end}}

{{define "summary"}}<strong>{{.ProductName}}</strong><br>Vendor: {{.Vendor}}<br>
{{- if .IsMultiple}}Quantity: {{.Qty}}<br>{{end}}Total: <strong style="color:#10b981">${{money .Total}}</strong>
{{- if gt .TotalDiscount 0.0}} (saving ${{money .TotalDiscount}}!){{end}}{{end}}
`))

func execute(name string, data any) string {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("render: template failed", "template", name, "error", err)
		return ""
	}
	return buf.String()
}

// UserMessage renders a user transcript entry. The text is escaped.
func UserMessage(text string) string {
	return execute("user", text)
}

// BotMessage wraps trusted reply HTML in a bot transcript entry.
func BotMessage(html string) string {
	return execute("bot", html)
}

// ThinkingMessage renders thinking steps, or the animated placeholder when
// there are none.
func ThinkingMessage(steps []string) string {
	return execute("thinking", steps)
}

// OfferCard renders the product card for a single offer. A nil offer
// renders nothing.
func OfferCard(offer *domain.Offer) string {
	if offer == nil {
		return ""
	}
	return execute("offer", offer)
}

// SearchResults renders the result grid. An empty list renders nothing.
func SearchResults(products []domain.Product) string {
	if len(products) == 0 {
		return ""
	}
	return execute("results", products)
}

// CheckoutSummary renders the offer summary shown at the top of the
// checkout panel.
func CheckoutSummary(offer *domain.Offer) string {
	if offer == nil {
		return ""
	}
	return execute("summary", offer)
}

// Reply assembles the bot reply for a chat response: markdown reply, then
// the search grid when results exist without a singular offer, then the
// offer card when a new offer is present.
func Reply(resp *domain.ChatResponse) string {
	out := Markdown(resp.Reply)
	if len(resp.SearchResults) > 0 && resp.OfferDetails == nil {
		out += SearchResults(resp.SearchResults)
	}
	if resp.OfferDetails != nil {
		out += OfferCard(resp.OfferDetails)
	}
	return out
}
