// Package render builds the HTML fragments shown in the chat transcript and
// the checkout panel.
package render

import (
	"regexp"
	"strings"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
)

// Markdown applies the reply subset used by the backend: **bold**, then
// *italic*, then newline to <br>. Emoji pass through untouched. The input
// is trusted backend text and is not escaped.
//
// The order matters: italic must run after bold so that "**x**" is not read
// as two empty italics.
func Markdown(text string) string {
	out := boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	out = italicPattern.ReplaceAllString(out, "<em>$1</em>")
	return strings.ReplaceAll(out, "\n", "<br>")
}
