// Package sanitizer turns user-supplied display strings into plain text.
package sanitizer

import (
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var strictPolicy = bluemonday.StrictPolicy()

// PlainText removes every tag from input and collapses runs of whitespace.
// Entities are decoded, so "a &amp; b" comes back as "a & b".
//
// Examples:
//   - "<b>edge-01</b>" -> "edge-01"
//   - "  web   proxy " -> "web proxy"
//   - "<script>alert(1)</script>gw" -> "gw"
func PlainText(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if !strings.ContainsAny(input, "<&") {
		return strings.Join(strings.Fields(input), " ")
	}

	cleaned := StripTags(strictPolicy.Sanitize(input))
	return strings.Join(strings.Fields(cleaned), " ")
}

// StripTags keeps only the text nodes of input.
//
// It is a cleanup helper; PlainText is the entry point for untrusted input.
func StripTags(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}

	tokenizer := html.NewTokenizer(strings.NewReader(input))
	var buf strings.Builder

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if tokenizer.Err() == io.EOF {
				break
			}
			return ""
		}

		if tt == html.TextToken {
			buf.WriteString(tokenizer.Token().Data)
		}
	}

	return strings.TrimSpace(buf.String())
}
