package catalog

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// MaxFeatures caps the bullet list derived from a package description
const MaxFeatures = 4

// Decode resolves HTML entities the commerce backend leaves in names and
// display URLs (e.g. "&amp;" in image query strings).
func Decode(s string) string {
	return html.UnescapeString(s)
}

// PlainText strips markup from a rich-text description.
func PlainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(Decode(s))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(Decode(s))
	}
	return strings.TrimSpace(doc.Text())
}

// Features turns a package description into at most MaxFeatures bullets.
// List items are used as-is; plain text is split on commas, semicolons
// and periods.
func Features(description string) []string {
	if strings.Contains(description, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(description)); err == nil {
			var items []string
			doc.Find("li").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if text := strings.TrimSpace(s.Text()); text != "" {
					items = append(items, text)
				}
				return len(items) < MaxFeatures
			})
			if len(items) > 0 {
				return items
			}
		}
	}

	parts := strings.FieldsFunc(PlainText(description), func(r rune) bool {
		return r == ',' || r == ';' || r == '.'
	})

	features := make([]string, 0, MaxFeatures)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		features = append(features, part)
		if len(features) == MaxFeatures {
			break
		}
	}
	return features
}
