package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// cleanText strips markup and entities that search APIs embed in titles, folds
// whitespace and normalises to NFC so Hangul matches the keyword tables.
func cleanText(raw string) string {
	if raw == "" {
		return ""
	}

	text := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		text = doc.Text()
	}

	return norm.NFC.String(strings.Join(strings.Fields(text), " "))
}
