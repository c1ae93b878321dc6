package api

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText reduces admin-entered markup to its visible text with collapsed
// whitespace. Input without markup is returned trimmed.
func PlainText(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return collapseSpace(raw)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return collapseSpace(raw)
	}
	// Block-level breaks become spaces before the text is flattened.
	doc.Find("br, p, li, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	doc.Find("script, style").Remove()
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
