// Package extract implements the Extractor interface for HTML sources.
// Authors may keep some chapters as hand-written or exported HTML pages; only
// the article content of those pages belongs in the book, so page chrome
// (navigation, sidebars, scripts, permalinks) is removed first.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// chromeSelectors are removed before the content container is chosen.
var chromeSelectors = []string{
	"script", "style", "noscript", "template",
	"nav", "footer", "header",
	"iframe", "form", "button", "input", "select", "textarea",
	".sidebar", ".sidebar-wrapper", ".toc", ".breadcrumbs",
	"a.headerlink", ".related", ".footer",
}

// containerPriority lists the content containers in preference order.
var containerPriority = []string{"main", "article", `[role="main"]`, ".document", "body"}

// HTMLExtractor isolates the article content of an HTML page.
type HTMLExtractor struct{}

// New creates an HTMLExtractor.
func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract takes a full HTML page and returns the inner HTML of its content
// container. Images are kept; they are part of the documentation.
func (e *HTMLExtractor) Extract(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	for _, sel := range chromeSelectors {
		doc.Find(sel).Remove()
	}

	var content *goquery.Selection
	for _, sel := range containerPriority {
		if found := doc.Find(sel); found.Length() > 0 {
			content = found.First()
			break
		}
	}
	if content == nil {
		return "", fmt.Errorf("no content container found in HTML")
	}

	result, err := content.Html()
	if err != nil {
		return "", fmt.Errorf("serializing content: %w", err)
	}
	return strings.TrimSpace(result), nil
}
