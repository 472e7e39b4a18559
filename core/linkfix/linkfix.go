// Package linkfix repairs the navigation of a single-file HTML book.
//
// The sidebar table of contents is rendered with page-qualified links
// ("index.html#document-intro"). Once every document lives in the same
// file those links must become plain fragments pointing at section ids.
package linkfix

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/docpress/core/doctree"
)

const (
	sidebarSelector = "div.sidebar-wrapper"
	documentPrefix  = "#document-"
)

var internalLink = cascadia.MustCompile("a.reference.internal")

// Rewriter rewrites sidebar links of the page <RootDoc><Suffix>.
type Rewriter struct {
	RootDoc string
	Suffix  string
}

// Rewrite returns page with the sidebar links fixed. A page without a
// sidebar is returned unchanged.
func (r Rewriter) Rewrite(page string) (string, error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	sidebar := doc.Find(sidebarSelector).First()
	if sidebar.Length() == 0 {
		return page, nil
	}

	target := r.RootDoc + r.Suffix
	sidebar.FindMatcher(internalLink).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		href = strings.ReplaceAll(href, target, "")
		if strings.HasPrefix(href, documentPrefix) {
			href = "#" + doctree.MakeID(s.Text())
		}
		s.SetAttr("href", href)
	})

	var out bytes.Buffer
	if err := html.Render(&out, root); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return out.String(), nil
}
