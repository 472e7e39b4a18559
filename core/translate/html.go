// Package translate converts document trees into output text.
//
// HTMLTranslator is the default renderer and knows every node kind.
// MarkdownTranslator produces the flat, heading-leveled paginated Markdown
// and delegates every kind it does not handle to an embedded HTMLTranslator,
// so unknown content degrades to inline HTML instead of failing.
package translate

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/docpress/core/doctree"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// HTMLTranslator renders a tree as an HTML fragment.
type HTMLTranslator struct {
	body         []string
	sectionLevel int
	// Highlight enables chroma syntax highlighting of code blocks.
	Highlight bool
}

// NewHTMLTranslator creates an HTMLTranslator with highlighting enabled.
func NewHTMLTranslator() *HTMLTranslator {
	return &HTMLTranslator{Highlight: true}
}

// Translate renders the tree and returns the HTML.
func (t *HTMLTranslator) Translate(tree *doctree.Node) string {
	t.reset()
	doctree.Walk(tree, t)
	return t.String()
}

// String returns everything emitted so far.
func (t *HTMLTranslator) String() string {
	return strings.Join(t.body, "")
}

func (t *HTMLTranslator) reset() {
	t.body = t.body[:0]
	t.sectionLevel = 0
}

func (t *HTMLTranslator) emit(s string) {
	t.body = append(t.body, s)
}

// Enter implements doctree.Visitor.
func (t *HTMLTranslator) Enter(n *doctree.Node) doctree.WalkStatus {
	switch n.Kind {
	case doctree.KindDocument:
	case doctree.KindSection:
		t.sectionLevel++
		t.emit("<section" + idAttr(n) + ">\n")
	case doctree.KindTitle:
		t.emit(fmt.Sprintf("<h%d>", t.headingLevel()))
	case doctree.KindParagraph:
		t.emit("<p>")
	case doctree.KindText:
		t.emit(textEscaper.Replace(n.Text))
	case doctree.KindEmphasis:
		t.emit("<em>")
	case doctree.KindStrong:
		t.emit("<strong>")
	case doctree.KindLiteral:
		t.emit(`<code class="literal">`)
	case doctree.KindLiteralBlock:
		t.emit(t.codeBlock(n.Text, n.Attr(doctree.AttrLanguage)))
		return doctree.WalkSkipNode
	case doctree.KindBulletList:
		t.emit("<ul>\n")
	case doctree.KindEnumeratedList:
		if start := n.Attr(doctree.AttrStart); start != "" && start != "1" {
			t.emit(`<ol start="` + htmlEscaper.Replace(start) + `">` + "\n")
		} else {
			t.emit("<ol>\n")
		}
	case doctree.KindListItem:
		t.emit("<li>")
	case doctree.KindBlockQuote:
		t.emit("<blockquote>\n")
	case doctree.KindTransition:
		t.emit("<hr />\n")
		return doctree.WalkSkipNode
	case doctree.KindReference:
		t.emit(referenceOpenTag(n))
	case doctree.KindImage:
		t.emit(`<img src="` + htmlEscaper.Replace(n.Attr(doctree.AttrSource)) +
			`" alt="` + htmlEscaper.Replace(n.Attr(doctree.AttrAlt)) + `" />`)
		return doctree.WalkSkipNode
	case doctree.KindRaw:
		t.emit(n.Text)
		return doctree.WalkSkipNode
	case doctree.KindContainer:
		t.emit("<div" + classAttr(n, "") + idAttr(n) + ">\n")
	case doctree.KindFileStart:
		t.emit(`<span id="document-` + htmlEscaper.Replace(n.Attr(doctree.AttrDocName)) + `"></span>`)
		return doctree.WalkSkipNode
	case doctree.KindMath:
		t.emit(`<span class="math notranslate nohighlight">\(` + textEscaper.Replace(doctree.AsText(n)) + `\)</span>`)
		return doctree.WalkSkipNode
	case doctree.KindMathBlock:
		t.emit(`<div class="math notranslate nohighlight">` + "\n\\[" +
			textEscaper.Replace(strings.TrimRight(doctree.AsText(n), "\n")) + "\\]\n</div>\n")
		return doctree.WalkSkipNode
	}
	return doctree.WalkContinue
}

// Exit implements doctree.Visitor.
func (t *HTMLTranslator) Exit(n *doctree.Node) {
	switch n.Kind {
	case doctree.KindSection:
		t.sectionLevel--
		t.emit("</section>\n")
	case doctree.KindTitle:
		t.emit(fmt.Sprintf("</h%d>\n", t.headingLevel()))
	case doctree.KindParagraph:
		t.emit("</p>\n")
	case doctree.KindEmphasis:
		t.emit("</em>")
	case doctree.KindStrong:
		t.emit("</strong>")
	case doctree.KindLiteral:
		t.emit("</code>")
	case doctree.KindBulletList:
		t.emit("</ul>\n")
	case doctree.KindEnumeratedList:
		t.emit("</ol>\n")
	case doctree.KindListItem:
		t.emit("</li>\n")
	case doctree.KindBlockQuote:
		t.emit("</blockquote>\n")
	case doctree.KindReference:
		t.emit("</a>")
	case doctree.KindContainer:
		t.emit("</div>\n")
	}
}

func (t *HTMLTranslator) headingLevel() int {
	level := t.sectionLevel
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return level
}

func (t *HTMLTranslator) codeBlock(code, lang string) string {
	if t.Highlight && lang != "" {
		if out, err := highlight(code, lang); err == nil {
			return out
		}
	}
	class := "literal-block"
	if lang != "" {
		class += " language-" + htmlEscaper.Replace(lang)
	}
	return `<pre class="` + class + `">` + textEscaper.Replace(code) + "</pre>\n"
}

func idAttr(n *doctree.Node) string {
	if id := n.Attr(doctree.AttrID); id != "" {
		return ` id="` + htmlEscaper.Replace(id) + `"`
	}
	return ""
}

func classAttr(n *doctree.Node, base string) string {
	classes := strings.TrimSpace(base + " " + n.Attr(doctree.AttrClass))
	if classes == "" {
		return ""
	}
	return ` class="` + htmlEscaper.Replace(classes) + `"`
}

// IsExternalURI reports whether uri points outside the documentation set.
// Anything with a scheme, and any link that is not a fragment or a source
// document (.md/.html), counts as external.
func IsExternalURI(uri string) bool {
	if uri == "" {
		return false
	}
	if strings.HasPrefix(uri, "#") {
		return false
	}
	if i := strings.Index(uri, ":"); i > 0 && !strings.ContainsAny(uri[:i], "/?#") {
		return true
	}
	path := uri
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return !strings.HasSuffix(path, ".md") && !strings.HasSuffix(path, ".html")
}

func referenceOpenTag(n *doctree.Node) string {
	uri := n.Attr(doctree.AttrURI)
	base := "reference internal"
	if IsExternalURI(uri) {
		base = "reference external"
	}
	return `<a` + classAttr(n, base) + ` href="` + htmlEscaper.Replace(uri) + `">`
}
