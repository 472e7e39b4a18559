package translate

import (
	"strings"

	"github.com/gaurav-prasanna/docpress/core/doctree"
)

// MarkdownTranslator renders a tree as paginated Markdown: nesting depth is
// expressed by repeating the heading marker, math keeps its TeX delimiters,
// and the document's own title is left out.
//
// The section depth starts at -1 because every document is wrapped in one
// top-level section holding its title. That title therefore sits at depth 0
// and is skipped, and the first real headings land at depth 1.
type MarkdownTranslator struct {
	*HTMLTranslator

	sectionLevel int
	mathDepth    int
	blockStart   []int
}

// NewMarkdownTranslator creates a MarkdownTranslator.
func NewMarkdownTranslator() *MarkdownTranslator {
	t := &MarkdownTranslator{HTMLTranslator: NewHTMLTranslator()}
	t.reset()
	return t
}

// Translate renders the tree and returns the Markdown.
func (t *MarkdownTranslator) Translate(tree *doctree.Node) string {
	t.reset()
	doctree.Walk(tree, t)
	return t.String()
}

func (t *MarkdownTranslator) reset() {
	t.HTMLTranslator.reset()
	t.sectionLevel = -1
	t.mathDepth = 0
	t.blockStart = t.blockStart[:0]
}

// Enter implements doctree.Visitor.
func (t *MarkdownTranslator) Enter(n *doctree.Node) doctree.WalkStatus {
	switch n.Kind {
	case doctree.KindSection:
		t.sectionLevel++
	case doctree.KindTitle:
		if t.sectionLevel <= 0 {
			return doctree.WalkSkipNode
		}
		t.emit("\n\n" + strings.Repeat("#", t.sectionLevel) + " ")
	case doctree.KindMath:
		t.mathDepth++
		t.emit("$")
	case doctree.KindMathBlock:
		t.mathDepth++
		t.emit("\n$$\n")
		t.blockStart = append(t.blockStart, len(t.body))
	case doctree.KindParagraph:
		t.emit("\n")
	case doctree.KindText:
		if t.mathDepth > 0 {
			t.emit(n.Text)
			return doctree.WalkContinue
		}
		return t.HTMLTranslator.Enter(n)
	default:
		return t.HTMLTranslator.Enter(n)
	}
	return doctree.WalkContinue
}

// Exit implements doctree.Visitor.
func (t *MarkdownTranslator) Exit(n *doctree.Node) {
	switch n.Kind {
	case doctree.KindSection:
		t.sectionLevel--
	case doctree.KindTitle:
		t.emit("\n\n")
	case doctree.KindMath:
		t.mathDepth--
		t.emit("$")
	case doctree.KindMathBlock:
		t.mathDepth--
		t.closeMathBlock()
	case doctree.KindParagraph:
		t.emit("\n")
	case doctree.KindText:
	default:
		t.HTMLTranslator.Exit(n)
	}
}

// closeMathBlock drops trailing newlines from the block's body before the
// closing delimiter so the block never ends in blank lines.
func (t *MarkdownTranslator) closeMathBlock() {
	last := len(t.blockStart) - 1
	start := t.blockStart[last]
	t.blockStart = t.blockStart[:last]

	content := strings.TrimRight(strings.Join(t.body[start:], ""), "\n")
	t.body = t.body[:start]
	if content != "" {
		t.emit(content + "\n")
	}
	t.emit("$$\n")
}
