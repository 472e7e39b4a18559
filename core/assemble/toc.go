package assemble

import (
	"github.com/gaurav-prasanna/docpress/core/doctree"
)

// TOCEntry is one line of the table of contents.
type TOCEntry struct {
	Title    string
	Anchor   string // section id
	Document string // set on the first section of a document
	Href     string
	Level    int
	Children []*TOCEntry
}

// TOC lists the sections below the book title down to maxDepth levels.
// Entries that open a document link to its file-start marker, the others to
// the section id; both relative to page (e.g. "index.html").
func TOC(tree *doctree.Node, page string, maxDepth int) []*TOCEntry {
	b := &tocBuilder{page: page, maxDepth: maxDepth, depth: -1}
	doctree.Walk(tree, b)
	return b.entries
}

type tocBuilder struct {
	page     string
	maxDepth int
	depth    int
	pending  string
	entries  []*TOCEntry
	stack    []*TOCEntry
}

func (b *tocBuilder) Enter(n *doctree.Node) doctree.WalkStatus {
	switch n.Kind {
	case doctree.KindFileStart:
		b.pending = n.Attr(doctree.AttrDocName)
	case doctree.KindSection:
		b.depth++
		doc := b.pending
		b.pending = ""
		if b.depth < 1 || b.depth > b.maxDepth {
			return doctree.WalkContinue
		}

		entry := &TOCEntry{
			Anchor:   n.Attr(doctree.AttrID),
			Document: doc,
			Level:    b.depth,
		}
		if len(n.Children) > 0 && n.Children[0].Kind == doctree.KindTitle {
			entry.Title = doctree.AsText(n.Children[0])
		}
		entry.Href = b.page + "#" + entry.Anchor
		if doc != "" {
			entry.Href = b.page + "#" + DocumentAnchor(doc)
		}

		if len(b.stack) > 0 {
			parent := b.stack[len(b.stack)-1]
			parent.Children = append(parent.Children, entry)
		} else {
			b.entries = append(b.entries, entry)
		}
		b.stack = append(b.stack, entry)
	}
	return doctree.WalkContinue
}

func (b *tocBuilder) Exit(n *doctree.Node) {
	if n.Kind != doctree.KindSection {
		return
	}
	if b.depth >= 1 && b.depth <= b.maxDepth {
		b.stack = b.stack[:len(b.stack)-1]
	}
	b.depth--
}
