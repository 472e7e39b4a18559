// Package assemble merges the documents of a book into one tree and fixes
// the references between them.
package assemble

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gaurav-prasanna/docpress/core"
	"github.com/gaurav-prasanna/docpress/core/doctree"
	"github.com/gaurav-prasanna/docpress/core/translate"
	"github.com/gaurav-prasanna/docpress/crawl"
)

// ErrNoDocuments is returned when there is nothing to merge.
var ErrNoDocuments = errors.New("no documents to assemble")

// DocumentAnchor returns the id of the marker placed where a document starts.
func DocumentAnchor(name string) string {
	return "document-" + name
}

// Merge combines docs into a single tree. docs[0] is the root document; the
// others are appended, in order, to the root's first top-level section so
// that their sections nest one level below the book title. Every document is
// preceded by a file-start marker. The input trees are reused, not copied.
func Merge(docs []*core.Document) (*doctree.Node, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	root := docs[0]
	tree := doctree.New(doctree.KindDocument, fileStart(root.Name))
	tree.Append(root.Tree.Children...)

	container := tree
	for _, c := range root.Tree.Children {
		if c.Kind == doctree.KindSection {
			container = c
			break
		}
	}

	for _, doc := range docs[1:] {
		container.Append(fileStart(doc.Name))
		container.Append(doc.Tree.Children...)
	}
	return tree, nil
}

func fileStart(name string) *doctree.Node {
	n := doctree.New(doctree.KindFileStart)
	n.SetAttr(doctree.AttrDocName, name)
	return n
}

// FixRefURIs points every reference without an external target at
// <root><suffix>#<reference text>, which keeps cross-references usable once
// all documents live in one paginated file.
func FixRefURIs(tree *doctree.Node, root, suffix string) {
	target := root + suffix
	for _, ref := range doctree.FindAll(tree, doctree.KindReference) {
		if !ref.HasAttr(doctree.AttrURI) || translate.IsExternalURI(ref.Attr(doctree.AttrURI)) {
			continue
		}
		ref.SetAttr(doctree.AttrURI, target+"#"+doctree.AsText(ref))
	}
}

// RetargetHTML rewrites document references into same-page anchors for the
// single-file HTML output: doc.md becomes #document-doc and doc.md#frag
// becomes #frag. Relative targets resolve against the document the
// reference appears in.
func RetargetHTML(tree *doctree.Node) {
	doctree.Walk(tree, &retargeter{})
}

type retargeter struct {
	current string
}

func (r *retargeter) Enter(n *doctree.Node) doctree.WalkStatus {
	switch n.Kind {
	case doctree.KindFileStart:
		r.current = n.Attr(doctree.AttrDocName)
	case doctree.KindReference:
		uri := n.Attr(doctree.AttrURI)
		if uri == "" || strings.HasPrefix(uri, "#") || translate.IsExternalURI(uri) {
			break
		}
		if parsed, err := url.Parse(uri); err == nil && parsed.Fragment != "" {
			n.SetAttr(doctree.AttrURI, "#"+parsed.Fragment)
			break
		}
		if name, ok := crawl.LinkTarget(r.current, uri); ok {
			n.SetAttr(doctree.AttrURI, "#"+DocumentAnchor(name))
		}
	}
	return doctree.WalkContinue
}

func (r *retargeter) Exit(*doctree.Node) {}
