// Package doctree defines the parsed document representation shared by the
// parser, the merge step and the translators.
//
// A tree is a plain tagged union: every Node carries a Kind and the fields
// that kind needs. Translators never mutate structure; only the parse and
// assemble stages build or rearrange nodes.
package doctree

// Kind identifies the type of a Node.
type Kind int

const (
	KindDocument Kind = iota
	KindSection
	KindTitle
	KindParagraph
	KindText
	KindEmphasis
	KindStrong
	KindLiteral
	KindLiteralBlock
	KindBulletList
	KindEnumeratedList
	KindListItem
	KindBlockQuote
	KindTransition
	KindReference
	KindImage
	KindRaw
	KindContainer
	KindFileStart
	KindMath
	KindMathBlock
)

var kindNames = map[Kind]string{
	KindDocument:       "document",
	KindSection:        "section",
	KindTitle:          "title",
	KindParagraph:      "paragraph",
	KindText:           "text",
	KindEmphasis:       "emphasis",
	KindStrong:         "strong",
	KindLiteral:        "literal",
	KindLiteralBlock:   "literal_block",
	KindBulletList:     "bullet_list",
	KindEnumeratedList: "enumerated_list",
	KindListItem:       "list_item",
	KindBlockQuote:     "block_quote",
	KindTransition:     "transition",
	KindReference:      "reference",
	KindImage:          "image",
	KindRaw:            "raw",
	KindContainer:      "container",
	KindFileStart:      "start_of_file",
	KindMath:           "math",
	KindMathBlock:      "math_block",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Well-known attribute keys.
const (
	AttrID       = "id"
	AttrClass    = "class"
	AttrURI      = "refuri"
	AttrLanguage = "language"
	AttrSource   = "src"
	AttrAlt      = "alt"
	AttrDocName  = "docname"
	AttrFormat   = "format"
	AttrStart    = "start"
)

// Node is one element of a document tree.
type Node struct {
	Kind     Kind
	Text     string // literal content for text-like kinds
	Attrs    map[string]string
	Children []*Node
}

// New creates a node of the given kind with the given children.
func New(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// NewText creates a text leaf.
func NewText(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// Attr returns the attribute value or "" when unset.
func (n *Node) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// HasAttr reports whether key is set on the node.
func (n *Node) HasAttr(key string) bool {
	if n.Attrs == nil {
		return false
	}
	_, ok := n.Attrs[key]
	return ok
}

// SetAttr sets an attribute and returns the node for chaining.
func (n *Node) SetAttr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// Append adds children to the node.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// AsText returns the concatenated text content of the subtree.
func AsText(n *Node) string {
	if n == nil {
		return ""
	}
	if len(n.Children) == 0 {
		return n.Text
	}
	var out []byte
	out = append(out, n.Text...)
	for _, c := range n.Children {
		out = append(out, AsText(c)...)
	}
	return string(out)
}

// FindAll returns every node of the given kind in pre-order.
func FindAll(root *Node, kind Kind) []*Node {
	var found []*Node
	var visit func(*Node)
	visit = func(n *Node) {
		if n.Kind == kind {
			found = append(found, n)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	if root != nil {
		visit(root)
	}
	return found
}
