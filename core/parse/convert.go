package parse

import (
	"bytes"
	"strconv"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"

	"github.com/gaurav-prasanna/docpress/core/doctree"
)

// converter maps a goldmark AST onto a document tree. Headings open nested
// sections; anything without a tree counterpart is rendered to HTML by
// goldmark and kept as a raw node.
type converter struct {
	src []byte
	md  goldmark.Markdown
}

type sectionFrame struct {
	node  *doctree.Node
	level int
}

func (c *converter) document(root gast.Node) *doctree.Node {
	doc := doctree.New(doctree.KindDocument)
	stack := []sectionFrame{{node: doc, level: 0}}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*gast.Heading)
		if !ok {
			stack[len(stack)-1].node.Append(c.block(n)...)
			continue
		}

		for len(stack) > 1 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		title := doctree.New(doctree.KindTitle, c.inlines(h)...)
		section := doctree.New(doctree.KindSection, title)
		section.SetAttr(doctree.AttrID, doctree.MakeID(doctree.AsText(title)))

		stack[len(stack)-1].node.Append(section)
		stack = append(stack, sectionFrame{node: section, level: h.Level})
	}
	return doc
}

func (c *converter) blocks(parent gast.Node) []*doctree.Node {
	var out []*doctree.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, c.block(n)...)
	}
	return out
}

func (c *converter) block(n gast.Node) []*doctree.Node {
	switch node := n.(type) {
	case *gast.Paragraph, *gast.TextBlock:
		return []*doctree.Node{doctree.New(doctree.KindParagraph, c.inlines(node)...)}

	case *gast.FencedCodeBlock:
		content := c.lines(node)
		lang := string(node.Language(c.src))
		if lang == "math" {
			return []*doctree.Node{doctree.New(doctree.KindMathBlock, doctree.NewText(content))}
		}
		code := &doctree.Node{Kind: doctree.KindLiteralBlock, Text: content}
		if lang != "" {
			code.SetAttr(doctree.AttrLanguage, lang)
		}
		return []*doctree.Node{code}

	case *gast.CodeBlock:
		return []*doctree.Node{{Kind: doctree.KindLiteralBlock, Text: c.lines(node)}}

	case *gast.HTMLBlock:
		raw := c.lines(node)
		if node.HasClosure() {
			raw += string(node.ClosureLine.Value(c.src))
		}
		return []*doctree.Node{rawNode(raw)}

	case *gast.List:
		kind := doctree.KindBulletList
		if node.IsOrdered() {
			kind = doctree.KindEnumeratedList
		}
		list := doctree.New(kind)
		if node.IsOrdered() {
			list.SetAttr(doctree.AttrStart, strconv.Itoa(node.Start))
		}
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			list.Append(doctree.New(doctree.KindListItem, c.blocks(item)...))
		}
		return []*doctree.Node{list}

	case *gast.Blockquote:
		return []*doctree.Node{doctree.New(doctree.KindBlockQuote, c.blocks(node)...)}

	case *gast.ThematicBreak:
		return []*doctree.Node{doctree.New(doctree.KindTransition)}

	default:
		return []*doctree.Node{rawNode(c.render(n))}
	}
}

func (c *converter) inlines(parent gast.Node) []*doctree.Node {
	var out []*doctree.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, c.inline(n)...)
	}
	return out
}

func (c *converter) inline(n gast.Node) []*doctree.Node {
	switch node := n.(type) {
	case *gast.Text:
		value := string(node.Segment.Value(c.src))
		out := []*doctree.Node{doctree.NewText(value)}
		switch {
		case node.HardLineBreak():
			out = append(out, rawNode("<br />\n"))
		case node.SoftLineBreak():
			out = append(out, doctree.NewText("\n"))
		}
		return out

	case *gast.String:
		return []*doctree.Node{doctree.NewText(string(node.Value))}

	case *gast.Emphasis:
		kind := doctree.KindEmphasis
		if node.Level >= 2 {
			kind = doctree.KindStrong
		}
		return []*doctree.Node{doctree.New(kind, c.inlines(node)...)}

	case *gast.CodeSpan:
		return []*doctree.Node{doctree.New(doctree.KindLiteral, doctree.NewText(c.plain(node)))}

	case *gast.Link:
		ref := doctree.New(doctree.KindReference, c.inlines(node)...)
		ref.SetAttr(doctree.AttrURI, string(node.Destination))
		return []*doctree.Node{ref}

	case *gast.AutoLink:
		ref := doctree.New(doctree.KindReference, doctree.NewText(string(node.Label(c.src))))
		ref.SetAttr(doctree.AttrURI, string(node.URL(c.src)))
		return []*doctree.Node{ref}

	case *gast.Image:
		img := doctree.New(doctree.KindImage)
		img.SetAttr(doctree.AttrSource, string(node.Destination))
		img.SetAttr(doctree.AttrAlt, c.plain(node))
		return []*doctree.Node{img}

	case *gast.RawHTML:
		var buf bytes.Buffer
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			buf.Write(seg.Value(c.src))
		}
		return []*doctree.Node{rawNode(buf.String())}

	case *InlineMath:
		return []*doctree.Node{doctree.New(doctree.KindMath, doctree.NewText(c.plain(node)))}

	default:
		return []*doctree.Node{rawNode(c.render(n))}
	}
}

// plain returns the text of the inline subtree without markup.
func (c *converter) plain(n gast.Node) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *gast.Text:
			buf.Write(t.Segment.Value(c.src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *gast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(c.plain(child))
		}
	}
	return buf.String()
}

func (c *converter) lines(n gast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(c.src))
	}
	return buf.String()
}

func (c *converter) render(n gast.Node) string {
	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, c.src, n); err != nil {
		return ""
	}
	return buf.String()
}

func rawNode(html string) *doctree.Node {
	return &doctree.Node{Kind: doctree.KindRaw, Text: html, Attrs: map[string]string{doctree.AttrFormat: "html"}}
}
