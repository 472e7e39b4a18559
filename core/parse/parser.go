// Package parse turns source documents into document trees.
//
// Markdown is parsed with goldmark (GFM plus a $...$ math extension). HTML
// sources are reduced to their article content and converted to Markdown
// first, so every format yields the same kind of tree. Directives are
// expanded before parsing.
package parse

import (
	"fmt"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/gaurav-prasanna/docpress/core"
	"github.com/gaurav-prasanna/docpress/core/directive"
	"github.com/gaurav-prasanna/docpress/core/doctree"
	"github.com/gaurav-prasanna/docpress/core/extract"
	"github.com/gaurav-prasanna/docpress/core/normalize"
)

// Parser implements core.Parser.
type Parser struct {
	env        directive.Env
	md         goldmark.Markdown
	extractor  core.Extractor
	normalizer core.Normalizer
}

// New creates a Parser that evaluates directives against env.
func New(env directive.Env) *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithInlineParsers(util.Prioritized(&inlineMathParser{}, 150)),
		),
	)
	return &Parser{
		env:        env,
		md:         md,
		extractor:  extract.New(),
		normalizer: normalize.New(),
	}
}

// Parse converts one source into a document.
func (p *Parser) Parse(src *core.Source) (*core.Document, error) {
	content := src.Content
	if src.Format == core.FormatHTML {
		md, err := p.htmlToMarkdown(string(content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src.Name, err)
		}
		content = []byte(md)
	}

	fm, body, err := splitFrontMatter(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}

	body, err = directive.Expand(body, p.env)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}
	body = fenceMathBlocks(body)

	root := p.md.Parser().Parse(text.NewReader(body))
	conv := &converter{src: body, md: p.md}
	tree := conv.document(root)

	// A front matter title stands in for a missing level one heading.
	if fm.Title != "" && !hasTopHeading(root) {
		tree = wrapWithTitle(tree, fm.Title)
	}
	title := documentTitle(tree)
	if title == "" {
		title = src.Name
	}

	return &core.Document{
		Name:  src.Name,
		Path:  src.Path,
		Title: title,
		Tree:  tree,
	}, nil
}

func (p *Parser) htmlToMarkdown(html string) (string, error) {
	content, err := p.extractor.Extract(html)
	if err != nil {
		return "", fmt.Errorf("extract: %w", err)
	}
	md, err := p.normalizer.Normalize(content)
	if err != nil {
		return "", fmt.Errorf("normalize: %w", err)
	}
	return md, nil
}

func hasTopHeading(root gast.Node) bool {
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*gast.Heading); ok && h.Level == 1 {
			return true
		}
	}
	return false
}

// documentTitle returns the title of the first top-level section.
func documentTitle(tree *doctree.Node) string {
	for _, c := range tree.Children {
		if c.Kind == doctree.KindSection && len(c.Children) > 0 && c.Children[0].Kind == doctree.KindTitle {
			return doctree.AsText(c.Children[0])
		}
	}
	return ""
}

// wrapWithTitle moves the whole document under one section titled title.
func wrapWithTitle(tree *doctree.Node, title string) *doctree.Node {
	section := doctree.New(doctree.KindSection, doctree.New(doctree.KindTitle, doctree.NewText(title)))
	section.SetAttr(doctree.AttrID, doctree.MakeID(title))
	section.Append(tree.Children...)
	return doctree.New(doctree.KindDocument, section)
}
