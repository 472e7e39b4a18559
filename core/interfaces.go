// Package core defines the pipeline types and interfaces for docpress.
// Each stage of the build is a small, testable interface.
package core

import (
	"context"

	"github.com/gaurav-prasanna/docpress/core/doctree"
)

// Source formats understood by the parser.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Source holds the raw bytes of one source document.
type Source struct {
	Name    string // slash path without extension, e.g. "guide/setup"
	Path    string // path on disk
	Format  string // FormatMarkdown or FormatHTML
	Content []byte
}

// Document is a parsed source document.
type Document struct {
	Name  string
	Path  string
	Title string
	Tree  *doctree.Node
}

// BookMetadata describes the final artifact.
type BookMetadata struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Language string `json:"language"`
}

// PageContext is the template context of one generated page.
type PageContext struct {
	PageName string
	Template string
	Vars     map[string]any
}

// Set stores a template variable.
func (c *PageContext) Set(key string, value any) {
	if c.Vars == nil {
		c.Vars = make(map[string]any)
	}
	c.Vars[key] = value
}

// RenderJob describes one final rendering pass.
type RenderJob struct {
	Dir    string // output directory, used as working directory
	Input  string // intermediate file (single-file HTML or paginated Markdown)
	Output string // final artifact path
	Meta   BookMetadata
}

// Fetcher reads raw source documents by name.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (*Source, error)
}

// Extractor pulls the main content from a full HTML page, stripping noise.
type Extractor interface {
	Extract(html string) (string, error)
}

// Normalizer converts cleaned HTML into Markdown.
type Normalizer interface {
	Normalize(html string) (string, error)
}

// Parser turns a source into a document tree.
type Parser interface {
	Parse(src *Source) (*Document, error)
}

// Translator converts a document tree into output text.
type Translator interface {
	Translate(tree *doctree.Node) string
}

// Renderer turns the intermediate output into the final artifact.
type Renderer interface {
	Render(ctx context.Context, job RenderJob) error
}
