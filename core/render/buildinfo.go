package render

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gaurav-prasanna/docpress/core"
	"github.com/gaurav-prasanna/docpress/core/config"
	"github.com/gaurav-prasanna/docpress/core/doctree"
)

// BuildInfoFile is written next to the output when debugging is enabled.
const BuildInfoFile = "build-info.json"

// BuildInfo records what a build consumed and produced.
type BuildInfo struct {
	Version   string            `json:"version"`
	Builder   string            `json:"builder"`
	Generated time.Time         `json:"generated"`
	SourceDir string            `json:"source_dir"`
	OutputDir string            `json:"output_dir"`
	Book      core.BookMetadata `json:"book"`
	Documents []DocumentInfo    `json:"documents"`
	Structure Structure         `json:"structure"`
	Settings  config.Settings   `json:"settings"`
	Files     []string          `json:"files"`
}

// DocumentInfo describes one source document.
type DocumentInfo struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Title string `json:"title"`
}

// Heading is one section title of the merged tree.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// Structure counts the structural elements of the merged tree.
type Structure struct {
	Headings   []Heading `json:"headings"`
	Links      int       `json:"links"`
	CodeBlocks int       `json:"code_blocks"`
	MathBlocks int       `json:"math_blocks"`
	Lists      int       `json:"lists"`
}

// Describe fills in the document list and structure of info.
func (info *BuildInfo) Describe(docs []*core.Document, tree *doctree.Node) {
	info.Documents = make([]DocumentInfo, 0, len(docs))
	for _, d := range docs {
		info.Documents = append(info.Documents, DocumentInfo{Name: d.Name, Path: d.Path, Title: d.Title})
	}

	info.Structure = Structure{
		Headings:   extractHeadings(tree),
		Links:      len(doctree.FindAll(tree, doctree.KindReference)),
		CodeBlocks: len(doctree.FindAll(tree, doctree.KindLiteralBlock)),
		MathBlocks: len(doctree.FindAll(tree, doctree.KindMathBlock)),
		Lists: len(doctree.FindAll(tree, doctree.KindBulletList)) +
			len(doctree.FindAll(tree, doctree.KindEnumeratedList)),
	}
}

// Marshal encodes info as indented JSON.
func (info *BuildInfo) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling build info: %w", err)
	}
	return data, nil
}

type headingCollector struct {
	depth    int
	headings []Heading
}

func (c *headingCollector) Enter(n *doctree.Node) doctree.WalkStatus {
	if n.Kind != doctree.KindSection {
		return doctree.WalkContinue
	}
	c.depth++
	if len(n.Children) > 0 && n.Children[0].Kind == doctree.KindTitle {
		c.headings = append(c.headings, Heading{
			Level: c.depth,
			Text:  doctree.AsText(n.Children[0]),
			ID:    n.Attr(doctree.AttrID),
		})
	}
	return doctree.WalkContinue
}

func (c *headingCollector) Exit(n *doctree.Node) {
	if n.Kind == doctree.KindSection {
		c.depth--
	}
}

func extractHeadings(tree *doctree.Node) []Heading {
	c := &headingCollector{}
	doctree.Walk(tree, c)
	return c.headings
}
