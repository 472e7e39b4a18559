package render

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/docpress/core"
)

// DraftRenderer turns the paginated Markdown into a plain PDF with gofpdf.
// It has no CSS support; it exists to proof a book without the external
// renderer. Headings, paragraphs, lists, code and math blocks are laid out,
// inline markup and raw HTML are dropped.
type DraftRenderer struct {
	PageSize string
}

// NewDraftRenderer creates a DraftRenderer for the given page size
// ("A4", "A5", "Letter").
func NewDraftRenderer(pageSize string) *DraftRenderer {
	if pageSize == "" {
		pageSize = "A4"
	}
	return &DraftRenderer{PageSize: pageSize}
}

// Render implements core.Renderer.
func (r *DraftRenderer) Render(ctx context.Context, job core.RenderJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	markdown, err := os.ReadFile(job.Input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", job.Input, err)
	}

	pdf := r.layout(string(markdown), job.Meta)
	if err := pdf.OutputFileAndClose(job.Output); err != nil {
		return fmt.Errorf("writing %s: %w", job.Output, err)
	}
	return nil
}

func (r *DraftRenderer) layout(markdown string, meta core.BookMetadata) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", r.PageSize, "")
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Title page.
	if meta.Title != "" {
		pdf.SetFont("Helvetica", "B", 24)
		pdf.MultiCell(0, 12, tr(meta.Title), "", "L", false)
		pdf.Ln(4)
	}
	if meta.Author != "" {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 6, tr(meta.Author), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}

	lines := strings.Split(stripFrontMatter(markdown), "\n")
	inCodeBlock := false
	inMath := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Code fences and display math share the monospace layout.
		if strings.HasPrefix(trimmed, "```") || (trimmed == "$$" && !inCodeBlock) {
			if strings.HasPrefix(trimmed, "```") {
				inCodeBlock = !inCodeBlock
			} else {
				inMath = !inMath
			}
			pdf.Ln(2)
			continue
		}

		if inCodeBlock || inMath {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, tr(line), "", "L", true)
			continue
		}

		text := cleanInlineMarkdown(line)
		if text == "" {
			if trimmed == "" {
				pdf.Ln(3)
			}
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			if level == 1 {
				pdf.AddPage()
			}
			renderHeading(pdf, tr(strings.TrimSpace(strings.TrimLeft(text, "#"))), level)

		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			indent := float64(len(line)-len(strings.TrimLeft(line, " "))) * 2
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetX(pdf.GetX() + indent)
			pdf.MultiCell(0, 5, tr("• "+cleanInlineMarkdown(trimmed[2:])), "", "L", false)

		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(text), "", "L", false)
		}
	}
	return pdf
}

// stripFrontMatter drops a leading --- metadata block; its values are
// already on the title page.
func stripFrontMatter(markdown string) string {
	if !strings.HasPrefix(markdown, "---\n") {
		return markdown
	}
	end := strings.Index(markdown[4:], "\n---\n")
	if end < 0 {
		return markdown
	}
	return markdown[4+end+len("\n---\n"):]
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}

var (
	tagRegex        = regexp.MustCompile(`<[^>]+>`)
	italicRegex     = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCodeRegex = regexp.MustCompile("`([^`]+)`")
	linkRegex       = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	inlineMathRegex = regexp.MustCompile(`\$([^$]+)\$`)
)

// cleanInlineMarkdown strips inline Markdown and HTML for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = tagRegex.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italicRegex.ReplaceAllString(text, " $1 ")
	text = inlineCodeRegex.ReplaceAllString(text, "$1")
	text = linkRegex.ReplaceAllString(text, "$1")
	text = inlineMathRegex.ReplaceAllString(text, "$1")
	text = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&amp;", "&").Replace(text)
	return strings.TrimSpace(text)
}
