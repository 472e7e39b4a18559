// Package fetch implements the Fetcher interface over the source directory.
// Documents are addressed by name: their slash path relative to the source
// directory without extension ("index", "guide/setup").
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gaurav-prasanna/docpress/core"
)

// ErrDocumentNotFound is returned when no source file exists for a name.
var ErrDocumentNotFound = errors.New("document not found")

// extensions maps source file extensions to formats, in lookup order.
var extensions = []struct {
	ext    string
	format string
}{
	{".md", core.FormatMarkdown},
	{".markdown", core.FormatMarkdown},
	{".html", core.FormatHTML},
	{".htm", core.FormatHTML},
}

// FileFetcher reads source documents from a directory.
type FileFetcher struct {
	Root string
}

// New creates a FileFetcher rooted at dir.
func New(dir string) *FileFetcher {
	return &FileFetcher{Root: dir}
}

// Fetch reads the source file for the named document.
func (f *FileFetcher) Fetch(ctx context.Context, name string) (*core.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean, err := CleanName(name)
	if err != nil {
		return nil, err
	}

	for _, e := range extensions {
		p := filepath.Join(f.Root, filepath.FromSlash(clean)+e.ext)
		data, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		return &core.Source{Name: clean, Path: p, Format: e.format, Content: data}, nil
	}
	return nil, fmt.Errorf("%w: %s (looked in %s)", ErrDocumentNotFound, clean, f.Root)
}

// CleanName normalizes a document name and rejects names that leave the
// source directory.
func CleanName(name string) (string, error) {
	n := strings.TrimSpace(filepath.ToSlash(name))
	for _, e := range extensions {
		n = strings.TrimSuffix(n, e.ext)
	}
	n = path.Clean("/" + n)[1:]
	if n == "" || n == "." {
		return "", fmt.Errorf("invalid document name %q", name)
	}
	if strings.HasPrefix(path.Clean(strings.TrimSpace(filepath.ToSlash(name))), "..") {
		return "", fmt.Errorf("document name %q leaves the source directory", name)
	}
	return n, nil
}
