// Package output handles file naming and writing for docpress outputs.
// Every generated file lives directly in, or below, the output directory.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Path returns the location of name in the output directory.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.OutputDir, filepath.FromSlash(name))
}

// Write stores data as name (a slash path such as "index.md" or
// "_static/style.css") and returns the written path.
func (w *Writer) Write(name string, data []byte) (string, error) {
	fullPath, err := w.resolve(name)
	if err != nil {
		return "", err
	}

	// Ensure parent directories exist.
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", fullPath, err)
	}
	return fullPath, nil
}

// Remove deletes name from the output directory. A file that does not
// exist is not an error.
func (w *Writer) Remove(name string) error {
	fullPath, err := w.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", fullPath, err)
	}
	return nil
}

func (w *Writer) resolve(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid output name %q", name)
	}
	return filepath.Join(w.OutputDir, clean), nil
}

// WriteString is Write for text content.
func (w *Writer) WriteString(name, content string) (string, error) {
	return w.Write(name, []byte(content))
}

// Read returns a previously written file.
func (w *Writer) Read(name string) (string, error) {
	data, err := os.ReadFile(w.Path(name))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return string(data), nil
}
