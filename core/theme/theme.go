// Package theme loads page templates.
//
// The default theme is embedded in the binary. A theme directory
// <source>/_themes/<name> overrides it file by file: templates it does not
// provide fall back to the embedded ones.
package theme

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/gaurav-prasanna/docpress/core/config"
)

//go:embed themes
var embedded embed.FS

// ErrThemeNotFound is returned for a theme that is neither on disk nor embedded.
var ErrThemeNotFound = errors.New("theme not found")

// ErrTemplateNotFound is returned when no layer provides a template.
var ErrTemplateNotFound = errors.New("template not found")

// Theme resolves templates from its layers in order.
type Theme struct {
	Name   string
	layers []fs.FS
}

// Load returns the theme called name. srcDir is searched for a _themes
// override directory. Non-default themes fall back to the default theme for
// templates they do not provide.
func Load(name, srcDir string) (*Theme, error) {
	t := &Theme{Name: name}

	dir := filepath.Join(srcDir, "_themes", name)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		slog.Debug("Using theme directory", "theme", name, "dir", dir)
		t.layers = append(t.layers, os.DirFS(dir))
	}
	if sub, ok := embeddedTheme(name); ok {
		t.layers = append(t.layers, sub)
	}
	if len(t.layers) == 0 {
		return nil, fmt.Errorf("%w: %s (looked in %s)", ErrThemeNotFound, name, dir)
	}

	if name != config.DefaultThemeName {
		if sub, ok := embeddedTheme(config.DefaultThemeName); ok {
			t.layers = append(t.layers, sub)
		}
	}
	return t, nil
}

func embeddedTheme(name string) (fs.FS, bool) {
	root := "themes/" + name
	if _, err := fs.Stat(embedded, root); err != nil {
		return nil, false
	}
	sub, err := fs.Sub(embedded, root)
	return sub, err == nil
}

// ReadFile returns the first layer's copy of a theme file.
func (t *Theme) ReadFile(name string) ([]byte, error) {
	for _, layer := range t.layers {
		data, err := fs.ReadFile(layer, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
	}
	return nil, fmt.Errorf("%w: %s (theme %s)", ErrTemplateNotFound, name, t.Name)
}

// Render executes the named template with vars. Templates ending in .html
// use html/template; everything else (Markdown, JavaScript, CSS) is plain
// text. Both get the config, theme_option, json, indent and sidebar
// functions.
func (t *Theme) Render(name string, vars map[string]any, s config.Settings) (string, error) {
	src, err := t.ReadFile(name)
	if err != nil {
		return "", err
	}

	funcs := map[string]any{
		"config":       s.Var,
		"theme_option": s.ThemeOption,
		"json":         toJSON,
		"indent":       indent,
		"sidebar": func(sidebar string) (htmltemplate.HTML, error) {
			out, err := t.Render(sidebar, vars, s)
			return htmltemplate.HTML(out), err
		},
	}

	var buf bytes.Buffer
	if path.Ext(name) == ".html" {
		tmpl, err := htmltemplate.New(name).Funcs(funcs).Parse(string(src))
		if err != nil {
			return "", fmt.Errorf("parsing %s: %w", name, err)
		}
		err = tmpl.Execute(&buf, vars)
		if err != nil {
			return "", fmt.Errorf("executing %s: %w", name, err)
		}
		return buf.String(), nil
	}

	tmpl, err := template.New(name).Funcs(funcs).Parse(string(src))
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", name, err)
	}
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("executing %s: %w", name, err)
	}
	return buf.String(), nil
}

func toJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func indent(level int) string {
	if level <= 1 {
		return ""
	}
	return strings.Repeat("  ", level-1)
}
