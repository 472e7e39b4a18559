package theme

import (
	htmltemplate "html/template"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/docpress/core/assemble"
	"github.com/gaurav-prasanna/docpress/core/config"
)

func testTOC() []*assemble.TOCEntry {
	return []*assemble.TOCEntry{
		{Title: "Intro", Href: "index.md#document-intro", Level: 1, Children: []*assemble.TOCEntry{
			{Title: "Details", Href: "index.md#details", Level: 2},
		}},
		{Title: "Setup", Href: "index.md#document-setup", Level: 1},
	}
}

func settings() config.Settings {
	return config.Settings{
		Builder:      "vivliostyle",
		Vars:         map[string]any{},
		ThemeOptions: map[string]any{},
		Context:      map[string]any{"debug": false},
	}
}

func TestLoad_Default(t *testing.T) {
	th, err := Load(config.DefaultThemeName, t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"page.html", "localtoc.html", "contents.md", "vivliostyle.config.js", "style.css"} {
		_, err := th.ReadFile(name)
		assert.NoError(t, err, name)
	}

	_, err = th.ReadFile("missing.html")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestLoad_UnknownTheme(t *testing.T) {
	_, err := Load("nope", t.TempDir())
	assert.ErrorIs(t, err, ErrThemeNotFound)
}

func TestLoad_OnDiskOverride(t *testing.T) {
	src := t.TempDir()
	dir := filepath.Join(src, "_themes", "print")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"),
		[]byte(`body { color: {{ theme_option "color" "black" }}; size: {{ config "page_size" "A4" }}; }`), 0644))

	th, err := Load("print", src)
	require.NoError(t, err)

	s := settings()
	s.ThemeOptions["color"] = "red"
	css, err := th.Render("style.css", map[string]any{}, s)
	require.NoError(t, err)
	assert.Equal(t, "body { color: red; size: A4; }", css)

	// files the override lacks come from the default theme
	_, err = th.ReadFile("page.html")
	assert.NoError(t, err)
}

func TestRender_Contents(t *testing.T) {
	th, err := Load(config.DefaultThemeName, t.TempDir())
	require.NoError(t, err)

	out, err := th.Render("contents.md", map[string]any{
		"contents_title": "Contents",
		"toc":            testTOC(),
	}, settings())
	require.NoError(t, err)

	assert.Equal(t, "# Contents\n\n"+
		"- [Intro](index.md#document-intro)\n"+
		"  - [Details](index.md#details)\n"+
		"- [Setup](index.md#document-setup)\n", out)
}

func TestRender_RendererConfig(t *testing.T) {
	th, err := Load(config.DefaultThemeName, t.TempDir())
	require.NoError(t, err)

	s := settings()
	s.Vars["page_size"] = "A5"
	out, err := th.Render("vivliostyle.config.js", map[string]any{
		"title":         `The "Book"`,
		"author":        "Jane Doe",
		"language":      "en",
		"contents_page": "contents.md",
		"master_page":   "index.md",
		"file_name":     "Book.pdf",
	}, s)
	require.NoError(t, err)

	assert.Contains(t, out, `title: "The \"Book\"",`)
	assert.Contains(t, out, `author: "Jane Doe",`)
	assert.Contains(t, out, `size: "A5",`)
	assert.Contains(t, out, `theme: ["@vivliostyle/theme-techbook", "style.css"],`)
	assert.Contains(t, out, `path: "contents.md",`)
	assert.Contains(t, out, `"index.md",`)
	assert.Contains(t, out, `output: "Book.pdf",`)
}

func TestRender_PageWithSidebar(t *testing.T) {
	th, err := Load(config.DefaultThemeName, t.TempDir())
	require.NoError(t, err)

	toc := []*assemble.TOCEntry{{Title: "Getting Started", Href: "index.html#document-guide/setup", Level: 1}}
	out, err := th.Render("page.html", map[string]any{
		"title":          "Book & Co",
		"author":         "Jane",
		"language":       "en",
		"body":           htmlBody("<section id=\"x\"><h1>X</h1></section>"),
		"sidebars":       []string{"localtoc.html"},
		"contents_title": "Contents",
		"toc":            toc,
	}, settings())
	require.NoError(t, err)

	assert.Contains(t, out, "<title>Book &amp; Co</title>")
	assert.Contains(t, out, `<meta name="author" content="Jane">`)
	assert.Contains(t, out, `<section id="x"><h1>X</h1></section>`)
	assert.Contains(t, out, `<div class="sidebar-wrapper">`)
	assert.Contains(t, out, `<a class="reference internal" href="index.html#document-guide/setup">Getting Started</a>`)
	assert.NotContains(t, out, "debug-info")
}

func TestRender_StyleDebug(t *testing.T) {
	th, err := Load(config.DefaultThemeName, t.TempDir())
	require.NoError(t, err)

	out, err := th.Render("style.css", map[string]any{"debug": true}, settings())
	require.NoError(t, err)
	assert.Contains(t, out, "size: A4;")
	assert.Contains(t, out, "outline: 1px dashed red;")
}

func TestSidebars(t *testing.T) {
	patterns := map[string][]string{
		"**":      {"localtoc.html"},
		"guide/*": {"globaltoc.html"},
		"index":   {},
	}

	assert.Equal(t, []string{"localtoc.html"}, Sidebars(patterns, "faq"))
	assert.Equal(t, []string{"globaltoc.html"}, Sidebars(patterns, "guide/setup"))
	assert.Equal(t, []string{}, Sidebars(patterns, "index"))
	assert.Nil(t, Sidebars(map[string][]string{}, "index"))
}

func htmlBody(s string) htmltemplate.HTML {
	return htmltemplate.HTML(s)
}
