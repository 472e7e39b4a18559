// Package builder orchestrates a build: it discovers and parses the
// documents, merges them into one tree, writes the primary page and the
// auxiliary pages, and hands the result to the renderer.
package builder

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"sort"

	"github.com/gaurav-prasanna/docpress/core"
	"github.com/gaurav-prasanna/docpress/core/config"
	"github.com/gaurav-prasanna/docpress/core/fetch"
	"github.com/gaurav-prasanna/docpress/core/render"
	"github.com/gaurav-prasanna/docpress/core/retry"
)

// Builder names.
const (
	HTML        = "html"
	Vivliostyle = "vivliostyle"
	Draft       = "draft"
)

// ErrUnknownBuilder is returned by New for a name that is not registered.
var ErrUnknownBuilder = errors.New("unknown builder")

// kind describes what a builder writes and how it renders.
type kind struct {
	format   string // intermediate format, core.FormatMarkdown or core.FormatHTML
	suffix   string
	aux      []auxPage
	renderer func(cfg *config.Config, s config.Settings) core.Renderer
}

// auxPage is a page generated from a theme template after the primary page.
type auxPage struct {
	name     string
	suffix   string
	template string
}

var (
	contentsPage = auxPage{name: "contents", suffix: ".md", template: "contents.md"}
	configScript = auxPage{name: "vivliostyle.config", suffix: ".js", template: "vivliostyle.config.js"}
	stylesheet   = auxPage{name: "style", suffix: ".css", template: "style.css"}
)

var kinds = map[string]kind{
	HTML: {
		format: core.FormatHTML,
		suffix: ".html",
		aux:    []auxPage{stylesheet},
		renderer: func(cfg *config.Config, _ config.Settings) core.Renderer {
			return render.NewExternalRenderer(cfg.Vivliostyle.Command, cfg.Vivliostyle.Flags, render.ModeHTML,
				retry.NewPolicy(cfg.Vivliostyle.Retries, cfg.Vivliostyle.Timeout))
		},
	},
	Vivliostyle: {
		format: core.FormatMarkdown,
		suffix: ".md",
		aux:    []auxPage{contentsPage, configScript, stylesheet},
		renderer: func(cfg *config.Config, _ config.Settings) core.Renderer {
			return render.NewExternalRenderer(cfg.Vivliostyle.Command, cfg.Vivliostyle.Flags, render.ModeProject,
				retry.NewPolicy(cfg.Vivliostyle.Retries, cfg.Vivliostyle.Timeout))
		},
	},
	Draft: {
		format: core.FormatMarkdown,
		suffix: ".md",
		aux:    []auxPage{contentsPage, stylesheet},
		renderer: func(_ *config.Config, s config.Settings) core.Renderer {
			size, _ := s.Var("page_size", "A4").(string)
			return render.NewDraftRenderer(size)
		},
	},
}

// Names lists the registered builders.
func Names() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PageContextHook may change the template context of every generated page.
type PageContextHook func(pc *core.PageContext)

// Option configures a Builder.
type Option func(*Builder)

// WithFetcher replaces the source-directory fetcher.
func WithFetcher(f core.Fetcher) Option {
	return func(b *Builder) { b.fetcher = f }
}

// WithRenderer replaces the renderer of the builder.
func WithRenderer(r core.Renderer) Option {
	return func(b *Builder) { b.renderer = r }
}

// WithVersion sets the version recorded in build-info.json.
func WithVersion(v string) Option {
	return func(b *Builder) { b.version = v }
}

// Builder produces one artifact from a source tree.
type Builder struct {
	name     string
	kind     kind
	cfg      *config.Config
	settings config.Settings
	fetcher  core.Fetcher
	renderer core.Renderer
	hooks    []PageContextHook
	version  string
}

// New creates the builder called name. The builder-scoped settings are
// derived here, once; cfg itself is never modified.
func New(name string, cfg *config.Config, opts ...Option) (*Builder, error) {
	k, ok := kinds[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBuilder, name, Names())
	}

	settings := cfg.Snapshot(name)
	b := &Builder{
		name:     name,
		kind:     k,
		cfg:      cfg,
		settings: settings,
		fetcher:  fetch.New(cfg.SourceDir),
		renderer: k.renderer(cfg, settings),
		version:  "dev",
	}
	b.OnPageContext(AuthorHook(cfg.Author))

	for _, opt := range opts {
		opt(b)
	}

	slog.Debug("Builder created", "builder", name, "theme", settings.Theme, "debug", settings.Debug)
	return b, nil
}

// Name returns the builder name.
func (b *Builder) Name() string {
	return b.name
}

// Settings returns the builder-scoped settings.
func (b *Builder) Settings() config.Settings {
	return b.settings
}

// Suffix returns the suffix of the primary page.
func (b *Builder) Suffix() string {
	return b.kind.suffix
}

// OnPageContext registers a hook run for every page, after the built-in
// ones.
func (b *Builder) OnPageContext(h PageContextHook) {
	b.hooks = append(b.hooks, h)
}

// AuthorHook injects the configured author into every page context.
func AuthorHook(author string) PageContextHook {
	return func(pc *core.PageContext) {
		pc.Set("author", author)
	}
}

// outputPath returns the absolute path of a file in the output directory.
func (b *Builder) outputPath(name string) (string, error) {
	p, err := filepath.Abs(filepath.Join(b.cfg.OutputDir, name))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", name, err)
	}
	return p, nil
}

func (b *Builder) baseVars() map[string]any {
	vars := maps.Clone(b.settings.Context)
	if _, ok := vars["contents_title"]; !ok {
		vars["contents_title"] = "Contents"
	}
	vars["project"] = b.cfg.Project
	vars["title"] = b.cfg.Project
	vars["language"] = b.cfg.Language
	vars["builder"] = b.name
	vars["file_name"] = b.cfg.FileName()
	vars["permalinks"] = b.settings.Permalinks
	return vars
}

func (b *Builder) pageContext(page, template string, vars map[string]any) *core.PageContext {
	pc := &core.PageContext{PageName: page, Template: template, Vars: maps.Clone(vars)}
	pc.Set("pagename", page)
	for _, h := range b.hooks {
		h(pc)
	}
	return pc
}
