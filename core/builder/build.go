package builder

import (
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"log/slog"
	"maps"
	"time"

	"github.com/gaurav-prasanna/docpress/core"
	"github.com/gaurav-prasanna/docpress/core/assemble"
	"github.com/gaurav-prasanna/docpress/core/directive"
	"github.com/gaurav-prasanna/docpress/core/doctree"
	"github.com/gaurav-prasanna/docpress/core/linkfix"
	"github.com/gaurav-prasanna/docpress/core/output"
	"github.com/gaurav-prasanna/docpress/core/parse"
	"github.com/gaurav-prasanna/docpress/core/render"
	"github.com/gaurav-prasanna/docpress/core/theme"
	"github.com/gaurav-prasanna/docpress/core/translate"
	"github.com/gaurav-prasanna/docpress/crawl"
)

// tocDepth is the number of heading levels listed in tables of contents.
const tocDepth = 3

// Result summarizes a finished build.
type Result struct {
	Documents int
	Files     []string
	Output    string
	Artifact  *render.Artifact // nil when the renderer produced nothing
}

// Build runs the whole pipeline. Any stage error aborts the build.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	slog.Info("Starting build", "builder", b.name, "source", b.cfg.SourceDir, "output", b.cfg.OutputDir)

	writer, err := output.New(b.cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	th, err := theme.Load(b.settings.Theme, b.cfg.SourceDir)
	if err != nil {
		return nil, err
	}

	parser := parse.New(directive.Env{Builder: b.name, Feature: b.cfg.FeatureEnabled})
	docs, err := crawl.DiscoverAll(ctx, b.cfg.RootDoc, b.cfg.Documents, b.fetcher, parser)
	if err != nil {
		return nil, fmt.Errorf("reading sources: %w", err)
	}
	slog.Info("Documents loaded", "count", len(docs))

	tree, err := assemble.Merge(docs)
	if err != nil {
		return nil, err
	}

	root := docs[0].Name
	master := root + b.kind.suffix
	toc := assemble.TOC(tree, master, tocDepth)

	if b.kind.format == core.FormatHTML {
		assemble.RetargetHTML(tree)
	} else {
		assemble.FixRefURIs(tree, root, b.kind.suffix)
	}

	vars := b.baseVars()
	vars["master_page"] = master
	vars["contents_page"] = contentsPage.name + contentsPage.suffix
	vars["toc"] = toc

	res := &Result{Documents: len(docs)}

	// Primary page.
	path, err := b.writePrimary(writer, th, root, tree, vars)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, path)

	// Auxiliary pages need the complete navigation and must exist before
	// the renderer runs.
	for _, page := range b.kind.aux {
		path, err := b.writePage(writer, th, page.name, page.suffix, page.template, vars)
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}

	if b.kind.format == core.FormatHTML {
		if err := b.fixSidebar(writer, root, master); err != nil {
			return nil, err
		}
	}

	if b.settings.Debug {
		path, err := b.writeBuildInfo(writer, docs, tree, res.Files)
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}

	job, err := b.renderJob(master)
	if err != nil {
		return nil, err
	}
	res.Output = job.Output
	// A failed project-mode render only warns, so an artifact left by an
	// earlier build must not be mistaken for this one.
	if err := writer.Remove(b.cfg.FileName()); err != nil {
		return nil, err
	}
	if err := b.renderer.Render(ctx, job); err != nil {
		return nil, err
	}

	art, err := render.Inspect(job.Output)
	switch {
	case err == nil:
		res.Artifact = &art
		slog.Info("Build finished", "output", art.Path, "pages", art.Pages, "bytes", art.Size, "elapsed", time.Since(start))
	case errors.Is(err, fs.ErrNotExist):
		slog.Warn("Renderer produced no output", "expected", job.Output)
	default:
		slog.Warn("Could not inspect output", "output", job.Output, "error", err)
	}
	return res, nil
}

func (b *Builder) writePrimary(w *output.Writer, th *theme.Theme, root string, tree *doctree.Node, vars map[string]any) (string, error) {
	pageVars := maps.Clone(vars)

	var tr core.Translator = translate.NewMarkdownTranslator()
	template := "page.md"
	if b.kind.format == core.FormatHTML {
		tr = translate.NewHTMLTranslator()
		template = "page.html"
		pageVars["sidebars"] = theme.Sidebars(b.settings.Sidebars, root)
	}

	pageVars["body"] = htmltemplate.HTML(tr.Translate(tree))
	return b.writePage(w, th, root, b.kind.suffix, template, pageVars)
}

// writePage renders template for page and writes it as <page><suffix>. The
// suffix is passed per page; the builder's own suffix is never changed.
func (b *Builder) writePage(w *output.Writer, th *theme.Theme, page, suffix, template string, vars map[string]any) (string, error) {
	pc := b.pageContext(page, template, vars)
	content, err := th.Render(pc.Template, pc.Vars, b.settings)
	if err != nil {
		return "", fmt.Errorf("rendering page %s: %w", page, err)
	}
	path, err := w.WriteString(page+suffix, content)
	if err != nil {
		return "", err
	}
	slog.Debug("Wrote page", "page", page, "template", pc.Template, "path", path)
	return path, nil
}

// fixSidebar rewrites the sidebar links of the single-file page in place.
func (b *Builder) fixSidebar(w *output.Writer, root, master string) error {
	html, err := w.Read(master)
	if err != nil {
		return err
	}
	fixed, err := linkfix.Rewriter{RootDoc: root, Suffix: b.kind.suffix}.Rewrite(html)
	if err != nil {
		return fmt.Errorf("fixing links in %s: %w", master, err)
	}
	_, err = w.WriteString(master, fixed)
	return err
}

func (b *Builder) writeBuildInfo(w *output.Writer, docs []*core.Document, tree *doctree.Node, files []string) (string, error) {
	info := &render.BuildInfo{
		Version:   b.version,
		Builder:   b.name,
		Generated: time.Now().UTC(),
		SourceDir: b.cfg.SourceDir,
		OutputDir: b.cfg.OutputDir,
		Book:      b.metadata(),
		Settings:  b.settings,
		Files:     files,
	}
	info.Describe(docs, tree)

	data, err := info.Marshal()
	if err != nil {
		return "", err
	}
	return w.Write(render.BuildInfoFile, data)
}

func (b *Builder) renderJob(master string) (core.RenderJob, error) {
	dir, err := b.outputPath("")
	if err != nil {
		return core.RenderJob{}, err
	}
	input, err := b.outputPath(master)
	if err != nil {
		return core.RenderJob{}, err
	}
	out, err := b.outputPath(b.cfg.FileName())
	if err != nil {
		return core.RenderJob{}, err
	}
	return core.RenderJob{Dir: dir, Input: input, Output: out, Meta: b.metadata()}, nil
}

func (b *Builder) metadata() core.BookMetadata {
	return core.BookMetadata{Title: b.cfg.Project, Author: b.cfg.Author, Language: b.cfg.Language}
}
