package render

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/docpress/core"
	"github.com/gaurav-prasanna/docpress/core/directive"
	"github.com/gaurav-prasanna/docpress/core/parse"
	"github.com/gaurav-prasanna/docpress/core/retry"
)

func TestExternalRenderer_Process(t *testing.T) {
	job := core.RenderJob{Dir: "/out", Input: "/out/index.html", Output: "/out/Book.pdf"}

	html := NewExternalRenderer("vivliostyle", []string{"--press-ready"}, ModeHTML, retry.NewPolicy(0, 0))
	p := html.Process(job)
	assert.Equal(t, "vivliostyle", p.Command)
	assert.Equal(t, []string{"build", "--press-ready", "/out/index.html", "-o", "/out/Book.pdf"}, p.Args)
	assert.Equal(t, "/out", p.Dir)
	assert.True(t, p.CheckExit)

	project := NewExternalRenderer("vivliostyle", nil, ModeProject, retry.NewPolicy(0, 0))
	p = project.Process(job)
	assert.Equal(t, []string{"build"}, p.Args)
	assert.Equal(t, "/out", p.Dir)
	assert.False(t, p.CheckExit)
	assert.Equal(t, "vivliostyle build", p.String())
}

func TestExternalRenderer_RetriesTimeouts(t *testing.T) {
	tests := []struct {
		name      string
		retries   int
		succeedAt int // 0 never succeeds
		wantCalls int
		wantErr   error
	}{
		{name: "single attempt times out", retries: 0, wantCalls: 1, wantErr: retry.ErrExhausted},
		{name: "all attempts time out", retries: 3, wantCalls: 4, wantErr: retry.ErrExhausted},
		{name: "second attempt succeeds", retries: 3, succeedAt: 2, wantCalls: 2},
		{name: "first attempt succeeds", retries: 2, succeedAt: 1, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			r := NewExternalRenderer("vivliostyle", nil, ModeProject, retry.NewPolicy(tt.retries, 0))
			r.Run = func(context.Context, Process) error {
				calls++
				if calls == tt.succeedAt {
					return nil
				}
				return retry.ErrTimeout
			}

			err := r.Render(context.Background(), core.RenderJob{Output: "Book.pdf"})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExternalRenderer_FailureIsTerminal(t *testing.T) {
	boom := errors.New("exit status 1")
	calls := 0
	r := NewExternalRenderer("vivliostyle", nil, ModeHTML, retry.NewPolicy(5, 0))
	r.Run = func(context.Context, Process) error {
		calls++
		return boom
	}

	err := r.Render(context.Background(), core.RenderJob{Output: "Book.pdf"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRun_ExitStatus(t *testing.T) {
	requireShell(t)
	ctx := context.Background()

	err := Run(ctx, Process{Command: "sh", Args: []string{"-c", "echo broken >&2; exit 3"}, CheckExit: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 3")
	assert.Contains(t, err.Error(), "broken")

	err = Run(ctx, Process{Command: "sh", Args: []string{"-c", "exit 3"}, CheckExit: false})
	assert.NoError(t, err)

	dir := t.TempDir()
	err = Run(ctx, Process{Command: "sh", Args: []string{"-c", "touch made"}, Dir: dir, CheckExit: true})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "made"))
}

func TestRun_Timeout(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := Run(ctx, Process{Command: "sh", Args: []string{"-c", "sleep 5"}, CheckExit: true})
	assert.ErrorIs(t, err, retry.ErrTimeout)
}

func TestRun_ParentCancel(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	err := Run(ctx, Process{Command: "sh", Args: []string{"-c", "sleep 5"}, CheckExit: false})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, retry.ErrTimeout)
}

func TestExternalRenderer_ParentCancelStopsRetries(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	bin := filepath.Join(dir, "fake-vivliostyle")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexec sleep 5\n"), 0755))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	r := NewExternalRenderer(bin, nil, ModeProject, retry.NewPolicy(2, 0))
	start := time.Now()
	err := r.Render(ctx, core.RenderJob{Dir: dir, Output: filepath.Join(dir, "Book.pdf")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestRun_MissingCommand(t *testing.T) {
	err := Run(context.Background(), Process{Command: "docpress-no-such-renderer", CheckExit: false})
	require.Error(t, err)
	assert.NotErrorIs(t, err, retry.ErrTimeout)
}

func TestDraftRenderer(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "index.md")
	output := filepath.Join(dir, "Book.pdf")
	require.NoError(t, os.WriteFile(input, []byte(`<span id="document-intro"></span>

# Intro

Some **bold** text with $x^2$ and a [link](index.md#Intro).

- one
- two

$$
E = mc^2
$$

## Details

`+"```go\nfunc main() {}\n```\n"), 0644))

	r := NewDraftRenderer("")
	err := r.Render(context.Background(), core.RenderJob{
		Dir: dir, Input: input, Output: output,
		Meta: core.BookMetadata{Title: "Book", Author: "Jane Doe"},
	})
	require.NoError(t, err)

	art, err := Inspect(output)
	require.NoError(t, err)
	assert.Equal(t, 2, art.Pages)
	assert.Positive(t, art.Size)
	assert.Equal(t, output, art.Path)
}

func TestDraftRenderer_MissingInput(t *testing.T) {
	dir := t.TempDir()
	err := NewDraftRenderer("A5").Render(context.Background(), core.RenderJob{
		Input: filepath.Join(dir, "missing.md"), Output: filepath.Join(dir, "out.pdf"),
	})
	assert.Error(t, err)
}

func TestInspect_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := Inspect(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)

	bogus := filepath.Join(dir, "bogus.pdf")
	require.NoError(t, os.WriteFile(bogus, []byte("not a pdf"), 0644))
	_, err = Inspect(bogus)
	assert.Error(t, err)
}

func TestCleanInlineMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "**bold** and `code`", want: "bold and code"},
		{in: "see [the guide](index.md#x)", want: "see the guide"},
		{in: `<span id="document-a"></span>`, want: ""},
		{in: "area $x^2$", want: "area x^2"},
		{in: "a &lt; b &amp; c", want: "a < b & c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanInlineMarkdown(tt.in), tt.in)
	}
}

func TestBuildInfo(t *testing.T) {
	doc, err := parse.New(directive.Env{}).Parse(&core.Source{
		Name:    "index",
		Path:    "docs/index.md",
		Format:  core.FormatMarkdown,
		Content: []byte("# Book\n\n[a](a.md)\n\n## Part\n\n- x\n\n```\ncode\n```\n\n$$\nm\n$$\n"),
	})
	require.NoError(t, err)

	info := &BuildInfo{Version: "dev", Builder: "html"}
	info.Describe([]*core.Document{doc}, doc.Tree)

	assert.Equal(t, []DocumentInfo{{Name: "index", Path: "docs/index.md", Title: "Book"}}, info.Documents)
	assert.Equal(t, []Heading{
		{Level: 1, Text: "Book", ID: "book"},
		{Level: 2, Text: "Part", ID: "part"},
	}, info.Structure.Headings)
	assert.Equal(t, 1, info.Structure.Links)
	assert.Equal(t, 1, info.Structure.CodeBlocks)
	assert.Equal(t, 1, info.Structure.MathBlocks)
	assert.Equal(t, 1, info.Structure.Lists)

	data, err := info.Marshal()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "html", decoded["builder"])
}

func TestStripFrontMatter(t *testing.T) {
	assert.Equal(t, "# Intro\n", stripFrontMatter("---\ntitle: \"Book\"\n---\n# Intro\n"))
	assert.Equal(t, "# Intro\n", stripFrontMatter("# Intro\n"))
	assert.Equal(t, "---\nunclosed\n", stripFrontMatter("---\nunclosed\n"))
}
