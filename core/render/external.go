package render

import (
	"context"
	"fmt"

	"github.com/gaurav-prasanna/docpress/core"
	"github.com/gaurav-prasanna/docpress/core/retry"
)

// Modes of the external renderer.
const (
	// ModeHTML passes the single-file HTML page and the output path on the
	// command line.
	ModeHTML = "html"
	// ModeProject runs in the output directory and lets the renderer read
	// its configuration script.
	ModeProject = "project"
)

// ExternalRenderer runs "<command> build" under a retry policy.
type ExternalRenderer struct {
	Command string
	Flags   []string
	Mode    string
	Policy  retry.Policy
	Run     Runner
}

// NewExternalRenderer creates a renderer that runs command for real.
func NewExternalRenderer(command string, flags []string, mode string, policy retry.Policy) *ExternalRenderer {
	return &ExternalRenderer{
		Command: command,
		Flags:   flags,
		Mode:    mode,
		Policy:  policy,
		Run:     Run,
	}
}

// Process returns the invocation for job.
func (r *ExternalRenderer) Process(job core.RenderJob) Process {
	args := append([]string{"build"}, r.Flags...)
	p := Process{Command: r.Command, Dir: job.Dir}

	switch r.Mode {
	case ModeHTML:
		args = append(args, job.Input, "-o", job.Output)
		p.CheckExit = true
	default:
		p.CheckExit = false
	}
	p.Args = args
	return p
}

// Render implements core.Renderer.
func (r *ExternalRenderer) Render(ctx context.Context, job core.RenderJob) error {
	proc := r.Process(job)
	err := r.Policy.Do(ctx, r.Command, func(ctx context.Context) error {
		return r.Run(ctx, proc)
	})
	if err != nil {
		return fmt.Errorf("rendering %s: %w", job.Output, err)
	}
	return nil
}
