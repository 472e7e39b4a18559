// Package render produces the final artifact from the intermediate output,
// either with an external paged-media renderer or with the in-process draft
// renderer.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/gaurav-prasanna/docpress/core/retry"
)

// waitDelay bounds how long a killed renderer may hold its output pipes.
const waitDelay = 2 * time.Second

// Process describes one invocation of an external program.
type Process struct {
	Command string
	Args    []string
	Dir     string
	// CheckExit makes a non-zero exit status an error. When false the
	// failure is only logged.
	CheckExit bool
}

func (p Process) String() string {
	return strings.Join(append([]string{p.Command}, p.Args...), " ")
}

// Runner executes a process. It is swapped out in tests.
type Runner func(ctx context.Context, p Process) error

// Run executes p with exec.CommandContext. A process killed by the
// context deadline reports retry.ErrTimeout; a cancelled context is
// returned as is, whatever CheckExit says.
func Run(ctx context.Context, p Process) error {
	cmd := exec.CommandContext(ctx, p.Command, p.Args...)
	cmd.Dir = p.Dir
	cmd.WaitDelay = waitDelay

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	slog.Info("Running renderer", "command", p.String(), "dir", p.Dir)
	err := cmd.Run()
	if out.Len() > 0 {
		slog.Debug("Renderer output", "command", p.Command, "output", out.String())
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", retry.ErrTimeout, p.Command)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("running %s: %w", p.Command, ctxErr)
	}
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && !p.CheckExit {
		slog.Warn("Renderer exited with an error", "command", p.Command, "status", exitErr.ExitCode())
		return nil
	}
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%s failed with status %d: %s", p.Command, exitErr.ExitCode(), strings.TrimSpace(out.String()))
	}
	return fmt.Errorf("running %s: %w", p.Command, err)
}
