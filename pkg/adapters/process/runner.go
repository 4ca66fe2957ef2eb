// Package process executes the external tools the live gateways drive.
//
// Every live adapter funnels its subprocess calls through one Execer so
// that command construction, environment, output capture, and the
// tool-missing sentinel behave the same for git, the code host CLI, and
// the stacking manager. Tests substitute a Script for the real Runner.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/drovertool/drover/pkg/domain"
)

// Result is the decoded outcome of one finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Ok reports whether the command exited zero.
func (r Result) Ok() bool { return r.ExitCode == 0 }

// Execer runs one external command to completion.
//
// A nonzero exit is data, not an error: it comes back in Result so the
// caller can decode tool-specific failure text. The error return is
// reserved for commands that never ran, including the missing-binary
// case which maps to domain.ErrToolNotInstalled.
type Execer interface {
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
}

// Runner is the live Execer backed by os/exec.
//
// Processes get no stdin, so tools that would prompt fail fast instead
// of hanging the pipeline.
type Runner struct {
	env    []string
	logger *slog.Logger
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithEnv appends extra KEY=VALUE entries to the inherited environment.
func WithEnv(extra ...string) RunnerOption {
	return func(r *Runner) {
		r.env = append(r.env, extra...)
	}
}

// WithLogger enables debug logging of every spawned command.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a live Execer.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes name with args in dir and captures both output streams.
func (r *Runner) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if r.logger != nil {
		r.logger.DebugContext(ctx, "ran command",
			"cmd", name,
			"args", strings.Join(args, " "),
			"dir", dir,
			"duration", elapsed,
		)
	}

	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		return res, ctx.Err()
	case errors.Is(err, exec.ErrNotFound):
		return res, fmt.Errorf("%s: %w", name, domain.ErrToolNotInstalled)
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	default:
		return res, fmt.Errorf("run %s: %w", name, err)
	}
}
