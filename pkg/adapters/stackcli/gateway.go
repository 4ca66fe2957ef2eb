// Package stackcli is the live stacked-branch manager gateway. It drives
// a Graphite-style CLI, gt by default, and passes the manager's
// non-interactive flag on every mutation so a prompt can never hang the
// pipeline.
package stackcli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/drovertool/drover/pkg/adapters/process"
	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/ports"
)

const nonInteractive = "--no-interactive"

// Gateway implements ports.Stack by spawning the manager binary in a
// fixed working tree.
type Gateway struct {
	dir  string
	bin  string
	exec process.Execer
}

var _ ports.Stack = (*Gateway)(nil)

// Option configures the gateway.
type Option func(*Gateway)

// WithExecer substitutes the subprocess executor.
func WithExecer(e process.Execer) Option {
	return func(g *Gateway) { g.exec = e }
}

// WithBinary overrides the manager binary name, gt by default.
func WithBinary(bin string) Option {
	return func(g *Gateway) { g.bin = bin }
}

// New creates a live stacking gateway rooted at dir.
func New(dir string, opts ...Option) *Gateway {
	g := &Gateway{
		dir:  dir,
		bin:  "gt",
		exec: process.NewRunner(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) run(ctx context.Context, args ...string) (process.Result, error) {
	return g.exec.Run(ctx, g.dir, g.bin, args...)
}

func toolMessage(res process.Result) string {
	msg := strings.TrimSpace(res.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(res.Stdout)
	}
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", res.ExitCode)
	}
	return msg
}

// Available probes the manager binary. A missing binary comes back as
// domain.ErrToolNotInstalled; an uninitialized repository surfaces on
// the first real call instead.
func (g *Gateway) Available(ctx context.Context) error {
	res, err := g.run(ctx, "--version")
	if err != nil {
		return err
	}
	if !res.Ok() {
		return fmt.Errorf("%s --version: %s", g.bin, toolMessage(res))
	}
	return nil
}

// Tracked returns the manager's record for branch. The manager reports
// the parent on a "Parent:" line and, when it has one, a web view URL.
func (g *Gateway) Tracked(ctx context.Context, branch string) (domain.TrackedBranch, error) {
	res, err := g.run(ctx, "branch", "info", branch)
	if err != nil {
		return domain.TrackedBranch{}, err
	}
	if !res.Ok() {
		if strings.Contains(res.Stderr+res.Stdout, "not tracked") {
			return domain.TrackedBranch{}, fmt.Errorf("%s: %w", branch, domain.ErrNotTracked)
		}
		return domain.TrackedBranch{}, fmt.Errorf("%s branch info: %s", g.bin, toolMessage(res))
	}

	rec := domain.TrackedBranch{Branch: branch}
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "Parent:"); ok {
			fields := strings.Fields(after)
			if len(fields) > 0 {
				rec.Parent = fields[0]
			}
			continue
		}
		if rec.URL == "" {
			if url := firstURL(line); url != "" {
				rec.URL = url
			}
		}
	}
	return rec, nil
}

func firstURL(line string) string {
	for _, f := range strings.Fields(line) {
		if strings.HasPrefix(f, "http://") || strings.HasPrefix(f, "https://") {
			return f
		}
	}
	return ""
}

// Track registers branch with parent. Tracking a branch the manager
// already knows is a success.
func (g *Gateway) Track(ctx context.Context, branch, parent string) error {
	res, err := g.run(ctx, "branch", "track", branch, "--parent", parent, nonInteractive)
	if err != nil {
		return err
	}
	if !res.Ok() {
		if strings.Contains(res.Stderr+res.Stdout, "already tracked") {
			return nil
		}
		return fmt.Errorf("%s branch track: %s", g.bin, toolMessage(res))
	}
	return nil
}

// Submit publishes branch and its stack. The manager prints the stack's
// web view; the review request number is recovered from that URL when it
// points straight at a request.
func (g *Gateway) Submit(ctx context.Context, branch string) (domain.StackSubmission, error) {
	res, err := g.run(ctx, "submit", branch, nonInteractive)
	if err != nil {
		return domain.StackSubmission{}, err
	}
	if !res.Ok() {
		return domain.StackSubmission{}, fmt.Errorf("%s submit: %s", g.bin, toolMessage(res))
	}

	sub := domain.StackSubmission{}
	for _, line := range strings.Split(res.Stdout, "\n") {
		if url := firstURL(line); url != "" {
			sub.URL = url
			sub.PRNumber = requestNumber(url)
			break
		}
	}
	return sub, nil
}

// requestNumber pulls the review request number out of URLs of the form
// .../pull/123, or 0 when the URL points elsewhere.
func requestNumber(url string) int {
	idx := strings.LastIndex(url, "/pull/")
	if idx < 0 {
		return 0
	}
	tail := url[idx+len("/pull/"):]
	if cut := strings.IndexAny(tail, "/?#"); cut >= 0 {
		tail = tail[:cut]
	}
	n, err := strconv.Atoi(tail)
	if err != nil {
		return 0
	}
	return n
}

// Untrack removes branch from the manager without touching git.
func (g *Gateway) Untrack(ctx context.Context, branch string) error {
	res, err := g.run(ctx, "branch", "untrack", branch, nonInteractive)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return fmt.Errorf("%s branch untrack: %s", g.bin, toolMessage(res))
	}
	return nil
}

// Restack rebases branch's stack onto its current parents.
func (g *Gateway) Restack(ctx context.Context, branch string) error {
	res, err := g.run(ctx, "restack", branch, nonInteractive)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return fmt.Errorf("%s restack: %s", g.bin, toolMessage(res))
	}
	return nil
}
