package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/domain"
)

// StatusOptions contains the configuration for the status command.
type StatusOptions struct {
	Dir   string
	Debug bool

	// Test seams.
	out        io.Writer
	envOptions []drover.Option
}

// Status prints a read-only report of the branch, working tree, remote
// divergence, review request, and stack tracking. It mutates nothing
// and takes no lock.
func Status(ctx context.Context, opts StatusOptions) error {
	out := opts.out
	if out == nil {
		out = os.Stdout
	}
	term := NewTerminal(out)

	ws, err := setup(ctx, opts.Dir, opts.Debug, term, opts.envOptions...)
	if err != nil {
		term.Fail("%v", err)
		return errReported
	}

	branch, err := ws.env.Git.CurrentBranch(ctx)
	if err != nil {
		term.Fail("cannot determine the current branch: %v", err)
		return errReported
	}
	term.Say("Branch:  %s", branch)

	if tree, err := ws.env.Git.Status(ctx); err != nil {
		term.Warn("Tree:    unreadable: %v", err)
	} else {
		term.Say("Tree:    %s", describeTree(tree))
	}

	if div, err := ws.env.Git.Divergence(ctx, branch); err != nil {
		term.Warn("Remote:  unreadable: %v", err)
	} else {
		term.Say("Remote:  %s", describeDivergence(div))
	}

	switch pr, err := ws.env.Forge.PullRequestForBranch(ctx, branch); {
	case err == nil:
		term.Say("Request: #%d %s (%s)", pr.Number, pr.Title, pr.URL)
	case errors.Is(err, domain.ErrNoPullRequest):
		term.Say("Request: none")
	default:
		term.Warn("Request: unreadable: %v", err)
	}

	term.Say("Stack:   %s", describeStack(ctx, ws, branch))
	return nil
}

func describeTree(tree domain.TreeStatus) string {
	if tree.Clean() {
		return "clean"
	}
	return fmt.Sprintf("%d staged, %d unstaged, %d untracked",
		tree.Staged, tree.Unstaged, tree.Untracked)
}

func describeDivergence(div domain.Divergence) string {
	switch {
	case !div.RemoteExists:
		return "not pushed yet"
	case div.Ahead == 0 && div.Behind == 0:
		return "in sync"
	default:
		return fmt.Sprintf("%d ahead, %d behind", div.Ahead, div.Behind)
	}
}

func describeStack(ctx context.Context, ws *workspace, branch string) string {
	if err := ws.env.Stack.Available(ctx); err != nil {
		if errors.Is(err, domain.ErrToolNotInstalled) {
			return "manager not installed"
		}
		return fmt.Sprintf("manager unreadable: %v", err)
	}
	rec, err := ws.env.Stack.Tracked(ctx, branch)
	if err != nil {
		if errors.Is(err, domain.ErrNotTracked) {
			return "not tracked"
		}
		return fmt.Sprintf("unreadable: %v", err)
	}
	if rec.URL != "" {
		return fmt.Sprintf("tracked under %s (%s)", rec.Parent, rec.URL)
	}
	return fmt.Sprintf("tracked under %s", rec.Parent)
}
