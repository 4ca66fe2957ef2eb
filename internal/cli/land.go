package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/domain"
)

// LandOptions contains the configuration for the land command.
type LandOptions struct {
	Dir        string
	Method     string
	KeepBranch bool
	Debug      bool

	// Test seams.
	out        io.Writer
	envOptions []drover.Option
}

// Land merges the current branch's review request, returns the checkout
// to the trunk branch, and retires the branch locally and in the stack
// manager. Like Submit it renders its own failures.
func Land(ctx context.Context, opts LandOptions) error {
	out := opts.out
	if out == nil {
		out = os.Stdout
	}
	term := NewTerminal(out)

	method, ok := mergeMethod(opts.Method)
	if !ok {
		term.Fail("unknown merge method %q, want squash, merge, or rebase", opts.Method)
		return errReported
	}

	ws, err := setup(ctx, opts.Dir, opts.Debug, term, opts.envOptions...)
	if err != nil {
		term.Fail("%v", err)
		return errReported
	}

	err = ws.withRepoLock(ctx, func(ctx context.Context) error {
		return land(ctx, ws, method, opts.KeepBranch)
	})
	if err != nil {
		if !errors.Is(err, errReported) {
			term.Fail("%v", err)
		}
		return errReported
	}
	return nil
}

func land(ctx context.Context, ws *workspace, method domain.MergeMethod, keepBranch bool) error {
	term := ws.term

	branch, err := ws.env.Git.CurrentBranch(ctx)
	if err != nil {
		term.Fail("cannot determine the current branch: %v", err)
		return errReported
	}

	trunk := ws.cfg.Trunk
	if trunk == "" {
		if trunk, err = ws.env.Forge.DefaultBranch(ctx); err != nil {
			ws.logger.Debug("default branch lookup failed, assuming main", "err", err)
			trunk = "main"
		}
	}
	if branch == trunk {
		term.Fail("already on %s, nothing to land", trunk)
		return errReported
	}

	pr, err := ws.env.Forge.PullRequestForBranch(ctx, branch)
	if err != nil {
		if errors.Is(err, domain.ErrNoPullRequest) {
			term.Fail("no open pull request for %s, submit it first", branch)
		} else {
			term.Fail("cannot look up the pull request for %s: %v", branch, err)
		}
		return errReported
	}

	mergeOpts := domain.MergeOpts{Method: method, DeleteBranch: !keepBranch}
	if err := ws.env.Forge.Merge(ctx, pr.Number, mergeOpts); err != nil {
		term.Fail("cannot merge pull request #%d: %v", pr.Number, err)
		return errReported
	}
	term.Say("Merged pull request #%d into %s", pr.Number, pr.Base)

	if err := ws.env.Git.Checkout(ctx, trunk); err != nil {
		term.Warn("Could not switch to %s: %v", trunk, err)
		return nil
	}

	if !keepBranch {
		if err := ws.env.Git.DeleteBranch(ctx, branch); err != nil {
			term.Warn("Could not delete %s locally: %v", branch, err)
		}
		untrack(ctx, ws, branch)
	}

	term.Say("Landed %s", branch)
	return nil
}

// untrack removes the branch from the stack manager when it is tracked
// there. Every miss is fine: no manager, unmanaged branch, or a manager
// that already noticed the merge.
func untrack(ctx context.Context, ws *workspace, branch string) {
	if err := ws.env.Stack.Available(ctx); err != nil {
		return
	}
	if _, err := ws.env.Stack.Tracked(ctx, branch); err != nil {
		return
	}
	if err := ws.env.Stack.Untrack(ctx, branch); err != nil {
		ws.term.Warn("Could not untrack %s from the stack manager: %v", branch, err)
	}
}

func mergeMethod(name string) (domain.MergeMethod, bool) {
	switch name {
	case "", "squash":
		return domain.MergeSquash, true
	case "merge":
		return domain.MergeMerge, true
	case "rebase":
		return domain.MergeRebase, true
	default:
		return "", false
	}
}
