package ports

import (
	"context"

	"github.com/drovertool/drover/pkg/domain"
)

// Stack is the stacked-branch manager capability.
//
// Tracked returns domain.ErrNotTracked for branches the manager does not
// know about. Available reports domain.ErrToolNotInstalled when the
// manager binary is absent, which the stacked strategy treats as fatal.
type Stack interface {
	// Available checks that the manager can be used at all. It returns
	// domain.ErrToolNotInstalled when the binary is missing.
	Available(ctx context.Context) error

	// Tracked returns the manager's record for branch, or
	// domain.ErrNotTracked when the branch is not under management.
	Tracked(ctx context.Context, branch string) (domain.TrackedBranch, error)

	// Track registers branch with parent as its stack parent.
	// Tracking an already-tracked branch is a no-op.
	Track(ctx context.Context, branch, parent string) error

	// Submit publishes the branch and its stack, creating or updating
	// review requests as the manager sees fit.
	Submit(ctx context.Context, branch string) (domain.StackSubmission, error)

	// Untrack removes branch from the manager without touching git.
	Untrack(ctx context.Context, branch string) error

	// Restack rebases the stack onto its current parents.
	Restack(ctx context.Context, branch string) error
}
