package ports

import (
	"context"

	"github.com/drovertool/drover/pkg/domain"
)

// Git is the version control capability.
//
// Queries never mutate repository state. Mutations report failure as an
// error value; the ordinary "nothing to do" cases (checkout of the
// current branch, push of an up-to-date ref) are successes, not errors.
type Git interface {
	// Root returns the absolute path of the repository containing dir.
	Root(ctx context.Context, dir string) (string, error)

	// CurrentBranch returns the checked-out branch name.
	CurrentBranch(ctx context.Context) (string, error)

	// Status summarizes the working tree.
	Status(ctx context.Context) (domain.TreeStatus, error)

	// Divergence compares branch with its remote counterpart. A missing
	// remote branch is reported via RemoteExists, not as an error.
	Divergence(ctx context.Context, branch string) (domain.Divergence, error)

	// Diff returns the unified diff of HEAD against base.
	Diff(ctx context.Context, base string) (string, error)

	// CommitsAhead returns the subjects of commits on HEAD that base
	// does not have, newest first.
	CommitsAhead(ctx context.Context, base string) ([]string, error)

	// HeadSubject returns the subject line of the HEAD commit.
	HeadSubject(ctx context.Context) (string, error)

	// RemoteURL returns the push URL of the configured remote.
	RemoteURL(ctx context.Context) (string, error)

	// StageAll stages every change in the working tree.
	StageAll(ctx context.Context) error

	// Commit records the staged changes with the given message.
	Commit(ctx context.Context, message string) error

	// AmendMessage rewrites the HEAD commit's message without touching
	// its content.
	AmendMessage(ctx context.Context, message string) error

	// Push publishes branch to the remote.
	Push(ctx context.Context, branch string, opts domain.PushOpts) error

	// Checkout switches to branch. Already being on it is a success.
	Checkout(ctx context.Context, branch string) error

	// DeleteBranch removes a local branch.
	DeleteBranch(ctx context.Context, branch string) error

	// Fetch updates remote tracking refs.
	Fetch(ctx context.Context) error
}
