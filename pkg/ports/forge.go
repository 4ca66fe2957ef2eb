package ports

import (
	"context"

	"github.com/drovertool/drover/pkg/domain"
)

// Forge is the code-hosting capability.
//
// Lookups return domain sentinels (ErrNoPullRequest, ErrNoIssue) for the
// ordinary "does not exist" case; callers branch on those with errors.Is
// instead of treating them as failures.
type Forge interface {
	// AuthStatus verifies the stored credentials. It returns nil when
	// authenticated and an error describing the problem otherwise.
	AuthStatus(ctx context.Context) error

	// PullRequestForBranch finds the open review request whose head is
	// branch. Returns domain.ErrNoPullRequest when there is none.
	PullRequestForBranch(ctx context.Context, branch string) (domain.PullRequest, error)

	// PullRequest fetches a review request by number. Returns
	// domain.ErrNoPullRequest when it does not exist.
	PullRequest(ctx context.Context, number int) (domain.PullRequest, error)

	// Issue fetches an issue by number. Returns domain.ErrNoIssue when
	// it does not exist.
	Issue(ctx context.Context, number int) (domain.Issue, error)

	// DefaultBranch returns the repository's default branch name.
	DefaultBranch(ctx context.Context) (string, error)

	// CreatePullRequest opens a review request and returns it.
	CreatePullRequest(ctx context.Context, pr domain.NewPullRequest) (domain.PullRequest, error)

	// UpdatePullRequest applies the patch to an existing review request.
	UpdatePullRequest(ctx context.Context, number int, patch domain.PullRequestPatch) error

	// AddLabels attaches labels to a review request, creating none.
	AddLabels(ctx context.Context, number int, labels []string) error

	// Merge lands a review request.
	Merge(ctx context.Context, number int, opts domain.MergeOpts) error

	// ClosePullRequest closes a review request without merging.
	ClosePullRequest(ctx context.Context, number int) error
}
