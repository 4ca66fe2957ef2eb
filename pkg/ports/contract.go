package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drovertool/drover/pkg/domain"
)

// GitHarness is one prepared repository for a contract run.
type GitHarness struct {
	Git Git
	// Dir is the working tree under test.
	Dir string
	// Branch is the checked-out feature branch.
	Branch string
	// Trunk is the local trunk branch, behind Branch by at least one commit
	// once the suite commits.
	Trunk string
	// Spare is an extra branch that is safe to delete.
	Spare string
	// File is an uncommitted file present in the tree at seed time.
	File string
	// Remote is true when the harness wired a remote named origin, which
	// enables the push and divergence subtests.
	Remote bool
	// Dirty makes a fresh uncommitted change in the tree so a subtest can
	// commit more than once.
	Dirty func()
}

// RunGitContract verifies a Git implementation against the behavior the
// pipeline depends on. seed must return a fresh, isolated harness per call.
func RunGitContract(t *testing.T, seed func(t *testing.T) GitHarness) {
	ctx := context.Background()

	t.Run("Root and CurrentBranch", func(t *testing.T) {
		h := seed(t)
		root, err := h.Git.Root(ctx, h.Dir)
		require.NoError(t, err)
		assert.Equal(t, h.Dir, root)

		branch, err := h.Git.CurrentBranch(ctx)
		require.NoError(t, err)
		assert.Equal(t, h.Branch, branch)
	})

	t.Run("Status reflects the dirty tree", func(t *testing.T) {
		h := seed(t)
		st, err := h.Git.Status(ctx)
		require.NoError(t, err)
		assert.False(t, st.Clean(), "seed file should leave the tree dirty")
	})

	t.Run("StageAll and Commit clean the tree", func(t *testing.T) {
		h := seed(t)
		require.NoError(t, h.Git.StageAll(ctx))
		require.NoError(t, h.Git.Commit(ctx, "add seed file"))

		st, err := h.Git.Status(ctx)
		require.NoError(t, err)
		assert.True(t, st.Clean())

		subject, err := h.Git.HeadSubject(ctx)
		require.NoError(t, err)
		assert.Equal(t, "add seed file", subject)
	})

	t.Run("AmendMessage rewrites the head subject", func(t *testing.T) {
		h := seed(t)
		require.NoError(t, h.Git.StageAll(ctx))
		require.NoError(t, h.Git.Commit(ctx, "first wording"))
		require.NoError(t, h.Git.AmendMessage(ctx, "second wording"))

		subject, err := h.Git.HeadSubject(ctx)
		require.NoError(t, err)
		assert.Equal(t, "second wording", subject)
	})

	t.Run("CommitsAhead lists work missing from trunk", func(t *testing.T) {
		h := seed(t)
		require.NoError(t, h.Git.StageAll(ctx))
		require.NoError(t, h.Git.Commit(ctx, "branch only work"))

		subjects, err := h.Git.CommitsAhead(ctx, h.Trunk)
		require.NoError(t, err)
		assert.Contains(t, subjects, "branch only work")
	})

	t.Run("Diff against trunk mentions the changed file", func(t *testing.T) {
		h := seed(t)
		require.NoError(t, h.Git.StageAll(ctx))
		require.NoError(t, h.Git.Commit(ctx, "add seed file"))

		diff, err := h.Git.Diff(ctx, h.Trunk)
		require.NoError(t, err)
		assert.Contains(t, diff, h.File)
	})

	t.Run("Checkout is a no-op for the current branch", func(t *testing.T) {
		h := seed(t)
		require.NoError(t, h.Git.Checkout(ctx, h.Branch))

		branch, err := h.Git.CurrentBranch(ctx)
		require.NoError(t, err)
		assert.Equal(t, h.Branch, branch)
	})

	t.Run("Checkout switches branches", func(t *testing.T) {
		h := seed(t)
		require.NoError(t, h.Git.Checkout(ctx, h.Trunk))

		branch, err := h.Git.CurrentBranch(ctx)
		require.NoError(t, err)
		assert.Equal(t, h.Trunk, branch)
	})

	t.Run("DeleteBranch removes a branch", func(t *testing.T) {
		h := seed(t)
		require.NoError(t, h.Git.DeleteBranch(ctx, h.Spare))
		assert.Error(t, h.Git.Checkout(ctx, h.Spare))
	})

	t.Run("Divergence without a remote branch", func(t *testing.T) {
		h := seed(t)
		div, err := h.Git.Divergence(ctx, h.Branch)
		require.NoError(t, err, "a missing remote branch is not an error")
		assert.False(t, div.RemoteExists)
		assert.False(t, div.Diverged())
	})

	t.Run("Push then Divergence sees the remote branch", func(t *testing.T) {
		h := seed(t)
		if !h.Remote {
			t.Skip("harness has no remote")
		}
		require.NoError(t, h.Git.StageAll(ctx))
		require.NoError(t, h.Git.Commit(ctx, "push me"))
		require.NoError(t, h.Git.Push(ctx, h.Branch, domain.PushOpts{SetUpstream: true}))

		div, err := h.Git.Divergence(ctx, h.Branch)
		require.NoError(t, err)
		assert.True(t, div.RemoteExists)
		assert.Equal(t, 0, div.Ahead)
		assert.Equal(t, 0, div.Behind)

		require.NoError(t, h.Git.Fetch(ctx))
	})

	t.Run("Local commit after push is ahead", func(t *testing.T) {
		h := seed(t)
		if !h.Remote {
			t.Skip("harness has no remote")
		}
		require.NoError(t, h.Git.StageAll(ctx))
		require.NoError(t, h.Git.Commit(ctx, "first"))
		require.NoError(t, h.Git.Push(ctx, h.Branch, domain.PushOpts{SetUpstream: true}))

		h.Dirty()
		require.NoError(t, h.Git.StageAll(ctx))
		require.NoError(t, h.Git.Commit(ctx, "second"))

		div, err := h.Git.Divergence(ctx, h.Branch)
		require.NoError(t, err)
		assert.True(t, div.RemoteExists)
		assert.Equal(t, 1, div.Ahead)
		assert.Equal(t, 0, div.Behind)
	})
}

// ForgeHarness is one seeded code host for a contract run.
type ForgeHarness struct {
	Forge Forge
	// Existing is an open review request present at seed time.
	Existing domain.PullRequest
	// Plan is an issue present at seed time.
	Plan domain.Issue
	// DefaultBranch is the host's default branch name.
	DefaultBranch string
}

// RunForgeContract verifies a Forge implementation. seed must return a
// fresh, isolated harness per call.
func RunForgeContract(t *testing.T, seed func(t *testing.T) ForgeHarness) {
	ctx := context.Background()

	t.Run("AuthStatus", func(t *testing.T) {
		h := seed(t)
		assert.NoError(t, h.Forge.AuthStatus(ctx))
	})

	t.Run("DefaultBranch", func(t *testing.T) {
		h := seed(t)
		branch, err := h.Forge.DefaultBranch(ctx)
		require.NoError(t, err)
		assert.Equal(t, h.DefaultBranch, branch)
	})

	t.Run("PullRequestForBranch finds the seeded request", func(t *testing.T) {
		h := seed(t)
		pr, err := h.Forge.PullRequestForBranch(ctx, h.Existing.Head)
		require.NoError(t, err)
		assert.Equal(t, h.Existing.Number, pr.Number)
		assert.Equal(t, h.Existing.URL, pr.URL)
	})

	t.Run("PullRequestForBranch on an unknown branch", func(t *testing.T) {
		h := seed(t)
		_, err := h.Forge.PullRequestForBranch(ctx, "no-such-branch")
		assert.ErrorIs(t, err, domain.ErrNoPullRequest)
	})

	t.Run("PullRequest by number", func(t *testing.T) {
		h := seed(t)
		pr, err := h.Forge.PullRequest(ctx, h.Existing.Number)
		require.NoError(t, err)
		assert.Equal(t, h.Existing.Head, pr.Head)

		_, err = h.Forge.PullRequest(ctx, 99999999)
		assert.ErrorIs(t, err, domain.ErrNoPullRequest)
	})

	t.Run("Issue by number", func(t *testing.T) {
		h := seed(t)
		issue, err := h.Forge.Issue(ctx, h.Plan.Number)
		require.NoError(t, err)
		assert.Equal(t, h.Plan.Title, issue.Title)

		_, err = h.Forge.Issue(ctx, 99999999)
		assert.ErrorIs(t, err, domain.ErrNoIssue)
	})

	t.Run("CreatePullRequest then find it by branch", func(t *testing.T) {
		h := seed(t)
		created, err := h.Forge.CreatePullRequest(ctx, domain.NewPullRequest{
			Head:  "contract/new-branch",
			Base:  h.DefaultBranch,
			Title: "contract: new request",
			Body:  "created by the contract suite",
		})
		require.NoError(t, err)
		assert.Greater(t, created.Number, 0)
		assert.NotEmpty(t, created.URL)

		found, err := h.Forge.PullRequestForBranch(ctx, "contract/new-branch")
		require.NoError(t, err)
		assert.Equal(t, created.Number, found.Number)
	})

	t.Run("UpdatePullRequest patches selected fields", func(t *testing.T) {
		h := seed(t)
		title := "contract: retitled"
		err := h.Forge.UpdatePullRequest(ctx, h.Existing.Number, domain.PullRequestPatch{Title: &title})
		require.NoError(t, err)

		pr, err := h.Forge.PullRequest(ctx, h.Existing.Number)
		require.NoError(t, err)
		assert.Equal(t, "contract: retitled", pr.Title)
		assert.Equal(t, h.Existing.Body, pr.Body, "unpatched fields stay put")
	})

	t.Run("AddLabels", func(t *testing.T) {
		h := seed(t)
		err := h.Forge.AddLabels(ctx, h.Existing.Number, []string{"automated"})
		require.NoError(t, err)

		pr, err := h.Forge.PullRequest(ctx, h.Existing.Number)
		require.NoError(t, err)
		assert.Contains(t, pr.Labels, "automated")
	})

	t.Run("Merge closes the request as merged", func(t *testing.T) {
		h := seed(t)
		err := h.Forge.Merge(ctx, h.Existing.Number, domain.MergeOpts{Method: domain.MergeSquash})
		require.NoError(t, err)

		pr, err := h.Forge.PullRequest(ctx, h.Existing.Number)
		require.NoError(t, err)
		assert.Equal(t, domain.PullRequestMerged, pr.State)
	})

	t.Run("ClosePullRequest", func(t *testing.T) {
		h := seed(t)
		err := h.Forge.ClosePullRequest(ctx, h.Existing.Number)
		require.NoError(t, err)

		pr, err := h.Forge.PullRequest(ctx, h.Existing.Number)
		require.NoError(t, err)
		assert.Equal(t, domain.PullRequestClosed, pr.State)
	})
}

// StackHarness is one seeded stacking manager for a contract run.
type StackHarness struct {
	Stack Stack
	// Tracked is a branch already under management at seed time.
	Tracked domain.TrackedBranch
	// Untracked is a branch the manager does not know about.
	Untracked string
	// Parent is a valid parent for tracking Untracked.
	Parent string
}

// RunStackContract verifies a Stack implementation. seed must return a
// fresh, isolated harness per call.
func RunStackContract(t *testing.T, seed func(t *testing.T) StackHarness) {
	ctx := context.Background()

	t.Run("Available", func(t *testing.T) {
		h := seed(t)
		assert.NoError(t, h.Stack.Available(ctx))
	})

	t.Run("Tracked returns the managed record", func(t *testing.T) {
		h := seed(t)
		rec, err := h.Stack.Tracked(ctx, h.Tracked.Branch)
		require.NoError(t, err)
		assert.Equal(t, h.Tracked.Parent, rec.Parent)
	})

	t.Run("Tracked on an unmanaged branch", func(t *testing.T) {
		h := seed(t)
		_, err := h.Stack.Tracked(ctx, h.Untracked)
		assert.ErrorIs(t, err, domain.ErrNotTracked)
	})

	t.Run("Track registers a branch", func(t *testing.T) {
		h := seed(t)
		require.NoError(t, h.Stack.Track(ctx, h.Untracked, h.Parent))

		rec, err := h.Stack.Tracked(ctx, h.Untracked)
		require.NoError(t, err)
		assert.Equal(t, h.Parent, rec.Parent)
	})

	t.Run("Track twice is a no-op", func(t *testing.T) {
		h := seed(t)
		require.NoError(t, h.Stack.Track(ctx, h.Untracked, h.Parent))
		require.NoError(t, h.Stack.Track(ctx, h.Untracked, h.Parent))
	})

	t.Run("Submit publishes the stack", func(t *testing.T) {
		h := seed(t)
		sub, err := h.Stack.Submit(ctx, h.Tracked.Branch)
		require.NoError(t, err)
		assert.NotEmpty(t, sub.URL)
	})

	t.Run("Untrack forgets the branch", func(t *testing.T) {
		h := seed(t)
		require.NoError(t, h.Stack.Untrack(ctx, h.Tracked.Branch))

		_, err := h.Stack.Tracked(ctx, h.Tracked.Branch)
		assert.ErrorIs(t, err, domain.ErrNotTracked)
	})

	t.Run("Restack succeeds on a managed branch", func(t *testing.T) {
		h := seed(t)
		assert.NoError(t, h.Stack.Restack(ctx, h.Tracked.Branch))
	})
}
