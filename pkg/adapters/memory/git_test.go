package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drovertool/drover/pkg/domain"
)

func TestGit_PushRejection(t *testing.T) {
	ctx := context.Background()
	g := NewGit(GitFixture{
		Branch:         "feature/x",
		DirtyFiles:     []string{"a.go"},
		RemoteBranches: []string{"feature/x"},
		Behind:         map[string]int{"feature/x": 2},
	})

	require.NoError(t, g.StageAll(ctx))
	require.NoError(t, g.Commit(ctx, "local work"))

	div, err := g.Divergence(ctx, "feature/x")
	require.NoError(t, err)
	assert.True(t, div.Diverged(), "ahead and behind at once")

	err = g.Push(ctx, "feature/x", domain.PushOpts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rejected")

	require.NoError(t, g.Push(ctx, "feature/x", domain.PushOpts{ForceWithLease: true}))

	div, err = g.Divergence(ctx, "feature/x")
	require.NoError(t, err)
	assert.Equal(t, domain.Divergence{RemoteExists: true, Ahead: 0, Behind: 0}, div)
}

func TestGit_UnstagedVersusUntracked(t *testing.T) {
	ctx := context.Background()
	g := NewGit(GitFixture{
		DirtyFiles:   []string{"known.go", "fresh.go"},
		TrackedFiles: []string{"known.go"},
	})

	st, err := g.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TreeStatus{Unstaged: 1, Untracked: 1}, st)
}

func TestGit_CommitWithNothingStaged(t *testing.T) {
	g := NewGit(GitFixture{})
	err := g.Commit(context.Background(), "empty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to commit")
}

func TestGit_RecordsCalls(t *testing.T) {
	ctx := context.Background()
	g := NewGit(GitFixture{DirtyFiles: []string{"a.go"}})

	_, err := g.Status(ctx)
	require.NoError(t, err)
	require.NoError(t, g.StageAll(ctx))
	require.NoError(t, g.Commit(ctx, "work"))

	assert.Equal(t, []string{"Status", "StageAll", "Commit"}, g.Ops())
	assert.Equal(t, []string{"StageAll", "Commit"}, g.Mutations())

	g.Reset()
	assert.Empty(t, g.Calls())
}

func TestForge_AuthFixture(t *testing.T) {
	f := NewForge(ForgeFixture{AuthErr: assert.AnError})
	assert.Error(t, f.AuthStatus(context.Background()))
}

func TestForge_ClosedRequestInvisibleToBranchLookup(t *testing.T) {
	ctx := context.Background()
	f := NewForge(ForgeFixture{
		PullRequests: []domain.PullRequest{{
			Number: 5,
			Head:   "feature/x",
			State:  domain.PullRequestClosed,
		}},
	})

	_, err := f.PullRequestForBranch(ctx, "feature/x")
	assert.ErrorIs(t, err, domain.ErrNoPullRequest)

	// By number the record is still there.
	pr, err := f.PullRequest(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.PullRequestClosed, pr.State)
}

func TestStack_MissingToolFixture(t *testing.T) {
	s := NewStack(StackFixture{AvailableErr: domain.ErrToolNotInstalled})
	assert.ErrorIs(t, s.Available(context.Background()), domain.ErrToolNotInstalled)
}

func TestStack_SubmitReportsConfiguredNumber(t *testing.T) {
	ctx := context.Background()
	s := NewStack(StackFixture{
		Tracked:       []domain.TrackedBranch{{Branch: "feature/x", Parent: "main"}},
		SubmitNumbers: map[string]int{"feature/x": 88},
		SubmitURLs:    map[string]string{"feature/x": "https://codehost.test/acme/widgets/pull/88"},
	})

	sub, err := s.Submit(ctx, "feature/x")
	require.NoError(t, err)
	assert.Equal(t, 88, sub.PRNumber)
	assert.Equal(t, "https://codehost.test/acme/widgets/pull/88", sub.URL)

	rec, err := s.Tracked(ctx, "feature/x")
	require.NoError(t, err)
	assert.Equal(t, sub.URL, rec.URL, "submit backfills the managed record's URL")
}
