package dryrun

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drovertool/drover/pkg/adapters/memory"
	"github.com/drovertool/drover/pkg/domain"
)

// captureSink records rendered messages.
type captureSink struct {
	said   []string
	warned []string
}

func (c *captureSink) Say(format string, args ...any) {
	c.said = append(c.said, fmt.Sprintf(format, args...))
}

func (c *captureSink) Warn(format string, args ...any) {
	c.warned = append(c.warned, fmt.Sprintf(format, args...))
}

func TestGit_MutationsNeverReachInner(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewGit(memory.GitFixture{
		Branch:     "feature/x",
		Branches:   []string{"main"},
		DirtyFiles: []string{"a.go", "b.go"},
	})
	sink := &captureSink{}
	g := NewGit(inner, sink)

	require.NoError(t, g.StageAll(ctx))
	require.NoError(t, g.Commit(ctx, "work"))
	require.NoError(t, g.AmendMessage(ctx, "reworded"))
	require.NoError(t, g.Push(ctx, "feature/x", domain.PushOpts{SetUpstream: true}))
	require.NoError(t, g.Checkout(ctx, "main"))
	require.NoError(t, g.DeleteBranch(ctx, "main"))
	require.NoError(t, g.Fetch(ctx))

	assert.Empty(t, inner.Mutations(), "no mutating call may reach the wrapped gateway")

	st, err := g.Status(ctx)
	require.NoError(t, err)
	assert.False(t, st.Clean(), "the tree is untouched")

	branch, err := g.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "feature/x", branch)

	assert.Contains(t, sink.said, "dry-run: would stage 2 path(s)")
	assert.Contains(t, sink.said, `dry-run: would commit staged changes as "work"`)
	assert.Contains(t, sink.said, "dry-run: would push feature/x and create its remote branch")
}

func TestGit_ReadsDelegate(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewGit(memory.GitFixture{
		Branch:         "feature/x",
		RemoteBranches: []string{"feature/x"},
		Behind:         map[string]int{"feature/x": 1},
	})
	g := NewGit(inner, &captureSink{})

	div, err := g.Divergence(ctx, "feature/x")
	require.NoError(t, err)
	assert.Equal(t, domain.Divergence{RemoteExists: true, Behind: 1}, div)

	root, err := g.Root(ctx, "/repo")
	require.NoError(t, err)
	assert.Equal(t, "/repo", root)
}

func TestForge_CreateReturnsShapeEqualResult(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewForge(memory.ForgeFixture{DefaultBranch: "main"})
	sink := &captureSink{}
	f := NewForge(inner, sink)

	pr, err := f.CreatePullRequest(ctx, domain.NewPullRequest{
		Head:  "feature/x",
		Base:  "main",
		Title: "Add retries",
		Body:  "body",
	})
	require.NoError(t, err)
	assert.Zero(t, pr.Number, "the host never assigned a number")
	assert.Empty(t, pr.URL)
	assert.Equal(t, "feature/x", pr.Head)
	assert.Equal(t, domain.PullRequestOpen, pr.State)

	assert.Empty(t, inner.Mutations())
	assert.Contains(t, sink.said, `dry-run: would open review request "Add retries" (feature/x -> main)`)
}

func TestForge_MutationsIntercepted(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewForge(memory.ForgeFixture{
		PullRequests: []domain.PullRequest{{Number: 5, Head: "feature/x"}},
	})
	sink := &captureSink{}
	f := NewForge(inner, sink)

	title := "Retitled"
	require.NoError(t, f.UpdatePullRequest(ctx, 5, domain.PullRequestPatch{Title: &title}))
	require.NoError(t, f.AddLabels(ctx, 5, []string{"automated"}))
	require.NoError(t, f.Merge(ctx, 5, domain.MergeOpts{}))
	require.NoError(t, f.ClosePullRequest(ctx, 5))

	assert.Empty(t, inner.Mutations())

	pr, err := f.PullRequest(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, pr.Labels)
	assert.Equal(t, domain.PullRequestOpen, pr.State)

	assert.Contains(t, sink.said, "dry-run: would update title of review request #5")
	assert.Contains(t, sink.said, "dry-run: would merge review request #5 (squash)")
}

func TestStack_TrackPreview(t *testing.T) {
	ctx := context.Background()

	t.Run("untracked branch announces the intent", func(t *testing.T) {
		inner := memory.NewStack(memory.StackFixture{})
		sink := &captureSink{}
		s := NewStack(inner, sink)

		require.NoError(t, s.Track(ctx, "feature/x", "main"))
		assert.Empty(t, inner.Mutations())
		assert.Contains(t, sink.said, "dry-run: would track feature/x onto main")
	})

	t.Run("already tracked branch stays quiet", func(t *testing.T) {
		inner := memory.NewStack(memory.StackFixture{
			Tracked: []domain.TrackedBranch{{Branch: "feature/x", Parent: "main"}},
		})
		sink := &captureSink{}
		s := NewStack(inner, sink)

		require.NoError(t, s.Track(ctx, "feature/x", "main"))
		assert.Empty(t, sink.said)
	})
}

func TestStack_SubmitPreviewReusesKnownURL(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStack(memory.StackFixture{
		Tracked: []domain.TrackedBranch{{
			Branch: "feature/x",
			Parent: "main",
			URL:    "https://stacks.test/feature/x",
		}},
	})
	s := NewStack(inner, &captureSink{})

	sub, err := s.Submit(ctx, "feature/x")
	require.NoError(t, err)
	assert.Equal(t, "https://stacks.test/feature/x", sub.URL)
	assert.Empty(t, inner.Mutations())
}
