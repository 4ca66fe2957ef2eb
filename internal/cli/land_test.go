package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drovertool/drover/pkg/adapters/memory"
	"github.com/drovertool/drover/pkg/domain"
)

func landWorld(sfx memory.StackFixture) *commandWorld {
	return newCommandWorld(memory.GitFixture{
		Root:     "/repo",
		Branch:   "feat/x",
		Branches: []string{"main"},
	}, memory.ForgeFixture{
		PullRequests: []domain.PullRequest{
			{Number: 5, Head: "feat/x", Base: "main", Title: "Add retries"},
		},
	}, sfx)
}

func TestLand_MergesAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	writeCommandSettings(t, dir, "")
	w := landWorld(noManager())

	err := Land(context.Background(), LandOptions{Dir: dir, out: w.out, envOptions: w.options()})

	require.NoError(t, err)
	out := w.out.String()
	assert.Contains(t, out, "Merged pull request #5 into main")
	assert.Contains(t, out, "Landed feat/x")

	assert.Equal(t, []string{"Merge"}, w.forge.Mutations())
	assert.Equal(t, []string{"Checkout", "DeleteBranch"}, w.git.Mutations())

	pr, err := w.forge.PullRequest(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, domain.PullRequestMerged, pr.State)

	branch, err := w.git.CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestLand_KeepBranchSkipsDeletion(t *testing.T) {
	dir := t.TempDir()
	writeCommandSettings(t, dir, "")
	w := landWorld(noManager())

	err := Land(context.Background(), LandOptions{Dir: dir, KeepBranch: true, out: w.out, envOptions: w.options()})

	require.NoError(t, err)
	assert.Equal(t, []string{"Checkout"}, w.git.Mutations())
	assert.Empty(t, w.stack.Mutations())
}

func TestLand_UntracksManagedBranch(t *testing.T) {
	dir := t.TempDir()
	writeCommandSettings(t, dir, "")
	w := landWorld(memory.StackFixture{
		Tracked: []domain.TrackedBranch{{Branch: "feat/x", Parent: "main"}},
	})

	err := Land(context.Background(), LandOptions{Dir: dir, out: w.out, envOptions: w.options()})

	require.NoError(t, err)
	assert.Equal(t, []string{"Untrack"}, w.stack.Mutations())
	_, terr := w.stack.Tracked(context.Background(), "feat/x")
	assert.ErrorIs(t, terr, domain.ErrNotTracked)
}

func TestLand_NoPullRequest(t *testing.T) {
	dir := t.TempDir()
	writeCommandSettings(t, dir, "")
	w := newCommandWorld(memory.GitFixture{
		Root:     "/repo",
		Branch:   "feat/orphan",
		Branches: []string{"main"},
	}, memory.ForgeFixture{}, noManager())

	err := Land(context.Background(), LandOptions{Dir: dir, out: w.out, envOptions: w.options()})

	require.Error(t, err)
	assert.Contains(t, w.out.String(), "no open pull request for feat/orphan")
	assert.Empty(t, w.forge.Mutations())
	assert.Empty(t, w.git.Mutations())
}

func TestLand_RefusesOnTrunk(t *testing.T) {
	dir := t.TempDir()
	writeCommandSettings(t, dir, "")
	w := newCommandWorld(memory.GitFixture{Root: "/repo", Branch: "main"}, memory.ForgeFixture{}, noManager())

	err := Land(context.Background(), LandOptions{Dir: dir, out: w.out, envOptions: w.options()})

	require.Error(t, err)
	assert.Contains(t, w.out.String(), "already on main")
}

func TestLand_UnknownMethod(t *testing.T) {
	w := newCommandWorld(memory.GitFixture{}, memory.ForgeFixture{}, noManager())

	err := Land(context.Background(), LandOptions{Dir: t.TempDir(), Method: "fast-forward", out: w.out, envOptions: w.options()})

	require.Error(t, err)
	assert.Contains(t, w.out.String(), "unknown merge method")
}
