package submit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drovertool/drover/pkg/adapters/memory"
	"github.com/drovertool/drover/pkg/domain"
)

func TestCommit_CleanTreeIsANoOp(t *testing.T) {
	w := newWorld(memory.GitFixture{Branch: "feat/x"}, memory.ForgeFixture{}, noStack())

	in := domain.NewState("/repo", "s", domain.StrategyPlain)
	st, stepErr := commit(context.Background(), w.env, in)
	require.Nil(t, stepErr)

	assert.Equal(t, in, st, "nothing to record")
	assert.Equal(t, []string{"Status"}, w.git.Ops(), "one look, no touch")
	assert.Empty(t, w.git.Mutations())
}

func TestCommit_DirtyTreeCommitsOnceThenSettles(t *testing.T) {
	ctx := context.Background()
	w := newWorld(
		memory.GitFixture{
			Branch:       "feat/x",
			DirtyFiles:   []string{"a.go", "b.md"},
			TrackedFiles: []string{"b.md"},
		},
		memory.ForgeFixture{},
		noStack(),
	)

	in := domain.NewState("/repo", "s", domain.StrategyPlain)
	st, stepErr := commit(ctx, w.env, in)
	require.Nil(t, stepErr)

	assert.True(t, st.AutoCommit)
	assert.Equal(t, []string{"StageAll", "Commit"}, w.git.Mutations())
	assert.Contains(t, w.sink.Joined(),
		"Committed outstanding changes (0 staged, 1 unstaged, 1 untracked)")

	subject, err := w.git.HeadSubject(ctx)
	require.NoError(t, err)
	assert.Equal(t, autoCommitMessage, subject)

	// Running the step again finds the tree clean and changes nothing.
	w.git.Reset()
	again, stepErr := commit(ctx, w.env, st)
	require.Nil(t, stepErr)
	assert.Equal(t, st, again)
	assert.Equal(t, []string{"Status"}, w.git.Ops())
	assert.Empty(t, w.git.Mutations())
}
