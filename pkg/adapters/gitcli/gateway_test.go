package gitcli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drovertool/drover/pkg/adapters/process"
	"github.com/drovertool/drover/pkg/domain"
)

func TestGateway_Status(t *testing.T) {
	ctx := context.Background()
	script := process.NewScript().Stub("git status --porcelain",
		process.Result{Stdout: " M edited.go\nM  staged.go\nMM both.go\n?? new.go\n"})
	g := New("/repo", WithExecer(script))

	st, err := g.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TreeStatus{Staged: 2, Unstaged: 2, Untracked: 1}, st)
	assert.False(t, st.Clean())
}

func TestGateway_StatusClean(t *testing.T) {
	script := process.NewScript().Stub("git status --porcelain", process.Result{})
	g := New("/repo", WithExecer(script))

	st, err := g.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Clean())
}

func TestGateway_Divergence(t *testing.T) {
	ctx := context.Background()

	t.Run("missing remote branch is a plain answer", func(t *testing.T) {
		script := process.NewScript().
			Stub("git rev-parse --verify --quiet origin/feat", process.Result{ExitCode: 1})
		g := New("/repo", WithExecer(script))

		div, err := g.Divergence(ctx, "feat")
		require.NoError(t, err)
		assert.False(t, div.RemoteExists)
		assert.False(t, div.Diverged())
	})

	t.Run("counts ahead and behind", func(t *testing.T) {
		script := process.NewScript().
			Stub("git rev-parse --verify --quiet origin/feat", process.Result{Stdout: "abc123\n"}).
			Stub("git rev-list --left-right --count feat...origin/feat", process.Result{Stdout: "2\t1\n"})
		g := New("/repo", WithExecer(script))

		div, err := g.Divergence(ctx, "feat")
		require.NoError(t, err)
		assert.Equal(t, domain.Divergence{RemoteExists: true, Ahead: 2, Behind: 1}, div)
		assert.True(t, div.Diverged())
	})

	t.Run("garbled count output is an error", func(t *testing.T) {
		script := process.NewScript().
			Stub("git rev-parse --verify --quiet origin/feat", process.Result{Stdout: "abc123\n"}).
			Stub("git rev-list --left-right --count feat...origin/feat", process.Result{Stdout: "weird"})
		g := New("/repo", WithExecer(script))

		_, err := g.Divergence(ctx, "feat")
		assert.Error(t, err)
	})
}

func TestGateway_PushFlags(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		opts domain.PushOpts
		want string
	}{
		{"plain", domain.PushOpts{}, "git push origin feat"},
		{"set upstream", domain.PushOpts{SetUpstream: true}, "git push -u origin feat"},
		{"force with lease", domain.PushOpts{ForceWithLease: true}, "git push --force-with-lease origin feat"},
		{"lease wins over force", domain.PushOpts{Force: true, ForceWithLease: true}, "git push --force-with-lease origin feat"},
		{"bare force", domain.PushOpts{Force: true}, "git push --force origin feat"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			script := process.NewScript().Stub(tc.want, process.Result{})
			g := New("/repo", WithExecer(script))

			require.NoError(t, g.Push(ctx, "feat", tc.opts))
			assert.Equal(t, []string{tc.want}, script.Lines())
		})
	}
}

func TestGateway_CommitsAhead(t *testing.T) {
	ctx := context.Background()

	t.Run("splits subjects newest first", func(t *testing.T) {
		script := process.NewScript().
			Stub("git log main..HEAD --pretty=format:%s", process.Result{Stdout: "newest\noldest"})
		g := New("/repo", WithExecer(script))

		subjects, err := g.CommitsAhead(ctx, "main")
		require.NoError(t, err)
		assert.Equal(t, []string{"newest", "oldest"}, subjects)
	})

	t.Run("no commits yields nil", func(t *testing.T) {
		script := process.NewScript().
			Stub("git log main..HEAD --pretty=format:%s", process.Result{})
		g := New("/repo", WithExecer(script))

		subjects, err := g.CommitsAhead(ctx, "main")
		require.NoError(t, err)
		assert.Nil(t, subjects)
	})
}

func TestGateway_ErrorsCarryToolMessage(t *testing.T) {
	script := process.NewScript().
		Stub("git checkout nope", process.Result{ExitCode: 1, Stderr: "error: pathspec 'nope' did not match\n"})
	g := New("/repo", WithExecer(script))

	err := g.Checkout(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pathspec")
}

func TestGateway_MissingBinary(t *testing.T) {
	script := process.NewScript().StubErr("git fetch origin", domain.ErrToolNotInstalled)
	g := New("/repo", WithExecer(script))

	err := g.Fetch(context.Background())
	assert.ErrorIs(t, err, domain.ErrToolNotInstalled)
}

func TestGateway_DiffKeepsRawOutput(t *testing.T) {
	raw := "diff --git a/x b/x\n+++ b/x\n+line\n"
	script := process.NewScript().
		Stub("git diff --no-color --no-ext-diff main...HEAD", process.Result{Stdout: raw})
	g := New("/repo", WithExecer(script))

	diff, err := g.Diff(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, raw, diff)
}
