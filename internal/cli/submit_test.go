package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/internal/config"
	"github.com/drovertool/drover/pkg/adapters/memory"
	"github.com/drovertool/drover/pkg/domain"
)

// commandWorld wires the fakes and a capture buffer into command options.
type commandWorld struct {
	git   *memory.Git
	forge *memory.Forge
	stack *memory.Stack
	out   *bytes.Buffer
}

func newCommandWorld(gfx memory.GitFixture, ffx memory.ForgeFixture, sfx memory.StackFixture) *commandWorld {
	return &commandWorld{
		git:   memory.NewGit(gfx),
		forge: memory.NewForge(ffx),
		stack: memory.NewStack(sfx),
		out:   &bytes.Buffer{},
	}
}

func (w *commandWorld) options() []drover.Option {
	return []drover.Option{
		drover.WithGit(w.git),
		drover.WithForge(w.forge),
		drover.WithStack(w.stack),
	}
}

func noManager() memory.StackFixture {
	return memory.StackFixture{AvailableErr: domain.ErrToolNotInstalled}
}

// writeCommandSettings drops a settings file into dir that also keeps
// the lock files inside the test directory.
func writeCommandSettings(t *testing.T, dir, extra string) {
	t.Helper()
	content := fmt.Sprintf("lock:\n  dir: %s\n%s", filepath.Join(dir, "locks"), extra)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(content), 0o644))
}

func TestSubmit_CreatesPullRequestWithFakes(t *testing.T) {
	dir := t.TempDir()
	writeCommandSettings(t, dir, "labels:\n  - needs-review\n")
	w := newCommandWorld(memory.GitFixture{
		Root:       "/repo",
		Branch:     "feat/123-add-oauth",
		DirtyFiles: []string{"oauth.go"},
		RemoteURL:  "https://codehost.test/acme/widgets.git",
	}, memory.ForgeFixture{
		Issues: []domain.Issue{{Number: 123, Title: "Add OAuth login", Body: "Password logins are going away."}},
	}, noManager())

	err := Submit(context.Background(), SubmitOptions{Dir: dir, out: w.out, envOptions: w.options()})

	require.NoError(t, err)
	assert.Contains(t, w.out.String(), "Created pull request #1")
	assert.Contains(t, w.out.String(), "Submitted feat/123-add-oauth")

	pr, err := w.forge.PullRequest(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Add oauth", pr.Title)
	assert.Contains(t, pr.Body, "Closes #123")
	assert.Contains(t, pr.Body, "**Add OAuth login**")
	assert.Equal(t, []string{"needs-review"}, pr.Labels)
}

func TestSubmit_ConflictingStrategyFlags(t *testing.T) {
	w := newCommandWorld(memory.GitFixture{}, memory.ForgeFixture{}, noManager())

	err := Submit(context.Background(), SubmitOptions{
		Dir: t.TempDir(), Stack: true, NoStack: true,
		out: w.out, envOptions: w.options(),
	})

	require.Error(t, err)
	assert.Contains(t, w.out.String(), "cannot be used together")
	assert.Empty(t, w.git.Mutations())
}

func TestSubmit_DivergenceFailsWithHint(t *testing.T) {
	dir := t.TempDir()
	writeCommandSettings(t, dir, "")
	w := newCommandWorld(memory.GitFixture{
		Root:       "/repo",
		Branch:     "feat/fix",
		DirtyFiles: []string{"fix.go"},
		Behind:     map[string]int{"feat/fix": 2},
	}, memory.ForgeFixture{}, noManager())
	require.NoError(t, w.git.StageAll(context.Background()))
	require.NoError(t, w.git.Commit(context.Background(), "Fix crash"))
	w.git.Reset()

	err := Submit(context.Background(), SubmitOptions{Dir: dir, out: w.out, envOptions: w.options()})

	require.Error(t, err)
	out := w.out.String()
	assert.Contains(t, out, "The publish step failed")
	assert.Contains(t, out, "--force")
	assert.Empty(t, w.git.Mutations(), "nothing pushed or committed")
}

func TestSubmit_PreviewRendersWithoutMutating(t *testing.T) {
	dir := t.TempDir()
	writeCommandSettings(t, dir, "")
	w := newCommandWorld(memory.GitFixture{
		Root:       "/repo",
		Branch:     "feat/cleanup",
		DirtyFiles: []string{"old.go"},
	}, memory.ForgeFixture{}, noManager())

	err := Submit(context.Background(), SubmitOptions{Dir: dir, Preview: true, out: w.out, envOptions: w.options()})

	require.NoError(t, err)
	assert.Contains(t, w.out.String(), "Cleanup", "rendered title")
	assert.Empty(t, w.git.Mutations())
	assert.Empty(t, w.forge.Mutations())

	tree, terr := w.git.Status(context.Background())
	require.NoError(t, terr)
	assert.False(t, tree.Clean(), "preview must leave the tree dirty")
}

func TestResolveStrategy(t *testing.T) {
	tracked := memory.StackFixture{Tracked: []domain.TrackedBranch{{Branch: "feat/x", Parent: "main"}}}

	cases := []struct {
		name string
		sfx  memory.StackFixture
		opts SubmitOptions
		want domain.Strategy
	}{
		{"explicit stack flag wins", noManager(), SubmitOptions{Stack: true}, domain.StrategyStacked},
		{"explicit no-stack flag wins", tracked, SubmitOptions{NoStack: true}, domain.StrategyPlain},
		{"tracked branch goes stacked", tracked, SubmitOptions{}, domain.StrategyStacked},
		{"missing manager goes plain", noManager(), SubmitOptions{}, domain.StrategyPlain},
		{"untracked branch goes plain", memory.StackFixture{}, SubmitOptions{}, domain.StrategyPlain},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := drover.New("/repo",
				drover.WithGit(memory.NewGit(memory.GitFixture{Branch: "feat/x"})),
				drover.WithForge(memory.NewForge(memory.ForgeFixture{})),
				drover.WithStack(memory.NewStack(tc.sfx)),
			)
			assert.Equal(t, tc.want, resolveStrategy(context.Background(), env, tc.opts))
		})
	}
}
