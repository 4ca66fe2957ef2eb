package drover_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/adapters/memory"
	"github.com/drovertool/drover/pkg/domain"
)

func TestNew_Defaults(t *testing.T) {
	env := drover.New(".")

	assert.NotNil(t, env.Git)
	assert.NotNil(t, env.Forge)
	assert.NotNil(t, env.Stack)
	assert.NotNil(t, env.Clock)
	assert.NotNil(t, env.Sink)
	assert.NotNil(t, env.Logger)
	assert.False(t, env.DryRun)
}

func TestNew_InjectedGatewaysAreKept(t *testing.T) {
	git := memory.NewGit(memory.GitFixture{})
	forge := memory.NewForge(memory.ForgeFixture{})
	stack := memory.NewStack(memory.StackFixture{})

	env := drover.New(".",
		drover.WithGit(git),
		drover.WithForge(forge),
		drover.WithStack(stack),
	)

	// Without decorators the injected values come back untouched.
	assert.Same(t, git, env.Git)
	assert.Same(t, forge, env.Forge)
	assert.Same(t, stack, env.Stack)
}

func TestNew_DryRunInterceptsMutations(t *testing.T) {
	git := memory.NewGit(memory.GitFixture{})
	git.Touch("main.go")

	env := drover.New(".",
		drover.WithGit(git),
		drover.WithForge(memory.NewForge(memory.ForgeFixture{})),
		drover.WithStack(memory.NewStack(memory.StackFixture{})),
		drover.WithDryRun(),
	)
	require.True(t, env.DryRun)

	ctx := context.Background()
	require.NoError(t, env.Git.StageAll(ctx))
	require.NoError(t, env.Git.Commit(ctx, "never happens"))

	assert.Empty(t, git.Mutations(), "dry-run must keep mutations away from the inner gateway")

	branch, err := env.Git.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", branch, "reads still reach the inner gateway")
}

func TestNew_AuditEmitsGatewayEvents(t *testing.T) {
	var events []*domain.GatewayEvent
	hooks := domain.Hooks{
		OnGatewayCall: func(_ context.Context, ev *domain.GatewayEvent) {
			events = append(events, ev)
		},
	}

	env := drover.New(".",
		drover.WithGit(memory.NewGit(memory.GitFixture{})),
		drover.WithForge(memory.NewForge(memory.ForgeFixture{})),
		drover.WithStack(memory.NewStack(memory.StackFixture{})),
		drover.WithHooks(hooks),
		drover.WithAudit(),
	)

	_, err := env.Git.CurrentBranch(context.Background())
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, domain.SystemGit, events[0].System)
	assert.Equal(t, "CurrentBranch", events[0].Op)
	assert.False(t, events[0].DryRun)
}

func TestNew_AuditSeesDryRunActivity(t *testing.T) {
	git := memory.NewGit(memory.GitFixture{})
	var events []*domain.GatewayEvent

	env := drover.New(".",
		drover.WithGit(git),
		drover.WithForge(memory.NewForge(memory.ForgeFixture{})),
		drover.WithStack(memory.NewStack(memory.StackFixture{})),
		drover.WithHooks(domain.Hooks{
			OnGatewayCall: func(_ context.Context, ev *domain.GatewayEvent) {
				events = append(events, ev)
			},
		}),
		drover.WithDryRun(),
		drover.WithAudit(),
	)

	require.NoError(t, env.Git.Commit(context.Background(), "preview only"))

	assert.Empty(t, git.Mutations())
	require.Len(t, events, 1)
	assert.Equal(t, "Commit", events[0].Op)
	assert.True(t, events[0].DryRun, "audit outside dry-run tags events as previews")
}
