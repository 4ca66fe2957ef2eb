package drover_test

import (
	"context"
	"fmt"
	"log"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/adapters/memory"
	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/submit"
)

// ExampleNew demonstrates driving the whole submit pipeline against the
// in-memory fakes. This is how library consumers and tests run the flow
// without git, a code host, or a network.
func ExampleNew() {
	// 1. Seed the fakes: a branch with uncommitted work and the issue
	// its name points at.
	git := memory.NewGit(memory.GitFixture{
		Branch:     "feat/42-handle-retries",
		DirtyFiles: []string{"retry.go"},
	})
	forge := memory.NewForge(memory.ForgeFixture{
		Issues: []domain.Issue{
			{Number: 42, Title: "Handle flaky retries", Body: "Transient failures should retry."},
		},
	})
	stack := memory.NewStack(memory.StackFixture{
		AvailableErr: domain.ErrToolNotInstalled,
	})

	// 2. Assemble the environment around the fakes.
	env := drover.New(".",
		drover.WithGit(git),
		drover.WithForge(forge),
		drover.WithStack(stack),
		drover.WithLabels("needs-review"),
	)

	// 3. Run the pipeline.
	ctx := context.Background()
	st, stepErr := submit.Run(ctx, env, domain.NewState(".", "example", domain.StrategyPlain))
	if stepErr != nil {
		log.Fatal(stepErr)
	}

	// 4. The fake code host holds the finished review request: the
	// provisional title was rewritten to the generated one and the
	// configured labels were applied.
	pr, err := forge.PullRequest(ctx, st.PRNumber)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("pull request #%d: %s\n", pr.Number, pr.Title)
	fmt.Printf("labels: %v\n", pr.Labels)
	// Output:
	// pull request #1: Handle retries
	// labels: [needs-review]
}

// printSink surfaces the narration a real run sends to the terminal.
type printSink struct{}

func (printSink) Say(format string, args ...any)  { fmt.Printf(format+"\n", args...) }
func (printSink) Warn(format string, args ...any) { fmt.Printf("! "+format+"\n", args...) }

// ExampleWithDryRun shows preview mode: the pipeline runs start to
// finish, every mutation is narrated instead of executed, and the fake
// repository comes out untouched.
func ExampleWithDryRun() {
	git := memory.NewGit(memory.GitFixture{
		Branch:     "feat/42-handle-retries",
		DirtyFiles: []string{"retry.go"},
	})

	env := drover.New(".",
		drover.WithGit(git),
		drover.WithForge(memory.NewForge(memory.ForgeFixture{
			Issues: []domain.Issue{{Number: 42, Title: "Handle flaky retries"}},
		})),
		drover.WithStack(memory.NewStack(memory.StackFixture{
			AvailableErr: domain.ErrToolNotInstalled,
		})),
		drover.WithSink(printSink{}),
		drover.WithDryRun(),
	)

	_, stepErr := submit.Run(context.Background(), env, domain.NewState(".", "preview", domain.StrategyPlain))
	if stepErr != nil {
		log.Fatal(stepErr)
	}

	fmt.Printf("mutations that reached the repository: %d\n", len(git.Mutations()))
	// Output:
	// dry-run: would stage 1 path(s)
	// dry-run: would commit staged changes as "wip: pending description"
	// Committed outstanding changes (0 staged, 0 unstaged, 1 untracked)
	// dry-run: would push feat/42-handle-retries and create its remote branch
	// dry-run: would open review request "initial" (feat/42-handle-retries -> main)
	// Prepared pull request for feat/42-handle-retries
	// dry-run: would reword head commit to "Handle retries"
	// dry-run: would push feat/42-handle-retries and create its remote branch
	// Submitted feat/42-handle-retries
	// mutations that reached the repository: 0
}
