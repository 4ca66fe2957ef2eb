/*
Package drover drives a local git repository, a code-hosting CLI and a
stacked-branch manager through a repeatable plan, implement, submit,
land cycle.

Every external system sits behind a capability contract in pkg/ports,
with four interchangeable realizations: live subprocess adapters, fake
in-memory adapters for tests, dry-run decorators that narrate mutations
instead of executing them, and audit decorators that log and time every
call. The submit workflow in pkg/submit is a fixed sequence of steps
over an immutable state value; a failing step stops the run and reports
which phase failed and why.

# Usage

Build an Env, then run the pipeline:

	package main

	import (
		"context"
		"fmt"
		"os"

		"github.com/drovertool/drover"
		"github.com/drovertool/drover/pkg/domain"
		"github.com/drovertool/drover/pkg/submit"
	)

	func main() {
		env := drover.New(".", drover.WithAudit())

		st := domain.NewState(".", "session-1", domain.StrategyPlain)
		st, stepErr := submit.Run(context.Background(), env, st)
		if stepErr != nil {
			fmt.Fprintf(os.Stderr, "submit failed in %s: %s\n", stepErr.Phase, stepErr.Message)
			os.Exit(1)
		}
		fmt.Println("submitted:", st.PRURL)
	}

Tests swap the live adapters for fakes:

	env := drover.New(".",
		drover.WithGit(memory.NewGit(memory.GitFixture{Branch: "feat/x"})),
		drover.WithForge(memory.NewForge(memory.ForgeFixture{})),
		drover.WithStack(memory.NewStack(memory.StackFixture{})),
	)

A dry-run Env narrates what it would do and never mutates anything:

	env := drover.New(".", drover.WithDryRun(), drover.WithSink(consoleSink))
*/
package drover
