package submit

import (
	"context"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/domain"
)

// autoCommitMessage is the placeholder for commits this step creates.
// The finalize step rewrites it to the generated title.
const autoCommitMessage = "wip: pending description"

// commit stages and commits outstanding working tree changes. A clean
// tree makes this a no-op, which is what lets an interrupted run be
// started again safely.
func commit(ctx context.Context, env *drover.Env, st domain.State) (domain.State, *domain.StepError) {
	status, err := env.Git.Status(ctx)
	if err != nil {
		return st, toolError(domain.PhaseCommit, err, "cannot read working tree status")
	}
	if status.Clean() {
		return st, nil
	}

	if err := env.Git.StageAll(ctx); err != nil {
		return st, toolError(domain.PhaseCommit, err, "cannot stage working tree changes")
	}
	if err := env.Git.Commit(ctx, autoCommitMessage); err != nil {
		return st, toolError(domain.PhaseCommit, err, "cannot commit working tree changes")
	}

	st.AutoCommit = true
	env.Sink.Say("Committed outstanding changes (%d staged, %d unstaged, %d untracked)",
		status.Staged, status.Unstaged, status.Untracked)
	return st, nil
}
