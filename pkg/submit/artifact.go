package submit

import (
	"context"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/diff"
	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/scratch"
)

// extractDiff computes the diff against the base branch, filters and
// truncates it, and persists the artifact under the session's scratch
// directory for the describe step.
func extractDiff(ctx context.Context, env *drover.Env, st domain.State) (domain.State, *domain.StepError) {
	raw, err := env.Git.Diff(ctx, diffBase(st))
	if err != nil {
		return st, toolError(domain.PhaseDiff, err, "cannot diff against %s", diffBase(st))
	}

	opts := []diff.Option{diff.WithExcludes(env.DiffExcludes...)}
	if env.DiffMaxBytes > 0 {
		opts = append(opts, diff.WithMaxBytes(env.DiffMaxBytes))
	}
	art := diff.Build(raw, opts...)
	if art.Truncated {
		env.Sink.Warn("Diff truncated, %d file section(s) left out of the artifact", art.Omitted)
	}

	path, err := scratch.New(st.SessionID).WriteDiff(art.Text)
	if err != nil {
		return st, domain.WrapStepError(domain.PhaseDiff, domain.KindScratch, err,
			"cannot persist diff artifact")
	}
	st.DiffPath = path
	return st, nil
}

// diffBase picks the branch the diff and commit list are computed
// against: the published base when known, otherwise the parent.
func diffBase(st domain.State) string {
	if st.BaseBranch != "" {
		return st.BaseBranch
	}
	if st.ParentBranch != "" {
		return st.ParentBranch
	}
	return st.TrunkBranch
}
