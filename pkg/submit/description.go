package submit

import (
	"context"
	"slices"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/describe"
	"github.com/drovertool/drover/pkg/diff"
	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/scratch"
)

// generateDescription turns the diff artifact, the branch's commits and
// the plan context into the request title and body.
func generateDescription(ctx context.Context, env *drover.Env, st domain.State) (domain.State, *domain.StepError) {
	commits, err := env.Git.CommitsAhead(ctx, diffBase(st))
	if err != nil {
		return st, toolError(domain.PhaseDescribe, err, "cannot list commits ahead of %s", diffBase(st))
	}
	if st.AutoCommit {
		// The placeholder subject must not become the title it is
		// waiting to be replaced by.
		commits = slices.DeleteFunc(commits, func(s string) bool { return s == autoCommitMessage })
	}

	var files []diff.FileDiff
	if st.DiffPath != "" {
		text, err := scratch.New(st.SessionID).ReadDiff()
		if err != nil {
			return st, domain.WrapStepError(domain.PhaseDescribe, domain.KindScratch, err,
				"cannot read diff artifact")
		}
		files = diff.Split(text)
	}

	in := describe.Input{
		Branch:     st.Branch,
		Commits:    commits,
		DiffFiles:  files,
		Stats:      diff.Tally(files),
		PlanNumber: st.PlanNumber,
		PlanTitle:  st.PlanTitle,
		PlanBody:   st.PlanBody,
	}
	st.Title = describe.Title(in)
	st.Body = describe.Body(in)
	return st, nil
}
