package submit

import (
	"context"
	"errors"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/domain"
)

// fetchPlan retrieves the linked plan's content for the description.
// No linkage means nothing to do. A linked number the host does not
// know is dropped again, because branch-name inference can guess wrong;
// any other failure is a real fetch error.
func fetchPlan(ctx context.Context, env *drover.Env, st domain.State) (domain.State, *domain.StepError) {
	if !st.HasPlan() {
		return st, nil
	}

	issue, err := env.Forge.Issue(ctx, st.PlanNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNoIssue) {
			env.Logger.Debug("linked plan does not exist, dropping linkage", "plan", st.PlanNumber)
			st.PlanNumber = 0
			return st, nil
		}
		if errors.Is(err, domain.ErrToolNotInstalled) {
			return st, toolError(domain.PhasePlan, err, "cannot fetch plan #%d", st.PlanNumber)
		}
		return st, domain.WrapStepError(domain.PhasePlan, domain.KindPlanFetch, err,
			"cannot fetch plan #%d", st.PlanNumber)
	}

	st.PlanTitle = issue.Title
	st.PlanBody = issue.Body
	return st, nil
}
