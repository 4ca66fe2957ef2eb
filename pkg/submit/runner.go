// Package submit implements the submit pipeline: a fixed ordered list
// of steps threading an immutable workflow state from a dirty working
// tree to an updated, labeled review request.
//
// Each step owns one phase. A step converts every failure it hits into
// a *domain.StepError carrying that phase; the runner stops on the
// first StepError and returns it unchanged. Completed external side
// effects such as a push are never rolled back.
package submit

import (
	"context"
	"errors"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/scratch"
)

// Step is one pipeline stage.
type Step struct {
	Phase domain.Phase
	Run   func(ctx context.Context, env *drover.Env, st domain.State) (domain.State, *domain.StepError)
}

// Steps returns the pipeline in execution order.
func Steps() []Step {
	return []Step{
		{Phase: domain.PhaseResolve, Run: resolve},
		{Phase: domain.PhaseCommit, Run: commit},
		{Phase: domain.PhasePublish, Run: publish},
		{Phase: domain.PhaseDiff, Run: extractDiff},
		{Phase: domain.PhasePlan, Run: fetchPlan},
		{Phase: domain.PhaseDescribe, Run: generateDescription},
		{Phase: domain.PhaseEnhance, Run: enhance},
		{Phase: domain.PhaseFinalize, Run: finalize},
	}
}

// Run executes the pipeline over the initial state. On failure the
// state from before the failing step is returned along with the
// StepError. The scratch directory is removed on every exit path; the
// finalize step's own cleanup makes this a no-op on success.
func Run(ctx context.Context, env *drover.Env, st domain.State) (domain.State, *domain.StepError) {
	defer func() {
		if st.SessionID == "" {
			return
		}
		if err := scratch.New(st.SessionID).Cleanup(); err != nil {
			env.Logger.Warn("failed to remove scratch directory", "session", st.SessionID, "err", err)
		}
	}()

	for _, step := range Steps() {
		if env.Hooks.OnStepStart != nil {
			env.Hooks.OnStepStart(ctx, &domain.StepEvent{
				Timestamp: env.Clock.Now(),
				Phase:     step.Phase,
				SessionID: st.SessionID,
			})
		}

		start := env.Clock.Now()
		next, stepErr := step.Run(ctx, env, st)

		if env.Hooks.OnStepEnd != nil {
			env.Hooks.OnStepEnd(ctx, &domain.StepEvent{
				Timestamp: start,
				Phase:     step.Phase,
				SessionID: st.SessionID,
				Duration:  env.Clock.Now().Sub(start),
				Err:       stepErr,
			})
		}

		if stepErr != nil {
			env.Logger.Warn("pipeline step failed",
				"phase", step.Phase, "kind", stepErr.Kind, "err", stepErr)
			return st, stepErr
		}

		env.Logger.Debug("pipeline step finished", "phase", step.Phase)
		st = next
	}
	return st, nil
}

// toolError maps a gateway failure onto the step's phase, keeping the
// missing-binary case distinct from an ordinary failure.
func toolError(phase domain.Phase, err error, format string, args ...any) *domain.StepError {
	kind := domain.KindToolFailed
	if errors.Is(err, domain.ErrToolNotInstalled) {
		kind = domain.KindToolMissing
	}
	return domain.WrapStepError(phase, kind, err, format, args...)
}
