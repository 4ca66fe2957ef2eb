package submit

import (
	"context"
	"errors"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/domain"
)

// enhance registers a plainly published branch with the stacking
// manager after the fact. The plain result is a complete terminal
// state on its own, so everything here is an optional upgrade: a
// missing or unhappy manager skips the step rather than failing a
// request that is already up.
func enhance(ctx context.Context, env *drover.Env, st domain.State) (domain.State, *domain.StepError) {
	if st.StackURL != "" {
		return st, nil
	}

	if err := env.Stack.Available(ctx); err != nil {
		if errors.Is(err, domain.ErrToolNotInstalled) {
			env.Logger.Debug("stack manager not installed, skipping enhancement")
		} else {
			env.Logger.Warn("stack manager unavailable, skipping enhancement", "err", err)
		}
		return st, nil
	}

	rec, err := env.Stack.Tracked(ctx, st.Branch)
	switch {
	case err == nil:
		// Tracked outside this pipeline, for example by hand between
		// runs. Take the URL and mutate nothing.
		if rec.URL != "" {
			st.StackURL = rec.URL
		}
		return st, nil
	case errors.Is(err, domain.ErrNotTracked):
	default:
		env.Logger.Warn("stack tracking lookup failed, skipping enhancement",
			"branch", st.Branch, "err", err)
		return st, nil
	}

	if err := env.Stack.Track(ctx, st.Branch, st.ParentBranch); err != nil {
		env.Sink.Warn("Could not register %s with the stack manager: %v", st.Branch, err)
		return st, nil
	}
	env.Sink.Say("Registered %s under %s in the stack manager", st.Branch, st.ParentBranch)

	if rec, err := env.Stack.Tracked(ctx, st.Branch); err == nil && rec.URL != "" {
		st.StackURL = rec.URL
	}
	return st, nil
}
