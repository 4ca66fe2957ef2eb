package submit

import (
	"context"
	"errors"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/domain"
)

// publish pushes the branch and finds or creates its review request.
// The strategy decides how; both paths produce a PublishOutcome, and
// Apply is the only way the result reaches the state, so every later
// step is strategy-agnostic.
func publish(ctx context.Context, env *drover.Env, st domain.State) (domain.State, *domain.StepError) {
	var out domain.PublishOutcome
	var stepErr *domain.StepError

	switch st.Strategy {
	case domain.StrategyStacked:
		out, stepErr = publishStacked(ctx, env, st)
	default:
		out, stepErr = publishPlain(ctx, env, st)
	}
	if stepErr != nil {
		return st, stepErr
	}

	st = out.Apply(st)
	switch {
	case out.WasCreated && out.PRNumber > 0:
		env.Sink.Say("Created pull request #%d", out.PRNumber)
	case out.PRNumber > 0:
		env.Sink.Say("Updated pull request #%d", out.PRNumber)
	default:
		env.Sink.Say("Prepared pull request for %s", st.Branch)
	}
	return st, nil
}

// publishStacked submits through the stacked-branch manager and then
// asks the code host for the resulting request metadata. An untracked
// branch is tracked under its parent first.
func publishStacked(ctx context.Context, env *drover.Env, st domain.State) (domain.PublishOutcome, *domain.StepError) {
	sub, err := env.Stack.Submit(ctx, st.Branch)
	if errors.Is(err, domain.ErrNotTracked) {
		if terr := env.Stack.Track(ctx, st.Branch, st.ParentBranch); terr != nil {
			return domain.PublishOutcome{}, toolError(domain.PhasePublish, terr,
				"cannot track %s before submitting", st.Branch)
		}
		sub, err = env.Stack.Submit(ctx, st.Branch)
	}
	if err != nil {
		return domain.PublishOutcome{}, toolError(domain.PhasePublish, err,
			"stacked submit of %s failed", st.Branch)
	}

	out := domain.PublishOutcome{
		BaseBranch: st.ParentBranch,
		StackURL:   sub.URL,
	}

	pr, err := env.Forge.PullRequestForBranch(ctx, st.Branch)
	switch {
	case err == nil:
		out.PRNumber = pr.Number
		out.PRURL = pr.URL
		if pr.Base != "" {
			out.BaseBranch = pr.Base
		}
	case errors.Is(err, domain.ErrNoPullRequest):
		if sub.PRNumber > 0 {
			byNumber, nerr := env.Forge.PullRequest(ctx, sub.PRNumber)
			if errors.Is(nerr, domain.ErrNoPullRequest) {
				return domain.PublishOutcome{}, domain.NewStepError(domain.PhasePublish,
					domain.KindPullRequestMissing,
					"stack manager reported request #%d but the code host cannot find it", sub.PRNumber)
			}
			if nerr != nil {
				return domain.PublishOutcome{}, toolError(domain.PhasePublish, nerr,
					"cannot look up pull request #%d", sub.PRNumber)
			}
			out.PRNumber = byNumber.Number
			out.PRURL = byNumber.URL
			if byNumber.Base != "" {
				out.BaseBranch = byNumber.Base
			}
		} else {
			// Freshly created and not yet visible. Leave the number
			// unset; finalize tolerates it.
			out.WasCreated = true
		}
	default:
		return domain.PublishOutcome{}, toolError(domain.PhasePublish, err,
			"cannot look up pull request for %s", st.Branch)
	}

	if out.StackURL == "" {
		out.StackURL = out.PRURL
	}
	return out, nil
}

// publishPlain verifies auth, refuses to push over diverged history
// unless forced, pushes, and then reuses or creates the request.
func publishPlain(ctx context.Context, env *drover.Env, st domain.State) (domain.PublishOutcome, *domain.StepError) {
	if err := env.Forge.AuthStatus(ctx); err != nil {
		if errors.Is(err, domain.ErrToolNotInstalled) {
			return domain.PublishOutcome{}, toolError(domain.PhasePublish, err,
				"code host CLI is not installed")
		}
		return domain.PublishOutcome{}, domain.WrapStepError(domain.PhasePublish,
			domain.KindAuth, err, "not authenticated with the code host")
	}

	div, err := env.Git.Divergence(ctx, st.Branch)
	if err != nil {
		return domain.PublishOutcome{}, toolError(domain.PhasePublish, err,
			"cannot compare %s with its remote", st.Branch)
	}
	if div.Diverged() && !st.Force {
		return domain.PublishOutcome{}, domain.NewStepError(domain.PhasePublish,
			domain.KindDivergence,
			"local and remote history diverged (%d ahead, %d behind)", div.Ahead, div.Behind).
			WithDetail("hint", "re-run with --force to replace the remote branch")
	}

	opts := domain.PushOpts{
		SetUpstream:    !div.RemoteExists,
		ForceWithLease: st.Force,
	}
	if err := env.Git.Push(ctx, st.Branch, opts); err != nil {
		if errors.Is(err, domain.ErrToolNotInstalled) {
			return domain.PublishOutcome{}, toolError(domain.PhasePublish, err, "cannot push %s", st.Branch)
		}
		return domain.PublishOutcome{}, domain.WrapStepError(domain.PhasePublish,
			domain.KindPushRejected, err, "push of %s was rejected", st.Branch)
	}

	pr, err := env.Forge.PullRequestForBranch(ctx, st.Branch)
	switch {
	case err == nil:
		out := domain.PublishOutcome{
			PRNumber:   pr.Number,
			PRURL:      pr.URL,
			BaseBranch: st.ParentBranch,
		}
		if pr.Base != "" {
			out.BaseBranch = pr.Base
		}
		return out, nil
	case errors.Is(err, domain.ErrNoPullRequest):
		return createPullRequest(ctx, env, st)
	default:
		return domain.PublishOutcome{}, toolError(domain.PhasePublish, err,
			"cannot look up pull request for %s", st.Branch)
	}
}

// createPullRequest opens a new request with a provisional title; the
// describe and finalize steps replace it with the generated one.
func createPullRequest(ctx context.Context, env *drover.Env, st domain.State) (domain.PublishOutcome, *domain.StepError) {
	title, err := env.Git.HeadSubject(ctx)
	if err != nil || title == "" {
		title = st.Branch
	}

	created, err := env.Forge.CreatePullRequest(ctx, domain.NewPullRequest{
		Head:  st.Branch,
		Base:  st.ParentBranch,
		Title: title,
	})
	if err != nil {
		return domain.PublishOutcome{}, toolError(domain.PhasePublish, err,
			"cannot create pull request for %s", st.Branch)
	}

	out := domain.PublishOutcome{
		PRNumber:   created.Number,
		PRURL:      created.URL,
		BaseBranch: st.ParentBranch,
		WasCreated: true,
	}
	if created.Base != "" {
		out.BaseBranch = created.Base
	}
	return out, nil
}
