package submit

import (
	"context"
	"errors"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/describe"
	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/scratch"
)

// finalize pushes the generated description to the code host, rewrites
// the placeholder commit when one was made, and removes the scratch
// artifacts. It is the only step that clears a State field: DiffPath
// goes away with the file it pointed at.
func finalize(ctx context.Context, env *drover.Env, st domain.State) (domain.State, *domain.StepError) {
	if st.PRNumber > 0 {
		body := describe.WithFooter(st.Body)
		patch := domain.PullRequestPatch{Title: &st.Title, Body: &body}
		if err := env.Forge.UpdatePullRequest(ctx, st.PRNumber, patch); err != nil {
			return st, toolError(domain.PhaseFinalize, err,
				"cannot update pull request #%d", st.PRNumber)
		}
		st.Body = body

		if len(env.Labels) > 0 {
			if err := env.Forge.AddLabels(ctx, st.PRNumber, env.Labels); err != nil {
				return st, toolError(domain.PhaseFinalize, err,
					"cannot label pull request #%d", st.PRNumber)
			}
		}
	} else {
		env.Logger.Debug("no pull request number on record, keeping description local",
			"branch", st.Branch)
	}

	if st.AutoCommit {
		if err := env.Git.AmendMessage(ctx, st.Title); err != nil {
			return st, toolError(domain.PhaseFinalize, err,
				"cannot amend placeholder commit on %s", st.Branch)
		}
		if err := env.Git.Push(ctx, st.Branch, domain.PushOpts{ForceWithLease: true}); err != nil {
			if errors.Is(err, domain.ErrToolNotInstalled) {
				return st, toolError(domain.PhaseFinalize, err, "version control tool is not installed")
			}
			return st, domain.WrapStepError(domain.PhaseFinalize, domain.KindPushRejected, err,
				"push of amended %s was rejected", st.Branch)
		}
	}

	if st.SessionID != "" {
		if err := scratch.New(st.SessionID).Cleanup(); err != nil {
			env.Logger.Warn("scratch cleanup failed", "session", st.SessionID, "err", err)
		}
	}
	st.DiffPath = ""

	if st.PRURL == "" && st.PRNumber > 0 {
		if pr, err := env.Forge.PullRequest(ctx, st.PRNumber); err == nil && pr.URL != "" {
			st.PRURL = pr.URL
		}
	}

	switch {
	case st.PRURL != "":
		env.Sink.Say("Submitted %s: %s", st.Branch, st.PRURL)
	case st.StackURL != "":
		env.Sink.Say("Submitted %s: %s", st.Branch, st.StackURL)
	default:
		env.Sink.Say("Submitted %s", st.Branch)
	}
	return st, nil
}
