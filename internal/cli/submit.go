package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/drovertool/drover"
	"github.com/drovertool/drover/pkg/describe"
	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/observability"
	"github.com/drovertool/drover/pkg/submit"
)

// errReported signals a failure that has already been rendered for the
// user; callers translate it into the exit code without reprinting.
var errReported = errors.New("reported")

// SubmitOptions contains the configuration for the submit command.
type SubmitOptions struct {
	Dir           string
	Force         bool
	Stack         bool
	NoStack       bool
	DryRun        bool
	Preview       bool
	Plan          int
	Debug         bool
	MetricsListen string

	// Test seams.
	out        io.Writer
	envOptions []drover.Option
}

// Submit runs the submit pipeline for the working tree at Dir. All
// failures are rendered through the terminal here; a non-nil return
// only tells the command layer to exit non-zero.
func Submit(ctx context.Context, opts SubmitOptions) error {
	out := opts.out
	if out == nil {
		out = os.Stdout
	}
	term := NewTerminal(out)

	if opts.Stack && opts.NoStack {
		term.Fail("--stack and --no-stack cannot be used together")
		return errReported
	}
	// A preview must never mutate anything, only narrate and render.
	if opts.Preview {
		opts.DryRun = true
	}

	var envOpts []drover.Option
	if opts.DryRun {
		envOpts = append(envOpts, drover.WithDryRun())
	}

	var registry *prometheus.Registry
	var metrics *observability.Metrics
	if opts.MetricsListen != "" {
		registry = prometheus.NewRegistry()
		metrics = observability.New(registry)
		envOpts = append(envOpts, drover.WithHooks(metrics.Hooks()))
	}
	if opts.Debug || metrics != nil {
		envOpts = append(envOpts, drover.WithAudit())
	}
	envOpts = append(envOpts, opts.envOptions...)

	ws, err := setup(ctx, opts.Dir, opts.Debug, term, envOpts...)
	if err != nil {
		term.Fail("%v", err)
		return errReported
	}

	if registry != nil {
		srv, err := observability.Listen(opts.MetricsListen, registry, ws.logger)
		if err != nil {
			term.Fail("%v", err)
			return errReported
		}
		defer srv.Shutdown(context.Background())
	}

	st := domain.NewState(ws.workDir, uuid.NewString(), resolveStrategy(ctx, ws.env, opts))
	st.Force = opts.Force
	st.Debug = opts.Debug
	st.InferPlan = ws.cfg.InferPlan
	if opts.Plan > 0 {
		st.PlanNumber = opts.Plan
	}
	if ws.cfg.Trunk != "" {
		st.TrunkBranch = ws.cfg.Trunk
	}

	var final domain.State
	var stepErr *domain.StepError
	err = ws.withRepoLock(ctx, func(ctx context.Context) error {
		final, stepErr = submit.Run(ctx, ws.env, st)
		return nil
	})
	if err != nil {
		term.Fail("%v", err)
		return errReported
	}
	if stepErr != nil {
		reportStepError(term, stepErr)
		return errReported
	}

	if opts.Preview {
		renderPreview(ctx, ws, term, final)
	}
	return nil
}

// resolveStrategy honors an explicit flag and otherwise picks stacked
// only when the manager is installed and already tracks the branch.
// Enhancement by the plain path stays available either way.
func resolveStrategy(ctx context.Context, env *drover.Env, opts SubmitOptions) domain.Strategy {
	if opts.Stack {
		return domain.StrategyStacked
	}
	if opts.NoStack {
		return domain.StrategyPlain
	}

	if err := env.Stack.Available(ctx); err != nil {
		return domain.StrategyPlain
	}
	branch, err := env.Git.CurrentBranch(ctx)
	if err != nil {
		return domain.StrategyPlain
	}
	if _, err := env.Stack.Tracked(ctx, branch); err != nil {
		return domain.StrategyPlain
	}
	return domain.StrategyStacked
}

// renderPreview shows the generated description the way the code host
// would, plus a line diff against the current body when a review
// request already exists.
func renderPreview(ctx context.Context, ws *workspace, term *Terminal, st domain.State) {
	doc := fmt.Sprintf("# %s\n\n%s\n", st.Title, st.Body)

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err == nil {
		if rendered, rerr := renderer.Render(doc); rerr == nil {
			doc = rendered
		}
	}
	term.Print(doc)

	if st.PRNumber == 0 {
		return
	}
	current, err := ws.env.Forge.PullRequest(ctx, st.PRNumber)
	if err != nil {
		ws.logger.Debug("cannot fetch current body for preview", "number", st.PRNumber, "err", err)
		return
	}
	if changes := describe.PreviewBodyChange(current.Body, st.Body); changes != "" {
		term.Say("Body changes against #%d:", st.PRNumber)
		term.Print(changes)
	}
}
