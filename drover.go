package drover

import (
	"io"
	"log/slog"

	"github.com/drovertool/drover/pkg/adapters/audit"
	"github.com/drovertool/drover/pkg/adapters/dryrun"
	"github.com/drovertool/drover/pkg/adapters/ghcli"
	"github.com/drovertool/drover/pkg/adapters/gitcli"
	"github.com/drovertool/drover/pkg/adapters/process"
	"github.com/drovertool/drover/pkg/adapters/stackcli"
	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/ports"
)

// Env is the workflow context: the capability gateways plus the ambient
// services every pipeline step draws on. Adapter choices are made here
// and nowhere else; steps only ever see the port interfaces.
type Env struct {
	Git   ports.Git
	Forge ports.Forge
	Stack ports.Stack

	Clock  ports.Clock
	Sink   ports.Sink
	Logger *slog.Logger
	Hooks  domain.Hooks

	// DryRun reports that mutations are intercepted and narrated
	// instead of executed.
	DryRun bool

	// Labels are applied to the review request by the finalize step.
	Labels []string

	// DiffMaxBytes overrides the diff artifact truncation threshold
	// when positive.
	DiffMaxBytes int

	// DiffExcludes are extra ignore patterns for the diff artifact,
	// appended to the built-in ones.
	DiffExcludes []string

	workDir  string
	stackBin string
	remote   string
	audit    bool
}

// Option configures the Env.
type Option func(*Env)

// WithGit injects a version control gateway, bypassing the live one.
func WithGit(g ports.Git) Option {
	return func(e *Env) { e.Git = g }
}

// WithForge injects a code hosting gateway.
func WithForge(f ports.Forge) Option {
	return func(e *Env) { e.Forge = f }
}

// WithStack injects a stacked-branch manager gateway.
func WithStack(s ports.Stack) Option {
	return func(e *Env) { e.Stack = s }
}

// WithClock substitutes the time source.
func WithClock(c ports.Clock) Option {
	return func(e *Env) { e.Clock = c }
}

// WithSink directs user-facing progress lines somewhere other than the
// default silent sink.
func WithSink(s ports.Sink) Option {
	return func(e *Env) { e.Sink = s }
}

// WithLogger sets the structured logger for adapters and steps.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Env) { e.Logger = logger }
}

// WithHooks registers observability callbacks.
func WithHooks(h domain.Hooks) Option {
	return func(e *Env) { e.Hooks = h }
}

// WithDryRun intercepts every gateway mutation and narrates it through
// the sink instead of executing it.
func WithDryRun() Option {
	return func(e *Env) { e.DryRun = true }
}

// WithAudit wraps every gateway in the logging and event-emitting
// decorator. It stacks outside dry-run, so previewed mutations are
// audited too.
func WithAudit() Option {
	return func(e *Env) { e.audit = true }
}

// WithStackCommand overrides the stacked-branch manager's program name.
func WithStackCommand(name string) Option {
	return func(e *Env) { e.stackBin = name }
}

// WithRemote overrides the git remote the live gateway pushes to.
func WithRemote(name string) Option {
	return func(e *Env) { e.remote = name }
}

// WithLabels sets the labels the finalize step applies.
func WithLabels(labels ...string) Option {
	return func(e *Env) { e.Labels = append(e.Labels, labels...) }
}

// WithDiffLimit caps the diff artifact size in bytes.
func WithDiffLimit(n int) Option {
	return func(e *Env) { e.DiffMaxBytes = n }
}

// WithDiffExcludes adds ignore patterns for the diff artifact.
func WithDiffExcludes(patterns ...string) Option {
	return func(e *Env) { e.DiffExcludes = append(e.DiffExcludes, patterns...) }
}

// New assembles an Env rooted at workDir. Gateways not injected through
// options are built as live subprocess adapters.
func New(workDir string, opts ...Option) *Env {
	env := &Env{
		workDir:  workDir,
		stackBin: "gt",
	}
	for _, opt := range opts {
		opt(env)
	}

	if env.workDir == "" {
		env.workDir = "."
	}
	if env.Logger == nil {
		env.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if env.Clock == nil {
		env.Clock = ports.SystemClock{}
	}
	if env.Sink == nil {
		env.Sink = ports.NopSink{}
	}

	if env.Git == nil || env.Forge == nil || env.Stack == nil {
		runner := process.NewRunner(process.WithLogger(env.Logger))
		if env.Git == nil {
			env.Git = gitcli.New(env.workDir,
				gitcli.WithExecer(runner),
				gitcli.WithRemote(env.remote),
			)
		}
		if env.Forge == nil {
			env.Forge = ghcli.New(env.workDir, ghcli.WithExecer(runner))
		}
		if env.Stack == nil {
			env.Stack = stackcli.New(env.workDir,
				stackcli.WithExecer(runner),
				stackcli.WithBinary(env.stackBin),
			)
		}
	}

	if env.DryRun {
		env.Git = dryrun.NewGit(env.Git, env.Sink)
		env.Forge = dryrun.NewForge(env.Forge, env.Sink)
		env.Stack = dryrun.NewStack(env.Stack, env.Sink)
	}
	if env.audit {
		obs := audit.Observer{
			Logger: env.Logger,
			Hooks:  env.Hooks,
			Clock:  env.Clock,
			DryRun: env.DryRun,
		}
		env.Git = audit.NewGit(env.Git, obs)
		env.Forge = audit.NewForge(env.Forge, obs)
		env.Stack = audit.NewStack(env.Stack, obs)
	}

	return env
}
