package domain

// Strategy selects how the publish step reaches the code host.
type Strategy string

const (
	// StrategyStacked submits through the stacked-branch manager, which
	// pushes and opens the review request in one operation.
	StrategyStacked Strategy = "stacked"

	// StrategyPlain pushes with plain git and talks to the code host
	// directly to find or create the review request.
	StrategyPlain Strategy = "plain"
)

// State is the workflow state threaded through the submit pipeline.
// It is passed and returned by value and contains no reference types,
// so every step works on its own copy. Fields fill monotonically as
// steps succeed; only DiffPath is ever cleared, by the finalize step
// once the artifact has been consumed.
type State struct {
	// Identity, resolved once by the resolve step.
	WorkDir      string
	RepoRoot     string
	Branch       string
	ParentBranch string
	TrunkBranch  string

	// Invocation settings, fixed at construction.
	Strategy  Strategy
	Force     bool
	Debug     bool
	SessionID string

	// InferPlan allows the resolve step to read a plan number out of
	// the branch name when none was given explicitly.
	InferPlan bool

	// Accumulated by later steps. Zero means "not set yet".
	PlanNumber int
	PRNumber   int
	PRURL      string
	WasCreated bool
	BaseBranch string
	StackURL   string
	DiffPath   string
	PlanTitle  string
	PlanBody   string
	Title      string
	Body       string

	// AutoCommit is set when the commit step created the commit itself
	// (with a placeholder message). The finalize step rewrites that
	// message to the generated title.
	AutoCommit bool
}

// NewState creates the initial pipeline state for a working directory.
// Plan inference is on by default.
func NewState(workDir, sessionID string, strategy Strategy) State {
	return State{
		WorkDir:   workDir,
		SessionID: sessionID,
		Strategy:  strategy,
		InferPlan: true,
	}
}

// HasPlan reports whether a plan or issue is linked to this run.
func (s State) HasPlan() bool {
	return s.PlanNumber > 0
}

// HasPullRequest reports whether the publish step has produced a review
// request number.
func (s State) HasPullRequest() bool {
	return s.PRNumber > 0
}
