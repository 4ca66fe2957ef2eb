package domain

// Phase identifies a submit pipeline step. StepError carries the phase
// of the step that failed, so callers can tell how far execution got.
type Phase string

const (
	// PhaseResolve discovers repository root, branches and plan linkage.
	PhaseResolve Phase = "resolve"

	// PhaseCommit stages and commits outstanding working tree changes.
	PhaseCommit Phase = "commit"

	// PhasePublish pushes the branch and finds or creates the review request.
	PhasePublish Phase = "publish"

	// PhaseDiff extracts the filtered diff artifact against the base branch.
	PhaseDiff Phase = "diff"

	// PhasePlan fetches the linked plan or issue content.
	PhasePlan Phase = "plan"

	// PhaseDescribe generates the review request title and body.
	PhaseDescribe Phase = "describe"

	// PhaseEnhance registers the branch with the stacking manager when
	// the plain strategy left that upgrade open.
	PhaseEnhance Phase = "enhance"

	// PhaseFinalize updates the review request, applies labels and
	// cleans up the scratch artifact.
	PhaseFinalize Phase = "finalize"
)

// AllPhases returns the pipeline phases in execution order.
func AllPhases() []Phase {
	return []Phase{
		PhaseResolve,
		PhaseCommit,
		PhasePublish,
		PhaseDiff,
		PhasePlan,
		PhaseDescribe,
		PhaseEnhance,
		PhaseFinalize,
	}
}
