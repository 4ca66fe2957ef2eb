package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel results. These mark the ordinary "does not exist yet" cases
// that steer pipeline logic. They are values to branch on with
// errors.Is, never failures in their own right, and lookups must not
// convert them into StepErrors.
var (
	// ErrNoPullRequest is returned when a branch has no review request.
	ErrNoPullRequest = errors.New("no pull request for branch")

	// ErrNoIssue is returned when an issue or plan number does not exist.
	ErrNoIssue = errors.New("issue not found")

	// ErrNotTracked is returned when the stacking manager does not track
	// the branch.
	ErrNotTracked = errors.New("branch not tracked by stack manager")

	// ErrToolNotInstalled is returned when an external program a live
	// adapter needs cannot be found on PATH.
	ErrToolNotInstalled = errors.New("external tool not installed")
)

// IsNotFound reports whether err is one of the ordinary miss sentinels,
// as opposed to a real failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoPullRequest) ||
		errors.Is(err, ErrNoIssue) ||
		errors.Is(err, ErrNotTracked)
}

// ErrorKind is the machine-readable classification of a StepError.
type ErrorKind string

const (
	// KindAuth marks a code-host authentication failure.
	KindAuth ErrorKind = "auth"

	// KindDivergence marks local and remote histories that both advanced
	// while force was not set.
	KindDivergence ErrorKind = "divergence"

	// KindPushRejected marks a push the remote refused.
	KindPushRejected ErrorKind = "push_rejected"

	// KindPullRequestMissing marks a review request that should exist
	// but could not be found (e.g. right after a stacked submit).
	KindPullRequestMissing ErrorKind = "pr_missing"

	// KindToolMissing marks an external program absent from PATH.
	KindToolMissing ErrorKind = "tool_missing"

	// KindToolFailed marks an external program exiting non-zero in a way
	// the operation cannot interpret as data.
	KindToolFailed ErrorKind = "tool_failed"

	// KindScratch marks a scratch artifact read or write failure.
	KindScratch ErrorKind = "scratch"

	// KindPlanFetch marks a failure retrieving linked plan content.
	KindPlanFetch ErrorKind = "plan_fetch"
)

// StepError is the failure value a pipeline step returns. It is a value,
// not a panic: a step's return type is the explicit union of State and
// StepError, and the pipeline runner stops on the first one without
// inspecting it further.
type StepError struct {
	// Phase names the step that failed.
	Phase Phase

	// Kind is the machine-readable error classification.
	Kind ErrorKind

	// Message is the human-readable description.
	Message string

	// Details carries free-form context (hints, command lines, URLs).
	Details map[string]string

	// Err is the underlying cause, if any. Wrapped for errors.Is/As.
	Err error
}

// NewStepError builds a StepError for the given phase.
func NewStepError(phase Phase, kind ErrorKind, format string, args ...any) *StepError {
	return &StepError{
		Phase:   phase,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapStepError builds a StepError that preserves an underlying cause.
func WrapStepError(phase Phase, kind ErrorKind, err error, format string, args ...any) *StepError {
	se := NewStepError(phase, kind, format, args...)
	se.Err = err
	return se
}

// WithDetail attaches one detail entry and returns the error for chaining.
func (e *StepError) WithDetail(key, value string) *StepError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Error renders "phase: message" plus any detail keys in stable order.
func (e *StepError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Phase, e.Message)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " (%s: %s)", k, e.Details[k])
		}
	}
	return b.String()
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *StepError) Unwrap() error {
	return e.Err
}
