package domain

// PullRequestState mirrors the code host's review request lifecycle.
type PullRequestState string

const (
	PullRequestOpen   PullRequestState = "open"
	PullRequestClosed PullRequestState = "closed"
	PullRequestMerged PullRequestState = "merged"
)

// PullRequest is the review request record as the pipeline sees it.
// Adapters map the host's wire format into this shape.
type PullRequest struct {
	Number int              `json:"number"`
	Title  string           `json:"title"`
	Body   string           `json:"body"`
	URL    string           `json:"url"`
	Head   string           `json:"head"`
	Base   string           `json:"base"`
	State  PullRequestState `json:"state"`
	Draft  bool             `json:"draft,omitempty"`
	Labels []string         `json:"labels,omitempty"`
}

// NewPullRequest is the payload for creating a review request.
type NewPullRequest struct {
	Head  string
	Base  string
	Title string
	Body  string
	Draft bool
}

// PullRequestPatch updates selected fields of a review request.
// Nil pointers leave the field untouched.
type PullRequestPatch struct {
	Title *string
	Body  *string
	Base  *string
}

// MergeMethod selects how a review request is merged.
type MergeMethod string

const (
	MergeSquash MergeMethod = "squash"
	MergeMerge  MergeMethod = "merge"
	MergeRebase MergeMethod = "rebase"
)

// MergeOpts configures a merge mutation.
type MergeOpts struct {
	Method       MergeMethod
	DeleteBranch bool
}

// Issue is a plan or issue record fetched for description context.
type Issue struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	URL    string   `json:"url"`
	State  string   `json:"state"`
	Labels []string `json:"labels,omitempty"`
}

// TreeStatus summarizes the working tree.
type TreeStatus struct {
	Staged    int
	Unstaged  int
	Untracked int
}

// Clean reports whether there is nothing to commit.
func (t TreeStatus) Clean() bool {
	return t.Staged == 0 && t.Unstaged == 0 && t.Untracked == 0
}

// Divergence compares a local branch with its remote counterpart.
type Divergence struct {
	// RemoteExists is false when the remote has no such branch yet,
	// in which case Ahead and Behind are zero.
	RemoteExists bool
	Ahead        int
	Behind       int
}

// Diverged reports whether both histories advanced independently,
// which makes a plain push unsafe without force.
func (d Divergence) Diverged() bool {
	return d.RemoteExists && d.Ahead > 0 && d.Behind > 0
}

// PushOpts configures a push mutation.
type PushOpts struct {
	SetUpstream    bool
	Force          bool
	ForceWithLease bool
}

// TrackedBranch is the stacking manager's record for a branch.
type TrackedBranch struct {
	Branch string
	Parent string
	// URL is the manager's web view for the branch, empty when the
	// manager does not expose one.
	URL string
}

// StackSubmission is the result of a stacked submit operation.
type StackSubmission struct {
	URL      string
	PRNumber int
}
