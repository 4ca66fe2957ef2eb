package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/ports"
)

var _ ports.Git = (*Git)(nil)

// GitFixture seeds a fake repository.
type GitFixture struct {
	// Root is the simulated repository root. Default /repo.
	Root string
	// Branch is the checked-out branch. Default main.
	Branch string
	// Branches are additional local branches.
	Branches []string
	// RemoteURL is what RemoteURL reports.
	RemoteURL string
	// DirtyFiles are uncommitted paths present at seed time.
	DirtyFiles []string
	// TrackedFiles are paths that were committed before seed time; a
	// dirty tracked file counts as unstaged rather than untracked.
	TrackedFiles []string
	// HeadSubject is the tip subject before any fake commit. Default
	// "initial".
	HeadSubject string
	// RemoteBranches already exist on the remote, in sync with local.
	RemoteBranches []string
	// Behind seeds remote-ahead counts per branch, creating the remote
	// branch if needed.
	Behind map[string]int
}

type fakeCommit struct {
	subject string
	files   []string
}

type remoteBranch struct {
	pushed int
	behind int
}

// Git is the fake version control gateway.
type Git struct {
	recorder

	mu        sync.Mutex
	root      string
	branch    string
	branches  map[string]bool
	remoteURL string
	headSeed  string

	dirty   []string
	staged  []string
	tracked map[string]bool

	commits map[string][]fakeCommit
	remote  map[string]*remoteBranch
}

// NewGit creates a fake repository from the fixture.
func NewGit(fx GitFixture) *Git {
	g := &Git{
		root:      fx.Root,
		branch:    fx.Branch,
		branches:  make(map[string]bool),
		remoteURL: fx.RemoteURL,
		headSeed:  fx.HeadSubject,
		tracked:   make(map[string]bool),
		commits:   make(map[string][]fakeCommit),
		remote:    make(map[string]*remoteBranch),
	}
	if g.root == "" {
		g.root = "/repo"
	}
	if g.branch == "" {
		g.branch = "main"
	}
	if g.remoteURL == "" {
		g.remoteURL = "https://codehost.test/acme/widgets.git"
	}
	if g.headSeed == "" {
		g.headSeed = "initial"
	}
	g.branches[g.branch] = true
	for _, b := range fx.Branches {
		g.branches[b] = true
	}
	g.dirty = append(g.dirty, fx.DirtyFiles...)
	for _, f := range fx.TrackedFiles {
		g.tracked[f] = true
	}
	for _, b := range fx.RemoteBranches {
		g.remote[b] = &remoteBranch{}
	}
	for b, n := range fx.Behind {
		rb := g.remote[b]
		if rb == nil {
			rb = &remoteBranch{}
			g.remote[b] = rb
		}
		rb.behind = n
	}
	return g
}

// Touch adds fresh uncommitted paths to the tree.
func (g *Git) Touch(files ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dirty = append(g.dirty, files...)
}

func (g *Git) Root(_ context.Context, dir string) (string, error) {
	g.record("Root", false, dir)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.root, nil
}

func (g *Git) CurrentBranch(context.Context) (string, error) {
	g.record("CurrentBranch", false)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.branch, nil
}

func (g *Git) Status(context.Context) (domain.TreeStatus, error) {
	g.record("Status", false)
	g.mu.Lock()
	defer g.mu.Unlock()

	st := domain.TreeStatus{Staged: len(g.staged)}
	for _, f := range g.dirty {
		if g.tracked[f] {
			st.Unstaged++
		} else {
			st.Untracked++
		}
	}
	return st, nil
}

func (g *Git) Divergence(_ context.Context, branch string) (domain.Divergence, error) {
	g.record("Divergence", false, branch)
	g.mu.Lock()
	defer g.mu.Unlock()

	rb, ok := g.remote[branch]
	if !ok {
		return domain.Divergence{}, nil
	}
	return domain.Divergence{
		RemoteExists: true,
		Ahead:        len(g.commits[branch]) - rb.pushed,
		Behind:       rb.behind,
	}, nil
}

func (g *Git) Diff(_ context.Context, base string) (string, error) {
	g.record("Diff", false, base)
	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	for _, c := range g.commits[g.branch] {
		for _, f := range c.files {
			fmt.Fprintf(&b, "diff --git a/%s b/%s\n--- a/%s\n+++ b/%s\n@@ -0,0 +1 @@\n+%s\n", f, f, f, f, c.subject)
		}
	}
	return b.String(), nil
}

func (g *Git) CommitsAhead(_ context.Context, base string) ([]string, error) {
	g.record("CommitsAhead", false, base)
	g.mu.Lock()
	defer g.mu.Unlock()

	list := g.commits[g.branch]
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i].subject)
	}
	return out, nil
}

func (g *Git) HeadSubject(context.Context) (string, error) {
	g.record("HeadSubject", false)
	g.mu.Lock()
	defer g.mu.Unlock()

	if list := g.commits[g.branch]; len(list) > 0 {
		return list[len(list)-1].subject, nil
	}
	return g.headSeed, nil
}

func (g *Git) RemoteURL(context.Context) (string, error) {
	g.record("RemoteURL", false)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remoteURL, nil
}

func (g *Git) StageAll(context.Context) error {
	g.record("StageAll", true)
	g.mu.Lock()
	defer g.mu.Unlock()

	g.staged = append(g.staged, g.dirty...)
	g.dirty = nil
	return nil
}

func (g *Git) Commit(_ context.Context, message string) error {
	g.record("Commit", true, message)
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.staged) == 0 {
		return fmt.Errorf("nothing to commit, working tree clean")
	}
	g.commits[g.branch] = append(g.commits[g.branch], fakeCommit{subject: message, files: g.staged})
	for _, f := range g.staged {
		g.tracked[f] = true
	}
	g.staged = nil
	return nil
}

func (g *Git) AmendMessage(_ context.Context, message string) error {
	g.record("AmendMessage", true, message)
	g.mu.Lock()
	defer g.mu.Unlock()

	list := g.commits[g.branch]
	if len(list) == 0 {
		return fmt.Errorf("no commit to amend on %s", g.branch)
	}
	list[len(list)-1].subject = message
	return nil
}

func (g *Git) Push(_ context.Context, branch string, opts domain.PushOpts) error {
	g.record("Push", true, branch)
	g.mu.Lock()
	defer g.mu.Unlock()

	rb := g.remote[branch]
	if rb != nil && rb.behind > 0 && !opts.Force && !opts.ForceWithLease {
		return fmt.Errorf("! [rejected] %s -> %s (non-fast-forward)", branch, branch)
	}
	if rb == nil {
		rb = &remoteBranch{}
		g.remote[branch] = rb
	}
	rb.pushed = len(g.commits[branch])
	rb.behind = 0
	return nil
}

func (g *Git) Checkout(_ context.Context, branch string) error {
	g.record("Checkout", true, branch)
	g.mu.Lock()
	defer g.mu.Unlock()

	if branch == g.branch {
		return nil
	}
	if !g.branches[branch] {
		return fmt.Errorf("pathspec '%s' did not match any file(s) known to git", branch)
	}
	g.branch = branch
	return nil
}

func (g *Git) DeleteBranch(_ context.Context, branch string) error {
	g.record("DeleteBranch", true, branch)
	g.mu.Lock()
	defer g.mu.Unlock()

	if branch == g.branch {
		return fmt.Errorf("cannot delete checked-out branch '%s'", branch)
	}
	if !g.branches[branch] {
		return fmt.Errorf("branch '%s' not found", branch)
	}
	delete(g.branches, branch)
	return nil
}

func (g *Git) Fetch(context.Context) error {
	g.record("Fetch", true)
	return nil
}
