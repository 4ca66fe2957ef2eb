package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/ports"
)

var _ ports.Forge = (*Forge)(nil)

// ForgeFixture seeds a fake code host.
type ForgeFixture struct {
	// PullRequests exist at seed time.
	PullRequests []domain.PullRequest
	// Issues exist at seed time.
	Issues []domain.Issue
	// DefaultBranch of the repository. Default main.
	DefaultBranch string
	// AuthErr makes AuthStatus fail.
	AuthErr error
	// BaseURL prefixes synthesized review request URLs. Default
	// https://codehost.test/acme/widgets.
	BaseURL string
}

// Forge is the fake code host gateway.
type Forge struct {
	recorder

	mu            sync.Mutex
	prs           map[int]*domain.PullRequest
	issues        map[int]domain.Issue
	defaultBranch string
	authErr       error
	baseURL       string
	next          int
}

// NewForge creates a fake code host from the fixture.
func NewForge(fx ForgeFixture) *Forge {
	f := &Forge{
		prs:           make(map[int]*domain.PullRequest),
		issues:        make(map[int]domain.Issue),
		defaultBranch: fx.DefaultBranch,
		authErr:       fx.AuthErr,
		baseURL:       fx.BaseURL,
		next:          1,
	}
	if f.defaultBranch == "" {
		f.defaultBranch = "main"
	}
	if f.baseURL == "" {
		f.baseURL = "https://codehost.test/acme/widgets"
	}
	for _, pr := range fx.PullRequests {
		p := pr
		if p.State == "" {
			p.State = domain.PullRequestOpen
		}
		if p.URL == "" {
			p.URL = fmt.Sprintf("%s/pull/%d", f.baseURL, p.Number)
		}
		f.prs[p.Number] = &p
		if p.Number >= f.next {
			f.next = p.Number + 1
		}
	}
	for _, issue := range fx.Issues {
		f.issues[issue.Number] = issue
	}
	return f
}

func (f *Forge) AuthStatus(context.Context) error {
	f.record("AuthStatus", false)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authErr
}

func (f *Forge) PullRequestForBranch(_ context.Context, branch string) (domain.PullRequest, error) {
	f.record("PullRequestForBranch", false, branch)
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, pr := range f.prs {
		if pr.Head == branch && pr.State == domain.PullRequestOpen {
			return *pr, nil
		}
	}
	return domain.PullRequest{}, fmt.Errorf("%s: %w", branch, domain.ErrNoPullRequest)
}

func (f *Forge) PullRequest(_ context.Context, number int) (domain.PullRequest, error) {
	f.record("PullRequest", false, fmt.Sprintf("%d", number))
	f.mu.Lock()
	defer f.mu.Unlock()

	pr, ok := f.prs[number]
	if !ok {
		return domain.PullRequest{}, fmt.Errorf("#%d: %w", number, domain.ErrNoPullRequest)
	}
	return *pr, nil
}

func (f *Forge) Issue(_ context.Context, number int) (domain.Issue, error) {
	f.record("Issue", false, fmt.Sprintf("%d", number))
	f.mu.Lock()
	defer f.mu.Unlock()

	issue, ok := f.issues[number]
	if !ok {
		return domain.Issue{}, fmt.Errorf("#%d: %w", number, domain.ErrNoIssue)
	}
	return issue, nil
}

func (f *Forge) DefaultBranch(context.Context) (string, error) {
	f.record("DefaultBranch", false)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.defaultBranch, nil
}

func (f *Forge) CreatePullRequest(_ context.Context, pr domain.NewPullRequest) (domain.PullRequest, error) {
	f.record("CreatePullRequest", true, pr.Head)
	f.mu.Lock()
	defer f.mu.Unlock()

	created := domain.PullRequest{
		Number: f.next,
		Title:  pr.Title,
		Body:   pr.Body,
		URL:    fmt.Sprintf("%s/pull/%d", f.baseURL, f.next),
		Head:   pr.Head,
		Base:   pr.Base,
		State:  domain.PullRequestOpen,
		Draft:  pr.Draft,
	}
	f.prs[created.Number] = &created
	f.next++
	return created, nil
}

func (f *Forge) UpdatePullRequest(_ context.Context, number int, patch domain.PullRequestPatch) error {
	f.record("UpdatePullRequest", true, fmt.Sprintf("%d", number))
	f.mu.Lock()
	defer f.mu.Unlock()

	pr, ok := f.prs[number]
	if !ok {
		return fmt.Errorf("#%d: %w", number, domain.ErrNoPullRequest)
	}
	if patch.Title != nil {
		pr.Title = *patch.Title
	}
	if patch.Body != nil {
		pr.Body = *patch.Body
	}
	if patch.Base != nil {
		pr.Base = *patch.Base
	}
	return nil
}

func (f *Forge) AddLabels(_ context.Context, number int, labels []string) error {
	f.record("AddLabels", true, fmt.Sprintf("%d", number))
	f.mu.Lock()
	defer f.mu.Unlock()

	pr, ok := f.prs[number]
	if !ok {
		return fmt.Errorf("#%d: %w", number, domain.ErrNoPullRequest)
	}
	for _, l := range labels {
		if !slices.Contains(pr.Labels, l) {
			pr.Labels = append(pr.Labels, l)
		}
	}
	return nil
}

func (f *Forge) Merge(_ context.Context, number int, opts domain.MergeOpts) error {
	f.record("Merge", true, fmt.Sprintf("%d", number))
	f.mu.Lock()
	defer f.mu.Unlock()

	pr, ok := f.prs[number]
	if !ok {
		return fmt.Errorf("#%d: %w", number, domain.ErrNoPullRequest)
	}
	if pr.State != domain.PullRequestOpen {
		return fmt.Errorf("#%d is %s, not open", number, pr.State)
	}
	pr.State = domain.PullRequestMerged
	return nil
}

func (f *Forge) ClosePullRequest(_ context.Context, number int) error {
	f.record("ClosePullRequest", true, fmt.Sprintf("%d", number))
	f.mu.Lock()
	defer f.mu.Unlock()

	pr, ok := f.prs[number]
	if !ok {
		return fmt.Errorf("#%d: %w", number, domain.ErrNoPullRequest)
	}
	if pr.State == domain.PullRequestOpen {
		pr.State = domain.PullRequestClosed
	}
	return nil
}
