// Package ghcli is the live code host gateway backed by the gh binary.
package ghcli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/drovertool/drover/pkg/adapters/process"
	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/ports"
)

// prFields is the projection requested from every pr view call.
const prFields = "number,title,body,url,headRefName,baseRefName,state,isDraft,labels"

// Gateway implements ports.Forge by spawning gh in a fixed working tree.
// The repository is inferred from the tree's origin remote.
type Gateway struct {
	dir  string
	bin  string
	exec process.Execer
}

var _ ports.Forge = (*Gateway)(nil)

// Option configures the gateway.
type Option func(*Gateway)

// WithExecer substitutes the subprocess executor.
func WithExecer(e process.Execer) Option {
	return func(g *Gateway) { g.exec = e }
}

// WithBinary overrides the gh binary name.
func WithBinary(bin string) Option {
	return func(g *Gateway) { g.bin = bin }
}

// New creates a live code host gateway rooted at dir.
func New(dir string, opts ...Option) *Gateway {
	g := &Gateway{
		dir:  dir,
		bin:  "gh",
		exec: process.NewRunner(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// prPayload is gh's JSON projection of a review request.
type prPayload struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	URL         string `json:"url"`
	HeadRefName string `json:"headRefName"`
	BaseRefName string `json:"baseRefName"`
	State       string `json:"state"`
	IsDraft     bool   `json:"isDraft"`
	Labels      []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

func (p prPayload) toDomain() domain.PullRequest {
	pr := domain.PullRequest{
		Number: p.Number,
		Title:  p.Title,
		Body:   p.Body,
		URL:    p.URL,
		Head:   p.HeadRefName,
		Base:   p.BaseRefName,
		State:  domain.PullRequestState(strings.ToLower(p.State)),
		Draft:  p.IsDraft,
	}
	for _, l := range p.Labels {
		pr.Labels = append(pr.Labels, l.Name)
	}
	return pr
}

// issuePayload is gh's JSON projection of an issue.
type issuePayload struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	URL    string `json:"url"`
	State  string `json:"state"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

func (p issuePayload) toDomain() domain.Issue {
	issue := domain.Issue{
		Number: p.Number,
		Title:  p.Title,
		Body:   p.Body,
		URL:    p.URL,
		State:  strings.ToLower(p.State),
	}
	for _, l := range p.Labels {
		issue.Labels = append(issue.Labels, l.Name)
	}
	return issue
}

func (g *Gateway) run(ctx context.Context, args ...string) (process.Result, error) {
	return g.exec.Run(ctx, g.dir, g.bin, args...)
}

func toolMessage(res process.Result) string {
	msg := strings.TrimSpace(res.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(res.Stdout)
	}
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", res.ExitCode)
	}
	return msg
}

// notFound matches the messages gh prints when a lookup target does not
// exist, across both the friendly and the raw GraphQL form.
func notFound(res process.Result) bool {
	text := res.Stderr + res.Stdout
	return strings.Contains(text, "no pull requests found") ||
		strings.Contains(text, "Could not resolve to")
}

// AuthStatus checks the stored gh credentials.
func (g *Gateway) AuthStatus(ctx context.Context) error {
	res, err := g.run(ctx, "auth", "status")
	if err != nil {
		return err
	}
	if !res.Ok() {
		return fmt.Errorf("gh auth status: %s", toolMessage(res))
	}
	return nil
}

// PullRequestForBranch finds the open review request whose head is branch.
func (g *Gateway) PullRequestForBranch(ctx context.Context, branch string) (domain.PullRequest, error) {
	return g.viewPR(ctx, branch)
}

// PullRequest fetches a review request by number.
func (g *Gateway) PullRequest(ctx context.Context, number int) (domain.PullRequest, error) {
	return g.viewPR(ctx, strconv.Itoa(number))
}

func (g *Gateway) viewPR(ctx context.Context, selector string) (domain.PullRequest, error) {
	res, err := g.run(ctx, "pr", "view", selector, "--json", prFields)
	if err != nil {
		return domain.PullRequest{}, err
	}
	if !res.Ok() {
		if notFound(res) {
			return domain.PullRequest{}, fmt.Errorf("%s: %w", selector, domain.ErrNoPullRequest)
		}
		return domain.PullRequest{}, fmt.Errorf("gh pr view: %s", toolMessage(res))
	}

	var payload prPayload
	if err := json.Unmarshal([]byte(res.Stdout), &payload); err != nil {
		return domain.PullRequest{}, fmt.Errorf("gh pr view: decode: %w", err)
	}
	return payload.toDomain(), nil
}

// Issue fetches an issue by number.
func (g *Gateway) Issue(ctx context.Context, number int) (domain.Issue, error) {
	res, err := g.run(ctx, "issue", "view", strconv.Itoa(number), "--json", "number,title,body,url,state,labels")
	if err != nil {
		return domain.Issue{}, err
	}
	if !res.Ok() {
		if notFound(res) {
			return domain.Issue{}, fmt.Errorf("#%d: %w", number, domain.ErrNoIssue)
		}
		return domain.Issue{}, fmt.Errorf("gh issue view: %s", toolMessage(res))
	}

	var payload issuePayload
	if err := json.Unmarshal([]byte(res.Stdout), &payload); err != nil {
		return domain.Issue{}, fmt.Errorf("gh issue view: decode: %w", err)
	}
	return payload.toDomain(), nil
}

// DefaultBranch returns the repository's default branch name.
func (g *Gateway) DefaultBranch(ctx context.Context) (string, error) {
	res, err := g.run(ctx, "repo", "view", "--json", "defaultBranchRef")
	if err != nil {
		return "", err
	}
	if !res.Ok() {
		return "", fmt.Errorf("gh repo view: %s", toolMessage(res))
	}

	var payload struct {
		DefaultBranchRef struct {
			Name string `json:"name"`
		} `json:"defaultBranchRef"`
	}
	if err := json.Unmarshal([]byte(res.Stdout), &payload); err != nil {
		return "", fmt.Errorf("gh repo view: decode: %w", err)
	}
	if payload.DefaultBranchRef.Name == "" {
		return "", fmt.Errorf("gh repo view: empty default branch")
	}
	return payload.DefaultBranchRef.Name, nil
}

// CreatePullRequest opens a review request. gh prints the new request's
// URL; the number is its trailing path segment.
func (g *Gateway) CreatePullRequest(ctx context.Context, pr domain.NewPullRequest) (domain.PullRequest, error) {
	args := []string{"pr", "create", "--head", pr.Head, "--base", pr.Base, "--title", pr.Title, "--body", pr.Body}
	if pr.Draft {
		args = append(args, "--draft")
	}
	res, err := g.run(ctx, args...)
	if err != nil {
		return domain.PullRequest{}, err
	}
	if !res.Ok() {
		return domain.PullRequest{}, fmt.Errorf("gh pr create: %s", toolMessage(res))
	}

	url := lastLine(res.Stdout)
	number, err := numberFromURL(url)
	if err != nil {
		return domain.PullRequest{}, fmt.Errorf("gh pr create: %w", err)
	}
	return domain.PullRequest{
		Number: number,
		Title:  pr.Title,
		Body:   pr.Body,
		URL:    url,
		Head:   pr.Head,
		Base:   pr.Base,
		State:  domain.PullRequestOpen,
		Draft:  pr.Draft,
	}, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func numberFromURL(url string) (int, error) {
	idx := strings.LastIndex(url, "/")
	if idx < 0 || idx == len(url)-1 {
		return 0, fmt.Errorf("no number in %q", url)
	}
	n, err := strconv.Atoi(url[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("no number in %q", url)
	}
	return n, nil
}

// UpdatePullRequest applies the patch fields that are set.
func (g *Gateway) UpdatePullRequest(ctx context.Context, number int, patch domain.PullRequestPatch) error {
	args := []string{"pr", "edit", strconv.Itoa(number)}
	if patch.Title != nil {
		args = append(args, "--title", *patch.Title)
	}
	if patch.Body != nil {
		args = append(args, "--body", *patch.Body)
	}
	if patch.Base != nil {
		args = append(args, "--base", *patch.Base)
	}
	if len(args) == 3 {
		return nil
	}
	res, err := g.run(ctx, args...)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return fmt.Errorf("gh pr edit: %s", toolMessage(res))
	}
	return nil
}

// AddLabels attaches labels to a review request.
func (g *Gateway) AddLabels(ctx context.Context, number int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	res, err := g.run(ctx, "pr", "edit", strconv.Itoa(number), "--add-label", strings.Join(labels, ","))
	if err != nil {
		return err
	}
	if !res.Ok() {
		return fmt.Errorf("gh pr edit: %s", toolMessage(res))
	}
	return nil
}

// Merge lands a review request.
func (g *Gateway) Merge(ctx context.Context, number int, opts domain.MergeOpts) error {
	method := opts.Method
	if method == "" {
		method = domain.MergeSquash
	}
	args := []string{"pr", "merge", strconv.Itoa(number), "--" + string(method)}
	if opts.DeleteBranch {
		args = append(args, "--delete-branch")
	}
	res, err := g.run(ctx, args...)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return fmt.Errorf("gh pr merge: %s", toolMessage(res))
	}
	return nil
}

// ClosePullRequest closes a review request without merging.
func (g *Gateway) ClosePullRequest(ctx context.Context, number int) error {
	res, err := g.run(ctx, "pr", "close", strconv.Itoa(number))
	if err != nil {
		return err
	}
	if !res.Ok() {
		return fmt.Errorf("gh pr close: %s", toolMessage(res))
	}
	return nil
}
