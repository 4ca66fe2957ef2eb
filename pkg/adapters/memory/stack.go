package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/ports"
)

var _ ports.Stack = (*Stack)(nil)

// StackFixture seeds a fake stacking manager.
type StackFixture struct {
	// Tracked branches known to the manager at seed time.
	Tracked []domain.TrackedBranch
	// AvailableErr makes Available fail, domain.ErrToolNotInstalled to
	// simulate a missing binary.
	AvailableErr error
	// SubmitNumbers maps branch to the review request number a submit
	// reports. Zero means the manager only knows a stack view URL.
	SubmitNumbers map[string]int
	// SubmitURLs overrides the synthesized submit URL per branch.
	SubmitURLs map[string]string
}

// Stack is the fake stacking manager gateway.
type Stack struct {
	recorder

	mu           sync.Mutex
	tracked      map[string]domain.TrackedBranch
	availableErr error
	submitURLs   map[string]string
	submitNums   map[string]int
}

// NewStack creates a fake stacking manager from the fixture.
func NewStack(fx StackFixture) *Stack {
	s := &Stack{
		tracked:      make(map[string]domain.TrackedBranch),
		availableErr: fx.AvailableErr,
		submitURLs:   make(map[string]string),
		submitNums:   make(map[string]int),
	}
	for _, rec := range fx.Tracked {
		s.tracked[rec.Branch] = rec
	}
	for branch, url := range fx.SubmitURLs {
		s.submitURLs[branch] = url
	}
	for branch, n := range fx.SubmitNumbers {
		s.submitNums[branch] = n
	}
	return s
}

// SetSubmitNumber makes future submits of branch report a review request
// number, the way a manager that opened a request would.
func (s *Stack) SetSubmitNumber(branch string, number int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitNums[branch] = number
}

func (s *Stack) Available(context.Context) error {
	s.record("Available", false)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availableErr
}

func (s *Stack) Tracked(_ context.Context, branch string) (domain.TrackedBranch, error) {
	s.record("Tracked", false, branch)
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tracked[branch]
	if !ok {
		return domain.TrackedBranch{}, fmt.Errorf("%s: %w", branch, domain.ErrNotTracked)
	}
	return rec, nil
}

func (s *Stack) Track(_ context.Context, branch, parent string) error {
	s.record("Track", true, branch, parent)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tracked[branch]; ok {
		return nil
	}
	s.tracked[branch] = domain.TrackedBranch{Branch: branch, Parent: parent}
	return nil
}

func (s *Stack) Submit(_ context.Context, branch string) (domain.StackSubmission, error) {
	s.record("Submit", true, branch)
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tracked[branch]
	if !ok {
		return domain.StackSubmission{}, fmt.Errorf("%s: %w", branch, domain.ErrNotTracked)
	}

	url := s.submitURLs[branch]
	if url == "" {
		url = "https://stacks.test/" + branch
	}
	rec.URL = url
	s.tracked[branch] = rec
	return domain.StackSubmission{URL: url, PRNumber: s.submitNums[branch]}, nil
}

func (s *Stack) Untrack(_ context.Context, branch string) error {
	s.record("Untrack", true, branch)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tracked, branch)
	return nil
}

func (s *Stack) Restack(_ context.Context, branch string) error {
	s.record("Restack", true, branch)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tracked[branch]; !ok {
		return fmt.Errorf("%s: %w", branch, domain.ErrNotTracked)
	}
	return nil
}
