package dryrun

import (
	"context"
	"errors"

	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/ports"
)

type stackDryRun struct {
	next ports.Stack
	sink ports.Sink
}

// NewStack wraps a stacking manager gateway in preview mode.
func NewStack(next ports.Stack, sink ports.Sink) ports.Stack {
	return &stackDryRun{next: next, sink: sink}
}

func (s *stackDryRun) Available(ctx context.Context) error {
	return s.next.Available(ctx)
}

func (s *stackDryRun) Tracked(ctx context.Context, branch string) (domain.TrackedBranch, error) {
	return s.next.Tracked(ctx, branch)
}

func (s *stackDryRun) Track(ctx context.Context, branch, parent string) error {
	_, err := s.next.Tracked(ctx, branch)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotTracked):
		s.sink.Say("dry-run: would track %s onto %s", branch, parent)
		return nil
	default:
		return err
	}
}

// Submit previews a stack publish. When the manager already knows a web
// view for the branch the preview reuses it, so downstream state looks
// the same as after a real submit of an already-published stack.
func (s *stackDryRun) Submit(ctx context.Context, branch string) (domain.StackSubmission, error) {
	s.sink.Say("dry-run: would submit the stack at %s", branch)

	rec, err := s.next.Tracked(ctx, branch)
	if err != nil {
		if errors.Is(err, domain.ErrNotTracked) {
			return domain.StackSubmission{}, nil
		}
		return domain.StackSubmission{}, err
	}
	return domain.StackSubmission{URL: rec.URL}, nil
}

func (s *stackDryRun) Untrack(_ context.Context, branch string) error {
	s.sink.Say("dry-run: would untrack %s", branch)
	return nil
}

func (s *stackDryRun) Restack(_ context.Context, branch string) error {
	s.sink.Say("dry-run: would restack %s", branch)
	return nil
}
