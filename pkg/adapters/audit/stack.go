package audit

import (
	"context"

	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/ports"
)

type stackAudit struct {
	next ports.Stack
	obs  Observer
}

// NewStack wraps a stacking manager gateway with observation.
func NewStack(next ports.Stack, obs Observer) ports.Stack {
	return &stackAudit{next: next, obs: obs}
}

func (s *stackAudit) Available(ctx context.Context) error {
	start := s.obs.clock().Now()
	err := s.next.Available(ctx)
	s.obs.emit(ctx, domain.SystemStack, "Available", nil, false, start, err)
	return err
}

func (s *stackAudit) Tracked(ctx context.Context, branch string) (domain.TrackedBranch, error) {
	start := s.obs.clock().Now()
	rec, err := s.next.Tracked(ctx, branch)
	s.obs.emit(ctx, domain.SystemStack, "Tracked", []string{branch}, false, start, err)
	return rec, err
}

func (s *stackAudit) Track(ctx context.Context, branch, parent string) error {
	start := s.obs.clock().Now()
	err := s.next.Track(ctx, branch, parent)
	s.obs.emit(ctx, domain.SystemStack, "Track", []string{branch, parent}, true, start, err)
	return err
}

func (s *stackAudit) Submit(ctx context.Context, branch string) (domain.StackSubmission, error) {
	start := s.obs.clock().Now()
	sub, err := s.next.Submit(ctx, branch)
	s.obs.emit(ctx, domain.SystemStack, "Submit", []string{branch}, true, start, err)
	return sub, err
}

func (s *stackAudit) Untrack(ctx context.Context, branch string) error {
	start := s.obs.clock().Now()
	err := s.next.Untrack(ctx, branch)
	s.obs.emit(ctx, domain.SystemStack, "Untrack", []string{branch}, true, start, err)
	return err
}

func (s *stackAudit) Restack(ctx context.Context, branch string) error {
	start := s.obs.clock().Now()
	err := s.next.Restack(ctx, branch)
	s.obs.emit(ctx, domain.SystemStack, "Restack", []string{branch}, true, start, err)
	return err
}
