package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/drovertool/drover/pkg/domain"
	"github.com/drovertool/drover/pkg/ports"
)

// Observer is the shared observation channel for the three decorators.
type Observer struct {
	// Logger receives one line per gateway call. Required.
	Logger *slog.Logger
	// Hooks receives the structured events. Optional fields.
	Hooks domain.Hooks
	// Clock stamps the events. Defaults to the wall clock.
	Clock ports.Clock
	// DryRun marks emitted events as previews when the audit layer wraps
	// dry-run gateways.
	DryRun bool
}

func (o Observer) clock() ports.Clock {
	if o.Clock == nil {
		return ports.SystemClock{}
	}
	return o.Clock
}

// emit records one finished call.
func (o Observer) emit(ctx context.Context, system domain.GatewaySystem, op string, args []string, mutating bool, start time.Time, err error) {
	event := &domain.GatewayEvent{
		Timestamp: start,
		System:    system,
		Op:        op,
		Args:      args,
		Mutating:  mutating,
		DryRun:    o.DryRun,
		Duration:  o.clock().Now().Sub(start),
	}
	if err != nil {
		event.Err = err.Error()
	}
	if o.Hooks.OnGatewayCall != nil {
		o.Hooks.OnGatewayCall(ctx, event)
	}
	if o.Logger == nil {
		return
	}

	attrs := []any{
		"system", string(system),
		"op", op,
		"mutating", mutating,
		"duration", event.Duration,
	}
	if len(args) > 0 {
		attrs = append(attrs, "args", args)
	}
	if o.DryRun {
		attrs = append(attrs, "dry_run", true)
	}

	switch {
	case err == nil && !mutating:
		o.Logger.DebugContext(ctx, "gateway call", attrs...)
	case err == nil:
		o.Logger.InfoContext(ctx, "gateway call", attrs...)
	case domain.IsNotFound(err):
		// Misses are answers, not failures.
		o.Logger.DebugContext(ctx, "gateway miss", append(attrs, "err", err.Error())...)
	default:
		o.Logger.WarnContext(ctx, "gateway call failed", append(attrs, "err", err.Error())...)
	}
}
