package domain

import (
	"context"
	"time"
)

// GatewaySystem names a capability family in events.
type GatewaySystem string

const (
	SystemGit   GatewaySystem = "git"
	SystemForge GatewaySystem = "forge"
	SystemStack GatewaySystem = "stack"
)

// GatewayEvent describes one capability call, emitted by the audit
// decorators and consumed by logging and metrics.
type GatewayEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	System    GatewaySystem `json:"system"`
	Op        string        `json:"op"`
	Args      []string      `json:"args,omitempty"`
	Mutating  bool          `json:"mutating,omitempty"`
	DryRun    bool          `json:"dry_run,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       string        `json:"err,omitempty"`
}

// StepEvent describes one pipeline step execution.
type StepEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Phase     Phase         `json:"phase"`
	SessionID string        `json:"session_id,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Err       *StepError    `json:"-"`
}

// Hooks defines callbacks for pipeline and gateway observability.
// All fields are optional.
type Hooks struct {
	OnStepStart   func(context.Context, *StepEvent)
	OnStepEnd     func(context.Context, *StepEvent)
	OnGatewayCall func(context.Context, *GatewayEvent)
}
