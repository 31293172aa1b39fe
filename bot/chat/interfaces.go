package chat

import (
	"context"
)

// StepID is a unique identifier for a step within a workflow.
type StepID string

// WorkflowID is a unique identifier for a workflow.
type WorkflowID string

// Step defines the interface for a single workflow step.
//
// A step may send messages, call the DNS gateway or wait for the operator,
// but it never moves the engine itself: where to go next is decided only by
// the returned Result.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// Enter is called when the dialogue arrives at this step.
	// Return Wait to suspend until the next inbound event.
	Enter(ctx context.Context, d *Dialogue) (Result, error)

	// Handle processes the inbound event the step was waiting for.
	Handle(ctx context.Context, d *Dialogue, in Input) (Result, error)
}

// Workflow is an ordered list of steps. Advance moves to the next one in
// this order.
type Workflow interface {
	// ID returns the unique identifier for this workflow.
	ID() WorkflowID

	// Steps returns the steps in execution order.
	Steps() []Step
}

// SessionStore persists per-chat values between inbound events.
// Values are stored in their JSON form.
type SessionStore interface {
	Get(ctx context.Context, chat ChatKey, key string, out any) (bool, error)
	Set(ctx context.Context, chat ChatKey, key string, value any) error
	Clear(ctx context.Context, chat ChatKey, key string) error
	Has(ctx context.Context, chat ChatKey, key string) (bool, error)
}
