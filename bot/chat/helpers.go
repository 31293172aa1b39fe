package chat

import (
	"context"
)

// Flow is a workflow defined by an ordered list of steps.
type Flow struct {
	id    WorkflowID
	steps []Step
}

// NewFlow creates a workflow from steps in execution order.
func NewFlow(id WorkflowID, steps ...Step) *Flow {
	return &Flow{id: id, steps: steps}
}

func (f *Flow) ID() WorkflowID { return f.id }
func (f *Flow) Steps() []Step  { return f.steps }

// BaseStep provides common functionality for all steps.
type BaseStep struct {
	id StepID
}

// NewBaseStep creates a BaseStep with the given id.
func NewBaseStep(id StepID) BaseStep {
	return BaseStep{id: id}
}

func (s BaseStep) ID() StepID {
	return s.id
}

func (s BaseStep) Enter(ctx context.Context, d *Dialogue) (Result, error) {
	return Wait(), nil
}

func (s BaseStep) Handle(ctx context.Context, d *Dialogue, in Input) (Result, error) {
	return Wait(), nil
}
