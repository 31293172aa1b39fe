package chat

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"DnsBot/internal/lib/sl"
)

// dialogueKey is the session key the engine persists its ChatState under.
const dialogueKey = "dialogue"

// DefaultMaxTransitions bounds the steps entered for one inbound event.
const DefaultMaxTransitions = 64

// ChatEngine drives workflows step by step and keeps their position in a
// SessionStore, so a dialogue survives process restarts between events.
type ChatEngine struct {
	workflows      map[WorkflowID]Workflow
	store          SessionStore
	listener       Listener
	maxTransitions int
	log            *slog.Logger
}

// NewChatEngine creates a new chat engine.
func NewChatEngine(store SessionStore, log *slog.Logger) *ChatEngine {
	return &ChatEngine{
		workflows:      make(map[WorkflowID]Workflow),
		store:          store,
		maxTransitions: DefaultMaxTransitions,
		log:            log.With(sl.Module("chat.engine")),
	}
}

// SetListener sets the listener for dialogue events.
func (e *ChatEngine) SetListener(l Listener) {
	e.listener = l
}

// SetMaxTransitions overrides the per-event transition guard.
func (e *ChatEngine) SetMaxTransitions(n int) {
	if n > 0 {
		e.maxTransitions = n
	}
}

// RegisterWorkflow adds a workflow to the engine.
func (e *ChatEngine) RegisterWorkflow(w Workflow) error {
	steps := w.Steps()
	if len(steps) == 0 {
		return fmt.Errorf("%w: workflow %s has no steps", ErrConfiguration, w.ID())
	}
	seen := make(map[StepID]bool, len(steps))
	for _, step := range steps {
		if seen[step.ID()] {
			return fmt.Errorf("%w: workflow %s has duplicate step %s", ErrConfiguration, w.ID(), step.ID())
		}
		seen[step.ID()] = true
	}
	e.workflows[w.ID()] = w
	e.log.Info("registered workflow",
		slog.String("workflow_id", string(w.ID())),
		slog.Int("steps", len(steps)),
	)
	return nil
}

// Start begins a new dialogue, replacing whatever the chat had in progress.
func (e *ChatEngine) Start(ctx context.Context, m Messenger, in Input, workflowID WorkflowID, seed map[string]any) error {
	w, ok := e.workflows[workflowID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWorkflow, workflowID)
	}

	key := in.Key()
	previous, err := e.load(ctx, key)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	if previous != nil {
		if err := e.store.Clear(ctx, key, dialogueKey); err != nil {
			return fmt.Errorf("clearing previous dialogue: %w", err)
		}
		e.emit(previous, EventCancelled, nil)
		e.log.Debug("replaced active dialogue",
			slog.String("chat", key.String()),
			slog.String("workflow_id", string(previous.WorkflowID)),
		)
	}

	state := NewChatState(key, in.UserID, workflowID)
	state.DialogueID = uuid.NewString()
	state.Data.Merge(seed)

	steps := w.Steps()
	state.StepIndex = 0
	state.CurrentStep = steps[0].ID()

	e.log.Info("starting workflow",
		slog.String("chat", key.String()),
		slog.String("workflow_id", string(workflowID)),
		slog.String("dialogue_id", state.DialogueID),
	)
	e.emit(state, EventStarted, nil)

	d := &Dialogue{State: state, Messenger: m, Input: in}
	result, err := steps[0].Enter(ctx, d)
	return e.run(ctx, w, d, result, err)
}

// HandleText routes a typed message to the current step.
func (e *ChatEngine) HandleText(ctx context.Context, m Messenger, in Input) error {
	return e.handle(ctx, m, in)
}

// HandleCallback routes a button press to the current step. The reserved
// cancel action ends the dialogue whatever step it is on.
func (e *ChatEngine) HandleCallback(ctx context.Context, m Messenger, in Input) error {
	return e.handle(ctx, m, in)
}

// Cancel drops the chat's dialogue. Cancelling with nothing active is a
// no-op; the result tells whether anything was dropped.
func (e *ChatEngine) Cancel(ctx context.Context, key ChatKey) (bool, error) {
	state, err := e.load(ctx, key)
	if err != nil {
		return false, fmt.Errorf("loading state: %w", err)
	}
	if state == nil {
		return false, nil
	}
	if err := e.store.Clear(ctx, key, dialogueKey); err != nil {
		return false, fmt.Errorf("clearing state: %w", err)
	}
	e.emit(state, EventCancelled, nil)
	return true, nil
}

// Active checks if a chat has a dialogue in progress.
func (e *ChatEngine) Active(ctx context.Context, key ChatKey) (bool, error) {
	return e.store.Has(ctx, key, dialogueKey)
}

// Dialogue returns the persisted dialogue of a chat, nil when none.
func (e *ChatEngine) Dialogue(ctx context.Context, key ChatKey) (*ChatState, error) {
	return e.load(ctx, key)
}

func (e *ChatEngine) handle(ctx context.Context, m Messenger, in Input) error {
	state, err := e.load(ctx, in.Key())
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	if state == nil {
		return ErrSessionExpired
	}
	if in.StaleFor(state.PromptMessageID) {
		e.log.Debug("press on a stale prompt",
			slog.String("chat", in.Key().String()),
			slog.String("message_id", in.MessageID),
		)
		return ErrSessionExpired
	}

	d := &Dialogue{State: state, Messenger: m, Input: in}

	w, ok := e.workflows[state.WorkflowID]
	if !ok {
		return e.fail(ctx, d, fmt.Errorf("%w: %s", ErrUnknownWorkflow, state.WorkflowID))
	}

	if in.IsCallback() && in.Callback().Is(ActionCancel) {
		_ = d.Send("Cancelled.")
		return e.finish(ctx, d, EventCancelled)
	}

	steps := w.Steps()
	index := indexOf(steps, state.CurrentStep)
	if index < 0 {
		return e.fail(ctx, d, fmt.Errorf("%w: %s", ErrUnknownStep, state.CurrentStep))
	}
	state.StepIndex = index

	result, err := steps[index].Handle(ctx, d, in)
	return e.run(ctx, w, d, result, err)
}

// run executes step results until a step waits for input or the dialogue
// ends.
func (e *ChatEngine) run(ctx context.Context, w Workflow, d *Dialogue, result Result, err error) error {
	steps := w.Steps()
	state := d.State

	for transitions := 0; ; transitions++ {
		if err != nil {
			return e.fail(ctx, d, err)
		}
		if transitions >= e.maxTransitions {
			return e.fail(ctx, d, ErrTransitionLimit)
		}

		switch result.kind {
		case kindWait:
			return e.save(ctx, state)
		case kindExit:
			return e.finish(ctx, d, EventExited)
		case kindAdvance:
			next := state.StepIndex + 1
			if next >= len(steps) {
				return e.finish(ctx, d, EventCompleted)
			}
			e.moveTo(state, steps, next)
		case kindJump:
			next := indexOf(steps, result.target)
			if next < 0 {
				return e.fail(ctx, d, fmt.Errorf("%w: %s", ErrUnknownStep, result.target))
			}
			e.moveTo(state, steps, next)
		case kindRepeat:
		default:
			return e.fail(ctx, d, fmt.Errorf("%w: unsupported step result %s", ErrConfiguration, result))
		}

		e.log.Debug("transitioning",
			slog.String("chat", state.Key().String()),
			slog.String("step_id", string(state.CurrentStep)),
			slog.String("result", result.String()),
		)
		e.emit(state, EventStep, nil)

		result, err = steps[state.StepIndex].Enter(ctx, d)
	}
}

func (e *ChatEngine) moveTo(state *ChatState, steps []Step, index int) {
	state.StepIndex = index
	state.CurrentStep = steps[index].ID()
}

// fail ends the dialogue after an unrecovered error and tells the operator.
func (e *ChatEngine) fail(ctx context.Context, d *Dialogue, err error) error {
	state := d.State
	e.log.Error("step error",
		slog.String("chat", state.Key().String()),
		slog.String("workflow_id", string(state.WorkflowID)),
		slog.String("step_id", string(state.CurrentStep)),
		sl.Err(err),
	)

	msg := "❌ " + html.EscapeString(err.Error())
	if IsConfigurationError(err) {
		msg = "⚠️ Internal configuration error, the dialogue was stopped."
	}
	if sendErr := d.Send(msg); sendErr != nil {
		e.log.Warn("notify operator", sl.Err(sendErr))
	}

	if clearErr := e.store.Clear(ctx, state.Key(), dialogueKey); clearErr != nil {
		err = errors.Join(err, fmt.Errorf("clearing state: %w", clearErr))
	}
	e.emit(state, EventFailed, err)
	return err
}

func (e *ChatEngine) finish(ctx context.Context, d *Dialogue, event string) error {
	state := d.State
	if err := e.store.Clear(ctx, state.Key(), dialogueKey); err != nil {
		return fmt.Errorf("clearing state: %w", err)
	}
	e.log.Info("workflow finished",
		slog.String("chat", state.Key().String()),
		slog.String("workflow_id", string(state.WorkflowID)),
		slog.String("event", event),
	)
	e.emit(state, event, nil)
	return nil
}

func (e *ChatEngine) save(ctx context.Context, state *ChatState) error {
	state.UpdatedAt = time.Now()
	if err := e.store.Set(ctx, state.Key(), dialogueKey, state); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

func (e *ChatEngine) load(ctx context.Context, key ChatKey) (*ChatState, error) {
	var state ChatState
	ok, err := e.store.Get(ctx, key, dialogueKey, &state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	if state.Data == nil {
		state.Data = make(State)
	}
	return &state, nil
}

func (e *ChatEngine) emit(state *ChatState, eventType string, err error) {
	if e.listener == nil {
		return
	}
	ev := Event{
		Type:       eventType,
		Platform:   state.Platform,
		ChatID:     state.ChatID,
		DialogueID: state.DialogueID,
		WorkflowID: state.WorkflowID,
		StepID:     state.CurrentStep,
		Time:       time.Now(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	e.listener.DialogueEvent(ev)
}

func indexOf(steps []Step, id StepID) int {
	for i, step := range steps {
		if step.ID() == id {
			return i
		}
	}
	return -1
}
