package wizard

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/input"
	"DnsBot/bot/chat/ui"
	"DnsBot/internal/lib/sl"
)

// Engine runs registered wizards, one active wizard per chat.
type Engine struct {
	wizards  map[string]*Wizard
	store    chat.SessionStore
	inputs   *input.Registry
	listener chat.Listener
	log      *slog.Logger
}

// NewEngine creates a wizard engine persisting into store.
func NewEngine(store chat.SessionStore, log *slog.Logger) *Engine {
	return &Engine{
		wizards: make(map[string]*Wizard),
		store:   store,
		inputs:  input.NewRegistry(),
		log:     log.With(sl.Module("chat.wizard")),
	}
}

// SetListener sets the listener for wizard lifecycle events.
func (e *Engine) SetListener(l chat.Listener) {
	e.listener = l
}

// Register adds a wizard.
func (e *Engine) Register(w *Wizard) error {
	if err := w.Check(); err != nil {
		return err
	}
	if _, exists := e.wizards[w.ID]; exists {
		return fmt.Errorf("%w: wizard %s registered twice", chat.ErrConfiguration, w.ID)
	}
	e.wizards[w.ID] = w
	return nil
}

// Start resets the chat's wizard state and renders the first field.
func (e *Engine) Start(ctx context.Context, m chat.Messenger, in chat.Input, wizardID string, metadata map[string]any) error {
	w, ok := e.wizards[wizardID]
	if !ok {
		return fmt.Errorf("%w: wizard %s", chat.ErrUnknownWorkflow, wizardID)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	previous, err := e.load(ctx, in.Key())
	if err != nil {
		return err
	}
	if previous != nil {
		e.emit(in.Key(), previous, chat.EventCancelled, nil)
	}

	now := time.Now()
	state := &State{
		WizardID:   wizardID,
		DialogueID: uuid.NewString(),
		Fields:     map[string]any{},
		Metadata:   metadata,
		StartedAt:  now,
		UpdatedAt:  now,
	}
	e.log.Info("starting wizard",
		slog.String("chat", in.Key().String()),
		slog.String("wizard_id", wizardID),
	)
	e.emit(in.Key(), state, chat.EventStarted, nil)

	s := e.session(w, state, m, in)
	if err := e.render(ctx, s); err != nil {
		return err
	}
	return e.save(ctx, in.Key(), state)
}

// Active reports whether the chat has a wizard in progress.
func (e *Engine) Active(ctx context.Context, key chat.ChatKey) (bool, error) {
	return e.store.Has(ctx, key, storeKey)
}

// Current returns the chat's wizard state, nil when none.
func (e *Engine) Current(ctx context.Context, key chat.ChatKey) (*State, error) {
	return e.load(ctx, key)
}

// HandleText feeds a typed answer to the current field.
func (e *Engine) HandleText(ctx context.Context, m chat.Messenger, in chat.Input) error {
	return e.answer(ctx, m, in)
}

// HandleCallback routes a button press: cancel, confirm and skip are
// wizard controls, everything else is an answer to the current field.
func (e *Engine) HandleCallback(ctx context.Context, m chat.Messenger, in chat.Input) error {
	cb := in.Callback()
	switch {
	case cb.Is(chat.ActionCancel):
		state, err := e.load(ctx, in.Key())
		if err != nil {
			return err
		}
		if state != nil && in.StaleFor(state.PromptMessageID) {
			return chat.ErrSessionExpired
		}
		_, err = e.Cancel(ctx, m, in.Key())
		return err
	case cb.Is(chat.ActionConfirm):
		return e.Confirm(ctx, m, in)
	case cb.Is(chat.ActionSkip):
		err := e.Skip(ctx, m, in)
		if errors.Is(err, ErrCannotSkip) {
			return nil
		}
		return err
	}
	return e.answer(ctx, m, in)
}

// Skip moves past a non-required field, storing its default if it has one.
func (e *Engine) Skip(ctx context.Context, m chat.Messenger, in chat.Input) error {
	s, err := e.resume(ctx, m, in)
	if err != nil {
		return err
	}
	if s.state.Confirming {
		return e.render(ctx, s)
	}

	def := s.current()
	if def.Required {
		if err := s.Send("⚠️ " + html.EscapeString(def.Label) + " is required and cannot be skipped."); err != nil {
			return err
		}
		return ErrCannotSkip
	}
	if def.Default != nil {
		if err := s.Stage(def, def.Default); err != nil {
			return fmt.Errorf("%w: %w", chat.ErrConfiguration, err)
		}
	}
	return e.advance(ctx, s)
}

// Confirm hands the collected values to the wizard's completion callback.
// The wizard state is released whether the callback succeeds or not.
func (e *Engine) Confirm(ctx context.Context, m chat.Messenger, in chat.Input) error {
	s, err := e.resume(ctx, m, in)
	if err != nil {
		return err
	}
	if !s.state.Confirming {
		if err := e.render(ctx, s); err != nil {
			return err
		}
		return e.save(ctx, in.Key(), s.state)
	}

	if err := e.store.Clear(ctx, in.Key(), storeKey); err != nil {
		return fmt.Errorf("clearing wizard: %w", err)
	}

	err = s.wizard.OnComplete(ctx, m, in.Key(), s.state.Fields, s.state.Metadata)
	if err != nil {
		e.log.Error("wizard completion",
			slog.String("chat", in.Key().String()),
			slog.String("wizard_id", s.wizard.ID),
			sl.Err(err),
		)
		if sendErr := s.Send("❌ " + html.EscapeString(err.Error())); sendErr != nil {
			e.log.Warn("notify operator", sl.Err(sendErr))
		}
		e.emit(in.Key(), s.state, chat.EventFailed, err)
		return err
	}

	e.emit(in.Key(), s.state, chat.EventCompleted, nil)
	return nil
}

// Cancel clears the chat's wizard and runs its cancel callback. With no
// active wizard it does nothing.
func (e *Engine) Cancel(ctx context.Context, m chat.Messenger, key chat.ChatKey) (bool, error) {
	state, err := e.load(ctx, key)
	if err != nil {
		return false, err
	}
	if state == nil {
		return false, nil
	}
	if err := e.store.Clear(ctx, key, storeKey); err != nil {
		return false, fmt.Errorf("clearing wizard: %w", err)
	}
	e.emit(key, state, chat.EventCancelled, nil)

	w, ok := e.wizards[state.WizardID]
	if ok && w.OnCancel != nil && m != nil {
		if err := w.OnCancel(ctx, m, key, state.Metadata); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (e *Engine) answer(ctx context.Context, m chat.Messenger, in chat.Input) error {
	s, err := e.resume(ctx, m, in)
	if err != nil {
		return err
	}
	if s.state.Confirming {
		if !in.IsCallback() {
			return s.Send("Please confirm or cancel using the buttons above.")
		}
		return nil
	}

	def := s.current()
	outcome, err := e.inputs.Handle(ctx, s, def, in)
	if err != nil {
		return err
	}

	switch outcome {
	case input.Saved:
		return e.advance(ctx, s)
	case input.Kept:
		if _, ok := s.Value(def); ok {
			return e.advance(ctx, s)
		}
		if err := e.render(ctx, s); err != nil {
			return err
		}
	}
	return e.save(ctx, in.Key(), s.state)
}

func (e *Engine) advance(ctx context.Context, s *session) error {
	s.state.StepIndex++
	if err := e.render(ctx, s); err != nil {
		return err
	}
	return e.save(ctx, s.in.Key(), s.state)
}

// render shows the current field, or the summary once every field was
// visited.
func (e *Engine) render(ctx context.Context, s *session) error {
	if s.state.StepIndex < len(s.wizard.Fields) {
		return e.inputs.Prompt(ctx, s, s.current())
	}

	s.state.Confirming = true
	var b strings.Builder
	b.WriteString("<b>" + html.EscapeString(s.wizard.Title) + "</b>\n\n")
	for _, def := range s.wizard.Fields {
		v, _ := s.Value(def)
		b.WriteString(html.EscapeString(def.Label) + ": <code>" + html.EscapeString(def.Format(v)) + "</code>\n")
	}
	b.WriteString("\nConfirm?")
	return s.show(b.String(), ui.ConfirmCancelKeyboard("✅ Confirm", "✖️ Cancel"))
}

func (e *Engine) resume(ctx context.Context, m chat.Messenger, in chat.Input) (*session, error) {
	state, err := e.load(ctx, in.Key())
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, chat.ErrSessionExpired
	}
	if in.StaleFor(state.PromptMessageID) {
		e.log.Debug("press on a stale prompt",
			slog.String("chat", in.Key().String()),
			slog.String("message_id", in.MessageID),
		)
		return nil, chat.ErrSessionExpired
	}
	w, ok := e.wizards[state.WizardID]
	if !ok {
		_ = e.store.Clear(ctx, in.Key(), storeKey)
		return nil, fmt.Errorf("%w: wizard %s", chat.ErrUnknownWorkflow, state.WizardID)
	}
	if state.StepIndex > len(w.Fields) {
		state.StepIndex = len(w.Fields)
	}
	return e.session(w, state, m, in), nil
}

func (e *Engine) session(w *Wizard, state *State, m chat.Messenger, in chat.Input) *session {
	return &session{wizard: w, state: state, m: m, in: in}
}

func (e *Engine) save(ctx context.Context, key chat.ChatKey, state *State) error {
	state.UpdatedAt = time.Now()
	if err := e.store.Set(ctx, key, storeKey, state); err != nil {
		return fmt.Errorf("saving wizard: %w", err)
	}
	return nil
}

func (e *Engine) load(ctx context.Context, key chat.ChatKey) (*State, error) {
	var state State
	ok, err := e.store.Get(ctx, key, storeKey, &state)
	if err != nil {
		return nil, fmt.Errorf("loading wizard: %w", err)
	}
	if !ok {
		return nil, nil
	}
	if state.Fields == nil {
		state.Fields = map[string]any{}
	}
	if state.Metadata == nil {
		state.Metadata = map[string]any{}
	}
	return &state, nil
}

func (e *Engine) emit(key chat.ChatKey, state *State, eventType string, err error) {
	if e.listener == nil {
		return
	}
	ev := chat.Event{
		Type:       eventType,
		Platform:   key.Platform,
		ChatID:     key.ChatID,
		DialogueID: state.DialogueID,
		WorkflowID: chat.WorkflowID(state.WizardID),
		Time:       time.Now(),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	e.listener.DialogueEvent(ev)
}
