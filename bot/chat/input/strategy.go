package input

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"DnsBot/bot/chat"
	"DnsBot/bot/fields"
)

// Outcome tells the calling step what an inbound event did to the field.
type Outcome int

const (
	// Ignored means the event was not an answer; keep waiting.
	Ignored Outcome = iota
	// Saved means a valid value was staged.
	Saved
	// Retry means the answer was rejected and the field asked again.
	Retry
	// Kept means the operator chose to leave the field as it was.
	Kept
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case Retry:
		return "retry"
	case Kept:
		return "kept"
	}
	return "ignored"
}

// Target is where a strategy reads the current value from and stages the
// answer to, plus the channel it talks through.
type Target interface {
	Value(def fields.Definition) (any, bool)
	Stage(def fields.Definition, v any) error
	Send(text string) error
	Prompt(text string, rows [][]chat.InlineButton) error
}

// Strategy collects one field of a given kind.
type Strategy interface {
	// Prompt asks for the field.
	Prompt(ctx context.Context, t Target, def fields.Definition) error
	// Handle consumes one inbound event. Only Saved changes the target.
	Handle(ctx context.Context, t Target, def fields.Definition, in chat.Input) (Outcome, error)
}

// Registry maps input kinds to strategies.
type Registry struct {
	strategies map[fields.Kind]Strategy
}

// NewRegistry returns a registry with a strategy for every kind.
func NewRegistry() *Registry {
	return &Registry{strategies: map[fields.Kind]Strategy{
		fields.KindText:    Text{},
		fields.KindNumber:  Number{},
		fields.KindSelect:  Select{},
		fields.KindBoolean: Boolean{},
	}}
}

// Register replaces the strategy of a kind.
func (r *Registry) Register(kind fields.Kind, s Strategy) {
	r.strategies[kind] = s
}

// For returns the strategy of a kind.
func (r *Registry) For(kind fields.Kind) (Strategy, error) {
	s, ok := r.strategies[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no input strategy for kind %q", chat.ErrConfiguration, kind)
	}
	return s, nil
}

// Prompt asks for a field with the strategy of its kind.
func (r *Registry) Prompt(ctx context.Context, t Target, def fields.Definition) error {
	s, err := r.For(def.Kind)
	if err != nil {
		return err
	}
	return s.Prompt(ctx, t, def)
}

// Handle passes an event to the strategy of the field's kind.
func (r *Registry) Handle(ctx context.Context, t Target, def fields.Definition, in chat.Input) (Outcome, error) {
	s, err := r.For(def.Kind)
	if err != nil {
		return Ignored, err
	}
	return s.Handle(ctx, t, def, in)
}

func promptText(t Target, def fields.Definition, instruction string) string {
	var b strings.Builder
	b.WriteString("✏️ <b>" + html.EscapeString(def.Label) + "</b>\n")
	if current, ok := t.Value(def); ok {
		b.WriteString("Current: <code>" + html.EscapeString(def.Format(current)) + "</code>\n")
	}
	if def.Hint != "" {
		b.WriteString("<i>" + html.EscapeString(def.Hint) + "</i>\n")
	}
	b.WriteString(instruction)
	return b.String()
}

func keepRow() []chat.InlineButton {
	return []chat.InlineButton{chat.Button("↩️ Keep current", chat.ActionKeep, nil)}
}

// reject reports a validation failure and asks again. Errors other than
// validation failures are returned as is.
func reject(ctx context.Context, s Strategy, t Target, def fields.Definition, err error) (Outcome, error) {
	var verr *fields.ValidationError
	if !errors.As(err, &verr) {
		return Ignored, err
	}
	if err := t.Send("❌ " + html.EscapeString(verr.Error())); err != nil {
		return Retry, err
	}
	return Retry, s.Prompt(ctx, t, def)
}

func stage(t Target, def fields.Definition, v any) (Outcome, error) {
	if err := t.Stage(def, v); err != nil {
		return Ignored, fmt.Errorf("%w: staging %s: %w", chat.ErrConfiguration, def.Key, err)
	}
	return Saved, nil
}
