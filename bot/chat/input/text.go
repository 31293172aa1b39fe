package input

import (
	"context"

	"DnsBot/bot/chat"
	"DnsBot/bot/fields"
)

// Text collects a free-form answer and loops until it validates.
type Text struct{}

func (s Text) Prompt(_ context.Context, t Target, def fields.Definition) error {
	var rows [][]chat.InlineButton
	if _, ok := t.Value(def); ok {
		rows = append(rows, keepRow())
	}
	return t.Prompt(promptText(t, def, "Send the new value."), rows)
}

func (s Text) Handle(ctx context.Context, t Target, def fields.Definition, in chat.Input) (Outcome, error) {
	return handleTyped(ctx, s, t, def, in)
}

// Number is Text with a numeric parse in front of the field's rules.
type Number struct{}

func (s Number) Prompt(_ context.Context, t Target, def fields.Definition) error {
	var rows [][]chat.InlineButton
	if _, ok := t.Value(def); ok {
		rows = append(rows, keepRow())
	}
	return t.Prompt(promptText(t, def, "Send a number."), rows)
}

func (s Number) Handle(ctx context.Context, t Target, def fields.Definition, in chat.Input) (Outcome, error) {
	return handleTyped(ctx, s, t, def, in)
}

func handleTyped(ctx context.Context, s Strategy, t Target, def fields.Definition, in chat.Input) (Outcome, error) {
	if in.IsCallback() {
		if in.Callback().Is(chat.ActionKeep) {
			return Kept, nil
		}
		return Ignored, nil
	}

	v, err := def.Parse(in.Text)
	if err != nil {
		return reject(ctx, s, t, def, err)
	}
	return stage(t, def, v)
}
