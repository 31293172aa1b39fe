package input

import (
	"context"
	"fmt"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/ui"
	"DnsBot/bot/fields"
)

const chooseReminder = "Please use the buttons above."

// Select offers one button per option. Tokens carry the option index.
type Select struct{}

func (s Select) Prompt(_ context.Context, t Target, def fields.Definition) error {
	current, hasCurrent := t.Value(def)
	selected := -1
	if hasCurrent {
		selected = def.OptionIndex(current)
	}

	buttons := make([]chat.InlineButton, len(def.Options))
	for i, opt := range def.Options {
		label := opt.Label
		if i == selected {
			label = "✅ " + label
		}
		buttons[i] = chat.Button(label, chat.ActionSelect, i)
	}
	rows := ui.GridKeyboard(buttons, 2)
	if hasCurrent {
		rows = append(rows, keepRow())
	}
	return t.Prompt(promptText(t, def, "Choose an option."), rows)
}

func (s Select) Handle(ctx context.Context, t Target, def fields.Definition, in chat.Input) (Outcome, error) {
	if !in.IsCallback() {
		return Ignored, t.Send(chooseReminder)
	}
	cb := in.Callback()
	switch {
	case cb.Is(chat.ActionKeep):
		return Kept, nil
	case cb.Is(chat.ActionSelect):
		index, ok := cb.Index()
		if !ok || index < 0 || index >= len(def.Options) {
			return reject(ctx, s, t, def, &fields.ValidationError{
				Field:  def.Label,
				Reason: fmt.Sprintf("option %s is not available", string(cb.Payload)),
			})
		}
		v, err := def.Parse(def.Options[index].Value)
		if err != nil {
			return reject(ctx, s, t, def, err)
		}
		return stage(t, def, v)
	}
	return Ignored, nil
}

// Boolean offers exactly a yes and a no button.
type Boolean struct{}

func (s Boolean) Prompt(_ context.Context, t Target, def fields.Definition) error {
	yes, no := "Yes", "No"
	current, hasCurrent := t.Value(def)
	if hasCurrent {
		if b, isBool := current.(bool); isBool && b {
			yes = "✅ " + yes
		} else if isBool {
			no = "✅ " + no
		}
	}
	rows := [][]chat.InlineButton{{
		chat.Button(yes, chat.ActionBool, true),
		chat.Button(no, chat.ActionBool, false),
	}}
	if hasCurrent {
		rows = append(rows, keepRow())
	}
	return t.Prompt(promptText(t, def, "Choose yes or no."), rows)
}

func (s Boolean) Handle(ctx context.Context, t Target, def fields.Definition, in chat.Input) (Outcome, error) {
	if !in.IsCallback() {
		return Ignored, t.Send(chooseReminder)
	}
	cb := in.Callback()
	switch {
	case cb.Is(chat.ActionKeep):
		return Kept, nil
	case cb.Is(chat.ActionBool):
		flag, ok := cb.Flag()
		if !ok {
			return reject(ctx, s, t, def, &fields.ValidationError{Field: def.Label, Reason: "expected yes or no"})
		}
		v, err := def.Parse(flag)
		if err != nil {
			return reject(ctx, s, t, def, err)
		}
		return stage(t, def, v)
	}
	return Ignored, nil
}
