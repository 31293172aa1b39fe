package input

import (
	"DnsBot/bot/chat"
	"DnsBot/bot/chat/ui"
	"DnsBot/bot/fields"
)

// Draft is the Target of workflow dialogues: values are read with the
// draft over the original entity and staged into the draft.
type Draft struct {
	D *chat.Dialogue
}

// DraftOf wraps a dialogue.
func DraftOf(d *chat.Dialogue) Draft {
	return Draft{D: d}
}

func (t Draft) Value(def fields.Definition) (any, bool) {
	return fields.EffectiveValue(t.D.Draft(), t.D.Original(), def)
}

func (t Draft) Stage(def fields.Definition, v any) error {
	draft, err := fields.StageValue(t.D.Draft(), t.D.Original(), def, v)
	if err != nil {
		return err
	}
	t.D.SetDraft(draft)
	return nil
}

func (t Draft) Send(text string) error {
	return t.D.Send(text)
}

// Prompt adds the dialogue cancel button under the field's own buttons.
func (t Draft) Prompt(text string, rows [][]chat.InlineButton) error {
	rows = append(rows, ui.CancelRow())
	return t.D.Prompt(text, rows)
}
