package records

import (
	"context"
	"fmt"
	"html"
	"strings"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/input"
	"DnsBot/bot/chat/ui"
	"DnsBot/bot/fields"
)

// InputWizardStep finds the first field of the layout that has no value yet
// and sends the dialogue there. With every field set it moves on to review.
// It never waits for input itself.
type InputWizardStep struct {
	r *Records
}

func (s *InputWizardStep) ID() chat.StepID { return StepInputWizard }

func (s *InputWizardStep) Enter(ctx context.Context, d *chat.Dialogue) (chat.Result, error) {
	defs, err := s.r.layout(d)
	if err != nil {
		return chat.Exit(), err
	}

	for i, def := range defs {
		if _, ok := fields.EffectiveValue(d.Draft(), d.Original(), def); ok {
			continue
		}
		d.Data().Set(KeyActiveField, i)
		d.Data().Set(KeyReturnStep, string(StepInputWizard))
		return chat.JumpTo(StepEditField), nil
	}
	return chat.JumpTo(StepReview), nil
}

func (s *InputWizardStep) Handle(ctx context.Context, d *chat.Dialogue, in chat.Input) (chat.Result, error) {
	return chat.Repeat(), nil
}

// EditFieldStep collects the active field with the input strategy of its
// kind and returns to the step that sent the dialogue here.
type EditFieldStep struct {
	r *Records
}

func (s *EditFieldStep) ID() chat.StepID { return StepEditField }

func (s *EditFieldStep) Enter(ctx context.Context, d *chat.Dialogue) (chat.Result, error) {
	def, err := s.field(d)
	if err != nil {
		return chat.Exit(), err
	}
	return chat.Wait(), s.r.inputs.Prompt(ctx, input.DraftOf(d), def)
}

func (s *EditFieldStep) Handle(ctx context.Context, d *chat.Dialogue, in chat.Input) (chat.Result, error) {
	def, err := s.field(d)
	if err != nil {
		return chat.Exit(), err
	}

	outcome, err := s.r.inputs.Handle(ctx, input.DraftOf(d), def, in)
	if err != nil {
		return chat.Exit(), err
	}
	switch outcome {
	case input.Saved, input.Kept:
		return chat.JumpTo(returnStep(d)), nil
	}
	return chat.Wait(), nil
}

func (s *EditFieldStep) field(d *chat.Dialogue) (fields.Definition, error) {
	defs, err := s.r.layout(d)
	if err != nil {
		return fields.Definition{}, err
	}
	index := d.Data().GetInt(KeyActiveField)
	if index < 0 || index >= len(defs) {
		return fields.Definition{}, fmt.Errorf("%w: field %d out of layout %s",
			chat.ErrConfiguration, index, d.Data().GetString(KeyRecordType))
	}
	return defs[index], nil
}

func returnStep(d *chat.Dialogue) chat.StepID {
	if step := d.Data().GetString(KeyReturnStep); step != "" {
		return chat.StepID(step)
	}
	if d.State.WorkflowID == CreateWorkflowID {
		return StepInputWizard
	}
	return StepMenu
}

// ReviewStep shows the record about to be created. Any field can be
// changed again before confirming.
type ReviewStep struct {
	r *Records
}

func (s *ReviewStep) ID() chat.StepID { return StepReview }

func (s *ReviewStep) Enter(ctx context.Context, d *chat.Dialogue) (chat.Result, error) {
	defs, err := s.r.layout(d)
	if err != nil {
		return chat.Exit(), err
	}

	text := "<b>Review the new record</b>\n\n" + summary(d, defs, false)
	rows := fieldButtons(defs)
	rows = append(rows, []chat.InlineButton{
		chat.Button("✅ Create", chat.ActionConfirm, nil),
		chat.Button("✖️ Cancel", chat.ActionCancel, nil),
	})
	return chat.Wait(), d.Prompt(text, rows)
}

func (s *ReviewStep) Handle(ctx context.Context, d *chat.Dialogue, in chat.Input) (chat.Result, error) {
	if !in.IsCallback() {
		return chat.Wait(), d.Send(pickReminder)
	}

	cb := in.Callback()
	switch {
	case cb.Is(chat.ActionConfirm):
		return chat.Advance(), nil
	case cb.Is(chat.ActionField):
		return s.r.editField(d, cb, StepReview)
	}
	return chat.Wait(), nil
}

// MenuStep shows the record being edited with changed fields marked. It
// sends the dialogue to a field, to saving, or out.
type MenuStep struct {
	r *Records
}

func (s *MenuStep) ID() chat.StepID { return StepMenu }

func (s *MenuStep) Enter(ctx context.Context, d *chat.Dialogue) (chat.Result, error) {
	defs, err := s.r.layout(d)
	if err != nil {
		return chat.Exit(), err
	}

	text := "<b>Edit record</b>\n\n" + summary(d, defs, true)
	rows := fieldButtons(defs)
	rows = append(rows, []chat.InlineButton{
		chat.Button("💾 Save", chat.ActionSave, nil),
		chat.Button("✖️ Cancel", chat.ActionCancel, nil),
	})
	return chat.Wait(), d.Prompt(text, rows)
}

func (s *MenuStep) Handle(ctx context.Context, d *chat.Dialogue, in chat.Input) (chat.Result, error) {
	if !in.IsCallback() {
		return chat.Wait(), d.Send(pickReminder)
	}

	cb := in.Callback()
	switch {
	case cb.Is(chat.ActionSave):
		return chat.JumpTo(StepSave), nil
	case cb.Is(chat.ActionField):
		return s.r.editField(d, cb, StepMenu)
	}
	return chat.Wait(), nil
}

// editField points the dialogue at the field a button was pressed for.
func (r *Records) editField(d *chat.Dialogue, cb chat.Callback, back chat.StepID) (chat.Result, error) {
	defs, err := r.layout(d)
	if err != nil {
		return chat.Exit(), err
	}
	index, ok := cb.Index()
	if !ok || index < 0 || index >= len(defs) {
		return chat.Wait(), d.Send("Unknown field.")
	}
	d.Data().Set(KeyActiveField, index)
	d.Data().Set(KeyReturnStep, string(back))
	return chat.JumpTo(StepEditField), nil
}

func fieldButtons(defs []fields.Definition) [][]chat.InlineButton {
	buttons := make([]chat.InlineButton, len(defs))
	for i, def := range defs {
		buttons[i] = chat.Button("✏️ "+def.Label, chat.ActionField, i)
	}
	return ui.GridKeyboard(buttons, 2)
}

// summary renders the effective record, one field per line.
func summary(d *chat.Dialogue, defs []fields.Definition, markChanged bool) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Zone: <b>%s</b>\n", html.EscapeString(d.Data().GetString(KeyZoneName))))
	b.WriteString(fmt.Sprintf("Type: <b>%s</b>\n", html.EscapeString(d.Data().GetString(KeyRecordType))))

	draft, original := d.Draft(), d.Original()
	for _, def := range defs {
		v, _ := fields.EffectiveValue(draft, original, def)
		line := fmt.Sprintf("%s: <code>%s</code>", html.EscapeString(def.Label), html.EscapeString(def.Format(v)))
		if markChanged && fields.Changed(draft, original, def) {
			line += " ✏️"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
