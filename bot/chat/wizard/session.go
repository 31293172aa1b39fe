package wizard

import (
	"fmt"
	"html"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/ui"
	"DnsBot/bot/fields"
)

// session binds wizard state to the event being handled. It is the input
// target of the wizard's fields.
type session struct {
	wizard *Wizard
	state  *State
	m      chat.Messenger
	in     chat.Input
}

func (s *session) current() fields.Definition {
	return s.wizard.Fields[s.state.StepIndex]
}

func (s *session) Value(def fields.Definition) (any, bool) {
	return fields.ResolveValue(s.state.Fields, def)
}

func (s *session) Stage(def fields.Definition, v any) error {
	values, err := fields.SetValue(s.state.Fields, def, v)
	if err != nil {
		return err
	}
	s.state.Fields = values
	return nil
}

func (s *session) Send(text string) error {
	return s.m.SendText(s.in.ChatID, text)
}

// Prompt heads the field prompt with the wizard progress and adds skip and
// cancel controls.
func (s *session) Prompt(text string, rows [][]chat.InlineButton) error {
	def := s.current()
	header := fmt.Sprintf("<b>%s</b> · step %d of %d\n\n",
		html.EscapeString(s.wizard.Title), s.state.StepIndex+1, len(s.wizard.Fields))

	controls := ui.CancelRow()
	if !def.Required {
		controls = append([]chat.InlineButton{chat.Button("⏭ Skip", chat.ActionSkip, nil)}, controls...)
	}
	rows = append(rows, controls)
	return s.show(header+text, rows)
}

// show edits the wizard's prompt in place when the event was a press on it.
func (s *session) show(text string, rows [][]chat.InlineButton) error {
	if s.in.MessageID != "" && s.in.MessageID == s.state.PromptMessageID {
		if err := s.m.EditPrompt(s.in.ChatID, s.in.MessageID, text, rows); err == nil {
			return nil
		}
	}
	id, err := s.m.SendPrompt(s.in.ChatID, text, rows)
	if err != nil {
		return err
	}
	s.state.PromptMessageID = id
	return nil
}
