package chat

// Dialogue is what a step sees while it runs: the persisted state, the
// messenger of the platform the event came from and the event itself.
type Dialogue struct {
	State     *ChatState
	Messenger Messenger
	Input     Input
}

// Data returns the state container.
func (d *Dialogue) Data() State {
	return d.State.Data
}

// Send delivers a plain text message.
func (d *Dialogue) Send(text string) error {
	return d.Messenger.SendText(d.State.ChatID, text)
}

// Prompt renders a message with buttons. When the event was a press on the
// current prompt the message is edited in place, otherwise a new one is sent.
func (d *Dialogue) Prompt(text string, rows [][]InlineButton) error {
	if d.Input.MessageID != "" && d.Input.MessageID == d.State.PromptMessageID {
		if err := d.Messenger.EditPrompt(d.State.ChatID, d.Input.MessageID, text, rows); err == nil {
			return nil
		}
	}
	id, err := d.Messenger.SendPrompt(d.State.ChatID, text, rows)
	if err != nil {
		return err
	}
	d.State.PromptMessageID = id
	return nil
}

// Draft returns the entity under construction.
func (d *Dialogue) Draft() map[string]any {
	return d.State.Data.GetMap(KeyDraft)
}

// SetDraft replaces the entity under construction.
func (d *Dialogue) SetDraft(draft map[string]any) {
	d.State.Data.Set(KeyDraft, draft)
}

// Original returns the entity as it was before editing began.
func (d *Dialogue) Original() map[string]any {
	return d.State.Data.GetMap(KeyOriginal)
}
