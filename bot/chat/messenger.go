package chat

// Messenger is the platform UI adapter interface.
type Messenger interface {
	SendText(chatID, text string) error
	// SendPrompt sends a message with an inline keyboard and returns its id.
	SendPrompt(chatID, text string, rows [][]InlineButton) (string, error)
	EditPrompt(chatID, messageID, text string, rows [][]InlineButton) error
	AnswerCallback(callbackID, text string) error
}

// InlineButton represents an inline button with callback data.
type InlineButton struct {
	Text string
	Data string
}

// Button builds an inline button with an encoded callback token.
func Button(text, action string, payload any) InlineButton {
	return InlineButton{Text: text, Data: EncodeCallback(action, payload)}
}

// Input represents a normalized inbound event.
type Input struct {
	Platform   string
	ChatID     string
	UserID     string
	Text       string // typed message text
	Data       string // raw callback token
	CallbackID string
	MessageID  string // message the pressed button belongs to
}

// Key returns the chat the event came from.
func (in Input) Key() ChatKey {
	return ChatKey{Platform: in.Platform, ChatID: in.ChatID}
}

// IsCallback reports whether the event is a button press.
func (in Input) IsCallback() bool {
	return in.Data != "" || in.CallbackID != ""
}

// StaleFor reports whether the event is a press on some message other than
// the dialogue's current prompt.
func (in Input) StaleFor(promptMessageID string) bool {
	return in.IsCallback() && in.MessageID != "" && in.MessageID != promptMessageID
}

// Callback decodes the button payload.
func (in Input) Callback() Callback {
	return DecodeCallback(in.Data)
}
