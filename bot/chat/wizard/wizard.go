package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"DnsBot/bot/chat"
	"DnsBot/bot/fields"
)

// storeKey is the session key wizard state lives under.
const storeKey = "wizard"

// ErrCannotSkip is returned when skipping a required field.
var ErrCannotSkip = errors.New("field is required and cannot be skipped")

// CompleteFunc receives the collected values after the operator confirmed.
type CompleteFunc func(ctx context.Context, m chat.Messenger, key chat.ChatKey, values, metadata map[string]any) error

// CancelFunc is called after a wizard was cancelled.
type CancelFunc func(ctx context.Context, m chat.Messenger, key chat.ChatKey, metadata map[string]any) error

// Wizard is a strictly sequential dialogue: one field per step, then a
// summary gated on confirmation.
type Wizard struct {
	ID         string
	Title      string
	Fields     []fields.Definition
	OnComplete CompleteFunc
	OnCancel   CancelFunc
}

// Check verifies the wizard's field definitions.
func (w *Wizard) Check() error {
	if w.ID == "" {
		return fmt.Errorf("%w: wizard without id", chat.ErrConfiguration)
	}
	if len(w.Fields) == 0 {
		return fmt.Errorf("%w: wizard %s has no fields", chat.ErrConfiguration, w.ID)
	}
	if w.OnComplete == nil {
		return fmt.Errorf("%w: wizard %s has no completion callback", chat.ErrConfiguration, w.ID)
	}
	for _, def := range w.Fields {
		if err := def.Check(); err != nil {
			return fmt.Errorf("%w: wizard %s: %w", chat.ErrConfiguration, w.ID, err)
		}
	}
	return nil
}

// State is the persisted progress of a wizard, stored as a whole.
type State struct {
	WizardID        string         `json:"wizard_id"`
	DialogueID      string         `json:"dialogue_id"`
	StepIndex       int            `json:"step_index"`
	Fields          map[string]any `json:"fields"`
	Metadata        map[string]any `json:"metadata"`
	Confirming      bool           `json:"confirming"`
	PromptMessageID string         `json:"prompt_message_id,omitempty"`
	StartedAt       time.Time      `json:"started_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
