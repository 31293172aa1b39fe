package entity

import (
	"net/http"
	"time"

	"DnsBot/internal/lib/validate"
)

// DialogSnapshot is what a chat has in progress. Either part may be nil.
type DialogSnapshot struct {
	Platform string        `json:"platform"`
	ChatID   string        `json:"chat_id"`
	Dialogue *DialogueInfo `json:"dialogue,omitempty"`
	Wizard   *WizardInfo   `json:"wizard,omitempty"`
}

// Active reports whether anything is in progress.
func (s *DialogSnapshot) Active() bool {
	return s.Dialogue != nil || s.Wizard != nil
}

// DialogueInfo is the persisted position of a workflow dialogue.
type DialogueInfo struct {
	DialogueID string         `json:"dialogue_id"`
	WorkflowID string         `json:"workflow_id"`
	Step       string         `json:"step"`
	StepIndex  int            `json:"step_index"`
	UserID     string         `json:"user_id"`
	Data       map[string]any `json:"data"`
	StartedAt  time.Time      `json:"started_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// WizardInfo is the persisted progress of a linear wizard.
type WizardInfo struct {
	DialogueID string         `json:"dialogue_id"`
	WizardID   string         `json:"wizard_id"`
	StepIndex  int            `json:"step_index"`
	Fields     map[string]any `json:"fields"`
	Metadata   map[string]any `json:"metadata"`
	Confirming bool           `json:"confirming"`
	StartedAt  time.Time      `json:"started_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// DialogRequest names the chat an admin call targets.
type DialogRequest struct {
	Platform string `json:"platform" validate:"required"`
	ChatID   string `json:"chat_id" validate:"required"`
}

func (r *DialogRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

// Layout lists the fields a record type is edited through.
type Layout struct {
	Type   string        `json:"type"`
	Fields []LayoutField `json:"fields"`
}

type LayoutField struct {
	Name     string `json:"name"`
	Key      string `json:"key"`
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Required bool   `json:"required"`
	Rule     string `json:"rule,omitempty"`
}
