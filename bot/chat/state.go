package chat

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

// Reserved state keys shared by workflows and input strategies.
const (
	KeyDraft    = "draft"
	KeyOriginal = "original"
)

// State is the keyed scratch space of one dialogue. It knows nothing about
// dialogue semantics; steps are the only place business rules live.
type State map[string]any

// Get returns the raw value stored under key.
func (s State) Get(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

// Set stores a value under key.
func (s State) Set(key string, value any) {
	s[key] = value
}

// Has reports whether key holds a value.
func (s State) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Delete removes a key.
func (s State) Delete(key string) {
	delete(s, key)
}

// Clear drops every key.
func (s State) Clear() {
	clear(s)
}

// Merge copies all entries of data into the state.
func (s State) Merge(data map[string]any) {
	maps.Copy(s, data)
}

// GetString retrieves a string value from the state data.
func (s State) GetString(key string) string {
	if v, ok := s[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// GetInt retrieves an integer value from the state data.
// Values that went through JSON come back as float64.
func (s State) GetInt(key string) int {
	if v, ok := s[key]; ok {
		switch val := v.(type) {
		case int:
			return val
		case int32:
			return int(val)
		case int64:
			return int(val)
		case float64:
			return int(val)
		}
	}
	return 0
}

// GetBool retrieves a boolean value from the state data.
func (s State) GetBool(key string) bool {
	if v, ok := s[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// GetMap retrieves a nested object. A missing or non-object value yields an
// empty map, never nil.
func (s State) GetMap(key string) map[string]any {
	if v, ok := s[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return map[string]any{}
}

// Decode converts the value under key into out through its JSON form.
func (s State) Decode(key string, out any) error {
	v, ok := s[key]
	if !ok {
		return fmt.Errorf("state key %q not set", key)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return nil
}

// ChatKey identifies the chat a dialogue belongs to.
type ChatKey struct {
	Platform string `json:"platform" bson:"platform"`
	ChatID   string `json:"chat_id" bson:"chat_id"`
}

func (k ChatKey) String() string {
	return k.Platform + ":" + k.ChatID
}

// ChatState is the persisted position of one dialogue: which workflow, which
// step, and the state container contents.
type ChatState struct {
	Platform        string     `json:"platform"`
	ChatID          string     `json:"chat_id"`
	UserID          string     `json:"user_id"`
	DialogueID      string     `json:"dialogue_id"`
	WorkflowID      WorkflowID `json:"workflow_id"`
	StepIndex       int        `json:"step_index"`
	CurrentStep     StepID     `json:"current_step"`
	PromptMessageID string     `json:"prompt_message_id,omitempty"`
	Data            State      `json:"data"`
	StartedAt       time.Time  `json:"started_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewChatState creates a new ChatState with default values.
func NewChatState(key ChatKey, userID string, workflowID WorkflowID) *ChatState {
	now := time.Now()
	return &ChatState{
		Platform:   key.Platform,
		ChatID:     key.ChatID,
		UserID:     userID,
		WorkflowID: workflowID,
		Data:       make(State),
		StartedAt:  now,
		UpdatedAt:  now,
	}
}

// Key returns the chat the state belongs to.
func (s *ChatState) Key() ChatKey {
	return ChatKey{Platform: s.Platform, ChatID: s.ChatID}
}
