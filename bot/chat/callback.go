package chat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Callback actions. An action never contains ':'.
const (
	ActionMenu     = "menu"
	ActionCreate   = "create"
	ActionEdit     = "edit"
	ActionDelete   = "delete"
	ActionRegister = "register"
	ActionZones    = "zones"

	ActionZone    = "zone"
	ActionRecord  = "record"
	ActionType    = "type"
	ActionField   = "field"
	ActionSelect  = "select"
	ActionBool    = "bool"
	ActionKeep    = "keep"
	ActionSave    = "save"
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
	ActionSkip    = "skip"
	ActionPage    = "page"
	ActionNoop    = "noop"
)

// MaxCallbackBytes is the Telegram limit for inline button payloads.
const MaxCallbackBytes = 64

// Callback represents parsed callback data.
type Callback struct {
	Action  string
	Payload json.RawMessage
}

// EncodeCallback builds a callback token.
// Format: "action" or "action:<json>". A nil payload yields the bare action.
func EncodeCallback(action string, payload any) string {
	if payload == nil {
		return action
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return action
	}
	return action + ":" + string(data)
}

// ValidateCallback checks that a token fits the transport limit.
func ValidateCallback(token string) error {
	if len(token) > MaxCallbackBytes {
		return fmt.Errorf("callback %q is %d bytes, limit is %d", token, len(token), MaxCallbackBytes)
	}
	return nil
}

// DecodeCallback parses a callback token. It never fails: a token whose
// payload is not valid JSON is returned whole as the action, which no
// handler matches.
func DecodeCallback(token string) Callback {
	action, rest, found := strings.Cut(token, ":")
	if !found {
		return Callback{Action: token}
	}
	if !json.Valid([]byte(rest)) {
		return Callback{Action: token}
	}
	return Callback{Action: action, Payload: json.RawMessage(rest)}
}

// Matcher returns a predicate accepting tokens of the given action.
func Matcher(action string) func(token string) bool {
	prefix := action + ":"
	return func(token string) bool {
		return token == action || strings.HasPrefix(token, prefix)
	}
}

// Is checks the callback action.
func (c Callback) Is(action string) bool {
	return c.Action == action
}

// HasPayload reports whether the token carried a payload.
func (c Callback) HasPayload() bool {
	return len(c.Payload) > 0
}

// Bind unmarshals the payload into out.
func (c Callback) Bind(out any) error {
	if !c.HasPayload() {
		return fmt.Errorf("callback %q has no payload", c.Action)
	}
	return json.Unmarshal(c.Payload, out)
}

// Index returns an integer payload, used for list positions and pages.
func (c Callback) Index() (int, bool) {
	var n int
	if err := c.Bind(&n); err != nil {
		return 0, false
	}
	return n, true
}

// Text returns a string payload.
func (c Callback) Text() (string, bool) {
	var s string
	if err := c.Bind(&s); err != nil {
		return "", false
	}
	return s, true
}

// Flag returns a boolean payload.
func (c Callback) Flag() (bool, bool) {
	var b bool
	if err := c.Bind(&b); err != nil {
		return false, false
	}
	return b, true
}
