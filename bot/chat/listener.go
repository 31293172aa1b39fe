package chat

import "time"

// Dialogue lifecycle event types.
const (
	EventStarted   = "started"
	EventStep      = "step"
	EventCompleted = "completed"
	EventExited    = "exited"
	EventCancelled = "cancelled"
	EventFailed    = "failed"
)

// Event describes a dialogue lifecycle change.
type Event struct {
	Type       string     `json:"type" bson:"type"`
	Platform   string     `json:"platform" bson:"platform"`
	ChatID     string     `json:"chat_id" bson:"chat_id"`
	DialogueID string     `json:"dialogue_id" bson:"dialogue_id"`
	WorkflowID WorkflowID `json:"workflow_id" bson:"workflow_id"`
	StepID     StepID     `json:"step_id,omitempty" bson:"step_id,omitempty"`
	Error      string     `json:"error,omitempty" bson:"error,omitempty"`
	Time       time.Time  `json:"time" bson:"time"`
}

// Listener is notified about dialogue lifecycle changes. It lets the
// websocket hub observe dialogues without the engine importing it.
type Listener interface {
	DialogueEvent(ev Event)
}

// Listeners fans one event out to several listeners, in order.
type Listeners []Listener

func (ls Listeners) DialogueEvent(ev Event) {
	for _, l := range ls {
		if l != nil {
			l.DialogueEvent(ev)
		}
	}
}
