// Package chattest provides in-memory fakes of the chat engine's
// collaborators for tests.
package chattest

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"DnsBot/bot/chat"
)

const Platform = "test"

// Message is one message the fake messenger sent or edited.
type Message struct {
	ChatID string
	ID     string
	Text   string
	Rows   [][]chat.InlineButton
	Edited bool
}

// Messenger records everything sent through it.
type Messenger struct {
	mu       sync.Mutex
	Messages []Message
	Answers  []string
	next     int
}

func (m *Messenger) SendText(chatID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, Message{ChatID: chatID, ID: m.id(), Text: text})
	return nil
}

func (m *Messenger) SendPrompt(chatID, text string, rows [][]chat.InlineButton) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.Messages = append(m.Messages, Message{ChatID: chatID, ID: id, Text: text, Rows: rows})
	return id, nil
}

func (m *Messenger) EditPrompt(chatID, messageID, text string, rows [][]chat.InlineButton) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, Message{ChatID: chatID, ID: messageID, Text: text, Rows: rows, Edited: true})
	return nil
}

func (m *Messenger) AnswerCallback(_ string, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Answers = append(m.Answers, text)
	return nil
}

func (m *Messenger) id() string {
	m.next++
	return strconv.Itoa(m.next)
}

// Last returns the most recent message.
func (m *Messenger) Last() Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Messages) == 0 {
		return Message{}
	}
	return m.Messages[len(m.Messages)-1]
}

// LastPrompt returns the most recent message that carried buttons.
func (m *Messenger) LastPrompt() Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Messages) - 1; i >= 0; i-- {
		if len(m.Messages[i].Rows) > 0 {
			return m.Messages[i]
		}
	}
	return Message{}
}

// Texts returns the text of every message in order.
func (m *Messenger) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	texts := make([]string, len(m.Messages))
	for i, msg := range m.Messages {
		texts[i] = msg.Text
	}
	return texts
}

// Contains reports whether any message contains s.
func (m *Messenger) Contains(s string) bool {
	for _, text := range m.Texts() {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// Reset forgets recorded messages.
func (m *Messenger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = nil
	m.Answers = nil
}

// Button finds a button of the message by its label prefix.
func (msg Message) Button(label string) (chat.InlineButton, bool) {
	for _, row := range msg.Rows {
		for _, b := range row {
			if strings.HasPrefix(b.Text, label) {
				return b, true
			}
		}
	}
	return chat.InlineButton{}, false
}

// Store is a SessionStore on a map. Values go through JSON like in the
// real backends, so numbers come back as float64.
type Store struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, c chat.ChatKey, key string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[c.String()+"/"+key]
	if !ok {
		return false, nil
	}
	return true, chat.UnmarshalValue(data, out)
}

func (s *Store) Set(_ context.Context, c chat.ChatKey, key string, value any) error {
	data, err := chat.MarshalValue(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[c.String()+"/"+key] = data
	return nil
}

func (s *Store) Clear(_ context.Context, c chat.ChatKey, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, c.String()+"/"+key)
	return nil
}

func (s *Store) Has(_ context.Context, c chat.ChatKey, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[c.String()+"/"+key]
	return ok, nil
}

// Len returns the number of stored values.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Text builds a typed message event.
func Text(chatID, text string) chat.Input {
	return chat.Input{Platform: Platform, ChatID: chatID, UserID: chatID, Text: text}
}

// Press builds a button press event on the given message.
func Press(chatID, messageID string, b chat.InlineButton) chat.Input {
	return chat.Input{
		Platform:   Platform,
		ChatID:     chatID,
		UserID:     chatID,
		Data:       b.Data,
		CallbackID: "cb-" + messageID,
		MessageID:  messageID,
	}
}

// Callback builds a button press event from an action and payload.
func Callback(chatID, action string, payload any) chat.Input {
	return Press(chatID, "", chat.Button("", action, payload))
}

// Key returns the chat key of a test chat.
func Key(chatID string) chat.ChatKey {
	return chat.ChatKey{Platform: Platform, ChatID: chatID}
}
