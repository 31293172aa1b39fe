package wizard

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/chattest"
	"DnsBot/bot/fields"
)

type completion struct {
	values    map[string]any
	metadata  map[string]any
	calls     int
	cancelled int
	err       error
}

func testWizard(c *completion) *Wizard {
	return &Wizard{
		ID:    "zone",
		Title: "Register zone",
		Fields: []fields.Definition{
			{Key: "name", Label: "Zone name", Kind: fields.KindText, Rule: "required,fqdn", Required: true},
			{Key: "type", Label: "Zone type", Kind: fields.KindSelect, Default: "full", Options: []fields.Option{
				{Label: "Full", Value: "full"},
				{Label: "Partial", Value: "partial"},
			}},
			{Key: "jump_start", Label: "Jump start", Kind: fields.KindBoolean, Default: false},
		},
		OnComplete: func(_ context.Context, _ chat.Messenger, _ chat.ChatKey, values, metadata map[string]any) error {
			c.calls++
			c.values = values
			c.metadata = metadata
			return c.err
		},
		OnCancel: func(context.Context, chat.Messenger, chat.ChatKey, map[string]any) error {
			c.cancelled++
			return nil
		},
	}
}

func setup(t *testing.T, c *completion) (*Engine, *chattest.Messenger, *chattest.Store) {
	t.Helper()
	store := chattest.NewStore()
	e := NewEngine(store, slog.New(slog.DiscardHandler))
	require.NoError(t, e.Register(testWizard(c)))
	return e, &chattest.Messenger{}, store
}

func stepIndex(t *testing.T, e *Engine) int {
	t.Helper()
	state, err := e.Current(context.Background(), chattest.Key("1"))
	require.NoError(t, err)
	require.NotNil(t, state)
	return state.StepIndex
}

func TestWizard_CompletesAfterConfirmation(t *testing.T) {
	ctx := context.Background()
	c := &completion{}
	e, m, store := setup(t, c)

	require.NoError(t, e.Start(ctx, m, chattest.Text("1", ""), "zone", map[string]any{"requested_by": "42"}))
	assert.Contains(t, m.Last().Text, "step 1 of 3")
	_, canSkip := m.Last().Button("⏭ Skip")
	assert.False(t, canSkip)

	require.NoError(t, e.HandleText(ctx, m, chattest.Text("1", "example.org")))
	prompt := m.LastPrompt()
	assert.Contains(t, prompt.Text, "step 2 of 3")

	partial, ok := prompt.Button("Partial")
	require.True(t, ok)
	require.NoError(t, e.HandleCallback(ctx, m, chattest.Press("1", prompt.ID, partial)))
	assert.Equal(t, 2, stepIndex(t, e))

	skip, ok := m.LastPrompt().Button("⏭ Skip")
	require.True(t, ok)
	require.NoError(t, e.HandleCallback(ctx, m, chattest.Press("1", m.LastPrompt().ID, skip)))

	summary := m.LastPrompt()
	assert.Contains(t, summary.Text, "Zone name: <code>example.org</code>")
	assert.Contains(t, summary.Text, "Zone type: <code>Partial</code>")
	assert.Contains(t, summary.Text, "Jump start: <code>No</code>")
	assert.Equal(t, 0, c.calls)

	confirm, ok := summary.Button("✅ Confirm")
	require.True(t, ok)
	require.NoError(t, e.HandleCallback(ctx, m, chattest.Press("1", summary.ID, confirm)))

	assert.Equal(t, 1, c.calls)
	assert.Equal(t, map[string]any{"name": "example.org", "type": "partial", "jump_start": false}, c.values)
	assert.Equal(t, "42", c.metadata["requested_by"])
	assert.Equal(t, 0, store.Len())
}

func TestWizard_InvalidInputRepromptsSameField(t *testing.T) {
	ctx := context.Background()
	e, m, _ := setup(t, &completion{})

	require.NoError(t, e.Start(ctx, m, chattest.Text("1", ""), "zone", nil))
	require.NoError(t, e.HandleText(ctx, m, chattest.Text("1", "not a domain")))

	assert.Equal(t, 0, stepIndex(t, e))
	assert.True(t, m.Contains("fully qualified domain name"))
	assert.Contains(t, m.Last().Text, "step 1 of 3")
}

func TestWizard_SkipOnlyNonRequired(t *testing.T) {
	ctx := context.Background()
	e, m, _ := setup(t, &completion{})

	require.NoError(t, e.Start(ctx, m, chattest.Text("1", ""), "zone", nil))

	err := e.Skip(ctx, m, chattest.Callback("1", chat.ActionSkip, nil))
	assert.ErrorIs(t, err, ErrCannotSkip)
	assert.Equal(t, 0, stepIndex(t, e))
	assert.True(t, m.Contains("cannot be skipped"))

	require.NoError(t, e.HandleCallback(ctx, m, chattest.Callback("1", chat.ActionSkip, nil)))
	assert.Equal(t, 0, stepIndex(t, e))

	require.NoError(t, e.HandleText(ctx, m, chattest.Text("1", "example.org")))
	require.NoError(t, e.Skip(ctx, m, chattest.Callback("1", chat.ActionSkip, nil)))

	state, err := e.Current(ctx, chattest.Key("1"))
	require.NoError(t, err)
	assert.Equal(t, 2, state.StepIndex)
	assert.Equal(t, "full", state.Fields["type"])
}

func TestWizard_CancelIsSafeWithoutWizard(t *testing.T) {
	ctx := context.Background()
	c := &completion{}
	e, m, store := setup(t, c)

	cancelled, err := e.Cancel(ctx, m, chattest.Key("1"))
	require.NoError(t, err)
	assert.False(t, cancelled)
	assert.Equal(t, 0, c.cancelled)

	require.NoError(t, e.Start(ctx, m, chattest.Text("1", ""), "zone", nil))
	require.NoError(t, e.HandleCallback(ctx, m, chattest.Callback("1", chat.ActionCancel, nil)))

	assert.Equal(t, 1, c.cancelled)
	assert.Equal(t, 0, store.Len())

	cancelled, err = e.Cancel(ctx, m, chattest.Key("1"))
	require.NoError(t, err)
	assert.False(t, cancelled)
}

func TestWizard_CompletionErrorClearsState(t *testing.T) {
	ctx := context.Background()
	c := &completion{err: errors.New("zone already exists")}
	e, m, store := setup(t, c)

	require.NoError(t, e.Start(ctx, m, chattest.Text("1", ""), "zone", nil))
	require.NoError(t, e.HandleText(ctx, m, chattest.Text("1", "example.org")))
	require.NoError(t, e.Skip(ctx, m, chattest.Callback("1", chat.ActionSkip, nil)))
	require.NoError(t, e.Skip(ctx, m, chattest.Callback("1", chat.ActionSkip, nil)))

	err := e.Confirm(ctx, m, chattest.Callback("1", chat.ActionConfirm, nil))
	assert.EqualError(t, err, "zone already exists")
	assert.Equal(t, "❌ zone already exists", m.Last().Text)
	assert.Equal(t, 0, store.Len())
}

func TestWizard_ConfirmBeforeEndRendersCurrentField(t *testing.T) {
	ctx := context.Background()
	c := &completion{}
	e, m, _ := setup(t, c)

	require.NoError(t, e.Start(ctx, m, chattest.Text("1", ""), "zone", nil))
	require.NoError(t, e.Confirm(ctx, m, chattest.Callback("1", chat.ActionConfirm, nil)))

	assert.Equal(t, 0, c.calls)
	assert.Equal(t, 0, stepIndex(t, e))
}

func TestWizard_TextWhileConfirming(t *testing.T) {
	ctx := context.Background()
	e, m, _ := setup(t, &completion{})

	require.NoError(t, e.Start(ctx, m, chattest.Text("1", ""), "zone", nil))
	require.NoError(t, e.HandleText(ctx, m, chattest.Text("1", "example.org")))
	require.NoError(t, e.Skip(ctx, m, chattest.Callback("1", chat.ActionSkip, nil)))
	require.NoError(t, e.Skip(ctx, m, chattest.Callback("1", chat.ActionSkip, nil)))

	require.NoError(t, e.HandleText(ctx, m, chattest.Text("1", "yes")))
	assert.Contains(t, m.Last().Text, "confirm or cancel")
}

func TestWizard_SessionExpired(t *testing.T) {
	e, m, _ := setup(t, &completion{})

	err := e.HandleText(context.Background(), m, chattest.Text("1", "example.org"))
	assert.ErrorIs(t, err, chat.ErrSessionExpired)
}

func TestWizard_RegisterChecksFields(t *testing.T) {
	e := NewEngine(chattest.NewStore(), slog.New(slog.DiscardHandler))

	err := e.Register(&Wizard{ID: "bad", Fields: []fields.Definition{{Key: "k", Kind: fields.KindSelect}},
		OnComplete: func(context.Context, chat.Messenger, chat.ChatKey, map[string]any, map[string]any) error { return nil }})
	assert.ErrorIs(t, err, chat.ErrConfiguration)

	err = e.Register(&Wizard{ID: "none"})
	assert.ErrorIs(t, err, chat.ErrConfiguration)
}

type events []chat.Event

func (ev *events) DialogueEvent(e chat.Event) { *ev = append(*ev, e) }

func TestWizard_RestartCancelsPrevious(t *testing.T) {
	ctx := context.Background()
	e, m, _ := setup(t, &completion{})
	var got events
	e.SetListener(&got)

	require.NoError(t, e.Start(ctx, m, chattest.Text("1", ""), "zone", nil))
	require.NoError(t, e.Start(ctx, m, chattest.Text("1", ""), "zone", nil))

	require.Len(t, got, 3)
	assert.Equal(t, chat.EventStarted, got[0].Type)
	assert.Equal(t, chat.EventCancelled, got[1].Type)
	assert.Equal(t, got[0].DialogueID, got[1].DialogueID)
	assert.Equal(t, chat.EventStarted, got[2].Type)
	assert.NotEqual(t, got[0].DialogueID, got[2].DialogueID)
}

func TestWizard_StalePromptPress(t *testing.T) {
	ctx := context.Background()
	c := &completion{}
	e, m, _ := setup(t, c)

	require.NoError(t, e.Start(ctx, m, chattest.Text("1", ""), "zone", nil))
	require.NoError(t, e.HandleText(ctx, m, chattest.Text("1", "example.org")))
	stale := m.LastPrompt()
	partial, ok := stale.Button("Partial")
	require.True(t, ok)
	cancel, ok := stale.Button("✖️ Cancel")
	require.True(t, ok)

	require.NoError(t, e.Start(ctx, m, chattest.Text("1", ""), "zone", nil))

	err := e.HandleCallback(ctx, m, chattest.Press("1", stale.ID, partial))
	assert.ErrorIs(t, err, chat.ErrSessionExpired)
	err = e.HandleCallback(ctx, m, chattest.Press("1", stale.ID, cancel))
	assert.ErrorIs(t, err, chat.ErrSessionExpired)

	assert.Equal(t, 0, stepIndex(t, e))
	assert.Equal(t, 0, c.cancelled)
}
