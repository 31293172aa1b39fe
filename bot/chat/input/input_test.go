package input

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/chattest"
	"DnsBot/bot/fields"
)

func newDialogue(m *chattest.Messenger) *chat.Dialogue {
	state := chat.NewChatState(chattest.Key("1"), "1", "test")
	return &chat.Dialogue{State: state, Messenger: m}
}

var zoneType = fields.Definition{
	Key: "type", Label: "Zone type", Kind: fields.KindSelect,
	Options: []fields.Option{
		{Label: "Full", Value: "full"},
		{Label: "Partial", Value: "partial"},
	},
}

func TestText_SavesValidValue(t *testing.T) {
	ctx := context.Background()
	m := &chattest.Messenger{}
	d := newDialogue(m)
	def, _ := fields.DefaultRegistry().Get(fields.IPv4)
	target := DraftOf(d)

	require.NoError(t, Text{}.Prompt(ctx, target, def))
	assert.Contains(t, m.Last().Text, "IPv4 address")

	out, err := Text{}.Handle(ctx, target, def, chattest.Text("1", "203.0.113.5"))
	require.NoError(t, err)
	assert.Equal(t, Saved, out)
	assert.Equal(t, "203.0.113.5", d.Draft()["content"])
}

func TestText_InvalidValueReprompts(t *testing.T) {
	ctx := context.Background()
	m := &chattest.Messenger{}
	d := newDialogue(m)
	def, _ := fields.DefaultRegistry().Get(fields.IPv4)

	out, err := Text{}.Handle(ctx, DraftOf(d), def, chattest.Text("1", "not-an-ip"))
	require.NoError(t, err)
	assert.Equal(t, Retry, out)

	_, set := d.Draft()["content"]
	assert.False(t, set)
	assert.True(t, m.Contains("must be an IPv4 address"))
	assert.Contains(t, m.Last().Text, "IPv4 address")
}

func TestText_IgnoresForeignCallbacks(t *testing.T) {
	ctx := context.Background()
	d := newDialogue(&chattest.Messenger{})
	def, _ := fields.DefaultRegistry().Get(fields.Name)

	out, err := Text{}.Handle(ctx, DraftOf(d), def, chattest.Callback("1", chat.ActionPage, 2))
	require.NoError(t, err)
	assert.Equal(t, Ignored, out)

	out, err = Text{}.Handle(ctx, DraftOf(d), def, chattest.Callback("1", chat.ActionKeep, nil))
	require.NoError(t, err)
	assert.Equal(t, Kept, out)
	assert.Empty(t, d.Draft())
}

func TestText_KeepOfferedOnlyWithCurrentValue(t *testing.T) {
	ctx := context.Background()
	m := &chattest.Messenger{}
	d := newDialogue(m)
	def, _ := fields.DefaultRegistry().Get(fields.Name)

	require.NoError(t, Text{}.Prompt(ctx, DraftOf(d), def))
	_, ok := m.Last().Button("↩️ Keep")
	assert.False(t, ok)

	d.Data().Set(chat.KeyOriginal, map[string]any{"name": "www"})
	require.NoError(t, Text{}.Prompt(ctx, DraftOf(d), def))
	_, ok = m.Last().Button("↩️ Keep")
	assert.True(t, ok)
	assert.Contains(t, m.Last().Text, "Current: <code>www</code>")
}

func TestNumber_RejectsNonNumeric(t *testing.T) {
	ctx := context.Background()
	m := &chattest.Messenger{}
	d := newDialogue(m)
	def, _ := fields.DefaultRegistry().Get(fields.TTL)

	out, err := Number{}.Handle(ctx, DraftOf(d), def, chattest.Text("1", "an hour"))
	require.NoError(t, err)
	assert.Equal(t, Retry, out)
	assert.True(t, m.Contains("not a number"))

	out, err = Number{}.Handle(ctx, DraftOf(d), def, chattest.Text("1", "3600"))
	require.NoError(t, err)
	assert.Equal(t, Saved, out)
	assert.Equal(t, 3600, d.Draft()["ttl"])
}

func TestNumber_NestedStagePreservesSiblings(t *testing.T) {
	ctx := context.Background()
	d := newDialogue(&chattest.Messenger{})
	r := fields.DefaultRegistry()
	priority, _ := r.Get(fields.SrvPriority)
	weight, _ := r.Get(fields.SrvWeight)

	d.Data().Set(chat.KeyOriginal, map[string]any{
		"data": map[string]any{"priority": 10, "weight": 5, "port": 443, "target": "a.example.com"},
	})

	out, err := Number{}.Handle(ctx, DraftOf(d), priority, chattest.Text("1", "20"))
	require.NoError(t, err)
	require.Equal(t, Saved, out)
	out, err = Number{}.Handle(ctx, DraftOf(d), weight, chattest.Text("1", "7"))
	require.NoError(t, err)
	require.Equal(t, Saved, out)

	effective := fields.Effective(d.Draft(), d.Original())
	assert.Equal(t, map[string]any{
		"priority": 20, "weight": 7, "port": 443, "target": "a.example.com",
	}, effective["data"])
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	m := &chattest.Messenger{}
	d := newDialogue(m)
	target := DraftOf(d)

	require.NoError(t, Select{}.Prompt(ctx, target, zoneType))
	prompt := m.Last()
	partial, ok := prompt.Button("Partial")
	require.True(t, ok)
	_, ok = prompt.Button("✖️ Cancel")
	assert.True(t, ok)

	out, err := Select{}.Handle(ctx, target, zoneType, chattest.Callback("1", chat.ActionSelect, 7))
	require.NoError(t, err)
	assert.Equal(t, Retry, out)
	assert.Empty(t, d.Draft())

	out, err = Select{}.Handle(ctx, target, zoneType, chattest.Text("1", "partial"))
	require.NoError(t, err)
	assert.Equal(t, Ignored, out)
	assert.Equal(t, chooseReminder, m.Last().Text)

	out, err = Select{}.Handle(ctx, target, zoneType, chattest.Press("1", prompt.ID, partial))
	require.NoError(t, err)
	assert.Equal(t, Saved, out)
	assert.Equal(t, "partial", d.Draft()["type"])

	out, err = Select{}.Handle(ctx, target, zoneType, chattest.Callback("1", chat.ActionKeep, nil))
	require.NoError(t, err)
	assert.Equal(t, Kept, out)
	assert.Equal(t, "partial", d.Draft()["type"])
}

func TestBoolean(t *testing.T) {
	ctx := context.Background()
	m := &chattest.Messenger{}
	d := newDialogue(m)
	def, _ := fields.DefaultRegistry().Get(fields.Proxied)

	require.NoError(t, Boolean{}.Prompt(ctx, DraftOf(d), def))
	no, ok := m.Last().Button("No")
	require.True(t, ok)
	assert.Equal(t, "bool:false", no.Data)

	out, err := Boolean{}.Handle(ctx, DraftOf(d), def, chattest.Callback("1", chat.ActionBool, false))
	require.NoError(t, err)
	assert.Equal(t, Saved, out)
	assert.Equal(t, false, d.Draft()["proxied"])

	out, err = Boolean{}.Handle(ctx, DraftOf(d), def, chattest.Callback("1", chat.ActionBool, "maybe"))
	require.NoError(t, err)
	assert.Equal(t, Retry, out)
	assert.Equal(t, false, d.Draft()["proxied"])
}

func TestChoices_KeepOnlyWithCurrentValue(t *testing.T) {
	ctx := context.Background()
	m := &chattest.Messenger{}
	d := newDialogue(m)
	target := DraftOf(d)
	proxied, _ := fields.DefaultRegistry().Get(fields.Proxied)

	require.NoError(t, Select{}.Prompt(ctx, target, zoneType))
	_, ok := m.Last().Button("↩️ Keep current")
	assert.False(t, ok)
	require.NoError(t, Boolean{}.Prompt(ctx, target, proxied))
	_, ok = m.Last().Button("↩️ Keep current")
	assert.False(t, ok)

	d.SetDraft(map[string]any{"type": "full", "proxied": true})

	require.NoError(t, Select{}.Prompt(ctx, target, zoneType))
	_, ok = m.Last().Button("↩️ Keep current")
	assert.True(t, ok)
	_, ok = m.Last().Button("✅ Full")
	assert.True(t, ok)
	require.NoError(t, Boolean{}.Prompt(ctx, target, proxied))
	_, ok = m.Last().Button("↩️ Keep current")
	assert.True(t, ok)
	_, ok = m.Last().Button("✅ Yes")
	assert.True(t, ok)
}

func TestRegistry_For(t *testing.T) {
	r := NewRegistry()
	for _, kind := range []fields.Kind{fields.KindText, fields.KindNumber, fields.KindSelect, fields.KindBoolean} {
		s, err := r.For(kind)
		require.NoError(t, err)
		assert.NotNil(t, s)
	}

	_, err := r.For("date")
	assert.ErrorIs(t, err, chat.ErrConfiguration)
}
