package domain

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/chattest"
	"DnsBot/bot/chat/wizard"
	"DnsBot/entity"
)

func TestRegisterZoneWizard(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)
	gw := chattest.NewGateway()
	m := &chattest.Messenger{}

	engine := wizard.NewEngine(chattest.NewStore(), log)
	require.NoError(t, engine.Register(NewWizard(gw, log)))

	require.NoError(t, engine.Start(ctx, m, chattest.Text("1", ""), WizardID, map[string]any{KeyRequestedBy: "1"}))
	require.NoError(t, engine.HandleText(ctx, m, chattest.Text("1", "Example.ORG")))
	require.NoError(t, engine.HandleCallback(ctx, m, chattest.Callback("1", chat.ActionSkip, nil)))
	require.NoError(t, engine.HandleCallback(ctx, m, chattest.Callback("1", chat.ActionBool, true)))

	assert.Contains(t, m.LastPrompt().Text, "Zone name: <code>example.org</code>")
	assert.Contains(t, m.LastPrompt().Text, "Zone type: <code>Full</code>")
	assert.Contains(t, m.LastPrompt().Text, "Import existing records: <code>Yes</code>")

	require.NoError(t, engine.HandleCallback(ctx, m, chattest.Callback("1", chat.ActionConfirm, nil)))

	require.Len(t, gw.Registered, 1)
	assert.Equal(t, "example.org", gw.Registered[0].Name)
	assert.Equal(t, entity.ZoneTypeFull, gw.Registered[0].Type)
	assert.True(t, gw.Registered[0].JumpStart)
	assert.True(t, m.Contains("ada.ns.cloudflare.com"))

	active, err := engine.Active(ctx, chattest.Key("1"))
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRegisterZoneWizard_Cancel(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)
	m := &chattest.Messenger{}

	engine := wizard.NewEngine(chattest.NewStore(), log)
	require.NoError(t, engine.Register(NewWizard(chattest.NewGateway(), log)))

	require.NoError(t, engine.Start(ctx, m, chattest.Text("1", ""), WizardID, nil))
	require.NoError(t, engine.HandleCallback(ctx, m, chattest.Callback("1", chat.ActionCancel, nil)))

	assert.Equal(t, "Zone registration cancelled.", m.Last().Text)
}

func TestZoneInput_Defaults(t *testing.T) {
	input := ZoneInput(map[string]any{"name": "example.net"})
	assert.Equal(t, entity.ZoneTypeFull, input.Type)
	assert.False(t, input.JumpStart)
}
