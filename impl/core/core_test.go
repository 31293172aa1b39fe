package core

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/chattest"
	"DnsBot/bot/chat/wizard"
	"DnsBot/bot/fields"
	"DnsBot/bot/workflows/domain"
	"DnsBot/bot/workflows/records"
	"DnsBot/entity"
)

type fixture struct {
	core    *Core
	engine  *chat.ChatEngine
	wizards *wizard.Engine
	gateway *chattest.Gateway
	msgr    *chattest.Messenger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	store := chattest.NewStore()
	gateway := chattest.NewGateway()

	engine := chat.NewChatEngine(store, log)
	for _, w := range records.New(gateway, fields.DefaultRegistry(), log).Workflows() {
		require.NoError(t, engine.RegisterWorkflow(w))
	}
	wizards := wizard.NewEngine(store, log)
	require.NoError(t, wizards.Register(domain.NewWizard(gateway, log)))

	c := New(log)
	c.SetEngine(engine)
	c.SetWizards(wizards)
	c.SetGateway(gateway)
	c.SetAuthKey("0123456789abcdef")

	return &fixture{core: c, engine: engine, wizards: wizards, gateway: gateway, msgr: &chattest.Messenger{}}
}

func TestAuthenticateByToken(t *testing.T) {
	f := newFixture(t)

	user, err := f.core.AuthenticateByToken("0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)

	_, err = f.core.AuthenticateByToken("wrong")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = f.core.AuthenticateByToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	name, err := f.core.ValidateToken("0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "admin", name)
}

func TestAuthenticateWithoutKey(t *testing.T) {
	c := New(slog.New(slog.DiscardHandler))
	_, err := c.AuthenticateByToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDialogState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := chattest.Key("1")

	snapshot, err := f.core.DialogState(ctx, key)
	require.NoError(t, err)
	assert.False(t, snapshot.Active())
	assert.Equal(t, chattest.Platform, snapshot.Platform)

	require.NoError(t, f.engine.Start(ctx, f.msgr, chattest.Text("1", "/create"), records.CreateWorkflowID, nil))

	snapshot, err = f.core.DialogState(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, snapshot.Dialogue)
	assert.Equal(t, string(records.CreateWorkflowID), snapshot.Dialogue.WorkflowID)
	assert.Nil(t, snapshot.Wizard)
}

func TestResetDialog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key := chattest.Key("1")

	reset, err := f.core.ResetDialog(ctx, key)
	require.NoError(t, err)
	assert.False(t, reset)

	require.NoError(t, f.wizards.Start(ctx, f.msgr, chattest.Text("1", "/register"), domain.WizardID, nil))
	snapshot, err := f.core.DialogState(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, snapshot.Wizard)
	assert.Equal(t, domain.WizardID, snapshot.Wizard.WizardID)

	reset, err = f.core.ResetDialog(ctx, key)
	require.NoError(t, err)
	assert.True(t, reset)

	active, err := f.wizards.Active(ctx, key)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestResetDialogNotifiesChat(t *testing.T) {
	f := newFixture(t)
	f.core.SetMessenger(chattest.Platform, f.msgr)
	ctx := context.Background()

	require.NoError(t, f.wizards.Start(ctx, f.msgr, chattest.Text("1", "/register"), domain.WizardID, nil))
	sent := len(f.msgr.Texts())

	reset, err := f.core.ResetDialog(ctx, chattest.Key("1"))
	require.NoError(t, err)
	assert.True(t, reset)
	assert.Greater(t, len(f.msgr.Texts()), sent)
}

func TestListZonesAndRecords(t *testing.T) {
	f := newFixture(t)
	f.gateway.Records["zone-1"] = []entity.DnsRecord{{ID: "rec-1", ZoneID: "zone-1", Type: entity.TypeA, Name: "www"}}
	ctx := context.Background()

	zones, err := f.core.ListZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "example.com", zones[0].Name)

	recs, err := f.core.ListRecords(ctx, "zone-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "rec-1", recs[0].ID)
}

func TestListZonesWithoutGateway(t *testing.T) {
	c := New(slog.New(slog.DiscardHandler))
	_, err := c.ListZones(context.Background())
	assert.Error(t, err)
}

func TestLayouts(t *testing.T) {
	f := newFixture(t)
	layouts := f.core.Layouts()
	require.NotEmpty(t, layouts)

	var a *entity.Layout
	for i := range layouts {
		if layouts[i].Type == entity.TypeA {
			a = &layouts[i]
		}
	}
	require.NotNil(t, a)
	require.NotEmpty(t, a.Fields)
	assert.Equal(t, fields.Name, a.Fields[0].Name)
	assert.Equal(t, "name", a.Fields[0].Key)
	assert.True(t, a.Fields[0].Required)
}
