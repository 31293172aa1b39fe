package core

import (
	"context"
	"log/slog"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/wizard"
	"DnsBot/bot/fields"
	"DnsBot/entity"
	"DnsBot/internal/lib/sl"
)

type DialogueEngine interface {
	Dialogue(ctx context.Context, key chat.ChatKey) (*chat.ChatState, error)
	Cancel(ctx context.Context, key chat.ChatKey) (bool, error)
}

type WizardEngine interface {
	Current(ctx context.Context, key chat.ChatKey) (*wizard.State, error)
	Cancel(ctx context.Context, m chat.Messenger, key chat.ChatKey) (bool, error)
}

// Core backs the admin API: it inspects dialogues and reads the DNS provider
// on behalf of an operator.
type Core struct {
	engine     DialogueEngine
	wizards    WizardEngine
	gateway    entity.DnsGateway
	registry   *fields.Registry
	messengers map[string]chat.Messenger
	authKey    string
	log        *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log:        log.With(sl.Module("core")),
		messengers: make(map[string]chat.Messenger),
		registry:   fields.DefaultRegistry(),
	}
}

func (c *Core) SetEngine(engine DialogueEngine) {
	c.engine = engine
}

func (c *Core) SetWizards(wizards WizardEngine) {
	c.wizards = wizards
}

func (c *Core) SetGateway(gateway entity.DnsGateway) {
	c.gateway = gateway
}

func (c *Core) SetRegistry(registry *fields.Registry) {
	c.registry = registry
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

// SetMessenger lets a reset notify the chat on the given platform.
func (c *Core) SetMessenger(platform string, m chat.Messenger) {
	c.messengers[platform] = m
}
