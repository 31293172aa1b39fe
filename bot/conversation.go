package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/ui"
	"DnsBot/bot/chat/wizard"
	"DnsBot/bot/workflows/domain"
	"DnsBot/bot/workflows/records"
	"DnsBot/entity"
	"DnsBot/internal/lib/sl"
)

// Commands understood in any state.
const (
	CommandStart    = "start"
	CommandMenu     = "menu"
	CommandCancel   = "cancel"
	CommandZones    = "zones"
	CommandCreate   = "create"
	CommandEdit     = "edit"
	CommandDelete   = "delete"
	CommandRegister = "register"
)

const (
	menuText = "<b>DNS manager</b>\nWhat would you like to do?"
	idleHint = "Nothing is in progress. Use /menu to manage DNS records."
)

// Conversation routes normalized chat events to the workflow engine and the
// registration wizard. At most one of them owns a chat at a time, and the
// events of one chat are handled one after another.
type Conversation struct {
	engine  *chat.ChatEngine
	wizards *wizard.Engine
	router  *chat.Router
	gateway entity.DnsGateway
	locks   *chat.ChatLocks
	log     *slog.Logger
}

func NewConversation(engine *chat.ChatEngine, wizards *wizard.Engine, gateway entity.DnsGateway, log *slog.Logger) *Conversation {
	c := &Conversation{
		engine:  engine,
		wizards: wizards,
		gateway: gateway,
		locks:   chat.NewChatLocks(),
		log:     log.With(sl.Module("conversation")),
	}

	router := chat.NewRouter(log)
	router.Handle(chat.ActionMenu, func(ctx context.Context, m chat.Messenger, in chat.Input, _ chat.Callback) error {
		return c.showMenu(m, in.ChatID)
	})
	router.Handle(chat.ActionCreate, c.startWorkflow(records.CreateWorkflowID))
	router.Handle(chat.ActionEdit, c.startWorkflow(records.EditWorkflowID))
	router.Handle(chat.ActionDelete, c.startWorkflow(records.DeleteWorkflowID))
	router.Handle(chat.ActionRegister, func(ctx context.Context, m chat.Messenger, in chat.Input, _ chat.Callback) error {
		return c.startRegistration(ctx, m, in)
	})
	router.Handle(chat.ActionZones, func(ctx context.Context, m chat.Messenger, in chat.Input, _ chat.Callback) error {
		return c.listZones(ctx, m, in.ChatID)
	})
	router.HandleAll(c.dialogueCallback,
		chat.ActionZone, chat.ActionRecord, chat.ActionType, chat.ActionField,
		chat.ActionSelect, chat.ActionBool, chat.ActionKeep, chat.ActionSave,
		chat.ActionConfirm, chat.ActionCancel, chat.ActionSkip, chat.ActionPage,
	)
	router.Handle(chat.ActionNoop, func(context.Context, chat.Messenger, chat.Input, chat.Callback) error {
		return nil
	})
	c.router = router

	return c
}

// Command handles a slash command. cmd comes without the slash.
func (c *Conversation) Command(ctx context.Context, m chat.Messenger, in chat.Input, cmd string) error {
	defer c.locks.Lock(in.Key())()

	switch strings.ToLower(cmd) {
	case CommandStart, CommandMenu:
		return c.showMenu(m, in.ChatID)
	case CommandCancel:
		return c.cancel(ctx, m, in)
	case CommandZones:
		return c.listZones(ctx, m, in.ChatID)
	case CommandCreate:
		return c.start(ctx, m, in, records.CreateWorkflowID)
	case CommandEdit:
		return c.start(ctx, m, in, records.EditWorkflowID)
	case CommandDelete:
		return c.start(ctx, m, in, records.DeleteWorkflowID)
	case CommandRegister:
		return c.startRegistration(ctx, m, in)
	}
	return m.SendText(in.ChatID, "Unknown command. Use /menu to see what I can do.")
}

// Callback handles a button press.
func (c *Conversation) Callback(ctx context.Context, m chat.Messenger, in chat.Input) error {
	defer c.locks.Lock(in.Key())()

	err := c.router.Dispatch(ctx, m, in)
	if errors.Is(err, chat.ErrUnknownAction) {
		c.log.Debug("unknown callback", slog.String("data", in.Data))
		return nil
	}
	return err
}

// Text handles a typed message.
func (c *Conversation) Text(ctx context.Context, m chat.Messenger, in chat.Input) error {
	defer c.locks.Lock(in.Key())()

	key := in.Key()
	if active, err := c.wizards.Active(ctx, key); err != nil {
		return err
	} else if active {
		return c.wizards.HandleText(ctx, m, in)
	}
	if active, err := c.engine.Active(ctx, key); err != nil {
		return err
	} else if active {
		return c.engine.HandleText(ctx, m, in)
	}
	return m.SendText(in.ChatID, idleHint)
}

func (c *Conversation) dialogueCallback(ctx context.Context, m chat.Messenger, in chat.Input, _ chat.Callback) error {
	active, err := c.wizards.Active(ctx, in.Key())
	if err != nil {
		return err
	}
	if active {
		return c.wizards.HandleCallback(ctx, m, in)
	}
	return c.engine.HandleCallback(ctx, m, in)
}

func (c *Conversation) startWorkflow(id chat.WorkflowID) chat.CallbackHandler {
	return func(ctx context.Context, m chat.Messenger, in chat.Input, _ chat.Callback) error {
		return c.start(ctx, m, in, id)
	}
}

// start replaces whatever the chat had in progress with a record workflow.
func (c *Conversation) start(ctx context.Context, m chat.Messenger, in chat.Input, id chat.WorkflowID) error {
	if _, err := c.wizards.Cancel(ctx, nil, in.Key()); err != nil {
		return fmt.Errorf("cancel wizard: %w", err)
	}
	return c.engine.Start(ctx, m, in, id, nil)
}

func (c *Conversation) startRegistration(ctx context.Context, m chat.Messenger, in chat.Input) error {
	if _, err := c.engine.Cancel(ctx, in.Key()); err != nil {
		return fmt.Errorf("cancel dialogue: %w", err)
	}
	return c.wizards.Start(ctx, m, in, domain.WizardID, map[string]any{
		domain.KeyRequestedBy: in.UserID,
	})
}

func (c *Conversation) cancel(ctx context.Context, m chat.Messenger, in chat.Input) error {
	wizardCancelled, err := c.wizards.Cancel(ctx, m, in.Key())
	if err != nil {
		return err
	}
	dialogueCancelled, err := c.engine.Cancel(ctx, in.Key())
	if err != nil {
		return err
	}
	switch {
	case dialogueCancelled:
		return m.SendText(in.ChatID, "Cancelled.")
	case wizardCancelled:
		return nil
	}
	return m.SendText(in.ChatID, "Nothing to cancel.")
}

func (c *Conversation) showMenu(m chat.Messenger, chatID string) error {
	_, err := m.SendPrompt(chatID, menuText, ui.MainMenuKeyboard())
	return err
}

func (c *Conversation) listZones(ctx context.Context, m chat.Messenger, chatID string) error {
	zones, err := c.gateway.ListDomains(ctx)
	if err != nil {
		c.log.Error("list zones", sl.Err(err))
		return m.SendText(chatID, "❌ Could not load zones: "+html.EscapeString(err.Error()))
	}
	return m.SendText(chatID, zonesMessage(zones))
}

func zonesMessage(zones []entity.Zone) string {
	if len(zones) == 0 {
		return "No zones found. Register one first."
	}
	var b strings.Builder
	b.WriteString("<b>Zones</b>\n")
	for _, z := range zones {
		fmt.Fprintf(&b, "\n• <code>%s</code> · %s", html.EscapeString(z.Name), html.EscapeString(z.Status))
		if z.Paused {
			b.WriteString(" · paused")
		}
	}
	return b.String()
}
