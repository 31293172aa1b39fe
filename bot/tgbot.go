package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/callbackquery"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/telegram"
	"DnsBot/internal/lib/sl"
)

var botCommands = []tgbotapi.BotCommand{
	{Command: CommandMenu, Description: "Show the main menu"},
	{Command: CommandCreate, Description: "Create a DNS record"},
	{Command: CommandEdit, Description: "Edit a DNS record"},
	{Command: CommandDelete, Description: "Delete a DNS record"},
	{Command: CommandRegister, Description: "Register a zone"},
	{Command: CommandZones, Description: "List zones"},
	{Command: CommandCancel, Description: "Cancel the current dialogue"},
}

// TgBot is the Telegram transport of the conversation.
type TgBot struct {
	log          *slog.Logger
	api          *tgbotapi.Bot
	botUsername  string
	messenger    *telegram.Messenger
	conversation *Conversation
}

func NewTgBot(botName, apiKey string, conversation *Conversation, log *slog.Logger) (*TgBot, error) {
	tgBot := &TgBot{
		log:          log.With(sl.Module("tgbot")),
		botUsername:  botName,
		conversation: conversation,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api
	tgBot.messenger = telegram.NewMessenger(api)

	return tgBot, nil
}

// Messenger returns the chat.Messenger backed by this bot.
func (t *TgBot) Messenger() chat.Messenger {
	return t.messenger
}

// Start polls for updates until ctx is done.
func (t *TgBot) Start(ctx context.Context) error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Error("handling update", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	for _, cmd := range []string{
		CommandStart, CommandMenu, CommandCancel, CommandZones,
		CommandCreate, CommandEdit, CommandDelete, CommandRegister,
	} {
		dispatcher.AddHandler(handlers.NewCommand(cmd, t.handleCommand(ctx, cmd)))
	}
	dispatcher.AddHandler(handlers.NewMessage(message.Command, t.handleUnknownCommand(ctx)))
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.All, t.handleCallback(ctx)))
	dispatcher.AddHandler(handlers.NewMessage(message.Text, t.handleText(ctx)))

	if _, err := t.api.SetMyCommands(botCommands, nil); err != nil {
		t.log.Warn("set bot commands", sl.Err(err))
	}

	err := updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	t.log.Info("telegram bot started", slog.String("username", t.botUsername))

	go func() {
		<-ctx.Done()
		if err := updater.Stop(); err != nil {
			t.log.Warn("stop updater", sl.Err(err))
		}
	}()
	updater.Idle()

	return nil
}

func (t *TgBot) handleCommand(base context.Context, cmd string) handlers.Response {
	return func(_ *tgbotapi.Bot, ctx *ext.Context) error {
		in := messageInput(ctx)
		return t.logged(in, t.conversation.Command(base, t.messenger, in, cmd))
	}
}

func (t *TgBot) handleUnknownCommand(base context.Context) handlers.Response {
	return func(_ *tgbotapi.Bot, ctx *ext.Context) error {
		in := messageInput(ctx)
		cmd := strings.TrimPrefix(strings.Fields(in.Text)[0], "/")
		cmd, _, _ = strings.Cut(cmd, "@")
		return t.logged(in, t.conversation.Command(base, t.messenger, in, cmd))
	}
}

func (t *TgBot) handleCallback(base context.Context) handlers.Response {
	return func(_ *tgbotapi.Bot, ctx *ext.Context) error {
		cq := ctx.CallbackQuery
		in := chat.Input{
			Platform:   telegram.Platform,
			ChatID:     strconv.FormatInt(ctx.EffectiveChat.Id, 10),
			UserID:     strconv.FormatInt(ctx.EffectiveUser.Id, 10),
			Data:       cq.Data,
			CallbackID: cq.Id,
		}
		if cq.Message != nil {
			in.MessageID = strconv.FormatInt(cq.Message.GetMessageId(), 10)
		}
		return t.logged(in, t.conversation.Callback(base, t.messenger, in))
	}
}

func (t *TgBot) handleText(base context.Context) handlers.Response {
	return func(_ *tgbotapi.Bot, ctx *ext.Context) error {
		in := messageInput(ctx)
		return t.logged(in, t.conversation.Text(base, t.messenger, in))
	}
}

// logged records handler errors; they were already reported to the chat, so
// the dispatcher gets nil.
func (t *TgBot) logged(in chat.Input, err error) error {
	if err != nil {
		t.log.Error("update failed",
			slog.String("chat", in.Key().String()),
			slog.String("user_id", in.UserID),
			sl.Err(err),
		)
	}
	return nil
}

func messageInput(ctx *ext.Context) chat.Input {
	return chat.Input{
		Platform: telegram.Platform,
		ChatID:   strconv.FormatInt(ctx.EffectiveChat.Id, 10),
		UserID:   strconv.FormatInt(ctx.EffectiveUser.Id, 10),
		Text:     ctx.EffectiveMessage.Text,
	}
}
