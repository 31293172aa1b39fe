package telegram

import (
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"DnsBot/bot/chat"
)

// TelegramAPI defines the Telegram bot methods needed by the messenger.
type TelegramAPI interface {
	SendMessage(chatId int64, text string, opts *tgbotapi.SendMessageOpts) (*tgbotapi.Message, error)
	EditMessageText(text string, opts *tgbotapi.EditMessageTextOpts) (*tgbotapi.Message, bool, error)
	AnswerCallbackQuery(callbackQueryId string, opts *tgbotapi.AnswerCallbackQueryOpts) (bool, error)
}

const (
	Platform  = "telegram"
	parseMode = "HTML"
)

// Messenger implements chat.Messenger for Telegram. Text is sent as HTML.
type Messenger struct {
	api TelegramAPI
}

func NewMessenger(api TelegramAPI) *Messenger {
	return &Messenger{api: api}
}

func (m *Messenger) SendText(chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return err
	}
	_, err = m.api.SendMessage(id, text, &tgbotapi.SendMessageOpts{
		ParseMode: parseMode,
	})
	return err
}

func (m *Messenger) SendPrompt(chatID, text string, rows [][]chat.InlineButton) (string, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return "", err
	}
	msg, err := m.api.SendMessage(id, text, &tgbotapi.SendMessageOpts{
		ParseMode:   parseMode,
		ReplyMarkup: inlineKeyboard(rows),
	})
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(msg.MessageId, 10), nil
}

func (m *Messenger) EditPrompt(chatID, messageID, text string, rows [][]chat.InlineButton) error {
	chatInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return err
	}
	msgInt, err := strconv.ParseInt(messageID, 10, 64)
	if err != nil {
		return err
	}

	_, _, err = m.api.EditMessageText(text, &tgbotapi.EditMessageTextOpts{
		ChatId:      chatInt,
		MessageId:   msgInt,
		ParseMode:   parseMode,
		ReplyMarkup: inlineKeyboard(rows),
	})
	if isNotModified(err) {
		return nil
	}
	return err
}

func (m *Messenger) AnswerCallback(callbackID, text string) error {
	if callbackID == "" {
		return nil
	}
	_, err := m.api.AnswerCallbackQuery(callbackID, &tgbotapi.AnswerCallbackQueryOpts{
		Text: text,
	})
	return err
}

func inlineKeyboard(rows [][]chat.InlineButton) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		buttons := make([]tgbotapi.InlineKeyboardButton, len(row))
		for j, btn := range row {
			buttons[j] = tgbotapi.InlineKeyboardButton{
				Text:         btn.Text,
				CallbackData: btn.Data,
			}
		}
		keyboard = append(keyboard, buttons)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}

// isNotModified matches the error Telegram returns when an edit would leave
// the message unchanged.
func isNotModified(err error) bool {
	var tgErr *tgbotapi.TelegramError
	if errors.As(err, &tgErr) {
		return strings.Contains(tgErr.Description, "message is not modified")
	}
	return false
}
