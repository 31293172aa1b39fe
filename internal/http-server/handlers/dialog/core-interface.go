package dialog

import (
	"context"

	"DnsBot/bot/chat"
	"DnsBot/entity"
)

type Core interface {
	DialogState(ctx context.Context, key chat.ChatKey) (*entity.DialogSnapshot, error)
	ResetDialog(ctx context.Context, key chat.ChatKey) (bool, error)
}
