package chat_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DnsBot/bot/chat"
	"DnsBot/bot/chat/chattest"
)

func TestRouter_DispatchesByAction(t *testing.T) {
	r := chat.NewRouter(slog.New(slog.DiscardHandler))
	m := &chattest.Messenger{}

	var got []int
	r.Handle(chat.ActionZone, func(_ context.Context, _ chat.Messenger, _ chat.Input, cb chat.Callback) error {
		idx, _ := cb.Index()
		got = append(got, idx)
		return nil
	})

	require.NoError(t, r.Dispatch(context.Background(), m, chattest.Callback("1", chat.ActionZone, 2)))
	assert.Equal(t, []int{2}, got)
	assert.Equal(t, []string{""}, m.Answers)
}

func TestRouter_UnknownTokenIsAnswered(t *testing.T) {
	r := chat.NewRouter(slog.New(slog.DiscardHandler))
	r.Handle("not-json-after-colon", func(context.Context, chat.Messenger, chat.Input, chat.Callback) error {
		t.Fatal("malformed token must not reach a handler")
		return nil
	})
	m := &chattest.Messenger{}

	in := chattest.Callback("1", "", nil)
	in.Data = "not-json-after-colon:{bad"

	err := r.Dispatch(context.Background(), m, in)
	assert.ErrorIs(t, err, chat.ErrUnknownAction)
	assert.Equal(t, []string{"Unknown action"}, m.Answers)
}

func TestRouter_SessionExpiredIsReported(t *testing.T) {
	r := chat.NewRouter(slog.New(slog.DiscardHandler))
	r.HandleAll(func(context.Context, chat.Messenger, chat.Input, chat.Callback) error {
		return chat.ErrSessionExpired
	}, chat.ActionConfirm, chat.ActionSkip)
	m := &chattest.Messenger{}

	require.NoError(t, r.Dispatch(context.Background(), m, chattest.Callback("1", chat.ActionSkip, nil)))
	assert.Equal(t, []string{"Session expired"}, m.Answers)
	assert.True(t, m.Contains("expired"))
}
