package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"DnsBot/internal/lib/sl"
)

// CallbackHandler receives a decoded button press.
type CallbackHandler func(ctx context.Context, m Messenger, in Input, cb Callback) error

type route struct {
	action  string
	match   func(token string) bool
	handler CallbackHandler
}

// Router dispatches button presses by action. Every press is answered,
// so the client stops showing its loading indicator even for tokens
// nothing handles.
type Router struct {
	routes []route
	log    *slog.Logger
}

// NewRouter creates an empty router.
func NewRouter(log *slog.Logger) *Router {
	return &Router{log: log.With(sl.Module("chat.router"))}
}

// Handle registers a handler for an action.
func (r *Router) Handle(action string, h CallbackHandler) {
	r.routes = append(r.routes, route{action: action, match: Matcher(action), handler: h})
}

// HandleAll registers one handler for several actions.
func (r *Router) HandleAll(h CallbackHandler, actions ...string) {
	for _, action := range actions {
		r.Handle(action, h)
	}
}

// Dispatch routes a button press to its handler.
func (r *Router) Dispatch(ctx context.Context, m Messenger, in Input) error {
	cb := in.Callback()
	for _, rt := range r.routes {
		// malformed payloads decode to the whole token, so they fail the
		// action comparison even when the prefix matches
		if !rt.match(in.Data) || !cb.Is(rt.action) {
			continue
		}

		err := rt.handler(ctx, m, in, cb)
		answer := ""
		if errors.Is(err, ErrSessionExpired) {
			answer = "Session expired"
			if sendErr := m.SendText(in.ChatID, "⌛ This dialogue has expired. Use /menu to start again."); sendErr != nil {
				r.log.Warn("notify session expired", sl.Err(sendErr))
			}
			err = nil
		}
		r.answer(m, in, answer)
		return err
	}

	r.answer(m, in, "Unknown action")
	return fmt.Errorf("%w: %q", ErrUnknownAction, in.Data)
}

func (r *Router) answer(m Messenger, in Input, text string) {
	if in.CallbackID == "" {
		return
	}
	if err := m.AnswerCallback(in.CallbackID, text); err != nil {
		r.log.Warn("answer callback",
			slog.String("chat", in.Key().String()),
			sl.Err(err),
		)
	}
}
