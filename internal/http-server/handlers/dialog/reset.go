package dialog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"DnsBot/bot/chat"
	"DnsBot/entity"
	"DnsBot/internal/lib/api/cont"
	"DnsBot/internal/lib/api/response"
	"DnsBot/internal/lib/sl"
)

// ResetDialog cancels whatever the chat has in progress. Resetting an idle
// chat succeeds with reset=false.
func ResetDialog(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.dialog"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req entity.DialogRequest
		if err := render.Bind(r, &req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		logger = logger.With(
			slog.String("platform", req.Platform),
			slog.String("chat_id", req.ChatID),
		)
		if user := cont.GetUser(r.Context()); user != nil {
			logger = logger.With(slog.String("user", user.Username))
		}

		reset, err := handler.ResetDialog(r.Context(), chat.ChatKey{Platform: req.Platform, ChatID: req.ChatID})
		if err != nil {
			logger.Error("reset dialog", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Reset failed: "+err.Error()))
			return
		}
		logger.Info("dialog reset", slog.Bool("reset", reset))

		render.JSON(w, r, response.Ok(map[string]bool{"reset": reset}))
	}
}
