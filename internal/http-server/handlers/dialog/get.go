package dialog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"DnsBot/bot/chat"
	"DnsBot/entity"
	"DnsBot/internal/lib/api/response"
	"DnsBot/internal/lib/sl"
	"DnsBot/internal/lib/validate"
)

func GetDialog(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.dialog"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		req := entity.DialogRequest{
			Platform: r.URL.Query().Get("platform"),
			ChatID:   r.URL.Query().Get("chat_id"),
		}
		if err := validate.Struct(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}

		snapshot, err := handler.DialogState(r.Context(), chat.ChatKey{Platform: req.Platform, ChatID: req.ChatID})
		if err != nil {
			logger.Error("get dialog", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to load dialog"))
			return
		}

		render.JSON(w, r, response.Ok(snapshot))
	}
}
