package layouts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"DnsBot/entity"
	"DnsBot/internal/lib/api/response"
)

type Core interface {
	Layouts() []entity.Layout
}

func GetLayouts(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.Ok(handler.Layouts()))
	}
}
