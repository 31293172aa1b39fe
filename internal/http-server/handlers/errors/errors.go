package errors

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"DnsBot/internal/lib/api/response"
	"DnsBot/internal/lib/sl"
)

func NotFound(log *slog.Logger) http.HandlerFunc {
	return reject(log, http.StatusNotFound, "Requested resource not found")
}

func NotAllowed(log *slog.Logger) http.HandlerFunc {
	return reject(log, http.StatusMethodNotAllowed, "Method not allowed")
}

func reject(log *slog.Logger, status int, message string) http.HandlerFunc {
	log = log.With(sl.Module("http.handlers.errors"))
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("rejected request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
		)
		render.Status(r, status)
		render.JSON(w, r, response.Error(message))
	}
}
