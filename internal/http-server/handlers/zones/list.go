package zones

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"DnsBot/internal/lib/api/response"
	"DnsBot/internal/lib/sl"
)

func ListZones(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.zones"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		zones, err := handler.ListZones(r.Context())
		if err != nil {
			logger.Error("list zones", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("Failed to list zones"))
			return
		}

		render.JSON(w, r, response.Ok(zones))
	}
}

func ListRecords(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoneID := chi.URLParam(r, "zoneID")
		logger := log.With(
			sl.Module("http.handlers.zones"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("zone_id", zoneID),
		)

		records, err := handler.ListRecords(r.Context(), zoneID)
		if err != nil {
			logger.Error("list records", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("Failed to list records"))
			return
		}

		render.JSON(w, r, response.Ok(records))
	}
}
