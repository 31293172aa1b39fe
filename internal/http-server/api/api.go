package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"DnsBot/internal/config"
	"DnsBot/internal/http-server/handlers/dialog"
	handlerErrors "DnsBot/internal/http-server/handlers/errors"
	"DnsBot/internal/http-server/handlers/layouts"
	"DnsBot/internal/http-server/handlers/zones"
	"DnsBot/internal/http-server/middleware/authenticate"
	"DnsBot/internal/lib/sl"
	"DnsBot/internal/ws"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	ws.Authenticator
	dialog.Core
	zones.Core
	layouts.Core
}

// NewRouter builds the admin API. metrics may be nil.
func NewRouter(log *slog.Logger, handler Handler, hub *ws.Hub, metrics http.Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(handlerErrors.NotFound(log))
	router.MethodNotAllowed(handlerErrors.NotAllowed(log))

	if metrics != nil {
		router.Handle("/metrics", metrics)
	}
	if hub != nil {
		router.Get("/api/v1/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWs(hub, handler, log, w, r)
		})
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(authenticate.New(log, handler))

		r.Route("/api/v1", func(v1 chi.Router) {
			v1.Route("/dialog", func(r chi.Router) {
				r.Get("/", dialog.GetDialog(log, handler))
				r.Post("/reset", dialog.ResetDialog(log, handler))
			})
			v1.Route("/zones", func(r chi.Router) {
				r.Get("/", zones.ListZones(log, handler))
				r.Get("/{zoneID}/records", zones.ListRecords(log, handler))
			})
			v1.Get("/layouts", layouts.GetLayouts(log, handler))
		})
	})

	return router
}

// New serves the admin API until ctx is done.
func New(ctx context.Context, conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub, metrics http.Handler) error {
	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:           NewRouter(log, handler, hub, metrics),
		ErrorLog:          httpLog,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.httpServer.Shutdown(shutdownCtx); err != nil {
			server.log.Error("shutdown api server", sl.Err(err))
		}
	}()

	err = server.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
