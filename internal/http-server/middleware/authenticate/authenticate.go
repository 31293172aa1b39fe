package authenticate

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"DnsBot/entity"
	"DnsBot/internal/lib/api/cont"
	"DnsBot/internal/lib/api/response"
	"DnsBot/internal/lib/sl"
)

const apiKeyHeader = "X-Api-Key"

var errNoToken = errors.New("no bearer token or api key")

type Authenticate interface {
	AuthenticateByToken(token string) (*entity.UserAuth, error)
}

// New admits requests carrying the admin key, either as a bearer token or
// in the X-Api-Key header, and logs every request it sees.
func New(log *slog.Logger, auth Authenticate) func(next http.Handler) http.Handler {
	log = log.With(sl.Module("middleware.authenticate"))
	log.Info("authenticate middleware initialized")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			logger := requestLogger(log, r)
			defer func() {
				logger.With(
					slog.Int("status", ww.Status()),
					slog.Int("size", ww.BytesWritten()),
					slog.Duration("took", time.Since(started)),
				).Info("admin request")
			}()

			token, err := extractToken(r)
			if err != nil {
				logger = logger.With(sl.Err(err))
				unauthorized(ww, r, "Missing credentials")
				return
			}
			if auth == nil {
				unauthorized(ww, r, "Authentication is not configured")
				return
			}

			user, err := auth.AuthenticateByToken(token)
			if err != nil {
				logger = logger.With(sl.Secret("token", token), sl.Err(err))
				unauthorized(ww, r, "Invalid credentials")
				return
			}
			logger = logger.With(slog.String("user", user.Username))

			ww.Header().Set("X-Request-ID", middleware.GetReqID(r.Context()))
			next.ServeHTTP(ww, r.WithContext(cont.PutUser(r.Context(), user)))
		})
	}
}

func extractToken(r *http.Request) (string, error) {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		if token = strings.TrimSpace(token); token != "" {
			return token, nil
		}
	}
	if key := strings.TrimSpace(r.Header.Get(apiKeyHeader)); key != "" {
		return key, nil
	}
	return "", errNoToken
}

func requestLogger(log *slog.Logger, r *http.Request) *slog.Logger {
	remote := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		remote, _, _ = strings.Cut(forwarded, ",")
	}
	return log.With(
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", strings.TrimSpace(remote)),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(message))
}
