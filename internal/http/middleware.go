package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/auth"
	"github.com/MrJamesThe3rd/tillpoint/internal/http/render"
)

// RequestLogger logs one line per request once the response is written.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info("request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("latency", time.Since(start)),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// Authenticate requires a valid bearer token and stores its claims in the
// request context.
func Authenticate(tokens *auth.Tokens, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, raw, ok := strings.Cut(header, " ")

			if !ok || !strings.EqualFold(scheme, "bearer") || raw == "" {
				render.Error(w, r, logger, fmt.Errorf("%w: expected a Bearer authorization header", auth.ErrInvalidToken))
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				render.Error(w, r, logger, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole rejects callers whose token holds none of roles. It must run
// after Authenticate.
func RequireRole(logger *zap.Logger, roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := auth.FromContext(r.Context())
			if err != nil {
				render.Error(w, r, logger, err)
				return
			}

			if !claims.HasRole(roles...) {
				render.Error(w, r, logger, fmt.Errorf("%w: %s", auth.ErrForbidden, claims.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
