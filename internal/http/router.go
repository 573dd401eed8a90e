package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/auth"
	"github.com/MrJamesThe3rd/tillpoint/internal/http/analytics"
	"github.com/MrJamesThe3rd/tillpoint/internal/http/expense"
	"github.com/MrJamesThe3rd/tillpoint/internal/http/pricing"
	"github.com/MrJamesThe3rd/tillpoint/internal/http/render"
	"github.com/MrJamesThe3rd/tillpoint/internal/http/report"
	"github.com/MrJamesThe3rd/tillpoint/internal/http/transaction"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Tokens         *auth.Tokens
	DB             Pinger
	AllowedOrigins []string
	Timeout        time.Duration
	Logger         *zap.Logger
}

type Handlers struct {
	Transactions *transaction.Handler
	Analytics    *analytics.Handler
	Prices       *pricing.Handler
	Expenses     *expense.Handler
	Reports      *report.Handler
}

func New(opts Options, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(RequestLogger(opts.Logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/healthz", healthz(opts.DB, opts.Logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(Authenticate(opts.Tokens, opts.Logger))

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Transactions.Routes(r)
		})

		r.Route("/analytics", h.Analytics.Routes)
		r.Route("/reports", h.Reports.Routes)
		r.Route("/prices", h.Prices.Routes)

		r.Route("/expenses", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Expenses.Routes(r)
		})
	})

	return router
}

// PriceWriters is the role gate for price book changes.
func PriceWriters(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(logger, auth.RoleManager, auth.RoleOwner)
}

// TransactionRemovers is the role gate for deleting and voiding tickets.
func TransactionRemovers(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(logger, auth.RoleManager, auth.RoleOwner)
}

type healthResponse struct {
	Status string `json:"status"`
}

func healthz(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				render.JSON(w, logger, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})

				return
			}
		}

		render.JSON(w, logger, http.StatusOK, healthResponse{Status: "ok"})
	}
}
