package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/analytics"
	analyticsStore "github.com/MrJamesThe3rd/tillpoint/internal/analytics/store"
	"github.com/MrJamesThe3rd/tillpoint/internal/auth"
	"github.com/MrJamesThe3rd/tillpoint/internal/completion"
	completionStore "github.com/MrJamesThe3rd/tillpoint/internal/completion/store"
	"github.com/MrJamesThe3rd/tillpoint/internal/config"
	"github.com/MrJamesThe3rd/tillpoint/internal/database"
	"github.com/MrJamesThe3rd/tillpoint/internal/events"
	"github.com/MrJamesThe3rd/tillpoint/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/tillpoint/internal/expense/store"
	tillHttp "github.com/MrJamesThe3rd/tillpoint/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/tillpoint/internal/http/analytics"
	expenseHandler "github.com/MrJamesThe3rd/tillpoint/internal/http/expense"
	pricingHandler "github.com/MrJamesThe3rd/tillpoint/internal/http/pricing"
	reportHandler "github.com/MrJamesThe3rd/tillpoint/internal/http/report"
	txHandler "github.com/MrJamesThe3rd/tillpoint/internal/http/transaction"
	"github.com/MrJamesThe3rd/tillpoint/internal/importer"
	"github.com/MrJamesThe3rd/tillpoint/internal/logger"
	"github.com/MrJamesThe3rd/tillpoint/internal/pricing"
	pricingStore "github.com/MrJamesThe3rd/tillpoint/internal/pricing/store"
	"github.com/MrJamesThe3rd/tillpoint/internal/report"
	"github.com/MrJamesThe3rd/tillpoint/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tillpoint/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Development: cfg.IsDevelopment(),
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	db, err := database.New(cfg.ConnectionString(), database.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	var rdb *redis.Client
	if cfg.Events.Driver == events.DriverRedis {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
	}

	publisher, err := events.New(events.Config{
		Driver:      cfg.Events.Driver,
		RedisStream: cfg.Events.RedisStream,
		Brokers:     cfg.Events.Brokers,
		Topic:       cfg.Events.Topic,
	}, rdb)
	if err != nil {
		return fmt.Errorf("creating event publisher: %w", err)
	}
	defer publisher.Close()

	loc := cfg.BusinessLocation()

	var (
		transactionService = transaction.NewService(txStore.New(db), loc)
		completionService  = completion.NewService(completionStore.New(db), publisher, loc, log.Named("completion"))
		analyticsService   = analytics.NewService(analyticsStore.New(db), loc, log.Named("analytics"))
		pricingService     = pricing.NewService(pricingStore.New(db))
		importService      = importer.NewService(log.Named("importer"))
		expenseService     = expense.NewService(expenseStore.New(db))
		reportService      = report.NewService(analyticsService, loc, cfg.Report.ServiceURL, cfg.Report.Token)
	)

	httpLog := log.Named("http")

	router := tillHttp.New(tillHttp.Options{
		Tokens:         auth.NewTokens(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
		DB:             db,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Timeout:        cfg.Server.Timeout,
		Logger:         httpLog,
	}, tillHttp.Handlers{
		Transactions: txHandler.NewHandler(transactionService, completionService, tillHttp.TransactionRemovers(httpLog), httpLog),
		Analytics:    analyticsHandler.NewHandler(analyticsService, httpLog),
		Prices:       pricingHandler.NewHandler(pricingService, importService, tillHttp.PriceWriters(httpLog), httpLog),
		Expenses:     expenseHandler.NewHandler(expenseService, httpLog),
		Reports:      reportHandler.NewHandler(reportService, httpLog),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("business_zone", loc.String()),
			zap.String("events", cfg.Events.Driver),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return nil
}
