package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/config"
	"github.com/MrJamesThe3rd/tillpoint/internal/database"
	"github.com/MrJamesThe3rd/tillpoint/internal/logger"
)

var Version = "dev"

// app holds what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfg *config.Config
	log *zap.Logger
}

func (a *app) openDB() (*sqlx.DB, error) {
	db, err := database.New(a.cfg.ConnectionString(), database.Options{
		MaxOpenConns:    a.cfg.DB.MaxOpenConns,
		MaxIdleConns:    a.cfg.DB.MaxIdleConns,
		ConnMaxLifetime: a.cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return db, nil
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "tillctl",
		Short:         "Operate the Tillpoint ledger and sales rollups",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log, err := logger.New(logger.Config{
				Development: cfg.IsDevelopment(),
				Level:       cfg.Logger.Level,
				Encoding:    "console",
			})
			if err != nil {
				return err
			}

			a.cfg, a.log = cfg, log

			return nil
		},
	}

	rootCmd.AddCommand(migrateCmd(a))
	rootCmd.AddCommand(rollupCmd(a))
	rootCmd.AddCommand(pricesCmd(a))
	rootCmd.AddCommand(tokenCmd(a))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}

			a.log.Info("schema applied", zap.String("database", a.cfg.DB.Name))

			return nil
		},
	}
}
