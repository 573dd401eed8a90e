package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/importer"
	"github.com/MrJamesThe3rd/tillpoint/internal/pricing"
	pricingStore "github.com/MrJamesThe3rd/tillpoint/internal/pricing/store"
)

func pricesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Manage branch price books",
	}

	cmd.AddCommand(importPricesCmd(a))

	return cmd
}

func importPricesCmd(a *app) *cobra.Command {
	var (
		companyID int64
		format    string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Load a price list CSV into the price book",
		Long: `Load a price list CSV into a company's price book. The whole file is
applied or nothing is. The format is detected from the header row unless
--format is given (standard or pos-export).

Examples:
  tillctl prices import --company 1 prices.csv
  tillctl prices import --company 1 --format pos-export export.csv --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			params, err := importer.NewService(a.log).Import(importer.Format(format), f)
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d prices parsed, nothing written\n", len(params))
				return nil
			}

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := pricing.NewService(pricingStore.New(db)).Import(cmd.Context(), companyID, params)
			if err != nil {
				return err
			}

			a.log.Info("price list imported",
				zap.Int64("company_id", companyID),
				zap.String("file", args[0]),
				zap.Int("prices", n),
			)

			return nil
		},
	}

	cmd.Flags().Int64Var(&companyID, "company", 0, "company owning the price book")
	cmd.Flags().StringVar(&format, "format", "", "price list format, detected when empty")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse the file without writing")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}
