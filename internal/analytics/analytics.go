// Package analytics reads the sales rollups maintained by the completion
// gate and keeps them honest: Rebuild recomputes them from the ledger and
// Verify reports where they drifted from it.
package analytics

import (
	"errors"
	"fmt"
	"time"
)

var ErrValidation = errors.New("invalid analytics filter")

// Filter scopes every rollup read. CompanyID is mandatory; the remaining
// fields narrow the result and are AND-ed together. Dates are business dates
// and both ends are inclusive.
type Filter struct {
	CompanyID int64
	BranchID  *int64
	MenuID    *int64
	StartDate *time.Time
	EndDate   *time.Time
}

func (f Filter) Validate() error {
	if f.CompanyID <= 0 {
		return fmt.Errorf("%w: company is required", ErrValidation)
	}

	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return fmt.Errorf("%w: start date %s is after end date %s",
			ErrValidation, f.StartDate.Format(time.DateOnly), f.EndDate.Format(time.DateOnly))
	}

	return nil
}

type DailyRow struct {
	BranchID         int64     `db:"branch_id" json:"branch_id"`
	BusinessDate     time.Time `db:"business_date" json:"business_date"`
	TotalSales       int64     `db:"total_sales" json:"total_sales"`
	TransactionCount int64     `db:"transaction_count" json:"transaction_count"`
	ItemsSold        int64     `db:"items_sold" json:"items_sold"`
}

type HourlyRow struct {
	BranchID         int64     `db:"branch_id" json:"branch_id"`
	HourBucket       time.Time `db:"hour_bucket" json:"hour_bucket"`
	BusinessDate     time.Time `db:"business_date" json:"business_date"`
	TotalSales       int64     `db:"total_sales" json:"total_sales"`
	TransactionCount int64     `db:"transaction_count" json:"transaction_count"`
	ItemsSold        int64     `db:"items_sold" json:"items_sold"`
}

type ItemDailyRow struct {
	BranchID     int64     `db:"branch_id" json:"branch_id"`
	MenuID       int64     `db:"menu_id" json:"menu_id"`
	BusinessDate time.Time `db:"business_date" json:"business_date"`
	TotalSales   int64     `db:"total_sales" json:"total_sales"`
	ItemsSold    int64     `db:"items_sold" json:"items_sold"`
}

// Summary is a single summed row. Empty ranges sum to zero.
type Summary struct {
	TotalSales       int64 `db:"total_sales" json:"total_sales"`
	TransactionCount int64 `db:"transaction_count" json:"transaction_count"`
	ItemsSold        int64 `db:"items_sold" json:"items_sold"`
}

type ItemSummary struct {
	TotalSales int64 `db:"total_sales" json:"total_sales"`
	ItemsSold  int64 `db:"items_sold" json:"items_sold"`
}

type TopItem struct {
	MenuID     int64 `db:"menu_id" json:"menu_id"`
	TotalSales int64 `db:"total_sales" json:"total_sales"`
	ItemsSold  int64 `db:"items_sold" json:"items_sold"`
}

// Drift is one (branch, business date) where the daily rollup disagrees
// with the completed ledger.
type Drift struct {
	BranchID        int64     `db:"branch_id"`
	BusinessDate    time.Time `db:"business_date"`
	RollupSales     int64     `db:"rollup_sales"`
	LedgerSales     int64     `db:"ledger_sales"`
	RollupCount     int64     `db:"rollup_count"`
	LedgerCount     int64     `db:"ledger_count"`
	RollupItemsSold int64     `db:"rollup_items_sold"`
	LedgerItemsSold int64     `db:"ledger_items_sold"`
}

type RebuildResult struct {
	DailyRows  int64
	HourlyRows int64
	ItemRows   int64
}
