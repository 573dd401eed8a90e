package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MrJamesThe3rd/tillpoint/internal/completion"
	"github.com/MrJamesThe3rd/tillpoint/internal/database"
	"github.com/MrJamesThe3rd/tillpoint/internal/rollup"
	"github.com/MrJamesThe3rd/tillpoint/internal/transaction"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type completionTx struct {
	tx *sqlx.Tx
}

func (s *Store) BeginCompletion(ctx context.Context, companyID int64) (completion.Tx, error) {
	dbTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning completion tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock_shared($1)", database.RollupLockKey(companyID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring rollup lock: %w", err)
	}

	return &completionTx{tx: dbTx}, nil
}

func (c *completionTx) Commit() error { return c.tx.Commit() }

func (c *completionTx) Rollback() error {
	if err := c.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

func (c *completionTx) LockTransaction(ctx context.Context, companyID int64, id uuid.UUID) (*transaction.Transaction, error) {
	query := `
		SELECT id, company_id, branch_id, date, total
		FROM transactions
		WHERE id = $1 AND company_id = $2
		FOR UPDATE
	`

	var tx transaction.Transaction
	if err := c.tx.QueryRowContext(ctx, query, id, companyID).Scan(
		&tx.ID, &tx.CompanyID, &tx.BranchID, &tx.Date, &tx.Total,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("locking transaction: %w", err)
	}

	return &tx, nil
}

// CompletedAt reads the marker in a statement of its own, after the row lock
// is held, so the snapshot includes completions that committed meanwhile.
func (c *completionTx) CompletedAt(ctx context.Context, id uuid.UUID) (*time.Time, error) {
	var at time.Time

	err := c.tx.QueryRowContext(ctx, `SELECT completed_at FROM transaction_completions WHERE transaction_id = $1`, id).Scan(&at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading completion marker: %w", err)
	}

	return &at, nil
}

func (c *completionTx) Lines(ctx context.Context, id uuid.UUID) ([]rollup.Line, error) {
	var rows []struct {
		MenuID    int64 `db:"menu_id"`
		Quantity  int64 `db:"quantity"`
		LineTotal int64 `db:"line_total"`
	}

	query := `SELECT menu_id, quantity, line_total FROM transaction_items WHERE transaction_id = $1`
	if err := c.tx.SelectContext(ctx, &rows, query, id); err != nil {
		return nil, fmt.Errorf("selecting lines: %w", err)
	}

	lines := make([]rollup.Line, len(rows))
	for i, r := range rows {
		lines[i] = rollup.Line{MenuID: r.MenuID, Quantity: r.Quantity, LineTotal: r.LineTotal}
	}

	return lines, nil
}

func (c *completionTx) InsertMarker(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res, err := c.tx.ExecContext(ctx, `
		INSERT INTO transaction_completions (transaction_id, completed_at)
		VALUES ($1, $2)
		ON CONFLICT (transaction_id) DO NOTHING
	`, id, at)
	if err != nil {
		return false, fmt.Errorf("inserting completion marker: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting completion marker: %w", err)
	}

	return n == 1, nil
}

func (c *completionTx) DeleteMarker(ctx context.Context, id uuid.UUID) error {
	if _, err := c.tx.ExecContext(ctx, `DELETE FROM transaction_completions WHERE transaction_id = $1`, id); err != nil {
		return fmt.Errorf("deleting completion marker: %w", err)
	}

	return nil
}

func (c *completionTx) MergeDaily(ctx context.Context, d rollup.Delta) error {
	_, err := c.tx.ExecContext(ctx, `
		INSERT INTO daily_sales (company_id, branch_id, business_date, total_sales, transaction_count, items_sold)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, branch_id, business_date) DO UPDATE SET
			total_sales       = daily_sales.total_sales + EXCLUDED.total_sales,
			transaction_count = daily_sales.transaction_count + EXCLUDED.transaction_count,
			items_sold        = daily_sales.items_sold + EXCLUDED.items_sold,
			updated_at        = NOW()
	`, d.CompanyID, d.BranchID, d.BusinessDate.Format(time.DateOnly), d.TotalSales, d.Transactions, d.ItemsSold)
	if err != nil {
		return fmt.Errorf("merging daily rollup: %w", err)
	}

	return nil
}

func (c *completionTx) MergeHourly(ctx context.Context, d rollup.Delta) error {
	_, err := c.tx.ExecContext(ctx, `
		INSERT INTO hourly_sales (company_id, branch_id, hour_bucket, business_date, total_sales, transaction_count, items_sold)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_id, branch_id, hour_bucket) DO UPDATE SET
			total_sales       = hourly_sales.total_sales + EXCLUDED.total_sales,
			transaction_count = hourly_sales.transaction_count + EXCLUDED.transaction_count,
			items_sold        = hourly_sales.items_sold + EXCLUDED.items_sold,
			updated_at        = NOW()
	`, d.CompanyID, d.BranchID, d.HourBucket, d.BusinessDate.Format(time.DateOnly), d.TotalSales, d.Transactions, d.ItemsSold)
	if err != nil {
		return fmt.Errorf("merging hourly rollup: %w", err)
	}

	return nil
}

// MergeItemDaily walks d.Items in menu order, which keeps row lock order
// stable between concurrent completions.
func (c *completionTx) MergeItemDaily(ctx context.Context, d rollup.Delta) error {
	query := `
		INSERT INTO item_daily_sales (company_id, branch_id, menu_id, business_date, total_sales, items_sold)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, branch_id, menu_id, business_date) DO UPDATE SET
			total_sales = item_daily_sales.total_sales + EXCLUDED.total_sales,
			items_sold  = item_daily_sales.items_sold + EXCLUDED.items_sold,
			updated_at  = NOW()
	`

	date := d.BusinessDate.Format(time.DateOnly)

	for _, item := range d.Items {
		if _, err := c.tx.ExecContext(ctx, query, d.CompanyID, d.BranchID, item.MenuID, date, item.TotalSales, item.ItemsSold); err != nil {
			return fmt.Errorf("merging item rollup for menu %d: %w", item.MenuID, err)
		}
	}

	return nil
}

// PruneEmpty drops rollup rows a reversal brought back to zero.
func (c *completionTx) PruneEmpty(ctx context.Context, d rollup.Delta) error {
	date := d.BusinessDate.Format(time.DateOnly)

	if _, err := c.tx.ExecContext(ctx, `
		DELETE FROM daily_sales
		WHERE company_id = $1 AND branch_id = $2 AND business_date = $3
		  AND transaction_count = 0 AND items_sold = 0 AND total_sales = 0
	`, d.CompanyID, d.BranchID, date); err != nil {
		return fmt.Errorf("pruning daily rollup: %w", err)
	}

	if _, err := c.tx.ExecContext(ctx, `
		DELETE FROM hourly_sales
		WHERE company_id = $1 AND branch_id = $2 AND hour_bucket = $3
		  AND transaction_count = 0 AND items_sold = 0 AND total_sales = 0
	`, d.CompanyID, d.BranchID, d.HourBucket); err != nil {
		return fmt.Errorf("pruning hourly rollup: %w", err)
	}

	if _, err := c.tx.ExecContext(ctx, `
		DELETE FROM item_daily_sales
		WHERE company_id = $1 AND branch_id = $2 AND business_date = $3
		  AND items_sold = 0 AND total_sales = 0
	`, d.CompanyID, d.BranchID, date); err != nil {
		return fmt.Errorf("pruning item rollup: %w", err)
	}

	return nil
}

func (c *completionTx) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if _, err := c.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}
