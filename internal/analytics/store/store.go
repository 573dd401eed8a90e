package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/MrJamesThe3rd/tillpoint/internal/analytics"
	"github.com/MrJamesThe3rd/tillpoint/internal/database"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Daily(ctx context.Context, f analytics.Filter) ([]analytics.DailyRow, error) {
	c := filterConditions(f, false)
	query := `
		SELECT branch_id, business_date, total_sales, transaction_count, items_sold
		FROM daily_sales` + c.where() + `
		ORDER BY business_date ASC, branch_id ASC`

	rows := []analytics.DailyRow{}
	if err := s.db.SelectContext(ctx, &rows, query, c.args...); err != nil {
		return nil, fmt.Errorf("selecting daily rollup: %w", err)
	}

	return rows, nil
}

func (s *Store) Hourly(ctx context.Context, f analytics.Filter) ([]analytics.HourlyRow, error) {
	c := filterConditions(f, false)
	query := `
		SELECT branch_id, hour_bucket, business_date, total_sales, transaction_count, items_sold
		FROM hourly_sales` + c.where() + `
		ORDER BY hour_bucket ASC, branch_id ASC`

	rows := []analytics.HourlyRow{}
	if err := s.db.SelectContext(ctx, &rows, query, c.args...); err != nil {
		return nil, fmt.Errorf("selecting hourly rollup: %w", err)
	}

	return rows, nil
}

func (s *Store) ItemDaily(ctx context.Context, f analytics.Filter) ([]analytics.ItemDailyRow, error) {
	c := filterConditions(f, true)
	query := `
		SELECT branch_id, menu_id, business_date, total_sales, items_sold
		FROM item_daily_sales` + c.where() + `
		ORDER BY business_date ASC, branch_id ASC, menu_id ASC`

	rows := []analytics.ItemDailyRow{}
	if err := s.db.SelectContext(ctx, &rows, query, c.args...); err != nil {
		return nil, fmt.Errorf("selecting item rollup: %w", err)
	}

	return rows, nil
}

const summedMeasures = `
	SELECT
		COALESCE(SUM(total_sales), 0)::bigint       AS total_sales,
		COALESCE(SUM(transaction_count), 0)::bigint AS transaction_count,
		COALESCE(SUM(items_sold), 0)::bigint        AS items_sold
`

func (s *Store) DailySummary(ctx context.Context, f analytics.Filter) (analytics.Summary, error) {
	c := filterConditions(f, false)

	var sum analytics.Summary
	if err := s.db.GetContext(ctx, &sum, summedMeasures+` FROM daily_sales`+c.where(), c.args...); err != nil {
		return analytics.Summary{}, fmt.Errorf("summing daily rollup: %w", err)
	}

	return sum, nil
}

func (s *Store) HourlySummary(ctx context.Context, f analytics.Filter) (analytics.Summary, error) {
	c := filterConditions(f, false)

	var sum analytics.Summary
	if err := s.db.GetContext(ctx, &sum, summedMeasures+` FROM hourly_sales`+c.where(), c.args...); err != nil {
		return analytics.Summary{}, fmt.Errorf("summing hourly rollup: %w", err)
	}

	return sum, nil
}

func (s *Store) ItemDailySummary(ctx context.Context, f analytics.Filter) (analytics.ItemSummary, error) {
	c := filterConditions(f, true)
	query := `
		SELECT
			COALESCE(SUM(total_sales), 0)::bigint AS total_sales,
			COALESCE(SUM(items_sold), 0)::bigint  AS items_sold
		FROM item_daily_sales` + c.where()

	var sum analytics.ItemSummary
	if err := s.db.GetContext(ctx, &sum, query, c.args...); err != nil {
		return analytics.ItemSummary{}, fmt.Errorf("summing item rollup: %w", err)
	}

	return sum, nil
}

func (s *Store) TopItems(ctx context.Context, f analytics.Filter, limit int) ([]analytics.TopItem, error) {
	c := filterConditions(f, true)
	c.args = append(c.args, limit)

	query := `
		SELECT menu_id, SUM(total_sales)::bigint AS total_sales, SUM(items_sold)::bigint AS items_sold
		FROM item_daily_sales` + c.where() + `
		GROUP BY menu_id
		ORDER BY total_sales DESC, menu_id ASC
		LIMIT $` + fmt.Sprint(len(c.args))

	rows := []analytics.TopItem{}
	if err := s.db.SelectContext(ctx, &rows, query, c.args...); err != nil {
		return nil, fmt.Errorf("selecting top items: %w", err)
	}

	return rows, nil
}

func (s *Store) Rebuild(ctx context.Context, companyID int64, from, to time.Time, offset time.Duration) (analytics.RebuildResult, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return analytics.RebuildResult{}, fmt.Errorf("beginning rebuild tx: %w", err)
	}
	defer tx.Rollback()

	// Exclusive: waits for in-flight completions and holds new ones back
	// until the rebuilt rows are committed.
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", database.RollupLockKey(companyID)); err != nil {
		return analytics.RebuildResult{}, fmt.Errorf("acquiring rollup lock: %w", err)
	}

	start, end := from.Format(time.DateOnly), to.Format(time.DateOnly)

	for _, table := range []string{"daily_sales", "hourly_sales", "item_daily_sales"} {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE company_id = $1 AND business_date BETWEEN $2 AND $3`,
			companyID, start, end,
		); err != nil {
			return analytics.RebuildResult{}, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	args := []any{companyID, int64(offset / time.Second), start, end}

	var res analytics.RebuildResult

	steps := []struct {
		name  string
		query string
		rows  *int64
	}{
		{"daily_sales", rebuildDaily, &res.DailyRows},
		{"hourly_sales", rebuildHourly, &res.HourlyRows},
		{"item_daily_sales", rebuildItemDaily, &res.ItemRows},
	}

	for _, step := range steps {
		r, err := tx.ExecContext(ctx, step.query, args...)
		if err != nil {
			return analytics.RebuildResult{}, fmt.Errorf("rebuilding %s: %w", step.name, err)
		}

		if *step.rows, err = r.RowsAffected(); err != nil {
			return analytics.RebuildResult{}, fmt.Errorf("rebuilding %s: %w", step.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return analytics.RebuildResult{}, fmt.Errorf("committing rebuild: %w", err)
	}

	return res, nil
}

const rebuildDaily = completedSales + `
	INSERT INTO daily_sales (company_id, branch_id, business_date, total_sales, transaction_count, items_sold)
	SELECT $1, branch_id, business_date, SUM(line_total), COUNT(DISTINCT transaction_id), SUM(quantity)
	FROM sales
	WHERE business_date BETWEEN $3 AND $4
	GROUP BY branch_id, business_date
`

const rebuildHourly = completedSales + `
	INSERT INTO hourly_sales (company_id, branch_id, hour_bucket, business_date, total_sales, transaction_count, items_sold)
	SELECT $1, branch_id, hour_bucket, business_date, SUM(line_total), COUNT(DISTINCT transaction_id), SUM(quantity)
	FROM sales
	WHERE business_date BETWEEN $3 AND $4
	GROUP BY branch_id, hour_bucket, business_date
`

const rebuildItemDaily = completedSales + `
	INSERT INTO item_daily_sales (company_id, branch_id, menu_id, business_date, total_sales, items_sold)
	SELECT $1, branch_id, menu_id, business_date, SUM(line_total), SUM(quantity)
	FROM sales
	WHERE business_date BETWEEN $3 AND $4
	GROUP BY branch_id, menu_id, business_date
`

func (s *Store) Drift(ctx context.Context, f analytics.Filter, offset time.Duration) ([]analytics.Drift, error) {
	args := []any{
		f.CompanyID,
		int64(offset / time.Second),
		optionalInt(f.BranchID),
		optionalDate(f.StartDate),
		optionalDate(f.EndDate),
	}

	rows := []analytics.Drift{}
	if err := s.db.SelectContext(ctx, &rows, driftQuery, args...); err != nil {
		return nil, fmt.Errorf("comparing rollup with ledger: %w", err)
	}

	return rows, nil
}

const driftQuery = completedSales + `,
	ledger AS (
		SELECT branch_id, business_date,
			SUM(line_total) AS total_sales,
			COUNT(DISTINCT transaction_id) AS transaction_count,
			SUM(quantity) AS items_sold
		FROM sales
		GROUP BY branch_id, business_date
	),
	rolled AS (
		SELECT branch_id, business_date, total_sales, transaction_count, items_sold
		FROM daily_sales
		WHERE company_id = $1
	),
	compared AS (
		SELECT
			COALESCE(l.branch_id, r.branch_id)            AS branch_id,
			COALESCE(l.business_date, r.business_date)    AS business_date,
			COALESCE(r.total_sales, 0)::bigint            AS rollup_sales,
			COALESCE(l.total_sales, 0)::bigint            AS ledger_sales,
			COALESCE(r.transaction_count, 0)::bigint      AS rollup_count,
			COALESCE(l.transaction_count, 0)::bigint      AS ledger_count,
			COALESCE(r.items_sold, 0)::bigint             AS rollup_items_sold,
			COALESCE(l.items_sold, 0)::bigint             AS ledger_items_sold
		FROM ledger l
		FULL OUTER JOIN rolled r ON r.branch_id = l.branch_id AND r.business_date = l.business_date
	)
	SELECT * FROM compared
	WHERE (rollup_sales <> ledger_sales OR rollup_count <> ledger_count OR rollup_items_sold <> ledger_items_sold)
	  AND ($3::bigint IS NULL OR branch_id = $3)
	  AND ($4::date IS NULL OR business_date >= $4)
	  AND ($5::date IS NULL OR business_date <= $5)
	ORDER BY business_date ASC, branch_id ASC
`

func optionalInt(v *int64) any {
	if v == nil {
		return nil
	}

	return *v
}

func optionalDate(t *time.Time) any {
	if t == nil {
		return nil
	}

	return t.Format(time.DateOnly)
}
