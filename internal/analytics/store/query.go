package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/tillpoint/internal/analytics"
)

// conditions accumulates AND-ed predicates with positional arguments.
type conditions struct {
	clauses []string
	args    []any
}

// add appends pred, whose single %d verb is replaced by arg's position.
func (c *conditions) add(pred string, arg any) {
	c.args = append(c.args, arg)
	c.clauses = append(c.clauses, fmt.Sprintf(pred, len(c.args)))
}

func (c *conditions) where() string {
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// filterConditions always leads with the company predicate so no read can
// cross tenants.
func filterConditions(f analytics.Filter, withMenu bool) *conditions {
	c := &conditions{}
	c.add("company_id = $%d", f.CompanyID)

	if f.BranchID != nil {
		c.add("branch_id = $%d", *f.BranchID)
	}

	if withMenu && f.MenuID != nil {
		c.add("menu_id = $%d", *f.MenuID)
	}

	if f.StartDate != nil {
		c.add("business_date >= $%d", f.StartDate.Format(time.DateOnly))
	}

	if f.EndDate != nil {
		c.add("business_date <= $%d", f.EndDate.Format(time.DateOnly))
	}

	return c
}

// completedSales is the ledger as the rollups see it: one row per item of a
// completed transaction, bucketed in the business zone. It expects $1 to be
// the company and $2 the zone offset in seconds.
const completedSales = `
	WITH sales AS (
		SELECT
			t.id AS transaction_id,
			t.branch_id,
			i.menu_id,
			i.quantity,
			i.line_total,
			((t.date AT TIME ZONE 'UTC') + $2::bigint * INTERVAL '1 second')::date AS business_date,
			(date_trunc('hour', (t.date AT TIME ZONE 'UTC') + $2::bigint * INTERVAL '1 second')
				- $2::bigint * INTERVAL '1 second') AT TIME ZONE 'UTC' AS hour_bucket
		FROM transactions t
		JOIN transaction_completions c ON c.transaction_id = t.id
		JOIN transaction_items i ON i.transaction_id = t.id
		WHERE t.company_id = $1
	)
`
