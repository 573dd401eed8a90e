package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tillpoint/internal/expense"
)

func TestWhere(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

	query, args := where(expense.Filter{CompanyID: 1, BranchID: 2})
	assert.Equal(t, " WHERE company_id = $1 AND branch_id = $2", query)
	assert.Equal(t, []any{int64(1), int64(2)}, args)

	query, args = where(expense.Filter{CompanyID: 1, BranchID: 2, StartDate: &start, EndDate: &end})
	assert.Equal(t, " WHERE company_id = $1 AND branch_id = $2 AND date >= $3 AND date <= $4", query)
	assert.Equal(t, []any{int64(1), int64(2), "2024-01-01", "2024-01-07"}, args)

	query, args = where(expense.Filter{CompanyID: 1, BranchID: 2, EndDate: &end})
	assert.Equal(t, " WHERE company_id = $1 AND branch_id = $2 AND date <= $3", query)
	assert.Len(t, args, 3)
}
