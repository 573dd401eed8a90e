// Package expense records branch spending. Unlike sales, expenses are summed
// on read; there is no rollup to maintain.
package expense

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation          = errors.New("invalid expense")
	ErrConstraintViolation = errors.New("expense references an unknown branch")
)

type Expense struct {
	ID          uuid.UUID `db:"id"`
	CompanyID   int64     `db:"company_id"`
	BranchID    int64     `db:"branch_id"`
	Date        time.Time `db:"date"`
	Amount      int64     `db:"amount"`
	Category    string    `db:"category"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

type DailyTotal struct {
	Date   time.Time `db:"date"`
	Amount int64     `db:"amount"`
}
