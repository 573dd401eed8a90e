package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/MrJamesThe3rd/tillpoint/internal/expense"
)

const pgForeignKeyViolation = "23503"

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, e *expense.Expense) error {
	query := `
		INSERT INTO expenses (company_id, branch_id, date, amount, category, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := s.db.QueryRowxContext(ctx, query,
		e.CompanyID, e.BranchID, e.Date.Format(time.DateOnly), e.Amount, e.Category, e.Description,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("%w: branch %d", expense.ErrConstraintViolation, e.BranchID)
		}

		return fmt.Errorf("inserting expense: %w", err)
	}

	return nil
}

func where(f expense.Filter) (string, []any) {
	query := " WHERE company_id = $1 AND branch_id = $2"
	args := []any{f.CompanyID, f.BranchID}

	if f.StartDate != nil {
		args = append(args, f.StartDate.Format(time.DateOnly))
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}

	if f.EndDate != nil {
		args = append(args, f.EndDate.Format(time.DateOnly))
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	return query, args
}

func (s *Store) Sum(ctx context.Context, f expense.Filter) (int64, error) {
	cond, args := where(f)

	var total int64
	if err := s.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(amount), 0)::bigint FROM expenses`+cond, args...); err != nil {
		return 0, fmt.Errorf("summing expenses: %w", err)
	}

	return total, nil
}

func (s *Store) Daily(ctx context.Context, f expense.Filter) ([]expense.DailyTotal, error) {
	cond, args := where(f)
	query := `SELECT date, SUM(amount)::bigint AS amount FROM expenses` + cond + `
		GROUP BY date
		ORDER BY date ASC`

	rows := []expense.DailyTotal{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("summing expenses per day: %w", err)
	}

	return rows, nil
}
