package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/MrJamesThe3rd/tillpoint/internal/transaction"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// queryer is satisfied by *sqlx.DB and *sqlx.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// scanTransaction expects the columns of selectTransactionColumns.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var method, status string

	if err := s.Scan(
		&tx.ID, &tx.CompanyID, &tx.BranchID, &tx.CashierID, &tx.Date, &tx.Total, &tx.Discount,
		&method, &status, &tx.CustomerName, &tx.TableNumber,
		&tx.CompletedAt, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.PaymentMethod = transaction.PaymentMethod(method)
	tx.Status = transaction.Status(status)
	tx.Completed = tx.CompletedAt != nil

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.company_id, t.branch_id, t.cashier_id, t.date, t.total, t.discount,
	t.payment_method, t.status, t.customer_name, t.table_number,
	c.completed_at, t.created_at, t.updated_at
`

// lockTransactionColumns is selectTransactionColumns without the completion
// join; the marker is read separately once the row lock is held.
const lockTransactionColumns = `
	t.id, t.company_id, t.branch_id, t.cashier_id, t.date, t.total, t.discount,
	t.payment_method, t.status, t.customer_name, t.table_number,
	NULL::timestamptz, t.created_at, t.updated_at
`

const fromTransactions = `
	FROM transactions t
	LEFT JOIN transaction_completions c ON c.transaction_id = t.id
`

func scanItem(s scanner) (*transaction.Item, error) {
	var it transaction.Item

	var category string

	if err := s.Scan(
		&it.ID, &it.TransactionID, &it.MenuID, &it.Quantity, &category,
		&it.UnitPrice, &it.LineTotal, &it.CreatedAt,
	); err != nil {
		return nil, err
	}

	it.PricingCategory = transaction.PricingCategory(category)

	return &it, nil
}

const selectItemColumns = `
	id, transaction_id, menu_id, quantity, pricing_category, unit_price, line_total, created_at
`

func listItems(ctx context.Context, q queryer, transactionID uuid.UUID) ([]*transaction.Item, error) {
	query := `SELECT ` + selectItemColumns + `
		FROM transaction_items
		WHERE transaction_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := q.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []*transaction.Item

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}

		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}

	return items, nil
}

// translate maps Postgres integrity errors onto ledger sentinels.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgForeignKeyViolation, pgUniqueViolation:
		return fmt.Errorf("%w: %s", transaction.ErrConstraintViolation, pgErr.ConstraintName)
	case pgCheckViolation:
		return fmt.Errorf("%w: %s", transaction.ErrValidation, pgErr.ConstraintName)
	}

	return err
}

func (s *Store) GetTransaction(ctx context.Context, companyID int64, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.id = $1 AND t.company_id = $2`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	if tx.Items, err = listItems(ctx, s.db, tx.ID); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + fromTransactions + `
		WHERE t.company_id = $1`

	args := []any{filter.CompanyID}

	argIdx := 2

	if filter.BranchID != nil {
		query += fmt.Sprintf(" AND t.branch_id = $%d", argIdx)

		args = append(args, *filter.BranchID)
		argIdx++
	}

	if filter.Completed != nil {
		if *filter.Completed {
			query += " AND c.transaction_id IS NOT NULL"
		} else {
			query += " AND c.transaction_id IS NULL"
		}
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.From)
		argIdx++
	}

	if filter.Until != nil {
		query += fmt.Sprintf(" AND t.date < $%d", argIdx)

		args = append(args, *filter.Until)
		argIdx++
	}

	query += " ORDER BY t.date ASC, t.id ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

type writeTx struct {
	tx *sqlx.Tx
}

func (s *Store) BeginWrite(ctx context.Context) (transaction.WriteTx, error) {
	dbTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning write tx: %w", err)
	}

	return &writeTx{tx: dbTx}, nil
}

func (w *writeTx) Commit() error { return w.tx.Commit() }

func (w *writeTx) Rollback() error {
	if err := w.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}

	return nil
}

func (w *writeTx) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (company_id, branch_id, cashier_id, date, discount, payment_method, status, customer_name, table_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, total, created_at, updated_at
	`

	err := w.tx.QueryRowContext(ctx, query,
		tx.CompanyID,
		tx.BranchID,
		tx.CashierID,
		tx.Date,
		tx.Discount,
		tx.PaymentMethod,
		tx.Status,
		tx.CustomerName,
		tx.TableNumber,
	).Scan(&tx.ID, &tx.Total, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", translate(err))
	}

	return nil
}

func (w *writeTx) LockTransaction(ctx context.Context, companyID int64, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + lockTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1 AND t.company_id = $2
		FOR UPDATE`

	tx, err := scanTransaction(w.tx.QueryRowContext(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("locking transaction: %w", err)
	}

	return tx, nil
}

// CompletedAt is its own statement so it takes a fresh snapshot after
// LockTransaction returns.
func (w *writeTx) CompletedAt(ctx context.Context, id uuid.UUID) (*time.Time, error) {
	var at time.Time

	err := w.tx.QueryRowContext(ctx, `SELECT completed_at FROM transaction_completions WHERE transaction_id = $1`, id).Scan(&at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading completion marker: %w", err)
	}

	return &at, nil
}

func (w *writeTx) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET cashier_id = $1, date = $2, discount = $3, payment_method = $4, status = $5,
		    customer_name = $6, table_number = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	err := w.tx.QueryRowContext(ctx, query,
		tx.CashierID,
		tx.Date,
		tx.Discount,
		tx.PaymentMethod,
		tx.Status,
		tx.CustomerName,
		tx.TableNumber,
		tx.ID,
	).Scan(&tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrNotFound
		}

		return fmt.Errorf("updating transaction: %w", translate(err))
	}

	return nil
}

func (w *writeTx) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if _, err := w.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting transaction: %w", translate(err))
	}

	return nil
}

// ResolvePrice reads the branch price for a menu. Branch and menu must both
// belong to companyID, so a foreign menu id resolves to ErrPriceNotFound.
func (w *writeTx) ResolvePrice(ctx context.Context, companyID, branchID, menuID int64, category transaction.PricingCategory) (int64, error) {
	query := `
		SELECT p.base_price, p.online_price
		FROM branch_menu_prices p
		JOIN branches b ON b.id = p.branch_id
		JOIN menus m ON m.id = p.menu_id
		WHERE p.menu_id = $1 AND p.branch_id = $2 AND b.company_id = $3 AND m.company_id = $3
		FOR SHARE OF p
	`

	var base, online int64
	if err := w.tx.QueryRowContext(ctx, query, menuID, branchID, companyID).Scan(&base, &online); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, transaction.ErrPriceNotFound
		}

		return 0, fmt.Errorf("resolving price: %w", err)
	}

	return pick(base, online, category)
}

// pick chooses the price book column for a pricing category.
func pick(base, online int64, category transaction.PricingCategory) (int64, error) {
	switch category {
	case transaction.PricingBase:
		return base, nil
	case transaction.PricingOnline:
		return online, nil
	}

	return 0, fmt.Errorf("%w: unknown pricing category %q", transaction.ErrValidation, category)
}

func (w *writeTx) ListItems(ctx context.Context, transactionID uuid.UUID) ([]*transaction.Item, error) {
	return listItems(ctx, w.tx, transactionID)
}

func (w *writeTx) InsertItems(ctx context.Context, items []*transaction.Item) error {
	query := `
		INSERT INTO transaction_items (transaction_id, menu_id, quantity, pricing_category, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	for _, it := range items {
		err := w.tx.QueryRowContext(ctx, query,
			it.TransactionID,
			it.MenuID,
			it.Quantity,
			it.PricingCategory,
			it.UnitPrice,
			it.LineTotal,
		).Scan(&it.ID, &it.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting item for menu %d: %w", it.MenuID, translate(err))
		}
	}

	return nil
}

func (w *writeTx) UpdateItem(ctx context.Context, it *transaction.Item) error {
	query := `
		UPDATE transaction_items
		SET menu_id = $1, quantity = $2, pricing_category = $3, unit_price = $4, line_total = $5
		WHERE id = $6 AND transaction_id = $7
	`

	res, err := w.tx.ExecContext(ctx, query,
		it.MenuID, it.Quantity, it.PricingCategory, it.UnitPrice, it.LineTotal, it.ID, it.TransactionID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", translate(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}

	if n == 0 {
		return transaction.ErrItemNotFound
	}

	return nil
}

func (w *writeTx) DeleteItems(ctx context.Context, transactionID uuid.UUID, ids []uuid.UUID) (int64, error) {
	query, args, err := sqlx.In(`DELETE FROM transaction_items WHERE transaction_id = ? AND id IN (?)`, transactionID, ids)
	if err != nil {
		return 0, fmt.Errorf("building delete: %w", err)
	}

	res, err := w.tx.ExecContext(ctx, w.tx.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("deleting items: %w", err)
	}

	return res.RowsAffected()
}

func (w *writeTx) RefreshTotal(ctx context.Context, transactionID uuid.UUID) (int64, error) {
	query := `
		UPDATE transactions t
		SET total = COALESCE((SELECT SUM(line_total) FROM transaction_items WHERE transaction_id = t.id), 0),
		    updated_at = $2
		WHERE t.id = $1
		RETURNING t.total
	`

	var total int64
	if err := w.tx.QueryRowContext(ctx, query, transactionID, time.Now()).Scan(&total); err != nil {
		return 0, fmt.Errorf("refreshing total: %w", err)
	}

	return total, nil
}
