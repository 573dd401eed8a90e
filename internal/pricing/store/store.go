package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MrJamesThe3rd/tillpoint/internal/pricing"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// upsertPrice only writes when both the menu and the branch belong to the
// company in $5, so a tenant cannot price another tenant's menu.
const upsertPrice = `
	INSERT INTO branch_menu_prices (menu_id, branch_id, base_price, online_price)
	SELECT m.id, b.id, $3, $4
	FROM menus m
	JOIN branches b ON b.company_id = m.company_id
	WHERE m.id = $1 AND b.id = $2 AND m.company_id = $5
	ON CONFLICT (menu_id, branch_id) DO UPDATE SET
		base_price   = EXCLUDED.base_price,
		online_price = EXCLUDED.online_price,
		updated_at   = NOW()
	RETURNING menu_id, branch_id, base_price, online_price, updated_at
`

func (s *Store) Upsert(ctx context.Context, companyID int64, p pricing.UpsertParams) (*pricing.Price, error) {
	return upsert(ctx, s.db, companyID, p)
}

func upsert(ctx context.Context, q sqlx.QueryerContext, companyID int64, p pricing.UpsertParams) (*pricing.Price, error) {
	var price pricing.Price

	err := sqlx.GetContext(ctx, q, &price, upsertPrice, p.MenuID, p.BranchID, p.BasePrice, p.OnlinePrice, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: menu %d, branch %d", pricing.ErrUnknownReference, p.MenuID, p.BranchID)
		}

		return nil, fmt.Errorf("upserting price: %w", err)
	}

	return &price, nil
}

func (s *Store) UpsertMany(ctx context.Context, companyID int64, ps []pricing.UpsertParams) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning import tx: %w", err)
	}
	defer tx.Rollback()

	for _, p := range ps {
		if _, err := upsert(ctx, tx, companyID, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, companyID, branchID, menuID int64) (*pricing.Price, error) {
	query := `
		SELECT p.menu_id, p.branch_id, p.base_price, p.online_price, p.updated_at
		FROM branch_menu_prices p
		JOIN branches b ON b.id = p.branch_id
		WHERE p.menu_id = $1 AND p.branch_id = $2 AND b.company_id = $3`

	var price pricing.Price
	if err := s.db.GetContext(ctx, &price, query, menuID, branchID, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pricing.ErrNotFound
		}

		return nil, fmt.Errorf("getting price: %w", err)
	}

	return &price, nil
}

func (s *Store) List(ctx context.Context, companyID int64, branchID *int64) ([]*pricing.Price, error) {
	query := `
		SELECT p.menu_id, p.branch_id, p.base_price, p.online_price, p.updated_at
		FROM branch_menu_prices p
		JOIN branches b ON b.id = p.branch_id
		WHERE b.company_id = $1`

	args := []any{companyID}

	if branchID != nil {
		query += " AND p.branch_id = $2"

		args = append(args, *branchID)
	}

	query += " ORDER BY p.branch_id ASC, p.menu_id ASC"

	prices := []*pricing.Price{}
	if err := s.db.SelectContext(ctx, &prices, query, args...); err != nil {
		return nil, fmt.Errorf("listing prices: %w", err)
	}

	return prices, nil
}
