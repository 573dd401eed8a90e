// Package pricing owns the branch price book: one base and one online price
// per (menu, branch). Line items are priced from it at insert time.
package pricing

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("price not found")
	ErrValidation = errors.New("invalid price")
	// ErrUnknownReference means the menu or branch does not exist in the
	// caller's company.
	ErrUnknownReference = errors.New("menu or branch not found")
)

type Price struct {
	MenuID      int64     `db:"menu_id"`
	BranchID    int64     `db:"branch_id"`
	BasePrice   int64     `db:"base_price"`
	OnlinePrice int64     `db:"online_price"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type UpsertParams struct {
	MenuID      int64
	BranchID    int64
	BasePrice   int64
	OnlinePrice int64
}

type key struct {
	menuID, branchID int64
}
