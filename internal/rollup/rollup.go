// Package rollup computes the contribution a completed sale makes to the
// daily, hourly and item-daily sales rollups. It does no I/O; stores apply
// the resulting Delta with insert-or-accumulate statements.
package rollup

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoLines     = errors.New("transaction has no items")
	ErrInvalidLine = errors.New("invalid item line")
	ErrArithmetic  = errors.New("rollup measure overflow")
)

// Subject identifies the transaction a delta is computed for.
type Subject struct {
	TransactionID uuid.UUID
	CompanyID     int64
	BranchID      int64
	Date          time.Time
}

// Line is the part of an item the rollups care about.
type Line struct {
	MenuID    int64
	Quantity  int64
	LineTotal int64
}

type ItemDelta struct {
	MenuID     int64
	ItemsSold  int64
	TotalSales int64
}

type Delta struct {
	TransactionID uuid.UUID
	CompanyID     int64
	BranchID      int64
	BusinessDate  time.Time
	HourBucket    time.Time

	Transactions int64
	ItemsSold    int64
	TotalSales   int64

	// Items is ordered by MenuID so concurrent merges touch item rows in
	// the same order.
	Items []ItemDelta
}

// BusinessDate returns midnight, in loc, of the day t falls on in loc.
func BusinessDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// HourBucket returns the start of the hour t falls in, measured in loc.
// The bucket always belongs to BusinessDate(t, loc).
func HourBucket(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	y, m, d := lt.Date()

	return time.Date(y, m, d, lt.Hour(), 0, 0, 0, loc)
}

func Compute(s Subject, lines []Line, loc *time.Location) (Delta, error) {
	if len(lines) == 0 {
		return Delta{}, ErrNoLines
	}

	if loc == nil {
		loc = time.UTC
	}

	d := Delta{
		TransactionID: s.TransactionID,
		CompanyID:     s.CompanyID,
		BranchID:      s.BranchID,
		BusinessDate:  BusinessDate(s.Date, loc),
		HourBucket:    HourBucket(s.Date, loc),
		Transactions:  1,
	}

	perMenu := make(map[int64]*ItemDelta)

	var ok bool

	for i, l := range lines {
		if l.Quantity <= 0 || l.LineTotal < 0 {
			return Delta{}, fmt.Errorf("line %d (menu %d): %w", i, l.MenuID, ErrInvalidLine)
		}

		if d.ItemsSold, ok = add(d.ItemsSold, l.Quantity); !ok {
			return Delta{}, fmt.Errorf("items sold: %w", ErrArithmetic)
		}

		if d.TotalSales, ok = add(d.TotalSales, l.LineTotal); !ok {
			return Delta{}, fmt.Errorf("total sales: %w", ErrArithmetic)
		}

		item, found := perMenu[l.MenuID]
		if !found {
			item = &ItemDelta{MenuID: l.MenuID}
			perMenu[l.MenuID] = item
		}

		// Per-menu sums are bounded by the transaction sums checked above.
		item.ItemsSold += l.Quantity
		item.TotalSales += l.LineTotal
	}

	d.Items = make([]ItemDelta, 0, len(perMenu))
	for _, item := range perMenu {
		d.Items = append(d.Items, *item)
	}

	slices.SortFunc(d.Items, func(a, b ItemDelta) int {
		return cmp.Compare(a.MenuID, b.MenuID)
	})

	return d, nil
}

// Negate returns the delta that cancels d when merged.
func (d Delta) Negate() Delta {
	n := d
	n.Transactions = -d.Transactions
	n.ItemsSold = -d.ItemsSold
	n.TotalSales = -d.TotalSales

	n.Items = make([]ItemDelta, len(d.Items))
	for i, item := range d.Items {
		n.Items[i] = ItemDelta{
			MenuID:     item.MenuID,
			ItemsSold:  -item.ItemsSold,
			TotalSales: -item.TotalSales,
		}
	}

	return n
}

func add(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}

	return a + b, true
}
