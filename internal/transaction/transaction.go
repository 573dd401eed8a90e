package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Status is the order status shown at the till. It is independent of
// completion, which only tracks whether the sale has been counted.
type Status string

const (
	StatusOpen      Status = "open"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentQR       PaymentMethod = "qr"
)

// PricingCategory selects which branch price book prices an item.
type PricingCategory string

const (
	PricingBase   PricingCategory = "base"
	PricingOnline PricingCategory = "online"
)

func (c PricingCategory) Valid() bool {
	return c == PricingBase || c == PricingOnline
}

// Transaction is a point-of-sale ticket. Amounts are in minor currency units.
type Transaction struct {
	ID            uuid.UUID
	CompanyID     int64
	BranchID      int64
	CashierID     int64
	Date          time.Time
	Total         int64 // sum of item line totals
	Discount      int64
	PaymentMethod PaymentMethod
	Status        Status
	CustomerName  string
	TableNumber   string
	Completed     bool
	CompletedAt   *time.Time
	Items         []*Item // loaded by Get only
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Item struct {
	ID              uuid.UUID
	TransactionID   uuid.UUID
	MenuID          int64
	Quantity        int64
	PricingCategory PricingCategory
	UnitPrice       int64
	LineTotal       int64
	CreatedAt       time.Time
}
