package transaction

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetTransaction(ctx context.Context, companyID int64, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)

	BeginWrite(ctx context.Context) (WriteTx, error)
}

// WriteTx is a database transaction for ledger mutations. Mutations of an
// existing ticket take its row lock first with LockTransaction, which
// serializes them against completion, and only then read the completion
// marker with CompletedAt. The two must be separate statements: under READ
// COMMITTED a single statement reads the marker from the snapshot taken
// before it blocked on the lock.
type WriteTx interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	LockTransaction(ctx context.Context, companyID int64, id uuid.UUID) (*Transaction, error)
	CompletedAt(ctx context.Context, id uuid.UUID) (*time.Time, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	ResolvePrice(ctx context.Context, companyID, branchID, menuID int64, category PricingCategory) (int64, error)
	ListItems(ctx context.Context, transactionID uuid.UUID) ([]*Item, error)
	InsertItems(ctx context.Context, items []*Item) error
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItems(ctx context.Context, transactionID uuid.UUID, ids []uuid.UUID) (int64, error)
	RefreshTotal(ctx context.Context, transactionID uuid.UUID) (int64, error)

	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	loc  *time.Location
}

// NewService builds the ledger. loc is the business zone that list date
// filters are read in, the same zone rollups use.
func NewService(repo Repository, loc *time.Location) *Service {
	return &Service{repo: repo, loc: loc}
}

// ItemSpec is what a till sends for a line. Prices are never accepted from
// the client; they are resolved from the branch price book.
type ItemSpec struct {
	MenuID          int64
	Quantity        int64
	PricingCategory PricingCategory
}

type ItemUpdate struct {
	ID              uuid.UUID
	MenuID          *int64
	Quantity        *int64
	PricingCategory *PricingCategory
}

type CreateParams struct {
	CompanyID     int64
	BranchID      int64
	CashierID     int64
	Date          time.Time
	Discount      int64
	PaymentMethod PaymentMethod
	Status        Status
	CustomerName  string
	TableNumber   string
	Items         []ItemSpec
}

type UpdateParams struct {
	CashierID     *int64
	Date          *time.Time
	Discount      *int64
	PaymentMethod *PaymentMethod
	Status        *Status
	CustomerName  *string
	TableNumber   *string
}

// ListFilter selects tickets. StartDate and EndDate are inclusive business
// days; List turns them into From and Until, the instants the store compares
// ticket dates against, with Until exclusive.
type ListFilter struct {
	CompanyID int64
	BranchID  *int64
	Completed *bool
	StartDate *time.Time
	EndDate   *time.Time
	From      *time.Time
	Until     *time.Time
	Limit     int
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := validateCreate(params); err != nil {
		return nil, err
	}

	wtx, err := s.repo.BeginWrite(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin write: %w", err)
	}
	defer wtx.Rollback()

	tx := &Transaction{
		CompanyID:     params.CompanyID,
		BranchID:      params.BranchID,
		CashierID:     params.CashierID,
		Date:          params.Date,
		Discount:      params.Discount,
		PaymentMethod: params.PaymentMethod,
		Status:        params.Status,
		CustomerName:  params.CustomerName,
		TableNumber:   params.TableNumber,
	}

	if tx.PaymentMethod == "" {
		tx.PaymentMethod = PaymentCash
	}

	if tx.Status == "" {
		tx.Status = StatusOpen
	}

	if err := wtx.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if len(params.Items) > 0 {
		items, err := priceItems(ctx, wtx, tx, params.Items)
		if err != nil {
			return nil, err
		}

		if err := wtx.InsertItems(ctx, items); err != nil {
			return nil, fmt.Errorf("insert items: %w", err)
		}

		tx.Items = items

		if tx.Total, err = wtx.RefreshTotal(ctx, tx.ID); err != nil {
			return nil, fmt.Errorf("refresh total: %w", err)
		}
	}

	if err := wtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}

	return tx, nil
}

func (s *Service) AddItems(ctx context.Context, companyID int64, id uuid.UUID, specs []ItemSpec) ([]*Item, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}

	if err := validateSpecs(specs); err != nil {
		return nil, err
	}

	var items []*Item

	err := s.mutate(ctx, companyID, id, func(wtx WriteTx, tx *Transaction) error {
		var err error

		items, err = priceItems(ctx, wtx, tx, specs)
		if err != nil {
			return err
		}

		if err := wtx.InsertItems(ctx, items); err != nil {
			return fmt.Errorf("insert items: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (s *Service) UpdateItems(ctx context.Context, companyID int64, id uuid.UUID, updates []ItemUpdate) ([]*Item, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}

	var updated []*Item

	err := s.mutate(ctx, companyID, id, func(wtx WriteTx, tx *Transaction) error {
		existing, err := wtx.ListItems(ctx, tx.ID)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}

		byID := make(map[uuid.UUID]*Item, len(existing))
		for _, it := range existing {
			byID[it.ID] = it
		}

		for _, u := range updates {
			item, ok := byID[u.ID]
			if !ok {
				return fmt.Errorf("item %s: %w", u.ID, ErrItemNotFound)
			}

			if u.MenuID != nil {
				item.MenuID = *u.MenuID
			}

			if u.Quantity != nil {
				item.Quantity = *u.Quantity
			}

			if u.PricingCategory != nil {
				item.PricingCategory = *u.PricingCategory
			}

			spec := ItemSpec{MenuID: item.MenuID, Quantity: item.Quantity, PricingCategory: item.PricingCategory}
			if err := validateSpecs([]ItemSpec{spec}); err != nil {
				return err
			}

			// Any change re-prices the line against the current price book.
			if err := priceItem(ctx, wtx, tx, item); err != nil {
				return err
			}

			if err := wtx.UpdateItem(ctx, item); err != nil {
				return fmt.Errorf("update item %s: %w", item.ID, err)
			}

			updated = append(updated, item)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) DeleteItems(ctx context.Context, companyID int64, id uuid.UUID, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return fmt.Errorf("%w: at least one item id is required", ErrValidation)
	}

	ids := slices.Clone(itemIDs)
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return slices.Compare(a[:], b[:]) })
	ids = slices.Compact(ids)

	return s.mutate(ctx, companyID, id, func(wtx WriteTx, tx *Transaction) error {
		n, err := wtx.DeleteItems(ctx, tx.ID, ids)
		if err != nil {
			return fmt.Errorf("delete items: %w", err)
		}

		if n != int64(len(ids)) {
			return ErrItemNotFound
		}

		return nil
	})
}

func (s *Service) Update(ctx context.Context, companyID int64, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	if params.Discount != nil && *params.Discount < 0 {
		return nil, fmt.Errorf("%w: discount must not be negative", ErrValidation)
	}

	var result *Transaction

	err := s.mutate(ctx, companyID, id, func(wtx WriteTx, tx *Transaction) error {
		if params.CashierID != nil {
			tx.CashierID = *params.CashierID
		}

		if params.Date != nil {
			tx.Date = *params.Date
		}

		if params.Discount != nil {
			tx.Discount = *params.Discount
		}

		if params.PaymentMethod != nil {
			tx.PaymentMethod = *params.PaymentMethod
		}

		if params.Status != nil {
			tx.Status = *params.Status
		}

		if params.CustomerName != nil {
			tx.CustomerName = *params.CustomerName
		}

		if params.TableNumber != nil {
			tx.TableNumber = *params.TableNumber
		}

		if err := wtx.UpdateTransaction(ctx, tx); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}

		result = tx

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Delete removes an uncompleted ticket and its items. Completed tickets must
// be voided so their rollup contribution is reversed.
func (s *Service) Delete(ctx context.Context, companyID int64, id uuid.UUID) error {
	wtx, err := s.repo.BeginWrite(ctx)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}
	defer wtx.Rollback()

	tx, err := lockOpen(ctx, wtx, companyID, id)
	if err != nil {
		return err
	}

	if err := wtx.DeleteTransaction(ctx, tx.ID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if err := wtx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, companyID int64, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, companyID, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	if filter.CompanyID <= 0 {
		return nil, fmt.Errorf("%w: company is required", ErrValidation)
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, fmt.Errorf("%w: start_date is after end_date", ErrValidation)
	}

	filter.From, filter.Until = nil, nil

	if filter.StartDate != nil {
		filter.From = new(s.dayStart(*filter.StartDate))
	}

	if filter.EndDate != nil {
		filter.Until = new(s.dayStart(filter.EndDate.AddDate(0, 0, 1)))
	}

	return s.repo.ListTransactions(ctx, filter)
}

// dayStart is the instant business day d opens in the service zone.
func (s *Service) dayStart(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, s.loc)
}

// lockOpen locks the ticket and then reads its completion marker, so a
// completion that committed while the lock was awaited is seen.
func lockOpen(ctx context.Context, wtx WriteTx, companyID int64, id uuid.UUID) (*Transaction, error) {
	tx, err := wtx.LockTransaction(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	completedAt, err := wtx.CompletedAt(ctx, tx.ID)
	if err != nil {
		return nil, fmt.Errorf("read completion: %w", err)
	}

	if completedAt != nil {
		return nil, ErrAlreadyCompleted
	}

	return tx, nil
}

// mutate runs fn against a locked, uncompleted ticket and keeps its total in
// step with its items before committing.
func (s *Service) mutate(ctx context.Context, companyID int64, id uuid.UUID, fn func(WriteTx, *Transaction) error) error {
	wtx, err := s.repo.BeginWrite(ctx)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}
	defer wtx.Rollback()

	tx, err := lockOpen(ctx, wtx, companyID, id)
	if err != nil {
		return err
	}

	if err := fn(wtx, tx); err != nil {
		return err
	}

	if tx.Total, err = wtx.RefreshTotal(ctx, tx.ID); err != nil {
		return fmt.Errorf("refresh total: %w", err)
	}

	if err := wtx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func priceItems(ctx context.Context, wtx WriteTx, tx *Transaction, specs []ItemSpec) ([]*Item, error) {
	items := make([]*Item, len(specs))

	for i, spec := range specs {
		item := &Item{
			TransactionID:   tx.ID,
			MenuID:          spec.MenuID,
			Quantity:        spec.Quantity,
			PricingCategory: spec.PricingCategory,
		}

		if err := priceItem(ctx, wtx, tx, item); err != nil {
			return nil, err
		}

		items[i] = item
	}

	return items, nil
}

func priceItem(ctx context.Context, wtx WriteTx, tx *Transaction, item *Item) error {
	price, err := wtx.ResolvePrice(ctx, tx.CompanyID, tx.BranchID, item.MenuID, item.PricingCategory)
	if err != nil {
		return fmt.Errorf("menu %d at branch %d: %w", item.MenuID, tx.BranchID, err)
	}

	if price != 0 && item.Quantity > math.MaxInt64/price {
		return fmt.Errorf("%w: line total overflows for menu %d", ErrValidation, item.MenuID)
	}

	item.UnitPrice = price
	item.LineTotal = item.Quantity * price

	return nil
}

func validateCreate(p CreateParams) error {
	switch {
	case p.CompanyID <= 0:
		return fmt.Errorf("%w: company is required", ErrValidation)
	case p.BranchID <= 0:
		return fmt.Errorf("%w: branch_id is required", ErrValidation)
	case p.CashierID <= 0:
		return fmt.Errorf("%w: cashier_id is required", ErrValidation)
	case p.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrValidation)
	case p.Discount < 0:
		return fmt.Errorf("%w: discount must not be negative", ErrValidation)
	}

	return validateSpecs(p.Items)
}

func validateSpecs(specs []ItemSpec) error {
	for i, spec := range specs {
		switch {
		case spec.MenuID <= 0:
			return fmt.Errorf("%w: item %d: menu_id is required", ErrValidation, i)
		case spec.Quantity <= 0:
			return fmt.Errorf("%w: item %d: quantity must be positive", ErrValidation, i)
		case !spec.PricingCategory.Valid():
			return fmt.Errorf("%w: item %d: unknown pricing category %q", ErrValidation, i, spec.PricingCategory)
		}
	}

	return nil
}
