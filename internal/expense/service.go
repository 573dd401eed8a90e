package expense

import (
	"context"
	"fmt"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	Create(ctx context.Context, e *Expense) error
	Sum(ctx context.Context, f Filter) (int64, error)
	Daily(ctx context.Context, f Filter) ([]DailyTotal, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	CompanyID   int64
	BranchID    int64
	Date        time.Time
	Amount      int64
	Category    string
	Description string
}

// Filter selects one branch's expenses. Dates are inclusive.
type Filter struct {
	CompanyID int64
	BranchID  int64
	StartDate *time.Time
	EndDate   *time.Time
}

func (f Filter) validate() error {
	switch {
	case f.CompanyID <= 0:
		return fmt.Errorf("%w: company is required", ErrValidation)
	case f.BranchID <= 0:
		return fmt.Errorf("%w: branch is required", ErrValidation)
	case f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate):
		return fmt.Errorf("%w: start date is after end date", ErrValidation)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	switch {
	case params.CompanyID <= 0 || params.BranchID <= 0:
		return nil, fmt.Errorf("%w: company and branch are required", ErrValidation)
	case params.Amount < 0:
		return nil, fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	case params.Date.IsZero():
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}

	y, m, d := params.Date.Date()

	e := &Expense{
		CompanyID:   params.CompanyID,
		BranchID:    params.BranchID,
		Date:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Amount:      params.Amount,
		Category:    params.Category,
		Description: params.Description,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("creating expense: %w", err)
	}

	return e, nil
}

// Sum totals a branch's expenses over the range; an empty range sums to zero.
func (s *Service) Sum(ctx context.Context, f Filter) (int64, error) {
	if err := f.validate(); err != nil {
		return 0, err
	}

	return s.repo.Sum(ctx, f)
}

func (s *Service) Daily(ctx context.Context, f Filter) ([]DailyTotal, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	return s.repo.Daily(ctx, f)
}
