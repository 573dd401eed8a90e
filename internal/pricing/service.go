package pricing

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=pricing
type Repository interface {
	Upsert(ctx context.Context, companyID int64, p UpsertParams) (*Price, error)
	Get(ctx context.Context, companyID, branchID, menuID int64) (*Price, error)
	List(ctx context.Context, companyID int64, branchID *int64) ([]*Price, error)
	// UpsertMany writes every row or none.
	UpsertMany(ctx context.Context, companyID int64, ps []UpsertParams) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Upsert(ctx context.Context, companyID int64, p UpsertParams) (*Price, error) {
	if err := validate(companyID, p); err != nil {
		return nil, err
	}

	return s.repo.Upsert(ctx, companyID, p)
}

func (s *Service) Get(ctx context.Context, companyID, branchID, menuID int64) (*Price, error) {
	return s.repo.Get(ctx, companyID, branchID, menuID)
}

func (s *Service) List(ctx context.Context, companyID int64, branchID *int64) ([]*Price, error) {
	if companyID <= 0 {
		return nil, fmt.Errorf("%w: company is required", ErrValidation)
	}

	return s.repo.List(ctx, companyID, branchID)
}

// Import applies a whole price list atomically. A (menu, branch) pair may
// appear only once per list.
func (s *Service) Import(ctx context.Context, companyID int64, ps []UpsertParams) (int, error) {
	if len(ps) == 0 {
		return 0, fmt.Errorf("%w: empty price list", ErrValidation)
	}

	seen := make(map[key]int, len(ps))

	for i, p := range ps {
		if err := validate(companyID, p); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i+1, err)
		}

		k := key{p.MenuID, p.BranchID}
		if first, dup := seen[k]; dup {
			return 0, fmt.Errorf("%w: entry %d repeats menu %d branch %d from entry %d",
				ErrValidation, i+1, p.MenuID, p.BranchID, first)
		}

		seen[k] = i + 1
	}

	if err := s.repo.UpsertMany(ctx, companyID, ps); err != nil {
		return 0, err
	}

	return len(ps), nil
}

func validate(companyID int64, p UpsertParams) error {
	switch {
	case companyID <= 0:
		return fmt.Errorf("%w: company is required", ErrValidation)
	case p.MenuID <= 0 || p.BranchID <= 0:
		return fmt.Errorf("%w: menu and branch are required", ErrValidation)
	case p.BasePrice < 0 || p.OnlinePrice < 0:
		return fmt.Errorf("%w: prices cannot be negative", ErrValidation)
	}

	return nil
}
