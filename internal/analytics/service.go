package analytics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTopItems = 10
	MaxTopItems     = 100
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=analytics
type Repository interface {
	Daily(ctx context.Context, f Filter) ([]DailyRow, error)
	Hourly(ctx context.Context, f Filter) ([]HourlyRow, error)
	ItemDaily(ctx context.Context, f Filter) ([]ItemDailyRow, error)

	DailySummary(ctx context.Context, f Filter) (Summary, error)
	HourlySummary(ctx context.Context, f Filter) (Summary, error)
	ItemDailySummary(ctx context.Context, f Filter) (ItemSummary, error)
	TopItems(ctx context.Context, f Filter, limit int) ([]TopItem, error)

	// Rebuild replaces the rollup rows of one company between from and to
	// (business dates, inclusive) with sums recomputed from completed
	// transactions. offset is the business zone's offset from UTC.
	Rebuild(ctx context.Context, companyID int64, from, to time.Time, offset time.Duration) (RebuildResult, error)
	Drift(ctx context.Context, f Filter, offset time.Duration) ([]Drift, error)
}

type Service struct {
	repo   Repository
	offset time.Duration
	logger *zap.Logger
}

// NewService expects loc to be a fixed zone; its offset is what Rebuild and
// Verify bucket the ledger by.
func NewService(repo Repository, loc *time.Location, logger *zap.Logger) *Service {
	_, secs := time.Date(2000, 1, 1, 0, 0, 0, 0, loc).Zone()

	return &Service{
		repo:   repo,
		offset: time.Duration(secs) * time.Second,
		logger: logger,
	}
}

func (s *Service) Daily(ctx context.Context, f Filter) ([]DailyRow, error) {
	if err := rollupFilter(f); err != nil {
		return nil, err
	}

	return s.repo.Daily(ctx, f)
}

func (s *Service) Hourly(ctx context.Context, f Filter) ([]HourlyRow, error) {
	if err := rollupFilter(f); err != nil {
		return nil, err
	}

	return s.repo.Hourly(ctx, f)
}

func (s *Service) ItemDaily(ctx context.Context, f Filter) ([]ItemDailyRow, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	return s.repo.ItemDaily(ctx, f)
}

func (s *Service) DailySummary(ctx context.Context, f Filter) (Summary, error) {
	if err := rollupFilter(f); err != nil {
		return Summary{}, err
	}

	return s.repo.DailySummary(ctx, f)
}

func (s *Service) HourlySummary(ctx context.Context, f Filter) (Summary, error) {
	if err := rollupFilter(f); err != nil {
		return Summary{}, err
	}

	return s.repo.HourlySummary(ctx, f)
}

func (s *Service) ItemDailySummary(ctx context.Context, f Filter) (ItemSummary, error) {
	if err := f.Validate(); err != nil {
		return ItemSummary{}, err
	}

	return s.repo.ItemDailySummary(ctx, f)
}

// TopItems ranks menu items by sales over the filtered range. A limit of
// zero means DefaultTopItems.
func (s *Service) TopItems(ctx context.Context, f Filter, limit int) ([]TopItem, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	switch {
	case limit == 0:
		limit = DefaultTopItems
	case limit < 0 || limit > MaxTopItems:
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, MaxTopItems)
	}

	return s.repo.TopItems(ctx, f, limit)
}

func (s *Service) Rebuild(ctx context.Context, companyID int64, from, to time.Time) (RebuildResult, error) {
	f := Filter{CompanyID: companyID, StartDate: &from, EndDate: &to}
	if err := f.Validate(); err != nil {
		return RebuildResult{}, err
	}

	start := time.Now()

	res, err := s.repo.Rebuild(ctx, companyID, from, to, s.offset)
	if err != nil {
		return RebuildResult{}, fmt.Errorf("rebuilding rollups: %w", err)
	}

	s.logger.Info("rebuilt rollups",
		zap.Int64("company_id", companyID),
		zap.String("from", from.Format(time.DateOnly)),
		zap.String("to", to.Format(time.DateOnly)),
		zap.Int64("daily_rows", res.DailyRows),
		zap.Int64("hourly_rows", res.HourlyRows),
		zap.Int64("item_rows", res.ItemRows),
		zap.Duration("took", time.Since(start)),
	)

	return res, nil
}

// Verify returns every (branch, day) where the daily rollup differs from the
// completed ledger. An empty result means the rollup is exact.
func (s *Service) Verify(ctx context.Context, f Filter) ([]Drift, error) {
	if err := rollupFilter(f); err != nil {
		return nil, err
	}

	drift, err := s.repo.Drift(ctx, f, s.offset)
	if err != nil {
		return nil, fmt.Errorf("verifying rollups: %w", err)
	}

	for _, d := range drift {
		s.logger.Warn("rollup drift",
			zap.Int64("company_id", f.CompanyID),
			zap.Int64("branch_id", d.BranchID),
			zap.String("business_date", d.BusinessDate.Format(time.DateOnly)),
			zap.Int64("rollup_sales", d.RollupSales),
			zap.Int64("ledger_sales", d.LedgerSales),
		)
	}

	return drift, nil
}

// rollupFilter validates f for the daily and hourly rollups, which carry no
// menu dimension.
func rollupFilter(f Filter) error {
	if err := f.Validate(); err != nil {
		return err
	}

	if f.MenuID != nil {
		return fmt.Errorf("%w: menu filter applies to item rollups only", ErrValidation)
	}

	return nil
}
