// Package completion turns a ticket into a counted sale. Completing writes the
// completion marker and merges the sale into the daily, hourly and item-daily
// rollups inside one database transaction; voiding reverses both.
package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/events"
	"github.com/MrJamesThe3rd/tillpoint/internal/rollup"
	"github.com/MrJamesThe3rd/tillpoint/internal/transaction"
)

var (
	ErrNoItems      = errors.New("transaction has no items")
	ErrNotCompleted = errors.New("transaction is not completed")
	// ErrAggregation marks a failed rollup merge. Nothing was written and
	// the call can be retried.
	ErrAggregation = errors.New("rollup aggregation failed")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=completion
type Repository interface {
	// BeginCompletion opens a transaction holding the company's rollup
	// lock in shared mode.
	BeginCompletion(ctx context.Context, companyID int64) (Tx, error)
}

// Tx holds one ticket's row lock for the length of a completion or void.
// CompletedAt must run after LockTransaction, as its own statement, so it
// sees a marker committed while the lock was awaited.
type Tx interface {
	LockTransaction(ctx context.Context, companyID int64, id uuid.UUID) (*transaction.Transaction, error)
	CompletedAt(ctx context.Context, id uuid.UUID) (*time.Time, error)
	Lines(ctx context.Context, id uuid.UUID) ([]rollup.Line, error)

	// InsertMarker reports false when the marker already exists.
	InsertMarker(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	DeleteMarker(ctx context.Context, id uuid.UUID) error

	MergeDaily(ctx context.Context, d rollup.Delta) error
	MergeHourly(ctx context.Context, d rollup.Delta) error
	MergeItemDaily(ctx context.Context, d rollup.Delta) error
	PruneEmpty(ctx context.Context, d rollup.Delta) error

	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	Commit() error
	Rollback() error
}

type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

type Service struct {
	repo      Repository
	publisher Publisher
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithClock overrides the completion timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, publisher Publisher, loc *time.Location, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: publisher,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type Result struct {
	TransactionID    uuid.UUID
	AlreadyCompleted bool
	CompletedAt      time.Time
	Delta            *rollup.Delta // nil when AlreadyCompleted
}

func (s *Service) Complete(ctx context.Context, companyID int64, id uuid.UUID) (*Result, error) {
	dtx, err := s.repo.BeginCompletion(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("begin completion: %w", err)
	}
	defer dtx.Rollback()

	tx, err := lockTicket(ctx, dtx, companyID, id)
	if err != nil {
		return nil, err
	}

	if tx.Completed {
		return alreadyCompleted(tx), nil
	}

	lines, err := dtx.Lines(ctx, tx.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading items: %w", ErrAggregation, err)
	}

	if len(lines) == 0 {
		return nil, ErrNoItems
	}

	delta, err := rollup.Compute(subject(tx), lines, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAggregation, err)
	}

	at := s.now()

	inserted, err := dtx.InsertMarker(ctx, tx.ID, at)
	if err != nil {
		return nil, fmt.Errorf("%w: writing marker: %w", ErrAggregation, err)
	}

	if !inserted {
		// The marker's ON CONFLICT is the guard against counting twice;
		// whoever inserted it did the counting.
		return &Result{TransactionID: tx.ID, AlreadyCompleted: true}, nil
	}

	if err := merge(ctx, dtx, delta); err != nil {
		return nil, err
	}

	if err := dtx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %w", ErrAggregation, err)
	}

	s.publish(ctx, events.TypeTransactionCompleted, delta, at)

	return &Result{TransactionID: tx.ID, CompletedAt: at, Delta: &delta}, nil
}

// lockTicket takes the row lock, then reads the completion marker.
func lockTicket(ctx context.Context, dtx Tx, companyID int64, id uuid.UUID) (*transaction.Transaction, error) {
	tx, err := dtx.LockTransaction(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if tx.CompletedAt, err = dtx.CompletedAt(ctx, tx.ID); err != nil {
		return nil, fmt.Errorf("reading completion marker: %w", err)
	}

	tx.Completed = tx.CompletedAt != nil

	return tx, nil
}

// Void deletes a completed ticket and takes its contribution back out of the
// rollups, so rollups keep matching the ledger.
func (s *Service) Void(ctx context.Context, companyID int64, id uuid.UUID) (*rollup.Delta, error) {
	dtx, err := s.repo.BeginCompletion(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("begin void: %w", err)
	}
	defer dtx.Rollback()

	tx, err := lockTicket(ctx, dtx, companyID, id)
	if err != nil {
		return nil, err
	}

	if !tx.Completed {
		return nil, ErrNotCompleted
	}

	lines, err := dtx.Lines(ctx, tx.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading items: %w", ErrAggregation, err)
	}

	delta, err := rollup.Compute(subject(tx), lines, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAggregation, err)
	}

	reversal := delta.Negate()

	if err := dtx.DeleteMarker(ctx, tx.ID); err != nil {
		return nil, fmt.Errorf("%w: deleting marker: %w", ErrAggregation, err)
	}

	if err := merge(ctx, dtx, reversal); err != nil {
		return nil, err
	}

	if err := dtx.PruneEmpty(ctx, reversal); err != nil {
		return nil, fmt.Errorf("%w: pruning: %w", ErrAggregation, err)
	}

	if err := dtx.DeleteTransaction(ctx, tx.ID); err != nil {
		return nil, fmt.Errorf("deleting transaction: %w", err)
	}

	if err := dtx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %w", ErrAggregation, err)
	}

	s.publish(ctx, events.TypeTransactionVoided, reversal, s.now())

	return &reversal, nil
}

func merge(ctx context.Context, tx Tx, d rollup.Delta) error {
	if err := tx.MergeDaily(ctx, d); err != nil {
		return fmt.Errorf("%w: daily: %w", ErrAggregation, err)
	}

	if err := tx.MergeHourly(ctx, d); err != nil {
		return fmt.Errorf("%w: hourly: %w", ErrAggregation, err)
	}

	if err := tx.MergeItemDaily(ctx, d); err != nil {
		return fmt.Errorf("%w: item daily: %w", ErrAggregation, err)
	}

	return nil
}

func (s *Service) publish(ctx context.Context, typ string, d rollup.Delta, at time.Time) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, events.Event{
		Type:          typ,
		TransactionID: d.TransactionID,
		CompanyID:     d.CompanyID,
		BranchID:      d.BranchID,
		BusinessDate:  d.BusinessDate.Format(time.DateOnly),
		TotalSales:    d.TotalSales,
		ItemsSold:     d.ItemsSold,
		OccurredAt:    at,
	})
	if err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("type", typ),
			zap.Stringer("transaction_id", d.TransactionID),
			zap.Error(err),
		)
	}
}

func subject(tx *transaction.Transaction) rollup.Subject {
	return rollup.Subject{
		TransactionID: tx.ID,
		CompanyID:     tx.CompanyID,
		BranchID:      tx.BranchID,
		Date:          tx.Date,
	}
}

func alreadyCompleted(tx *transaction.Transaction) *Result {
	r := &Result{TransactionID: tx.ID, AlreadyCompleted: true}
	if tx.CompletedAt != nil {
		r.CompletedAt = *tx.CompletedAt
	}

	return r
}
