package completion_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tillpoint/internal/completion"
	"github.com/MrJamesThe3rd/tillpoint/internal/events"
	"github.com/MrJamesThe3rd/tillpoint/internal/rollup"
	"github.com/MrJamesThe3rd/tillpoint/internal/transaction"
)

type measures struct {
	Transactions int64
	ItemsSold    int64
	TotalSales   int64
}

type dayKey struct {
	company, branch int64
	date            string
}

type hourKey struct {
	company, branch int64
	hour            time.Time
}

type itemKey struct {
	company, branch, menu int64
	date                  string
}

type memState struct {
	txs     map[uuid.UUID]transaction.Transaction
	lines   map[uuid.UUID][]rollup.Line
	markers map[uuid.UUID]time.Time
	daily   map[dayKey]measures
	hourly  map[hourKey]measures
	items   map[itemKey]measures
}

func (s *memState) clone() *memState {
	return &memState{
		txs:     maps.Clone(s.txs),
		lines:   maps.Clone(s.lines),
		markers: maps.Clone(s.markers),
		daily:   maps.Clone(s.daily),
		hourly:  maps.Clone(s.hourly),
		items:   maps.Clone(s.items),
	}
}

// memStore keeps committed state and hands each transaction a private copy,
// so a rolled back attempt leaves nothing behind.
type memStore struct {
	state  *memState
	failOn string
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		txs:     map[uuid.UUID]transaction.Transaction{},
		lines:   map[uuid.UUID][]rollup.Line{},
		markers: map[uuid.UUID]time.Time{},
		daily:   map[dayKey]measures{},
		hourly:  map[hourKey]measures{},
		items:   map[itemKey]measures{},
	}}
}

func (m *memStore) add(tx transaction.Transaction, lines ...rollup.Line) uuid.UUID {
	tx.ID = uuid.New()
	m.state.txs[tx.ID] = tx
	m.state.lines[tx.ID] = lines

	return tx.ID
}

func (m *memStore) BeginCompletion(_ context.Context, _ int64) (completion.Tx, error) {
	return &memTx{store: m, work: m.state.clone()}, nil
}

type memTx struct {
	store *memStore
	work  *memState
}

var errInjected = errors.New("injected failure")

func (t *memTx) fail(step string) error {
	if t.store.failOn == step {
		return errInjected
	}

	return nil
}

func (t *memTx) LockTransaction(_ context.Context, companyID int64, id uuid.UUID) (*transaction.Transaction, error) {
	tx, ok := t.work.txs[id]
	if !ok || tx.CompanyID != companyID {
		return nil, transaction.ErrNotFound
	}

	return &tx, nil
}

func (t *memTx) CompletedAt(_ context.Context, id uuid.UUID) (*time.Time, error) {
	if at, done := t.work.markers[id]; done {
		return &at, nil
	}

	return nil, nil
}

func (t *memTx) Lines(_ context.Context, id uuid.UUID) ([]rollup.Line, error) {
	return t.work.lines[id], nil
}

func (t *memTx) InsertMarker(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	if _, ok := t.work.markers[id]; ok {
		return false, nil
	}

	t.work.markers[id] = at

	return true, nil
}

func (t *memTx) DeleteMarker(_ context.Context, id uuid.UUID) error {
	delete(t.work.markers, id)
	return nil
}

func (t *memTx) MergeDaily(_ context.Context, d rollup.Delta) error {
	if err := t.fail("daily"); err != nil {
		return err
	}

	k := dayKey{d.CompanyID, d.BranchID, d.BusinessDate.Format(time.DateOnly)}
	m := t.work.daily[k]
	m.Transactions += d.Transactions
	m.ItemsSold += d.ItemsSold
	m.TotalSales += d.TotalSales
	t.work.daily[k] = m

	return nil
}

func (t *memTx) MergeHourly(_ context.Context, d rollup.Delta) error {
	if err := t.fail("hourly"); err != nil {
		return err
	}

	k := hourKey{d.CompanyID, d.BranchID, d.HourBucket.UTC()}
	m := t.work.hourly[k]
	m.Transactions += d.Transactions
	m.ItemsSold += d.ItemsSold
	m.TotalSales += d.TotalSales
	t.work.hourly[k] = m

	return nil
}

func (t *memTx) MergeItemDaily(_ context.Context, d rollup.Delta) error {
	if err := t.fail("item"); err != nil {
		return err
	}

	for _, it := range d.Items {
		k := itemKey{d.CompanyID, d.BranchID, it.MenuID, d.BusinessDate.Format(time.DateOnly)}
		m := t.work.items[k]
		m.ItemsSold += it.ItemsSold
		m.TotalSales += it.TotalSales
		t.work.items[k] = m
	}

	return nil
}

func (t *memTx) PruneEmpty(_ context.Context, _ rollup.Delta) error {
	maps.DeleteFunc(t.work.daily, func(_ dayKey, m measures) bool { return m == measures{} })
	maps.DeleteFunc(t.work.hourly, func(_ hourKey, m measures) bool { return m == measures{} })
	maps.DeleteFunc(t.work.items, func(_ itemKey, m measures) bool { return m == measures{} })

	return nil
}

func (t *memTx) DeleteTransaction(_ context.Context, id uuid.UUID) error {
	delete(t.work.txs, id)
	delete(t.work.lines, id)

	return nil
}

func (t *memTx) Commit() error {
	if err := t.fail("commit"); err != nil {
		return err
	}

	t.store.state = t.work

	return nil
}

func (t *memTx) Rollback() error { return nil }

func memService(store *memStore) *completion.Service {
	return newService(store, events.Nop{})
}

func TestComplete_ConcreteScenario(t *testing.T) {
	store := newMemStore()
	id := store.add(transaction.Transaction{CompanyID: 1, BranchID: 1, Date: saleAt},
		rollup.Line{MenuID: 1, Quantity: 2, LineTotal: 40000},
		rollup.Line{MenuID: 2, Quantity: 1, LineTotal: 30000},
	)

	svc := memService(store)

	first, err := svc.Complete(context.Background(), 1, id)
	require.NoError(t, err)
	assert.False(t, first.AlreadyCompleted)

	want := func() {
		assert.Equal(t, measures{Transactions: 1, ItemsSold: 3, TotalSales: 70000}, store.state.daily[dayKey{1, 1, "2024-01-01"}])
		assert.Equal(t, measures{ItemsSold: 2, TotalSales: 40000}, store.state.items[itemKey{1, 1, 1, "2024-01-01"}])
		assert.Equal(t, measures{ItemsSold: 1, TotalSales: 30000}, store.state.items[itemKey{1, 1, 2, "2024-01-01"}])
		assert.Len(t, store.state.daily, 1)
		assert.Len(t, store.state.hourly, 1)
		assert.Len(t, store.state.items, 2)
	}
	want()

	second, err := svc.Complete(context.Background(), 1, id)
	require.NoError(t, err)
	assert.True(t, second.AlreadyCompleted)
	assert.Equal(t, fixedNow, second.CompletedAt)
	want()
}

func TestComplete_FaultInjectionLeavesNothing(t *testing.T) {
	for _, step := range []string{"daily", "hourly", "item", "commit"} {
		t.Run(step, func(t *testing.T) {
			store := newMemStore()
			id := store.add(transaction.Transaction{CompanyID: 1, BranchID: 1, Date: saleAt}, scenarioLines()...)
			store.failOn = step

			_, err := memService(store).Complete(context.Background(), 1, id)
			require.ErrorIs(t, err, completion.ErrAggregation)

			assert.Empty(t, store.state.markers)
			assert.Empty(t, store.state.daily)
			assert.Empty(t, store.state.hourly)
			assert.Empty(t, store.state.items)

			// The failed attempt is safe to retry.
			store.failOn = ""

			res, err := memService(store).Complete(context.Background(), 1, id)
			require.NoError(t, err)
			assert.False(t, res.AlreadyCompleted)
			assert.Equal(t, int64(70000), store.state.daily[dayKey{1, 1, "2024-01-01"}].TotalSales)
		})
	}
}

func TestComplete_Conservation(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	store := newMemStore()
	svc := memService(store)

	type rawKey struct {
		company, branch int64
		date            string
	}

	raw := map[rawKey]int64{}
	rawItems := map[int64]int64{}

	var completedSales int64

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for range 200 {
		company := int64(rng.IntN(2) + 1)
		branch := int64(rng.IntN(3) + 1)
		at := start.Add(time.Duration(rng.IntN(7*24*60)) * time.Minute)

		var lines []rollup.Line
		for range rng.IntN(4) + 1 {
			qty := int64(rng.IntN(5) + 1)
			lines = append(lines, rollup.Line{MenuID: int64(rng.IntN(6) + 1), Quantity: qty, LineTotal: qty * int64(rng.IntN(50)+1) * 1000})
		}

		id := store.add(transaction.Transaction{CompanyID: company, BranchID: branch, Date: at}, lines...)

		// Some tickets stay open and must not be counted.
		if rng.IntN(4) == 0 {
			continue
		}

		_, err := svc.Complete(context.Background(), company, id)
		require.NoError(t, err)

		// Retried completions must not double count.
		if rng.IntN(3) == 0 {
			res, err := svc.Complete(context.Background(), company, id)
			require.NoError(t, err)
			require.True(t, res.AlreadyCompleted)
		}

		k := rawKey{company, branch, rollup.BusinessDate(at, plus6).Format(time.DateOnly)}
		for _, l := range lines {
			raw[k] += l.LineTotal
			completedSales += l.LineTotal

			if company == 1 {
				rawItems[l.MenuID] += l.LineTotal
			}
		}
	}

	for k, want := range raw {
		assert.Equal(t, want, store.state.daily[dayKey(k)].TotalSales, fmt.Sprintf("daily %+v", k))
	}

	var dailyTotal, hourlyTotal, itemTotal int64
	for _, m := range store.state.daily {
		dailyTotal += m.TotalSales
	}

	for _, m := range store.state.hourly {
		hourlyTotal += m.TotalSales
	}

	company1Items := map[int64]int64{}

	for k, m := range store.state.items {
		itemTotal += m.TotalSales

		if k.company == 1 {
			company1Items[k.menu] += m.TotalSales
		}
	}

	assert.Equal(t, completedSales, dailyTotal)
	assert.Equal(t, completedSales, hourlyTotal)
	assert.Equal(t, completedSales, itemTotal)
	assert.Equal(t, rawItems, company1Items)
}

func TestComplete_OtherTenantCannotComplete(t *testing.T) {
	store := newMemStore()
	id := store.add(transaction.Transaction{CompanyID: 2, BranchID: 1, Date: saleAt}, scenarioLines()...)

	_, err := memService(store).Complete(context.Background(), 1, id)
	require.ErrorIs(t, err, transaction.ErrNotFound)
	assert.Empty(t, store.state.daily)
}

func TestVoid_RestoresRollups(t *testing.T) {
	store := newMemStore()
	svc := memService(store)

	keep := store.add(transaction.Transaction{CompanyID: 1, BranchID: 1, Date: saleAt},
		rollup.Line{MenuID: 1, Quantity: 1, LineTotal: 20000})
	drop := store.add(transaction.Transaction{CompanyID: 1, BranchID: 1, Date: saleAt}, scenarioLines()...)

	for _, id := range []uuid.UUID{keep, drop} {
		_, err := svc.Complete(context.Background(), 1, id)
		require.NoError(t, err)
	}

	_, err := svc.Void(context.Background(), 1, drop)
	require.NoError(t, err)

	assert.Equal(t, measures{Transactions: 1, ItemsSold: 1, TotalSales: 20000}, store.state.daily[dayKey{1, 1, "2024-01-01"}])
	assert.Equal(t, measures{ItemsSold: 1, TotalSales: 20000}, store.state.items[itemKey{1, 1, 1, "2024-01-01"}])
	assert.NotContains(t, store.state.items, itemKey{1, 1, 2, "2024-01-01"})
	assert.NotContains(t, store.state.txs, drop)
	assert.NotContains(t, store.state.markers, drop)
}
