package rollup_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tillpoint/internal/rollup"
)

var plus6 = time.FixedZone("UTC+6", 6*3600)

func TestBusinessDate(t *testing.T) {
	type testCase struct {
		name string
		at   time.Time
		want string
	}

	tests := []testCase{
		{
			name: "LateEveningLocal",
			at:   time.Date(2024, 1, 1, 23, 30, 0, 0, plus6),
			want: "2024-01-01",
		},
		{
			name: "JustAfterLocalMidnight",
			at:   time.Date(2024, 1, 2, 0, 30, 0, 0, plus6),
			want: "2024-01-02",
		},
		{
			name: "UTCBeforeOffsetBoundary",
			at:   time.Date(2024, 1, 1, 17, 59, 0, 0, time.UTC),
			want: "2024-01-01",
		},
		{
			name: "UTCAfterOffsetBoundary",
			at:   time.Date(2024, 1, 1, 18, 1, 0, 0, time.UTC),
			want: "2024-01-02",
		},
		{
			name: "UTCMorningIsSameDay",
			at:   time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
			want: "2024-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rollup.BusinessDate(tt.at, plus6)
			assert.Equal(t, tt.want, got.Format(time.DateOnly))
			assert.Equal(t, 0, got.Hour())
		})
	}
}

func TestHourBucket_AgreesWithBusinessDate(t *testing.T) {
	// 18:30Z is 00:30 on the next business day; the hourly bucket must not
	// stay behind on the UTC date.
	at := time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC)

	bucket := rollup.HourBucket(at, plus6)

	assert.True(t, bucket.Equal(time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, rollup.BusinessDate(at, plus6), rollup.BusinessDate(bucket, plus6))
	assert.Equal(t, "2024-01-02", rollup.BusinessDate(bucket, plus6).Format(time.DateOnly))
}

func TestHourBucket_HalfHourOffset(t *testing.T) {
	ist := time.FixedZone("UTC+5:30", 5*3600+1800)
	at := time.Date(2024, 3, 1, 10, 10, 0, 0, time.UTC) // 15:40 local

	bucket := rollup.HourBucket(at, ist)

	assert.Equal(t, 15, bucket.Hour())
	assert.Equal(t, 0, bucket.Minute())
	assert.True(t, bucket.Equal(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)))
}

func TestCompute(t *testing.T) {
	subject := rollup.Subject{
		TransactionID: uuid.New(),
		CompanyID:     1,
		BranchID:      1,
		Date:          time.Date(2024, 1, 1, 19, 0, 0, 0, plus6),
	}

	type testCase struct {
		name    string
		lines   []rollup.Line
		want    rollup.Delta
		wantErr error
	}

	tests := []testCase{
		{
			name: "TwoMenus",
			lines: []rollup.Line{
				{MenuID: 2, Quantity: 1, LineTotal: 30000},
				{MenuID: 1, Quantity: 2, LineTotal: 40000},
			},
			want: rollup.Delta{
				Transactions: 1,
				ItemsSold:    3,
				TotalSales:   70000,
				Items: []rollup.ItemDelta{
					{MenuID: 1, ItemsSold: 2, TotalSales: 40000},
					{MenuID: 2, ItemsSold: 1, TotalSales: 30000},
				},
			},
		},
		{
			name: "SameMenuTwiceIsGrouped",
			lines: []rollup.Line{
				{MenuID: 7, Quantity: 1, LineTotal: 20000},
				{MenuID: 7, Quantity: 3, LineTotal: 66000},
			},
			want: rollup.Delta{
				Transactions: 1,
				ItemsSold:    4,
				TotalSales:   86000,
				Items:        []rollup.ItemDelta{{MenuID: 7, ItemsSold: 4, TotalSales: 86000}},
			},
		},
		{
			name:    "NoLines",
			wantErr: rollup.ErrNoLines,
		},
		{
			name:    "ZeroQuantity",
			lines:   []rollup.Line{{MenuID: 1, Quantity: 0, LineTotal: 0}},
			wantErr: rollup.ErrInvalidLine,
		},
		{
			name: "Overflow",
			lines: []rollup.Line{
				{MenuID: 1, Quantity: 1, LineTotal: math.MaxInt64},
				{MenuID: 2, Quantity: 1, LineTotal: 1},
			},
			wantErr: rollup.ErrArithmetic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rollup.Compute(subject, tt.lines, plus6)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, subject.TransactionID, got.TransactionID)
			assert.Equal(t, "2024-01-01", got.BusinessDate.Format(time.DateOnly))
			assert.Equal(t, 19, got.HourBucket.Hour())
			assert.Equal(t, tt.want.Transactions, got.Transactions)
			assert.Equal(t, tt.want.ItemsSold, got.ItemsSold)
			assert.Equal(t, tt.want.TotalSales, got.TotalSales)
			assert.Equal(t, tt.want.Items, got.Items)
		})
	}
}

func TestCompute_ConservesTotals(t *testing.T) {
	lines := make([]rollup.Line, 0, 50)

	var wantQty, wantSales int64

	for i := range 50 {
		l := rollup.Line{MenuID: int64(i%7 + 1), Quantity: int64(i%4 + 1), LineTotal: int64((i%4 + 1) * (1000 + i*10))}
		lines = append(lines, l)
		wantQty += l.Quantity
		wantSales += l.LineTotal
	}

	d, err := rollup.Compute(rollup.Subject{Date: time.Now()}, lines, plus6)
	require.NoError(t, err)

	var itemQty, itemSales int64
	for _, it := range d.Items {
		itemQty += it.ItemsSold
		itemSales += it.TotalSales
	}

	assert.Equal(t, wantQty, d.ItemsSold)
	assert.Equal(t, wantSales, d.TotalSales)
	assert.Equal(t, d.ItemsSold, itemQty)
	assert.Equal(t, d.TotalSales, itemSales)
	assert.Len(t, d.Items, 7)
}

func TestDelta_Negate(t *testing.T) {
	d, err := rollup.Compute(rollup.Subject{Date: time.Now()}, []rollup.Line{
		{MenuID: 1, Quantity: 2, LineTotal: 40000},
	}, plus6)
	require.NoError(t, err)

	n := d.Negate()

	assert.Equal(t, int64(-1), n.Transactions)
	assert.Equal(t, int64(-2), n.ItemsSold)
	assert.Equal(t, int64(-40000), n.TotalSales)
	assert.Equal(t, []rollup.ItemDelta{{MenuID: 1, ItemsSold: -2, TotalSales: -40000}}, n.Items)
	assert.Equal(t, int64(2), d.Items[0].ItemsSold, "negate must not alias the original items")
}
