package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tillpoint/internal/analytics"
)

func TestParseRange(t *testing.T) {
	type testCase struct {
		name     string
		from, to string
		want     [2]string
		wantErr  bool
	}

	tests := []testCase{
		{name: "SingleDay", from: "2024-01-01", want: [2]string{"2024-01-01", "2024-01-01"}},
		{name: "Range", from: "2024-01-01", to: "2024-01-31", want: [2]string{"2024-01-01", "2024-01-31"}},
		{name: "BadFrom", from: "01/01/2024", wantErr: true},
		{name: "BadTo", from: "2024-01-01", to: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := parseRange(tt.from, tt.to)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, [2]string{start.Format(time.DateOnly), end.Format(time.DateOnly)})
		})
	}
}

func TestPrintDrift(t *testing.T) {
	var buf bytes.Buffer

	err := printDrift(&buf, []analytics.Drift{{
		BranchID:        1,
		BusinessDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		RollupSales:     70000,
		LedgerSales:     90000,
		RollupCount:     1,
		LedgerCount:     2,
		RollupItemsSold: 3,
		LedgerItemsSold: 4,
	}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "LEDGER SALES")
	assert.Contains(t, out, "2024-01-01")
	assert.Contains(t, out, "90000")
}
