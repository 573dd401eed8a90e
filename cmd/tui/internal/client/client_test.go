package client_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tillpoint/cmd/tui/internal/client"
)

func newServer(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return client.New(srv.URL+"/", "secret", 5*time.Second)
}

func TestClient_DailySummary(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/analytics/daily/summary", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.URL.Query().Get("branch_id"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2024-01-31", r.URL.Query().Get("end_date"))

		_, _ = w.Write([]byte(`{"total_sales":70000,"transaction_count":2,"items_sold":4}`))
	})

	got, err := c.DailySummary(context.Background(), client.Range{
		BranchID: 2,
		Start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(70000), got.TotalSales)
	assert.Equal(t, int64(2), got.TransactionCount)
	assert.Equal(t, int64(4), got.ItemsSold)
}

func TestClient_Transactions_OmitsUnsetFilters(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.False(t, q.Has("branch_id"))
		assert.False(t, q.Has("start_date"))
		assert.Equal(t, "false", q.Get("completed"))
		assert.Equal(t, "50", q.Get("limit"))

		_, _ = w.Write([]byte(`[{"id":"` + uuid.Nil.String() + `","total":40000,"completed":false}]`))
	})

	got, err := c.Transactions(context.Background(), client.TransactionFilter{
		Completed: new(false),
		Limit:     50,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(40000), got[0].Total)
}

func TestClient_Complete(t *testing.T) {
	id := uuid.New()

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/transactions/"+id.String()+"/complete", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		_, _ = w.Write([]byte(`{"success":true,"already_completed":true,"transaction_id":"` + id.String() + `"}`))
	})

	got, err := c.Complete(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, got.Success)
	assert.True(t, got.AlreadyCompleted)
	assert.Equal(t, id, got.TransactionID)
}

func TestClient_Errors(t *testing.T) {
	type testCase struct {
		name          string
		status        int
		body          string
		wantCode      string
		wantRetryable bool
	}

	tests := []testCase{
		{
			name:          "Aggregation",
			status:        http.StatusServiceUnavailable,
			body:          `{"error":{"code":"aggregation_failed","message":"rollup failed","retryable":true}}`,
			wantCode:      "aggregation_failed",
			wantRetryable: true,
		},
		{
			name:     "NotFound",
			status:   http.StatusNotFound,
			body:     `{"error":{"code":"not_found","message":"transaction not found"}}`,
			wantCode: "not_found",
		},
		{
			name:   "NoEnvelope",
			status: http.StatusBadGateway,
			body:   `upstream down`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Complete(context.Background(), uuid.New())
			require.Error(t, err)

			var apiErr *client.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantRetryable, client.IsRetryable(err))
		})
	}
}

func TestClient_SalesWorkbook(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reports/sales.xlsx", r.URL.Path)
		_, _ = w.Write([]byte("PK\x03\x04"))
	})

	var buf bytes.Buffer
	require.NoError(t, c.SalesWorkbook(context.Background(), client.Range{}, &buf))
	assert.Equal(t, "PK\x03\x04", buf.String())
}
