package transaction_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/auth"
	"github.com/MrJamesThe3rd/tillpoint/internal/completion"
	handler "github.com/MrJamesThe3rd/tillpoint/internal/http/transaction"
	"github.com/MrJamesThe3rd/tillpoint/internal/rollup"
	"github.com/MrJamesThe3rd/tillpoint/internal/transaction"
)

const companyID = int64(3)

var txID = uuid.MustParse("6f1c2a8e-2d4b-4a55-9d0f-0a5a0c7d9e11")

type fixture struct {
	ledger *handler.MockLedger
	gate   *handler.MockGate
	router chi.Router
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		ledger: handler.NewMockLedger(ctrl),
		gate:   handler.NewMockGate(ctrl),
		router: chi.NewRouter(),
	}

	f.router.Route("/transactions", handler.NewHandler(f.ledger, f.gate, nil, zap.NewNop()).Routes)

	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	return f.doAs(&auth.Claims{CompanyID: companyID, UserID: 9, Role: auth.RoleCashier}, method, path, body)
}

func (f *fixture) doAs(claims *auth.Claims, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if claims != nil {
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

type errorEnvelope struct {
	Error struct {
		Code      string            `json:"code"`
		Message   string            `json:"message"`
		Retryable bool              `json:"retryable"`
		Details   map[string]string `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()

	var env errorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))

	return env
}

func TestHandler_Create(t *testing.T) {
	f := newFixture(t)

	body := `{
		"branch_id": 1,
		"cashier_id": 9,
		"date": "2024-01-01T13:00:00Z",
		"payment_method": "card",
		"items": [
			{"menu_id": 1, "quantity": 2, "pricing_category": "base"},
			{"menu_id": 2, "quantity": 1, "pricing_category": "online"}
		]
	}`

	f.ledger.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p transaction.CreateParams) (*transaction.Transaction, error) {
			assert.Equal(t, companyID, p.CompanyID)
			assert.Equal(t, int64(1), p.BranchID)
			assert.Equal(t, transaction.PaymentCard, p.PaymentMethod)
			assert.True(t, p.Date.Equal(time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)))
			assert.Equal(t, []transaction.ItemSpec{
				{MenuID: 1, Quantity: 2, PricingCategory: transaction.PricingBase},
				{MenuID: 2, Quantity: 1, PricingCategory: transaction.PricingOnline},
			}, p.Items)

			return &transaction.Transaction{
				ID:        txID,
				CompanyID: p.CompanyID,
				BranchID:  p.BranchID,
				Total:     70000,
				Status:    transaction.StatusOpen,
			}, nil
		})

	rec := f.do(http.MethodPost, "/transactions/", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, txID.String(), got["id"])
	assert.InDelta(t, 70000, got["total"], 0)
	assert.Equal(t, false, got["completed"])
}

func TestHandler_Create_ValidationErrors(t *testing.T) {
	type testCase struct {
		name       string
		body       string
		wantDetail string
	}

	tests := []testCase{
		{
			name:       "MissingBranch",
			body:       `{"cashier_id": 1, "date": "2024-01-01T13:00:00Z"}`,
			wantDetail: "BranchID",
		},
		{
			name:       "BadPricingCategory",
			body:       `{"branch_id": 1, "cashier_id": 1, "date": "2024-01-01T13:00:00Z", "items": [{"menu_id": 1, "quantity": 1, "pricing_category": "delivery"}]}`,
			wantDetail: "PricingCategory",
		},
		{
			name:       "ZeroQuantity",
			body:       `{"branch_id": 1, "cashier_id": 1, "date": "2024-01-01T13:00:00Z", "items": [{"menu_id": 1, "quantity": 0, "pricing_category": "base"}]}`,
			wantDetail: "Quantity",
		},
		{
			name: "UnknownField",
			body: `{"branch_id": 1, "cashier_id": 1, "date": "2024-01-01T13:00:00Z", "unit_price": 5}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(http.MethodPost, "/transactions/", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			env := decodeError(t, rec)
			assert.Equal(t, "validation_error", env.Error.Code)
			assert.False(t, env.Error.Retryable)

			if tt.wantDetail != "" {
				assert.Contains(t, env.Error.Details, tt.wantDetail)
			}
		})
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	type testCase struct {
		name          string
		err           error
		wantStatus    int
		wantCode      string
		wantRetryable bool
	}

	tests := []testCase{
		{name: "NotFound", err: transaction.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{
			name:       "PriceNotFound",
			err:        fmt.Errorf("menu 5 at branch 1: %w", transaction.ErrPriceNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "price_not_found",
		},
		{
			name:       "AlreadyCompleted",
			err:        transaction.ErrAlreadyCompleted,
			wantStatus: http.StatusConflict,
			wantCode:   "already_completed",
		},
		{
			name:       "Constraint",
			err:        transaction.ErrConstraintViolation,
			wantStatus: http.StatusConflict,
			wantCode:   "constraint_violation",
		},
		{name: "Validation", err: transaction.ErrValidation, wantStatus: http.StatusBadRequest, wantCode: "validation_error"},
		{
			name:          "Deadline",
			err:           fmt.Errorf("get: %w", context.DeadlineExceeded),
			wantStatus:    http.StatusGatewayTimeout,
			wantCode:      "timeout",
			wantRetryable: true,
		},
		{name: "Unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.ledger.EXPECT().
				Update(gomock.Any(), companyID, txID, gomock.Any()).
				Return(nil, tt.err)

			rec := f.do(http.MethodPatch, "/transactions/"+txID.String(), `{"discount": 100}`)
			require.Equal(t, tt.wantStatus, rec.Code)

			env := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.Equal(t, tt.wantRetryable, env.Error.Retryable)

			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, env.Error.Message, "boom")
			}
		})
	}
}

func TestHandler_Complete(t *testing.T) {
	completedAt := time.Date(2024, 1, 1, 13, 5, 0, 0, time.UTC)
	businessDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("UTC+6", 6*3600))

	type testCase struct {
		name          string
		result        *completion.Result
		err           error
		wantStatus    int
		wantAlready   bool
		wantCode      string
		wantRetryable bool
	}

	tests := []testCase{
		{
			name: "FirstCompletion",
			result: &completion.Result{
				TransactionID: txID,
				CompletedAt:   completedAt,
				Delta:         &rollup.Delta{TransactionID: txID, BusinessDate: businessDate, TotalSales: 70000},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:        "Repeat",
			result:      &completion.Result{TransactionID: txID, AlreadyCompleted: true, CompletedAt: completedAt},
			wantStatus:  http.StatusOK,
			wantAlready: true,
		},
		{
			name:       "NoItems",
			err:        completion.ErrNoItems,
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_error",
		},
		{
			name:          "AggregationFailure",
			err:           fmt.Errorf("%w: hourly: connection reset", completion.ErrAggregation),
			wantStatus:    http.StatusServiceUnavailable,
			wantCode:      "aggregation_failed",
			wantRetryable: true,
		},
		{
			name:       "OtherTenant",
			err:        transaction.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.gate.EXPECT().
				Complete(gomock.Any(), companyID, txID).
				Return(tt.result, tt.err)

			rec := f.do(http.MethodPost, "/transactions/"+txID.String()+"/complete", "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.err != nil {
				env := decodeError(t, rec)
				assert.Equal(t, tt.wantCode, env.Error.Code)
				assert.Equal(t, tt.wantRetryable, env.Error.Retryable)

				return
			}

			var got struct {
				Success          bool   `json:"success"`
				AlreadyCompleted bool   `json:"already_completed"`
				BusinessDate     string `json:"business_date"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			assert.True(t, got.Success)
			assert.Equal(t, tt.wantAlready, got.AlreadyCompleted)

			if !tt.wantAlready {
				assert.Equal(t, "2024-01-01", got.BusinessDate)
			}
		})
	}
}

func TestHandler_Void(t *testing.T) {
	f := newFixture(t)

	reversal := rollup.Delta{
		TransactionID: txID,
		BusinessDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalSales:    70000,
		ItemsSold:     3,
	}.Negate()

	f.gate.EXPECT().Void(gomock.Any(), companyID, txID).Return(&reversal, nil)

	rec := f.do(http.MethodPost, "/transactions/"+txID.String()+"/void", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.InDelta(t, 70000, got["total_sales"], 0)
	assert.InDelta(t, 3, got["items_sold"], 0)
	assert.Equal(t, "2024-01-01", got["business_date"])
}

func TestHandler_Void_NotCompleted(t *testing.T) {
	f := newFixture(t)

	f.gate.EXPECT().Void(gomock.Any(), companyID, txID).Return(nil, completion.ErrNotCompleted)

	rec := f.do(http.MethodPost, "/transactions/"+txID.String()+"/void", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandler_List_Filters(t *testing.T) {
	f := newFixture(t)

	f.ledger.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
			assert.Equal(t, companyID, filter.CompanyID)
			require.NotNil(t, filter.BranchID)
			assert.Equal(t, int64(2), *filter.BranchID)
			require.NotNil(t, filter.Completed)
			assert.False(t, *filter.Completed)
			require.NotNil(t, filter.StartDate)
			assert.Equal(t, "2024-01-01", filter.StartDate.Format(time.DateOnly))
			assert.Nil(t, filter.EndDate)
			assert.Equal(t, 50, filter.Limit)

			return []*transaction.Transaction{{ID: txID}}, nil
		})

	rec := f.do(http.MethodGet, "/transactions/?branch_id=2&completed=false&start_date=2024-01-01&limit=50", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got, 1)
}

func TestHandler_BadInput(t *testing.T) {
	type testCase struct {
		name   string
		method string
		path   string
		body   string
	}

	tests := []testCase{
		{name: "BadID", method: http.MethodGet, path: "/transactions/not-a-uuid"},
		{name: "BadBranchQuery", method: http.MethodGet, path: "/transactions/?branch_id=abc"},
		{name: "BadDateQuery", method: http.MethodGet, path: "/transactions/?start_date=01/01/2024"},
		{name: "BadCompletedQuery", method: http.MethodGet, path: "/transactions/?completed=maybe"},
		{name: "EmptyAddItems", method: http.MethodPost, path: "/transactions/" + txID.String() + "/items", body: `{"items": []}`},
		{name: "EmptyDeleteItems", method: http.MethodDelete, path: "/transactions/" + txID.String() + "/items", body: `{"ids": []}`},
		{name: "MalformedJSON", method: http.MethodPatch, path: "/transactions/" + txID.String(), body: `{"discount":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_RequiresClaims(t *testing.T) {
	f := newFixture(t)

	rec := f.doAs(nil, http.MethodGet, "/transactions/"+txID.String(), "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec).Error.Code)
}

func TestHandler_CompanyComesFromToken(t *testing.T) {
	f := newFixture(t)

	other := &auth.Claims{CompanyID: 99, Role: auth.RoleOwner}

	// The company in the token decides which ledger is read.
	f.ledger.EXPECT().Get(gomock.Any(), int64(99), txID).Return(nil, transaction.ErrNotFound)

	rec := f.doAs(other, http.MethodGet, "/transactions/"+txID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Items(t *testing.T) {
	itemID := uuid.MustParse("0b1d3c6e-5a7f-4e2a-8c9b-1f2e3d4c5b6a")

	t.Run("Add", func(t *testing.T) {
		f := newFixture(t)

		f.ledger.EXPECT().
			AddItems(gomock.Any(), companyID, txID, []transaction.ItemSpec{
				{MenuID: 4, Quantity: 3, PricingCategory: transaction.PricingOnline},
			}).
			Return([]*transaction.Item{{ID: itemID, MenuID: 4, Quantity: 3, UnitPrice: 1000, LineTotal: 3000}}, nil)

		rec := f.do(http.MethodPost, "/transactions/"+txID.String()+"/items",
			`{"items": [{"menu_id": 4, "quantity": 3, "pricing_category": "online"}]}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var got []map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		require.Len(t, got, 1)
		assert.InDelta(t, 3000, got[0]["line_total"], 0)
	})

	t.Run("Update", func(t *testing.T) {
		f := newFixture(t)

		f.ledger.EXPECT().
			UpdateItems(gomock.Any(), companyID, txID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, _ uuid.UUID, updates []transaction.ItemUpdate) ([]*transaction.Item, error) {
				require.Len(t, updates, 1)
				assert.Equal(t, itemID, updates[0].ID)
				require.NotNil(t, updates[0].Quantity)
				assert.Equal(t, int64(5), *updates[0].Quantity)
				assert.Nil(t, updates[0].MenuID)

				return []*transaction.Item{{ID: itemID, Quantity: 5}}, nil
			})

		rec := f.do(http.MethodPatch, "/transactions/"+txID.String()+"/items",
			fmt.Sprintf(`{"items": [{"id": %q, "quantity": 5}]}`, itemID))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		f := newFixture(t)

		f.ledger.EXPECT().DeleteItems(gomock.Any(), companyID, txID, []uuid.UUID{itemID}).Return(nil)

		rec := f.do(http.MethodDelete, "/transactions/"+txID.String()+"/items",
			fmt.Sprintf(`{"ids": [%q]}`, itemID))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	f := newFixture(t)

	f.ledger.EXPECT().Delete(gomock.Any(), companyID, txID).Return(transaction.ErrAlreadyCompleted)

	rec := f.do(http.MethodDelete, "/transactions/"+txID.String(), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}
