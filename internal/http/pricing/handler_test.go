package pricing_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/auth"
	httpapi "github.com/MrJamesThe3rd/tillpoint/internal/http"
	handler "github.com/MrJamesThe3rd/tillpoint/internal/http/pricing"
	"github.com/MrJamesThe3rd/tillpoint/internal/importer"
	"github.com/MrJamesThe3rd/tillpoint/internal/pricing"
)

func setup(t *testing.T) (*pricing.MockRepository, chi.Router) {
	ctrl := gomock.NewController(t)
	repo := pricing.NewMockRepository(ctrl)

	h := handler.NewHandler(
		pricing.NewService(repo),
		importer.NewService(zap.NewNop()),
		httpapi.PriceWriters(zap.NewNop()),
		zap.NewNop(),
	)

	r := chi.NewRouter()
	r.Route("/prices", h.Routes)

	return repo, r
}

func send(r chi.Router, role auth.Role, req *http.Request) *httptest.ResponseRecorder {
	req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{CompanyID: 2, Role: role}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandler_List(t *testing.T) {
	repo, r := setup(t)

	repo.EXPECT().List(gomock.Any(), int64(2), new(int64(1))).Return([]*pricing.Price{
		{MenuID: 1, BranchID: 1, BasePrice: 20000, OnlinePrice: 22000},
		{MenuID: 2, BranchID: 1, BasePrice: 30000, OnlinePrice: 33000},
	}, nil)

	rec := send(r, auth.RoleCashier, httptest.NewRequest(http.MethodGet, "/prices/?branch_id=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.InDelta(t, 22000, got[0]["online_price"], 0)
}

func TestHandler_Get(t *testing.T) {
	type testCase struct {
		name       string
		path       string
		setupMock  func(repo *pricing.MockRepository)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "Found",
			path: "/prices/1/5",
			setupMock: func(repo *pricing.MockRepository) {
				repo.EXPECT().Get(gomock.Any(), int64(2), int64(1), int64(5)).
					Return(&pricing.Price{MenuID: 5, BranchID: 1, BasePrice: 100, OnlinePrice: 120}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Missing",
			path: "/prices/1/6",
			setupMock: func(repo *pricing.MockRepository) {
				repo.EXPECT().Get(gomock.Any(), int64(2), int64(1), int64(6)).Return(nil, pricing.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "BadBranch",
			path:       "/prices/zero/6",
			setupMock:  func(repo *pricing.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, r := setup(t)
			tt.setupMock(repo)

			rec := send(r, auth.RoleCashier, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_Put(t *testing.T) {
	type testCase struct {
		name       string
		role       auth.Role
		body       string
		setupMock  func(repo *pricing.MockRepository)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "ManagerSetsBoth",
			role: auth.RoleManager,
			body: `{"base_price": 20000, "online_price": 22000}`,
			setupMock: func(repo *pricing.MockRepository) {
				repo.EXPECT().
					Upsert(gomock.Any(), int64(2), pricing.UpsertParams{MenuID: 5, BranchID: 1, BasePrice: 20000, OnlinePrice: 22000}).
					Return(&pricing.Price{MenuID: 5, BranchID: 1, BasePrice: 20000, OnlinePrice: 22000}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "OnlineDefaultsToBase",
			role: auth.RoleOwner,
			body: `{"base_price": 15000}`,
			setupMock: func(repo *pricing.MockRepository) {
				repo.EXPECT().
					Upsert(gomock.Any(), int64(2), pricing.UpsertParams{MenuID: 5, BranchID: 1, BasePrice: 15000, OnlinePrice: 15000}).
					Return(&pricing.Price{MenuID: 5, BranchID: 1, BasePrice: 15000, OnlinePrice: 15000}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "UnknownMenu",
			role: auth.RoleOwner,
			body: `{"base_price": 15000}`,
			setupMock: func(repo *pricing.MockRepository) {
				repo.EXPECT().Upsert(gomock.Any(), int64(2), gomock.Any()).Return(nil, pricing.ErrUnknownReference)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "NegativePrice",
			role:       auth.RoleOwner,
			body:       `{"base_price": -1}`,
			setupMock:  func(repo *pricing.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "CashierForbidden",
			role:       auth.RoleCashier,
			body:       `{"base_price": 1}`,
			setupMock:  func(repo *pricing.MockRepository) {},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, r := setup(t)
			tt.setupMock(repo)

			req := httptest.NewRequest(http.MethodPut, "/prices/1/5", strings.NewReader(tt.body))
			rec := send(r, tt.role, req)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func multipartBody(t *testing.T, format, csv string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if format != "" {
		require.NoError(t, mw.WriteField("format", format))
	}

	fw, err := mw.CreateFormFile("file", "prices.csv")
	require.NoError(t, err)

	_, err = io.WriteString(fw, csv)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestHandler_Import(t *testing.T) {
	csv := "menu_id;branch_id;base_price;online_price\n1;1;20000;22000\n2;1;30.000;\n"

	type testCase struct {
		name       string
		format     string
		csv        string
		setupMock  func(repo *pricing.MockRepository)
		wantStatus int
	}

	tests := []testCase{
		{
			name: "AutoDetected",
			csv:  csv,
			setupMock: func(repo *pricing.MockRepository) {
				repo.EXPECT().UpsertMany(gomock.Any(), int64(2), []pricing.UpsertParams{
					{MenuID: 1, BranchID: 1, BasePrice: 20000, OnlinePrice: 22000},
					{MenuID: 2, BranchID: 1, BasePrice: 30000, OnlinePrice: 30000},
				}).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "WrongForcedFormat",
			format:     "pos-export",
			csv:        csv,
			setupMock:  func(repo *pricing.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "UnknownFormat",
			format:     "xlsx",
			csv:        csv,
			setupMock:  func(repo *pricing.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "DuplicateRows",
			csv:        "menu_id;branch_id;base_price\n1;1;100\n1;1;200\n",
			setupMock:  func(repo *pricing.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "UnknownBranch",
			csv:  "menu_id;branch_id;base_price\n1;9;100\n",
			setupMock: func(repo *pricing.MockRepository) {
				repo.EXPECT().UpsertMany(gomock.Any(), int64(2), gomock.Any()).Return(pricing.ErrUnknownReference)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, r := setup(t)
			tt.setupMock(repo)

			body, contentType := multipartBody(t, tt.format, tt.csv)

			req := httptest.NewRequest(http.MethodPost, "/prices/import", body)
			req.Header.Set("Content-Type", contentType)

			rec := send(r, auth.RoleManager, req)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus == http.StatusOK {
				var got map[string]int
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, 2, got["imported"])
			}
		})
	}
}

func TestHandler_Import_MissingFile(t *testing.T) {
	_, r := setup(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("format", "standard"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/prices/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := send(r, auth.RoleOwner, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
