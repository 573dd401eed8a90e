package expense_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tillpoint/internal/expense"
)

func TestService_Create(t *testing.T) {
	at := time.Date(2024, 1, 1, 19, 45, 0, 0, time.FixedZone("UTC+6", 6*3600))

	type testCase struct {
		name      string
		params    expense.CreateParams
		setupMock func(repo *expense.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: expense.CreateParams{CompanyID: 1, BranchID: 1, Date: at, Amount: 5000, Category: "supplies"},
			setupMock: func(repo *expense.MockRepository) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *expense.Expense) error {
					assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), e.Date)
					e.ID = uuid.New()
					return nil
				})
			},
		},
		{
			name:      "NegativeAmount",
			params:    expense.CreateParams{CompanyID: 1, BranchID: 1, Date: at, Amount: -1},
			setupMock: func(repo *expense.MockRepository) {},
			wantErr:   expense.ErrValidation,
		},
		{
			name:      "MissingDate",
			params:    expense.CreateParams{CompanyID: 1, BranchID: 1, Amount: 1},
			setupMock: func(repo *expense.MockRepository) {},
			wantErr:   expense.ErrValidation,
		},
		{
			name:   "ForeignBranch",
			params: expense.CreateParams{CompanyID: 1, BranchID: 99, Date: at, Amount: 1},
			setupMock: func(repo *expense.MockRepository) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(expense.ErrConstraintViolation)
			},
			wantErr: expense.ErrConstraintViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := expense.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := expense.NewService(repo).Create(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_Sum(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := expense.NewMockRepository(ctrl)
	svc := expense.NewService(repo)

	f := expense.Filter{CompanyID: 1, BranchID: 1}
	repo.EXPECT().Sum(gomock.Any(), f).Return(int64(0), nil)

	total, err := svc.Sum(context.Background(), f)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = svc.Sum(context.Background(), expense.Filter{CompanyID: 1})
	assert.ErrorIs(t, err, expense.ErrValidation)

	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.Daily(context.Background(), expense.Filter{CompanyID: 1, BranchID: 1, StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, expense.ErrValidation)
}
