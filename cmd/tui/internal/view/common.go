package view

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tillpoint/cmd/tui/internal/client"
	"github.com/MrJamesThe3rd/tillpoint/internal/analytics"
)

//go:generate mockgen -source=common.go -destination=api_mock.go -package=view
type API interface {
	DailySummary(ctx context.Context, r client.Range) (*analytics.Summary, error)
	Daily(ctx context.Context, r client.Range) ([]analytics.DailyRow, error)
	TopItems(ctx context.Context, r client.Range, limit int) ([]analytics.TopItem, error)
	Transactions(ctx context.Context, f client.TransactionFilter) ([]client.Transaction, error)
	Complete(ctx context.Context, id uuid.UUID) (*client.Completion, error)
	UpdateTransaction(ctx context.Context, id uuid.UUID, params client.UpdateTransaction) (*client.Transaction, error)
	SalesWorkbook(ctx context.Context, r client.Range, w io.Writer) error
}

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
