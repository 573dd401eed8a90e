// Package report renders sales reports from the rollups: an XLSX workbook
// built locally and a PDF produced by the external report service.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/tillpoint/internal/analytics"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"

	topItemsInReport = 20
)

var ErrRenderUnavailable = errors.New("report service not configured")

// Source is the slice of the analytics service a report reads.
type Source interface {
	Daily(ctx context.Context, f analytics.Filter) ([]analytics.DailyRow, error)
	Hourly(ctx context.Context, f analytics.Filter) ([]analytics.HourlyRow, error)
	DailySummary(ctx context.Context, f analytics.Filter) (analytics.Summary, error)
	TopItems(ctx context.Context, f analytics.Filter, limit int) ([]analytics.TopItem, error)
}

type Service struct {
	source     Source
	loc        *time.Location
	client     *http.Client
	serviceURL string
	token      string
}

func NewService(source Source, loc *time.Location, serviceURL, token string) *Service {
	return &Service{
		source:     source,
		loc:        loc,
		client:     &http.Client{Timeout: 30 * time.Second},
		serviceURL: serviceURL,
		token:      token,
	}
}

// Sales is everything one report shows.
type Sales struct {
	CompanyID int64                 `json:"company_id"`
	BranchID  *int64                `json:"branch_id,omitempty"`
	From      string                `json:"from,omitempty"`
	To        string                `json:"to,omitempty"`
	Totals    analytics.Summary     `json:"totals"`
	Daily     []analytics.DailyRow  `json:"daily"`
	Hourly    []analytics.HourlyRow `json:"hourly"`
	TopItems  []analytics.TopItem   `json:"top_items"`
}

func (s *Service) Sales(ctx context.Context, f analytics.Filter) (*Sales, error) {
	totals, err := s.source.DailySummary(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("loading totals: %w", err)
	}

	daily, err := s.source.Daily(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("loading daily rollup: %w", err)
	}

	hourly, err := s.source.Hourly(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("loading hourly rollup: %w", err)
	}

	top, err := s.source.TopItems(ctx, f, topItemsInReport)
	if err != nil {
		return nil, fmt.Errorf("loading top items: %w", err)
	}

	r := &Sales{
		CompanyID: f.CompanyID,
		BranchID:  f.BranchID,
		Totals:    totals,
		Daily:     daily,
		Hourly:    hourly,
		TopItems:  top,
	}

	if f.StartDate != nil {
		r.From = f.StartDate.Format(time.DateOnly)
	}

	if f.EndDate != nil {
		r.To = f.EndDate.Format(time.DateOnly)
	}

	return r, nil
}

// Workbook lays the report out over the Summary, Daily, Hourly and Items
// sheets. The caller closes the file.
func (s *Service) Workbook(ctx context.Context, f analytics.Filter) (*excelize.File, error) {
	r, err := s.Sales(ctx, f)
	if err != nil {
		return nil, err
	}

	book := excelize.NewFile()

	if err := s.fill(book, r); err != nil {
		book.Close()
		return nil, fmt.Errorf("building workbook: %w", err)
	}

	return book, nil
}

func (s *Service) fill(book *excelize.File, r *Sales) error {
	if err := book.SetSheetName("Sheet1", "Summary"); err != nil {
		return err
	}

	from, to := r.From, r.To
	if from == "" {
		from = "start"
	}

	if to == "" {
		to = "today"
	}

	summary := [][]any{
		{"Period", from + " to " + to},
		{"Total sales", r.Totals.TotalSales},
		{"Transactions", r.Totals.TransactionCount},
		{"Items sold", r.Totals.ItemsSold},
	}
	if err := writeRows(book, "Summary", summary); err != nil {
		return err
	}

	daily := [][]any{{"Date", "Branch", "Transactions", "Items sold", "Total sales"}}
	for _, d := range r.Daily {
		daily = append(daily, []any{d.BusinessDate.Format(time.DateOnly), d.BranchID, d.TransactionCount, d.ItemsSold, d.TotalSales})
	}

	hourly := [][]any{{"Hour", "Branch", "Transactions", "Items sold", "Total sales"}}
	for _, h := range r.Hourly {
		hourly = append(hourly, []any{h.HourBucket.In(s.loc).Format("2006-01-02 15:04"), h.BranchID, h.TransactionCount, h.ItemsSold, h.TotalSales})
	}

	items := [][]any{{"Menu", "Items sold", "Total sales"}}
	for _, it := range r.TopItems {
		items = append(items, []any{it.MenuID, it.ItemsSold, it.TotalSales})
	}

	for _, sheet := range []struct {
		name string
		rows [][]any
	}{
		{"Daily", daily},
		{"Hourly", hourly},
		{"Items", items},
	} {
		if _, err := book.NewSheet(sheet.name); err != nil {
			return err
		}

		if err := writeRows(book, sheet.name, sheet.rows); err != nil {
			return err
		}
	}

	return nil
}

func writeRows(book *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}

		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}

	return nil
}

// RenderPDF posts the report to the external renderer and returns the PDF.
func (s *Service) RenderPDF(ctx context.Context, f analytics.Filter) ([]byte, error) {
	if s.serviceURL == "" {
		return nil, ErrRenderUnavailable
	}

	r, err := s.Sales(ctx, f)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.serviceURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", ContentTypePDF)

	if s.token != "" {
		req.Header.Set("Authorization", "Token "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from report service", resp.StatusCode)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	return pdf, nil
}
