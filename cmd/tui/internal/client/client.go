// Package client is a thin caller for the Tillpoint HTTP API, used by the
// terminal dashboard.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tillpoint/internal/analytics"
)

// Error is a non-2xx answer from the API.
type Error struct {
	Status    int    `json:"-"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Code)
	}

	return fmt.Sprintf("api: %s: %s", e.Code, e.Message)
}

type Client struct {
	base  string
	token string
	http  *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		base:  strings.TrimRight(baseURL, "/") + "/api/v1",
		token: token,
		http:  &http.Client{Timeout: timeout},
	}
}

// Range narrows a query to a branch and an inclusive business date range.
// Zero values are left out of the request.
type Range struct {
	BranchID int64
	Start    time.Time
	End      time.Time
}

func (r Range) values() url.Values {
	v := url.Values{}

	if r.BranchID > 0 {
		v.Set("branch_id", strconv.FormatInt(r.BranchID, 10))
	}

	if !r.Start.IsZero() {
		v.Set("start_date", r.Start.Format(time.DateOnly))
	}

	if !r.End.IsZero() {
		v.Set("end_date", r.End.Format(time.DateOnly))
	}

	return v
}

type Transaction struct {
	ID            uuid.UUID  `json:"id"`
	BranchID      int64      `json:"branch_id"`
	CashierID     int64      `json:"cashier_id"`
	Date          time.Time  `json:"date"`
	Total         int64      `json:"total"`
	Discount      int64      `json:"discount"`
	PaymentMethod string     `json:"payment_method"`
	Status        string     `json:"status"`
	CustomerName  string     `json:"customer_name"`
	TableNumber   string     `json:"table_number"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completed_at"`
}

type Completion struct {
	Success          bool       `json:"success"`
	AlreadyCompleted bool       `json:"already_completed"`
	TransactionID    uuid.UUID  `json:"transaction_id"`
	CompletedAt      *time.Time `json:"completed_at"`
	BusinessDate     string     `json:"business_date"`
}

type TransactionFilter struct {
	Range
	// Completed is nil for both states.
	Completed *bool
	Limit     int
}

func (c *Client) Transactions(ctx context.Context, f TransactionFilter) ([]Transaction, error) {
	v := f.values()

	if f.Completed != nil {
		v.Set("completed", strconv.FormatBool(*f.Completed))
	}

	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}

	var out []Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", v, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Complete closes a transaction. Repeating it is answered with
// AlreadyCompleted rather than an error.
func (c *Client) Complete(ctx context.Context, id uuid.UUID) (*Completion, error) {
	var out Completion
	if err := c.do(ctx, http.MethodPost, "/transactions/"+id.String()+"/complete", nil, strings.NewReader("{}"), &out); err != nil {
		return nil, err
	}

	return &out, nil
}

type UpdateTransaction struct {
	CustomerName *string `json:"customer_name,omitempty"`
	TableNumber  *string `json:"table_number,omitempty"`
	Discount     *int64  `json:"discount,omitempty"`
}

func (c *Client) UpdateTransaction(ctx context.Context, id uuid.UUID, params UpdateTransaction) (*Transaction, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encoding update: %w", err)
	}

	var out Transaction
	if err := c.do(ctx, http.MethodPatch, "/transactions/"+id.String(), nil, bytes.NewReader(body), &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) DailySummary(ctx context.Context, r Range) (*analytics.Summary, error) {
	var out analytics.Summary
	if err := c.do(ctx, http.MethodGet, "/analytics/daily/summary", r.values(), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) Daily(ctx context.Context, r Range) ([]analytics.DailyRow, error) {
	var out []analytics.DailyRow
	if err := c.do(ctx, http.MethodGet, "/analytics/daily", r.values(), nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) TopItems(ctx context.Context, r Range, limit int) ([]analytics.TopItem, error) {
	v := r.values()
	v.Set("limit", strconv.Itoa(limit))

	var out []analytics.TopItem
	if err := c.do(ctx, http.MethodGet, "/analytics/items/top", v, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// SalesWorkbook downloads the XLSX sales report.
func (c *Client) SalesWorkbook(ctx context.Context, r Range, w io.Writer) error {
	resp, err := c.send(ctx, http.MethodGet, "/reports/sales.xlsx", r.values(), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("reading report: %w", err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, dst any) error {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}

	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Response, error) {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}

	return resp, nil
}

func decodeError(resp *http.Response) error {
	var envelope struct {
		Error Error `json:"error"`
	}

	apiErr := &Error{Status: resp.StatusCode}

	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Retryable = envelope.Error.Retryable
	}

	return apiErr
}

// IsRetryable reports whether the API marked the failure as worth retrying.
func IsRetryable(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Retryable
}
