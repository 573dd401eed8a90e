package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tillpoint/internal/completion"
	"github.com/MrJamesThe3rd/tillpoint/internal/rollup"
	"github.com/MrJamesThe3rd/tillpoint/internal/transaction"
)

type transactionResponse struct {
	ID            uuid.UUID                 `json:"id"`
	BranchID      int64                     `json:"branch_id"`
	CashierID     int64                     `json:"cashier_id"`
	Date          time.Time                 `json:"date"`
	Total         int64                     `json:"total"`
	Discount      int64                     `json:"discount"`
	PaymentMethod transaction.PaymentMethod `json:"payment_method"`
	Status        transaction.Status        `json:"status"`
	CustomerName  string                    `json:"customer_name,omitempty"`
	TableNumber   string                    `json:"table_number,omitempty"`
	Completed     bool                      `json:"completed"`
	CompletedAt   *time.Time                `json:"completed_at,omitempty"`
	Items         []itemResponse            `json:"items,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

type itemResponse struct {
	ID              uuid.UUID                   `json:"id"`
	MenuID          int64                       `json:"menu_id"`
	Quantity        int64                       `json:"quantity"`
	PricingCategory transaction.PricingCategory `json:"pricing_category"`
	UnitPrice       int64                       `json:"unit_price"`
	LineTotal       int64                       `json:"line_total"`
}

type completeResponse struct {
	Success          bool       `json:"success"`
	AlreadyCompleted bool       `json:"already_completed"`
	TransactionID    uuid.UUID  `json:"transaction_id"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	BusinessDate     string     `json:"business_date,omitempty"`
}

type voidResponse struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	BusinessDate  string    `json:"business_date"`
	TotalSales    int64     `json:"total_sales"`
	ItemsSold     int64     `json:"items_sold"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		BranchID:      tx.BranchID,
		CashierID:     tx.CashierID,
		Date:          tx.Date,
		Total:         tx.Total,
		Discount:      tx.Discount,
		PaymentMethod: tx.PaymentMethod,
		Status:        tx.Status,
		CustomerName:  tx.CustomerName,
		TableNumber:   tx.TableNumber,
		Completed:     tx.Completed,
		CompletedAt:   tx.CompletedAt,
		Items:         toItemResponseList(tx.Items),
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

func toItemResponseList(items []*transaction.Item) []itemResponse {
	if len(items) == 0 {
		return nil
	}

	resp := make([]itemResponse, len(items))
	for i, it := range items {
		resp[i] = itemResponse{
			ID:              it.ID,
			MenuID:          it.MenuID,
			Quantity:        it.Quantity,
			PricingCategory: it.PricingCategory,
			UnitPrice:       it.UnitPrice,
			LineTotal:       it.LineTotal,
		}
	}

	return resp
}

func toCompleteResponse(res *completion.Result) completeResponse {
	resp := completeResponse{
		Success:          true,
		AlreadyCompleted: res.AlreadyCompleted,
		TransactionID:    res.TransactionID,
	}

	if !res.CompletedAt.IsZero() {
		resp.CompletedAt = &res.CompletedAt
	}

	if res.Delta != nil {
		resp.BusinessDate = res.Delta.BusinessDate.Format(time.DateOnly)
	}

	return resp
}

func toVoidResponse(d *rollup.Delta) voidResponse {
	// d is the reversal, so its measures are negative.
	return voidResponse{
		TransactionID: d.TransactionID,
		BusinessDate:  d.BusinessDate.Format(time.DateOnly),
		TotalSales:    -d.TotalSales,
		ItemsSold:     -d.ItemsSold,
	}
}
