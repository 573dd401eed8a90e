package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/completion"
	"github.com/MrJamesThe3rd/tillpoint/internal/http/render"
	"github.com/MrJamesThe3rd/tillpoint/internal/rollup"
	"github.com/MrJamesThe3rd/tillpoint/internal/transaction"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=transaction
type Ledger interface {
	Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
	Get(ctx context.Context, companyID int64, id uuid.UUID) (*transaction.Transaction, error)
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	Update(ctx context.Context, companyID int64, id uuid.UUID, params transaction.UpdateParams) (*transaction.Transaction, error)
	Delete(ctx context.Context, companyID int64, id uuid.UUID) error
	AddItems(ctx context.Context, companyID int64, id uuid.UUID, specs []transaction.ItemSpec) ([]*transaction.Item, error)
	UpdateItems(ctx context.Context, companyID int64, id uuid.UUID, updates []transaction.ItemUpdate) ([]*transaction.Item, error)
	DeleteItems(ctx context.Context, companyID int64, id uuid.UUID, itemIDs []uuid.UUID) error
}

type Gate interface {
	Complete(ctx context.Context, companyID int64, id uuid.UUID) (*completion.Result, error)
	Void(ctx context.Context, companyID int64, id uuid.UUID) (*rollup.Delta, error)
}

type Handler struct {
	ledger Ledger
	gate   Gate
	logger *zap.Logger

	// removers guards ticket delete and void.
	removers func(http.Handler) http.Handler
}

func NewHandler(ledger Ledger, gate Gate, removers func(http.Handler) http.Handler, logger *zap.Logger) *Handler {
	return &Handler{ledger: ledger, gate: gate, removers: removers, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Post("/{id}/items", h.addItems)
	r.Patch("/{id}/items", h.updateItems)
	r.Delete("/{id}/items", h.deleteItems)
	r.Post("/{id}/complete", h.complete)

	r.Group(func(r chi.Router) {
		if h.removers != nil {
			r.Use(h.removers)
		}

		r.Delete("/{id}", h.delete)
		r.Post("/{id}/void", h.void)
	})
}

type itemRequest struct {
	MenuID          int64                       `json:"menu_id" validate:"required,gt=0"`
	Quantity        int64                       `json:"quantity" validate:"required,gt=0"`
	PricingCategory transaction.PricingCategory `json:"pricing_category" validate:"required,oneof=base online"`
}

func (i itemRequest) spec() transaction.ItemSpec {
	return transaction.ItemSpec{
		MenuID:          i.MenuID,
		Quantity:        i.Quantity,
		PricingCategory: i.PricingCategory,
	}
}

type createTransactionRequest struct {
	BranchID      int64                     `json:"branch_id" validate:"required,gt=0"`
	CashierID     int64                     `json:"cashier_id" validate:"required,gt=0"`
	Date          time.Time                 `json:"date" validate:"required"`
	Discount      int64                     `json:"discount" validate:"gte=0"`
	PaymentMethod transaction.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash card transfer qr"`
	Status        transaction.Status        `json:"status" validate:"omitempty,oneof=open paid cancelled"`
	CustomerName  string                    `json:"customer_name" validate:"max=255"`
	TableNumber   string                    `json:"table_number" validate:"max=32"`
	Items         []itemRequest             `json:"items" validate:"omitempty,dive"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	companyID, err := render.Company(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	var req createTransactionRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	params := transaction.CreateParams{
		CompanyID:     companyID,
		BranchID:      req.BranchID,
		CashierID:     req.CashierID,
		Date:          req.Date,
		Discount:      req.Discount,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		CustomerName:  req.CustomerName,
		TableNumber:   req.TableNumber,
	}

	for _, it := range req.Items {
		params.Items = append(params.Items, it.spec())
	}

	tx, err := h.ledger.Create(r.Context(), params)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	companyID, err := render.Company(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	filter := transaction.ListFilter{CompanyID: companyID}

	if filter.BranchID, err = render.QueryInt64(r, "branch_id"); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	if filter.Completed, err = render.QueryBool(r, "completed"); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	if filter.StartDate, err = render.QueryDate(r, "start_date"); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	if filter.EndDate, err = render.QueryDate(r, "end_date"); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	limit, err := render.QueryInt64(r, "limit")
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	if limit != nil {
		filter.Limit = int(*limit)
	}

	txs, err := h.ledger.List(r.Context(), filter)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, toResponseList(txs))
}

// target resolves the caller's company and the {id} path parameter.
func target(r *http.Request) (int64, uuid.UUID, error) {
	companyID, err := render.Company(r)
	if err != nil {
		return 0, uuid.Nil, err
	}

	id, err := render.UUIDParam(r, "id")
	if err != nil {
		return 0, uuid.Nil, err
	}

	return companyID, id, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	companyID, id, err := target(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	tx, err := h.ledger.Get(r.Context(), companyID, id)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, toResponse(tx))
}

type updateTransactionRequest struct {
	CashierID     *int64                     `json:"cashier_id,omitempty" validate:"omitempty,gt=0"`
	Date          *time.Time                 `json:"date,omitempty"`
	Discount      *int64                     `json:"discount,omitempty" validate:"omitempty,gte=0"`
	PaymentMethod *transaction.PaymentMethod `json:"payment_method,omitempty" validate:"omitempty,oneof=cash card transfer qr"`
	Status        *transaction.Status        `json:"status,omitempty" validate:"omitempty,oneof=open paid cancelled"`
	CustomerName  *string                    `json:"customer_name,omitempty" validate:"omitempty,max=255"`
	TableNumber   *string                    `json:"table_number,omitempty" validate:"omitempty,max=32"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	companyID, id, err := target(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	var req updateTransactionRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	tx, err := h.ledger.Update(r.Context(), companyID, id, transaction.UpdateParams{
		CashierID:     req.CashierID,
		Date:          req.Date,
		Discount:      req.Discount,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		CustomerName:  req.CustomerName,
		TableNumber:   req.TableNumber,
	})
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	companyID, id, err := target(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	if err := h.ledger.Delete(r.Context(), companyID, id); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type addItemsRequest struct {
	Items []itemRequest `json:"items" validate:"required,min=1,dive"`
}

func (h *Handler) addItems(w http.ResponseWriter, r *http.Request) {
	companyID, id, err := target(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	var req addItemsRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	specs := make([]transaction.ItemSpec, len(req.Items))
	for i, it := range req.Items {
		specs[i] = it.spec()
	}

	items, err := h.ledger.AddItems(r.Context(), companyID, id, specs)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusCreated, toItemResponseList(items))
}

type itemUpdateRequest struct {
	ID              uuid.UUID                    `json:"id" validate:"required"`
	MenuID          *int64                       `json:"menu_id,omitempty" validate:"omitempty,gt=0"`
	Quantity        *int64                       `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	PricingCategory *transaction.PricingCategory `json:"pricing_category,omitempty" validate:"omitempty,oneof=base online"`
}

type updateItemsRequest struct {
	Items []itemUpdateRequest `json:"items" validate:"required,min=1,dive"`
}

func (h *Handler) updateItems(w http.ResponseWriter, r *http.Request) {
	companyID, id, err := target(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	var req updateItemsRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	updates := make([]transaction.ItemUpdate, len(req.Items))
	for i, it := range req.Items {
		updates[i] = transaction.ItemUpdate{
			ID:              it.ID,
			MenuID:          it.MenuID,
			Quantity:        it.Quantity,
			PricingCategory: it.PricingCategory,
		}
	}

	items, err := h.ledger.UpdateItems(r.Context(), companyID, id, updates)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, toItemResponseList(items))
}

type deleteItemsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

func (h *Handler) deleteItems(w http.ResponseWriter, r *http.Request) {
	companyID, id, err := target(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	var req deleteItemsRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	if err := h.ledger.DeleteItems(r.Context(), companyID, id, req.IDs); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	companyID, id, err := target(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	res, err := h.gate.Complete(r.Context(), companyID, id)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	if !res.AlreadyCompleted {
		h.logger.Info("transaction completed",
			zap.Int64("company_id", companyID),
			zap.Stringer("transaction_id", id),
		)
	}

	render.JSON(w, h.logger, http.StatusOK, toCompleteResponse(res))
}

func (h *Handler) void(w http.ResponseWriter, r *http.Request) {
	companyID, id, err := target(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	reversal, err := h.gate.Void(r.Context(), companyID, id)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	h.logger.Info("transaction voided",
		zap.Int64("company_id", companyID),
		zap.Stringer("transaction_id", id),
		zap.String("business_date", reversal.BusinessDate.Format(time.DateOnly)),
	)

	render.JSON(w, h.logger, http.StatusOK, toVoidResponse(reversal))
}
