package expense

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/expense"
	"github.com/MrJamesThe3rd/tillpoint/internal/http/render"
)

type Handler struct {
	svc    *expense.Service
	logger *zap.Logger
}

func NewHandler(svc *expense.Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/sum", h.sum)
	r.Get("/daily", h.daily)
}

type createExpenseRequest struct {
	BranchID    int64  `json:"branch_id" validate:"required,gt=0"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Amount      int64  `json:"amount" validate:"gte=0"`
	Category    string `json:"category" validate:"required,max=64"`
	Description string `json:"description" validate:"max=500"`
}

type expenseResponse struct {
	ID          uuid.UUID `json:"id"`
	BranchID    int64     `json:"branch_id"`
	Date        string    `json:"date"`
	Amount      int64     `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	companyID, err := render.Company(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	var req createExpenseRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	// Format already checked by the datetime tag.
	date, _ := time.Parse(time.DateOnly, req.Date)

	e, err := h.svc.Create(r.Context(), expense.CreateParams{
		CompanyID:   companyID,
		BranchID:    req.BranchID,
		Date:        date,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusCreated, expenseResponse{
		ID:          e.ID,
		BranchID:    e.BranchID,
		Date:        e.Date.Format(time.DateOnly),
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	})
}

func filter(r *http.Request) (expense.Filter, error) {
	companyID, err := render.Company(r)
	if err != nil {
		return expense.Filter{}, err
	}

	f := expense.Filter{CompanyID: companyID}

	branchID, err := render.QueryInt64(r, "branch_id")
	if err != nil {
		return expense.Filter{}, err
	}

	if branchID != nil {
		f.BranchID = *branchID
	}

	if f.StartDate, err = render.QueryDate(r, "start_date"); err != nil {
		return expense.Filter{}, err
	}

	if f.EndDate, err = render.QueryDate(r, "end_date"); err != nil {
		return expense.Filter{}, err
	}

	return f, nil
}

type sumResponse struct {
	BranchID int64 `json:"branch_id"`
	Total    int64 `json:"total"`
}

func (h *Handler) sum(w http.ResponseWriter, r *http.Request) {
	f, err := filter(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	total, err := h.svc.Sum(r.Context(), f)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, sumResponse{BranchID: f.BranchID, Total: total})
}

type dailyResponse struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	f, err := filter(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	totals, err := h.svc.Daily(r.Context(), f)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	resp := make([]dailyResponse, len(totals))
	for i, t := range totals {
		resp[i] = dailyResponse{Date: t.Date.Format(time.DateOnly), Amount: t.Amount}
	}

	render.JSON(w, h.logger, http.StatusOK, resp)
}
