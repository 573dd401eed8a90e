package analytics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/analytics"
	"github.com/MrJamesThe3rd/tillpoint/internal/http/render"
)

type Handler struct {
	svc    *analytics.Service
	logger *zap.Logger
}

func NewHandler(svc *analytics.Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/daily", h.daily)
	r.Get("/daily/summary", h.dailySummary)
	r.Get("/hourly", h.hourly)
	r.Get("/hourly/summary", h.hourlySummary)
	r.Get("/items", h.items)
	r.Get("/items/summary", h.itemsSummary)
	r.Get("/items/top", h.topItems)
}

// Filter builds the rollup filter from the caller's token and the branch_id,
// menu_id, start_date and end_date query parameters.
func Filter(r *http.Request) (analytics.Filter, error) {
	companyID, err := render.Company(r)
	if err != nil {
		return analytics.Filter{}, err
	}

	f := analytics.Filter{CompanyID: companyID}

	if f.BranchID, err = render.QueryInt64(r, "branch_id"); err != nil {
		return analytics.Filter{}, err
	}

	if f.MenuID, err = render.QueryInt64(r, "menu_id"); err != nil {
		return analytics.Filter{}, err
	}

	if f.StartDate, err = render.QueryDate(r, "start_date"); err != nil {
		return analytics.Filter{}, err
	}

	if f.EndDate, err = render.QueryDate(r, "end_date"); err != nil {
		return analytics.Filter{}, err
	}

	return f, nil
}

// serve parses the filter, runs query and writes its result.
func serve[T any](h *Handler, w http.ResponseWriter, r *http.Request, query func(analytics.Filter) (T, error)) {
	f, err := Filter(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	result, err := query(f)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, result)
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(f analytics.Filter) ([]analytics.DailyRow, error) {
		return h.svc.Daily(r.Context(), f)
	})
}

func (h *Handler) dailySummary(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(f analytics.Filter) (analytics.Summary, error) {
		return h.svc.DailySummary(r.Context(), f)
	})
}

func (h *Handler) hourly(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(f analytics.Filter) ([]analytics.HourlyRow, error) {
		return h.svc.Hourly(r.Context(), f)
	})
}

func (h *Handler) hourlySummary(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(f analytics.Filter) (analytics.Summary, error) {
		return h.svc.HourlySummary(r.Context(), f)
	})
}

func (h *Handler) items(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(f analytics.Filter) ([]analytics.ItemDailyRow, error) {
		return h.svc.ItemDaily(r.Context(), f)
	})
}

func (h *Handler) itemsSummary(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, func(f analytics.Filter) (analytics.ItemSummary, error) {
		return h.svc.ItemDailySummary(r.Context(), f)
	})
}

func (h *Handler) topItems(w http.ResponseWriter, r *http.Request) {
	limit, err := render.QueryInt64(r, "limit")
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	serve(h, w, r, func(f analytics.Filter) ([]analytics.TopItem, error) {
		n := 0
		if limit != nil {
			n = int(*limit)
		}

		return h.svc.TopItems(r.Context(), f, n)
	})
}
