package pricing

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/http/render"
	"github.com/MrJamesThe3rd/tillpoint/internal/importer"
	"github.com/MrJamesThe3rd/tillpoint/internal/pricing"
)

const maxUploadSize = 10 << 20

type Handler struct {
	prices   *pricing.Service
	importer *importer.Service
	logger   *zap.Logger
	// writers guards PUT and import; reads are open to every role.
	writers func(http.Handler) http.Handler
}

func NewHandler(prices *pricing.Service, imp *importer.Service, writers func(http.Handler) http.Handler, logger *zap.Logger) *Handler {
	return &Handler{prices: prices, importer: imp, writers: writers, logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{branch}/{menu}", h.get)

	r.Group(func(r chi.Router) {
		if h.writers != nil {
			r.Use(h.writers)
		}

		r.Put("/{branch}/{menu}", h.put)
		r.Post("/import", h.importCSV)
	})
}

type priceResponse struct {
	MenuID      int64     `json:"menu_id"`
	BranchID    int64     `json:"branch_id"`
	BasePrice   int64     `json:"base_price"`
	OnlinePrice int64     `json:"online_price"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toResponse(p *pricing.Price) priceResponse {
	return priceResponse{
		MenuID:      p.MenuID,
		BranchID:    p.BranchID,
		BasePrice:   p.BasePrice,
		OnlinePrice: p.OnlinePrice,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	companyID, err := render.Company(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	branchID, err := render.QueryInt64(r, "branch_id")
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	prices, err := h.prices.List(r.Context(), companyID, branchID)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	resp := make([]priceResponse, len(prices))
	for i, p := range prices {
		resp[i] = toResponse(p)
	}

	render.JSON(w, h.logger, http.StatusOK, resp)
}

// key reads the caller's company and the {branch}/{menu} path.
func key(r *http.Request) (companyID, branchID, menuID int64, err error) {
	if companyID, err = render.Company(r); err != nil {
		return 0, 0, 0, err
	}

	if branchID, err = render.Int64Param(r, "branch"); err != nil {
		return 0, 0, 0, err
	}

	if menuID, err = render.Int64Param(r, "menu"); err != nil {
		return 0, 0, 0, err
	}

	return companyID, branchID, menuID, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	companyID, branchID, menuID, err := key(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	p, err := h.prices.Get(r.Context(), companyID, branchID, menuID)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, toResponse(p))
}

type putPriceRequest struct {
	BasePrice   int64  `json:"base_price" validate:"gte=0"`
	OnlinePrice *int64 `json:"online_price,omitempty" validate:"omitempty,gte=0"`
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	companyID, branchID, menuID, err := key(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	var req putPriceRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	online := req.BasePrice
	if req.OnlinePrice != nil {
		online = *req.OnlinePrice
	}

	p, err := h.prices.Upsert(r.Context(), companyID, pricing.UpsertParams{
		MenuID:      menuID,
		BranchID:    branchID,
		BasePrice:   req.BasePrice,
		OnlinePrice: online,
	})
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, toResponse(p))
}

type importResponse struct {
	Imported int `json:"imported"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	companyID, err := render.Company(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		render.Error(w, r, h.logger, fmt.Errorf("%w: parsing form: %w", render.ErrBadRequest, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Error(w, r, h.logger, fmt.Errorf("%w: file is required", render.ErrBadRequest))
		return
	}
	defer file.Close()

	params, err := h.importer.Import(importer.Format(r.FormValue("format")), file)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	n, err := h.prices.Import(r.Context(), companyID, params)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	h.logger.Info("price list imported",
		zap.Int64("company_id", companyID),
		zap.String("file", header.Filename),
		zap.Int("prices", n),
	)

	render.JSON(w, h.logger, http.StatusOK, importResponse{Imported: n})
}
