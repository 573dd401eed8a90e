package report

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	httpanalytics "github.com/MrJamesThe3rd/tillpoint/internal/http/analytics"
	"github.com/MrJamesThe3rd/tillpoint/internal/http/render"
	"github.com/MrJamesThe3rd/tillpoint/internal/report"
)

type Handler struct {
	svc    *report.Service
	logger *zap.Logger
	now    func() time.Time
}

func NewHandler(svc *report.Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/sales", h.sales)
	r.Get("/sales.xlsx", h.xlsx)
	r.Get("/sales.pdf", h.pdf)
}

func (h *Handler) sales(w http.ResponseWriter, r *http.Request) {
	f, err := httpanalytics.Filter(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	sales, err := h.svc.Sales(r.Context(), f)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	render.JSON(w, h.logger, http.StatusOK, sales)
}

func (h *Handler) xlsx(w http.ResponseWriter, r *http.Request) {
	f, err := httpanalytics.Filter(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	book, err := h.svc.Workbook(r.Context(), f)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}
	defer book.Close()

	// Buffered so a write failure can still be reported as an error body.
	buf, err := book.WriteToBuffer()
	if err != nil {
		render.Error(w, r, h.logger, fmt.Errorf("writing workbook: %w", err))
		return
	}

	h.attach(w, report.ContentTypeXLSX, "xlsx", buf.Bytes())
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	f, err := httpanalytics.Filter(r)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	pdf, err := h.svc.RenderPDF(r.Context(), f)
	if err != nil {
		render.Error(w, r, h.logger, err)
		return
	}

	h.attach(w, report.ContentTypePDF, "pdf", pdf)
}

func (h *Handler) attach(w http.ResponseWriter, contentType, ext string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"sales_%s.%s\"", h.now().Format("20060102"), ext))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(body); err != nil {
		h.logger.Warn("failed to write report", zap.Error(err))
	}
}
