// Package render writes JSON responses and maps domain errors onto HTTP
// status codes for every handler.
package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/analytics"
	"github.com/MrJamesThe3rd/tillpoint/internal/auth"
	"github.com/MrJamesThe3rd/tillpoint/internal/completion"
	"github.com/MrJamesThe3rd/tillpoint/internal/expense"
	"github.com/MrJamesThe3rd/tillpoint/internal/importer"
	"github.com/MrJamesThe3rd/tillpoint/internal/importer/pricebook"
	"github.com/MrJamesThe3rd/tillpoint/internal/pricing"
	"github.com/MrJamesThe3rd/tillpoint/internal/report"
	"github.com/MrJamesThe3rd/tillpoint/internal/transaction"
)

// ErrBadRequest marks malformed input caught before reaching a service.
var ErrBadRequest = errors.New("bad request")

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorBody struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Retryable bool              `json:"retryable"`
	Details   map[string]string `json:"details,omitempty"`
}

type class struct {
	status    int
	code      string
	retryable bool
}

// classes is checked in order; the first sentinel err wraps wins.
var classes = []struct {
	target error
	class  class
}{
	{completion.ErrAggregation, class{http.StatusServiceUnavailable, "aggregation_failed", true}},
	{auth.ErrInvalidToken, class{http.StatusUnauthorized, "unauthorized", false}},
	{auth.ErrNoClaims, class{http.StatusUnauthorized, "unauthorized", false}},
	{auth.ErrForbidden, class{http.StatusForbidden, "forbidden", false}},
	{ErrBadRequest, class{http.StatusBadRequest, "validation_error", false}},
	{transaction.ErrValidation, class{http.StatusBadRequest, "validation_error", false}},
	{completion.ErrNoItems, class{http.StatusBadRequest, "validation_error", false}},
	{analytics.ErrValidation, class{http.StatusBadRequest, "validation_error", false}},
	{pricing.ErrValidation, class{http.StatusBadRequest, "validation_error", false}},
	{expense.ErrValidation, class{http.StatusBadRequest, "validation_error", false}},
	{importer.ErrUnknownFormat, class{http.StatusBadRequest, "validation_error", false}},
	{pricebook.ErrNoProfile, class{http.StatusBadRequest, "validation_error", false}},
	{pricebook.ErrInvalidRow, class{http.StatusBadRequest, "validation_error", false}},
	{transaction.ErrPriceNotFound, class{http.StatusNotFound, "price_not_found", false}},
	{transaction.ErrNotFound, class{http.StatusNotFound, "not_found", false}},
	{transaction.ErrItemNotFound, class{http.StatusNotFound, "not_found", false}},
	{pricing.ErrNotFound, class{http.StatusNotFound, "not_found", false}},
	{pricing.ErrUnknownReference, class{http.StatusNotFound, "not_found", false}},
	{transaction.ErrAlreadyCompleted, class{http.StatusConflict, "already_completed", false}},
	{completion.ErrNotCompleted, class{http.StatusConflict, "not_completed", false}},
	{transaction.ErrConstraintViolation, class{http.StatusConflict, "constraint_violation", false}},
	{expense.ErrConstraintViolation, class{http.StatusConflict, "constraint_violation", false}},
	{report.ErrRenderUnavailable, class{http.StatusServiceUnavailable, "report_unavailable", false}},
	{context.DeadlineExceeded, class{http.StatusGatewayTimeout, "timeout", true}},
}

func classify(err error) class {
	for _, c := range classes {
		if errors.Is(err, c.target) {
			return c.class
		}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return class{http.StatusBadRequest, "validation_error", false}
	}

	return class{http.StatusInternalServerError, "internal_error", false}
}

// Status reports the HTTP status err is rendered with.
func Status(err error) int {
	return classify(err).status
}

func JSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// Error renders err in the error envelope. Server-side failures are logged
// and their message hidden from the client.
func Error(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	c := classify(err)

	body := apiError{
		Code:      c.code,
		Message:   err.Error(),
		Retryable: c.retryable,
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		body.Details = make(map[string]string, len(verrs))
		for _, fe := range verrs {
			body.Details[fe.Field()] = fe.Tag()
		}
	}

	if c.status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", c.status),
			zap.Error(err),
		)

		if c.status == http.StatusInternalServerError {
			body.Message = http.StatusText(c.status)
		}
	}

	JSON(w, logger, c.status, errorBody{Error: body})
}

// Decode reads a JSON body into dst and runs its validate tags.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: decoding body: %w", ErrBadRequest, err)
	}

	if err := validate.Struct(dst); err != nil {
		return err
	}

	return nil
}

// Company is the tenant of the authenticated caller.
func Company(r *http.Request) (int64, error) {
	claims, err := auth.FromContext(r.Context())
	if err != nil {
		return 0, err
	}

	return claims.CompanyID, nil
}

func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", ErrBadRequest, name)
	}

	return id, nil
}

func Int64Param(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", ErrBadRequest, name)
	}

	return v, nil
}

// QueryInt64 returns nil when the parameter is absent.
func QueryInt64(r *http.Request, name string) (*int64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, name)
	}

	return &v, nil
}

func QueryBool(r *http.Request, name string) (*bool, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", ErrBadRequest, name)
	}

	return &v, nil
}

// QueryDate parses a YYYY-MM-DD parameter.
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", ErrBadRequest, name)
	}

	return &t, nil
}
