/*
handlers.go - HTTP API handlers for the interest and devaluation calculators

PURPOSE:
  Exposes calc.Engine and calc.DevaluationTable via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the calc package.

ENDPOINTS:
  Categories:
    GET    /api/categories                    List categories with labels
    GET    /api/categories/{category}/rates   Rate schedule of one category

  Interest:
    POST   /api/interest                      Price a batch of debts

  Devaluation:
    GET    /api/devaluation?year=Y[&value=V]  Coefficient (and updated value)
    GET    /api/devaluation/table             Full coefficient table

ARCHITECTURE:
  Handler holds the tables loaded once at startup. Nothing here mutates
  them, so handlers run concurrently without locking.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed dates, amounts, unknown categories (calc.IsClientError)
  - 404: Unknown category in the path
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/warp/juros-engine/calc"
	"github.com/warp/juros-engine/factory"
	"github.com/warp/juros-engine/metrics"
	"go.uber.org/zap"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine      *calc.Engine
	Devaluation calc.DevaluationTable
	Logger      *zap.Logger
	Metrics     *metrics.Metrics

	// Today supplies the default end date; overridden in tests.
	Today func() calc.Date
	// NewID names debts submitted without an id.
	NewID func() string
}

// NewHandler creates a new handler over the loaded tables.
func NewHandler(engine *calc.Engine, table calc.DevaluationTable, logger *zap.Logger, m *metrics.Metrics) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Engine:      engine,
		Devaluation: table,
		Logger:      logger,
		Metrics:     m,
		Today:       calc.Today,
		NewID:       uuid.NewString,
	}
}

// =============================================================================
// CATEGORY HANDLERS
// =============================================================================

// ListCategories returns every category with its label and current rate.
// GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	dtos := make([]CategoryDTO, 0, len(calc.Categories))
	for _, c := range calc.Categories {
		s, _ := h.Engine.Schedule(c)
		dtos = append(dtos, toCategoryDTO(c, s))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCategoryRates returns one category's schedule.
// GET /api/categories/{category}/rates
func (h *Handler) GetCategoryRates(w http.ResponseWriter, r *http.Request) {
	c, err := calc.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		h.fail(w, r, http.StatusNotFound, "Unknown category", err)
		return
	}
	s, _ := h.Engine.Schedule(c)
	writeJSON(w, http.StatusOK, factory.ScheduleToDocument(c, s))
}

// =============================================================================
// INTEREST HANDLERS
// =============================================================================

// CalculateInterest prices a batch of debts.
// POST /api/interest
func (h *Handler) CalculateInterest(w http.ResponseWriter, r *http.Request) {
	var req InterestRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		h.fail(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	category, end, debts, err := h.parseInterestRequest(req)
	if err != nil {
		h.fail(w, r, errorStatus(err), "Invalid interest request", err)
		return
	}

	started := time.Now()
	batch := h.Engine.AccrueAll(debts, end, category)
	took := time.Since(started)

	if h.Metrics != nil {
		h.Metrics.ObserveBatch(batch, took)
	}
	h.Logger.Debug("interest calculated",
		zap.String("op", "api.CalculateInterest"),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Stringer("category", category),
		zap.Stringer("end_date", end),
		zap.Int("debts", len(debts)),
		zap.String("total_interest", money(batch.TotalInterest)),
		zap.Duration("took", took),
	)

	writeJSON(w, http.StatusOK, NewInterestResponse(batch))
}

func (h *Handler) parseInterestRequest(req InterestRequest) (calc.Category, calc.Date, []calc.Debt, error) {
	category, err := calc.ParseCategory(req.Category)
	if err != nil {
		return 0, calc.Date{}, nil, err
	}

	end := h.Today()
	if req.EndDate != "" {
		if end, err = calc.ParseDate(req.EndDate); err != nil {
			return 0, calc.Date{}, nil, fmt.Errorf("end_date: %w", err)
		}
	}

	debts := make([]calc.Debt, len(req.Debts))
	for i, d := range req.Debts {
		principal, err := calc.ParseAmount(d.Principal.String())
		if err != nil {
			return 0, calc.Date{}, nil, fmt.Errorf("debts[%d].principal: %w", i, err)
		}
		due, err := calc.ParseDate(d.DueDate)
		if err != nil {
			return 0, calc.Date{}, nil, fmt.Errorf("debts[%d].due_date: %w", i, err)
		}
		id := d.ID
		if id == "" {
			id = h.NewID()
		}
		debts[i] = calc.Debt{ID: id, Principal: principal, DueDate: due}
	}
	return category, end, debts, nil
}

// =============================================================================
// DEVALUATION HANDLERS
// =============================================================================

// GetCoefficient returns the coefficient for a year and, when value is
// given, the value updated to the reference year.
// GET /api/devaluation?year=1974&value=100
func (h *Handler) GetCoefficient(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, "year must be an integer", err)
		return
	}

	started := time.Now()
	coef := h.Devaluation.CoefficientFor(year)
	if h.Metrics != nil {
		h.Metrics.ObserveLookup(h.Devaluation, year, time.Since(started))
	}

	dto := CoefficientDTO{
		Year:          year,
		ReferenceYear: h.Devaluation.ReferenceYear,
		Coefficient:   FormatCoefficient(coef),
	}
	if raw := q.Get("value"); raw != "" {
		value, err := calc.ParseAmount(raw)
		if err != nil {
			h.fail(w, r, http.StatusBadRequest, "Invalid value", err)
			return
		}
		v := money(value)
		updated := money(h.Devaluation.UpdatedValue(value, year))
		dto.Value = &v
		dto.UpdatedValue = &updated
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetDevaluationTable returns the full coefficient table.
// GET /api/devaluation/table
func (h *Handler) GetDevaluationTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, factory.DevaluationToDocument(h.Devaluation))
}

// Health reports readiness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	count := 0
	for _, c := range calc.Categories {
		if _, ok := h.Engine.Schedule(c); ok {
			count++
		}
	}
	writeJSON(w, http.StatusOK, HealthDTO{Status: "ok", Categories: count})
}

// =============================================================================
// HELPERS
// =============================================================================

// fail logs, counts and writes an error response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	code := errorCode(err)
	if h.Metrics != nil {
		h.Metrics.Errors.WithLabelValues(code).Inc()
	}

	fields := []zap.Field{
		zap.String("op", "api"),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Error(message, fields...)
	} else {
		h.Logger.Warn(message, fields...)
	}

	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func errorStatus(err error) int {
	switch {
	case calc.IsNotFound(err):
		return http.StatusNotFound
	case calc.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, calc.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, calc.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, calc.ErrUnknownCategory):
		return "unknown_category"
	case calc.IsNotFound(err):
		return "not_found"
	case calc.IsClientError(err):
		return "invalid_table"
	default:
		return "invalid_request"
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
