/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the calc model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY AND DATES:
  Every currency amount is a string with exactly two decimals ("1001.10") so
  clients never round-trip cents through a float. Rates and coefficients are
  decimal strings. Dates are YYYY-MM-DD.

  Principals are accepted either as JSON numbers or as decimal strings.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/tables.go: ScheduleDocument / DevaluationDocument (table endpoints)
*/
package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/warp/juros-engine/calc"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// InterestRequest is the body of POST /api/interest.
type InterestRequest struct {
	Category string        `json:"category"`
	EndDate  string        `json:"end_date,omitempty"` // today when omitted
	Debts    []DebtRequest `json:"debts"`
}

// DebtRequest is one debt to price. A missing ID is generated.
type DebtRequest struct {
	ID        string      `json:"id,omitempty"`
	Principal json.Number `json:"principal"`
	DueDate   string      `json:"due_date"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// CategoryDTO describes one interest category.
type CategoryDTO struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Entries     int     `json:"entries"`
	CurrentRate string  `json:"current_rate,omitempty"`
	RatesUntil  *string `json:"rates_until,omitempty"` // nil when the last entry is open-ended
}

// InterestResponse is the result of POST /api/interest.
type InterestResponse struct {
	Category      string          `json:"category"`
	CategoryLabel string          `json:"category_label"`
	EndDate       string          `json:"end_date"`
	Results       []DebtResultDTO `json:"results"`
	TotalCapital  string          `json:"total_capital"`
	TotalInterest string          `json:"total_interest"`
	GrandTotal    string          `json:"grand_total"`
}

// DebtResultDTO is one debt's breakdown.
type DebtResultDTO struct {
	ID            string       `json:"id"`
	Principal     string       `json:"principal"`
	DueDate       string       `json:"due_date"`
	Days          int          `json:"days"`
	Segments      []SegmentDTO `json:"segments"`
	TotalInterest string       `json:"total_interest"`
	TotalValue    string       `json:"total_value"`
}

// SegmentDTO is one constant-rate span.
type SegmentDTO struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	Rate         string `json:"rate"`
	Days         int    `json:"days"`
	Interest     string `json:"interest"`
	Extrapolated bool   `json:"extrapolated,omitempty"`
}

// CoefficientDTO is the result of GET /api/devaluation.
type CoefficientDTO struct {
	Year          int     `json:"year"`
	ReferenceYear int     `json:"reference_year"`
	Coefficient   string  `json:"coefficient"`
	Value         *string `json:"value,omitempty"`
	UpdatedValue  *string `json:"updated_value,omitempty"`
}

// HealthDTO is the body of GET /healthz.
type HealthDTO struct {
	Status     string `json:"status"`
	Categories int    `json:"categories"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func money(d decimal.Decimal) string {
	return d.StringFixed(calc.CentPlaces)
}

// FormatCoefficient prints a coefficient with at least two decimals, keeping
// extra precision when a table carries it.
func FormatCoefficient(d decimal.Decimal) string {
	if d.Exponent() < -calc.CentPlaces {
		return d.String()
	}
	return d.StringFixed(calc.CentPlaces)
}

func toDebtResultDTO(r calc.CalculationResult) DebtResultDTO {
	dto := DebtResultDTO{
		ID:            r.Debt.ID,
		Principal:     money(r.Debt.Principal),
		DueDate:       r.Debt.DueDate.String(),
		Days:          r.Days(),
		Segments:      make([]SegmentDTO, len(r.Segments)),
		TotalInterest: money(r.TotalInterest),
		TotalValue:    money(r.TotalValue),
	}
	for i, s := range r.Segments {
		dto.Segments[i] = SegmentDTO{
			Start:        s.Start.String(),
			End:          s.End.String(),
			Rate:         s.RatePercent.String(),
			Days:         s.Days,
			Interest:     money(s.Interest),
			Extrapolated: s.Extrapolated,
		}
	}
	return dto
}

// NewInterestResponse converts a priced batch to its wire form.
func NewInterestResponse(b calc.Batch) InterestResponse {
	resp := InterestResponse{
		Category:      b.Category.String(),
		CategoryLabel: b.Category.Label(),
		EndDate:       b.EndDate.String(),
		Results:       make([]DebtResultDTO, len(b.Results)),
		TotalCapital:  money(b.TotalCapital),
		TotalInterest: money(b.TotalInterest),
		GrandTotal:    money(b.GrandTotal),
	}
	for i, r := range b.Results {
		resp.Results[i] = toDebtResultDTO(r)
	}
	return resp
}

func toCategoryDTO(c calc.Category, s calc.Schedule) CategoryDTO {
	dto := CategoryDTO{ID: c.String(), Label: c.Label(), Entries: len(s)}
	if last, ok := s.Last(); ok {
		dto.CurrentRate = last.AnnualRatePercent.String()
		if last.EffectiveTo != nil {
			until := last.EffectiveTo.String()
			dto.RatesUntil = &until
		}
	}
	return dto
}
