package calc

import "github.com/shopspring/decimal"

// =============================================================================
// BATCH - Several debts priced against the same end date and category
// =============================================================================

// Batch holds per-debt results in input order plus their aggregate totals.
type Batch struct {
	Category      Category
	EndDate       Date
	Results       []CalculationResult
	TotalCapital  decimal.Decimal
	TotalInterest decimal.Decimal
	GrandTotal    decimal.Decimal
}

// AccrueAll runs Accrue for every debt and sums principal, interest and
// total value. Each addend is already rounded to cents, so the sums are exact.
func (e *Engine) AccrueAll(debts []Debt, end Date, category Category) Batch {
	b := Batch{
		Category:      category,
		EndDate:       end,
		Results:       make([]CalculationResult, 0, len(debts)),
		TotalCapital:  decimal.Zero,
		TotalInterest: decimal.Zero,
		GrandTotal:    decimal.Zero,
	}
	for _, d := range debts {
		b.add(e.Accrue(d, end, category))
	}
	return b
}

func (b *Batch) add(r CalculationResult) {
	b.Results = append(b.Results, r)
	b.TotalCapital = b.TotalCapital.Add(r.Debt.Principal)
	b.TotalInterest = b.TotalInterest.Add(r.TotalInterest)
	b.GrandTotal = b.GrandTotal.Add(r.TotalValue)
}
