/*
rates.go - Built-in Portuguese reference tables

PURPOSE:
  Provides the statutory late-payment interest schedules for each legal
  category and the currency update coefficient table. These are the tables
  the engine uses when no operator-maintained database is configured.

AVAILABLE TABLES:
  Civil:        Juros civis (art. 559º C.C.), 4% since Portaria 291/2003
  Commercial3:  §3 art. 102º C. Comercial, published each semester
  Commercial5:  §5 art. 102º C. Comercial, one point below §3
  StateRates:   Juros de mora devidos ao Estado (DL 73/99), published yearly
  Devaluation:  Coeficientes de atualização monetária, 1903-2015

TABLE SHAPE:
  Semester rates are published with a closed end date; the last published
  semester therefore ends on a known date and the engine extrapolates it
  until a newer rate is added. The civil rate has no end date.

  Consecutive entries follow the publications: one ends on the last day of a
  semester, the next starts on the first day of the following one.

UPDATING:
  A newly published rate is appended to the matching table below, or loaded
  at runtime through factory.ParseSchedule + the SQLite store
  (`juros tables import`).

SEE ALSO:
  - calc/schedule.go: Schedule type and validation
  - calc/devaluation.go: DevaluationTable
  - factory/tables.go: JSON/YAML table documents
*/
package rates

import (
	"github.com/warp/juros-engine/calc"
	"github.com/warp/juros-engine/calc/store"
)

// Schedules returns a fresh copy of every built-in schedule.
func Schedules() map[calc.Category]calc.Schedule {
	return map[calc.Category]calc.Schedule{
		calc.Civil:           Civil(),
		calc.CommercialRateA: Commercial3(),
		calc.CommercialRateB: Commercial5(),
		calc.State:           StateRates(),
	}
}

// NewEngine returns an engine over the built-in schedules.
func NewEngine() *calc.Engine {
	return calc.NewEngine(Schedules())
}

// NewStore returns an in-memory table store holding the built-in tables.
func NewStore() *store.Memory {
	return store.NewMemory(Schedules(), Devaluation())
}

func entry(from, to, rate string) calc.RateEntry {
	e := calc.RateEntry{
		EffectiveFrom:     calc.MustParseDate(from),
		AnnualRatePercent: calc.MustParseDecimal(rate),
	}
	if to != "" {
		end := calc.MustParseDate(to)
		e.EffectiveTo = &end
	}
	return e
}
