/*
Package factory provides JSON/YAML to Go reference table conversion.

PURPOSE:
  Converts table documents into calc.Schedule and calc.DevaluationTable
  values, and back. This lets an operator load a newly published semester
  rate (or a corrected coefficient) without a code change.

JSON SCHEMA:
  {
    "schedules": [
      {
        "category": "COMMERCIAL_3",
        "entries": [
          {"effective_from": "2025-07-01", "effective_to": "2025-12-31", "rate": "10.15"},
          {"effective_from": "2026-01-01", "effective_to": "2026-06-30", "rate": "10.00"}
        ]
      }
    ],
    "devaluation": {
      "first_year": 1903,
      "reference_year": 2015,
      "ranges": [
        {"max_year": 1903, "coefficient": "4631.11"},
        {"min_year": 1904, "max_year": 1910, "coefficient": "4418.32"}
      ]
    }
  }

  The same document in YAML uses the same keys. Rates and coefficients are
  decimal strings so no precision is lost on the way in.

KEY FEATURES:
  - Both sections are optional; a document may carry one schedule only
  - Every table is validated (calc.Schedule.Validate, DevaluationTable.Validate)
  - Errors name the category and row that failed

USAGE:
  f := factory.NewTableFactory()
  tables, err := f.Parse(data, factory.FormatYAML)
  for c, s := range tables.Schedules {
      store.ReplaceSchedule(ctx, c, s)
  }

SEE ALSO:
  - calc/schedule.go: Schedule definition
  - rates/: Built-in tables
  - cmd/juros/tables.go: `juros tables import`
*/
package factory

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/warp/juros-engine/calc"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DOCUMENT SCHEMA TYPES
// =============================================================================

// TablesDocument is the serialized form of a set of reference tables.
type TablesDocument struct {
	Schedules   []ScheduleDocument   `json:"schedules,omitempty" yaml:"schedules,omitempty"`
	Devaluation *DevaluationDocument `json:"devaluation,omitempty" yaml:"devaluation,omitempty"`
}

// ScheduleDocument is one category's rate history.
type ScheduleDocument struct {
	Category string          `json:"category" yaml:"category"`
	Label    string          `json:"label,omitempty" yaml:"label,omitempty"`
	Entries  []RateEntryJSON `json:"entries" yaml:"entries"`
}

// RateEntryJSON is one schedule row. An empty EffectiveTo is open-ended.
type RateEntryJSON struct {
	EffectiveFrom string `json:"effective_from" yaml:"effective_from"`
	EffectiveTo   string `json:"effective_to,omitempty" yaml:"effective_to,omitempty"`
	Rate          string `json:"rate" yaml:"rate"`
}

// DevaluationDocument is the coefficient table.
type DevaluationDocument struct {
	FirstYear     int         `json:"first_year" yaml:"first_year"`
	ReferenceYear int         `json:"reference_year" yaml:"reference_year"`
	Ranges        []RangeJSON `json:"ranges" yaml:"ranges"`
}

// RangeJSON is one coefficient row. Missing bounds are unbounded.
type RangeJSON struct {
	MinYear     *int   `json:"min_year,omitempty" yaml:"min_year,omitempty"`
	MaxYear     *int   `json:"max_year,omitempty" yaml:"max_year,omitempty"`
	Coefficient string `json:"coefficient" yaml:"coefficient"`
}

// Tables is the parsed, validated content of a document.
type Tables struct {
	Schedules   map[calc.Category]calc.Schedule
	Devaluation *calc.DevaluationTable
}

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Anything that is not
// .yaml/.yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// =============================================================================
// TABLE FACTORY
// =============================================================================

// TableFactory converts table documents to calc tables.
type TableFactory struct{}

// NewTableFactory creates a new table factory.
func NewTableFactory() *TableFactory {
	return &TableFactory{}
}

// Parse decodes and validates a document.
func (f *TableFactory) Parse(data []byte, format Format) (*Tables, error) {
	var doc TablesDocument
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse tables YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse tables JSON: %w", err)
		}
	}
	return f.FromDocument(doc)
}

// FromDocument converts a decoded document to validated tables.
func (f *TableFactory) FromDocument(doc TablesDocument) (*Tables, error) {
	tables := &Tables{Schedules: make(map[calc.Category]calc.Schedule, len(doc.Schedules))}

	for _, sd := range doc.Schedules {
		category, schedule, err := f.ParseSchedule(sd)
		if err != nil {
			return nil, err
		}
		if _, dup := tables.Schedules[category]; dup {
			return nil, fmt.Errorf("%w: %s listed twice", calc.ErrInvalidSchedule, category)
		}
		tables.Schedules[category] = schedule
	}

	if doc.Devaluation != nil {
		table, err := f.ParseDevaluation(*doc.Devaluation)
		if err != nil {
			return nil, err
		}
		tables.Devaluation = &table
	}
	return tables, nil
}

// ParseSchedule converts and validates one category's schedule.
func (f *TableFactory) ParseSchedule(sd ScheduleDocument) (calc.Category, calc.Schedule, error) {
	category, err := calc.ParseCategory(sd.Category)
	if err != nil {
		return 0, nil, err
	}

	schedule := make(calc.Schedule, 0, len(sd.Entries))
	for i, ej := range sd.Entries {
		entry, err := parseRateEntry(ej)
		if err != nil {
			return 0, nil, fmt.Errorf("%s row %d: %w", category, i, err)
		}
		schedule = append(schedule, entry)
	}

	if err := schedule.Validate(category.String()); err != nil {
		return 0, nil, err
	}
	return category, schedule, nil
}

// ParseDevaluation converts and validates the coefficient table.
func (f *TableFactory) ParseDevaluation(dd DevaluationDocument) (calc.DevaluationTable, error) {
	table := calc.DevaluationTable{
		FirstYear:     dd.FirstYear,
		ReferenceYear: dd.ReferenceYear,
		Ranges:        make([]calc.DevaluationRange, 0, len(dd.Ranges)),
	}
	for i, rj := range dd.Ranges {
		coef, err := calc.ParseAmount(rj.Coefficient)
		if err != nil {
			return calc.DevaluationTable{}, fmt.Errorf("devaluation row %d: %w", i, err)
		}
		table.Ranges = append(table.Ranges, calc.DevaluationRange{
			MinYear:     rj.MinYear,
			MaxYear:     rj.MaxYear,
			Coefficient: coef,
		})
	}
	if err := table.Validate(); err != nil {
		return calc.DevaluationTable{}, err
	}
	return table, nil
}

// ToDocument converts tables back to their serialized form. Schedules are
// emitted in calc.Categories order.
func (f *TableFactory) ToDocument(schedules map[calc.Category]calc.Schedule, table *calc.DevaluationTable) TablesDocument {
	var doc TablesDocument
	for _, c := range calc.Categories {
		s, ok := schedules[c]
		if !ok {
			continue
		}
		doc.Schedules = append(doc.Schedules, ScheduleToDocument(c, s))
	}
	if table != nil {
		dd := DevaluationToDocument(*table)
		doc.Devaluation = &dd
	}
	return doc
}

// ScheduleToDocument converts one schedule.
func ScheduleToDocument(c calc.Category, s calc.Schedule) ScheduleDocument {
	sd := ScheduleDocument{
		Category: c.String(),
		Label:    c.Label(),
		Entries:  make([]RateEntryJSON, 0, len(s)),
	}
	for _, e := range s {
		ej := RateEntryJSON{
			EffectiveFrom: e.EffectiveFrom.String(),
			Rate:          e.AnnualRatePercent.String(),
		}
		if e.EffectiveTo != nil {
			ej.EffectiveTo = e.EffectiveTo.String()
		}
		sd.Entries = append(sd.Entries, ej)
	}
	return sd
}

// DevaluationToDocument converts the coefficient table.
func DevaluationToDocument(t calc.DevaluationTable) DevaluationDocument {
	dd := DevaluationDocument{
		FirstYear:     t.FirstYear,
		ReferenceYear: t.ReferenceYear,
		Ranges:        make([]RangeJSON, 0, len(t.Ranges)),
	}
	for _, r := range t.Ranges {
		dd.Ranges = append(dd.Ranges, RangeJSON{
			MinYear:     r.MinYear,
			MaxYear:     r.MaxYear,
			Coefficient: r.Coefficient.String(),
		})
	}
	return dd
}

// Marshal encodes a document in the given format.
func Marshal(doc TablesDocument, format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseRateEntry(ej RateEntryJSON) (calc.RateEntry, error) {
	from, err := calc.ParseDate(ej.EffectiveFrom)
	if err != nil {
		return calc.RateEntry{}, err
	}
	rate, err := calc.ParseAmount(ej.Rate)
	if err != nil {
		return calc.RateEntry{}, err
	}
	entry := calc.RateEntry{EffectiveFrom: from, AnnualRatePercent: rate}
	if strings.TrimSpace(ej.EffectiveTo) != "" {
		to, err := calc.ParseDate(ej.EffectiveTo)
		if err != nil {
			return calc.RateEntry{}, err
		}
		entry.EffectiveTo = &to
	}
	return entry, nil
}
