package calc

import (
	"fmt"
	"strings"
)

// =============================================================================
// INTEREST CATEGORY - Closed set of legal interest regimes
// =============================================================================

// Category selects which rate schedule applies to a calculation.
type Category int

const (
	// Civil is the civil legal interest rate (art. 559º Código Civil).
	Civil Category = iota + 1
	// CommercialRateA is the commercial rate of §3 art. 102º Código Comercial,
	// applicable to commercial transactions between companies.
	CommercialRateA
	// CommercialRateB is the commercial rate of §5 art. 102º Código Comercial.
	CommercialRateB
	// State is the late-payment rate on debts to the State and public entities.
	State
)

// Categories lists every category in display order.
var Categories = []Category{Civil, CommercialRateA, CommercialRateB, State}

var categoryIDs = map[Category]string{
	Civil:           "CIVIL",
	CommercialRateA: "COMMERCIAL_3",
	CommercialRateB: "COMMERCIAL_5",
	State:           "STATE",
}

var categoryLabels = map[Category]string{
	Civil:           "Civis",
	CommercialRateA: "Comerciais (§3)",
	CommercialRateB: "Comerciais (§5)",
	State:           "Estado e Entidades Públicas",
}

// aliases accepted by ParseCategory in addition to the canonical ids.
var categoryAliases = map[string]Category{
	"COMMERCIAL_RATE_A": CommercialRateA,
	"COMMERCIAL_RATE_B": CommercialRateB,
}

// ParseCategory resolves a category id, case-insensitively.
func ParseCategory(s string) (Category, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	for c, id := range categoryIDs {
		if id == key {
			return c, nil
		}
	}
	if c, ok := categoryAliases[key]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) Valid() bool {
	_, ok := categoryIDs[c]
	return ok
}

// String returns the canonical id, e.g. "COMMERCIAL_3".
func (c Category) String() string {
	if id, ok := categoryIDs[c]; ok {
		return id
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Label returns the pt-PT display name.
func (c Category) Label() string {
	return categoryLabels[c]
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
