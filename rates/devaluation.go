package rates

import "github.com/warp/juros-engine/calc"

// =============================================================================
// CURRENCY UPDATE COEFFICIENTS - reference year 2015
// =============================================================================

const (
	// DevaluationFirstYear is the oldest year with a published coefficient.
	DevaluationFirstYear = 1903
	// DevaluationReferenceYear is the year all amounts are updated to.
	DevaluationReferenceYear = 2015
)

// Devaluation returns the coefficient table. The first range is open below
// (up to 1903) and the last open above (2010 onwards).
func Devaluation() calc.DevaluationTable {
	return calc.DevaluationTable{
		FirstYear:     DevaluationFirstYear,
		ReferenceYear: DevaluationReferenceYear,
		Ranges: []calc.DevaluationRange{
			upTo(1903, "4631.11"),
			between(1904, 1910, "4418.32"),
			between(1911, 1914, "4206.02"),
			year(1915, "3317.47"),
			year(1916, "2751.58"),
			year(1917, "2198.64"),
			year(1918, "1596.14"),
			year(1919, "1294.44"),
			year(1920, "812.86"),
			year(1921, "549.48"),
			year(1922, "402.60"),
			year(1923, "236.85"),
			year(1924, "192.18"),
			between(1925, 1936, "166.15"),
			between(1937, 1939, "156.45"),
			year(1940, "138.09"),
			year(1941, "121.21"),
			year(1942, "105.73"),
			year(1943, "90.46"),
			between(1944, 1950, "77.77"),
			between(1951, 1957, "73.49"),
			between(1958, 1963, "68.76"),
			between(1964, 1965, "65.58"),
			year(1966, "62.80"),
			year(1967, "59.84"),
			between(1968, 1969, "56.29"),
			year(1970, "53.01"),
			year(1971, "49.96"),
			year(1972, "45.55"),
			year(1973, "40.94"),
			year(1974, "30.87"),
			year(1975, "26.26"),
			year(1976, "22.45"),
			year(1977, "17.04"),
			year(1978, "13.36"),
			year(1979, "10.85"),
			year(1980, "9.59"),
			year(1981, "7.79"),
			year(1982, "6.41"),
			year(1983, "5.05"),
			year(1984, "3.97"),
			year(1985, "3.30"),
			year(1986, "2.97"),
			year(1987, "2.72"),
			year(1988, "2.51"),
			year(1989, "2.28"),
			year(1990, "2.05"),
			year(1991, "1.85"),
			year(1992, "1.68"),
			year(1993, "1.58"),
			year(1994, "1.49"),
			year(1995, "1.43"),
			year(1996, "1.39"),
			year(1997, "1.36"),
			year(1998, "1.32"),
			year(1999, "1.29"),
			year(2000, "1.25"),
			year(2001, "1.18"),
			year(2002, "1.14"),
			year(2003, "1.11"),
			year(2004, "1.10"),
			year(2005, "1.08"),
			year(2006, "1.05"),
			year(2007, "1.03"),
			between(2008, 2009, "1.01"),
			from(2010, "1.00"),
		},
	}
}

func upTo(last int, coef string) calc.DevaluationRange {
	return calc.DevaluationRange{MaxYear: calc.YearPtr(last), Coefficient: calc.MustParseDecimal(coef)}
}

func between(first, last int, coef string) calc.DevaluationRange {
	return calc.DevaluationRange{MinYear: calc.YearPtr(first), MaxYear: calc.YearPtr(last), Coefficient: calc.MustParseDecimal(coef)}
}

func year(y int, coef string) calc.DevaluationRange {
	return between(y, y, coef)
}

func from(first int, coef string) calc.DevaluationRange {
	return calc.DevaluationRange{MinYear: calc.YearPtr(first), Coefficient: calc.MustParseDecimal(coef)}
}
