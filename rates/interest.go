package rates

import "github.com/warp/juros-engine/calc"

// =============================================================================
// CIVIL INTEREST - art. 559º Código Civil
// =============================================================================

// Civil returns the civil legal interest schedule. The current 4% rate has no
// end date.
func Civil() calc.Schedule {
	return calc.Schedule{
		entry("1987-04-24", "1995-10-16", "15"), // Portaria 339/87
		entry("1995-10-17", "1999-04-16", "10"), // Portaria 1171/95
		entry("1999-04-17", "2003-04-30", "7"),  // Portaria 263/99
		entry("2003-05-01", "", "4"),            // Portaria 291/2003
	}
}

// =============================================================================
// COMMERCIAL INTEREST - art. 102º Código Comercial
// =============================================================================

// Commercial3 returns the §3 schedule (commercial transactions between
// companies, DL 62/2013): ECB reference rate plus 8 points.
func Commercial3() calc.Schedule {
	return calc.Schedule{
		entry("2013-07-01", "2013-12-31", "8.50"),
		entry("2014-01-01", "2014-06-30", "8.25"),
		entry("2014-07-01", "2014-12-31", "8.15"),
		entry("2015-01-01", "2015-12-31", "8.05"),
		entry("2016-01-01", "2022-12-31", "8.00"),
		entry("2023-01-01", "2023-06-30", "10.50"),
		entry("2023-07-01", "2023-12-31", "12.00"),
		entry("2024-01-01", "2024-06-30", "12.50"),
		entry("2024-07-01", "2024-12-31", "12.25"),
		entry("2025-01-01", "2025-06-30", "11.15"),
		entry("2025-07-01", "2025-12-31", "10.15"),
	}
}

// Commercial5 returns the §5 schedule: ECB reference rate plus 7 points.
func Commercial5() calc.Schedule {
	return calc.Schedule{
		entry("2013-07-01", "2013-12-31", "7.50"),
		entry("2014-01-01", "2014-06-30", "7.25"),
		entry("2014-07-01", "2014-12-31", "7.15"),
		entry("2015-01-01", "2015-12-31", "7.05"),
		entry("2016-01-01", "2022-12-31", "7.00"),
		entry("2023-01-01", "2023-06-30", "9.50"),
		entry("2023-07-01", "2023-12-31", "11.00"),
		entry("2024-01-01", "2024-06-30", "11.50"),
		entry("2024-07-01", "2024-12-31", "11.25"),
		entry("2025-01-01", "2025-06-30", "10.15"),
		entry("2025-07-01", "2025-12-31", "9.15"),
	}
}

// =============================================================================
// STATE INTEREST - DL 73/99, rate published yearly by IGCP
// =============================================================================

// StateRates returns the late-payment schedule for debts to the State.
func StateRates() calc.Schedule {
	return calc.Schedule{
		entry("2011-01-01", "2011-12-31", "6.351"),
		entry("2012-01-01", "2012-12-31", "7.007"),
		entry("2013-01-01", "2013-12-31", "6.112"),
		entry("2014-01-01", "2014-12-31", "5.535"),
		entry("2015-01-01", "2015-12-31", "5.476"),
		entry("2016-01-01", "2016-12-31", "5.168"),
		entry("2017-01-01", "2017-12-31", "4.966"),
		entry("2018-01-01", "2018-12-31", "4.857"),
		entry("2019-01-01", "2019-12-31", "4.786"),
		entry("2020-01-01", "2020-12-31", "4.786"),
		entry("2021-01-01", "2021-12-31", "4.705"),
		entry("2022-01-01", "2022-12-31", "4.705"),
		entry("2023-01-01", "2023-12-31", "4.653"),
		entry("2024-01-01", "2024-12-31", "4.566"),
		entry("2025-01-01", "2025-12-31", "4.488"),
	}
}
