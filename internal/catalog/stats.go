package catalog

import "consulthub/pkg/models"

// Stats summarizes a filtered record set.
type Stats struct {
	Count               int     `json:"count"`
	Countries           int     `json:"countries"`
	Sectors             int     `json:"sectors"`
	TotalInvestment     float64 `json:"total_investment"`
	TotalExpectedProfit float64 `json:"total_expected_profit"`
	// AverageReturn is nil when no record has a parseable rate of return.
	AverageReturn        *float64 `json:"average_return"`
	AverageReturnDisplay string   `json:"average_return_display"`
	ReturnSamples        int      `json:"return_samples"`
}

// Summarize reduces records to counts and sums. The average rate of return
// only counts records whose rate parses; the others are left out of both the
// sum and the divisor rather than counted as zero.
func Summarize(records []models.Record) Stats {
	s := Stats{Count: len(records), AverageReturnDisplay: NotAvailable}
	countries := make(map[string]struct{})
	sectors := make(map[string]struct{})

	var returnSum float64
	for _, r := range records {
		countries[r.Country.Key] = struct{}{}
		sectors[r.Sector.Key] = struct{}{}
		s.TotalInvestment += r.Financial.TotalInvestment
		if p := r.Financial.ExpectedProfit; p != nil {
			s.TotalExpectedProfit += *p
		}
		if v, ok := ParseNumeric(r.Financial.RateOfReturn); ok {
			returnSum += v
			s.ReturnSamples++
		}
	}
	s.Countries = len(countries)
	s.Sectors = len(sectors)

	if s.ReturnSamples > 0 {
		avg := returnSum / float64(s.ReturnSamples)
		s.AverageReturn = &avg
		s.AverageReturnDisplay = FormatPercent(avg, models.LocaleEn)
	}
	return s
}
