package model

// FilingExport is the input for the spreadsheet summary of a period's
// filings.
type FilingExport struct {
	FromMonth string
	ToMonth   string
	Filings   []Filing
}

// MonthsInOrder returns the distinct months present, oldest first.
func (e FilingExport) MonthsInOrder() []string {
	months := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)
	for _, filing := range e.Filings {
		if _, ok := seen[filing.Month]; ok {
			continue
		}
		seen[filing.Month] = struct{}{}
		months = append(months, filing.Month)
	}
	return months
}

// ForMonth returns the filings belonging to one month, in stored order.
func (e FilingExport) ForMonth(month string) []Filing {
	filings := make([]Filing, 0, len(e.Filings))
	for _, filing := range e.Filings {
		if filing.Month == month {
			filings = append(filings, filing)
		}
	}
	return filings
}
