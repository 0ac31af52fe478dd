package core

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary holds the dashboard counts for a batch.
// Accepted + Rejected + OtherErrors always equals Total.
type Summary struct {
	Total       int `json:"total"`
	Accepted    int `json:"accepted"`
	Rejected    int `json:"rejected"`
	OtherErrors int `json:"other_errors"`
}

// Summarize counts records by category.
func Summarize(records []ClassifiedRecord) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch {
		case r.Status == StatusNotAvailable:
			s.Rejected++
		case r.IsOtherError:
			s.OtherErrors++
		default:
			s.Accepted++
		}
	}
	return s
}

// FormattedSummary is a Summary with digit grouping applied for display.
type FormattedSummary struct {
	Total       string
	Accepted    string
	Rejected    string
	OtherErrors string
}

var countPrinter = message.NewPrinter(language.English)

// Formatted renders the counts with thousands separators ("12,345").
func (s Summary) Formatted() FormattedSummary {
	return FormattedSummary{
		Total:       countPrinter.Sprintf("%d", s.Total),
		Accepted:    countPrinter.Sprintf("%d", s.Accepted),
		Rejected:    countPrinter.Sprintf("%d", s.Rejected),
		OtherErrors: countPrinter.Sprintf("%d", s.OtherErrors),
	}
}
