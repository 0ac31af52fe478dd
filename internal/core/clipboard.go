package core

import (
	"slices"
	"strings"
)

// SelectRows projects the records at the given batch indexes for copying.
// Rows come back in batch order whatever order the indexes were sent in;
// duplicates and out-of-range indexes are ignored.
func SelectRows(records []ClassifiedRecord, indexes []int) ([]DisplayRow, error) {
	picked := slices.Clone(indexes)
	slices.Sort(picked)
	picked = slices.Compact(picked)

	rows := make([]DisplayRow, 0, len(picked))
	for _, i := range picked {
		if i < 0 || i >= len(records) {
			continue
		}
		rows = append(rows, Display(i, records[i]))
	}
	if len(rows) == 0 {
		return nil, ErrNothingSelected
	}
	return rows, nil
}

// PlainText renders rows as a tab-separated table with a header line, the
// text/plain flavour of a copied selection.
func PlainText(rows []DisplayRow) string {
	var b strings.Builder
	b.WriteString(strings.Join(DisplayHeaders, "\t"))
	for _, r := range rows {
		b.WriteByte('\n')
		b.WriteString(strings.Join(r.Cells(), "\t"))
	}
	return b.String()
}
