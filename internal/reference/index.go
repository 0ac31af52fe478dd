// Package reference loads the reference dataset of known item codes and
// exposes it as an immutable lookup set.
//
// The dataset is fetched once at startup from a file, an HTTP endpoint or a
// PostgreSQL query. A failed load is logged and leaves the index empty: every
// uploaded record then classifies as not available, but nothing else stops.
package reference

import "errors"

// ErrDataUnavailable marks every failure to fetch or decode the dataset.
var ErrDataUnavailable = errors.New("reference data unavailable")

// Record is one entry of the reference dataset. Only the code matters here;
// any other fields in the source are ignored.
type Record struct {
	Code string `json:"code" yaml:"code"`
}

// Index is a set of known codes. It is built once and never modified.
// The zero value and a nil *Index are both valid empty indexes.
type Index struct {
	codes map[string]struct{}
}

// NewIndex builds an index from records. Empty codes are skipped so a record
// with a missing identifier never matches.
func NewIndex(records []Record) *Index {
	codes := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.Code == "" {
			continue
		}
		codes[r.Code] = struct{}{}
	}
	return &Index{codes: codes}
}

// Empty returns an index containing no codes.
func Empty() *Index {
	return &Index{}
}

// Contains reports whether code is in the index. Matching is exact.
func (i *Index) Contains(code string) bool {
	if i == nil || code == "" {
		return false
	}
	_, ok := i.codes[code]
	return ok
}

// Len returns the number of distinct codes.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.codes)
}
