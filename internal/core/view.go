package core

import "strings"

// FilterMode selects which records the results table shows.
// Exactly one mode is active at a time.
type FilterMode string

const (
	ModeAll              FilterMode = "all"
	ModeNotAvailableOnly FilterMode = "not-available"
	ModeOtherErrorsOnly  FilterMode = "other-errors"
	ModeAvailableOnly    FilterMode = "available"
)

// FilterModes lists the modes in the order the UI offers them.
var FilterModes = []FilterMode{ModeAll, ModeNotAvailableOnly, ModeOtherErrorsOnly, ModeAvailableOnly}

// ParseFilterMode maps a query value to a mode. Unknown values mean ModeAll.
func ParseFilterMode(s string) FilterMode {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeNotAvailableOnly:
		return ModeNotAvailableOnly
	case ModeOtherErrorsOnly:
		return ModeOtherErrorsOnly
	case ModeAvailableOnly:
		return ModeAvailableOnly
	default:
		return ModeAll
	}
}

// Label is the human-readable name of the mode.
func (m FilterMode) Label() string {
	switch m {
	case ModeNotAvailableOnly:
		return "Not Available only"
	case ModeOtherErrorsOnly:
		return "Other Errors only"
	case ModeAvailableOnly:
		return "Available only"
	default:
		return "All"
	}
}

// Matches reports whether r is visible under m.
// ModeAvailableOnly shows the accepted records, other errors excluded.
func (m FilterMode) Matches(r ClassifiedRecord) bool {
	switch m {
	case ModeNotAvailableOnly:
		return r.Status == StatusNotAvailable
	case ModeOtherErrorsOnly:
		return r.IsOtherError
	case ModeAvailableOnly:
		return r.Accepted()
	default:
		return true
	}
}

// FilterForDisplay returns the records visible under mode, in input order.
// The input slice is not modified; ModeAll returns it unchanged.
func FilterForDisplay(records []ClassifiedRecord, mode FilterMode) []ClassifiedRecord {
	if mode == ModeAll || mode == "" {
		return records
	}
	out := make([]ClassifiedRecord, 0, len(records))
	for _, r := range records {
		if mode.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Row styling classes.
const (
	ClassAvailable   = "available"
	ClassUnavailable = "unavailable"
	ClassOtherError  = "other-error"
)

// DisplayRow is a record as the results table shows it.
type DisplayRow struct {
	// Index is the record's position in the batch; row selection uses it.
	Index      int    `json:"index"`
	OrderRef   string `json:"order_ref"`
	Sequence   string `json:"sequence"`
	ISBN       string `json:"isbn"`
	Response   string `json:"response"`
	Message    string `json:"message"`
	Status     string `json:"status"`
	Class      string `json:"class"`
	ResponseIR bool   `json:"response_ir"`
}

// DisplayHeaders are the results table column titles.
var DisplayHeaders = []string{"Order Ref", "Sequence", "ISBN", "Response", "Message", "Status"}

// Cells returns the row's values in DisplayHeaders order.
func (d DisplayRow) Cells() []string {
	return []string{d.OrderRef, d.Sequence, d.ISBN, d.Response, d.Message, d.Status}
}

// Display projects r for the table. Not-available records show the forced
// IR response and message; other errors keep their values and get the
// "Other Error" label. Stored fields are never changed.
func Display(index int, r ClassifiedRecord) DisplayRow {
	row := DisplayRow{
		Index:    index,
		OrderRef: r.OrderRef,
		Sequence: r.Sequence,
		ISBN:     r.ISBN,
		Response: r.Response,
		Message:  r.Message,
	}

	switch {
	case r.Status == StatusNotAvailable:
		row.Response = NotAvailableResponse
		row.Message = NotAvailableMessage
		row.Status = string(StatusNotAvailable)
		row.Class = ClassUnavailable
	case r.IsOtherError:
		row.Status = LabelOtherError
		row.Class = ClassOtherError
	default:
		row.Status = string(StatusAvailable)
		row.Class = ClassAvailable
	}

	row.ResponseIR = strings.TrimSpace(row.Response) == NotAvailableResponse
	return row
}

// VisibleRows filters records by mode and projects the survivors, keeping
// each row's batch index.
func VisibleRows(records []ClassifiedRecord, mode FilterMode) []DisplayRow {
	rows := make([]DisplayRow, 0, len(records))
	for i, r := range records {
		if mode.Matches(r) {
			rows = append(rows, Display(i, r))
		}
	}
	return rows
}
