package core

// Status is the availability outcome of the reference lookup.
type Status string

const (
	StatusAvailable    Status = "Available"
	StatusNotAvailable Status = "Not Available"
)

// Display labels, response and message used for projected rows.
const (
	LabelOtherError = "Other Error"

	// NotAvailableResponse and NotAvailableMessage replace the parsed values
	// of every not-available record on screen and in the export.
	NotAvailableResponse = "IR"
	NotAvailableMessage  = "Item Template not found"
)

// Lookup is the read-only view of the reference index the classifier needs.
// *reference.Index satisfies it.
type Lookup interface {
	Contains(code string) bool
}

// ParsedRecord is one upload line split into its five positional fields.
// Missing trailing fields are empty.
type ParsedRecord struct {
	OrderRef string `json:"order_ref"`
	Sequence string `json:"sequence"`
	ISBN     string `json:"isbn"`
	Response string `json:"response"`
	Message  string `json:"message"`
}

// Fields returns the record in upload column order.
func (p ParsedRecord) Fields() []string {
	return []string{p.OrderRef, p.Sequence, p.ISBN, p.Response, p.Message}
}

// ClassifiedRecord is a parsed record plus its derived classification.
// IsOtherError is only ever true when Status is StatusAvailable.
type ClassifiedRecord struct {
	ParsedRecord
	Status       Status `json:"status"`
	IsOtherError bool   `json:"is_other_error"`
}

// Accepted reports whether the record is available with no other error.
func (c ClassifiedRecord) Accepted() bool {
	return c.Status == StatusAvailable && !c.IsOtherError
}
