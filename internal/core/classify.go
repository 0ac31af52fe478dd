package core

import "strings"

// fieldCount is the number of positional fields in an upload line.
const fieldCount = 5

// ParseRecord splits a line on commas and assigns the trimmed parts to
// OrderRef, Sequence, ISBN, Response and Message in that order.
//
// There is no quoting: a comma inside a value shifts every later field.
// Extra fields are dropped and missing ones stay empty.
func ParseRecord(line string) ParsedRecord {
	var f [fieldCount]string
	for i, part := range strings.Split(line, ",") {
		if i >= fieldCount {
			break
		}
		f[i] = strings.TrimSpace(part)
	}
	return ParsedRecord{
		OrderRef: f[0],
		Sequence: f[1],
		ISBN:     f[2],
		Response: f[3],
		Message:  f[4],
	}
}

// Classify parses one trimmed, non-empty line and classifies it against idx.
// It never fails; malformed lines become partial records.
func Classify(line string, idx Lookup) ClassifiedRecord {
	p := ParseRecord(line)

	status := StatusNotAvailable
	if idx != nil && idx.Contains(p.ISBN) {
		status = StatusAvailable
	}

	return ClassifiedRecord{
		ParsedRecord: p,
		Status:       status,
		IsOtherError: isOtherError(status, p.Response, p.Message),
	}
}

// ClassifyAll classifies lines in order. The result has one record per line.
func ClassifyAll(lines []string, idx Lookup) []ClassifiedRecord {
	out := make([]ClassifiedRecord, len(lines))
	for i, line := range lines {
		out[i] = Classify(line, idx)
	}
	return out
}

// isOtherError flags available records whose response or message still
// signal a problem. The clauses overlap (anything that is not "AR" already
// qualifies) and are kept as a literal union; downstream counts depend on it.
func isOtherError(status Status, response, message string) bool {
	if status != StatusAvailable {
		return false
	}
	msg := strings.ToLower(message)
	return strings.EqualFold(response, "IR") ||
		strings.Contains(msg, "error") ||
		strings.Contains(msg, "unavailable") ||
		strings.Contains(msg, "not available") ||
		!strings.EqualFold(response, "AR")
}
