package core

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SplitLines breaks content on any run of CR/LF characters, trims each
// line and drops the blank ones.
func SplitLines(content string) []string {
	parts := strings.FieldsFunc(content, func(r rune) bool {
		return r == '\r' || r == '\n'
	})

	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, p)
		}
	}
	return lines
}

// ReadLines reads a whole upload and returns its non-blank lines.
//
// A leading UTF-8 byte order mark (common in files saved on Windows) is
// dropped and invalid UTF-8 is replaced with U+FFFD, so the result is always
// valid text.
func ReadLines(r io.Reader) ([]string, error) {
	decoded := transform.NewReader(r, unicode.UTF8BOM.NewDecoder())

	data, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return SplitLines(string(data)), nil
}
