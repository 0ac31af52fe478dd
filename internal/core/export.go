package core

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExportName is used when the upload's file name is unknown.
const DefaultExportName = "results.csv"

// filteredSuffix marks exports that left out other-error records.
const filteredSuffix = "_filtered"

// ToExportLines renders records as upload-format lines in input order.
//
// With excludeOtherErrors, other-error records are dropped first. Not-available
// records get the forced IR response and message; other-error records are
// written with their original values since the format has no status column.
func ToExportLines(records []ClassifiedRecord, excludeOtherErrors bool) []string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		if excludeOtherErrors && r.IsOtherError {
			continue
		}

		response, message := r.Response, r.Message
		if r.Status == StatusNotAvailable {
			response, message = NotAvailableResponse, NotAvailableMessage
		}

		lines = append(lines, strings.Join([]string{
			r.OrderRef, r.Sequence, r.ISBN, response, message,
		}, ","))
	}
	return lines
}

// ExportText joins export lines with newlines, without a trailing one.
func ExportText(lines []string) string {
	return strings.Join(lines, "\n")
}

// ExportFileName suggests a download name: the upload's own name, with
// "_filtered" before the extension when other errors were excluded.
// Directory parts sent by some browsers are stripped.
func ExportFileName(original string, filtered bool) string {
	name := original
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if strings.TrimSpace(name) == "" {
		name = DefaultExportName
	}
	if !filtered {
		return name
	}

	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + filteredSuffix + ext
}

// SaveExport writes content to path. If that fails it falls back to a file of
// the same name in fallbackDir. Returns the path actually written; when both
// attempts fail the joined error is logged and returned.
func SaveExport(path, fallbackDir, content string) (string, error) {
	err := os.WriteFile(path, []byte(content), 0o644)
	if err == nil {
		return path, nil
	}
	slog.Warn("export save failed, trying fallback location",
		"path", path,
		"fallback_dir", fallbackDir,
		"error", err,
	)

	fallback := filepath.Join(fallbackDir, filepath.Base(path))
	if fallback == path {
		slog.Error("export save failed", "path", path, "error", err)
		return "", fmt.Errorf("save export: %w", err)
	}

	if ferr := os.WriteFile(fallback, []byte(content), 0o644); ferr != nil {
		joined := errors.Join(err, ferr)
		slog.Error("export save failed", "path", path, "fallback", fallback, "error", joined)
		return "", fmt.Errorf("save export: %w", joined)
	}
	return fallback, nil
}
