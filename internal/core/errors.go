package core

import "errors"

// Sentinel errors. Their messages contain the patterns MapError matches on,
// so wrapped errors still map to the right user message.
var (
	// ErrNoResults is returned when an operation needs a classified batch
	// and the session has none.
	ErrNoResults = errors.New("no results to export")

	// ErrNothingSelected is returned when a copy request names no valid rows.
	ErrNothingSelected = errors.New("no rows selected")

	// ErrUploadInProgress is returned when a session already has an upload
	// being classified.
	ErrUploadInProgress = errors.New("upload already in progress")

	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("session not found")
)
