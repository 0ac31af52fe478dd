// Error Codes Reference
//
// This file maps technical errors to user-friendly messages with codes for
// support reference. Codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: the upload exceeds the size limit
//	          Action: Split the file into smaller parts
//	          Patterns: "file too large", "request body too large"
//
//	FILE002 - No file: no file was selected
//	          Action: Choose a .csv or .ppr file to check
//	          Patterns: "no file provided"
//
//	FILE003 - Unreadable file: the upload could not be read
//	          Action: Re-save the file as plain text and try again
//	          Patterns: "failed to read file"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - Upload in progress: this browser is already checking a file
//	         Action: Wait for the current file to finish
//	         Patterns: "upload already in progress"
//
//	UPL002 - System busy: too many uploads in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent uploads"
//
//	UPL004 - Request cancelled
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Result Errors (RES001-RES099)
//
//	RES001 - No results: there is nothing to export yet
//	         Action: Upload a file first
//	         Patterns: "no results to export"
//
//	RES002 - Nothing selected: no rows were selected to copy
//	         Action: Tick the rows to copy
//	         Patterns: "no rows selected"
//
//	RES003 - Session expired: the results are no longer available
//	         Action: Upload the file again
//	         Patterns: "session not found"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid request: the request body or form could not be parsed
//	         Action: Reload the page and try again
//	         Patterns: "invalid request"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the application logs for
// the technical error, correlated by request ID.
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so more specific patterns come first.

package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller parts",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller parts",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a .csv or .ppr file to check",
			Code:    "FILE002",
		},
	},
	{
		pattern: "failed to read file",
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Re-save the file as plain text and try again",
			Code:    "FILE003",
		},
	},

	// Upload
	{
		pattern: "upload already in progress",
		msg: UserMessage{
			Message: "A file is already being checked",
			Action:  "Wait for the current file to finish",
			Code:    "UPL001",
		},
	},
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "Too many uploads in progress",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},

	// Results
	{
		pattern: "no results to export",
		msg: UserMessage{
			Message: "There are no results yet",
			Action:  "Upload a file first",
			Code:    "RES001",
		},
	},
	{
		pattern: "no rows selected",
		msg: UserMessage{
			Message: "No rows were selected",
			Action:  "Tick the rows to copy",
			Code:    "RES002",
		},
	},
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "These results are no longer available",
			Action:  "Upload the file again",
			Code:    "RES003",
		},
	},

	// Request
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be understood",
			Action:  "Reload the page and try again",
			Code:    "REQ001",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	msg := MapError(ErrNoResults)
//	// msg.Code == "RES001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
//
// Example output: "There are no results yet (Code: RES001). Upload a file first"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
// Use this to decide whether to show the raw error or the mapped user message.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// The returned UserError preserves the original technical error for logging via Unwrap(),
// while providing a clean user message via Error().
//
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
