// Package core error codes.
//
// User-facing errors carry a code that can be quoted to support staff.
// Codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: upload exceeds the configured size limit
//	          Patterns: "file too large", "request body too large"
//	FILE002 - Invalid CSV: the file could not be parsed as CSV
//	          Patterns: "invalid csv"
//	FILE003 - Encoding error: the file is neither UTF-8 nor Windows-1252
//	          Patterns: "encoding error"
//	FILE004 - Missing file: one of the three tables was not provided
//	          Patterns: "required file missing", "no file provided"
//	FILE005 - Empty file: a table has no header row
//	          Patterns: "empty file"
//	FILE006 - Invalid archive: the upload is not a readable zip
//	          Patterns: "invalid zip"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Missing column: a required column is absent
//	         Patterns: "missing required column"
//	VAL002 - Invalid operation code
//	         Patterns: "invalid operation code"
//	VAL003 - Invalid jurisdiction
//	         Patterns: "invalid jurisdiction"
//	VAL004 - Invalid access key cell
//	         Patterns: "invalid access key"
//
// # Batch Errors (BAT001-BAT099)
//
//	BAT001 - No batch loaded
//	         Patterns: "no batch loaded"
//	BAT002 - Too many concurrent loads
//	         Patterns: "too many concurrent batch loads"
//	BAT003 - Source unavailable: database source not configured or unreachable
//	         Patterns: "source not configured", "connection refused"
//	BAT004 - Load cancelled or timed out
//	         Patterns: "context canceled", "context deadline exceeded"
//
// # Access Key Errors (KEY001-KEY099)
//
//	KEY001 - Malformed access key
//	         Patterns: "malformed access key"
//
// # Tool Errors (TOOL001-TOOL099)
//
//	TOOL001 - Unknown tool
//	          Patterns: "tool not found"
//	TOOL002 - Missing argument
//	          Patterns: "missing required argument"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited
//	          Patterns: "rate limit"
//
// # Default Error (GEN000)
//
// Fallback when no pattern matches. Check the logs for the technical error.
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins, so specific patterns come before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: the first matching pattern wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE001-FILE006)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the archive or raise MAX_UPLOAD_BYTES",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the archive or raise MAX_UPLOAD_BYTES",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Export the table again with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save the file as UTF-8 or Windows-1252",
			Code:    "FILE003",
		},
	},
	{
		pattern: "required file missing",
		msg: UserMessage{
			Message: "A required file is missing",
			Action:  "Upload the header, items and CFOP files together",
			Code:    "FILE004",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Select a zip archive or the three CSV files",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a CSV file with a header row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "invalid zip",
		msg: UserMessage{
			Message: "The archive could not be read",
			Action:  "Upload a valid zip archive",
			Code:    "FILE006",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL004)
	// =========================================================================
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "Required column is missing from CSV",
			Action:  "Check the column headers of the exported table",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid operation code",
		msg: UserMessage{
			Message: "Invalid CFOP detected",
			Action:  "Use 4-digit codes starting with 1 to 7",
			Code:    "VAL002",
		},
	},
	{
		pattern: "invalid jurisdiction",
		msg: UserMessage{
			Message: "Invalid state code detected",
			Action:  "Use 2-letter state abbreviations",
			Code:    "VAL003",
		},
	},
	{
		pattern: "invalid access key",
		msg: UserMessage{
			Message: "Invalid access key in file",
			Action:  "Access keys must have 44 digits",
			Code:    "VAL004",
		},
	},

	// =========================================================================
	// Batch Errors (BAT001-BAT004)
	// =========================================================================
	{
		pattern: "no batch loaded",
		msg: UserMessage{
			Message: "No invoice batch is loaded",
			Action:  "Upload the header, items and CFOP files first",
			Code:    "BAT001",
		},
	},
	{
		pattern: "too many concurrent batch loads",
		msg: UserMessage{
			Message: "System is busy loading other batches",
			Action:  "Please wait a moment and try again",
			Code:    "BAT002",
		},
	},
	{
		pattern: "source not configured",
		msg: UserMessage{
			Message: "Batch source is not available",
			Action:  "Configure DATABASE_URL or BATCH_DIR",
			Code:    "BAT003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the batch source",
			Action:  "Please try again in a few moments",
			Code:    "BAT003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "BAT004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller batch or try again later",
			Code:    "BAT004",
		},
	},

	// =========================================================================
	// Access Key and Tool Errors
	// =========================================================================
	{
		pattern: "malformed access key",
		msg: UserMessage{
			Message: "Malformed access key",
			Action:  "Provide the 44 digits of the key",
			Code:    "KEY001",
		},
	},
	{
		pattern: "tool not found",
		msg: UserMessage{
			Message: "Unknown tool",
			Action:  "List the available tools and check the name",
			Code:    "TOOL001",
		},
	},
	{
		pattern: "missing required argument",
		msg: UserMessage{
			Message: "A required argument is missing",
			Action:  "Check the tool parameters",
			Code:    "TOOL002",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (GEN000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "GEN000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code GEN000 is returned.
//
// Example:
//
//	msg := MapError(ErrNoBatch)
//	// msg.Code == "BAT001"
//	// msg.Message == "No invoice batch is loaded"
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
// Example output: "No invoice batch is loaded (Code: BAT001). Upload the header, items and CFOP files first"
//
// This is the primary function for displaying errors to end users.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic GEN000 fallback).
// Use this to decide whether to show the raw error or the mapped user message.
//
// Example:
//
//	if IsUserFacing(err) {
//	    showToUser(FormatUserError(err))
//	} else {
//	    log.Error(err) // Log technical error
//	    showToUser("An error occurred. Please try again.")
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
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
//
// Example:
//
//	ue := NewUserError(loadErr)
//	log.Error(ue.Technical)          // Log original error
//	fmt.Println(ue.Error())           // Show "A required file is missing"
//	fmt.Println(ue.User.Code)         // Show "FILE004"
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
