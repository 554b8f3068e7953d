package core

// # Error Codes Reference
//
// Technical errors are mapped to user-facing messages carrying a code that
// users can quote when reporting a problem. Codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large            Patterns: "file too large"
//	FILE002 - Invalid CSV               Patterns: "invalid csv"
//	FILE003 - Encoding error            Patterns: "encoding error"
//	FILE004 - No file                   Patterns: "no file provided"
//	FILE005 - Empty file                Patterns: "empty file"
//	FILE006 - Not a CSV file            Patterns: "invalid file type"
//
// # Parse Errors (PARSE001-PARSE099)
//
//	PARSE001 - Unsupported delimiter    Patterns: "unsupported delimiter"
//	PARSE002 - Invalid parse options    Patterns: "invalid parse options"
//
// # Plot Errors (PLOT001-PLOT099)
//
//	PLOT001 - Missing columns           Patterns: "xcolumn and ycolumns are required"
//	PLOT002 - Unknown column            Patterns: "column not found"
//	PLOT003 - Unknown chart type        Patterns: "invalid chart type"
//	PLOT004 - Bad upload reference      Patterns: "invalid upload id"
//	PLOT005 - Malformed request         Patterns: "invalid request body"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - System busy                Patterns: "too many concurrent uploads"
//	UPL002 - Upload expired             Patterns: "upload not found"
//	UPL003 - Request cancelled          Patterns: "context canceled"
//	UPL004 - Request timeout            Patterns: "context deadline exceeded"
//
// # Storage Errors (DB001-DB099)
//
//	DB001 - Connection refused          Patterns: "connection refused"
//	DB002 - Connection reset            Patterns: "connection reset"
//	DB003 - Timeout                     Patterns: "timeout"
//
// # Rate Limiting and Auth
//
//	RATE001 - Too many requests         Patterns: "rate limit"
//	AUTH001 - Missing API key           Patterns: "missing api key"
//	AUTH002 - Invalid API key           Patterns: "invalid api key"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Patterns are matched case-insensitively
// with strings.Contains and the first match wins, so specific patterns come
// before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage contains user-friendly error information.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{"file too large", UserMessage{"File exceeds the maximum upload size", "Upload a smaller file or remove unused columns", "FILE001"}},
	{"invalid csv", UserMessage{"The file could not be read as CSV", "Check that fields are separated by commas or semicolons and quotes are balanced", "FILE002"}},
	{"encoding error", UserMessage{"The file contains characters that could not be decoded", "Save the file as UTF-8 and upload it again", "FILE003"}},
	{"no file provided", UserMessage{"No file was selected", "Please select a CSV file to upload", "FILE004"}},
	{"empty file", UserMessage{"The uploaded file is empty", "Please upload a CSV file with data rows", "FILE005"}},
	{"invalid file type", UserMessage{"Only CSV files are allowed", "Upload a file with a .csv extension", "FILE006"}},

	// Parse errors
	{"unsupported delimiter", UserMessage{"The requested delimiter is not supported", "Use comma, semicolon or automatic detection", "PARSE001"}},
	{"invalid parse options", UserMessage{"The parser is misconfigured", "Contact the administrator", "PARSE002"}},

	// Plot errors
	{"xcolumn and ycolumns are required", UserMessage{"Choose an X column and at least one Y column", "Select the columns to plot and try again", "PLOT001"}},
	{"column not found", UserMessage{"A selected column does not exist in this file", "Pick columns from the upload preview", "PLOT002"}},
	{"invalid chart type", UserMessage{"Unknown chart type", "Use line or bar", "PLOT003"}},
	{"invalid upload id", UserMessage{"The upload reference is malformed", "Upload the file again", "PLOT004"}},
	{"invalid request body", UserMessage{"The request could not be read", "Send a JSON body with uploadId, xColumn and yColumns", "PLOT005"}},

	// Upload errors
	{"too many concurrent uploads", UserMessage{"Too many uploads are being processed", "Please wait a moment and try again", "UPL001"}},
	{"upload not found", UserMessage{"This upload no longer exists", "Uploads expire after a while. Please upload the file again", "UPL002"}},
	{"context canceled", UserMessage{"The request was cancelled", "Please try again", "UPL003"}},
	{"context deadline exceeded", UserMessage{"The request timed out", "Try a smaller file or try again later", "UPL004"}},

	// Storage errors
	{"connection refused", UserMessage{"Unable to reach the upload store", "Please try again in a few moments", "DB001"}},
	{"connection reset", UserMessage{"The upload store connection was interrupted", "Please try again", "DB002"}},
	{"timeout", UserMessage{"Operation timed out", "Please try again later", "DB003"}},

	// Rate limiting and auth
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
	{"missing api key", UserMessage{"An API key is required", "Send your key in the X-API-Key header", "AUTH001"}},
	{"invalid api key", UserMessage{"The API key was not accepted", "Check the key and try again", "AUTH002"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
//
//	msg := MapError(fmt.Errorf("plot: %w", err))
//	// msg.Code == "PLOT002" for "column not found: Temp"
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

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// generic fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
