package core

// # Error Codes Reference
//
// This file maps technical errors to user-friendly messages with a code that
// users can quote to support.
//
// # Data Errors (DATA001-DATA099)
//
//	DATA001 - Would delete all rows: every row has at least one missing value
//	          Action: Use "Fill missing values" instead or remove empty columns first
//	          Match: ErrWouldEmptyDataset
//
//	DATA002 - Invalid column: the operation named a column that is not in the dataset
//	          Action: Refresh the page and try again
//	          Match: ErrInvalidColumn
//
//	DATA003 - Undefined average: a numeric column has no values to average
//	          Action: Remove empty columns first, then fill missing values
//	          Match: ErrUndefinedAggregate
//
//	DATA004 - Invalid dataset: the decoded table is malformed
//	          Action: Check the file for duplicate or missing headers
//	          Match: ErrInvalidTable
//
//	DATA005 - Non-finite average: a numeric column holds infinite values
//	          Action: Remove the column or replace the infinite values, then fill
//	          Match: ErrNonFiniteAggregate
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large
//	          Patterns: "file too large"
//
//	FILE002 - Unreadable file: the file could not be read as CSV or Excel
//	          Match: ErrUnreadableInput
//
//	FILE003 - Unsupported format
//	          Patterns: "unsupported format"
//
//	FILE004 - No file
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file
//	          Patterns: "empty file"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - No dataset: nothing has been uploaded in this session
//	         Match: ErrNoDataset
//
//	SES002 - Session expired
//	         Patterns: "session not found"
//
//	SES003 - Too many sessions
//	         Patterns: "too many sessions"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: too many uploads being decoded
//	         Patterns: "too many concurrent uploads"
//
//	UPL004 - Request cancelled
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid request body or parameters
//	         Patterns: "invalid request"
//
//	REQ002 - Unknown cleaning operation
//	         Patterns: "unknown operation"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the application logs for the original
// error.
//
// # Matching
//
// Sentinel matches (errors.Is) are tried first, in table order, so wrapped
// errors map correctly regardless of their text. Patterns are then matched
// case-insensitively with strings.Contains; the first match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type sentinelMessage struct {
	target error
	msg    UserMessage
}

var sentinelMessages = []sentinelMessage{
	{
		target: ErrWouldEmptyDataset,
		msg: UserMessage{
			Message: "This would delete all rows",
			Action:  `Use "Fill missing values" instead or remove empty columns first`,
			Code:    "DATA001",
		},
	},
	{
		target: ErrInvalidColumn,
		msg: UserMessage{
			Message: "A selected column is not in the dataset",
			Action:  "Refresh the page and try again",
			Code:    "DATA002",
		},
	},
	{
		target: ErrUndefinedAggregate,
		msg: UserMessage{
			Message: "A numeric column has no values to average",
			Action:  "Remove empty columns first, then fill missing values",
			Code:    "DATA003",
		},
	},
	{
		target: ErrNonFiniteAggregate,
		msg: UserMessage{
			Message: "A numeric column holds infinite values, so its average is not a number",
			Action:  "Remove the column or replace the infinite values, then fill missing values",
			Code:    "DATA005",
		},
	},
	{
		target: ErrInvalidTable,
		msg: UserMessage{
			Message: "The file does not contain a valid table",
			Action:  "Check the file for duplicate or missing headers",
			Code:    "DATA004",
		},
	},
	{
		target: ErrUnreadableInput,
		msg: UserMessage{
			Message: "Could not read Excel / CSV file",
			Action:  "Please check the file format",
			Code:    "FILE002",
		},
	},
	{
		target: ErrNoDataset,
		msg: UserMessage{
			Message: "No dataset has been uploaded yet",
			Action:  "Upload a CSV or Excel file to start",
			Code:    "SES001",
		},
	},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported format",
		msg: UserMessage{
			Message: "Only CSV and Excel (.xlsx) files are supported",
			Action:  "Save the file as .csv or .xlsx and upload again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV or Excel file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a file with a header row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Your session has expired",
			Action:  "Upload the file again to start a new session",
			Code:    "SES002",
		},
	},
	{
		pattern: "too many sessions",
		msg: UserMessage{
			Message: "The server is handling too many sessions",
			Action:  "Please try again in a few minutes",
			Code:    "SES003",
		},
	},
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
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
			Action:  "Try uploading a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be understood",
			Action:  "Check the submitted values and try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "unknown operation",
		msg: UserMessage{
			Message: "That cleaning operation does not exist",
			Action:  "Choose one of the operations on the cleaning page",
			Code:    "REQ002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	_, err := core.DropRowsWithAnyMissing(t)
//	msg := MapError(err)
//	// msg.Code == "DATA001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
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
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
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
