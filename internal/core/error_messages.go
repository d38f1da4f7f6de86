package core

// error_messages.go maps technical errors to user-facing messages with
// codes for support reference. Users quote the code; support looks it up here.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: file exceeds the upload limit
//	FILE002 - Invalid format: extension is not .csv, .xlsx or .xlsm
//	FILE003 - Parse error: file could not be read as a table
//	FILE004 - No file: nothing was attached to the request
//	FILE005 - Empty file: header present but no data rows
//
// # Duplicate Check (DUP001-DUP099)
//
//	DUP001 - Lookup of existing questions failed; the import was halted
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Batch write failed; no rows from the batch were saved
//	IMP002 - System busy: too many imports in progress
//	IMP003 - Session not found or expired
//	IMP004 - Action not allowed in the current wizard step
//	IMP005 - Request cancelled
//	IMP006 - Request timed out
//	IMP007 - Tenant id missing or malformed
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Unique constraint violated
//	DB002 - Connection refused
//	DB003 - Connection reset
//	DB004 - Deadlock
//
// # Other
//
//	RATE001 - Rate limited
//	AUTH001 - Missing or invalid API key
//	ERR000  - Unknown error; check server logs for the technical error
//
// Sentinel errors are matched first with errors.Is. Errors that only carry
// text (driver errors, wrapped strings) fall through to case-insensitive
// pattern matching, first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

type sentinelMessage struct {
	target error
	msg    UserMessage
}

// Context errors come first so a timeout reports as a timeout whatever
// operation it cut short.
var sentinelMessages = []sentinelMessage{
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "IMP005",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try importing a smaller file or try again later",
		Code:    "IMP006",
	}},
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file into smaller files and import them separately",
		Code:    "FILE001",
	}},
	{ErrInvalidFormat, UserMessage{
		Message: "Unsupported file format",
		Action:  "Upload a .csv or .xlsx file based on the import template",
		Code:    "FILE002",
	}},
	{ErrParse, UserMessage{
		Message: "The file could not be read",
		Action:  "Check that the file is not corrupted and the first row holds the template headers",
		Code:    "FILE003",
	}},
	{ErrNoFile, UserMessage{
		Message: "No file was selected",
		Action:  "Choose a file to import",
		Code:    "FILE004",
	}},
	{ErrEmptyFile, UserMessage{
		Message: "The file has no data rows",
		Action:  "Add at least one question below the header row",
		Code:    "FILE005",
	}},
	{ErrDuplicateCheck, UserMessage{
		Message: "Could not check for existing questions",
		Action:  "Nothing was imported. Please try again in a few moments",
		Code:    "DUP001",
	}},
	{ErrBatchImport, UserMessage{
		Message: "Saving the imported questions failed",
		Action:  "No rows from this batch were saved. Download the error report and try again",
		Code:    "IMP001",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "System is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "IMP002",
	}},
	{ErrSessionNotFound, UserMessage{
		Message: "Import session not found",
		Action:  "The session may have expired. Please start a new import",
		Code:    "IMP003",
	}},
	{ErrInvalidTransition, UserMessage{
		Message: "This action is not available at the current step",
		Action:  "Refresh the page to see the current import state",
		Code:    "IMP004",
	}},
	{ErrInvalidTenant, UserMessage{
		Message: "Invalid tenant",
		Action:  "Check the tenant in the request address",
		Code:    "IMP007",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{"duplicate key", UserMessage{
		Message: "A question with this identifier already exists",
		Action:  "Remove the duplicate rows and import again",
		Code:    "DB001",
	}},
	{"unique constraint", UserMessage{
		Message: "A question with this identifier already exists",
		Action:  "Remove the duplicate rows and import again",
		Code:    "DB001",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to the database",
		Action:  "Please try again in a few moments",
		Code:    "DB002",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB003",
	}},
	{"deadlock", UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB004",
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
	{"api key", UserMessage{
		Message: "Missing or invalid API key",
		Action:  "Sign in again or contact your administrator",
		Code:    "AUTH001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error.
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

// FormatUserError formats an error as a single user-facing line.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
