package app

import (
	"errors"

	"myreplays/internal/ports"
)

var ErrNotFound = ports.ErrNotFound

// Stable error codes, reported in batch summaries and exit messages.
const (
	CodeNavigation   = "navigation_error"
	CodeSelector     = "selector_error"
	CodePattern      = "pattern_error"
	CodeDownload     = "download_error"
	CodeToolNotFound = "tool_not_found"
	CodeProcessing   = "processing_error"
)

// CodedError carries a stable code alongside the underlying error.
//
// Setup-phase codes (navigation_error, selector_error, pattern_error,
// tool_not_found) abort the invocation; per-item codes (download_error,
// processing_error) are recorded and the batch continues.
type CodedError struct {
	Code    string
	Message string
	Err     error
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *CodedError) Unwrap() error { return e.Err }

func NewCodedError(code, message string, err error) *CodedError {
	return &CodedError{Code: code, Message: message, Err: err}
}

// ErrorCode extracts the stable code from err, or "" when it has none.
func ErrorCode(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}
