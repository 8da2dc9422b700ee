package model

import "fmt"

// ErrorKind is the closed set of failure classifications every operation
// reports. Raw backend failures are always mapped onto one of these before
// they reach a caller.
type ErrorKind string

const (
	ErrElementNotFound     ErrorKind = "element_not_found"
	ErrTimeout             ErrorKind = "timeout"
	ErrMultipleMatches     ErrorKind = "multiple_matches"
	ErrPatternNotSupported ErrorKind = "pattern_not_supported"
	ErrElementStale        ErrorKind = "element_stale"
	ErrElevatedTarget      ErrorKind = "elevated_target"
	ErrInvalidParameter    ErrorKind = "invalid_parameter"
	ErrWindowNotFound      ErrorKind = "window_not_found"
	ErrScrollExhausted     ErrorKind = "scroll_exhausted"
	ErrWrongTargetWindow   ErrorKind = "wrong_target_window"
	ErrInternal            ErrorKind = "internal_error"
)

// Kinds lists every ErrorKind. Used to keep the recovery advisor exhaustive.
var Kinds = []ErrorKind{
	ErrElementNotFound,
	ErrTimeout,
	ErrMultipleMatches,
	ErrPatternNotSupported,
	ErrElementStale,
	ErrElevatedTarget,
	ErrInvalidParameter,
	ErrWindowNotFound,
	ErrScrollExhausted,
	ErrWrongTargetWindow,
	ErrInternal,
}

// Error is a classified operation failure: a kind from the closed taxonomy,
// a human-readable message, and an actionable recovery suggestion. The
// suggestion is filled in by the recovery advisor, never ad hoc.
type Error struct {
	Kind       ErrorKind
	Message    string
	Suggestion string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// E builds an Error with a formatted message. The suggestion is attached
// later, when the failure is folded into a Result.
func E(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsError classifies err. A *Error passes through unchanged; anything else
// is wrapped as internal_error so no raw failure escapes unclassified.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{Kind: ErrInternal, Message: err.Error()}
}
