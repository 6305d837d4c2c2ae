package fault

import (
	"errors"
	"fmt"
)

// Code classifies a failure for callers. The HTTP layer maps codes to status
// codes; the core only ever returns a *Fault or a plain error it wraps.
type Code string

const (
	CodeValidation        Code = "VALIDATION"
	CodeNotFound          Code = "NOT_FOUND"
	CodeForbidden         Code = "FORBIDDEN"
	CodeConflict          Code = "CONFLICT"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeStaleState        Code = "STALE_STATE"
	CodeBusy              Code = "BUSY"
	CodeInternal          Code = "INTERNAL"
)

type Fault struct {
	Code    Code
	Message string
	cause   error
}

func (f *Fault) Error() string {
	if f.Message == "" {
		return string(f.Code)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

func (f *Fault) Unwrap() error { return f.cause }

// Retryable reports whether the caller may retry the same request unchanged.
func (f *Fault) Retryable() bool {
	return f.Code == CodeStaleState || f.Code == CodeBusy
}

func New(code Code, message string) *Fault {
	return &Fault{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Fault {
	return &Fault{Code: code, Message: message, cause: cause}
}

func Validation(format string, args ...any) *Fault {
	return &Fault{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(what string) *Fault {
	return &Fault{Code: CodeNotFound, Message: what + " not found"}
}

func Forbidden(message string) *Fault {
	return &Fault{Code: CodeForbidden, Message: message}
}

func Conflict(message string) *Fault {
	return &Fault{Code: CodeConflict, Message: message}
}

// CodeOf extracts the classification from any error chain, defaulting to
// INTERNAL for errors the core did not classify.
func CodeOf(err error) Code {
	var f *Fault
	if errors.As(err, &f) {
		return f.Code
	}
	return CodeInternal
}

func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
