package pagearc

import (
	"errors"
	"fmt"
	"time"
)

// Application error codes. These map failures into a small taxonomy that the
// retry layer uses to decide whether an operation is worth repeating.
const (
	EEXISTS    = "exists"     // target file already present
	EINTERNAL  = "internal"   // unexpected internal failure
	EINVALID   = "invalid"    // validation failed
	ENETWORK   = "network"    // transient network fault
	ENOTFOUND  = "not_found"  // entity does not exist
	EPARSE     = "parse"      // content could not be parsed or converted
	ERATELIMIT = "rate_limit" // source is throttling requests
	ETIMEOUT   = "timeout"    // operation exceeded its deadline
)

// Error represents an application error. Errors are immutable after creation:
// the constructor functions below set every field and callers only read them.
type Error struct {
	// Code is one of the application error codes above.
	Code string

	// Message is a human-readable description.
	Message string

	// Context carries structured metadata about the failure, such as the
	// HTTP status code ("status"), a transport fault code ("code"), or
	// retry accounting ("attemptsMade", "totalAttempts", "nonRetryable").
	Context map[string]any

	// Err is the wrapped cause, if any.
	Err error

	// Time is when the error was created.
	Time time.Time
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pagearc error: code=%s message=%s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("pagearc error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf returns a new Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Time:    time.Now().UTC(),
	}
}

// WrapError returns a new Error wrapping err with the given code, message and
// context. The context map is stored as-is; callers must not mutate it after
// the call.
func WrapError(err error, code string, message string, context map[string]any) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: context,
		Err:     err,
		Time:    time.Now().UTC(),
	}
}

// ErrorCode returns the code of the first *Error in err's chain, or EINTERNAL
// for non-application errors. Returns the empty string for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the first *Error in err's chain, or a
// generic message for non-application errors. Returns the empty string for nil.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorContext returns the context map of the first *Error in err's chain
// that has one, or nil.
func ErrorContext(err error) map[string]any {
	var e *Error
	for errors.As(err, &e) {
		if e.Context != nil {
			return e.Context
		}
		err = e.Unwrap()
	}
	return nil
}

// StatusCode returns the HTTP-like status carried in err's context, or 0.
func StatusCode(err error) int {
	ctx := ErrorContext(err)
	if ctx == nil {
		return 0
	}
	switch v := ctx["status"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

// FaultCode returns the transport fault code carried in err's context
// (e.g. "ECONNRESET"), or the empty string.
func FaultCode(err error) string {
	ctx := ErrorContext(err)
	if ctx == nil {
		return ""
	}
	if code, ok := ctx["code"].(string); ok {
		return code
	}
	return ""
}
