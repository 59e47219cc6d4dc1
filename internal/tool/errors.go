package tool

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind identifies why a tool invocation failed. Kinds are part of the
// wire contract with the model: they are embedded in tool results so the LLM
// can distinguish a denied action from a genuinely failed one.
type ErrorKind string

const (
	KindUnknownTool        ErrorKind = "unknown_tool"
	KindInvalidArguments   ErrorKind = "invalid_arguments"
	KindPathOutsideSandbox ErrorKind = "path_outside_sandbox"
	KindNotFound           ErrorKind = "not_found"
	KindAmbiguousMatch     ErrorKind = "ambiguous_match"
	KindBlocked            ErrorKind = "blocked"
	KindUserDenied         ErrorKind = "user_denied"
	KindTimeout            ErrorKind = "timeout"
	KindSpawnFailure       ErrorKind = "spawn_failure"
	KindNetworkError       ErrorKind = "network_error"
)

// Error is a tool failure with a machine-readable kind and human-readable
// detail. Tools return *Error for expected failures; infrastructure errors
// (context cancellation) are returned as plain errors.
type Error struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// NewError creates a tool error with the given kind and detail.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// WrapError creates a tool error wrapping an underlying cause.
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the ErrorKind from an error chain.
// Returns false if the error carries no tool kind.
func KindOf(err error) (ErrorKind, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return "", false
}

// Result is the outcome of one tool invocation. Its JSON encoding is what
// the model sees as the tool-role turn content.
type Result struct {
	CallID    string    `json:"-"`
	Success   bool      `json:"success"`
	Output    string    `json:"output,omitempty"`
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
	Detail    string    `json:"error,omitempty"`
}

// OkResult builds a successful result.
func OkResult(callID, output string) Result {
	return Result{CallID: callID, Success: true, Output: output}
}

// ErrResult builds a failed result from an error, preserving the tool
// error kind when present. Errors without a kind are reported verbatim.
func ErrResult(callID string, err error) Result {
	r := Result{CallID: callID, Success: false}
	var te *Error
	if errors.As(err, &te) {
		r.ErrorKind = te.Kind
		r.Detail = te.Detail
		if te.Err != nil {
			r.Detail = fmt.Sprintf("%s: %v", te.Detail, te.Err)
		}
		return r
	}
	r.Detail = err.Error()
	return r
}

// LLMContent returns the JSON payload sent back to the model.
func (r Result) LLMContent() string {
	data, err := json.Marshal(r)
	if err != nil {
		// Result only contains strings and a bool; Marshal cannot fail
		// in practice, but never send the model an empty turn.
		return fmt.Sprintf(`{"success":false,"error":%q}`, err.Error())
	}
	return string(data)
}
