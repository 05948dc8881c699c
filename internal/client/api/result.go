package api

import "fmt"

// Error types produced on the client side, next to the ones the server sends.
const (
	ErrorTypeNetwork      = "network_error"
	ErrorTypeBadResponse  = "bad_response"
	ErrorTypeUnauthorized = "unauthorized"
)

// Error is the error half of a Result: either the server's error object or a transport
// failure described the same way.
type Error struct {
	Status  int    `json:"-"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Type, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unauthenticated reports whether the server rejected the bearer token. The stored token
// is useless after this and should be dropped.
func (e *Error) Unauthenticated() bool {
	return e.Status == 401 && e.Type == ErrorTypeUnauthorized
}

// Result is exactly one of a value or an *Error.
type Result[T any] struct {
	data T
	err  *Error
}

// Ok wraps a value.
func Ok[T any](v T) Result[T] { return Result[T]{data: v} }

// Fail wraps an error. A nil error is turned into a bad-response error so that a Result is
// never empty.
func Fail[T any](err *Error) Result[T] {
	if err == nil {
		err = &Error{Type: ErrorTypeBadResponse, Message: "missing error"}
	}
	return Result[T]{err: err}
}

// OK reports whether the result carries a value.
func (r Result[T]) OK() bool { return r.err == nil }

// Data returns the value and true, or the zero value and false on failure.
func (r Result[T]) Data() (T, bool) { return r.data, r.err == nil }

// Err returns the failure, or nil.
func (r Result[T]) Err() *Error { return r.err }

// Unwrap converts the result into Go's usual value, error pair.
func (r Result[T]) Unwrap() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.data, nil
}
