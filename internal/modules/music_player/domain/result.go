package domain

import (
	"errors"
	"strings"
)

// Result is the outcome of a user-facing operation: either a success carrying
// a message, or a failure carrying an error kind and a message.
type Result struct {
	ok      bool
	kind    ErrorKind
	message string
}

// Success creates a successful Result.
func Success(message string) Result {
	return Result{ok: true, message: message}
}

// Failure creates a failed Result.
func Failure(kind ErrorKind, message string) Result {
	return Result{kind: kind, message: message}
}

// FailureFrom converts err into a failed Result. Errors that carry no kind
// are reported as playback failures.
func FailureFrom(err error) Result {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return Failure(domainErr.Kind, domainErr.Message)
	}
	return Failure(KindPlaybackFailure, "Something went wrong!")
}

// OK reports whether the result is a success.
func (r Result) OK() bool {
	return r.ok
}

// Kind returns the error kind of a failure, or zero for a success.
func (r Result) Kind() ErrorKind {
	return r.kind
}

// Message returns the human-readable status.
func (r Result) Message() string {
	return r.message
}

// StatusCode returns 0 for a success and 1 for a failure.
func (r Result) StatusCode() int {
	if r.ok {
		return 0
	}
	return 1
}

// WithPrefix returns a copy of the result with lines prepended to the message.
func (r Result) WithPrefix(lines ...string) Result {
	if len(lines) == 0 {
		return r
	}
	parts := append(append([]string{}, lines...), r.message)
	r.message = strings.Join(parts, "\n")
	return r
}
