package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure reported back to the user.
type ErrorKind int

const (
	// KindNotFound means the provider returned zero results.
	KindNotFound ErrorKind = iota + 1
	// KindUnsupportedQuery means the query matched no known kind.
	KindUnsupportedQuery
	// KindNothingPlaying means the operation needs an active queue.
	KindNothingPlaying
	// KindConnectionFailure means the voice connection could not be established or kept.
	KindConnectionFailure
	// KindPlaybackFailure means a resolved entry could not be started.
	KindPlaybackFailure
	// KindProviderUnavailable means the provider could not be reached or authorized.
	KindProviderUnavailable
	// KindPageOutOfRange means a queue page outside the available range was requested.
	KindPageOutOfRange
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnsupportedQuery:
		return "unsupported_query"
	case KindNothingPlaying:
		return "nothing_playing"
	case KindConnectionFailure:
		return "connection_failure"
	case KindPlaybackFailure:
		return "playback_failure"
	case KindProviderUnavailable:
		return "provider_unavailable"
	case KindPageOutOfRange:
		return "page_out_of_range"
	default:
		return "unknown"
	}
}

// Error is a failure with a kind and a message meant for the user.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// NewError creates an Error without an underlying cause.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates an Error that keeps err as its cause.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind and message, so sentinel
// values declared with NewError work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind, true
	}
	return 0, false
}

// ErrPageOutOfRange is returned when a queue page does not exist.
var ErrPageOutOfRange = NewError(KindPageOutOfRange, "That page doesn't exist!")
