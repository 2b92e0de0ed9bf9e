package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures crossing an adapter boundary.
type ErrorKind string

const (
	KindNetwork           ErrorKind = "network_failure"
	KindAuth              ErrorKind = "auth_failure"
	KindNotAuthenticated  ErrorKind = "not_authenticated"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindUnexpectedStatus  ErrorKind = "unexpected_status"
	KindInvalidInput      ErrorKind = "invalid_input"
	KindInternal          ErrorKind = "internal"
)

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrNetwork           = &Error{Kind: KindNetwork}
	ErrAuth              = &Error{Kind: KindAuth}
	ErrNotAuthenticated  = &Error{Kind: KindNotAuthenticated}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrUnexpectedStatus  = &Error{Kind: KindUnexpectedStatus}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
)

// Error is a structured failure from a remote collaborator or coordinator.
type Error struct {
	Kind       ErrorKind
	Op         string // e.g. "login", "geocode"
	StatusCode int    // HTTP status, 0 when no response was received
	Message    string // caller-facing message
	Detail     string // server-provided detail, if any
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.StatusCode == 0 && t.Message == ""
}
