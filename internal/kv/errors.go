package kv

import (
	"errors"
	"fmt"
)

// Kind classifies a storage failure.
type Kind string

const (
	KindNotFound Kind = "not_found"
	KindRead     Kind = "read"
	KindWrite    Kind = "write"
	KindDecode   Kind = "decode"
)

// ErrNotFound is matched by errors.Is for any *Error of KindNotFound.
var ErrNotFound = errors.New("kv: key not found")

// Error is a storage failure tied to a single key.
type Error struct {
	Kind  Kind
	Key   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("kv %s %q: %v", e.Kind, e.Key, e.Cause)
	}
	return fmt.Sprintf("kv %s %q", e.Kind, e.Key)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrNotFound) match not-found errors without a cause.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

func NotFound(key string) *Error {
	return &Error{Kind: KindNotFound, Key: key}
}

func ReadError(key string, cause error) *Error {
	return &Error{Kind: KindRead, Key: key, Cause: cause}
}

func WriteError(key string, cause error) *Error {
	return &Error{Kind: KindWrite, Key: key, Cause: cause}
}

func DecodeError(key string, cause error) *Error {
	return &Error{Kind: KindDecode, Key: key, Cause: cause}
}

// KindOf returns the kind of err, or "" if err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
