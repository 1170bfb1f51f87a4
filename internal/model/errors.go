// SPDX-License-Identifier: MIT

package model

import "errors"

// Kind is the closed error taxonomy used across the discovery pipeline.
// Only Fatal and Cancelled are terminal for a session; every other kind is
// contained at the stage that produced it.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidRequest
	KindBusy
	KindTransient
	KindRateLimited
	KindBlocked
	KindNotFound
	KindDataQuality
	KindCancelled
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindBusy:
		return "busy"
	case KindTransient:
		return "transient"
	case KindRateLimited:
		return "rate_limited"
	case KindBlocked:
		return "blocked"
	case KindNotFound:
		return "not_found"
	case KindDataQuality:
		return "data_quality"
	case KindCancelled:
		return "cancelled"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Retryable reports whether a fresh attempt is worth making for this kind.
func (k Kind) Retryable() bool {
	switch k {
	case KindTransient, KindRateLimited:
		return true
	default:
		return false
	}
}

// Terminal reports whether this kind ends the owning session outright.
func (k Kind) Terminal() bool {
	return k == KindFatal || k == KindCancelled
}

// Error carries a Kind alongside a human-readable message and an optional
// wrapped cause. It is the one error type the pipeline returns across stage
// boundaries; callers switch on Kind rather than on sentinel identity.
type Error struct {
	Kind    Kind
	Op      string // stage/operation that produced the error, e.g. "spotify.search"
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op != "" {
		return e.Op + ": " + e.Kind.String() + ": " + msg
	}
	return e.Kind.String() + ": " + msg
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a carrier Error for the given kind.
func NewError(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

// KindOf classifies an arbitrary error into the taxonomy, defaulting to
// KindTransient for unrecognized errors so that retry policies still apply.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrCancelled) {
		return KindCancelled
	}
	return KindTransient
}

// ErrCancelled is the sentinel wrapped by context cancellation across the
// pipeline; stages compare against it with errors.Is before classifying.
var ErrCancelled = errors.New("discovery: session cancelled")
