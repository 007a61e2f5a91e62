// Package apperr defines the error kinds surfaced by the ledger's stores and
// services. Handlers match on the kind, never on message text.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInsufficientFunds Kind = "insufficient_funds_or_invalid_sender"
	KindInvalidRecipient  Kind = "invalid_recipient"
	KindSameAccount       Kind = "same_account_transfer"
	KindBalanceLimit      Kind = "balance_limit_exceeded"
	KindStorage           Kind = "storage_error"
)

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
	ErrInvalidRecipient  = &Error{Kind: KindInvalidRecipient}
	ErrSameAccount       = &Error{Kind: KindSameAccount}
	ErrBalanceLimit      = &Error{Kind: KindBalanceLimit}
	ErrStorage           = &Error{Kind: KindStorage}
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(format string, args ...any) *Error { return New(KindValidation, format, args...) }

func NotFound(format string, args ...any) *Error { return New(KindNotFound, format, args...) }

func Conflict(format string, args ...any) *Error { return New(KindConflict, format, args...) }

// Storage wraps an unexpected database failure.
func Storage(err error, message string) *Error { return Wrap(KindStorage, err, message) }

// KindOf returns the kind of the outermost *Error in err's chain. Errors that
// carry no kind are treated as storage failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorage
}

// MessageOf returns the client-facing message for err. Storage failures never
// expose the underlying driver message.
func MessageOf(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind == KindStorage {
		return "Internal storage error"
	}
	if appErr.Message != "" {
		return appErr.Message
	}
	return string(appErr.Kind)
}
