package auth

import (
	"errors"
	"net/http"

	"github.com/samueladole/crovio/pkg/util/errorutil"
)

// ErrorKind names a failure of the authentication core.
type ErrorKind string

const (
	KindInvalidCredentials  ErrorKind = "invalid_credentials"
	KindAmbiguousIdentifier ErrorKind = "ambiguous_identifier"
	KindMalformedToken      ErrorKind = "malformed_token"
	KindBadSignature        ErrorKind = "bad_signature"
	KindExpired             ErrorKind = "expired"
	KindWrongPurpose        ErrorKind = "wrong_purpose"
	KindRevoked             ErrorKind = "revoked"
	KindUnauthenticated     ErrorKind = "unauthenticated"
	KindForbidden           ErrorKind = "forbidden"
	KindUnavailable         ErrorKind = "unavailable"
)

// Error carries an ErrorKind and the underlying cause, if any.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrExpired)
// holds regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// DomainError maps the kind to what a client may see. Token failures all
// collapse to the same 401 so the response is not an oracle.
func (e *Error) DomainError() *errorutil.DomainError {
	switch e.Kind {
	case KindInvalidCredentials:
		return errorutil.NewDomainError("INVALID_CREDENTIALS", "invalid credentials", http.StatusUnauthorized, nil)
	case KindAmbiguousIdentifier:
		return errorutil.NewDomainError("VALIDATION_FAILED", "exactly one of email or phone must be provided", http.StatusUnprocessableEntity, nil)
	case KindForbidden:
		return errorutil.NewDomainError("FORBIDDEN", "forbidden", http.StatusForbidden, nil)
	case KindUnavailable:
		return errorutil.NewUnavailable(e.Err).(*errorutil.DomainError)
	default:
		return errorutil.NewDomainError("UNAUTHENTICATED", "unauthenticated", http.StatusUnauthorized, nil)
	}
}

var (
	ErrInvalidCredentials  = &Error{Kind: KindInvalidCredentials}
	ErrAmbiguousIdentifier = &Error{Kind: KindAmbiguousIdentifier}
	ErrMalformedToken      = &Error{Kind: KindMalformedToken}
	ErrBadSignature        = &Error{Kind: KindBadSignature}
	ErrExpired             = &Error{Kind: KindExpired}
	ErrWrongPurpose        = &Error{Kind: KindWrongPurpose}
	ErrRevoked             = &Error{Kind: KindRevoked}
	ErrUnauthenticated     = &Error{Kind: KindUnauthenticated}
	ErrForbidden           = &Error{Kind: KindForbidden}
	ErrUnavailable         = &Error{Kind: KindUnavailable}
)

func newError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

// Unavailable wraps an infrastructure failure (store, hashing, cancellation).
func Unavailable(cause error) error {
	return newError(KindUnavailable, cause)
}

// KindOf extracts the ErrorKind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
