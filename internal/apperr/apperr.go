// Package apperr is the error type shared by services and the HTTP boundary.
// Services return *Error values; the echo error handler turns them into the
// {success:false, message} body with the matching status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthenticated
	KindForbidden
	KindConflict
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil && e.Kind == KindInternal {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Status() int { return e.Kind.Status() }

// New records the call site stack so development responses can show it.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, cause: pkgerrors.New(msg)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	if err == nil {
		return New(kind, msg)
	}
	return &Error{Kind: kind, Message: msg, cause: pkgerrors.WithStack(err)}
}

func Validation(msg string) *Error      { return New(KindValidation, msg) }
func NotFound(msg string) *Error        { return New(KindNotFound, msg) }
func Unauthenticated(msg string) *Error { return New(KindUnauthenticated, msg) }
func Forbidden(msg string) *Error       { return New(KindForbidden, msg) }
func Conflict(msg string) *Error        { return New(KindConflict, msg) }

func Upstream(msg string, err error) *Error { return Wrap(KindUpstream, msg, err) }

func Internal(err error) *Error { return Wrap(KindInternal, "Internal Server Error", err) }

func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Stack returns the innermost recorded stack trace, or "" when none was captured.
func Stack(err error) string {
	var st stackTracer
	for e := err; e != nil; e = errors.Unwrap(e) {
		if s, ok := e.(stackTracer); ok {
			st = s
		}
	}
	if st == nil {
		return ""
	}
	return strings.TrimPrefix(fmt.Sprintf("%+v", st.StackTrace()), "\n")
}
