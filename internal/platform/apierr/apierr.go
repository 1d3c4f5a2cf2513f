package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation     Kind = "validation"
	KindUpstream       Kind = "upstream"
	KindTransformation Kind = "transformation"
	KindInternal       Kind = "internal"
)

// Error is the single error type surfaced to callers. Status is the HTTP status the
// service answers with; UpstreamStatus keeps the status reported by the collaborator.
type Error struct {
	Kind           Kind
	Status         int
	Code           string
	Service        string
	UpstreamStatus int
	Err            error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := ""
	switch {
	case e.Err != nil:
		msg = e.Err.Error()
	case e.Code != "":
		msg = e.Code
	case e.Status != 0:
		msg = fmt.Sprintf("api error (%d)", e.Status)
	default:
		msg = "api error"
	}
	if e.Service != "" {
		return e.Service + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Kind: KindInternal, Status: status, Code: code, Err: err}
}

func Validation(code string, format string, args ...any) *Error {
	return &Error{
		Kind:   KindValidation,
		Status: http.StatusBadRequest,
		Code:   code,
		Err:    fmt.Errorf(format, args...),
	}
}

// Upstream wraps a failure from a collaborator. upstreamStatus is 0 for transport
// failures (connection refused, timeout).
func Upstream(service string, upstreamStatus int, err error) *Error {
	status := http.StatusBadGateway
	code := "upstream_error"
	switch {
	case isTimeout(err):
		status = http.StatusGatewayTimeout
		code = "upstream_timeout"
	case upstreamStatus == http.StatusNotFound:
		status = http.StatusNotFound
		code = "upstream_not_found"
	case upstreamStatus == http.StatusBadRequest || upstreamStatus == http.StatusUnprocessableEntity:
		status = http.StatusBadRequest
		code = "upstream_rejected"
	}
	return &Error{
		Kind:           KindUpstream,
		Status:         status,
		Code:           code,
		Service:        service,
		UpstreamStatus: upstreamStatus,
		Err:            err,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func Transformation(code string, err error) *Error {
	return &Error{
		Kind:   KindTransformation,
		Status: http.StatusUnprocessableEntity,
		Code:   code,
		Err:    err,
	}
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

func StatusOf(err error) int {
	if e, ok := As(err); ok && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

func CodeOf(err error) string {
	if e, ok := As(err); ok && e.Code != "" {
		return e.Code
	}
	return "internal_error"
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
