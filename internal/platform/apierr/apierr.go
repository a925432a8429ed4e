package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers that branch on the failure mode
// rather than the HTTP status.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindDuplicate
	KindConflict
)

type Error struct {
	Status int
	Code   string
	Kind   Kind
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(code, format string, args ...interface{}) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code, Kind: KindValidation, Err: fmt.Errorf(format, args...)}
}

func NotFound(code, format string, args ...interface{}) *Error {
	return &Error{Status: http.StatusNotFound, Code: code, Kind: KindNotFound, Err: fmt.Errorf(format, args...)}
}

func Duplicate(code, format string, args ...interface{}) *Error {
	return &Error{Status: http.StatusConflict, Code: code, Kind: KindDuplicate, Err: fmt.Errorf(format, args...)}
}

func Conflict(code, format string, args ...interface{}) *Error {
	return &Error{Status: http.StatusConflict, Code: code, Kind: KindConflict, Err: fmt.Errorf(format, args...)}
}

func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsDuplicate(err error) bool  { return KindOf(err) == KindDuplicate }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
