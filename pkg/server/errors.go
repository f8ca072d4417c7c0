package server

import "fmt"

type ErrorCode uint

const (
	ErrInternalServerError ErrorCode = iota
	ErrNotFound
	ErrUnreachable
	ErrBadParamInput
	ErrDecode
)

// Error carries an application error code so transport handlers can map
// service failures to status codes without string matching.
type Error struct {
	orig error
	msg  string
	code ErrorCode
}

func WrapErrorf(orig error, code ErrorCode, format string, a ...interface{}) error {
	return &Error{
		orig: orig,
		code: code,
		msg:  fmt.Sprintf(format, a...),
	}
}

func NewErrorf(code ErrorCode, format string, a ...interface{}) error {
	return WrapErrorf(nil, code, format, a...)
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func (e *Error) Code() ErrorCode {
	return e.code
}
