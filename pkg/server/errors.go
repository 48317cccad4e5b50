package server

import (
	"errors"
	"fmt"
)

// Error is a service error that carries the code the transport maps to a status.
type Error struct {
	orig error
	msg  string
	code ErrorCode
}

type ErrorCode uint

const (
	ErrUnknown ErrorCode = iota
	ErrNotFound
	ErrBadParamInput
	ErrConflict
	ErrInternalServerError
)

func WrapErrorf(orig error, code ErrorCode, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
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

// Message is the user facing part of the error, without the wrapped cause.
func (e *Error) Message() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func (e *Error) Code() ErrorCode {
	return e.code
}

// Code returns the code of the first Error in err's chain, ErrUnknown if there is none.
func Code(err error) ErrorCode {
	var ierr *Error
	if !errors.As(err, &ierr) {
		return ErrUnknown
	}
	return ierr.Code()
}
