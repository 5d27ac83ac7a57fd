package errcode

import (
	"errors"
	"fmt"
	"net/http"
)

type Code int

const (
	CodeSuccess  Code = 200
	CodeInternal Code = iota + 1000
	CodeInvalid
	CodeNotExist
	CodeExist
	CodeUnavailable
)

var code2str = map[Code]string{
	CodeSuccess:     "success",
	CodeInternal:    "internal error",
	CodeInvalid:     "invalid argument",
	CodeNotExist:    "not exist",
	CodeExist:       "already exists",
	CodeUnavailable: "device unavailable",
}

var code2status = map[Code]int{
	CodeSuccess:     http.StatusOK,
	CodeInternal:    http.StatusInternalServerError,
	CodeInvalid:     http.StatusBadRequest,
	CodeNotExist:    http.StatusNotFound,
	CodeExist:       http.StatusConflict,
	CodeUnavailable: http.StatusServiceUnavailable,
}

func (c Code) String() string {
	s, ok := code2str[c]
	if !ok {
		return fmt.Sprintf("unknown code: %d", c)
	}
	return s
}

// HTTPStatus returns the status an API response with code c is sent with.
func (c Code) HTTPStatus() int {
	status, ok := code2status[c]
	if !ok {
		return http.StatusInternalServerError
	}
	return status
}

type ErrorCode struct {
	code    Code
	message string
}

func (e ErrorCode) Code() Code { return e.code }
func (e ErrorCode) Message() string {
	if e.code == CodeSuccess || e.message == "" {
		return e.Code().String()
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e ErrorCode) Error() string {
	if e.code == CodeSuccess {
		return e.code.String()
	}
	return fmt.Sprintf("error_code: %d, message: %s", e.Code(), e.Message())
}

func New(code Code, format string, a ...any) ErrorCode {
	return ErrorCode{
		code:    code,
		message: fmt.Sprintf(format, a...),
	}
}

func NewMessage(code Code, msg string) ErrorCode {
	return ErrorCode{code: code, message: msg}
}

func NewError(code Code, err error) ErrorCode {
	return NewMessage(code, err.Error())
}

// FromError returns err's ErrorCode, or an internal one when err has none.
func FromError(err error) ErrorCode {
	var ec ErrorCode
	if errors.As(err, &ec) {
		return ec
	}
	return NewError(CodeInternal, err)
}
