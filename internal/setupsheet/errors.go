package setupsheet

import (
	"errors"
	"fmt"
)

var (
	ErrConflict         = errors.New("setupsheet: conflict")
	ErrNotFound         = errors.New("setupsheet: not found")
	ErrEmployeeNotFound = errors.New("setupsheet: employee not found")
	ErrAlreadyOnBreak   = errors.New("setupsheet: already on break")
	ErrNoActiveBreak    = errors.New("setupsheet: no active break")
	ErrValidation       = errors.New("setupsheet: validation failed")
)

// Error 携带面向店长的具体提示，Kind 用于 errors.Is 判断错误类别
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

func NotFoundf(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func Validationf(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

// Message 返回可以直接展示给用户的提示，非业务错误返回空字符串
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
