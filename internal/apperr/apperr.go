// File: internal/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
)

// Code 錯誤分類
type Code string

const (
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeValidation   Code = "VALIDATION"
	CodeInternal     Code = "INTERNAL"
)

// Error 攜帶分類、欄位與底層原因的結構化錯誤
type Error struct {
	Code    Code
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// NotFound 資料不存在或不屬於目前使用者，兩者對外一律相同
func NotFound() *Error {
	return &Error{Code: CodeNotFound, Message: "not found"}
}

// Validation 欄位層級的驗證錯誤
func Validation(field, message string) *Error {
	return &Error{Code: CodeValidation, Field: field, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// Internal 包裝內部錯誤；Message 固定，不外洩原因
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "internal server error", Cause: cause}
}

// CodeOf 取出錯誤分類，非 *Error 視為 INTERNAL
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is 判斷 err 是否屬於指定分類
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
