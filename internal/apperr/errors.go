// Package apperr 定义服务层对外暴露的错误分类以及它们对应的 HTTP 状态码。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindInternal   Kind = "internal"
)

// 哨兵错误，配合 errors.Is 按类别判断
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrAuth       = &Error{Kind: KindAuth}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrInternal   = &Error{Kind: KindInternal}
)

// Error 携带类别、响应码、可展示给客户端的消息和内部原因。
// Cause 只用于日志，不会写进响应。
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is 同类别即视为相等
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func (e *Error) Unwrap() error { return e.Cause }

// WithStatus 返回一个覆盖了响应码的副本
func (e *Error) WithStatus(status int) *Error {
	cp := *e
	cp.Status = status
	return &cp
}

func newError(kind Kind, status int, msg string, cause error) *Error {
	return &Error{Kind: kind, Status: status, Message: msg, Cause: cause}
}

func Validation(msg string) *Error { return newError(KindValidation, http.StatusBadRequest, msg, nil) }
func Conflict(msg string) *Error   { return newError(KindConflict, http.StatusBadRequest, msg, nil) }
func NotFound(msg string) *Error   { return newError(KindNotFound, http.StatusNotFound, msg, nil) }
func Unauthorized(msg string) *Error {
	return newError(KindAuth, http.StatusUnauthorized, msg, nil)
}
func Forbidden(msg string) *Error { return newError(KindAuth, http.StatusForbidden, msg, nil) }

// Internal 包装一个不应暴露给客户端的内部错误
func Internal(msg string, cause error) *Error {
	return newError(KindInternal, http.StatusInternalServerError, msg, cause)
}

// InternalMessage 未分类错误对外统一展示的消息
const InternalMessage = "服务器内部错误"

// From 提取 *Error；无法识别的错误一律视为内部错误
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		if e.Status == 0 {
			return e.WithStatus(http.StatusInternalServerError)
		}
		return e
	}
	return Internal(InternalMessage, err)
}
