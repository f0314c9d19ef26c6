package errors

import (
	"errors"
	"fmt"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// Kind 业务错误分类，决定对外的 HTTP 状态码
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindNotFound     Kind = "NOT_FOUND"
	KindForbidden    Kind = "FORBIDDEN"
	KindInvalidState Kind = "INVALID_STATE"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL"
)

// AppError 携带分类、业务码与可读信息的错误
type AppError struct {
	Kind    Kind
	Code    int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is 同分类同业务码即视为同一错误，便于 Wrap 后仍能 errors.Is 匹配哨兵
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// ── 构造函数 ──

func New(kind Kind, code int, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

// Wrap 以哨兵错误为模板附加底层原因
func Wrap(sentinel *AppError, cause error) *AppError {
	return &AppError{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Cause: cause}
}

func Validation(code int, message string) *AppError {
	return New(KindValidation, code, message)
}

func NotFound(code int, message string) *AppError {
	return New(KindNotFound, code, message)
}

func Forbidden(code int, message string) *AppError {
	return New(KindForbidden, code, message)
}

func InvalidState(code int, message string) *AppError {
	return New(KindInvalidState, code, message)
}

func Conflict(code int, message string) *AppError {
	return New(KindConflict, code, message)
}

// KindOf 返回错误分类，非 AppError 一律视为 Internal
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
