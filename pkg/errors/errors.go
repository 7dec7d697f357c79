package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 应用程序错误代码
type ErrorCode string

const (
	// ErrCodeValidation 请求数据格式或内容不正确
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeBadRequest 业务规则拒绝了请求（例如用户名已存在）
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"

	// ErrCodeUnauthorized 认证失败
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// ErrCodeNotFound 资源不存在
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeRateLimitExceeded 请求频率超过限制
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"

	// ErrCodeDatabase 数据库操作失败
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"

	// ErrCodeServiceUnavailable 依赖服务不可用
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// ErrCodeInternal 服务器内部错误
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var statusCodeMapping = map[ErrorCode]int{
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeRateLimitExceeded:  http.StatusTooManyRequests,
	ErrCodeDatabase:           http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeInternal:           http.StatusInternalServerError,
}

// AppError 应用程序错误
type AppError struct {
	Code       ErrorCode
	Message    string // 返回给客户端的消息
	StatusCode int
	Cause      error // 原始错误，不返回给客户端
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap 支持 errors.Is / errors.As
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsServerError 是否为 5xx 错误
func (e *AppError) IsServerError() bool {
	return e.StatusCode >= 500
}

func getStatusCode(code ErrorCode) int {
	if status, ok := statusCodeMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// New 创建新的应用程序错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: getStatusCode(code),
	}
}

// Wrap 用给定代码包装原始错误
func Wrap(cause error, code ErrorCode, message string) *AppError {
	e := New(code, message)
	e.Cause = cause
	return e
}

func NewValidationError(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func NewBadRequestError(message string) *AppError {
	return New(ErrCodeBadRequest, message)
}

func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Not authenticated"
	}
	return New(ErrCodeUnauthorized, message)
}

func NewNotFoundError(message string) *AppError {
	if message == "" {
		message = "Not Found"
	}
	return New(ErrCodeNotFound, message)
}

func NewRateLimitError() *AppError {
	return New(ErrCodeRateLimitExceeded, "Too many requests, please slow down")
}

func NewDatabaseError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeDatabase, message)
}

func NewServiceUnavailableError(message string) *AppError {
	return New(ErrCodeServiceUnavailable, message)
}

func NewInternalError(message string, cause error) *AppError {
	if message == "" {
		message = "Internal Server Error"
	}
	return Wrap(cause, ErrCodeInternal, message)
}

// AsAppError 提取错误链中的 AppError；非 AppError 统一视为内部错误
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("", err)
}
