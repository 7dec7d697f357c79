// Package response 写出与前端约定一致的 JSON 响应。
// 错误体为 {"detail": "..."}，前端直接读取 detail 字段展示。
package response

import (
	"net/http"

	"mindmaze-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ErrorBody 错误响应结构
type ErrorBody struct {
	Detail string `json:"detail"`
}

// JSON 发送成功响应
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// OK 发送200响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 发送201响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Detail 发送指定状态码的错误响应并中止处理链
func Detail(c *gin.Context, statusCode int, detail string) {
	c.AbortWithStatusJSON(statusCode, ErrorBody{Detail: detail})
}

// Error 根据错误类型写出错误响应
// 服务端错误的原因会记录到 gin 上下文，但不返回给客户端
func Error(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)
	if appErr.IsServerError() {
		_ = c.Error(err)
	}
	Detail(c, appErr.StatusCode, appErr.Message)
}

// ValidationError 发送422验证错误
func ValidationError(c *gin.Context, detail string) {
	Error(c, errors.NewValidationError(detail))
}

// NotFound 发送404错误
func NotFound(c *gin.Context) {
	Error(c, errors.NewNotFoundError(""))
}

// TooManyRequests 发送429错误
func TooManyRequests(c *gin.Context) {
	Error(c, errors.NewRateLimitError())
}

// InternalServerError 发送500错误
func InternalServerError(c *gin.Context, cause error) {
	Error(c, errors.NewInternalError("", cause))
}
