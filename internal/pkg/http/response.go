package http

import (
	"github.com/gin-gonic/gin"

	"aurabox/internal/model"
)

// 业务错误码：前三位为 HTTP 状态码
const (
	CodeBadRequest          = 40001
	CodeInvalidImage        = 40003
	CodeInvalidEvent        = 40004
	CodeUnsupportedLanguage = 40005
	CodeUserBanned          = 40006
	CodeInvalidAuthHeader   = 40101
	CodeInvalidToken        = 40102
	CodeTokenExpired        = 40103
	CodeQuotaExceeded       = 40301
	CodeNotFound            = 40401
	CodeConflict            = 40901
	CodeUserExists          = 40902
	CodeEmailTaken          = 40903
	CodeBodyTooLarge        = 41301
	CodeTooManyRequests     = 42901
	CodeInternal            = 50001
)

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse = model.ErrorResponse

// SuccessResponse 成功响应（所有API共用）
// 用于统一成功响应格式
type SuccessResponse struct {
	Code    int         `json:"code"`           // 状态码（0表示成功）
	Message string      `json:"message"`        // 响应消息
	Data    interface{} `json:"data,omitempty"` // 响应数据（可选）
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(message string, data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Code:    0,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string, detail ...string) *ErrorResponse {
	resp := &ErrorResponse{
		Code:    code,
		Message: message,
	}
	if len(detail) > 0 && detail[0] != "" {
		resp.Detail = detail[0]
	}
	return resp
}

// Error 写入错误响应
func Error(c *gin.Context, status, code int, message string, detail ...string) {
	c.JSON(status, NewErrorResponse(code, message, detail...))
}

// Abort 写入错误响应并终止后续中间件
func Abort(c *gin.Context, status, code int, message string, detail ...string) {
	c.AbortWithStatusJSON(status, NewErrorResponse(code, message, detail...))
}
