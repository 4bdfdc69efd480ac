package http

import "net/http"

// Response 统一响应结构
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// 预定义的响应码
const (
	CodeSuccess      = 0     // 成功
	CodeInvalidParam = 10001 // 参数错误
	CodeNotFound     = 10004 // 资源不存在
	CodeUnavailable  = 10006 // 依赖服务未启用
	CodeServerError  = 10005 // 服务器内部错误
	CodeRateLimited  = 10007 // 请求过于频繁
)

const (
	MsgSuccess      = "success"
	MsgInvalidParam = "invalid parameters"
	MsgNotFound     = "not found"
	MsgUnavailable  = "service unavailable"
	MsgServerError  = "internal server error"
	MsgRateLimited  = "too many requests"
)

func NewResponse(code int, message string, data any) *Response {
	return &Response{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// Success 成功响应
func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, NewResponse(CodeSuccess, MsgSuccess, data))
}

// BadRequest 400
func (c *Context) BadRequest(message string) {
	if message == "" {
		message = MsgInvalidParam
	}
	c.JSON(http.StatusBadRequest, NewResponse(CodeInvalidParam, message, nil))
}

// NotFound 404
func (c *Context) NotFound(message string) {
	if message == "" {
		message = MsgNotFound
	}
	c.JSON(http.StatusNotFound, NewResponse(CodeNotFound, message, nil))
}

// ServiceUnavailable 503，存储等依赖未配置
func (c *Context) ServiceUnavailable(message string) {
	if message == "" {
		message = MsgUnavailable
	}
	c.JSON(http.StatusServiceUnavailable, NewResponse(CodeUnavailable, message, nil))
}

// InternalServerError 500
func (c *Context) InternalServerError(message string) {
	if message == "" {
		message = MsgServerError
	}
	c.JSON(http.StatusInternalServerError, NewResponse(CodeServerError, message, nil))
}

// TooManyRequests 429
func (c *Context) TooManyRequests(message string) {
	if message == "" {
		message = MsgRateLimited
	}
	c.JSON(http.StatusTooManyRequests, NewResponse(CodeRateLimited, message, nil))
}
