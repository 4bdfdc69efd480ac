package http

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const requestIDKey = "requestID"

// Context 处理函数看到的请求，屏蔽 gin 的细节
type Context struct {
	ginCtx *gin.Context
}

func newContext(c *gin.Context) *Context {
	return &Context{ginCtx: c}
}

func (c *Context) GetParam(key string) string {
	return c.ginCtx.Param(key)
}

// QueryInt 缺省时返回 def，非整数时报错
func (c *Context) QueryInt(key string, def int) (int, error) {
	raw, ok := c.ginCtx.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("参数 %s 不是整数: %q", key, raw)
	}
	return v, nil
}

func (c *Context) GetHeader(key string) string {
	return c.ginCtx.GetHeader(key)
}

func (c *Context) SetHeader(key, value string) {
	c.ginCtx.Header(key, value)
}

// BindJSON 同时执行 binding 标签校验
func (c *Context) BindJSON(obj any) error {
	return c.ginCtx.ShouldBindJSON(obj)
}

func (c *Context) JSON(code int, obj any) {
	c.ginCtx.JSON(code, obj)
}

func (c *Context) ClientIP() string {
	return c.ginCtx.ClientIP()
}

func (c *Context) Method() string {
	return c.ginCtx.Request.Method
}

func (c *Context) Path() string {
	return c.ginCtx.Request.URL.Path
}

// RequestContext 客户端断开时取消，长时间的模拟据此中止
func (c *Context) RequestContext() context.Context {
	return c.ginCtx.Request.Context()
}

// RequestID 由 RequestIDMiddleware 写入，未经过该中间件时为空
func (c *Context) RequestID() string {
	return c.ginCtx.GetString(requestIDKey)
}

func (c *Context) setRequestID(id string) {
	c.ginCtx.Set(requestIDKey, id)
}

func (c *Context) Abort() {
	c.ginCtx.Abort()
}

func (c *Context) AbortWithStatus(code int) {
	c.ginCtx.AbortWithStatus(code)
}
