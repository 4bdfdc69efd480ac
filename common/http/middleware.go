package http

import (
	"github.com/google/uuid"

	"mahjongai/common/log"
	"mahjongai/common/utils"
)

// CorsMiddleware 跨域
func CorsMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.SetHeader("Access-Control-Allow-Origin", "*")
			c.SetHeader("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			c.SetHeader("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, X-Request-ID")
		}
		// 预检请求
		if c.Method() == "OPTIONS" {
			c.AbortWithStatus(204)
		}
		return nil
	}
}

// LoggerMiddleware 请求日志
func LoggerMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		log.Debug("HTTP 请求 [%s] %s %s from %s", c.RequestID(), c.Method(), c.Path(), c.ClientIP())
		return nil
	}
}

// RequestIDMiddleware 透传或生成请求 ID
func RequestIDMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.setRequestID(requestID)
		c.SetHeader("X-Request-ID", requestID)
		return nil
	}
}

// RateLimitMiddleware 超出限流时返回 429
func RateLimitMiddleware(limiter *utils.RateLimiter) MiddlewareFunc {
	return func(c *Context) error {
		if !limiter.Allow() {
			c.TooManyRequests("")
			c.Abort()
		}
		return nil
	}
}
