package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mahjongai/common/log"
)

type HandlerFunc func(*Context) error
type MiddlewareFunc func(*Context) error

// HttpServer 模拟服务的 HTTP 入口
type HttpServer struct {
	engine       *gin.Engine
	server       *http.Server
	port         int
	readTimeout  time.Duration
	writeTimeout time.Duration
}

type ServerOption func(*HttpServer)

func WithPort(port int) ServerOption {
	return func(s *HttpServer) {
		s.port = port
	}
}

// WithMode debug / release / test
func WithMode(mode string) ServerOption {
	return func(s *HttpServer) {
		gin.SetMode(mode)
	}
}

// WithTimeouts 写超时需覆盖最长一次批量模拟
func WithTimeouts(read, write time.Duration) ServerOption {
	return func(s *HttpServer) {
		s.readTimeout = read
		s.writeTimeout = write
	}
}

func NewHttpServer(opts ...ServerOption) *HttpServer {
	s := &HttpServer{
		port:         8080,
		readTimeout:  10 * time.Second,
		writeTimeout: 2 * time.Minute,
	}
	// gin 模式需在创建 engine 前设置
	for _, opt := range opts {
		opt(s)
	}
	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	s.engine.NoRoute(func(c *gin.Context) {
		newContext(c).NotFound("接口不存在: " + c.Request.URL.Path)
	})
	return s
}

func (s *HttpServer) wrapHandler(handler HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := newContext(c)
		if err := handler(ctx); err != nil {
			log.Error("处理 %s %s 出错: %v", ctx.Method(), ctx.Path(), err)
			ctx.InternalServerError(err.Error())
		}
	}
}

// wrapMiddleware 中间件自行 Abort 时不再继续
func (s *HttpServer) wrapMiddleware(middleware MiddlewareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := newContext(c)
		if err := middleware(ctx); err != nil {
			ctx.InternalServerError(err.Error())
			c.Abort()
			return
		}
		if c.IsAborted() {
			return
		}
		c.Next()
	}
}

func (s *HttpServer) GET(path string, handler HandlerFunc) {
	s.engine.GET(path, s.wrapHandler(handler))
}

func (s *HttpServer) POST(path string, handler HandlerFunc) {
	s.engine.POST(path, s.wrapHandler(handler))
}

func (s *HttpServer) Use(middlewares ...MiddlewareFunc) {
	for _, m := range middlewares {
		s.engine.Use(s.wrapMiddleware(m))
	}
}

func (s *HttpServer) Group(relativePath string, middlewares ...MiddlewareFunc) *RouterGroup {
	g := s.engine.Group(relativePath)
	for _, m := range middlewares {
		g.Use(s.wrapMiddleware(m))
	}
	return &RouterGroup{group: g, server: s}
}

type RouterGroup struct {
	group  *gin.RouterGroup
	server *HttpServer
}

func (rg *RouterGroup) GET(path string, handler HandlerFunc) {
	rg.group.GET(path, rg.server.wrapHandler(handler))
}

func (rg *RouterGroup) POST(path string, handler HandlerFunc) {
	rg.group.POST(path, rg.server.wrapHandler(handler))
}

// Start 阻塞直到关闭，Shutdown 触发的退出返回 nil
func (s *HttpServer) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.engine,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}
	log.Info("HTTP 服务监听 :%d", s.port)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HttpServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler 测试中配合 httptest 使用
func (s *HttpServer) Handler() http.Handler {
	return s.engine
}

func (s *HttpServer) GetPort() int {
	return s.port
}
