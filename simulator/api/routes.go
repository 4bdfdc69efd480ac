package api

import (
	"mahjongai/common/http"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(server *http.HttpServer, h *Handler) {
	server.GET("/ping", PingHandler)

	v1 := server.Group("/api/v1")
	{
		v1.GET("/stats", h.StatsHandler)
		v1.GET("/games", h.RecentGamesHandler)
		v1.GET("/games/:id", h.GameRecordHandler)
	}

	// 模拟接口占用 CPU，单独限流
	var limits []http.MiddlewareFunc
	if h.Limiter != nil {
		limits = append(limits, http.RateLimitMiddleware(h.Limiter))
	}
	server.Group("/api/v1/simulate", limits...).POST("", h.SimulateHandler)
}
