package api

import (
	"time"

	"mahjongai/common/http"
)

// PingHandler ping 检查
func PingHandler(c *http.Context) error {
	c.Success(map[string]any{
		"message":   "pong",
		"timestamp": time.Now().Unix(),
		"service":   "simulator",
	})
	return nil
}
