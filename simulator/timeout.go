package main

import (
	"fmt"
	"time"
)

// parseTimeout 空串表示不限时
func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("timeout 格式错误 %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout 不能为负数: %v", d)
	}
	return d, nil
}
