package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

const (
	DefaultMaxCost = 1 << 16
	DefaultTTL     = 10 * time.Minute
)

// GeneralCache 进程内缓存，支持 TTL，可并发使用
type GeneralCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewGeneralCache maxCost 按条目计，每条成本为 1；maxCost/ttl 非正时取默认值
func NewGeneralCache(maxCost int64, ttl time.Duration) (*GeneralCache, error) {
	if maxCost <= 0 {
		maxCost = DefaultMaxCost
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 ristretto 缓存失败: %w", err)
	}

	return &GeneralCache{
		cache: c,
		ttl:   ttl,
	}, nil
}

// Set 写入是异步的，紧接着的 Get 可能未命中
func (c *GeneralCache) Set(key string, value any) bool {
	return c.cache.SetWithTTL(key, value, 1, c.ttl)
}

func (c *GeneralCache) Get(key string) (any, bool) {
	return c.cache.Get(key)
}

// GetAs 取出并断言类型
func GetAs[T any](c *GeneralCache, key string) (T, bool) {
	var zero T
	value, ok := c.cache.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

func (c *GeneralCache) Delete(key string) {
	c.cache.Del(key)
}

// Wait 等待缓冲区中的写入生效
func (c *GeneralCache) Wait() {
	c.cache.Wait()
}

func (c *GeneralCache) Close() {
	c.cache.Close()
}
