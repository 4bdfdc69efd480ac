package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"mahjongai/common/config"
)

const redisPingTimeout = 5 * time.Second

var (
	ErrRedisNotConfigured = errors.New("redis 配置出错")
	errRedisClosed        = errors.New("redis 客户端未初始化")
)

// RedisManager 胜局统计所用的 redis，单机或集群二选一
type RedisManager struct {
	cli     redis.UniversalClient
	cluster bool

	mu   sync.RWMutex
	shas map[string]string // 脚本名 -> SHA，仅单机模式缓存
}

func redisAddr(conf config.RedisConf) string {
	if conf.Addr != "" {
		return conf.Addr
	}
	if conf.Host != "" && conf.Port > 0 {
		return fmt.Sprintf("%s:%d", conf.Host, conf.Port)
	}
	return ""
}

func NewRedis(conf config.RedisConf) (*RedisManager, error) {
	r := &RedisManager{shas: make(map[string]string)}
	switch addr := redisAddr(conf); {
	case len(conf.ClusterAddrs) > 0:
		r.cluster = true
		r.cli = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        conf.ClusterAddrs,
			Password:     conf.Password,
			PoolSize:     conf.PoolSize,
			MinIdleConns: conf.MinIdleConns,
		})
	case addr != "":
		r.cli = redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     conf.Password,
			PoolSize:     conf.PoolSize,
			MinIdleConns: conf.MinIdleConns,
		})
	default:
		return nil, ErrRedisNotConfigured
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := r.cli.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis 连接错误: %w", err)
	}
	return r, nil
}

func (r *RedisManager) client() (redis.UniversalClient, error) {
	if r == nil || r.cli == nil {
		return nil, errRedisClosed
	}
	return r.cli, nil
}

func (r *RedisManager) Del(ctx context.Context, keys ...string) error {
	cli, err := r.client()
	if err != nil {
		return err
	}
	return cli.Del(ctx, keys...).Err()
}

func (r *RedisManager) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cli, err := r.client()
	if err != nil {
		return nil, err
	}
	return cli.HGetAll(ctx, key).Result()
}

// EvalScript 单机模式走 EVALSHA 并在 NOSCRIPT 时重新加载，集群模式直接 EVAL
func (r *RedisManager) EvalScript(ctx context.Context, name, script string, keys []string, args ...any) (any, error) {
	cli, err := r.client()
	if err != nil {
		return nil, err
	}
	if r.cluster || name == "" {
		return cli.Eval(ctx, script, keys, args...).Result()
	}

	r.mu.RLock()
	sha, ok := r.shas[name]
	r.mu.RUnlock()
	if ok {
		res, err := cli.EvalSha(ctx, sha, keys, args...).Result()
		if err == nil || !strings.HasPrefix(err.Error(), "NOSCRIPT") {
			return res, err
		}
	}

	sha, err = cli.ScriptLoad(ctx, script).Result()
	if err != nil {
		return nil, fmt.Errorf("加载脚本 %s 失败: %w", name, err)
	}
	r.mu.Lock()
	r.shas[name] = sha
	r.mu.Unlock()
	return cli.EvalSha(ctx, sha, keys, args...).Result()
}

func (r *RedisManager) Close() error {
	if r == nil || r.cli == nil {
		return nil
	}
	if err := r.cli.Close(); err != nil {
		return fmt.Errorf("redis 关闭出错: %w", err)
	}
	return nil
}
