package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	Conf   *Config
	confMu sync.RWMutex
)

type Config struct {
	AppName      string       `mapstructure:"appName"`
	Log          LogConf      `mapstructure:"log"`
	HttpPort     int          `mapstructure:"httpPort"`
	MetricPort   int          `mapstructure:"metricPort"`
	Simulate     LimitConf    `mapstructure:"simulate"`
	Rules        RulesConf    `mapstructure:"rules"`
	Batch        BatchConf    `mapstructure:"batch"`
	Human        HumanConf    `mapstructure:"human"`
	Cache        CacheConf    `mapstructure:"cache"`
	DatabaseConf DatabaseConf `mapstructure:"database"`
	Nats         NatsConf     `mapstructure:"nats"`
}

// LimitConf HTTP 模拟接口限流，rate 为 0 时不限流
type LimitConf struct {
	Rate  float64 `mapstructure:"rate"`
	Burst int     `mapstructure:"burst"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// RulesConf 规则开关
type RulesConf struct {
	Decomposition string `mapstructure:"decomposition"` // backtrack / greedy
	ClaimPolicy   string `mapstructure:"claimPolicy"`   // scan / priority
	MaxTurns      int    `mapstructure:"maxTurns"`      // 0 不限制
}

// BatchConf 批量模拟
type BatchConf struct {
	Games            int           `mapstructure:"games"`
	Workers          int           `mapstructure:"workers"`
	Seed             int64         `mapstructure:"seed"` // 0 使用当前时间
	ProgressInterval time.Duration `mapstructure:"progressInterval"`
	Persist          bool          `mapstructure:"persist"`
	FlushSize        int           `mapstructure:"flushSize"`
}

type HumanConf struct {
	Seat            int           `mapstructure:"seat"`
	DecisionTimeout time.Duration `mapstructure:"decisionTimeout"` // 0 无限等待
}

type CacheConf struct {
	MaxCost int64         `mapstructure:"maxCost"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type DatabaseConf struct {
	MongoConf MongoConf `mapstructure:"mongo"`
	RedisConf RedisConf `mapstructure:"redis"`
}

type MongoConf struct {
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

type RedisConf struct {
	Addr         string   `mapstructure:"addr"`
	ClusterAddrs []string `mapstructure:"clusterAddrs"`
	Password     string   `mapstructure:"password"`
	PoolSize     int      `mapstructure:"poolSize"`
	MinIdleConns int      `mapstructure:"minIdleConns"`
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
}

func (r RedisConf) Enabled() bool {
	return r.Addr != "" || len(r.ClusterAddrs) > 0 || (r.Host != "" && r.Port > 0)
}

type NatsConf struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("appName", "mahjong-simulator")
	v.SetDefault("log.level", "info")
	v.SetDefault("httpPort", 8080)
	v.SetDefault("metricPort", 5854)
	v.SetDefault("simulate.rate", 1)
	v.SetDefault("simulate.burst", 3)
	v.SetDefault("rules.decomposition", "backtrack")
	v.SetDefault("rules.claimPolicy", "scan")
	v.SetDefault("rules.maxTurns", 0)
	v.SetDefault("batch.games", 1000)
	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.seed", 0)
	v.SetDefault("batch.progressInterval", 5*time.Second)
	v.SetDefault("batch.persist", false)
	v.SetDefault("batch.flushSize", 100)
	v.SetDefault("human.seat", 0)
	v.SetDefault("human.decisionTimeout", 0)
	v.SetDefault("cache.maxCost", 1<<16)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("database.mongo.db", "mahjong")
	v.SetDefault("database.mongo.minPoolSize", 1)
	v.SetDefault("database.mongo.maxPoolSize", 16)
	v.SetDefault("nats.subject", "mahjong.events")
}

func newViper(configFile string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	return v
}

// Load 读取配置文件；configFile 为空时只使用默认值与环境变量
func Load(configFile string) (*Config, error) {
	v := newViper(configFile)
	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件出错: %w", err)
		}
	}
	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件出错: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitConfig 加载到全局 Conf 并监听文件变更
func InitConfig(configFile string) error {
	cfg, err := Load(configFile)
	if err != nil {
		return err
	}
	setConf(cfg)
	if configFile == "" {
		return nil
	}

	v := newViper(configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("读取配置文件出错: %w", err)
	}
	v.WatchConfig()
	v.OnConfigChange(func(in fsnotify.Event) {
		next := new(Config)
		if err := v.Unmarshal(next); err != nil {
			return
		}
		if next.Validate() != nil {
			return
		}
		setConf(next)
	})
	return nil
}

func setConf(cfg *Config) {
	confMu.Lock()
	defer confMu.Unlock()
	Conf = cfg
}

// Current 热更新安全的读取
func Current() *Config {
	confMu.RLock()
	defer confMu.RUnlock()
	return Conf
}

func (c *Config) Validate() error {
	if c.Batch.Games < 0 {
		return fmt.Errorf("batch.games 不能为负数: %d", c.Batch.Games)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers 必须为正数: %d", c.Batch.Workers)
	}
	if c.Human.Seat < 0 || c.Human.Seat > 3 {
		return fmt.Errorf("human.seat 超出范围: %d", c.Human.Seat)
	}
	if c.Rules.MaxTurns < 0 {
		return fmt.Errorf("rules.maxTurns 不能为负数: %d", c.Rules.MaxTurns)
	}
	return nil
}
