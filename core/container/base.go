package container

import (
	"errors"

	"mahjongai/common/config"
	"mahjongai/common/database"
	"mahjongai/common/log"
)

// BaseContainer 数据库连接，未配置或连接失败的为 nil
type BaseContainer struct {
	mongo *database.MongoManager
	redis *database.RedisManager
}

// NewBase 存储是可选的：连接失败只告警，模拟照常进行
func NewBase(conf config.DatabaseConf) *BaseContainer {
	base := &BaseContainer{}
	if conf.MongoConf.Url != "" {
		mongo, err := database.NewMongo(conf.MongoConf)
		if err != nil {
			log.Warn("mongodb 不可用，对局记录不会保存: %v", err)
		} else {
			base.mongo = mongo
			log.Info("mongodb 服务连接成功, db:%s", conf.MongoConf.Db)
		}
	}
	if conf.RedisConf.Enabled() {
		redis, err := database.NewRedis(conf.RedisConf)
		if err != nil {
			log.Warn("redis 不可用，胜负统计不会累计: %v", err)
		} else {
			base.redis = redis
			log.Info("redis 服务连接成功")
		}
	}
	return base
}

func (c *BaseContainer) GetMongo() *database.MongoManager {
	return c.mongo
}

func (c *BaseContainer) GetRedis() *database.RedisManager {
	return c.redis
}

// Close 关闭所有资源
func (c *BaseContainer) Close() error {
	var errs []error
	if c.mongo != nil {
		if err := c.mongo.Close(); err != nil {
			log.Error("mongo 关闭失败: %v", err)
			errs = append(errs, err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Error("%v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
