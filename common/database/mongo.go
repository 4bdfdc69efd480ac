package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"mahjongai/common/config"
)

const (
	mongoConnectTimeout    = 10 * time.Second
	mongoDisconnectTimeout = 5 * time.Second
)

var ErrMongoNotConfigured = errors.New("mongodb 未配置 url")

// MongoManager 对局记录库，只持有一个数据库
type MongoManager struct {
	Cli *mongo.Client
	Db  *mongo.Database
}

func mongoOptions(conf config.MongoConf) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(conf.Url).
		SetConnectTimeout(mongoConnectTimeout).
		SetAppName("mahjong-simulator")
	if conf.MinPoolSize > 0 {
		opts.SetMinPoolSize(uint64(conf.MinPoolSize))
	}
	if conf.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(uint64(conf.MaxPoolSize))
	}
	if conf.Username != "" && conf.Password != "" {
		opts.SetAuth(options.Credential{Username: conf.Username, Password: conf.Password})
	}
	return opts
}

func NewMongo(conf config.MongoConf) (*MongoManager, error) {
	if conf.Url == "" {
		return nil, ErrMongoNotConfigured
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, mongoOptions(conf))
	if err != nil {
		return nil, fmt.Errorf("mongodb 连接错误: %w", err)
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb Ping 错误: %w", err)
	}
	return &MongoManager{Cli: client, Db: client.Database(conf.Db)}, nil
}

// Collection 对局库下的集合
func (m *MongoManager) Collection(name string) *mongo.Collection {
	return m.Db.Collection(name)
}

func (m *MongoManager) Close() error {
	if m == nil || m.Cli == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
	defer cancel()
	return m.Cli.Disconnect(ctx)
}
