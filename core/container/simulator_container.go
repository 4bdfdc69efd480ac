package container

import (
	"context"
	"errors"
	"time"

	"mahjongai/common/cache"
	"mahjongai/common/config"
	"mahjongai/common/log"
	"mahjongai/core/domain/repository"
	"mahjongai/core/infrastructure/message"
	"mahjongai/core/infrastructure/persistence"
	"mahjongai/core/infrastructure/realtime"
	"mahjongai/runtime/game/engines/mahjong"
)

// SimulatorContainer 模拟器依赖：规则、共享 Searcher 与可选的存储和消息
type SimulatorContainer struct {
	*BaseContainer
	Options              mahjong.Options
	Searcher             *mahjong.Searcher
	Cache                *cache.GeneralCache
	GameRecordRepository repository.GameRecordRepository // mongodb 不可用时为 nil
	WinTallyRepository   repository.WinTallyRepository   // redis 不可用时为 nil
	Publisher            *message.EventPublisher         // nats 未配置时为 nil
}

type indexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}

func NewSimulatorContainer(conf *config.Config) (*SimulatorContainer, error) {
	opts, err := RuleOptions(conf)
	if err != nil {
		return nil, err
	}

	c := &SimulatorContainer{
		BaseContainer: NewBase(conf.DatabaseConf),
		Options:       opts,
	}

	if conf.Cache.MaxCost > 0 {
		gc, err := cache.NewGeneralCache(conf.Cache.MaxCost, conf.Cache.TTL)
		if err != nil {
			log.Warn("创建牌型缓存失败，不使用缓存: %v", err)
		} else {
			c.Cache = gc
		}
	}
	c.Searcher = mahjong.NewSearcher(opts.Decomposition, c.Cache)

	if mongo := c.GetMongo(); mongo != nil {
		c.GameRecordRepository = persistence.NewGameRecordRepository(mongo)
		if ie, ok := c.GameRecordRepository.(indexEnsurer); ok {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := ie.EnsureIndexes(ctx); err != nil {
				log.Warn("对局记录索引创建失败: %v", err)
			}
			cancel()
		}
	}
	if redis := c.GetRedis(); redis != nil {
		c.WinTallyRepository = realtime.NewRedisWinTallyRepository(redis)
	}
	if conf.Nats.URL != "" {
		publisher, err := message.NewEventPublisher(conf.Nats.URL, conf.Nats.Subject)
		if err != nil {
			log.Warn("nats 不可用，对局事件不会推送: %v", err)
		} else {
			c.Publisher = publisher
		}
	}
	return c, nil
}

// RuleOptions 把规则配置转为引擎选项
func RuleOptions(conf *config.Config) (mahjong.Options, error) {
	decomposition, err := mahjong.ParseDecompositionPolicy(conf.Rules.Decomposition)
	if err != nil {
		return mahjong.Options{}, err
	}
	claimPolicy, err := mahjong.ParseClaimPolicy(conf.Rules.ClaimPolicy)
	if err != nil {
		return mahjong.Options{}, err
	}
	return mahjong.Options{
		Decomposition:   decomposition,
		ClaimPolicy:     claimPolicy,
		MaxTurns:        conf.Rules.MaxTurns,
		DecisionTimeout: conf.Human.DecisionTimeout,
	}, nil
}

// Pusher 没有 nats 时返回 nil 接口，避免 typed nil
func (c *SimulatorContainer) Pusher() mahjong.Pusher {
	if c.Publisher == nil {
		return nil
	}
	return c.Publisher
}

func (c *SimulatorContainer) Close() error {
	var errs []error
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Cache != nil {
		c.Cache.Close()
	}
	if err := c.BaseContainer.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
