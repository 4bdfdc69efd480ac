package mahjong

import (
	"context"
	"sync"

	"mahjongai/common/log"
	"mahjongai/core/domain/entity"
	"mahjongai/core/domain/repository"
)

// GamePersister 对局持久化组件：对局中收集事件，结束后一次写入
// repo 为空时只收集，由调用方批量写入
type GamePersister struct {
	repo    repository.GameRecordRepository
	record  *entity.GameRecord
	eventMu sync.Mutex
	closed  bool
}

func NewGamePersister(repo repository.GameRecordRepository, gameID string, seed int64, opts Options, players []entity.PlayerInfo) *GamePersister {
	rules := entity.RuleSet{
		Decomposition: opts.Decomposition.String(),
		ClaimPolicy:   opts.ClaimPolicy.String(),
		MaxTurns:      opts.MaxTurns,
	}
	return &GamePersister{
		repo:   repo,
		record: entity.NewGameRecord(gameID, seed, rules, players),
	}
}

// Push 实现 Pusher
func (gp *GamePersister) Push(event entity.GameEvent) {
	gp.eventMu.Lock()
	defer gp.eventMu.Unlock()
	if gp.closed {
		return
	}
	gp.record.AddEvent(event)
}

func (gp *GamePersister) Record() *entity.GameRecord {
	return gp.record
}

// Complete 写入结果；repo 存在时立即保存
func (gp *GamePersister) Complete(ctx context.Context, outcome *Outcome) error {
	gp.eventMu.Lock()
	if gp.closed {
		gp.eventMu.Unlock()
		return nil
	}
	gp.closed = true
	result := &entity.GameResult{
		Winner:        outcome.Winner,
		EndType:       outcome.EndType,
		LoserSeat:     outcome.LoserSeat,
		WinningHand:   toEntityTiles(outcome.WinningHand),
		Turns:         outcome.Turns,
		WallRemaining: outcome.WallRemaining,
	}
	if outcome.WinTile != nil {
		t := toEntityTile(*outcome.WinTile)
		result.WinTile = &t
	}
	gp.record.CompleteGame(result)
	gp.eventMu.Unlock()

	return gp.save(ctx)
}

// Abort 异常终止也保存已收集的事件
func (gp *GamePersister) Abort(ctx context.Context, reason string) error {
	gp.eventMu.Lock()
	if gp.closed {
		gp.eventMu.Unlock()
		return nil
	}
	gp.closed = true
	gp.record.AbortGame(reason)
	gp.eventMu.Unlock()

	return gp.save(ctx)
}

func (gp *GamePersister) save(ctx context.Context) error {
	if gp.repo == nil {
		return nil
	}
	if err := gp.repo.SaveGameRecord(ctx, gp.record); err != nil {
		log.Error("保存对局记录失败: game=%s, err=%v", gp.record.GameID, err)
		return err
	}
	log.Debug("保存对局记录成功: game=%s, events=%d", gp.record.GameID, len(gp.record.Events))
	return nil
}
