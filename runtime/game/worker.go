package game

import (
	"context"
	"fmt"
	"math/rand"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"mahjongai/common/log"
	"mahjongai/core/domain/entity"
	"mahjongai/core/domain/repository"
	"mahjongai/runtime/game/engines/mahjong"
)

/*
	批量模拟：
		1.errgroup 限制并发，每局使用 seed+i 的独立随机源
		2.单局错误或 panic 计入无人和牌并继续，只有 ctx 取消会提前结束
		3.可选：对局记录攒批写入 mongodb，胜负统计累加到 redis，事件推送到 nats
*/

// DeciderFactory 为每局生成决策方，nil 座位使用 AutoPlayer
type DeciderFactory func(gameIndex int) [mahjong.SeatCount]mahjong.Decider

// RunGame 用给定种子跑一局 AI 对局，返回和牌座位或 -1
func RunGame(ctx context.Context, opts mahjong.Options, searcher *mahjong.Searcher, seed int64) (int, error) {
	var deciders [mahjong.SeatCount]mahjong.Decider
	engine := mahjong.NewMahjong4p("", opts, searcher, deciders, rand.New(rand.NewSource(seed)), [mahjong.SeatCount]string{})
	defer engine.Close()
	return engine.Run(ctx)
}

type Worker struct {
	RoomManager *RoomManager
	Monitor     *Monitor
	Searcher    *mahjong.Searcher
	Options     mahjong.Options

	Workers   int
	Seed      int64
	FlushSize int

	GameRecordRepository repository.GameRecordRepository // nil 不保存
	WinTallyRepository   repository.WinTallyRepository   // nil 不累计
	Publisher            mahjong.Pusher                  // nil 不推送
	DeciderFactory       DeciderFactory

	completed atomic.Int64
	total     atomic.Int64

	recordMu sync.Mutex
	records  []*entity.GameRecord
}

// NewWorker workers <= 0 时按 1 处理
func NewWorker(opts mahjong.Options, searcher *mahjong.Searcher, workers int, progressInterval time.Duration) *Worker {
	if workers <= 0 {
		workers = 1
	}
	if searcher == nil {
		searcher = mahjong.NewSearcher(opts.Decomposition, nil)
	}
	roomManager := NewRoomManager()
	w := &Worker{
		RoomManager: roomManager,
		Searcher:    searcher,
		Options:     opts,
		Workers:     workers,
		Seed:        time.Now().UnixNano(),
		FlushSize:   100,
	}
	w.Monitor = NewMonitor(roomManager, w, progressInterval)
	return w
}

// Progress 实现 ProgressSource
func (w *Worker) Progress() (completed, total int) {
	return int(w.completed.Load()), int(w.total.Load())
}

// Run 并发跑 n 局并返回统计；ctx 取消时返回已完成部分的统计和 ctx 错误
func (w *Worker) Run(ctx context.Context, n int) (*entity.WinTally, error) {
	tally := &entity.WinTally{}
	if n <= 0 {
		return tally, nil
	}
	w.completed.Store(0)
	w.total.Store(int64(n))

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	go w.Monitor.Start(monitorCtx)

	started := time.Now()
	var tallyMu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(w.Workers)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		gameIndex := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcome, err := w.PlayGame(ctx, w.Seed+int64(gameIndex), w.deciders(gameIndex))
			if err != nil && ctx.Err() != nil {
				// 中途取消的局不计入统计
				return nil
			}
			tallyMu.Lock()
			if err != nil {
				log.Warn("第 %d 局异常终止: %v", gameIndex, err)
				tally.RecordFailure()
			} else {
				tally.Record(outcome.Winner)
			}
			tallyMu.Unlock()
			w.completed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	// ctx 可能已取消，收尾写入使用独立的 ctx
	flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	w.flushRecords(flushCtx)
	if w.WinTallyRepository != nil && tally.Games > 0 {
		if err := w.WinTallyRepository.AddTally(flushCtx, *tally); err != nil {
			log.Warn("累加胜负统计失败: %v", err)
		}
	}

	log.Info("模拟结束: %d 局, 用时 %v", tally.Games, time.Since(started).Round(time.Millisecond))
	return tally, ctx.Err()
}

func (w *Worker) deciders(gameIndex int) [mahjong.SeatCount]mahjong.Decider {
	if w.DeciderFactory == nil {
		return [mahjong.SeatCount]mahjong.Decider{}
	}
	return w.DeciderFactory(gameIndex)
}

// PlayGame 跑一局并负责登记、记录与推送；panic 转为错误返回
func (w *Worker) PlayGame(ctx context.Context, seed int64, deciders [mahjong.SeatCount]mahjong.Decider, pushers ...mahjong.Pusher) (outcome *mahjong.Outcome, err error) {
	engine := mahjong.NewMahjong4p("", w.Options, w.Searcher, deciders, rand.New(rand.NewSource(seed)), [mahjong.SeatCount]string{})
	for _, p := range pushers {
		engine.AddPusher(p)
	}
	if w.Publisher != nil {
		engine.AddPusher(w.Publisher)
	}

	var persister *mahjong.GamePersister
	if w.GameRecordRepository != nil {
		persister = mahjong.NewGamePersister(nil, engine.GameID, seed, engine.Options(), playerInfos(engine))
		engine.AddPusher(persister)
	}

	if err := w.RoomManager.AddRoom(engine); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("对局 %s panic: %v\n%s", engine.GameID, r, debug.Stack())
			err = fmt.Errorf("对局 %s panic: %v", engine.GameID, r)
			engine.HappenDamageError(err)
		}
		if persister != nil {
			if err != nil {
				_ = persister.Abort(ctx, err.Error())
			}
			w.bufferRecord(persister.Record())
		}
		_ = w.RoomManager.DeleteRoom(engine.GameID)
	}()

	outcome, err = engine.RunOutcome(ctx)
	if err != nil {
		return nil, err
	}
	if persister != nil {
		_ = persister.Complete(ctx, outcome)
	}
	return outcome, nil
}

func playerInfos(engine *mahjong.Mahjong4p) []entity.PlayerInfo {
	infos := make([]entity.PlayerInfo, 0, mahjong.SeatCount)
	for seat, p := range engine.State.Players {
		kind := "ai"
		if _, ok := engine.Deciders[seat].(*mahjong.AutoPlayer); !ok {
			kind = "human"
		}
		infos = append(infos, entity.PlayerInfo{SeatIndex: seat, Name: p.Name, Kind: kind})
	}
	return infos
}

func (w *Worker) bufferRecord(record *entity.GameRecord) {
	w.recordMu.Lock()
	w.records = append(w.records, record)
	full := len(w.records) >= w.FlushSize
	w.recordMu.Unlock()
	if full {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		w.flushRecords(ctx)
	}
}

// flushRecords 失败的批次丢弃，不阻塞模拟
func (w *Worker) flushRecords(ctx context.Context) {
	if w.GameRecordRepository == nil {
		return
	}
	w.recordMu.Lock()
	batch := w.records
	w.records = nil
	w.recordMu.Unlock()
	if len(batch) == 0 {
		return
	}
	if err := w.GameRecordRepository.SaveGameRecords(ctx, batch); err != nil {
		log.Warn("批量保存对局记录失败, %d 条: %v", len(batch), err)
		return
	}
	log.Debug("批量保存对局记录 %d 条", len(batch))
}

// Close 停止 Monitor 并写入剩余记录
func (w *Worker) Close() {
	w.Monitor.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	w.flushRecords(ctx)
}
