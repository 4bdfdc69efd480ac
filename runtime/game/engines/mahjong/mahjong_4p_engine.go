package mahjong

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"mahjongai/common/log"
	"mahjongai/runtime/game/engines"
)

/*
	一局的回合循环：
		摸牌 -> 自摸判定 -> 出牌 -> 其他三家荣和判定 -> 鸣牌收集 -> 下家摸牌
	鸣牌成功后由鸣牌者直接出牌，不摸牌
	牌山摸空为流局，可选回合上限

	引擎本身不开 goroutine，由调用方逐步 Step 或一次性 Run
	人类座位的 Decider 会阻塞，超时通过 ctx 截止时间实现：
		出牌超时打出刚摸的牌，鸣牌超时视为放弃
*/

// Options 一局的规则选项
type Options struct {
	Decomposition   DecompositionPolicy
	ClaimPolicy     ClaimPolicy
	MaxTurns        int           // 摸牌次数上限，0 不限制
	DecisionTimeout time.Duration // 单次决策时限，0 不限制
}

// Outcome 对局结果
type Outcome struct {
	GameID        string
	Winner        int    // 和牌座位，流局 -1
	EndType       string // SELF_DRAW / DISCARD_WIN / DRAW_EXHAUSTIVE / DRAW_TURN_LIMIT
	LoserSeat     int    // 放铳座位，无则 -1
	WinTile       *Tile
	WinningHand   []Tile
	Turns         int
	WallRemaining int
}

// Mahjong4p 简化麻将四人引擎
type Mahjong4p struct {
	GameID      string
	State       *GameState
	TurnManager *TurnManager
	Searcher    *Searcher
	Deciders    [SeatCount]Decider

	opts     Options
	pushers  []Pusher
	outcome  *Outcome
	sequence int
	status   engines.GameState

	closeOnce sync.Once
}

var _ engines.Engine = (*Mahjong4p)(nil)

// NewMahjong4p 空 gameID 自动生成；空 Decider 使用 AutoPlayer
func NewMahjong4p(gameID string, opts Options, searcher *Searcher, deciders [SeatCount]Decider,
	rng *rand.Rand, names [SeatCount]string, pushers ...Pusher) *Mahjong4p {
	if gameID == "" {
		gameID = uuid.NewString()
	}
	if searcher == nil {
		searcher = NewSearcher(opts.Decomposition, nil)
	}
	opts.Decomposition = searcher.Policy()
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for i := range names {
		if names[i] == "" {
			names[i] = fmt.Sprintf("Player %d", i+1)
		}
	}
	for i := range deciders {
		if deciders[i] == nil {
			deciders[i] = NewAutoPlayer()
		}
	}
	return &Mahjong4p{
		GameID:      gameID,
		State:       NewGameState(rng, names),
		TurnManager: NewTurnManager(),
		Searcher:    searcher,
		Deciders:    deciders,
		opts:        opts,
		pushers:     pushers,
		status:      engines.GameWaiting,
	}
}

func (eg *Mahjong4p) AddPusher(p Pusher) {
	eg.pushers = append(eg.pushers, p)
}

func (eg *Mahjong4p) Options() Options {
	return eg.opts
}

// Deal 洗牌发牌并进入 0 号座位摸牌
func (eg *Mahjong4p) Deal() error {
	eg.State.Deal()
	return eg.start()
}

// DealFrom 按指定牌序发牌
func (eg *Mahjong4p) DealFrom(wall []Tile) error {
	if err := eg.State.DealFrom(wall); err != nil {
		return err
	}
	return eg.start()
}

func (eg *Mahjong4p) start() error {
	if err := eg.TurnManager.Start(); err != nil {
		return err
	}
	eg.status = engines.GameInProgress
	eg.broadcastGameStart()
	log.Debug("对局 %s 开始，牌山剩余 %d", eg.GameID, eg.State.Deck.Remaining())
	return eg.State.CheckConservation()
}

// Step 推进一次状态转移，转移后校验牌数守恒
func (eg *Mahjong4p) Step(ctx context.Context) error {
	var err error
	switch eg.TurnManager.GetState() {
	case TurnStateIdle:
		err = eg.Deal()
	case TurnStateAwaitingDraw:
		err = eg.drawTurn()
	case TurnStateAwaitingDiscard:
		err = eg.discardTurn(ctx)
	case TurnStateResolvingClaim:
		err = eg.claimTurn(ctx)
	case TurnStateEnded:
		return ErrGameEnded
	}
	if err != nil {
		return err
	}
	return eg.State.CheckConservation()
}

// Run 实现 engines.Engine
func (eg *Mahjong4p) Run(ctx context.Context) (int, error) {
	outcome, err := eg.RunOutcome(ctx)
	if err != nil {
		return -1, err
	}
	return outcome.Winner, nil
}

// RunOutcome 驱动到对局结束；未发牌时先洗牌发牌
func (eg *Mahjong4p) RunOutcome(ctx context.Context) (*Outcome, error) {
	for !eg.Ended() {
		if err := ctx.Err(); err != nil {
			eg.HappenDamageError(err)
			return nil, err
		}
		if err := eg.Step(ctx); err != nil {
			eg.HappenDamageError(err)
			return nil, err
		}
	}
	return eg.outcome, nil
}

func (eg *Mahjong4p) drawTurn() error {
	seat := eg.TurnManager.GetCurrentPlayer()
	eg.State.CurrentPlayer = seat

	if eg.opts.MaxTurns > 0 && eg.TurnManager.Turns >= eg.opts.MaxTurns {
		log.Debug("对局 %s 达到回合上限 %d", eg.GameID, eg.opts.MaxTurns)
		return eg.finish(-1, EndDrawTurnLimit, -1, nil, nil)
	}
	tile, ok := eg.State.Deck.Draw()
	if !ok {
		return eg.finish(-1, EndDrawExhaustive, -1, nil, nil)
	}
	eg.TurnManager.CountDraw()

	player := eg.State.Players[seat]
	player.DrawTile(tile)
	eg.pushDrawTile(seat, tile)

	if eg.Searcher.IsWinningHand(player.Tiles) {
		log.Debug("对局 %s 玩家 %d 自摸 %s", eg.GameID, seat, tile)
		eg.broadcastWin(EndSelfDraw, seat, -1, tile, player.Tiles)
		return eg.finish(seat, EndSelfDraw, -1, &tile, player.Tiles)
	}
	return eg.TurnManager.EnterDiscardPhase(seat)
}

func (eg *Mahjong4p) discardTurn(ctx context.Context) error {
	seat := eg.TurnManager.GetCurrentPlayer()
	eg.State.CurrentPlayer = seat
	player := eg.State.Players[seat]

	tile, err := eg.askDiscard(ctx, seat)
	if err != nil {
		return err
	}
	if !player.DiscardTile(tile) {
		return fmt.Errorf("%w: 玩家 %d 打出 %s", ErrTileNotInHand, seat, tile)
	}
	eg.State.setLastDiscard(seat, tile)
	player.IsWaiting = eg.Searcher.IsWaiting(player.Tiles)
	eg.broadcastDiscard(seat, tile, player.IsWaiting)

	// 荣和优先于鸣牌，按下家起顺序判定
	for k := 1; k < SeatCount; k++ {
		other := (seat + k) % SeatCount
		hand := append(slices.Clone(eg.State.Players[other].Tiles), tile)
		if eg.Searcher.IsWinningHand(hand) {
			log.Debug("对局 %s 玩家 %d 荣和玩家 %d 的 %s", eg.GameID, other, seat, tile)
			eg.broadcastWin(EndDiscardWin, other, seat, tile, hand)
			return eg.finish(other, EndDiscardWin, seat, &tile, hand)
		}
	}
	return eg.TurnManager.EnterClaimPhase()
}

func (eg *Mahjong4p) claimTurn(ctx context.Context) error {
	last := eg.State.LastDiscard
	if !last.Valid {
		return fmt.Errorf("%w: 没有可鸣的弃牌", ErrIllegalTransition)
	}
	var hands [SeatCount][]Tile
	for i, p := range eg.State.Players {
		hands[i] = p.Tiles
	}

	for _, c := range ClaimCandidates(last.Tile, last.Seat, hands, eg.opts.ClaimPolicy) {
		idx, err := eg.askClaim(ctx, c.Seat, last.Tile, c.Options)
		if err != nil {
			return err
		}
		if idx == PassClaim {
			continue
		}
		return eg.executeClaim(c.Seat, last, c.Options[idx])
	}

	next, err := eg.TurnManager.NextTurn()
	if err != nil {
		return err
	}
	eg.State.CurrentPlayer = next
	return nil
}

// executeClaim 从出牌者牌河取走弃牌，鸣牌者亮出面子后直接出牌
func (eg *Mahjong4p) executeClaim(seat int, last LastDiscard, opt ClaimOption) error {
	claimant := eg.State.Players[seat]
	counts := Hand27FromTiles(claimant.Tiles)
	for _, t := range opt.Tiles {
		if counts[t.Index()] == 0 {
			return fmt.Errorf("%w: 玩家 %d 手中没有 %s", ErrIllegalClaim, seat, t)
		}
		counts[t.Index()]--
	}
	discarder := eg.State.Players[last.Seat]
	claimed, ok := discarder.PopDiscard()
	if !ok || claimed != last.Tile {
		return fmt.Errorf("%w: 玩家 %d 牌河末尾不是 %s", ErrIllegalClaim, last.Seat, last.Tile)
	}
	for _, t := range opt.Tiles {
		claimant.RemoveTile(t)
	}
	meld := opt.Meld
	meld.From = last.Seat
	claimant.Melds = append(claimant.Melds, meld)
	eg.State.clearLastDiscard()

	log.Debug("对局 %s 玩家 %d %s 玩家 %d: %s", eg.GameID, seat, opt.Kind, last.Seat, meld)
	eg.broadcastMeldAction(opt.Kind, seat, last.Seat, meld)

	if err := eg.TurnManager.EnterDiscardPhase(seat); err != nil {
		return err
	}
	eg.State.CurrentPlayer = seat
	return nil
}

// decisionContext 每次决策单独计时
func (eg *Mahjong4p) decisionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if eg.opts.DecisionTimeout > 0 {
		return context.WithTimeout(ctx, eg.opts.DecisionTimeout)
	}
	return context.WithCancel(ctx)
}

func (eg *Mahjong4p) askDiscard(ctx context.Context, seat int) (Tile, error) {
	dctx, cancel := eg.decisionContext(ctx)
	defer cancel()

	tile, err := eg.Deciders[seat].ChooseDiscard(dctx, seat, eg.State.Snapshot())
	if err == nil {
		return tile, nil
	}
	if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		auto, ok := eg.State.Players[seat].NewestOrLast()
		if !ok {
			return Tile{}, fmt.Errorf("%w: 玩家 %d", ErrEmptyHand, seat)
		}
		log.Info("玩家 %d 出牌超时，自动打出 %s", seat, auto)
		return auto, nil
	}
	return Tile{}, fmt.Errorf("玩家 %d 出牌失败: %w", seat, err)
}

func (eg *Mahjong4p) askClaim(ctx context.Context, seat int, tile Tile, options []ClaimOption) (int, error) {
	dctx, cancel := eg.decisionContext(ctx)
	defer cancel()

	idx, err := eg.Deciders[seat].ChooseClaim(dctx, seat, eg.State.Snapshot(), tile, options)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			log.Info("玩家 %d 鸣牌超时，自动跳过", seat)
			return PassClaim, nil
		}
		return PassClaim, fmt.Errorf("玩家 %d 鸣牌失败: %w", seat, err)
	}
	if idx != PassClaim && (idx < 0 || idx >= len(options)) {
		return PassClaim, fmt.Errorf("%w: 玩家 %d 选择了不存在的选项 %d", ErrIllegalClaim, seat, idx)
	}
	return idx, nil
}

func (eg *Mahjong4p) finish(winner int, endType string, loser int, winTile *Tile, hand []Tile) error {
	eg.State.Ended = true
	eg.State.Winner = winner
	eg.outcome = &Outcome{
		GameID:        eg.GameID,
		Winner:        winner,
		EndType:       endType,
		LoserSeat:     loser,
		WinTile:       winTile,
		WinningHand:   SortedCopy(hand),
		Turns:         eg.TurnManager.Turns,
		WallRemaining: eg.State.Deck.Remaining(),
	}
	if err := eg.TurnManager.End(); err != nil {
		return err
	}
	eg.status = engines.GameFinished
	eg.broadcastGameEnd(eg.outcome)
	log.Debug("对局 %s 结束: %s, winner=%d, turns=%d", eg.GameID, endType, winner, eg.outcome.Turns)
	return nil
}

// Outcome 对局未结束时为 nil
func (eg *Mahjong4p) Outcome() *Outcome {
	return eg.outcome
}

func (eg *Mahjong4p) Ended() bool {
	return eg.State.Ended
}

// Snapshot 当前局面副本
func (eg *Mahjong4p) Snapshot() *Snapshot {
	return eg.State.Snapshot()
}

func (eg *Mahjong4p) GetGameID() string {
	return eg.GameID
}

func (eg *Mahjong4p) Status() engines.GameState {
	return eg.status
}

// HappenDamageError 对局内部不一致，放弃本局
func (eg *Mahjong4p) HappenDamageError(err error) {
	log.Warn("对局 %s 崩坏: %v", eg.GameID, err)
	eg.status = engines.GameFinished
}

func (eg *Mahjong4p) Close() {
	eg.closeOnce.Do(func() {
		eg.pushers = nil
		eg.status = engines.GameFinished
	})
}
