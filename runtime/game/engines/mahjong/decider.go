package mahjong

import "context"

// PassClaim 放弃鸣牌
const PassClaim = -1

// Decider 一个座位的决策方。AI 立即返回；人类可能阻塞，需响应 ctx 取消
type Decider interface {
	// ChooseDiscard 返回要打出的牌，必须在 snap.Hand(seat) 中
	ChooseDiscard(ctx context.Context, seat int, snap *Snapshot) (Tile, error)

	// ChooseClaim 返回 options 的下标，或 PassClaim
	ChooseClaim(ctx context.Context, seat int, snap *Snapshot, discard Tile, options []ClaimOption) (int, error)
}

// AutoPlayer 按牌力估值出牌，能鸣则鸣（碰优先）
type AutoPlayer struct{}

func NewAutoPlayer() *AutoPlayer {
	return &AutoPlayer{}
}

func (a *AutoPlayer) ChooseDiscard(_ context.Context, seat int, snap *Snapshot) (Tile, error) {
	return ChooseDiscard(snap.Hand(seat))
}

func (a *AutoPlayer) ChooseClaim(_ context.Context, _ int, _ *Snapshot, _ Tile, options []ClaimOption) (int, error) {
	if len(options) == 0 {
		return PassClaim, nil
	}
	return 0, nil
}
