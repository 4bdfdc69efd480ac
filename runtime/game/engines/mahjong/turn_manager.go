package mahjong

import (
	"fmt"
	"slices"
)

type TurnState int

const (
	TurnStateIdle            TurnState = iota // 未发牌
	TurnStateAwaitingDraw                     // 等待摸牌
	TurnStateAwaitingDiscard                  // 等待出牌
	TurnStateResolvingClaim                   // 收集吃、碰
	TurnStateEnded                            // 结束
)

func (s TurnState) String() string {
	switch s {
	case TurnStateIdle:
		return "Idle"
	case TurnStateAwaitingDraw:
		return "AwaitingDraw"
	case TurnStateAwaitingDiscard:
		return "AwaitingDiscard"
	case TurnStateResolvingClaim:
		return "ResolvingClaim"
	case TurnStateEnded:
		return "Ended"
	default:
		return fmt.Sprintf("TurnState(%d)", int(s))
	}
}

// 结束类型
const (
	EndSelfDraw       = "SELF_DRAW"
	EndDiscardWin     = "DISCARD_WIN"
	EndDrawExhaustive = "DRAW_EXHAUSTIVE"
	EndDrawTurnLimit  = "DRAW_TURN_LIMIT"
)

var legalTransitions = map[TurnState][]TurnState{
	TurnStateIdle:            {TurnStateAwaitingDraw},
	TurnStateAwaitingDraw:    {TurnStateAwaitingDiscard, TurnStateEnded},
	TurnStateAwaitingDiscard: {TurnStateResolvingClaim, TurnStateEnded},
	TurnStateResolvingClaim:  {TurnStateAwaitingDraw, TurnStateAwaitingDiscard, TurnStateEnded},
}

type TurnManager struct {
	TurnPointer int       // 当前行动的座位
	State       TurnState // 当前回合状态
	Turns       int       // 已摸牌次数
}

func NewTurnManager() *TurnManager {
	return &TurnManager{TurnPointer: 0, State: TurnStateIdle}
}

func (tm *TurnManager) GetCurrentPlayer() int {
	return tm.TurnPointer
}

func (tm *TurnManager) GetState() TurnState {
	return tm.State
}

func (tm *TurnManager) transit(to TurnState, seat int) error {
	if seat < 0 || seat >= SeatCount {
		return fmt.Errorf("%w: 无效的座位索引 %d", ErrIllegalTransition, seat)
	}
	if !slices.Contains(legalTransitions[tm.State], to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, tm.State, to)
	}
	tm.State = to
	tm.TurnPointer = seat
	return nil
}

// Start 发牌后由 0 号座位开始摸牌
func (tm *TurnManager) Start() error {
	return tm.transit(TurnStateAwaitingDraw, 0)
}

// EnterDiscardPhase 摸牌后，或鸣牌成功后轮到鸣牌者出牌
func (tm *TurnManager) EnterDiscardPhase(seat int) error {
	if tm.State == TurnStateAwaitingDraw && seat != tm.TurnPointer {
		return fmt.Errorf("%w: 座位 %d 摸牌后座位 %d 出牌", ErrIllegalTransition, tm.TurnPointer, seat)
	}
	return tm.transit(TurnStateAwaitingDiscard, seat)
}

// EnterClaimPhase 出牌后进入鸣牌收集，TurnPointer 保持为出牌者
func (tm *TurnManager) EnterClaimPhase() error {
	return tm.transit(TurnStateResolvingClaim, tm.TurnPointer)
}

// NextTurn 无人鸣牌，下家摸牌
func (tm *TurnManager) NextTurn() (int, error) {
	if tm.State != TurnStateResolvingClaim {
		return tm.TurnPointer, fmt.Errorf("%w: NextTurn in %s", ErrIllegalTransition, tm.State)
	}
	next := (tm.TurnPointer + 1) % SeatCount
	if err := tm.transit(TurnStateAwaitingDraw, next); err != nil {
		return tm.TurnPointer, err
	}
	return next, nil
}

func (tm *TurnManager) CountDraw() {
	tm.Turns++
}

func (tm *TurnManager) End() error {
	return tm.transit(TurnStateEnded, tm.TurnPointer)
}
