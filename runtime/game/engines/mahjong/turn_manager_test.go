package mahjong

import (
	"errors"
	"testing"
)

func TestTurnManager_Cycle(t *testing.T) {
	tm := NewTurnManager()
	if tm.GetState() != TurnStateIdle {
		t.Fatalf("initial state %s", tm.GetState())
	}
	if err := tm.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := tm.EnterDiscardPhase(0); err != nil {
		t.Fatalf("EnterDiscardPhase: %v", err)
	}
	if err := tm.EnterClaimPhase(); err != nil {
		t.Fatalf("EnterClaimPhase: %v", err)
	}
	next, err := tm.NextTurn()
	if err != nil || next != 1 || tm.GetState() != TurnStateAwaitingDraw {
		t.Fatalf("NextTurn = %d, %v, state %s", next, err, tm.GetState())
	}

	// 鸣牌后直接轮到鸣牌者出牌
	_ = tm.EnterDiscardPhase(1)
	_ = tm.EnterClaimPhase()
	if err := tm.EnterDiscardPhase(3); err != nil || tm.GetCurrentPlayer() != 3 {
		t.Fatalf("claim transfer: %v, current %d", err, tm.GetCurrentPlayer())
	}
	if err := tm.End(); err != nil || tm.GetState() != TurnStateEnded {
		t.Fatalf("End: %v", err)
	}
}

func TestTurnManager_IllegalTransitions(t *testing.T) {
	tm := NewTurnManager()
	if err := tm.EnterClaimPhase(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("Idle -> ResolvingClaim err = %v", err)
	}
	if _, err := tm.NextTurn(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("NextTurn in Idle err = %v", err)
	}
	_ = tm.Start()
	// 摸牌的人必须是出牌的人
	if err := tm.EnterDiscardPhase(2); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("draw/discard seat mismatch err = %v", err)
	}
	if err := tm.EnterDiscardPhase(SeatCount); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("bad seat err = %v", err)
	}
	_ = tm.End()
	if err := tm.Start(); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("Ended -> AwaitingDraw err = %v", err)
	}
}
