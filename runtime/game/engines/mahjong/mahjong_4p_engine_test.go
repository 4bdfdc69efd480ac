package mahjong

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"mahjongai/core/domain/entity"
	"mahjongai/runtime/game/engines"
)

func newTestEngine(opts Options, deciders [SeatCount]Decider, pushers ...Pusher) *Mahjong4p {
	return NewMahjong4p("test-game", opts, NewSearcher(opts.Decomposition, nil), deciders,
		rand.New(rand.NewSource(1)), [SeatCount]string{}, pushers...)
}

func TestEngine_SelfDraw(t *testing.T) {
	var events []entity.GameEvent
	eg := newTestEngine(Options{}, [SeatCount]Decider{}, PusherFunc(func(e entity.GameEvent) {
		events = append(events, e)
	}))
	wall := riggedWall(t, [SeatCount][]Tile{waitingHand, noPairHandB, nineWanPair, noPairHandD}, tl("4-Tiao"))
	if err := eg.DealFrom(wall); err != nil {
		t.Fatalf("DealFrom: %v", err)
	}

	outcome, err := eg.RunOutcome(context.Background())
	if err != nil {
		t.Fatalf("RunOutcome: %v", err)
	}
	if outcome.Winner != 0 || outcome.EndType != EndSelfDraw || outcome.LoserSeat != -1 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if outcome.WinTile == nil || *outcome.WinTile != tl("4-Tiao") {
		t.Fatalf("win tile = %v", outcome.WinTile)
	}
	if outcome.Turns != 1 || outcome.WallRemaining != TileLimit-4*HandSize-1 {
		t.Fatalf("turns %d, wall %d", outcome.Turns, outcome.WallRemaining)
	}
	if len(outcome.WinningHand) != WinningSize {
		t.Fatalf("winning hand %v", outcome.WinningHand)
	}
	if eg.Status() != engines.GameFinished || !eg.Ended() {
		t.Fatalf("status %v", eg.Status())
	}

	want := []string{entity.EventTypeGameStart, entity.EventTypeDrawTile, entity.EventTypeSelfDraw, entity.EventTypeGameEnd}
	if len(events) != len(want) {
		t.Fatalf("events = %d, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.EventType != want[i] || e.Sequence != i || e.GameID != "test-game" {
			t.Fatalf("event %d = %+v", i, e)
		}
	}
}

func TestEngine_DiscardWin(t *testing.T) {
	deciders := [SeatCount]Decider{newScripted(PassClaim)}
	eg := newTestEngine(Options{}, deciders)
	wall := riggedWall(t, [SeatCount][]Tile{noPairHandA, waitingHand, nineWanPair, noPairHandD}, tl("4-Tiao"))
	if err := eg.DealFrom(wall); err != nil {
		t.Fatalf("DealFrom: %v", err)
	}

	winner, err := eg.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	outcome := eg.Outcome()
	if winner != 1 || outcome.EndType != EndDiscardWin || outcome.LoserSeat != 0 {
		t.Fatalf("outcome = %+v", outcome)
	}
	// 和牌的那张留在出牌者牌河
	pile := eg.State.Players[0].DiscardPile
	if len(pile) != 1 || pile[0] != tl("4-Tiao") {
		t.Fatalf("discarder pile = %v", pile)
	}
	if err := eg.State.CheckConservation(); err != nil {
		t.Fatalf("conservation: %v", err)
	}
}

func TestEngine_PungClaim(t *testing.T) {
	deciders := [SeatCount]Decider{newScripted(PassClaim), nil, newScripted(0)}
	eg := newTestEngine(Options{}, deciders)
	wall := riggedWall(t, [SeatCount][]Tile{noPairHandA, noPairHandB, nineWanPair, noPairHandD}, tl("9-Wan"))
	if err := eg.DealFrom(wall); err != nil {
		t.Fatalf("DealFrom: %v", err)
	}

	stepN(t, eg, 2) // 摸牌、出牌
	if eg.TurnManager.GetState() != TurnStateResolvingClaim {
		t.Fatalf("state after discard %s", eg.TurnManager.GetState())
	}
	if last := eg.State.LastDiscard; !last.Valid || last.Seat != 0 || last.Tile != tl("9-Wan") {
		t.Fatalf("last discard = %+v", last)
	}

	stepN(t, eg, 1) // 鸣牌
	if eg.TurnManager.GetState() != TurnStateAwaitingDiscard || eg.TurnManager.GetCurrentPlayer() != 2 {
		t.Fatalf("after claim: %s seat %d", eg.TurnManager.GetState(), eg.TurnManager.GetCurrentPlayer())
	}
	claimant := eg.State.Players[2]
	if len(claimant.Melds) != 1 || claimant.Melds[0].Kind != MeldTriplet || claimant.Melds[0].From != 0 {
		t.Fatalf("melds = %+v", claimant.Melds)
	}
	if len(claimant.Tiles) != HandSize-2 {
		t.Fatalf("claimant holds %d tiles", len(claimant.Tiles))
	}
	if len(eg.State.Players[0].DiscardPile) != 0 || eg.State.LastDiscard.Valid {
		t.Fatalf("claimed tile still in pile or last discard not cleared")
	}
	if eg.State.Deck.Remaining() != TileLimit-4*HandSize-1 {
		t.Fatalf("claimant drew a tile")
	}

	// 鸣牌者直接出牌，不摸牌
	stepN(t, eg, 1)
	if len(claimant.Tiles) != HandSize-3 || len(claimant.DiscardPile) != 1 {
		t.Fatalf("claimant hand %d pile %d", len(claimant.Tiles), len(claimant.DiscardPile))
	}
}

func TestEngine_AllPassMovesToNextSeat(t *testing.T) {
	deciders := [SeatCount]Decider{newScripted(PassClaim), nil, newScripted(PassClaim)}
	eg := newTestEngine(Options{}, deciders)
	wall := riggedWall(t, [SeatCount][]Tile{noPairHandA, noPairHandB, nineWanPair, noPairHandD}, tl("9-Wan"))
	if err := eg.DealFrom(wall); err != nil {
		t.Fatalf("DealFrom: %v", err)
	}
	stepN(t, eg, 3)
	if eg.TurnManager.GetState() != TurnStateAwaitingDraw || eg.TurnManager.GetCurrentPlayer() != 1 {
		t.Fatalf("state %s seat %d", eg.TurnManager.GetState(), eg.TurnManager.GetCurrentPlayer())
	}
	if d := deciders[2].(*scriptedDecider); d.claims != 1 {
		t.Fatalf("seat 2 asked %d times", d.claims)
	}
	// 无人鸣牌时保留最后一张弃牌
	if !eg.State.LastDiscard.Valid {
		t.Fatalf("last discard cleared after pass")
	}
}

func TestEngine_IllegalClaimIndex(t *testing.T) {
	deciders := [SeatCount]Decider{newScripted(PassClaim), nil, newScripted(5)}
	eg := newTestEngine(Options{}, deciders)
	wall := riggedWall(t, [SeatCount][]Tile{noPairHandA, noPairHandB, nineWanPair, noPairHandD}, tl("9-Wan"))
	if err := eg.DealFrom(wall); err != nil {
		t.Fatalf("DealFrom: %v", err)
	}
	stepN(t, eg, 2)
	if err := eg.Step(context.Background()); !errors.Is(err, ErrIllegalClaim) {
		t.Fatalf("err = %v, want ErrIllegalClaim", err)
	}
	if len(eg.State.Players[2].Melds) != 0 {
		t.Fatalf("illegal claim mutated state")
	}
}

func TestEngine_DiscardNotInHand(t *testing.T) {
	bogus := tl("9-Wan")
	deciders := [SeatCount]Decider{&scriptedDecider{discard: &bogus}}
	eg := newTestEngine(Options{}, deciders)
	wall := riggedWall(t, [SeatCount][]Tile{noPairHandA, noPairHandB, nineWanPair, noPairHandD}, tl("5-Tong"))
	if err := eg.DealFrom(wall); err != nil {
		t.Fatalf("DealFrom: %v", err)
	}
	stepN(t, eg, 1)
	if err := eg.Step(context.Background()); !errors.Is(err, ErrTileNotInHand) {
		t.Fatalf("err = %v, want ErrTileNotInHand", err)
	}
}

func TestEngine_DecisionTimeout(t *testing.T) {
	deciders := [SeatCount]Decider{blockingDecider{}, nil, blockingDecider{}}
	eg := newTestEngine(Options{DecisionTimeout: 20 * time.Millisecond}, deciders)
	wall := riggedWall(t, [SeatCount][]Tile{noPairHandA, noPairHandB, nineWanPair, noPairHandD}, tl("9-Wan"))
	if err := eg.DealFrom(wall); err != nil {
		t.Fatalf("DealFrom: %v", err)
	}

	// 出牌超时打出刚摸的牌
	stepN(t, eg, 2)
	if pile := eg.State.Players[0].DiscardPile; len(pile) != 1 || pile[0] != tl("9-Wan") {
		t.Fatalf("auto discard pile = %v", pile)
	}
	// 鸣牌超时视为放弃
	stepN(t, eg, 1)
	if eg.TurnManager.GetState() != TurnStateAwaitingDraw || eg.TurnManager.GetCurrentPlayer() != 1 {
		t.Fatalf("state %s seat %d", eg.TurnManager.GetState(), eg.TurnManager.GetCurrentPlayer())
	}
}

func TestEngine_ParentCancelAborts(t *testing.T) {
	deciders := [SeatCount]Decider{blockingDecider{}}
	eg := newTestEngine(Options{DecisionTimeout: time.Minute}, deciders)
	wall := riggedWall(t, [SeatCount][]Tile{noPairHandA, noPairHandB, nineWanPair, noPairHandD}, tl("9-Wan"))
	if err := eg.DealFrom(wall); err != nil {
		t.Fatalf("DealFrom: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := eg.RunOutcome(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if eg.Outcome() != nil {
		t.Fatalf("aborted game has an outcome")
	}
}

func TestEngine_TurnLimit(t *testing.T) {
	deciders := [SeatCount]Decider{newScripted(PassClaim), nil, newScripted(PassClaim)}
	eg := newTestEngine(Options{MaxTurns: 1}, deciders)
	wall := riggedWall(t, [SeatCount][]Tile{noPairHandA, noPairHandB, nineWanPair, noPairHandD}, tl("9-Wan"))
	if err := eg.DealFrom(wall); err != nil {
		t.Fatalf("DealFrom: %v", err)
	}
	outcome, err := eg.RunOutcome(context.Background())
	if err != nil {
		t.Fatalf("RunOutcome: %v", err)
	}
	if outcome.Winner != -1 || outcome.EndType != EndDrawTurnLimit || outcome.Turns != 1 {
		t.Fatalf("outcome = %+v", outcome)
	}
	if err := eg.Step(context.Background()); !errors.Is(err, ErrGameEnded) {
		t.Fatalf("step after end err = %v", err)
	}
}

func TestEngine_InvalidWall(t *testing.T) {
	eg := newTestEngine(Options{}, [SeatCount]Decider{})
	if err := eg.DealFrom(NewTileDeck().Tiles()[:52]); !errors.Is(err, ErrInvalidWall) {
		t.Fatalf("err = %v, want ErrInvalidWall", err)
	}
}

// 固定种子跑完整局，每一步都守恒，结果可复现
func TestEngine_SeededEndToEnd(t *testing.T) {
	for _, policy := range []ClaimPolicy{ClaimScan, ClaimPriority} {
		play := func() *Outcome {
			eg := NewMahjong4p("", Options{ClaimPolicy: policy}, nil, [SeatCount]Decider{},
				rand.New(rand.NewSource(20240601)), [SeatCount]string{})
			steps := 0
			for !eg.Ended() {
				if err := eg.Step(context.Background()); err != nil {
					t.Fatalf("%s step %d: %v", policy, steps, err)
				}
				if n := eg.State.TileCount(); n != TileLimit {
					t.Fatalf("%s step %d: %d tiles", policy, steps, n)
				}
				steps++
				if steps > 10*TileLimit {
					t.Fatalf("%s: game did not end", policy)
				}
			}
			return eg.Outcome()
		}

		first := play()
		if first.Winner < -1 || first.Winner >= SeatCount {
			t.Fatalf("%s: winner %d", policy, first.Winner)
		}
		if first.Winner == -1 && first.EndType != EndDrawExhaustive {
			t.Fatalf("%s: no winner but end type %s", policy, first.EndType)
		}
		second := play()
		if first.Winner != second.Winner || first.Turns != second.Turns || first.EndType != second.EndType {
			t.Fatalf("%s: same seed, different outcomes %+v vs %+v", policy, first, second)
		}
	}
}
