package mahjong

import (
	"errors"
	"testing"
)

func TestProfileHand(t *testing.T) {
	p := ProfileHand(tls("1-Wan", "2-Wan", "3-Wan", "5-Tong", "5-Tong"))
	if p.Melds != 1 || p.Pairs != 1 || p.Sequences != 3 || p.Terminals != 1 {
		t.Fatalf("profile = %+v", p)
	}
	// 1·10·2 + 1·2·1.5 + 3·1
	if p.Score != 26 {
		t.Fatalf("score = %v, want 26", p.Score)
	}
	if Score(nil) != 0 {
		t.Fatalf("empty hand score = %v", Score(nil))
	}
}

// 终张只统计，不影响分数
func TestProfileHand_TerminalsDoNotScore(t *testing.T) {
	a := ProfileHand(tls("1-Wan", "5-Tong", "9-Tiao"))
	b := ProfileHand(tls("4-Wan", "5-Tong", "6-Tiao"))
	if a.Terminals != 2 || b.Terminals != 0 {
		t.Fatalf("terminals a=%d b=%d", a.Terminals, b.Terminals)
	}
	if a.Score != b.Score {
		t.Fatalf("scores differ: %v vs %v", a.Score, b.Score)
	}
}

func TestScoreWithout(t *testing.T) {
	hand := tls("1-Wan", "2-Wan", "3-Wan", "9-Tiao")
	if got := ScoreWithout(hand, 3); got != Score(hand[:3]) {
		t.Fatalf("ScoreWithout = %v, want %v", got, Score(hand[:3]))
	}
	if hand[3] != tl("9-Tiao") {
		t.Fatalf("ScoreWithout mutated the hand")
	}
}

func TestChooseDiscard(t *testing.T) {
	hand := tls("1-Wan", "2-Wan", "3-Wan", "9-Tiao")
	first, err := ChooseDiscard(hand)
	if err != nil {
		t.Fatalf("ChooseDiscard: %v", err)
	}
	if first != tl("9-Tiao") {
		t.Fatalf("ChooseDiscard = %v, want 9-Tiao", first)
	}
	second, _ := ChooseDiscard(hand)
	if first != second {
		t.Fatalf("not deterministic: %v then %v", first, second)
	}

	// 全部孤张时取第一张
	if got, _ := ChooseDiscard(tls("1-Wan", "5-Tong", "9-Tiao")); got != tl("1-Wan") {
		t.Fatalf("tie-break = %v, want 1-Wan", got)
	}
	if _, err := ChooseDiscard(nil); !errors.Is(err, ErrEmptyHand) {
		t.Fatalf("empty hand err = %v", err)
	}
}

func TestRankDiscards(t *testing.T) {
	ranked := RankDiscards(tls("1-Wan", "2-Wan", "3-Wan", "9-Tiao", "9-Tiao"))
	if len(ranked) != 4 {
		t.Fatalf("expected one option per kind, got %v", ranked)
	}
	if ranked[0].Tile != tl("9-Tiao") {
		t.Fatalf("best discard = %v", ranked[0].Tile)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].ScoreAfter > ranked[i-1].ScoreAfter {
			t.Fatalf("not sorted: %v", ranked)
		}
	}
}

func TestDrawProbabilities(t *testing.T) {
	snap := &Snapshot{}
	for i := range snap.Players {
		snap.Players[i] = NewPlayerImage("", i)
	}
	snap.Players[0].Tiles = tls("1-Wan", "1-Wan", "1-Wan")
	snap.Players[2].DiscardPile = tls("1-Wan")

	probs := DrawProbabilities(snap, 0)
	if len(probs) != KindCount {
		t.Fatalf("len = %d", len(probs))
	}
	if probs[tl("1-Wan")] != 0 {
		t.Fatalf("all copies visible, got %v", probs[tl("1-Wan")])
	}
	if want := 4.0 / 104.0; probs[tl("2-Wan")] != want {
		t.Fatalf("2-Wan = %v, want %v", probs[tl("2-Wan")], want)
	}

	// 可见牌达到 108 张时全部为 0
	snap.Players[0].Tiles = NewTileDeck().Tiles()
	for tile, p := range DrawProbabilities(snap, 0) {
		if p != 0 {
			t.Fatalf("%v = %v with nothing unknown", tile, p)
		}
	}
}
