package mahjong

import (
	"context"
	"testing"
)

// tl 测试用，解析失败直接 panic
func tl(s string) Tile {
	t, err := ParseTile(s)
	if err != nil {
		panic(err)
	}
	return t
}

func tls(names ...string) []Tile {
	out := make([]Tile, 0, len(names))
	for _, n := range names {
		out = append(out, tl(n))
	}
	return out
}

// riggedWall 四家手牌按座位顺序排在最前，然后是摸牌顺序，剩余的牌按规范顺序补齐
func riggedWall(t *testing.T, hands [SeatCount][]Tile, draws ...Tile) []Tile {
	t.Helper()
	wall := make([]Tile, 0, TileLimit)
	for seat, h := range hands {
		if len(h) != HandSize {
			t.Fatalf("seat %d hand has %d tiles", seat, len(h))
		}
		wall = append(wall, h...)
	}
	wall = append(wall, draws...)
	used := Hand27FromTiles(wall)
	for i := 0; i < KindCount; i++ {
		for c := int(used[i]); c < CopiesPerTile; c++ {
			wall = append(wall, TileFromIndex(i))
		}
	}
	if len(wall) != TileLimit {
		t.Fatalf("rigged wall has %d tiles", len(wall))
	}
	return wall
}

// 没有对子，任何一张牌都凑不成和牌
var (
	noPairHandA = tls("1-Wan", "4-Wan", "7-Wan", "2-Tong", "5-Tong", "8-Tong", "1-Tiao", "5-Tiao", "9-Tiao", "3-Tong", "6-Tong", "9-Tong", "7-Tiao")
	noPairHandB = tls("2-Wan", "3-Wan", "5-Wan", "6-Wan", "1-Tong", "4-Tong", "7-Tong", "2-Tiao", "4-Tiao", "6-Tiao", "8-Tiao", "3-Tiao", "5-Tiao")
	nineWanPair = tls("9-Wan", "9-Wan", "1-Wan", "3-Wan", "5-Wan", "2-Tong", "4-Tong", "6-Tong", "8-Tong", "1-Tiao", "3-Tiao", "6-Tiao", "8-Tiao")
	noPairHandD = tls("4-Wan", "6-Wan", "8-Wan", "1-Tong", "3-Tong", "5-Tong", "7-Tong", "9-Tong", "2-Tiao", "4-Tiao", "5-Tiao", "7-Tiao", "9-Tiao")

	// 听 1-Tiao、4-Tiao
	waitingHand = tls("1-Wan", "2-Wan", "3-Wan", "4-Wan", "5-Wan", "6-Wan", "7-Wan", "8-Wan", "9-Wan", "1-Tong", "1-Tong", "2-Tiao", "3-Tiao")
)

// scriptedDecider 出牌总是打出刚摸的牌（没有则最后一张），鸣牌返回固定下标
type scriptedDecider struct {
	discard *Tile
	claim   int
	claims  int
}

func newScripted(claim int) *scriptedDecider {
	return &scriptedDecider{claim: claim}
}

func (d *scriptedDecider) ChooseDiscard(_ context.Context, seat int, snap *Snapshot) (Tile, error) {
	if d.discard != nil {
		return *d.discard, nil
	}
	tile, _ := snap.Players[seat].NewestOrLast()
	return tile, nil
}

func (d *scriptedDecider) ChooseClaim(_ context.Context, _ int, _ *Snapshot, _ Tile, _ []ClaimOption) (int, error) {
	d.claims++
	return d.claim, nil
}

// blockingDecider 等到 ctx 结束
type blockingDecider struct{}

func (blockingDecider) ChooseDiscard(ctx context.Context, _ int, _ *Snapshot) (Tile, error) {
	<-ctx.Done()
	return Tile{}, ctx.Err()
}

func (blockingDecider) ChooseClaim(ctx context.Context, _ int, _ *Snapshot, _ Tile, _ []ClaimOption) (int, error) {
	<-ctx.Done()
	return PassClaim, ctx.Err()
}

func stepN(t *testing.T, eg *Mahjong4p, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := eg.Step(context.Background()); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}
