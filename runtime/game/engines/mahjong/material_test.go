package mahjong

import (
	"errors"
	"math/rand"
	"testing"
)

func TestParseTile(t *testing.T) {
	cases := []struct {
		in   string
		want Tile
	}{
		{"5-Wan", Tile{Suit: SuitWan, Rank: 5}},
		{"5-WAN", Tile{Suit: SuitWan, Rank: 5}},
		{" 1-tong ", Tile{Suit: SuitTong, Rank: 1}},
		{"9-Tiao", Tile{Suit: SuitTiao, Rank: 9}},
	}
	for _, c := range cases {
		got, err := ParseTile(c.in)
		if err != nil {
			t.Fatalf("ParseTile(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseTile(%q) = %v, want %v", c.in, got, c.want)
		}
		if back, _ := ParseTile(got.String()); back != got {
			t.Fatalf("display %q does not parse back", got.String())
		}
	}

	for _, bad := range []string{"", "5", "Wan-5", "0-Wan", "10-Wan", "5-Dragon", "x-Tong"} {
		if _, err := ParseTile(bad); !errors.Is(err, ErrMalformedInput) {
			t.Fatalf("ParseTile(%q) err = %v, want ErrMalformedInput", bad, err)
		}
	}
}

func TestTileIndexRoundTrip(t *testing.T) {
	kinds := AllKinds()
	if len(kinds) != KindCount {
		t.Fatalf("AllKinds() has %d kinds", len(kinds))
	}
	for i, k := range kinds {
		if k.Index() != i || TileFromIndex(i) != k {
			t.Fatalf("index mismatch at %d: %v", i, k)
		}
	}
	if kinds[0].String() != "1-Wan" || kinds[KindCount-1].String() != "9-Tiao" {
		t.Fatalf("canonical order broken: first %s, last %s", kinds[0], kinds[KindCount-1])
	}
}

func TestSortedCopyDoesNotMutate(t *testing.T) {
	hand := tls("3-Tiao", "1-Wan", "2-Tong", "1-Tiao")
	sorted := SortedCopy(hand)
	if hand[0] != tl("3-Tiao") {
		t.Fatalf("SortedCopy mutated input: %v", hand)
	}
	want := tls("1-Wan", "2-Tong", "1-Tiao", "3-Tiao")
	for i := range want {
		if sorted[i] != want[i] {
			t.Fatalf("SortedCopy = %v, want %v", sorted, want)
		}
	}
}

func TestNewMeld(t *testing.T) {
	m, err := NewMeld(tl("6-Tong"), tl("4-Tong"), tl("5-Tong"))
	if err != nil {
		t.Fatalf("NewMeld: %v", err)
	}
	if m.Kind != MeldRun || m.Tiles[0] != tl("4-Tong") || m.From != -1 {
		t.Fatalf("unexpected meld %+v", m)
	}
	if m, _ := NewMeld(tl("7-Wan"), tl("7-Wan"), tl("7-Wan")); m.Kind != MeldTriplet {
		t.Fatalf("expected triplet, got %v", m.Kind)
	}
	if _, err := NewMeld(tl("8-Wan"), tl("9-Wan"), tl("1-Tong")); !errors.Is(err, ErrIllegalClaim) {
		t.Fatalf("cross-suit run err = %v", err)
	}
	if _, err := NewPair(tl("1-Wan"), tl("2-Wan")); !errors.Is(err, ErrIllegalDecomposition) {
		t.Fatalf("bad pair err = %v", err)
	}
}

func TestDeckManager(t *testing.T) {
	dm := NewDeckManager(rand.New(rand.NewSource(7)))
	dm.InitRound()
	if dm.Remaining() != TileLimit {
		t.Fatalf("Remaining() = %d", dm.Remaining())
	}
	counts := Hand27FromTiles(dm.Rest())
	for i, c := range counts {
		if c != CopiesPerTile {
			t.Fatalf("%s has %d copies", TileFromIndex(i), c)
		}
	}

	first, _ := dm.Draw()
	if dm.Remaining() != TileLimit-1 {
		t.Fatalf("Remaining() after draw = %d", dm.Remaining())
	}

	// 同一种子洗出的牌序相同
	again := NewDeckManager(rand.New(rand.NewSource(7)))
	again.InitRound()
	if t2, _ := again.Draw(); t2 != first {
		t.Fatalf("same seed drew %v then %v", first, t2)
	}

	for dm.Remaining() > 0 {
		dm.Draw()
	}
	if _, ok := dm.Draw(); ok {
		t.Fatalf("draw from empty wall succeeded")
	}
}

func TestLoadWallRejectsInvalid(t *testing.T) {
	dm := NewDeckManager(rand.New(rand.NewSource(1)))
	if err := dm.LoadWall(NewTileDeck().Tiles()[:100]); !errors.Is(err, ErrInvalidWall) {
		t.Fatalf("short wall err = %v", err)
	}
	tiles := NewTileDeck().Tiles()
	tiles[4] = tiles[0] // 1-Wan 五张
	if err := dm.LoadWall(tiles); !errors.Is(err, ErrInvalidWall) {
		t.Fatalf("five copies err = %v", err)
	}
	if err := dm.LoadWall(NewTileDeck().Tiles()); err != nil {
		t.Fatalf("canonical wall: %v", err)
	}
}
