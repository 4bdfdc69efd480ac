package mahjong

import (
	"fmt"
	"math/rand"
	"slices"
	"strconv"
	"strings"
)

type Suit int

const (
	SuitWan  Suit = iota // 万子
	SuitTong             // 筒子
	SuitTiao             // 条子
)

const (
	SuitCount     = 3
	RankMin       = 1
	RankMax       = 9
	CopiesPerTile = 4
	KindCount     = SuitCount * RankMax       // 27 种牌
	TileLimit     = KindCount * CopiesPerTile // 108 张
	HandSize      = 13                        // 起手牌数
	WinningSize   = HandSize + 1              // 无副露时的和牌张数
	SeatCount     = 4
)

var suitNames = [SuitCount]string{"Wan", "Tong", "Tiao"}

func (s Suit) String() string {
	if s < 0 || int(s) >= SuitCount {
		return "Unknown"
	}
	return suitNames[s]
}

func (s Suit) Valid() bool {
	return s >= SuitWan && s <= SuitTiao
}

// ParseSuit 花色名大小写不敏感
func ParseSuit(name string) (Suit, error) {
	for i, n := range suitNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown suit %q", ErrMalformedInput, name)
}

// Tile 不可变的牌值，可直接比较、可作 map key
type Tile struct {
	Suit Suit
	Rank int
}

func NewTile(suit Suit, rank int) (Tile, error) {
	t := Tile{Suit: suit, Rank: rank}
	if !t.Valid() {
		return Tile{}, fmt.Errorf("%w: tile %d-%s out of range", ErrMalformedInput, rank, suit)
	}
	return t, nil
}

func (t Tile) Valid() bool {
	return t.Suit.Valid() && t.Rank >= RankMin && t.Rank <= RankMax
}

// String 显示格式 "5-Wan"
func (t Tile) String() string {
	return strconv.Itoa(t.Rank) + "-" + t.Suit.String()
}

// Index 映射到 [0, 27)
func (t Tile) Index() int {
	return int(t.Suit)*RankMax + t.Rank - 1
}

func (t Tile) IsTerminal() bool {
	return t.Rank == RankMin || t.Rank == RankMax
}

func TileFromIndex(i int) Tile {
	return Tile{Suit: Suit(i / RankMax), Rank: i%RankMax + 1}
}

// ParseTile 解析 "<rank>-<SUIT>"，例如 "5-Wan"、"5-WAN"
func ParseTile(s string) (Tile, error) {
	s = strings.TrimSpace(s)
	rankPart, suitPart, ok := strings.Cut(s, "-")
	if !ok {
		return Tile{}, fmt.Errorf("%w: expected <rank>-<suit>, got %q", ErrMalformedInput, s)
	}
	rank, err := strconv.Atoi(strings.TrimSpace(rankPart))
	if err != nil {
		return Tile{}, fmt.Errorf("%w: bad rank %q", ErrMalformedInput, rankPart)
	}
	suit, err := ParseSuit(suitPart)
	if err != nil {
		return Tile{}, err
	}
	return NewTile(suit, rank)
}

// CompareTiles 规范顺序：先花色后点数
func CompareTiles(a, b Tile) int {
	if a.Suit != b.Suit {
		return int(a.Suit) - int(b.Suit)
	}
	return a.Rank - b.Rank
}

func SortTiles(tiles []Tile) {
	slices.SortFunc(tiles, CompareTiles)
}

// SortedCopy 返回排好序的副本，不修改入参
func SortedCopy(tiles []Tile) []Tile {
	out := slices.Clone(tiles)
	SortTiles(out)
	return out
}

// AllKinds 27 种牌，按规范顺序
func AllKinds() []Tile {
	kinds := make([]Tile, 0, KindCount)
	for i := 0; i < KindCount; i++ {
		kinds = append(kinds, TileFromIndex(i))
	}
	return kinds
}

// Hand27 按牌种计数
type Hand27 [KindCount]uint8

func Hand27FromTiles(tiles []Tile) Hand27 {
	var h Hand27
	for _, t := range tiles {
		h[t.Index()]++
	}
	return h
}

func (h Hand27) Total() int {
	n := 0
	for _, c := range h {
		n += int(c)
	}
	return n
}

func (h Hand27) key(tag byte) string {
	var b [KindCount + 1]byte
	for i := 0; i < KindCount; i++ {
		b[i] = h[i]
	}
	b[KindCount] = tag
	return string(b[:])
}

type MeldKind int

const (
	MeldTriplet MeldKind = iota // 刻子
	MeldRun                     // 顺子
)

func (k MeldKind) String() string {
	switch k {
	case MeldTriplet:
		return "Triplet"
	case MeldRun:
		return "Run"
	default:
		return "Unknown"
	}
}

// Meld 只能通过 NewMeld 构造，Tiles 已排序；From 为 -1 表示非鸣牌得来
type Meld struct {
	Kind  MeldKind
	Tiles [3]Tile
	From  int
}

func NewMeld(a, b, c Tile) (Meld, error) {
	tiles := []Tile{a, b, c}
	SortTiles(tiles)
	if !IsValidMeld(tiles) {
		return Meld{}, fmt.Errorf("%w: %v is not a meld", ErrIllegalClaim, tiles)
	}
	kind := MeldRun
	if tiles[0] == tiles[1] {
		kind = MeldTriplet
	}
	return Meld{Kind: kind, Tiles: [3]Tile{tiles[0], tiles[1], tiles[2]}, From: -1}, nil
}

func (m Meld) String() string {
	return fmt.Sprintf("%s[%s %s %s]", m.Kind, m.Tiles[0], m.Tiles[1], m.Tiles[2])
}

// Pair 雀头
type Pair struct {
	Tile Tile
}

func NewPair(a, b Tile) (Pair, error) {
	if !IsValidPair(a, b) {
		return Pair{}, fmt.Errorf("%w: %s %s is not a pair", ErrIllegalDecomposition, a, b)
	}
	return Pair{Tile: a}, nil
}

type TileDeck struct {
	tiles []Tile
}

// NewTileDeck 按规范顺序生成 108 张牌
func NewTileDeck() *TileDeck {
	deck := &TileDeck{tiles: make([]Tile, 0, TileLimit)}
	for i := 0; i < KindCount; i++ {
		t := TileFromIndex(i)
		for c := 0; c < CopiesPerTile; c++ {
			deck.tiles = append(deck.tiles, t)
		}
	}
	return deck
}

func (d *TileDeck) Tiles() []Tile {
	return slices.Clone(d.tiles)
}

// DeckManager 牌山，从前端摸牌
type DeckManager struct {
	wall      []Tile
	wallIndex int
	rng       *rand.Rand
}

func NewDeckManager(rng *rand.Rand) *DeckManager {
	return &DeckManager{
		wall: make([]Tile, 0, TileLimit),
		rng:  rng,
	}
}

// InitRound 洗一副新牌
func (dm *DeckManager) InitRound() {
	tiles := NewTileDeck().tiles
	dm.rng.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
	dm.wall = append(dm.wall[:0], tiles...)
	dm.wallIndex = 0
}

// LoadWall 使用指定牌序，必须恰好是完整的 108 张
func (dm *DeckManager) LoadWall(tiles []Tile) error {
	if len(tiles) != TileLimit {
		return fmt.Errorf("%w: %d tiles, want %d", ErrInvalidWall, len(tiles), TileLimit)
	}
	var h Hand27
	for _, t := range tiles {
		if !t.Valid() {
			return fmt.Errorf("%w: invalid tile %v", ErrInvalidWall, t)
		}
		h[t.Index()]++
		if h[t.Index()] > CopiesPerTile {
			return fmt.Errorf("%w: more than %d copies of %s", ErrInvalidWall, CopiesPerTile, t)
		}
	}
	dm.wall = append(dm.wall[:0], tiles...)
	dm.wallIndex = 0
	return nil
}

func (dm *DeckManager) Draw() (Tile, bool) {
	if dm.wallIndex >= len(dm.wall) {
		return Tile{}, false
	}
	t := dm.wall[dm.wallIndex]
	dm.wallIndex++
	return t, true
}

func (dm *DeckManager) Deal() (Tile, bool) {
	return dm.Draw()
}

func (dm *DeckManager) Remaining() int {
	return len(dm.wall) - dm.wallIndex
}

// Rest 剩余牌山副本
func (dm *DeckManager) Rest() []Tile {
	return slices.Clone(dm.wall[dm.wallIndex:])
}
