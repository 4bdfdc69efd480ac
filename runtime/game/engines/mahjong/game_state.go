package mahjong

import (
	"fmt"
	"math/rand"
)

type LastDiscard struct {
	Seat  int
	Tile  Tile
	Valid bool
}

// GameState 一局的全部可变状态，只由 Engine 在单个 goroutine 中修改
type GameState struct {
	Deck          *DeckManager
	Players       [SeatCount]*PlayerImage
	CurrentPlayer int
	LastDiscard   LastDiscard
	Ended         bool
	Winner        int // -1 表示流局或未结束
}

func NewGameState(rng *rand.Rand, names [SeatCount]string) *GameState {
	gs := &GameState{
		Deck:   NewDeckManager(rng),
		Winner: -1,
	}
	for i := 0; i < SeatCount; i++ {
		gs.Players[i] = NewPlayerImage(names[i], i)
	}
	return gs
}

// Deal 洗牌并发牌
func (gs *GameState) Deal() {
	gs.Deck.InitRound()
	gs.distributeCard()
}

// DealFrom 使用指定牌序发牌，用于复盘
func (gs *GameState) DealFrom(wall []Tile) error {
	if err := gs.Deck.LoadWall(wall); err != nil {
		return err
	}
	gs.distributeCard()
	return nil
}

// distributeCard 每家依次连续取 13 张
func (gs *GameState) distributeCard() {
	for _, p := range gs.Players {
		p.Reset()
	}
	for i := 0; i < SeatCount; i++ {
		for r := 0; r < HandSize; r++ {
			t, _ := gs.Deck.Deal()
			gs.Players[i].AddTile(t)
		}
	}
	gs.CurrentPlayer = 0
	gs.LastDiscard = LastDiscard{}
	gs.Ended = false
	gs.Winner = -1
}

// TileCount 牌山 + 手牌 + 3·副露 + 弃牌
func (gs *GameState) TileCount() int {
	n := gs.Deck.Remaining()
	for _, p := range gs.Players {
		n += p.TileCount()
	}
	return n
}

func (gs *GameState) CheckConservation() error {
	if n := gs.TileCount(); n != TileLimit {
		return fmt.Errorf("%w: counted %d tiles", ErrConservation, n)
	}
	return nil
}

func (gs *GameState) setLastDiscard(seat int, tile Tile) {
	gs.LastDiscard = LastDiscard{Seat: seat, Tile: tile, Valid: true}
}

func (gs *GameState) clearLastDiscard() {
	gs.LastDiscard.Valid = false
}

// Snapshot 深拷贝，供决策方与分析使用
func (gs *GameState) Snapshot() *Snapshot {
	snap := &Snapshot{
		WallRemaining: gs.Deck.Remaining(),
		CurrentPlayer: gs.CurrentPlayer,
		LastDiscard:   gs.LastDiscard,
		Ended:         gs.Ended,
		Winner:        gs.Winner,
	}
	for i, p := range gs.Players {
		snap.Players[i] = p.clone()
	}
	return snap
}

// Snapshot 只读视图
type Snapshot struct {
	Players       [SeatCount]*PlayerImage
	WallRemaining int
	CurrentPlayer int
	LastDiscard   LastDiscard
	Ended         bool
	Winner        int
}

func (s *Snapshot) Hand(seat int) []Tile {
	return s.Players[seat].Tiles
}

// VisibleCounts 某座位可见的牌：所有弃牌、所有副露、自己的手牌
func (s *Snapshot) VisibleCounts(seat int) Hand27 {
	var h Hand27
	for _, p := range s.Players {
		for _, t := range p.DiscardPile {
			h[t.Index()]++
		}
		for _, m := range p.Melds {
			for _, t := range m.Tiles {
				h[t.Index()]++
			}
		}
	}
	for _, t := range s.Players[seat].Tiles {
		h[t.Index()]++
	}
	return h
}

// DiscardedCount 所有弃牌堆中某张牌的数量
func (s *Snapshot) DiscardedCount(tile Tile) int {
	n := 0
	for _, p := range s.Players {
		for _, t := range p.DiscardPile {
			if t == tile {
				n++
			}
		}
	}
	return n
}
