package mahjong

import "slices"

type PlayerImage struct {
	Name        string
	SeatIndex   int
	Tiles       []Tile // 手牌（暗）
	DiscardPile []Tile // 弃牌堆，被鸣牌时移除最后一张
	Melds       []Meld // 吃、碰
	IsWaiting   bool   // 是否听牌
	NewestTile  *Tile  // 最新摸的牌
}

func NewPlayerImage(name string, seatIndex int) *PlayerImage {
	return &PlayerImage{
		Name:        name,
		SeatIndex:   seatIndex,
		Tiles:       make([]Tile, 0, WinningSize),
		DiscardPile: make([]Tile, 0, 32),
		Melds:       make([]Meld, 0, 4),
	}
}

func (p *PlayerImage) Reset() {
	p.Tiles = p.Tiles[:0]
	p.DiscardPile = p.DiscardPile[:0]
	p.Melds = p.Melds[:0]
	p.IsWaiting = false
	p.NewestTile = nil
}

func (p *PlayerImage) AddTile(tile Tile) {
	p.Tiles = append(p.Tiles, tile)
}

func (p *PlayerImage) DrawTile(tile Tile) {
	p.Tiles = append(p.Tiles, tile)
	newest := tile
	p.NewestTile = &newest
}

// RemoveTile 移除第一张相同的牌
func (p *PlayerImage) RemoveTile(tile Tile) bool {
	i := slices.Index(p.Tiles, tile)
	if i < 0 {
		return false
	}
	p.Tiles = slices.Delete(p.Tiles, i, i+1)
	return true
}

func (p *PlayerImage) CountOf(tile Tile) int {
	n := 0
	for _, t := range p.Tiles {
		if t == tile {
			n++
		}
	}
	return n
}

// DiscardTile 出牌后不再保留最新摸牌标记
func (p *PlayerImage) DiscardTile(tile Tile) bool {
	if !p.RemoveTile(tile) {
		return false
	}
	p.DiscardPile = append(p.DiscardPile, tile)
	p.NewestTile = nil
	return true
}

// NewestOrLast 超时自动出牌的选择：优先刚摸的牌，否则最后一张
func (p *PlayerImage) NewestOrLast() (Tile, bool) {
	if len(p.Tiles) == 0 {
		return Tile{}, false
	}
	if p.NewestTile != nil && slices.Contains(p.Tiles, *p.NewestTile) {
		return *p.NewestTile, true
	}
	return p.Tiles[len(p.Tiles)-1], true
}

// PopDiscard 被鸣牌时取走弃牌堆最后一张
func (p *PlayerImage) PopDiscard() (Tile, bool) {
	if len(p.DiscardPile) == 0 {
		return Tile{}, false
	}
	t := p.DiscardPile[len(p.DiscardPile)-1]
	p.DiscardPile = p.DiscardPile[:len(p.DiscardPile)-1]
	return t, true
}

// TileCount 手牌、副露、弃牌合计
func (p *PlayerImage) TileCount() int {
	return len(p.Tiles) + 3*len(p.Melds) + len(p.DiscardPile)
}

func (p *PlayerImage) SortedTiles() []Tile {
	return SortedCopy(p.Tiles)
}

func (p *PlayerImage) clone() *PlayerImage {
	c := &PlayerImage{
		Name:        p.Name,
		SeatIndex:   p.SeatIndex,
		Tiles:       slices.Clone(p.Tiles),
		DiscardPile: slices.Clone(p.DiscardPile),
		Melds:       slices.Clone(p.Melds),
		IsWaiting:   p.IsWaiting,
	}
	if p.NewestTile != nil {
		t := *p.NewestTile
		c.NewestTile = &t
	}
	return c
}
