package mahjong

import (
	"mahjongai/common/cache"
)

const (
	tagWinning = 'w'
	tagWaits   = 't'
)

// Searcher 和牌与听牌搜索，结果按牌种计数缓存；cache 为空时不缓存
// 缓存是并发安全的，多局并发时可共享同一个 Searcher
type Searcher struct {
	policy DecompositionPolicy
	cache  *cache.GeneralCache
}

func NewSearcher(policy DecompositionPolicy, c *cache.GeneralCache) *Searcher {
	return &Searcher{policy: policy, cache: c}
}

func (s *Searcher) Policy() DecompositionPolicy {
	return s.policy
}

// IsWinningHand 手牌需为 3k+2 张
func (s *Searcher) IsWinningHand(tiles []Tile) bool {
	if len(tiles)%3 != 2 {
		return false
	}
	for _, t := range tiles {
		if !t.Valid() {
			return false
		}
	}
	return s.isWinning(Hand27FromTiles(tiles))
}

func (s *Searcher) isWinning(h Hand27) bool {
	if s.cache == nil {
		return isWinningCounts(h, s.policy)
	}
	key := h.key(tagWinning + byte(s.policy))
	if v, ok := cache.GetAs[bool](s.cache, key); ok {
		return v
	}
	ok := isWinningCounts(h, s.policy)
	s.cache.Set(key, ok)
	return ok
}

// WaitingTiles 逐一试加 27 种牌，能和即为听牌；已持有 4 张的牌不再试
func (s *Searcher) WaitingTiles(hand []Tile) []Tile {
	if len(hand)%3 != 1 {
		return nil
	}
	h := Hand27FromTiles(hand)
	key := h.key(tagWaits + byte(s.policy))
	if s.cache != nil {
		if v, ok := cache.GetAs[[]Tile](s.cache, key); ok {
			return append([]Tile(nil), v...)
		}
	}

	var waits []Tile
	for i := 0; i < KindCount; i++ {
		if h[i] >= CopiesPerTile {
			continue
		}
		work := h
		work[i]++
		if s.isWinning(work) {
			waits = append(waits, TileFromIndex(i))
		}
	}

	if s.cache != nil {
		s.cache.Set(key, append([]Tile(nil), waits...))
	}
	return waits
}

func (s *Searcher) IsWaiting(hand []Tile) bool {
	return len(s.WaitingTiles(hand)) > 0
}

func (s *Searcher) Profile(hand []Tile) HandProfile {
	return ProfileHand(hand)
}

func (s *Searcher) ChooseDiscard(hand []Tile) (Tile, error) {
	return ChooseDiscard(hand)
}
