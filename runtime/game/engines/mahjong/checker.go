package mahjong

import (
	"fmt"
	"strings"
)

// DecompositionPolicy 面子拆分策略
type DecompositionPolicy int

const (
	DecomposeBacktrack DecompositionPolicy = iota // 回溯，完备
	DecomposeGreedy                               // 按排序位置贪心取前三张，不回溯
)

func (p DecompositionPolicy) String() string {
	if p == DecomposeGreedy {
		return "greedy"
	}
	return "backtrack"
}

func ParseDecompositionPolicy(name string) (DecompositionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "backtrack":
		return DecomposeBacktrack, nil
	case "greedy":
		return DecomposeGreedy, nil
	default:
		return DecomposeBacktrack, fmt.Errorf("unknown decomposition policy %q", name)
	}
}

// IsValidPair 两张完全相同的牌
func IsValidPair(a, b Tile) bool {
	return a.Valid() && a == b
}

// IsValidMeld 刻子，或同花色连续三张
func IsValidMeld(tiles []Tile) bool {
	if len(tiles) != 3 {
		return false
	}
	s := [3]Tile{tiles[0], tiles[1], tiles[2]}
	SortTiles(s[:])
	for _, t := range s {
		if !t.Valid() {
			return false
		}
	}
	if s[0] == s[1] && s[1] == s[2] {
		return true
	}
	return s[0].Suit == s[1].Suit && s[1].Suit == s[2].Suit &&
		s[1].Rank == s[0].Rank+1 && s[2].Rank == s[1].Rank+1
}

// CanDecomposeIntoMelds 牌数必须是 3 的倍数，否则返回 ErrIllegalDecomposition
func CanDecomposeIntoMelds(tiles []Tile, policy DecompositionPolicy) (bool, error) {
	if len(tiles)%3 != 0 {
		return false, fmt.Errorf("%w: %d tiles is not a multiple of 3", ErrIllegalDecomposition, len(tiles))
	}
	if policy == DecomposeGreedy {
		return canFormMeldsGreedy(SortedCopy(tiles)), nil
	}
	h := Hand27FromTiles(tiles)
	return canFormMelds(&h, len(tiles)/3), nil
}

// IsWinningHand 3k+2 张：一个雀头加 k 个面子，枚举所有张数 >= 2 的牌作雀头
func IsWinningHand(tiles []Tile, policy DecompositionPolicy) bool {
	if len(tiles)%3 != 2 {
		return false
	}
	for _, t := range tiles {
		if !t.Valid() {
			return false
		}
	}
	return isWinningCounts(Hand27FromTiles(tiles), policy)
}

func isWinningCounts(h Hand27, policy DecompositionPolicy) bool {
	total := h.Total()
	if total%3 != 2 {
		return false
	}
	need := (total - 2) / 3
	for j := 0; j < KindCount; j++ {
		if h[j] < 2 {
			continue
		}
		work := h
		work[j] -= 2
		if policy == DecomposeGreedy {
			if canFormMeldsGreedy(work.sortedTiles()) {
				return true
			}
			continue
		}
		if canFormMelds(&work, need) {
			return true
		}
	}
	return false
}

func (h Hand27) sortedTiles() []Tile {
	out := make([]Tile, 0, h.Total())
	for i := 0; i < KindCount; i++ {
		for c := uint8(0); c < h[i]; c++ {
			out = append(out, TileFromIndex(i))
		}
	}
	return out
}

// canFormMelds 从最小的牌开始，先试刻子再试顺子，失败回溯
func canFormMelds(h *Hand27, need int) bool {
	if need == 0 {
		for i := 0; i < KindCount; i++ {
			if (*h)[i] != 0 {
				return false
			}
		}
		return true
	}

	i := -1
	for k := 0; k < KindCount; k++ {
		if (*h)[k] > 0 {
			i = k
			break
		}
	}
	if i == -1 {
		return false
	}
	// 刻子
	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		if canFormMelds(h, need-1) {
			(*h)[i] += 3
			return true
		}
		(*h)[i] += 3
	}
	// 顺子，起点点数不超过 7
	if i%RankMax <= RankMax-3 && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		(*h)[i+2]--
		ok := canFormMelds(h, need-1)
		(*h)[i]++
		(*h)[i+1]++
		(*h)[i+2]++
		if ok {
			return true
		}
	}
	return false
}

// canFormMeldsGreedy 入参已排序，每次只看最前面三张
func canFormMeldsGreedy(sorted []Tile) bool {
	for len(sorted) > 0 {
		if len(sorted) < 3 || !IsValidMeld(sorted[:3]) {
			return false
		}
		sorted = sorted[3:]
	}
	return true
}

// FindAllMelds 所有可组成的刻子与顺子，允许重叠使用同一张牌
func FindAllMelds(tiles []Tile) []Meld {
	return findAllMeldsCounts(Hand27FromTiles(tiles))
}

func findAllMeldsCounts(h Hand27) []Meld {
	var melds []Meld
	for i := 0; i < KindCount; i++ {
		if h[i] >= 3 {
			t := TileFromIndex(i)
			melds = append(melds, Meld{Kind: MeldTriplet, Tiles: [3]Tile{t, t, t}, From: -1})
		}
	}
	for s := 0; s < SuitCount; s++ {
		for r := 0; r <= RankMax-3; r++ {
			i := s*RankMax + r
			if h[i] > 0 && h[i+1] > 0 && h[i+2] > 0 {
				melds = append(melds, Meld{
					Kind:  MeldRun,
					Tiles: [3]Tile{TileFromIndex(i), TileFromIndex(i + 1), TileFromIndex(i + 2)},
					From:  -1,
				})
			}
		}
	}
	return melds
}
