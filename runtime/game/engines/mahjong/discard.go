package mahjong

import (
	"math"
	"slices"
)

// ChooseDiscard 逐张试打，取打出后估值最高的；并列时取手牌顺序中靠前的
func ChooseDiscard(hand []Tile) (Tile, error) {
	if len(hand) == 0 {
		return Tile{}, ErrEmptyHand
	}
	base := Hand27FromTiles(hand)
	best := hand[0]
	bestScore := math.Inf(-1)
	for _, t := range hand {
		work := base
		work[t.Index()]--
		if score := profileCounts(work).Score; score > bestScore {
			bestScore = score
			best = t
		}
	}
	return best, nil
}

// DiscardOption 打出某张牌后的估值
type DiscardOption struct {
	Tile       Tile
	ScoreAfter float64
}

// RankDiscards 每种牌一项，按估值降序，同分保持手牌中首次出现的顺序
func RankDiscards(hand []Tile) []DiscardOption {
	base := Hand27FromTiles(hand)
	seen := make(map[Tile]struct{}, len(hand))
	opts := make([]DiscardOption, 0, len(hand))
	for _, t := range hand {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		work := base
		work[t.Index()]--
		opts = append(opts, DiscardOption{Tile: t, ScoreAfter: profileCounts(work).Score})
	}
	slices.SortStableFunc(opts, func(a, b DiscardOption) int {
		switch {
		case a.ScoreAfter > b.ScoreAfter:
			return -1
		case a.ScoreAfter < b.ScoreAfter:
			return 1
		default:
			return 0
		}
	})
	return opts
}
