package mahjong

import (
	"fmt"
	"slices"
)

const (
	adviceLowWall  = 30 // 牌山少于此数视为后半局
	reasonIsolated = "Isolated tile"
	reasonNoMeld   = "Not part of any potential meld"
)

// DiscardSuggestion 一种候选出牌
type DiscardSuggestion struct {
	Tile       Tile
	ScoreAfter float64
	Danger     int // 可能被对手需要的程度
	Reason     string
}

// Analysis 某座位当前局面的分析，只读
type Analysis struct {
	Seat               int
	HandScore          float64
	Profile            HandProfile
	CanWin             bool
	Waits              []Tile
	SuggestedDiscards  []DiscardSuggestion
	SafeTiles          []Tile
	DangerousTiles     []Tile
	StrategicAdvice    string
	WinningProbability float64
	DrawProbabilities  map[Tile]float64
}

// Analyze 基于快照计算，不修改任何局面
func Analyze(snap *Snapshot, seat int, searcher *Searcher) *Analysis {
	hand := snap.Hand(seat)
	profile := searcher.Profile(hand)
	a := &Analysis{
		Seat:              seat,
		HandScore:         profile.Score,
		Profile:           profile,
		CanWin:            len(hand)%3 == 2 && searcher.IsWinningHand(hand),
		DrawProbabilities: DrawProbabilities(snap, seat),
	}
	if len(hand)%3 == 1 {
		a.Waits = searcher.WaitingTiles(hand)
	}
	a.WinningProbability = min(max(profile.Score/100.0, 0), 1)
	a.SuggestedDiscards = suggestDiscards(snap, seat, hand)
	a.SafeTiles = safeTiles(snap, hand)
	a.DangerousTiles = dangerousTiles(snap, seat, hand)
	a.StrategicAdvice = strategicAdvice(a.CanWin, profile.Score, snap.WallRemaining)
	return a
}

func suggestDiscards(snap *Snapshot, seat int, hand []Tile) []DiscardSuggestion {
	ranked := RankDiscards(hand)
	out := make([]DiscardSuggestion, 0, len(ranked))
	for _, r := range ranked {
		danger := discardDanger(snap, seat, r.Tile)
		out = append(out, DiscardSuggestion{
			Tile:       r.Tile,
			ScoreAfter: r.ScoreAfter,
			Danger:     danger,
			Reason:     discardReason(hand, r.Tile, r.ScoreAfter, danger),
		})
	}
	slices.SortStableFunc(out, func(x, y DiscardSuggestion) int {
		switch {
		case x.ScoreAfter > y.ScoreAfter:
			return -1
		case x.ScoreAfter < y.ScoreAfter:
			return 1
		}
		return x.Danger - y.Danger
	})
	return out
}

// discardDanger 有多少对手亮出的顺子两端正好是这张牌
func discardDanger(snap *Snapshot, seat int, tile Tile) int {
	danger := 0
	for i, p := range snap.Players {
		if i == seat {
			continue
		}
		if slices.Contains(runEnds(p.Melds), tile) {
			danger++
		}
	}
	return danger
}

func runEnds(melds []Meld) []Tile {
	var ends []Tile
	for _, m := range melds {
		if m.Kind != MeldRun {
			continue
		}
		lo, hi := m.Tiles[0], m.Tiles[2]
		if lo.Rank > RankMin {
			ends = append(ends, Tile{Suit: lo.Suit, Rank: lo.Rank - 1})
		}
		if hi.Rank < RankMax {
			ends = append(ends, Tile{Suit: hi.Suit, Rank: hi.Rank + 1})
		}
	}
	return ends
}

func discardReason(hand []Tile, tile Tile, scoreAfter float64, danger int) string {
	rest := slices.Clone(hand)
	if i := slices.Index(rest, tile); i >= 0 {
		rest = slices.Delete(rest, i, i+1)
	}
	connected := false
	for _, t := range rest {
		if t.Suit == tile.Suit && t != tile && abs(t.Rank-tile.Rank) <= 2 {
			connected = true
			break
		}
	}
	if !connected {
		return reasonIsolated
	}
	if !completesMeld(rest, tile) {
		return reasonNoMeld
	}
	return fmt.Sprintf("Score after discard: %.1f, Danger level: %d", scoreAfter, danger)
}

// completesMeld 手中任意两张加上 tile 能组成面子
func completesMeld(hand []Tile, tile Tile) bool {
	for i := 0; i < len(hand); i++ {
		for j := i + 1; j < len(hand); j++ {
			if IsValidMeld([]Tile{hand[i], hand[j], tile}) {
				return true
			}
		}
	}
	return false
}

// safeTiles 牌河中已出现至少两张的牌
func safeTiles(snap *Snapshot, hand []Tile) []Tile {
	var out []Tile
	for _, t := range distinctSorted(hand) {
		if snap.DiscardedCount(t) >= 2 {
			out = append(out, t)
		}
	}
	return out
}

// dangerousTiles 靠近对手副露的牌
func dangerousTiles(snap *Snapshot, seat int, hand []Tile) []Tile {
	var out []Tile
	for _, t := range distinctSorted(hand) {
		level := 0
		for i, p := range snap.Players {
			if i == seat {
				continue
			}
			near := false
			for _, m := range p.Melds {
				if couldCompleteSequence(t, m) {
					level++
				}
				for _, mt := range m.Tiles {
					if mt.Suit == t.Suit && abs(mt.Rank-t.Rank) <= 2 {
						near = true
					}
				}
			}
			if near {
				level++
			}
		}
		if level >= 2 {
			out = append(out, t)
		}
	}
	return out
}

func couldCompleteSequence(t Tile, m Meld) bool {
	lo, hi := m.Tiles[0], m.Tiles[2]
	return t.Suit == lo.Suit && abs(t.Rank-lo.Rank) <= 2 && abs(t.Rank-hi.Rank) <= 2
}

func strategicAdvice(canWin bool, score float64, wall int) string {
	late := wall < adviceLowWall
	switch {
	case canWin:
		return "You can declare win!"
	case score >= 80:
		return "Very close to winning! Focus on completing the hand."
	case score >= 60 && late:
		return "Good hand but running out of tiles. Consider aggressive play."
	case score >= 60:
		return "Strong hand. Look for key tiles to complete it."
	case score >= 40 && late:
		return "Time running out. Consider defensive play and quick combinations."
	case score >= 40:
		return "Decent hand. Watch other players and build your hand carefully."
	case late:
		return "Low scoring hand and running out of tiles. Focus on quick completions."
	default:
		return "Rebuild your hand. Focus on efficient tile combinations."
	}
}

func distinctSorted(hand []Tile) []Tile {
	out := SortedCopy(hand)
	return slices.Compact(out)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
