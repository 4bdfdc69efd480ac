package mahjong

import (
	"fmt"
	"strings"
)

// ClaimPolicy 鸣牌优先级规则
type ClaimPolicy int

const (
	ClaimScan     ClaimPolicy = iota // 按下家起顺序扫描，先到先得，任何座位都可吃
	ClaimPriority                    // 碰优先于吃，只有下家可吃
)

func (p ClaimPolicy) String() string {
	if p == ClaimPriority {
		return "priority"
	}
	return "scan"
}

func ParseClaimPolicy(name string) (ClaimPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "scan":
		return ClaimScan, nil
	case "priority":
		return ClaimPriority, nil
	default:
		return ClaimScan, fmt.Errorf("unknown claim policy %q", name)
	}
}

type ClaimKind int

const (
	ClaimPung ClaimKind = iota // 碰
	ClaimChow                  // 吃
)

func (k ClaimKind) String() string {
	if k == ClaimChow {
		return "CHOW"
	}
	return "PUNG"
}

// ClaimOption 手中两张加上弃牌组成的面子
type ClaimOption struct {
	Kind  ClaimKind
	Tiles [2]Tile
	Meld  Meld
}

func (o ClaimOption) String() string {
	return fmt.Sprintf("%s %s %s %s", o.Kind, o.Meld.Tiles[0], o.Meld.Tiles[1], o.Meld.Tiles[2])
}

// ClaimCandidate 可鸣牌的座位及其全部选项，选项中碰在前、吃按起点从小到大
type ClaimCandidate struct {
	Seat    int
	Options []ClaimOption
}

func countTile(hand []Tile, tile Tile) int {
	n := 0
	for _, t := range hand {
		if t == tile {
			n++
		}
	}
	return n
}

// getPengOption 手中至少两张相同的牌
func getPengOption(hand []Tile, tile Tile) (ClaimOption, bool) {
	if countTile(hand, tile) < 2 {
		return ClaimOption{}, false
	}
	meld, err := NewMeld(tile, tile, tile)
	if err != nil {
		return ClaimOption{}, false
	}
	return ClaimOption{Kind: ClaimPung, Tiles: [2]Tile{tile, tile}, Meld: meld}, true
}

// getChiOptions 弃牌可位于顺子的任意位置
func getChiOptions(hand []Tile, tile Tile) []ClaimOption {
	var ops []ClaimOption
	for start := tile.Rank - 2; start <= tile.Rank; start++ {
		if start < RankMin || start+2 > RankMax {
			continue
		}
		var need []Tile
		for r := start; r <= start+2; r++ {
			if r != tile.Rank {
				need = append(need, Tile{Suit: tile.Suit, Rank: r})
			}
		}
		if countTile(hand, need[0]) == 0 || countTile(hand, need[1]) == 0 {
			continue
		}
		meld, err := NewMeld(tile, need[0], need[1])
		if err != nil {
			continue
		}
		ops = append(ops, ClaimOption{Kind: ClaimChow, Tiles: [2]Tile{need[0], need[1]}, Meld: meld})
	}
	return ops
}

// ClaimCandidates 按规则排好序的候选座位，origin 为出牌者
func ClaimCandidates(tile Tile, origin int, hands [SeatCount][]Tile, policy ClaimPolicy) []ClaimCandidate {
	var out []ClaimCandidate
	left := (origin + 1) % SeatCount

	if policy == ClaimPriority {
		listed := make(map[int]bool, SeatCount)
		for k := 1; k < SeatCount; k++ {
			seat := (origin + k) % SeatCount
			peng, ok := getPengOption(hands[seat], tile)
			if !ok {
				continue
			}
			opts := []ClaimOption{peng}
			if seat == left {
				opts = append(opts, getChiOptions(hands[seat], tile)...)
			}
			out = append(out, ClaimCandidate{Seat: seat, Options: opts})
			listed[seat] = true
		}
		if !listed[left] {
			if chi := getChiOptions(hands[left], tile); len(chi) > 0 {
				out = append(out, ClaimCandidate{Seat: left, Options: chi})
			}
		}
		return out
	}

	for k := 1; k < SeatCount; k++ {
		seat := (origin + k) % SeatCount
		var opts []ClaimOption
		if peng, ok := getPengOption(hands[seat], tile); ok {
			opts = append(opts, peng)
		}
		opts = append(opts, getChiOptions(hands[seat], tile)...)
		if len(opts) > 0 {
			out = append(out, ClaimCandidate{Seat: seat, Options: opts})
		}
	}
	return out
}

// ResolveClaims 假设候选者总是接受第一个选项时的鸣牌结果
func ResolveClaims(tile Tile, origin int, hands [SeatCount][]Tile, policy ClaimPolicy) (int, ClaimOption, bool) {
	candidates := ClaimCandidates(tile, origin, hands, policy)
	if len(candidates) == 0 {
		return -1, ClaimOption{}, false
	}
	return candidates[0].Seat, candidates[0].Options[0], true
}
