package mahjong

// 牌力估值：20·面子数 + 3·对子数 + 1·搭子数
const (
	MeldWeight     = 10
	MeldFactor     = 2.0
	PairWeight     = 2
	PairFactor     = 1.5
	SequenceFactor = 1.0
)

// HandProfile 牌力估值的各项。Terminals 仅作统计，不计入 Score
type HandProfile struct {
	Melds     int
	Pairs     int
	Sequences int
	Terminals int
	Score     float64
}

func ProfileHand(tiles []Tile) HandProfile {
	return profileCounts(Hand27FromTiles(tiles))
}

func Score(tiles []Tile) float64 {
	return ProfileHand(tiles).Score
}

// ScoreWithout 去掉第 i 张后的估值，不修改 tiles
func ScoreWithout(tiles []Tile, i int) float64 {
	h := Hand27FromTiles(tiles)
	if i >= 0 && i < len(tiles) {
		h[tiles[i].Index()]--
	}
	return profileCounts(h).Score
}

func profileCounts(h Hand27) HandProfile {
	var p HandProfile
	p.Melds = len(findAllMeldsCounts(h))
	for i := 0; i < KindCount; i++ {
		if h[i] >= 2 {
			p.Pairs++
		}
	}
	// 同花色按点数排序后相邻两张差值 <= 2 即计一次，重复的牌差值为 0
	for s := 0; s < SuitCount; s++ {
		prev := -1
		for r := 0; r < RankMax; r++ {
			c := int(h[s*RankMax+r])
			if c == 0 {
				continue
			}
			if prev >= 0 && r-prev <= 2 {
				p.Sequences++
			}
			p.Sequences += c - 1
			prev = r
		}
		p.Terminals += int(h[s*RankMax]) + int(h[s*RankMax+RankMax-1])
	}
	p.Score = float64(p.Melds*MeldWeight)*MeldFactor +
		float64(p.Pairs*PairWeight)*PairFactor +
		float64(p.Sequences)*SequenceFactor
	return p
}
