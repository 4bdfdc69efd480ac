package mahjong

// DrawProbabilities 按可见牌估算下一张摸到各牌的概率，是近似值而非后验
// unknown = 108 - 可见总数；unknown <= 0 时全部为 0
func DrawProbabilities(snap *Snapshot, seat int) map[Tile]float64 {
	visible := snap.VisibleCounts(seat)
	unknown := TileLimit - visible.Total()

	probs := make(map[Tile]float64, KindCount)
	for i := 0; i < KindCount; i++ {
		t := TileFromIndex(i)
		if unknown <= 0 {
			probs[t] = 0
			continue
		}
		remaining := CopiesPerTile - int(visible[i])
		if remaining < 0 {
			remaining = 0
		}
		probs[t] = float64(remaining) / float64(unknown)
	}
	return probs
}
