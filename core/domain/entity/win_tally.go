package entity

// WinTally 批量对局的胜负统计
type WinTally struct {
	Games    int    `json:"games"`
	Wins     [4]int `json:"wins"`
	NoWinner int    `json:"noWinner"` // 流局与异常局
	Failures int    `json:"failures"` // 其中异常终止的局数
}

// Record winner 为 -1 或越界时计入无人和牌
func (t *WinTally) Record(winner int) {
	t.Games++
	if winner < 0 || winner >= len(t.Wins) {
		t.NoWinner++
		return
	}
	t.Wins[winner]++
}

func (t *WinTally) RecordFailure() {
	t.Record(-1)
	t.Failures++
}

func (t *WinTally) Merge(o WinTally) {
	t.Games += o.Games
	for i := range t.Wins {
		t.Wins[i] += o.Wins[i]
	}
	t.NoWinner += o.NoWinner
	t.Failures += o.Failures
}

// WinRate 百分比
func (t *WinTally) WinRate(seat int) float64 {
	if t.Games == 0 || seat < 0 || seat >= len(t.Wins) {
		return 0
	}
	return float64(t.Wins[seat]) * 100 / float64(t.Games)
}

func (t *WinTally) NoWinnerRate() float64 {
	if t.Games == 0 {
		return 0
	}
	return float64(t.NoWinner) * 100 / float64(t.Games)
}
