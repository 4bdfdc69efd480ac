package game

// LoadInfo 批量模拟时的负载快照
type LoadInfo struct {
	GameCount   int     // 进行中的对局数
	PlayerCount int     // 在座人数
	Completed   int     // 已完成对局数
	Total       int     // 计划对局数
	CPUUsage    float64 // CPU 使用率（0-100）
	MemUsage    float64 // 内存使用率（0-100）
}

// CalculateLoad 综合负载评分，越小越空闲
// 权重：CPU 30%、内存 20%、对局数 25%、玩家数 25%
func (li *LoadInfo) CalculateLoad() float64 {
	normalizedGameCount := min(float64(li.GameCount)/100.0, 1.0)
	normalizedPlayerCount := min(float64(li.PlayerCount)/100.0, 1.0)
	return li.CPUUsage*0.3 + li.MemUsage*0.2 + normalizedGameCount*100*0.25 + normalizedPlayerCount*100*0.25
}

// Percent 完成百分比
func (li *LoadInfo) Percent() float64 {
	if li.Total <= 0 {
		return 0
	}
	return float64(li.Completed) * 100 / float64(li.Total)
}
