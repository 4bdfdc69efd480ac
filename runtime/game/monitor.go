package game

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"mahjongai/common/log"
)

// ProgressSource 提供已完成与计划对局数
type ProgressSource interface {
	Progress() (completed, total int)
}

// Monitor 批量模拟期间定期采样负载并输出进度
type Monitor struct {
	roomManager    *RoomManager
	progress       ProgressSource
	updateInterval time.Duration
	stopCh         chan struct{}
	stopOnce       sync.Once

	mu   sync.RWMutex
	last LoadInfo
}

func NewMonitor(roomManager *RoomManager, progress ProgressSource, updateInterval time.Duration) *Monitor {
	if updateInterval <= 0 {
		updateInterval = 5 * time.Second
	}
	return &Monitor{
		roomManager:    roomManager,
		progress:       progress,
		updateInterval: updateInterval,
		stopCh:         make(chan struct{}),
	}
}

// Start 阻塞直到 ctx 取消或 Stop
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.reportLoad()
		}
	}
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
}

// LastLoad 最近一次采样
func (m *Monitor) LastLoad() LoadInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

func (m *Monitor) reportLoad() {
	loadInfo := m.collectLoadInfo()
	m.mu.Lock()
	m.last = *loadInfo
	m.mu.Unlock()

	log.Info("模拟进度 %d/%d (%.1f%%), 进行中 %d 局, CPU %.1f%%, 内存 %.1f%%, 负载 %.1f",
		loadInfo.Completed, loadInfo.Total, loadInfo.Percent(), loadInfo.GameCount,
		loadInfo.CPUUsage, loadInfo.MemUsage, loadInfo.CalculateLoad())
}

func (m *Monitor) collectLoadInfo() *LoadInfo {
	gameCount, playerCount := m.roomManager.GetStats()
	info := &LoadInfo{
		GameCount:   gameCount,
		PlayerCount: playerCount,
		CPUUsage:    getCPUUsage(),
		MemUsage:    getMemUsage(),
	}
	if m.progress != nil {
		info.Completed, info.Total = m.progress.Progress()
	}
	return info
}

// getCPUUsage interval 为 0 时与上次调用比较，不阻塞
func getCPUUsage() float64 {
	percents, err := cpu.Percent(0, false)
	if err != nil || len(percents) == 0 {
		log.Debug("获取 CPU 使用率失败: %v", err)
		return 0
	}
	return percents[0]
}

func getMemUsage() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Debug("获取内存使用率失败: %v", err)
		return 0
	}
	return vm.UsedPercent
}
