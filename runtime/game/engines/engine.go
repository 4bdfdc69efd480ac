package engines

import "context"

type engineType int32

const (
	MAHJONG_4P_ENGINE engineType = iota // 简化麻将4人 游戏引擎
)

type GameState int

const (
	GameWaiting    GameState = iota // 等待开始
	GameInProgress                  // 进行中
	GameFinished                    // 结束
)

func (s GameState) String() string {
	switch s {
	case GameWaiting:
		return "waiting"
	case GameInProgress:
		return "in_progress"
	case GameFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Engine 每局一个引擎实例，由单个 goroutine 驱动
type Engine interface {
	// GetGameID 对局 ID
	GetGameID() string

	// Run 驱动对局直到结束，返回和牌座位，流局为 -1
	Run(ctx context.Context) (int, error)

	// Status 当前对局阶段
	Status() GameState

	// Close 释放引擎内部资源
	Close()
}
