package repository

import (
	"context"

	"mahjongai/core/domain/entity"
)

// WinTallyRepository 跨批次累计的胜负统计
type WinTallyRepository interface {
	// AddTally 累加一批结果
	AddTally(ctx context.Context, tally entity.WinTally) error

	// LoadTally 读取累计结果，不存在时返回零值
	LoadTally(ctx context.Context) (entity.WinTally, error)

	// ResetTally 清空累计结果
	ResetTally(ctx context.Context) error
}
