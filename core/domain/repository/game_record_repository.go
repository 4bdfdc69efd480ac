package repository

import (
	"context"

	"mahjongai/core/domain/entity"
)

// GameRecordRepository 对局记录仓储接口
type GameRecordRepository interface {
	// SaveGameRecord 保存一局的完整记录
	SaveGameRecord(ctx context.Context, record *entity.GameRecord) error

	// SaveGameRecords 批量保存（使用 MongoDB InsertMany）
	SaveGameRecords(ctx context.Context, records []*entity.GameRecord) error

	// FindGameRecord 根据 GameID 查找
	FindGameRecord(ctx context.Context, gameID string) (*entity.GameRecord, error)

	// FindRecentGameRecords 按开始时间倒序分页，winner < -1 表示不过滤
	FindRecentGameRecords(ctx context.Context, winner int, limit, offset int) ([]*entity.GameRecord, error)
}
