package persistence

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mahjongai/common/database"
	"mahjongai/common/log"
	"mahjongai/core/domain/entity"
	"mahjongai/core/domain/repository"
)

const gameRecordCollection = "game_records"

type GameRecordRepository struct {
	mongo *database.MongoManager
}

func NewGameRecordRepository(mongo *database.MongoManager) repository.GameRecordRepository {
	return &GameRecordRepository{mongo: mongo}
}

func (r *GameRecordRepository) collection() *mongo.Collection {
	return r.mongo.Collection(gameRecordCollection)
}

// EnsureIndexes game_id 唯一，按开始时间倒序查询
func (r *GameRecordRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "game_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "result.winner", Value: 1}, {Key: "start_time", Value: -1}}},
	})
	if err != nil {
		log.Error("创建对局记录索引失败: %v", err)
		return repository.ErrMongodb
	}
	return nil
}

// SaveGameRecord 保存一局记录
func (r *GameRecordRepository) SaveGameRecord(ctx context.Context, record *entity.GameRecord) error {
	if _, err := r.collection().InsertOne(ctx, r.recordToBson(record)); err != nil {
		log.Error("保存对局记录失败: %v", err)
		return repository.ErrMongodb
	}
	return nil
}

// SaveGameRecords 批量保存（使用 MongoDB InsertMany）
func (r *GameRecordRepository) SaveGameRecords(ctx context.Context, records []*entity.GameRecord) error {
	docs := make([]any, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		docs = append(docs, r.recordToBson(record))
	}
	if len(docs) == 0 {
		return nil
	}

	// 无序写入，单条失败不影响其余
	opts := options.InsertMany().SetOrdered(false)
	if _, err := r.collection().InsertMany(ctx, docs, opts); err != nil {
		log.Error("批量保存对局记录失败: %v", err)
		return repository.ErrMongodb
	}
	log.Debug("批量保存对局记录成功: count=%d", len(docs))
	return nil
}

// FindGameRecord 根据 GameID 查找
func (r *GameRecordRepository) FindGameRecord(ctx context.Context, gameID string) (*entity.GameRecord, error) {
	var record entity.GameRecord
	err := r.collection().FindOne(ctx, bson.M{"game_id": gameID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrGameRecordNotFound
		}
		log.Error("查询对局记录失败: %v", err)
		return nil, repository.ErrMongodb
	}
	return &record, nil
}

// FindRecentGameRecords 不含事件流，按开始时间倒序
func (r *GameRecordRepository) FindRecentGameRecords(ctx context.Context, winner int, limit, offset int) ([]*entity.GameRecord, error) {
	filter := bson.M{}
	if winner >= -1 {
		filter["result.winner"] = winner
	}
	opts := options.Find().
		SetSort(bson.M{"start_time": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset)).
		SetProjection(bson.M{"events": 0})

	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		log.Error("查询对局记录失败: %v", err)
		return nil, repository.ErrMongodb
	}
	defer cursor.Close(ctx)

	records := make([]*entity.GameRecord, 0, limit)
	if err := cursor.All(ctx, &records); err != nil {
		log.Error("解析对局记录失败: %v", err)
		return nil, repository.ErrMongodb
	}
	return records, nil
}

// ==================== 转换辅助方法 ====================

func (r *GameRecordRepository) recordToBson(record *entity.GameRecord) bson.M {
	return bson.M{
		"_id":         record.ID,
		"game_id":     record.GameID,
		"seed":        record.Seed,
		"rules":       record.Rules,
		"players":     record.Players,
		"events":      r.eventsToBson(record.Events),
		"result":      record.Result,
		"status":      record.Status,
		"reason":      record.Reason,
		"start_time":  record.StartTime,
		"end_time":    record.EndTime,
		"duration_ms": record.Duration,
		"created_at":  record.CreatedAt,
	}
}

func (r *GameRecordRepository) eventsToBson(events []entity.GameEvent) []bson.M {
	result := make([]bson.M, len(events))
	for i, e := range events {
		result[i] = bson.M{
			"game_id":    e.GameID,
			"sequence":   e.Sequence,
			"event_type": e.EventType,
			"timestamp":  e.Timestamp,
			"seat_index": e.SeatIndex,
			"from_seat":  e.FromSeat,
			"tiles":      e.Tiles,
			"data":       e.Data,
		}
	}
	return result
}
