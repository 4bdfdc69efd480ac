package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameRecord 一局对局的完整记录（聚合根）：规则、玩家、事件流、结果
type GameRecord struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	GameID    string             `bson:"game_id" json:"gameId"`
	Seed      int64              `bson:"seed" json:"seed"`
	Rules     RuleSet            `bson:"rules" json:"rules"`
	Players   []PlayerInfo       `bson:"players" json:"players"`
	Events    []GameEvent        `bson:"events" json:"events"`
	Result    *GameResult        `bson:"result" json:"result,omitempty"`
	Status    string             `bson:"status" json:"status"` // "in_progress", "completed", "aborted"
	Reason    string             `bson:"reason,omitempty" json:"reason,omitempty"`
	StartTime time.Time          `bson:"start_time" json:"startTime"`
	EndTime   time.Time          `bson:"end_time" json:"endTime"`
	Duration  int64              `bson:"duration_ms" json:"durationMs"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

type RuleSet struct {
	Decomposition string `bson:"decomposition" json:"decomposition"`
	ClaimPolicy   string `bson:"claim_policy" json:"claimPolicy"`
	MaxTurns      int    `bson:"max_turns" json:"maxTurns"`
}

type PlayerInfo struct {
	SeatIndex int    `bson:"seat_index" json:"seatIndex"`
	Name      string `bson:"name" json:"name"`
	Kind      string `bson:"kind" json:"kind"` // "human", "ai"
}

// GameResult Winner 为 -1 表示无人和牌
type GameResult struct {
	Winner        int    `bson:"winner" json:"winner"`
	EndType       string `bson:"end_type" json:"endType"`
	LoserSeat     int    `bson:"loser_seat" json:"loserSeat"` // 点和时的出牌者，否则为 -1
	WinTile       *Tile  `bson:"win_tile,omitempty" json:"winTile,omitempty"`
	WinningHand   []Tile `bson:"winning_hand,omitempty" json:"winningHand,omitempty"`
	Turns         int    `bson:"turns" json:"turns"`
	WallRemaining int    `bson:"wall_remaining" json:"wallRemaining"`
}

// Tile 牌（用于存储与推送）
type Tile struct {
	Suit int    `bson:"suit" json:"suit"`
	Rank int    `bson:"rank" json:"rank"`
	Name string `bson:"name" json:"name"`
}

// GameEvent 对局事件（只存事件，不存快照）
type GameEvent struct {
	GameID    string         `bson:"game_id" json:"gameId"`
	Sequence  int            `bson:"sequence" json:"sequence"`
	EventType string         `bson:"event_type" json:"eventType"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	SeatIndex int            `bson:"seat_index" json:"seatIndex"` // -1 表示系统事件
	FromSeat  int            `bson:"from_seat" json:"fromSeat"`
	Tiles     []Tile         `bson:"tiles,omitempty" json:"tiles,omitempty"`
	Data      map[string]any `bson:"data,omitempty" json:"data,omitempty"`
}

const (
	GameStatusInProgress = "in_progress"
	GameStatusCompleted  = "completed"
	GameStatusAborted    = "aborted"
)

// 事件类型常量
const (
	EventTypeGameStart   = "game_start"   // 发牌完成
	EventTypeDrawTile    = "draw_tile"    // 摸牌
	EventTypeDiscardTile = "discard_tile" // 出牌
	EventTypeChow        = "chow"         // 吃
	EventTypePung        = "pung"         // 碰
	EventTypeSelfDraw    = "self_draw"    // 自摸
	EventTypeDiscardWin  = "discard_win"  // 点和
	EventTypeGameEnd     = "game_end"     // 结束
)

func NewGameRecord(gameID string, seed int64, rules RuleSet, players []PlayerInfo) *GameRecord {
	now := time.Now()
	return &GameRecord{
		ID:        primitive.NewObjectID(),
		GameID:    gameID,
		Seed:      seed,
		Rules:     rules,
		Players:   players,
		Events:    make([]GameEvent, 0, 128),
		Status:    GameStatusInProgress,
		StartTime: now,
		CreatedAt: now,
	}
}

// AddEvent 按到达顺序重新编号
func (gr *GameRecord) AddEvent(event GameEvent) {
	event.Sequence = len(gr.Events)
	gr.Events = append(gr.Events, event)
}

func (gr *GameRecord) CompleteGame(result *GameResult) {
	gr.EndTime = time.Now()
	gr.Duration = gr.EndTime.Sub(gr.StartTime).Milliseconds()
	gr.Result = result
	gr.Status = GameStatusCompleted
}

func (gr *GameRecord) AbortGame(reason string) {
	gr.EndTime = time.Now()
	gr.Duration = gr.EndTime.Sub(gr.StartTime).Milliseconds()
	gr.Status = GameStatusAborted
	gr.Reason = reason
}
