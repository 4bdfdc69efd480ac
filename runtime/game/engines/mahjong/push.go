package mahjong

import (
	"time"

	"mahjongai/core/domain/entity"
)

// Pusher 对局事件的接收方：持久化、消息总线、界面
type Pusher interface {
	Push(event entity.GameEvent)
}

// PusherFunc 函数适配
type PusherFunc func(event entity.GameEvent)

func (f PusherFunc) Push(event entity.GameEvent) {
	f(event)
}

func toEntityTile(t Tile) entity.Tile {
	return entity.Tile{Suit: int(t.Suit), Rank: t.Rank, Name: t.String()}
}

func toEntityTiles(tiles []Tile) []entity.Tile {
	out := make([]entity.Tile, 0, len(tiles))
	for _, t := range tiles {
		out = append(out, toEntityTile(t))
	}
	return out
}

// FromEntityTile 存储格式转回牌值
func FromEntityTile(t entity.Tile) Tile {
	return Tile{Suit: Suit(t.Suit), Rank: t.Rank}
}

func (eg *Mahjong4p) dispatchPush(event entity.GameEvent) {
	if len(eg.pushers) == 0 {
		return
	}
	event.GameID = eg.GameID
	event.Sequence = eg.sequence
	event.Timestamp = time.Now()
	eg.sequence++
	for _, p := range eg.pushers {
		p.Push(event)
	}
}

func (eg *Mahjong4p) broadcastGameStart() {
	eg.dispatchPush(entity.GameEvent{
		EventType: entity.EventTypeGameStart,
		SeatIndex: -1,
		FromSeat:  -1,
		Data: map[string]any{
			"wall_remaining": eg.State.Deck.Remaining(),
			"decomposition":  eg.opts.Decomposition.String(),
			"claim_policy":   eg.opts.ClaimPolicy.String(),
		},
	})
}

// pushDrawTile 摸牌
func (eg *Mahjong4p) pushDrawTile(seat int, tile Tile) {
	eg.dispatchPush(entity.GameEvent{
		EventType: entity.EventTypeDrawTile,
		SeatIndex: seat,
		FromSeat:  -1,
		Tiles:     []entity.Tile{toEntityTile(tile)},
		Data:      map[string]any{"wall_remaining": eg.State.Deck.Remaining()},
	})
}

func (eg *Mahjong4p) broadcastDiscard(seat int, tile Tile, waiting bool) {
	eg.dispatchPush(entity.GameEvent{
		EventType: entity.EventTypeDiscardTile,
		SeatIndex: seat,
		FromSeat:  -1,
		Tiles:     []entity.Tile{toEntityTile(tile)},
		Data:      map[string]any{"waiting": waiting},
	})
}

// broadcastMeldAction 吃、碰
func (eg *Mahjong4p) broadcastMeldAction(kind ClaimKind, seat, from int, meld Meld) {
	eventType := entity.EventTypePung
	if kind == ClaimChow {
		eventType = entity.EventTypeChow
	}
	eg.dispatchPush(entity.GameEvent{
		EventType: eventType,
		SeatIndex: seat,
		FromSeat:  from,
		Tiles:     toEntityTiles(meld.Tiles[:]),
	})
}

func (eg *Mahjong4p) broadcastWin(endType string, seat, from int, tile Tile, hand []Tile) {
	eventType := entity.EventTypeSelfDraw
	if endType == EndDiscardWin {
		eventType = entity.EventTypeDiscardWin
	}
	eg.dispatchPush(entity.GameEvent{
		EventType: eventType,
		SeatIndex: seat,
		FromSeat:  from,
		Tiles:     toEntityTiles(SortedCopy(hand)),
		Data:      map[string]any{"win_tile": tile.String()},
	})
}

func (eg *Mahjong4p) broadcastGameEnd(outcome *Outcome) {
	eg.dispatchPush(entity.GameEvent{
		EventType: entity.EventTypeGameEnd,
		SeatIndex: outcome.Winner,
		FromSeat:  outcome.LoserSeat,
		Data: map[string]any{
			"end_type":       outcome.EndType,
			"turns":          outcome.Turns,
			"wall_remaining": outcome.WallRemaining,
		},
	})
}
