package console

import (
	"fmt"
	"io"
	"strings"

	"mahjongai/core/domain/entity"
	"mahjongai/runtime/game/engines/mahjong"
)

// EventPrinter 把对局事件转成人类玩家看得到的提示
type EventPrinter struct {
	out  io.Writer
	seat int
}

var _ mahjong.Pusher = (*EventPrinter)(nil)

func NewEventPrinter(out io.Writer, seat int) *EventPrinter {
	return &EventPrinter{out: out, seat: seat}
}

func (p *EventPrinter) name(seat int) string {
	if seat == p.seat {
		return "You"
	}
	return fmt.Sprintf("Player %d", seat+1)
}

func tileNames(tiles []entity.Tile) string {
	names := make([]string, len(tiles))
	for i, t := range tiles {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func (p *EventPrinter) Push(event entity.GameEvent) {
	switch event.EventType {
	case entity.EventTypeGameStart:
		fmt.Fprintf(p.out, "New game started, you are Player %d.\n", p.seat+1)
	case entity.EventTypeDrawTile:
		// 别人摸的牌不可见
		if event.SeatIndex == p.seat && len(event.Tiles) > 0 {
			fmt.Fprintf(p.out, "\nYou drew %s\n", event.Tiles[0].Name)
		}
	case entity.EventTypeDiscardTile:
		if len(event.Tiles) > 0 {
			fmt.Fprintf(p.out, "%s discarded %s\n", p.name(event.SeatIndex), event.Tiles[0].Name)
		}
	case entity.EventTypePung, entity.EventTypeChow:
		fmt.Fprintf(p.out, "%s claimed %s from %s: [%s]\n", p.name(event.SeatIndex),
			strings.ToUpper(event.EventType), p.name(event.FromSeat), tileNames(event.Tiles))
	}
}

// FormatEvent 单行显示任意座位的事件，用于旁观事件流
func FormatEvent(e entity.GameEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s #%d %s", e.GameID, e.Sequence, e.EventType)
	if e.SeatIndex >= 0 {
		fmt.Fprintf(&b, " seat=%d", e.SeatIndex)
	}
	if e.FromSeat >= 0 {
		fmt.Fprintf(&b, " from=%d", e.FromSeat)
	}
	if len(e.Tiles) > 0 {
		fmt.Fprintf(&b, " [%s]", tileNames(e.Tiles))
	}
	if endType, ok := e.Data["end_type"]; ok {
		fmt.Fprintf(&b, " %v", endType)
	}
	return b.String()
}
