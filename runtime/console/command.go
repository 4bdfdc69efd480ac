package console

import (
	"errors"
	"fmt"
	"strings"

	"mahjongai/runtime/game/engines/mahjong"
)

// ErrQuit 玩家主动退出
var ErrQuit = errors.New("player quit")

type CommandKind int

const (
	CmdDiscard CommandKind = iota
	CmdShowHand
	CmdShowAnalysis
	CmdShowState
	CmdHelp
	CmdQuit
)

// Command 一条已解析的控制台命令，Tile 仅对 CmdDiscard 有效
type Command struct {
	Kind CommandKind
	Tile mahjong.Tile
}

var queryCommands = map[string]CommandKind{
	"show hand":       CmdShowHand,
	"hand":            CmdShowHand,
	"show analysis":   CmdShowAnalysis,
	"analysis":        CmdShowAnalysis,
	"show game state": CmdShowState,
	"show state":      CmdShowState,
	"state":           CmdShowState,
	"help":            CmdHelp,
	"?":               CmdHelp,
	"quit":            CmdQuit,
	"exit":            CmdQuit,
}

// ParseCommand 大小写与多余空白不敏感；无法识别时返回 ErrMalformedInput
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty command", mahjong.ErrMalformedInput)
	}
	if kind, ok := queryCommands[strings.Join(fields, " ")]; ok {
		return Command{Kind: kind}, nil
	}

	switch fields[0] {
	case "discard", "d":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: usage: discard <rank>-<SUIT>", mahjong.ErrMalformedInput)
		}
		tile, err := mahjong.ParseTile(fields[1])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdDiscard, Tile: tile}, nil
	}
	return Command{}, fmt.Errorf("%w: unknown command %q", mahjong.ErrMalformedInput, line)
}

const helpText = `Commands:
  discard <rank>-<SUIT>   discard a tile, e.g. 'discard 5-WAN' (short: d 5-wan)
  show hand               your concealed hand (short: hand)
  show analysis           discard suggestions and hand analysis (short: analysis)
  show game state         all seats, discards and melds (short: state)
  help                    this message
  quit                    leave the game`
