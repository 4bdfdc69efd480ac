package console

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mahjongai/core/domain/entity"
	"mahjongai/runtime/game"
	"mahjongai/runtime/game/engines/mahjong"
)

func tiles(t *testing.T, names ...string) []mahjong.Tile {
	t.Helper()
	out := make([]mahjong.Tile, 0, len(names))
	for _, n := range names {
		tile, err := mahjong.ParseTile(n)
		require.NoError(t, err)
		out = append(out, tile)
	}
	return out
}

func snapshotFor(t *testing.T, hands [mahjong.SeatCount][]mahjong.Tile) *mahjong.Snapshot {
	t.Helper()
	gs := mahjong.NewGameState(rand.New(rand.NewSource(1)), [mahjong.SeatCount]string{"Alice", "Bob", "Carol", "Dave"})
	for i, h := range hands {
		gs.Players[i].Tiles = h
	}
	return gs.Snapshot()
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line string
		kind CommandKind
	}{
		{"show hand", CmdShowHand},
		{"  SHOW   Hand ", CmdShowHand},
		{"analysis", CmdShowAnalysis},
		{"show game state", CmdShowState},
		{"?", CmdHelp},
		{"exit", CmdQuit},
	}
	for _, c := range cases {
		cmd, err := ParseCommand(c.line)
		require.NoError(t, err, c.line)
		require.Equal(t, c.kind, cmd.Kind, c.line)
	}

	cmd, err := ParseCommand("discard 5-WAN")
	require.NoError(t, err)
	require.Equal(t, CmdDiscard, cmd.Kind)
	require.Equal(t, mahjong.Tile{Suit: mahjong.SuitWan, Rank: 5}, cmd.Tile)

	cmd, err = ParseCommand("d 9-tiao")
	require.NoError(t, err)
	require.Equal(t, mahjong.Tile{Suit: mahjong.SuitTiao, Rank: 9}, cmd.Tile)

	for _, bad := range []string{"", "discard", "discard 10-wan", "discard 5-dragon", "discard 5-wan now", "fly away"} {
		_, err := ParseCommand(bad)
		require.ErrorIs(t, err, mahjong.ErrMalformedInput, bad)
	}
}

func TestConsoleDecider_ChooseDiscard(t *testing.T) {
	hand := tiles(t, "1-Wan", "2-Wan", "3-Wan", "5-Tong")
	snap := snapshotFor(t, [mahjong.SeatCount][]mahjong.Tile{hand})
	in := strings.NewReader("bogus\nd 9-tiao\nhand\nstate\nanalysis\nhelp\ndiscard 5-TONG\n")
	var out bytes.Buffer

	d := NewConsoleDecider(in, &out, nil)
	tile, err := d.ChooseDiscard(context.Background(), 0, snap)
	require.NoError(t, err)
	require.Equal(t, tiles(t, "5-Tong")[0], tile)

	text := out.String()
	require.Contains(t, text, "Invalid input")
	require.Contains(t, text, "9-Tiao is not in your hand")
	require.Contains(t, text, "Commands:")
	require.Equal(t, 7, strings.Count(text, "Enter your action: "))
}

func TestConsoleDecider_QuitAndEOF(t *testing.T) {
	snap := snapshotFor(t, [mahjong.SeatCount][]mahjong.Tile{tiles(t, "1-Wan")})

	d := NewConsoleDecider(strings.NewReader("quit\n"), io.Discard, nil)
	_, err := d.ChooseDiscard(context.Background(), 0, snap)
	require.ErrorIs(t, err, ErrQuit)

	d = NewConsoleDecider(strings.NewReader(""), io.Discard, nil)
	_, err = d.ChooseDiscard(context.Background(), 0, snap)
	require.ErrorIs(t, err, io.EOF)
}

func TestConsoleDecider_PromptHonoursContext(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	d := NewConsoleDecider(r, io.Discard, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := d.Prompt(ctx, "> ")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConsoleDecider_ChooseClaim(t *testing.T) {
	discard := tiles(t, "5-Wan")[0]
	var hands [mahjong.SeatCount][]mahjong.Tile
	hands[1] = tiles(t, "4-Wan", "5-Wan", "5-Wan", "6-Wan")
	candidates := mahjong.ClaimCandidates(discard, 0, hands, mahjong.ClaimScan)
	require.Len(t, candidates, 1)
	options := candidates[0].Options
	require.Len(t, options, 2) // 碰、吃 4-5-6

	snap := snapshotFor(t, hands)
	var out bytes.Buffer
	d := NewConsoleDecider(strings.NewReader("what\n7\n2\n"), &out, nil)
	idx, err := d.ChooseClaim(context.Background(), 1, snap, discard, options)
	require.NoError(t, err)
	require.Equal(t, 1, idx)
	require.Contains(t, out.String(), "Please enter a number")
	require.Contains(t, out.String(), "Invalid choice")
	require.Contains(t, out.String(), "3. pass")

	d = NewConsoleDecider(strings.NewReader("3\n"), io.Discard, nil)
	idx, err = d.ChooseClaim(context.Background(), 1, snap, discard, options)
	require.NoError(t, err)
	require.Equal(t, mahjong.PassClaim, idx)

	d = NewConsoleDecider(strings.NewReader("p\n"), io.Discard, nil)
	idx, err = d.ChooseClaim(context.Background(), 1, snap, discard, options)
	require.NoError(t, err)
	require.Equal(t, mahjong.PassClaim, idx)

	idx, err = d.ChooseClaim(context.Background(), 1, snap, discard, nil)
	require.NoError(t, err)
	require.Equal(t, mahjong.PassClaim, idx)
}

func TestEventPrinter(t *testing.T) {
	var out bytes.Buffer
	p := NewEventPrinter(&out, 0)
	five := entity.Tile{Suit: 0, Rank: 5, Name: "5-Wan"}

	p.Push(entity.GameEvent{EventType: entity.EventTypeGameStart, SeatIndex: -1})
	p.Push(entity.GameEvent{EventType: entity.EventTypeDrawTile, SeatIndex: 1, Tiles: []entity.Tile{five}})
	p.Push(entity.GameEvent{EventType: entity.EventTypeDrawTile, SeatIndex: 0, Tiles: []entity.Tile{five}})
	p.Push(entity.GameEvent{EventType: entity.EventTypeDiscardTile, SeatIndex: 2, Tiles: []entity.Tile{five}})
	p.Push(entity.GameEvent{EventType: entity.EventTypePung, SeatIndex: 0, FromSeat: 2, Tiles: []entity.Tile{five, five, five}})

	text := out.String()
	require.Contains(t, text, "you are Player 1")
	require.Equal(t, 1, strings.Count(text, "drew"))
	require.Contains(t, text, "You drew 5-Wan")
	require.Contains(t, text, "Player 3 discarded 5-Wan")
	require.Contains(t, text, "You claimed PUNG from Player 3: [5-Wan, 5-Wan, 5-Wan]")
}

func TestRenderTally(t *testing.T) {
	tally := &entity.WinTally{}
	tally.Record(0)
	tally.RecordFailure()

	text := RenderTally(tally)
	require.Contains(t, text, "Results over 2 games")
	require.Contains(t, text, "Player 1: 1 wins (50.0%)")
	require.Contains(t, text, "No winner: 1 (50.0%)")
	require.Contains(t, text, "Failed games: 1")
}

func TestRenderOutcome(t *testing.T) {
	names := [mahjong.SeatCount]string{"You", "Player 2", "Player 3", "Player 4"}
	text := RenderOutcome(&mahjong.Outcome{Winner: 1, LoserSeat: 0, EndType: mahjong.EndDiscardWin, Turns: 9}, names)
	require.Contains(t, text, "Player 2 wins on You's discard!")

	text = RenderOutcome(&mahjong.Outcome{Winner: -1, LoserSeat: -1, EndType: mahjong.EndDrawExhaustive}, names)
	require.Contains(t, text, "Game ended in draw!")
	require.NotContains(t, text, "Winning hand")
}

func TestSession_QuitAndEOF(t *testing.T) {
	for _, input := range []string{"quit\n", ""} {
		worker := game.NewWorker(mahjong.Options{}, nil, 1, time.Hour)
		worker.Seed = 8
		var out bytes.Buffer

		s := NewSession(worker, strings.NewReader(input), &out, 0)
		require.NoError(t, s.Run(context.Background()))
		require.Contains(t, out.String(), "Bye!")
		require.Contains(t, out.String(), "New game started")
		require.Zero(t, s.Tally().Games)
		worker.Close()
	}
}

func TestFormatEvent(t *testing.T) {
	five := entity.Tile{Suit: 0, Rank: 5, Name: "5-Wan"}
	line := FormatEvent(entity.GameEvent{GameID: "g", Sequence: 3, EventType: entity.EventTypePung,
		SeatIndex: 2, FromSeat: 1, Tiles: []entity.Tile{five, five, five}})
	require.Equal(t, "g #3 pung seat=2 from=1 [5-Wan, 5-Wan, 5-Wan]", line)

	line = FormatEvent(entity.GameEvent{GameID: "g", Sequence: 40, EventType: entity.EventTypeGameEnd,
		SeatIndex: -1, FromSeat: -1, Data: map[string]any{"end_type": "DRAW_EXHAUSTIVE"}})
	require.Equal(t, "g #40 game_end DRAW_EXHAUSTIVE", line)
}
