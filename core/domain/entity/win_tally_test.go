package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWinTally(t *testing.T) {
	var tally WinTally
	tally.Record(0)
	tally.Record(0)
	tally.Record(3)
	tally.Record(-1)
	tally.Record(7)
	tally.RecordFailure()

	require.Equal(t, 6, tally.Games)
	require.Equal(t, [4]int{2, 0, 0, 1}, tally.Wins)
	require.Equal(t, 3, tally.NoWinner)
	require.Equal(t, 1, tally.Failures)
	require.InDelta(t, 100.0/3, tally.WinRate(0), 1e-9)
	require.InDelta(t, 50.0, tally.NoWinnerRate(), 1e-9)
	require.Zero(t, tally.WinRate(4))

	var other WinTally
	other.Record(1)
	tally.Merge(other)
	require.Equal(t, 7, tally.Games)
	require.Equal(t, 1, tally.Wins[1])

	var empty WinTally
	require.Zero(t, empty.WinRate(0))
	require.Zero(t, empty.NoWinnerRate())
}

func TestGameRecordEvents(t *testing.T) {
	rec := NewGameRecord("g", 1, RuleSet{}, nil)
	rec.AddEvent(GameEvent{EventType: EventTypeGameStart, Sequence: 9})
	rec.AddEvent(GameEvent{EventType: EventTypeDrawTile, Sequence: 9})
	require.Equal(t, 0, rec.Events[0].Sequence)
	require.Equal(t, 1, rec.Events[1].Sequence)
	require.Equal(t, GameStatusInProgress, rec.Status)

	rec.CompleteGame(&GameResult{Winner: -1, EndType: "DRAW_EXHAUSTIVE", LoserSeat: -1})
	require.Equal(t, GameStatusCompleted, rec.Status)
	require.False(t, rec.EndTime.Before(rec.StartTime))
}
