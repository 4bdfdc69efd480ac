package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"mahjongai/common/log"
	"mahjongai/core/domain/entity"
	"mahjongai/runtime/game"
	"mahjongai/runtime/game/engines/mahjong"
)

// Session 交互模式：一个人类座位加三个 AI，每局结束后询问是否再来一局
type Session struct {
	worker  *game.Worker
	decider *ConsoleDecider
	out     io.Writer
	seat    int
	seed    int64
	tally   entity.WinTally
}

func NewSession(worker *game.Worker, in io.Reader, out io.Writer, seat int) *Session {
	return &Session{
		worker:  worker,
		decider: NewConsoleDecider(in, out, worker.Searcher),
		out:     out,
		seat:    seat,
		seed:    worker.Seed,
	}
}

// Tally 本次会话的战绩
func (s *Session) Tally() entity.WinTally {
	return s.tally
}

// Run 玩家退出、输入结束或 ctx 取消时返回
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, helpText)
	for round := 0; ; round++ {
		var deciders [mahjong.SeatCount]mahjong.Decider
		deciders[s.seat] = s.decider

		outcome, err := s.worker.PlayGame(ctx, s.seed+int64(round), deciders, NewEventPrinter(s.out, s.seat))
		switch {
		case errors.Is(err, ErrQuit), errors.Is(err, io.EOF):
			fmt.Fprintln(s.out, "Bye!")
			return nil
		case err != nil:
			return err
		}
		s.tally.Record(outcome.Winner)

		var names [mahjong.SeatCount]string
		for i := range names {
			names[i] = fmt.Sprintf("Player %d", i+1)
		}
		names[s.seat] = "You"
		fmt.Fprintln(s.out, RenderOutcome(outcome, names))
		log.Debug("交互对局结束: %s, winner=%d", outcome.GameID, outcome.Winner)

		answer, err := s.decider.Prompt(ctx, "\nPlay another game? (yes/no): ")
		if err != nil || !isYes(answer) {
			if s.tally.Games > 1 {
				fmt.Fprintln(s.out, RenderTally(&s.tally))
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func isYes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
