package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"mahjongai/runtime/game/engines/mahjong"
)

// ConsoleDecider 从文本输入读取人类玩家的决策
// 读取在独立 goroutine 中进行，等待时可被 ctx 取消（超时、退出）
type ConsoleDecider struct {
	in       *bufio.Scanner
	out      io.Writer
	searcher *mahjong.Searcher

	lines     chan string
	readErr   error
	startOnce sync.Once
}

var _ mahjong.Decider = (*ConsoleDecider)(nil)

func NewConsoleDecider(in io.Reader, out io.Writer, searcher *mahjong.Searcher) *ConsoleDecider {
	if searcher == nil {
		searcher = mahjong.NewSearcher(mahjong.DecomposeBacktrack, nil)
	}
	return &ConsoleDecider{
		in:       bufio.NewScanner(in),
		out:      out,
		searcher: searcher,
		lines:    make(chan string),
	}
}

func (d *ConsoleDecider) readLoop() {
	for d.in.Scan() {
		d.lines <- d.in.Text()
	}
	d.readErr = d.in.Err()
	if d.readErr == nil {
		d.readErr = io.EOF
	}
	close(d.lines)
}

// Prompt 输出提示并等待一行输入
func (d *ConsoleDecider) Prompt(ctx context.Context, prompt string) (string, error) {
	d.startOnce.Do(func() {
		go d.readLoop()
	})
	fmt.Fprint(d.out, prompt)
	select {
	case <-ctx.Done():
		fmt.Fprintln(d.out)
		return "", ctx.Err()
	case line, ok := <-d.lines:
		if !ok {
			return "", d.readErr
		}
		return strings.TrimSpace(line), nil
	}
}

// ChooseDiscard 查询命令不改变局面，可以反复执行，直到给出合法的出牌
func (d *ConsoleDecider) ChooseDiscard(ctx context.Context, seat int, snap *mahjong.Snapshot) (mahjong.Tile, error) {
	me := snap.Players[seat]
	fmt.Fprintln(d.out, RenderHand(me))
	for {
		line, err := d.Prompt(ctx, "Enter your action: ")
		if err != nil {
			return mahjong.Tile{}, err
		}
		cmd, err := ParseCommand(line)
		if err != nil {
			fmt.Fprintf(d.out, "Invalid input: %v (type 'help' for commands)\n", err)
			continue
		}
		switch cmd.Kind {
		case CmdDiscard:
			if !slices.Contains(me.Tiles, cmd.Tile) {
				fmt.Fprintf(d.out, "%s is not in your hand\n", cmd.Tile)
				continue
			}
			return cmd.Tile, nil
		case CmdShowHand:
			fmt.Fprintln(d.out, RenderHand(me))
		case CmdShowAnalysis:
			fmt.Fprintln(d.out, RenderAnalysis(mahjong.Analyze(snap, seat, d.searcher)))
		case CmdShowState:
			fmt.Fprintln(d.out, RenderGameState(snap, seat))
		case CmdHelp:
			fmt.Fprintln(d.out, helpText)
		case CmdQuit:
			return mahjong.Tile{}, ErrQuit
		}
	}
}

// ChooseClaim 输入选项编号，pass 或最后一个编号表示放弃
func (d *ConsoleDecider) ChooseClaim(ctx context.Context, seat int, snap *mahjong.Snapshot, discard mahjong.Tile, options []mahjong.ClaimOption) (int, error) {
	if len(options) == 0 {
		return mahjong.PassClaim, nil
	}
	from := "A player"
	if snap.LastDiscard.Valid {
		from = snap.Players[snap.LastDiscard.Seat].Name
	}
	fmt.Fprintln(d.out, RenderClaimOptions(discard, from, options))
	for {
		line, err := d.Prompt(ctx, "Enter your choice (number): ")
		if err != nil {
			return mahjong.PassClaim, err
		}
		switch strings.ToLower(line) {
		case "pass", "p":
			return mahjong.PassClaim, nil
		case "quit", "exit":
			return mahjong.PassClaim, ErrQuit
		case "hand", "show hand":
			fmt.Fprintln(d.out, RenderHand(snap.Players[seat]))
			continue
		}
		choice, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(d.out, "Please enter a number")
			continue
		}
		switch {
		case choice == len(options)+1:
			return mahjong.PassClaim, nil
		case choice >= 1 && choice <= len(options):
			return choice - 1, nil
		}
		fmt.Fprintln(d.out, "Invalid choice")
	}
}
