package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mahjongai/core/domain/entity"
	"mahjongai/runtime/game/engines/mahjong"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tileStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	newestStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	safeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
	currentStyle = lipgloss.NewStyle().Bold(true)
)

func joinTiles(tiles []mahjong.Tile) string {
	if len(tiles) == 0 {
		return "-"
	}
	names := make([]string, len(tiles))
	for i, t := range tiles {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

func joinMelds(melds []mahjong.Meld) string {
	if len(melds) == 0 {
		return "-"
	}
	names := make([]string, len(melds))
	for i, m := range melds {
		names[i] = "[" + joinTiles(m.Tiles[:]) + "]"
	}
	return strings.Join(names, " ")
}

// RenderHand 排序后的手牌，刚摸的牌高亮
func RenderHand(p *mahjong.PlayerImage) string {
	sorted := mahjong.SortedCopy(p.Tiles)
	parts := make([]string, len(sorted))
	marked := false
	for i, t := range sorted {
		if !marked && p.NewestTile != nil && *p.NewestTile == t {
			parts[i] = newestStyle.Render(t.String() + "*")
			marked = true
			continue
		}
		parts[i] = tileStyle.Render(t.String())
	}
	lines := []string{
		titleStyle.Render("Your hand"),
		strings.Join(parts, "  "),
	}
	if len(p.Melds) > 0 {
		lines = append(lines, labelStyle.Render("Melds: ")+joinMelds(p.Melds))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// RenderAnalysis 前三个出牌建议、危险牌、安全牌与整体建议
func RenderAnalysis(a *mahjong.Analysis) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Analysis") + "\n")
	fmt.Fprintf(&b, "%s %.1f (melds %d, pairs %d, partial runs %d)\n", labelStyle.Render("Hand score:"),
		a.HandScore, a.Profile.Melds, a.Profile.Pairs, a.Profile.Sequences)
	if a.CanWin {
		b.WriteString(newestStyle.Render("Winning hand!") + "\n")
	}
	if len(a.Waits) > 0 {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Waiting on:"), joinTiles(a.Waits))
	}

	b.WriteString(labelStyle.Render("Suggested discards:") + "\n")
	for i, s := range a.SuggestedDiscards {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "  %s: %s\n", tileStyle.Render(s.Tile.String()), s.Reason)
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Dangerous tiles:"), dangerStyle.Render(joinTiles(a.DangerousTiles)))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Safe tiles:"), safeStyle.Render(joinTiles(a.SafeTiles)))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Advice:"), a.StrategicAdvice)
	fmt.Fprintf(&b, "%s %.1f%%", labelStyle.Render("Winning probability:"), a.WinningProbability*100)
	return panelStyle.Render(b.String())
}

// RenderGameState 只展示 seat 自己的手牌，其他座位只显示张数
func RenderGameState(snap *mahjong.Snapshot, seat int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Game state") + "\n")
	fmt.Fprintf(&b, "%s %d   %s %s\n", labelStyle.Render("Tiles in wall:"), snap.WallRemaining,
		labelStyle.Render("Current player:"), snap.Players[snap.CurrentPlayer].Name)
	for i, p := range snap.Players {
		name := p.Name
		if i == seat {
			name += " (you)"
		}
		if i == snap.CurrentPlayer {
			name = currentStyle.Render("> " + name)
		} else {
			name = "  " + name
		}
		b.WriteString("\n" + name + "\n")
		if i == seat {
			fmt.Fprintf(&b, "    %s %s\n", labelStyle.Render("Hand:"), joinTiles(mahjong.SortedCopy(p.Tiles)))
		} else {
			fmt.Fprintf(&b, "    %s %d\n", labelStyle.Render("Hand size:"), len(p.Tiles))
		}
		fmt.Fprintf(&b, "    %s %s\n", labelStyle.Render("Discards:"), joinTiles(p.DiscardPile))
		fmt.Fprintf(&b, "    %s %s", labelStyle.Render("Melds:"), joinMelds(p.Melds))
	}
	return panelStyle.Render(b.String())
}

// RenderClaimOptions 选项从 1 开始编号，最后一项为放弃
func RenderClaimOptions(discard mahjong.Tile, from string, options []mahjong.ClaimOption) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s discarded %s. Available claims:\n", from, tileStyle.Render(discard.String()))
	for i, o := range options {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, o)
	}
	fmt.Fprintf(&b, "  %d. pass", len(options)+1)
	return b.String()
}

// RenderOutcome 对局结果
func RenderOutcome(outcome *mahjong.Outcome, names [mahjong.SeatCount]string) string {
	var b strings.Builder
	switch outcome.EndType {
	case mahjong.EndSelfDraw:
		fmt.Fprintf(&b, "%s wins by self-draw!", names[outcome.Winner])
	case mahjong.EndDiscardWin:
		fmt.Fprintf(&b, "%s wins on %s's discard!", names[outcome.Winner], names[outcome.LoserSeat])
	case mahjong.EndDrawTurnLimit:
		b.WriteString("Game ended in draw (turn limit).")
	default:
		b.WriteString("Game ended in draw!")
	}
	if outcome.Winner >= 0 {
		fmt.Fprintf(&b, "\n%s %s", labelStyle.Render("Winning hand:"), joinTiles(outcome.WinningHand))
	}
	fmt.Fprintf(&b, "\n%s %d   %s %d", labelStyle.Render("Turns:"), outcome.Turns,
		labelStyle.Render("Tiles left:"), outcome.WallRemaining)
	return panelStyle.Render(titleStyle.Render("Game over") + "\n" + b.String())
}

// RenderTally 批量统计，每个座位的胜率
func RenderTally(t *entity.WinTally) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Results over %d games", t.Games)) + "\n")
	for seat := range t.Wins {
		fmt.Fprintf(&b, "Player %d: %d wins (%.1f%%)\n", seat+1, t.Wins[seat], t.WinRate(seat))
	}
	fmt.Fprintf(&b, "No winner: %d (%.1f%%)", t.NoWinner, t.NoWinnerRate())
	if t.Failures > 0 {
		fmt.Fprintf(&b, "\n%s", dangerStyle.Render(fmt.Sprintf("Failed games: %d", t.Failures)))
	}
	return panelStyle.Render(b.String())
}
