// Package render draws games for the terminal.
package render

import (
	"fmt"
	"strings"

	"catan/game"
	"catan/resources"

	"github.com/logrusorgru/aurora"
)

// RecentActions is how many log entries Text shows.
const RecentActions = 6

// Text summarizes the public side of a game: tiles, players, phase and the
// latest actions. Players are colored when color is set.
func Text(gs *game.GameState, color bool) string {
	au := aurora.NewAurora(color)
	view := gs.PublicView(-1)
	paint := func(player int, s string) string {
		switch player {
		case 0:
			return au.Red(s).String()
		case 1:
			return au.Blue(s).String()
		case 2:
			return au.Yellow(s).String()
		case 3:
			return au.Magenta(s).String()
		}
		return s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  move %d, %s to act (%s), last roll %d\n",
		au.Bold("Catan"), view.Moves, paint(view.CurrentPlayer, fmt.Sprintf("P%d", view.CurrentPlayer)), view.PhaseName, view.LastRoll)

	b.WriteString("tiles:\n")
	for i, t := range view.Tiles {
		name := "Desert"
		if t.Resource != resources.Empty {
			name = t.Resource.String()
		}
		cell := fmt.Sprintf("%-8v %-6s %2d", t.Pos, name, t.Value)
		if t.Robber {
			cell = au.Reverse(cell + " R").String()
		} else {
			cell += "  "
		}
		b.WriteString("  " + cell)
		if i%3 == 2 || i == len(view.Tiles)-1 {
			b.WriteByte('\n')
		}
	}

	fmt.Fprintf(&b, "bank: %v  dev deck: %d\n", view.Bank, view.DevDeckSize)
	b.WriteString("players:\n")
	for _, p := range view.Players {
		line := fmt.Sprintf("  P%d  %2d VP  %2d cards  %d dev  roads %2d  settlements %d  cities %d  knights %d  road %d",
			p.ID, p.VictoryPoints, p.HandSize, p.DevCardCount, p.Roads, p.Settlements, p.Cities, p.KnightsPlayed, p.RoadLength)
		if p.LongestRoad {
			line += "  [longest road]"
		}
		if p.LargestArmy {
			line += "  [largest army]"
		}
		b.WriteString(paint(p.ID, line) + "\n")
	}

	start := max(0, len(gs.Log)-RecentActions)
	if start < len(gs.Log) {
		b.WriteString("recent:\n")
	}
	for _, r := range gs.Log[start:] {
		desc := r.Action.Description()
		if r.Synthetic {
			desc = "  " + desc
		}
		b.WriteString("  " + paint(r.Action.Owner, desc) + "\n")
	}

	if view.Winner >= 0 {
		fmt.Fprintf(&b, "%s %s\n", au.Bold("winner:"), paint(view.Winner, fmt.Sprintf("P%d", view.Winner)))
	}
	return b.String()
}
