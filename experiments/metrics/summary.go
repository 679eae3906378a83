package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Games         int
	Wins          map[int]int // AgentConfig.ID -> games won
	Unfinished    int         // games stopped at the move limit
	MeanMoves     float64
	StdDevMoves   float64
	MeanEpisodes  float64
	FullPlayouts  float64 // share of rollouts that reached the end of the game
	TreeReuseRate float64
}

func Summarize(games []GameRecord, moves []MoveRecord) Summary {
	s := Summary{Games: len(games), Wins: map[int]int{}}

	lengths := make([]float64, len(games))
	for i, g := range games {
		lengths[i] = float64(g.TotalMoves)
		if g.Winner < 0 {
			s.Unfinished++
			continue
		}
		s.Wins[g.Seats[g.Winner]]++
	}
	switch {
	case len(games) > 1:
		s.MeanMoves, s.StdDevMoves = stat.MeanStdDev(lengths, nil)
	case len(games) == 1:
		s.MeanMoves = lengths[0]
	}

	if len(moves) == 0 {
		return s
	}
	episodes := make([]float64, len(moves))
	playouts := make([]float64, len(moves))
	reused := 0.0
	for i, m := range moves {
		episodes[i] = float64(m.Episodes)
		playouts[i] = float64(m.FullPlayouts)
		if !m.IsTreeReset {
			reused++
		}
	}
	s.MeanEpisodes = stat.Mean(episodes, nil)
	if total := floats.Sum(episodes); total > 0 {
		s.FullPlayouts = floats.Sum(playouts) / total
	}
	s.TreeReuseRate = reused / float64(len(moves))
	return s
}
