package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counts concurrent episodes", func(t *testing.T) {
		c := NewCollector()
		c.Start(4, 400)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 25 {
					c.AddEpisode(10)
				}
				c.AddFullPlayout()
			}()
		}
		wg.Wait()
		c.SetTreeReset(true)
		got := c.Complete()

		require.Equal(t, 100, got.Episodes)
		require.Equal(t, 4, got.FullPlayouts)
		require.Equal(t, 10.0, got.RolloutDepth)
		require.Equal(t, 4, got.Goroutines)
		require.Equal(t, 400, got.Cutoff)
		require.True(t, got.IsTreeReset)
	})

	t.Run("start clears the previous search", func(t *testing.T) {
		c := NewCollector()
		c.Start(1, 10)
		c.AddEpisode(3)
		c.AddFullPlayout()

		c.Start(1, 10)
		got := c.Complete()

		require.Zero(t, got.Episodes)
		require.Zero(t, got.FullPlayouts)
		require.Zero(t, got.RolloutDepth, "No episodes should not divide by zero")
	})

	t.Run("tracks the deepest rollout", func(t *testing.T) {
		c := NewCollector()
		c.Start(2, 400)
		var wg sync.WaitGroup
		for _, depth := range []int{12, 400, 37, 5} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.AddEpisode(depth)
			}()
		}
		wg.Wait()

		got := c.Complete()
		require.Equal(t, 400, got.MaxRolloutDepth)
		require.InDelta(t, 113.5, got.RolloutDepth, 1e-9)
		require.Positive(t, got.EpisodesPerSecond())
	})

	t.Run("dummy collector records nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(2, 10)
		c.AddEpisode(1)
		require.Equal(t, SearchMetric{}, c.Complete())
	})
}

func records() ([]GameRecord, []MoveRecord) {
	games := []GameRecord{
		{ID: 1, Seats: []int{1, 2, 2, 2}, GameMetric: GameMetric{Winner: 0, TotalMoves: 100, Scores: []int{10, 4, 3, 5}}},
		{ID: 2, Seats: []int{2, 1, 2, 2}, GameMetric: GameMetric{Winner: 2, TotalMoves: 200, Scores: []int{2, 4, 10, 5}}},
		{ID: 3, Seats: []int{2, 2, 1, 2}, GameMetric: GameMetric{Winner: -1, TotalMoves: 300, Scores: []int{2, 4, 8, 5}}},
	}
	moves := []MoveRecord{
		{Game: 1, MoveMetric: MoveMetric{Step: 1, Action: "RollDice", SearchMetric: SearchMetric{Episodes: 10, FullPlayouts: 2, IsTreeReset: true}}},
		{Game: 1, MoveMetric: MoveMetric{Step: 5, Action: "EndTurn", SearchMetric: SearchMetric{Episodes: 30, FullPlayouts: 6}}},
	}
	return games, moves
}

func TestSummarize(t *testing.T) {
	games, moves := records()

	s := Summarize(games, moves)

	require.Equal(t, 3, s.Games)
	require.Equal(t, map[int]int{1: 1, 2: 1}, s.Wins, "Wins should be credited to the seat's agent")
	require.Equal(t, 1, s.Unfinished)
	require.InDelta(t, 200.0, s.MeanMoves, 1e-9)
	require.InDelta(t, 100.0, s.StdDevMoves, 1e-9)
	require.InDelta(t, 20.0, s.MeanEpisodes, 1e-9)
	require.InDelta(t, 0.2, s.FullPlayouts, 1e-9)
	require.InDelta(t, 0.5, s.TreeReuseRate, 1e-9)

	t.Run("single game has no spread", func(t *testing.T) {
		s := Summarize(games[:1], nil)
		require.Equal(t, 100.0, s.MeanMoves)
		require.Zero(t, s.StdDevMoves)
	})
}

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, "test")
	require.NoError(t, err)
	require.DirExists(t, w.Dir())

	configs := []AgentConfig{
		{ID: 1, Kind: MCTSAgent, Goroutines: 4, Duration: 10 * time.Millisecond},
		{ID: 2, Kind: RandomAgent},
	}
	games, moves := records()
	summary := Summarize(games, moves)

	require.NoError(t, w.WriteAgentConfigs(configs))
	require.NoError(t, w.WriteGameRecords(games))
	require.NoError(t, w.WriteMoveRecords(moves))
	require.NoError(t, w.WriteSummary(summary, configs))
	require.NoError(t, w.WriteWinChart("test", summary, configs))

	read := func(file string) [][]string {
		f, err := os.Open(filepath.Join(w.Dir(), file))
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		return rows
	}

	t.Run("agent configs", func(t *testing.T) {
		rows := read("agent_configs.csv")
		require.Len(t, rows, 3, "Should write a header and a row per config")
		require.Equal(t, []string{"1", "mcts", "4", "10ms", "0", "0", "0"}, rows[1])
	})

	t.Run("game records", func(t *testing.T) {
		rows := read("game_records.csv")
		require.Len(t, rows, 4)
		require.Equal(t, "1;2;2;2", rows[1][3])
		require.Equal(t, "-1", rows[3][5])
	})

	t.Run("move records", func(t *testing.T) {
		rows := read("move_records.csv")
		require.Len(t, rows, 3)
		require.Equal(t, "EndTurn", rows[2][3])
		require.Equal(t, "false", rows[2][10])
		require.Equal(t, "true", rows[1][10])
	})

	t.Run("summary and chart", func(t *testing.T) {
		rows := read("summary.csv")
		require.Equal(t, []string{"#1 mcts (4 goroutines, 10ms)", "1"}, rows[1])
		require.FileExists(t, filepath.Join(w.Dir(), "wins.html"))
	})
}

func TestAgentConfigString(t *testing.T) {
	require.Equal(t, "#3 mcts (8 goroutines, 200 episodes)", AgentConfig{ID: 3, Kind: MCTSAgent, Goroutines: 8, Episodes: 200}.String())
	require.Equal(t, "#4 greedy", AgentConfig{ID: 4, Kind: GreedyAgent}.String())
}
