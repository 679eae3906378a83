package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"catan/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// playRandom plays n random legal actions from a fresh game.
func playRandom(seed uint64, n int) *game.GameState {
	gs := game.NewGameState(game.WithSeed(seed))
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n && gs.Winner() < 0; i++ {
		legal := gs.LegalActions()
		if err := gs.Execute(legal[rng.Intn(len(legal))]); err != nil {
			panic(err)
		}
	}
	return gs
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	gs := playRandom(1<<63+7, 400)
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g := &Game{Seed: 1<<63 + 7, Winner: gs.Winner(), Moves: gs.Moves, StartedAt: start, EndedAt: start.Add(time.Minute)}

	require.NoError(t, s.SaveGame(ctx, g, gs.Log))
	require.NotEmpty(t, g.ID, "Saving should assign an id")

	t.Run("game row", func(t *testing.T) {
		got, err := s.LoadGame(ctx, g.ID)

		require.NoError(t, err)
		require.Equal(t, g.Seed, got.Seed, "Seeds with the high bit set should survive")
		require.Equal(t, g.Moves, got.Moves)
		require.Equal(t, g.Winner, got.Winner)
		require.True(t, start.Equal(got.StartedAt))
		require.True(t, g.EndedAt.Equal(got.EndedAt))
	})

	t.Run("action log", func(t *testing.T) {
		got, err := s.LoadActions(ctx, g.ID)

		require.NoError(t, err)
		require.Equal(t, gs.Log, got)
	})

	t.Run("replay reaches the same state", func(t *testing.T) {
		replayed, err := s.Replay(ctx, g.ID)

		require.NoError(t, err)
		require.Equal(t, gs.Hash(), replayed.Hash())
	})

	t.Run("unknown game", func(t *testing.T) {
		_, err := s.LoadGame(ctx, "missing")
		require.ErrorIs(t, err, ErrNotFound)

		_, err = s.Replay(ctx, "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		require.Error(t, s.SaveGame(ctx, &Game{ID: g.ID}, nil))
	})
}

func TestRecentGames(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := range 3 {
		g := &Game{Seed: uint64(i), Winner: -1, StartedAt: base, EndedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, s.SaveGame(ctx, g, nil))
		ids = append(ids, g.ID)
	}

	got, err := s.RecentGames(ctx, 2)

	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, ids[2], got[0].ID, "Newest game should come first")
	require.Equal(t, ids[1], got[1].ID)
}
