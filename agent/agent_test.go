package agent

import (
	"testing"

	"catan/game"
	"catan/resources"
	"catan/searcher"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// pastSetup plays the first legal action until the pregame is over.
func pastSetup(t *testing.T, seed uint64) *game.GameState {
	t.Helper()
	gs := game.NewGameState(game.WithSeed(seed))
	for gs.Phase.IsSetup() {
		require.NoError(t, gs.Execute(gs.LegalActions()[0]))
	}
	return gs
}

// aboutToWin gives player 0 a city's worth of cards one point short of
// victory in the main phase.
func aboutToWin(t *testing.T, seed uint64) *game.GameState {
	t.Helper()
	gs := pastSetup(t, seed)
	gs.Phase = game.TurnMainPhase
	gs.Players[0].Hand = resources.Of(resources.Ore, 3).Add(resources.Of(resources.Grain, 2))
	gs.Players[0].VictoryPoints = gs.Rules.VictoryPoints - 1
	return gs
}

func TestRandom(t *testing.T) {
	gs := pastSetup(t, 1)
	legal := make([]game.Action, 5)
	a, b := NewRandom(7), NewRandom(7)

	for range 20 {
		i := a.GetNextAction(gs, legal)
		require.GreaterOrEqual(t, i, 0)
		require.Less(t, i, len(legal))
		require.Equal(t, i, b.GetNextAction(gs, legal), "Same seed should give the same choices")
	}
}

func TestGreedy(t *testing.T) {
	t.Run("prefers the most valuable build", func(t *testing.T) {
		gs := aboutToWin(t, 2)
		legal := gs.LegalActions()

		i := NewGreedy().GetNextAction(gs, legal)

		require.Equal(t, game.BuildCityAction, legal[i].Type)
	})

	t.Run("ends the turn rather than trade for nothing", func(t *testing.T) {
		gs := pastSetup(t, 3)
		gs.Phase = game.TurnMainPhase
		gs.Players[0].Hand = resources.Of(resources.Wool, 4)
		legal := gs.LegalActions()

		i := NewGreedy().GetNextAction(gs, legal)

		require.Equal(t, game.EndTurnAction, legal[i].Type, "No single card turns wool into a piece")
	})

	t.Run("trades toward a missing piece", func(t *testing.T) {
		gs := pastSetup(t, 4)
		gs.Phase = game.TurnMainPhase
		gs.Players[0].Hand = resources.Of(resources.Brick, 4).Add(resources.Of(resources.Ore, 3)).Add(resources.Of(resources.Grain, 1))
		legal := gs.LegalActions()

		i := NewGreedy().GetNextAction(gs, legal)

		require.Equal(t, game.TradeAction, legal[i].Type)
		require.Equal(t, resources.Of(resources.Grain, 1), legal[i].Receiving, "Grain completes a city")
	})

	t.Run("keeps the robber off its own tiles", func(t *testing.T) {
		gs := pastSetup(t, 5)
		s := newScorer(gs.PublicView(0))
		var own, other game.Action
		for _, tv := range s.view.Tiles {
			a := game.NewRobber(0, tv.Pos, -1, tv.Pos.Vertices()[0])
			if s.touches(tv.Pos, 0) {
				own = a
			} else {
				other = a
			}
		}

		require.Greater(t, s.score(other), s.score(own))
	})

	t.Run("plays whole games", func(t *testing.T) {
		g := NewGreedy()
		gs := game.NewGameState(game.WithSeed(6), game.WithDMMs(g, g, g, g))
		for range 3000 {
			if gs.Winner() >= 0 {
				break
			}
			require.NoError(t, gs.Update())
		}
	})
}

func TestMCTSAgent(t *testing.T) {
	t.Run("evaluation plays the winning build", func(t *testing.T) {
		gs := aboutToWin(t, 8)
		legal := gs.LegalActions()
		a := NewEvaluationAgent(searcher.NewMCTS(searcher.WithEpisodes(300), searcher.WithCutoff(100), searcher.WithMetrics()), 1)

		i := a.GetNextAction(gs, legal)

		require.Equal(t, game.BuildCityAction, legal[i].Type)
		require.Equal(t, 300, a.LastMetric().Episodes, "Agent should expose its search metric")
	})

	t.Run("training samples a legal action", func(t *testing.T) {
		gs := pastSetup(t, 9)
		legal := gs.LegalActions()
		a := NewTrainingAgent(searcher.NewMCTS(searcher.WithEpisodes(30)), 2, 1.0)

		i := a.GetNextAction(gs, legal)

		require.GreaterOrEqual(t, i, 0)
		require.Less(t, i, len(legal))
	})

	t.Run("search leaves the live game untouched", func(t *testing.T) {
		gs := pastSetup(t, 11)
		hash, logLen := gs.Hash(), len(gs.Log)
		twin := gs.Clone()
		a := NewEvaluationAgent(searcher.NewMCTS(searcher.WithEpisodes(200), searcher.WithGoroutines(4), searcher.WithCutoff(50)), 3)

		a.GetNextAction(gs, gs.LegalActions())

		require.Equal(t, hash, gs.Hash(), "Searching should not change the position")
		require.Len(t, gs.Log, logLen, "Searching should not append to the log")
		require.NoError(t, gs.Execute(game.NewRollDice(0)))
		require.NoError(t, twin.Execute(game.NewRollDice(0)))
		require.Equal(t, twin.LastRoll, gs.LastRoll, "Searching should not draw from the game's dice")
		require.Equal(t, twin.Hash(), gs.Hash())
	})

	t.Run("keeps its tree while opponents hold hidden cards", func(t *testing.T) {
		gs := pastSetup(t, 12)
		gs.Players[1].DevCards[game.Knight] = 1
		gs.Players[2].NewDevCards[game.VictoryPoint] = 1
		gs.DevDeck[game.Knight]--
		gs.DevDeck[game.VictoryPoint]--
		a := NewEvaluationAgent(searcher.NewMCTS(searcher.WithEpisodes(200), searcher.WithCutoff(30), searcher.WithMetrics()), 4)

		legal := gs.LegalActions()
		require.NoError(t, gs.Execute(legal[a.GetNextAction(gs, legal)]))
		require.True(t, a.LastMetric().IsTreeReset, "The first search builds a new tree")
		require.Equal(t, 0, gs.CurrentPlayer(), "Player 0 acts again after rolling")

		a.GetNextAction(gs, gs.LegalActions())

		require.False(t, a.LastMetric().IsTreeReset, "The same unseen cards should be redealt the same way")
	})

	t.Run("panics on a non-positive temperature", func(t *testing.T) {
		require.Panics(t, func() { NewTrainingAgent(searcher.NewMCTS(searcher.WithEpisodes(1)), 1, 0) })
	})
}

func TestPlayed(t *testing.T) {
	roll := game.NewRollDice(0)
	roll.Roll, roll.Resolved = 8, true
	gs := game.NewGameState(game.WithSeed(10))
	gs.Log = []game.Record{
		{Action: roll},
		{Action: game.NewTrade(-1, 0, resources.Collection{}, resources.Of(resources.Ore, 1)), Synthetic: true},
		{Action: game.NewEndTurn(0)},
	}
	a := &mctsAgent{}

	require.Equal(t, []game.Action{roll, game.NewEndTurn(0)}, a.played(gs), "Synthetic records should be skipped")
	require.Empty(t, a.played(gs), "Nothing new was played")

	gs.Log = gs.Log[:1]
	require.Equal(t, []game.Action{roll}, a.played(gs), "A shorter log starts a new game")
}

func TestAdjustTemperature(t *testing.T) {
	choices := []searcher.Choice{{Action: game.NewEndTurn(0), Visits: 1}, {Action: game.NewEndTurn(1), Visits: 3}}

	t.Run("unit temperature keeps visit proportions", func(t *testing.T) {
		adjusted := adjustTemperature(choices, 1.0)
		require.InDelta(t, 0.25, adjusted[0].Visits, 1e-9)
		require.InDelta(t, 0.75, adjusted[1].Visits, 1e-9)
	})

	t.Run("low temperature sharpens the policy", func(t *testing.T) {
		adjusted := adjustTemperature(choices, 0.5)
		require.InDelta(t, 0.1, adjusted[0].Visits, 1e-9)
		require.InDelta(t, 0.9, adjusted[1].Visits, 1e-9)
	})

	t.Run("sampling follows the policy", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		policy := adjustTemperature(choices, 1.0)
		counts := map[game.Action]int{}
		for range 4000 {
			counts[sample(policy, rng)]++
		}
		require.InDelta(t, 3000, counts[game.NewEndTurn(1)], 150)
	})
}
