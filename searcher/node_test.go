package searcher

import (
	"slices"

	"catan/game"
)

// mockState offers the same actions until horizon more actions have been
// played. With a zero horizon its actions lead to terminal states.
type mockState struct {
	player  int
	actions []game.Action
	played  []game.Action
	hash    game.StateHash
	winner  int
	horizon int
}

func newMockState(actions ...game.Action) mockState {
	return mockState{actions: actions, winner: -1}
}

func (m mockState) CurrentPlayer() int {
	return m.player
}

func (m mockState) LegalActions() []game.Action {
	return slices.Clone(m.actions)
}

func (m mockState) Outcomes(a game.Action) []game.Outcome {
	if !a.IsStochastic() {
		return []game.Outcome{{Action: a, Probability: 1}}
	}
	var outcomes []game.Outcome
	for sum := 2; sum <= 12; sum++ {
		o := a
		o.Roll = sum
		o.Resolved = true
		outcomes = append(outcomes, game.Outcome{Action: o, Probability: game.DiceProbability(sum)})
	}
	return outcomes
}

func (m mockState) Play(a game.Action) game.State {
	next := mockState{
		player:  (m.player + 1) % game.NumPlayers,
		played:  append(slices.Clone(m.played), a),
		hash:    m.hash*31 + game.StateHash(a.Owner+1),
		winner:  -1,
		horizon: m.horizon - 1,
	}
	if next.horizon > 0 {
		next.actions = m.actions
	}
	return next
}

func (m mockState) Hash() game.StateHash {
	return m.hash
}

func (m mockState) Winner() int {
	return m.winner
}

func (m mockState) Score(player int) int {
	return 0
}

func mockAction(id int) game.Action {
	return game.NewEndTurn(id)
}
