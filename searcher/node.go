package searcher

import (
	"catan/game"

	"golang.org/x/exp/rand"
)

// shuffled returns the legal actions of state in an order derived from its
// hash, so that expansion does not favour the front of the legal list
// (bank trades) and the same position always expands in the same order.
func shuffled(state game.State) []game.Action {
	actions := state.LegalActions()
	rng := rand.New(rand.NewSource(uint64(state.Hash())))
	rng.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
	})
	return actions
}

// sample draws one outcome in proportion to its probability.
func sample(outcomes []game.Outcome, rng *rand.Rand) game.Action {
	x := rng.Float64()
	for _, o := range outcomes {
		x -= o.Probability
		if x < 0 {
			return o.Action
		}
	}
	return outcomes[len(outcomes)-1].Action
}

func backup(newNode Node, rewards []float64) {
	node := newNode
	for node != nil {
		node = node.Backup(rewards)
	}
}

func selectThenExpand(root Node, state game.State) (Node, game.State) {
	parent := root
	child, state, selected := parent.SelectOrExpand(state)
	for selected && (child != parent) {
		parent = child
		child, state, selected = parent.SelectOrExpand(state)
	}
	return child, state
}
