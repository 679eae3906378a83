package searcher

import (
	"catan/game"
	"catan/meta"
)

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

// WinReward is paid to the winner of a finished rollout. Node values are
// divided by it before the exploration term is added.
const WinReward = 100.0

// Loss is the reward recorded by a virtual loss.
const Loss = 0.0

// DefaultCutoff caps the number of random actions in one rollout.
const DefaultCutoff = meta.WITH_CUTOFF

// Node is a vertex of the search tree. Decision nodes choose between legal
// actions, chance nodes between the outcomes of a stochastic action.
type Node interface {
	// SelectOrExpand descends one level from the node. selected is false
	// when the returned child was just created or the node is terminal.
	SelectOrExpand(state game.State) (child Node, childState game.State, selected bool)
	// Backup records the rollout rewards on the node and returns its parent.
	Backup(rewards []float64) Node
	Visits() float64
	applyLoss()
	// value is the mean reward of the player who moved into the node.
	value() float64
}

// Choice is one root action with the number of episodes that went through it.
type Choice struct {
	Action game.Action
	Visits float64
}
