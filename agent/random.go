package agent

import (
	"catan/game"

	"golang.org/x/exp/rand"
)

type random struct {
	rng *rand.Rand
}

// NewRandom returns a DMM that picks uniformly among the legal actions.
func NewRandom(seed uint64) game.DMM {
	return &random{rng: rand.New(rand.NewSource(seed))}
}

func (r *random) GetNextAction(_ *game.GameState, legal []game.Action) int {
	return r.rng.Intn(len(legal))
}
