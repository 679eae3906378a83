package searcher

import (
	"math"
	"sync"

	"catan/game"
)

type chance struct {
	sync.RWMutex
	parent   Node
	player   int
	outcomes []game.Outcome
	children []*decision // children[i] follows outcomes[i], nil until drawn
	visits   float64
	pending  float64 // virtual losses not yet backed up
}

func newChance(parent Node, player int, outcomes []game.Outcome) *chance {
	return &chance{
		parent:   parent,
		player:   player,
		outcomes: outcomes,
		children: make([]*decision, len(outcomes)),
	}
}

func (c *chance) SelectOrExpand(state game.State) (Node, game.State, bool) {
	c.Lock()
	defer c.Unlock()

	return c.expand(state)
}

// expand draws the outcome furthest behind its share of visits and plays it.
// It must be called with the lock held.
func (c *chance) expand(state game.State) (Node, game.State, bool) {
	ith := c.pickOutcome()
	next := state.Play(c.outcomes[ith].Action)
	child := c.children[ith]
	if child == nil {
		child = newDecision(c, c.player, next)
		child.applyLoss()
		c.children[ith] = child
		return child, next, false
	}
	child.applyLoss()
	return child, next, true
}

// pickOutcome stratifies visits across outcomes: the chosen outcome has the
// largest deficit between its expected and actual visit count.
func (c *chance) pickOutcome() int {
	counts := make([]float64, len(c.children))
	total := 0.0
	for i, child := range c.children {
		if child != nil {
			counts[i] = child.Visits()
			total += counts[i]
		}
	}

	maxIndex := -1
	maxDeficit := math.Inf(-1)
	for i, o := range c.outcomes {
		deficit := o.Probability*(total+1) - counts[i]
		if deficit > maxDeficit {
			maxDeficit = deficit
			maxIndex = i
		}
	}
	return maxIndex
}

func (c *chance) Backup(rewards []float64) Node {
	c.Lock()
	defer c.Unlock()

	c.reverseLoss()
	c.visits++
	return c.parent
}

func (c *chance) applyLoss() {
	c.Lock()
	defer c.Unlock()

	c.visits++
	c.pending++
}

func (c *chance) reverseLoss() {
	c.visits--
	c.pending--
}

func (c *chance) Visits() float64 {
	c.RLock()
	defer c.RUnlock()

	return c.visits
}

// value is the probability-weighted mean of the visited outcomes, scaled
// down by the virtual losses in flight.
func (c *chance) value() float64 {
	c.RLock()
	defer c.RUnlock()

	if c.visits == 0 {
		return 0
	}
	weighted, mass := 0.0, 0.0
	for i, child := range c.children {
		if child == nil {
			continue
		}
		rewards, visits := child.stats()
		if visits == 0 {
			continue
		}
		weighted += c.outcomes[i].Probability * rewards / visits
		mass += c.outcomes[i].Probability
	}
	if mass == 0 {
		return 0
	}
	return weighted / mass * (c.visits - c.pending) / c.visits
}

func (c *chance) outcome(played game.Action) *decision {
	c.RLock()
	defer c.RUnlock()

	for i, o := range c.outcomes {
		if o.Action == played {
			return c.children[i]
		}
	}
	return nil
}
