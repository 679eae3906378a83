package searcher

import (
	"math"
	"sync"

	"catan/game"
)

type decision struct {
	sync.RWMutex
	parent   Node
	player   int // player whose action led here, -1 at the root
	toMove   int
	hash     game.StateHash
	actions  []game.Action
	children []Node // children[i] follows actions[i]
	rewards  float64
	visits   float64
}

func newDecision(parent Node, player int, state game.State) *decision {
	var actions []game.Action
	if state.Winner() < 0 {
		actions = shuffled(state)
	}
	return &decision{
		parent:   parent,
		player:   player,
		toMove:   state.CurrentPlayer(),
		hash:     state.Hash(),
		actions:  actions,
		children: make([]Node, 0, len(actions)),
	}
}

func (d *decision) SelectOrExpand(state game.State) (Node, game.State, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.actions) == 0 { // Terminal node
		return d, state, false
	}

	if len(d.actions) > len(d.children) { // Expandable node
		child, state := d.addChild(state)
		return child, state, false
	}

	// Fully expanded node
	ith := d.pickChild()
	child := d.children[ith]
	child.applyLoss()
	if _, ok := child.(*chance); ok {
		// The chance node plays the outcome.
		return child, state, true
	}
	return child, state.Play(d.actions[ith]), true
}

// addChild expands the next untried action. A stochastic action gets a
// chance node with one outcome expanded below it, and that outcome is
// returned as the new leaf.
func (d *decision) addChild(state game.State) (Node, game.State) {
	action := d.actions[len(d.children)]
	if !action.IsStochastic() {
		next := state.Play(action)
		child := newDecision(d, d.toMove, next)
		child.applyLoss()
		d.children = append(d.children, child)
		return child, next
	}

	c := newChance(d, d.toMove, state.Outcomes(action))
	c.applyLoss()
	d.children = append(d.children, c)
	c.Lock()
	defer c.Unlock()
	child, next, _ := c.expand(state)
	return child, next
}

func (d *decision) pickChild() int {
	N := 0.0
	for _, child := range d.children {
		N += child.Visits()
	}
	policy := newUCT(CSquared, N)

	maxIndex := -1
	maxScore := math.Inf(-1)
	for i, child := range d.children {
		score := policy.evaluate(child.value(), child.Visits())
		if score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}

func (d *decision) Backup(rewards []float64) Node {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil {
		d.reverseLoss()
	}
	if d.player >= 0 {
		d.rewards += rewards[d.player]
	}
	d.visits++
	return d.parent
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += Loss
	d.visits++
}

// reverseLoss must be called with the lock held.
func (d *decision) reverseLoss() {
	d.rewards -= Loss
	d.visits--
}

func (d *decision) Visits() float64 {
	d.RLock()
	defer d.RUnlock()

	return d.visits
}

func (d *decision) value() float64 {
	d.RLock()
	defer d.RUnlock()

	if d.visits == 0 {
		return 0
	}
	return d.rewards / d.visits
}

// stats returns the reward sum and visits under a single lock.
func (d *decision) stats() (float64, float64) {
	d.RLock()
	defer d.RUnlock()

	return d.rewards, d.visits
}

// policy lists the root actions in expansion order with their visits.
func (d *decision) policy() []Choice {
	d.RLock()
	defer d.RUnlock()

	choices := make([]Choice, len(d.children))
	for i, child := range d.children {
		choices[i] = Choice{Action: d.actions[i], Visits: child.Visits()}
	}
	return choices
}

// child returns the node reached by a played action, or nil if the action
// was never expanded here.
func (d *decision) child(played game.Action) *decision {
	d.RLock()
	defer d.RUnlock()

	unresolved := played.Unresolved()
	for i, child := range d.children {
		if d.actions[i] != unresolved {
			continue
		}
		switch child := child.(type) {
		case *decision:
			return child
		case *chance:
			return child.outcome(played)
		default:
			panic("unexpected node type")
		}
	}
	return nil
}
