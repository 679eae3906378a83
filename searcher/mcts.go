package searcher

import (
	"sync"
	"time"

	"catan/experiments/metrics"
	"catan/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	reward     RewardFn
	seed       uint64
	searches   uint64
	root       *decision
	metrics    metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithGoroutines(goroutines int) Option {
	return func(m *MCTS) {
		if goroutines > 0 {
			m.goroutines = goroutines
		}
	}
}

func WithRewardFn(reward RewardFn) Option {
	return func(m *MCTS) {
		if reward != nil {
			m.reward = reward
		}
	}
}

// WithEvaluationFn scores rollouts cut off before the end of the game with
// evaluate instead of by points over depth.
func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.reward = EvaluationReward(evaluate)
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		goroutines: 1,
		cutoff:     DefaultCutoff,
		reward:     DefaultReward,
		seed:       1,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// Simulate searches from state and returns the visit counts of the root
// actions. played lists the actions executed since the previous search, in
// order; when they lead to an already expanded node with the same state, the
// search continues from that subtree.
func (m *MCTS) Simulate(state game.State, played []game.Action) ([]Choice, metrics.SearchMetric, error) {
	if state.Winner() >= 0 || len(state.LegalActions()) == 0 {
		return nil, metrics.SearchMetric{}, game.ErrNoLegalActions
	}
	m.findRoot(state, played)

	// Run simulations to collect statistics
	m.metrics.Start(m.goroutines, m.cutoff)
	if m.episodes > 0 {
		m.iterate(state)
	} else {
		m.countdown(state)
	}
	metric := m.metrics.Complete()
	m.searches++

	return m.root.policy(), metric, nil
}

// BestAction searches from a fresh tree and returns the most visited action.
func (m *MCTS) BestAction(state game.State) (game.Action, error) {
	m.root = nil
	choices, _, err := m.Simulate(state, nil)
	if err != nil {
		return game.Action{}, err
	}
	return MostVisited(choices).Action, nil
}

// MostVisited returns the choice with the most visits, the first on ties.
func MostVisited(choices []Choice) Choice {
	best := choices[0]
	for _, c := range choices[1:] {
		if c.Visits > best.Visits {
			best = c
		}
	}
	return best
}

func (m *MCTS) iterate(state game.State) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()

			for range task {
				m.simulate(state, rng)
			}
		}(m.workerRand(i))
	}
	wg.Wait()
}

func (m *MCTS) countdown(state game.State) {
	done := make(chan struct{})
	timer := time.After(m.duration)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(rng *rand.Rand) {
			defer wg.Done()

			for {
				select {
				case <-done:
					return
				default:
					m.simulate(state, rng)
				}
			}
		}(m.workerRand(i))
	}

	<-timer
	close(done)
	wg.Wait()
}

// workerRand gives each worker its own stream, distinct across searches.
func (m *MCTS) workerRand(worker int) *rand.Rand {
	return rand.New(rand.NewSource(m.seed + m.searches*uint64(m.goroutines+1) + uint64(worker)))
}

func (m *MCTS) findRoot(state game.State, played []game.Action) {
	root := traverse(m.root, played)
	switch {
	case root == nil:
		m.root = newDecision(nil, -1, state)
		m.metrics.SetTreeReset(true)
	case root.hash != state.Hash():
		log.Warn().Msgf("node's state hash %d does not match state hash %d", root.hash, state.Hash())
		m.root = newDecision(nil, -1, state)
		m.metrics.SetTreeReset(true)
	default:
		root.parent = nil
		root.player = -1
		m.root = root
		m.metrics.SetTreeReset(false)
	}
}

func traverse(root *decision, played []game.Action) *decision {
	if root == nil {
		return nil
	}

	node := root
	for _, action := range played {
		node = node.child(action)
		if node == nil { // Node has not expanded this action
			return nil
		}
	}
	return node
}

func (m *MCTS) simulate(state game.State, rng *rand.Rand) {
	newNode, newState := selectThenExpand(m.root, state)
	final, depth := rollout(newState, m.cutoff, rng, m.metrics)
	backup(newNode, m.reward(final, depth))
	m.metrics.AddEpisode(depth)
}

func rollout(state game.State, cutoff int, rng *rand.Rand, metrics metrics.Collector) (game.State, int) {
	depth := 0
	// Rollout till game over or for cutoff number of actions
	for state.Winner() < 0 && depth < cutoff {
		actions := state.LegalActions()
		if len(actions) == 0 {
			break
		}
		action := actions[rng.Intn(len(actions))] // Random rollout policy
		if action.IsStochastic() {
			action = sample(state.Outcomes(action), rng)
		}
		state = state.Play(action)
		depth++
	}

	if state.Winner() >= 0 {
		metrics.AddFullPlayout()
	}
	return state, depth
}
