package agent

import (
	"math"

	"catan/experiments/metrics"
	"catan/game"
	"catan/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

type Mode int

const (
	// Evaluation plays the most visited action.
	Evaluation Mode = iota
	// Training samples actions in proportion to visits^(1/temperature).
	Training
)

type mctsAgent struct {
	mcts        *searcher.MCTS
	mode        Mode
	temperature float64
	rng         *rand.Rand
	worldSeed   uint64 // redeals hidden cards the same way on every decision
	seen        int    // length of the game log at the previous search
	metric      metrics.SearchMetric
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent(mcts *searcher.MCTS, seed uint64) Searcher {
	return &mctsAgent{mcts: mcts, mode: Evaluation, rng: rand.New(rand.NewSource(seed)), worldSeed: seed}
}

// NewTrainingAgent returns a new agent for self-play during training.
func NewTrainingAgent(mcts *searcher.MCTS, seed uint64, temperature float64) Searcher {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return &mctsAgent{
		mcts:        mcts,
		mode:        Training,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
		worldSeed:   seed,
	}
}

func (a *mctsAgent) GetNextAction(state *game.GameState, legal []game.Action) int {
	played := a.played(state)
	// Search a world where the opponents' hidden cards are guessed. While
	// the unseen cards stay the same the guess does too, so the subtree
	// kept from the previous search still matches.
	world := state.Determinize(state.CurrentPlayer(), a.worldSeed)

	choices, metric, err := a.mcts.Simulate(world, played)
	if err != nil {
		log.Error().Err(err).Msg("search failed, playing the first legal action")
		return 0
	}
	a.metric = metric

	var action game.Action
	if a.mode == Training {
		action = sample(adjustTemperature(choices, a.temperature), a.rng)
	} else {
		action = searcher.MostVisited(choices).Action
	}

	i := slices.Index(legal, action)
	if i < 0 {
		log.Warn().Msgf("searched action %v is not legal, playing the first legal action", action)
		return 0
	}
	return i
}

func (a *mctsAgent) LastMetric() metrics.SearchMetric {
	return a.metric
}

// played returns the actions executed since the previous search, leaving out
// the synthetic records that follow from them.
func (a *mctsAgent) played(state *game.GameState) []game.Action {
	if a.seen > len(state.Log) { // A new game
		a.seen = 0
	}
	var played []game.Action
	for _, record := range state.Log[a.seen:] {
		if !record.Synthetic {
			played = append(played, record.Action)
		}
	}
	a.seen = len(state.Log)
	return played
}

func adjustTemperature(choices []searcher.Choice, temperature float64) []searcher.Choice {
	// Compute temperature-adjusted action probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]searcher.Choice, len(choices))
	for i, c := range choices {
		prob := math.Pow(c.Visits, exponent)
		sum += prob
		adjusted[i] = searcher.Choice{Action: c.Action, Visits: prob}
	}
	// Normalize
	for i := range adjusted {
		adjusted[i].Visits /= sum
	}
	return adjusted
}

func sample(policy []searcher.Choice, rng *rand.Rand) game.Action {
	sampled := rng.Float64()
	cumulative := 0.0
	for _, c := range policy {
		cumulative += c.Visits
		if sampled < cumulative {
			return c.Action
		}
	}
	return policy[len(policy)-1].Action // Fallback in case of rounding errors
}
