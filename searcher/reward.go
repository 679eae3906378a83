package searcher

import "catan/game"

// RewardFn turns the final state of a rollout into one reward per player.
// depth is the number of actions the rollout played.
type RewardFn func(s game.State, depth int) []float64

// DefaultReward pays WinReward to the winner and gives every player their
// victory points divided by the rollout depth, so that points reached sooner
// are worth more.
func DefaultReward(s game.State, depth int) []float64 {
	rewards := make([]float64, game.NumPlayers)
	for p := range rewards {
		rewards[p] = float64(s.Score(p)) / float64(max(depth, 1))
	}
	if w := s.Winner(); w >= 0 {
		rewards[w] += WinReward
	}
	return rewards
}

// EvaluationReward scores unfinished rollouts with evaluate, scaled to the
// win reward, and finished ones like DefaultReward.
func EvaluationReward(evaluate game.Evaluate) RewardFn {
	return func(s game.State, depth int) []float64 {
		if s.Winner() >= 0 {
			return DefaultReward(s, depth)
		}
		rewards := make([]float64, game.NumPlayers)
		for p := range rewards {
			rewards[p] = WinReward * evaluate(s, p)
		}
		return rewards
	}
}
