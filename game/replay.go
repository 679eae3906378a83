package game

import "fmt"

// Replay rebuilds a game from its seed and log. Synthetic records are
// skipped since executing their cause recreates them; the replayed log
// therefore matches the original entry for entry.
func Replay(seed uint64, rules *Rules, log []Record) (*GameState, error) {
	gs := NewGameState(WithSeed(seed), WithRules(rules))
	for i, rec := range log {
		if rec.Synthetic {
			continue
		}
		if err := gs.Execute(rec.Action); err != nil {
			return nil, fmt.Errorf("cannot replay record %d (%v): %w", i, rec.Action, err)
		}
	}
	return gs, nil
}
