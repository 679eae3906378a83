package metrics

import (
	"fmt"
	"time"
)

type AgentKind string

const (
	MCTSAgent     AgentKind = "mcts"
	TrainingAgent AgentKind = "training"
	GreedyAgent   AgentKind = "greedy"
	RandomAgent   AgentKind = "random"
)

// AgentConfig describes how to build the agent for a seat. Search fields are
// ignored by agents that do not search.
type AgentConfig struct {
	ID          int
	Kind        AgentKind
	Goroutines  int
	Duration    time.Duration
	Episodes    int
	Cutoff      int
	Temperature float64
}

func (c AgentConfig) String() string {
	switch c.Kind {
	case MCTSAgent, TrainingAgent:
		budget := c.Duration.String()
		if c.Episodes > 0 {
			budget = fmt.Sprintf("%d episodes", c.Episodes)
		}
		return fmt.Sprintf("#%d %s (%d goroutines, %s)", c.ID, c.Kind, c.Goroutines, budget)
	}
	return fmt.Sprintf("#%d %s", c.ID, c.Kind)
}
