// Package agent holds the decision-making modules that play a seat.
package agent

import (
	"catan/experiments/metrics"
	"catan/game"
)

// Searcher is a DMM that reports how its last decision was found.
type Searcher interface {
	game.DMM
	LastMetric() metrics.SearchMetric
}
