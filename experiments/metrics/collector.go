// Package metrics collects search statistics and writes experiment results.
package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric describes one call to the searcher.
type SearchMetric struct {
	Goroutines int
	Duration   time.Duration
	Episodes   int
	Cutoff     int
	// FullPlayouts counts rollouts that reached a winner before the cutoff.
	FullPlayouts    int
	RolloutDepth    float64 // mean random actions per episode
	MaxRolloutDepth int
	IsTreeReset     bool
}

// EpisodesPerSecond is the search throughput.
func (m SearchMetric) EpisodesPerSecond() float64 {
	if m.Duration <= 0 {
		return 0
	}
	return float64(m.Episodes) / m.Duration.Seconds()
}

// MoveMetric is a SearchMetric attached to the move it produced.
type MoveMetric struct {
	Step   int
	Player int
	Action string
	SearchMetric
}

type GameMetric struct {
	ID             string
	Seed           uint64
	StartingPlayer int
	Winner         int // -1 when the game hit the move limit
	Scores         []int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector is shared by every search worker, so implementations must be
// safe for concurrent use.
type Collector interface {
	Start(goroutines, cutoff int)
	SetTreeReset(value bool)
	AddFullPlayout()
	AddEpisode(depth int)
	Complete() SearchMetric
}

type counters struct {
	episodes     atomic.Int64
	fullPlayouts atomic.Int64
	depth        atomic.Int64
	maxDepth     atomic.Int64
}

func (c *counters) reset() {
	c.episodes.Store(0)
	c.fullPlayouts.Store(0)
	c.depth.Store(0)
	c.maxDepth.Store(0)
}

func (c *counters) raiseMax(depth int64) {
	for {
		current := c.maxDepth.Load()
		if depth <= current || c.maxDepth.CompareAndSwap(current, depth) {
			return
		}
	}
}

type collector struct {
	goroutines  int
	cutoff      int
	startTime   time.Time
	isTreeReset atomic.Bool
	counters
}

func NewCollector() Collector {
	return &collector{}
}

// Start begins a new search and clears the counters of the previous one.
// The tree reset flag is left alone: it is set while the root is found.
func (c *collector) Start(goroutines, cutoff int) {
	c.startTime = time.Now()
	c.goroutines = goroutines
	c.cutoff = cutoff
	c.reset()
}

func (c *collector) SetTreeReset(value bool) {
	c.isTreeReset.Store(value)
}

func (c *collector) AddFullPlayout() {
	c.fullPlayouts.Add(1)
}

func (c *collector) AddEpisode(depth int) {
	c.episodes.Add(1)
	c.depth.Add(int64(depth))
	c.raiseMax(int64(depth))
}

func (c *collector) Complete() SearchMetric {
	metric := SearchMetric{
		Goroutines:      c.goroutines,
		Duration:        time.Since(c.startTime),
		Episodes:        int(c.episodes.Load()),
		Cutoff:          c.cutoff,
		FullPlayouts:    int(c.fullPlayouts.Load()),
		MaxRolloutDepth: int(c.maxDepth.Load()),
		IsTreeReset:     c.isTreeReset.Load(),
	}
	if metric.Episodes > 0 {
		metric.RolloutDepth = float64(c.depth.Load()) / float64(metric.Episodes)
	}
	return metric
}

type dummyCollector struct{}

// NewDummyCollector discards everything, for searches nobody measures.
func NewDummyCollector() Collector {
	return dummyCollector{}
}

func (dummyCollector) Start(int, int)         {}
func (dummyCollector) SetTreeReset(bool)      {}
func (dummyCollector) AddFullPlayout()        {}
func (dummyCollector) AddEpisode(int)         {}
func (dummyCollector) Complete() SearchMetric { return SearchMetric{} }
