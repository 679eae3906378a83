// Package experiments plays series of games between agent configurations
// and records the results.
package experiments

import (
	"context"
	"fmt"
	"time"

	"catan/agent"
	"catan/engine"
	"catan/experiments/metrics"
	"catan/game"
	"catan/meta"
	"catan/searcher"
	"catan/store"

	"github.com/rs/zerolog/log"
)

const (
	NumGames   = 12 // Per match up
	TimeBudget = 100 * time.Millisecond
)

// Settings controls how an experiment is run and where it is recorded.
type Settings struct {
	Games    int
	Seed     uint64
	MaxMoves int
	OutDir   string       // CSV and chart root, skipped when empty
	Store    *store.Store // optional game archive
}

func DefaultSettings() Settings {
	return Settings{Games: NumGames, Seed: 1, MaxMoves: engine.MaxMoves, OutDir: "experiments"}
}

var (
	greedy   = metrics.AgentConfig{ID: 100, Kind: metrics.GreedyAgent}
	randomly = metrics.AgentConfig{ID: 101, Kind: metrics.RandomAgent}
)

// RunStrengthExperiment seats one MCTS agent against three greedy and then
// three random opponents.
func RunStrengthExperiment(ctx context.Context, settings Settings) (metrics.Summary, error) {
	mcts := metrics.AgentConfig{ID: 1, Kind: metrics.MCTSAgent, Goroutines: 4, Duration: TimeBudget}
	matchUps := [][]metrics.AgentConfig{
		{mcts, greedy, greedy, greedy},
		{mcts, randomly, randomly, randomly},
	}
	return runExperiment(ctx, "strength", []metrics.AgentConfig{mcts, greedy, randomly}, matchUps, settings)
}

// RunParallelizationExperiment pairs agents with more goroutines against the
// sequential baseline under the same time budget.
func RunParallelizationExperiment(ctx context.Context, settings Settings) (metrics.Summary, error) {
	baseline := metrics.AgentConfig{ID: 0, Kind: metrics.MCTSAgent, Goroutines: 1, Duration: TimeBudget}
	configs := []metrics.AgentConfig{
		{ID: 1, Kind: metrics.MCTSAgent, Goroutines: 2, Duration: TimeBudget},
		{ID: 2, Kind: metrics.MCTSAgent, Goroutines: 4, Duration: TimeBudget},
		{ID: 3, Kind: metrics.MCTSAgent, Goroutines: 8, Duration: TimeBudget},
	}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{config, baseline, baseline, baseline})
	}
	return runExperiment(ctx, "parallelization", append(configs, baseline), matchUps, settings)
}

// RunCutoffExperiment compares rollout cutoffs against full-depth rollouts.
func RunCutoffExperiment(ctx context.Context, settings Settings) (metrics.Summary, error) {
	baseline := metrics.AgentConfig{ID: 0, Kind: metrics.MCTSAgent, Goroutines: 4, Duration: TimeBudget, Cutoff: searcher.DefaultCutoff}
	configs := []metrics.AgentConfig{
		{ID: 1, Kind: metrics.MCTSAgent, Goroutines: 4, Duration: TimeBudget, Cutoff: 25},
		{ID: 2, Kind: metrics.MCTSAgent, Goroutines: 4, Duration: TimeBudget, Cutoff: 100},
		{ID: 3, Kind: metrics.MCTSAgent, Goroutines: 4, Duration: TimeBudget, Cutoff: 200},
	}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{config, baseline, baseline, baseline})
	}
	return runExperiment(ctx, "cutoff", append(configs, baseline), matchUps, settings)
}

func runExperiment(ctx context.Context, name string, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig, settings Settings) (metrics.Summary, error) {
	// Run a number of games for each matchup
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchUp := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between %v...", mi+1, len(matchUps), matchUp)

		for i := 0; i < settings.Games; i++ {
			// Rotate seats so every agent gets to start.
			seats := rotate(matchUp, i)
			seed := settings.Seed + uint64(count)

			log.Info().Msgf("starting matchup %d of %d game %d of %d...", mi+1, len(matchUps), i+1, settings.Games)

			e := engine.New(seed, newDMMs(seats, seed), engine.WithMaxMoves(settings.MaxMoves))
			winner, gameMetric, moveMetrics, err := e.Run(ctx)
			if err != nil {
				return metrics.Summary{}, fmt.Errorf("failed to run game %d: %w", count+1, err)
			}
			if settings.Store != nil {
				if err := settings.Store.SaveGame(ctx, archived(gameMetric), e.State.Log); err != nil {
					return metrics.Summary{}, fmt.Errorf("failed to store game %d: %w", count+1, err)
				}
			}

			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Seats:      ids(seats),
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %d", mi+1, len(matchUps), i+1, winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	summary := metrics.Summarize(gameRecords, moveRecords)
	if settings.OutDir == "" {
		return summary, nil
	}
	return summary, write(name, settings.OutDir, configs, gameRecords, moveRecords, summary)
}

func write(name, root string, configs []metrics.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord, summary metrics.Summary) error {
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(games); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moves); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	if err := writer.WriteSummary(summary, configs); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if err := writer.WriteWinChart(name, summary, configs); err != nil {
		return fmt.Errorf("failed to write win chart: %w", err)
	}
	log.Info().Msgf("stored %s experiment in %s", name, writer.Dir())
	return nil
}

// NewDMM builds the agent a config describes.
func NewDMM(config metrics.AgentConfig, seed uint64) game.DMM {
	switch config.Kind {
	case metrics.RandomAgent:
		return agent.NewRandom(seed)
	case metrics.GreedyAgent:
		return agent.NewGreedy()
	case metrics.TrainingAgent:
		temperature := config.Temperature
		if temperature <= 0 {
			temperature = 1
		}
		return agent.NewTrainingAgent(createMCTS(config, seed), seed, temperature)
	case metrics.MCTSAgent:
		return agent.NewEvaluationAgent(createMCTS(config, seed), seed)
	}
	panic(fmt.Sprintf("unknown agent kind %q", config.Kind))
}

func newDMMs(seats []metrics.AgentConfig, seed uint64) []game.DMM {
	dmms := make([]game.DMM, len(seats))
	for i, config := range seats {
		dmms[i] = NewDMM(config, seed*game.NumPlayers+uint64(i))
	}
	return dmms
}

func createMCTS(config metrics.AgentConfig, seed uint64) *searcher.MCTS {
	options := []searcher.Option{searcher.WithSeed(seed)}

	if config.Goroutines > 0 {
		options = append(options, searcher.WithGoroutines(config.Goroutines))
	}
	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	} else if config.Episodes <= 0 {
		options = append(options, searcher.WithDuration(meta.DURATION))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(options...)
}

func rotate(seats []metrics.AgentConfig, by int) []metrics.AgentConfig {
	n := len(seats)
	rotated := make([]metrics.AgentConfig, n)
	for i := range seats {
		rotated[i] = seats[(i+by)%n]
	}
	return rotated
}

func ids(seats []metrics.AgentConfig) []int {
	ids := make([]int, len(seats))
	for i, config := range seats {
		ids[i] = config.ID
	}
	return ids
}

func archived(m metrics.GameMetric) *store.Game {
	return &store.Game{
		ID:        m.ID,
		Seed:      m.Seed,
		Winner:    m.Winner,
		Moves:     m.TotalMoves,
		StartedAt: m.StartTime,
		EndedAt:   m.EndTime,
	}
}
