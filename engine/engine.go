// Package engine runs games between decision-making modules.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catan/experiments/metrics"
	"catan/game"
	"catan/meta"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const MaxMoves = meta.MAX_MOVES

// Observer is told about every executed action. records holds the action
// followed by any synthetic records it caused. Observers must not mutate
// the state.
type Observer interface {
	Observe(state *game.GameState, records []game.Record)
}

type ObserverFunc func(state *game.GameState, records []game.Record)

func (f ObserverFunc) Observe(state *game.GameState, records []game.Record) {
	f(state, records)
}

// metered is implemented by agents that search for their actions.
type metered interface {
	LastMetric() metrics.SearchMetric
}

type Engine struct {
	ID        string
	State     *game.GameState
	seed      uint64
	maxMoves  int
	observers []Observer
}

type Option func(e *Engine)

func WithMaxMoves(moves int) Option {
	return func(e *Engine) {
		if moves > 0 {
			e.maxMoves = moves
		}
	}
}

func WithObservers(observers ...Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, observers...)
	}
}

func WithRules(rules *game.Rules) Option {
	return func(e *Engine) {
		e.State = game.NewGameState(game.WithSeed(e.seed), game.WithRules(rules), game.WithDMMs(dmmsOf(e.State)...))
	}
}

// New sets up a game with one DMM per seat.
func New(seed uint64, dmms []game.DMM, options ...Option) *Engine {
	if len(dmms) != game.NumPlayers {
		panic(fmt.Sprintf("need %d players, got %d", game.NumPlayers, len(dmms)))
	}
	e := &Engine{
		ID:       uuid.NewString(),
		State:    game.NewGameState(game.WithSeed(seed), game.WithDMMs(dmms...)),
		seed:     seed,
		maxMoves: MaxMoves,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func dmmsOf(gs *game.GameState) []game.DMM {
	dmms := make([]game.DMM, len(gs.Players))
	for i, p := range gs.Players {
		dmms[i] = p.DMM
	}
	return dmms
}

// Run plays the game until there is a winner, the move limit is reached or
// ctx is done. The winner is -1 when nobody won.
func (e *Engine) Run(ctx context.Context) (int, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		ID:             e.ID,
		Seed:           e.seed,
		StartingPlayer: e.State.CurrentPlayer(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("game %s: player %d is starting", e.ID, gameMetric.StartingPlayer)

	var err error
	for e.State.Winner() < 0 && e.State.Moves < e.maxMoves {
		if err = ctx.Err(); err != nil {
			break
		}

		player := e.State.CurrentPlayer()
		start := len(e.State.Log)
		if err = e.State.Update(); err != nil {
			err = fmt.Errorf("failed to play move %d: %w", e.State.Moves, err)
			break
		}
		records := e.State.Log[start:]

		if m, ok := e.State.Players[player].DMM.(metered); ok {
			moveMetrics = append(moveMetrics, metrics.MoveMetric{
				Step:         e.State.Moves,
				Player:       player,
				Action:       records[0].Action.String(),
				SearchMetric: m.LastMetric(),
			})
		}
		log.Debug().Msgf("game %s: move %d: %s", e.ID, e.State.Moves, records[0].Action.Description())

		for _, o := range e.observers {
			o.Observe(e.State, records)
		}
	}

	winner := e.State.Winner()
	gameMetric.Winner = winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = e.State.Moves
	for p := range e.State.Players {
		gameMetric.Scores = append(gameMetric.Scores, e.State.Score(p))
	}

	switch {
	case err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded):
		log.Error().Err(err).Msgf("game %s: aborted", e.ID)
	case winner >= 0:
		log.Info().Msgf("game %s: player %d won after %d moves", e.ID, winner, e.State.Moves)
	default:
		log.Info().Msgf("game %s: stopped after %d moves without a winner", e.ID, e.State.Moves)
	}
	return winner, gameMetric, moveMetrics, err
}
