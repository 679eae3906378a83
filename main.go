package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"catan/engine"
	"catan/experiments"
	"catan/experiments/metrics"
	"catan/game"
	"catan/meta"
	"catan/render"
	"catan/server"
	"catan/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: catan <command> [flags]

commands:
  play        play one game in the terminal
  serve       play one game and stream it to websocket spectators
  experiment  run a strength, parallel or cutoff experiment
  replay      print a stored game, or list recent games without -id
`

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "play":
		err = runPlay(ctx, os.Args[2:])
	case "serve":
		err = runServe(ctx, os.Args[2:])
	case "experiment":
		err = runExperiment(ctx, os.Args[2:])
	case "replay":
		err = runReplay(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("catan failed")
	}
}

// gameFlags are shared by the commands that play a game.
type gameFlags struct {
	seed       uint64
	seats      string
	goroutines int
	episodes   int
	duration   time.Duration
	cutoff     int
	db         string
	verbose    bool
}

func (g *gameFlags) register(fs *flag.FlagSet) {
	fs.Uint64Var(&g.seed, "seed", 1, "board and dice seed")
	fs.StringVar(&g.seats, "agents", "mcts,greedy,greedy,random", "comma separated agent kinds, one per seat")
	fs.IntVar(&g.goroutines, "goroutines", meta.GO_ROUTINES, "search workers per MCTS agent")
	fs.IntVar(&g.episodes, "episodes", 0, "playouts per MCTS decision, 0 to search by -duration")
	fs.DurationVar(&g.duration, "duration", meta.DURATION, "search time per MCTS decision when -episodes is 0")
	fs.IntVar(&g.cutoff, "cutoff", meta.WITH_CUTOFF, "rollout depth limit")
	fs.StringVar(&g.db, "db", "", "SQLite file to archive the game in")
	fs.BoolVar(&g.verbose, "v", false, "log every move")
}

func (g *gameFlags) dmms() ([]game.DMM, error) {
	kinds := strings.Split(g.seats, ",")
	if len(kinds) != game.NumPlayers {
		return nil, fmt.Errorf("expected %d agents, got %d", game.NumPlayers, len(kinds))
	}
	dmms := make([]game.DMM, len(kinds))
	for i, kind := range kinds {
		config := metrics.AgentConfig{ID: i, Kind: metrics.AgentKind(strings.TrimSpace(kind)), Cutoff: g.cutoff}
		switch config.Kind {
		case metrics.MCTSAgent, metrics.TrainingAgent:
			config.Goroutines = g.goroutines
			if g.episodes > 0 {
				config.Episodes = g.episodes
			} else {
				config.Duration = g.duration
			}
		case metrics.GreedyAgent, metrics.RandomAgent:
		default:
			return nil, fmt.Errorf("unknown agent kind %q", kind)
		}
		dmms[i] = experiments.NewDMM(config, g.seed*game.NumPlayers+uint64(i))
	}
	return dmms, nil
}

func (g *gameFlags) play(ctx context.Context, observers ...engine.Observer) (*engine.Engine, error) {
	if g.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	dmms, err := g.dmms()
	if err != nil {
		return nil, err
	}

	e := engine.New(g.seed, dmms, engine.WithObservers(observers...))
	_, gameMetric, _, err := e.Run(ctx)
	if err != nil {
		return e, err
	}

	if g.db != "" {
		s, err := store.Open(g.db)
		if err != nil {
			return e, err
		}
		defer s.Close()
		archived := &store.Game{
			ID:        gameMetric.ID,
			Seed:      gameMetric.Seed,
			Winner:    gameMetric.Winner,
			Moves:     gameMetric.TotalMoves,
			StartedAt: gameMetric.StartTime,
			EndedAt:   gameMetric.EndTime,
		}
		if err := s.SaveGame(ctx, archived, e.State.Log); err != nil {
			return e, err
		}
		log.Info().Msgf("archived game %s in %s", archived.ID, g.db)
	}
	return e, nil
}

func runPlay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	var g gameFlags
	g.register(fs)
	color := fs.Bool("color", true, "color the board")
	fs.Parse(args)

	e, err := g.play(ctx)
	if e != nil {
		fmt.Println(render.Text(e.State, *color))
	}
	return err
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var g gameFlags
	g.register(fs)
	addr := fs.String("addr", meta.ADDR, "listen address")
	delay := fs.Duration("delay", 250*time.Millisecond, "pause after every move so spectators can follow")
	fs.Parse(args)

	hub := server.NewHub()
	srv := &http.Server{Addr: *addr, Handler: hub.Handler()}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("spectator server stopped")
		}
	}()
	log.Info().Msgf("spectators can connect to ws://%s/ws", *addr)

	pace := engine.ObserverFunc(func(*game.GameState, []game.Record) {
		time.Sleep(*delay)
	})
	if _, err := g.play(ctx, hub, pace); err != nil {
		return err
	}

	log.Info().Msg("game over, serving the final position until interrupted")
	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}

func runExperiment(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("experiment", flag.ExitOnError)
	settings := experiments.DefaultSettings()
	name := fs.String("name", "strength", "strength, parallel or cutoff")
	fs.IntVar(&settings.Games, "games", settings.Games, "games per match up")
	fs.Uint64Var(&settings.Seed, "seed", settings.Seed, "seed of the first game")
	fs.IntVar(&settings.MaxMoves, "max-moves", meta.MAX_MOVES, "moves before a game is abandoned")
	fs.StringVar(&settings.OutDir, "out", settings.OutDir, "directory for CSV and chart output")
	db := fs.String("db", "", "SQLite file to archive every game in")
	fs.Parse(args)

	if *db != "" {
		s, err := store.Open(*db)
		if err != nil {
			return err
		}
		defer s.Close()
		settings.Store = s
	}

	var (
		summary metrics.Summary
		err     error
	)
	switch *name {
	case "strength":
		summary, err = experiments.RunStrengthExperiment(ctx, settings)
	case "parallel":
		summary, err = experiments.RunParallelizationExperiment(ctx, settings)
	case "cutoff":
		summary, err = experiments.RunCutoffExperiment(ctx, settings)
	default:
		return fmt.Errorf("unknown experiment %q", *name)
	}
	if err != nil {
		return err
	}

	log.Info().Msgf("%d games, %d unfinished, %.1f ± %.1f moves, wins %v",
		summary.Games, summary.Unfinished, summary.MeanMoves, summary.StdDevMoves, summary.Wins)
	return nil
}

func runReplay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	path := fs.String("db", meta.DB_PATH, "SQLite game archive")
	id := fs.String("id", "", "game to replay")
	limit := fs.Int("n", 10, "games to list without -id")
	color := fs.Bool("color", true, "color the board")
	fs.Parse(args)

	s, err := store.Open(*path)
	if err != nil {
		return err
	}
	defer s.Close()

	if *id == "" {
		games, err := s.RecentGames(ctx, *limit)
		if err != nil {
			return err
		}
		for _, g := range games {
			fmt.Printf("%s  seed %-6d winner %2d  %5d moves  %s\n",
				g.ID, g.Seed, g.Winner, g.Moves, g.EndedAt.Format(time.DateTime))
		}
		return nil
	}

	gs, err := s.Replay(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Println(render.Text(gs, *color))
	return nil
}
