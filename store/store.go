// Package store keeps finished games and their action logs in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catan/game"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("game not found")

// Game is one stored game. Seed and the non-synthetic actions are enough to
// replay it.
type Game struct {
	ID        string
	Seed      uint64
	Winner    int
	Moves     int
	StartedAt time.Time
	EndedAt   time.Time
}

// gameRow stores the seed as a signed integer, the widest SQLite offers.
type gameRow struct {
	ID        string    `db:"id"`
	Seed      int64     `db:"seed"`
	Winner    int       `db:"winner"`
	Moves     int       `db:"moves"`
	StartedAt time.Time `db:"started_at"`
	EndedAt   time.Time `db:"ended_at"`
}

func (r gameRow) game() Game {
	return Game{
		ID:        r.ID,
		Seed:      uint64(r.Seed),
		Winner:    r.Winner,
		Moves:     r.Moves,
		StartedAt: r.StartedAt,
		EndedAt:   r.EndedAt,
	}
}

type actionRow struct {
	GameID    string `db:"game_id"`
	Seq       int    `db:"seq"`
	Player    int    `db:"player"`
	Kind      string `db:"kind"`
	Synthetic bool   `db:"synthetic"`
	Payload   string `db:"payload"`
}

// Store wraps a SQLite connection.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		winner INTEGER NOT NULL,
		moves INTEGER NOT NULL,
		started_at TIMESTAMP NOT NULL,
		ended_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS actions (
		game_id TEXT NOT NULL REFERENCES games(id),
		seq INTEGER NOT NULL,
		player INTEGER NOT NULL,
		kind TEXT NOT NULL,
		synthetic INTEGER NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (game_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_games_ended ON games(ended_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveGame writes a game and its full log in one transaction. An empty ID
// is filled in with a new uuid.
func (s *Store) SaveGame(ctx context.Context, g *Game, log []game.Record) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	seed := int64(g.Seed)

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO games (id, seed, winner, moves, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?)`, g.ID, seed, g.Winner, g.Moves, g.StartedAt.UTC(), g.EndedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert game %s: %w", g.ID, err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO actions (game_id, seq, player, kind, synthetic, payload)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for seq, record := range log {
		payload, err := json.Marshal(record.Action)
		if err != nil {
			return fmt.Errorf("marshal action %d: %w", seq, err)
		}
		_, err = stmt.ExecContext(ctx, g.ID, seq, record.Action.Owner, record.Action.Type.String(), record.Synthetic, string(payload))
		if err != nil {
			return fmt.Errorf("insert action %d: %w", seq, err)
		}
	}
	return tx.Commit()
}

func (s *Store) LoadGame(ctx context.Context, id string) (Game, error) {
	var row gameRow
	err := s.conn.GetContext(ctx, &row, `SELECT id, seed, winner, moves, started_at, ended_at FROM games WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Game{}, fmt.Errorf("load game %s: %w", id, err)
	}
	return row.game(), nil
}

// LoadActions returns the logged records of a game in order.
func (s *Store) LoadActions(ctx context.Context, id string) ([]game.Record, error) {
	var rows []actionRow
	err := s.conn.SelectContext(ctx, &rows, `SELECT game_id, seq, player, kind, synthetic, payload
		FROM actions WHERE game_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("load actions of %s: %w", id, err)
	}

	records := make([]game.Record, len(rows))
	for i, row := range rows {
		if err := json.Unmarshal([]byte(row.Payload), &records[i].Action); err != nil {
			return nil, fmt.Errorf("unmarshal action %d of %s: %w", row.Seq, id, err)
		}
		records[i].Synthetic = row.Synthetic
	}
	return records, nil
}

// RecentGames lists the last finished games, newest first.
func (s *Store) RecentGames(ctx context.Context, limit int) ([]Game, error) {
	var rows []gameRow
	err := s.conn.SelectContext(ctx, &rows, `SELECT id, seed, winner, moves, started_at, ended_at
		FROM games ORDER BY ended_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	games := make([]Game, len(rows))
	for i, row := range rows {
		games[i] = row.game()
	}
	return games, nil
}

// Replay rebuilds a stored game with the standard rules.
func (s *Store) Replay(ctx context.Context, id string) (*game.GameState, error) {
	g, err := s.LoadGame(ctx, id)
	if err != nil {
		return nil, err
	}
	log, err := s.LoadActions(ctx, id)
	if err != nil {
		return nil, err
	}
	return game.Replay(g.Seed, game.NewStandardRules(), log)
}
