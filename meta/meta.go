// meta/meta.go
package meta

import "time"

// GO_ROUTINES defines the number of goroutines to use.
const GO_ROUTINES = 8

// DURATION is the default thinking time per MCTS decision.
const DURATION = 3 * time.Second

// WITH_CUTOFF defines the cutoff value for MCTS.
const WITH_CUTOFF = 400

// MAX_MOVES ends a game that nobody has won.
const MAX_MOVES = 10000

// DB_PATH is where finished games are archived.
const DB_PATH = "catan.db"

// ADDR is the spectator server address.
const ADDR = "localhost:8080"
