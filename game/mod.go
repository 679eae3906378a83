package game

import "errors"

var (
	ErrIllegalAction  = errors.New("illegal action")
	ErrWrongPhase     = errors.New("action not allowed in this phase")
	ErrNotYourTurn    = errors.New("not this player's turn")
	ErrGameOver       = errors.New("game is over")
	ErrNoLegalActions = errors.New("no legal actions")
)

type StateHash uint64

// Outcome is one resolution of a stochastic action together with its
// probability. Deterministic actions have a single outcome of probability 1.
type Outcome struct {
	Action      Action
	Probability float64
}

// State is the view of a game that the searcher needs. Play never mutates
// the receiver; it returns a new state.
type State interface {
	CurrentPlayer() int
	LegalActions() []Action
	Outcomes(Action) []Outcome
	Play(Action) State
	Hash() StateHash
	// Winner returns the winning player, or -1 while the game continues.
	Winner() int
	Score(player int) int
}

// DMM is a decision-making module: anything that picks the next action for
// a player. Implementations must treat the state as read-only.
type DMM interface {
	GetNextAction(state *GameState, legal []Action) int
}

// DMMFunc adapts a plain function to the DMM interface.
type DMMFunc func(state *GameState, legal []Action) int

func (f DMMFunc) GetNextAction(state *GameState, legal []Action) int {
	return f(state, legal)
}

// Evaluate scores a state for a player in [0, 1].
type Evaluate func(s State, player int) float64
