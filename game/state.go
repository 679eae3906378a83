package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"catan/hex"
	"catan/resources"

	"golang.org/x/exp/rand"
)

// Player holds everything a seat owns. Pieces count what is left to build.
type Player struct {
	ID            int
	Hand          resources.Collection
	Settlements   int     // settlements left to build
	Cities        int     // cities left to build
	Roads         int     // roads left to build
	VictoryPoints int     // public points: buildings and special cards
	DevCards      DevDeck // cards playable this turn
	NewDevCards   DevDeck // cards bought this turn
	KnightsPlayed int
	LongestRoad   bool
	LargestArmy   bool
	RoadLength    int
	DMM           DMM
}

// TotalVictoryPoints adds the hidden victory point cards to the public
// score.
func (p *Player) TotalVictoryPoints() int {
	return p.VictoryPoints + p.DevCards[VictoryPoint] + p.NewDevCards[VictoryPoint]
}

// GameState represents the complete dynamic state of a game. The board
// layout, value map and rules are fixed at creation and shared between
// clones; everything else is copied.
type GameState struct {
	Rules          *Rules
	Board          *Board
	TileValueMap   map[int][]hex.Axial // dice value -> producing tiles, read-only
	Bank           resources.Collection
	RobberPos      hex.Axial
	Players        []Player
	Turn           int                // seat whose turn it is
	Offset         int                // seat offset of the acting player from Turn
	Phase          Phase              // current phase of the game
	SetupStep      int                // index into the setup order while placing
	LastSettlement hex.VertexKey      // settlement just placed during setup
	PendingDiscard [NumPlayers]bool   // players owing a discard after a seven
	LastRoll       int                // most recent dice roll, 0 before the first
	DevDeck        DevDeck            // undrawn development cards
	DevCardPlayed  bool               // a development card was played this turn
	Log            []Record           // every executed action, oldest first
	Moves          int                // executed non-synthetic actions
	winner         int

	src *rand.PCGSource
	rng *rand.Rand
}

type config struct {
	seed  uint64
	rules *Rules
	dmms  []DMM
}

type Option func(*config)

// WithSeed fixes the seed of the game's random source: the board layout
// and every roll, draw and theft follow from it.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithRules replaces the whole rule set. It overrides any board option
// given before it.
func WithRules(rules *Rules) Option {
	return func(c *config) {
		c.rules = rules
	}
}

// ownRules copies the rules before an option edits them, since Rules
// values are shared.
func (c *config) ownRules() *Rules {
	rules := *c.rules
	c.rules = &rules
	return c.rules
}

// WithResourceSpread sets the tiles shuffled onto the board, one per hex
// and exactly one Empty for the desert.
func WithResourceSpread(spread ...resources.Type) Option {
	return func(c *config) {
		c.ownRules().ResourceSpread = spread
	}
}

// WithValueSpread sets the number tokens, one per producing tile.
func WithValueSpread(values ...int) Option {
	return func(c *config) {
		c.ownRules().ValueSpread = values
	}
}

// WithPorts turns the harbors on or off. Without them every bank trade
// is 4:1.
func WithPorts(enabled bool) Option {
	return func(c *config) {
		if enabled {
			c.ownRules().Ports = DefaultPorts
		} else {
			c.ownRules().Ports = nil
		}
	}
}

// WithDMMs seats decision-making modules in player order.
func WithDMMs(dmms ...DMM) Option {
	return func(c *config) {
		c.dmms = dmms
	}
}

// NewGameState builds a board and seats NumPlayers players ready for
// initial placement.
func NewGameState(options ...Option) *GameState {
	c := &config{seed: 1, rules: NewStandardRules()}
	for _, opt := range options {
		opt(c)
	}
	if len(c.dmms) > NumPlayers {
		panic(fmt.Sprintf("cannot seat %d decision modules at %d seats", len(c.dmms), NumPlayers))
	}

	src := &rand.PCGSource{}
	src.Seed(c.seed)
	rng := rand.New(src)

	board, robber, valueMap := newBoard(c.rules, rng)
	gs := &GameState{
		Rules:        c.rules,
		Board:        board,
		TileValueMap: valueMap,
		Bank:         resources.Uniform(BankStock),
		RobberPos:    robber,
		Players:      make([]Player, NumPlayers),
		Phase:        PreGameSettlementPhase,
		DevDeck:      c.rules.DevDeck,
		winner:       -1,
		src:          src,
		rng:          rng,
	}
	for i := range gs.Players {
		gs.Players[i] = Player{
			ID:          i,
			Settlements: MaxSettlements,
			Cities:      MaxCities,
			Roads:       MaxRoads,
		}
		if i < len(c.dmms) {
			gs.Players[i].DMM = c.dmms[i]
		}
	}
	return gs
}

// Clone returns an independent copy. The random source is copied by value
// so a clone replays the same draws as the original until reseeded.
func (gs *GameState) Clone() *GameState {
	clone := *gs
	clone.Board = gs.Board.Clone()
	clone.Players = make([]Player, len(gs.Players))
	copy(clone.Players, gs.Players)
	// Records are never modified in place; capping the capacity makes the
	// first append on either side reallocate.
	clone.Log = gs.Log[:len(gs.Log):len(gs.Log)]
	src := *gs.src
	clone.src = &src
	clone.rng = rand.New(clone.src)
	return &clone
}

// Reseed replaces the random source, e.g. to decorrelate search
// simulations from the real game.
func (gs *GameState) Reseed(seed uint64) {
	gs.src = &rand.PCGSource{}
	gs.src.Seed(seed)
	gs.rng = rand.New(gs.src)
}

// CurrentPlayer returns the seat that must act next.
func (gs *GameState) CurrentPlayer() int {
	return (gs.Turn + gs.Offset) % NumPlayers
}

func (gs *GameState) Winner() int {
	return gs.winner
}

func (gs *GameState) Score(player int) int {
	return gs.Players[player].TotalVictoryPoints()
}

// Play executes a copy of the state. Playing an illegal action is a
// programming error.
func (gs *GameState) Play(a Action) State {
	next := gs.Clone()
	if err := next.Execute(a); err != nil {
		panic(err)
	}
	return next
}

// Update asks the acting player's decision module for an action and
// executes it.
func (gs *GameState) Update() error {
	if gs.winner >= 0 {
		return ErrGameOver
	}
	legal := gs.LegalActions()
	if len(legal) == 0 {
		return ErrNoLegalActions
	}
	player := gs.CurrentPlayer()
	dmm := gs.Players[player].DMM
	if dmm == nil {
		return fmt.Errorf("cannot update: player %d has no decision module", player)
	}
	choice := dmm.GetNextAction(gs, legal)
	if choice < 0 || choice >= len(legal) {
		return fmt.Errorf("player %d chose action %d of %d: %w", player, choice, len(legal), ErrIllegalAction)
	}
	return gs.Execute(legal[choice])
}

// DoTrade moves giving from owner to target and receiving from target to
// owner. Target -1 is the bank. Callers validate funds.
func (gs *GameState) DoTrade(owner, target int, giving, receiving resources.Collection) {
	gs.Players[owner].Hand = gs.Players[owner].Hand.Sub(giving).Add(receiving)
	if target < 0 {
		gs.Bank = gs.Bank.Add(giving).Sub(receiving)
	} else {
		gs.Players[target].Hand = gs.Players[target].Hand.Add(giving).Sub(receiving)
	}
}

// Hash identifies a game position. Two states with equal hashes offer the
// same actions with the same consequences, up to hidden randomness.
func (gs *GameState) Hash() StateHash {
	hasher := fnv.New64a()
	write := func(values ...int) {
		for _, v := range values {
			binary.Write(hasher, binary.LittleEndian, int64(v))
		}
	}

	write(gs.Turn, gs.Offset, int(gs.Phase), gs.SetupStep, gs.LastRoll, gs.winner)
	write(gs.LastSettlement.Pos.Q, gs.LastSettlement.Pos.R, int(gs.LastSettlement.Side))
	write(gs.RobberPos.Q, gs.RobberPos.R)
	write(gs.Bank[:]...)
	write(gs.DevDeck[:]...)
	write(boolInt(gs.DevCardPlayed))
	for i := range gs.Players {
		p := &gs.Players[i]
		write(p.Hand[:]...)
		write(p.DevCards[:]...)
		write(p.NewDevCards[:]...)
		write(p.Settlements, p.Cities, p.Roads, p.VictoryPoints, p.KnightsPlayed)
		write(boolInt(p.LongestRoad), boolInt(p.LargestArmy), boolInt(gs.PendingDiscard[i]))
	}
	for _, v := range gs.Board.AllVertices() {
		node, _ := gs.Board.TryGetVertex(v)
		write(node.Owner, boolInt(node.City))
	}
	for _, e := range gs.Board.AllEdges() {
		path, _ := gs.Board.TryGetEdge(e)
		write(path.Owner)
	}
	return StateHash(hasher.Sum64())
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
