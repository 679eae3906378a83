package game

import "catan/resources"

const (
	NumPlayers     = 4
	BoardRadius    = 2
	MaxSettlements = 5
	MaxCities      = 4
	MaxRoads       = 15
	MaxHandSize    = 7
	BankStock      = 19

	LongestRoadMinimum = 5
	LargestArmyMinimum = 3
	SpecialCardPoints  = 2
)

// DefaultResourceSpread is the tile mix of the base game, one entry per hex.
var DefaultResourceSpread = []resources.Type{
	resources.Brick, resources.Brick, resources.Brick,
	resources.Grain, resources.Grain, resources.Grain, resources.Grain,
	resources.Lumber, resources.Lumber, resources.Lumber, resources.Lumber,
	resources.Ore, resources.Ore, resources.Ore,
	resources.Wool, resources.Wool, resources.Wool, resources.Wool,
	resources.Empty,
}

// DefaultValueSpread holds the number tokens for every producing hex.
var DefaultValueSpread = []int{2, 3, 3, 4, 4, 5, 5, 6, 6, 8, 8, 9, 9, 10, 10, 11, 11, 12}

// DefaultPorts lists the harbors placed around the coast.
var DefaultPorts = []Port{
	GenericPort, GenericPort, GenericPort, GenericPort,
	PortFor(resources.Brick), PortFor(resources.Grain), PortFor(resources.Lumber),
	PortFor(resources.Ore), PortFor(resources.Wool),
}

// DefaultDevDeck is the development card mix of the base game.
var DefaultDevDeck = DevDeck{
	Knight:       14,
	VictoryPoint: 5,
	RoadBuilding: 2,
	YearOfPlenty: 2,
	Monopoly:     2,
}

// Rules parameterizes board generation and victory. A Rules value is
// shared by every clone of a game and must not be modified once play starts.
type Rules struct {
	ResourceSpread []resources.Type
	ValueSpread    []int
	Ports          []Port
	DevDeck        DevDeck
	VictoryPoints  int
}

func NewStandardRules() *Rules {
	return &Rules{
		ResourceSpread: DefaultResourceSpread,
		ValueSpread:    DefaultValueSpread,
		Ports:          DefaultPorts,
		DevDeck:        DefaultDevDeck,
		VictoryPoints:  10,
	}
}
