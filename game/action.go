package game

import (
	"fmt"

	"catan/hex"
	"catan/resources"
)

type ActionType int

const (
	TradeAction ActionType = iota
	BuildRoadAction
	BuildSettlementAction
	BuildCityAction
	BuyDevCardAction
	RollDiceAction
	RobberAction
	KnightAction
	MonopolyAction
	RoadBuildingAction
	YearOfPlentyAction
	EndTurnAction
	DiscardAction
	numActionTypes
)

var actionTypeNames = [numActionTypes]string{
	"Trade", "BuildRoad", "BuildSettlement", "BuildCity", "BuyDevCard", "RollDice",
	"Robber", "Knight", "Monopoly", "RoadBuilding", "YearOfPlenty", "EndTurn", "Discard",
}

func (t ActionType) String() string {
	if t < 0 || t >= numActionTypes {
		return fmt.Sprintf("ActionType(%d)", int(t))
	}
	return actionTypeNames[t]
}

// Action is a tagged union over every move in the game. Only the fields
// relevant to Type are meaningful. Actions are comparable values so they can
// key tree edges and be matched against the game log.
//
// Dice rolls, development card purchases and robber thefts are stochastic:
// they are offered unresolved and the outcome fields are filled in when the
// action is executed (or enumerated by GameState.Outcomes).
type Action struct {
	Type  ActionType `json:"type"`
	Owner int        `json:"owner"`
	// Target is the trade counterparty (-1 for the bank) or the robbed
	// player (-1 for nobody).
	Target    int                  `json:"target"`
	Giving    resources.Collection `json:"giving"`
	Receiving resources.Collection `json:"receiving"`
	Vertex    hex.VertexKey        `json:"vertex"`
	Edge      hex.EdgeKey          `json:"edge"`
	Edge2     hex.EdgeKey          `json:"edge2"`
	Roads     int                  `json:"roads,omitempty"` // road building: 1 or 2
	Tile      hex.Axial            `json:"tile"`
	Resource  resources.Type       `json:"resource"`
	Resource2 resources.Type       `json:"resource2"`

	Resolved bool           `json:"resolved,omitempty"`
	Roll     int            `json:"roll,omitempty"`
	Stolen   resources.Type `json:"stolen"`
	Card     DevCard        `json:"card"`
}

func newAction(t ActionType, owner int) Action {
	return Action{
		Type:      t,
		Owner:     owner,
		Target:    -1,
		Resource:  resources.Empty,
		Resource2: resources.Empty,
		Stolen:    resources.Empty,
	}
}

func NewTrade(owner, target int, giving, receiving resources.Collection) Action {
	a := newAction(TradeAction, owner)
	a.Target = target
	a.Giving = giving
	a.Receiving = receiving
	return a
}

func NewBuildRoad(owner int, e hex.EdgeKey) Action {
	a := newAction(BuildRoadAction, owner)
	a.Edge = e.Align()
	return a
}

func NewBuildSettlement(owner int, v hex.VertexKey) Action {
	a := newAction(BuildSettlementAction, owner)
	a.Vertex = v.Align()
	return a
}

func NewBuildCity(owner int, v hex.VertexKey) Action {
	a := newAction(BuildCityAction, owner)
	a.Vertex = v.Align()
	return a
}

func NewBuyDevCard(owner int) Action {
	return newAction(BuyDevCardAction, owner)
}

func NewRollDice(owner int) Action {
	return newAction(RollDiceAction, owner)
}

// NewRobber moves the robber to tile and targets the owner of vertex, or
// nobody when target is -1.
func NewRobber(owner int, tile hex.Axial, target int, vertex hex.VertexKey) Action {
	a := newAction(RobberAction, owner)
	a.Tile = tile
	a.Target = target
	if target >= 0 {
		a.Vertex = vertex.Align()
	}
	return a
}

func NewKnight(owner int, tile hex.Axial, target int, vertex hex.VertexKey) Action {
	a := NewRobber(owner, tile, target, vertex)
	a.Type = KnightAction
	return a
}

func NewMonopoly(owner int, t resources.Type) Action {
	a := newAction(MonopolyAction, owner)
	a.Resource = t
	return a
}

// NewRoadBuilding places one or two free roads. Pairs are stored in key
// order so that the same pair is always the same action.
func NewRoadBuilding(owner int, edges ...hex.EdgeKey) Action {
	a := newAction(RoadBuildingAction, owner)
	switch len(edges) {
	case 1:
		a.Edge = edges[0].Align()
		a.Roads = 1
	case 2:
		first, second := edges[0].Align(), edges[1].Align()
		if second.Less(first) {
			first, second = second, first
		}
		a.Edge, a.Edge2 = first, second
		a.Roads = 2
	default:
		panic(fmt.Sprintf("road building places 1 or 2 roads, got %d", len(edges)))
	}
	return a
}

func NewYearOfPlenty(owner int, first, second resources.Type) Action {
	a := newAction(YearOfPlentyAction, owner)
	if second < first {
		first, second = second, first
	}
	a.Resource = first
	a.Resource2 = second
	return a
}

func NewEndTurn(owner int) Action {
	return newAction(EndTurnAction, owner)
}

func NewDiscard(owner int, giving resources.Collection) Action {
	a := newAction(DiscardAction, owner)
	a.Giving = giving
	return a
}

// IsStochastic reports whether the action still has a random outcome to
// draw.
func (a Action) IsStochastic() bool {
	if a.Resolved {
		return false
	}
	switch a.Type {
	case RollDiceAction, BuyDevCardAction:
		return true
	case RobberAction, KnightAction:
		return a.Target >= 0
	}
	return false
}

// Unresolved strips the drawn outcome, returning the action as it was
// offered before execution.
func (a Action) Unresolved() Action {
	if !a.Resolved {
		return a
	}
	a.Resolved = false
	a.Roll = 0
	a.Stolen = resources.Empty
	a.Card = 0
	return a
}

func (a Action) String() string {
	switch a.Type {
	case TradeAction, DiscardAction:
		return fmt.Sprintf("%s(p%d->%d %v for %v)", a.Type, a.Owner, a.Target, a.Giving, a.Receiving)
	case BuildRoadAction:
		return fmt.Sprintf("%s(p%d %v)", a.Type, a.Owner, a.Edge)
	case BuildSettlementAction, BuildCityAction:
		return fmt.Sprintf("%s(p%d %v)", a.Type, a.Owner, a.Vertex)
	case RollDiceAction:
		if a.Resolved {
			return fmt.Sprintf("%s(p%d %d)", a.Type, a.Owner, a.Roll)
		}
	case BuyDevCardAction:
		if a.Resolved {
			return fmt.Sprintf("%s(p%d %v)", a.Type, a.Owner, a.Card)
		}
	case RobberAction, KnightAction:
		return fmt.Sprintf("%s(p%d %v target %d %v)", a.Type, a.Owner, a.Tile, a.Target, a.Stolen)
	case MonopolyAction:
		return fmt.Sprintf("%s(p%d %v)", a.Type, a.Owner, a.Resource)
	case RoadBuildingAction:
		if a.Roads == 1 {
			return fmt.Sprintf("%s(p%d %v)", a.Type, a.Owner, a.Edge)
		}
		return fmt.Sprintf("%s(p%d %v %v)", a.Type, a.Owner, a.Edge, a.Edge2)
	case YearOfPlentyAction:
		return fmt.Sprintf("%s(p%d %v %v)", a.Type, a.Owner, a.Resource, a.Resource2)
	}
	return fmt.Sprintf("%s(p%d)", a.Type, a.Owner)
}

// Description renders the action as a sentence for game logs and the
// terminal view.
func (a Action) Description() string {
	who := fmt.Sprintf("Player %d", a.Owner)
	switch a.Type {
	case TradeAction:
		with := "the bank"
		if a.Target >= 0 {
			with = fmt.Sprintf("player %d", a.Target)
		}
		if a.Giving.IsEmpty() {
			return fmt.Sprintf("%s receives %v from %s", who, a.Receiving, with)
		}
		return fmt.Sprintf("%s trades %v for %v with %s", who, a.Giving, a.Receiving, with)
	case BuildRoadAction:
		return fmt.Sprintf("%s builds a road at %v", who, a.Edge)
	case BuildSettlementAction:
		return fmt.Sprintf("%s builds a settlement at %v", who, a.Vertex)
	case BuildCityAction:
		return fmt.Sprintf("%s upgrades %v to a city", who, a.Vertex)
	case BuyDevCardAction:
		if a.Resolved {
			return fmt.Sprintf("%s buys a development card (%v)", who, a.Card)
		}
		return fmt.Sprintf("%s buys a development card", who)
	case RollDiceAction:
		if a.Resolved {
			return fmt.Sprintf("%s rolls %d", who, a.Roll)
		}
		return fmt.Sprintf("%s rolls the dice", who)
	case RobberAction, KnightAction:
		verb := "moves the robber"
		if a.Type == KnightAction {
			verb = "plays a knight and moves the robber"
		}
		s := fmt.Sprintf("%s %s to %v", who, verb, a.Tile)
		if a.Target >= 0 {
			s += fmt.Sprintf(", robbing player %d", a.Target)
			if a.Resolved && a.Stolen != resources.Empty {
				s += fmt.Sprintf(" of %v", a.Stolen)
			}
		}
		return s
	case MonopolyAction:
		return fmt.Sprintf("%s plays monopoly on %v", who, a.Resource)
	case RoadBuildingAction:
		if a.Roads == 1 {
			return fmt.Sprintf("%s plays road building at %v", who, a.Edge)
		}
		return fmt.Sprintf("%s plays road building at %v and %v", who, a.Edge, a.Edge2)
	case YearOfPlentyAction:
		return fmt.Sprintf("%s plays year of plenty for %v and %v", who, a.Resource, a.Resource2)
	case EndTurnAction:
		return fmt.Sprintf("%s ends the turn", who)
	case DiscardAction:
		return fmt.Sprintf("%s discards %v", who, a.Giving)
	}
	return a.String()
}

// Record is one entry of the game log. Synthetic records (resource
// distributions after a roll, setup income) are consequences of other
// actions and are skipped on replay.
type Record struct {
	Action    Action `json:"action"`
	Synthetic bool   `json:"synthetic,omitempty"`
}
