package game

import (
	"fmt"
	"slices"

	"catan/hex"
	"catan/resources"
)

// Execute validates and applies an action for the acting player. A
// stochastic action is resolved with the game's random source first; an
// already resolved one is applied as recorded. On error the state is
// unchanged.
func (gs *GameState) Execute(a Action) error {
	if gs.winner >= 0 {
		return ErrGameOver
	}
	if a.Owner != gs.CurrentPlayer() {
		return fmt.Errorf("player %d cannot act for player %d: %w", a.Owner, gs.CurrentPlayer(), ErrNotYourTurn)
	}
	if !gs.Phase.Allows(a.Type) {
		return fmt.Errorf("cannot %v during %v: %w", a.Type, gs.Phase, ErrWrongPhase)
	}
	if err := gs.validate(a); err != nil {
		return err
	}
	if a.IsStochastic() {
		a = gs.resolve(a)
	}
	if err := gs.validateOutcome(a); err != nil {
		return err
	}

	at := len(gs.Log)
	gs.apply(a)
	// Consequences appended during apply follow the action that caused them.
	gs.Log = slices.Insert(gs.Log, at, Record{Action: a})
	gs.Moves++
	gs.advance(a)
	gs.checkWinner()
	return nil
}

func illegal(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrIllegalAction)
}

// validate checks everything except the drawn outcome of a stochastic
// action.
func (gs *GameState) validate(a Action) error {
	p := &gs.Players[a.Owner]
	switch a.Type {
	case TradeAction:
		if a.Target >= 0 {
			return illegal("cannot trade with player %d: player trades are not offered", a.Target)
		}
		return gs.validateBankTrade(a)

	case BuildRoadAction:
		if p.Roads == 0 {
			return illegal("cannot build road: no roads left")
		}
		if !gs.isOpenEdge(a.Edge) {
			return illegal("cannot build road: %v is not an open edge", a.Edge)
		}
		if gs.Phase == PreGameRoadPhase {
			edges := gs.LastSettlement.ProtrudingEdges()
			if !slices.Contains(edges[:], a.Edge.Align()) {
				return illegal("cannot build road: %v does not touch settlement %v", a.Edge, gs.LastSettlement)
			}
			return nil
		}
		if !gs.reachesEdge(a.Owner, a.Edge, nil) {
			return illegal("cannot build road: %v is not connected", a.Edge)
		}
		if !p.Hand.GreaterEq(resources.RoadCost) {
			return illegal("cannot build road: insufficient resources")
		}

	case BuildSettlementAction:
		if p.Settlements == 0 {
			return illegal("cannot build settlement: no settlements left")
		}
		if !gs.isSettlementSpot(a.Vertex) {
			return illegal("cannot build settlement: %v is taken or too close to another building", a.Vertex)
		}
		if gs.Phase == PreGameSettlementPhase {
			return nil
		}
		if !gs.touchesOwnRoad(a.Owner, a.Vertex) {
			return illegal("cannot build settlement: %v is not on a road", a.Vertex)
		}
		if !p.Hand.GreaterEq(resources.SettlementCost) {
			return illegal("cannot build settlement: insufficient resources")
		}

	case BuildCityAction:
		node, ok := gs.Board.TryGetVertex(a.Vertex)
		if !ok || node.Owner != a.Owner || node.City {
			return illegal("cannot build city: %v is not the player's settlement", a.Vertex)
		}
		if p.Cities == 0 {
			return illegal("cannot build city: no cities left")
		}
		if !p.Hand.GreaterEq(resources.CityCost) {
			return illegal("cannot build city: insufficient resources")
		}

	case BuyDevCardAction:
		if !a.Resolved && gs.DevDeck.Count() == 0 {
			return illegal("cannot buy development card: deck is empty")
		}
		if !p.Hand.GreaterEq(resources.DevCardCost) {
			return illegal("cannot buy development card: insufficient resources")
		}

	case RollDiceAction:
		return nil

	case RobberAction, KnightAction:
		if a.Type == KnightAction && !gs.canPlayDevCard(a.Owner, Knight) {
			return illegal("cannot play knight")
		}
		return gs.validateRobber(a)

	case MonopolyAction:
		if !gs.canPlayDevCard(a.Owner, Monopoly) {
			return illegal("cannot play monopoly")
		}
		if a.Resource < 0 || a.Resource >= resources.Empty {
			return illegal("cannot play monopoly on %v", a.Resource)
		}

	case RoadBuildingAction:
		if !gs.canPlayDevCard(a.Owner, RoadBuilding) {
			return illegal("cannot play road building")
		}
		return gs.validateRoadBuilding(a)

	case YearOfPlentyAction:
		if !gs.canPlayDevCard(a.Owner, YearOfPlenty) {
			return illegal("cannot play year of plenty")
		}
		if a.Resource < 0 || a.Resource >= resources.Empty || a.Resource2 < 0 || a.Resource2 >= resources.Empty {
			return illegal("cannot take %v and %v", a.Resource, a.Resource2)
		}
		if !gs.bankCanGive(a.Resource, a.Resource2) {
			return illegal("cannot play year of plenty: bank is short of %v and %v", a.Resource, a.Resource2)
		}

	case EndTurnAction:
		return nil

	case DiscardAction:
		if !gs.PendingDiscard[a.Owner] {
			return illegal("player %d owes no discard", a.Owner)
		}
		if a.Giving.Count() != p.Hand.Count()/2 || !p.Hand.GreaterEq(a.Giving) || !a.Giving.GreaterEq(resources.Collection{}) {
			return illegal("cannot discard %v from %v", a.Giving, p.Hand)
		}

	default:
		return illegal("unknown action type %v", a.Type)
	}
	return nil
}

func (gs *GameState) validateBankTrade(a Action) error {
	give, receive := singleType(a.Giving), singleType(a.Receiving)
	if give == resources.Empty || receive == resources.Empty || give == receive {
		return illegal("cannot trade %v for %v with the bank", a.Giving, a.Receiving)
	}
	if ratio := gs.TradeRatio(a.Owner, give); a.Giving[give] != ratio || a.Receiving[receive] != 1 {
		return illegal("cannot trade %v for %v: ratio is %d:1", a.Giving, a.Receiving, ratio)
	}
	if !gs.Players[a.Owner].Hand.GreaterEq(a.Giving) {
		return illegal("cannot trade %v: insufficient resources", a.Giving)
	}
	if !gs.Bank.GreaterEq(a.Receiving) {
		return illegal("cannot trade for %v: bank is empty", a.Receiving)
	}
	return nil
}

// singleType returns the only type present in c, or Empty.
func singleType(c resources.Collection) resources.Type {
	found := resources.Empty
	for _, t := range resources.Types {
		switch {
		case c[t] < 0:
			return resources.Empty
		case c[t] > 0 && found != resources.Empty:
			return resources.Empty
		case c[t] > 0:
			found = t
		}
	}
	return found
}

func (gs *GameState) validateRobber(a Action) error {
	if _, ok := gs.Board.TryGetHex(a.Tile); !ok {
		return illegal("cannot move robber to %v: not a tile", a.Tile)
	}
	if a.Tile == gs.RobberPos {
		return illegal("cannot leave the robber on %v", a.Tile)
	}
	if a.Target < 0 {
		return nil
	}
	if a.Target == a.Owner || a.Target >= NumPlayers {
		return illegal("cannot rob player %d", a.Target)
	}
	corners := a.Tile.Vertices()
	node, ok := gs.Board.TryGetVertex(a.Vertex)
	if !ok || node.Owner != a.Target || !slices.Contains(corners[:], a.Vertex.Align()) {
		return illegal("cannot rob player %d: no building at %v on %v", a.Target, a.Vertex, a.Tile)
	}
	return nil
}

func (gs *GameState) validateRoadBuilding(a Action) error {
	roads := gs.Players[a.Owner].Roads
	switch {
	case a.Roads == 1 && roads >= 1:
		if !gs.isOpenEdge(a.Edge) || !gs.reachesEdge(a.Owner, a.Edge, nil) {
			return illegal("cannot place free road at %v", a.Edge)
		}
	case a.Roads == 2 && roads >= 2:
		if a.Edge.Align() == a.Edge2.Align() || !gs.isOpenEdge(a.Edge) || !gs.isOpenEdge(a.Edge2) {
			return illegal("cannot place free roads at %v and %v", a.Edge, a.Edge2)
		}
		first, second := a.Edge.Align(), a.Edge2.Align()
		// Either road may be the one that connects.
		if !(gs.reachesEdge(a.Owner, first, nil) && gs.reachesEdge(a.Owner, second, &first)) &&
			!(gs.reachesEdge(a.Owner, second, nil) && gs.reachesEdge(a.Owner, first, &second)) {
			return illegal("cannot place free roads at %v and %v: not connected", a.Edge, a.Edge2)
		}
	default:
		return illegal("cannot place %d free roads with %d left", a.Roads, roads)
	}
	return nil
}

// validateOutcome checks the drawn part of a resolved action, so replayed
// logs cannot introduce impossible outcomes.
func (gs *GameState) validateOutcome(a Action) error {
	switch a.Type {
	case RollDiceAction:
		if a.Roll < 2 || a.Roll > 12 {
			return illegal("cannot roll %d", a.Roll)
		}
	case BuyDevCardAction:
		if a.Card < 0 || int(a.Card) >= NumDevCards || gs.DevDeck[a.Card] == 0 {
			return illegal("cannot draw %v", a.Card)
		}
	case RobberAction, KnightAction:
		if a.Target < 0 || a.Stolen == resources.Empty {
			return nil
		}
		if gs.Players[a.Target].Hand.Get(a.Stolen) == 0 {
			return illegal("cannot steal %v from player %d", a.Stolen, a.Target)
		}
	}
	return nil
}

// resolve draws the outcome of a stochastic action from the game's random
// source.
func (gs *GameState) resolve(a Action) Action {
	switch a.Type {
	case RollDiceAction:
		a.Roll = gs.rng.Intn(6) + gs.rng.Intn(6) + 2
	case BuyDevCardAction:
		a.Card = gs.DevDeck.Draw(gs.rng.Intn(gs.DevDeck.Count()))
	case RobberAction, KnightAction:
		hand := gs.Players[a.Target].Hand
		if n := hand.Count(); n > 0 {
			a.Stolen = StealIndex(hand, gs.rng.Intn(n)+1)
		}
	}
	a.Resolved = true
	return a
}

// StealIndex maps a 1-based card position to its type, walking the hand in
// type order. For a hand of two Brick and one Grain, positions 1 and 2 are
// Brick and 3 is Grain. Positions outside the hand give Empty.
func StealIndex(hand resources.Collection, i int) resources.Type {
	if i < 1 {
		return resources.Empty
	}
	for _, t := range resources.Types {
		if i <= hand[t] {
			return t
		}
		i -= hand[t]
	}
	return resources.Empty
}

// apply mutates the state for a validated, resolved action.
func (gs *GameState) apply(a Action) {
	p := &gs.Players[a.Owner]
	switch a.Type {
	case TradeAction, DiscardAction:
		gs.DoTrade(a.Owner, a.Target, a.Giving, a.Receiving)

	case BuildRoadAction:
		if !gs.Phase.IsSetup() {
			gs.DoTrade(a.Owner, -1, resources.RoadCost, resources.Collection{})
		}
		gs.placeRoad(a.Owner, a.Edge)
		gs.updateLongestRoad()

	case BuildSettlementAction:
		if gs.Phase.IsSetup() {
			if gs.SetupStep >= NumPlayers {
				gs.collectSetupIncome(a.Owner, a.Vertex)
			}
		} else {
			gs.DoTrade(a.Owner, -1, resources.SettlementCost, resources.Collection{})
		}
		gs.Board.InsertVertex(a.Vertex, Node{Owner: a.Owner, Port: gs.portAt(a.Vertex)})
		p.Settlements--
		p.VictoryPoints++
		// A settlement can split an opponent's road.
		gs.updateLongestRoad()

	case BuildCityAction:
		gs.DoTrade(a.Owner, -1, resources.CityCost, resources.Collection{})
		node, _ := gs.Board.TryGetVertex(a.Vertex)
		node.City = true
		gs.Board.InsertVertex(a.Vertex, node)
		p.Cities--
		p.Settlements++
		p.VictoryPoints++

	case BuyDevCardAction:
		gs.DoTrade(a.Owner, -1, resources.DevCardCost, resources.Collection{})
		gs.DevDeck[a.Card]--
		p.NewDevCards[a.Card]++

	case RollDiceAction:
		gs.LastRoll = a.Roll
		if a.Roll != 7 {
			gs.distribute(a.Roll)
		}

	case RobberAction:
		gs.moveRobber(a)

	case KnightAction:
		gs.playDevCard(a.Owner, Knight)
		p.KnightsPlayed++
		gs.moveRobber(a)
		gs.updateLargestArmy(a.Owner)

	case MonopolyAction:
		gs.playDevCard(a.Owner, Monopoly)
		for i := range gs.Players {
			if i == a.Owner {
				continue
			}
			if n := gs.Players[i].Hand[a.Resource]; n > 0 {
				gs.DoTrade(a.Owner, i, resources.Collection{}, resources.Of(a.Resource, n))
			}
		}

	case RoadBuildingAction:
		gs.playDevCard(a.Owner, RoadBuilding)
		first, second := a.Edge.Align(), a.Edge2.Align()
		if a.Roads == 2 && !gs.reachesEdge(a.Owner, first, nil) {
			first, second = second, first
		}
		gs.placeRoad(a.Owner, first)
		if a.Roads == 2 {
			gs.placeRoad(a.Owner, second)
		}
		gs.updateLongestRoad()

	case YearOfPlentyAction:
		gs.playDevCard(a.Owner, YearOfPlenty)
		gs.DoTrade(a.Owner, -1, resources.Collection{}, resources.Of(a.Resource, 1).Add(resources.Of(a.Resource2, 1)))

	case EndTurnAction:
		p.DevCards = addDecks(p.DevCards, p.NewDevCards)
		p.NewDevCards = DevDeck{}
		gs.DevCardPlayed = false
	}
}

func (gs *GameState) placeRoad(player int, e hex.EdgeKey) {
	gs.Board.InsertEdge(e, Path{Owner: player})
	gs.Players[player].Roads--
}

func (gs *GameState) portAt(v hex.VertexKey) Port {
	node, _ := gs.Board.TryGetVertex(v)
	return node.Port
}

func (gs *GameState) playDevCard(player int, card DevCard) {
	gs.Players[player].DevCards[card]--
	gs.DevCardPlayed = true
}

func addDecks(a, b DevDeck) DevDeck {
	for i := range a {
		a[i] += b[i]
	}
	return a
}

// collectSetupIncome grants one card per producing tile around the second
// setup settlement, as far as the bank can pay.
func (gs *GameState) collectSetupIncome(player int, v hex.VertexKey) {
	var income resources.Collection
	for _, pos := range v.AdjacentHexes() {
		tile, ok := gs.Board.TryGetHex(pos)
		if !ok || tile.Resource == resources.Empty {
			continue
		}
		if gs.Bank[tile.Resource] > income[tile.Resource] {
			income[tile.Resource]++
		}
	}
	if income.IsEmpty() {
		return
	}
	gs.DoTrade(player, -1, resources.Collection{}, income)
	gs.Log = append(gs.Log, Record{Action: NewTrade(player, -1, resources.Collection{}, income), Synthetic: true})
}

// distribute pays every building next to a tile showing roll. When the bank
// cannot cover a type it pays a sole claimant whatever is left and pays
// nobody when several players claim it.
func (gs *GameState) distribute(roll int) {
	pending := make([]resources.Collection, len(gs.Players))
	for _, pos := range gs.TileValueMap[roll] {
		if pos == gs.RobberPos {
			continue
		}
		tile, ok := gs.Board.TryGetHex(pos)
		if !ok {
			panic(fmt.Sprintf("value map names %v which is not a tile", pos))
		}
		for _, v := range pos.Vertices() {
			node, ok := gs.Board.TryGetVertex(v)
			if !ok || node.Owner < 0 {
				continue
			}
			amount := 1
			if node.City {
				amount = 2
			}
			pending[node.Owner].Set(tile.Resource, pending[node.Owner].Get(tile.Resource)+amount)
		}
	}

	var total resources.Collection
	for _, c := range pending {
		total = total.Add(c)
	}
	for _, t := range resources.Types {
		if total[t] <= gs.Bank[t] {
			continue
		}
		claimants, last := 0, -1
		for i := range pending {
			if pending[i][t] > 0 {
				claimants++
				last = i
			}
		}
		if claimants == 1 {
			pending[last][t] = gs.Bank[t]
			continue
		}
		for i := range pending {
			pending[i][t] = 0
		}
	}

	for i, c := range pending {
		if c.IsEmpty() {
			continue
		}
		gs.DoTrade(i, -1, resources.Collection{}, c)
		gs.Log = append(gs.Log, Record{Action: NewTrade(i, -1, resources.Collection{}, c), Synthetic: true})
	}
}

// moveRobber relocates the robber and transfers the stolen card.
func (gs *GameState) moveRobber(a Action) {
	old, _ := gs.Board.TryGetHex(gs.RobberPos)
	old.Robber = false
	gs.Board.InsertHex(gs.RobberPos, old)

	tile, _ := gs.Board.TryGetHex(a.Tile)
	tile.Robber = true
	gs.Board.InsertHex(a.Tile, tile)
	gs.RobberPos = a.Tile

	if a.Target >= 0 && a.Stolen != resources.Empty {
		gs.DoTrade(a.Owner, a.Target, resources.Collection{}, resources.Of(a.Stolen, 1))
	}
}
