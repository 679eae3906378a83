package game

import (
	"catan/hex"
	"catan/resources"
)

// LegalActions enumerates every action the acting player may take. The
// result is recomputed on each call; stochastic actions are unresolved.
func (gs *GameState) LegalActions() []Action {
	if gs.winner >= 0 {
		return nil
	}
	player := gs.CurrentPlayer()
	switch gs.Phase {
	case PreGameSettlementPhase:
		var actions []Action
		for _, v := range gs.Board.AllVertices() {
			if gs.isSettlementSpot(v) {
				actions = append(actions, NewBuildSettlement(player, v))
			}
		}
		return actions

	case PreGameRoadPhase:
		var actions []Action
		for _, e := range gs.LastSettlement.ProtrudingEdges() {
			if gs.isOpenEdge(e) {
				actions = append(actions, NewBuildRoad(player, e))
			}
		}
		return actions

	case TurnStartPhase:
		actions := []Action{NewRollDice(player)}
		if gs.canPlayDevCard(player, Knight) {
			actions = append(actions, gs.robberActions(player, KnightAction)...)
		}
		return actions

	case TurnMainPhase:
		return gs.mainActions(player)

	case DiscardPhase:
		hand := gs.Players[player].Hand
		var actions []Action
		for giving := range resources.RecurseOptions(hand, resources.Collection{}, hand.Count()/2) {
			actions = append(actions, NewDiscard(player, giving))
		}
		return actions

	case RobberPhase:
		return gs.robberActions(player, RobberAction)
	}
	return nil
}

func (gs *GameState) mainActions(player int) []Action {
	p := &gs.Players[player]
	actions := gs.bankTrades(player)

	if p.Roads > 0 && p.Hand.GreaterEq(resources.RoadCost) {
		for _, e := range gs.roadSpots(player, nil) {
			actions = append(actions, NewBuildRoad(player, e))
		}
	}
	if p.Settlements > 0 && p.Hand.GreaterEq(resources.SettlementCost) {
		for _, v := range gs.Board.AllVertices() {
			if gs.isSettlementSpot(v) && gs.touchesOwnRoad(player, v) {
				actions = append(actions, NewBuildSettlement(player, v))
			}
		}
	}
	if p.Cities > 0 && p.Hand.GreaterEq(resources.CityCost) {
		for _, v := range gs.Board.AllVertices() {
			if node, _ := gs.Board.TryGetVertex(v); node.Owner == player && !node.City {
				actions = append(actions, NewBuildCity(player, v))
			}
		}
	}
	if gs.DevDeck.Count() > 0 && p.Hand.GreaterEq(resources.DevCardCost) {
		actions = append(actions, NewBuyDevCard(player))
	}

	if gs.canPlayDevCard(player, Knight) {
		actions = append(actions, gs.robberActions(player, KnightAction)...)
	}
	if gs.canPlayDevCard(player, Monopoly) {
		for _, t := range resources.Types {
			actions = append(actions, NewMonopoly(player, t))
		}
	}
	if gs.canPlayDevCard(player, RoadBuilding) && p.Roads > 0 {
		actions = append(actions, gs.roadBuildingActions(player)...)
	}
	if gs.canPlayDevCard(player, YearOfPlenty) {
		for i, first := range resources.Types {
			for _, second := range resources.Types[i:] {
				if gs.bankCanGive(first, second) {
					actions = append(actions, NewYearOfPlenty(player, first, second))
				}
			}
		}
	}

	return append(actions, NewEndTurn(player))
}

// bankTrades offers every ratio trade the player can afford for one card
// the bank still holds.
func (gs *GameState) bankTrades(player int) []Action {
	var actions []Action
	hand := gs.Players[player].Hand
	for _, give := range resources.Types {
		ratio := gs.TradeRatio(player, give)
		if hand[give] < ratio {
			continue
		}
		for _, receive := range resources.Types {
			if receive == give || gs.Bank[receive] == 0 {
				continue
			}
			actions = append(actions, NewTrade(player, -1, resources.Of(give, ratio), resources.Of(receive, 1)))
		}
	}
	return actions
}

// TradeRatio returns how many cards of a type the player must give the
// bank for one card: 2 with a matching port, 3 with a generic port,
// otherwise 4.
func (gs *GameState) TradeRatio(player int, t resources.Type) int {
	ratio := 4
	for _, v := range gs.Board.AllVertices() {
		node, _ := gs.Board.TryGetVertex(v)
		if node.Owner != player || node.Port == NoPort {
			continue
		}
		if node.Port == GenericPort {
			ratio = min(ratio, 3)
		} else if node.Port.Resource() == t {
			return 2
		}
	}
	return ratio
}

// robberActions lists a robber move to every tile but the current one.
// Each opponent building on the tile gives a separate targeted action; a
// tile without one gives a single untargeted action.
func (gs *GameState) robberActions(player int, t ActionType) []Action {
	var actions []Action
	for _, pos := range gs.Board.AllHexes() {
		if pos == gs.RobberPos {
			continue
		}
		targeted := false
		for _, v := range pos.Vertices() {
			node, ok := gs.Board.TryGetVertex(v)
			if !ok || node.Owner < 0 || node.Owner == player {
				continue
			}
			a := NewRobber(player, pos, node.Owner, v)
			a.Type = t
			actions = append(actions, a)
			targeted = true
		}
		if !targeted {
			a := NewRobber(player, pos, -1, hex.VertexKey{})
			a.Type = t
			actions = append(actions, a)
		}
	}
	return actions
}

// roadBuildingActions offers every single free road and every unordered
// pair, where the second road may extend from the first.
func (gs *GameState) roadBuildingActions(player int) []Action {
	firsts := gs.roadSpots(player, nil)
	if gs.Players[player].Roads == 1 {
		actions := make([]Action, 0, len(firsts))
		for _, e := range firsts {
			actions = append(actions, NewRoadBuilding(player, e))
		}
		return actions
	}

	var actions []Action
	seen := make(map[[2]hex.EdgeKey]bool)
	for _, first := range firsts {
		paired := false
		for _, second := range gs.roadSpots(player, &first) {
			a := NewRoadBuilding(player, first, second)
			key := [2]hex.EdgeKey{a.Edge, a.Edge2}
			paired = true
			if seen[key] {
				continue
			}
			seen[key] = true
			actions = append(actions, a)
		}
		if !paired {
			actions = append(actions, NewRoadBuilding(player, first))
		}
	}
	return actions
}

// roadSpots lists open edges the player's network reaches. When assumed is
// set, that edge counts as already owned by the player and is itself
// excluded.
func (gs *GameState) roadSpots(player int, assumed *hex.EdgeKey) []hex.EdgeKey {
	var spots []hex.EdgeKey
	for _, e := range gs.Board.AllEdges() {
		if assumed != nil && e == *assumed {
			continue
		}
		if gs.isOpenEdge(e) && gs.reachesEdge(player, e, assumed) {
			spots = append(spots, e)
		}
	}
	return spots
}

func (gs *GameState) isOpenEdge(e hex.EdgeKey) bool {
	path, ok := gs.Board.TryGetEdge(e)
	return ok && path.Owner < 0
}

// reachesEdge reports whether a road at e would join the player's network:
// one endpoint holds the player's building, or an endpoint is unbuilt and
// another of its edges carries the player's road.
func (gs *GameState) reachesEdge(player int, e hex.EdgeKey, assumed *hex.EdgeKey) bool {
	e = e.Align()
	for _, v := range e.Endpoints() {
		node, ok := gs.Board.TryGetVertex(v)
		if !ok {
			continue
		}
		if node.Owner == player {
			return true
		}
		if node.Owner >= 0 {
			continue
		}
		for _, other := range v.ProtrudingEdges() {
			if other == e {
				continue
			}
			if assumed != nil && other == *assumed {
				return true
			}
			if path, ok := gs.Board.TryGetEdge(other); ok && path.Owner == player {
				return true
			}
		}
	}
	return false
}

// isSettlementSpot checks the vertex is open and the distance rule holds.
func (gs *GameState) isSettlementSpot(v hex.VertexKey) bool {
	node, ok := gs.Board.TryGetVertex(v)
	if !ok || node.Owner >= 0 {
		return false
	}
	for _, n := range v.AdjacentVertices() {
		if other, ok := gs.Board.TryGetVertex(n); ok && other.Owner >= 0 {
			return false
		}
	}
	return true
}

func (gs *GameState) touchesOwnRoad(player int, v hex.VertexKey) bool {
	for _, e := range v.ProtrudingEdges() {
		if path, ok := gs.Board.TryGetEdge(e); ok && path.Owner == player {
			return true
		}
	}
	return false
}

// canPlayDevCard checks the player holds a card bought before this turn
// and has not played one yet.
func (gs *GameState) canPlayDevCard(player int, card DevCard) bool {
	return !gs.DevCardPlayed && gs.Players[player].DevCards[card] > 0
}

func (gs *GameState) bankCanGive(first, second resources.Type) bool {
	want := resources.Of(first, 1).Add(resources.Of(second, 1))
	return gs.Bank.GreaterEq(want)
}
