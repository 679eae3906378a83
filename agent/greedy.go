package agent

import (
	"math"

	"catan/game"
	"catan/hex"
	"catan/resources"
)

type greedy struct{}

// NewGreedy returns a heuristic DMM. It builds the most valuable piece it
// can afford (city, settlement, development card, road), trades with the
// bank only when that unlocks a better piece and sends the robber after the
// leader. It looks at the game through the public view of its own seat.
func NewGreedy() game.DMM {
	return greedy{}
}

func (greedy) GetNextAction(state *game.GameState, legal []game.Action) int {
	s := newScorer(state.PublicView(state.CurrentPlayer()))
	best, bestScore := 0, math.Inf(-1)
	for i, a := range legal {
		if score := s.score(a); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

type scorer struct {
	view  game.View
	me    int
	hand  resources.Collection
	tiles map[hex.Axial]game.TileView
	nodes map[hex.VertexKey]game.NodeView
}

func newScorer(view game.View) *scorer {
	s := &scorer{
		view:  view,
		me:    view.Perspective,
		tiles: make(map[hex.Axial]game.TileView, len(view.Tiles)),
		nodes: make(map[hex.VertexKey]game.NodeView, len(view.Nodes)),
	}
	if h := view.Players[s.me].Hand; h != nil {
		s.hand = *h
	}
	for _, t := range view.Tiles {
		s.tiles[t.Pos] = t
	}
	for _, n := range view.Nodes {
		s.nodes[n.Key] = n
	}
	return s
}

func (s *scorer) score(a game.Action) float64 {
	switch a.Type {
	case game.BuildCityAction:
		return 1000 + s.pips(a.Vertex)
	case game.BuildSettlementAction:
		score := 800 + s.pips(a.Vertex)
		if s.nodes[a.Vertex].Port != game.NoPort {
			score++
		}
		return score
	case game.YearOfPlentyAction:
		gained := s.hand.Add(resources.Of(a.Resource, 1)).Add(resources.Of(a.Resource2, 1))
		return 650 + float64(rank(gained))
	case game.MonopolyAction:
		return 650 - float64(s.hand[a.Resource])
	case game.RoadBuildingAction:
		return 650 + s.roadPips(a.Edge)
	case game.BuyDevCardAction:
		return 600
	case game.KnightAction:
		if s.robbedSelf() {
			return 550 + s.robberScore(a)/100
		}
		return 100 + s.robberScore(a)/100
	case game.RollDiceAction:
		return 500
	case game.BuildRoadAction:
		return 300 + s.roadPips(a.Edge)
	case game.TradeAction:
		after := s.hand.Sub(a.Giving).Add(a.Receiving)
		if rank(after) > rank(s.hand) {
			return 200 + float64(rank(after))
		}
		return -1
	case game.RobberAction:
		return s.robberScore(a)
	case game.DiscardAction:
		kept := s.hand.Sub(a.Giving)
		return float64(10*rank(kept) - largestPile(kept))
	}
	return 0
}

// pips counts the production of the tiles around v.
func (s *scorer) pips(v hex.VertexKey) float64 {
	total := 0
	for _, pos := range v.AdjacentHexes() {
		if t, ok := s.tiles[pos]; ok && !t.Robber {
			total += game.Pips(t.Value)
		}
	}
	return float64(total)
}

// roadPips rates a road by the best open endpoint it reaches.
func (s *scorer) roadPips(e hex.EdgeKey) float64 {
	best := 0.0
	for _, v := range e.Endpoints() {
		if n, ok := s.nodes[v.Align()]; !ok || n.Owner >= 0 {
			continue
		}
		best = max(best, s.pips(v))
	}
	return best
}

// robberScore prefers robbing the public leader on a busy tile, and never
// blocks a tile of our own.
func (s *scorer) robberScore(a game.Action) float64 {
	score := float64(game.Pips(s.tiles[a.Tile].Value))
	if a.Target >= 0 {
		score += 10 * float64(s.view.Players[a.Target].VictoryPoints)
	}
	if s.touches(a.Tile, s.me) {
		score -= 100
	}
	return score
}

func (s *scorer) robbedSelf() bool {
	return s.touches(s.view.Robber, s.me)
}

func (s *scorer) touches(pos hex.Axial, player int) bool {
	for _, v := range pos.Vertices() {
		if n, ok := s.nodes[v]; ok && n.Owner == player {
			return true
		}
	}
	return false
}

// rank is the most valuable piece a hand can pay for: 4 for a city down to
// 1 for a road.
func rank(hand resources.Collection) int {
	switch {
	case hand.GreaterEq(resources.CityCost):
		return 4
	case hand.GreaterEq(resources.SettlementCost):
		return 3
	case hand.GreaterEq(resources.DevCardCost):
		return 2
	case hand.GreaterEq(resources.RoadCost):
		return 1
	}
	return 0
}

func largestPile(hand resources.Collection) int {
	most := 0
	for _, n := range hand {
		most = max(most, n)
	}
	return most
}
