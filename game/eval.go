package game

import "catan/hex"

// Pips is the number of two-dice combinations that roll value, the usual
// measure of how often a tile produces.
func Pips(value int) int {
	if value < 2 || value > 12 || value == 7 {
		return 0
	}
	return 6 - abs(value-7)
}

// VertexPips sums the pips of the tiles around a vertex, ignoring the
// robber.
func (gs *GameState) VertexPips(v hex.VertexKey) int {
	total := 0
	for _, pos := range v.AdjacentHexes() {
		if tile, ok := gs.Board.TryGetHex(pos); ok {
			total += Pips(tile.Value)
		}
	}
	return total
}

// ProductionPips sums the expected yield of the player's buildings in pips
// per 36 rolls, with cities counting double and robbed tiles nothing.
func (gs *GameState) ProductionPips(player int) int {
	total := 0
	for _, v := range gs.Board.AllVertices() {
		node, _ := gs.Board.TryGetVertex(v)
		if node.Owner != player {
			continue
		}
		weight := 1
		if node.City {
			weight = 2
		}
		for _, pos := range v.AdjacentHexes() {
			if pos == gs.RobberPos {
				continue
			}
			if tile, ok := gs.Board.TryGetHex(pos); ok {
				total += weight * Pips(tile.Value)
			}
		}
	}
	return total
}

// EvaluateVictoryPoints scores a position by the player's share of public
// victory points toward the target, in [0, 1].
func EvaluateVictoryPoints(s State, player int) float64 {
	gs, ok := s.(*GameState)
	if !ok {
		panic("unexpected state type")
	}
	return min(1, float64(gs.Players[player].VictoryPoints)/float64(gs.Rules.VictoryPoints))
}

// EvaluateProduction blends victory point progress with production, so that
// early positions with no points yet are still ranked.
func EvaluateProduction(s State, player int) float64 {
	gs, ok := s.(*GameState)
	if !ok {
		panic("unexpected state type")
	}
	// 60 pips is roughly a strong late-game engine.
	production := min(1, float64(gs.ProductionPips(player))/60)
	return 0.8*EvaluateVictoryPoints(s, player) + 0.2*production
}
