package game

import "catan/hex"

// checkWinner ends the game once the player whose turn it is reaches the
// target. Points only win on their owner's turn.
func (gs *GameState) checkWinner() {
	if gs.Phase.IsSetup() {
		return
	}
	if gs.Players[gs.Turn].TotalVictoryPoints() >= gs.Rules.VictoryPoints {
		gs.winner = gs.Turn
	}
}

// LongestRoad returns the length of the player's longest simple trail of
// roads. A trail may revisit a node but never reuse a road, and it cannot
// pass through a node built on by an opponent.
func (gs *GameState) LongestRoad(player int) int {
	var owned []hex.EdgeKey
	for _, e := range gs.Board.AllEdges() {
		if path, _ := gs.Board.TryGetEdge(e); path.Owner == player {
			owned = append(owned, e)
		}
	}

	best := 0
	visited := make(map[hex.EdgeKey]bool, len(owned))
	var walk func(at hex.VertexKey, length int)
	walk = func(at hex.VertexKey, length int) {
		best = max(best, length)
		if node, ok := gs.Board.TryGetVertex(at); ok && node.Owner >= 0 && node.Owner != player {
			return
		}
		for _, e := range at.ProtrudingEdges() {
			if visited[e] {
				continue
			}
			if path, ok := gs.Board.TryGetEdge(e); !ok || path.Owner != player {
				continue
			}
			visited[e] = true
			walk(otherEnd(e, at), length+1)
			visited[e] = false
		}
	}
	for _, e := range owned {
		ends := e.Endpoints()
		visited[e] = true
		walk(ends[0], 1)
		walk(ends[1], 1)
		visited[e] = false
	}
	return best
}

func otherEnd(e hex.EdgeKey, v hex.VertexKey) hex.VertexKey {
	ends := e.Endpoints()
	if ends[0] == v.Align() {
		return ends[1]
	}
	return ends[0]
}

// updateLongestRoad recomputes road lengths and moves the longest road
// card. The holder keeps it on a tie; a broken road hands it to a sole
// leader or to nobody.
func (gs *GameState) updateLongestRoad() {
	holder, best, leaders := -1, 0, 0
	for i := range gs.Players {
		p := &gs.Players[i]
		p.RoadLength = gs.LongestRoad(i)
		if p.LongestRoad {
			holder = i
		}
		switch {
		case p.RoadLength > best:
			best, leaders = p.RoadLength, 1
		case p.RoadLength == best:
			leaders++
		}
	}

	if holder >= 0 && gs.Players[holder].RoadLength == best && best >= LongestRoadMinimum {
		return
	}
	if holder >= 0 {
		gs.Players[holder].LongestRoad = false
		gs.Players[holder].VictoryPoints -= SpecialCardPoints
	}
	if best < LongestRoadMinimum || leaders != 1 {
		return
	}
	for i := range gs.Players {
		if gs.Players[i].RoadLength == best {
			gs.Players[i].LongestRoad = true
			gs.Players[i].VictoryPoints += SpecialCardPoints
		}
	}
}

// updateLargestArmy awards the largest army card once the player has at
// least three knights and strictly more than the holder.
func (gs *GameState) updateLargestArmy(player int) {
	p := &gs.Players[player]
	if p.LargestArmy || p.KnightsPlayed < LargestArmyMinimum {
		return
	}
	for i := range gs.Players {
		if i != player && gs.Players[i].LargestArmy {
			if gs.Players[i].KnightsPlayed >= p.KnightsPlayed {
				return
			}
			gs.Players[i].LargestArmy = false
			gs.Players[i].VictoryPoints -= SpecialCardPoints
		}
	}
	p.LargestArmy = true
	p.VictoryPoints += SpecialCardPoints
}
