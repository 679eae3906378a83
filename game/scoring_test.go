package game

import (
	"testing"

	"catan/hex"

	"github.com/stretchr/testify/require"
)

// buildTrail lays n roads for player in a simple path starting at start and
// returns the visited nodes in order.
func buildTrail(t *testing.T, gs *GameState, player int, start hex.VertexKey, n int) []hex.VertexKey {
	t.Helper()
	at := start.Align()
	trail := []hex.VertexKey{at}
	visited := map[hex.VertexKey]bool{at: true}
	for range n {
		moved := false
		for _, e := range at.ProtrudingEdges() {
			path, ok := gs.Board.TryGetEdge(e)
			next := otherEnd(e, at)
			if !ok || path.Owner >= 0 || visited[next] {
				continue
			}
			gs.Board.InsertEdge(e, Path{Owner: player})
			gs.Players[player].Roads--
			at = next
			visited[at] = true
			trail = append(trail, at)
			moved = true
			break
		}
		if !moved {
			t.Fatalf("trail for player %d got stuck at %v", player, at)
		}
	}
	return trail
}

func TestLongestRoad(t *testing.T) {
	t.Run("a simple path counts every road", func(t *testing.T) {
		gs := newTurnGame(20)
		buildTrail(t, gs, 0, hex.VertexKey{Pos: hex.Axial{}, Side: hex.VertexW}, 5)

		require.Equal(t, 5, gs.LongestRoad(0))
		require.Zero(t, gs.LongestRoad(1))
	})

	t.Run("an opponent settlement splits the road", func(t *testing.T) {
		gs := newTurnGame(21)
		trail := buildTrail(t, gs, 0, hex.VertexKey{Pos: hex.Axial{}, Side: hex.VertexW}, 5)

		build(gs, 1, trail[2], false)

		require.Equal(t, 3, gs.LongestRoad(0), "Road should split into two and three")
	})

	t.Run("own buildings do not split the road", func(t *testing.T) {
		gs := newTurnGame(22)
		trail := buildTrail(t, gs, 0, hex.VertexKey{Pos: hex.Axial{}, Side: hex.VertexW}, 5)

		build(gs, 0, trail[2], false)

		require.Equal(t, 5, gs.LongestRoad(0))
	})

	t.Run("a branch does not lengthen the road", func(t *testing.T) {
		gs := newTurnGame(23)
		trail := buildTrail(t, gs, 0, hex.VertexKey{Pos: hex.Axial{}, Side: hex.VertexW}, 3)
		// Spur one road off the middle of the path.
		buildTrail(t, gs, 0, trail[1], 1)

		require.Equal(t, 3, gs.LongestRoad(0))
	})
}

func TestLongestRoadCard(t *testing.T) {
	west := hex.VertexKey{Pos: hex.Axial{Q: 0, R: -1}, Side: hex.VertexW}
	east := hex.VertexKey{Pos: hex.Axial{Q: 0, R: 1}, Side: hex.VertexE}

	// Player 1 claims the card with five roads before player 0 builds.
	setup := func(t *testing.T, roads int) (*GameState, []hex.VertexKey) {
		gs := newTurnGame(24)
		trail := buildTrail(t, gs, 1, east, 5)
		gs.updateLongestRoad()
		require.True(t, gs.Players[1].LongestRoad)
		require.Equal(t, SpecialCardPoints, gs.Players[1].VictoryPoints)

		buildTrail(t, gs, 0, west, roads)
		gs.updateLongestRoad()
		return gs, trail
	}

	t.Run("short roads do not qualify", func(t *testing.T) {
		gs, _ := setup(t, 4)
		require.Equal(t, 4, gs.Players[0].RoadLength)
		require.False(t, gs.Players[0].LongestRoad)
	})

	t.Run("holder keeps the card on a tie", func(t *testing.T) {
		gs, _ := setup(t, 5)
		require.Equal(t, 5, gs.Players[0].RoadLength)
		require.True(t, gs.Players[1].LongestRoad)
		require.False(t, gs.Players[0].LongestRoad)
	})

	t.Run("a longer road takes the card", func(t *testing.T) {
		gs, _ := setup(t, 6)
		require.True(t, gs.Players[0].LongestRoad)
		require.False(t, gs.Players[1].LongestRoad)
		require.Zero(t, gs.Players[1].VictoryPoints)
		require.Equal(t, SpecialCardPoints, gs.Players[0].VictoryPoints)
	})

	t.Run("a broken road below the minimum returns the card", func(t *testing.T) {
		gs, trail := setup(t, 4)
		build(gs, 2, trail[2], false)
		gs.updateLongestRoad()

		require.Equal(t, 3, gs.Players[1].RoadLength)
		require.False(t, gs.Players[1].LongestRoad)
		require.False(t, gs.Players[0].LongestRoad, "Four roads do not qualify")
		require.Zero(t, gs.Players[1].VictoryPoints)
	})
}
