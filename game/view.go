package game

import (
	"catan/hex"
	"catan/resources"

	"golang.org/x/exp/rand"
)

type TileView struct {
	Pos      hex.Axial      `json:"pos"`
	Resource resources.Type `json:"resource"`
	Value    int            `json:"value"`
	Robber   bool           `json:"robber,omitempty"`
}

type NodeView struct {
	Key   hex.VertexKey `json:"key"`
	Owner int           `json:"owner"`
	City  bool          `json:"city,omitempty"`
	Port  Port          `json:"port,omitempty"`
}

type PathView struct {
	Key   hex.EdgeKey `json:"key"`
	Owner int         `json:"owner"`
}

// PlayerView is what everyone can see of a seat. Hand and DevCards are only
// filled in for the viewing player.
type PlayerView struct {
	ID            int                   `json:"id"`
	VictoryPoints int                   `json:"victoryPoints"`
	HandSize      int                   `json:"handSize"`
	DevCardCount  int                   `json:"devCardCount"`
	Settlements   int                   `json:"settlements"`
	Cities        int                   `json:"cities"`
	Roads         int                   `json:"roads"`
	KnightsPlayed int                   `json:"knightsPlayed"`
	RoadLength    int                   `json:"roadLength"`
	LongestRoad   bool                  `json:"longestRoad,omitempty"`
	LargestArmy   bool                  `json:"largestArmy,omitempty"`
	Hand          *resources.Collection `json:"hand,omitempty"`
	DevCards      *DevDeck              `json:"devCards,omitempty"`
	TotalPoints   int                   `json:"totalPoints,omitempty"`
}

// View is a snapshot of the game with hidden information removed.
type View struct {
	Perspective   int                  `json:"perspective"`
	Phase         Phase                `json:"phase"`
	PhaseName     string               `json:"phaseName"`
	Turn          int                  `json:"turn"`
	CurrentPlayer int                  `json:"currentPlayer"`
	LastRoll      int                  `json:"lastRoll"`
	Robber        hex.Axial            `json:"robber"`
	Bank          resources.Collection `json:"bank"`
	DevDeckSize   int                  `json:"devDeckSize"`
	Winner        int                  `json:"winner"`
	Moves         int                  `json:"moves"`
	Tiles         []TileView           `json:"tiles"`
	Nodes         []NodeView           `json:"nodes"`
	Paths         []PathView           `json:"paths"`
	Players       []PlayerView         `json:"players"`
}

// PublicView renders the game as seen by perspective. A perspective of -1
// is a spectator who sees no hand.
func (gs *GameState) PublicView(perspective int) View {
	v := View{
		Perspective:   perspective,
		Phase:         gs.Phase,
		PhaseName:     gs.Phase.String(),
		Turn:          gs.Turn,
		CurrentPlayer: gs.CurrentPlayer(),
		LastRoll:      gs.LastRoll,
		Robber:        gs.RobberPos,
		Bank:          gs.Bank,
		DevDeckSize:   gs.DevDeck.Count(),
		Winner:        gs.winner,
		Moves:         gs.Moves,
	}
	for _, pos := range gs.Board.AllHexes() {
		tile, _ := gs.Board.TryGetHex(pos)
		v.Tiles = append(v.Tiles, TileView{Pos: pos, Resource: tile.Resource, Value: tile.Value, Robber: tile.Robber})
	}
	for _, key := range gs.Board.AllVertices() {
		node, _ := gs.Board.TryGetVertex(key)
		v.Nodes = append(v.Nodes, NodeView{Key: key, Owner: node.Owner, City: node.City, Port: node.Port})
	}
	for _, key := range gs.Board.AllEdges() {
		path, _ := gs.Board.TryGetEdge(key)
		v.Paths = append(v.Paths, PathView{Key: key, Owner: path.Owner})
	}
	for i := range gs.Players {
		p := &gs.Players[i]
		pv := PlayerView{
			ID:            p.ID,
			VictoryPoints: p.VictoryPoints,
			HandSize:      p.Hand.Count(),
			DevCardCount:  p.DevCards.Count() + p.NewDevCards.Count(),
			Settlements:   p.Settlements,
			Cities:        p.Cities,
			Roads:         p.Roads,
			KnightsPlayed: p.KnightsPlayed,
			RoadLength:    p.RoadLength,
			LongestRoad:   p.LongestRoad,
			LargestArmy:   p.LargestArmy,
		}
		if i == perspective || gs.winner >= 0 {
			hand := p.Hand
			cards := addDecks(p.DevCards, p.NewDevCards)
			pv.Hand = &hand
			pv.DevCards = &cards
			pv.TotalPoints = p.TotalVictoryPoints()
		}
		v.Players = append(v.Players, pv)
	}
	return v
}

// Determinize returns a copy consistent with what perspective can observe:
// the opponents' development cards and the draw pile are redealt at random
// from the cards perspective cannot see, and the random source is
// reseeded. Hand sizes and the number of cards each opponent holds are
// preserved.
func (gs *GameState) Determinize(perspective int, seed uint64) *GameState {
	d := gs.Clone()
	d.Reseed(seed)

	unseen := d.DevDeck
	for i := range d.Players {
		if i == perspective {
			continue
		}
		unseen = addDecks(unseen, addDecks(d.Players[i].DevCards, d.Players[i].NewDevCards))
	}

	rng := rand.New(rand.NewSource(seed ^ 0x9e3779b97f4a7c15))
	draw := func(n int) DevDeck {
		var dealt DevDeck
		for range n {
			card := unseen.Draw(rng.Intn(unseen.Count()))
			unseen[card]--
			dealt[card]++
		}
		return dealt
	}
	for i := range d.Players {
		if i == perspective {
			continue
		}
		p := &d.Players[i]
		p.DevCards = draw(p.DevCards.Count())
		p.NewDevCards = draw(p.NewDevCards.Count())
	}
	d.DevDeck = unseen
	return d
}
