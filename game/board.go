package game

import (
	"fmt"
	"math"
	"sort"

	"catan/hex"
	"catan/resources"

	"golang.org/x/exp/rand"
)

// Port is a harbor trade ratio attached to a coastal node.
type Port int

const (
	NoPort Port = iota
	GenericPort
	// specific ports follow, one per resource type in resources.Types order
)

// PortFor returns the 2:1 port for a resource type.
func PortFor(t resources.Type) Port {
	return Port(int(GenericPort) + 1 + int(t))
}

// Resource returns the resource a specific port trades, or Empty.
func (p Port) Resource() resources.Type {
	if p <= GenericPort {
		return resources.Empty
	}
	return resources.Type(int(p) - int(GenericPort) - 1)
}

func (p Port) String() string {
	switch p {
	case NoPort:
		return "None"
	case GenericPort:
		return "3:1"
	default:
		return fmt.Sprintf("2:1 %s", p.Resource())
	}
}

// Tile is a land hex. Value is the number token, 0 for the desert.
type Tile struct {
	Resource resources.Type
	Value    int
	Robber   bool
}

// Node is a settlement spot. Owner is -1 while unbuilt.
type Node struct {
	Owner int
	City  bool
	Port  Port
}

// Path is a road spot. Owner is -1 while unbuilt.
type Path struct {
	Owner int
}

type Board = hex.Grid[Tile, Path, Node]

// newBoard lays the shuffled resource and value spreads over a spiral of
// hexes and creates every edge and vertex touching land.
func newBoard(rules *Rules, rng *rand.Rand) (board *Board, robber hex.Axial, valueMap map[int][]hex.Axial) {
	positions := hex.Spiral(BoardRadius)
	if len(rules.ResourceSpread) != len(positions) {
		panic(fmt.Sprintf("resource spread has %d tiles, board has %d hexes", len(rules.ResourceSpread), len(positions)))
	}

	spread := append([]resources.Type(nil), rules.ResourceSpread...)
	values := append([]int(nil), rules.ValueSpread...)
	rng.Shuffle(len(spread), func(i, j int) { spread[i], spread[j] = spread[j], spread[i] })
	rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })

	board = hex.NewGrid[Tile, Path, Node]()
	valueMap = make(map[int][]hex.Axial)
	next := 0
	for i, pos := range positions {
		tile := Tile{Resource: spread[i]}
		if tile.Resource == resources.Empty {
			tile.Robber = true
			robber = pos
		} else {
			if next >= len(values) {
				panic("value spread is shorter than the producing tiles")
			}
			tile.Value = values[next]
			next++
			valueMap[tile.Value] = append(valueMap[tile.Value], pos)
		}
		board.InsertHex(pos, tile)
		for _, e := range pos.Edges() {
			board.InsertEdge(e, Path{Owner: -1})
		}
		for _, v := range pos.Vertices() {
			board.InsertVertex(v, Node{Owner: -1})
		}
	}

	placePorts(board, rules.Ports, rng)
	return board, robber, valueMap
}

// placePorts spreads ports evenly around the coastline. Coastal edges are
// walked by angle around the origin and every k-th edge receives a port, so
// no two ports share a node.
func placePorts(board *Board, ports []Port, rng *rand.Rand) {
	if len(ports) == 0 {
		return
	}
	coast := coastalEdges(board)
	if len(coast) < 2*len(ports) {
		panic(fmt.Sprintf("cannot place %d ports on %d coastal edges", len(ports), len(coast)))
	}
	shuffled := append([]Port(nil), ports...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	for i, port := range shuffled {
		edge := coast[i*len(coast)/len(shuffled)]
		for _, v := range edge.Endpoints() {
			node, _ := board.TryGetVertex(v)
			node.Port = port
			board.InsertVertex(v, node)
		}
	}
}

// coastalEdges returns the edges with land on exactly one side, ordered by
// angle around the board center.
func coastalEdges(board *Board) []hex.EdgeKey {
	var coast []hex.EdgeKey
	for _, e := range board.AllEdges() {
		land := 0
		for _, h := range e.Hexes() {
			if _, ok := board.TryGetHex(h); ok {
				land++
			}
		}
		if land == 1 {
			coast = append(coast, e)
		}
	}
	sort.SliceStable(coast, func(i, j int) bool {
		return edgeAngle(coast[i]) < edgeAngle(coast[j])
	})
	return coast
}

func edgeAngle(e hex.EdgeKey) float64 {
	var x, y float64
	for _, h := range e.Hexes() {
		x += 1.5 * float64(h.Q)
		y += math.Sqrt(3) * (float64(h.R) + float64(h.Q)/2)
	}
	return math.Atan2(y, x)
}
