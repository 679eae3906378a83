package hex

import "fmt"

// EdgeSide names one of the six sides of a flat-topped hex.
type EdgeSide int

const (
	EdgeN EdgeSide = iota
	EdgeNE
	EdgeSE
	EdgeS
	EdgeSW
	EdgeNW
)

var edgeSideNames = [...]string{"N", "NE", "SE", "S", "SW", "NW"}

func (s EdgeSide) String() string {
	if s < 0 || int(s) >= len(edgeSideNames) {
		return fmt.Sprintf("EdgeSide(%d)", int(s))
	}
	return edgeSideNames[s]
}

// slot returns the container slot of a canonical side, or -1.
func (s EdgeSide) slot() int {
	switch s {
	case EdgeN:
		return 0
	case EdgeNE:
		return 1
	case EdgeNW:
		return 2
	}
	return -1
}

var edgeSlotSides = [3]EdgeSide{EdgeN, EdgeNE, EdgeNW}

// VertexSide names one of the six corners of a flat-topped hex.
type VertexSide int

const (
	VertexE VertexSide = iota
	VertexNE
	VertexNW
	VertexW
	VertexSW
	VertexSE
)

var vertexSideNames = [...]string{"E", "NE", "NW", "W", "SW", "SE"}

func (s VertexSide) String() string {
	if s < 0 || int(s) >= len(vertexSideNames) {
		return fmt.Sprintf("VertexSide(%d)", int(s))
	}
	return vertexSideNames[s]
}

func (s VertexSide) slot() int {
	switch s {
	case VertexW:
		return 0
	case VertexE:
		return 1
	}
	return -1
}

var vertexSlotSides = [2]VertexSide{VertexW, VertexE}

// EdgeKey addresses an edge relative to one of its two adjacent hexes.
type EdgeKey struct {
	Pos  Axial    `json:"pos"`
	Side EdgeSide `json:"side"`
}

// Align rewrites the key onto its canonical N, NE or NW form.
func (k EdgeKey) Align() EdgeKey {
	switch k.Side {
	case EdgeS:
		return EdgeKey{Pos: k.Pos.Neighbor(South), Side: EdgeN}
	case EdgeSE:
		return EdgeKey{Pos: k.Pos.Neighbor(SouthEast), Side: EdgeNW}
	case EdgeSW:
		return EdgeKey{Pos: k.Pos.Neighbor(SouthWest), Side: EdgeNE}
	}
	return k
}

// Endpoints returns the two aligned vertices joined by the edge.
func (k EdgeKey) Endpoints() [2]VertexKey {
	k = k.Align()
	q, r := k.Pos.Q, k.Pos.R
	switch k.Side {
	case EdgeN:
		return [2]VertexKey{
			{Pos: Axial{Q: q - 1, R: r}, Side: VertexE},
			{Pos: Axial{Q: q + 1, R: r - 1}, Side: VertexW},
		}
	case EdgeNE:
		return [2]VertexKey{
			{Pos: Axial{Q: q + 1, R: r - 1}, Side: VertexW},
			{Pos: k.Pos, Side: VertexE},
		}
	case EdgeNW:
		return [2]VertexKey{
			{Pos: k.Pos, Side: VertexW},
			{Pos: Axial{Q: q - 1, R: r}, Side: VertexE},
		}
	}
	panic(fmt.Sprintf("unaligned edge key %v", k))
}

// Hexes returns the two positions sharing the edge.
func (k EdgeKey) Hexes() [2]Axial {
	k = k.Align()
	switch k.Side {
	case EdgeN:
		return [2]Axial{k.Pos, k.Pos.Neighbor(North)}
	case EdgeNE:
		return [2]Axial{k.Pos, k.Pos.Neighbor(NorthEast)}
	case EdgeNW:
		return [2]Axial{k.Pos, k.Pos.Neighbor(NorthWest)}
	}
	panic(fmt.Sprintf("unaligned edge key %v", k))
}

// Less orders aligned edge keys by position, then side.
func (k EdgeKey) Less(o EdgeKey) bool {
	if k.Pos != o.Pos {
		return k.Pos.Less(o.Pos)
	}
	return k.Side < o.Side
}

func (k EdgeKey) String() string {
	return fmt.Sprintf("%v%v", k.Pos, k.Side)
}

// VertexKey addresses a vertex relative to one of its three adjacent hexes.
type VertexKey struct {
	Pos  Axial      `json:"pos"`
	Side VertexSide `json:"side"`
}

// Align rewrites the key onto its canonical W or E form.
func (k VertexKey) Align() VertexKey {
	q, r := k.Pos.Q, k.Pos.R
	switch k.Side {
	case VertexNE:
		return VertexKey{Pos: Axial{Q: q + 1, R: r - 1}, Side: VertexW}
	case VertexNW:
		return VertexKey{Pos: Axial{Q: q - 1, R: r}, Side: VertexE}
	case VertexSE:
		return VertexKey{Pos: Axial{Q: q + 1, R: r}, Side: VertexW}
	case VertexSW:
		return VertexKey{Pos: Axial{Q: q - 1, R: r + 1}, Side: VertexE}
	}
	return k
}

// AdjacentVertices returns the three aligned vertices one edge away.
func (k VertexKey) AdjacentVertices() [3]VertexKey {
	k = k.Align()
	q, r := k.Pos.Q, k.Pos.R
	if k.Side == VertexW {
		return [3]VertexKey{
			{Pos: Axial{Q: q - 1, R: r}, Side: VertexE},
			{Pos: Axial{Q: q - 1, R: r + 1}, Side: VertexE},
			{Pos: Axial{Q: q - 2, R: r + 1}, Side: VertexE},
		}
	}
	return [3]VertexKey{
		{Pos: Axial{Q: q + 1, R: r - 1}, Side: VertexW},
		{Pos: Axial{Q: q + 1, R: r}, Side: VertexW},
		{Pos: Axial{Q: q + 2, R: r - 1}, Side: VertexW},
	}
}

// ProtrudingEdges returns the three aligned edges meeting at the vertex.
func (k VertexKey) ProtrudingEdges() [3]EdgeKey {
	k = k.Align()
	q, r := k.Pos.Q, k.Pos.R
	if k.Side == VertexW {
		return [3]EdgeKey{
			{Pos: k.Pos, Side: EdgeNW},
			{Pos: Axial{Q: q - 1, R: r + 1}, Side: EdgeNE},
			{Pos: Axial{Q: q - 1, R: r + 1}, Side: EdgeN},
		}
	}
	return [3]EdgeKey{
		{Pos: k.Pos, Side: EdgeNE},
		{Pos: Axial{Q: q + 1, R: r}, Side: EdgeNW},
		{Pos: Axial{Q: q + 1, R: r}, Side: EdgeN},
	}
}

// AdjacentHexes returns the three positions touching the vertex.
func (k VertexKey) AdjacentHexes() [3]Axial {
	k = k.Align()
	if k.Side == VertexW {
		return [3]Axial{k.Pos, k.Pos.Neighbor(NorthWest), k.Pos.Neighbor(SouthWest)}
	}
	return [3]Axial{k.Pos, k.Pos.Neighbor(NorthEast), k.Pos.Neighbor(SouthEast)}
}

func (k VertexKey) Less(o VertexKey) bool {
	if k.Pos != o.Pos {
		return k.Pos.Less(o.Pos)
	}
	return k.Side < o.Side
}

func (k VertexKey) String() string {
	return fmt.Sprintf("%v%v", k.Pos, k.Side)
}

// Vertices returns the six aligned corners of the hex at a.
func (a Axial) Vertices() [6]VertexKey {
	var result [6]VertexKey
	for side := VertexE; side <= VertexSE; side++ {
		result[side] = VertexKey{Pos: a, Side: side}.Align()
	}
	return result
}

// Edges returns the six aligned sides of the hex at a.
func (a Axial) Edges() [6]EdgeKey {
	var result [6]EdgeKey
	for side := EdgeN; side <= EdgeNW; side++ {
		result[side] = EdgeKey{Pos: a, Side: side}.Align()
	}
	return result
}
