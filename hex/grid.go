package hex

import "sort"

// container owns the features rooted at one position: the tile itself, the
// N/NE/NW edges and the W/E vertices. Every other side is reached by
// aligning onto a neighbor's container.
type container[T, E, V any] struct {
	tile     T
	hasTile  bool
	edges    [3]E
	hasEdge  [3]bool
	vertices [2]V
	hasVert  [2]bool
}

// Grid is a sparse store of tiles, edges and vertices keyed by axial
// position. Features are held by value, so Clone is a deep copy as long as
// T, E and V are plain values.
type Grid[T, E, V any] struct {
	containers map[Axial]*container[T, E, V]
	positions  []Axial // sorted by Axial.Less
}

func NewGrid[T, E, V any]() *Grid[T, E, V] {
	return &Grid[T, E, V]{
		containers: make(map[Axial]*container[T, E, V]),
	}
}

func (g *Grid[T, E, V]) at(pos Axial) *container[T, E, V] {
	c, ok := g.containers[pos]
	if !ok {
		c = &container[T, E, V]{}
		g.containers[pos] = c
		i := sort.Search(len(g.positions), func(i int) bool {
			return !g.positions[i].Less(pos)
		})
		g.positions = append(g.positions, Axial{})
		copy(g.positions[i+1:], g.positions[i:])
		g.positions[i] = pos
	}
	return c
}

func (g *Grid[T, E, V]) InsertHex(pos Axial, tile T) {
	c := g.at(pos)
	c.tile = tile
	c.hasTile = true
}

func (g *Grid[T, E, V]) InsertEdge(key EdgeKey, edge E) {
	key = key.Align()
	c := g.at(key.Pos)
	slot := key.Side.slot()
	c.edges[slot] = edge
	c.hasEdge[slot] = true
}

func (g *Grid[T, E, V]) InsertVertex(key VertexKey, vertex V) {
	key = key.Align()
	c := g.at(key.Pos)
	slot := key.Side.slot()
	c.vertices[slot] = vertex
	c.hasVert[slot] = true
}

func (g *Grid[T, E, V]) TryGetHex(pos Axial) (T, bool) {
	var zero T
	c, ok := g.containers[pos]
	if !ok || !c.hasTile {
		return zero, false
	}
	return c.tile, true
}

func (g *Grid[T, E, V]) TryGetEdge(key EdgeKey) (E, bool) {
	var zero E
	key = key.Align()
	c, ok := g.containers[key.Pos]
	if !ok {
		return zero, false
	}
	slot := key.Side.slot()
	if !c.hasEdge[slot] {
		return zero, false
	}
	return c.edges[slot], true
}

func (g *Grid[T, E, V]) TryGetVertex(key VertexKey) (V, bool) {
	var zero V
	key = key.Align()
	c, ok := g.containers[key.Pos]
	if !ok {
		return zero, false
	}
	slot := key.Side.slot()
	if !c.hasVert[slot] {
		return zero, false
	}
	return c.vertices[slot], true
}

// AllHexes lists populated tile positions in row-major order.
func (g *Grid[T, E, V]) AllHexes() []Axial {
	result := make([]Axial, 0, len(g.positions))
	for _, pos := range g.positions {
		if g.containers[pos].hasTile {
			result = append(result, pos)
		}
	}
	return result
}

// AllEdges lists populated canonical edge keys in row-major order.
func (g *Grid[T, E, V]) AllEdges() []EdgeKey {
	var result []EdgeKey
	for _, pos := range g.positions {
		c := g.containers[pos]
		for slot, side := range edgeSlotSides {
			if c.hasEdge[slot] {
				result = append(result, EdgeKey{Pos: pos, Side: side})
			}
		}
	}
	return result
}

// AllVertices lists populated canonical vertex keys in row-major order.
func (g *Grid[T, E, V]) AllVertices() []VertexKey {
	var result []VertexKey
	for _, pos := range g.positions {
		c := g.containers[pos]
		for slot, side := range vertexSlotSides {
			if c.hasVert[slot] {
				result = append(result, VertexKey{Pos: pos, Side: side})
			}
		}
	}
	return result
}

// Clone deep-copies every container.
func (g *Grid[T, E, V]) Clone() *Grid[T, E, V] {
	clone := &Grid[T, E, V]{
		containers: make(map[Axial]*container[T, E, V], len(g.containers)),
		positions:  make([]Axial, len(g.positions)),
	}
	copy(clone.positions, g.positions)
	for pos, c := range g.containers {
		cc := *c
		clone.containers[pos] = &cc
	}
	return clone
}
