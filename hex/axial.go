// Package hex provides axial addressing for a flat-topped hexagonal board and a
// sparse grid store keyed by canonical tile, edge and vertex positions.
package hex

import "fmt"

// Axial identifies a hex by column Q and row R. The implicit third cube
// coordinate is S = -Q - R.
type Axial struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Direction indexes the six neighbors of a flat-topped hex.
type Direction int

const (
	North Direction = iota
	NorthEast
	SouthEast
	South
	SouthWest
	NorthWest
)

var directions = [6]Axial{
	North:     {Q: 0, R: -1},
	NorthEast: {Q: 1, R: -1},
	SouthEast: {Q: 1, R: 0},
	South:     {Q: 0, R: 1},
	SouthWest: {Q: -1, R: 1},
	NorthWest: {Q: -1, R: 0},
}

func (a Axial) S() int {
	return -a.Q - a.R
}

func (a Axial) Add(b Axial) Axial {
	return Axial{Q: a.Q + b.Q, R: a.R + b.R}
}

func (a Axial) Sub(b Axial) Axial {
	return Axial{Q: a.Q - b.Q, R: a.R - b.R}
}

func (a Axial) Scale(k int) Axial {
	return Axial{Q: a.Q * k, R: a.R * k}
}

// Neighbor returns the adjacent position in direction d.
func (a Axial) Neighbor(d Direction) Axial {
	return a.Add(directions[d])
}

// Neighbors returns the six adjacent positions in Direction order.
func (a Axial) Neighbors() [6]Axial {
	var result [6]Axial
	for i, dir := range directions {
		result[i] = a.Add(dir)
	}
	return result
}

// Distance returns the hex distance between two positions.
func Distance(a, b Axial) int {
	d := a.Sub(b)
	return max(abs(d.Q), abs(d.R), abs(d.S()))
}

// Within reports whether a lies at most radius steps from the origin.
func (a Axial) Within(radius int) bool {
	return Distance(a, Axial{}) <= radius
}

// Spiral lists every position within radius of the origin, ring by ring,
// starting at the origin. The order is fixed so boards built from it are
// reproducible.
func Spiral(radius int) []Axial {
	result := []Axial{{}}
	for ring := 1; ring <= radius; ring++ {
		pos := directions[SouthWest].Scale(ring)
		for side := 0; side < 6; side++ {
			for step := 0; step < ring; step++ {
				result = append(result, pos)
				pos = pos.Add(directions[side])
			}
		}
	}
	return result
}

// Less orders positions by row, then column.
func (a Axial) Less(b Axial) bool {
	if a.R != b.R {
		return a.R < b.R
	}
	return a.Q < b.Q
}

func (a Axial) String() string {
	return fmt.Sprintf("(%d,%d)", a.Q, a.R)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
