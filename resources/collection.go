// Package resources models hands of resource cards and the bank.
package resources

import (
	"fmt"
	"iter"
	"strings"
)

// Type is a producible resource. Empty stands for the desert and never
// holds cards.
type Type int

const (
	Brick Type = iota
	Grain
	Lumber
	Ore
	Wool
	Empty
)

// NumTypes is the number of real resource types.
const NumTypes = 5

// Types lists the real resource types in the fixed walk order.
var Types = [NumTypes]Type{Brick, Grain, Lumber, Ore, Wool}

var typeNames = [...]string{"Brick", "Grain", "Lumber", "Ore", "Wool", "Empty"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Collection counts cards per real resource type. It is a value type:
// assignment copies it.
type Collection [NumTypes]int

var (
	RoadCost       = Collection{Brick: 1, Lumber: 1}
	SettlementCost = Collection{Brick: 1, Grain: 1, Lumber: 1, Wool: 1}
	CityCost       = Collection{Grain: 2, Ore: 3}
	DevCardCost    = Collection{Grain: 1, Ore: 1, Wool: 1}
)

// Of builds a collection holding n cards of a single type.
func Of(t Type, n int) Collection {
	var c Collection
	c.Set(t, n)
	return c
}

// Uniform builds a collection holding n cards of every type.
func Uniform(n int) Collection {
	return Collection{n, n, n, n, n}
}

func (c Collection) Get(t Type) int {
	if t < 0 || t >= Empty {
		return 0
	}
	return c[t]
}

// Set writes n cards of type t. Writes to Empty are ignored.
func (c *Collection) Set(t Type, n int) {
	if t < 0 || t >= Empty {
		return
	}
	c[t] = n
}

func (c Collection) Add(o Collection) Collection {
	for i := range c {
		c[i] += o[i]
	}
	return c
}

func (c Collection) Sub(o Collection) Collection {
	for i := range c {
		c[i] -= o[i]
	}
	return c
}

func (c Collection) Scale(k int) Collection {
	for i := range c {
		c[i] *= k
	}
	return c
}

// Count returns the total number of cards.
func (c Collection) Count() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

func (c Collection) IsEmpty() bool {
	return c == Collection{}
}

func (c Collection) Clone() Collection {
	return c
}

// GreaterEq reports whether every component of c is >= the matching
// component of o. It is not an ordering: both c.GreaterEq(o) and
// c.Less(o) may be false.
func (c Collection) GreaterEq(o Collection) bool {
	for i := range c {
		if c[i] < o[i] {
			return false
		}
	}
	return true
}

func (c Collection) LessEq(o Collection) bool {
	return o.GreaterEq(c)
}

func (c Collection) Greater(o Collection) bool {
	for i := range c {
		if c[i] <= o[i] {
			return false
		}
	}
	return true
}

func (c Collection) Less(o Collection) bool {
	return o.Greater(c)
}

func (c Collection) String() string {
	var parts []string
	for _, t := range Types {
		if n := c[t]; n != 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", t, n))
		}
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// RecurseOptions yields every distinct collection of exactly target cards
// that can be drawn from hand, added on top of current. Each combination is
// produced once.
func RecurseOptions(hand, current Collection, target int) iter.Seq[Collection] {
	return func(yield func(Collection) bool) {
		if target < 0 || target > hand.Count() {
			return
		}
		recurseOptions(hand, current, 0, target, yield)
	}
}

func recurseOptions(hand, current Collection, index, remaining int, yield func(Collection) bool) bool {
	if remaining == 0 {
		return yield(current)
	}
	if index == NumTypes {
		return true
	}
	// Cards left in later types bound how few we may take here.
	later := 0
	for i := index + 1; i < NumTypes; i++ {
		later += hand[i]
	}
	for take := min(hand[index], remaining); take >= 0 && take >= remaining-later; take-- {
		next := current
		next[index] += take
		if !recurseOptions(hand, next, index+1, remaining-take, yield) {
			return false
		}
	}
	return true
}
