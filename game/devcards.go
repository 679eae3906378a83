package game

import "fmt"

type DevCard int

const (
	Knight DevCard = iota
	VictoryPoint
	RoadBuilding
	YearOfPlenty
	Monopoly
)

const NumDevCards = 5

var devCardNames = [NumDevCards]string{"Knight", "VictoryPoint", "RoadBuilding", "YearOfPlenty", "Monopoly"}

func (c DevCard) String() string {
	if c < 0 || int(c) >= NumDevCards {
		return fmt.Sprintf("DevCard(%d)", int(c))
	}
	return devCardNames[c]
}

// DevDeck counts development cards per type. The draw pile is kept as
// counts rather than an ordered deck: drawing picks a type with
// probability proportional to its count, which is exactly what a shuffled
// deck offers to a player who cannot see it.
type DevDeck [NumDevCards]int

func (d DevDeck) Count() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// Draw returns the card at position i of the deck in type order, for
// 0 <= i < Count().
func (d DevDeck) Draw(i int) DevCard {
	for c, n := range d {
		if i < n {
			return DevCard(c)
		}
		i -= n
	}
	panic(fmt.Sprintf("cannot draw card %d from a deck of %d", i, d.Count()))
}
