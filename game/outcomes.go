package game

import (
	"fmt"

	"catan/resources"
)

// Outcomes enumerates every resolution of an action with its probability.
// Resolved and deterministic actions have one outcome of probability 1.
// Probabilities sum to 1.
func (gs *GameState) Outcomes(a Action) []Outcome {
	if !a.IsStochastic() {
		return []Outcome{{Action: a, Probability: 1}}
	}

	var outcomes []Outcome
	switch a.Type {
	case RollDiceAction:
		for sum := 2; sum <= 12; sum++ {
			o := a
			o.Roll = sum
			o.Resolved = true
			outcomes = append(outcomes, Outcome{Action: o, Probability: DiceProbability(sum)})
		}

	case BuyDevCardAction:
		total := gs.DevDeck.Count()
		for card, n := range gs.DevDeck {
			if n == 0 {
				continue
			}
			o := a
			o.Card = DevCard(card)
			o.Resolved = true
			outcomes = append(outcomes, Outcome{Action: o, Probability: float64(n) / float64(total)})
		}

	case RobberAction, KnightAction:
		hand := gs.Players[a.Target].Hand
		total := hand.Count()
		if total == 0 {
			o := a
			o.Resolved = true
			return []Outcome{{Action: o, Probability: 1}}
		}
		for _, t := range resources.Types {
			if hand[t] == 0 {
				continue
			}
			o := a
			o.Stolen = t
			o.Resolved = true
			outcomes = append(outcomes, Outcome{Action: o, Probability: float64(hand[t]) / float64(total)})
		}

	default:
		panic(fmt.Sprintf("no outcomes for stochastic %v", a.Type))
	}
	return outcomes
}

// DiceProbability is the chance two dice sum to s.
func DiceProbability(s int) float64 {
	if s < 2 || s > 12 {
		return 0
	}
	return float64(6-abs(s-7)) / 36
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
