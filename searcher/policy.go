package searcher

import "math"

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

// evaluate scores a child with mean reward q over n visits.
func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/W + sqrt(c^2*ln(N)/n)
	return q/WinReward + math.Sqrt(u.numerator/n)
}
