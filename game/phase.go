package game

import "fmt"

type Phase int

const (
	PreGameSettlementPhase Phase = iota
	PreGameRoadPhase
	TurnStartPhase
	TurnMainPhase
	DiscardPhase
	RobberPhase
	numPhases
)

var phaseNames = [numPhases]string{"PreGameSettlement", "PreGameRoad", "TurnStart", "TurnMain", "Discard", "Robber"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// setupOrder is the seat offset of each setup placement: forward then
// back, so the last player to place first also places first in the second
// round.
var setupOrder = [2 * NumPlayers]int{0, 1, 2, 3, 3, 2, 1, 0}

// allowed lists the action types each phase accepts.
var allowed = [numPhases][numActionTypes]bool{
	PreGameSettlementPhase: {BuildSettlementAction: true},
	PreGameRoadPhase:       {BuildRoadAction: true},
	TurnStartPhase:         {RollDiceAction: true, KnightAction: true},
	TurnMainPhase: {
		TradeAction:           true,
		BuildRoadAction:       true,
		BuildSettlementAction: true,
		BuildCityAction:       true,
		BuyDevCardAction:      true,
		KnightAction:          true,
		MonopolyAction:        true,
		RoadBuildingAction:    true,
		YearOfPlentyAction:    true,
		EndTurnAction:         true,
	},
	DiscardPhase: {DiscardAction: true},
	RobberPhase:  {RobberAction: true},
}

// Allows reports whether the phase accepts an action type.
func (p Phase) Allows(t ActionType) bool {
	if p < 0 || p >= numPhases || t < 0 || t >= numActionTypes {
		return false
	}
	return allowed[p][t]
}

// IsSetup reports whether the game is still in initial placement.
func (p Phase) IsSetup() bool {
	return p == PreGameSettlementPhase || p == PreGameRoadPhase
}

// advance moves the game to the phase that follows a successfully executed
// action.
func (gs *GameState) advance(a Action) {
	switch gs.Phase {
	case PreGameSettlementPhase:
		gs.LastSettlement = a.Vertex
		gs.Phase = PreGameRoadPhase

	case PreGameRoadPhase:
		gs.SetupStep++
		if gs.SetupStep == len(setupOrder) {
			gs.Offset = 0
			gs.Phase = TurnStartPhase
			return
		}
		gs.Offset = setupOrder[gs.SetupStep]
		gs.Phase = PreGameSettlementPhase

	case TurnStartPhase:
		// A knight before the roll keeps the turn at its start.
		if a.Type != RollDiceAction {
			return
		}
		if a.Roll == 7 {
			gs.startDiscards()
		} else {
			gs.Phase = TurnMainPhase
		}

	case TurnMainPhase:
		if a.Type == EndTurnAction {
			gs.Turn = (gs.Turn + 1) % NumPlayers
			gs.Offset = 0
			gs.Phase = TurnStartPhase
		}

	case DiscardPhase:
		gs.PendingDiscard[a.Owner] = false
		gs.nextDiscard()

	case RobberPhase:
		gs.Offset = 0
		gs.Phase = TurnMainPhase
	}
}

// startDiscards marks every over-limit hand after a seven.
func (gs *GameState) startDiscards() {
	for i := range gs.Players {
		gs.PendingDiscard[i] = gs.Players[i].Hand.Count() > MaxHandSize
	}
	gs.nextDiscard()
}

// nextDiscard hands control to the next player, in seat order from the
// roller, who still owes a discard. Once nobody does the roller moves the
// robber.
func (gs *GameState) nextDiscard() {
	for offset := range NumPlayers {
		if gs.PendingDiscard[(gs.Turn+offset)%NumPlayers] {
			gs.Offset = offset
			gs.Phase = DiscardPhase
			return
		}
	}
	gs.Offset = 0
	gs.Phase = RobberPhase
}
