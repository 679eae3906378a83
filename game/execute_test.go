package game

import (
	"testing"

	"catan/hex"
	"catan/resources"

	"github.com/stretchr/testify/require"
)

// newTurnGame skips initial placement and starts player 0's turn on an
// empty board.
func newTurnGame(seed uint64) *GameState {
	gs := NewGameState(WithSeed(seed))
	gs.SetupStep = len(setupOrder)
	gs.Phase = TurnStartPhase
	return gs
}

func give(gs *GameState, player int, c resources.Collection) {
	gs.DoTrade(player, -1, resources.Collection{}, c)
}

func build(gs *GameState, player int, v hex.VertexKey, city bool) {
	node, _ := gs.Board.TryGetVertex(v)
	node.Owner = player
	node.City = city
	gs.Board.InsertVertex(v, node)
}

func rolled(player, roll int) Action {
	a := NewRollDice(player)
	a.Roll = roll
	a.Resolved = true
	return a
}

// producingTile returns some tile other than the desert.
func producingTile(gs *GameState) (hex.Axial, Tile) {
	for _, pos := range gs.Board.AllHexes() {
		if tile, _ := gs.Board.TryGetHex(pos); tile.Resource != resources.Empty {
			return pos, tile
		}
	}
	panic("board has no producing tile")
}

func TestPregame(t *testing.T) {
	gs := NewGameState(WithSeed(3))

	for gs.Phase.IsSetup() {
		legal := gs.LegalActions()
		require.NotEmpty(t, legal, "Setup should always offer a placement")
		require.NoError(t, gs.Execute(legal[0]))
	}

	t.Run("placement snakes forward then back", func(t *testing.T) {
		var owners []int
		for _, rec := range gs.Log {
			if !rec.Synthetic {
				owners = append(owners, rec.Action.Owner)
			}
		}
		require.Equal(t, []int{0, 0, 1, 1, 2, 2, 3, 3, 3, 3, 2, 2, 1, 1, 0, 0}, owners)
	})

	t.Run("first turn belongs to player 0", func(t *testing.T) {
		require.Equal(t, TurnStartPhase, gs.Phase)
		require.Equal(t, 0, gs.CurrentPlayer())
		require.Equal(t, 0, gs.Offset)
	})

	t.Run("everyone holds two settlements and two roads", func(t *testing.T) {
		for _, p := range gs.Players {
			require.Equal(t, MaxSettlements-2, p.Settlements)
			require.Equal(t, MaxRoads-2, p.Roads)
			require.Equal(t, 2, p.VictoryPoints)
		}
	})

	t.Run("second settlement income comes from the bank", func(t *testing.T) {
		income := resources.Collection{}
		for _, rec := range gs.Log {
			if rec.Synthetic {
				income = income.Add(rec.Action.Receiving)
			}
		}
		hands := resources.Collection{}
		for _, p := range gs.Players {
			hands = hands.Add(p.Hand)
		}
		require.Equal(t, income, hands)
		require.Equal(t, resources.Uniform(BankStock), gs.Bank.Add(hands))
	})
}

func TestExecuteRejects(t *testing.T) {
	gs := newTurnGame(4)
	before := gs.Hash()

	err := gs.Execute(NewRollDice(1))
	require.ErrorIs(t, err, ErrNotYourTurn)

	err = gs.Execute(NewEndTurn(0))
	require.ErrorIs(t, err, ErrWrongPhase, "Turn cannot end before the roll")

	gs.Phase = TurnMainPhase
	err = gs.Execute(NewBuildCity(0, hex.VertexKey{Pos: hex.Axial{}, Side: hex.VertexW}))
	require.ErrorIs(t, err, ErrIllegalAction, "Player has no settlement there")

	err = gs.Execute(NewTrade(0, -1, resources.Of(resources.Ore, 4), resources.Of(resources.Wool, 1)))
	require.ErrorIs(t, err, ErrIllegalAction, "Player cannot afford the trade")

	give(gs, 0, resources.Of(resources.Ore, 3))
	err = gs.Execute(NewTrade(0, -1, resources.Of(resources.Ore, 3), resources.Of(resources.Wool, 1)))
	require.ErrorIs(t, err, ErrIllegalAction, "Bank ratio is 4:1 without a port")

	gs.Phase = TurnStartPhase
	gs.Players[0].Hand = resources.Collection{}
	gs.Bank = resources.Uniform(BankStock)
	require.Equal(t, before, gs.Hash(), "Rejected actions should leave the state unchanged")
	require.Empty(t, gs.Log)
}

func TestDistribute(t *testing.T) {
	setup := func(bank int) (*GameState, hex.Axial, resources.Type) {
		gs := newTurnGame(6)
		pos, tile := producingTile(gs)
		gs.TileValueMap = map[int][]hex.Axial{8: {pos}}
		gs.Bank.Set(tile.Resource, bank)
		return gs, pos, tile.Resource
	}

	t.Run("settlements take one and cities two", func(t *testing.T) {
		gs, pos, res := setup(BankStock)
		corners := pos.Vertices()
		build(gs, 0, corners[0], false)
		build(gs, 1, corners[3], true)

		gs.distribute(8)

		require.Equal(t, 1, gs.Players[0].Hand.Get(res))
		require.Equal(t, 2, gs.Players[1].Hand.Get(res))
		require.Equal(t, BankStock-3, gs.Bank.Get(res))
		require.Len(t, gs.Log, 2, "Each payout should be logged")
		require.True(t, gs.Log[0].Synthetic)
	})

	t.Run("shortage with two claimants pays nobody", func(t *testing.T) {
		gs, pos, res := setup(2)
		corners := pos.Vertices()
		build(gs, 0, corners[0], false)
		build(gs, 1, corners[3], true)

		gs.distribute(8)

		require.Zero(t, gs.Players[0].Hand.Count())
		require.Zero(t, gs.Players[1].Hand.Count())
		require.Equal(t, 2, gs.Bank.Get(res))
		require.Empty(t, gs.Log)
	})

	t.Run("shortage with a sole claimant pays what is left", func(t *testing.T) {
		gs, pos, res := setup(2)
		corners := pos.Vertices()
		build(gs, 0, corners[0], true)
		build(gs, 0, corners[3], false)

		gs.distribute(8)

		require.Equal(t, 2, gs.Players[0].Hand.Get(res))
		require.Zero(t, gs.Bank.Get(res))
	})

	t.Run("robber blocks production", func(t *testing.T) {
		gs, pos, _ := setup(BankStock)
		build(gs, 0, pos.Vertices()[0], false)
		gs.RobberPos = pos

		gs.distribute(8)

		require.Zero(t, gs.Players[0].Hand.Count())
	})

	t.Run("rolling executes the distribution after the roll record", func(t *testing.T) {
		gs, pos, res := setup(BankStock)
		build(gs, 0, pos.Vertices()[0], false)

		require.NoError(t, gs.Execute(rolled(0, 8)))

		require.Equal(t, TurnMainPhase, gs.Phase)
		require.Equal(t, 8, gs.LastRoll)
		require.Len(t, gs.Log, 2)
		require.Equal(t, RollDiceAction, gs.Log[0].Action.Type)
		require.False(t, gs.Log[0].Synthetic)
		require.True(t, gs.Log[1].Synthetic)
		require.Equal(t, 1, gs.Players[0].Hand.Get(res))
	})
}

func TestStealIndex(t *testing.T) {
	hand := resources.Collection{resources.Brick: 2, resources.Grain: 1}

	require.Equal(t, resources.Brick, StealIndex(hand, 1))
	require.Equal(t, resources.Brick, StealIndex(hand, 2))
	require.Equal(t, resources.Grain, StealIndex(hand, 3))
	require.Equal(t, resources.Empty, StealIndex(hand, 4), "Index past the hand steals nothing")
	require.Equal(t, resources.Empty, StealIndex(hand, 0))
}

func TestRollSeven(t *testing.T) {
	gs := newTurnGame(8)
	give(gs, 0, resources.Collection{3, 2, 2, 1, 1})
	give(gs, 1, resources.Collection{2, 2, 1, 1, 1})
	give(gs, 2, resources.Collection{2, 2, 2, 1, 1})

	require.NoError(t, gs.Execute(rolled(0, 7)))

	t.Run("roller discards first", func(t *testing.T) {
		require.Equal(t, DiscardPhase, gs.Phase)
		require.Equal(t, 0, gs.CurrentPlayer())
		legal := gs.LegalActions()
		require.NotEmpty(t, legal)
		for _, a := range legal {
			require.Equal(t, DiscardAction, a.Type)
			require.Equal(t, 4, a.Giving.Count(), "Nine cards should discard four")
		}
		require.NoError(t, gs.Execute(legal[0]))
	})

	t.Run("players at seven cards are skipped", func(t *testing.T) {
		require.Equal(t, DiscardPhase, gs.Phase)
		require.Equal(t, 2, gs.CurrentPlayer())
		legal := gs.LegalActions()
		require.Equal(t, 4, legal[0].Giving.Count())
		require.NoError(t, gs.Execute(legal[0]))
		require.Equal(t, 4, gs.Players[2].Hand.Count())
	})

	t.Run("roller then moves the robber", func(t *testing.T) {
		require.Equal(t, RobberPhase, gs.Phase)
		require.Equal(t, 0, gs.CurrentPlayer())
		legal := gs.LegalActions()
		require.Len(t, legal, 18, "Every tile but the robber's should be offered")
		for _, a := range legal {
			require.Equal(t, RobberAction, a.Type)
			require.Equal(t, -1, a.Target, "Empty board has nobody to rob")
		}
		require.NoError(t, gs.Execute(legal[0]))
		require.Equal(t, TurnMainPhase, gs.Phase)
		require.Equal(t, legal[0].Tile, gs.RobberPos)
	})
}

func TestRobberTheft(t *testing.T) {
	gs := newTurnGame(9)
	pos, _ := producingTile(gs)
	corners := pos.Vertices()
	build(gs, 1, corners[0], false)
	build(gs, 2, corners[2], false)
	build(gs, 0, corners[4], false)
	give(gs, 1, resources.Collection{resources.Brick: 2, resources.Grain: 1})
	gs.Phase = RobberPhase

	var targets []int
	for _, a := range gs.LegalActions() {
		if a.Tile == pos {
			targets = append(targets, a.Target)
		}
	}
	require.ElementsMatch(t, []int{1, 2}, targets, "Each opponent building should be a separate target")

	a := NewRobber(0, pos, 1, corners[0])
	outcomes := gs.Outcomes(a)
	require.Len(t, outcomes, 2)
	require.Equal(t, resources.Brick, outcomes[0].Action.Stolen)
	require.InDelta(t, 2.0/3, outcomes[0].Probability, 1e-9)
	require.Equal(t, resources.Grain, outcomes[1].Action.Stolen)
	require.InDelta(t, 1.0/3, outcomes[1].Probability, 1e-9)

	require.NoError(t, gs.Execute(a))
	require.Equal(t, 1, gs.Players[0].Hand.Count(), "Robber should take one card")
	require.Equal(t, 2, gs.Players[1].Hand.Count())
	require.True(t, gs.Log[0].Action.Resolved)
	require.NotEqual(t, resources.Empty, gs.Log[0].Action.Stolen)

	t.Run("robbing an empty hand has one outcome", func(t *testing.T) {
		outcomes := gs.Outcomes(NewRobber(0, pos, 2, corners[2]))
		require.Len(t, outcomes, 1)
		require.Equal(t, resources.Empty, outcomes[0].Action.Stolen)
		require.Equal(t, 1.0, outcomes[0].Probability)
	})
}

func TestOutcomes(t *testing.T) {
	gs := newTurnGame(10)

	t.Run("dice follow two six-sided dice", func(t *testing.T) {
		outcomes := gs.Outcomes(NewRollDice(0))
		require.Len(t, outcomes, 11)
		total := 0.0
		for _, o := range outcomes {
			require.True(t, o.Action.Resolved)
			total += o.Probability
		}
		require.InDelta(t, 1.0, total, 1e-9)
		require.InDelta(t, 6.0/36, outcomes[5].Probability, 1e-9, "Seven should be the likeliest roll")
		require.Equal(t, 7, outcomes[5].Action.Roll)
	})

	t.Run("development cards follow the deck", func(t *testing.T) {
		outcomes := gs.Outcomes(NewBuyDevCard(0))
		require.Len(t, outcomes, NumDevCards)
		require.Equal(t, Knight, outcomes[0].Action.Card)
		require.InDelta(t, 14.0/25, outcomes[0].Probability, 1e-9)
	})

	t.Run("deterministic actions have one certain outcome", func(t *testing.T) {
		a := NewEndTurn(0)
		require.Equal(t, []Outcome{{Action: a, Probability: 1}}, gs.Outcomes(a))
	})

	t.Run("resolved outcomes are their own outcome", func(t *testing.T) {
		a := rolled(0, 4)
		require.False(t, a.IsStochastic())
		require.Equal(t, NewRollDice(0), a.Unresolved())
	})
}

func TestDevCards(t *testing.T) {
	t.Run("bought cards wait until the next turn", func(t *testing.T) {
		gs := newTurnGame(12)
		gs.Phase = TurnMainPhase
		give(gs, 0, resources.DevCardCost)
		buy := NewBuyDevCard(0)
		buy.Card = Monopoly
		buy.Resolved = true

		require.NoError(t, gs.Execute(buy))
		require.Equal(t, 1, gs.Players[0].NewDevCards[Monopoly])
		require.Equal(t, DefaultDevDeck[Monopoly]-1, gs.DevDeck[Monopoly])
		for _, a := range gs.LegalActions() {
			require.NotEqual(t, MonopolyAction, a.Type, "Card bought this turn should not be playable")
		}

		require.NoError(t, gs.Execute(NewEndTurn(0)))
		require.Equal(t, 1, gs.Players[0].DevCards[Monopoly])
		require.Zero(t, gs.Players[0].NewDevCards.Count())
	})

	t.Run("monopoly collects from every opponent", func(t *testing.T) {
		gs := newTurnGame(13)
		gs.Phase = TurnMainPhase
		gs.Players[0].DevCards[Monopoly] = 1
		give(gs, 1, resources.Of(resources.Wool, 2))
		give(gs, 3, resources.Collection{resources.Wool: 1, resources.Ore: 1})

		require.NoError(t, gs.Execute(NewMonopoly(0, resources.Wool)))

		require.Equal(t, 3, gs.Players[0].Hand.Get(resources.Wool))
		require.Zero(t, gs.Players[1].Hand.Count())
		require.Equal(t, 1, gs.Players[3].Hand.Get(resources.Ore))
		require.True(t, gs.DevCardPlayed)
		err := gs.Execute(NewYearOfPlenty(0, resources.Ore, resources.Ore))
		require.ErrorIs(t, err, ErrIllegalAction, "Only one card per turn")
	})

	t.Run("year of plenty takes two from the bank", func(t *testing.T) {
		gs := newTurnGame(14)
		gs.Phase = TurnMainPhase
		gs.Players[0].DevCards[YearOfPlenty] = 1

		legal := 0
		for _, a := range gs.LegalActions() {
			if a.Type == YearOfPlentyAction {
				legal++
			}
		}
		require.Equal(t, 15, legal, "Five types taken two at a time with repetition")

		require.NoError(t, gs.Execute(NewYearOfPlenty(0, resources.Ore, resources.Brick)))
		require.Equal(t, resources.Collection{resources.Brick: 1, resources.Ore: 1}, gs.Players[0].Hand)
	})

	t.Run("road building pairs are unordered", func(t *testing.T) {
		gs := newTurnGame(15)
		gs.Phase = TurnMainPhase
		gs.Players[0].DevCards[RoadBuilding] = 1
		v := hex.VertexKey{Pos: hex.Axial{}, Side: hex.VertexW}
		build(gs, 0, v, false)

		seen := map[Action]bool{}
		for _, a := range gs.LegalActions() {
			if a.Type != RoadBuildingAction {
				continue
			}
			require.Equal(t, 2, a.Roads)
			require.False(t, seen[a], "Pair %v should be offered once", a)
			seen[a] = true
			require.True(t, a.Edge.Less(a.Edge2))
		}
		// Three edges leave the settlement: three pairs among them plus
		// two extensions beyond each.
		require.Len(t, seen, 9)

		for a := range seen {
			require.NoError(t, gs.Clone().Execute(a), "Offered pair %v should execute", a)
		}
	})
}

func TestLargestArmy(t *testing.T) {
	gs := newTurnGame(16)
	gs.Players[0].DevCards[Knight] = 1
	gs.Players[0].KnightsPlayed = 2

	var knight Action
	for _, a := range gs.LegalActions() {
		if a.Type == KnightAction {
			knight = a
			break
		}
	}
	require.Equal(t, KnightAction, knight.Type, "Knight should be playable before the roll")

	require.NoError(t, gs.Execute(knight))
	require.Equal(t, TurnStartPhase, gs.Phase, "Knight before the roll keeps the turn at its start")
	require.True(t, gs.Players[0].LargestArmy)
	require.Equal(t, SpecialCardPoints, gs.Players[0].VictoryPoints)

	gs.Players[1].KnightsPlayed = 3
	gs.updateLargestArmy(1)
	require.True(t, gs.Players[0].LargestArmy, "A tie should not take the card")
	require.False(t, gs.Players[1].LargestArmy)

	gs.Players[1].KnightsPlayed = 4
	gs.updateLargestArmy(1)
	require.False(t, gs.Players[0].LargestArmy)
	require.True(t, gs.Players[1].LargestArmy)
	require.Zero(t, gs.Players[0].VictoryPoints)
	require.Equal(t, SpecialCardPoints, gs.Players[1].VictoryPoints)
}

func TestWinner(t *testing.T) {
	gs := newTurnGame(17)
	gs.Phase = TurnMainPhase
	gs.Players[0].VictoryPoints = 9
	gs.Players[1].VictoryPoints = 9
	gs.Players[1].DevCards[VictoryPoint] = 1
	v := hex.VertexKey{Pos: hex.Axial{}, Side: hex.VertexW}
	build(gs, 0, v, false)
	give(gs, 0, resources.CityCost)

	require.NoError(t, gs.Execute(NewBuildCity(0, v)))

	require.Equal(t, 0, gs.Winner(), "Reaching ten on your own turn wins")
	require.Nil(t, gs.LegalActions())
	require.ErrorIs(t, gs.Execute(NewEndTurn(0)), ErrGameOver)
}
