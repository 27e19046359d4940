package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	return NewState(DefaultRuleset())
}

func placeCores(t *testing.T, s *State) (blue, red *Minion) {
	t.Helper()
	blue = NewMinion("villager", ColorBlue)
	red = NewMinion("villager", ColorRed)
	s.PlaceMinion(blue, 0, 4)
	s.PlaceMinion(red, 9, 4)
	return blue, red
}

func TestSpawnZones(t *testing.T) {
	assert.True(t, IsSpawnZone(0, ColorBlue))
	assert.True(t, IsSpawnZone(1, ColorBlue))
	assert.False(t, IsSpawnZone(2, ColorBlue))
	assert.False(t, IsSpawnZone(9, ColorBlue))

	assert.True(t, IsSpawnZone(8, ColorRed))
	assert.True(t, IsSpawnZone(9, ColorRed))
	assert.False(t, IsSpawnZone(7, ColorRed))
	assert.False(t, IsSpawnZone(0, ColorRed))
}

func TestPlaceMoveRemove(t *testing.T) {
	s := newTestState(t)
	m := NewMinion("pig", ColorBlue)
	s.PlaceMinion(m, 4, 4)
	assert.Same(t, m, s.MinionAt(4, 4))

	s.MoveMinion(m, 4, 5)
	assert.Nil(t, s.MinionAt(4, 4))
	assert.Same(t, m, s.MinionAt(4, 5))
	assert.Equal(t, Position{4, 5}, m.Position)

	s.RemoveMinion(m)
	assert.Nil(t, s.MinionAt(4, 5))
	assert.NotContains(t, s.Registry, m.ID)
}

func TestCoreRemovalEndsGame(t *testing.T) {
	s := newTestState(t)
	blueCore, _ := placeCores(t, s)

	s.RemoveMinion(blueCore)
	assert.Equal(t, PhaseGameOver, s.Phase)
	assert.Equal(t, ColorRed, s.Winner)
}

func TestSetupPromotesToPlayingAfterBothCoresPlaced(t *testing.T) {
	s := newTestState(t)

	blueCore := NewMinion("villager", ColorBlue)
	s.PlaceMinion(blueCore, 0, 3)
	s.EndTurn()
	assert.Equal(t, PhaseSetup, s.Phase)
	assert.Equal(t, ColorRed, s.Current)

	redCore := NewMinion("villager", ColorRed)
	s.PlaceMinion(redCore, 9, 3)
	s.EndTurn()
	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Equal(t, ColorBlue, s.Current)
	assert.Equal(t, 2, s.TurnNumber)
}

func TestEndTurnUpkeep(t *testing.T) {
	s := newTestState(t)
	placeCores(t, s)
	s.Phase = PhasePlaying

	bluePS := s.Players[ColorBlue]
	bluePS.Deck = []Card{{Type: "pig", Name: "Pig", Cost: 1}}
	bluePS.Mana = 0

	// Red ends its turn; blue's upkeep runs.
	s.Current = ColorRed
	s.EndTurn()

	assert.Equal(t, ColorBlue, s.Current)
	assert.Equal(t, StartingManaCap+1, bluePS.ManaCap)
	assert.Equal(t, bluePS.ManaCap, bluePS.Mana)
	assert.Len(t, bluePS.Hand, 1)
	assert.Empty(t, bluePS.Deck)
}

func TestEndTurnClearsPerTurnFlags(t *testing.T) {
	s := newTestState(t)
	blueCore, redCore := placeCores(t, s)
	s.Phase = PhasePlaying

	blueCore.HasMoved = true
	blueCore.HasDashed = true
	blueCore.UsedAbility = true
	blueCore.JustSpawned = true
	redCore.HasMoved = true

	s.EndTurn()

	assert.False(t, blueCore.HasMoved)
	assert.False(t, blueCore.HasDashed)
	assert.False(t, blueCore.UsedAbility)
	assert.False(t, blueCore.JustSpawned)
	// The opponent's flags are untouched until their own turn ends.
	assert.True(t, redCore.HasMoved)
}

func TestManaCapStopsAtMax(t *testing.T) {
	s := newTestState(t)
	placeCores(t, s)
	s.Phase = PhasePlaying
	s.Players[ColorBlue].ManaCap = MaxManaCap

	s.Current = ColorRed
	s.EndTurn()
	assert.Equal(t, MaxManaCap, s.Players[ColorBlue].ManaCap)
}

func TestBuildDeckSkipsUnknownAndCore(t *testing.T) {
	rules := DefaultRuleset()
	deck := BuildDeck(rules, []string{"pig", "villager", "no_such_unit", "zombie"})
	require.Len(t, deck, 2)
	assert.Equal(t, "pig", deck[0].Type)
	assert.Equal(t, "zombie", deck[1].Type)
}

func TestCoreCard(t *testing.T) {
	card, ok := CoreCard(DefaultRuleset())
	require.True(t, ok)
	assert.Equal(t, "villager", card.Type)
	assert.Equal(t, 0, card.Cost)
}
