package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chegg-game/chegg-server/internal/models"
)

func TestMemoryUserRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.GetUser(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)

	profile := &models.UserProfile{Username: "alice", TokenHash: "h", Elo: 1200}
	require.NoError(t, m.PutUser(ctx, profile))

	got, err := m.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, *profile, *got)

	// Returned value is a copy; mutating it must not touch the store.
	got.Elo = 9999
	again, err := m.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1200, again.Elo)
}

func TestMemoryMatchRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.GetMatch(ctx, "room1")
	assert.ErrorIs(t, err, ErrNotFound)

	record := &models.MatchRecord{ID: "room1", Winner: "blue", Turns: 12}
	require.NoError(t, m.PutMatch(ctx, record))

	got, err := m.GetMatch(ctx, "room1")
	require.NoError(t, err)
	assert.Equal(t, "blue", got.Winner)
}

func TestMemoryActionStreamOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, m.PublishAction(ctx, ActionRecord{RoomID: "r", ActionIndex: i}))
	}

	actions := m.Actions()
	require.Len(t, actions, 3)
	for i, a := range actions {
		assert.Equal(t, i, a.ActionIndex)
	}
}
