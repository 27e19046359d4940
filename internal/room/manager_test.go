package room

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chegg-game/chegg-server/internal/auth"
	"github.com/chegg-game/chegg-server/internal/game"
	"github.com/chegg-game/chegg-server/internal/models"
	"github.com/chegg-game/chegg-server/internal/store"
)

func newTestManager(mem *store.Memory) *Manager {
	return NewManager(testDeps(mem))
}

func newManagedSession(m *Manager, username string) (*Session, *recorder) {
	rec := &recorder{}
	s := NewSession(rec.send)
	s.Username = username
	s.Authenticated = username != ""
	s.Elo = models.DefaultElo
	m.Register(s)
	return s, rec
}

func TestAuthenticateRegistersNewUser(t *testing.T) {
	require.NoError(t, auth.Init())
	mem := store.NewMemory()
	m := newTestManager(mem)
	s, rec := newManagedSession(m, "")

	m.Authenticate(context.Background(), s, "alice", "secret-token", "")

	require.Equal(t, 1, rec.count(EventAuthSuccess))
	payload, _ := rec.last(EventAuthSuccess)
	success := payload.(authSuccessPayload)
	assert.Equal(t, "alice", success.Username)
	assert.Equal(t, models.DefaultElo, success.Elo)
	assert.NotEmpty(t, success.Session)
	assert.True(t, s.Authenticated)

	profile, err := mem.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, profile.TokenHash)
	assert.NotEqual(t, "secret-token", profile.TokenHash, "token is stored hashed")
}

func TestAuthenticateRejectsWrongToken(t *testing.T) {
	require.NoError(t, auth.Init())
	mem := store.NewMemory()
	m := newTestManager(mem)

	first, _ := newManagedSession(m, "")
	m.Authenticate(context.Background(), first, "alice", "secret-token", "")

	second, rec := newManagedSession(m, "")
	m.Authenticate(context.Background(), second, "alice", "wrong-token", "")

	require.Equal(t, 1, rec.count(EventAuthFailure))
	payload, _ := rec.last(EventAuthFailure)
	assert.Equal(t, "Identity mismatch. Token incorrect.", payload.(errorPayload).Message)
	assert.False(t, second.Authenticated)

	// The stored profile is untouched by the failed attempt.
	third, thirdRec := newManagedSession(m, "")
	m.Authenticate(context.Background(), third, "alice", "secret-token", "")
	assert.Equal(t, 1, thirdRec.count(EventAuthSuccess))
}

func TestAuthenticateMissingCredentials(t *testing.T) {
	require.NoError(t, auth.Init())
	m := newTestManager(store.NewMemory())
	s, rec := newManagedSession(m, "")

	m.Authenticate(context.Background(), s, "alice", "", "")

	require.Equal(t, 1, rec.count(EventAuthFailure))
	payload, _ := rec.last(EventAuthFailure)
	assert.Equal(t, "Missing credentials", payload.(errorPayload).Message)
}

func TestAuthenticateSessionResume(t *testing.T) {
	require.NoError(t, auth.Init())
	mem := store.NewMemory()
	m := newTestManager(mem)

	first, firstRec := newManagedSession(m, "")
	m.Authenticate(context.Background(), first, "alice", "secret-token", "")
	payload, ok := firstRec.last(EventAuthSuccess)
	require.True(t, ok)
	jwt := payload.(authSuccessPayload).Session
	require.NotEmpty(t, jwt)

	resumed, rec := newManagedSession(m, "")
	m.Authenticate(context.Background(), resumed, "", "", jwt)

	require.Equal(t, 1, rec.count(EventAuthSuccess))
	assert.Equal(t, "alice", resumed.Username)

	bad, badRec := newManagedSession(m, "")
	m.Authenticate(context.Background(), bad, "", "", "not-a-jwt")
	require.Equal(t, 1, badRec.count(EventAuthFailure))
}

func TestMatchmakingPairsInOrder(t *testing.T) {
	mem := store.NewMemory()
	m := newTestManager(mem)

	first, firstRec := newManagedSession(m, "alice")
	second, secondRec := newManagedSession(m, "bob")

	m.EnqueueForMatchmaking(first, nil)
	assert.Zero(t, firstRec.count(EventPlayerAssigned), "lone player keeps waiting")

	m.EnqueueForMatchmaking(second, nil)

	assigned, ok := firstRec.last(EventPlayerAssigned)
	require.True(t, ok)
	assert.Equal(t, "blue", assigned.(playerAssignedPayload).Color, "earlier joiner plays blue")
	assigned, ok = secondRec.last(EventPlayerAssigned)
	require.True(t, ok)
	assert.Equal(t, "red", assigned.(playerAssignedPayload).Color)

	// Seat assignment precedes the opening state.
	firstRec.mu.Lock()
	var assignedAt, stateAt int
	for i, e := range firstRec.events {
		switch e.Name {
		case EventPlayerAssigned:
			assignedAt = i
		case EventStateUpdate:
			if stateAt == 0 {
				stateAt = i
			}
		}
	}
	firstRec.mu.Unlock()
	assert.Less(t, assignedAt, stateAt)

	// The matched room is ranked and saved.
	m.mu.Lock()
	roomID := m.sessionRooms[first.ID]
	r := m.rooms[roomID]
	m.mu.Unlock()
	require.NotNil(t, r)
	assert.True(t, r.Config.Ranked)
	assert.True(t, r.Config.SaveGame)
	assert.Equal(t, game.PhaseSetup, r.State().Phase)

	// Queue is drained.
	third, thirdRec := newManagedSession(m, "carol")
	m.EnqueueForMatchmaking(third, nil)
	assert.Zero(t, thirdRec.count(EventPlayerAssigned))
}

func TestEnqueueIsIdempotentPerSession(t *testing.T) {
	m := newTestManager(store.NewMemory())
	s, rec := newManagedSession(m, "alice")

	m.EnqueueForMatchmaking(s, nil)
	m.EnqueueForMatchmaking(s, nil)

	assert.Zero(t, rec.count(EventPlayerAssigned), "a session cannot be matched against itself")
}

func TestCustomRoomLifecycle(t *testing.T) {
	m := newTestManager(store.NewMemory())
	creator, creatorRec := newManagedSession(m, "alice")

	m.CreateCustomRoom(creator, "friendly", "Friendly Match", 30, false, nil)

	created, ok := creatorRec.last(EventRoomCreated)
	require.True(t, ok)
	assert.Equal(t, "friendly", created.(roomCreatedPayload).RoomID)
	assigned, _ := creatorRec.last(EventPlayerAssigned)
	assert.Equal(t, "blue", assigned.(playerAssignedPayload).Color)

	list := m.ListCustomRooms()
	require.Len(t, list, 1)
	assert.Equal(t, "Friendly Match", list[0].Name)
	assert.Equal(t, "waiting", list[0].Status)
	assert.Equal(t, 1, list[0].Players)

	// Duplicate id is refused.
	dup, dupRec := newManagedSession(m, "mallory")
	m.CreateCustomRoom(dup, "friendly", "", 0, false, nil)
	payload, _ := dupRec.last(EventError)
	assert.Equal(t, "Room already exists", payload.(errorPayload).Message)

	joiner, joinerRec := newManagedSession(m, "bob")
	m.JoinCustomRoom(joiner, "friendly", nil)
	assigned, _ = joinerRec.last(EventPlayerAssigned)
	assert.Equal(t, "red", assigned.(playerAssignedPayload).Color)
	assert.Positive(t, joinerRec.count(EventStateUpdate), "joining starts the match")

	list = m.ListCustomRooms()
	require.Len(t, list, 1)
	assert.Equal(t, "full", list[0].Status)

	late, lateRec := newManagedSession(m, "carol")
	m.JoinCustomRoom(late, "friendly", nil)
	payload, _ = lateRec.last(EventError)
	assert.Equal(t, "Room is full", payload.(errorPayload).Message)

	ghost, ghostRec := newManagedSession(m, "dave")
	m.JoinCustomRoom(ghost, "nowhere", nil)
	payload, _ = ghostRec.last(EventError)
	assert.Equal(t, "Room not found", payload.(errorPayload).Message)
}

func TestConcurrentJoinersClaimOneSeat(t *testing.T) {
	m := newTestManager(store.NewMemory())
	creator, _ := newManagedSession(m, "alice")
	m.CreateCustomRoom(creator, "friendly", "", 0, false, nil)

	const joiners = 8
	recs := make([]*recorder, joiners)
	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		s, rec := newManagedSession(m, fmt.Sprintf("bot%d", i))
		recs[i] = rec
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			m.JoinCustomRoom(s, "friendly", nil)
		}(s)
	}
	wg.Wait()

	m.mu.Lock()
	r := m.rooms["friendly"]
	m.mu.Unlock()
	require.NotNil(t, r)
	assert.Equal(t, 2, r.PlayerCount())

	r.mu.Lock()
	colors := map[game.Color]int{}
	for _, p := range r.players {
		colors[p.Color]++
	}
	r.mu.Unlock()
	assert.Equal(t, 1, colors[game.ColorBlue])
	assert.Equal(t, 1, colors[game.ColorRed])

	var seated, refused int
	for _, rec := range recs {
		if rec.count(EventPlayerAssigned) > 0 {
			seated++
		}
		for _, p := range rec.byName(EventError) {
			if p.(errorPayload).Message == "Room is full" {
				refused++
			}
		}
	}
	assert.Equal(t, 1, seated)
	assert.Equal(t, joiners-1, refused)
}

func TestSeatedSessionStaysInOneRoom(t *testing.T) {
	m := newTestManager(store.NewMemory())

	alice, aliceRec := newManagedSession(m, "alice")
	m.CreateCustomRoom(alice, "first", "", 0, false, nil)
	bob, _ := newManagedSession(m, "bob")
	m.CreateCustomRoom(bob, "second", "", 0, false, nil)

	// A seated player cannot take a second seat, open another room, queue,
	// or spectate elsewhere.
	m.JoinCustomRoom(alice, "second", nil)
	payload, ok := aliceRec.last(EventError)
	require.True(t, ok)
	assert.Equal(t, "Already in a room", payload.(errorPayload).Message)
	assert.Equal(t, 1, m.rooms["second"].PlayerCount())

	m.CreateCustomRoom(alice, "third", "", 0, false, nil)
	assert.Len(t, m.ListCustomRooms(), 2)

	m.EnqueueForMatchmaking(alice, nil)
	m.mu.Lock()
	queueLen := len(m.queue)
	m.mu.Unlock()
	assert.Zero(t, queueLen)

	m.SpectateRoom(alice, "second")
	m.mu.Lock()
	assert.Equal(t, "first", m.sessionRooms[alice.ID])
	m.mu.Unlock()

	// Once her match ends she is free to join again.
	carol, _ := newManagedSession(m, "carol")
	m.JoinCustomRoom(carol, "first", nil)
	m.HandleForfeit(alice)
	require.True(t, m.rooms["first"].Finished())

	m.JoinCustomRoom(alice, "second", nil)
	assigned, ok := aliceRec.last(EventPlayerAssigned)
	require.True(t, ok)
	assert.Equal(t, "red", assigned.(playerAssignedPayload).Color)
}

func TestSpectateRoom(t *testing.T) {
	m := newTestManager(store.NewMemory())
	creator, _ := newManagedSession(m, "alice")
	m.CreateCustomRoom(creator, "friendly", "", 0, false, nil)

	spec, specRec := newManagedSession(m, "watcher")
	m.SpectateRoom(spec, "friendly")
	assigned, ok := specRec.last(EventPlayerAssigned)
	require.True(t, ok)
	assert.Equal(t, "spectator", assigned.(playerAssignedPayload).Color)

	lost, lostRec := newManagedSession(m, "late")
	m.SpectateRoom(lost, "nowhere")
	payload, _ := lostRec.last(EventError)
	assert.Equal(t, "Room not found", payload.(errorPayload).Message)
}

func TestRouteActionReachesRoom(t *testing.T) {
	m := newTestManager(store.NewMemory())
	creator, _ := newManagedSession(m, "alice")
	joiner, _ := newManagedSession(m, "bob")
	m.CreateCustomRoom(creator, "friendly", "", 0, false, nil)
	m.JoinCustomRoom(joiner, "friendly", nil)

	m.RouteAction(creator, mustAction(t, models.ActionSpawn, models.SpawnPayload{CardIndex: 0, Row: 0, Col: 0}))

	m.mu.Lock()
	r := m.rooms["friendly"]
	m.mu.Unlock()
	require.NotNil(t, r)
	assert.NotNil(t, r.State().MinionAt(0, 0))

	// A session with no room is a silent no-op.
	stray, _ := newManagedSession(m, "stray")
	m.RouteAction(stray, models.GameAction{Type: models.ActionEndTurn})
}

func TestDisconnectCleansUpEverything(t *testing.T) {
	m := newTestManager(store.NewMemory())

	// Queued session leaves before being matched.
	queued, _ := newManagedSession(m, "alice")
	m.EnqueueForMatchmaking(queued, nil)
	m.HandleDisconnect(queued)
	next, nextRec := newManagedSession(m, "bob")
	m.EnqueueForMatchmaking(next, nil)
	assert.Zero(t, nextRec.count(EventPlayerAssigned), "stale queue entry was removed")

	// A custom room loses both players and is evicted.
	creator, _ := newManagedSession(m, "carol")
	joiner, _ := newManagedSession(m, "dave")
	m.CreateCustomRoom(creator, "friendly", "", 0, false, nil)
	m.JoinCustomRoom(joiner, "friendly", nil)

	m.HandleDisconnect(creator)
	m.HandleDisconnect(joiner)

	assert.Empty(t, m.ListCustomRooms())
	m.mu.Lock()
	_, exists := m.rooms["friendly"]
	m.mu.Unlock()
	assert.False(t, exists)
}
