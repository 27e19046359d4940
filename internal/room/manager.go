package room

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chegg-game/chegg-server/internal/auth"
	"github.com/chegg-game/chegg-server/internal/game"
	"github.com/chegg-game/chegg-server/internal/models"
	"github.com/chegg-game/chegg-server/internal/store"
)

type queueEntry struct {
	session *Session
	deck    []string
}

// Manager owns every live session and room: it authenticates connections,
// pairs the matchmaking queue, tracks custom rooms, and routes actions to the
// room a session belongs to.
type Manager struct {
	mu           sync.Mutex
	deps         Deps
	log          *logrus.Logger
	sessions     map[uuid.UUID]*Session
	rooms        map[string]*Room
	customRooms  map[string]*Room
	sessionRooms map[uuid.UUID]string
	queue        []queueEntry
}

// NewManager builds a manager around the shared dependencies, filling in the
// default ruleset and ability registry when none are injected.
func NewManager(deps Deps) *Manager {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	if deps.Abilities == nil {
		deps.Abilities = game.DefaultAbilities()
	}
	if deps.Rules == nil {
		deps.Rules = game.DefaultRuleset()
	}
	return &Manager{
		deps:         deps,
		log:          deps.Log,
		sessions:     make(map[uuid.UUID]*Session),
		rooms:        make(map[string]*Room),
		customRooms:  make(map[string]*Room),
		sessionRooms: make(map[uuid.UUID]string),
	}
}

// Register tracks a freshly accepted connection.
func (m *Manager) Register(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

// Authenticate resolves a connection to a user profile. First contact with an
// unknown username registers it; afterwards the token must verify against the
// stored hash. A valid session JWT resumes an identity without the token.
func (m *Manager) Authenticate(ctx context.Context, s *Session, username, token, sessionJWT string) {
	if sessionJWT != "" {
		name, err := auth.VerifySessionJWT(sessionJWT)
		if err != nil {
			s.Emit(EventAuthFailure, errorPayload{Message: "Invalid or expired session"})
			return
		}
		profile, err := m.deps.Store.GetUser(ctx, name)
		if err != nil {
			s.Emit(EventAuthFailure, errorPayload{Message: "Unknown user"})
			return
		}
		m.attach(s, profile)
		return
	}

	if username == "" || token == "" {
		s.Emit(EventAuthFailure, errorPayload{Message: "Missing credentials"})
		return
	}

	profile, err := m.deps.Store.GetUser(ctx, username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		hash, hashErr := auth.HashToken(token)
		if hashErr != nil {
			m.log.Errorf("token hash failed for %s: %v", username, hashErr)
			s.Emit(EventAuthFailure, errorPayload{Message: "Server error during auth"})
			return
		}
		profile = &models.UserProfile{
			Username:  username,
			TokenHash: hash,
			Elo:       models.DefaultElo,
			CreatedAt: time.Now().UnixMilli(),
		}
		if err := m.deps.Store.PutUser(ctx, profile); err != nil {
			m.log.Errorf("failed to create profile for %s: %v", username, err)
			s.Emit(EventAuthFailure, errorPayload{Message: "Server error during auth"})
			return
		}
		m.log.Infof("registered new player %s", username)
	case err != nil:
		m.log.Errorf("profile lookup failed for %s: %v", username, err)
		s.Emit(EventAuthFailure, errorPayload{Message: "Server error during auth"})
		return
	default:
		ok, verifyErr := auth.VerifyToken(token, profile.TokenHash)
		if verifyErr != nil || !ok {
			s.Emit(EventAuthFailure, errorPayload{Message: "Identity mismatch. Token incorrect."})
			return
		}
	}

	m.attach(s, profile)
}

func (m *Manager) attach(s *Session, profile *models.UserProfile) {
	s.Username = profile.Username
	s.Elo = profile.Elo
	s.Authenticated = true

	sessionJWT, err := auth.CreateSessionJWT(profile.Username)
	if err != nil {
		m.log.Warnf("failed to mint session JWT for %s: %v", profile.Username, err)
	}
	s.Emit(EventAuthSuccess, authSuccessPayload{
		Username: profile.Username,
		Elo:      profile.Elo,
		Session:  sessionJWT,
	})
}

// activeRoomLocked returns the unfinished room a session is attached to, or
// nil. Mappings left behind by finished matches are cleared on the way, so a
// player who stays connected after a game can queue or join again.
func (m *Manager) activeRoomLocked(s *Session) *Room {
	roomID, ok := m.sessionRooms[s.ID]
	if !ok {
		return nil
	}
	r := m.rooms[roomID]
	if r == nil || r.Finished() {
		delete(m.sessionRooms, s.ID)
		return nil
	}
	return r
}

// EnqueueForMatchmaking adds a session to the FIFO queue and, as soon as two
// players are waiting, creates a ranked saved room and starts it. Pairing
// happens inside one critical section so concurrent joiners cannot race into
// the same slot; the earlier joiner always plays blue.
func (m *Manager) EnqueueForMatchmaking(s *Session, deck []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeRoomLocked(s) != nil {
		s.Emit(EventError, errorPayload{Message: "Already in a room"})
		return
	}
	for _, e := range m.queue {
		if e.session.ID == s.ID {
			return
		}
	}
	m.queue = append(m.queue, queueEntry{session: s, deck: deck})
	if len(m.queue) < 2 {
		return
	}

	first, second := m.queue[0], m.queue[1]
	m.queue = m.queue[2:]

	roomID := "match_" + uuid.NewString()[:8]
	r := New(roomID, Config{
		Name:     roomID,
		SaveGame: true,
		Ranked:   true,
	}, m.deps)

	m.rooms[roomID] = r
	m.sessionRooms[first.session.ID] = roomID
	m.sessionRooms[second.session.ID] = roomID

	r.AddPlayer(first.session, game.ColorBlue, first.deck)
	r.AddPlayer(second.session, game.ColorRed, second.deck)
	r.Start()
}

// CreateCustomRoom opens an unstarted room with the creator seated as blue.
func (m *Manager) CreateCustomRoom(s *Session, roomID, name string, timerSeconds int, saveGame bool, deck []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.activeRoomLocked(s) != nil {
		s.Emit(EventError, errorPayload{Message: "Already in a room"})
		return
	}
	if roomID == "" {
		roomID = "room_" + uuid.NewString()[:6]
	}
	if _, exists := m.rooms[roomID]; exists {
		s.Emit(EventError, errorPayload{Message: "Room already exists"})
		return
	}
	if name == "" {
		name = roomID
	}

	r := New(roomID, Config{
		Name:             name,
		TurnTimerSeconds: timerSeconds,
		SaveGame:         saveGame,
	}, m.deps)
	m.rooms[roomID] = r
	m.customRooms[roomID] = r
	m.sessionRooms[s.ID] = roomID

	r.AddPlayer(s, game.ColorBlue, deck)
	s.Emit(EventRoomCreated, roomCreatedPayload{RoomID: roomID})
}

// JoinCustomRoom seats a session as red in an existing room and starts the
// match. The seat itself is claimed under the room lock, so concurrent
// joiners cannot both land in the last slot.
func (m *Manager) JoinCustomRoom(s *Session, roomID string, deck []string) {
	m.mu.Lock()
	if m.activeRoomLocked(s) != nil {
		m.mu.Unlock()
		s.Emit(EventError, errorPayload{Message: "Already in a room"})
		return
	}
	r, exists := m.rooms[roomID]
	m.mu.Unlock()
	if !exists {
		s.Emit(EventError, errorPayload{Message: "Room not found"})
		return
	}

	if !r.AddPlayer(s, game.ColorRed, deck) {
		s.Emit(EventError, errorPayload{Message: "Room is full"})
		return
	}

	m.mu.Lock()
	m.sessionRooms[s.ID] = roomID
	m.mu.Unlock()
	r.Start()
}

// SpectateRoom attaches a session to a room as a watch-only observer.
func (m *Manager) SpectateRoom(s *Session, roomID string) {
	m.mu.Lock()
	if m.activeRoomLocked(s) != nil {
		m.mu.Unlock()
		s.Emit(EventError, errorPayload{Message: "Already in a room"})
		return
	}
	r, exists := m.rooms[roomID]
	if exists {
		m.sessionRooms[s.ID] = roomID
	}
	m.mu.Unlock()
	if !exists {
		s.Emit(EventError, errorPayload{Message: "Room not found"})
		return
	}
	r.AddSpectator(s)
}

// ListCustomRooms returns the open custom rooms, stable-ordered by ID.
func (m *Manager) ListCustomRooms() []RoomInfo {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.customRooms))
	for _, r := range m.customRooms {
		rooms = append(rooms, r)
	}
	m.mu.Unlock()

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })

	out := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		status := "waiting"
		if r.IsFull() {
			status = "full"
		}
		out = append(out, RoomInfo{
			ID:      r.ID,
			Name:    r.Config.Name,
			Players: r.PlayerCount(),
			Timer:   r.Config.TurnTimerSeconds,
			Status:  status,
		})
	}
	return out
}

// RouteAction forwards an action to the sender's room. Sessions with no room
// are dropped silently.
func (m *Manager) RouteAction(s *Session, action models.GameAction) {
	m.mu.Lock()
	r := m.rooms[m.sessionRooms[s.ID]]
	m.mu.Unlock()
	if r == nil {
		return
	}
	r.ProcessAction(s, action)
}

// HandleForfeit concedes the sender's current match.
func (m *Manager) HandleForfeit(s *Session) {
	m.mu.Lock()
	r := m.rooms[m.sessionRooms[s.ID]]
	m.mu.Unlock()
	if r == nil {
		return
	}
	r.Forfeit(s)
}

// HandleDisconnect cleans up everything a dropped connection touched: the
// queue slot, the session registry, and its room. Rooms left without players
// are evicted.
func (m *Manager) HandleDisconnect(s *Session) {
	m.mu.Lock()
	kept := m.queue[:0]
	for _, e := range m.queue {
		if e.session.ID != s.ID {
			kept = append(kept, e)
		}
	}
	m.queue = kept

	roomID := m.sessionRooms[s.ID]
	r := m.rooms[roomID]
	delete(m.sessionRooms, s.ID)
	delete(m.sessions, s.ID)
	m.mu.Unlock()

	if r == nil {
		return
	}
	r.HandleDisconnect(s)
	if r.IsEmpty() {
		m.mu.Lock()
		delete(m.rooms, roomID)
		delete(m.customRooms, roomID)
		m.mu.Unlock()
	}
}
