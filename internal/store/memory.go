package store

import (
	"context"
	"sync"

	"github.com/chegg-game/chegg-server/internal/models"
)

// Memory is an in-process Store used by tests and store-less dev runs.
type Memory struct {
	mu      sync.Mutex
	users   map[string]models.UserProfile
	matches map[string]models.MatchRecord
	actions []ActionRecord
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:   make(map[string]models.UserProfile),
		matches: make(map[string]models.MatchRecord),
	}
}

func (m *Memory) GetUser(_ context.Context, username string) (*models.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &profile, nil
}

func (m *Memory) PutUser(_ context.Context, profile *models.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[profile.Username] = *profile
	return nil
}

func (m *Memory) GetMatch(_ context.Context, roomID string) (*models.MatchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.matches[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (m *Memory) PutMatch(_ context.Context, record *models.MatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[record.ID] = *record
	return nil
}

func (m *Memory) PublishAction(_ context.Context, record ActionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, record)
	return nil
}

// Actions returns a copy of the published action records, in publish order.
func (m *Memory) Actions() []ActionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ActionRecord, len(m.actions))
	copy(out, m.actions)
	return out
}
