// Package store is the persistent key-value layer: durable user profiles under
// user:<username>, match records under game:<roomID>, plus a fire-and-forget
// action stream consumed by offline replay tooling.
package store

import (
	"context"
	"errors"

	"github.com/chegg-game/chegg-server/internal/models"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("store: key not found")

// ActionRecord is one committed action pushed onto the action stream.
type ActionRecord struct {
	RoomID      string `json:"room_id"`
	ActionIndex int    `json:"action_index"`
	Notation    string `json:"notation"`
	Timestamp   int64  `json:"timestamp"`
}

// Store abstracts the persistent key-value backend. The production
// implementation runs on Redis; tests use the in-memory one.
type Store interface {
	GetUser(ctx context.Context, username string) (*models.UserProfile, error)
	PutUser(ctx context.Context, profile *models.UserProfile) error
	GetMatch(ctx context.Context, roomID string) (*models.MatchRecord, error)
	PutMatch(ctx context.Context, record *models.MatchRecord) error
	PublishAction(ctx context.Context, record ActionRecord) error
}
