package room

import "github.com/google/uuid"

// SendFunc delivers one outbound event to a connection. Implementations must
// not block the caller; the transport layer queues and writes asynchronously.
type SendFunc func(event string, payload interface{})

// Session is the explicit identity record for one connection, keyed by its id
// in the manager's lookup table. Identity lives here, never as ad hoc fields
// on the transport object.
type Session struct {
	ID            uuid.UUID
	Username      string
	Elo           int
	Authenticated bool

	send SendFunc
}

// NewSession creates a session around a transport send function.
func NewSession(send SendFunc) *Session {
	return &Session{
		ID:   uuid.New(),
		send: send,
	}
}

// Emit pushes an event to the session's connection, fire-and-forget.
func (s *Session) Emit(event string, payload interface{}) {
	if s.send != nil {
		s.send(event, payload)
	}
}
