package models

// UserProfile is the persisted identity record, keyed by username in the store.
// TokenHash is an argon2id hash of the client-held token; it is set when the
// profile is first created and never overwritten afterwards.
type UserProfile struct {
	Username  string `json:"username"`
	TokenHash string `json:"tokenHash"`
	Elo       int    `json:"elo"`
	CreatedAt int64  `json:"createdAt"`
}

// DefaultElo is the rating assigned to a freshly created profile.
const DefaultElo = 1200
