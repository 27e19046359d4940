package models

import "encoding/json"

// MatchRecord is the persisted snapshot of a match, keyed by room id in the
// store. It is rewritten after every committed end-of-turn and at game end,
// so a crashed process can always recover the latest save point.
type MatchRecord struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Winner     string          `json:"winner"`
	Turns      int             `json:"turns"`
	Log        []string        `json:"log"`
	FinalState json.RawMessage `json:"finalState"`
	Timestamp  int64           `json:"timestamp"`
}
