package models

import "encoding/json"

// GameAction is the inner body of a game_action envelope. The payload is kept
// raw here; each revalidator unmarshals the shape it expects and rejects the
// action on any decode failure.
type GameAction struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Action types accepted inside a game_action message.
const (
	ActionSpawn   = "SPAWN_MINION"
	ActionMove    = "MOVE_MINION"
	ActionAttack  = "ATTACK_MINION"
	ActionAbility = "USE_ABILITY"
	ActionEndTurn = "END_TURN"
)

// SpawnPayload asks to place the card at CardIndex onto (Row, Col).
type SpawnPayload struct {
	CardIndex int `json:"cardIndex"`
	Row       int `json:"row"`
	Col       int `json:"col"`
}

// MovePayload asks to move an owned minion to (ToRow, ToCol).
type MovePayload struct {
	MinionID string `json:"minionId"`
	ToRow    int    `json:"toRow"`
	ToCol    int    `json:"toCol"`
}

// AttackPayload asks an owned minion to attack the occupant of the target tile.
type AttackPayload struct {
	AttackerID string `json:"attackerId"`
	TargetRow  int    `json:"targetRow"`
	TargetCol  int    `json:"targetCol"`
}

// AbilityPayload triggers a minion's configured ability. Target coordinates
// are pointers because self-targeted abilities carry no destination.
type AbilityPayload struct {
	MinionID  string `json:"minionId"`
	TargetRow *int   `json:"targetRow,omitempty"`
	TargetCol *int   `json:"targetCol,omitempty"`
}
