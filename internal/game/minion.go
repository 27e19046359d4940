package game

import "github.com/google/uuid"

// Minion is one unit instance on the board. Per-turn flags are cleared by
// EndTurn for the side whose turn just ended.
type Minion struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Owner       Color    `json:"owner"`
	Position    Position `json:"position"`
	HasMoved    bool     `json:"hasMoved"`
	HasDashed   bool     `json:"hasDashed"`
	UsedAbility bool     `json:"usedAbility"`
	JustSpawned bool     `json:"justSpawned"`
}

// NewMinion creates an unplaced minion of the given type for owner.
func NewMinion(minionType string, owner Color) *Minion {
	return &Minion{
		ID:    uuid.NewString(),
		Type:  minionType,
		Owner: owner,
	}
}
