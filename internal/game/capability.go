package game

// Pattern describes where a unit may move or attack. Steps are single-tile
// displacements; Slides are directions walked until blocked, up to Range
// tiles.
type Pattern struct {
	Steps  []Offset
	Slides []Offset
	Range  int
}

// Capability is the rules-query record for one unit type: pure queries plus
// cost and effect flags, populated from data at load time. The engine never
// branches on unit type names; everything it needs is in here.
type Capability struct {
	Name        string
	Cost        int
	AttackCost  int
	AbilityID   string
	AbilityCost int

	// MovesToAttack relocates the unit onto the vacated target tile.
	MovesToAttack bool
	// AreaEffect replaces single-target removal with self-destruction that
	// clears all eight neighboring tiles.
	AreaEffect bool
	// Core marks the unit whose elimination ends the match.
	Core bool

	Move Pattern
	// Attack defaults to the move pattern when nil.
	Attack *Pattern

	// OnSpawn runs after the unit is placed from hand.
	OnSpawn func(m *Minion, s *State)
}

// Ruleset maps unit-type ids to their capability records.
type Ruleset map[string]Capability

// Capability looks up a unit type's record.
func (rs Ruleset) Capability(minionType string) (Capability, bool) {
	c, ok := rs[minionType]
	return c, ok
}

// CoreType returns the unit type flagged as the core, if any.
func (rs Ruleset) CoreType() (string, bool) {
	for id, c := range rs {
		if c.Core {
			return id, true
		}
	}
	return "", false
}

// ValidMoves computes the set of empty tiles m may move to.
func (rs Ruleset) ValidMoves(m *Minion, s *State) []Position {
	cap, ok := rs[m.Type]
	if !ok {
		return nil
	}
	var out []Position
	for _, step := range cap.Move.Steps {
		r, c := m.Position.Row+step.Row, m.Position.Col+step.Col
		if InBounds(r, c) && s.MinionAt(r, c) == nil {
			out = append(out, Position{r, c})
		}
	}
	for _, dir := range cap.Move.Slides {
		r, c := m.Position.Row, m.Position.Col
		for i := 0; i < cap.Move.Range; i++ {
			r, c = r+dir.Row, c+dir.Col
			if !InBounds(r, c) || s.MinionAt(r, c) != nil {
				break
			}
			out = append(out, Position{r, c})
		}
	}
	return out
}

// ValidAttacks computes the set of enemy-occupied tiles m may attack.
func (rs Ruleset) ValidAttacks(m *Minion, s *State) []Position {
	cap, ok := rs[m.Type]
	if !ok {
		return nil
	}
	pattern := cap.Move
	if cap.Attack != nil {
		pattern = *cap.Attack
	}
	var out []Position
	for _, step := range pattern.Steps {
		r, c := m.Position.Row+step.Row, m.Position.Col+step.Col
		if !InBounds(r, c) {
			continue
		}
		if t := s.MinionAt(r, c); t != nil && t.Owner != m.Owner {
			out = append(out, Position{r, c})
		}
	}
	for _, dir := range pattern.Slides {
		r, c := m.Position.Row, m.Position.Col
		for i := 0; i < pattern.Range; i++ {
			r, c = r+dir.Row, c+dir.Col
			if !InBounds(r, c) {
				break
			}
			if t := s.MinionAt(r, c); t != nil {
				if t.Owner != m.Owner {
					out = append(out, Position{r, c})
				}
				break
			}
		}
	}
	return out
}

// Contains reports whether (row, col) is a member of the position set.
func Contains(positions []Position, row, col int) bool {
	for _, p := range positions {
		if p.Row == row && p.Col == col {
			return true
		}
	}
	return false
}
