package game

// Target is a resolved ability target. Direction is set when the target was
// matched against a directional ability's valid directions.
type Target struct {
	Row       int
	Col       int
	Direction *Offset
}

// Ability is one registered ability: a cost, pure target queries, and an
// effect. Execute must validate its input again; targets can arrive through
// the raw coordinate fallback.
type Ability struct {
	ID   string
	Name string
	Cost int

	// Targetless abilities resolve on the caster with no destination.
	Targetless bool

	// ValidTargets lists exact target tiles; nil for directional or
	// targetless abilities.
	ValidTargets func(m *Minion, s *State) []Target

	// ValidDirections lists targetable directions for sweep-style abilities,
	// each carrying its Direction offset; nil otherwise.
	ValidDirections func(m *Minion, s *State) []Target

	// Execute applies the effect. Returns false if the target is unusable,
	// in which case nothing may have been mutated.
	Execute func(m *Minion, target Target, s *State) bool
}

// AbilityRegistry maps ability ids to their definitions.
type AbilityRegistry map[string]*Ability

// chebyshev returns the king-move distance between two squares.
func chebyshev(a, b Position) int {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	if dr > dc {
		return dr
	}
	return dc
}

// sweepArc returns the three tiles covered by a sweep in direction
// Surrounding[i]: the direction itself plus its two ring neighbors.
func sweepArc(pos Position, i int) []Position {
	n := len(Surrounding)
	out := make([]Position, 0, 3)
	for _, j := range []int{(i + n - 1) % n, i, (i + 1) % n} {
		d := Surrounding[j]
		out = append(out, Position{pos.Row + d.Row, pos.Col + d.Col})
	}
	return out
}

// DefaultAbilities builds the built-in ability registry.
func DefaultAbilities() AbilityRegistry {
	reg := AbilityRegistry{}

	// raise_dead: spawn a zombie on an adjacent empty tile.
	reg["raise_dead"] = &Ability{
		ID:   "raise_dead",
		Name: "Raise Dead",
		Cost: 2,
		ValidTargets: func(m *Minion, s *State) []Target {
			var out []Target
			for _, d := range Surrounding {
				r, c := m.Position.Row+d.Row, m.Position.Col+d.Col
				if InBounds(r, c) && s.MinionAt(r, c) == nil {
					out = append(out, Target{Row: r, Col: c})
				}
			}
			return out
		},
		Execute: func(m *Minion, t Target, s *State) bool {
			if !InBounds(t.Row, t.Col) || s.MinionAt(t.Row, t.Col) != nil {
				return false
			}
			if chebyshev(m.Position, Position{t.Row, t.Col}) != 1 {
				return false
			}
			zombie := NewMinion("zombie", m.Owner)
			zombie.JustSpawned = true
			s.PlaceMinion(zombie, t.Row, t.Col)
			return true
		},
	}

	// blink: teleport to any empty tile within two squares.
	reg["blink"] = &Ability{
		ID:   "blink",
		Name: "Blink",
		Cost: 1,
		ValidTargets: func(m *Minion, s *State) []Target {
			var out []Target
			for r := m.Position.Row - 2; r <= m.Position.Row+2; r++ {
				for c := m.Position.Col - 2; c <= m.Position.Col+2; c++ {
					if !InBounds(r, c) || (r == m.Position.Row && c == m.Position.Col) {
						continue
					}
					if s.MinionAt(r, c) == nil {
						out = append(out, Target{Row: r, Col: c})
					}
				}
			}
			return out
		},
		Execute: func(m *Minion, t Target, s *State) bool {
			if !InBounds(t.Row, t.Col) || s.MinionAt(t.Row, t.Col) != nil {
				return false
			}
			if chebyshev(m.Position, Position{t.Row, t.Col}) > 2 {
				return false
			}
			s.MoveMinion(m, t.Row, t.Col)
			return true
		},
	}

	// sweep: clear enemies from a three-tile arc in one direction. Clients
	// click the arc's center tile, so targets resolve through the direction
	// tier rather than an exact-target list.
	reg["sweep"] = &Ability{
		ID:   "sweep",
		Name: "Sweep",
		Cost: 2,
		ValidDirections: func(m *Minion, s *State) []Target {
			var out []Target
			for i, d := range Surrounding {
				hasEnemy := false
				for _, p := range sweepArc(m.Position, i) {
					if t := s.MinionAt(p.Row, p.Col); t != nil && t.Owner != m.Owner {
						hasEnemy = true
						break
					}
				}
				if hasEnemy {
					dir := d
					out = append(out, Target{
						Row:       m.Position.Row + d.Row,
						Col:       m.Position.Col + d.Col,
						Direction: &dir,
					})
				}
			}
			return out
		},
		Execute: func(m *Minion, t Target, s *State) bool {
			dir := t.Direction
			if dir == nil {
				// Raw coordinate fallback: derive the direction from the
				// clicked tile's offset.
				d := Offset{t.Row - m.Position.Row, t.Col - m.Position.Col}
				dir = &d
			}
			idx := -1
			for i, d := range Surrounding {
				if d == *dir {
					idx = i
					break
				}
			}
			if idx < 0 {
				return false
			}
			removed := false
			for _, p := range sweepArc(m.Position, idx) {
				if victim := s.MinionAt(p.Row, p.Col); victim != nil && victim.Owner != m.Owner {
					s.RemoveMinion(victim)
					removed = true
				}
			}
			return removed
		},
	}

	// wither_pulse: self-targeted, destination-less; clears every adjacent
	// enemy.
	reg["wither_pulse"] = &Ability{
		ID:         "wither_pulse",
		Name:       "Wither Pulse",
		Cost:       3,
		Targetless: true,
		Execute: func(m *Minion, _ Target, s *State) bool {
			for _, d := range Surrounding {
				r, c := m.Position.Row+d.Row, m.Position.Col+d.Col
				if victim := s.MinionAt(r, c); victim != nil && victim.Owner != m.Owner {
					s.RemoveMinion(victim)
				}
			}
			return true
		},
	}

	return reg
}
