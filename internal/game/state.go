package game

// Phase is the match lifecycle state.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "gameOver"
)

// Mana economy: each color starts at StartingManaCap, the cap grows by one at
// each of that color's turn starts up to MaxManaCap, and mana refills to the
// cap. Mana is only ever debited together with a successful action.
const (
	StartingManaCap = 2
	MaxManaCap      = 10
)

// Card is one playable hand or deck entry.
type Card struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

// PlayerState is one color's hand, deck and mana pool.
type PlayerState struct {
	Hand    []Card
	Deck    []Card
	Mana    int
	ManaCap int
}

// State is the single authoritative copy of a match's game state. Clients
// only ever see derived, masked snapshots.
type State struct {
	rules    Ruleset
	board    [Rows][Cols]*Minion
	Registry map[string]*Minion
	Players  map[Color]*PlayerState

	Current    Color
	TurnNumber int
	Phase      Phase
	Winner     Color

	// OnEvent, when set, receives opaque rule-engine notifications that the
	// room forwards to clients as game_event messages.
	OnEvent func(eventName string, data map[string]interface{})
}

// NewState builds a fresh match in the setup phase with blue to act.
func NewState(rules Ruleset) *State {
	return &State{
		rules:    rules,
		Registry: make(map[string]*Minion),
		Players: map[Color]*PlayerState{
			ColorBlue: {Mana: StartingManaCap, ManaCap: StartingManaCap},
			ColorRed:  {Mana: StartingManaCap, ManaCap: StartingManaCap},
		},
		Current:    ColorBlue,
		TurnNumber: 1,
		Phase:      PhaseSetup,
	}
}

// Rules exposes the capability table the state was built with.
func (s *State) Rules() Ruleset { return s.rules }

func (s *State) emit(eventName string, data map[string]interface{}) {
	if s.OnEvent != nil {
		s.OnEvent(eventName, data)
	}
}

// MinionAt returns the occupant of (row, col), or nil for empty or
// out-of-bounds tiles.
func (s *State) MinionAt(row, col int) *Minion {
	if !InBounds(row, col) {
		return nil
	}
	return s.board[row][col]
}

// PlaceMinion puts m onto (row, col) and registers it.
func (s *State) PlaceMinion(m *Minion, row, col int) {
	m.Position = Position{row, col}
	s.board[row][col] = m
	s.Registry[m.ID] = m
}

// MoveMinion relocates m to (row, col).
func (s *State) MoveMinion(m *Minion, row, col int) {
	s.board[m.Position.Row][m.Position.Col] = nil
	m.Position = Position{row, col}
	s.board[row][col] = m
}

// RemoveMinion takes m off the board. Removing a core unit ends the match in
// favor of the opponent; if several units die in one commit, the first core
// removed decides the winner.
func (s *State) RemoveMinion(m *Minion) {
	s.board[m.Position.Row][m.Position.Col] = nil
	delete(s.Registry, m.ID)

	s.emit("minion_destroyed", map[string]interface{}{
		"id":    m.ID,
		"type":  m.Type,
		"owner": string(m.Owner),
	})

	if cap, ok := s.rules[m.Type]; ok && cap.Core && s.Phase != PhaseGameOver {
		s.Phase = PhaseGameOver
		s.Winner = m.Owner.Opponent()
	}
}

// PlayerMinions returns color's units in registry order (unordered).
func (s *State) PlayerMinions(color Color) []*Minion {
	var out []*Minion
	for _, m := range s.Registry {
		if m.Owner == color {
			out = append(out, m)
		}
	}
	return out
}

// HasCoreOnBoard reports whether color's core unit is on the board.
func (s *State) HasCoreOnBoard(color Color) bool {
	for _, m := range s.Registry {
		if m.Owner != color {
			continue
		}
		if cap, ok := s.rules[m.Type]; ok && cap.Core {
			return true
		}
	}
	return false
}

// Draw moves the top deck card into color's hand. Returns false on an empty
// deck.
func (s *State) Draw(color Color) bool {
	ps := s.Players[color]
	if len(ps.Deck) == 0 {
		return false
	}
	ps.Hand = append(ps.Hand, ps.Deck[0])
	ps.Deck = ps.Deck[1:]
	return true
}

// EndTurn clears the ending side's per-turn flags, advances the color to act,
// increments the turn number on wraparound, promotes setup to playing once
// both cores are placed, and runs the new side's upkeep (mana growth and
// refill, one card drawn) during the playing phase.
func (s *State) EndTurn() {
	for _, m := range s.Registry {
		if m.Owner != s.Current {
			continue
		}
		m.HasMoved = false
		m.HasDashed = false
		m.UsedAbility = false
		m.JustSpawned = false
	}

	s.Current = s.Current.Opponent()
	if s.Current == ColorBlue {
		s.TurnNumber++
	}

	if s.Phase == PhaseSetup && s.HasCoreOnBoard(ColorBlue) && s.HasCoreOnBoard(ColorRed) {
		s.Phase = PhasePlaying
		s.emit("phase_change", map[string]interface{}{"phase": string(PhasePlaying)})
	}

	if s.Phase == PhasePlaying {
		ps := s.Players[s.Current]
		if ps.ManaCap < MaxManaCap {
			ps.ManaCap++
		}
		ps.Mana = ps.ManaCap
		s.Draw(s.Current)
	}
}
