package game

// Snapshot is the derived, serializable view of a match pushed to clients.
// Masking is recomputed per broadcast; the authoritative State never leaves
// the room.
type Snapshot struct {
	Phase      Phase                `json:"phase"`
	Winner     Color                `json:"winner,omitempty"`
	Current    Color                `json:"currentPlayer"`
	TurnNumber int                  `json:"turnNumber"`
	Minions    []MinionView         `json:"minions"`
	Players    map[Color]PlayerView `json:"players"`
	Metadata   map[Color]SeatInfo   `json:"metadata,omitempty"`
}

// MinionView is one unit as visible to every connection.
type MinionView struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Owner       Color  `json:"owner"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	HasMoved    bool   `json:"hasMoved"`
	HasDashed   bool   `json:"hasDashed"`
	UsedAbility bool   `json:"usedAbility"`
}

// PlayerView is one color's visible resources. Masked hands keep their length
// but every entry becomes an opaque placeholder.
type PlayerView struct {
	Hand      []CardView `json:"hand"`
	DeckCount int        `json:"deckCount"`
	Mana      int        `json:"mana"`
	ManaCap   int        `json:"manaCap"`
}

// CardView is a hand entry; Hidden placeholders carry no identity.
type CardView struct {
	Type   string `json:"type,omitempty"`
	Name   string `json:"name,omitempty"`
	Cost   int    `json:"cost,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

// SeatInfo identifies who occupies a color, for display.
type SeatInfo struct {
	Username string `json:"username"`
	Elo      int    `json:"elo"`
}

// Snapshot derives the full (unmasked) view of the current state. Minions are
// listed in board order so snapshots are deterministic.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:      s.Phase,
		Winner:     s.Winner,
		Current:    s.Current,
		TurnNumber: s.TurnNumber,
		Players:    make(map[Color]PlayerView, 2),
	}

	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			m := s.board[row][col]
			if m == nil {
				continue
			}
			snap.Minions = append(snap.Minions, MinionView{
				ID:          m.ID,
				Type:        m.Type,
				Owner:       m.Owner,
				Row:         m.Position.Row,
				Col:         m.Position.Col,
				HasMoved:    m.HasMoved,
				HasDashed:   m.HasDashed,
				UsedAbility: m.UsedAbility,
			})
		}
	}

	for color, ps := range s.Players {
		view := PlayerView{
			Hand:      make([]CardView, 0, len(ps.Hand)),
			DeckCount: len(ps.Deck),
			Mana:      ps.Mana,
			ManaCap:   ps.ManaCap,
		}
		for _, c := range ps.Hand {
			view.Hand = append(view.Hand, CardView{Type: c.Type, Name: c.Name, Cost: c.Cost})
		}
		snap.Players[color] = view
	}

	return snap
}

// Masked returns a copy of the snapshot with the viewer's opponent's hand
// replaced by opaque placeholders that preserve count but hide identity.
func (snap Snapshot) Masked(viewer Color) Snapshot {
	out := snap
	out.Players = make(map[Color]PlayerView, len(snap.Players))
	for color, view := range snap.Players {
		if color == viewer {
			out.Players[color] = view
			continue
		}
		masked := view
		masked.Hand = make([]CardView, len(view.Hand))
		for i := range masked.Hand {
			masked.Hand[i] = CardView{Hidden: true}
		}
		out.Players[color] = masked
	}
	return out
}
