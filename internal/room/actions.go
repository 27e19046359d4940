package room

import (
	"encoding/json"

	"github.com/chegg-game/chegg-server/internal/game"
	"github.com/chegg-game/chegg-server/internal/models"
	"github.com/chegg-game/chegg-server/internal/notation"
)

// ProcessAction is the single entry point for player actions. The room lock
// is held across validate, apply, log and broadcast, so every action commits
// atomically. Actions from the wrong seat, the wrong turn, or a finished game
// are dropped without a reply; rejected actions leave the state untouched and
// broadcast nothing.
func (r *Room) ProcessAction(s *Session, action models.GameAction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished || r.state.Phase == game.PhaseGameOver {
		return
	}
	slot := r.slotForLocked(s)
	if slot == nil || slot.Color != r.state.Current {
		return
	}

	var ok bool
	switch action.Type {
	case models.ActionSpawn:
		ok = r.applySpawnLocked(slot.Color, action.Payload)
	case models.ActionMove:
		ok = r.applyMoveLocked(slot.Color, action.Payload)
	case models.ActionAttack:
		ok = r.applyAttackLocked(slot.Color, action.Payload)
	case models.ActionAbility:
		ok = r.applyAbilityLocked(slot.Color, action.Payload)
	case models.ActionEndTurn:
		ok = r.applyEndTurnLocked(slot.Color)
	default:
		r.log.Debugf("unknown action type %q from %s", action.Type, slot.Color)
	}
	if !ok {
		return
	}

	if r.state.Phase == game.PhaseGameOver {
		r.finishLocked(r.state.Winner, ReasonElimination)
		return
	}
	r.broadcastStateLocked()
	if action.Type == models.ActionEndTurn {
		r.persistLocked()
	}
}

func (r *Room) applySpawnLocked(color game.Color, raw json.RawMessage) bool {
	var p models.SpawnPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return false
	}
	ps := r.state.Players[color]
	if p.CardIndex < 0 || p.CardIndex >= len(ps.Hand) {
		return false
	}
	card := ps.Hand[p.CardIndex]
	cap, ok := r.deps.Rules.Capability(card.Type)
	if !ok {
		return false
	}
	if !game.InBounds(p.Row, p.Col) || !game.IsSpawnZone(p.Row, color) {
		return false
	}
	if r.state.MinionAt(p.Row, p.Col) != nil {
		return false
	}
	if ps.Mana < card.Cost {
		return false
	}

	ps.Mana -= card.Cost
	m := game.NewMinion(card.Type, color)
	m.JustSpawned = true
	r.state.PlaceMinion(m, p.Row, p.Col)
	ps.Hand = append(ps.Hand[:p.CardIndex], ps.Hand[p.CardIndex+1:]...)

	r.logActionLocked(notation.FormatSpawn(string(color), p.Row, p.Col, card.Type))
	if cap.OnSpawn != nil {
		cap.OnSpawn(m, r.state)
	}
	return true
}

func (r *Room) applyMoveLocked(color game.Color, raw json.RawMessage) bool {
	var p models.MovePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return false
	}
	m := r.state.Registry[p.MinionID]
	if m == nil || m.Owner != color || m.HasDashed {
		return false
	}
	if !game.Contains(r.deps.Rules.ValidMoves(m, r.state), p.ToRow, p.ToCol) {
		return false
	}
	cap, ok := r.deps.Rules.Capability(m.Type)
	if !ok {
		return false
	}

	// Second move in a turn is a dash. The core pays mana for every step,
	// everyone else only for the dash.
	dash := m.HasMoved
	cost := 0
	switch {
	case cap.Core && dash:
		cost = 2
	case cap.Core:
		cost = 1
	case dash:
		cost = 1
	}
	ps := r.state.Players[color]
	if ps.Mana < cost {
		return false
	}

	from := m.Position
	ps.Mana -= cost
	r.state.MoveMinion(m, p.ToRow, p.ToCol)

	kind := notation.Move
	if dash {
		kind = notation.Dash
		m.HasDashed = true
	} else {
		m.HasMoved = true
	}
	r.logActionLocked(notation.FormatAction(string(color), kind, from.Row, from.Col, &p.ToRow, &p.ToCol, m.Type))
	return true
}

func (r *Room) applyAttackLocked(color game.Color, raw json.RawMessage) bool {
	var p models.AttackPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return false
	}
	m := r.state.Registry[p.AttackerID]
	if m == nil || m.Owner != color {
		return false
	}
	target := r.state.MinionAt(p.TargetRow, p.TargetCol)
	if target == nil || target.Owner == color {
		return false
	}
	if !game.Contains(r.deps.Rules.ValidAttacks(m, r.state), p.TargetRow, p.TargetCol) {
		return false
	}
	cap, ok := r.deps.Rules.Capability(m.Type)
	if !ok {
		return false
	}
	cost := cap.AttackCost
	if cost <= 0 {
		cost = 1
	}
	ps := r.state.Players[color]
	if ps.Mana < cost {
		return false
	}

	ps.Mana -= cost
	r.logActionLocked(notation.FormatAction(string(color), notation.Attack, m.Position.Row, m.Position.Col, &p.TargetRow, &p.TargetCol, m.Type))

	if cap.AreaEffect {
		// One committed action, one log entry: the blast clears every
		// surrounding occupant and the attacker itself.
		center := m.Position
		for _, d := range game.Surrounding {
			if v := r.state.MinionAt(center.Row+d.Row, center.Col+d.Col); v != nil {
				r.state.RemoveMinion(v)
			}
		}
		r.state.RemoveMinion(m)
		return true
	}

	r.state.RemoveMinion(target)
	if cap.MovesToAttack {
		r.state.MoveMinion(m, p.TargetRow, p.TargetCol)
	}
	return true
}

func (r *Room) applyAbilityLocked(color game.Color, raw json.RawMessage) bool {
	var p models.AbilityPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return false
	}
	m := r.state.Registry[p.MinionID]
	if m == nil || m.Owner != color || m.UsedAbility || m.JustSpawned {
		return false
	}
	cap, ok := r.deps.Rules.Capability(m.Type)
	if !ok || cap.AbilityID == "" {
		return false
	}
	ab, ok := r.deps.Abilities[cap.AbilityID]
	if !ok {
		return false
	}

	cost := ab.Cost
	if cost <= 0 {
		cost = cap.AbilityCost
	}
	if cost <= 0 {
		cost = 1
	}
	ps := r.state.Players[color]
	if ps.Mana < cost {
		return false
	}

	from := m.Position
	hasDest := p.TargetRow != nil && p.TargetCol != nil

	// Target resolution: match against the ability's advertised targets
	// first, then interpret the coordinates as a direction offset, and only
	// then fall back to the raw square. A destination-less invocation is
	// legal only for targetless abilities.
	var target game.Target
	if hasDest {
		tr, tc := *p.TargetRow, *p.TargetCol
		resolved := false
		if ab.ValidTargets != nil {
			for _, t := range ab.ValidTargets(m, r.state) {
				if t.Row == tr && t.Col == tc {
					target = t
					resolved = true
					break
				}
			}
		}
		if !resolved && ab.ValidDirections != nil {
			for _, t := range ab.ValidDirections(m, r.state) {
				if t.Direction != nil && t.Direction.Row == tr-from.Row && t.Direction.Col == tc-from.Col {
					target = t
					resolved = true
					break
				}
			}
		}
		if !resolved {
			target = game.Target{Row: tr, Col: tc}
		}
	} else if !ab.Targetless {
		return false
	}

	if !ab.Execute(m, target, r.state) {
		return false
	}
	ps.Mana -= cost
	m.UsedAbility = true

	r.logActionLocked(notation.FormatAction(string(color), notation.Ability, from.Row, from.Col, p.TargetRow, p.TargetCol, m.Type))
	return true
}

func (r *Room) applyEndTurnLocked(color game.Color) bool {
	// During setup a player may not pass the turn until their core is down.
	if r.state.Phase == game.PhaseSetup && !r.state.HasCoreOnBoard(color) {
		return false
	}
	r.state.EndTurn()
	return true
}
