// Package room contains the authoritative session engine: each Room owns one
// match's game state, validates and applies every action, runs the turn
// clock, logs actions, and pushes masked snapshots to every connection. The
// Manager routes connections to rooms and owns matchmaking.
package room

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/chegg-game/chegg-server/internal/database"
	"github.com/chegg-game/chegg-server/internal/game"
	"github.com/chegg-game/chegg-server/internal/models"
	"github.com/chegg-game/chegg-server/internal/rating"
	"github.com/chegg-game/chegg-server/internal/store"
)

// Defaults applied to room configuration.
const (
	DefaultMatchTimeSeconds = 900
	DefaultTurnTimerSeconds = 60
)

// Config is a room's match configuration.
type Config struct {
	Name             string
	TurnTimerSeconds int
	MatchTimeSeconds int
	SaveGame         bool
	Ranked           bool
}

// Deps carries the shared collaborators injected into every room. Archive may
// be nil; everything else is required.
type Deps struct {
	Log       *logrus.Logger
	Store     store.Store
	Archive   *pgxpool.Pool
	Rules     game.Ruleset
	Abilities game.AbilityRegistry
}

type playerSlot struct {
	Session *Session
	Color   game.Color
	Deck    []string
}

// Room is one match's authoritative engine. All state behind mu; every
// inbound action and every clock tick is serialized through it.
type Room struct {
	ID     string
	Config Config

	mu   sync.Mutex
	deps Deps
	log  *logrus.Entry

	players    []*playerSlot
	spectators []*Session

	state       *game.State
	clocks      map[game.Color]int
	clockDone   chan struct{}
	gameLog     []string
	actionIndex int

	started    bool
	finished   bool
	ratingDone bool
}

// New creates an idle room. Players join via AddPlayer; the match begins on
// Start.
func New(id string, cfg Config, deps Deps) *Room {
	if cfg.Name == "" {
		cfg.Name = id
	}
	if cfg.TurnTimerSeconds <= 0 {
		cfg.TurnTimerSeconds = DefaultTurnTimerSeconds
	}
	if cfg.MatchTimeSeconds <= 0 {
		cfg.MatchTimeSeconds = DefaultMatchTimeSeconds
	}

	r := &Room{
		ID:     id,
		Config: cfg,
		deps:   deps,
		log:    deps.Log.WithField("room", id),
		state:  game.NewState(deps.Rules),
		clocks: map[game.Color]int{
			game.ColorBlue: cfg.MatchTimeSeconds,
			game.ColorRed:  cfg.MatchTimeSeconds,
		},
	}

	// Rule-engine notifications surface as game_event messages. The engine
	// only fires these while the room lock is held.
	r.state.OnEvent = func(eventName string, data map[string]interface{}) {
		r.broadcastLocked(EventGameEvent, gameEventPayload{EventName: eventName, Data: data})
	}

	return r
}

// AddPlayer seats a session on the given color. Capacity and color
// uniqueness are re-checked under the room lock; a refused seat returns false
// and leaves the room untouched.
func (r *Room) AddPlayer(s *Session, color game.Color, deck []string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.players) >= 2 || r.slotByColorLocked(color) != nil {
		return false
	}
	r.players = append(r.players, &playerSlot{Session: s, Color: color, Deck: deck})
	s.Emit(EventPlayerAssigned, playerAssignedPayload{Color: string(color)})
	return true
}

// AddSpectator attaches a watch-only session and sends it the current state.
func (r *Room) AddSpectator(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spectators = append(r.spectators, s)
	s.Emit(EventPlayerAssigned, playerAssignedPayload{Color: "spectator"})
	s.Emit(EventStateUpdate, stateUpdatePayload{State: r.snapshotLocked()})
	if r.started && !r.finished {
		s.Emit(EventTimerTick, timerTickPayload{
			PlayerTimes:   r.clockTimesLocked(),
			CurrentPlayer: r.state.Current,
		})
	}
}

// IsFull reports whether both player slots are taken.
func (r *Room) IsFull() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players) >= 2
}

// IsEmpty reports whether no player slot is taken.
func (r *Room) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players) == 0
}

// Finished reports whether the match has reached its terminal state.
func (r *Room) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}

// PlayerCount returns the number of seated players.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Start shuffles each player's deck, deals the core-unit hand, broadcasts the
// opening state and starts the clock.
func (r *Room) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true

	core, hasCore := game.CoreCard(r.deps.Rules)
	for _, slot := range r.players {
		ps := r.state.Players[slot.Color]
		ps.Deck = game.Shuffle(game.BuildDeck(r.deps.Rules, slot.Deck))
		if hasCore {
			ps.Hand = []game.Card{core}
		}
	}

	r.broadcastStateLocked()
	r.startClockLocked()
	r.log.WithField("players", len(r.players)).Info("match started")
}

// Forfeit ends the match in the opponent's favor.
func (r *Room) Forfeit(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot := r.slotForLocked(s)
	if slot == nil || r.finished {
		return
	}
	r.finishLocked(slot.Color.Opponent(), ReasonForfeit)
}

// HandleDisconnect vacates a session's seat. A seated player dropping during
// setup or play ends the match immediately in the opponent's favor; spectator
// departures are bookkeeping only.
func (r *Room) HandleDisconnect(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, spec := range r.spectators {
		if spec.ID == s.ID {
			r.spectators = append(r.spectators[:i], r.spectators[i+1:]...)
			break
		}
	}

	slot := r.slotForLocked(s)
	if slot == nil {
		return
	}
	if !r.finished && (r.state.Phase == game.PhaseSetup || r.state.Phase == game.PhasePlaying) {
		r.finishLocked(slot.Color.Opponent(), ReasonDisconnect)
	}
	for i, p := range r.players {
		if p.Session.ID == s.ID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
}

// GameLog returns a copy of the committed notation log.
func (r *Room) GameLog() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.gameLog))
	copy(out, r.gameLog)
	return out
}

// State exposes the authoritative state for tests and diagnostics.
func (r *Room) State() *game.State {
	return r.state
}

func (r *Room) slotForLocked(s *Session) *playerSlot {
	for _, p := range r.players {
		if p.Session.ID == s.ID {
			return p
		}
	}
	return nil
}

func (r *Room) slotByColorLocked(color game.Color) *playerSlot {
	for _, p := range r.players {
		if p.Color == color {
			return p
		}
	}
	return nil
}

// finishLocked runs the one-shot termination path: stop the clock, broadcast
// the result, update ratings (ranked only), persist and archive.
func (r *Room) finishLocked(winner game.Color, reason string) {
	if r.finished {
		return
	}
	r.finished = true

	if r.state.Phase != game.PhaseGameOver {
		r.state.Phase = game.PhaseGameOver
		r.state.Winner = winner
	}

	r.stopClockLocked()
	r.broadcastLocked(EventGameOver, gameOverPayload{Winner: r.state.Winner, Reason: reason})
	r.broadcastStateLocked()

	ratingRows := r.updateRatingsLocked(r.state.Winner)
	record := r.persistLocked()
	if record != nil && r.deps.Archive != nil {
		go func(pool *pgxpool.Pool, rec *models.MatchRecord, rows []database.RatingRow, log *logrus.Entry) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := database.ArchiveMatch(ctx, pool, rec, rows); err != nil {
				log.Warnf("match archive failed: %v", err)
			}
		}(r.deps.Archive, record, ratingRows, r.log)
	}

	r.log.WithFields(logrus.Fields{"winner": r.state.Winner, "reason": reason}).Info("match finished")
}

// updateRatingsLocked applies the one-per-match Elo update and broadcasts the
// change. Returns archive rows for the history table.
func (r *Room) updateRatingsLocked(winner game.Color) []database.RatingRow {
	if !r.Config.Ranked || r.ratingDone {
		return nil
	}
	blue := r.slotByColorLocked(game.ColorBlue)
	red := r.slotByColorLocked(game.ColorRed)
	if blue == nil || red == nil || blue.Session.Username == "" || red.Session.Username == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	blueProfile, err := r.deps.Store.GetUser(ctx, blue.Session.Username)
	if err != nil {
		r.log.Warnf("rating update skipped, cannot load %s: %v", blue.Session.Username, err)
		return nil
	}
	redProfile, err := r.deps.Store.GetUser(ctx, red.Session.Username)
	if err != nil {
		r.log.Warnf("rating update skipped, cannot load %s: %v", red.Session.Username, err)
		return nil
	}

	oldBlue, oldRed := blueProfile.Elo, redProfile.Elo
	newBlue, newRed, diff := rating.Update(oldBlue, oldRed, winner == game.ColorBlue)
	blueProfile.Elo, redProfile.Elo = newBlue, newRed

	if err := r.deps.Store.PutUser(ctx, blueProfile); err != nil {
		r.log.Warnf("failed to persist rating for %s: %v", blueProfile.Username, err)
	}
	if err := r.deps.Store.PutUser(ctx, redProfile); err != nil {
		r.log.Warnf("failed to persist rating for %s: %v", redProfile.Username, err)
	}

	blue.Session.Elo = newBlue
	red.Session.Elo = newRed
	r.ratingDone = true

	r.broadcastLocked(EventRatingChange, ratingChangePayload{
		Blue: ratingSide{Username: blueProfile.Username, OldElo: oldBlue, NewElo: newBlue, Diff: diff},
		Red:  ratingSide{Username: redProfile.Username, OldElo: oldRed, NewElo: newRed, Diff: -diff},
	})

	return []database.RatingRow{
		{Username: blueProfile.Username, OldRating: oldBlue, NewRating: newBlue},
		{Username: redProfile.Username, OldRating: oldRed, NewRating: newRed},
	}
}

// persistLocked writes the current MatchRecord save point. Best-effort: a
// failed write costs durability, never gameplay.
func (r *Room) persistLocked() *models.MatchRecord {
	if !r.Config.SaveGame {
		return nil
	}

	final, err := json.Marshal(r.snapshotLocked())
	if err != nil {
		r.log.Warnf("failed to marshal final state: %v", err)
		return nil
	}
	record := &models.MatchRecord{
		ID:         r.ID,
		Name:       r.Config.Name,
		Winner:     string(r.state.Winner),
		Turns:      r.state.TurnNumber,
		Log:        append([]string(nil), r.gameLog...),
		FinalState: final,
		Timestamp:  time.Now().UnixMilli(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := r.deps.Store.PutMatch(ctx, record); err != nil {
		r.log.Warnf("match save failed: %v", err)
	}
	return record
}

// logActionLocked appends one committed action to the notation log and
// publishes it on the action stream.
func (r *Room) logActionLocked(nota string) {
	idx := r.actionIndex
	r.actionIndex++
	r.gameLog = append(r.gameLog, nota)
	r.log.Debugf("action %d: %s", idx, nota)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.deps.Store.PublishAction(ctx, store.ActionRecord{
		RoomID:      r.ID,
		ActionIndex: idx,
		Notation:    nota,
		Timestamp:   time.Now().UnixMilli(),
	}); err != nil {
		r.log.Warnf("action stream publish failed: %v", err)
	}
}

func (r *Room) snapshotLocked() game.Snapshot {
	snap := r.state.Snapshot()
	snap.Metadata = map[game.Color]game.SeatInfo{
		game.ColorBlue: {Username: "Blue Player", Elo: models.DefaultElo},
		game.ColorRed:  {Username: "Red Player", Elo: models.DefaultElo},
	}
	for _, slot := range r.players {
		if slot.Session.Username != "" {
			snap.Metadata[slot.Color] = game.SeatInfo{
				Username: slot.Session.Username,
				Elo:      slot.Session.Elo,
			}
		}
	}
	return snap
}

// broadcastStateLocked pushes a masked snapshot to each player and the full
// snapshot to spectators. Masking is recomputed on every broadcast.
func (r *Room) broadcastStateLocked() {
	snap := r.snapshotLocked()
	for _, slot := range r.players {
		slot.Session.Emit(EventStateUpdate, stateUpdatePayload{State: snap.Masked(slot.Color)})
	}
	for _, spec := range r.spectators {
		spec.Emit(EventStateUpdate, stateUpdatePayload{State: snap})
	}
}

func (r *Room) broadcastLocked(event string, payload interface{}) {
	for _, slot := range r.players {
		slot.Session.Emit(event, payload)
	}
	for _, spec := range r.spectators {
		spec.Emit(event, payload)
	}
}

func (r *Room) clockTimesLocked() map[game.Color]int {
	out := make(map[game.Color]int, len(r.clocks))
	for c, v := range r.clocks {
		out[c] = v
	}
	return out
}

// startClockLocked launches the once-per-second tick goroutine. The clock is
// cumulative: switching turns never replenishes it.
func (r *Room) startClockLocked() {
	r.stopClockLocked()
	done := make(chan struct{})
	r.clockDone = done

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				r.tick()
			}
		}
	}()
}

func (r *Room) stopClockLocked() {
	if r.clockDone != nil {
		close(r.clockDone)
		r.clockDone = nil
	}
}

// tick decrements the clock of whichever color currently has the move.
// Reaching zero ends the match immediately in the opponent's favor.
func (r *Room) tick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished || r.state.Phase == game.PhaseGameOver {
		return
	}

	current := r.state.Current
	if r.clocks[current] <= 0 {
		return
	}
	r.clocks[current]--

	r.broadcastLocked(EventTimerTick, timerTickPayload{
		PlayerTimes:   r.clockTimesLocked(),
		CurrentPlayer: current,
	})

	if r.clocks[current] <= 0 {
		r.finishLocked(current.Opponent(), ReasonTimeout)
	}
}
