package room

import "github.com/chegg-game/chegg-server/internal/game"

// Outbound event names.
const (
	EventPlayerAssigned  = "player_assigned"
	EventStateUpdate     = "state_update"
	EventGameEvent       = "game_event"
	EventTimerTick       = "timer_tick"
	EventGameOver        = "game_over"
	EventRatingChange    = "rating_change"
	EventCustomRoomsList = "custom_rooms_list"
	EventRoomCreated     = "room_created"
	EventAuthSuccess     = "auth_success"
	EventAuthFailure     = "auth_failure"
	EventError           = "error"
)

// Terminal reasons carried by game_over.
const (
	ReasonElimination = "elimination"
	ReasonForfeit     = "forfeit"
	ReasonTimeout     = "timeout"
	ReasonDisconnect  = "disconnect"
)

type playerAssignedPayload struct {
	Color string `json:"color"`
}

type stateUpdatePayload struct {
	State game.Snapshot `json:"state"`
}

type gameEventPayload struct {
	EventName string                 `json:"eventName"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

type timerTickPayload struct {
	PlayerTimes   map[game.Color]int `json:"playerTimes"`
	CurrentPlayer game.Color         `json:"currentPlayer"`
}

type gameOverPayload struct {
	Winner game.Color `json:"winner"`
	Reason string     `json:"reason,omitempty"`
}

type ratingSide struct {
	Username string `json:"username"`
	OldElo   int    `json:"oldElo"`
	NewElo   int    `json:"newElo"`
	Diff     int    `json:"diff"`
}

type ratingChangePayload struct {
	Blue ratingSide `json:"blue"`
	Red  ratingSide `json:"red"`
}

type roomCreatedPayload struct {
	RoomID string `json:"roomId"`
}

type authSuccessPayload struct {
	Username string `json:"username"`
	Elo      int    `json:"elo"`
	Session  string `json:"session,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// RoomInfo is one entry of a custom_rooms_list response.
type RoomInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
	Timer   int    `json:"timer"`
	Status  string `json:"status"`
}
