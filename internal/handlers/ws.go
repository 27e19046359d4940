// Package handlers carries the websocket transport: it accepts connections,
// decodes client envelopes, and forwards them to the room manager. All game
// logic lives behind the manager; this layer only parses and routes.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/chegg-game/chegg-server/internal/middleware"
	"github.com/chegg-game/chegg-server/internal/models"
	"github.com/chegg-game/chegg-server/internal/room"
)

// Envelope is the framing for every message in both directions.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client request payloads.
type authRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
	Session  string `json:"session,omitempty"`
}

type matchmakingRequest struct {
	Deck []string `json:"deck"`
}

type createRoomRequest struct {
	RoomID   string   `json:"roomId,omitempty"`
	Name     string   `json:"name,omitempty"`
	Timer    int      `json:"timer,omitempty"`
	SaveGame bool     `json:"saveGame,omitempty"`
	Deck     []string `json:"deck"`
}

type joinRoomRequest struct {
	RoomID string   `json:"roomId"`
	Deck   []string `json:"deck"`
}

type spectateRequest struct {
	RoomID string `json:"roomId"`
}

// outChanSize bounds the per-connection send queue; messages past it are
// dropped rather than stalling the room.
const outChanSize = 64

// writeTimeout caps a single websocket write.
const writeTimeout = 3 * time.Second

// GameWSHandler upgrades the connection, registers a session with the
// manager, and runs the read loop until the client goes away.
func GameWSHandler(logger *logrus.Logger, manager *room.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"chegg"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "chegg" {
			c.Close(websocket.StatusPolicyViolation, "Client must use the 'chegg' subprotocol.")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path, c.Subprotocol())

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		out := make(chan []byte, outChanSize)
		session := room.NewSession(func(event string, payload interface{}) {
			data, err := json.Marshal(payload)
			if err != nil {
				logger.Errorf("failed to marshal %s payload: %v", event, err)
				return
			}
			msg, err := json.Marshal(Envelope{Event: event, Payload: data})
			if err != nil {
				logger.Errorf("failed to marshal %s envelope: %v", event, err)
				return
			}
			select {
			case out <- msg:
			default:
				logger.Warnf("send queue full, dropped %s message", event)
			}
		})
		manager.Register(session)

		go writePump(ctx, c, out, logger)

		readErr := readMessages(ctx, c, session, manager, logger)
		manager.HandleDisconnect(session)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, session.ID.String(), readErr)
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// writePump drains the session's out channel onto the websocket, one write at
// a time, until the connection context ends.
func writePump(ctx context.Context, c *websocket.Conn, out <-chan []byte, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-out:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				logger.Debugf("websocket write failed: %v", err)
				return
			}
		}
	}
}

// readMessages runs the blocking read loop, dispatching each envelope.
func readMessages(ctx context.Context, c *websocket.Conn, session *room.Session, manager *room.Manager, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			return err
		}
		if msgType != websocket.MessageText {
			continue
		}
		dispatch(ctx, session, manager, data, logger)
	}
}

// dispatch decodes one envelope and routes it. Identity-changing and
// game-changing events require a completed auth handshake first.
func dispatch(ctx context.Context, session *room.Session, manager *room.Manager, data []byte, logger *logrus.Logger) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		logger.Debugf("malformed envelope from %s: %v", session.ID, err)
		session.Emit(room.EventError, map[string]string{"message": "Malformed message"})
		return
	}

	switch env.Event {
	case "auth":
		var req authRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			session.Emit(room.EventError, map[string]string{"message": "Malformed auth payload"})
			return
		}
		manager.Authenticate(ctx, session, req.Username, req.Token, req.Session)

	case "join_matchmaking":
		if !requireAuth(session) {
			return
		}
		var req matchmakingRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			session.Emit(room.EventError, map[string]string{"message": "Malformed join_matchmaking payload"})
			return
		}
		manager.EnqueueForMatchmaking(session, req.Deck)

	case "create_custom_room":
		if !requireAuth(session) {
			return
		}
		var req createRoomRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			session.Emit(room.EventError, map[string]string{"message": "Malformed create_custom_room payload"})
			return
		}
		manager.CreateCustomRoom(session, req.RoomID, req.Name, req.Timer, req.SaveGame, req.Deck)

	case "join_custom_room":
		if !requireAuth(session) {
			return
		}
		var req joinRoomRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			session.Emit(room.EventError, map[string]string{"message": "Malformed join_custom_room payload"})
			return
		}
		manager.JoinCustomRoom(session, req.RoomID, req.Deck)

	case "spectate_room":
		var req spectateRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			session.Emit(room.EventError, map[string]string{"message": "Malformed spectate_room payload"})
			return
		}
		manager.SpectateRoom(session, req.RoomID)

	case "get_custom_rooms":
		session.Emit(room.EventCustomRoomsList, manager.ListCustomRooms())

	case "game_action":
		if !requireAuth(session) {
			return
		}
		var action models.GameAction
		if err := json.Unmarshal(env.Payload, &action); err != nil {
			session.Emit(room.EventError, map[string]string{"message": "Malformed game_action payload"})
			return
		}
		manager.RouteAction(session, action)

	case "forfeit":
		if !requireAuth(session) {
			return
		}
		manager.HandleForfeit(session)

	default:
		session.Emit(room.EventError, map[string]string{"message": "Unknown event: " + env.Event})
	}
}

func requireAuth(session *room.Session) bool {
	if session.Authenticated {
		return true
	}
	session.Emit(room.EventError, map[string]string{"message": "Not authenticated"})
	return false
}
