package messages

import "github.com/tecu23/duel-server/pkg/chess"

// OutboundMessage is how we wrap responses before sending
// them to the client
type OutboundMessage struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// Server to client events
const (
	EventPlayerData     = "player-data"
	EventRoomList       = "room-list"
	EventRoomCreated    = "room-created"
	EventRoomData       = "room-data"
	EventRoomRemoved    = "room-removed"
	EventPlayerJoined   = "player-joined"
	EventPlayerLeftRoom = "player-left-room"
	EventKicked         = "kicked"
	EventHostLeft       = "host-left"
	EventPlayerLeftGame = "player-left-game"
	EventGameStarted    = "game-started"
	EventSideAssigned   = "side-assigned"
	EventTurnYours      = "turn-yours"
	EventPieceMoved     = "piece-moved"
	EventPiecePromoted  = "piece-promoted"
	EventWin            = "win"
	EventLose           = "lose"
	EventError          = "error"
)

// PlayerView is a player as clients see it
type PlayerView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsInRoom bool   `json:"isInRoom"`
}

// RoomView is a room as clients see it. Players[0] is always the creator.
type RoomView struct {
	Name        string       `json:"name"`
	Creator     string       `json:"creator"`
	Players     []PlayerView `json:"players"`
	PlayerCount int          `json:"playerCount"`
	State       string       `json:"state,omitempty"`
}

// Full reports whether the room already seats two players
func (r RoomView) Full() bool {
	return r.PlayerCount >= 2
}

// RoomListPayload is the lobby snapshot sent after a username is set
type RoomListPayload struct {
	Rooms []RoomView `json:"rooms"`
}

// SideAssignedPayload is sent as a bare "white" or "black" string
type SideAssignedPayload = chess.Side

// ErrorPayload describes a frame the relay could not handle
type ErrorPayload struct {
	Message string `json:"message"`
}
