package registry

import (
	"time"

	"github.com/tecu23/duel-server/pkg/chess"
)

// Player is one connected socket. It lives exactly as long as its connection.
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsInRoom bool   `json:"isInRoom"`

	// InLobby is set once the player picked a username and starts receiving
	// room announcements.
	InLobby bool `json:"-"`
}

// RoomState is the lifecycle position of a room
type RoomState string

// Room states
const (
	StateOpen      RoomState = "open"
	StateFull      RoomState = "full"
	StateActive    RoomState = "active"
	StateDissolved RoomState = "dissolved"
)

// MoveRecord is a move as relayed between the clients. It is recorded, never
// validated.
type MoveRecord struct {
	PlayerID string           `json:"player_id"`
	From     chess.Coordinate `json:"from"`
	To       chess.Coordinate `json:"to"`
	Promote  *chess.Kind      `json:"promote,omitempty"`
	At       time.Time        `json:"at"`
}

// Room pairs two players. Its key is the creator's player id; the creator is
// always Players[0].
type Room struct {
	Name      string
	CreatorID string
	Players   []*Player
	CreatedAt time.Time

	Started   bool
	StartedAt time.Time
	WinnerID  string
	Moves     []MoveRecord

	dissolved bool
	seq       uint64
}

// PlayerCount returns the number of players in the roster
func (r *Room) PlayerCount() int {
	return len(r.Players)
}

// State derives the lifecycle state from the roster and flags
func (r *Room) State() RoomState {
	switch {
	case r.dissolved:
		return StateDissolved
	case r.Started:
		return StateActive
	case len(r.Players) >= 2:
		return StateFull
	default:
		return StateOpen
	}
}

// Finished reports whether a checkmate ended the game in this room
func (r *Room) Finished() bool {
	return r.WinnerID != ""
}

func (r *Room) indexOf(playerID string) int {
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}

	return -1
}

// LeaveResult describes what a departure did to the registry
type LeaveResult struct {
	Player *Player
	Room   *Room

	// CreatorLeft is set when the room was dissolved because its creator left
	CreatorLeft bool

	// Remaining is the player left behind in a dissolved Full room
	Remaining *Player

	// Creator is the room owner to notify when a member left
	Creator *Player
}

// FinishedGame is published when a checkmate is reported
type FinishedGame struct {
	RoomName  string
	CreatorID string
	White     Player
	Black     Player
	WinnerID  string
	Moves     []MoveRecord
	StartedAt time.Time
	EndedAt   time.Time
}
