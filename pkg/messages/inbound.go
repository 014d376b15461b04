package messages

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tecu23/duel-server/pkg/chess"
)

var (
	// ErrMissingPayload is returned when an event that needs data has none
	ErrMissingPayload = errors.New("missing payload")
	// ErrMissingField is returned when a required payload field is absent
	ErrMissingField = errors.New("missing field")
)

// InboundMessage is the generic wrapper for messages coming from the client.
// The "event" field tells us the action; "payload" is the data we parse further.
type InboundMessage struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client to server events
const (
	EventSetUsername  = "set-username"
	EventCreateRoom   = "create-room"
	EventJoinRoom     = "join-room"
	EventGetRoomData  = "get-room-data"
	EventStartGame    = "start-game"
	EventSwitchTurn   = "switch-turn"
	EventMovePiece    = "move-piece"
	EventPromotePiece = "promote-piece"
	EventCheckmate    = "checkmate"
)

// SetUsernamePayload names the connection's player
type SetUsernamePayload struct {
	Username string `json:"username"`
}

// CreateRoomPayload opens a room owned by the sender
type CreateRoomPayload struct {
	Name string `json:"name"`
}

// RoomRef points at a room by its creator's player id
type RoomRef struct {
	Creator string `json:"creator"`
}

// MovePayload carries one relocation. It travels unchanged from move-piece to
// piece-moved.
type MovePayload struct {
	From chess.Coordinate `json:"from"`
	To   chess.Coordinate `json:"to"`
}

// UnmarshalJSON requires both squares
func (m *MovePayload) UnmarshalJSON(data []byte) error {
	var raw struct {
		From *chess.Coordinate `json:"from"`
		To   *chess.Coordinate `json:"to"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.From == nil:
		return fmt.Errorf("%w: from", ErrMissingField)
	case raw.To == nil:
		return fmt.Errorf("%w: to", ErrMissingField)
	}

	m.From, m.To = *raw.From, *raw.To
	return nil
}

// PromotePayload carries the kind a pawn was replaced with
type PromotePayload struct {
	Coord chess.Coordinate `json:"coord"`
	Kind  chess.Kind       `json:"kind"`
}

// UnmarshalJSON requires the square and the kind
func (p *PromotePayload) UnmarshalJSON(data []byte) error {
	var raw struct {
		Coord *chess.Coordinate `json:"coord"`
		Kind  *chess.Kind       `json:"kind"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.Coord == nil:
		return fmt.Errorf("%w: coord", ErrMissingField)
	case raw.Kind == nil:
		return fmt.Errorf("%w: kind", ErrMissingField)
	}

	p.Coord, p.Kind = *raw.Coord, *raw.Kind
	return nil
}

// Decode unmarshals the payload into v. An absent payload leaves v untouched.
func (m InboundMessage) Decode(v interface{}) error {
	if len(m.Payload) == 0 || string(m.Payload) == "null" {
		return nil
	}

	return json.Unmarshal(m.Payload, v)
}

// DecodeRequired is Decode for events that carry data: an absent payload is
// an error.
func (m InboundMessage) DecodeRequired(v interface{}) error {
	if len(m.Payload) == 0 || string(m.Payload) == "null" {
		return ErrMissingPayload
	}

	return json.Unmarshal(m.Payload, v)
}
