// Package chess holds the board model and the move generation engine shared
// by both clients of a game.
package chess

import "fmt"

// Side is one of the two players of a game
type Side uint8

// Possible sides in a chess game
const (
	White Side = iota
	Black
)

// Opp returns the opposite side for the given side.
func (s Side) Opp() Side {
	if s == White {
		return Black
	}

	return White
}

func (s Side) String() string {
	if s == White {
		return "white"
	}

	return "black"
}

// MarshalText encodes the side as "white" or "black"
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes "white" or "black"
func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white", "w":
		*s = White
	case "black", "b":
		*s = Black
	default:
		return fmt.Errorf("unknown side %q", string(text))
	}

	return nil
}
