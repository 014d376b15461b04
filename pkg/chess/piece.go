package chess

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind tags the piece variant; move generation dispatches on it.
type Kind uint8

// All the piece kinds
const (
	Pawn Kind = iota
	Rook
	Knight
	Bishop
	Queen
	King
)

var kindNames = [...]string{"pawn", "rook", "knight", "bishop", "queen", "king"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "unknown"
}

// ParseKind accepts the lower or upper case kind name
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}

	return 0, fmt.Errorf("unknown piece kind %q", s)
}

// MarshalText encodes the kind as its lower case name
func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("unknown piece kind %d", k)
	}

	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}

	*k = parsed
	return nil
}

// Promotable reports whether a pawn may be promoted to the kind
func (k Kind) Promotable() bool {
	return k == Rook || k == Knight || k == Bishop || k == Queen
}

// Piece is a single chess piece. The same value is relocated when it moves;
// captured pieces are dropped from the board.
type Piece struct {
	ID       uuid.UUID
	Kind     Kind
	Side     Side
	Coord    Coordinate
	HasMoved bool
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s %s@%s", p.Side, p.Kind, p.Coord)
}

var newPieceID = uuid.New
