package chess

import (
	"fmt"
	"strings"
)

// BoardSize is the number of files and ranks
const BoardSize = 8

const files = "ABCDEFGH"

// Coordinate is a square on the board. File 0..7 maps to A..H and rank 0..7
// maps to 1..8.
type Coordinate struct {
	File int
	Rank int
}

// Coord builds a coordinate from zero based file and rank indexes
func Coord(file, rank int) Coordinate {
	return Coordinate{File: file, Rank: rank}
}

// ParseCoordinate parses the two character form, e.g. "E4" or "e4".
func ParseCoordinate(s string) (Coordinate, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q", s)
	}

	file := strings.IndexByte(files, byte(strings.ToUpper(s[:1])[0]))
	rank := int(s[1] - '1')

	c := Coordinate{File: file, Rank: rank}
	if !c.Valid() {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q", s)
	}

	return c, nil
}

// MustParseCoordinate is ParseCoordinate for literals known to be valid.
func MustParseCoordinate(s string) Coordinate {
	c, err := ParseCoordinate(s)
	if err != nil {
		panic(err)
	}

	return c
}

// Valid reports whether the coordinate lies on the board
func (c Coordinate) Valid() bool {
	return c.File >= 0 && c.File < BoardSize && c.Rank >= 0 && c.Rank < BoardSize
}

// Offset returns the coordinate shifted by df files and dr ranks, and whether
// the result is still on the board.
func (c Coordinate) Offset(df, dr int) (Coordinate, bool) {
	n := Coordinate{File: c.File + df, Rank: c.Rank + dr}
	return n, n.Valid()
}

func (c Coordinate) String() string {
	if !c.Valid() {
		return "??"
	}

	return fmt.Sprintf("%c%d", files[c.File], c.Rank+1)
}

// MarshalText encodes the coordinate in its two character form
func (c Coordinate) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid coordinate (%d,%d)", c.File, c.Rank)
	}

	return []byte(c.String()), nil
}

// UnmarshalText decodes the two character form
func (c *Coordinate) UnmarshalText(text []byte) error {
	parsed, err := ParseCoordinate(string(text))
	if err != nil {
		return err
	}

	*c = parsed
	return nil
}

// AllCoordinates enumerates the 64 squares, rank by rank starting from A1.
func AllCoordinates() []Coordinate {
	all := make([]Coordinate, 0, BoardSize*BoardSize)
	for r := 0; r < BoardSize; r++ {
		for f := 0; f < BoardSize; f++ {
			all = append(all, Coordinate{File: f, Rank: r})
		}
	}

	return all
}
