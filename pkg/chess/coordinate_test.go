package chess

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinate(t *testing.T) {
	c, err := ParseCoordinate("E4")
	require.NoError(t, err)
	assert.Equal(t, Coord(4, 3), c)

	c, err = ParseCoordinate("a1")
	require.NoError(t, err)
	assert.Equal(t, Coord(0, 0), c)

	for _, bad := range []string{"", "E", "E9", "I1", "E0", "E44", "44"} {
		_, err := ParseCoordinate(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestCoordinateJSON(t *testing.T) {
	type move struct {
		From Coordinate `json:"from"`
		To   Coordinate `json:"to"`
	}

	raw, err := json.Marshal(move{From: MustParseCoordinate("E2"), To: MustParseCoordinate("E4")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"from":"E2","to":"E4"}`, string(raw))

	var m move
	require.NoError(t, json.Unmarshal([]byte(`{"from":"g1","to":"F3"}`), &m))
	assert.Equal(t, "G1", m.From.String())
	assert.Equal(t, "F3", m.To.String())
}

func TestOffsetStaysOnBoard(t *testing.T) {
	_, ok := MustParseCoordinate("H8").Offset(1, 0)
	assert.False(t, ok)

	c, ok := MustParseCoordinate("A1").Offset(1, 2)
	assert.True(t, ok)
	assert.Equal(t, "B3", c.String())
}

func TestAllCoordinates(t *testing.T) {
	all := AllCoordinates()
	require.Len(t, all, 64)

	seen := make(map[Coordinate]bool)
	for _, c := range all {
		assert.True(t, c.Valid())
		seen[c] = true
	}
	assert.Len(t, seen, 64)
}

func TestKindAndSideText(t *testing.T) {
	k, err := ParseKind("Queen")
	require.NoError(t, err)
	assert.Equal(t, Queen, k)
	assert.True(t, k.Promotable())
	assert.False(t, King.Promotable())
	assert.False(t, Pawn.Promotable())

	raw, err := json.Marshal(Black)
	require.NoError(t, err)
	assert.Equal(t, `"black"`, string(raw))

	var s Side
	require.NoError(t, json.Unmarshal([]byte(`"white"`), &s))
	assert.Equal(t, White, s)
	assert.Equal(t, Black, s.Opp())
}
