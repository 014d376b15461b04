package chess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coords(t *testing.T, names ...string) []Coordinate {
	t.Helper()

	out := make([]Coordinate, 0, len(names))
	for _, n := range names {
		c, err := ParseCoordinate(n)
		require.NoError(t, err)
		out = append(out, c)
	}

	return out
}

func names(cs []Coordinate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.String())
	}

	return out
}

func TestRookOnEmptyBoard(t *testing.T) {
	b := NewBoard(White)
	rook := b.PlacePiece(Rook, White, MustParseCoordinate("A1"))

	ms := PossibleMoves(b, rook)
	assert.Len(t, ms.Moves, 14)
	assert.False(t, ms.CanCaptureOppositeKing)
	assert.NotContains(t, names(ms.Moves), "A1")
}

func TestSlidingRayStopsAtFirstBlocker(t *testing.T) {
	b := NewBoard(White)
	rook := b.PlacePiece(Rook, White, MustParseCoordinate("D4"))
	b.PlacePiece(Pawn, White, MustParseCoordinate("D6"))
	b.PlacePiece(Knight, Black, MustParseCoordinate("F4"))
	b.PlacePiece(Bishop, Black, MustParseCoordinate("G4"))

	ms := PossibleMoves(b, rook)
	got := names(ms.Moves)

	assert.Contains(t, got, "D5")
	assert.NotContains(t, got, "D6", "own piece must not be included")
	assert.NotContains(t, got, "D7", "nothing beyond a blocker")
	assert.Contains(t, got, "E4")
	assert.Contains(t, got, "F4", "opposing piece is a capture")
	assert.NotContains(t, got, "G4", "nothing beyond a capture")
	assert.False(t, ms.CanCaptureOppositeKing)
}

func TestBishopAndQueenFlagKing(t *testing.T) {
	b := NewBoard(White)
	bishop := b.PlacePiece(Bishop, White, MustParseCoordinate("C1"))
	queen := b.PlacePiece(Queen, White, MustParseCoordinate("H5"))
	b.PlacePiece(King, Black, MustParseCoordinate("E3"))

	ms := PossibleMoves(b, bishop)
	assert.ElementsMatch(t, coords(t, "B2", "A3", "D2", "E3"), ms.Moves)
	assert.True(t, ms.CanCaptureOppositeKing)

	ms = PossibleMoves(b, queen)
	assert.Contains(t, names(ms.Moves), "H1")
	assert.Contains(t, names(ms.Moves), "A5")
	assert.False(t, ms.CanCaptureOppositeKing)
}

func TestKnightMoves(t *testing.T) {
	b := NewBoard(White)
	center := b.PlacePiece(Knight, White, MustParseCoordinate("D4"))
	assert.Len(t, PossibleMoves(b, center).Moves, 8)

	corner := b.PlacePiece(Knight, White, MustParseCoordinate("A1"))
	ms := PossibleMoves(b, corner)
	assert.ElementsMatch(t, coords(t, "B3", "C2"), ms.Moves)

	b.PlacePiece(Pawn, White, MustParseCoordinate("C2"))
	b.PlacePiece(King, Black, MustParseCoordinate("B3"))
	ms = PossibleMoves(b, corner)
	assert.ElementsMatch(t, coords(t, "B3"), ms.Moves)
	assert.True(t, ms.CanCaptureOppositeKing)
}

func TestKnightJumpsAreOnBoard(t *testing.T) {
	b := NewStandardBoard(White)
	for _, p := range b.Pieces(White) {
		if p.Kind != Knight {
			continue
		}

		ms := PossibleMoves(b, p)
		assert.LessOrEqual(t, len(ms.Moves), 8)
		for _, c := range ms.Moves {
			assert.True(t, c.Valid())
			if occ := b.PieceAt(c); occ != nil {
				assert.NotEqual(t, p.Side, occ.Side)
			}
		}
	}
}

func TestPawnDoubleThenSingleStep(t *testing.T) {
	b := NewStandardBoard(White)
	pawn := b.PieceAt(MustParseCoordinate("E2"))

	ms := PossibleMoves(b, pawn)
	assert.Equal(t, coords(t, "E3", "E4"), ms.Moves)

	b.MovePieceTo(pawn, MustParseCoordinate("E3"))
	ms = PossibleMoves(b, pawn)
	assert.Equal(t, coords(t, "E4"), ms.Moves)
}

func TestPawnBlockedAndCaptures(t *testing.T) {
	b := NewBoard(Black)
	pawn := b.PlacePiece(Pawn, Black, MustParseCoordinate("D7"))
	b.PlacePiece(Knight, White, MustParseCoordinate("D5"))

	ms := PossibleMoves(b, pawn)
	assert.Equal(t, coords(t, "D6"), ms.Moves, "second step blocked by any piece")

	b.PlacePiece(Knight, White, MustParseCoordinate("D6"))
	assert.Empty(t, PossibleMoves(b, pawn).Moves, "forward moves never capture")

	b.PlacePiece(Rook, White, MustParseCoordinate("C6"))
	b.PlacePiece(King, White, MustParseCoordinate("E6"))
	b.PlacePiece(Queen, Black, MustParseCoordinate("E8"))

	ms = PossibleMoves(b, pawn)
	assert.ElementsMatch(t, coords(t, "C6", "E6"), ms.Moves)
	assert.True(t, ms.CanCaptureOppositeKing)
}

func TestPawnOnLastRankHasNoMoves(t *testing.T) {
	b := NewBoard(White)
	pawn := b.PlacePiece(Pawn, White, MustParseCoordinate("B8"))
	assert.Empty(t, PossibleMoves(b, pawn).Moves)
}

func TestKingAdjacentWithoutFlag(t *testing.T) {
	b := NewBoard(White)
	king := b.PlacePiece(King, White, MustParseCoordinate("E4"))
	b.MovePieceTo(king, MustParseCoordinate("E4"))
	b.PlacePiece(King, Black, MustParseCoordinate("E5"))
	b.PlacePiece(Pawn, White, MustParseCoordinate("D3"))

	ms := PossibleMoves(b, king)
	assert.Len(t, ms.Moves, 7)
	assert.Contains(t, names(ms.Moves), "E5")
	assert.NotContains(t, names(ms.Moves), "D3")
	assert.False(t, ms.CanCaptureOppositeKing)
	assert.Empty(t, ms.CastleMoves, "a moved king never castles")
}

func TestKingsideCastle(t *testing.T) {
	b := NewBoard(White)
	king := b.PlacePiece(King, White, MustParseCoordinate("E1"))
	b.PlacePiece(Rook, White, MustParseCoordinate("H1"))

	ms := PossibleMoves(b, king)
	assert.Equal(t, coords(t, "G1"), ms.CastleMoves)
	assert.True(t, ms.Contains(MustParseCoordinate("G1")))
	assert.True(t, ms.IsCastle(MustParseCoordinate("G1")))

	b.PlacePiece(Bishop, White, MustParseCoordinate("F1"))
	ms = PossibleMoves(b, king)
	assert.Empty(t, ms.CastleMoves)
}

func TestQueensideCastleAndRookState(t *testing.T) {
	b := NewBoard(Black)
	king := b.PlacePiece(King, Black, MustParseCoordinate("E8"))
	rook := b.PlacePiece(Rook, Black, MustParseCoordinate("A8"))
	b.PlacePiece(Rook, Black, MustParseCoordinate("H8"))

	ms := PossibleMoves(b, king)
	assert.ElementsMatch(t, coords(t, "G8", "C8"), ms.CastleMoves)

	rook.HasMoved = true
	ms = PossibleMoves(b, king)
	assert.ElementsMatch(t, coords(t, "G8", "C8"), ms.CastleMoves, "rook history is not consulted")

	b.PlacePiece(Knight, Black, MustParseCoordinate("B8"))
	ms = PossibleMoves(b, king)
	assert.Equal(t, coords(t, "G8"), ms.CastleMoves)
}

func TestCastleNeedsOwnRook(t *testing.T) {
	b := NewBoard(White)
	king := b.PlacePiece(King, White, MustParseCoordinate("E1"))
	b.PlacePiece(Rook, Black, MustParseCoordinate("H1"))
	b.PlacePiece(Queen, White, MustParseCoordinate("A1"))

	assert.Empty(t, PossibleMoves(b, king).CastleMoves)
}

func TestStandardOpeningMobility(t *testing.T) {
	b := NewStandardBoard(White)

	total := 0
	for _, p := range b.Pieces(White) {
		total += len(PossibleMoves(b, p).Moves)
	}

	assert.Equal(t, 20, total)
}

func TestCastleRook(t *testing.T) {
	from, to, ok := CastleRook(MustParseCoordinate("G1"))
	require.True(t, ok)
	assert.Equal(t, "H1", from.String())
	assert.Equal(t, "F1", to.String())

	from, to, ok = CastleRook(MustParseCoordinate("C8"))
	require.True(t, ok)
	assert.Equal(t, "A8", from.String())
	assert.Equal(t, "D8", to.String())

	_, _, ok = CastleRook(MustParseCoordinate("E1"))
	assert.False(t, ok)
}
