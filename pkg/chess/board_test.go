package chess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardBoardLayout(t *testing.T) {
	b := NewStandardBoard(White)

	assert.Len(t, b.Pieces(White), 16)
	assert.Len(t, b.Pieces(Black), 16)

	king := b.PieceAt(MustParseCoordinate("E1"))
	require.NotNil(t, king)
	assert.Equal(t, King, king.Kind)
	assert.Equal(t, White, king.Side)
	assert.False(t, king.HasMoved)

	queen := b.PieceAt(MustParseCoordinate("D8"))
	require.NotNil(t, queen)
	assert.Equal(t, Queen, queen.Kind)
	assert.Equal(t, Black, queen.Side)

	for _, p := range append(b.Pieces(White), b.Pieces(Black)...) {
		assert.False(t, p.HasMoved, "%s should start unmoved", p)
	}

	assert.Nil(t, b.PieceAt(MustParseCoordinate("E4")))
	assert.Nil(t, b.PieceAt(Coord(9, 9)))
}

func TestMovePieceToKeepsIdentity(t *testing.T) {
	b := NewStandardBoard(White)
	pawn := b.PieceAt(MustParseCoordinate("E2"))
	id := pawn.ID

	captured := b.MovePieceTo(pawn, MustParseCoordinate("E4"))
	assert.Nil(t, captured)
	assert.Nil(t, b.PieceAt(MustParseCoordinate("E2")))
	assert.Same(t, pawn, b.PieceAt(MustParseCoordinate("E4")))
	assert.Equal(t, id, pawn.ID)
	assert.True(t, pawn.HasMoved)
}

func TestMovePieceToCaptures(t *testing.T) {
	b := NewBoard(White)
	rook := b.PlacePiece(Rook, White, MustParseCoordinate("A1"))
	victim := b.PlacePiece(Knight, Black, MustParseCoordinate("A7"))

	captured := b.MovePieceTo(rook, MustParseCoordinate("A7"))
	assert.Same(t, victim, captured)
	assert.Empty(t, b.Pieces(Black))
	assert.Same(t, rook, b.PieceAt(MustParseCoordinate("A7")))
}

func TestRemovePieceRetractsTracking(t *testing.T) {
	b := NewStandardBoard(Black)
	knight := b.PieceAt(MustParseCoordinate("G8"))

	b.RemovePiece(knight)

	assert.Nil(t, b.PieceAt(MustParseCoordinate("G8")))
	assert.Len(t, b.Pieces(Black), 15)
	for _, p := range b.Pieces(Black) {
		assert.NotSame(t, knight, p)
	}
}

func TestNeedsPromotionOnlyForPerspective(t *testing.T) {
	b := NewBoard(White)
	own := b.PlacePiece(Pawn, White, MustParseCoordinate("A8"))
	theirs := b.PlacePiece(Pawn, Black, MustParseCoordinate("H1"))

	assert.True(t, b.NeedsPromotion(own))
	assert.False(t, b.NeedsPromotion(theirs))

	b.Perspective = Black
	assert.False(t, b.NeedsPromotion(own))
	assert.True(t, b.NeedsPromotion(theirs))
}

func TestFENRoundTrip(t *testing.T) {
	b := NewStandardBoard(White)
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR", b.FEN())

	loaded, err := NewBoardFromFEN("4k3/8/8/8/4P3/8/8/R3K2R", White)
	require.NoError(t, err)
	assert.Equal(t, "4k3/8/8/8/4P3/8/8/R3K2R", loaded.FEN())

	pawn := loaded.PieceAt(MustParseCoordinate("E4"))
	require.NotNil(t, pawn)
	assert.True(t, pawn.HasMoved)

	king := loaded.PieceAt(MustParseCoordinate("E1"))
	require.NotNil(t, king)
	assert.False(t, king.HasMoved)

	_, err = NewBoardFromFEN("", White)
	assert.Error(t, err)
}
