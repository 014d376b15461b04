package chess

import (
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

var kindToType = map[Kind]nchess.PieceType{
	Pawn:   nchess.Pawn,
	Rook:   nchess.Rook,
	Knight: nchess.Knight,
	Bishop: nchess.Bishop,
	Queen:  nchess.Queen,
	King:   nchess.King,
}

var typeToKind = map[nchess.PieceType]Kind{
	nchess.Pawn:   Pawn,
	nchess.Rook:   Rook,
	nchess.Knight: Knight,
	nchess.Bishop: Bishop,
	nchess.Queen:  Queen,
	nchess.King:   King,
}

func toColor(s Side) nchess.Color {
	if s == White {
		return nchess.White
	}

	return nchess.Black
}

func toSquare(c Coordinate) nchess.Square {
	return nchess.NewSquare(nchess.File(c.File), nchess.Rank(c.Rank))
}

// FEN renders the piece placement field of the board, e.g.
// "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR".
func (b *Board) FEN() string {
	m := make(map[nchess.Square]nchess.Piece)
	for _, side := range []Side{White, Black} {
		for _, p := range b.pieces[side] {
			m[toSquare(p.Coord)] = nchess.NewPiece(kindToType[p.Kind], toColor(p.Side))
		}
	}

	return nchess.NewBoard(m).String()
}

// NewBoardFromFEN builds a board from a FEN string. Only the placement field
// is used; when the other fields are missing defaults are filled in. Pawns off
// their home rank and kings off their home square count as moved.
func NewBoardFromFEN(fen string, perspective Side) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty fen")
	}
	if len(fields) == 1 {
		fen = fields[0] + " w - - 0 1"
	}

	opt, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}

	squares := nchess.NewGame(opt).Position().Board().SquareMap()
	b := NewBoard(perspective)

	for _, c := range AllCoordinates() {
		np, ok := squares[toSquare(c)]
		if !ok || np == nchess.NoPiece {
			continue
		}

		kind, ok := typeToKind[np.Type()]
		if !ok {
			continue
		}

		side := White
		if np.Color() == nchess.Black {
			side = Black
		}

		p := b.PlacePiece(kind, side, c)
		p.HasMoved = !onHomeSquare(p)
	}

	return b, nil
}

func onHomeSquare(p *Piece) bool {
	switch p.Kind {
	case Pawn:
		if p.Side == White {
			return p.Coord.Rank == 1
		}
		return p.Coord.Rank == BoardSize-2
	case King:
		return p.Coord.File == 4 && p.Coord.Rank == LastRank(p.Side.Opp())
	default:
		return true
	}
}
