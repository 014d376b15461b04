package chess

// startingLayout lists the back rank from file A to H
var startingLayout = [BoardSize]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board is the live set of pieces on the 8x8 grid. It is owned by one client
// and is not safe for concurrent use.
type Board struct {
	// Perspective is the side the local client plays. It decides which
	// promotions are chosen locally.
	Perspective Side

	squares [BoardSize][BoardSize]*Piece
	pieces  [2][]*Piece
}

// NewBoard returns an empty board seen from the given side
func NewBoard(perspective Side) *Board {
	return &Board{Perspective: perspective}
}

// NewStandardBoard returns a board holding the standard starting layout
func NewStandardBoard(perspective Side) *Board {
	b := NewBoard(perspective)

	for f, kind := range startingLayout {
		b.PlacePiece(kind, White, Coord(f, 0))
		b.PlacePiece(Pawn, White, Coord(f, 1))
		b.PlacePiece(Pawn, Black, Coord(f, 6))
		b.PlacePiece(kind, Black, Coord(f, 7))
	}

	return b
}

// PlacePiece creates a piece on the coordinate. Whatever occupied the square
// is removed first. A freshly placed piece has not moved.
func (b *Board) PlacePiece(kind Kind, side Side, c Coordinate) *Piece {
	p := &Piece{ID: newPieceID(), Kind: kind, Side: side}

	b.MovePieceTo(p, c)
	b.pieces[side] = append(b.pieces[side], p)
	p.HasMoved = false

	return p
}

// PieceAt returns the piece on the coordinate, or nil
func (b *Board) PieceAt(c Coordinate) *Piece {
	if !c.Valid() {
		return nil
	}

	return b.squares[c.File][c.Rank]
}

// RemovePiece takes the piece off the board and out of its side's tracked
// pieces.
func (b *Board) RemovePiece(p *Piece) {
	if p == nil {
		return
	}

	if p.Coord.Valid() && b.squares[p.Coord.File][p.Coord.Rank] == p {
		b.squares[p.Coord.File][p.Coord.Rank] = nil
	}

	tracked := b.pieces[p.Side]
	for i, t := range tracked {
		if t == p {
			b.pieces[p.Side] = append(tracked[:i], tracked[i+1:]...)
			break
		}
	}
}

// MovePieceTo relocates the piece and marks it as moved. A piece already on
// the destination is removed and returned.
func (b *Board) MovePieceTo(p *Piece, c Coordinate) *Piece {
	if !c.Valid() {
		return nil
	}

	captured := b.squares[c.File][c.Rank]
	if captured == p {
		captured = nil
	}
	if captured != nil {
		b.RemovePiece(captured)
	}

	if p.Coord.Valid() && b.squares[p.Coord.File][p.Coord.Rank] == p {
		b.squares[p.Coord.File][p.Coord.Rank] = nil
	}

	p.Coord = c
	p.HasMoved = true
	b.squares[c.File][c.Rank] = p

	return captured
}

// Pieces returns a snapshot of the side's tracked pieces
func (b *Board) Pieces(side Side) []*Piece {
	out := make([]*Piece, len(b.pieces[side]))
	copy(out, b.pieces[side])
	return out
}

// King returns the side's king, or nil once it has been captured
func (b *Board) King(side Side) *Piece {
	for _, p := range b.pieces[side] {
		if p.Kind == King {
			return p
		}
	}

	return nil
}

// LastRank returns the rank index a pawn of the side promotes on
func LastRank(side Side) int {
	if side == White {
		return BoardSize - 1
	}

	return 0
}

// NeedsPromotion reports whether the piece is a pawn of the local side
// standing on its last rank. The opponent's promotions arrive over the wire.
func (b *Board) NeedsPromotion(p *Piece) bool {
	return p != nil &&
		p.Kind == Pawn &&
		p.Side == b.Perspective &&
		p.Coord.Rank == LastRank(p.Side)
}
