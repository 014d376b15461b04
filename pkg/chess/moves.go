package chess

// MoveSet is the result of generating moves for one piece
type MoveSet struct {
	Moves []Coordinate

	// CanCaptureOppositeKing is set when one of Moves holds the opposing
	// king. It is advisory only and never computed for a king.
	CanCaptureOppositeKing bool

	// CastleMoves holds the king's castling destinations (G or C file).
	CastleMoves []Coordinate
}

// Contains reports whether the coordinate is a move or a castle move
func (m MoveSet) Contains(c Coordinate) bool {
	return m.IsCastle(c) || containsCoord(m.Moves, c)
}

// IsCastle reports whether the coordinate is one of the castle moves
func (m MoveSet) IsCastle(c Coordinate) bool {
	return containsCoord(m.CastleMoves, c)
}

// Destinations returns the moves followed by the castle moves
func (m MoveSet) Destinations() []Coordinate {
	out := make([]Coordinate, 0, len(m.Moves)+len(m.CastleMoves))
	out = append(out, m.Moves...)
	return append(out, m.CastleMoves...)
}

func containsCoord(cs []Coordinate, c Coordinate) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}

	return false
}

type direction struct{ df, dr int }

var (
	orthogonal = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonal   = []direction{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	allRays    = append(append([]direction{}, orthogonal...), diagonal...)

	knightJumps = []direction{
		{1, 2}, {-1, 2}, {1, -2}, {-1, -2},
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
	}
)

type generator func(b *Board, p *Piece) MoveSet

var generators = map[Kind]generator{
	Pawn:   pawnMoves,
	Rook:   rookMoves,
	Knight: knightMoves,
	Bishop: bishopMoves,
	Queen:  queenMoves,
	King:   kingMoves,
}

// PossibleMoves returns the destinations of the piece on the board. It never
// fails; a blocked piece gets an empty set.
func PossibleMoves(b *Board, p *Piece) MoveSet {
	if p == nil {
		return MoveSet{}
	}

	gen, ok := generators[p.Kind]
	if !ok {
		return MoveSet{}
	}

	return gen(b, p)
}

func rookMoves(b *Board, p *Piece) MoveSet   { return slide(b, p, orthogonal) }
func bishopMoves(b *Board, p *Piece) MoveSet { return slide(b, p, diagonal) }
func queenMoves(b *Board, p *Piece) MoveSet  { return slide(b, p, allRays) }

// slide walks every ray until it leaves the board or meets a piece. An
// opposing piece ends the ray as a capture.
func slide(b *Board, p *Piece, rays []direction) MoveSet {
	var ms MoveSet

	for _, d := range rays {
		c, ok := p.Coord.Offset(d.df, d.dr)
		for ok {
			if other := b.PieceAt(c); other != nil {
				ms.addCapture(p, other, c)
				break
			}

			ms.Moves = append(ms.Moves, c)
			c, ok = c.Offset(d.df, d.dr)
		}
	}

	return ms
}

func knightMoves(b *Board, p *Piece) MoveSet {
	var ms MoveSet

	for _, d := range knightJumps {
		c, ok := p.Coord.Offset(d.df, d.dr)
		if !ok {
			continue
		}

		if other := b.PieceAt(c); other != nil {
			ms.addCapture(p, other, c)
			continue
		}

		ms.Moves = append(ms.Moves, c)
	}

	return ms
}

// forward is the rank delta a pawn of the side advances by
func forward(side Side) int {
	if side == White {
		return 1
	}

	return -1
}

func pawnMoves(b *Board, p *Piece) MoveSet {
	var ms MoveSet

	dir := forward(p.Side)
	steps := 2
	if p.HasMoved {
		steps = 1
	}

	for i := 1; i <= steps; i++ {
		c, ok := p.Coord.Offset(0, dir*i)
		if !ok || b.PieceAt(c) != nil {
			break
		}

		ms.Moves = append(ms.Moves, c)
	}

	for _, df := range []int{1, -1} {
		c, ok := p.Coord.Offset(df, dir)
		if !ok {
			continue
		}

		if other := b.PieceAt(c); other != nil {
			ms.addCapture(p, other, c)
		}
	}

	return ms
}

func kingMoves(b *Board, p *Piece) MoveSet {
	var ms MoveSet

	for _, d := range allRays {
		c, ok := p.Coord.Offset(d.df, d.dr)
		if !ok {
			continue
		}

		other := b.PieceAt(c)
		if other == nil || other.Side != p.Side {
			ms.Moves = append(ms.Moves, c)
		}
	}

	if !p.HasMoved {
		ms.CastleMoves = castleMoves(b, p)
	}

	return ms
}

// castleMoves checks only that an own rook sits on the A or H file of the
// king's rank and that the squares in between are empty. Whether the rook has
// moved or a transited square is attacked is not considered.
func castleMoves(b *Board, k *Piece) []Coordinate {
	var out []Coordinate

	rank := k.Coord.Rank
	sides := []struct {
		rookFile, targetFile int
	}{
		{BoardSize - 1, 6}, // kingside, G
		{0, 2},             // queenside, C
	}

	for _, s := range sides {
		rook := b.PieceAt(Coord(s.rookFile, rank))
		if rook == nil || rook.Kind != Rook || rook.Side != k.Side {
			continue
		}

		lo, hi := k.Coord.File, s.rookFile
		if lo > hi {
			lo, hi = hi, lo
		}

		empty := true
		for f := lo + 1; f < hi; f++ {
			if b.PieceAt(Coord(f, rank)) != nil {
				empty = false
				break
			}
		}

		if empty {
			out = append(out, Coord(s.targetFile, rank))
		}
	}

	return out
}

// addCapture includes the occupied square when it holds an opposing piece
func (ms *MoveSet) addCapture(p, other *Piece, c Coordinate) {
	if other.Side == p.Side {
		return
	}

	ms.Moves = append(ms.Moves, c)
	if other.Kind == King {
		ms.CanCaptureOppositeKing = true
	}
}

// CastleRook returns where the rook stands and where it lands when the king
// castles onto the target square.
func CastleRook(target Coordinate) (from, to Coordinate, ok bool) {
	switch target.File {
	case 6:
		return Coord(BoardSize-1, target.Rank), Coord(5, target.Rank), true
	case 2:
		return Coord(0, target.Rank), Coord(3, target.Rank), true
	}

	return Coordinate{}, Coordinate{}, false
}
