// Package game runs one side of a two-player game on the client. The local
// board is authoritative for the local player's moves; the opponent's moves
// arrive through the relay and are applied without validation.
package game

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tecu23/duel-server/pkg/chess"
	"github.com/tecu23/duel-server/pkg/messages"
)

var (
	ErrGameOver           = errors.New("game is over")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrPromotionPending   = errors.New("a promotion must be chosen first")
	ErrNoPromotion        = errors.New("no promotion pending")
	ErrInvalidPromotion   = errors.New("pawns promote to rook, knight, bishop or queen")
	ErrNotOwnPiece        = errors.New("no piece of yours on that square")
	ErrNothingSelected    = errors.New("no piece selected")
	ErrIllegalDestination = errors.New("destination is not reachable")
	ErrUnknownPiece       = errors.New("no piece on the reported square")
)

// Emitter sends one protocol event to the relay
type Emitter interface {
	Emit(event string, payload interface{}) error
}

// Game is the client side state of one game: the board and whose turn it is.
type Game struct {
	board   *chess.Board
	side    chess.Side
	enabled bool

	finished bool
	won      bool

	selected *chess.Piece
	moves    chess.MoveSet

	// pending is a pawn that reached its last rank and waits for a kind
	pending     *chess.Piece
	pendingFrom chess.Coordinate

	emitter Emitter
	logger  *zap.Logger

	mu sync.Mutex
}

// New starts a game on the standard layout. White moves first.
func New(side chess.Side, emitter Emitter, logger *zap.Logger) *Game {
	return NewFromBoard(chess.NewStandardBoard(side), emitter, logger)
}

// NewFromBoard starts a game on an existing board. The local side is the
// board's perspective.
func NewFromBoard(board *chess.Board, emitter Emitter, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Game{
		board:   board,
		side:    board.Perspective,
		enabled: board.Perspective == chess.White,
		emitter: emitter,
		logger:  logger.With(zap.Stringer("side", board.Perspective)),
	}
}

// Board returns the local board
func (g *Game) Board() *chess.Board {
	return g.board
}

// Side returns the side played locally
func (g *Game) Side() chess.Side {
	return g.side
}

// Enabled reports whether the local side may move
func (g *Game) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.enabled
}

// Finished reports whether a king was captured
func (g *Game) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.finished
}

// Won reports whether the local side won. Only meaningful once finished.
func (g *Game) Won() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.won
}

// Selected returns the selected piece and its destinations
func (g *Game) Selected() (*chess.Piece, chess.MoveSet) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.selected, g.moves
}

// PendingPromotion returns the square of a pawn waiting to be promoted
func (g *Game) PendingPromotion() (chess.Coordinate, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return chess.Coordinate{}, false
	}

	return g.pending.Coord, true
}

// Select picks one of the local side's pieces and returns where it can go.
// Selecting again replaces the previous selection.
func (g *Game) Select(c chess.Coordinate) (chess.MoveSet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkCanAct(); err != nil {
		return chess.MoveSet{}, err
	}

	p := g.board.PieceAt(c)
	if p == nil || p.Side != g.side {
		return chess.MoveSet{}, fmt.Errorf("%w: %s", ErrNotOwnPiece, c)
	}

	g.selected = p
	g.moves = chess.PossibleMoves(g.board, p)

	return g.moves, nil
}

// Deselect drops the current selection
func (g *Game) Deselect() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.clearSelection()
}

// MoveTo moves the selected piece and tells the opponent. A pawn reaching
// its last rank suspends the move until Promote is called.
func (g *Game) MoveTo(to chess.Coordinate) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkCanAct(); err != nil {
		return err
	}

	if g.selected == nil {
		return ErrNothingSelected
	}

	if !g.moves.Contains(to) {
		return fmt.Errorf("%w: %s to %s", ErrIllegalDestination, g.selected.Coord, to)
	}

	piece, moves := g.selected, g.moves
	from := piece.Coord
	target := g.board.PieceAt(to)

	g.clearSelection()
	g.enabled = false

	switch {
	case target != nil && target.Kind == chess.King && target.Side != g.side:
		g.board.MovePieceTo(piece, to)
		g.finished = true
		g.logger.Info("opposing king captured", zap.Stringer("from", from), zap.Stringer("to", to))

		return g.emit(
			event{messages.EventMovePiece, messages.MovePayload{From: from, To: to}},
			event{messages.EventCheckmate, nil},
		)

	case moves.IsCastle(to):
		rookFrom, rookTo, _ := chess.CastleRook(to)
		rook := g.board.PieceAt(rookFrom)

		g.board.MovePieceTo(piece, to)
		if rook != nil {
			g.board.MovePieceTo(rook, rookTo)
		}
		g.logMove(from, to)

		return g.emit(
			event{messages.EventMovePiece, messages.MovePayload{From: from, To: to}},
			event{messages.EventMovePiece, messages.MovePayload{From: rookFrom, To: rookTo}},
			event{messages.EventSwitchTurn, nil},
		)
	}

	g.board.MovePieceTo(piece, to)
	if g.board.NeedsPromotion(piece) {
		g.pending = piece
		g.pendingFrom = from
		g.logger.Debug("promotion pending", zap.Stringer("square", to))
		return nil
	}
	g.logMove(from, to)

	return g.emit(
		event{messages.EventMovePiece, messages.MovePayload{From: from, To: to}},
		event{messages.EventSwitchTurn, nil},
	)
}

// Promote replaces the pending pawn and completes the suspended move
func (g *Game) Promote(kind chess.Kind) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return ErrNoPromotion
	}

	if !kind.Promotable() {
		return fmt.Errorf("%w: %s", ErrInvalidPromotion, kind)
	}

	pawn, from := g.pending, g.pendingFrom
	at := pawn.Coord

	g.board.RemovePiece(pawn)
	promoted := g.board.PlacePiece(kind, g.side, at)
	promoted.HasMoved = true

	g.pending = nil
	g.logMove(from, at)

	return g.emit(
		event{messages.EventMovePiece, messages.MovePayload{From: from, To: at}},
		event{messages.EventPromotePiece, messages.PromotePayload{Coord: at, Kind: kind}},
		event{messages.EventSwitchTurn, nil},
	)
}

// ApplyRemoteMove mirrors a move made by the opponent. The returned flag
// reports whether any opposing piece can now reach the local king.
func (g *Game) ApplyRemoteMove(from, to chess.Coordinate) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.board.PieceAt(from)
	if p == nil {
		return false, fmt.Errorf("%w: %s", ErrUnknownPiece, from)
	}

	if captured := g.board.MovePieceTo(p, to); captured != nil {
		g.logger.Debug("piece captured", zap.Stringer("piece", captured))
	}
	g.logMove(from, to)

	return g.inCheck(), nil
}

// ApplyRemotePromotion swaps the opponent's pawn for the chosen kind
func (g *Game) ApplyRemotePromotion(c chess.Coordinate, kind chess.Kind) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.board.PieceAt(c)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPiece, c)
	}

	if !kind.Promotable() {
		return fmt.Errorf("%w: %s", ErrInvalidPromotion, kind)
	}

	side := p.Side
	g.board.RemovePiece(p)
	promoted := g.board.PlacePiece(kind, side, c)
	promoted.HasMoved = true

	g.logger.Debug("remote promotion", zap.Stringer("square", c), zap.Stringer("kind", kind))
	return nil
}

// GrantTurn hands the move to the local side
func (g *Game) GrantTurn() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.finished {
		return
	}

	g.enabled = true
}

// Finish ends the game with the relay's verdict
func (g *Game) Finish(won bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.finished = true
	g.won = won
	g.enabled = false
	g.pending = nil
	g.clearSelection()
}

// InCheck reports whether any opposing piece can reach the local king
func (g *Game) InCheck() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.inCheck()
}

func (g *Game) inCheck() bool {
	for _, p := range g.board.Pieces(g.side.Opp()) {
		if chess.PossibleMoves(g.board, p).CanCaptureOppositeKing {
			return true
		}
	}

	return false
}

func (g *Game) checkCanAct() error {
	switch {
	case g.finished:
		return ErrGameOver
	case g.pending != nil:
		return ErrPromotionPending
	case !g.enabled:
		return ErrNotYourTurn
	}

	return nil
}

func (g *Game) clearSelection() {
	g.selected = nil
	g.moves = chess.MoveSet{}
}

func (g *Game) logMove(from, to chess.Coordinate) {
	g.logger.Debug("move applied",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.String("fen", g.board.FEN()))
}

type event struct {
	name    string
	payload interface{}
}

func (g *Game) emit(events ...event) error {
	for _, e := range events {
		if err := g.emitter.Emit(e.name, e.payload); err != nil {
			return fmt.Errorf("emit %s: %w", e.name, err)
		}
	}

	return nil
}
