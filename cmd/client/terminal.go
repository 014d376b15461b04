package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/tecu23/duel-server/pkg/chess"
	"github.com/tecu23/duel-server/pkg/game"
	"github.com/tecu23/duel-server/pkg/messages"
)

var glyphs = map[chess.Kind]string{
	chess.Pawn:   "p",
	chess.Rook:   "r",
	chess.Knight: "n",
	chess.Bishop: "b",
	chess.Queen:  "q",
	chess.King:   "k",
}

var (
	lightSquare = color.New(color.BgHiWhite, color.FgBlack)
	darkSquare  = color.New(color.BgGreen, color.FgBlack)
	target      = color.New(color.BgYellow, color.FgBlack)
	picked      = color.New(color.BgCyan, color.FgBlack, color.Bold)
	noticeColor = color.New(color.FgMagenta)
	winColor    = color.New(color.FgGreen, color.Bold)
	loseColor   = color.New(color.FgRed, color.Bold)
)

// terminal renders the session to a text stream
type terminal struct {
	mu  sync.Mutex
	out io.Writer

	rooms []messages.RoomView
	game  *game.Game
}

func newTerminal(out io.Writer) *terminal {
	return &terminal{out: out}
}

func (t *terminal) OnLobby(rooms []messages.RoomView) {
	t.mu.Lock()
	t.rooms = append([]messages.RoomView(nil), rooms...)
	t.mu.Unlock()

	t.redrawLobby()
}

func (t *terminal) OnRoom(room messages.RoomView) {
	names := make([]string, 0, len(room.Players))
	for _, p := range room.Players {
		names = append(names, p.Username)
	}

	t.print(fmt.Sprintf("room %q (%d/2): %s", room.Name, room.PlayerCount, strings.Join(names, ", ")))
}

func (t *terminal) OnBoard(g *game.Game) {
	t.mu.Lock()
	t.game = g
	t.mu.Unlock()

	t.redrawBoard()
}

func (t *terminal) OnNotice(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	noticeColor.Fprintln(t.out, text)
}

func (t *terminal) OnGameOver(won bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if won {
		winColor.Fprintln(t.out, "You win!")
		return
	}
	loseColor.Fprintln(t.out, "You lose!")
}

func (t *terminal) print(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintln(t.out, text)
}

func (t *terminal) redrawLobby() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.rooms) == 0 {
		fmt.Fprintln(t.out, "no open rooms")
		return
	}

	for _, r := range t.rooms {
		state := r.State
		if state == "" {
			state = "open"
			if r.Full() {
				state = "full"
			}
		}
		fmt.Fprintf(t.out, "  %-20s %d/2 %-6s join %s\n", r.Name, r.PlayerCount, state, r.Creator)
	}
}

func (t *terminal) redrawBoard() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.game == nil {
		fmt.Fprintln(t.out, "no game in progress")
		return
	}

	renderBoard(t.out, t.game)
}

// renderBoard draws the board with the local side at the bottom
func renderBoard(w io.Writer, g *game.Game) {
	side := g.Side()
	board := g.Board()
	sel, moves := g.Selected()

	ranks := []int{7, 6, 5, 4, 3, 2, 1, 0}
	fileOrder := []int{0, 1, 2, 3, 4, 5, 6, 7}
	if side == chess.Black {
		ranks = []int{0, 1, 2, 3, 4, 5, 6, 7}
		fileOrder = []int{7, 6, 5, 4, 3, 2, 1, 0}
	}

	for _, r := range ranks {
		fmt.Fprintf(w, "%d ", r+1)
		for _, f := range fileOrder {
			c := chess.Coord(f, r)
			cell := " " + glyph(board.PieceAt(c)) + " "

			switch {
			case sel != nil && sel.Coord == c:
				picked.Fprint(w, cell)
			case moves.Contains(c) || moves.IsCastle(c):
				target.Fprint(w, cell)
			case (f+r)%2 == 1:
				lightSquare.Fprint(w, cell)
			default:
				darkSquare.Fprint(w, cell)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprint(w, "  ")
	for _, f := range fileOrder {
		fmt.Fprintf(w, " %c ", 'A'+f)
	}
	fmt.Fprintln(w)

	switch {
	case g.Finished():
		fmt.Fprintln(w, "game over")
	case g.Enabled():
		fmt.Fprintf(w, "%s to move (you)\n", side)
	default:
		fmt.Fprintf(w, "waiting for %s\n", side.Opp())
	}

	if c, ok := g.PendingPromotion(); ok {
		fmt.Fprintf(w, "pawn on %s needs a promotion: promote queen|rook|bishop|knight\n", c)
	}
}

// glyph is upper case for white and lower case for black
func glyph(p *chess.Piece) string {
	if p == nil {
		return "."
	}

	g := glyphs[p.Kind]
	if p.Side == chess.White {
		return strings.ToUpper(g)
	}
	return g
}
