package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tecu23/duel-server/pkg/chess"
)

const helpText = `commands:
  name <username>      enter the lobby
  rooms                list open rooms
  create [name]        open a room
  join <creator-id>    join a room
  start                start the game (room creator only)
  select <square>      pick a piece, e.g. select e2
  move <square>        move the picked piece
  promote <kind>       queen, rook, bishop or knight
  board                redraw the board
  quit`

var errUsage = errors.New("usage error, type help")

// actions is what the command loop drives; *client.Session implements it
type actions interface {
	SetUsername(name string) error
	CreateRoom(name string) error
	JoinRoom(creator string) error
	StartGame() error
	Select(c chess.Coordinate) (chess.MoveSet, error)
	Deselect()
	MoveTo(c chess.Coordinate) error
	Promote(kind chess.Kind) error
}

// execute runs one input line and reports whether the client should exit
func execute(a actions, view *terminal, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "help", "?":
		view.print(helpText)
	case "quit", "exit":
		return true, nil
	case "name":
		return false, a.SetUsername(strings.Join(args, " "))
	case "rooms":
		view.redrawLobby()
	case "create":
		return false, a.CreateRoom(strings.Join(args, " "))
	case "join":
		if len(args) != 1 {
			return false, errUsage
		}
		return false, a.JoinRoom(args[0])
	case "start":
		return false, a.StartGame()
	case "select":
		c, err := oneCoordinate(args)
		if err != nil {
			return false, err
		}
		moves, err := a.Select(c)
		if err != nil {
			return false, err
		}
		view.print(fmt.Sprintf("%s can go to %s", c, joinCoords(moves.Destinations())))
	case "deselect":
		a.Deselect()
	case "move":
		c, err := oneCoordinate(args)
		if err != nil {
			return false, err
		}
		return false, a.MoveTo(c)
	case "promote":
		if len(args) != 1 {
			return false, errUsage
		}
		kind, err := chess.ParseKind(args[0])
		if err != nil {
			return false, err
		}
		return false, a.Promote(kind)
	case "board":
		view.redrawBoard()
	default:
		return false, fmt.Errorf("unknown command %q, type help", cmd)
	}

	return false, nil
}

func oneCoordinate(args []string) (chess.Coordinate, error) {
	if len(args) != 1 {
		return chess.Coordinate{}, errUsage
	}

	return chess.ParseCoordinate(args[0])
}

func joinCoords(cs []chess.Coordinate) string {
	if len(cs) == 0 {
		return "nowhere"
	}

	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return strings.Join(out, " ")
}
