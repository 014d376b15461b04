package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tecu23/duel-server/pkg/chess"
	"github.com/tecu23/duel-server/pkg/game"
	"github.com/tecu23/duel-server/pkg/messages"
)

var (
	ErrEmptyUsername  = errors.New("please enter a username")
	ErrNoUsername     = errors.New("pick a username first")
	ErrAlreadyInRoom  = errors.New("already in a room")
	ErrNotInRoom      = errors.New("not in a room")
	ErrNotHost        = errors.New("only the room's creator can start the game")
	ErrNeedTwoPlayers = errors.New("2 players required to start game")
	ErrNoGame         = errors.New("no game in progress")
)

// Listener is told whenever the session's view changes. Calls are made with
// the session locked and must not call back into it.
type Listener interface {
	OnLobby(rooms []messages.RoomView)
	OnRoom(room messages.RoomView)
	OnBoard(g *game.Game)
	OnNotice(text string)
	OnGameOver(won bool)
}

// Source yields the relay's events one by one
type Source interface {
	Next(ctx context.Context) (messages.InboundMessage, error)
}

// Session is one player's view of the lobby, its room and its game
type Session struct {
	mu sync.Mutex

	emitter  game.Emitter
	listener Listener
	logger   *zap.Logger

	self  messages.PlayerView
	named bool

	rooms   []messages.RoomView
	room    *messages.RoomView
	isHost  bool
	joining string

	game *game.Game
}

// NewSession creates a session sending through the emitter
func NewSession(emitter game.Emitter, listener Listener, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Session{emitter: emitter, listener: listener, logger: logger}
}

// Run handles relay events until the source fails or ctx is done
func (s *Session) Run(ctx context.Context, src Source) error {
	for {
		msg, err := src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}

		if err := s.Handle(msg); err != nil {
			s.logger.Warn("event not applied", zap.String("event", msg.Event), zap.Error(err))
		}
	}
}

// Self returns the local player as the relay knows it
func (s *Session) Self() messages.PlayerView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.self
}

// Rooms returns the rooms listed in the lobby
func (s *Session) Rooms() []messages.RoomView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]messages.RoomView(nil), s.rooms...)
}

// Room returns the room the player sits in
func (s *Session) Room() (messages.RoomView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room == nil {
		return messages.RoomView{}, false
	}

	return *s.room, true
}

// Game returns the game in progress, or nil
func (s *Session) Game() *game.Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.game
}

// SetUsername enters the lobby under the name
func (s *Session) SetUsername(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyUsername
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.emitter.Emit(messages.EventSetUsername, messages.SetUsernamePayload{Username: name})
}

// CreateRoom opens a room. An empty name is numbered after the lobby's rooms.
func (s *Session) CreateRoom(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkInLobby(); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Room %d", len(s.rooms)+1)
	}

	s.room = &messages.RoomView{
		Name:        name,
		Creator:     s.self.ID,
		Players:     []messages.PlayerView{s.self},
		PlayerCount: 1,
	}
	s.isHost = true
	s.listener.OnRoom(*s.room)

	return s.emitter.Emit(messages.EventCreateRoom, messages.CreateRoomPayload{Name: name})
}

// JoinRoom asks for the room's roster and joins it if a seat is free
func (s *Session) JoinRoom(creator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkInLobby(); err != nil {
		return err
	}

	s.joining = creator
	return s.emitter.Emit(messages.EventGetRoomData, messages.RoomRef{Creator: creator})
}

// StartGame starts the game in the player's own room
func (s *Session) StartGame() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.room == nil:
		return ErrNotInRoom
	case !s.isHost:
		return ErrNotHost
	case s.room.PlayerCount < 2:
		return ErrNeedTwoPlayers
	}

	return s.emitter.Emit(messages.EventStartGame, nil)
}

// Select picks a piece in the current game
func (s *Session) Select(c chess.Coordinate) (chess.MoveSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game == nil {
		return chess.MoveSet{}, ErrNoGame
	}

	moves, err := s.game.Select(c)
	if err != nil {
		return moves, err
	}

	s.listener.OnBoard(s.game)
	return moves, nil
}

// Deselect drops the current selection
func (s *Session) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game != nil {
		s.game.Deselect()
	}
}

// MoveTo moves the selected piece
func (s *Session) MoveTo(c chess.Coordinate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game == nil {
		return ErrNoGame
	}

	err := s.game.MoveTo(c)
	s.listener.OnBoard(s.game)
	return err
}

// Promote completes a pending promotion
func (s *Session) Promote(kind chess.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game == nil {
		return ErrNoGame
	}

	err := s.game.Promote(kind)
	s.listener.OnBoard(s.game)
	return err
}

func (s *Session) checkInLobby() error {
	switch {
	case !s.named:
		return ErrNoUsername
	case s.room != nil:
		return ErrAlreadyInRoom
	}

	return nil
}
