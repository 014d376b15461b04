package client

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tecu23/duel-server/pkg/chess"
	"github.com/tecu23/duel-server/pkg/game"
	"github.com/tecu23/duel-server/pkg/messages"
)

// Handle applies one relay event to the session
func (s *Session) Handle(msg messages.InboundMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Event {
	case messages.EventPlayerData:
		var p messages.PlayerView
		if err := msg.Decode(&p); err != nil {
			return err
		}
		s.self = p
		s.named = true

	case messages.EventRoomList:
		var list messages.RoomListPayload
		if err := msg.Decode(&list); err != nil {
			return err
		}
		s.rooms = list.Rooms
		s.listener.OnLobby(s.rooms)

	case messages.EventRoomCreated:
		var room messages.RoomView
		if err := msg.Decode(&room); err != nil {
			return err
		}
		s.rooms = append(s.rooms, room)
		s.listener.OnLobby(s.rooms)

	case messages.EventRoomData:
		var room messages.RoomView
		if err := msg.Decode(&room); err != nil {
			return err
		}
		return s.onRoomData(room)

	case messages.EventRoomRemoved:
		var room messages.RoomView
		if err := msg.Decode(&room); err != nil {
			return err
		}
		s.removeRoom(room.Creator)
		s.listener.OnLobby(s.rooms)

	case messages.EventPlayerJoined:
		var p messages.PlayerView
		if err := msg.Decode(&p); err != nil {
			return err
		}
		if s.room != nil {
			s.room.Players = append(s.room.Players, p)
			s.room.PlayerCount++
			s.listener.OnRoom(*s.room)
		}

	case messages.EventPlayerLeftRoom:
		var p messages.PlayerView
		if err := msg.Decode(&p); err != nil {
			return err
		}
		s.dropFromRoom(p.ID)

	case messages.EventKicked:
		s.room = nil
		s.isHost = false
		s.listener.OnNotice("You were kicked from the room")

	case messages.EventHostLeft:
		s.game = nil
		s.listener.OnNotice("Host left the game!")

	case messages.EventPlayerLeftGame:
		s.game = nil
		s.listener.OnNotice("Player left the game!")

	case messages.EventGameStarted:
		s.listener.OnNotice("Game started")

	case messages.EventSideAssigned:
		var side messages.SideAssignedPayload
		if err := msg.Decode(&side); err != nil {
			return err
		}
		s.game = game.New(side, s.emitter, s.logger)
		s.listener.OnNotice(fmt.Sprintf("You play %s", side))
		s.listener.OnBoard(s.game)

	case messages.EventTurnYours:
		if s.game == nil {
			return ErrNoGame
		}
		s.game.GrantTurn()
		s.listener.OnBoard(s.game)

	case messages.EventPieceMoved:
		return s.onPieceMoved(msg)

	case messages.EventPiecePromoted:
		var promo messages.PromotePayload
		if err := msg.Decode(&promo); err != nil {
			return err
		}
		if s.game == nil {
			return ErrNoGame
		}
		if err := s.game.ApplyRemotePromotion(promo.Coord, promo.Kind); err != nil {
			return err
		}
		s.listener.OnBoard(s.game)

	case messages.EventWin, messages.EventLose:
		won := msg.Event == messages.EventWin
		if s.game != nil {
			s.game.Finish(won)
		}
		s.listener.OnGameOver(won)

	case messages.EventError:
		var e messages.ErrorPayload
		if err := msg.Decode(&e); err != nil {
			return err
		}
		s.listener.OnNotice("server: " + e.Message)

	default:
		s.logger.Debug("unhandled event", zap.String("event", msg.Event))
	}

	return nil
}

// onRoomData finishes a join started with JoinRoom. A full room is refused
// here; the relay itself never refuses.
func (s *Session) onRoomData(room messages.RoomView) error {
	if s.joining == "" || room.Creator != s.joining {
		return nil
	}
	s.joining = ""

	if room.Full() {
		s.listener.OnNotice(room.Name + " is full!")
		return nil
	}

	room.Players = append(room.Players, s.self)
	room.PlayerCount++
	s.room = &room
	s.isHost = false
	s.listener.OnRoom(room)

	return s.emitter.Emit(messages.EventJoinRoom, messages.RoomRef{Creator: room.Creator})
}

func (s *Session) onPieceMoved(msg messages.InboundMessage) error {
	var mv messages.MovePayload
	if err := msg.Decode(&mv); err != nil {
		return err
	}

	if s.game == nil {
		return ErrNoGame
	}

	inCheck, err := s.game.ApplyRemoteMove(mv.From, mv.To)
	if err != nil {
		return err
	}

	s.listener.OnBoard(s.game)
	if inCheck {
		s.listener.OnNotice("Your king can be captured!")
	}

	return nil
}

func (s *Session) removeRoom(creator string) {
	kept := s.rooms[:0]
	for _, r := range s.rooms {
		if r.Creator != creator {
			kept = append(kept, r)
		}
	}
	s.rooms = kept
}

func (s *Session) dropFromRoom(playerID string) {
	if s.room == nil {
		return
	}

	kept := s.room.Players[:0]
	for _, p := range s.room.Players {
		if p.ID != playerID {
			kept = append(kept, p)
		}
	}
	s.room.Players = kept
	s.room.PlayerCount = len(kept)
	s.listener.OnRoom(*s.room)
}

// Side returns the side of the game in progress
func (s *Session) Side() (chess.Side, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game == nil {
		return chess.White, false
	}

	return s.game.Side(), true
}
