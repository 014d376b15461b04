package server

import (
	"go.uber.org/zap"

	"github.com/tecu23/duel-server/pkg/chess"
	"github.com/tecu23/duel-server/pkg/messages"
	"github.com/tecu23/duel-server/pkg/registry"
)

// handleInbound routes one client event. Unknown players and rooms are
// ignored; only undecodable frames are answered with an error.
func (h *Hub) handleInbound(msg InboundHubMessage) {
	conn := msg.Conn
	if _, ok := h.connections[conn.PlayerID()]; !ok {
		return
	}

	if msg.Err != nil {
		h.sendError(conn, "invalid message")
		return
	}

	var err error
	switch msg.Message.Event {
	case messages.EventSetUsername:
		err = h.handleSetUsername(conn, msg.Message)
	case messages.EventCreateRoom:
		err = h.handleCreateRoom(conn, msg.Message)
	case messages.EventJoinRoom:
		err = h.handleJoinRoom(conn, msg.Message)
	case messages.EventGetRoomData:
		err = h.handleGetRoomData(conn, msg.Message)
	case messages.EventStartGame:
		h.handleStartGame(conn)
	case messages.EventSwitchTurn:
		h.relay(conn, messages.OutboundMessage{Event: messages.EventTurnYours})
	case messages.EventMovePiece:
		err = h.handleMovePiece(conn, msg.Message)
	case messages.EventPromotePiece:
		err = h.handlePromotePiece(conn, msg.Message)
	case messages.EventCheckmate:
		h.handleCheckmate(conn)
	default:
		h.sendError(conn, "unknown event "+msg.Message.Event)
		return
	}

	if err != nil {
		h.logger.Debug("invalid payload",
			zap.String("player_id", conn.PlayerID()),
			zap.String("event", msg.Message.Event),
			zap.Error(err))
		h.sendError(conn, "invalid "+msg.Message.Event+" payload")
	}
}

func (h *Hub) handleSetUsername(conn *Connection, msg messages.InboundMessage) error {
	var payload messages.SetUsernamePayload
	if err := msg.Decode(&payload); err != nil {
		return err
	}

	p, ok := h.registry.SetUsername(conn.PlayerID(), payload.Username)
	if !ok {
		return nil
	}

	conn.SendJSON(messages.OutboundMessage{
		Event:   messages.EventPlayerData,
		Payload: messages.NewPlayerView(p),
	})
	conn.SendJSON(messages.OutboundMessage{
		Event:   messages.EventRoomList,
		Payload: messages.NewRoomList(h.registry.Rooms()),
	})

	return nil
}

func (h *Hub) handleCreateRoom(conn *Connection, msg messages.InboundMessage) error {
	var payload messages.CreateRoomPayload
	if err := msg.Decode(&payload); err != nil {
		return err
	}

	room, ok := h.registry.CreateRoom(conn.PlayerID(), payload.Name)
	if !ok {
		h.logger.Debug("create room ignored", zap.String("player_id", conn.PlayerID()))
		return nil
	}

	created := messages.OutboundMessage{
		Event:   messages.EventRoomCreated,
		Payload: messages.NewRoomView(room),
	}
	for _, p := range h.registry.LobbyMembers(conn.PlayerID()) {
		h.sendTo(p.ID, created)
	}

	return nil
}

func (h *Hub) handleJoinRoom(conn *Connection, msg messages.InboundMessage) error {
	var ref messages.RoomRef
	if err := msg.DecodeRequired(&ref); err != nil {
		return err
	}

	room, ok := h.registry.JoinRoom(ref.Creator, conn.PlayerID())
	if !ok {
		h.logger.Debug("join room ignored",
			zap.String("player_id", conn.PlayerID()),
			zap.String("creator_id", ref.Creator))
		return nil
	}

	joiner, _ := h.registry.Player(conn.PlayerID())
	h.sendTo(room.CreatorID, messages.OutboundMessage{
		Event:   messages.EventPlayerJoined,
		Payload: messages.NewPlayerView(joiner),
	})

	return nil
}

func (h *Hub) handleGetRoomData(conn *Connection, msg messages.InboundMessage) error {
	var ref messages.RoomRef
	if err := msg.DecodeRequired(&ref); err != nil {
		return err
	}

	room, ok := h.registry.Room(ref.Creator)
	if !ok {
		return nil
	}

	conn.SendJSON(messages.OutboundMessage{
		Event:   messages.EventRoomData,
		Payload: messages.NewRoomView(room),
	})

	return nil
}

func (h *Hub) handleStartGame(conn *Connection) {
	room, ok := h.registry.StartGame(conn.PlayerID())
	if !ok {
		fields := []zap.Field{zap.String("player_id", conn.PlayerID())}
		if own, exists := h.registry.Room(conn.PlayerID()); exists {
			fields = append(fields, zap.String("state", string(own.State())))
		}
		h.logger.Warn("start game ignored", fields...)
		return
	}

	guest := room.Players[1].ID

	h.sendTo(guest, messages.OutboundMessage{Event: messages.EventGameStarted})
	conn.SendJSON(messages.OutboundMessage{
		Event:   messages.EventSideAssigned,
		Payload: messages.SideAssignedPayload(chess.White),
	})
	h.sendTo(guest, messages.OutboundMessage{
		Event:   messages.EventSideAssigned,
		Payload: messages.SideAssignedPayload(chess.Black),
	})

	h.logger.Info("game started",
		zap.String("creator_id", room.CreatorID),
		zap.String("white", room.CreatorID),
		zap.String("black", guest))
}

func (h *Hub) handleMovePiece(conn *Connection, msg messages.InboundMessage) error {
	var mv messages.MovePayload
	if err := msg.DecodeRequired(&mv); err != nil {
		return err
	}

	h.registry.RecordMove(conn.PlayerID(), registry.MoveRecord{From: mv.From, To: mv.To})
	h.relay(conn, messages.OutboundMessage{Event: messages.EventPieceMoved, Payload: mv})

	return nil
}

func (h *Hub) handlePromotePiece(conn *Connection, msg messages.InboundMessage) error {
	var promo messages.PromotePayload
	if err := msg.DecodeRequired(&promo); err != nil {
		return err
	}

	h.registry.RecordPromotion(conn.PlayerID(), promo.Kind)
	h.relay(conn, messages.OutboundMessage{Event: messages.EventPiecePromoted, Payload: promo})

	return nil
}

func (h *Hub) handleCheckmate(conn *Connection) {
	opponent, _, ok := h.registry.Opponent(conn.PlayerID())
	if !ok {
		return
	}

	h.sendTo(opponent.ID, messages.OutboundMessage{Event: messages.EventLose})
	conn.SendJSON(messages.OutboundMessage{Event: messages.EventWin})

	h.registry.Finish(conn.PlayerID())
}

// relay forwards the message to the sender's opponent
func (h *Hub) relay(conn *Connection, msg messages.OutboundMessage) {
	opponent, _, ok := h.registry.Opponent(conn.PlayerID())
	if !ok {
		h.logger.Debug("no opponent to relay to",
			zap.String("player_id", conn.PlayerID()),
			zap.String("event", msg.Event))
		return
	}

	h.sendTo(opponent.ID, msg)
}
