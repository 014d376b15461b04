package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tecu23/duel-server/pkg/messages"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	sendBuffer = 256
)

// Connection is one websocket client. Its id doubles as the player id.
type Connection struct {
	ID   uuid.UUID
	ws   *websocket.Conn // The underlying Websocket connection
	hub  *Hub
	send chan []byte // Buffered channel of outbound messages. Only the hub writes to it.

	logger *zap.Logger
}

// NewConnection wraps an upgraded websocket for the hub
func NewConnection(ws *websocket.Conn, hub *Hub, logger *zap.Logger) *Connection {
	id := uuid.New()

	return &Connection{
		ID:     id,
		ws:     ws,
		hub:    hub,
		send:   make(chan []byte, sendBuffer),
		logger: logger.With(zap.String("player_id", id.String())),
	}
}

// PlayerID is the registry key of the connection's player
func (c *Connection) PlayerID() string {
	return c.ID.String()
}

// ReadPump handles inbound messages from the client
func (c *Connection) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.ws.Close()
	}()

	if c.hub.maxMessageSize > 0 {
		c.ws.SetReadLimit(c.hub.maxMessageSize)
	}
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, msg, err := c.ws.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}

		// We only handle text
		if msgType != websocket.TextMessage {
			continue
		}

		var inbound messages.InboundMessage
		err = json.Unmarshal(msg, &inbound)
		if err != nil {
			c.logger.Debug("failed to parse inbound JSON", zap.Error(err))
		}

		if !c.hub.dispatch(InboundHubMessage{Conn: c, Message: inbound, Err: err}) {
			return
		}
	}
}

func (c *Connection) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		c.logger.Warn("message exceeded size limit", zap.Int64("limit", c.hub.maxMessageSize))
	case websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		c.logger.Error("read error", zap.Error(err))
	default:
		c.logger.Debug("connection closed", zap.Error(err))
	}
}

// WritePump handles outbound messages to the client and keeps the
// connection alive with pings.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed
				c.logger.Debug("send channel closed")
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("write error", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("ping failed", zap.Error(err))
				return
			}
		}
	}
}

// SendJSON is a helper for sending JSON to this connection. A client whose
// buffer is full misses the message.
func (c *Connection) SendJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("error marshaling JSON", zap.Error(err))
		return
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, dropping message")
	}
}
