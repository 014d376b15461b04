// Package server relays lobby and game events between websocket clients. It
// applies the registry's membership rules and forwards moves without ever
// checking them.
package server

import (
	"context"
	"errors"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tecu23/duel-server/pkg/messages"
	"github.com/tecu23/duel-server/pkg/registry"
)

var errHubStopped = errors.New("hub stopped")

// InboundHubMessage are the messages that the hub receives
type InboundHubMessage struct {
	Conn    *Connection             // who sent it
	Message messages.InboundMessage // decoded envelope
	Err     error                   // set when the frame was not a valid envelope
}

// Hub owns every connection and the registry. All of its state is touched
// only from the Run loop.
type Hub struct {
	connections map[string]*Connection // Registered connections by player id
	registry    *registry.Registry

	register   chan *Connection       // Incoming registration
	unregister chan *Connection       // Incoming unregistration
	inbound    chan InboundHubMessage // Messages routed by the loop
	stats      chan chan Stats        // Snapshot requests

	maxMessageSize int64

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	logger *zap.Logger
}

// Option configures a Hub
type Option func(*Hub)

// WithMaxMessageSize caps the size of a single inbound frame
func WithMaxMessageSize(n int64) Option {
	return func(h *Hub) {
		h.maxMessageSize = n
	}
}

// NewHub creates a new hub around the registry
func NewHub(reg *registry.Registry, logger *zap.Logger, opts ...Option) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		connections: make(map[string]*Connection),
		registry:    reg,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		inbound:     make(chan InboundHubMessage),
		stats:       make(chan chan Stats),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
		logger:      logger,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Run is the main execution of the hub
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			return

		case conn := <-h.register:
			h.registerConnection(conn)

		case conn := <-h.unregister:
			h.unregisterConnection(conn)

		case msg := <-h.inbound:
			h.handleInbound(msg)

		case reply := <-h.stats:
			reply <- h.snapshot()
		}
	}
}

// Shutdown stops the loop and closes every connection
func (h *Hub) Shutdown() {
	h.cancel()
	<-h.done
}

// Attach wraps an upgraded websocket, registers it and starts its pumps
func (h *Hub) Attach(ws *websocket.Conn) *Connection {
	conn := NewConnection(ws, h, h.logger)
	if !h.Register(conn) {
		ws.Close()
		return nil
	}

	go conn.WritePump()
	go conn.ReadPump()

	return conn
}

// Register hands a connection to the loop. It reports false once the hub is
// shut down.
func (h *Hub) Register(conn *Connection) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// Unregister hands a closed connection to the loop
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.ctx.Done():
	}
}

func (h *Hub) dispatch(msg InboundHubMessage) bool {
	select {
	case h.inbound <- msg:
		return true
	case <-h.ctx.Done():
		return false
	}
}

func (h *Hub) registerConnection(conn *Connection) {
	id := conn.PlayerID()

	h.connections[id] = conn
	h.registry.AddPlayer(id)

	h.logger.Info("player connected",
		zap.String("player_id", id),
		zap.Int("connections", len(h.connections)))
}

func (h *Hub) unregisterConnection(conn *Connection) {
	id := conn.PlayerID()
	if _, ok := h.connections[id]; !ok {
		return
	}

	h.handleLeave(id)
	h.registry.RemovePlayer(id)

	delete(h.connections, id)
	close(conn.send)

	h.logger.Info("player disconnected",
		zap.String("player_id", id),
		zap.Int("connections", len(h.connections)))
}

func (h *Hub) closeAll() {
	for id, conn := range h.connections {
		delete(h.connections, id)
		close(conn.send)
	}

	h.logger.Info("hub stopped")
}

// handleLeave tells the other side of the departed player's room
func (h *Hub) handleLeave(playerID string) {
	res := h.registry.Leave(playerID)

	switch {
	case res.CreatorLeft:
		removed := messages.OutboundMessage{
			Event:   messages.EventRoomRemoved,
			Payload: messages.NewRoomView(res.Room),
		}
		for _, p := range h.registry.LobbyMembers(playerID) {
			h.sendTo(p.ID, removed)
		}

		if res.Remaining != nil {
			h.sendTo(res.Remaining.ID, messages.OutboundMessage{Event: messages.EventKicked})
			h.sendTo(res.Remaining.ID, messages.OutboundMessage{Event: messages.EventHostLeft})
		}

	case res.Creator != nil:
		h.sendTo(res.Creator.ID, messages.OutboundMessage{
			Event:   messages.EventPlayerLeftRoom,
			Payload: messages.NewPlayerView(res.Player),
		})
		h.sendTo(res.Creator.ID, messages.OutboundMessage{Event: messages.EventPlayerLeftGame})
	}
}

func (h *Hub) sendError(conn *Connection, msg string) {
	conn.SendJSON(messages.OutboundMessage{
		Event:   messages.EventError,
		Payload: messages.ErrorPayload{Message: msg},
	})
}

func (h *Hub) sendTo(playerID string, msg messages.OutboundMessage) {
	conn, ok := h.connections[playerID]
	if !ok {
		h.logger.Debug("no connection for player", zap.String("player_id", playerID))
		return
	}

	conn.SendJSON(msg)
}

// Stats counts what the hub currently holds
type Stats struct {
	Connections int `json:"connections"`
	Rooms       int `json:"rooms"`
	ActiveGames int `json:"active_games"`
}

// Stats asks the loop for a snapshot
func (h *Hub) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)

	select {
	case h.stats <- reply:
	case <-h.ctx.Done():
		return Stats{}, errHubStopped
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}

	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

func (h *Hub) snapshot() Stats {
	s := Stats{Connections: len(h.connections)}
	for _, room := range h.registry.Rooms() {
		s.Rooms++
		if room.State() == registry.StateActive && !room.Finished() {
			s.ActiveGames++
		}
	}

	return s
}
