// Package registry owns the server side players and rooms. It is driven from
// the hub's single event loop and does no locking of its own.
package registry

import (
	"sort"
	"strings"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"go.uber.org/zap"

	"github.com/tecu23/duel-server/pkg/chess"
	"github.com/tecu23/duel-server/pkg/events"
)

// Registry keeps every connected player keyed by id and every room keyed by
// its creator's id.
type Registry struct {
	players map[string]*Player
	rooms   map[string]*Room
	seq     uint64

	publisher *events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// New creates an empty registry. The publisher may be nil.
func New(publisher *events.Publisher, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Registry{
		players:   make(map[string]*Player),
		rooms:     make(map[string]*Room),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// AddPlayer records a new connection. The player gets a generated name until
// it picks one.
func (r *Registry) AddPlayer(id string) *Player {
	p := &Player{ID: id, Username: petname.Generate(2, "-")}
	r.players[id] = p

	r.logger.Debug("player added", zap.String("player_id", id), zap.Int("players", len(r.players)))
	r.publish(events.EventPlayerConnected, "", id, *p)

	return p
}

// Player looks a player up by id
func (r *Registry) Player(id string) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// PlayerCount returns the number of connected players
func (r *Registry) PlayerCount() int {
	return len(r.players)
}

// SetUsername names the player and moves it into the lobby
func (r *Registry) SetUsername(id, username string) (*Player, bool) {
	p, ok := r.players[id]
	if !ok {
		return nil, false
	}

	if name := strings.TrimSpace(username); name != "" {
		p.Username = name
	}
	p.InLobby = true

	return p, true
}

// LobbyMembers returns the players that picked a username, except the given
// one.
func (r *Registry) LobbyMembers(except string) []*Player {
	var out []*Player
	for id, p := range r.players {
		if id != except && p.InLobby {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateRoom opens a room owned by the player. It does nothing when the player
// is unknown or already in a room.
func (r *Registry) CreateRoom(creatorID, name string) (*Room, bool) {
	p, ok := r.players[creatorID]
	if !ok || p.IsInRoom {
		return nil, false
	}

	if _, exists := r.rooms[creatorID]; exists {
		return nil, false
	}

	r.seq++
	room := &Room{
		Name:      strings.TrimSpace(name),
		CreatorID: creatorID,
		Players:   []*Player{p},
		CreatedAt: r.now(),
		seq:       r.seq,
	}

	r.rooms[creatorID] = room
	p.IsInRoom = true

	r.logger.Info("room created", zap.String("creator_id", creatorID), zap.String("name", room.Name))
	r.publish(events.EventRoomCreated, creatorID, creatorID, room.Name)

	return room, true
}

// Room looks a room up by its creator's id
func (r *Registry) Room(creatorID string) (*Room, bool) {
	room, ok := r.rooms[creatorID]
	return room, ok
}

// Rooms lists the rooms in creation order
func (r *Registry) Rooms() []*Room {
	out := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// RoomOf returns the room the player belongs to
func (r *Registry) RoomOf(playerID string) (*Room, bool) {
	if room, ok := r.rooms[playerID]; ok {
		return room, true
	}

	for _, room := range r.rooms {
		if room.indexOf(playerID) >= 0 {
			return room, true
		}
	}

	return nil, false
}

// JoinRoom appends the player to the room's roster. Capacity is left to the
// clients: a joiner past the second simply lands at the end of the roster. A
// player already seated in a room cannot join another.
func (r *Registry) JoinRoom(creatorID, playerID string) (*Room, bool) {
	room, ok := r.rooms[creatorID]
	if !ok {
		return nil, false
	}

	p, ok := r.players[playerID]
	if !ok || p.IsInRoom {
		return nil, false
	}

	room.Players = append(room.Players, p)
	p.IsInRoom = true

	r.logger.Info("player joined room",
		zap.String("creator_id", creatorID),
		zap.String("player_id", playerID),
		zap.Int("player_count", room.PlayerCount()))
	r.publish(events.EventPlayerJoined, creatorID, playerID, *p)

	return room, true
}

// StartGame marks the creator's room as started. A room needs two players.
func (r *Registry) StartGame(creatorID string) (*Room, bool) {
	room, ok := r.rooms[creatorID]
	if !ok || room.PlayerCount() < 2 {
		return nil, false
	}

	room.Started = true
	room.StartedAt = r.now()
	room.WinnerID = ""
	room.Moves = nil

	r.publish(events.EventGameStarted, creatorID, creatorID, room.Name)
	return room, true
}

// Opponent returns the player paired with the given one. Only the first two
// roster slots are paired.
func (r *Registry) Opponent(playerID string) (*Player, *Room, bool) {
	room, ok := r.RoomOf(playerID)
	if !ok || room.PlayerCount() < 2 {
		return nil, nil, false
	}

	switch room.indexOf(playerID) {
	case 0:
		return room.Players[1], room, true
	case 1:
		return room.Players[0], room, true
	default:
		return nil, nil, false
	}
}

// RecordMove appends a relayed move to the player's room log
func (r *Registry) RecordMove(playerID string, mv MoveRecord) bool {
	room, ok := r.RoomOf(playerID)
	if !ok || !room.Started {
		return false
	}

	mv.PlayerID = playerID
	if mv.At.IsZero() {
		mv.At = r.now()
	}
	room.Moves = append(room.Moves, mv)

	return true
}

// RecordPromotion tags the latest relayed move of the player with the chosen
// kind.
func (r *Registry) RecordPromotion(playerID string, kind chess.Kind) bool {
	room, ok := r.RoomOf(playerID)
	if !ok {
		return false
	}

	for i := len(room.Moves) - 1; i >= 0; i-- {
		if room.Moves[i].PlayerID == playerID {
			room.Moves[i].Promote = &kind
			return true
		}
	}

	return false
}

// Finish records the reporting player as the winner of its room. Only a
// started game that has no winner yet can finish.
func (r *Registry) Finish(winnerID string) (*FinishedGame, bool) {
	opponent, room, ok := r.Opponent(winnerID)
	if !ok {
		return nil, false
	}

	if room.State() != StateActive || room.Finished() {
		r.logger.Debug("finish ignored",
			zap.String("creator_id", room.CreatorID),
			zap.String("player_id", winnerID),
			zap.String("state", string(room.State())),
			zap.Bool("finished", room.Finished()))
		return nil, false
	}

	room.WinnerID = winnerID

	white, black := room.Players[0], room.Players[1]
	game := &FinishedGame{
		RoomName:  room.Name,
		CreatorID: room.CreatorID,
		White:     *white,
		Black:     *black,
		WinnerID:  winnerID,
		Moves:     append([]MoveRecord(nil), room.Moves...),
		StartedAt: room.StartedAt,
		EndedAt:   r.now(),
	}

	r.logger.Info("game finished",
		zap.String("creator_id", room.CreatorID),
		zap.String("winner_id", winnerID),
		zap.String("loser_id", opponent.ID),
		zap.Int("moves", len(room.Moves)))
	r.publish(events.EventGameFinished, room.CreatorID, winnerID, game)

	return game, true
}

// Leave removes the player from its room. A creator leaving dissolves the
// room; anyone else is dropped from the roster.
func (r *Registry) Leave(playerID string) LeaveResult {
	p, ok := r.players[playerID]
	if !ok {
		return LeaveResult{}
	}

	res := LeaveResult{Player: p}

	if room, ok := r.rooms[playerID]; ok {
		res.Room = room
		res.CreatorLeft = true
		if room.PlayerCount() == 2 {
			res.Remaining = room.Players[1]
		}

		for _, member := range room.Players {
			member.IsInRoom = false
		}

		room.dissolved = true
		delete(r.rooms, playerID)

		r.logger.Info("room dissolved", zap.String("creator_id", playerID))
		r.publish(events.EventRoomRemoved, playerID, playerID, room.Name)

		return res
	}

	room, ok := r.RoomOf(playerID)
	if !ok {
		return res
	}

	idx := room.indexOf(playerID)
	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)
	p.IsInRoom = false

	res.Room = room
	res.Creator = r.players[room.CreatorID]

	r.logger.Info("player left room", zap.String("creator_id", room.CreatorID), zap.String("player_id", playerID))
	r.publish(events.EventPlayerLeft, room.CreatorID, playerID, *p)

	return res
}

// RemovePlayer forgets a disconnected player. Callers run Leave first.
func (r *Registry) RemovePlayer(id string) {
	if _, ok := r.players[id]; !ok {
		return
	}

	delete(r.players, id)
	r.publish(events.EventPlayerDisconnected, "", id, nil)
}

func (r *Registry) publish(t events.EventType, roomID, playerID string, payload interface{}) {
	r.publisher.Publish(events.Event{
		Type:     t,
		RoomID:   roomID,
		PlayerID: playerID,
		Payload:  payload,
	})
}
