package messages

import "github.com/tecu23/duel-server/pkg/registry"

// NewPlayerView copies the client visible fields of a player
func NewPlayerView(p *registry.Player) PlayerView {
	if p == nil {
		return PlayerView{}
	}

	return PlayerView{ID: p.ID, Username: p.Username, IsInRoom: p.IsInRoom}
}

// NewRoomView snapshots a room for the wire
func NewRoomView(r *registry.Room) RoomView {
	if r == nil {
		return RoomView{}
	}

	players := make([]PlayerView, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, NewPlayerView(p))
	}

	return RoomView{
		Name:        r.Name,
		Creator:     r.CreatorID,
		Players:     players,
		PlayerCount: r.PlayerCount(),
		State:       string(r.State()),
	}
}

// NewRoomList snapshots every room in order
func NewRoomList(rooms []*registry.Room) RoomListPayload {
	out := RoomListPayload{Rooms: make([]RoomView, 0, len(rooms))}
	for _, r := range rooms {
		out.Rooms = append(out.Rooms, NewRoomView(r))
	}

	return out
}
