package client

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecu23/duel-server/pkg/chess"
	"github.com/tecu23/duel-server/pkg/game"
	"github.com/tecu23/duel-server/pkg/messages"
)

type sent struct {
	event   string
	payload interface{}
}

type fakeEmitter struct {
	mu   sync.Mutex
	sent []sent
}

func (f *fakeEmitter) Emit(event string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, sent{event, payload})
	return nil
}

func (f *fakeEmitter) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.sent))
	for _, s := range f.sent {
		out = append(out, s.event)
	}
	return out
}

type recordingListener struct {
	mu       sync.Mutex
	lobby    []messages.RoomView
	room     *messages.RoomView
	boards   int
	notices  []string
	gameOver *bool
}

func (l *recordingListener) OnLobby(rooms []messages.RoomView) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lobby = append([]messages.RoomView(nil), rooms...)
}

func (l *recordingListener) OnRoom(room messages.RoomView) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.room = &room
}

func (l *recordingListener) OnBoard(*game.Game) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.boards++
}

func (l *recordingListener) OnNotice(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, text)
}

func (l *recordingListener) OnGameOver(won bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gameOver = &won
}

func (l *recordingListener) noticeList() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.notices...)
}

func (l *recordingListener) result() (bool, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gameOver == nil {
		return false, false
	}
	return *l.gameOver, true
}

func event(t *testing.T, name string, payload interface{}) messages.InboundMessage {
	t.Helper()

	msg := messages.InboundMessage{Event: name}
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		msg.Payload = raw
	}
	return msg
}

func newTestSession(t *testing.T, id string) (*Session, *fakeEmitter, *recordingListener) {
	t.Helper()

	em := &fakeEmitter{}
	l := &recordingListener{}
	s := NewSession(em, l, nil)

	require.NoError(t, s.Handle(event(t, messages.EventPlayerData, messages.PlayerView{ID: id, Username: id + "-name"})))
	return s, em, l
}

func TestSetUsernameRejectsBlank(t *testing.T) {
	s := NewSession(&fakeEmitter{}, &recordingListener{}, nil)

	assert.ErrorIs(t, s.SetUsername("   "), ErrEmptyUsername)
	assert.ErrorIs(t, s.CreateRoom("x"), ErrNoUsername)
}

func TestCreateRoomGating(t *testing.T) {
	s, em, l := newTestSession(t, "host")

	require.NoError(t, s.Handle(event(t, messages.EventRoomList, messages.RoomListPayload{
		Rooms: []messages.RoomView{{Name: "Room 1", Creator: "other", PlayerCount: 1}},
	})))

	require.NoError(t, s.CreateRoom(""))
	require.Len(t, em.sent, 1)
	assert.Equal(t, messages.CreateRoomPayload{Name: "Room 2"}, em.sent[0].payload)

	room, ok := s.Room()
	require.True(t, ok)
	assert.Equal(t, "host", room.Creator)
	require.NotNil(t, l.room)

	assert.ErrorIs(t, s.CreateRoom("again"), ErrAlreadyInRoom)
	assert.ErrorIs(t, s.JoinRoom("other"), ErrAlreadyInRoom)
	assert.ErrorIs(t, s.StartGame(), ErrNeedTwoPlayers)

	require.NoError(t, s.Handle(event(t, messages.EventPlayerJoined, messages.PlayerView{ID: "guest", Username: "bob"})))
	room, _ = s.Room()
	assert.Equal(t, 2, room.PlayerCount)

	require.NoError(t, s.StartGame())
	assert.Equal(t, []string{messages.EventCreateRoom, messages.EventStartGame}, em.events())

	require.NoError(t, s.Handle(event(t, messages.EventPlayerLeftRoom, messages.PlayerView{ID: "guest"})))
	room, _ = s.Room()
	assert.Equal(t, 1, room.PlayerCount)
	assert.ErrorIs(t, s.StartGame(), ErrNeedTwoPlayers)
}

func TestJoinRoomRefusesFullRoom(t *testing.T) {
	s, em, l := newTestSession(t, "guest")

	require.NoError(t, s.JoinRoom("host"))
	require.NoError(t, s.Handle(event(t, messages.EventRoomData, messages.RoomView{
		Name: "Busy", Creator: "host", PlayerCount: 2,
		Players: []messages.PlayerView{{ID: "host"}, {ID: "x"}},
	})))

	assert.Equal(t, []string{messages.EventGetRoomData}, em.events())
	assert.Contains(t, l.noticeList(), "Busy is full!")
	_, ok := s.Room()
	assert.False(t, ok)
}

func TestJoinRoomJoinsOpenRoom(t *testing.T) {
	s, em, _ := newTestSession(t, "guest")

	require.NoError(t, s.JoinRoom("host"))
	require.NoError(t, s.Handle(event(t, messages.EventRoomData, messages.RoomView{
		Name: "Open", Creator: "host", PlayerCount: 1,
		Players: []messages.PlayerView{{ID: "host"}},
	})))

	assert.Equal(t, []string{messages.EventGetRoomData, messages.EventJoinRoom}, em.events())
	assert.Equal(t, messages.RoomRef{Creator: "host"}, em.sent[1].payload)

	room, ok := s.Room()
	require.True(t, ok)
	assert.Equal(t, 2, room.PlayerCount)
	assert.ErrorIs(t, s.StartGame(), ErrNotHost)

	require.NoError(t, s.Handle(event(t, messages.EventKicked, nil)))
	_, ok = s.Room()
	assert.False(t, ok)
}

func TestLobbyTracksRooms(t *testing.T) {
	s, _, l := newTestSession(t, "me")

	require.NoError(t, s.Handle(event(t, messages.EventRoomList, messages.RoomListPayload{})))
	require.NoError(t, s.Handle(event(t, messages.EventRoomCreated, messages.RoomView{Name: "A", Creator: "a"})))
	require.NoError(t, s.Handle(event(t, messages.EventRoomCreated, messages.RoomView{Name: "B", Creator: "b"})))
	require.NoError(t, s.Handle(event(t, messages.EventRoomRemoved, messages.RoomView{Name: "A", Creator: "a"})))

	rooms := s.Rooms()
	require.Len(t, rooms, 1)
	assert.Equal(t, "b", rooms[0].Creator)
	assert.Len(t, l.lobby, 1)
}

func TestGameEventsDriveLocalGame(t *testing.T) {
	s, em, l := newTestSession(t, "guest")

	_, err := s.Select(chess.MustParseCoordinate("E7"))
	assert.ErrorIs(t, err, ErrNoGame)

	require.NoError(t, s.Handle(event(t, messages.EventSideAssigned, chess.Black)))
	g := s.Game()
	require.NotNil(t, g)
	assert.Equal(t, chess.Black, g.Side())
	assert.False(t, g.Enabled())

	require.NoError(t, s.Handle(event(t, messages.EventPieceMoved, map[string]string{"from": "E2", "to": "E4"})))
	assert.Equal(t, chess.Pawn, g.Board().PieceAt(chess.MustParseCoordinate("E4")).Kind)

	require.NoError(t, s.Handle(event(t, messages.EventTurnYours, nil)))
	assert.True(t, g.Enabled())

	_, err = s.Select(chess.MustParseCoordinate("E7"))
	require.NoError(t, err)
	require.NoError(t, s.MoveTo(chess.MustParseCoordinate("E5")))
	assert.Equal(t, []string{messages.EventMovePiece, messages.EventSwitchTurn}, em.events())

	require.NoError(t, s.Handle(event(t, messages.EventLose, nil)))
	won, over := l.result()
	require.True(t, over)
	assert.False(t, won)
	assert.True(t, g.Finished())
}

func TestRemoteCheckRaisesNotice(t *testing.T) {
	s, _, l := newTestSession(t, "guest")
	require.NoError(t, s.Handle(event(t, messages.EventSideAssigned, chess.Black)))

	for _, mv := range [][2]string{{"E2", "E4"}, {"F7", "F5"}, {"D1", "H5"}} {
		require.NoError(t, s.Handle(event(t, messages.EventPieceMoved, map[string]string{"from": mv[0], "to": mv[1]})))
	}

	assert.Contains(t, l.noticeList(), "Your king can be captured!")
}

func TestUnknownPieceIsReported(t *testing.T) {
	s, _, _ := newTestSession(t, "guest")
	require.NoError(t, s.Handle(event(t, messages.EventSideAssigned, chess.White)))

	err := s.Handle(event(t, messages.EventPieceMoved, map[string]string{"from": "E4", "to": "E5"}))
	assert.ErrorIs(t, err, game.ErrUnknownPiece)
}
