package domain

import (
	"arena-lab/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestRoom(settings RoomSettings, members ...ConnID) *Room {
	room := NewRoom("room-1", members[0], settings, time.Unix(0, 0))
	for i, id := range members {
		room.AddPlayer(NewPlayer(id, string(id), i == 0, Point{}))
	}
	return room
}

func TestNewRoom_AppliesDefaults(t *testing.T) {
	req := require.New(t)

	// Given settings with only a name
	room := NewRoom("r", "host", RoomSettings{Name: "arena"}, time.Now())

	// Then every missing setting falls back to its default
	req.Equal(DefaultMap, room.Map)
	req.Equal(DefaultMaxPlayers, room.MaxPlayers)
	req.Equal(Multiplayer, room.GameMode)
	req.Equal(Waiting, room.State)
	req.True(room.IsEmpty())
}

func TestRoom_RemovePlayer_ReassignsHostToEarliestMember(t *testing.T) {
	req := require.New(t)

	// Given a room hosted by A with B and C joined after
	room := newTestRoom(RoomSettings{Name: "arena"}, "A", "B", "C")

	// When the host leaves
	next, reassigned := room.RemovePlayer("A")

	// Then B, the earliest remaining member, becomes host
	req.True(reassigned)
	req.Equal(ConnID("B"), next)
	req.Equal(ConnID("B"), room.HostID)
	req.True(room.Players["B"].IsHost)
	req.Equal([]ConnID{"B", "C"}, room.Members())
}

func TestRoom_RemovePlayer_NonHostKeepsHost(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(RoomSettings{Name: "arena"}, "A", "B")

	_, reassigned := room.RemovePlayer("B")

	req.False(reassigned)
	req.Equal(ConnID("A"), room.HostID)
	req.Equal(1, room.Size())
}

func TestRoom_RemovePlayer_LastMemberEmptiesRoom(t *testing.T) {
	req := require.New(t)
	room := newTestRoom(RoomSettings{Name: "arena"}, "A")

	_, reassigned := room.RemovePlayer("A")

	req.False(reassigned)
	req.True(room.IsEmpty())
}

func TestRoom_Start(t *testing.T) {
	t.Run("fails for a non member", func(t *testing.T) {
		req := require.New(t)
		room := newTestRoom(RoomSettings{Name: "arena"}, "A")
		req.ErrorIs(room.Start("Z"), errors.ErrNotInRoom)
	})

	t.Run("fails for a non host", func(t *testing.T) {
		req := require.New(t)
		room := newTestRoom(RoomSettings{Name: "arena"}, "A", "B")
		room.ToggleReady("B")
		req.ErrorIs(room.Start("B"), errors.ErrNotHost)
		req.Equal(Waiting, room.State)
	})

	t.Run("fails when someone is not ready", func(t *testing.T) {
		req := require.New(t)
		room := newTestRoom(RoomSettings{Name: "arena"}, "A", "B")
		req.ErrorIs(room.Start("A"), errors.ErrNotAllReady)
		req.Equal(Waiting, room.State)
		req.Empty(room.Scores)
	})

	t.Run("seeds scores for every member", func(t *testing.T) {
		req := require.New(t)
		room := newTestRoom(RoomSettings{Name: "arena"}, "A", "B")
		room.ToggleReady("B")

		req.NoError(room.Start("A"))

		req.Equal(Playing, room.State)
		req.Equal(map[ConnID]Score{
			"A": {Name: "A"},
			"B": {Name: "B"},
		}, room.ScoreBoard())
	})

	t.Run("a second start is refused", func(t *testing.T) {
		req := require.New(t)
		room := newTestRoom(RoomSettings{Name: "arena"}, "A")
		req.NoError(room.Start("A"))
		req.ErrorIs(room.Start("A"), errors.ErrAlreadyPlaying)
	})
}

func TestRoom_RecordKill_SkipsMissingScores(t *testing.T) {
	req := require.New(t)

	// Given a playing room where B joined after the start
	room := newTestRoom(RoomSettings{Name: "arena"}, "A")
	req.NoError(room.Start("A"))
	room.AddPlayer(NewPlayer("B", "B", false, Point{}))

	// When B kills A
	room.RecordKill("B", "A")

	// Then only the existing entry changes
	board := room.ScoreBoard()
	req.Equal(1, board["A"].Deaths)
	req.NotContains(board, ConnID("B"))
}

func TestRoom_CheckPassword(t *testing.T) {
	req := require.New(t)

	open := newTestRoom(RoomSettings{Name: "open"}, "A")
	req.True(open.CheckPassword(""))
	req.True(open.CheckPassword("anything"))

	locked := newTestRoom(RoomSettings{Name: "locked", Password: "secret"}, "A")
	req.True(locked.CheckPassword("secret"))
	req.False(locked.CheckPassword("Secret"))
	req.False(locked.CheckPassword(""))
}

func TestRoom_IsPublic(t *testing.T) {
	req := require.New(t)

	req.True(newTestRoom(RoomSettings{Name: "a"}, "A").IsPublic())
	req.False(newTestRoom(RoomSettings{Name: "b", Password: "x"}, "A").IsPublic())
	req.False(newTestRoom(RoomSettings{Name: "c", GameMode: Training}, "A").IsPublic())
	req.False(newTestRoom(RoomSettings{Name: "d", MaxPlayers: 1}, "A").IsPublic())
}

func TestLobbySummary_FillRatio(t *testing.T) {
	req := require.New(t)
	req.Equal(0.5, LobbySummary{PlayerCount: 2, MaxPlayers: 4}.FillRatio())
	req.Zero(LobbySummary{PlayerCount: 2}.FillRatio())
}
