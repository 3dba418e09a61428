package e2e

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testLobbySuite struct {
	BaseWsSuite
}

func TestLobbySuite(t *testing.T) {
	suite.Run(t, &testLobbySuite{})
}

type roomJoined struct {
	RoomName string                 `json:"roomName"`
	HostID   string                 `json:"hostId"`
	Players  map[string]lobbyPlayer `json:"players"`
}

type lobbyPlayer struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsReady  bool   `json:"isReady"`
}

type lobby struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
}

func (s *testLobbySuite) TestCreateJoinAndStart() {
	suffix := time.Now().UnixNano()
	roomName := fmt.Sprintf("e2e-%d", suffix)

	host := s.Dial("Host connects")
	defer host.Close()
	guest := s.Dial("Guest connects")
	defer guest.Close()

	s.Run("Step 1: Host logs in and creates a public room", func() {
		host.Send("login", fmt.Sprintf("host-%d", suffix))
		host.Expect("user_data", nil)
		host.Send("create_room", map[string]any{"roomName": roomName, "maxPlayers": 4})

		var joined roomJoined
		host.Expect("room_joined", &joined)
		s.Require().Equal(roomName, joined.RoomName)
		s.Require().Len(joined.Players, 1)
	})

	var roomID string
	s.Run("Step 2: Guest finds the room in the lobby list", func() {
		guest.Send("get_lobbies", nil)
		var lobbies []lobby
		guest.Expect("lobbies_list", &lobbies)
		for _, l := range lobbies {
			if l.Name == roomName {
				roomID = l.ID
				s.Require().Equal(1, l.PlayerCount)
			}
		}
		s.Require().NotEmpty(roomID, "room %s not listed", roomName)
	})

	s.Run("Step 3: Guest joins and readies up", func() {
		guest.Send("join_room", map[string]any{"roomId": roomID})
		var joined roomJoined
		guest.Expect("room_joined", &joined)
		s.Require().Len(joined.Players, 2)
		var newcomer lobbyPlayer
		host.Expect("player_joined", &newcomer)
		host.Expect("lobby_update", nil)

		guest.Send("toggle_ready", nil)
		roster := map[string]lobbyPlayer{}
		host.Expect("lobby_update", &roster)
		s.Require().True(roster[newcomer.ID].IsReady)
	})

	s.Run("Step 4: Host starts the match", func() {
		host.Send("start_game", nil)
		host.Expect("game_started", nil)
		guest.Expect("game_started", nil)
	})
}
