package ws

import (
	"arena-lab/domain"
	"arena-lab/errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestDecode_Commands(t *testing.T) {
	from := domain.From{Conn: "C1"}
	tests := []struct {
		name     string
		frame    string
		expected domain.Command
	}{
		{"Login with a bare string", `{"event":"login","data":"alice"}`, domain.LoginCommand{From: from, Name: "alice"}},
		{"Add friend", `{"event":"add_friend","data":"bob"}`, domain.AddFriendCommand{From: from, Target: "bob"}},
		{"Accept friend", `{"event":"accept_friend","data":"bob"}`, domain.AcceptFriendCommand{From: from, Requester: "bob"}},
		{"Invite", `{"event":"send_invite","data":{"targetName":"bob"}}`, domain.SendInviteCommand{From: from, Target: "bob"}},
		{
			"Create room with every field",
			`{"event":"create_room","data":{"roomName":"arena","password":"pw","map":"dust","maxPlayers":4,"autoStart":true,"username":"al","gameMode":"training"}}`,
			domain.CreateRoomCommand{
				From:      from,
				Settings:  domain.RoomSettings{Name: "arena", Password: "pw", Map: "dust", MaxPlayers: 4, GameMode: domain.Training},
				AutoStart: true,
				Username:  "al",
			},
		},
		{
			"Join room",
			`{"event":"join_room","data":{"roomId":"r1","password":"pw"}}`,
			domain.JoinRoomCommand{From: from, RoomID: "r1", Password: "pw"},
		},
		{"Start without payload", `{"event":"start_game"}`, domain.StartGameCommand{From: from}},
		{"Toggle ready with null payload", `{"event":"toggle_ready","data":null}`, domain.ToggleReadyCommand{From: from}},
		{"Leave room", `{"event":"leave_room"}`, domain.LeaveRoomCommand{From: from}},
		{"Get lobbies", `{"event":"get_lobbies"}`, domain.GetLobbiesCommand{From: from}},
		{"Disconnect", `{"event":"disconnect"}`, domain.DisconnectCommand{From: from}},
		{
			"Partial movement keeps absent fields nil",
			`{"event":"player_update","data":{"x":12.5,"rotation":1}}`,
			domain.PlayerUpdateCommand{From: from, Movement: domain.Movement{X: lo.ToPtr(12.5), Rotation: lo.ToPtr(1.0)}},
		},
		{
			"Movement with a string coordinate keeps nothing",
			`{"event":"player_update","data":{"x":"left"}}`,
			domain.PlayerUpdateCommand{From: from},
		},
		{
			"Movement with mixed fields keeps the valid ones",
			`{"event":"player_update","data":{"x":"left","y":50,"rotation":1,"velocityX":1e400,"velocityY":null}}`,
			domain.PlayerUpdateCommand{From: from, Movement: domain.Movement{Y: lo.ToPtr(50.0), Rotation: lo.ToPtr(1.0)}},
		},
		{
			"Shoot keeps the raw payload",
			`{"event":"shoot","data":{"angle":0.5,"weapon":"rifle"}}`,
			domain.ShootCommand{From: from, Payload: map[string]any{"angle": 0.5, "weapon": "rifle"}},
		},
		{"Shoot without payload", `{"event":"shoot"}`, domain.ShootCommand{From: from, Payload: map[string]any{}}},
		{
			"Player hit",
			`{"event":"player_hit","data":{"targetId":"C2","damage":25}}`,
			domain.PlayerHitCommand{From: from, Target: "C2", Damage: 25},
		},
		{
			"Update profile",
			`{"event":"update_profile","data":{"username":"alicia","color":"red","customization":{"hat":"cap"}}}`,
			domain.UpdateProfileCommand{From: from, Username: "alicia", Color: "red", Customization: map[string]any{"hat": "cap"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			cmd, err := Decode("C1", []byte(tt.frame))
			req.NoError(err)
			req.Equal(tt.expected, cmd)
			req.Equal(domain.ConnID("C1"), cmd.Origin())
		})
	}
}

func TestDecode_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		frame  string
		target error
	}{
		{"Not JSON", `hello`, errors.ErrInvalidPayload},
		{"Missing event", `{"data":"alice"}`, errors.ErrInvalidPayload},
		{"Unknown event", `{"event":"teleport"}`, errors.ErrUnknownEvent},
		{"Login with an object", `{"event":"login","data":{"name":"alice"}}`, errors.ErrInvalidPayload},
		{"Login with an empty name", `{"event":"login","data":""}`, errors.ErrInvalidPayload},
		{"Create room without name", `{"event":"create_room","data":{"maxPlayers":4}}`, errors.ErrInvalidPayload},
		{"Create room with too many seats", `{"event":"create_room","data":{"roomName":"a","maxPlayers":99}}`, errors.ErrInvalidPayload},
		{"Create room with an unknown mode", `{"event":"create_room","data":{"roomName":"a","gameMode":"battle"}}`, errors.ErrInvalidPayload},
		{"Join without room id", `{"event":"join_room","data":{}}`, errors.ErrInvalidPayload},
		{"Hit without target", `{"event":"player_hit","data":{"damage":10}}`, errors.ErrInvalidPayload},
		{"Movement that is not an object", `{"event":"player_update","data":[1,2]}`, errors.ErrInvalidPayload},
		{"Shoot with an array", `{"event":"shoot","data":[1,2]}`, errors.ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			cmd, err := Decode("C1", []byte(tt.frame))
			req.ErrorIs(err, tt.target)
			req.Nil(cmd)
		})
	}
}
