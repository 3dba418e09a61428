package event

import (
	"arena-lab/domain"
	"encoding/json"
)

type Name string

const (
	UserData            Name = "user_data"
	SessionToken        Name = "session_token"
	PresenceUpdate      Name = "presence_update"
	ProfileUpdateResult Name = "profile_update_result"
	FriendResult        Name = "friend_result"
	FriendRequest       Name = "friend_request"
	FriendAccepted      Name = "friend_accepted"
	Invitation          Name = "invitation"
	ErrorMessage        Name = "error_message"
	RoomJoined          Name = "room_joined"
	PlayerJoined        Name = "player_joined"
	LobbyUpdate         Name = "lobby_update"
	GameStarted         Name = "game_started"
	PlayerMoved         Name = "player_moved"
	PlayerShoot         Name = "player_shoot"
	PlayerHealthUpdate  Name = "player_health_update"
	PlayerRespawn       Name = "player_respawn"
	ScoreUpdate         Name = "score_update"
	PlayerLeft          Name = "player_left"
	LobbiesList         Name = "lobbies_list"
)

// Event is one outbound message. Payload is one of the types below or a
// plain value for events whose payload is a bare string or map.
type Event struct {
	Name    Name
	Payload any
}

// MarshalJSON writes the wire envelope {"event": ..., "data": ...}.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Event Name `json:"event"`
		Data  any  `json:"data"`
	}{Event: e.Name, Data: e.Payload})
}

type Result struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}

type FromUser struct {
	From string `json:"from"`
}

type Invite struct {
	From string        `json:"from"`
	Room domain.RoomID `json:"room"`
}

type Token struct {
	Token string `json:"token"`
}

type Presence struct {
	Username string `json:"username"`
	Online   bool   `json:"online"`
}

type RoomSnapshot struct {
	RoomName string                          `json:"roomName"`
	Map      string                          `json:"map"`
	Players  map[domain.ConnID]domain.Player `json:"players"`
	HostID   domain.ConnID                   `json:"hostId"`
	GameMode domain.GameMode                 `json:"gameMode"`
}

type GameStart struct {
	Name    string                          `json:"name"`
	Map     string                          `json:"map"`
	Players map[domain.ConnID]domain.Player `json:"players"`
	Scores  map[domain.ConnID]domain.Score  `json:"scores,omitempty"`
}

type Moved struct {
	ID        domain.ConnID `json:"id"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Rotation  float64       `json:"rotation"`
	VelocityX *float64      `json:"velocityX,omitempty"`
	VelocityY *float64      `json:"velocityY,omitempty"`
}

type Health struct {
	ID     domain.ConnID `json:"id"`
	Health int           `json:"health"`
}

type Respawn struct {
	ID domain.ConnID `json:"id"`
	X  float64       `json:"x"`
	Y  float64       `json:"y"`
}

func Error(msg string) Event { return Event{Name: ErrorMessage, Payload: msg} }

func NewRoomSnapshot(r *domain.Room) RoomSnapshot {
	return RoomSnapshot{
		RoomName: r.Name,
		Map:      r.Map,
		Players:  r.Roster(),
		HostID:   r.HostID,
		GameMode: r.GameMode,
	}
}

// NewGameStart builds the start snapshot; scores are included only for late joiners.
func NewGameStart(r *domain.Room, withScores bool) GameStart {
	gs := GameStart{Name: r.Name, Map: r.Map, Players: r.Roster()}
	if withScores {
		gs.Scores = r.ScoreBoard()
	}
	return gs
}

func NewMoved(p *domain.Player) Moved {
	s := p.Snapshot()
	return Moved{
		ID:        s.ID,
		X:         s.X,
		Y:         s.Y,
		Rotation:  s.Rotation,
		VelocityX: s.VelocityX,
		VelocityY: s.VelocityY,
	}
}

// NewShot copies the client payload and stamps the shooter id over any id it carried.
func NewShot(shooter domain.ConnID, payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}
	out["id"] = shooter
	return out
}
