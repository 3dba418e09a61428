package ws

import (
	"arena-lab/domain"
	"arena-lab/errors"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// envelope is the frame shape in both directions: {"event": ..., "data": ...}.
type envelope struct {
	Event string          `json:"event" validate:"required"`
	Data  json.RawMessage `json:"data"`
}

type nameRequest struct {
	Name string `validate:"required,max=32"`
}

type updateProfileRequest struct {
	Username      string         `json:"username" validate:"max=32"`
	Color         string         `json:"color" validate:"max=32"`
	Customization map[string]any `json:"customization"`
}

type inviteRequest struct {
	TargetName string `json:"targetName" validate:"max=32"`
}

type createRoomRequest struct {
	RoomName   string `json:"roomName" validate:"required,max=48"`
	Password   string `json:"password" validate:"max=64"`
	Map        string `json:"map" validate:"max=48"`
	MaxPlayers int    `json:"maxPlayers" validate:"min=0,max=32"`
	AutoStart  bool   `json:"autoStart"`
	Username   string `json:"username" validate:"max=32"`
	GameMode   string `json:"gameMode" validate:"omitempty,oneof=multiplayer training survival"`
}

type joinRoomRequest struct {
	RoomID   string `json:"roomId" validate:"required,max=64"`
	Password string `json:"password" validate:"max=64"`
	Username string `json:"username" validate:"max=32"`
}


type playerHitRequest struct {
	TargetID string  `json:"targetId" validate:"required,max=64"`
	Damage   float64 `json:"damage"`
}

// Decode turns one inbound frame into a typed command for conn.
// Malformed or invalid payloads return an error wrapping errors.ErrInvalidPayload.
func Decode(conn domain.ConnID, frame []byte) (domain.Command, error) {
	var env envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	if err := validate.Struct(env); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	from := domain.From{Conn: conn}

	switch env.Event {
	case "login":
		name, err := decodeName(env.Data)
		if err != nil {
			return nil, err
		}
		return domain.LoginCommand{From: from, Name: name}, nil
	case "update_profile":
		var req updateProfileRequest
		if err := decodeInto(env.Data, &req); err != nil {
			return nil, err
		}
		return domain.UpdateProfileCommand{
			From: from, Username: req.Username, Color: req.Color, Customization: req.Customization,
		}, nil
	case "add_friend":
		name, err := decodeName(env.Data)
		if err != nil {
			return nil, err
		}
		return domain.AddFriendCommand{From: from, Target: name}, nil
	case "accept_friend":
		name, err := decodeName(env.Data)
		if err != nil {
			return nil, err
		}
		return domain.AcceptFriendCommand{From: from, Requester: name}, nil
	case "send_invite":
		var req inviteRequest
		if err := decodeInto(env.Data, &req); err != nil {
			return nil, err
		}
		return domain.SendInviteCommand{From: from, Target: req.TargetName}, nil
	case "create_room":
		var req createRoomRequest
		if err := decodeInto(env.Data, &req); err != nil {
			return nil, err
		}
		return domain.CreateRoomCommand{
			From: from,
			Settings: domain.RoomSettings{
				Name:       req.RoomName,
				Password:   req.Password,
				Map:        req.Map,
				MaxPlayers: req.MaxPlayers,
				GameMode:   domain.GameMode(req.GameMode),
			},
			AutoStart: req.AutoStart,
			Username:  req.Username,
		}, nil
	case "join_room":
		var req joinRoomRequest
		if err := decodeInto(env.Data, &req); err != nil {
			return nil, err
		}
		return domain.JoinRoomCommand{
			From: from, RoomID: domain.RoomID(req.RoomID), Password: req.Password, Username: req.Username,
		}, nil
	case "start_game":
		return domain.StartGameCommand{From: from}, nil
	case "player_update":
		movement, err := decodeMovement(env.Data)
		if err != nil {
			return nil, err
		}
		return domain.PlayerUpdateCommand{From: from, Movement: movement}, nil
	case "shoot":
		payload := map[string]any{}
		if !isEmpty(env.Data) {
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				return nil, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
			}
		}
		return domain.ShootCommand{From: from, Payload: payload}, nil
	case "player_hit":
		var req playerHitRequest
		if err := decodeInto(env.Data, &req); err != nil {
			return nil, err
		}
		return domain.PlayerHitCommand{From: from, Target: domain.ConnID(req.TargetID), Damage: req.Damage}, nil
	case "toggle_ready":
		return domain.ToggleReadyCommand{From: from}, nil
	case "leave_room":
		return domain.LeaveRoomCommand{From: from}, nil
	case "get_lobbies":
		return domain.GetLobbiesCommand{From: from}, nil
	case "disconnect":
		return domain.DisconnectCommand{From: from}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEvent, env.Event)
	}
}

// decodeMovement keeps every coordinate that is a JSON number on its own.
// A field of the wrong type or out of float64 range is left nil; the rest still apply.
func decodeMovement(data json.RawMessage) (domain.Movement, error) {
	fields := map[string]json.RawMessage{}
	if !isEmpty(data) {
		if err := json.Unmarshal(data, &fields); err != nil {
			return domain.Movement{}, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
		}
	}
	return domain.Movement{
		X:         numberField(fields, "x"),
		Y:         numberField(fields, "y"),
		Rotation:  numberField(fields, "rotation"),
		VelocityX: numberField(fields, "velocityX"),
		VelocityY: numberField(fields, "velocityY"),
	}, nil
}

func numberField(fields map[string]json.RawMessage, key string) *float64 {
	raw, ok := fields[key]
	if !ok || isEmpty(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

// decodeName reads a payload that is a bare JSON string.
func decodeName(data json.RawMessage) (string, error) {
	var req nameRequest
	if err := json.Unmarshal(data, &req.Name); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	if err := validate.Struct(req); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return req.Name, nil
}

// decodeInto reads an object payload and validates its tags. An absent payload
// decodes to the zero request before validation.
func decodeInto(data json.RawMessage, req any) error {
	if !isEmpty(data) {
		if err := json.Unmarshal(data, req); err != nil {
			return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
		}
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	return nil
}

func isEmpty(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
