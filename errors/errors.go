package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	// Validation
	ErrInvalidPayload = fmt.Errorf("invalid payload")
	ErrUnknownEvent   = fmt.Errorf("unknown event")
	ErrInvalidDamage  = fmt.Errorf("non-positive damage")
	ErrSelfHit        = fmt.Errorf("player cannot hit itself")

	// Authority
	ErrNotInRoom = fmt.Errorf("connection is not a member of the room")
	ErrNotHost   = fmt.Errorf("only the host can start the game")

	// State
	ErrRoomNotFound      = fmt.Errorf("room not found")
	ErrBadPassword       = fmt.Errorf("incorrect password")
	ErrRoomFull          = fmt.Errorf("room is full")
	ErrRoomIDCollision   = fmt.Errorf("room already exists")
	ErrNotAllReady       = fmt.Errorf("not all players are ready")
	ErrAlreadyPlaying    = fmt.Errorf("game already started")
	ErrAlreadyLoggedIn   = fmt.Errorf("user already logged in")
	ErrInviteOutsideRoom = fmt.Errorf("invite requires a room")
	ErrSessionChanged    = fmt.Errorf("session changed while the profile was updated")
	ErrLoginFailed       = fmt.Errorf("login failed")

	// Rate limiting and anti-cheat
	ErrRateLimited   = fmt.Errorf("rate limited")
	ErrHitOutOfRange = fmt.Errorf("hit distance out of range")

	// Profile store
	ErrProfileNotFound   = fmt.Errorf("profile not found")
	ErrNameTaken         = fmt.Errorf("name already taken")
	ErrAlreadyFriends    = fmt.Errorf("already friends")
	ErrAlreadyRequested  = fmt.Errorf("already requested")
	ErrNoPendingRequest  = fmt.Errorf("no pending friend request")
	ErrEmptyName         = fmt.Errorf("empty name")
	ErrInvalidToken      = fmt.Errorf("invalid session token")
	ErrSlowConsumer      = fmt.Errorf("connection send buffer is full")
	ErrConnectionClosing = fmt.Errorf("connection is closing")
)

// userMessages holds the exact strings clients display.
var userMessages = map[error]string{
	ErrRoomNotFound:      "Room not found",
	ErrBadPassword:       "Incorrect password",
	ErrRoomFull:          "Room is full",
	ErrRoomIDCollision:   "Room already exists",
	ErrNotAllReady:       "Not all players are ready!",
	ErrAlreadyLoggedIn:   "User already logged in.",
	ErrInviteOutsideRoom: "You must be in a room to invite.",
	ErrLoginFailed:       "Login failed",
	ErrProfileNotFound:   "User not found",
	ErrNameTaken:         "Name already taken",
	ErrAlreadyFriends:    "already_friends",
	ErrAlreadyRequested:  "already_requested",
	ErrInvalidPayload:    "Invalid request",
}

// UserMessage returns the wire text for err, and false when err must stay server-side.
func UserMessage(err error) (string, bool) {
	for target, msg := range userMessages {
		if stderrors.Is(err, target) {
			return msg, true
		}
	}
	return "", false
}

// Is avoids importing the standard errors package next to this one.
func Is(err, target error) bool { return stderrors.Is(err, target) }
