package domain

// Command is one unit of work for the dispatch loop. Origin is empty for
// commands raised by the server itself.
type Command interface {
	Origin() ConnID
}

// From is embedded by every client command.
type From struct {
	Conn ConnID
}

func (f From) Origin() ConnID { return f.Conn }

type LoginCommand struct {
	From
	Name string
}

type UpdateProfileCommand struct {
	From
	Username      string
	Color         string
	Customization map[string]any
}

type AddFriendCommand struct {
	From
	Target string
}

type AcceptFriendCommand struct {
	From
	Requester string
}

type SendInviteCommand struct {
	From
	Target string
}

type CreateRoomCommand struct {
	From
	Settings  RoomSettings
	AutoStart bool
	Username  string
}

type JoinRoomCommand struct {
	From
	RoomID   RoomID
	Password string
	Username string
}

type StartGameCommand struct{ From }

type PlayerUpdateCommand struct {
	From
	Movement Movement
}

type ShootCommand struct {
	From
	Payload map[string]any
}

type PlayerHitCommand struct {
	From
	Target ConnID
	Damage float64
}

type ToggleReadyCommand struct{ From }

type LeaveRoomCommand struct{ From }

type GetLobbiesCommand struct{ From }

type DisconnectCommand struct{ From }

// SweepCommand asks the loop to reclaim empty rooms.
type SweepCommand struct{}

func (SweepCommand) Origin() ConnID { return "" }

// The commands below carry the outcome of a profile store call back onto the loop.

type LoginResolved struct {
	From
	Name    string
	Profile Profile
	Err     error
}

type ProfileUpdated struct {
	From
	OldName string
	NewName string
	Err     error
}

type FriendRequested struct {
	From
	Name   string
	Target string
	Err    error
}

type FriendAccepted struct {
	From
	Name      string
	Requester string
	Mine      Profile
	Theirs    Profile
	Err       error
}
