package domain

import (
	"arena-lab/errors"
	"crypto/subtle"
	"time"

	"github.com/samber/lo"
)

type RoomID string

type RoomState string

const (
	Waiting RoomState = "waiting"
	Playing RoomState = "playing"
)

type GameMode string

const (
	Multiplayer GameMode = "multiplayer"
	Training    GameMode = "training"
	Survival    GameMode = "survival"
)

const (
	DefaultMaxPlayers = 8
	DefaultMap        = "default"
)

// Score is created at game start and lives as long as its room.
type Score struct {
	Kills  int    `json:"kills"`
	Deaths int    `json:"deaths"`
	Name   string `json:"name"`
}

// RoomSettings is what a creator chooses; zero values fall back to defaults.
type RoomSettings struct {
	Name       string
	Password   string
	Map        string
	MaxPlayers int
	GameMode   GameMode
}

func (s RoomSettings) withDefaults() RoomSettings {
	if s.Map == "" {
		s.Map = DefaultMap
	}
	if s.MaxPlayers <= 0 {
		s.MaxPlayers = DefaultMaxPlayers
	}
	if s.GameMode == "" {
		s.GameMode = Multiplayer
	}
	return s
}

// Room is a match container.
// While a Room exists it holds at least one player and exactly one host,
// except transiently inside RemovePlayer before the caller destroys it.
type Room struct {
	ID           RoomID
	Name         string
	HostID       ConnID
	Password     string
	Map          string
	MaxPlayers   int
	GameMode     GameMode
	State        RoomState
	Players      map[ConnID]*Player
	Scores       map[ConnID]*Score
	CreatedAt    time.Time
	LastActivity time.Time
	order        []ConnID
}

func NewRoom(id RoomID, host ConnID, settings RoomSettings, now time.Time) *Room {
	s := settings.withDefaults()
	return &Room{
		ID:           id,
		Name:         s.Name,
		HostID:       host,
		Password:     s.Password,
		Map:          s.Map,
		MaxPlayers:   s.MaxPlayers,
		GameMode:     s.GameMode,
		State:        Waiting,
		Players:      make(map[ConnID]*Player),
		Scores:       make(map[ConnID]*Score),
		CreatedAt:    now,
		LastActivity: now,
	}
}

func (r *Room) Size() int { return len(r.order) }

func (r *Room) IsEmpty() bool { return len(r.order) == 0 }

func (r *Room) IsFull() bool { return len(r.order) >= r.MaxPlayers }

func (r *Room) Has(id ConnID) bool {
	_, ok := r.Players[id]
	return ok
}

func (r *Room) Player(id ConnID) (*Player, bool) {
	p, ok := r.Players[id]
	return p, ok
}

// Members returns connection ids in join order.
func (r *Room) Members() []ConnID {
	return append([]ConnID(nil), r.order...)
}

// IsPublic tells whether the room may appear in the lobby listing.
func (r *Room) IsPublic() bool {
	return r.Password == "" && r.GameMode == Multiplayer && !r.IsFull()
}

// CheckPassword compares in constant time. A room without password accepts anything.
func (r *Room) CheckPassword(password string) bool {
	if r.Password == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(r.Password), []byte(password)) == 1
}

// AddPlayer inserts a member; capacity must be checked by the caller.
func (r *Room) AddPlayer(p *Player) {
	if r.Has(p.ID) {
		return
	}
	r.Players[p.ID] = p
	r.order = append(r.order, p.ID)
}

// RemovePlayer deletes a member and, when it was the host, hands the role to
// the earliest remaining member. It returns the new host if one was chosen.
func (r *Room) RemovePlayer(id ConnID) (ConnID, bool) {
	if !r.Has(id) {
		return "", false
	}
	delete(r.Players, id)
	r.order = lo.Without(r.order, id)

	if id != r.HostID || r.IsEmpty() {
		return "", false
	}
	next := r.order[0]
	r.HostID = next
	r.Players[next].IsHost = true
	return next, true
}

func (r *Room) AllReady() bool {
	return lo.EveryBy(r.order, func(id ConnID) bool { return r.Players[id].IsReady })
}

// ToggleReady flips the ready flag of a member.
func (r *Room) ToggleReady(id ConnID) bool {
	p, ok := r.Players[id]
	if !ok {
		return false
	}
	p.IsReady = !p.IsReady
	return true
}

// Start moves the room from waiting to playing and seeds missing scores.
func (r *Room) Start(by ConnID) error {
	if !r.Has(by) {
		return errors.ErrNotInRoom
	}
	if by != r.HostID {
		return errors.ErrNotHost
	}
	if r.State == Playing {
		return errors.ErrAlreadyPlaying
	}
	if !r.AllReady() {
		return errors.ErrNotAllReady
	}
	r.State = Playing
	for _, id := range r.order {
		if _, ok := r.Scores[id]; !ok {
			r.Scores[id] = &Score{Name: r.Players[id].Username}
		}
	}
	return nil
}

// RecordKill updates whichever score entries exist.
func (r *Room) RecordKill(shooter, target ConnID) {
	if s, ok := r.Scores[target]; ok {
		s.Deaths++
	}
	if s, ok := r.Scores[shooter]; ok {
		s.Kills++
	}
}

func (r *Room) Touch(now time.Time) { r.LastActivity = now }

// Roster copies the player map for broadcasting.
func (r *Room) Roster() map[ConnID]Player {
	return lo.MapValues(r.Players, func(p *Player, _ ConnID) Player { return p.Snapshot() })
}

// ScoreBoard copies the score map for broadcasting.
func (r *Room) ScoreBoard() map[ConnID]Score {
	return lo.MapValues(r.Scores, func(s *Score, _ ConnID) Score { return *s })
}

// Summary is the public lobby view of the room.
func (r *Room) Summary() LobbySummary {
	return LobbySummary{
		ID:          r.ID,
		Name:        r.Name,
		PlayerCount: r.Size(),
		MaxPlayers:  r.MaxPlayers,
		State:       r.State,
		Map:         r.Map,
	}
}

// LobbySummary is one entry of the public lobby list.
type LobbySummary struct {
	ID          RoomID    `json:"id"`
	Name        string    `json:"name"`
	PlayerCount int       `json:"playerCount"`
	MaxPlayers  int       `json:"maxPlayers"`
	State       RoomState `json:"state"`
	Map         string    `json:"map"`
}

// FillRatio is used to sort lobbies, fullest first.
func (l LobbySummary) FillRatio() float64 {
	if l.MaxPlayers == 0 {
		return 0
	}
	return float64(l.PlayerCount) / float64(l.MaxPlayers)
}
