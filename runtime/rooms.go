package runtime

import (
	"arena-lab/domain"
	"arena-lab/errors"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const maxIDAttempts = 3

// Spawn bands: joiners land on x in [100,500] at y=200, respawns on x in [100,700] at y=100.
var (
	joinBand    = band{minX: 100, width: 400, y: 200}
	respawnBand = band{minX: 100, width: 600, y: 100}
)

type band struct {
	minX, width, y float64
}

func (b band) pick(rng *rand.Rand) domain.Point {
	return domain.Point{X: b.minX + rng.Float64()*b.width, Y: b.y}
}

// JoinResult describes what a successful join changed.
type JoinResult struct {
	Room     *domain.Room
	Player   *domain.Player
	Previous *LeaveResult // set when the connection left another room first
	Rejoined bool         // the connection was already a member; nothing changed
}

// LeaveResult describes what a leave changed.
type LeaveResult struct {
	Room      *domain.Room
	Conn      domain.ConnID
	Destroyed bool
	NewHost   domain.ConnID
}

// SweepReport lists what one sweep reclaimed or flagged.
type SweepReport struct {
	Removed []domain.RoomID
	Stale   []domain.RoomID
}

// RoomStore owns every live room and the connection -> room index.
// It is owned by the dispatch loop and is not safe for concurrent use.
type RoomStore struct {
	rooms      map[domain.RoomID]*domain.Room
	membership map[domain.ConnID]domain.RoomID
	rng        *rand.Rand
	now        func() time.Time
	newID      func() domain.RoomID
}

func NewRoomStore(rng *rand.Rand, now func() time.Time) *RoomStore {
	if now == nil {
		now = time.Now
	}
	return &RoomStore{
		rooms:      make(map[domain.RoomID]*domain.Room),
		membership: make(map[domain.ConnID]domain.RoomID),
		rng:        rng,
		now:        now,
		newID:      func() domain.RoomID { return domain.RoomID(uuid.NewString()) },
	}
}

// Create allocates a room hosted by host. The host is not a member until it joins.
func (s *RoomStore) Create(host domain.ConnID, settings domain.RoomSettings) (*domain.Room, error) {
	for range maxIDAttempts {
		id := s.newID()
		if _, taken := s.rooms[id]; taken {
			continue
		}
		room := domain.NewRoom(id, host, settings, s.now())
		s.rooms[id] = room
		return room, nil
	}
	return nil, errors.ErrRoomIDCollision
}

// Discard removes a room that never got a member.
func (s *RoomStore) Discard(id domain.RoomID) {
	if room, ok := s.rooms[id]; ok && room.IsEmpty() {
		delete(s.rooms, id)
	}
}

func (s *RoomStore) Get(id domain.RoomID) (*domain.Room, bool) {
	room, ok := s.rooms[id]
	return room, ok
}

// RoomOf returns the room conn currently belongs to.
func (s *RoomStore) RoomOf(conn domain.ConnID) (*domain.Room, bool) {
	id, ok := s.membership[conn]
	if !ok {
		return nil, false
	}
	return s.Get(id)
}

func (s *RoomStore) Len() int { return len(s.rooms) }

// PlayerCount is the number of connections currently in a room.
func (s *RoomStore) PlayerCount() int { return len(s.membership) }

// Join validates the room, the password and the capacity, in that order.
// A connection in another room leaves it only once the join is known to succeed.
func (s *RoomStore) Join(conn domain.ConnID, id domain.RoomID, password, displayName string) (JoinResult, error) {
	room, ok := s.rooms[id]
	if !ok {
		return JoinResult{}, errors.ErrRoomNotFound
	}
	if room.Has(conn) {
		p, _ := room.Player(conn)
		return JoinResult{Room: room, Player: p, Rejoined: true}, nil
	}
	if !room.CheckPassword(password) {
		return JoinResult{}, errors.ErrBadPassword
	}
	if room.IsFull() {
		return JoinResult{}, errors.ErrRoomFull
	}

	var res JoinResult
	if left, ok := s.Leave(conn); ok {
		res.Previous = &left
	}

	player := domain.NewPlayer(conn, displayName, conn == room.HostID, joinBand.pick(s.rng))
	room.AddPlayer(player)
	room.Touch(s.now())
	s.membership[conn] = id

	res.Room = room
	res.Player = player
	return res, nil
}

// Leave removes conn from its room, destroying the room when it empties.
func (s *RoomStore) Leave(conn domain.ConnID) (LeaveResult, bool) {
	room, ok := s.RoomOf(conn)
	delete(s.membership, conn)
	if !ok || !room.Has(conn) {
		return LeaveResult{}, false
	}

	res := LeaveResult{Room: room, Conn: conn}
	if next, reassigned := room.RemovePlayer(conn); reassigned {
		res.NewHost = next
	}
	if room.IsEmpty() {
		delete(s.rooms, room.ID)
		res.Destroyed = true
	}
	return res, true
}

// ToggleReady flips the ready flag of conn in its room.
func (s *RoomStore) ToggleReady(conn domain.ConnID) (*domain.Room, bool) {
	room, ok := s.RoomOf(conn)
	if !ok || !room.ToggleReady(conn) {
		return nil, false
	}
	return room, true
}

// Start lets the host of conn's room begin the match.
func (s *RoomStore) Start(conn domain.ConnID) (*domain.Room, error) {
	room, ok := s.RoomOf(conn)
	if !ok {
		return nil, errors.ErrNotInRoom
	}
	if err := room.Start(conn); err != nil {
		return room, err
	}
	room.Touch(s.now())
	return room, nil
}

// PublicLobbies lists joinable public multiplayer rooms, fullest first.
func (s *RoomStore) PublicLobbies() []domain.LobbySummary {
	public := lo.Filter(lo.Values(s.rooms), func(r *domain.Room, _ int) bool { return r.IsPublic() })
	lobbies := lo.Map(public, func(r *domain.Room, _ int) domain.LobbySummary { return r.Summary() })
	sort.SliceStable(lobbies, func(i, j int) bool {
		if lobbies[i].FillRatio() != lobbies[j].FillRatio() {
			return lobbies[i].FillRatio() > lobbies[j].FillRatio()
		}
		return lobbies[i].Name < lobbies[j].Name
	})
	return lobbies
}

// Sweep destroys rooms without members and flags rooms idle longer than staleAfter.
// It never touches players or scores.
func (s *RoomStore) Sweep(staleAfter time.Duration) SweepReport {
	var report SweepReport
	now := s.now()
	for id, room := range s.rooms {
		switch {
		case room.IsEmpty():
			delete(s.rooms, id)
			report.Removed = append(report.Removed, id)
		case staleAfter > 0 && now.Sub(room.LastActivity) > staleAfter:
			report.Stale = append(report.Stale, id)
		}
	}
	return report
}

// RespawnPoint draws a random respawn position.
func (s *RoomStore) RespawnPoint() domain.Point {
	return respawnBand.pick(s.rng)
}
