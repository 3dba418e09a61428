package runtime

import (
	"arena-lab/domain"
	"arena-lab/domain/event"
	"arena-lab/errors"
	"arena-lab/moderation"
	"arena-lab/repositories"
	"arena-lab/services"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

const profileUpdated = "Updated and Saved Successfully"

// Deferrer runs a profile store call away from the dispatch loop. The command
// it returns, if any, must be fed back to the loop.
type Deferrer func(task func() domain.Command)

// Router is the event router: it owns all arena state and applies one command
// at a time. It must only be called from the dispatch loop.
type Router struct {
	log        *slog.Logger
	sessions   *SessionRegistry
	rooms      *RoomStore
	limiter    *RateLimiter
	combat     *Adjudicator
	outbox     *Outbox
	profiles   repositories.IProfileRepository
	tokens     services.ISessionService
	moderator  *moderation.Moderator
	async      Deferrer
	staleAfter time.Duration
}

func NewRouter(
	log *slog.Logger,
	outbox *Outbox,
	profiles repositories.IProfileRepository,
	tokens services.ISessionService,
	async Deferrer,
	rng *rand.Rand,
	now func() time.Time,
	staleAfter time.Duration,
) *Router {
	limiter := NewRateLimiter(now)
	rooms := NewRoomStore(rng, now)
	return &Router{
		log:        log,
		sessions:   NewSessionRegistry(),
		rooms:      rooms,
		limiter:    limiter,
		combat:     NewAdjudicator(log, limiter, rooms.RespawnPoint, now),
		outbox:     outbox,
		profiles:   profiles,
		tokens:     tokens,
		async:      async,
		staleAfter: staleAfter,
	}
}

// WithModerator enables censoring of room and display names.
func (r *Router) WithModerator(m *moderation.Moderator) *Router {
	r.moderator = m
	return r
}

func (r *Router) Stats() domain.ArenaStats {
	return domain.ArenaStats{
		Rooms:       r.rooms.Len(),
		Players:     r.rooms.PlayerCount(),
		Sessions:    r.sessions.Len(),
		Connections: r.outbox.Len(),
	}
}

func (r *Router) Handle(ctx context.Context, cmd domain.Command) {
	switch c := cmd.(type) {
	case domain.LoginCommand:
		r.login(ctx, c)
	case domain.LoginResolved:
		r.loginResolved(ctx, c)
	case domain.UpdateProfileCommand:
		r.updateProfile(ctx, c)
	case domain.ProfileUpdated:
		r.profileUpdated(ctx, c)
	case domain.AddFriendCommand:
		r.addFriend(c)
	case domain.FriendRequested:
		r.friendRequested(ctx, c)
	case domain.AcceptFriendCommand:
		r.acceptFriend(c)
	case domain.FriendAccepted:
		r.friendAccepted(ctx, c)
	case domain.SendInviteCommand:
		r.sendInvite(ctx, c)
	case domain.CreateRoomCommand:
		r.createRoom(ctx, c)
	case domain.JoinRoomCommand:
		r.joinRoom(ctx, c.Conn, c.RoomID, c.Password, c.Username)
	case domain.StartGameCommand:
		r.startGame(ctx, c.Conn)
	case domain.PlayerUpdateCommand:
		r.playerUpdate(ctx, c)
	case domain.ShootCommand:
		r.shoot(ctx, c)
	case domain.PlayerHitCommand:
		r.hit(ctx, c)
	case domain.ToggleReadyCommand:
		r.toggleReady(ctx, c.Conn)
	case domain.LeaveRoomCommand:
		r.leaveRoom(ctx, c.Conn)
	case domain.GetLobbiesCommand:
		r.outbox.Send(ctx, c.Conn, event.Event{Name: event.LobbiesList, Payload: r.rooms.PublicLobbies()})
	case domain.DisconnectCommand:
		r.disconnect(ctx, c.Conn)
	case domain.SweepCommand:
		r.sweep()
	default:
		r.log.Warn("Unknown command dropped", "type", fmt.Sprintf("%T", cmd))
	}
}

// fail reports err to the caller when it has a user-facing message, and only logs it otherwise.
func (r *Router) fail(ctx context.Context, conn domain.ConnID, err error) {
	if msg, ok := errors.UserMessage(err); ok {
		r.outbox.Send(ctx, conn, event.Error(msg))
		return
	}
	r.log.Debug("Command dropped", "conn", conn, "reason", err)
}

// notify sends evt to the connection logged in as name, if any.
func (r *Router) notify(ctx context.Context, name string, evt event.Event) {
	if conn, ok := r.sessions.ConnOf(name); ok {
		r.outbox.Send(ctx, conn, evt)
	}
}

func (r *Router) presence(ctx context.Context, name string, online bool, skip domain.ConnID) {
	evt := event.Event{Name: event.PresenceUpdate, Payload: event.Presence{Username: name, Online: online}}
	r.outbox.Broadcast(ctx, r.sessions.Presence(), evt, skip)
}

func (r *Router) clean(name string) string {
	if r.moderator == nil {
		return name
	}
	censored, _ := r.moderator.Censor(name)
	return censored
}

// Sessions

func (r *Router) login(ctx context.Context, c domain.LoginCommand) {
	if c.Name == "" {
		return
	}
	previous, hadName := r.sessions.NameOf(c.Conn)
	if err := r.sessions.Bind(c.Conn, c.Name); err != nil {
		r.fail(ctx, c.Conn, err)
		return
	}
	if hadName && previous != c.Name {
		r.presence(ctx, previous, false, c.Conn)
	}
	conn, name := c.Conn, c.Name
	r.async(func() domain.Command {
		p, err := r.profiles.CreateProfile(name)
		return domain.LoginResolved{From: domain.From{Conn: conn}, Name: name, Profile: p, Err: err}
	})
}

func (r *Router) loginResolved(ctx context.Context, c domain.LoginResolved) {
	if current, ok := r.sessions.NameOf(c.Conn); !ok || current != c.Name {
		r.log.Debug("Login outcome discarded, session changed", "conn", c.Conn, "username", c.Name)
		return
	}
	if c.Err != nil {
		r.log.Error("Profile creation failed", "username", c.Name, "error", c.Err)
		r.sessions.Unbind(c.Conn)
		r.fail(ctx, c.Conn, errors.ErrLoginFailed)
		return
	}

	r.outbox.Send(ctx, c.Conn, event.Event{Name: event.UserData, Payload: c.Profile})
	if r.tokens != nil {
		token, err := r.tokens.Issue(c.Name)
		if err != nil {
			r.log.Error("Session token not issued", "username", c.Name, "error", err)
		} else {
			r.outbox.Send(ctx, c.Conn, event.Event{Name: event.SessionToken, Payload: event.Token{Token: token.String()}})
		}
	}
	r.presence(ctx, c.Name, true, c.Conn)
	r.log.Info("User logged in", "conn", c.Conn, "username", c.Name)
}

func (r *Router) updateProfile(ctx context.Context, c domain.UpdateProfileCommand) {
	oldName, ok := r.sessions.NameOf(c.Conn)
	if !ok {
		return
	}
	newName := c.Username
	if newName == "" {
		newName = oldName
	}
	if holder, taken := r.sessions.ConnOf(newName); taken && holder != c.Conn {
		r.sendResult(ctx, c.Conn, event.ProfileUpdateResult, false, errors.ErrNameTaken)
		return
	}
	conn := c.Conn
	r.async(func() domain.Command {
		_, err := r.profiles.UpdateProfile(oldName, newName, c.Color, c.Customization)
		return domain.ProfileUpdated{From: domain.From{Conn: conn}, OldName: oldName, NewName: newName, Err: err}
	})
}

func (r *Router) profileUpdated(ctx context.Context, c domain.ProfileUpdated) {
	if c.Err != nil {
		r.sendResult(ctx, c.Conn, event.ProfileUpdateResult, false, c.Err)
		return
	}
	if err := r.sessions.Rebind(c.Conn, c.OldName, c.NewName); err != nil {
		r.log.Warn("Profile saved but session not renamed", "conn", c.Conn, "old", c.OldName, "new", c.NewName, "error", err)
		if !errors.Is(err, errors.ErrSessionChanged) {
			r.sendResult(ctx, c.Conn, event.ProfileUpdateResult, false, err)
		}
		return
	}
	r.outbox.Send(ctx, c.Conn, event.Event{
		Name:    event.ProfileUpdateResult,
		Payload: event.Result{Success: true, Msg: profileUpdated},
	})
	if c.OldName != c.NewName {
		r.presence(ctx, c.OldName, false, c.Conn)
		r.presence(ctx, c.NewName, true, c.Conn)
	}
}

func (r *Router) sendResult(ctx context.Context, conn domain.ConnID, name event.Name, success bool, err error) {
	msg, ok := errors.UserMessage(err)
	if !ok {
		msg = err.Error()
	}
	r.outbox.Send(ctx, conn, event.Event{Name: name, Payload: event.Result{Success: success, Msg: msg}})
}

// Friends

func (r *Router) addFriend(c domain.AddFriendCommand) {
	me, ok := r.sessions.NameOf(c.Conn)
	if !ok || c.Target == "" || c.Target == me {
		return
	}
	conn, target := c.Conn, c.Target
	r.async(func() domain.Command {
		err := r.profiles.AddFriendRequest(me, target)
		return domain.FriendRequested{From: domain.From{Conn: conn}, Name: me, Target: target, Err: err}
	})
}

func (r *Router) friendRequested(ctx context.Context, c domain.FriendRequested) {
	if c.Err != nil {
		r.sendResult(ctx, c.Conn, event.FriendResult, false, c.Err)
		return
	}
	r.outbox.Send(ctx, c.Conn, event.Event{
		Name:    event.FriendResult,
		Payload: event.Result{Success: true, Msg: fmt.Sprintf("Request sent to %s", c.Target)},
	})
	r.notify(ctx, c.Target, event.Event{Name: event.FriendRequest, Payload: event.FromUser{From: c.Name}})
}

func (r *Router) acceptFriend(c domain.AcceptFriendCommand) {
	me, ok := r.sessions.NameOf(c.Conn)
	if !ok || c.Requester == "" {
		return
	}
	conn, requester := c.Conn, c.Requester
	r.async(func() domain.Command {
		mine, theirs, err := r.profiles.AcceptFriendRequest(me, requester)
		return domain.FriendAccepted{
			From: domain.From{Conn: conn}, Name: me, Requester: requester,
			Mine: mine, Theirs: theirs, Err: err,
		}
	})
}

func (r *Router) friendAccepted(ctx context.Context, c domain.FriendAccepted) {
	if c.Err != nil {
		r.log.Debug("Friend request not accepted", "username", c.Name, "requester", c.Requester, "error", c.Err)
		return
	}
	r.outbox.Send(ctx, c.Conn, event.Event{Name: event.UserData, Payload: c.Mine})
	r.notify(ctx, c.Requester, event.Event{Name: event.UserData, Payload: c.Theirs})
	r.notify(ctx, c.Requester, event.Event{Name: event.FriendAccepted, Payload: event.FromUser{From: c.Name}})
}

func (r *Router) sendInvite(ctx context.Context, c domain.SendInviteCommand) {
	room, ok := r.rooms.RoomOf(c.Conn)
	if !ok || c.Target == "" {
		r.fail(ctx, c.Conn, errors.ErrInviteOutsideRoom)
		return
	}
	from, ok := r.sessions.NameOf(c.Conn)
	if !ok {
		p, _ := room.Player(c.Conn)
		from = p.Username
	}
	r.notify(ctx, c.Target, event.Event{Name: event.Invitation, Payload: event.Invite{From: from, Room: room.ID}})
}

// Rooms

func (r *Router) createRoom(ctx context.Context, c domain.CreateRoomCommand) {
	settings := c.Settings
	settings.Name = r.clean(settings.Name)
	room, err := r.rooms.Create(c.Conn, settings)
	if err != nil {
		r.fail(ctx, c.Conn, err)
		return
	}
	r.log.Info("Room created", "room", room.ID, "name", room.Name, "host", c.Conn, "mode", room.GameMode)

	if !r.joinRoom(ctx, c.Conn, room.ID, settings.Password, c.Username) {
		r.rooms.Discard(room.ID)
		return
	}
	if c.AutoStart {
		r.startGame(ctx, c.Conn)
	}
}

func (r *Router) displayName(conn domain.ConnID, requested string) string {
	if requested != "" {
		return r.clean(requested)
	}
	if name, ok := r.sessions.NameOf(conn); ok {
		return name
	}
	short := string(conn)
	if len(short) > 4 {
		short = short[:4]
	}
	return "Player " + short
}

func (r *Router) joinRoom(ctx context.Context, conn domain.ConnID, id domain.RoomID, password, username string) bool {
	res, err := r.rooms.Join(conn, id, password, r.displayName(conn, username))
	if err != nil {
		r.fail(ctx, conn, err)
		return false
	}
	if res.Previous != nil {
		r.announceLeave(ctx, *res.Previous)
	}

	room := res.Room
	r.outbox.Send(ctx, conn, event.Event{Name: event.RoomJoined, Payload: event.NewRoomSnapshot(room)})
	if !res.Rejoined {
		r.outbox.ToOthers(ctx, room, conn, event.Event{Name: event.PlayerJoined, Payload: res.Player.Snapshot()})
	}
	if room.State == domain.Playing {
		r.outbox.Send(ctx, conn, event.Event{Name: event.GameStarted, Payload: event.NewGameStart(room, true)})
	} else if !res.Rejoined {
		r.outbox.ToRoom(ctx, room, event.Event{Name: event.LobbyUpdate, Payload: room.Roster()})
	}
	return true
}

func (r *Router) announceLeave(ctx context.Context, res LeaveResult) {
	if res.Destroyed {
		r.log.Info("Room destroyed", "room", res.Room.ID)
		return
	}
	r.outbox.ToRoom(ctx, res.Room, event.Event{Name: event.PlayerLeft, Payload: res.Conn})
	if res.NewHost != "" {
		r.log.Info("Host reassigned", "room", res.Room.ID, "host", res.NewHost)
	}
	r.outbox.ToRoom(ctx, res.Room, event.Event{Name: event.LobbyUpdate, Payload: res.Room.Roster()})
}

func (r *Router) leaveRoom(ctx context.Context, conn domain.ConnID) {
	if res, ok := r.rooms.Leave(conn); ok {
		r.announceLeave(ctx, res)
	}
}

func (r *Router) toggleReady(ctx context.Context, conn domain.ConnID) {
	if room, ok := r.rooms.ToggleReady(conn); ok {
		r.outbox.ToRoom(ctx, room, event.Event{Name: event.LobbyUpdate, Payload: room.Roster()})
	}
}

func (r *Router) startGame(ctx context.Context, conn domain.ConnID) {
	room, err := r.rooms.Start(conn)
	switch {
	case err == nil:
		r.log.Info("Game started", "room", room.ID, "players", room.Size())
		r.outbox.ToRoom(ctx, room, event.Event{Name: event.GameStarted, Payload: event.NewGameStart(room, false)})
	case errors.Is(err, errors.ErrNotAllReady):
		r.fail(ctx, conn, err)
	default:
		r.log.Debug("Start game ignored", "conn", conn, "reason", err)
	}
}

// Combat

func (r *Router) playerUpdate(ctx context.Context, c domain.PlayerUpdateCommand) {
	room, ok := r.rooms.RoomOf(c.Conn)
	if !ok {
		return
	}
	p, err := r.combat.Move(room, c.Conn, c.Movement)
	if err != nil {
		return
	}
	r.outbox.ToOthers(ctx, room, c.Conn, event.Event{Name: event.PlayerMoved, Payload: event.NewMoved(p)})
}

func (r *Router) shoot(ctx context.Context, c domain.ShootCommand) {
	room, ok := r.rooms.RoomOf(c.Conn)
	if !ok {
		return
	}
	if err := r.combat.Shoot(room, c.Conn); err != nil {
		r.log.Debug("Shot dropped", "conn", c.Conn, "reason", err)
		return
	}
	r.outbox.ToOthers(ctx, room, c.Conn, event.Event{Name: event.PlayerShoot, Payload: event.NewShot(c.Conn, c.Payload)})
}

func (r *Router) hit(ctx context.Context, c domain.PlayerHitCommand) {
	room, ok := r.rooms.RoomOf(c.Conn)
	if !ok {
		return
	}
	out, err := r.combat.Hit(room, c.Conn, c.Target, c.Damage)
	if err != nil {
		r.log.Debug("Hit dropped", "conn", c.Conn, "target", c.Target, "reason", err)
		return
	}

	r.outbox.ToRoom(ctx, room, event.Event{
		Name:    event.PlayerHealthUpdate,
		Payload: event.Health{ID: c.Target, Health: out.Target.Health},
	})
	if !out.Killed {
		return
	}
	r.combat.Respawn(out)
	r.outbox.ToRoom(ctx, room, event.Event{
		Name:    event.PlayerRespawn,
		Payload: event.Respawn{ID: c.Target, X: out.Spawn.X, Y: out.Spawn.Y},
	})
	r.outbox.ToRoom(ctx, room, event.Event{Name: event.ScoreUpdate, Payload: room.ScoreBoard()})
	r.recordKill(c.Conn, c.Target)
}

// recordKill persists lifetime stats for logged-in players, fire and forget.
func (r *Router) recordKill(shooter, target domain.ConnID) {
	record := func(conn domain.ConnID, kills, deaths int) {
		name, ok := r.sessions.NameOf(conn)
		if !ok {
			return
		}
		r.async(func() domain.Command {
			if err := r.profiles.RecordMatch(name, kills, deaths); err != nil {
				r.log.Warn("Stats not recorded", "username", name, "error", err)
			}
			return nil
		})
	}
	record(shooter, 1, 0)
	record(target, 0, 1)
}

// Lifecycle

func (r *Router) disconnect(ctx context.Context, conn domain.ConnID) {
	name, loggedIn := r.sessions.Unbind(conn)
	r.limiter.Forget(conn)
	r.leaveRoom(ctx, conn)
	r.outbox.Detach(conn)
	if loggedIn {
		r.presence(ctx, name, false, conn)
	}
	r.log.Debug("Connection closed", "conn", conn, "username", name)
}

func (r *Router) sweep() {
	report := r.rooms.Sweep(r.staleAfter)
	if len(report.Removed) > 0 {
		r.log.Info("Empty rooms reclaimed", "count", len(report.Removed), "rooms", report.Removed)
	}
	if len(report.Stale) > 0 {
		r.log.Info("Stale rooms left running", "count", len(report.Stale), "rooms", report.Stale)
	}
}
