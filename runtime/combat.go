package runtime

import (
	"arena-lab/domain"
	"arena-lab/errors"
	"log/slog"
	"math"
	"time"
)

// HitOutcome is the state change produced by an accepted hit.
type HitOutcome struct {
	Target *domain.Player
	Damage int
	Killed bool
	Spawn  domain.Point
}

// Adjudicator validates combat events against room state before they mutate it.
type Adjudicator struct {
	log     *slog.Logger
	limiter *RateLimiter
	respawn func() domain.Point
	now     func() time.Time
}

func NewAdjudicator(log *slog.Logger, limiter *RateLimiter, respawn func() domain.Point, now func() time.Time) *Adjudicator {
	if now == nil {
		now = time.Now
	}
	return &Adjudicator{log: log, limiter: limiter, respawn: respawn, now: now}
}

// Move applies the finite fields of m to the mover.
func (a *Adjudicator) Move(room *domain.Room, conn domain.ConnID, m domain.Movement) (*domain.Player, error) {
	p, ok := room.Player(conn)
	if !ok {
		return nil, errors.ErrNotInRoom
	}
	p.Apply(m)
	room.Touch(a.now())
	return p, nil
}

// Shoot only gates the relay; shots never change authoritative state.
func (a *Adjudicator) Shoot(room *domain.Room, conn domain.ConnID) error {
	if !a.limiter.Allow(conn, "shoot", ShootInterval) {
		return errors.ErrRateLimited
	}
	if !room.Has(conn) {
		return errors.ErrNotInRoom
	}
	room.Touch(a.now())
	return nil
}

// Hit checks membership, rate, distance and damage, in that order, then applies damage.
// A lethal hit respawns the target and credits scores that exist.
func (a *Adjudicator) Hit(room *domain.Room, shooterID, targetID domain.ConnID, requested float64) (HitOutcome, error) {
	shooter, ok := room.Player(shooterID)
	if !ok {
		return HitOutcome{}, errors.ErrNotInRoom
	}
	target, ok := room.Player(targetID)
	if !ok {
		return HitOutcome{}, errors.ErrNotInRoom
	}
	if !a.limiter.Allow(shooterID, "hit", HitInterval) {
		return HitOutcome{}, errors.ErrRateLimited
	}
	if distSq := shooter.DistanceSq(target); distSq > domain.MaxHitDist2 {
		a.log.Warn("Suspicious hit dropped",
			"room", room.ID, "shooter", shooterID, "target", targetID, "distance", math.Sqrt(distSq))
		return HitOutcome{}, errors.ErrHitOutOfRange
	}
	if shooterID == targetID {
		return HitOutcome{}, errors.ErrSelfHit
	}
	damage := clampDamage(requested)
	if damage <= 0 {
		return HitOutcome{}, errors.ErrInvalidDamage
	}

	out := HitOutcome{Target: target, Damage: damage}
	room.Touch(a.now())
	if target.TakeDamage(damage) {
		out.Killed = true
		out.Spawn = a.respawn()
		room.RecordKill(shooterID, targetID)
	}
	return out, nil
}

// Respawn restores a killed target; it runs after the health broadcast.
func (a *Adjudicator) Respawn(out HitOutcome) {
	if out.Killed {
		out.Target.Respawn(out.Spawn)
	}
}

func clampDamage(requested float64) int {
	if math.IsNaN(requested) || math.IsInf(requested, 0) {
		return 0
	}
	return int(math.Round(math.Min(requested, domain.MaxDamage)))
}
