// Package domain contains core concepts of the arena.
// This file defines Player entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "math"

// ConnID identifies one live network connection.
type ConnID string

const (
	MaxHealth   = 100
	MaxDamage   = 100
	MaxHitDist2 = 4_000_000
)

// Point is a planar world coordinate.
type Point struct {
	X float64
	Y float64
}

// Player is room-scoped: it is created on join and dies with the membership.
type Player struct {
	ID        ConnID   `json:"id"`
	Username  string   `json:"username"`
	IsHost    bool     `json:"isHost"`
	IsReady   bool     `json:"isReady"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Health    int      `json:"health"`
	Rotation  float64  `json:"rotation"`
	VelocityX *float64 `json:"velocityX,omitempty"`
	VelocityY *float64 `json:"velocityY,omitempty"`
}

func NewPlayer(id ConnID, username string, isHost bool, spawn Point) *Player {
	return &Player{
		ID:       id,
		Username: username,
		IsHost:   isHost,
		IsReady:  isHost,
		X:        spawn.X,
		Y:        spawn.Y,
		Health:   MaxHealth,
	}
}

// Movement carries an untrusted position update. Nil fields were absent.
type Movement struct {
	X         *float64
	Y         *float64
	Rotation  *float64
	VelocityX *float64
	VelocityY *float64
}

// Apply assigns every field that is a finite number and skips the rest.
func (p *Player) Apply(m Movement) {
	if finite(m.X) {
		p.X = *m.X
	}
	if finite(m.Y) {
		p.Y = *m.Y
	}
	if finite(m.Rotation) {
		p.Rotation = *m.Rotation
	}
	if finite(m.VelocityX) {
		v := *m.VelocityX
		p.VelocityX = &v
	}
	if finite(m.VelocityY) {
		v := *m.VelocityY
		p.VelocityY = &v
	}
}

func (p *Player) Position() Point { return Point{X: p.X, Y: p.Y} }

// DistanceSq is the squared planar distance between two players.
func (p *Player) DistanceSq(other *Player) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// TakeDamage lowers health and reports whether the player died.
// Health is not floored before the check.
func (p *Player) TakeDamage(damage int) bool {
	p.Health -= damage
	return p.Health <= 0
}

// Respawn restores full health at the given spawn point.
func (p *Player) Respawn(at Point) {
	p.Health = MaxHealth
	p.X = at.X
	p.Y = at.Y
}

// Snapshot returns a copy safe to hand to outbound encoders.
func (p *Player) Snapshot() Player {
	cp := *p
	if p.VelocityX != nil {
		v := *p.VelocityX
		cp.VelocityX = &v
	}
	if p.VelocityY != nil {
		v := *p.VelocityY
		cp.VelocityY = &v
	}
	return cp
}

func finite(f *float64) bool {
	return f != nil && !math.IsNaN(*f) && !math.IsInf(*f, 0)
}
