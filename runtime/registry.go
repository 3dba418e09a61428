package runtime

import (
	"arena-lab/domain"
	"arena-lab/errors"
	"sort"

	"github.com/samber/lo"
)

// SessionRegistry binds connections to logged-in names and back.
// At most one connection is bound to a name at any instant.
// Every bound connection is part of the global presence channel.
// It is owned by the dispatch loop and is not safe for concurrent use.
type SessionRegistry struct {
	names map[domain.ConnID]string // connection -> name
	conns map[string]domain.ConnID // name -> connection
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		names: make(map[domain.ConnID]string),
		conns: make(map[string]domain.ConnID),
	}
}

// Bind logs conn in as name. A name held by another connection is refused.
// A connection already bound to a different name releases it first.
func (r *SessionRegistry) Bind(conn domain.ConnID, name string) error {
	if name == "" {
		return errors.ErrEmptyName
	}
	if holder, ok := r.conns[name]; ok && holder != conn {
		return errors.ErrAlreadyLoggedIn
	}
	if previous, ok := r.names[conn]; ok && previous != name {
		delete(r.conns, previous)
	}
	r.names[conn] = name
	r.conns[name] = conn
	return nil
}

// Rebind renames the session of conn, provided it is still bound to oldName.
func (r *SessionRegistry) Rebind(conn domain.ConnID, oldName, newName string) error {
	if current, ok := r.names[conn]; !ok || current != oldName {
		return errors.ErrSessionChanged
	}
	if holder, ok := r.conns[newName]; ok && holder != conn {
		return errors.ErrNameTaken
	}
	delete(r.conns, oldName)
	r.names[conn] = newName
	r.conns[newName] = conn
	return nil
}

// Unbind removes the session of conn and returns the released name.
func (r *SessionRegistry) Unbind(conn domain.ConnID) (string, bool) {
	name, ok := r.names[conn]
	if !ok {
		return "", false
	}
	delete(r.names, conn)
	if r.conns[name] == conn {
		delete(r.conns, name)
	}
	return name, true
}

func (r *SessionRegistry) NameOf(conn domain.ConnID) (string, bool) {
	name, ok := r.names[conn]
	return name, ok
}

// ConnOf is the O(1) presence lookup.
func (r *SessionRegistry) ConnOf(name string) (domain.ConnID, bool) {
	conn, ok := r.conns[name]
	return conn, ok
}

// Presence lists the connections of the global presence channel, sorted for stable fan-out.
func (r *SessionRegistry) Presence() []domain.ConnID {
	conns := lo.Keys(r.names)
	sort.Slice(conns, func(i, j int) bool { return conns[i] < conns[j] })
	return conns
}

func (r *SessionRegistry) Len() int { return len(r.names) }
