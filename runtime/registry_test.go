package runtime

import (
	"arena-lab/domain"
	"arena-lab/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionRegistry_Bind(t *testing.T) {
	req := require.New(t)
	registry := NewSessionRegistry()

	req.NoError(registry.Bind("c1", "alice"))

	// A second connection cannot take a live name
	req.ErrorIs(registry.Bind("c2", "alice"), errors.ErrAlreadyLoggedIn)
	req.ErrorIs(registry.Bind("c2", ""), errors.ErrEmptyName)

	// The same connection logging in again is idempotent
	req.NoError(registry.Bind("c1", "alice"))

	conn, ok := registry.ConnOf("alice")
	req.True(ok)
	req.Equal(domain.ConnID("c1"), conn)
	req.Equal(1, registry.Len())
}

func TestSessionRegistry_Bind_SwitchingNameReleasesPrevious(t *testing.T) {
	req := require.New(t)
	registry := NewSessionRegistry()
	req.NoError(registry.Bind("c1", "alice"))

	req.NoError(registry.Bind("c1", "alicia"))

	_, stillHeld := registry.ConnOf("alice")
	req.False(stillHeld)
	req.NoError(registry.Bind("c2", "alice"))
}

func TestSessionRegistry_Rebind(t *testing.T) {
	req := require.New(t)
	registry := NewSessionRegistry()
	req.NoError(registry.Bind("c1", "alice"))
	req.NoError(registry.Bind("c2", "bob"))

	req.ErrorIs(registry.Rebind("c1", "alice", "bob"), errors.ErrNameTaken)
	req.ErrorIs(registry.Rebind("c1", "someone", "carol"), errors.ErrSessionChanged)

	req.NoError(registry.Rebind("c1", "alice", "carol"))
	name, _ := registry.NameOf("c1")
	req.Equal("carol", name)
	_, ok := registry.ConnOf("alice")
	req.False(ok)
}

func TestSessionRegistry_UnbindAndPresence(t *testing.T) {
	req := require.New(t)
	registry := NewSessionRegistry()
	req.NoError(registry.Bind("c2", "bob"))
	req.NoError(registry.Bind("c1", "alice"))

	req.Equal([]domain.ConnID{"c1", "c2"}, registry.Presence())

	name, ok := registry.Unbind("c1")
	req.True(ok)
	req.Equal("alice", name)

	_, ok = registry.Unbind("c1")
	req.False(ok)
	req.Equal([]domain.ConnID{"c2"}, registry.Presence())
}
