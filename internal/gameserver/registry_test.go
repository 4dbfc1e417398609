package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterUnregister(t *testing.T) {
	registry := NewRegistry()
	assert.Equal(t, 0, registry.Count())

	a := NewClient(&recorder{}, "test:1")
	b := NewClient(&recorder{}, "test:2")
	registry.Register(a)
	registry.Register(b)
	assert.Equal(t, 2, registry.Count())

	assert.True(t, registry.Unregister(a.ID))
	assert.Equal(t, 1, registry.Count())

	// Unregistering twice is a no-op.
	assert.False(t, registry.Unregister(a.ID))
	assert.Equal(t, 1, registry.Count())
}

func TestRegistry_SnapshotFilters(t *testing.T) {
	registry := NewRegistry()
	dm := NewClient(&recorder{}, "test:1")
	dm.SetRole(RoleDM)
	p1 := NewClient(&recorder{}, "test:2")
	p2 := NewClient(&recorder{}, "test:3")
	for _, c := range []*Client{dm, p1, p2} {
		registry.Register(c)
	}

	dms := registry.Snapshot(func(c *Client) bool { return c.Role() == RoleDM })
	require.Len(t, dms, 1)
	assert.Equal(t, dm.ID, dms[0].ID)

	everyone := registry.Snapshot(func(*Client) bool { return true })
	assert.Len(t, everyone, 3)
}

func TestClient_RoleDefaultsToPlayer(t *testing.T) {
	c := NewClient(&recorder{}, "test:1")
	assert.Equal(t, RolePlayer, c.Role())
	assert.Equal(t, "player", c.Role().String())

	c.SetRole(RoleDM)
	assert.Equal(t, "dm", c.Role().String())
}

func TestClient_PlayerNameTracksOwnership(t *testing.T) {
	c := NewClient(&recorder{}, "test:1")
	assert.Empty(t, c.PlayerName())

	c.SetPlayerName("Aria")
	assert.Equal(t, "Aria", c.PlayerName())
}
