// Package gameserver wires the session protocol to the session state
// store: it registers connections, runs the per-connection read loop,
// and routes decoded messages to their recipients.
package gameserver

import (
	"sync"

	"github.com/google/uuid"
)

// Role identifies the privilege tag of a registered connection.
// Roles are self-declared via the ROLE protocol line; untagged
// connections are players.
type Role int

const (
	// RolePlayer is the default, unprivileged role.
	RolePlayer Role = iota
	// RoleDM is the privileged narrator role.
	RoleDM
)

// String returns the protocol token for the role.
func (r Role) String() string {
	if r == RoleDM {
		return "dm"
	}
	return "player"
}

// LineWriter is the outbound half of a registered connection.
// tcp.Conn satisfies it; tests substitute in-memory recorders.
type LineWriter interface {
	WriteLine(text string) error
}

// Client is one registered connection with its mutable session tags.
type Client struct {
	// ID uniquely identifies the connection for its lifetime.
	ID uuid.UUID
	// RemoteAddr is the peer address, for logging.
	RemoteAddr string

	writer LineWriter

	mu         sync.Mutex
	role       Role
	playerName string
}

// NewClient wraps a transport in a registered-connection handle.
//
// Precondition: writer must be non-nil.
func NewClient(writer LineWriter, remoteAddr string) *Client {
	return &Client{
		ID:         uuid.New(),
		RemoteAddr: remoteAddr,
		writer:     writer,
	}
}

// WriteLine sends one outbound message on the client's transport.
func (c *Client) WriteLine(text string) error {
	return c.writer.WriteLine(text)
}

// Role returns the client's current role tag.
func (c *Client) Role() Role {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

// SetRole updates the client's role tag.
func (c *Client) SetRole(role Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.role = role
}

// PlayerName returns the character name this connection last declared via
// PLAYER_DATA, or empty if it never declared one.
func (c *Client) PlayerName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerName
}

// SetPlayerName records the character name owned by this connection.
func (c *Client) SetPlayerName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerName = name
}

// Registry tracks the set of live connections. All methods are safe for
// concurrent use. Broadcast recipient lists are snapshots: a connection
// that disconnects mid-broadcast simply fails its own write.
type Registry struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

// NewRegistry creates an empty connection Registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[uuid.UUID]*Client),
	}
}

// Register adds a client to the live set.
//
// Precondition: client must be non-nil and not already registered.
func (r *Registry) Register(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[client.ID] = client
}

// Unregister removes a client from the live set.
//
// Postcondition: Returns true if the client was registered.
func (r *Registry) Unregister(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return false
	}
	delete(r.clients, id)
	return true
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Snapshot returns the clients for which keep returns true. A nil keep
// selects every client. The returned slice is a point-in-time copy; the
// registry lock is not held while callers use it.
func (r *Registry) Snapshot(keep func(*Client) bool) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		if keep == nil || keep(c) {
			out = append(out, c)
		}
	}
	return out
}
