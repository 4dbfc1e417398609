package gameserver

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/dungeonsync/campaignd/internal/frontend/tcp"
	"github.com/dungeonsync/campaignd/internal/game/session"
	"github.com/dungeonsync/campaignd/internal/protocol"
)

// Handler owns the read loop for one client connection. It satisfies
// tcp.SessionHandler; the acceptor runs one HandleSession per connection
// in its own goroutine.
type Handler struct {
	store    *session.Store
	registry *Registry
	router   *Router
	logger   *zap.Logger
}

// NewHandler creates a session Handler over the given collaborators.
//
// Precondition: all arguments must be non-nil.
func NewHandler(store *session.Store, registry *Registry, router *Router, logger *zap.Logger) *Handler {
	return &Handler{
		store:    store,
		registry: registry,
		router:   router,
		logger:   logger,
	}
}

// HandleSession registers the connection and runs its blocking read loop
// until the peer closes, the transport fails, or ctx is cancelled. A
// transport failure terminates only this session; the connection is
// unregistered and its owned PlayerRecord is destroyed. Connections are
// not resumable: a reconnect must re-submit PLAYER_DATA.
//
// Postcondition: The connection is no longer registered when this
// method returns.
func (h *Handler) HandleSession(ctx context.Context, conn *tcp.Conn) error {
	client := NewClient(conn, conn.RemoteAddr().String())
	h.registry.Register(client)
	defer h.teardown(client)

	h.logger.Info("session registered",
		zap.String("conn_id", client.ID.String()),
		zap.String("remote_addr", client.RemoteAddr),
		zap.Int("connections", h.registry.Count()),
	)

	// Unblock the pending ReadLine on shutdown.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		line, err := conn.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if line == "" {
			continue
		}
		h.router.Route(client, protocol.Decode(line))
	}
}

// teardown removes the connection's registration and destroys the
// PlayerRecord it owned, if any.
func (h *Handler) teardown(client *Client) {
	h.registry.Unregister(client.ID)

	if name := client.PlayerName(); name != "" {
		if h.store.RemovePlayer(name, client.ID.String()) {
			h.logger.Info("player record destroyed",
				zap.String("conn_id", client.ID.String()),
				zap.String("player", name),
			)
		}
	}

	h.logger.Info("session unregistered",
		zap.String("conn_id", client.ID.String()),
		zap.Int("connections", h.registry.Count()),
	)
}
