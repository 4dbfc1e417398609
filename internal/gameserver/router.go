package gameserver

import (
	"go.uber.org/zap"

	"github.com/dungeonsync/campaignd/internal/game/session"
	"github.com/dungeonsync/campaignd/internal/protocol"
)

// Router decides, for each inbound message and its originating
// connection, which connections receive which derived line.
//
// Delivery is per-sender FIFO: a handler calls Route synchronously from
// its read loop, so messages from one connection reach every recipient
// in production order. No global order across connections exists.
type Router struct {
	store    *session.Store
	registry *Registry
	logger   *zap.Logger
}

// NewRouter creates a Router over the given store and registry.
//
// Precondition: store, registry, and logger must be non-nil.
func NewRouter(store *session.Store, registry *Registry, logger *zap.Logger) *Router {
	return &Router{
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

// Route applies msg to the session state where required and broadcasts
// the derived lines. Route never fails: rejected commands are logged and
// produce no broadcast, and a failed send to one recipient never aborts
// delivery to the rest.
//
// Precondition: sender must be a registered client.
func (r *Router) Route(sender *Client, msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.PlainChat:
		r.logger.Debug("chat",
			zap.String("conn_id", sender.ID.String()),
			zap.Int("len", len(m.Text)),
		)
		r.send(protocol.Encode(m), r.others(sender))

	case protocol.Narration:
		r.logger.Debug("dm narration",
			zap.String("conn_id", sender.ID.String()),
		)
		r.send(protocol.Encode(m), r.others(sender))

	case protocol.InitiativeRoll:
		// Ordinary chat for delivery purposes, but the roll is recorded.
		r.store.RecordInitiative(m.Name, m.Roll)
		r.logger.Info("initiative recorded",
			zap.String("name", m.Name),
			zap.Int("roll", m.Roll),
		)
		r.send(protocol.Encode(m), r.others(sender))

	case protocol.PlayerData:
		r.store.UpsertPlayer(m.Record, sender.ID.String())
		sender.SetPlayerName(m.Record.Name)
		r.logger.Info("character sheet saved",
			zap.String("conn_id", sender.ID.String()),
			zap.String("player", m.Record.Name),
			zap.Int("level", m.Record.Level),
		)
		r.send(protocol.Encode(m), r.dmObservers(sender))

	case protocol.StatEdit:
		if err := r.store.ApplyEdit(m.Player, m.Stat, m.Value); err != nil {
			// Silent failure on the wire: nothing is broadcast, not even
			// to the editor.
			r.logger.Warn("stat edit rejected",
				zap.String("conn_id", sender.ID.String()),
				zap.String("player", m.Player),
				zap.String("stat", m.Stat),
				zap.Error(err),
			)
			return
		}
		r.logger.Info("stat edit applied",
			zap.String("player", m.Player),
			zap.String("stat", m.Stat),
			zap.Int("value", m.Value),
		)
		// The editor hears the confirmation too.
		r.send(protocol.EditConfirmation(m.Player, m.Stat, m.Value), r.all())

	case protocol.EnemyData:
		r.store.AddEnemy(m.Record)
		r.logger.Info("enemy announced",
			zap.String("name", m.Record.Name),
			zap.String("type", m.Record.Type),
		)
		r.send(protocol.Encode(m), r.playerObservers(sender))

	case protocol.LocationData:
		r.store.AddLocation(m.Record)
		r.logger.Info("location announced",
			zap.String("name", m.Record.Name),
			zap.String("type", m.Record.Type),
		)
		r.send(protocol.Encode(m), r.playerObservers(sender))

	case protocol.RoleDeclaration:
		role := RolePlayer
		if m.Role == protocol.RoleDM {
			role = RoleDM
		}
		sender.SetRole(role)
		r.logger.Info("role declared",
			zap.String("conn_id", sender.ID.String()),
			zap.String("role", role.String()),
		)
	}
}

// others selects every registered client except the sender.
func (r *Router) others(sender *Client) []*Client {
	return r.registry.Snapshot(func(c *Client) bool {
		return c.ID != sender.ID
	})
}

// dmObservers selects DM-role clients other than the sender.
func (r *Router) dmObservers(sender *Client) []*Client {
	return r.registry.Snapshot(func(c *Client) bool {
		return c.ID != sender.ID && c.Role() == RoleDM
	})
}

// playerObservers selects player-role clients other than the sender.
func (r *Router) playerObservers(sender *Client) []*Client {
	return r.registry.Snapshot(func(c *Client) bool {
		return c.ID != sender.ID && c.Role() == RolePlayer
	})
}

// all selects every registered client, sender included.
func (r *Router) all() []*Client {
	return r.registry.Snapshot(nil)
}

// send writes line to each recipient. Write failures are logged and do
// not stop delivery to the remaining recipients.
func (r *Router) send(line string, recipients []*Client) {
	for _, c := range recipients {
		if err := c.WriteLine(line); err != nil {
			r.logger.Warn("dropping undeliverable message",
				zap.String("conn_id", c.ID.String()),
				zap.String("remote_addr", c.RemoteAddr),
				zap.Error(err),
			)
		}
	}
}
