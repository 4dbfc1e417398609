// Package protocol implements the line-oriented text protocol spoken
// between campaign clients and the session server. Each message is one
// UTF-8 line; Decode maps a line to a tagged Message variant and Encode
// maps a variant back to exactly one line.
package protocol

import "github.com/dungeonsync/campaignd/internal/game/session"

// Role tokens accepted by the ROLE declaration line.
const (
	RoleDM     = "dm"
	RolePlayer = "player"
)

// Message is one decoded protocol message. Exactly one concrete variant
// exists per recognized command shape; PlainChat is the fallback for
// everything else.
type Message interface {
	message()
}

// PlainChat is free-form chat text attributed to the sending connection.
// It is also the downgrade target for any malformed command line.
type PlainChat struct {
	Text string
}

// Narration is DM narration chat, carried as "DM: <text>".
type Narration struct {
	Text string
}

// InitiativeRoll is a chat line announcing a combat initiative roll,
// matching "<name> rolled a <N> for initiative.".
type InitiativeRoll struct {
	Name string
	Roll int
}

// PlayerData carries a full character sheet (PLAYER_DATA).
type PlayerData struct {
	Record session.PlayerRecord
}

// EnemyData carries a DM-authored enemy announcement (ENEMY_DATA).
type EnemyData struct {
	Record session.EnemyRecord
}

// LocationData carries a DM-authored location announcement (LOCATION_DATA).
type LocationData struct {
	Record session.LocationRecord
}

// StatEdit is a DM stat-edit command (/edit_<stat> player value).
// Stat is the lowercased token as sent; validity is checked at apply time.
type StatEdit struct {
	Player string
	Stat   string
	Value  int
}

// RoleDeclaration tags the sending connection as DM or player (ROLE <role>).
type RoleDeclaration struct {
	Role string
}

func (PlainChat) message()       {}
func (Narration) message()       {}
func (InitiativeRoll) message()  {}
func (PlayerData) message()      {}
func (EnemyData) message()       {}
func (LocationData) message()    {}
func (StatEdit) message()        {}
func (RoleDeclaration) message() {}
