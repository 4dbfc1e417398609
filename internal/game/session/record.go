// Package session holds the authoritative shared state for one campaign
// session: player character sheets, DM-authored world objects, and the
// running initiative order.
package session

import "strings"

// AbilityNames lists the six ability score names in protocol order.
var AbilityNames = [6]string{"STR", "DEX", "CON", "INT", "WIS", "CHA"}

// AbilityScores holds the six D&D ability scores. Field order matches the
// wire order used by the session protocol.
type AbilityScores struct {
	STR int
	DEX int
	CON int
	INT int
	WIS int
	CHA int
}

// DefaultAbilities returns the standard starting array of all 10s.
func DefaultAbilities() AbilityScores {
	return AbilityScores{STR: 10, DEX: 10, CON: 10, INT: 10, WIS: 10, CHA: 10}
}

// Values returns the scores in protocol order (STR DEX CON INT WIS CHA).
func (a AbilityScores) Values() [6]int {
	return [6]int{a.STR, a.DEX, a.CON, a.INT, a.WIS, a.CHA}
}

// Get returns the score for the given ability name (case-insensitive).
//
// Postcondition: Returns (score, true) if name is a known ability, or (0, false).
func (a AbilityScores) Get(name string) (int, bool) {
	switch strings.ToUpper(name) {
	case "STR":
		return a.STR, true
	case "DEX":
		return a.DEX, true
	case "CON":
		return a.CON, true
	case "INT":
		return a.INT, true
	case "WIS":
		return a.WIS, true
	case "CHA":
		return a.CHA, true
	}
	return 0, false
}

// Set assigns the score for the given ability name (case-insensitive).
//
// Postcondition: Returns true if name is a known ability and the score was set.
func (a *AbilityScores) Set(name string, value int) bool {
	switch strings.ToUpper(name) {
	case "STR":
		a.STR = value
	case "DEX":
		a.DEX = value
	case "CON":
		a.CON = value
	case "INT":
		a.INT = value
	case "WIS":
		a.WIS = value
	case "CHA":
		a.CHA = value
	default:
		return false
	}
	return true
}

// PlayerRecord is the authoritative server-side representation of one
// player's character sheet.
//
// Invariant: at most one PlayerRecord exists per Name within a Store.
type PlayerRecord struct {
	Name      string
	Race      string
	Class     string
	Level     int
	HP        int
	MP        int
	Abilities AbilityScores
	Skills    []string
}

// EnemyRecord is a DM-authored enemy announcement. Immutable once created.
type EnemyRecord struct {
	Name        string
	Type        string
	Level       int
	HP          int
	AC          int
	Description string
}

// LocationRecord is a DM-authored location announcement. Immutable once created.
type LocationRecord struct {
	Name        string
	Type        string
	Description string
}

// InitiativeEntry is one rolled initiative value in the running combat order.
type InitiativeEntry struct {
	Name string
	Roll int
}
