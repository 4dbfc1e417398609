package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store errors returned by ApplyEdit.
var (
	// ErrUnknownPlayer indicates an edit targeting a player with no record.
	ErrUnknownPlayer = errors.New("session: unknown player")
	// ErrUnknownStat indicates an edit naming a stat outside hp, mp, and
	// the six ability scores.
	ErrUnknownStat = errors.New("session: unknown stat")
)

// Store is the authoritative, mutation-serialized session state.
// All methods are safe for concurrent use. The Store performs no I/O;
// logging of applied and rejected mutations is the caller's concern.
type Store struct {
	mu         sync.Mutex
	players    map[string]PlayerRecord
	owners     map[string]string // player name -> owning connection ID
	enemies    []EnemyRecord
	locations  []LocationRecord
	initiative []InitiativeEntry
}

// NewStore creates an empty session Store.
func NewStore() *Store {
	return &Store{
		players: make(map[string]PlayerRecord),
		owners:  make(map[string]string),
	}
}

// UpsertPlayer inserts or fully replaces the PlayerRecord for its name
// and stamps owner as the record's owning connection. Two connections
// declaring the same name silently overwrite each other (last write
// wins), ownership included. A connection re-submitting under a new
// name releases any record it owned under the old name.
//
// Invariant: a connection owns at most one record at a time.
//
// Precondition: rec.Name and owner must be non-empty.
func (s *Store) UpsertPlayer(rec PlayerRecord, owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, o := range s.owners {
		if o == owner && name != rec.Name {
			delete(s.players, name)
			delete(s.owners, name)
		}
	}

	rec.Skills = copySkills(rec.Skills)
	s.players[rec.Name] = rec
	s.owners[rec.Name] = owner
}

// ApplyEdit sets the named stat on the named player's record.
// The stat token is case-insensitive and must be "hp", "mp", or one of
// the six ability abbreviations.
//
// Postcondition: Returns nil and the record is updated, or ErrUnknownPlayer /
// ErrUnknownStat and the store is unchanged.
func (s *Store) ApplyEdit(playerName, stat string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.players[playerName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, playerName)
	}

	switch strings.ToLower(stat) {
	case "hp":
		rec.HP = value
	case "mp":
		rec.MP = value
	default:
		if !rec.Abilities.Set(stat, value) {
			return fmt.Errorf("%w: %q", ErrUnknownStat, stat)
		}
	}

	s.players[playerName] = rec
	return nil
}

// RemovePlayer deletes the PlayerRecord for the given name, but only if
// owner still owns it. Records are destroyed when their owning
// connection closes; a connection whose record was overwritten by a
// later claimant no longer owns the name, so its disconnect leaves the
// live record alone.
//
// Postcondition: Returns true if an owned record existed and was removed.
func (s *Store) RemovePlayer(name, owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owners[name] != owner {
		return false
	}
	delete(s.players, name)
	delete(s.owners, name)
	return true
}

// RecordInitiative appends one rolled value to the initiative order.
// The order is append-only for the session lifetime; it never rejects.
func (s *Store) RecordInitiative(name string, roll int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initiative = append(s.initiative, InitiativeEntry{Name: name, Roll: roll})
}

// AddEnemy appends a DM-authored enemy. No deduplication by name:
// re-announcing an enemy creates a second entry.
func (s *Store) AddEnemy(rec EnemyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enemies = append(s.enemies, rec)
}

// AddLocation appends a DM-authored location. No deduplication by name.
func (s *Store) AddLocation(rec LocationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = append(s.locations, rec)
}

// Player returns a copy of the record for the given name.
//
// Postcondition: Returns (record, true) if found, or (zero, false).
func (s *Store) Player(name string) (PlayerRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.players[name]
	if !ok {
		return PlayerRecord{}, false
	}
	rec.Skills = copySkills(rec.Skills)
	return rec, true
}

// Players returns copies of all player records, sorted by name.
func (s *Store) Players() []PlayerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PlayerRecord, 0, len(s.players))
	for _, rec := range s.players {
		rec.Skills = copySkills(rec.Skills)
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Enemies returns a copy of the enemy list in creation order.
func (s *Store) Enemies() []EnemyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EnemyRecord, len(s.enemies))
	copy(out, s.enemies)
	return out
}

// Locations returns a copy of the location list in creation order.
func (s *Store) Locations() []LocationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LocationRecord, len(s.locations))
	copy(out, s.locations)
	return out
}

// Initiative returns a copy of the initiative order in roll order.
func (s *Store) Initiative() []InitiativeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]InitiativeEntry, len(s.initiative))
	copy(out, s.initiative)
	return out
}

func copySkills(skills []string) []string {
	if skills == nil {
		return nil
	}
	out := make([]string, len(skills))
	copy(out, skills)
	return out
}
