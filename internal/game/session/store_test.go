package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ariaRecord() PlayerRecord {
	return PlayerRecord{
		Name:  "Aria",
		Race:  "Elf",
		Class: "Wizard",
		Level: 3,
		HP:    18,
		MP:    22,
		Abilities: AbilityScores{
			STR: 10, DEX: 14, CON: 12, INT: 16, WIS: 13, CHA: 11,
		},
		Skills: []string{"Fireball", "Arcana"},
	}
}

func TestUpsertPlayer_InsertAndReplace(t *testing.T) {
	store := NewStore()

	store.UpsertPlayer(ariaRecord(), "conn-1")
	got, ok := store.Player("Aria")
	require.True(t, ok)
	assert.Equal(t, ariaRecord(), got)

	// Re-saving a character fully replaces the prior record.
	updated := ariaRecord()
	updated.Level = 4
	updated.Skills = []string{"Fireball"}
	store.UpsertPlayer(updated, "conn-1")

	got, ok = store.Player("Aria")
	require.True(t, ok)
	assert.Equal(t, updated, got)
	assert.Len(t, store.Players(), 1, "upsert by the same name must not create a second record")
}

func TestUpsertPlayer_LastWriteWins(t *testing.T) {
	store := NewStore()

	first := ariaRecord()
	second := ariaRecord()
	second.Class = "Sorcerer"

	store.UpsertPlayer(first, "conn-1")
	store.UpsertPlayer(second, "conn-2")

	got, ok := store.Player("Aria")
	require.True(t, ok)
	assert.Equal(t, "Sorcerer", got.Class)

	// Ownership followed the overwrite: the first connection's disconnect
	// must not destroy the second connection's live record.
	assert.False(t, store.RemovePlayer("Aria", "conn-1"))
	_, ok = store.Player("Aria")
	assert.True(t, ok, "record owned by the overwriting connection survives the stale owner's removal")

	assert.True(t, store.RemovePlayer("Aria", "conn-2"))
	_, ok = store.Player("Aria")
	assert.False(t, ok)
}

func TestUpsertPlayer_RenameReleasesOldRecord(t *testing.T) {
	store := NewStore()

	store.UpsertPlayer(ariaRecord(), "conn-1")

	renamed := ariaRecord()
	renamed.Name = "Arietta"
	store.UpsertPlayer(renamed, "conn-1")

	_, ok := store.Player("Aria")
	assert.False(t, ok, "a connection re-submitting under a new name releases its old record")
	_, ok = store.Player("Arietta")
	assert.True(t, ok)
	assert.Len(t, store.Players(), 1)
}

func TestApplyEdit_HP(t *testing.T) {
	store := NewStore()
	store.UpsertPlayer(ariaRecord(), "conn-1")

	require.NoError(t, store.ApplyEdit("Aria", "hp", 25))

	got, _ := store.Player("Aria")
	assert.Equal(t, 25, got.HP)
}

func TestApplyEdit_AbilityScores(t *testing.T) {
	tests := []struct {
		stat string
		get  func(AbilityScores) int
	}{
		{"str", func(a AbilityScores) int { return a.STR }},
		{"dex", func(a AbilityScores) int { return a.DEX }},
		{"con", func(a AbilityScores) int { return a.CON }},
		{"int", func(a AbilityScores) int { return a.INT }},
		{"wis", func(a AbilityScores) int { return a.WIS }},
		{"cha", func(a AbilityScores) int { return a.CHA }},
	}
	for _, tt := range tests {
		t.Run(tt.stat, func(t *testing.T) {
			store := NewStore()
			store.UpsertPlayer(ariaRecord(), "conn-1")

			require.NoError(t, store.ApplyEdit("Aria", tt.stat, 19))

			got, _ := store.Player("Aria")
			assert.Equal(t, 19, tt.get(got.Abilities))
		})
	}
}

func TestApplyEdit_StatTokenCaseInsensitive(t *testing.T) {
	store := NewStore()
	store.UpsertPlayer(ariaRecord(), "conn-1")

	require.NoError(t, store.ApplyEdit("Aria", "HP", 7))
	require.NoError(t, store.ApplyEdit("Aria", "Dex", 8))

	got, _ := store.Player("Aria")
	assert.Equal(t, 7, got.HP)
	assert.Equal(t, 8, got.Abilities.DEX)
}

func TestApplyEdit_UnknownPlayer(t *testing.T) {
	store := NewStore()
	store.UpsertPlayer(ariaRecord(), "conn-1")

	err := store.ApplyEdit("ghost", "hp", 5)
	require.ErrorIs(t, err, ErrUnknownPlayer)

	// Store unchanged.
	got, _ := store.Player("Aria")
	assert.Equal(t, ariaRecord(), got)
}

func TestApplyEdit_UnknownStat(t *testing.T) {
	store := NewStore()
	store.UpsertPlayer(ariaRecord(), "conn-1")

	err := store.ApplyEdit("Aria", "luck", 99)
	require.ErrorIs(t, err, ErrUnknownStat)

	got, _ := store.Player("Aria")
	assert.Equal(t, ariaRecord(), got)
}

func TestRemovePlayer(t *testing.T) {
	store := NewStore()
	store.UpsertPlayer(ariaRecord(), "conn-1")

	assert.True(t, store.RemovePlayer("Aria", "conn-1"))
	_, ok := store.Player("Aria")
	assert.False(t, ok)

	assert.False(t, store.RemovePlayer("Aria", "conn-1"), "second removal reports no record")
}

func TestRecordInitiative_AppendOnly(t *testing.T) {
	store := NewStore()

	store.RecordInitiative("Aria", 17)
	store.RecordInitiative("Boric", 4)
	store.RecordInitiative("Aria", 12) // re-rolls append, never replace

	got := store.Initiative()
	require.Len(t, got, 3)
	assert.Equal(t, InitiativeEntry{Name: "Aria", Roll: 17}, got[0])
	assert.Equal(t, InitiativeEntry{Name: "Boric", Roll: 4}, got[1])
	assert.Equal(t, InitiativeEntry{Name: "Aria", Roll: 12}, got[2])
}

func TestAddEnemy_NoDedup(t *testing.T) {
	store := NewStore()
	goblin := EnemyRecord{Name: "Goblin", Type: "Grunt", Level: 1, HP: 7, AC: 12, Description: "A sneaky goblin"}

	store.AddEnemy(goblin)
	store.AddEnemy(goblin)

	assert.Len(t, store.Enemies(), 2, "rewriting an enemy with the same name creates a second entry")
}

func TestAddLocation_NoDedup(t *testing.T) {
	store := NewStore()
	tavern := LocationRecord{Name: "Tavern", Type: "Settlement", Description: "Smoky and loud"}

	store.AddLocation(tavern)
	store.AddLocation(tavern)

	assert.Len(t, store.Locations(), 2)
}

func TestPlayer_ReturnsCopy(t *testing.T) {
	store := NewStore()
	store.UpsertPlayer(ariaRecord(), "conn-1")

	got, _ := store.Player("Aria")
	got.Skills[0] = "mutated"

	fresh, _ := store.Player("Aria")
	assert.Equal(t, "Fireball", fresh.Skills[0], "callers must not be able to mutate stored skills")
}

func TestAbilityScores_GetSet(t *testing.T) {
	a := DefaultAbilities()

	v, ok := a.Get("wis")
	require.True(t, ok)
	assert.Equal(t, 10, v)

	require.True(t, a.Set("WIS", 15))
	v, _ = a.Get("WIS")
	assert.Equal(t, 15, v)

	_, ok = a.Get("luck")
	assert.False(t, ok)
	assert.False(t, a.Set("luck", 1))
}

func TestAbilityScores_Values_ProtocolOrder(t *testing.T) {
	a := AbilityScores{STR: 1, DEX: 2, CON: 3, INT: 4, WIS: 5, CHA: 6}
	assert.Equal(t, [6]int{1, 2, 3, 4, 5, 6}, a.Values())
}
