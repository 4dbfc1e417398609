package protocol

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dungeonsync/campaignd/internal/game/session"
)

// initiativePattern matches the initiative chat line produced by clients.
// The name portion may contain spaces.
var initiativePattern = regexp.MustCompile(`^(.+) rolled a (\d+) for initiative\.$`)

// Escape encodes spaces as underscores so a payload field survives
// space-delimited framing.
func Escape(field string) string {
	return strings.ReplaceAll(field, " ", "_")
}

// Unescape reverses Escape. A literal underscore in the original text
// decodes to a space; the loss is inherent to the wire format.
func Unescape(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// Decode maps one protocol line to a Message variant. Decode is total:
// it never fails. Lines that match no command shape, and command lines
// with wrong field counts or non-integer numeric fields, degrade to
// PlainChat carrying the raw line.
//
// Postcondition: Returns a non-nil Message.
func Decode(line string) Message {
	switch {
	case strings.HasPrefix(line, "PLAYER_DATA "):
		if msg, ok := decodePlayerData(line); ok {
			return msg
		}
	case strings.HasPrefix(line, "ENEMY_DATA "):
		if msg, ok := decodeEnemyData(line); ok {
			return msg
		}
	case strings.HasPrefix(line, "LOCATION_DATA "):
		if msg, ok := decodeLocationData(line); ok {
			return msg
		}
	case strings.HasPrefix(line, "/edit_"):
		if msg, ok := decodeStatEdit(line); ok {
			return msg
		}
	case strings.HasPrefix(line, "ROLE "):
		if msg, ok := decodeRole(line); ok {
			return msg
		}
	case strings.HasPrefix(line, "DM: "):
		return Narration{Text: strings.TrimPrefix(line, "DM: ")}
	}

	if m := initiativePattern.FindStringSubmatch(line); m != nil {
		if roll, err := strconv.Atoi(m[2]); err == nil {
			return InitiativeRoll{Name: m[1], Roll: roll}
		}
	}

	return PlainChat{Text: line}
}

// Encode maps a Message variant to exactly one protocol line, with no
// trailing terminator. The transport appends the line delimiter.
//
// Precondition: msg must be one of the variants defined in this package.
func Encode(msg Message) string {
	switch m := msg.(type) {
	case PlainChat:
		return m.Text
	case Narration:
		return "DM: " + m.Text
	case InitiativeRoll:
		return fmt.Sprintf("%s rolled a %d for initiative.", m.Name, m.Roll)
	case PlayerData:
		return encodePlayerData(m.Record)
	case EnemyData:
		r := m.Record
		return fmt.Sprintf("ENEMY_DATA %s %s %d %d %d %s",
			Escape(r.Name), Escape(r.Type), r.Level, r.HP, r.AC, Escape(r.Description))
	case LocationData:
		r := m.Record
		return fmt.Sprintf("LOCATION_DATA %s %s %s",
			Escape(r.Name), Escape(r.Type), Escape(r.Description))
	case StatEdit:
		return fmt.Sprintf("/edit_%s %s %d", m.Stat, Escape(m.Player), m.Value)
	case RoleDeclaration:
		return "ROLE " + m.Role
	}
	panic(fmt.Sprintf("protocol: Encode called with unknown message type %T", msg))
}

// EditConfirmation builds the human-readable broadcast confirming a
// successful DM stat edit.
func EditConfirmation(player, stat string, value int) string {
	return fmt.Sprintf("DM updated %s's %s to %d", player, stat, value)
}

func encodePlayerData(r session.PlayerRecord) string {
	v := r.Abilities.Values()

	skills := make([]string, len(r.Skills))
	for i, s := range r.Skills {
		skills[i] = Escape(s)
	}

	return fmt.Sprintf("PLAYER_DATA %s %s %s %d %d %d %d %d %d %d %d %d %s",
		Escape(r.Name), Escape(r.Race), Escape(r.Class),
		r.Level, r.HP, r.MP,
		v[0], v[1], v[2], v[3], v[4], v[5],
		strings.Join(skills, ","))
}

func decodePlayerData(line string) (Message, bool) {
	fields := strings.Fields(line)
	if len(fields) < 13 {
		return nil, false
	}

	nums := make([]int, 9)
	for i := 0; i < 9; i++ {
		n, err := strconv.Atoi(fields[4+i])
		if err != nil {
			return nil, false
		}
		nums[i] = n
	}

	rec := session.PlayerRecord{
		Name:  Unescape(fields[1]),
		Race:  Unescape(fields[2]),
		Class: Unescape(fields[3]),
		Level: nums[0],
		HP:    nums[1],
		MP:    nums[2],
		Abilities: session.AbilityScores{
			STR: nums[3], DEX: nums[4], CON: nums[5],
			INT: nums[6], WIS: nums[7], CHA: nums[8],
		},
	}

	if len(fields) > 13 {
		raw := strings.Join(fields[13:], " ")
		parts := strings.Split(raw, ",")
		rec.Skills = make([]string, len(parts))
		for i, p := range parts {
			rec.Skills[i] = Unescape(p)
		}
	}

	return PlayerData{Record: rec}, true
}

func decodeEnemyData(line string) (Message, bool) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return nil, false
	}

	level, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, false
	}
	hp, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, false
	}
	ac, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, false
	}

	return EnemyData{Record: session.EnemyRecord{
		Name:        Unescape(fields[1]),
		Type:        Unescape(fields[2]),
		Level:       level,
		HP:          hp,
		AC:          ac,
		Description: Unescape(strings.Join(fields[6:], " ")),
	}}, true
}

func decodeLocationData(line string) (Message, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, false
	}

	return LocationData{Record: session.LocationRecord{
		Name:        Unescape(fields[1]),
		Type:        Unescape(fields[2]),
		Description: Unescape(strings.Join(fields[3:], " ")),
	}}, true
}

func decodeStatEdit(line string) (Message, bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return nil, false
	}

	value, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, false
	}

	return StatEdit{
		Stat:   strings.ToLower(strings.TrimPrefix(fields[0], "/edit_")),
		Player: Unescape(fields[1]),
		Value:  value,
	}, true
}

func decodeRole(line string) (Message, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return nil, false
	}

	role := strings.ToLower(fields[1])
	if role != RoleDM && role != RolePlayer {
		return nil, false
	}
	return RoleDeclaration{Role: role}, true
}
