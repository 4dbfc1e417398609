// Package main provides the console front end for a campaign session:
// a line-mode client that joins as DM or player, relays chat, rolls
// dice, and submits character sheets.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/dungeonsync/campaignd/internal/client"
	"github.com/dungeonsync/campaignd/internal/game/dice"
	"github.com/dungeonsync/campaignd/internal/game/session"
	"github.com/dungeonsync/campaignd/internal/observability"
	"github.com/dungeonsync/campaignd/internal/protocol"
)

func main() {
	addr := flag.String("addr", "localhost:12345", "session server address")
	role := flag.String("role", "player", "session role: player or dm")
	name := flag.String("name", "", "character name; required for players")
	race := flag.String("race", "Human", "character race")
	class := flag.String("class", "Fighter", "character class")
	level := flag.Int("level", 1, "character level")
	hp := flag.Int("hp", 10, "character hit points")
	mp := flag.Int("mp", 10, "character magic points")
	skills := flag.String("skills", "", "comma-separated skill list")
	logLevel := flag.String("log-level", "warn", "log level for diagnostics")
	flag.Parse()

	if *role != protocol.RolePlayer && *role != protocol.RoleDM {
		log.Fatalf("unknown role %q: want player or dm", *role)
	}
	if *role == protocol.RolePlayer && *name == "" {
		log.Fatal("players must set -name")
	}

	logger, err := observability.NewConsoleLogger(*logLevel)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)

	c, err := client.Dial(*addr, logger)
	if err != nil {
		log.Fatalf("connecting: %v", err)
	}
	defer c.Close()

	c.OnMessage(func(line string) {
		fmt.Println(line)
	})
	go func() {
		if err := c.Listen(); err != nil {
			logger.Error("connection lost", zap.Error(err))
		}
	}()

	if err := c.SendMessage(protocol.Encode(protocol.RoleDeclaration{Role: *role})); err != nil {
		log.Fatalf("declaring role: %v", err)
	}

	if *role == protocol.RolePlayer {
		sheet := buildSheet(*name, *race, *class, *level, *hp, *mp, *skills)
		if err := c.SendMessage(protocol.Encode(protocol.PlayerData{Record: sheet})); err != nil {
			log.Fatalf("sending character sheet: %v", err)
		}
		fmt.Printf("Joined as %s the %s %s. Type /roll to roll initiative, /quit to leave.\n",
			*name, *race, *class)
	} else {
		fmt.Println("Joined as DM. Prefix narration with 'DM: '. Type /quit to leave.")
	}

	input := make(chan string)
	go func() {
		defer close(input)
		stdin := bufio.NewScanner(os.Stdin)
		for stdin.Scan() {
			input <- stdin.Text()
		}
	}()

	for {
		select {
		case <-c.Done():
			fmt.Println("session ended")
			return
		case raw, ok := <-input:
			if !ok {
				return
			}
			line := strings.TrimSpace(raw)
			switch {
			case line == "":
			case line == "/quit":
				return
			case line == "/roll" || strings.HasPrefix(line, "/roll "):
				if err := handleRoll(c, roller, *name, strings.TrimSpace(strings.TrimPrefix(line, "/roll"))); err != nil {
					logger.Error("sending roll", zap.Error(err))
					return
				}
			default:
				if err := c.SendMessage(line); err != nil {
					logger.Error("sending", zap.Error(err))
					return
				}
			}
		}
	}
}

// handleRoll rolls a dice expression locally and shares the result. A
// bare d20 is an initiative roll and goes out in the initiative chat
// format; anything else is shared as plain chat with its audit trail.
// A bad expression is reported locally and is not an error.
func handleRoll(c *client.Client, roller *dice.Roller, name, expr string) error {
	if expr == "" {
		expr = "d20"
	}
	result, err := roller.RollExpr(expr)
	if err != nil {
		fmt.Printf("bad roll %q: %v\n", expr, err)
		return nil
	}

	fmt.Println(result)

	var line string
	if expr == "d20" && name != "" {
		line = fmt.Sprintf("%s rolled a %d for initiative.", name, result.Total())
	} else {
		line = fmt.Sprintf("%s rolls %s", name, result)
	}
	return c.SendMessage(line)
}

// buildSheet assembles a PlayerRecord from the command-line flags.
func buildSheet(name, race, class string, level, hp, mp int, skills string) session.PlayerRecord {
	record := session.PlayerRecord{
		Name:      name,
		Race:      race,
		Class:     class,
		Level:     level,
		HP:        hp,
		MP:        mp,
		Abilities: session.DefaultAbilities(),
	}
	if skills != "" {
		for _, s := range strings.Split(skills, ",") {
			if s = strings.TrimSpace(s); s != "" {
				record.Skills = append(record.Skills, s)
			}
		}
	}
	return record
}
