// Package main provides a campaign content checker: it loads a YAML
// content directory the way the server does at startup and reports what
// it found, so DMs can validate their files before game night.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dungeonsync/campaignd/internal/game/content"
)

func main() {
	dir := flag.String("dir", "", "path to campaign YAML directory")
	verbose := flag.Bool("v", false, "list every enemy and location")
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "usage: campaign-content -dir <dir> [-v]")
		os.Exit(1)
	}

	start := time.Now()
	campaign, err := content.LoadCampaignFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		for _, e := range campaign.Enemies {
			fmt.Printf("enemy    %-20s %-12s level=%d hp=%d ac=%d\n",
				e.Name, e.Type, e.Level, e.HP, e.AC)
		}
		for _, l := range campaign.Locations {
			fmt.Printf("location %-20s %s\n", l.Name, l.Type)
		}
	}

	fmt.Printf("loaded %d enemies and %d locations in %s\n",
		len(campaign.Enemies), len(campaign.Locations),
		time.Since(start).Round(time.Millisecond))
}
