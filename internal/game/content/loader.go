// Package content loads DM-prepared campaign material (enemies and
// locations) from YAML files so a campaign's world objects are available
// in the session store before the first client connects.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dungeonsync/campaignd/internal/game/session"
)

// yamlCampaignFile is the top-level YAML structure for campaign files.
type yamlCampaignFile struct {
	Enemies   []yamlEnemy    `yaml:"enemies"`
	Locations []yamlLocation `yaml:"locations"`
}

// yamlEnemy is the YAML representation of an enemy.
type yamlEnemy struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Level       int    `yaml:"level"`
	HP          int    `yaml:"hp"`
	AC          int    `yaml:"ac"`
	Description string `yaml:"description"`
}

// yamlLocation is the YAML representation of a location.
type yamlLocation struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// Campaign holds the world objects loaded from one or more campaign files.
type Campaign struct {
	Enemies   []session.EnemyRecord
	Locations []session.LocationRecord
}

// LoadCampaignFromBytes parses and validates campaign content from YAML bytes.
// Omitted enemy level, hp, and ac default to 1, 10, and 10.
//
// Precondition: data must be valid YAML conforming to the campaign schema.
// Postcondition: Returns a validated Campaign or a non-nil error.
func LoadCampaignFromBytes(data []byte) (*Campaign, error) {
	var file yamlCampaignFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing campaign yaml: %w", err)
	}

	c := &Campaign{}
	for i, e := range file.Enemies {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("enemy %d: name must not be empty", i)
		}
		if strings.TrimSpace(e.Type) == "" {
			return nil, fmt.Errorf("enemy %q: type must not be empty", e.Name)
		}
		rec := session.EnemyRecord{
			Name:        e.Name,
			Type:        e.Type,
			Level:       e.Level,
			HP:          e.HP,
			AC:          e.AC,
			Description: e.Description,
		}
		if rec.Level == 0 {
			rec.Level = 1
		}
		if rec.HP == 0 {
			rec.HP = 10
		}
		if rec.AC == 0 {
			rec.AC = 10
		}
		c.Enemies = append(c.Enemies, rec)
	}

	for i, l := range file.Locations {
		if strings.TrimSpace(l.Name) == "" {
			return nil, fmt.Errorf("location %d: name must not be empty", i)
		}
		if strings.TrimSpace(l.Type) == "" {
			return nil, fmt.Errorf("location %q: type must not be empty", l.Name)
		}
		c.Locations = append(c.Locations, session.LocationRecord{
			Name:        l.Name,
			Type:        l.Type,
			Description: l.Description,
		})
	}

	return c, nil
}

// LoadCampaignFromFile reads and validates a single campaign YAML file.
//
// Precondition: path must point to a valid YAML campaign file.
// Postcondition: Returns a validated Campaign or a non-nil error.
func LoadCampaignFromFile(path string) (*Campaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading campaign file %s: %w", path, err)
	}
	c, err := LoadCampaignFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("campaign file %s: %w", path, err)
	}
	return c, nil
}

// LoadCampaignFromDir loads all .yaml/.yml files in dir and merges their
// contents in filename order.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the merged Campaign or a non-nil error.
func LoadCampaignFromDir(dir string) (*Campaign, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading campaign directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	merged := &Campaign{}
	for _, path := range paths {
		c, err := LoadCampaignFromFile(path)
		if err != nil {
			return nil, err
		}
		merged.Enemies = append(merged.Enemies, c.Enemies...)
		merged.Locations = append(merged.Locations, c.Locations...)
	}
	return merged, nil
}

// Preload appends every loaded enemy and location to the store.
//
// Precondition: store must be non-nil.
func (c *Campaign) Preload(store *session.Store) {
	for _, e := range c.Enemies {
		store.AddEnemy(e)
	}
	for _, l := range c.Locations {
		store.AddLocation(l)
	}
}
