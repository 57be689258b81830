// Package seed loads the static content used to populate an empty database
// on first boot. A default dataset is embedded; SEED_PATH overrides it.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultSeed []byte

type Seed struct {
	Title    string        `yaml:"title"`
	Subtitle string        `yaml:"subtitle"`
	Sections []SectionSeed `yaml:"sections"`
	// Cards maps a section slug to its cards.
	Cards map[string][]CardSeed `yaml:"cards_by_section"`
}

type SectionSeed struct {
	Slug        string `yaml:"slug"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	Group       string `yaml:"group"`
	Order       int    `yaml:"order"`
}

type CardSeed struct {
	Title       string `yaml:"title"`
	Href        string `yaml:"href"`
	External    bool   `yaml:"external"`
	Icon        string `yaml:"icon"`
	Status      string `yaml:"status"`
	Metric      string `yaml:"metric"`
	Trend       string `yaml:"trend"`
	Description string `yaml:"description"`
	Order       int    `yaml:"order"`
}

// Load reads the seed from path, or the embedded default when path is empty
// or missing.
func Load(path string) (*Seed, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read seed %s: %w", path, err)
			}
		} else {
			data = b
		}
	}

	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &s, nil
}
