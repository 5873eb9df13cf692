// Package station defines the radio station descriptors and the static catalog they live in.
package station

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Station describes a live radio station. Values are created once at startup
// and never mutated afterwards.
type Station struct {
	ID        string `yaml:"id" json:"id"`
	Name      string `yaml:"name" json:"name"`
	StreamURL string `yaml:"stream_url" json:"stream_url"`
	LogoURL   string `yaml:"logo_url,omitempty" json:"logo_url,omitempty"`
	Region    string `yaml:"region,omitempty" json:"region,omitempty"`
	Genre     string `yaml:"genre,omitempty" json:"genre,omitempty"`
}

// Tags returns the non-empty region and genre labels in display order.
func (s Station) Tags() []string {
	tags := make([]string, 0, 2)
	if s.Region != "" {
		tags = append(tags, s.Region)
	}
	if s.Genre != "" {
		tags = append(tags, s.Genre)
	}
	return tags
}

var (
	ErrEmptyCatalog = errors.New("station catalog is empty")
	ErrDuplicateID  = errors.New("duplicate station id")
)

// Catalog is an ordered, read-only list of stations with lookup by ID.
type Catalog struct {
	stations []Station
	index    map[string]int
}

// NewCatalog validates the given stations and builds a catalog preserving their order.
func NewCatalog(stations []Station) (*Catalog, error) {
	if len(stations) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		stations: make([]Station, len(stations)),
		index:    make(map[string]int, len(stations)),
	}
	copy(c.stations, stations)

	for i, s := range c.stations {
		if strings.TrimSpace(s.ID) == "" {
			return nil, fmt.Errorf("station at position %d has no id", i)
		}
		if strings.TrimSpace(s.StreamURL) == "" {
			return nil, fmt.Errorf("station %s has no stream url", s.ID)
		}
		if _, exists := c.index[s.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, s.ID)
		}
		c.index[s.ID] = i
	}

	return c, nil
}

// LoadCatalog reads a YAML station list from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file struct {
		Stations []Station `yaml:"stations"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	return NewCatalog(file.Stations)
}

func (c *Catalog) Len() int {
	return len(c.stations)
}

// All returns a copy of the stations in catalog order.
func (c *Catalog) All() []Station {
	result := make([]Station, len(c.stations))
	copy(result, c.stations)
	return result
}

// At returns the station at the given position.
func (c *Catalog) At(i int) (Station, bool) {
	if i < 0 || i >= len(c.stations) {
		return Station{}, false
	}
	return c.stations[i], true
}

func (c *Catalog) Get(id string) (Station, bool) {
	i, ok := c.index[id]
	if !ok {
		return Station{}, false
	}
	return c.stations[i], true
}

// IndexOf returns the position of the station with the given ID, or -1.
func (c *Catalog) IndexOf(id string) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

func (c *Catalog) ValidIDs() map[string]bool {
	ids := make(map[string]bool, len(c.stations))
	for _, s := range c.stations {
		ids[s.ID] = true
	}
	return ids
}
