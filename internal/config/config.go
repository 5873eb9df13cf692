// Package config loads and saves the user settings in ~/.config/piradio.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	AppName         = "piradio"
	AppTagline      = "Live radio in your terminal"
	AppDescription  = "A terminal player for German live radio stations with level meters"
	AppProjectURL   = "https://github.com/glebovdev/piradio"
	AppProjectShort = "github.com/glebovdev/piradio"

	ConfigDir      = ".config/piradio"
	ConfigFileName = "config.yml"
	EnvFileName    = ".env"

	// EnvBackendURL overrides backend_url without touching the config file.
	EnvBackendURL = "PIRADIO_BACKEND_URL"

	DefaultVolume = 70
	MinVolume     = 0
	MaxVolume     = 100

	MaxFavorites = 20

	DefaultPollInterval = 15 * time.Second
	MinPollInterval     = 5 * time.Second
	MaxPollInterval     = 5 * time.Minute

	DefaultSwitchDelay = 120 * time.Millisecond
	MaxSwitchDelay     = 2 * time.Second
)

type MeterStyle string

const (
	MeterLED    MeterStyle = "led"
	MeterAnalog MeterStyle = "analog"
)

// ErrFavoritesFull is returned when adding beyond MaxFavorites.
var ErrFavoritesFull = fmt.Errorf("favorites are limited to %d stations", MaxFavorites)

// AppVersion can be overridden at build time using ldflags:
// go build -ldflags "-X github.com/glebovdev/piradio/internal/config.AppVersion=1.0.0"
var AppVersion = "dev"

// ClampVolume ensures volume is within the valid range [0, 100].
func ClampVolume(volume int) int {
	return max(MinVolume, min(MaxVolume, volume))
}

type Theme struct {
	Background           string `yaml:"background"`
	Foreground           string `yaml:"foreground"`
	Borders              string `yaml:"borders"`
	Highlight            string `yaml:"highlight"`
	MutedVolume          string `yaml:"muted_volume"`
	HeaderBackground     string `yaml:"header_background"`
	ListHeaderBackground string `yaml:"list_header_background"`
	ListHeaderForeground string `yaml:"list_header_foreground"`
	HelpBackground       string `yaml:"help_background"`
	HelpForeground       string `yaml:"help_foreground"`
	HelpHotkey           string `yaml:"help_hotkey"`
	TagBackground        string `yaml:"tag_background"`
	ModalBackground      string `yaml:"modal_background"`
	MeterOff             string `yaml:"meter_off"`
	MeterLow             string `yaml:"meter_low"`
	MeterMid             string `yaml:"meter_mid"`
	MeterHigh            string `yaml:"meter_high"`
}

type Config struct {
	Volume       int           `yaml:"volume"`
	LastStation  string        `yaml:"last_station"`
	Autostart    bool          `yaml:"autostart"`
	Favorites    []string      `yaml:"favorites"`
	BackendURL   string        `yaml:"backend_url"`
	MeterStyle   MeterStyle    `yaml:"meter_style"`
	PollInterval time.Duration `yaml:"poll_interval"`
	SwitchDelay  time.Duration `yaml:"switch_delay"`
	Catalog      string        `yaml:"catalog,omitempty"`
	Theme        Theme         `yaml:"theme"`

	backendOverride string
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ConfigDir, ConfigFileName), nil
}

// LoadEnv reads KEY=value files into the process environment. Missing files
// are skipped; variables already set are left alone.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// EnvPaths returns the .env files consulted at startup: the working
// directory first, then the config directory.
func EnvPaths() []string {
	paths := []string{EnvFileName}
	if configPath, err := GetConfigPath(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(configPath), EnvFileName))
	}
	return paths
}

func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}

	return LoadFile(configPath)
}

// LoadFile reads the config at path. A missing file yields the defaults;
// an unreadable one yields the defaults and an error.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.read(path); err != nil {
		cfg = DefaultConfig()
		cfg.applyEnv()
		return cfg, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) read(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	c.normalize()
	return nil
}

func (c *Config) normalize() {
	c.Volume = ClampVolume(c.Volume)
	c.BackendURL = strings.TrimRight(strings.TrimSpace(c.BackendURL), "/")
	c.MeterStyle = ParseMeterStyle(string(c.MeterStyle))

	switch {
	case c.PollInterval <= 0:
		c.PollInterval = DefaultPollInterval
	case c.PollInterval < MinPollInterval:
		c.PollInterval = MinPollInterval
	case c.PollInterval > MaxPollInterval:
		c.PollInterval = MaxPollInterval
	}

	c.SwitchDelay = max(0, min(MaxSwitchDelay, c.SwitchDelay))

	if c.Favorites == nil {
		c.Favorites = []string{}
	}
	c.Favorites = dedupe(c.Favorites)
	if len(c.Favorites) > MaxFavorites {
		c.Favorites = c.Favorites[:MaxFavorites]
	}
}

func (c *Config) applyEnv() {
	c.backendOverride = strings.TrimRight(strings.TrimSpace(os.Getenv(EnvBackendURL)), "/")
}

// Backend returns the backend address in effect, the environment taking precedence.
func (c *Config) Backend() string {
	if c.backendOverride != "" {
		return c.backendOverride
	}
	return c.BackendURL
}

// Save writes the configuration to disk atomically using temp file + rename.
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(configPath)
}

func (c *Config) SaveFile(configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpFile, err := os.CreateTemp(configDir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, configPath); err != nil {
		return fmt.Errorf("failed to rename config file: %w", err)
	}

	tmpPath = ""
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Volume:       DefaultVolume,
		Favorites:    []string{},
		MeterStyle:   MeterLED,
		PollInterval: DefaultPollInterval,
		SwitchDelay:  DefaultSwitchDelay,
		Theme: Theme{
			Background:           "#16181d",
			Foreground:           "#c9d1d9",
			Borders:              "#3b4048",
			Highlight:            "#34d399",
			MutedVolume:          "#ef4444",
			HeaderBackground:     "#1f2937",
			ListHeaderBackground: "#2d333b",
			ListHeaderForeground: "#e5e7eb",
			HelpBackground:       "#22272e",
			HelpForeground:       "#9ca3af",
			HelpHotkey:           "#34d399",
			TagBackground:        "#2d333b",
			ModalBackground:      "#1c2128",
			MeterOff:             "#30363d",
			MeterLow:             "#22c55e",
			MeterMid:             "#eab308",
			MeterHigh:            "#ef4444",
		},
	}
}

func ParseMeterStyle(s string) MeterStyle {
	switch MeterStyle(strings.ToLower(strings.TrimSpace(s))) {
	case MeterAnalog:
		return MeterAnalog
	default:
		return MeterLED
	}
}

func (c *Config) ToggleMeterStyle() MeterStyle {
	if c.MeterStyle == MeterAnalog {
		c.MeterStyle = MeterLED
	} else {
		c.MeterStyle = MeterAnalog
	}
	return c.MeterStyle
}

func (c *Config) IsFavorite(stationID string) bool {
	return slices.Contains(c.Favorites, stationID)
}

// ToggleFavorite adds or removes stationID and reports whether it is now a favorite.
func (c *Config) ToggleFavorite(stationID string) (bool, error) {
	if i := slices.Index(c.Favorites, stationID); i >= 0 {
		c.Favorites = slices.Delete(c.Favorites, i, i+1)
		return false, nil
	}
	if len(c.Favorites) >= MaxFavorites {
		return false, ErrFavoritesFull
	}
	c.Favorites = append(c.Favorites, stationID)
	return true, nil
}

func (c *Config) CleanupFavorites(validStationIDs map[string]bool) {
	cleaned := []string{}
	for _, id := range c.Favorites {
		if validStationIDs[id] {
			cleaned = append(cleaned, id)
		}
	}
	c.Favorites = cleaned
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func GetColor(colorStr string) tcell.Color {
	if colorStr == "" || colorStr == "default" {
		return tcell.ColorDefault
	}
	return tcell.GetColor(colorStr)
}
